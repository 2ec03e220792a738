package domain

import (
	"context"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
)

// StoredContact is a contact row together with its bookkeeping columns.
type StoredContact struct {
	Contact  coredomain.Contact
	Holder   coredomain.Holder
	IsMyCard bool
	IsLocal  bool
}

// ContactRepository persists contacts. Lookups that match nothing return ErrNotFound.
// A nil or zero holder matches contacts of every holder.
type ContactRepository interface {
	Create(ctx context.Context, sc *StoredContact) (int64, error)
	Update(ctx context.Context, c *coredomain.Contact) error
	DeleteByKey(ctx context.Context, key string) (int64, error)
	GetByID(ctx context.Context, id int64) (*StoredContact, error)
	GetByKey(ctx context.Context, key string, holder *coredomain.Holder) (*coredomain.Contact, error)
	List(ctx context.Context, holder *coredomain.Holder) ([]*coredomain.Contact, error)
	ListByEmail(ctx context.Context, email string, holder *coredomain.Holder) ([]*coredomain.Contact, error)
	ListByPhoneNumber(ctx context.Context, number string, holder *coredomain.Holder) ([]*coredomain.Contact, error)
	KeyByID(ctx context.Context, id int64, holder *coredomain.Holder) (string, error)
	MyCard(ctx context.Context) (*coredomain.Contact, error)
	SetMyCard(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// GroupRepository lists contact groups.
type GroupRepository interface {
	List(ctx context.Context, holder *coredomain.Holder) ([]coredomain.Group, error)
}

// HolderRepository lists the applications that own contacts.
type HolderRepository interface {
	List(ctx context.Context) ([]coredomain.Holder, error)
}
