package app

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/aradsms/contacts_services/internal/contacts_service/domain"
	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	"github.com/aradsms/contacts_services/internal/platform/logger"
	"github.com/aradsms/contacts_services/internal/platform/messagebroker"
)

// Application exposes contact CRUD and queries. Read failures surface as QueryValueFailed,
// write failures as SetValueFailed; a query that matches nothing returns a zero value.
type Application struct {
	contacts  domain.ContactRepository
	groups    domain.GroupRepository
	holders   domain.HolderRepository
	publisher messagebroker.Publisher
	logger    *slog.Logger
}

// NewApplication creates a new Application instance.
func NewApplication(
	contacts domain.ContactRepository,
	groups domain.GroupRepository,
	holders domain.HolderRepository,
	publisher messagebroker.Publisher,
	logger *slog.Logger,
) *Application {
	return &Application{
		contacts:  contacts,
		groups:    groups,
		holders:   holders,
		publisher: publisher,
		logger:    logger.With("component", "contacts_app"),
	}
}

// newContactKey derives a 16-hex-char lookup key from a fresh UUID.
func newContactKey() string {
	sum := sha3.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])[:16]
}

func queryFailed() error { return coredomain.NewBusinessError(coredomain.CodeQueryValueFailed, "") }
func setFailed() error   { return coredomain.NewBusinessError(coredomain.CodeSetValueFailed, "") }
func invalidParam() error {
	return coredomain.NewBusinessError(coredomain.CodeInvalidParameter, "")
}

func (a *Application) publish(ctx context.Context, action string, id int64, key string) {
	ev := domain.ChangeEvent{EventID: uuid.NewString(), Action: action, ContactID: id, Key: key}
	data, err := json.Marshal(ev)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to marshal contact change event", "error", err)
		return
	}
	if err := a.publisher.Publish(ctx, domain.SubjectContactsChanged, data); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish contact change event", "action", action, "contact_id", id, "error", err)
	}
}

// --- Mutations ---

// AddContact stores c under holder and returns the new id.
func (a *Application) AddContact(ctx context.Context, c *coredomain.Contact, holder *coredomain.Holder) (int64, error) {
	if c == nil {
		return 0, invalidParam()
	}
	sc := &domain.StoredContact{Contact: *c, IsLocal: holder.IsZero()}
	sc.Contact.ID = 0
	sc.Contact.ContactAttributes = nil
	sc.Contact.Key = newContactKey()
	if holder != nil {
		sc.Holder = *holder
	}

	id, err := a.contacts.Create(ctx, sc)
	if errors.Is(err, domain.ErrDuplicateKey) {
		// one retry with a fresh key
		sc.Contact.Key = newContactKey()
		id, err = a.contacts.Create(ctx, sc)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to add contact", "error", err)
		return 0, setFailed()
	}
	a.logger.InfoContext(ctx, "Contact added", "contact_id", id)
	a.publish(ctx, domain.ActionAdded, id, sc.Contact.Key)
	return id, nil
}

// DeleteContact removes the contact with the given key.
func (a *Application) DeleteContact(ctx context.Context, key string) error {
	if key == "" {
		return invalidParam()
	}
	id, err := a.contacts.DeleteByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "Failed to delete contact", "key", key, "error", err)
		return setFailed()
	}
	a.publish(ctx, domain.ActionDeleted, id, key)
	return nil
}

// UpdateContact replaces the attribute groups named in attrs (all of them when attrs is empty)
// of the stored contact c.ID with the values in c.
func (a *Application) UpdateContact(ctx context.Context, c *coredomain.Contact, attrs *coredomain.ContactAttributes) error {
	if c == nil || c.ID <= 0 {
		return invalidParam()
	}
	stored, err := a.contacts.GetByID(ctx, c.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "Failed to load contact for update", "contact_id", c.ID, "error", err)
		return setFailed()
	}
	stored.Contact.Merge(c, attrs)
	if err := a.contacts.Update(ctx, &stored.Contact); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "Failed to update contact", "contact_id", c.ID, "error", err)
		return setFailed()
	}
	a.publish(ctx, domain.ActionUpdated, c.ID, stored.Contact.Key)
	return nil
}

// --- Queries ---

func (a *Application) QueryContact(ctx context.Context, key string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) (*coredomain.Contact, error) {
	if key == "" {
		return nil, invalidParam()
	}
	c, err := a.contacts.GetByKey(ctx, key, holder)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query contact", "key", key, "error", err)
		return nil, queryFailed()
	}
	return c.Project(attrs), nil
}

func (a *Application) QueryContacts(ctx context.Context, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error) {
	list, err := a.contacts.List(ctx, holder)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query contacts", "error", err)
		return nil, queryFailed()
	}
	return project(list, attrs), nil
}

func (a *Application) QueryContactsByEmail(ctx context.Context, email string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error) {
	if email == "" {
		return nil, invalidParam()
	}
	list, err := a.contacts.ListByEmail(ctx, email, holder)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query contacts by email", "error", err)
		return nil, queryFailed()
	}
	return project(list, attrs), nil
}

func (a *Application) QueryContactsByPhoneNumber(ctx context.Context, number string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error) {
	if number == "" {
		return nil, invalidParam()
	}
	list, err := a.contacts.ListByPhoneNumber(ctx, number, holder)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query contacts by phone number",
			"phone_number", logger.MaskPhoneNumbers(number), "error", err)
		return nil, queryFailed()
	}
	a.logger.DebugContext(ctx, "Queried contacts by phone number",
		"phone_number", logger.MaskPhoneNumbers(number), "count", len(list))
	return project(list, attrs), nil
}

func (a *Application) QueryGroups(ctx context.Context, holder *coredomain.Holder) ([]coredomain.Group, error) {
	groups, err := a.groups.List(ctx, holder)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query groups", "error", err)
		return nil, queryFailed()
	}
	return groups, nil
}

func (a *Application) QueryHolders(ctx context.Context) ([]coredomain.Holder, error) {
	holders, err := a.holders.List(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query holders", "error", err)
		return nil, queryFailed()
	}
	return holders, nil
}

// QueryKey returns the key of contact id, or "" when there is none.
func (a *Application) QueryKey(ctx context.Context, id int64, holder *coredomain.Holder) (string, error) {
	if id <= 0 {
		return "", invalidParam()
	}
	key, err := a.contacts.KeyByID(ctx, id, holder)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query contact key", "contact_id", id, "error", err)
		return "", queryFailed()
	}
	return key, nil
}

// QueryMyCard returns the owner's card, or nil when none is stored.
func (a *Application) QueryMyCard(ctx context.Context, attrs *coredomain.ContactAttributes) (*coredomain.Contact, error) {
	c, err := a.contacts.MyCard(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to query my card", "error", err)
		return nil, queryFailed()
	}
	return c.Project(attrs), nil
}

// SetMyCard makes contact id the owner's card. At most one contact carries the flag.
func (a *Application) SetMyCard(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidParam()
	}
	sc, err := a.contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "Failed to load contact for my card", "contact_id", id, "error", err)
		return setFailed()
	}
	if err := a.contacts.SetMyCard(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		a.logger.ErrorContext(ctx, "Failed to set my card", "contact_id", id, "error", err)
		return setFailed()
	}
	a.publish(ctx, domain.ActionUpdated, id, sc.Contact.Key)
	return nil
}

func (a *Application) IsLocalContact(ctx context.Context, id int64) (bool, error) {
	sc, err := a.lookup(ctx, id)
	if err != nil || sc == nil {
		return false, err
	}
	return sc.IsLocal, nil
}

func (a *Application) IsMyCard(ctx context.Context, id int64) (bool, error) {
	sc, err := a.lookup(ctx, id)
	if err != nil || sc == nil {
		return false, err
	}
	return sc.IsMyCard, nil
}

func (a *Application) lookup(ctx context.Context, id int64) (*domain.StoredContact, error) {
	if id <= 0 {
		return nil, invalidParam()
	}
	sc, err := a.contacts.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to look up contact", "contact_id", id, "error", err)
		return nil, queryFailed()
	}
	return sc, nil
}

func (a *Application) QueryContactsCount(ctx context.Context) (int64, error) {
	n, err := a.contacts.Count(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to count contacts", "error", err)
		return 0, queryFailed()
	}
	return n, nil
}

func project(list []*coredomain.Contact, attrs *coredomain.ContactAttributes) []*coredomain.Contact {
	out := make([]*coredomain.Contact, 0, len(list))
	for _, c := range list {
		out = append(out, c.Project(attrs))
	}
	return out
}
