package http

import (
	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	datasharedomain "github.com/aradsms/contacts_services/internal/datashare_service/domain"
	pickerdomain "github.com/aradsms/contacts_services/internal/picker_service/domain"
)

// SelectContactsRequest opens the selection page for the UI session SessionID.
// Session checks happen in the picker application so its error ordering is kept.
type SelectContactsRequest struct {
	SessionID  string                      `json:"session_id"`
	BundleName string                      `json:"bundle_name,omitempty" validate:"omitempty,max=255"`
	Options    *pickerdomain.PickerOptions `json:"options,omitempty"`
}

type SelectContactsResponse struct {
	Contacts []coredomain.Contact `json:"contacts"`
}

// SaveContactRequest carries the partial contact the save pages are pre-filled with.
type SaveContactRequest struct {
	SessionID  string         `json:"session_id"`
	BundleName string         `json:"bundle_name,omitempty" validate:"omitempty,max=255"`
	Contact    map[string]any `json:"contact"`
}

type SaveContactResponse struct {
	ContactID string `json:"contact_id"`
}

type AddContactRequest struct {
	Contact *coredomain.Contact `json:"contact" validate:"required"`
	Holder  *coredomain.Holder  `json:"holder,omitempty"`
}

type AddContactResponse struct {
	ID int64 `json:"id"`
}

type UpdateContactRequest struct {
	Contact    *coredomain.Contact `json:"contact" validate:"required"`
	Attributes []int               `json:"attributes,omitempty" validate:"omitempty,dive,min=0,max=13"`
}

type ContactResponse struct {
	Contact *coredomain.Contact `json:"contact"`
}

type ContactsResponse struct {
	Contacts []*coredomain.Contact `json:"contacts"`
}

type KeyResponse struct {
	Key string `json:"key"`
}

type FlagResponse struct {
	Value bool `json:"value"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type GroupsResponse struct {
	Groups []coredomain.Group `json:"groups"`
}

type HoldersResponse struct {
	Holders []coredomain.Holder `json:"holders"`
}

// DatashareRequest is shared by every datashare operation; each uses the fields it needs.
type DatashareRequest struct {
	URI        string                      `json:"uri" validate:"required"`
	Columns    []string                    `json:"columns,omitempty"`
	Predicates *datasharedomain.Predicates `json:"predicates,omitempty"`
	Values     datasharedomain.Values      `json:"values,omitempty"`
	Rows       []datasharedomain.Values    `json:"rows,omitempty"`
}

// DatashareResponse holds either a result set or an id / affected row count.
type DatashareResponse struct {
	Result *datasharedomain.ResultSet `json:"result,omitempty"`
	ID     *int64                     `json:"id,omitempty"`
	Rows   *int64                     `json:"rows,omitempty"`
}
