package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
)

// ContactsService is the part of the contacts application the HTTP layer uses.
type ContactsService interface {
	AddContact(ctx context.Context, c *coredomain.Contact, holder *coredomain.Holder) (int64, error)
	DeleteContact(ctx context.Context, key string) error
	UpdateContact(ctx context.Context, c *coredomain.Contact, attrs *coredomain.ContactAttributes) error
	QueryContact(ctx context.Context, key string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) (*coredomain.Contact, error)
	QueryContacts(ctx context.Context, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error)
	QueryContactsByEmail(ctx context.Context, email string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error)
	QueryContactsByPhoneNumber(ctx context.Context, number string, holder *coredomain.Holder, attrs *coredomain.ContactAttributes) ([]*coredomain.Contact, error)
	QueryGroups(ctx context.Context, holder *coredomain.Holder) ([]coredomain.Group, error)
	QueryHolders(ctx context.Context) ([]coredomain.Holder, error)
	QueryKey(ctx context.Context, id int64, holder *coredomain.Holder) (string, error)
	QueryMyCard(ctx context.Context, attrs *coredomain.ContactAttributes) (*coredomain.Contact, error)
	IsLocalContact(ctx context.Context, id int64) (bool, error)
	IsMyCard(ctx context.Context, id int64) (bool, error)
	SetMyCard(ctx context.Context, id int64) error
	QueryContactsCount(ctx context.Context) (int64, error)
}

type ContactsHandler struct {
	contacts ContactsService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewContactsHandler(contacts ContactsService, logger *slog.Logger, validate *validator.Validate) *ContactsHandler {
	return &ContactsHandler{
		contacts: contacts,
		logger:   logger.With("handler", "contacts"),
		validate: validate,
	}
}

// RegisterRoutes mounts the contacts routes. {ref} is a contact key on the bare
// resource (GET, DELETE) and a numeric contact id everywhere else.
func (h *ContactsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/count", h.Count)
		r.Get("/by-email", h.ByEmail)
		r.Get("/by-phone", h.ByPhone)
		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Put("/", h.Update)
			r.Get("/key", h.Key)
			r.Get("/local", h.IsLocal)
			r.Get("/my-card", h.IsMyCard)
			r.Put("/my-card", h.SetMyCard)
		})
	})
	r.Get("/my-card", h.MyCard)
	r.Get("/groups", h.Groups)
	r.Get("/holders", h.Holders)
}

var errInvalidParameter = coredomain.NewBusinessError(coredomain.CodeInvalidParameter, "")

// holderFromQuery reads bundle_name, display_name and holder_id. No parameters means no holder.
func holderFromQuery(r *http.Request) (*coredomain.Holder, error) {
	q := r.URL.Query()
	h := &coredomain.Holder{BundleName: q.Get("bundle_name"), DisplayName: q.Get("display_name")}
	if s := q.Get("holder_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errInvalidParameter
		}
		h.HolderID = id
	}
	if h.IsZero() {
		return nil, nil
	}
	return h, nil
}

// attributesFromQuery parses attributes=1,4 into ContactAttributes.
func attributesFromQuery(r *http.Request) (*coredomain.ContactAttributes, error) {
	raw := r.URL.Query().Get("attributes")
	if raw == "" {
		return nil, nil
	}
	attrs := &coredomain.ContactAttributes{}
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < int(coredomain.AttrContactEvent) || n > int(coredomain.AttrWebsite) {
			return nil, errInvalidParameter
		}
		attrs.Attributes = append(attrs.Attributes, coredomain.Attribute(n))
	}
	return attrs, nil
}

func contactID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "ref"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidParameter
	}
	return id, nil
}

func (h *ContactsHandler) listResponse(w http.ResponseWriter, r *http.Request, contacts []*coredomain.Contact, err error) {
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if contacts == nil {
		contacts = []*coredomain.Contact{}
	}
	respondWithJSON(w, http.StatusOK, ContactsResponse{Contacts: contacts})
}

func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	holder, err := holderFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	attrs, err := attributesFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	contacts, err := h.contacts.QueryContacts(r.Context(), holder, attrs)
	h.listResponse(w, r, contacts, err)
}

func (h *ContactsHandler) ByEmail(w http.ResponseWriter, r *http.Request) {
	h.byValue(w, r, "email", h.contacts.QueryContactsByEmail)
}

func (h *ContactsHandler) ByPhone(w http.ResponseWriter, r *http.Request) {
	h.byValue(w, r, "number", h.contacts.QueryContactsByPhoneNumber)
}

func (h *ContactsHandler) byValue(w http.ResponseWriter, r *http.Request, param string,
	query func(context.Context, string, *coredomain.Holder, *coredomain.ContactAttributes) ([]*coredomain.Contact, error)) {
	value := r.URL.Query().Get(param)
	if value == "" {
		writeError(w, r, h.logger, errInvalidParameter)
		return
	}
	holder, err := holderFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	attrs, err := attributesFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	contacts, err := query(r.Context(), value, holder, attrs)
	h.listResponse(w, r, contacts, err)
}

func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	holder, err := holderFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	attrs, err := attributesFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	contact, err := h.contacts.QueryContact(r.Context(), chi.URLParam(r, "ref"), holder, attrs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if contact == nil {
		respondWithError(w, http.StatusNotFound, "contact not found")
		return
	}
	respondWithJSON(w, http.StatusOK, ContactResponse{Contact: contact})
}

func (h *ContactsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	id, err := h.contacts.AddContact(r.Context(), req.Contact, req.Holder)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, AddContactResponse{ID: id})
}

func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	req.Contact.ID = id
	var attrs *coredomain.ContactAttributes
	if len(req.Attributes) > 0 {
		attrs = &coredomain.ContactAttributes{}
		for _, a := range req.Attributes {
			attrs.Attributes = append(attrs.Attributes, coredomain.Attribute(a))
		}
	}
	if err := h.contacts.UpdateContact(r.Context(), req.Contact, attrs); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.DeleteContact(r.Context(), chi.URLParam(r, "ref")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) Key(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	holder, err := holderFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	key, err := h.contacts.QueryKey(r.Context(), id, holder)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, KeyResponse{Key: key})
}

func (h *ContactsHandler) IsLocal(w http.ResponseWriter, r *http.Request) {
	h.flag(w, r, h.contacts.IsLocalContact)
}

func (h *ContactsHandler) IsMyCard(w http.ResponseWriter, r *http.Request) {
	h.flag(w, r, h.contacts.IsMyCard)
}

func (h *ContactsHandler) SetMyCard(w http.ResponseWriter, r *http.Request) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.contacts.SetMyCard(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) flag(w http.ResponseWriter, r *http.Request, check func(context.Context, int64) (bool, error)) {
	id, err := contactID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	v, err := check(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, FlagResponse{Value: v})
}

func (h *ContactsHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.contacts.QueryContactsCount(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (h *ContactsHandler) MyCard(w http.ResponseWriter, r *http.Request) {
	attrs, err := attributesFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	card, err := h.contacts.QueryMyCard(r.Context(), attrs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if card == nil {
		respondWithError(w, http.StatusNotFound, "my card not set")
		return
	}
	respondWithJSON(w, http.StatusOK, ContactResponse{Contact: card})
}

func (h *ContactsHandler) Groups(w http.ResponseWriter, r *http.Request) {
	holder, err := holderFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	groups, err := h.contacts.QueryGroups(r.Context(), holder)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if groups == nil {
		groups = []coredomain.Group{}
	}
	respondWithJSON(w, http.StatusOK, GroupsResponse{Groups: groups})
}

func (h *ContactsHandler) Holders(w http.ResponseWriter, r *http.Request) {
	holders, err := h.contacts.QueryHolders(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if holders == nil {
		holders = []coredomain.Holder{}
	}
	respondWithJSON(w, http.StatusOK, HoldersResponse{Holders: holders})
}
