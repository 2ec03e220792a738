package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	pickerdomain "github.com/aradsms/contacts_services/internal/picker_service/domain"
	"github.com/aradsms/contacts_services/internal/public_api_service/middleware"
)

// PickerService is the part of the picker application the HTTP layer uses.
type PickerService interface {
	SelectContacts(ctx context.Context, caller pickerdomain.CallerContext, opts *pickerdomain.PickerOptions) ([]coredomain.Contact, error)
	AddContactViaUI(ctx context.Context, caller pickerdomain.CallerContext, fields map[string]any) (string, error)
	SaveToExistingContactViaUI(ctx context.Context, caller pickerdomain.CallerContext, fields map[string]any) (string, error)
}

type PickerHandler struct {
	picker   PickerService
	logger   *slog.Logger
	validate *validator.Validate
}

func NewPickerHandler(picker PickerService, logger *slog.Logger, validate *validator.Validate) *PickerHandler {
	return &PickerHandler{
		picker:   picker,
		logger:   logger.With("handler", "picker"),
		validate: validate,
	}
}

func (h *PickerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/picker", func(r chi.Router) {
		r.Post("/select", h.Select)
		r.Post("/save", h.Save)
		r.Post("/save-existing", h.SaveExisting)
	})
}

// callerFor builds the caller context; the token's bundle is used when the body names none.
func callerFor(r *http.Request, sessionID, bundleName string) pickerdomain.CallerContext {
	if bundleName == "" {
		if user, ok := middleware.UserFromContext(r.Context()); ok {
			bundleName = user.BundleName
		}
	}
	return pickerdomain.CallerContext{SessionID: sessionID, BundleName: bundleName}
}

func (h *PickerHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectContactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	contacts, err := h.picker.SelectContacts(r.Context(), callerFor(r, req.SessionID, req.BundleName), req.Options)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if contacts == nil {
		contacts = []coredomain.Contact{}
	}
	respondWithJSON(w, http.StatusOK, SelectContactsResponse{Contacts: contacts})
}

func (h *PickerHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, h.picker.AddContactViaUI)
}

func (h *PickerHandler) SaveExisting(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, h.picker.SaveToExistingContactViaUI)
}

func (h *PickerHandler) save(w http.ResponseWriter, r *http.Request,
	call func(context.Context, pickerdomain.CallerContext, map[string]any) (string, error)) {
	var req SaveContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	id, err := call(r.Context(), callerFor(r, req.SessionID, req.BundleName), req.Contact)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, SaveContactResponse{ContactID: id})
}
