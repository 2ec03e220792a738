package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	coredomain "github.com/aradsms/contacts_services/internal/core_contacts/domain"
	"github.com/aradsms/contacts_services/internal/picker_service/domain"
)

// ErrNilCallback is returned by SelectContactsWithCallback when no callback is given.
var ErrNilCallback = errors.New("picker: callback is nil")

// SelectCallback receives the outcome of a callback-style selection: err is nil on success.
type SelectCallback func(err error, contacts []coredomain.Contact)

// Application opens the contact picker on behalf of callers and normalizes its answers.
// It keeps no per-call state; every call builds its own config and makes at most one host invocation.
type Application struct {
	picker domain.PickerCapability
	device domain.DeviceInfo
	target domain.HostTarget
	logger *slog.Logger
}

// NewApplication creates a new Application instance.
func NewApplication(
	picker domain.PickerCapability,
	device domain.DeviceInfo,
	target domain.HostTarget,
	logger *slog.Logger,
) *Application {
	return &Application{
		picker: picker,
		device: device,
		target: target,
		logger: logger.With("component", "picker_app"),
	}
}

// --- Select ---

// SelectContacts opens the selection page and returns the chosen contacts.
// A cancelled selection returns the (usually empty) data the host sent. A host failure
// is returned as *domain.ResultCodeError carrying the raw result code.
func (a *Application) SelectContacts(ctx context.Context, caller domain.CallerContext, opts *domain.PickerOptions) ([]coredomain.Contact, error) {
	cfg := a.BuildSelectConfig(ctx, opts)
	if !selectLimitValid(cfg) {
		a.logger.WarnContext(ctx, "Rejected select request", "select_limit", *cfg.Parameters.SelectLimit)
		pickerRejectedCounter.WithLabelValues(string(domain.ModeSelect), strconv.Itoa(coredomain.CodeInvalidParameter)).Inc()
		return nil, coredomain.NewBusinessError(coredomain.CodeInvalidParameter, coredomain.MsgSelectInvalidParameter)
	}

	result, err := a.startPicker(ctx, domain.ModeSelect, caller, cfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "Select picker invocation failed", "error", err)
		return nil, coredomain.NewBusinessError(coredomain.CodeSystemError, "")
	}
	if result == nil {
		a.logger.ErrorContext(ctx, "Select picker returned no result")
		return nil, coredomain.NewBusinessError(coredomain.CodeSystemError, "")
	}

	switch result.ResultCode {
	case domain.ResultCodeSuccess, domain.ResultCodeCancelled:
		return a.parseContacts(ctx, result), nil
	default:
		return nil, &domain.ResultCodeError{ResultCode: result.ResultCode}
	}
}

// SelectContact is the legacy name of SelectContacts; both open the same page.
func (a *Application) SelectContact(ctx context.Context, caller domain.CallerContext, opts *domain.PickerOptions) ([]coredomain.Contact, error) {
	return a.SelectContacts(ctx, caller, opts)
}

// SelectContactsWithCallback runs SelectContacts and hands the outcome to cb.
func (a *Application) SelectContactsWithCallback(ctx context.Context, caller domain.CallerContext, opts *domain.PickerOptions, cb SelectCallback) error {
	if cb == nil {
		return ErrNilCallback
	}
	contacts, err := a.SelectContacts(ctx, caller, opts)
	if err != nil {
		cb(err, nil)
		return nil
	}
	cb(nil, contacts)
	return nil
}

// BuildSelectConfig turns caller options into the host configuration.
// A filter whose data field cannot be read leaves displayType unset.
func (a *Application) BuildSelectConfig(ctx context.Context, opts *domain.PickerOptions) *domain.InvocationConfig {
	cfg := domain.NewSelectConfig(a.target)
	if opts == nil {
		return cfg
	}
	p := &cfg.Parameters

	if opts.IsMultiSelect != nil {
		if *opts.IsMultiSelect {
			p.PageFlag = domain.PageFlagMultiChoose
		}
		v := *opts.IsMultiSelect
		p.IsContactMultiSelect = &v
	}

	switch {
	case opts.MaxSelectable != nil:
		v := *opts.MaxSelectable
		p.SelectLimit = &v
	case opts.SelectLimit != nil:
		v := *opts.SelectLimit
		p.SelectLimit = &v
	}

	switch {
	case opts.IsDisplayedByName != nil:
		v := *opts.IsDisplayedByName
		p.IsDisplayByName = &v
	case opts.IsDisplayByName != nil:
		v := *opts.IsDisplayByName
		p.IsDisplayByName = &v
	}

	if len(opts.Filter) > 0 {
		p.Filter = append(json.RawMessage(nil), opts.Filter...)
		displayType, err := domain.DisplayTypeFromFilter(opts.Filter)
		switch {
		case errors.Is(err, domain.ErrNoDataField):
			a.logger.DebugContext(ctx, "Selection filter has no data field")
		case err != nil:
			a.logger.WarnContext(ctx, "Ignoring unreadable selection filter", "error", err)
		default:
			p.DisplayType = displayType
		}
	}
	return cfg
}

func selectLimitValid(cfg *domain.InvocationConfig) bool {
	return cfg.Parameters.SelectLimit == nil || *cfg.Parameters.SelectLimit > 0
}

// parseContacts decodes pickerData. Data that is not a JSON array yields an empty list;
// elements that do not decode as a contact are logged and skipped.
func (a *Application) parseContacts(ctx context.Context, result *domain.PickerResult) []coredomain.Contact {
	contacts := []coredomain.Contact{}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(result.PickerData), &raw); err != nil {
		a.logger.ErrorContext(ctx, "Failed to decode picker data", "error", err, "result_code", result.ResultCode)
		return contacts
	}
	for i, elem := range raw {
		var c coredomain.Contact
		if err := json.Unmarshal(elem, &c); err != nil {
			a.logger.WarnContext(ctx, "Skipping undecodable picked contact", "index", i, "error", err)
			continue
		}
		contacts = append(contacts, c)
	}
	if len(raw) != result.Total {
		a.logger.WarnContext(ctx, "Picker contact count differs from reported total",
			"count", len(raw), "total", result.Total)
	}
	return contacts
}

// --- Save ---

// AddContactViaUI opens the "new contact" page prefilled with fields and returns the saved contact's id.
func (a *Application) AddContactViaUI(ctx context.Context, caller domain.CallerContext, fields map[string]any) (string, error) {
	return a.saveViaUI(ctx, domain.ModeSave, caller, fields)
}

// SaveToExistingContactViaUI opens the "add to existing contact" page and returns the chosen contact's id.
func (a *Application) SaveToExistingContactViaUI(ctx context.Context, caller domain.CallerContext, fields map[string]any) (string, error) {
	return a.saveViaUI(ctx, domain.ModeSaveExist, caller, fields)
}

func (a *Application) saveViaUI(ctx context.Context, mode domain.Mode, caller domain.CallerContext, fields map[string]any) (string, error) {
	deviceType := a.deviceType(ctx)
	if !domain.IsSupportedDeviceType(deviceType) {
		a.logger.WarnContext(ctx, "Picker not available on device", "mode", mode, "device_type", deviceType)
		return "", a.reject(mode, coredomain.CodeDeviceNotFound)
	}
	if caller.IsZero() || len(fields) == 0 {
		a.logger.WarnContext(ctx, "Save request missing caller or contact", "mode", mode)
		return "", a.reject(mode, coredomain.CodeInvalidParameter)
	}
	if key, found := coredomain.UnknownContactField(fields); found {
		a.logger.WarnContext(ctx, "Save request has unknown contact property", "mode", mode, "property", key)
		return "", a.reject(mode, coredomain.CodeInvalidParameter)
	}

	var cfg *domain.InvocationConfig
	if mode == domain.ModeSave {
		cfg = domain.NewSaveConfig(a.target, fields)
	} else {
		cfg = domain.NewSaveExistConfig(a.target, fields)
	}

	result, err := a.startPicker(ctx, mode, caller, cfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "Save picker invocation failed", "mode", mode, "error", err)
		return "", coredomain.NewBusinessError(coredomain.CodeSystemError, "")
	}
	if result == nil {
		a.logger.ErrorContext(ctx, "Save picker returned no result", "mode", mode)
		return "", coredomain.NewBusinessError(coredomain.CodeSystemError, "")
	}

	a.logger.InfoContext(ctx, "Save picker finished", "mode", mode, "result_code", result.ResultCode, "contact_id", result.JSContactID)
	switch result.ResultCode {
	case domain.ResultCodeSuccess:
		return result.JSContactID, nil
	case domain.ResultCodeCancelled:
		return "", coredomain.NewBusinessError(coredomain.CodeUserCancelled, "")
	default:
		return "", coredomain.NewBusinessError(coredomain.CodeSystemError, "")
	}
}

func (a *Application) reject(mode domain.Mode, code int) error {
	pickerRejectedCounter.WithLabelValues(string(mode), strconv.Itoa(code)).Inc()
	return coredomain.NewBusinessError(code, "")
}

// deviceType returns the lowercased device class, or "" when it cannot be read.
func (a *Application) deviceType(ctx context.Context) string {
	t, err := a.device.DeviceType(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to read device type", "error", err)
		return ""
	}
	return strings.ToLower(t)
}

// --- Host invocation ---

func (a *Application) startPicker(ctx context.Context, mode domain.Mode, caller domain.CallerContext, cfg *domain.InvocationConfig) (*domain.PickerResult, error) {
	if caller.IsZero() {
		return nil, domain.ErrMissingCallerContext
	}

	start := time.Now()
	var (
		result *domain.PickerResult
		err    error
	)
	switch mode {
	case domain.ModeSelect:
		result, err = a.picker.StartContactsPicker(ctx, caller, cfg)
	case domain.ModeSave:
		result, err = a.picker.StartSaveContactsPicker(ctx, caller, cfg)
	case domain.ModeSaveExist:
		result, err = a.picker.StartSaveExistContactsPicker(ctx, caller, cfg)
	default:
		return nil, fmt.Errorf("unknown picker mode %q", mode)
	}
	pickerInvocationDurationHist.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	pickerInvocationsCounter.WithLabelValues(string(mode), outcome(result, err)).Inc()
	return result, err
}

func outcome(result *domain.PickerResult, err error) string {
	switch {
	case err != nil || result == nil:
		return "error"
	case result.ResultCode == domain.ResultCodeSuccess:
		return "success"
	case result.ResultCode == domain.ResultCodeCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}
