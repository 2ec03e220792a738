package domain

import "encoding/json"

// PageFlag tells the picker host which page to open.
type PageFlag string

const (
	PageFlagSingleChoose     PageFlag = "page_flag_single_choose"
	PageFlagMultiChoose      PageFlag = "page_flag_multi_choose"
	PageFlagSaveContact      PageFlag = "page_flag_save_contact"
	PageFlagSaveExistContact PageFlag = "page_flag_save_exist_contact"
)

// DisplayType restricts which data column the picker shows next to each contact.
type DisplayType string

const (
	DisplayTypeEmail   DisplayType = "EMAIL"
	DisplayTypePhone   DisplayType = "PHONE"
	DisplayTypeDefault DisplayType = "DEFAULT"
)

// Mode identifies the host entry point a request goes to.
type Mode string

const (
	ModeSelect    Mode = "select"
	ModeSave      Mode = "save"
	ModeSaveExist Mode = "save_exist"
)

// Native result codes.
const (
	ResultCodeSuccess   = 0
	ResultCodeCancelled = 1
)

// PickerOptions is the caller's selection request. Every field is optional.
type PickerOptions struct {
	IsMultiSelect     *bool           `json:"isMultiSelect,omitempty"`
	MaxSelectable     *int            `json:"maxSelectable,omitempty"`
	SelectLimit       *int            `json:"selectLimit,omitempty"`
	IsDisplayedByName *bool           `json:"isDisplayedByName,omitempty"`
	IsDisplayByName   *bool           `json:"isDisplayByName,omitempty"`
	Filter            json.RawMessage `json:"filter,omitempty"`
}

// CallerContext identifies the UI session on whose behalf the picker is opened.
type CallerContext struct {
	SessionID  string `json:"sessionId"`
	BundleName string `json:"bundleName,omitempty"`
}

// IsZero reports whether no caller was supplied.
func (c CallerContext) IsZero() bool {
	return c.SessionID == ""
}

// PickerParameters is the "parameters" object of an invocation.
type PickerParameters struct {
	PageFlag             PageFlag        `json:"pageFlag"`
	IsContactsPicker     bool            `json:"isContactsPicker"`
	IsContactMultiSelect *bool           `json:"isContactMultiSelect,omitempty"`
	SelectLimit          *int            `json:"selectLimit,omitempty"`
	IsDisplayByName      *bool           `json:"isDisplayByName,omitempty"`
	DisplayType          DisplayType     `json:"displayType,omitempty"`
	Filter               json.RawMessage `json:"filter,omitempty"`
	IsSaveContact        bool            `json:"isSaveContact,omitempty"`
	IsSaveExistContact   bool            `json:"isSaveExistContact,omitempty"`
	Contact              map[string]any  `json:"contact,omitempty"`
}

// InvocationConfig is sent to the picker host. One is built per call and never reused.
type InvocationConfig struct {
	Parameters  PickerParameters `json:"parameters"`
	BundleName  string           `json:"bundleName"`
	AbilityName string           `json:"abilityName"`
}

// PickerResult is the host's answer.
type PickerResult struct {
	ResultCode  int    `json:"resultCode"`
	PickerData  string `json:"pickerData,omitempty"`
	Total       int    `json:"total,omitempty"`
	JSContactID string `json:"jsContactId,omitempty"`
}

// HostTarget names the ability that serves picker requests.
type HostTarget struct {
	BundleName  string
	AbilityName string
}

// DefaultHostTarget is the system contacts application.
var DefaultHostTarget = HostTarget{
	BundleName:  "com.ohos.contacts",
	AbilityName: "ContactUiExtentionAbility",
}

func boolPtr(b bool) *bool { return &b }

// NewSelectConfig returns the base config for the select page.
func NewSelectConfig(t HostTarget) *InvocationConfig {
	return &InvocationConfig{
		Parameters: PickerParameters{
			PageFlag:             PageFlagSingleChoose,
			IsContactMultiSelect: boolPtr(false),
			IsContactsPicker:     true,
		},
		BundleName:  t.BundleName,
		AbilityName: t.AbilityName,
	}
}

// NewSaveConfig returns the config for the "new contact" page with contact embedded as-is.
func NewSaveConfig(t HostTarget, contact map[string]any) *InvocationConfig {
	return &InvocationConfig{
		Parameters: PickerParameters{
			PageFlag:         PageFlagSaveContact,
			IsContactsPicker: true,
			IsSaveContact:    true,
			Contact:          contact,
		},
		BundleName:  t.BundleName,
		AbilityName: t.AbilityName,
	}
}

// NewSaveExistConfig returns the config for the "add to existing contact" page.
func NewSaveExistConfig(t HostTarget, contact map[string]any) *InvocationConfig {
	return &InvocationConfig{
		Parameters: PickerParameters{
			PageFlag:             PageFlagSaveExistContact,
			IsContactsPicker:     true,
			IsContactMultiSelect: boolPtr(false),
			IsSaveExistContact:   true,
			IsDisplayByName:      boolPtr(true),
			Contact:              contact,
		},
		BundleName:  t.BundleName,
		AbilityName: t.AbilityName,
	}
}
