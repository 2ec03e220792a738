package domain

// Contact is the contact record exchanged with the picker host and stored by the contacts service.
// JSON names follow the picker wire format.
type Contact struct {
	ID                int64              `json:"id,omitempty"`
	Key               string             `json:"key,omitempty"`
	ContactAttributes *ContactAttributes `json:"contactAttributes,omitempty"`
	Emails            []Email            `json:"emails,omitempty"`
	Events            []Event            `json:"events,omitempty"`
	Groups            []Group            `json:"groups,omitempty"`
	ImAddresses       []ImAddress        `json:"imAddresses,omitempty"`
	PhoneNumbers      []PhoneNumber      `json:"phoneNumbers,omitempty"`
	Portrait          *Portrait          `json:"portrait,omitempty"`
	PostalAddresses   []PostalAddress    `json:"postalAddresses,omitempty"`
	Relations         []Relation         `json:"relations,omitempty"`
	SipAddresses      []SipAddress       `json:"sipAddresses,omitempty"`
	Websites          []Website          `json:"websites,omitempty"`
	Name              *Name              `json:"name,omitempty"`
	NickName          *NickName          `json:"nickName,omitempty"`
	Note              *Note              `json:"note,omitempty"`
	Organization      *Organization      `json:"organization,omitempty"`
}

type Email struct {
	Email       string `json:"email"`
	LabelName   string `json:"labelName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	LabelID     int    `json:"labelId,omitempty"`
}

type Event struct {
	EventDate string `json:"eventDate"`
	LabelName string `json:"labelName,omitempty"`
	LabelID   int    `json:"labelId,omitempty"`
}

type Group struct {
	GroupID int64  `json:"groupId,omitempty"`
	Title   string `json:"title"`
}

type ImAddress struct {
	ImAddress string `json:"imAddress"`
	LabelName string `json:"labelName,omitempty"`
	LabelID   int    `json:"labelId,omitempty"`
}

type PhoneNumber struct {
	PhoneNumber string `json:"phoneNumber"`
	LabelName   string `json:"labelName,omitempty"`
	LabelID     int    `json:"labelId,omitempty"`
}

type Portrait struct {
	URI string `json:"uri"`
}

type PostalAddress struct {
	PostalAddress string `json:"postalAddress"`
	City          string `json:"city,omitempty"`
	Country       string `json:"country,omitempty"`
	LabelName     string `json:"labelName,omitempty"`
	Neighborhood  string `json:"neighborhood,omitempty"`
	Pobox         string `json:"pobox,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
	Region        string `json:"region,omitempty"`
	Street        string `json:"street,omitempty"`
	LabelID       int    `json:"labelId,omitempty"`
}

type Relation struct {
	RelationName string `json:"relationName"`
	LabelName    string `json:"labelName,omitempty"`
	LabelID      int    `json:"labelId,omitempty"`
}

type SipAddress struct {
	SipAddress string `json:"sipAddress"`
	LabelName  string `json:"labelName,omitempty"`
	LabelID    int    `json:"labelId,omitempty"`
}

type Website struct {
	Website string `json:"website"`
}

type Name struct {
	FamilyName         string `json:"familyName,omitempty"`
	FamilyNamePhonetic string `json:"familyNamePhonetic,omitempty"`
	FullName           string `json:"fullName"`
	GivenName          string `json:"givenName,omitempty"`
	GivenNamePhonetic  string `json:"givenNamePhonetic,omitempty"`
	MiddleName         string `json:"middleName,omitempty"`
	MiddleNamePhonetic string `json:"middleNamePhonetic,omitempty"`
	NamePrefix         string `json:"namePrefix,omitempty"`
	NameSuffix         string `json:"nameSuffix,omitempty"`
}

type NickName struct {
	NickName string `json:"nickName"`
}

type Note struct {
	NoteContent string `json:"noteContent"`
}

type Organization struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Holder identifies the application that owns a contact.
type Holder struct {
	BundleName  string `json:"bundleName"`
	DisplayName string `json:"displayName,omitempty"`
	HolderID    int64  `json:"holderId,omitempty"`
}

// IsZero reports whether no holder condition is set.
func (h *Holder) IsZero() bool {
	return h == nil || (h.BundleName == "" && h.DisplayName == "" && h.HolderID <= 0)
}
