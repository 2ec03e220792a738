package domain

// Attribute selects one group of contact data.
type Attribute int

const (
	AttrContactEvent Attribute = iota
	AttrEmail
	AttrGroupMembership
	AttrIM
	AttrName
	AttrNickname
	AttrNote
	AttrOrganization
	AttrPhone
	AttrPortrait
	AttrPostalAddress
	AttrRelation
	AttrSipAddress
	AttrWebsite
)

// ContactAttributes lists the attributes a caller wants back. An empty list means all of them.
type ContactAttributes struct {
	Attributes []Attribute `json:"attributes"`
}

func (a *ContactAttributes) has(attr Attribute) bool {
	for _, x := range a.Attributes {
		if x == attr {
			return true
		}
	}
	return false
}

// Project returns a copy of c holding only the requested attributes; id and key are always kept.
func (c *Contact) Project(attrs *ContactAttributes) *Contact {
	if c == nil {
		return nil
	}
	if attrs == nil || len(attrs.Attributes) == 0 {
		cp := *c
		return &cp
	}
	out := &Contact{ID: c.ID, Key: c.Key, ContactAttributes: attrs}
	if attrs.has(AttrContactEvent) {
		out.Events = c.Events
	}
	if attrs.has(AttrEmail) {
		out.Emails = c.Emails
	}
	if attrs.has(AttrGroupMembership) {
		out.Groups = c.Groups
	}
	if attrs.has(AttrIM) {
		out.ImAddresses = c.ImAddresses
	}
	if attrs.has(AttrName) {
		out.Name = c.Name
	}
	if attrs.has(AttrNickname) {
		out.NickName = c.NickName
	}
	if attrs.has(AttrNote) {
		out.Note = c.Note
	}
	if attrs.has(AttrOrganization) {
		out.Organization = c.Organization
	}
	if attrs.has(AttrPhone) {
		out.PhoneNumbers = c.PhoneNumbers
	}
	if attrs.has(AttrPortrait) {
		out.Portrait = c.Portrait
	}
	if attrs.has(AttrPostalAddress) {
		out.PostalAddresses = c.PostalAddresses
	}
	if attrs.has(AttrRelation) {
		out.Relations = c.Relations
	}
	if attrs.has(AttrSipAddress) {
		out.SipAddresses = c.SipAddresses
	}
	if attrs.has(AttrWebsite) {
		out.Websites = c.Websites
	}
	return out
}

// Merge overwrites the attribute groups of c named in attrs with the values from src.
// With no attributes every group is replaced.
func (c *Contact) Merge(src *Contact, attrs *ContactAttributes) {
	all := attrs == nil || len(attrs.Attributes) == 0
	pick := func(a Attribute) bool { return all || attrs.has(a) }
	if pick(AttrContactEvent) {
		c.Events = src.Events
	}
	if pick(AttrEmail) {
		c.Emails = src.Emails
	}
	if pick(AttrGroupMembership) {
		c.Groups = src.Groups
	}
	if pick(AttrIM) {
		c.ImAddresses = src.ImAddresses
	}
	if pick(AttrName) {
		c.Name = src.Name
	}
	if pick(AttrNickname) {
		c.NickName = src.NickName
	}
	if pick(AttrNote) {
		c.Note = src.Note
	}
	if pick(AttrOrganization) {
		c.Organization = src.Organization
	}
	if pick(AttrPhone) {
		c.PhoneNumbers = src.PhoneNumbers
	}
	if pick(AttrPortrait) {
		c.Portrait = src.Portrait
	}
	if pick(AttrPostalAddress) {
		c.PostalAddresses = src.PostalAddresses
	}
	if pick(AttrRelation) {
		c.Relations = src.Relations
	}
	if pick(AttrSipAddress) {
		c.SipAddresses = src.SipAddresses
	}
	if pick(AttrWebsite) {
		c.Websites = src.Websites
	}
}
