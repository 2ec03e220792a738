package domain

// contactFields are the top-level keys a Contact object may carry on the wire.
var contactFields = map[string]struct{}{
	"id":                {},
	"key":               {},
	"contactAttributes": {},
	"emails":            {},
	"events":            {},
	"groups":            {},
	"imAddresses":       {},
	"phoneNumbers":      {},
	"portrait":          {},
	"postalAddresses":   {},
	"relations":         {},
	"sipAddresses":      {},
	"websites":          {},
	"name":              {},
	"nickName":          {},
	"note":              {},
	"organization":      {},
}

// IsContactField reports whether name is a known top-level contact key.
func IsContactField(name string) bool {
	_, ok := contactFields[name]
	return ok
}

// UnknownContactField returns the first key of fields that is not a contact key, if any.
func UnknownContactField(fields map[string]any) (string, bool) {
	for k := range fields {
		if !IsContactField(k) {
			return k, true
		}
	}
	return "", false
}
