package domain

// SubjectContactsChanged is the NATS subject contact mutations are announced on.
const SubjectContactsChanged = "contacts.changed"

const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ChangeEvent is published after every successful contact mutation.
type ChangeEvent struct {
	EventID   string `json:"event_id"`
	Action    string `json:"action"`
	ContactID int64  `json:"contact_id,omitempty"`
	Key       string `json:"key,omitempty"`
}
