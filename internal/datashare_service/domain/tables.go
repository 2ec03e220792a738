package domain

import (
	"fmt"
	"sort"
)

const (
	CallLogURI   = "datashare:///com.ohos.calllogability/calls/calllog"
	VoicemailURI = "datashare:///com.ohos.voicemailability/calls/voicemail"
	GroupsURI    = "datashare:///com.ohos.contactsdataability/contacts/groups"
)

// Table is a datashare table and the columns clients may address.
type Table struct {
	Name    string
	columns map[string]struct{}
}

func newTable(name string, columns ...string) Table {
	t := Table{Name: name, columns: make(map[string]struct{}, len(columns))}
	for _, c := range columns {
		t.columns[c] = struct{}{}
	}
	return t
}

// HasColumn reports whether column belongs to the table.
func (t Table) HasColumn(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// CheckColumns returns ErrUnknownColumn for the first column not in the table.
func (t Table) CheckColumns(columns []string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, c)
		}
	}
	return nil
}

var tables = map[string]Table{
	CallLogURI: newTable("calllog",
		"id", "phone_number", "display_name", "call_direction", "voicemail_uri", "sim_type",
		"is_hd", "is_read", "ring_duration", "talk_duration", "format_phone_number",
		"quicksearch_key", "number_type", "number_type_name", "begin_time", "end_time",
		"answer_state", "create_time", "number_location", "photo_id", "photo_uri",
		"country_iso_code", "extra1", "extra2", "extra3", "extra4", "extra5", "extra6",
	),
	VoicemailURI: newTable("voicemail",
		"id", "phone_number", "quicksearch_key", "display_name", "voicemail_uri",
		"voicemail_type", "voice_file_size", "voice_duration", "voice_status",
		"origin_type", "create_time",
	),
	// Same rows the contacts service lists as groups.
	GroupsURI: newTable("contact_groups",
		"id", "account_type", "account_name", "account_id", "group_name", "group_notes",
	),
}

// TableForURI resolves a datashare URI.
func TableForURI(uri string) (Table, error) {
	t, ok := tables[uri]
	if !ok {
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownURI, uri)
	}
	return t, nil
}

// Values is one row of column values for insert or update.
type Values map[string]any

// Columns returns the keys of v in sorted order.
func (v Values) Columns() []string {
	cols := make([]string, 0, len(v))
	for c := range v {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// ResultSet is the outcome of a query.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// RowCount is the number of rows in the set.
func (r *ResultSet) RowCount() int { return len(r.Rows) }

// SubjectChanged is the NATS subject mutations of table are announced on.
func SubjectChanged(table string) string { return table + ".changed" }

// ChangeEvent is published after every successful mutation.
type ChangeEvent struct {
	EventID string `json:"event_id"`
	Table   string `json:"table"`
	Op      string `json:"op"`
	Rows    int64  `json:"rows"`
}
