package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DataField is the contact data column a selection filter applies to.
type DataField int

const (
	DataFieldEmail DataField = iota
	DataFieldPhone
	DataFieldName
)

// FilterType and FilterCondition mirror the host's filter vocabulary. They are forwarded untouched.
type FilterType int

const (
	FilterTypeShowFilter FilterType = iota
	FilterTypeInclude
	FilterTypeExclude
)

type FilterCondition int

const (
	FilterConditionIsNotNull FilterCondition = iota
	FilterConditionEqualTo
	FilterConditionNotEqualTo
	FilterConditionIn
	FilterConditionNotIn
	FilterConditionContains
)

// ErrNoDataField means the filter has no filterClause.dataItem.field path.
var ErrNoDataField = errors.New("filter has no data field")

type selectionFilter struct {
	FilterClause *struct {
		DataItem *struct {
			Field json.RawMessage `json:"field"`
		} `json:"dataItem"`
	} `json:"filterClause"`
}

// DisplayTypeFromFilter derives the display type from filter.filterClause.dataItem.field.
// A JSON number equal to 0 or 1, or the names EMAIL / PHONE, select those types; quoted
// digits and any other value give DEFAULT.
// ErrNoDataField is returned when the path is absent; malformed JSON is returned as a decode error.
func DisplayTypeFromFilter(filter json.RawMessage) (DisplayType, error) {
	var f selectionFilter
	if err := json.Unmarshal(filter, &f); err != nil {
		return "", fmt.Errorf("decoding selection filter: %w", err)
	}
	if f.FilterClause == nil || f.FilterClause.DataItem == nil || len(f.FilterClause.DataItem.Field) == 0 ||
		string(f.FilterClause.DataItem.Field) == "null" {
		return "", ErrNoDataField
	}

	raw := f.FilterClause.DataItem.Field
	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			switch n {
			case 0:
				return DisplayTypeEmail, nil
			case 1:
				return DisplayTypePhone, nil
			}
		}
		return DisplayTypeDefault, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "EMAIL":
			return DisplayTypeEmail, nil
		case "PHONE":
			return DisplayTypePhone, nil
		}
	}
	return DisplayTypeDefault, nil
}
