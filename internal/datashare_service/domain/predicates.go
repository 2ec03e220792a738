package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Predicate operation names, as they appear on the wire.
const (
	OpEqualTo              = "equalTo"
	OpNotEqualTo           = "notEqualTo"
	OpGreaterThan          = "greaterThan"
	OpLessThan             = "lessThan"
	OpGreaterThanOrEqualTo = "greaterThanOrEqualTo"
	OpLessThanOrEqualTo    = "lessThanOrEqualTo"
	OpLike                 = "like"
	OpContains             = "contains"
	OpIn                   = "in"
	OpAnd                  = "and"
	OpOr                   = "or"
	OpBeginWrap            = "beginWrap"
	OpEndWrap              = "endWrap"
	OpOrderByAsc           = "orderByAsc"
	OpOrderByDesc          = "orderByDesc"
	OpLimit                = "limit"
)

var comparisons = map[string]string{
	OpEqualTo:              "=",
	OpNotEqualTo:           "<>",
	OpGreaterThan:          ">",
	OpLessThan:             "<",
	OpGreaterThanOrEqualTo: ">=",
	OpLessThanOrEqualTo:    "<=",
	OpLike:                 "LIKE",
}

// Operation is one step of a predicate chain.
type Operation struct {
	Op     string `json:"op"`
	Field  string `json:"field,omitempty"`
	Value  any    `json:"value,omitempty"`
	Values []any  `json:"values,omitempty"`
}

// Predicates is a chain of conditions, connectors, ordering and paging.
// Adjacent conditions without an explicit connector are joined with AND.
type Predicates struct {
	Operations []Operation `json:"operations"`
}

func NewPredicates() *Predicates { return &Predicates{} }

func (p *Predicates) add(op Operation) *Predicates {
	p.Operations = append(p.Operations, op)
	return p
}

func (p *Predicates) EqualTo(field string, v any) *Predicates {
	return p.add(Operation{Op: OpEqualTo, Field: field, Value: v})
}

func (p *Predicates) NotEqualTo(field string, v any) *Predicates {
	return p.add(Operation{Op: OpNotEqualTo, Field: field, Value: v})
}

func (p *Predicates) GreaterThan(field string, v any) *Predicates {
	return p.add(Operation{Op: OpGreaterThan, Field: field, Value: v})
}

func (p *Predicates) LessThan(field string, v any) *Predicates {
	return p.add(Operation{Op: OpLessThan, Field: field, Value: v})
}

func (p *Predicates) GreaterThanOrEqualTo(field string, v any) *Predicates {
	return p.add(Operation{Op: OpGreaterThanOrEqualTo, Field: field, Value: v})
}

func (p *Predicates) LessThanOrEqualTo(field string, v any) *Predicates {
	return p.add(Operation{Op: OpLessThanOrEqualTo, Field: field, Value: v})
}

func (p *Predicates) Like(field, pattern string) *Predicates {
	return p.add(Operation{Op: OpLike, Field: field, Value: pattern})
}

// Contains matches rows whose field holds value as a substring.
func (p *Predicates) Contains(field, value string) *Predicates {
	return p.add(Operation{Op: OpContains, Field: field, Value: value})
}

func (p *Predicates) In(field string, values ...any) *Predicates {
	return p.add(Operation{Op: OpIn, Field: field, Values: values})
}

func (p *Predicates) And() *Predicates       { return p.add(Operation{Op: OpAnd}) }
func (p *Predicates) Or() *Predicates        { return p.add(Operation{Op: OpOr}) }
func (p *Predicates) BeginWrap() *Predicates { return p.add(Operation{Op: OpBeginWrap}) }
func (p *Predicates) EndWrap() *Predicates   { return p.add(Operation{Op: OpEndWrap}) }

func (p *Predicates) OrderByAsc(field string) *Predicates {
	return p.add(Operation{Op: OpOrderByAsc, Field: field})
}

func (p *Predicates) OrderByDesc(field string) *Predicates {
	return p.add(Operation{Op: OpOrderByDesc, Field: field})
}

func (p *Predicates) Limit(n, offset int) *Predicates {
	return p.add(Operation{Op: OpLimit, Value: n, Values: []any{offset}})
}

// Compiled is the SQL rendering of Predicates. Placeholders are numbered from the
// value passed to Compile; Args holds their values in order.
type Compiled struct {
	Where   string
	OrderBy string
	Limit   string
	Args    []any
}

// Clause returns the WHERE/ORDER BY/LIMIT tail, each part prefixed with a space.
func (c Compiled) Clause() string {
	var b strings.Builder
	if c.Where != "" {
		b.WriteString(" WHERE " + c.Where)
	}
	if c.OrderBy != "" {
		b.WriteString(" ORDER BY " + c.OrderBy)
	}
	if c.Limit != "" {
		b.WriteString(" " + c.Limit)
	}
	return b.String()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPredicate, fmt.Sprintf(format, args...))
}

// Compile renders p against table. A nil p compiles to nothing.
func (p *Predicates) Compile(table Table, next int) (Compiled, error) {
	var (
		out       Compiled
		where     strings.Builder
		orderBy   []string
		depth     int
		connected = true // no condition pending a connector
	)
	if p == nil {
		return out, nil
	}
	placeholder := func(v any) string {
		out.Args = append(out.Args, v)
		return fmt.Sprintf("$%d", next+len(out.Args)-1)
	}
	implicitAnd := func() {
		if !connected {
			where.WriteString(" AND ")
		}
	}

	for i, op := range p.Operations {
		switch op.Op {
		case OpEqualTo, OpNotEqualTo, OpGreaterThan, OpLessThan, OpGreaterThanOrEqualTo, OpLessThanOrEqualTo, OpLike:
			if err := table.CheckColumns([]string{op.Field}); err != nil {
				return Compiled{}, err
			}
			if op.Value == nil {
				return Compiled{}, invalid("operation %d (%s) has no value", i, op.Op)
			}
			implicitAnd()
			where.WriteString(op.Field + " " + comparisons[op.Op] + " " + placeholder(op.Value))
			connected = false
		case OpContains:
			if err := table.CheckColumns([]string{op.Field}); err != nil {
				return Compiled{}, err
			}
			if op.Value == nil {
				return Compiled{}, invalid("operation %d (contains) has no value", i)
			}
			implicitAnd()
			// strpos keeps % and _ in the value literal.
			where.WriteString("strpos(" + op.Field + "::text, " + placeholder(op.Value) + "::text) > 0")
			connected = false
		case OpIn:
			if err := table.CheckColumns([]string{op.Field}); err != nil {
				return Compiled{}, err
			}
			if len(op.Values) == 0 {
				return Compiled{}, invalid("operation %d (in) has no values", i)
			}
			implicitAnd()
			marks := make([]string, 0, len(op.Values))
			for _, v := range op.Values {
				marks = append(marks, placeholder(v))
			}
			where.WriteString(op.Field + " IN (" + strings.Join(marks, ", ") + ")")
			connected = false
		case OpAnd, OpOr:
			if connected {
				return Compiled{}, invalid("operation %d (%s) has no left operand", i, op.Op)
			}
			where.WriteString(" " + strings.ToUpper(op.Op) + " ")
			connected = true
		case OpBeginWrap:
			implicitAnd()
			where.WriteString("(")
			depth++
			connected = true
		case OpEndWrap:
			if depth == 0 || connected {
				return Compiled{}, invalid("operation %d (endWrap) closes nothing", i)
			}
			where.WriteString(")")
			depth--
		case OpOrderByAsc, OpOrderByDesc:
			if err := table.CheckColumns([]string{op.Field}); err != nil {
				return Compiled{}, err
			}
			dir := "ASC"
			if op.Op == OpOrderByDesc {
				dir = "DESC"
			}
			orderBy = append(orderBy, op.Field+" "+dir)
		case OpLimit:
			n, ok := toInt(op.Value)
			if !ok || n < 0 {
				return Compiled{}, invalid("operation %d (limit) needs a non-negative count", i)
			}
			offset := 0
			if len(op.Values) > 0 {
				if offset, ok = toInt(op.Values[0]); !ok || offset < 0 {
					return Compiled{}, invalid("operation %d (limit) has a bad offset", i)
				}
			}
			out.Limit = fmt.Sprintf("LIMIT %d OFFSET %d", n, offset)
		default:
			return Compiled{}, invalid("operation %d has unknown op %q", i, op.Op)
		}
	}
	if depth != 0 {
		return Compiled{}, invalid("unbalanced wrap")
	}
	if where.Len() > 0 && connected {
		return Compiled{}, invalid("dangling connector")
	}
	out.Where = where.String()
	out.OrderBy = strings.Join(orderBy, ", ")
	return out, nil
}

// CompileFilter is Compile for update and delete, which take only a row filter:
// ordering or a limit is rejected.
func (p *Predicates) CompileFilter(table Table, next int) (Compiled, error) {
	out, err := p.Compile(table, next)
	if err != nil {
		return Compiled{}, err
	}
	if out.OrderBy != "" || out.Limit != "" {
		return Compiled{}, invalid("ordering and limit apply to queries only")
	}
	return out, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
