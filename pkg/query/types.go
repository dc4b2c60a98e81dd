package query

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/tgmreplays/pkg/replay"
)

// FieldExtractor defines how to extract field values from a replay
type FieldExtractor interface {
	Extract(r *replay.Replay, field string) (interface{}, error)
}

// FieldQuery represents a single field-based query condition
type FieldQuery struct {
	Field    string // Field name to query (e.g., "level", "rule")
	Operator string // Comparison operator: "=", "!=", ">", "<", ">=", "<="
	Value    string // Value to compare against, parsed per field
}

// operators in match order; two-character operators first
var operators = []string{">=", "<=", "!=", "=", ">", "<"}

// Validate checks if the query is properly formed
func (q *FieldQuery) Validate() error {
	if q.Field == "" {
		return errors.New("field name cannot be empty")
	}
	if q.Operator == "" {
		return errors.New("operator cannot be empty")
	}
	for _, op := range operators {
		if q.Operator == op {
			return nil
		}
	}
	return errors.Newf("invalid operator: %s", q.Operator)
}

// String renders the query the way ParseFieldQuery reads it.
func (q FieldQuery) String() string {
	return q.Field + q.Operator + q.Value
}

// ParseFieldQuery reads a condition such as "level>=500" or "rule=tgm".
func ParseFieldQuery(s string) (FieldQuery, error) {
	i := strings.IndexAny(s, "<>!=")
	if i < 0 {
		return FieldQuery{}, errors.Newf("no operator in condition %q", s)
	}
	if i == 0 {
		return FieldQuery{}, errors.Newf("no field in condition %q", s)
	}
	for _, op := range operators {
		if strings.HasPrefix(s[i:], op) {
			q := FieldQuery{
				Field:    strings.ToLower(strings.TrimSpace(s[:i])),
				Operator: op,
				Value:    strings.TrimSpace(s[i+len(op):]),
			}
			return q, q.Validate()
		}
	}
	return FieldQuery{}, errors.Newf("invalid operator in condition %q", s)
}

// SortOrder is a field to order results by.
type SortOrder struct {
	Field string
	Desc  bool
}

// ParseSortOrder reads "score" or "-score" (descending).
func ParseSortOrder(s string) SortOrder {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "-") {
		return SortOrder{Field: s[1:], Desc: true}
	}
	return SortOrder{Field: s}
}
