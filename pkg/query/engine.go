package query

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/tgmreplays/pkg/replay"
)

// Engine filters and orders replays by field conditions.
type Engine struct {
	extractor FieldExtractor
}

// NewEngine creates an engine. A nil extractor means ReplayFieldExtractor.
func NewEngine(extractor FieldExtractor) *Engine {
	if extractor == nil {
		extractor = &ReplayFieldExtractor{}
	}
	return &Engine{extractor: extractor}
}

// Filter returns the replays matching every query, in input order.
func (qe *Engine) Filter(replays []*replay.Replay, queries ...FieldQuery) ([]*replay.Replay, error) {
	for _, q := range queries {
		if err := q.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid query %s", q)
		}
	}

	out := make([]*replay.Replay, 0, len(replays))
	for _, r := range replays {
		ok, err := qe.matchAll(r, queries)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Sort orders replays in place. Ties keep their input order.
func (qe *Engine) Sort(replays []*replay.Replay, order SortOrder) error {
	if order.Field == "" {
		return nil
	}
	keys := make(map[*replay.Replay]interface{}, len(replays))
	for _, r := range replays {
		v, err := qe.extractor.Extract(r, order.Field)
		if err != nil {
			return err
		}
		if _, ok := v.([]string); ok {
			return errors.Newf("cannot sort by %s", order.Field)
		}
		keys[r] = v
	}

	slices.SortStableFunc(replays, func(a, b *replay.Replay) int {
		c := compareValues(keys[a], keys[b])
		if order.Desc {
			return -c
		}
		return c
	})
	return nil
}

func (qe *Engine) matchAll(r *replay.Replay, queries []FieldQuery) (bool, error) {
	for _, q := range queries {
		v, err := qe.extractor.Extract(r, q.Field)
		if err != nil {
			return false, err
		}
		ok, err := match(v, q)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// match compares an extracted value with the query's literal.
func match(v interface{}, q FieldQuery) (bool, error) {
	switch val := v.(type) {
	case int64:
		want, err := parseNumber(q)
		if err != nil {
			return false, err
		}
		return compareOp(compareValues(val, want), q.Operator), nil
	case string:
		return compareOp(strings.Compare(val, strings.ToLower(q.Value)), q.Operator), nil
	case []string:
		has := slices.Contains(val, strings.ToLower(q.Value))
		switch q.Operator {
		case "=":
			return has, nil
		case "!=":
			return !has, nil
		}
		return false, errors.Newf("%s only supports = and !=", q.Field)
	}
	return false, errors.Newf("unsupported value type %T for %s", v, q.Field)
}

// parseNumber reads the query literal. Dates take YYYY-MM-DD, times take a
// Go duration or plain milliseconds.
func parseNumber(q FieldQuery) (int64, error) {
	switch q.Field {
	case "date":
		t, err := time.Parse(time.DateOnly, q.Value)
		if err != nil {
			return 0, errors.Wrapf(err, "date %q", q.Value)
		}
		return t.Unix(), nil
	case "time":
		if d, err := time.ParseDuration(q.Value); err == nil {
			return d.Milliseconds(), nil
		}
	}
	n, err := strconv.ParseInt(q.Value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s needs a number, got %q", q.Field, q.Value)
	}
	return n, nil
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	}
	return 0
}

func compareOp(c int, op string) bool {
	switch op {
	case "=":
		return c == 0
	case "!=":
		return c != 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	}
	return false
}
