package entity

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bubblerow/pkg/errors"
)

// Metric names the scalar used to size and sort entities.
type Metric string

const (
	Persons           Metric = "persons"
	Turnover          Metric = "turnover"
	TurnoverPerPerson Metric = "turnover-per-person"
)

// Metrics lists every supported metric in menu order.
var Metrics = []Metric{Persons, Turnover, TurnoverPerPerson}

// aliases maps alternative spellings (including the camelCase field names
// used by older datasets) to canonical metrics.
var aliases = map[string]Metric{
	"persons":             Persons,
	"population":          Persons,
	"numberofpersons":     Persons,
	"turnover":            Turnover,
	"yearlyturnover":      Turnover,
	"turnover-per-person": TurnoverPerPerson,
	"turnoverperperson":   TurnoverPerPerson,
	"per-person":          TurnoverPerPerson,
}

// ParseMetric resolves a user-supplied metric name. Matching ignores case
// and surrounding whitespace. Unknown names yield an INVALID_METRIC error,
// which callers must handle before invoking the layout engine.
func ParseMetric(s string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if m, ok := aliases[key]; ok {
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMetric, "unknown metric %q (valid: %s)", s, strings.Join(Names(), ", "))
}

// Names returns the canonical names of all metrics.
func Names() []string {
	names := make([]string, len(Metrics))
	for i, m := range Metrics {
		names[i] = string(m)
	}
	return names
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// ValueOf returns the magnitude of e under m.
//
// The derived ratio is 0 when the entity has no persons. ValueOf panics for
// an unknown metric; names coming from users go through [ParseMetric].
func (m Metric) ValueOf(e Entity) float64 {
	switch m {
	case Persons:
		return e.Persons
	case Turnover:
		return e.Turnover
	case TurnoverPerPerson:
		if e.Persons == 0 {
			return 0
		}
		return e.Turnover / e.Persons
	}
	panic(fmt.Sprintf("entity: unknown metric %q", string(m)))
}

// Label returns a short human-readable caption for m.
func (m Metric) Label() string {
	switch m {
	case Persons:
		return "Persons"
	case Turnover:
		return "Yearly turnover"
	case TurnoverPerPerson:
		return "Turnover per person"
	}
	return string(m)
}

// Next returns the metric following m in menu order, wrapping around.
func (m Metric) Next() Metric {
	for i, known := range Metrics {
		if m == known {
			return Metrics[(i+1)%len(Metrics)]
		}
	}
	return Metrics[0]
}

// ValueOf is shorthand for m.ValueOf(e).
func ValueOf(e Entity, m Metric) float64 { return m.ValueOf(e) }

// Accessor extracts the sort and size magnitude from an entity.
// [Metric] implements Accessor.
type Accessor interface {
	ValueOf(e Entity) float64
}

// AccessorFunc adapts an ordinary function to [Accessor].
type AccessorFunc func(Entity) float64

// ValueOf calls f(e).
func (f AccessorFunc) ValueOf(e Entity) float64 { return f(e) }

var _ Accessor = Persons
