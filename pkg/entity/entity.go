package entity

// daysPerYear converts yearly turnover into daily turnover for captions.
const daysPerYear = 365

// Entity is a single bubble: a person, a company, a country.
// Entities are never mutated by the layout engine; identity is the ID.
type Entity struct {
	ID       int     `json:"id" toml:"id" yaml:"id"`
	Name     string  `json:"name" toml:"name" yaml:"name"`
	Persons  float64 `json:"persons" toml:"persons" yaml:"persons"`
	Turnover float64 `json:"turnover" toml:"turnover" yaml:"turnover"` // yearly
}

// DailyTurnover returns the yearly turnover spread over a calendar year.
func (e Entity) DailyTurnover() float64 { return e.Turnover / daysPerYear }

// IDs returns the ids of entities in input order.
func IDs(entities []Entity) []int {
	ids := make([]int, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	return ids
}

// ByID indexes entities by id. Later duplicates overwrite earlier ones;
// use [Validate] first when duplicates must be rejected.
func ByID(entities []Entity) map[int]Entity {
	m := make(map[int]Entity, len(entities))
	for _, e := range entities {
		m[e.ID] = e
	}
	return m
}
