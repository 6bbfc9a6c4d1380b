package order

import (
	"cmp"
	"slices"

	"github.com/matzehuels/bubblerow/pkg/entity"
)

// Sort returns the ids of entities ascending by acc. Ties keep input order.
// The input slice is not modified.
func Sort(entities []entity.Entity, acc entity.Accessor) []int {
	type keyed struct {
		id    int
		value float64
	}
	items := make([]keyed, len(entities))
	for i, e := range entities {
		items[i] = keyed{id: e.ID, value: acc.ValueOf(e)}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return cmp.Compare(a.value, b.value)
	})

	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}
