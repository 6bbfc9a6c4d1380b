package lineup_test

import (
	"fmt"

	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/lineup"
)

func ExampleComputeLayout() {
	entities := []entity.Entity{
		{ID: 1, Name: "A", Persons: 1, Turnover: 100},
		{ID: 2, Name: "B", Persons: 4, Turnover: 40},
		{ID: 3, Name: "C", Persons: 9, Turnover: 9},
	}

	l := lineup.ComputeLayout(entities, entity.Persons)
	fmt.Println("persons:", l.SortedIDs)

	// A was centred; after switching metric it is still centred.
	l = lineup.ComputeLayout(entities, entity.Turnover, lineup.WithPreviousCentered(1))
	fmt.Println("turnover:", l.SortedIDs)
	fmt.Println("centre:", l.CenteredPosition, "scroll to:", lineup.ScrollTargetFor(l.CenteredPosition, 96))
	// Output:
	// persons: [1 2 3]
	// turnover: [3 2 1]
	// centre: 2 scroll to: 192
}

func ExampleTransformsFor() {
	entities := []entity.Entity{
		{ID: 1, Name: "A", Persons: 1},
		{ID: 2, Name: "B", Persons: 4},
		{ID: 3, Name: "C", Persons: 9},
	}
	l := lineup.ComputeLayout(entities, entity.Persons)

	f := lineup.FloatingIndexFromScroll(96, 96, l.Len())
	ts := lineup.TransformsFor(f, l.SortedIDs, l.Table)
	for _, id := range l.SortedIDs {
		fmt.Printf("%d: scale=%.2f offset=%.2f\n", id, ts[id].Scale, ts[id].Offset)
	}
	// Output:
	// 1: scale=0.50 offset=-0.73
	// 2: scale=1.00 offset=0.00
	// 3: scale=1.50 offset=1.28
}
