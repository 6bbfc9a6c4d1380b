package entity

// sample spans roughly ten orders of magnitude so that area-proportional
// sizing and the three metrics all produce visibly different orders.
var sample = []Entity{
	{ID: 1, Name: "You", Persons: 1, Turnover: 40_000},
	{ID: 2, Name: "Your Family", Persons: 4, Turnover: 90_000},
	{ID: 3, Name: "Your Friends", Persons: 30, Turnover: 1_000_000},
	{ID: 4, Name: "A Village", Persons: 200, Turnover: 10_000_000},
	{ID: 5, Name: "Town", Persons: 10_000, Turnover: 400_000_000},
	{ID: 6, Name: "City", Persons: 1_000_000, Turnover: 40_000_000_000},
	{ID: 7, Name: "Walmart", Persons: 2_100_000, Turnover: 681_000_000_000},
	{ID: 8, Name: "Germany", Persons: 83_000_000, Turnover: 5_000_000_000_000},
	{ID: 9, Name: "Bosch", Persons: 418_000, Turnover: 90_000_000_000},
	{ID: 10, Name: "China", Persons: 1_400_000_000, Turnover: 19_000_000_000_000},
	{ID: 11, Name: "India", Persons: 1_430_000_000, Turnover: 4_200_000_000_000},
	{ID: 12, Name: "World", Persons: 8_000_000_000, Turnover: 100_000_000_000_000},
	{ID: 13, Name: "Elon Musk", Persons: 1, Turnover: 300_000_000_000},
	{ID: 14, Name: "USA", Persons: 300_000_000, Turnover: 30_000_000_000_000},
	{ID: 15, Name: "Amazon", Persons: 1_556_000, Turnover: 638_000_000_000},
	{ID: 16, Name: "State Grid Corporation of China", Persons: 1_361_000, Turnover: 546_000_000_000},
	{ID: 17, Name: "Africa", Persons: 1_000_000_000, Turnover: 3_000_000_000_000},
	{ID: 18, Name: "Stuttgart", Persons: 612_000, Turnover: 59_000_000_000},
	{ID: 19, Name: "OpenAI", Persons: 3_000, Turnover: 3_700_000_000},
}

// Sample returns a fresh copy of the built-in dataset.
func Sample() []Entity {
	out := make([]Entity, len(sample))
	copy(out, sample)
	return out
}
