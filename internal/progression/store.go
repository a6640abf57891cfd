package progression

// ItemStreakFreezer protects a streak across one missed day.
const ItemStreakFreezer = "streak-freezer"

// Item is a purchasable store entry with a fixed point price.
type Item struct {
	ID    string
	Name  string
	Price int
}

// StoreItems is the fixed price table.
var StoreItems = map[string]Item{
	ItemStreakFreezer: {
		ID:    ItemStreakFreezer,
		Name:  "Streak Freezer",
		Price: 50,
	},
}
