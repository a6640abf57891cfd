package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgePredicates(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		unlocked []string
	}{
		{
			name:     "new user",
			snapshot: Snapshot{},
			unlocked: nil,
		},
		{
			name:     "first journal",
			snapshot: Snapshot{CurrentStreak: 1, LongestStreak: 1, TotalJournals: 1},
			unlocked: []string{"first-step"},
		},
		{
			name:     "week streak",
			snapshot: Snapshot{CurrentStreak: 7, LongestStreak: 7, TotalJournals: 7},
			unlocked: []string{"first-step", "week-warrior"},
		},
		{
			name:     "fifty journals, broken streak",
			snapshot: Snapshot{CurrentStreak: 2, LongestStreak: 9, TotalJournals: 50},
			unlocked: []string{"first-step", "week-warrior", "journal-master"},
		},
		{
			name:     "month streak",
			snapshot: Snapshot{CurrentStreak: 30, LongestStreak: 30, TotalJournals: 30},
			unlocked: []string{"first-step", "week-warrior", "consistency-king"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, b := range Badges {
				if b.Unlocked(tt.snapshot) {
					got = append(got, b.ID)
				}
			}
			assert.Equal(t, tt.unlocked, got)
		})
	}
}

func TestStreakBadgesUseLongestStreak(t *testing.T) {
	// A deletion that lowers the current streak must not flip a streak
	// badge's predicate back to false.
	b, ok := BadgeByID("week-warrior")
	require.True(t, ok)
	assert.True(t, b.Unlocked(Snapshot{CurrentStreak: 0, LongestStreak: 7}))
}

func TestBadgeByIDUnknown(t *testing.T) {
	_, ok := BadgeByID("no-such-badge")
	assert.False(t, ok)
}

func TestStoreCatalog(t *testing.T) {
	item, ok := StoreItems[ItemStreakFreezer]
	require.True(t, ok)
	assert.Equal(t, 50, item.Price)
}
