package progression

// Snapshot is the slice of a user's aggregate that badge predicates see.
type Snapshot struct {
	CurrentStreak int
	LongestStreak int
	TotalJournals int
}

// Badge is an immutable catalog entry. Unlocked is the predicate; once a
// badge is granted it stays granted regardless of later snapshots.
type Badge struct {
	ID          string
	Name        string
	Description string
	Unlocked    func(Snapshot) bool
}

// Badges is the full catalog, evaluated uniformly after every submission.
// Streak badges key off the longest streak so deletions can never invalidate
// an already-earned badge.
var Badges = []Badge{
	{
		ID:          "first-step",
		Name:        "First Step",
		Description: "Completed your first journal",
		Unlocked:    func(s Snapshot) bool { return s.TotalJournals >= 1 },
	},
	{
		ID:          "week-warrior",
		Name:        "Week Warrior",
		Description: "Reached a 7-day streak",
		Unlocked:    func(s Snapshot) bool { return s.LongestStreak >= 7 },
	},
	{
		ID:          "consistency-king",
		Name:        "Consistency King",
		Description: "Reached a 30-day streak",
		Unlocked:    func(s Snapshot) bool { return s.LongestStreak >= 30 },
	},
	{
		ID:          "journal-master",
		Name:        "Journal Master",
		Description: "Wrote 50 journals",
		Unlocked:    func(s Snapshot) bool { return s.TotalJournals >= 50 },
	},
}

// BadgeByID looks up a catalog entry.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
