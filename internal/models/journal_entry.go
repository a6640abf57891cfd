package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is one journal submission. The unique index on
// (user_id, entry_date) is what enforces one entry per user per calendar day,
// including under concurrent submits.
type JournalEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_journal_user_date" json:"user_id"`
	EntryDate        time.Time `gorm:"type:date;not null;uniqueIndex:idx_journal_user_date" json:"entry_date"`
	Mood             string    `gorm:"size:20;not null" json:"mood"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	TimeTakenSeconds int       `gorm:"default:0" json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

var Moods = []string{"Happy", "Calm", "Sad", "Angry"}

// ValidMood reports whether mood is one of the fixed mood set.
func ValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}
