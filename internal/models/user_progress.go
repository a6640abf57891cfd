package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress is the per-user reward aggregate. CurrentStreak and the growth
// stage derived from it are recomputed by the engine; LongestStreak is a
// high-water mark and never decreases.
type UserProgress struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentStreak   int        `gorm:"default:0" json:"current_streak"`
	LongestStreak   int        `gorm:"default:0" json:"longest_streak"`
	TotalJournals   int        `gorm:"default:0" json:"total_journals"`
	Points          int        `gorm:"default:0" json:"points"`
	Freezers        int        `gorm:"default:0" json:"freezers"`
	FreezersUsed    int        `gorm:"default:0" json:"freezers_used"`
	LastJournalDate *time.Time `gorm:"type:date" json:"last_journal_date"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BadgeUnlock records a granted badge. Rows are append-only; a badge is never
// revoked even if a later deletion invalidates its predicate.
type BadgeUnlock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_badge_user_badge" json:"user_id"`
	BadgeID    string    `gorm:"size:50;not null;uniqueIndex:idx_badge_user_badge" json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// FreezeUsage records a calendar day bridged by a consumed streak freezer.
// Bridged days count as qualifying days when the streak is recomputed from
// the ledger after a deletion.
type FreezeUsage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_freeze_user_date" json:"user_id"`
	CoveredDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_freeze_user_date" json:"covered_date"`
	CreatedAt   time.Time `json:"created_at"`
}
