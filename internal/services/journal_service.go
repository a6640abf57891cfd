package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovelog/backend/internal/models"
	"github.com/grovelog/backend/internal/progression"
	"gorm.io/gorm"
)

var (
	ErrInvalidMood           = errors.New("invalid mood")
	ErrEmptyContent          = errors.New("content is required")
	ErrNegativeTime          = errors.New("time taken cannot be negative")
	ErrAlreadyJournaledToday = errors.New("already journaled today")
	ErrEntryNotFound         = errors.New("journal entry not found")
)

// ProgressView is the aggregate state returned to callers. CurrentStreak is
// the effective streak derived from the ledger, so a run broken days ago
// reads as 0 even before the next submission resets the stored value.
type ProgressView struct {
	Progress       models.UserProgress
	Badges         []string
	JournaledToday bool
}

// MoodBreakdown is one slice of the mood distribution.
type MoodBreakdown struct {
	Mood  string
	Count int64
}

// JournalService is the submission orchestrator: it owns the entry ledger
// and drives the streak, reward, and badge updates as one transaction.
type JournalService struct {
	db      *gorm.DB
	rewards *RewardService
	now     func() time.Time
}

func NewJournalService(db *gorm.DB, rewards *RewardService) *JournalService {
	return &JournalService{db: db, rewards: rewards, now: time.Now}
}

// Submit validates and appends today's entry, advances the streak (consuming
// at most one freezer), grants the submission reward, and unlocks any newly
// earned badges. Either the whole aggregate update lands or none of it does.
func (s *JournalService) Submit(userID uuid.UUID, mood, content string, timeTakenSeconds int) (*ProgressView, error) {
	if !models.ValidMood(mood) {
		return nil, ErrInvalidMood
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if timeTakenSeconds < 0 {
		return nil, ErrNegativeTime
	}

	today := progression.Day(s.now())

	var view *ProgressView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		progress, err := getOrCreateProgress(tx, userID)
		if err != nil {
			return err
		}

		entry := models.JournalEntry{
			ID:               uuid.New(),
			UserID:           userID,
			EntryDate:        today,
			Mood:             mood,
			Content:          content,
			TimeTakenSeconds: timeTakenSeconds,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyJournaledToday
			}
			return fmt.Errorf("failed to create journal entry: %w", err)
		}

		adv, err := s.advance(tx, progress, today)
		if err != nil {
			return err
		}
		if adv.FreezeConsumed {
			progress.Freezers--
			progress.FreezersUsed++
			usage := models.FreezeUsage{
				ID:          uuid.New(),
				UserID:      userID,
				CoveredDate: adv.FrozenDate,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return fmt.Errorf("failed to record freeze usage: %w", err)
			}
		}

		progress.CurrentStreak = adv.Streak
		if progress.CurrentStreak > progress.LongestStreak {
			progress.LongestStreak = progress.CurrentStreak
		}
		progress.TotalJournals++
		progress.LastJournalDate = &today
		s.rewards.Grant(progress, progression.PointsPerJournal)

		if err := tx.Save(progress).Error; err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		snap := progression.Snapshot{
			CurrentStreak: progress.CurrentStreak,
			LongestStreak: progress.LongestStreak,
			TotalJournals: progress.TotalJournals,
		}
		if _, err := s.rewards.SyncBadges(tx, userID, snap); err != nil {
			return err
		}

		badges, err := s.rewards.BadgeIDs(tx, userID)
		if err != nil {
			return err
		}

		view = &ProgressView{Progress: *progress, Badges: badges, JournaledToday: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// advance computes the post-submission streak. A one-day gap whose missed day
// is already covered by a recorded freeze (the entry in front of it was
// deleted and is being resubmitted) counts as qualifying without spending
// another freezer. The streak is re-derived from the ledger in that case: the
// stored value may already include the frozen day, so arithmetic on top of it
// would double-count.
func (s *JournalService) advance(tx *gorm.DB, progress *models.UserProgress, today time.Time) (progression.AdvanceResult, error) {
	if progress.LastJournalDate != nil && progression.DaysBetween(*progress.LastJournalDate, today) == 2 {
		gapDay := progression.Day(today).AddDate(0, 0, -1)
		var covered int64
		err := tx.Model(&models.FreezeUsage{}).
			Where("user_id = ? AND covered_date = ?", progress.UserID, gapDay).
			Count(&covered).Error
		if err != nil {
			return progression.AdvanceResult{}, fmt.Errorf("failed to check freeze usage: %w", err)
		}
		if covered > 0 {
			dates, err := entryDates(tx, progress.UserID)
			if err != nil {
				return progression.AdvanceResult{}, err
			}
			frozen, err := frozenDates(tx, progress.UserID)
			if err != nil {
				return progression.AdvanceResult{}, err
			}
			return progression.AdvanceResult{
				Streak: progression.RecomputeStreak(append(dates, frozen...), today),
			}, nil
		}
	}
	return progression.AdvanceStreak(progress.LastJournalDate, progress.CurrentStreak, progress.Freezers, today), nil
}

// History returns the user's entries ordered by date descending.
func (s *JournalService) History(userID uuid.UUID, limit, offset int) ([]models.JournalEntry, int64, error) {
	var total int64
	if err := s.db.Model(&models.JournalEntry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	var entries []models.JournalEntry
	err := s.db.Where("user_id = ?", userID).
		Order("entry_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, total, nil
}

// Delete removes one entry and re-derives the streak from the remaining
// ledger, since a deletion can break the chain at any point, not just the
// tail. Longest streak, badges, and points are never rolled back.
func (s *JournalService) Delete(userID, entryID uuid.UUID) (*ProgressView, error) {
	today := progression.Day(s.now())

	var view *ProgressView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.JournalEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrEntryNotFound
		}

		entryDates, err := entryDates(tx, userID)
		if err != nil {
			return err
		}
		frozenDates, err := frozenDates(tx, userID)
		if err != nil {
			return err
		}

		progress, err := getOrCreateProgress(tx, userID)
		if err != nil {
			return err
		}

		progress.CurrentStreak = progression.RecomputeStreak(append(entryDates, frozenDates...), today)
		progress.TotalJournals = len(entryDates)
		progress.LastJournalDate = latestDate(entryDates)

		if err := tx.Save(progress).Error; err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		badges, err := s.rewards.BadgeIDs(tx, userID)
		if err != nil {
			return err
		}

		view = &ProgressView{
			Progress:       *progress,
			Badges:         badges,
			JournaledToday: containsDay(entryDates, today),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Progress is the read path: no stored state is mutated. A user with no rows
// yet reads as an all-zero aggregate.
func (s *JournalService) Progress(userID uuid.UUID) (*ProgressView, error) {
	today := progression.Day(s.now())

	var progress models.UserProgress
	err := s.db.Where("user_id = ?", userID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &ProgressView{Progress: models.UserProgress{UserID: userID}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	badges, err := s.rewards.BadgeIDs(s.db, userID)
	if err != nil {
		return nil, err
	}

	journaledToday := false
	if progress.LastJournalDate != nil && progression.DaysBetween(*progress.LastJournalDate, today) == 0 {
		journaledToday = true
	}

	// A run that ended before yesterday is broken; report it as 0 rather
	// than trusting the stale stored value.
	if progress.LastJournalDate == nil {
		progress.CurrentStreak = 0
	} else if progression.DaysBetween(*progress.LastJournalDate, today) > 1 {
		progress.CurrentStreak = 0
	}

	return &ProgressView{Progress: progress, Badges: badges, JournaledToday: journaledToday}, nil
}

// Analytics aggregates the mood distribution and totals over the ledger.
func (s *JournalService) Analytics(userID uuid.UUID) ([]MoodBreakdown, int64, int64, error) {
	var breakdown []MoodBreakdown
	err := s.db.Model(&models.JournalEntry{}).
		Select("mood, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("mood").
		Order("count DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to aggregate moods: %w", err)
	}

	var total, totalTime int64
	for _, b := range breakdown {
		total += b.Count
	}
	err = s.db.Model(&models.JournalEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(time_taken_seconds), 0)").
		Scan(&totalTime).Error
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to sum time taken: %w", err)
	}

	return breakdown, total, totalTime, nil
}

func entryDates(tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	var dates []time.Time
	err := tx.Model(&models.JournalEntry{}).
		Where("user_id = ?", userID).
		Order("entry_date ASC").
		Pluck("entry_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entry dates: %w", err)
	}
	return dates, nil
}

func frozenDates(tx *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	var dates []time.Time
	err := tx.Model(&models.FreezeUsage{}).
		Where("user_id = ?", userID).
		Pluck("covered_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list freeze dates: %w", err)
	}
	return dates, nil
}

func latestDate(dates []time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}
	latest := progression.Day(dates[0])
	for _, d := range dates[1:] {
		if day := progression.Day(d); day.After(latest) {
			latest = day
		}
	}
	return &latest
}

func containsDay(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if progression.Day(d).Equal(day) {
			return true
		}
	}
	return false
}
