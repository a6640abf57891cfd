package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/grovelog/backend/internal/models"
	"github.com/grovelog/backend/internal/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFirstEntry(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	setClock(journal, 0)
	view, err := journal.Submit(userID, "Happy", "my first entry", 120)
	require.NoError(t, err)

	assert.Equal(t, 1, view.Progress.CurrentStreak)
	assert.Equal(t, 1, view.Progress.LongestStreak)
	assert.Equal(t, 1, view.Progress.TotalJournals)
	assert.Equal(t, 10, view.Progress.Points)
	assert.True(t, view.JournaledToday)
	require.NotNil(t, view.Progress.LastJournalDate)
	assert.Equal(t, []string{"first-step"}, view.Badges)
}

func TestSubmitValidation(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()
	setClock(journal, 0)

	_, err := journal.Submit(userID, "Excited", "content", 10)
	assert.ErrorIs(t, err, ErrInvalidMood)

	_, err = journal.Submit(userID, "Happy", "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = journal.Submit(userID, "Happy", "content", -1)
	assert.ErrorIs(t, err, ErrNegativeTime)
}

func TestSubmitTwiceSameDay(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	setClock(journal, 0)
	first, err := journal.Submit(userID, "Calm", "morning pages", 60)
	require.NoError(t, err)

	_, err = journal.Submit(userID, "Sad", "second attempt", 30)
	assert.ErrorIs(t, err, ErrAlreadyJournaledToday)

	// State after the rejected call equals state after the first.
	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ?", userID).First(&progress).Error)
	assert.Equal(t, first.Progress.Points, progress.Points)
	assert.Equal(t, first.Progress.TotalJournals, progress.TotalJournals)
	assert.Equal(t, first.Progress.CurrentStreak, progress.CurrentStreak)

	var count int64
	require.NoError(t, db.Model(&models.JournalEntry{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitConsecutiveDaysReachesPlant(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	view := submitDays(t, journal, userID, 0, 6)
	assert.Equal(t, 7, view.Progress.CurrentStreak)
	assert.Equal(t, 7, view.Progress.TotalJournals)
	assert.Equal(t, 70, view.Progress.Points)
	assert.Contains(t, view.Badges, "week-warrior")
}

func TestSubmitAfterMissedDayNoFreezerResets(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 6) // streak 7 through day 6

	setClock(journal, 8) // day 7 missed
	view, err := journal.Submit(userID, "Angry", "missed a day", 45)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Progress.CurrentStreak)
	assert.Equal(t, 7, view.Progress.LongestStreak)
}

func TestSubmitAfterMissedDayWithFreezer(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 6) // streak 7 through day 6
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 1).Error)

	setClock(journal, 8) // day 7 missed, bridged by the freezer
	view, err := journal.Submit(userID, "Calm", "the freezer saved me", 45)
	require.NoError(t, err)

	assert.Equal(t, 9, view.Progress.CurrentStreak)
	assert.Equal(t, 0, view.Progress.Freezers)
	assert.Equal(t, 1, view.Progress.FreezersUsed)

	var usage models.FreezeUsage
	require.NoError(t, db.Where("user_id = ?", userID).First(&usage).Error)
	assert.True(t, progression.Day(usage.CoveredDate).Equal(progression.Day(testDay(7))))
}

func TestSubmitTwoMissedDaysNotBridged(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 4)
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 2).Error)

	setClock(journal, 7) // days 5 and 6 missed
	view, err := journal.Submit(userID, "Sad", "long break", 45)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Progress.CurrentStreak)
	assert.Equal(t, 2, view.Progress.Freezers) // nothing consumed
}

func TestStreakNeverExceedsTotalJournals(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	for d := 0; d <= 9; d++ {
		setClock(journal, d)
		view, err := journal.Submit(userID, "Happy", "entry", 30)
		require.NoError(t, err)
		assert.LessOrEqual(t, view.Progress.CurrentStreak, view.Progress.TotalJournals)
	}
}

func TestJournalMasterBadgeUnlockedOnce(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	view := submitDays(t, journal, userID, 0, 49)
	assert.Equal(t, 50, view.Progress.TotalJournals)
	assert.Contains(t, view.Badges, "journal-master")
	assert.Contains(t, view.Badges, "consistency-king")

	var count int64
	require.NoError(t, db.Model(&models.BadgeUnlock{}).
		Where("user_id = ? AND badge_id = ?", userID, "journal-master").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Another submission re-evaluates the catalog without duplicating.
	setClock(journal, 50)
	_, err := journal.Submit(userID, "Happy", "day 51", 30)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.BadgeUnlock{}).
		Where("user_id = ? AND badge_id = ?", userID, "journal-master").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHistoryOrderedByDateDescending(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 4)

	entries, total, err := journal.History(userID, 30, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].EntryDate.Before(entries[i-1].EntryDate))
	}
}

func TestDeleteUnknownEntry(t *testing.T) {
	journal, _, _ := newTestServices(t)

	_, err := journal.Delete(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDeleteMiddleEntryRecomputesFromLedger(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 6) // streak 7, week-warrior unlocked

	entries, _, err := journal.History(userID, 30, 0)
	require.NoError(t, err)

	// Delete day 3 (entries are date-descending, so index 3).
	setClock(journal, 6)
	view, err := journal.Delete(userID, entries[3].ID)
	require.NoError(t, err)

	// The surviving run ending today is days 4..6.
	assert.Equal(t, 3, view.Progress.CurrentStreak)
	assert.Equal(t, 6, view.Progress.TotalJournals)
	// High-water mark and badges are never rolled back.
	assert.Equal(t, 7, view.Progress.LongestStreak)
	assert.Contains(t, view.Badges, "week-warrior")
	assert.True(t, view.JournaledToday)
}

func TestDeleteOnlyEntryZeroesStreak(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	setClock(journal, 0)
	view, err := journal.Submit(userID, "Happy", "only entry", 20)
	require.NoError(t, err)

	entries, _, err := journal.History(userID, 30, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	view, err = journal.Delete(userID, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Progress.CurrentStreak)
	assert.Equal(t, 0, view.Progress.TotalJournals)
	assert.Nil(t, view.Progress.LastJournalDate)
	assert.False(t, view.JournaledToday)
	// Points and badges stay.
	assert.Equal(t, 10, view.Progress.Points)
	assert.Contains(t, view.Badges, "first-step")
}

func TestDeleteCountsFrozenDayAsQualifying(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 2)
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 1).Error)

	setClock(journal, 4) // day 3 bridged
	_, err := journal.Submit(userID, "Calm", "bridged", 30)
	require.NoError(t, err)

	// Delete day 0; the run 1,2,[3],4 must survive intact.
	entries, _, err := journal.History(userID, 30, 0)
	require.NoError(t, err)
	oldest := entries[len(entries)-1]

	view, err := journal.Delete(userID, oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Progress.CurrentStreak)
}

func TestResubmitAfterDeleteAcrossBridgedDay(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 2)
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 1).Error)

	setClock(journal, 4) // day 3 bridged, streak 5
	_, err := journal.Submit(userID, "Calm", "bridged", 30)
	require.NoError(t, err)

	entries, _, err := journal.History(userID, 30, 0)
	require.NoError(t, err)
	view, err := journal.Delete(userID, entries[0].ID) // newest entry, day 4
	require.NoError(t, err)
	assert.Equal(t, 4, view.Progress.CurrentStreak) // run 0..2 plus frozen day 3

	// Resubmitting on the same day must reuse the recorded freeze instead of
	// spending another one or failing on the duplicate usage row.
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 1).Error)

	view, err = journal.Submit(userID, "Happy", "back again", 30)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Progress.CurrentStreak)
	assert.Equal(t, 1, view.Progress.Freezers) // untouched
	assert.Equal(t, 1, view.Progress.FreezersUsed)

	var usages int64
	require.NoError(t, db.Model(&models.FreezeUsage{}).
		Where("user_id = ?", userID).Count(&usages).Error)
	assert.EqualValues(t, 1, usages)
}

func TestResubmitAfterDeleteAcrossBridgedDayWithoutFreezer(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 2)
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("freezers", 1).Error)

	setClock(journal, 4)
	_, err := journal.Submit(userID, "Calm", "bridged", 30)
	require.NoError(t, err)

	entries, _, err := journal.History(userID, 30, 0)
	require.NoError(t, err)
	_, err = journal.Delete(userID, entries[0].ID)
	require.NoError(t, err)

	// No freezer in stock, but day 3 is a persisted frozen fact, so the
	// resubmission must not reset the streak.
	view, err := journal.Submit(userID, "Happy", "back again", 30)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Progress.CurrentStreak)
	assert.Equal(t, 0, view.Progress.Freezers)
}

func TestProgressUnknownUserIsZeroAggregate(t *testing.T) {
	journal, _, _ := newTestServices(t)

	view, err := journal.Progress(uuid.New())
	require.NoError(t, err)
	assert.Zero(t, view.Progress.CurrentStreak)
	assert.Zero(t, view.Progress.Points)
	assert.Empty(t, view.Badges)
	assert.False(t, view.JournaledToday)
}

func TestProgressRunEndingYesterdayStillActive(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 2)

	setClock(journal, 3)
	view, err := journal.Progress(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Progress.CurrentStreak)
	assert.False(t, view.JournaledToday)
}

func TestProgressBrokenRunReadsZeroWithoutMutation(t *testing.T) {
	journal, _, db := newTestServices(t)
	userID := uuid.New()

	submitDays(t, journal, userID, 0, 2)

	setClock(journal, 8)
	view, err := journal.Progress(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Progress.CurrentStreak)

	// The read path never writes; the stored value is corrected on the
	// next submission.
	var stored models.UserProgress
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, 3, stored.CurrentStreak)
}

func TestAnalytics(t *testing.T) {
	journal, _, _ := newTestServices(t)
	userID := uuid.New()

	moods := []string{"Happy", "Happy", "Calm", "Sad"}
	for d, mood := range moods {
		setClock(journal, d)
		_, err := journal.Submit(userID, mood, "entry", 60)
		require.NoError(t, err)
	}

	breakdown, total, totalTime, err := journal.Analytics(userID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.EqualValues(t, 240, totalTime)

	counts := map[string]int64{}
	for _, b := range breakdown {
		counts[b.Mood] = b.Count
	}
	assert.EqualValues(t, 2, counts["Happy"])
	assert.EqualValues(t, 1, counts["Calm"])
	assert.EqualValues(t, 1, counts["Sad"])
}
