package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/grovelog/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see a different in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.JournalEntry{},
		&models.UserProgress{},
		&models.BadgeUnlock{},
		&models.FreezeUsage{},
	))
	return db
}

func newTestServices(t *testing.T) (*JournalService, *RewardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	rewards := NewRewardService(db)
	journal := NewJournalService(db, rewards)
	return journal, rewards, db
}

func testDay(offset int) time.Time {
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

// setClock pins the service clock to a given day offset.
func setClock(svc *JournalService, offset int) {
	svc.now = func() time.Time { return testDay(offset) }
}

// submitDays submits one entry per day for offsets [from, to].
func submitDays(t *testing.T, svc *JournalService, userID uuid.UUID, from, to int) *ProgressView {
	t.Helper()
	var view *ProgressView
	for d := from; d <= to; d++ {
		setClock(svc, d)
		var err error
		view, err = svc.Submit(userID, "Happy", "wrote a bit", 90)
		require.NoError(t, err)
	}
	return view
}
