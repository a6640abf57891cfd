package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grovelog/backend/internal/models"
	"github.com/grovelog/backend/internal/progression"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownItem        = errors.New("unknown store item")
)

// RewardService owns the reward ledger: points, badge unlocks, and the item
// store. Point mutations are all-or-nothing; a rejected debit leaves the
// balance untouched.
type RewardService struct {
	db *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{db: db}
}

// Grant adds points to the aggregate. Persistence is the caller's
// transaction.
func (s *RewardService) Grant(progress *models.UserProgress, points int) {
	progress.Points += points
}

// Debit removes points, failing without mutation if the balance is too low.
func (s *RewardService) Debit(progress *models.UserProgress, points int) error {
	if progress.Points < points {
		return ErrInsufficientPoints
	}
	progress.Points -= points
	return nil
}

// SyncBadges evaluates the full catalog against the snapshot and inserts any
// newly satisfied badge. Unlocks are append-only; re-evaluating an already
// unlocked badge is a no-op.
func (s *RewardService) SyncBadges(tx *gorm.DB, userID uuid.UUID, snap progression.Snapshot) ([]string, error) {
	var newly []string
	for _, badge := range progression.Badges {
		if !badge.Unlocked(snap) {
			continue
		}
		unlock := models.BadgeUnlock{
			ID:         uuid.New(),
			UserID:     userID,
			BadgeID:    badge.ID,
			UnlockedAt: time.Now().UTC(),
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&unlock)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to unlock badge %s: %w", badge.ID, result.Error)
		}
		if result.RowsAffected > 0 {
			newly = append(newly, badge.ID)
		}
	}
	return newly, nil
}

// BadgeIDs returns every badge the user has unlocked, oldest first.
func (s *RewardService) BadgeIDs(tx *gorm.DB, userID uuid.UUID) ([]string, error) {
	var ids []string
	err := tx.Model(&models.BadgeUnlock{}).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return ids, nil
}

// Purchase debits the fixed item price and credits the matching inventory in
// one transaction. The guarded UPDATE (points >= price) makes the debit
// atomic under concurrent purchases.
func (s *RewardService) Purchase(userID uuid.UUID, itemID string) (*models.UserProgress, error) {
	item, ok := progression.StoreItems[itemID]
	if !ok {
		return nil, ErrUnknownItem
	}

	var progress *models.UserProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := getOrCreateProgress(tx, userID)
		if err != nil {
			return err
		}

		result := tx.Model(&models.UserProgress{}).
			Where("user_id = ? AND points >= ?", userID, item.Price).
			Updates(map[string]interface{}{
				"points":   gorm.Expr("points - ?", item.Price),
				"freezers": gorm.Expr("freezers + 1"),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to purchase item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		if err := tx.Where("user_id = ?", userID).First(p).Error; err != nil {
			return fmt.Errorf("failed to reload progress: %w", err)
		}
		progress = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// getOrCreateProgress loads the per-user aggregate, creating the zero row on
// first contact. A duplicate-key race falls back to reloading the winner's
// row.
func getOrCreateProgress(tx *gorm.DB, userID uuid.UUID) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := tx.Where("user_id = ?", userID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	progress = models.UserProgress{ID: uuid.New(), UserID: userID}
	if createErr := tx.Create(&progress).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			if err := tx.Where("user_id = ?", userID).First(&progress).Error; err != nil {
				return nil, fmt.Errorf("failed to load progress: %w", err)
			}
			return &progress, nil
		}
		return nil, fmt.Errorf("failed to create progress: %w", createErr)
	}
	return &progress, nil
}
