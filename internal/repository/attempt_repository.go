package repository

import (
	"test_portal_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Insert writes the attempt as-is. When the attempt claims the ranked slot
// and another ranked attempt for the same (user, test) already exists, the
// unique index rejects the row and gorm surfaces ErrDuplicatedKey; the
// service layer retries as a re-attempt.
func (r *AttemptRepository) Insert(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) HasAttempt(userID, testID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ? AND test_id = ?", userID, testID).
		Count(&count).Error
	return count > 0, err
}

func (r *AttemptRepository) ListByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&attempts).Error
	return attempts, err
}

// ListFirstByTest returns all ranked attempts for a test in the leaderboard
// order: marks desc, time asc, then submission time and id as deterministic
// tie-breaks.
func (r *AttemptRepository) ListFirstByTest(testID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Preload("User").
		Where("test_id = ? AND is_first_attempt = ?", testID, true).
		Order("marks desc, time_taken asc, created_at asc, id asc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountByTest(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) CountFirstByTest(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).
		Where("test_id = ? AND is_first_attempt = ?", testID, true).
		Count(&count).Error
	return count, err
}
