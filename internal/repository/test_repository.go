package repository

import (
	"test_portal_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var t model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestRepository) List() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc, id asc")
	}).Order("created_at desc").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) UpdateMeta(test *model.Test) error {
	return r.DB.Model(&model.Test{}).Where("id = ?", test.ID).
		Select("title", "duration", "is_live", "start_window", "end_window").
		Updates(map[string]interface{}{
			"title":        test.Title,
			"duration":     test.Duration,
			"is_live":      test.IsLive,
			"start_window": test.StartWindow,
			"end_window":   test.EndWindow,
		}).Error
}

// ReplaceQuestions swaps the question set in one transaction. Callers must
// only do this while the test has no attempts.
func (r *TestRepository) ReplaceQuestions(testID uint, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", testID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].TestID = testID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

// Delete soft-deletes the test together with its questions, attempts and
// revision marks.
func (r *TestRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Test{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&model.Attempt{}).Error; err != nil {
			return err
		}
		return tx.Where("test_id = ?", id).Delete(&model.RevisionMark{}).Error
	})
}
