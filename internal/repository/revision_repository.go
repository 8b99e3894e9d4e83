package repository

import (
	"errors"
	"test_portal_backend/internal/model"

	"gorm.io/gorm"
)

type RevisionRepository struct {
	DB *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{DB: db}
}

// Create is idempotent: marking an already-marked question returns the
// existing row.
func (r *RevisionRepository) Create(mark *model.RevisionMark) error {
	err := r.DB.Create(mark).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.DB.Where("user_id = ? AND test_id = ? AND question_id = ?",
			mark.UserID, mark.TestID, mark.QuestionID).First(mark).Error
	}
	return err
}

// RevisionDetail is a revision mark joined with the question it points to.
type RevisionDetail struct {
	TestID        uint   `json:"testId"`
	QuestionID    uint   `json:"questionId"`
	TestTitle     string `json:"testTitle"`
	QuestionText  string `json:"questionText"`
	Options       []byte `gorm:"column:options" json:"-"`
	CorrectOption int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

func (r *RevisionRepository) ListByUser(userID uint) ([]RevisionDetail, error) {
	var details []RevisionDetail
	err := r.DB.Table("revision_marks").
		Select("revision_marks.test_id, revision_marks.question_id, tests.title as test_title, questions.text as question_text, questions.options, questions.correct_option, questions.explanation").
		Joins("JOIN questions ON questions.id = revision_marks.question_id AND questions.deleted_at IS NULL").
		Joins("JOIN tests ON tests.id = revision_marks.test_id AND tests.deleted_at IS NULL").
		Where("revision_marks.user_id = ? AND revision_marks.deleted_at IS NULL", userID).
		Order("revision_marks.created_at desc").
		Scan(&details).Error
	return details, err
}

// Delete removes the mark outright rather than soft-deleting it. A
// soft-deleted row would keep occupying the (user, test, question) unique
// tuple and block the user from ever marking the question again.
func (r *RevisionRepository) Delete(userID, testID, questionID uint) error {
	res := r.DB.Unscoped().Where("user_id = ? AND test_id = ? AND question_id = ?",
		userID, testID, questionID).Delete(&model.RevisionMark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
