package service

import (
	"encoding/json"
	"errors"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"

	"gorm.io/gorm"
)

type RevisionService struct {
	Revisions *repository.RevisionRepository
	Tests     *repository.TestRepository
}

func NewRevisionService(revisions *repository.RevisionRepository, tests *repository.TestRepository) *RevisionService {
	return &RevisionService{Revisions: revisions, Tests: tests}
}

type RevisionRequest struct {
	TestID     uint `json:"testId" binding:"required"`
	QuestionID uint `json:"questionId" binding:"required"`
}

// RevisionResponse is a revision mark with the question content the Revision
// page renders.
type RevisionResponse struct {
	TestID        uint            `json:"testId"`
	QuestionID    uint            `json:"questionId"`
	TestTitle     string          `json:"testTitle"`
	QuestionText  string          `json:"questionText"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer int             `json:"correctAnswer"`
	Explanation   string          `json:"explanation"`
}

// Mark records a question for later review. The question must belong to the
// given test.
func (s *RevisionService) Mark(userID uint, req RevisionRequest) (*model.RevisionMark, error) {
	test, err := s.Tests.FindByID(req.TestID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	found := false
	for _, q := range test.Questions {
		if q.ID == req.QuestionID {
			found = true
			break
		}
	}
	if !found {
		return nil, util.ErrQuestionNotFound
	}

	mark := &model.RevisionMark{
		UserID:     userID,
		TestID:     req.TestID,
		QuestionID: req.QuestionID,
	}
	if err := s.Revisions.Create(mark); err != nil {
		return nil, err
	}
	return mark, nil
}

func (s *RevisionService) Unmark(userID, testID, questionID uint) error {
	err := s.Revisions.Delete(userID, testID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrRevisionNotFound
	}
	return err
}

func (s *RevisionService) List(userID uint) ([]RevisionResponse, error) {
	details, err := s.Revisions.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]RevisionResponse, len(details))
	for i, d := range details {
		responses[i] = RevisionResponse{
			TestID:        d.TestID,
			QuestionID:    d.QuestionID,
			TestTitle:     d.TestTitle,
			QuestionText:  d.QuestionText,
			Options:       json.RawMessage(d.Options),
			CorrectAnswer: d.CorrectOption,
			Explanation:   d.Explanation,
		}
	}
	return responses, nil
}
