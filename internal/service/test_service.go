package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type TestService struct {
	Tests    *repository.TestRepository
	Attempts *repository.AttemptRepository
}

func NewTestService(tests *repository.TestRepository, attempts *repository.AttemptRepository) *TestService {
	return &TestService{Tests: tests, Attempts: attempts}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrTestNotFound
	}
	return err
}

type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type TestRequest struct {
	Title       string            `json:"title" binding:"required"`
	Duration    int               `json:"duration" binding:"required,min=1"`
	IsLive      bool              `json:"isLive"`
	StartWindow *time.Time        `json:"startWindow"`
	EndWindow   *time.Time        `json:"endWindow"`
	Questions   []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// StudentQuestion is a question with the answer key stripped.
type StudentQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Options json.RawMessage `json:"options"`
	Order   int             `json:"order"`
}

// StudentTest is a test as students may see it.
type StudentTest struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Duration    int               `json:"duration"`
	IsLive      bool              `json:"isLive"`
	StartWindow *time.Time        `json:"startWindow,omitempty"`
	EndWindow   *time.Time        `json:"endWindow,omitempty"`
	Questions   []StudentQuestion `json:"questions"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func (s *TestService) Create(req TestRequest) (*model.Test, error) {
	test, err := buildTest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Tests.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

// Update edits a test. Window, title, duration and the live flag can change
// at any time; the question set is frozen once the test has attempts, since
// stored attempts were graded against it.
func (s *TestService) Update(id uint, req TestRequest) (*model.Test, error) {
	existing, err := s.Tests.FindByID(id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	updated, err := buildTest(req)
	if err != nil {
		return nil, err
	}
	updated.ID = id

	hasAttempts, err := s.testHasAttempts(id)
	if err != nil {
		return nil, err
	}
	questionsChanged := !sameQuestionSet(existing.Questions, updated.Questions)
	if hasAttempts && questionsChanged {
		return nil, util.ErrTestHasAttempts
	}

	if err := s.Tests.UpdateMeta(updated); err != nil {
		return nil, err
	}
	if questionsChanged {
		if err := s.Tests.ReplaceQuestions(id, updated.Questions); err != nil {
			return nil, err
		}
	}

	return s.Tests.FindByID(id)
}

func (s *TestService) Delete(id uint) error {
	return translateNotFound(s.Tests.Delete(id))
}

func (s *TestService) Get(id uint, role model.UserRole) (interface{}, error) {
	test, err := s.Tests.FindByID(id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if role == model.Admin {
		return test, nil
	}
	return sanitizeTest(test), nil
}

func (s *TestService) List(role model.UserRole) (interface{}, error) {
	tests, err := s.Tests.List()
	if err != nil {
		return nil, err
	}
	if role == model.Admin {
		return tests, nil
	}
	sanitized := make([]*StudentTest, len(tests))
	for i := range tests {
		sanitized[i] = sanitizeTest(&tests[i])
	}
	return sanitized, nil
}

func (s *TestService) testHasAttempts(id uint) (bool, error) {
	count, err := s.Attempts.CountByTest(id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func buildTest(req TestRequest) (*model.Test, error) {
	test := &model.Test{
		Title:       req.Title,
		Duration:    req.Duration,
		IsLive:      req.IsLive,
		StartWindow: req.StartWindow,
		EndWindow:   req.EndWindow,
	}

	test.Questions = make([]model.Question, len(req.Questions))
	for i, q := range req.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correctAnswer %d out of range", i+1, q.CorrectAnswer)
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		test.Questions[i] = model.Question{
			Text:          q.Text,
			Options:       opts,
			CorrectOption: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Order:         i,
		}
	}
	return test, nil
}

// sameQuestionSet compares the content that grading depends on, position by
// position. Options are compared decoded, since the database may store the
// JSON with different whitespace than the request carried.
func sameQuestionSet(a, b []model.Question) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text ||
			a[i].CorrectOption != b[i].CorrectOption ||
			a[i].Explanation != b[i].Explanation {
			return false
		}
		aOpts, aErr := a[i].OptionList()
		bOpts, bErr := b[i].OptionList()
		if aErr != nil || bErr != nil || len(aOpts) != len(bOpts) {
			return false
		}
		for j := range aOpts {
			if aOpts[j] != bOpts[j] {
				return false
			}
		}
	}
	return true
}

func sanitizeTest(test *model.Test) *StudentTest {
	questions := make([]StudentQuestion, len(test.Questions))
	for i, q := range test.Questions {
		questions[i] = StudentQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
			Order:   q.Order,
		}
	}
	return &StudentTest{
		ID:          test.ID,
		Title:       test.Title,
		Duration:    test.Duration,
		IsLive:      test.IsLive,
		StartWindow: test.StartWindow,
		EndWindow:   test.EndWindow,
		Questions:   questions,
		CreatedAt:   test.CreatedAt,
	}
}
