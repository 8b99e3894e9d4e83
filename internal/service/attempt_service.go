package service

import (
	"encoding/json"
	"errors"
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"
	"test_portal_backend/pkg/logger"
	"test_portal_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttemptService struct {
	Attempts *repository.AttemptRepository
	Tests    *repository.TestRepository
	Ranking  *RankingService
	Cfg      *config.Config
}

func NewAttemptService(attempts *repository.AttemptRepository, tests *repository.TestRepository, ranking *RankingService, cfg *config.Config) *AttemptService {
	return &AttemptService{
		Attempts: attempts,
		Tests:    tests,
		Ranking:  ranking,
		Cfg:      cfg,
	}
}

type SubmitAttemptRequest struct {
	TestID    uint                    `json:"testId" binding:"required"`
	Answers   []model.SubmittedAnswer `json:"answers" binding:"required"`
	TimeTaken int                     `json:"timeTaken"`
}

// AttemptResponse is a graded attempt as the client consumes it.
type AttemptResponse struct {
	AttemptID        uint             `json:"attemptId"`
	ID               uint             `json:"id"`
	TestID           uint             `json:"testId"`
	TestTitle        string           `json:"testTitle"`
	Marks            int              `json:"marks"`
	TimeTaken        int              `json:"timeTaken"`
	CorrectCount     int              `json:"correctCount"`
	IncorrectCount   int              `json:"incorrectCount"`
	UnattemptedCount int              `json:"unattemptedCount"`
	IsFirstAttempt   bool             `json:"isFirstAttempt"`
	CompletedAt      time.Time        `json:"completedAt"`
	DetailedResults  []QuestionResult `json:"detailedResults"`
}

func (s *AttemptService) scoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		CorrectMark:      s.Cfg.Grading.CorrectMark,
		IncorrectPenalty: s.Cfg.Grading.IncorrectPenalty,
	}
}

// Submit runs the availability gate, grades the submission and records the
// attempt. The first attempt per (user, test) is the ranked one; the
// determination is made atomic by the ranked-slot unique index, not by any
// in-process lock, so concurrent submissions across service instances are
// safe.
func (s *AttemptService) Submit(userID uint, req SubmitAttemptRequest) (*AttemptResponse, error) {
	resp, err := s.submit(userID, req)
	if err != nil {
		monitoring.AttemptsGraded.WithLabelValues("rejected").Inc()
		return nil, err
	}
	if resp.IsFirstAttempt {
		monitoring.AttemptsGraded.WithLabelValues("accepted_first").Inc()
	} else {
		monitoring.AttemptsGraded.WithLabelValues("accepted_retry").Inc()
	}
	return resp, nil
}

func (s *AttemptService) submit(userID uint, req SubmitAttemptRequest) (*AttemptResponse, error) {
	test, err := s.Tests.FindByID(req.TestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	if err := s.checkAvailability(test, time.Now()); err != nil {
		return nil, err
	}

	if req.TimeTaken < 0 || req.TimeTaken > test.Duration*60+s.Cfg.Grading.GraceSeconds {
		return nil, util.ErrInvalidTiming
	}

	graded, err := Grade(test.Questions, req.Answers, s.scoringPolicy())
	if err != nil {
		return nil, err
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, err
	}

	hasPrior, err := s.Attempts.HasAttempt(userID, req.TestID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:           userID,
		TestID:           req.TestID,
		Answers:          answersJSON,
		TimeTaken:        req.TimeTaken,
		Marks:            graded.Marks,
		CorrectCount:     graded.CorrectCount,
		IncorrectCount:   graded.IncorrectCount,
		UnattemptedCount: graded.UnattemptedCount,
	}
	if !hasPrior {
		attempt.IsFirstAttempt = true
		slot := "1"
		attempt.RankedSlot = &slot
	}

	if err := s.Attempts.Insert(attempt); err != nil {
		if !attempt.IsFirstAttempt || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost the first-attempt race to a concurrent submission; this one
		// is a re-attempt.
		logger.Log.Info("first-attempt insert conflicted, retrying as re-attempt",
			zap.Uint("userId", userID), zap.Uint("testId", req.TestID))
		attempt.IsFirstAttempt = false
		attempt.RankedSlot = nil
		if err := s.Attempts.Insert(attempt); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, util.ErrAttemptWriteConflict
			}
			return nil, err
		}
	}

	if attempt.IsFirstAttempt {
		s.Ranking.Invalidate(req.TestID)
	}

	return s.toResponse(attempt, test.Title, graded.Details), nil
}

// checkAvailability is the live-window gate, applied at submission time so a
// window closing mid-attempt is caught. With grandfather_in_progress set,
// submissions are accepted until endWindow+duration, which admits any
// attempt started inside the window.
func (s *AttemptService) checkAvailability(test *model.Test, now time.Time) error {
	if !test.IsLive {
		return nil
	}
	if test.StartWindow != nil && now.Before(*test.StartWindow) {
		return util.ErrTestNotAvailable
	}
	if test.EndWindow != nil {
		deadline := *test.EndWindow
		if s.Cfg.Grading.GrandfatherInProgress {
			deadline = deadline.Add(time.Duration(test.Duration) * time.Minute)
		}
		if now.After(deadline) {
			return util.ErrTestNotAvailable
		}
	}
	return nil
}

// ListMyAttempts returns the caller's attempts newest first, with the
// per-question breakdown rebuilt from the stored answers. Questions are
// immutable once attempts exist, so the rebuild matches what was graded at
// submission time.
func (s *AttemptService) ListMyAttempts(userID uint) ([]AttemptResponse, error) {
	attempts, err := s.Attempts.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	tests := make(map[uint]*model.Test)
	responses := make([]AttemptResponse, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]

		test, ok := tests[a.TestID]
		if !ok {
			test, err = s.Tests.FindByID(a.TestID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, err
			}
			tests[a.TestID] = test
		}

		var details []QuestionResult
		if answers, err := a.SubmittedAnswers(); err == nil {
			if graded, err := Grade(test.Questions, answers, s.scoringPolicy()); err == nil {
				details = graded.Details
			}
		}
		if details == nil {
			logger.Log.Warn("could not rebuild attempt details",
				zap.Uint("attemptId", a.ID), zap.Uint("testId", a.TestID))
			details = []QuestionResult{}
		}

		responses = append(responses, *s.toResponse(a, test.Title, details))
	}
	return responses, nil
}

func (s *AttemptService) toResponse(a *model.Attempt, testTitle string, details []QuestionResult) *AttemptResponse {
	return &AttemptResponse{
		AttemptID:        a.ID,
		ID:               a.ID,
		TestID:           a.TestID,
		TestTitle:        testTitle,
		Marks:            a.Marks,
		TimeTaken:        a.TimeTaken,
		CorrectCount:     a.CorrectCount,
		IncorrectCount:   a.IncorrectCount,
		UnattemptedCount: a.UnattemptedCount,
		IsFirstAttempt:   a.IsFirstAttempt,
		CompletedAt:      a.CreatedAt,
		DetailedResults:  details,
	}
}
