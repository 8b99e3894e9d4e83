package service

import (
	"encoding/json"
	"fmt"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/util"
)

// Answer statuses of a graded question.
const (
	StatusCorrect     = "correct"
	StatusIncorrect   = "incorrect"
	StatusUnattempted = "unattempted"
)

// UnattemptedOption is the sentinel the client sends for a question the
// student left blank.
const UnattemptedOption = -1

// ScoringPolicy is the marks scheme. IncorrectPenalty is subtracted per
// incorrect answer; the default of 0 means no negative marking.
type ScoringPolicy struct {
	CorrectMark      int
	IncorrectPenalty int
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{CorrectMark: 1, IncorrectPenalty: 0}
}

// QuestionResult is the per-question outcome shown on the result page.
type QuestionResult struct {
	QuestionID     uint            `json:"questionId"`
	QuestionText   string          `json:"questionText"`
	Options        json.RawMessage `json:"options"`
	SelectedOption int             `json:"selectedOption"`
	CorrectOption  int             `json:"correctOption"`
	IsCorrect      bool            `json:"isCorrect"`
	Status         string          `json:"status"`
	Explanation    string          `json:"explanation"`
}

type GradeResult struct {
	Marks            int
	CorrectCount     int
	IncorrectCount   int
	UnattemptedCount int
	Details          []QuestionResult
}

// Grade classifies a submission against the test's answer key. It is a pure
// function: no partial result is ever produced. The submission must cover
// every question of the test exactly once; anything else (unknown question,
// duplicate, missing question, out-of-range option index) aborts with
// ErrMalformedSubmission.
func Grade(questions []model.Question, answers []model.SubmittedAnswer, policy ScoringPolicy) (*GradeResult, error) {
	byQuestion := make(map[uint]int, len(answers))
	for _, ans := range answers {
		if _, dup := byQuestion[ans.QuestionID]; dup {
			return nil, fmt.Errorf("%w: question %d answered twice", util.ErrMalformedSubmission, ans.QuestionID)
		}
		byQuestion[ans.QuestionID] = ans.SelectedOption
	}

	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: got %d answers for %d questions", util.ErrMalformedSubmission, len(answers), len(questions))
	}

	result := &GradeResult{Details: make([]QuestionResult, 0, len(questions))}

	for _, q := range questions {
		selected, ok := byQuestion[q.ID]
		if !ok {
			return nil, fmt.Errorf("%w: question %d missing from submission", util.ErrMalformedSubmission, q.ID)
		}

		opts, err := q.OptionList()
		if err != nil {
			return nil, fmt.Errorf("question %d has unreadable options: %w", q.ID, err)
		}
		if selected < UnattemptedOption || selected >= len(opts) {
			return nil, fmt.Errorf("%w: option %d out of range for question %d", util.ErrMalformedSubmission, selected, q.ID)
		}

		detail := QuestionResult{
			QuestionID:     q.ID,
			QuestionText:   q.Text,
			Options:        q.Options,
			SelectedOption: selected,
			CorrectOption:  q.CorrectOption,
			Explanation:    q.Explanation,
		}

		switch {
		case selected == UnattemptedOption:
			detail.Status = StatusUnattempted
			result.UnattemptedCount++
		case selected == q.CorrectOption:
			detail.Status = StatusCorrect
			detail.IsCorrect = true
			result.CorrectCount++
			result.Marks += policy.CorrectMark
		default:
			detail.Status = StatusIncorrect
			result.IncorrectCount++
			result.Marks -= policy.IncorrectPenalty
		}

		result.Details = append(result.Details, detail)
	}

	return result, nil
}
