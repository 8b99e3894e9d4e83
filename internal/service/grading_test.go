package service

import (
	"encoding/json"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOptions(t *testing.T, opts []string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	return raw
}

func gradingQuestions(t *testing.T) []model.Question {
	t.Helper()
	qs := []model.Question{
		{Text: "Q1", Options: mustOptions(t, []string{"a", "b", "c", "d"}), CorrectOption: 0},
		{Text: "Q2", Options: mustOptions(t, []string{"a", "b", "c", "d"}), CorrectOption: 1},
		{Text: "Q3", Options: mustOptions(t, []string{"a", "b", "c", "d"}), CorrectOption: 2},
	}
	for i := range qs {
		qs[i].ID = uint(i + 1)
	}
	return qs
}

func TestGrade(t *testing.T) {
	questions := gradingQuestions(t)

	tests := []struct {
		name        string
		answers     []model.SubmittedAnswer
		policy      ScoringPolicy
		marks       int
		correct     int
		incorrect   int
		unattempted int
	}{
		{
			name: "correct and unattempted",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 0},
				{QuestionID: 2, SelectedOption: 1},
				{QuestionID: 3, SelectedOption: -1},
			},
			policy:      DefaultScoringPolicy(),
			marks:       2,
			correct:     2,
			unattempted: 1,
		},
		{
			name: "incorrect answer scores nothing by default",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 0},
				{QuestionID: 2, SelectedOption: 2},
				{QuestionID: 3, SelectedOption: 2},
			},
			policy:    DefaultScoringPolicy(),
			marks:     2,
			correct:   2,
			incorrect: 1,
		},
		{
			name: "negative marking subtracts the penalty",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 1},
				{QuestionID: 2, SelectedOption: 1},
				{QuestionID: 3, SelectedOption: -1},
			},
			policy:      ScoringPolicy{CorrectMark: 4, IncorrectPenalty: 1},
			marks:       3,
			correct:     1,
			incorrect:   1,
			unattempted: 1,
		},
		{
			name: "all unattempted",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: -1},
				{QuestionID: 2, SelectedOption: -1},
				{QuestionID: 3, SelectedOption: -1},
			},
			policy:      DefaultScoringPolicy(),
			marks:       0,
			unattempted: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Grade(questions, tt.answers, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.marks, result.Marks)
			assert.Equal(t, tt.correct, result.CorrectCount)
			assert.Equal(t, tt.incorrect, result.IncorrectCount)
			assert.Equal(t, tt.unattempted, result.UnattemptedCount)
			assert.Len(t, result.Details, len(questions))
		})
	}
}

func TestGradeDetails(t *testing.T) {
	questions := gradingQuestions(t)
	answers := []model.SubmittedAnswer{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 2, SelectedOption: 3},
		{QuestionID: 3, SelectedOption: -1},
	}

	result, err := Grade(questions, answers, DefaultScoringPolicy())
	require.NoError(t, err)
	require.Len(t, result.Details, 3)

	assert.Equal(t, StatusCorrect, result.Details[0].Status)
	assert.True(t, result.Details[0].IsCorrect)
	assert.Equal(t, StatusIncorrect, result.Details[1].Status)
	assert.False(t, result.Details[1].IsCorrect)
	assert.Equal(t, StatusUnattempted, result.Details[2].Status)

	// The result page needs the full question content.
	assert.Equal(t, "Q2", result.Details[1].QuestionText)
	assert.Equal(t, 1, result.Details[1].CorrectOption)
	assert.Equal(t, 3, result.Details[1].SelectedOption)
}

func TestGradeMalformedSubmissions(t *testing.T) {
	questions := gradingQuestions(t)

	tests := []struct {
		name    string
		answers []model.SubmittedAnswer
	}{
		{
			name: "missing question",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 0},
				{QuestionID: 2, SelectedOption: 1},
			},
		},
		{
			name: "unknown question id",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 0},
				{QuestionID: 2, SelectedOption: 1},
				{QuestionID: 99, SelectedOption: 0},
			},
		},
		{
			name: "duplicate answer",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 0},
				{QuestionID: 1, SelectedOption: 1},
				{QuestionID: 2, SelectedOption: 1},
			},
		},
		{
			name: "option index out of range",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: 4},
				{QuestionID: 2, SelectedOption: 1},
				{QuestionID: 3, SelectedOption: 2},
			},
		},
		{
			name: "option index below the unattempted sentinel",
			answers: []model.SubmittedAnswer{
				{QuestionID: 1, SelectedOption: -2},
				{QuestionID: 2, SelectedOption: 1},
				{QuestionID: 3, SelectedOption: 2},
			},
		},
		{
			name:    "empty submission",
			answers: []model.SubmittedAnswer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Grade(questions, tt.answers, DefaultScoringPolicy())
			assert.Nil(t, result)
			assert.ErrorIs(t, err, util.ErrMalformedSubmission)
		})
	}
}
