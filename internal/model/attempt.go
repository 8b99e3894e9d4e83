package model

import "encoding/json"

// SubmittedAnswer is one (question, selected option) pair of a submission.
// SelectedOption -1 means the question was left unattempted.
type SubmittedAnswer struct {
	QuestionID     uint `json:"questionId"`
	SelectedOption int  `json:"selectedOption"`
}

// Attempt is one completed test submission. The first attempt a user makes
// on a test carries RankedSlot="1"; re-attempts leave it NULL so the
// (user_id, test_id, ranked_slot) unique index only ever admits one ranked
// row per pair.
//
// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID           uint            `gorm:"index;type:bigint unsigned;uniqueIndex:idx_ranked_attempt" json:"userId"`
	User             *User           `gorm:"foreignKey:UserID" json:"-"`
	TestID           uint            `gorm:"index;type:bigint unsigned;uniqueIndex:idx_ranked_attempt" json:"testId"`
	Answers          json.RawMessage `gorm:"type:json" json:"-"` // JSON: []SubmittedAnswer
	TimeTaken        int             `gorm:"not null" json:"timeTaken"` // Seconds
	Marks            int             `gorm:"not null" json:"marks"`
	CorrectCount     int             `gorm:"not null" json:"correctCount"`
	IncorrectCount   int             `gorm:"not null" json:"incorrectCount"`
	UnattemptedCount int             `gorm:"not null" json:"unattemptedCount"`
	IsFirstAttempt   bool            `gorm:"default:false" json:"isFirstAttempt"`
	RankedSlot       *string         `gorm:"size:1;uniqueIndex:idx_ranked_attempt" json:"-"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// SubmittedAnswers decodes the stored answer pairs.
func (a *Attempt) SubmittedAnswers() ([]SubmittedAnswer, error) {
	var answers []SubmittedAnswer
	if err := json.Unmarshal(a.Answers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
