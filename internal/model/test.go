package model

import (
	"encoding/json"
	"time"
)

// swagger:model Test
type Test struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Duration    int        `gorm:"not null" json:"duration"` // Minutes
	IsLive      bool       `gorm:"default:false" json:"isLive"`
	StartWindow *time.Time `json:"startWindow,omitempty"`
	EndWindow   *time.Time `json:"endWindow,omitempty"`
	Questions   []Question `gorm:"foreignKey:TestID" json:"questions"`
}

func (Test) TableName() string {
	return "tests"
}

// swagger:model Question
type Question struct {
	BaseModel
	TestID        uint            `gorm:"index;type:bigint unsigned" json:"testId"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Options       json.RawMessage `gorm:"type:json" json:"options"` // JSON: []string
	CorrectOption int             `gorm:"not null" json:"correctAnswer"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the stored options array. Used by the grader to
// range-check submitted option indexes.
func (q *Question) OptionList() ([]string, error) {
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}
