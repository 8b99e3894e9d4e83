package model

// RevisionMark flags a question a student wants to review again. It has no
// effect on scoring or ranking.
//
// swagger:model RevisionMark
type RevisionMark struct {
	BaseModel
	UserID     uint `gorm:"type:bigint unsigned;uniqueIndex:idx_revision_mark" json:"userId"`
	TestID     uint `gorm:"type:bigint unsigned;uniqueIndex:idx_revision_mark" json:"testId"`
	QuestionID uint `gorm:"type:bigint unsigned;uniqueIndex:idx_revision_mark" json:"questionId"`
}

func (RevisionMark) TableName() string {
	return "revision_marks"
}
