package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ItemTypeLearning = "learning"
	ItemTypeQuiz     = "quiz"
	ItemTypePractice = "practice"

	QuizSubtypeMCQ         = "mcq"
	QuizSubtypeShortAnswer = "short_answer"
)

func ValidItemType(t string) bool {
	switch t {
	case ItemTypeLearning, ItemTypeQuiz, ItemTypePractice:
		return true
	}
	return false
}

func ValidQuizSubtype(s string) bool {
	return s == QuizSubtypeMCQ || s == QuizSubtypeShortAnswer
}

// TopicItem carries ClassID redundantly so class-scoped lookups avoid a join.
// Quiz fields are zeroed whenever Type is not quiz.
type TopicItem struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID      uuid.UUID                   `gorm:"type:uuid;not null;index;column:topic_id" json:"topicId"`
	ClassID      uuid.UUID                   `gorm:"type:uuid;not null;index;column:class_id" json:"classId"`
	Type         string                      `gorm:"not null;column:type" json:"type"`
	Title        string                      `gorm:"not null;column:title" json:"title"`
	QuizSubtype  *string                     `gorm:"column:quiz_subtype" json:"quizSubtype"`
	QuizQuestion string                      `gorm:"not null;default:'';column:quiz_question" json:"quizQuestion"`
	QuizOptions  datatypes.JSONSlice[string] `gorm:"column:quiz_options" json:"quizOptions"`
	QuizAnswer   string                      `gorm:"not null;default:'';column:quiz_answer" json:"quizAnswer"`
	CreatedAt    time.Time                   `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (TopicItem) TableName() string { return "topic_item" }

func (i *TopicItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.QuizOptions == nil {
		i.QuizOptions = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (i *TopicItem) IsQuiz() bool { return i != nil && i.Type == ItemTypeQuiz }

// Subtype falls back to mcq for quiz rows stored without one.
func (i *TopicItem) Subtype() string {
	if i == nil || i.QuizSubtype == nil || *i.QuizSubtype == "" {
		return QuizSubtypeMCQ
	}
	return *i.QuizSubtype
}

func (i *TopicItem) HasOption(s string) bool {
	for _, o := range i.QuizOptions {
		if o == s {
			return true
		}
	}
	return false
}
