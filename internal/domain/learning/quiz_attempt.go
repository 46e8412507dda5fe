package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptStatusSubmitted = "submitted"
	AttemptStatusGraded    = "graded"

	GradingPending      = "pending"
	GradingAutoGraded   = "auto_graded"
	GradingManualGraded = "manual_graded"
)

// QuizAttempt is the single current state of one student's answer to one quiz
// item. There is exactly one row per (student, item); Attempts counts every
// submission. ClassID and TopicID are stamped on first insert only.
type QuizAttempt struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_student_item,priority:1;index:idx_quiz_attempt_class_student_updated,priority:2;column:student_id" json:"userId"`
	ClassID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_quiz_attempt_class_student_updated,priority:1;column:class_id" json:"classId"`
	TopicID       uuid.UUID  `gorm:"type:uuid;not null;index;column:topic_id" json:"topicId"`
	ItemID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_attempt_student_item,priority:2;index;column:topic_item_id" json:"itemId"`
	ResponseText  string     `gorm:"type:text;not null;default:'';column:response_text" json:"responseText"`
	Status        string     `gorm:"not null;default:'submitted';column:status" json:"status"`
	GradingStatus string     `gorm:"not null;default:'pending';column:grading_status" json:"gradingStatus"`
	IsCorrect     *bool      `gorm:"column:is_correct" json:"isCorrect"`
	Score         *float64   `gorm:"column:score" json:"score"`
	Feedback      string     `gorm:"type:text;not null;default:'';column:feedback" json:"feedback"`
	Attempts      int        `gorm:"not null;default:0;column:attempts" json:"attempts"`
	SubmittedAt   *time.Time `gorm:"column:submitted_at" json:"submittedAt"`
	GradedAt      *time.Time `gorm:"column:graded_at" json:"gradedAt"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime;index:idx_quiz_attempt_class_student_updated,priority:3" json:"updatedAt"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
