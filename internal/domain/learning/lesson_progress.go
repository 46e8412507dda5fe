package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

func ValidProgressStatus(s string) bool {
	switch s {
	case ProgressNotStarted, ProgressInProgress, ProgressCompleted:
		return true
	}
	return false
}

// LessonProgress is a snapshot, not a ratchet: status moves freely in any
// direction.
type LessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_student_lesson,priority:1;column:student_id" json:"userId"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_student_lesson,priority:2;index;column:lesson_id" json:"lessonId"`
	Status      string     `gorm:"not null;default:'not_started';column:status" json:"status"`
	LastCode    string     `gorm:"type:text;not null;default:'';column:last_code" json:"lastCode"`
	LastAnswer  string     `gorm:"type:text;not null;default:'';column:last_answer" json:"lastAnswer"`
	Attempts    int        `gorm:"not null;default:0;column:attempts" json:"attempts"`
	LastRunAt   *time.Time `gorm:"column:last_run_at" json:"lastRunAt"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime;index" json:"updatedAt"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProgressUpdate is a partial update; nil fields are left untouched.
type ProgressUpdate struct {
	Status      *string
	LastCode    *string
	LastAnswer  *string
	Attempts    *int
	LastRunAt   *time.Time
	CompletedAt *time.Time
}
