package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID      uuid.UUID                   `gorm:"type:uuid;not null;index;column:class_id" json:"classId"`
	Unit         string                      `gorm:"not null;column:unit" json:"unit"`
	Heading      string                      `gorm:"not null;column:heading" json:"heading"`
	Duration     string                      `gorm:"not null;column:duration" json:"duration"`
	Body         string                      `gorm:"type:text;not null;column:body" json:"body"`
	Instructions string                      `gorm:"type:text;not null;column:instructions" json:"instructions"`
	Question     string                      `gorm:"type:text;not null;column:question" json:"question"`
	Hints        datatypes.JSONSlice[string] `gorm:"column:hints" json:"hints"`
	CodeStarter  string                      `gorm:"type:text;not null;default:'';column:code_starter" json:"codeStarter"`
	CreatedBy    uuid.UUID                   `gorm:"type:uuid;not null;column:created_by" json:"createdBy"`
	CreatedAt    time.Time                   `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"not null;autoUpdateTime;index" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Hints == nil {
		l.Hints = datatypes.JSONSlice[string]{}
	}
	return nil
}
