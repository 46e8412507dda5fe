package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Topic struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID   uuid.UUID                   `gorm:"type:uuid;not null;index;column:class_id" json:"classId"`
	Title     string                      `gorm:"not null;column:title" json:"title"`
	Concepts  datatypes.JSONSlice[string] `gorm:"column:concepts" json:"concepts"`
	CreatedBy uuid.UUID                   `gorm:"type:uuid;not null;column:created_by" json:"createdBy"`
	CreatedAt time.Time                   `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Topic) TableName() string { return "topic" }

func (t *Topic) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Concepts == nil {
		t.Concepts = datatypes.JSONSlice[string]{}
	}
	return nil
}
