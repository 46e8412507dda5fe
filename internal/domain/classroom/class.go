package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JoinCodeAlphabet omits 0/O/1/I so codes survive being read aloud.
const (
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	JoinCodeLength   = 6
)

type Class struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	JoinCode  string    `gorm:"uniqueIndex;not null;column:join_code" json:"joinCode"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index;column:created_by" json:"createdBy"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime;index" json:"updatedAt"`
}

func (Class) TableName() string { return "classroom" }

func (c *Class) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
