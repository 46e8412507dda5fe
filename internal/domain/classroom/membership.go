package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership is the only source of class-scoped rights. Role is captured at
// join time and is independent of the account's signup role.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_class_account,priority:1;column:class_id" json:"classId"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_membership_class_account,priority:2;index;column:account_id" json:"accountId"`
	Role      string    `gorm:"not null;column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Membership) TableName() string { return "membership" }

func (m *Membership) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *Membership) IsTeacher() bool { return m != nil && m.Role == "teacher" }
func (m *Membership) IsStudent() bool { return m != nil && m.Role == "student" }
