package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/domain/user"
)

// Session backs one issued token; its ID is the token's jti.
type Session struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID     `gorm:"type:uuid;not null;index;column:account_id" json:"accountId"`
	Account   *user.Account `gorm:"constraint:OnDelete:CASCADE;foreignKey:AccountID;references:ID" json:"-"`
	ExpiresAt time.Time     `gorm:"not null;index;column:expires_at" json:"expiresAt"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (Session) TableName() string { return "account_session" }

func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
