package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, session *types.Session) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByAccountID(dbc dbctx.Context, accountID uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, before time.Time) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, session *types.Session) error {
	return dbc.DB(r.db).Create(session).Error
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Session
	res := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Session{}).Error
}

func (r *sessionRepo) DeleteByAccountID(dbc dbctx.Context, accountID uuid.UUID) error {
	return dbc.DB(r.db).Where("account_id = ?", accountID).Delete(&types.Session{}).Error
}

func (r *sessionRepo) DeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	res := dbc.DB(r.db).Where("expires_at <= ?", before).Delete(&types.Session{})
	return res.RowsAffected, res.Error
}
