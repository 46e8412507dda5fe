package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type AccountRepo interface {
	Create(dbc dbctx.Context, account *types.Account) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Account, error)
	GetByName(dbc dbctx.Context, name string) (*types.Account, error)
	NameExists(dbc dbctx.Context, name string) (bool, error)
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) Create(dbc dbctx.Context, account *types.Account) error {
	return dbc.DB(r.db).Create(account).Error
}

func (r *accountRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *accountRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Account, error) {
	var out []*types.Account
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *accountRepo) GetByName(dbc dbctx.Context, name string) (*types.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var row types.Account
	res := dbc.DB(r.db).Where("name = ?", name).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *accountRepo) NameExists(dbc dbctx.Context, name string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&types.Account{}).Where("name = ?", strings.TrimSpace(name)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
