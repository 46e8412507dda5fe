package classroom

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type ClassRepo interface {
	Create(dbc dbctx.Context, class *types.Class) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Class, error)
	GetByJoinCode(dbc dbctx.Context, code string) (*types.Class, error)
	JoinCodeExists(dbc dbctx.Context, code string) (bool, error)
	ListForAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.Class, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type classRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassRepo(db *gorm.DB, baseLog *logger.Logger) ClassRepo {
	return &classRepo{db: db, log: baseLog.With("repo", "ClassRepo")}
}

func (r *classRepo) Create(dbc dbctx.Context, class *types.Class) error {
	return dbc.DB(r.db).Create(class).Error
}

func (r *classRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Class, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc, "id = ?", id)
}

func (r *classRepo) GetByJoinCode(dbc dbctx.Context, code string) (*types.Class, error) {
	if code == "" {
		return nil, nil
	}
	return r.first(dbc, "join_code = ?", code)
}

func (r *classRepo) first(dbc dbctx.Context, query string, arg any) (*types.Class, error) {
	var row types.Class
	res := dbc.DB(r.db).Where(query, arg).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *classRepo) JoinCodeExists(dbc dbctx.Context, code string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&types.Class{}).Where("join_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *classRepo) ListForAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.Class, error) {
	var out []*types.Class
	if err := dbc.DB(r.db).
		Joins("JOIN membership ON membership.class_id = classroom.id").
		Where("membership.account_id = ?", accountID).
		Order("classroom.updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *classRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Class{}).Error
}
