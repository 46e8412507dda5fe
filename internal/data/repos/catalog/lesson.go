package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lesson *types.Lesson) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByClass(dbc dbctx.Context, classID uuid.UUID) ([]*types.Lesson, error)
	ListIDsByClass(dbc dbctx.Context, classID uuid.UUID) ([]uuid.UUID, error)
	Save(dbc dbctx.Context, lesson *types.Lesson) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lesson *types.Lesson) error {
	return dbc.DB(r.db).Create(lesson).Error
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Lesson
	res := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// ListByClass returns the class lessons, most recently updated first.
func (r *lessonRepo) ListByClass(dbc dbctx.Context, classID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if err := dbc.DB(r.db).
		Where("class_id = ?", classID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListIDsByClass(dbc dbctx.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("class_id = ?", classID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lessonRepo) Save(dbc dbctx.Context, lesson *types.Lesson) error {
	return dbc.DB(r.db).Save(lesson).Error
}

func (r *lessonRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error {
	return dbc.DB(r.db).Where("class_id = ?", classID).Delete(&types.Lesson{}).Error
}
