package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type TopicRepo interface {
	Create(dbc dbctx.Context, topic *types.Topic) error
	GetInClass(dbc dbctx.Context, classID, topicID uuid.UUID) (*types.Topic, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Topic, error)
	ListByClass(dbc dbctx.Context, classID uuid.UUID) ([]*types.Topic, error)
	Save(dbc dbctx.Context, topic *types.Topic) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) Create(dbc dbctx.Context, topic *types.Topic) error {
	return dbc.DB(r.db).Create(topic).Error
}

func (r *topicRepo) GetInClass(dbc dbctx.Context, classID, topicID uuid.UUID) (*types.Topic, error) {
	if classID == uuid.Nil || topicID == uuid.Nil {
		return nil, nil
	}
	var row types.Topic
	res := dbc.DB(r.db).Where("id = ? AND class_id = ?", topicID, classID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Topic, error) {
	var out []*types.Topic
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByClass returns the class topics newest first.
func (r *topicRepo) ListByClass(dbc dbctx.Context, classID uuid.UUID) ([]*types.Topic, error) {
	var out []*types.Topic
	if err := dbc.DB(r.db).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) Save(dbc dbctx.Context, topic *types.Topic) error {
	return dbc.DB(r.db).Save(topic).Error
}

func (r *topicRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Topic{}).Error
}

func (r *topicRepo) DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error {
	return dbc.DB(r.db).Where("class_id = ?", classID).Delete(&types.Topic{}).Error
}
