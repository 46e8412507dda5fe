package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type TopicItemRepo interface {
	Create(dbc dbctx.Context, item *types.TopicItem) error
	GetInClass(dbc dbctx.Context, classID, itemID uuid.UUID) (*types.TopicItem, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.TopicItem, error)
	ListByTopicIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.TopicItem, error)
	ListIDsByTopic(dbc dbctx.Context, topicID uuid.UUID) ([]uuid.UUID, error)
	Save(dbc dbctx.Context, item *types.TopicItem) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	DeleteByTopicID(dbc dbctx.Context, topicID uuid.UUID) error
	DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error
}

type topicItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicItemRepo(db *gorm.DB, baseLog *logger.Logger) TopicItemRepo {
	return &topicItemRepo{db: db, log: baseLog.With("repo", "TopicItemRepo")}
}

func (r *topicItemRepo) Create(dbc dbctx.Context, item *types.TopicItem) error {
	return dbc.DB(r.db).Create(item).Error
}

func (r *topicItemRepo) GetInClass(dbc dbctx.Context, classID, itemID uuid.UUID) (*types.TopicItem, error) {
	if classID == uuid.Nil || itemID == uuid.Nil {
		return nil, nil
	}
	var row types.TopicItem
	res := dbc.DB(r.db).Where("id = ? AND class_id = ?", itemID, classID).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *topicItemRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.TopicItem, error) {
	var out []*types.TopicItem
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTopicIDs returns items in creation order.
func (r *topicItemRepo) ListByTopicIDs(dbc dbctx.Context, topicIDs []uuid.UUID) ([]*types.TopicItem, error) {
	var out []*types.TopicItem
	if len(topicIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("topic_id IN ?", topicIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicItemRepo) ListIDsByTopic(dbc dbctx.Context, topicID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.TopicItem{}).
		Where("topic_id = ?", topicID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *topicItemRepo) Save(dbc dbctx.Context, item *types.TopicItem) error {
	return dbc.DB(r.db).Save(item).Error
}

func (r *topicItemRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.TopicItem{}).Error
}

func (r *topicItemRepo) DeleteByTopicID(dbc dbctx.Context, topicID uuid.UUID) error {
	return dbc.DB(r.db).Where("topic_id = ?", topicID).Delete(&types.TopicItem{}).Error
}

func (r *topicItemRepo) DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error {
	return dbc.DB(r.db).Where("class_id = ?", classID).Delete(&types.TopicItem{}).Error
}
