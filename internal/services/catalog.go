package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type TopicInput struct {
	Title       *string
	Concepts    []string
	ConceptsSet bool
}

type ItemInput struct {
	Title *string
	Type  *string
	Quiz  QuizFieldsInput
}

// TopicWithItems is a topic plus its items, oldest first.
type TopicWithItems struct {
	*types.Topic
	Items []*types.TopicItem `json:"items"`
}

type TopicRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type PracticeItemView struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Type  string    `json:"type"`
	Topic TopicRef  `json:"topic"`
}

type CatalogService interface {
	ListTopics(ctx context.Context, caller Caller, classID uuid.UUID) ([]TopicWithItems, error)
	CreateTopic(ctx context.Context, caller Caller, classID uuid.UUID, in TopicInput) (*types.Topic, error)
	UpdateTopic(ctx context.Context, caller Caller, classID, topicID uuid.UUID, in TopicInput) (*types.Topic, error)
	DeleteTopic(ctx context.Context, caller Caller, classID, topicID uuid.UUID) error
	CreateItem(ctx context.Context, caller Caller, classID, topicID uuid.UUID, in ItemInput) (*types.TopicItem, error)
	UpdateItem(ctx context.Context, caller Caller, classID, topicID, itemID uuid.UUID, in ItemInput) (*types.TopicItem, error)
	DeleteItem(ctx context.Context, caller Caller, classID, topicID, itemID uuid.UUID) error
	GetPracticeItem(ctx context.Context, caller Caller, classID, itemID uuid.UUID) (*PracticeItemView, error)
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	access   classAccess
	topics   repos.TopicRepo
	items    repos.TopicItemRepo
	attempts repos.QuizAttemptRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	topics repos.TopicRepo,
	items repos.TopicItemRepo,
	attempts repos.QuizAttemptRepo,
) CatalogService {
	return &catalogService{
		db:       db,
		log:      log.With("service", "CatalogService"),
		access:   classAccess{classes: classes, members: members},
		topics:   topics,
		items:    items,
		attempts: attempts,
	}
}

func (s *catalogService) ListTopics(ctx context.Context, caller Caller, classID uuid.UUID) ([]TopicWithItems, error) {
	dbc := dbctx.New(ctx)
	class, membership, err := s.access.member(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.ListByClass(dbc, class.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	out := make([]TopicWithItems, 0, len(topics))
	if len(topics) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	items, err := s.items.ListByTopicIDs(dbc, ids)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	byTopic := make(map[uuid.UUID][]*types.TopicItem, len(topics))
	for _, it := range items {
		normalizeItem(it)
		// Answer keys are for the class teachers only.
		if !membership.IsTeacher() {
			it.QuizAnswer = ""
		}
		byTopic[it.TopicID] = append(byTopic[it.TopicID], it)
	}
	for _, t := range topics {
		normalizeTopic(t)
		list := byTopic[t.ID]
		if list == nil {
			list = []*types.TopicItem{}
		}
		out = append(out, TopicWithItems{Topic: t, Items: list})
	}
	return out, nil
}

func (s *catalogService) CreateTopic(ctx context.Context, caller Caller, classID uuid.UUID, in TopicInput) (*types.Topic, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can create topics")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	title := ""
	if in.Title != nil {
		title = strings.TrimSpace(*in.Title)
	}
	if title == "" {
		return nil, apierr.Validation("Topic title is required")
	}
	topic := &types.Topic{
		ClassID:   class.ID,
		Title:     title,
		Concepts:  cleanStrings(in.Concepts),
		CreatedBy: caller.AccountID,
	}
	if err := s.topics.Create(dbc, topic); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create topic: %w", err))
	}
	return topic, nil
}

func (s *catalogService) UpdateTopic(ctx context.Context, caller Caller, classID, topicID uuid.UUID, in TopicInput) (*types.Topic, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can update topics")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	topic, err := s.topicInClass(dbc, class.ID, topicID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			topic.Title = t
		}
	}
	if in.ConceptsSet {
		topic.Concepts = cleanStrings(in.Concepts)
	}
	if err := s.topics.Save(dbc, topic); err != nil {
		return nil, apierr.Internal(fmt.Errorf("update topic: %w", err))
	}
	return normalizeTopic(topic), nil
}

// DeleteTopic removes the topic's attempts, then its items, then the topic.
func (s *catalogService) DeleteTopic(ctx context.Context, caller Caller, classID, topicID uuid.UUID) error {
	if !caller.IsTeacher() {
		return apierr.Forbidden("Only teachers can delete topics")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return err
	}
	topic, err := s.topicInClass(dbc, class.ID, topicID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		itemIDs, err := s.items.ListIDsByTopic(txc, topic.ID)
		if err != nil {
			return err
		}
		if err := s.attempts.DeleteByItemIDs(txc, itemIDs); err != nil {
			return err
		}
		if err := s.items.DeleteByTopicID(txc, topic.ID); err != nil {
			return err
		}
		return s.topics.DeleteByID(txc, topic.ID)
	})
	if err != nil {
		s.log.Error("topic delete failed", "error", err, "topic_id", topic.ID)
		return apierr.Internal(err)
	}
	return nil
}

func (s *catalogService) CreateItem(ctx context.Context, caller Caller, classID, topicID uuid.UUID, in ItemInput) (*types.TopicItem, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can add topic items")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	title, itemType := trimmed(in.Title), trimmed(in.Type)
	if title == "" || itemType == "" {
		return nil, apierr.Validation("Title and type are required")
	}
	if !types.ValidItemType(itemType) {
		return nil, apierr.Validation("Invalid type")
	}
	topic, err := s.topicInClass(dbc, class.ID, topicID)
	if err != nil {
		return nil, err
	}
	fields, err := ResolveQuizFields(in.Quiz, itemType, nil)
	if err != nil {
		return nil, err
	}
	if err := validateMCQ(fields); err != nil {
		return nil, err
	}
	item := &types.TopicItem{
		TopicID: topic.ID,
		ClassID: class.ID,
		Type:    itemType,
		Title:   title,
	}
	fields.apply(item)
	if err := s.items.Create(dbc, item); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create item: %w", err))
	}
	return normalizeItem(item), nil
}

func (s *catalogService) UpdateItem(ctx context.Context, caller Caller, classID, topicID, itemID uuid.UUID, in ItemInput) (*types.TopicItem, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can update items")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInTopic(dbc, class.ID, topicID, itemID)
	if err != nil {
		return nil, err
	}
	if t := trimmed(in.Title); t != "" {
		item.Title = t
	}
	if t := trimmed(in.Type); t != "" {
		item.Type = t
	}
	if !types.ValidItemType(item.Type) {
		return nil, apierr.Validation("Invalid type")
	}
	fields, err := ResolveQuizFields(in.Quiz, item.Type, item)
	if err != nil {
		return nil, err
	}
	if err := validateMCQ(fields); err != nil {
		return nil, err
	}
	fields.apply(item)
	if err := s.items.Save(dbc, item); err != nil {
		return nil, apierr.Internal(fmt.Errorf("update item: %w", err))
	}
	return normalizeItem(item), nil
}

func (s *catalogService) DeleteItem(ctx context.Context, caller Caller, classID, topicID, itemID uuid.UUID) error {
	if !caller.IsTeacher() {
		return apierr.Forbidden("Only teachers can delete items")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return err
	}
	item, err := s.itemInTopic(dbc, class.ID, topicID, itemID)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := s.attempts.DeleteByItemIDs(txc, []uuid.UUID{item.ID}); err != nil {
			return err
		}
		return s.items.DeleteByID(txc, item.ID)
	})
	if err != nil {
		s.log.Error("item delete failed", "error", err, "item_id", item.ID)
		return apierr.Internal(err)
	}
	return nil
}

func (s *catalogService) GetPracticeItem(ctx context.Context, caller Caller, classID, itemID uuid.UUID) (*PracticeItemView, error) {
	dbc := dbctx.New(ctx)
	class, _, err := s.access.member(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	item, topic, err := itemWithTopic(dbc, s.items, s.topics, class.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Type != types.ItemTypePractice {
		return nil, apierr.InvalidType("Not a practice item")
	}
	return &PracticeItemView{
		ID:    item.ID,
		Title: item.Title,
		Type:  item.Type,
		Topic: topicRef(item, topic),
	}, nil
}

func (s *catalogService) topicInClass(dbc dbctx.Context, classID, topicID uuid.UUID) (*types.Topic, error) {
	topic, err := s.topics.GetInClass(dbc, classID, topicID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if topic == nil {
		return nil, apierr.NotFound("Topic not found")
	}
	return topic, nil
}

// itemInTopic treats an item filed under another topic than the URL names
// as missing.
func (s *catalogService) itemInTopic(dbc dbctx.Context, classID, topicID, itemID uuid.UUID) (*types.TopicItem, error) {
	item, err := s.items.GetInClass(dbc, classID, itemID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if item == nil || item.TopicID != topicID {
		return nil, apierr.NotFound("Item not found")
	}
	return item, nil
}

// itemWithTopic loads a class item and its topic. A missing topic is
// tolerated; callers fall back to an empty title.
func itemWithTopic(dbc dbctx.Context, items repos.TopicItemRepo, topics repos.TopicRepo, classID, itemID uuid.UUID) (*types.TopicItem, *types.Topic, error) {
	item, err := items.GetInClass(dbc, classID, itemID)
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}
	if item == nil {
		return nil, nil, apierr.NotFound("Item not found")
	}
	topic, err := topics.GetInClass(dbc, classID, item.TopicID)
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}
	return item, topic, nil
}

func topicRef(item *types.TopicItem, topic *types.Topic) TopicRef {
	ref := TopicRef{ID: item.TopicID}
	if topic != nil {
		ref.Title = topic.Title
	}
	return ref
}

func normalizeItem(it *types.TopicItem) *types.TopicItem {
	if it.QuizOptions == nil {
		it.QuizOptions = datatypes.JSONSlice[string]{}
	}
	if !it.IsQuiz() {
		it.QuizSubtype = nil
	}
	return it
}

func normalizeTopic(t *types.Topic) *types.Topic {
	if t.Concepts == nil {
		t.Concepts = datatypes.JSONSlice[string]{}
	}
	return t
}

func cleanStrings(in []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimmed(s *string) string {
	return strings.TrimSpace(pointers.Deref(s))
}
