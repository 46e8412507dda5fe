package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/domain"
)

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, name, role string) *domain.Account {
	tb.Helper()
	a := &domain.Account{
		ID:           uuid.New(),
		Name:         Unique(name),
		PasswordHash: "pw",
		Role:         role,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}

func SeedClass(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) *domain.Class {
	tb.Helper()
	c := &domain.Class{
		ID:        uuid.New(),
		Name:      "Class",
		JoinCode:  uuid.NewString()[:6],
		CreatedBy: teacherID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed class: %v", err)
	}
	SeedMembership(tb, ctx, tx, c.ID, teacherID, domain.RoleTeacher)
	return c
}

func SeedMembership(tb testing.TB, ctx context.Context, tx *gorm.DB, classID, accountID uuid.UUID, role string) *domain.Membership {
	tb.Helper()
	m := &domain.Membership{
		ID:        uuid.New(),
		ClassID:   classID,
		AccountID: accountID,
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed membership: %v", err)
	}
	return m
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, classID, createdBy uuid.UUID, title string) *domain.Topic {
	tb.Helper()
	t := &domain.Topic{
		ID:        uuid.New(),
		ClassID:   classID,
		Title:     title,
		Concepts:  datatypes.JSONSlice[string]{"loops"},
		CreatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedQuizItem(tb testing.TB, ctx context.Context, tx *gorm.DB, topic *domain.Topic, subtype string, options []string, answer string) *domain.TopicItem {
	tb.Helper()
	st := subtype
	it := &domain.TopicItem{
		ID:           uuid.New(),
		TopicID:      topic.ID,
		ClassID:      topic.ClassID,
		Type:         domain.ItemTypeQuiz,
		Title:        "Quiz " + subtype,
		QuizSubtype:  &st,
		QuizQuestion: "Capital of France?",
		QuizOptions:  datatypes.JSONSlice[string](options),
		QuizAnswer:   answer,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed quiz item: %v", err)
	}
	return it
}

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, topic *domain.Topic, itemType, title string) *domain.TopicItem {
	tb.Helper()
	it := &domain.TopicItem{
		ID:      uuid.New(),
		TopicID: topic.ID,
		ClassID: topic.ClassID,
		Type:    itemType,
		Title:   title,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, classID, createdBy uuid.UUID, heading string) *domain.Lesson {
	tb.Helper()
	l := &domain.Lesson{
		ID:           uuid.New(),
		ClassID:      classID,
		Unit:         "Unit 1",
		Heading:      heading,
		Duration:     "10 min",
		Body:         "body",
		Instructions: "instructions",
		Question:     "question",
		Hints:        datatypes.JSONSlice[string]{"hint"},
		CreatedBy:    createdBy,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}
