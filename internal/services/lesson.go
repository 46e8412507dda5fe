package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

// LessonInput is the editable part of a lesson. Fields tagged copier:"-" are
// mapped by hand.
type LessonInput struct {
	ClassID      uuid.UUID `copier:"-"`
	Unit         string
	Heading      string
	Duration     string
	Body         string
	Instructions string
	Question     string
	CodeStarter  string   `copier:"-"`
	Hints        []string `copier:"-"`
}

func (in LessonInput) missing() string {
	required := []struct{ name, value string }{
		{"unit", in.Unit},
		{"heading", in.Heading},
		{"duration", in.Duration},
		{"body", in.Body},
		{"instructions", in.Instructions},
		{"question", in.Question},
	}
	for _, f := range required {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

type LessonService interface {
	List(ctx context.Context, caller Caller, classID uuid.UUID) ([]*types.Lesson, error)
	Get(ctx context.Context, caller Caller, lessonID uuid.UUID) (*types.Lesson, error)
	Create(ctx context.Context, caller Caller, in LessonInput) (*types.Lesson, error)
	Update(ctx context.Context, caller Caller, lessonID uuid.UUID, in LessonInput) (*types.Lesson, error)
	Delete(ctx context.Context, caller Caller, lessonID uuid.UUID) error
}

type lessonService struct {
	db       *gorm.DB
	log      *logger.Logger
	access   classAccess
	lessons  repos.LessonRepo
	progress repos.LessonProgressRepo
}

func NewLessonService(
	db *gorm.DB,
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	lessons repos.LessonRepo,
	progress repos.LessonProgressRepo,
) LessonService {
	return &lessonService{
		db:       db,
		log:      log.With("service", "LessonService"),
		access:   classAccess{classes: classes, members: members},
		lessons:  lessons,
		progress: progress,
	}
}

func (s *lessonService) List(ctx context.Context, caller Caller, classID uuid.UUID) ([]*types.Lesson, error) {
	if classID == uuid.Nil {
		return nil, apierr.Validation("classId is required")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.member(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	rows, err := s.lessons.ListByClass(dbc, class.ID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if rows == nil {
		rows = []*types.Lesson{}
	}
	return rows, nil
}

func (s *lessonService) Get(ctx context.Context, caller Caller, lessonID uuid.UUID) (*types.Lesson, error) {
	dbc := dbctx.New(ctx)
	lesson, err := s.lesson(dbc, lessonID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.member(dbc, lesson.ClassID, caller); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *lessonService) Create(ctx context.Context, caller Caller, in LessonInput) (*types.Lesson, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can create lessons")
	}
	if in.ClassID == uuid.Nil {
		return nil, apierr.Validation("classId is required")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, in.ClassID, caller)
	if err != nil {
		return nil, err
	}
	if field := in.missing(); field != "" {
		return nil, apierr.Validation(field + " is required")
	}
	lesson := &types.Lesson{}
	if err := copier.Copy(lesson, &in); err != nil {
		return nil, apierr.Internal(fmt.Errorf("map lesson: %w", err))
	}
	lesson.ClassID = class.ID
	lesson.CodeStarter = in.CodeStarter
	lesson.Hints = hintsOf(in.Hints)
	lesson.CreatedBy = caller.AccountID
	if err := s.lessons.Create(dbc, lesson); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create lesson: %w", err))
	}
	return lesson, nil
}

// Update keeps required fields that arrive empty and replaces hints and the
// code starter outright.
func (s *lessonService) Update(ctx context.Context, caller Caller, lessonID uuid.UUID, in LessonInput) (*types.Lesson, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can update lessons")
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.lesson(dbc, lessonID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.access.teacher(dbc, lesson.ClassID, caller); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(lesson, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("map lesson: %w", err))
	}
	lesson.CodeStarter = in.CodeStarter
	lesson.Hints = hintsOf(in.Hints)
	if err := s.lessons.Save(dbc, lesson); err != nil {
		return nil, apierr.Internal(fmt.Errorf("update lesson: %w", err))
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, caller Caller, lessonID uuid.UUID) error {
	if !caller.IsTeacher() {
		return apierr.Forbidden("Only teachers can delete lessons")
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.lesson(dbc, lessonID)
	if err != nil {
		return err
	}
	if _, _, err := s.access.teacher(dbc, lesson.ClassID, caller); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := s.progress.DeleteByLessonIDs(txc, []uuid.UUID{lesson.ID}); err != nil {
			return err
		}
		return s.lessons.DeleteByID(txc, lesson.ID)
	})
	if err != nil {
		s.log.Error("lesson delete failed", "error", err, "lesson_id", lesson.ID)
		return apierr.Internal(err)
	}
	return nil
}

func (s *lessonService) lesson(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	lesson, err := s.lessons.GetByID(dbc, id)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("Lesson not found")
	}
	return lesson, nil
}

func hintsOf(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	return append(out, in...)
}
