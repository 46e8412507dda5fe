package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

var errUpdateFailed = errors.New("Unable to update progress")

type ProgressService interface {
	List(ctx context.Context, caller Caller) ([]*types.LessonProgress, error)
	// Get returns nil without error when the caller has no record yet.
	Get(ctx context.Context, caller Caller, lessonID uuid.UUID) (*types.LessonProgress, error)
	Upsert(ctx context.Context, caller Caller, lessonID uuid.UUID, u types.ProgressUpdate) (*types.LessonProgress, error)
}

type progressService struct {
	log      *logger.Logger
	access   classAccess
	lessons  repos.LessonRepo
	progress repos.LessonProgressRepo
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewProgressService(
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	lessons repos.LessonRepo,
	progress repos.LessonProgressRepo,
	metrics *observability.Metrics,
) ProgressService {
	return &progressService{
		log:      log.With("service", "ProgressService"),
		access:   classAccess{classes: classes, members: members},
		lessons:  lessons,
		progress: progress,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) List(ctx context.Context, caller Caller) ([]*types.LessonProgress, error) {
	rows, err := s.progress.ListByStudent(dbctx.New(ctx), caller.AccountID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if rows == nil {
		rows = []*types.LessonProgress{}
	}
	return rows, nil
}

func (s *progressService) Get(ctx context.Context, caller Caller, lessonID uuid.UUID) (*types.LessonProgress, error) {
	row, err := s.progress.Get(dbctx.New(ctx), caller.AccountID, lessonID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return row, nil
}

// Upsert applies a partial snapshot. Status may move in any direction; a
// completion without a timestamp is stamped now.
func (s *progressService) Upsert(ctx context.Context, caller Caller, lessonID uuid.UUID, u types.ProgressUpdate) (*types.LessonProgress, error) {
	if u.Status != nil && !types.ValidProgressStatus(*u.Status) {
		return nil, apierr.Validation("Invalid status")
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if lesson == nil {
		return nil, apierr.NotFound("Lesson not found")
	}
	if _, _, err := s.access.member(dbc, lesson.ClassID, caller); err != nil {
		return nil, err
	}
	if u.Status != nil && *u.Status == types.ProgressCompleted && u.CompletedAt == nil {
		now := s.now()
		u.CompletedAt = &now
	}
	row, err := s.progress.Upsert(dbc, caller.AccountID, lesson.ID, u)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("upsert progress: %w", err))
	}
	if row == nil {
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeUpdateFailed, errUpdateFailed)
	}
	s.metrics.IncProgressUpsert(row.Status)
	return row, nil
}
