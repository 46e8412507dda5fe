package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const maxJoinCodeAttempts = 5

var errJoinCodeExhausted = errors.New("could not allocate a unique join code")

type StudentSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ClassService interface {
	Create(ctx context.Context, caller Caller, name string) (*types.Class, error)
	// Join returns the class and whether a new membership was created.
	Join(ctx context.Context, caller Caller, joinCode string) (*types.Class, bool, error)
	List(ctx context.Context, caller Caller) ([]*types.Class, error)
	Get(ctx context.Context, caller Caller, classID uuid.UUID) (*types.Class, error)
	ListStudents(ctx context.Context, caller Caller, classID uuid.UUID) ([]StudentSummary, error)
	Delete(ctx context.Context, caller Caller, classID uuid.UUID) error
}

type classService struct {
	db       *gorm.DB
	log      *logger.Logger
	access   classAccess
	classes  repos.ClassRepo
	members  repos.MembershipRepo
	accounts repos.AccountRepo
	topics   repos.TopicRepo
	items    repos.TopicItemRepo
	lessons  repos.LessonRepo
	attempts repos.QuizAttemptRepo
	progress repos.LessonProgressRepo
	metrics  *observability.Metrics
	joinCode func() (string, error)
}

func NewClassService(
	db *gorm.DB,
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	accounts repos.AccountRepo,
	topics repos.TopicRepo,
	items repos.TopicItemRepo,
	lessons repos.LessonRepo,
	attempts repos.QuizAttemptRepo,
	progress repos.LessonProgressRepo,
	metrics *observability.Metrics,
) ClassService {
	return &classService{
		db:       db,
		log:      log.With("service", "ClassService"),
		access:   classAccess{classes: classes, members: members},
		classes:  classes,
		members:  members,
		accounts: accounts,
		topics:   topics,
		items:    items,
		lessons:  lessons,
		attempts: attempts,
		progress: progress,
		metrics:  metrics,
		joinCode: NewJoinCode,
	}
}

func (s *classService) Create(ctx context.Context, caller Caller, name string) (*types.Class, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can create classes")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("Class name is required")
	}

	dbc := dbctx.New(ctx)
	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := s.freeJoinCode(dbc)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		class := &types.Class{
			ID:        uuid.New(),
			Name:      name,
			JoinCode:  code,
			CreatedBy: caller.AccountID,
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txc := dbc.WithTx(tx)
			if err := s.classes.Create(txc, class); err != nil {
				return err
			}
			return s.members.Create(txc, &types.Membership{
				ClassID:   class.ID,
				AccountID: caller.AccountID,
				Role:      types.RoleTeacher,
			})
		})
		if err == nil {
			s.log.Info("class created", "class_id", class.ID, "account_id", caller.AccountID)
			return class, nil
		}
		// Lost a race for the code between the probe and the insert.
		if dbpkg.IsDuplicateKey(err) {
			continue
		}
		return nil, apierr.Internal(fmt.Errorf("create class: %w", err))
	}
	return nil, apierr.Internal(errJoinCodeExhausted)
}

// freeJoinCode probes up to maxJoinCodeAttempts codes and returns the first
// unused one. The unique index still guards the insert.
func (s *classService) freeJoinCode(dbc dbctx.Context) (string, error) {
	var code string
	for i := 0; i < maxJoinCodeAttempts; i++ {
		c, err := s.joinCode()
		if err != nil {
			return "", err
		}
		code = c
		taken, err := s.classes.JoinCodeExists(dbc, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errJoinCodeExhausted
}

func (s *classService) Join(ctx context.Context, caller Caller, joinCode string) (*types.Class, bool, error) {
	if !caller.IsStudent() {
		return nil, false, apierr.Forbidden("Only students can join classes")
	}
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" {
		return nil, false, apierr.Validation("Join code is required")
	}
	dbc := dbctx.New(ctx)
	class, err := s.classes.GetByJoinCode(dbc, code)
	if err != nil {
		return nil, false, apierr.Internal(err)
	}
	if class == nil {
		return nil, false, apierr.NotFound("Class not found")
	}
	_, created, err := s.members.CreateIfAbsent(dbc, &types.Membership{
		ClassID:   class.ID,
		AccountID: caller.AccountID,
		Role:      types.RoleStudent,
	})
	if err != nil {
		return nil, false, apierr.Internal(err)
	}
	s.metrics.IncClassJoin(created)
	return class, created, nil
}

func (s *classService) List(ctx context.Context, caller Caller) ([]*types.Class, error) {
	rows, err := s.classes.ListForAccount(dbctx.New(ctx), caller.AccountID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if rows == nil {
		rows = []*types.Class{}
	}
	return rows, nil
}

func (s *classService) Get(ctx context.Context, caller Caller, classID uuid.UUID) (*types.Class, error) {
	class, _, err := s.access.member(dbctx.New(ctx), classID, caller)
	return class, err
}

func (s *classService) ListStudents(ctx context.Context, caller Caller, classID uuid.UUID) ([]StudentSummary, error) {
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ListByClassAndRole(dbc, class.ID, types.RoleStudent)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	out := []StudentSummary{}
	if len(members) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.AccountID)
	}
	accounts, err := s.accounts.GetByIDs(dbc, ids)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	byID := make(map[uuid.UUID]*types.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	// Keep join order; skip memberships whose account row is gone.
	for _, id := range ids {
		if a := byID[id]; a != nil {
			out = append(out, StudentSummary{ID: a.ID, Name: a.Name})
		}
	}
	return out, nil
}

// Delete removes the class and everything under it in one transaction:
// attempts, items, topics, progress on class lessons, lessons, memberships.
func (s *classService) Delete(ctx context.Context, caller Caller, classID uuid.UUID) error {
	if !caller.IsTeacher() {
		return apierr.Forbidden("Only teachers can delete classes")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbc.WithTx(tx)
		if err := s.attempts.DeleteByClassID(txc, class.ID); err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}
		if err := s.items.DeleteByClassID(txc, class.ID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if err := s.topics.DeleteByClassID(txc, class.ID); err != nil {
			return fmt.Errorf("delete topics: %w", err)
		}
		lessonIDs, err := s.lessons.ListIDsByClass(txc, class.ID)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		if err := s.progress.DeleteByLessonIDs(txc, lessonIDs); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if err := s.lessons.DeleteByClassID(txc, class.ID); err != nil {
			return fmt.Errorf("delete lessons: %w", err)
		}
		if err := s.members.DeleteByClassID(txc, class.ID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		return s.classes.DeleteByID(txc, class.ID)
	})
	if err != nil {
		s.log.Error("class delete failed", "error", err, "class_id", class.ID)
		return apierr.Internal(err)
	}
	s.log.Info("class deleted", "class_id", class.ID, "account_id", caller.AccountID)
	return nil
}
