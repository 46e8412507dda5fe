package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
)

// env wires every service over a fresh database. Services open their own
// transactions, so tests seed straight into db instead of a rolled-back tx.
type env struct {
	ctx context.Context
	db  *gorm.DB

	accounts repos.AccountRepo
	sessions repos.SessionRepo
	classes  repos.ClassRepo
	members  repos.MembershipRepo
	topics   repos.TopicRepo
	items    repos.TopicItemRepo
	lessons  repos.LessonRepo
	attempts repos.QuizAttemptRepo
	progress repos.LessonProgressRepo

	auth    AuthService
	class   ClassService
	catalog CatalogService
	quiz    QuizService
	lesson  LessonService
	progSvc ProgressService
	reports ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	e := &env{
		ctx:      context.Background(),
		db:       db,
		accounts: repos.NewAccountRepo(db, log),
		sessions: repos.NewSessionRepo(db, log),
		classes:  repos.NewClassRepo(db, log),
		members:  repos.NewMembershipRepo(db, log),
		topics:   repos.NewTopicRepo(db, log),
		items:    repos.NewTopicItemRepo(db, log),
		lessons:  repos.NewLessonRepo(db, log),
		attempts: repos.NewQuizAttemptRepo(db, log),
		progress: repos.NewLessonProgressRepo(db, log),
	}
	e.auth = NewAuthService(db, log, e.accounts, e.sessions, nil, nil, AuthConfig{JWTSecret: "test-secret", BcryptCost: 4})
	e.class = NewClassService(db, log, e.classes, e.members, e.accounts, e.topics, e.items, e.lessons, e.attempts, e.progress, nil)
	e.catalog = NewCatalogService(db, log, e.classes, e.members, e.topics, e.items, e.attempts)
	e.quiz = NewQuizService(log, e.classes, e.members, e.topics, e.items, e.attempts, nil)
	e.lesson = NewLessonService(db, log, e.classes, e.members, e.lessons, e.progress)
	e.progSvc = NewProgressService(log, e.classes, e.members, e.lessons, e.progress, nil)
	e.reports = NewReportService(log, e.classes, e.members, e.accounts, e.lessons, e.progress, e.attempts, e.items, e.topics)
	return e
}

func (e *env) teacher(t *testing.T) Caller {
	t.Helper()
	a := testutil.SeedAccount(t, e.ctx, e.db, "teacher", types.RoleTeacher)
	return Caller{AccountID: a.ID, Role: a.Role, Name: a.Name}
}

func (e *env) student(t *testing.T) Caller {
	t.Helper()
	a := testutil.SeedAccount(t, e.ctx, e.db, "student", types.RoleStudent)
	return Caller{AccountID: a.ID, Role: a.Role, Name: a.Name}
}

// classroom seeds a class owned by teacher with every student enrolled.
func (e *env) classroom(t *testing.T, teacher Caller, students ...Caller) *types.Class {
	t.Helper()
	c := testutil.SeedClass(t, e.ctx, e.db, teacher.AccountID)
	for _, s := range students {
		testutil.SeedMembership(t, e.ctx, e.db, c.ID, s.AccountID, types.RoleStudent)
	}
	return c
}

func (e *env) quizItem(t *testing.T, class *types.Class, teacher Caller, subtype string, options []string, answer string) *types.TopicItem {
	t.Helper()
	topic := testutil.SeedTopic(t, e.ctx, e.db, class.ID, teacher.AccountID, "Topic")
	return testutil.SeedQuizItem(t, e.ctx, e.db, topic, subtype, options, answer)
}

// requireAPIError asserts err is an *apierr.Error with code and message.
func requireAPIError(t *testing.T, err error, code, msg string) {
	t.Helper()
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
	if msg != "" {
		require.Equal(t, msg, apiErr.Error())
	}
}
