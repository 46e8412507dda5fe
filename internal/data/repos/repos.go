package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos/auth"
	"github.com/yungbote/classroom-backend/internal/data/repos/catalog"
	"github.com/yungbote/classroom-backend/internal/data/repos/classroom"
	"github.com/yungbote/classroom-backend/internal/data/repos/learning"
	"github.com/yungbote/classroom-backend/internal/data/repos/user"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type AccountRepo = user.AccountRepo
type SessionRepo = auth.SessionRepo

type ClassRepo = classroom.ClassRepo
type MembershipRepo = classroom.MembershipRepo

type TopicRepo = catalog.TopicRepo
type TopicItemRepo = catalog.TopicItemRepo
type LessonRepo = catalog.LessonRepo

type QuizAttemptRepo = learning.QuizAttemptRepo
type QuizGrade = learning.Grade
type LessonProgressRepo = learning.LessonProgressRepo

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return user.NewAccountRepo(db, baseLog)
}
func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return auth.NewSessionRepo(db, baseLog)
}

func NewClassRepo(db *gorm.DB, baseLog *logger.Logger) ClassRepo {
	return classroom.NewClassRepo(db, baseLog)
}
func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return classroom.NewMembershipRepo(db, baseLog)
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return catalog.NewTopicRepo(db, baseLog)
}
func NewTopicItemRepo(db *gorm.DB, baseLog *logger.Logger) TopicItemRepo {
	return catalog.NewTopicItemRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return catalog.NewLessonRepo(db, baseLog)
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}
