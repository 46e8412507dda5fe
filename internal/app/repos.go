package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type Repos struct {
	Account    repos.AccountRepo
	Session    repos.SessionRepo
	Class      repos.ClassRepo
	Membership repos.MembershipRepo
	Topic      repos.TopicRepo
	TopicItem  repos.TopicItemRepo
	Lesson     repos.LessonRepo
	Attempt    repos.QuizAttemptRepo
	Progress   repos.LessonProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Account:    repos.NewAccountRepo(db, log),
		Session:    repos.NewSessionRepo(db, log),
		Class:      repos.NewClassRepo(db, log),
		Membership: repos.NewMembershipRepo(db, log),
		Topic:      repos.NewTopicRepo(db, log),
		TopicItem:  repos.NewTopicItemRepo(db, log),
		Lesson:     repos.NewLessonRepo(db, log),
		Attempt:    repos.NewQuizAttemptRepo(db, log),
		Progress:   repos.NewLessonProgressRepo(db, log),
	}
}
