package domain

import (
	"github.com/yungbote/classroom-backend/internal/domain/auth"
	"github.com/yungbote/classroom-backend/internal/domain/catalog"
	"github.com/yungbote/classroom-backend/internal/domain/classroom"
	"github.com/yungbote/classroom-backend/internal/domain/learning"
	"github.com/yungbote/classroom-backend/internal/domain/user"
)

const (
	RoleTeacher = user.RoleTeacher
	RoleStudent = user.RoleStudent

	ItemTypeLearning = catalog.ItemTypeLearning
	ItemTypeQuiz     = catalog.ItemTypeQuiz
	ItemTypePractice = catalog.ItemTypePractice

	QuizSubtypeMCQ         = catalog.QuizSubtypeMCQ
	QuizSubtypeShortAnswer = catalog.QuizSubtypeShortAnswer

	AttemptStatusSubmitted = learning.AttemptStatusSubmitted
	AttemptStatusGraded    = learning.AttemptStatusGraded

	GradingPending      = learning.GradingPending
	GradingAutoGraded   = learning.GradingAutoGraded
	GradingManualGraded = learning.GradingManualGraded

	ProgressNotStarted = learning.ProgressNotStarted
	ProgressInProgress = learning.ProgressInProgress
	ProgressCompleted  = learning.ProgressCompleted
)

type Account = user.Account
type Session = auth.Session

type Class = classroom.Class
type Membership = classroom.Membership

type Topic = catalog.Topic
type TopicItem = catalog.TopicItem
type Lesson = catalog.Lesson

type QuizAttempt = learning.QuizAttempt
type LessonProgress = learning.LessonProgress
type ProgressUpdate = learning.ProgressUpdate

var (
	ValidRole           = user.ValidRole
	ValidItemType       = catalog.ValidItemType
	ValidQuizSubtype    = catalog.ValidQuizSubtype
	ValidProgressStatus = learning.ValidProgressStatus
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&Account{},
		&Session{},
		&Class{},
		&Membership{},
		&Topic{},
		&TopicItem{},
		&Lesson{},
		&QuizAttempt{},
		&LessonProgress{},
	}
}
