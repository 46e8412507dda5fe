package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

// QuizItemView is what a class member sees of a quiz. The expected answer is
// never included.
type QuizItemView struct {
	ID           uuid.UUID                   `json:"id"`
	Title        string                      `json:"title"`
	Type         string                      `json:"type"`
	QuizSubtype  string                      `json:"quizSubtype"`
	QuizQuestion string                      `json:"quizQuestion"`
	QuizOptions  datatypes.JSONSlice[string] `json:"quizOptions"`
	Topic        TopicRef                    `json:"topic"`
}

type GradeInput struct {
	StudentID uuid.UUID
	AttemptID uuid.UUID
	// IsCorrect is required; nil means the payload did not carry a boolean.
	IsCorrect *bool
	Score     *float64
	Feedback  string
}

type QuizService interface {
	// Get returns the quiz and the caller's own attempt, nil if none.
	Get(ctx context.Context, caller Caller, classID, itemID uuid.UUID) (*QuizItemView, *types.QuizAttempt, error)
	Submit(ctx context.Context, caller Caller, classID, itemID uuid.UUID, responseText string) (*types.QuizAttempt, error)
	Grade(ctx context.Context, caller Caller, classID uuid.UUID, in GradeInput) (*types.QuizAttempt, error)
}

type quizService struct {
	log      *logger.Logger
	access   classAccess
	topics   repos.TopicRepo
	items    repos.TopicItemRepo
	attempts repos.QuizAttemptRepo
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewQuizService(
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	topics repos.TopicRepo,
	items repos.TopicItemRepo,
	attempts repos.QuizAttemptRepo,
	metrics *observability.Metrics,
) QuizService {
	return &quizService{
		log:      log.With("service", "QuizService"),
		access:   classAccess{classes: classes, members: members},
		topics:   topics,
		items:    items,
		attempts: attempts,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *quizService) Get(ctx context.Context, caller Caller, classID, itemID uuid.UUID) (*QuizItemView, *types.QuizAttempt, error) {
	dbc := dbctx.New(ctx)
	class, _, err := s.access.member(dbc, classID, caller)
	if err != nil {
		return nil, nil, err
	}
	item, topic, err := itemWithTopic(dbc, s.items, s.topics, class.ID, itemID)
	if err != nil {
		return nil, nil, err
	}
	if !item.IsQuiz() {
		return nil, nil, apierr.InvalidType("Not a quiz item")
	}
	attempt, err := s.attempts.GetByStudentAndItem(dbc, caller.AccountID, item.ID)
	if err != nil {
		return nil, nil, apierr.Internal(err)
	}
	options := item.QuizOptions
	if options == nil {
		options = datatypes.JSONSlice[string]{}
	}
	return &QuizItemView{
		ID:           item.ID,
		Title:        item.Title,
		Type:         item.Type,
		QuizSubtype:  item.Subtype(),
		QuizQuestion: item.QuizQuestion,
		QuizOptions:  options,
		Topic:        topicRef(item, topic),
	}, attempt, nil
}

// Submit records a student's answer. Every submission overwrites the current
// state, including any teacher grade, and bumps the attempt counter.
func (s *quizService) Submit(ctx context.Context, caller Caller, classID, itemID uuid.UUID, responseText string) (*types.QuizAttempt, error) {
	if !caller.IsStudent() {
		return nil, apierr.Forbidden("Only students can submit quiz answers")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.student(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetInClass(dbc, class.ID, itemID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if item == nil {
		return nil, apierr.NotFound("Item not found")
	}
	if !item.IsQuiz() {
		return nil, apierr.InvalidType("Not a quiz item")
	}
	response := strings.TrimSpace(responseText)
	if response == "" {
		return nil, apierr.Validation("Response is required")
	}

	now := s.now()
	row := &types.QuizAttempt{
		StudentID:     caller.AccountID,
		ClassID:       class.ID,
		TopicID:       item.TopicID,
		ItemID:        item.ID,
		ResponseText:  response,
		Status:        types.AttemptStatusSubmitted,
		GradingStatus: types.GradingPending,
		SubmittedAt:   &now,
	}
	subtype := item.Subtype()
	if subtype == types.QuizSubtypeMCQ {
		if !item.HasOption(response) {
			return nil, apierr.Validation("Response must match one of the options")
		}
		if expected := strings.TrimSpace(item.QuizAnswer); expected != "" {
			correct := normalizeAnswer(response) == normalizeAnswer(expected)
			score := 0.0
			if correct {
				score = 1
			}
			row.IsCorrect = &correct
			row.Score = &score
			row.Status = types.AttemptStatusGraded
			row.GradingStatus = types.GradingAutoGraded
			row.GradedAt = &now
		}
	}

	attempt, err := s.attempts.Upsert(dbc, row)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("upsert attempt: %w", err))
	}
	s.metrics.IncQuizSubmission(subtype, attempt.GradingStatus)
	s.log.Debug("quiz submitted",
		"class_id", class.ID,
		"item_id", item.ID,
		"account_id", caller.AccountID,
		"grading_status", attempt.GradingStatus,
		"attempts", attempt.Attempts,
	)
	return attempt, nil
}

// Grade writes a teacher's verdict. It always wins over auto-grading and
// stays until the student resubmits.
func (s *quizService) Grade(ctx context.Context, caller Caller, classID uuid.UUID, in GradeInput) (*types.QuizAttempt, error) {
	if !caller.IsTeacher() {
		return nil, apierr.Forbidden("Only teachers can grade quiz answers")
	}
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.enrolledStudent(dbc, class.ID, in.StudentID); err != nil {
		return nil, err
	}
	attempt, err := s.attempts.GetInClass(dbc, class.ID, in.AttemptID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if attempt == nil {
		return nil, apierr.NotFound("Quiz attempt not found")
	}
	if attempt.StudentID != in.StudentID {
		return nil, apierr.Validation("Quiz attempt does not belong to this student")
	}
	if in.IsCorrect == nil {
		return nil, apierr.Validation("isCorrect must be true or false")
	}

	score := 0.0
	if *in.IsCorrect {
		score = 1
	}
	if in.Score != nil && !math.IsNaN(*in.Score) && !math.IsInf(*in.Score, 0) {
		score = *in.Score
	}
	updated, err := s.attempts.UpdateGrade(dbc, attempt.ID, repos.QuizGrade{
		IsCorrect: *in.IsCorrect,
		Score:     score,
		Feedback:  strings.TrimSpace(in.Feedback),
		GradedAt:  s.now(),
	})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("grade attempt: %w", err))
	}
	// Deleted between the read and the write.
	if updated == nil {
		return nil, apierr.NotFound("Quiz attempt not found")
	}
	s.metrics.IncQuizGraded()
	return updated, nil
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
