package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/classroom-backend/internal/data/repos"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

const (
	fallbackStudentName = "Student"
	fallbackItemTitle   = "Quiz"
)

// LessonProgressRow is one class lesson joined with the student's record.
// Lessons the student never opened read as not_started.
type LessonProgressRow struct {
	LessonID    uuid.UUID  `json:"lessonId"`
	Unit        string     `json:"unit"`
	Heading     string     `json:"heading"`
	Duration    string     `json:"duration"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	LastRunAt   *time.Time `json:"lastRunAt"`
	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	LastCode    string     `json:"lastCode"`
	LastAnswer  string     `json:"lastAnswer"`
}

// ItemSummary is the part of a topic item shown next to an attempt.
type ItemSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	QuizSubtype  string    `json:"quizSubtype"`
	QuizQuestion string    `json:"quizQuestion"`
	Topic        TopicRef  `json:"topic"`
}

// ReportAttempt is an attempt plus display fields of its item. The item may
// be gone: Item is then nil and the labels fall back to placeholders.
type ReportAttempt struct {
	*types.QuizAttempt
	Item         *ItemSummary `json:"item"`
	ItemTitle    string       `json:"itemTitle"`
	QuizSubtype  string       `json:"quizSubtype"`
	QuizQuestion string       `json:"quizQuestion"`
	TopicTitle   string       `json:"topicTitle"`
}

type StudentReport struct {
	Student      StudentSummary      `json:"student"`
	Progress     []LessonProgressRow `json:"progress"`
	QuizAttempts []ReportAttempt     `json:"quizAttempts"`
}

type ReportService interface {
	StudentProgress(ctx context.Context, caller Caller, classID, studentID uuid.UUID) (*StudentReport, error)
}

type reportService struct {
	log      *logger.Logger
	access   classAccess
	accounts repos.AccountRepo
	lessons  repos.LessonRepo
	progress repos.LessonProgressRepo
	attempts repos.QuizAttemptRepo
	items    repos.TopicItemRepo
	topics   repos.TopicRepo
}

func NewReportService(
	log *logger.Logger,
	classes repos.ClassRepo,
	members repos.MembershipRepo,
	accounts repos.AccountRepo,
	lessons repos.LessonRepo,
	progress repos.LessonProgressRepo,
	attempts repos.QuizAttemptRepo,
	items repos.TopicItemRepo,
	topics repos.TopicRepo,
) ReportService {
	return &reportService{
		log:      log.With("service", "ReportService"),
		access:   classAccess{classes: classes, members: members},
		accounts: accounts,
		lessons:  lessons,
		progress: progress,
		attempts: attempts,
		items:    items,
		topics:   topics,
	}
}

func (s *reportService) StudentProgress(ctx context.Context, caller Caller, classID, studentID uuid.UUID) (*StudentReport, error) {
	dbc := dbctx.New(ctx)
	class, _, err := s.access.teacher(dbc, classID, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.enrolledStudent(dbc, class.ID, studentID); err != nil {
		return nil, err
	}

	var (
		account  *types.Account
		lessons  []*types.Lesson
		attempts []*types.QuizAttempt
	)
	g, gctx := errgroup.WithContext(ctx)
	gdbc := dbctx.New(gctx)
	g.Go(func() (err error) {
		account, err = s.accounts.GetByID(gdbc, studentID)
		return err
	})
	g.Go(func() (err error) {
		lessons, err = s.lessons.ListByClass(gdbc, class.ID)
		return err
	})
	g.Go(func() (err error) {
		attempts, err = s.attempts.ListByClassAndStudent(gdbc, class.ID, studentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.Internal(err)
	}

	lessonIDs := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}
	itemIDs := uniqueItemIDs(attempts)

	var (
		records []*types.LessonProgress
		items   []*types.TopicItem
		topics  []*types.Topic
	)
	g, gctx = errgroup.WithContext(ctx)
	gdbc = dbctx.New(gctx)
	g.Go(func() (err error) {
		records, err = s.progress.ListByStudentAndLessons(gdbc, studentID, lessonIDs)
		return err
	})
	g.Go(func() error {
		var err error
		if items, err = s.items.GetByIDs(gdbc, itemIDs); err != nil {
			return err
		}
		topicIDs := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			topicIDs = append(topicIDs, it.TopicID)
		}
		topics, err = s.topics.GetByIDs(gdbc, topicIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apierr.Internal(err)
	}

	report := &StudentReport{
		Student:      StudentSummary{ID: studentID, Name: fallbackStudentName},
		Progress:     progressRows(lessons, records),
		QuizAttempts: reportAttempts(attempts, items, topics),
	}
	if account != nil {
		report.Student.Name = account.Name
	}
	return report, nil
}

func uniqueItemIDs(attempts []*types.QuizAttempt) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	out := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := seen[a.ItemID]; ok {
			continue
		}
		seen[a.ItemID] = struct{}{}
		out = append(out, a.ItemID)
	}
	return out
}

func progressRows(lessons []*types.Lesson, records []*types.LessonProgress) []LessonProgressRow {
	byLesson := make(map[uuid.UUID]*types.LessonProgress, len(records))
	for _, r := range records {
		byLesson[r.LessonID] = r
	}
	out := make([]LessonProgressRow, 0, len(lessons))
	for _, l := range lessons {
		row := LessonProgressRow{
			LessonID: l.ID,
			Unit:     l.Unit,
			Heading:  l.Heading,
			Duration: l.Duration,
			Status:   types.ProgressNotStarted,
		}
		if r := byLesson[l.ID]; r != nil {
			if r.Status != "" {
				row.Status = r.Status
			}
			row.Attempts = r.Attempts
			row.LastRunAt = r.LastRunAt
			row.CompletedAt = r.CompletedAt
			updated := r.UpdatedAt
			row.UpdatedAt = &updated
			row.LastCode = r.LastCode
			row.LastAnswer = r.LastAnswer
		}
		out = append(out, row)
	}
	return out
}

func reportAttempts(attempts []*types.QuizAttempt, items []*types.TopicItem, topics []*types.Topic) []ReportAttempt {
	itemByID := make(map[uuid.UUID]*types.TopicItem, len(items))
	for _, it := range items {
		itemByID[it.ID] = it
	}
	topicByID := make(map[uuid.UUID]*types.Topic, len(topics))
	for _, t := range topics {
		topicByID[t.ID] = t
	}
	out := make([]ReportAttempt, 0, len(attempts))
	for _, a := range attempts {
		ra := ReportAttempt{
			QuizAttempt: a,
			ItemTitle:   fallbackItemTitle,
			QuizSubtype: types.QuizSubtypeMCQ,
		}
		if it := itemByID[a.ItemID]; it != nil {
			summary := &ItemSummary{
				ID:           it.ID,
				Title:        it.Title,
				QuizSubtype:  it.Subtype(),
				QuizQuestion: it.QuizQuestion,
				Topic:        topicRef(it, topicByID[it.TopicID]),
			}
			ra.Item = summary
			if summary.Title != "" {
				ra.ItemTitle = summary.Title
			}
			ra.QuizSubtype = summary.QuizSubtype
			ra.QuizQuestion = summary.QuizQuestion
			ra.TopicTitle = summary.Topic.Title
		}
		out = append(out, ra)
	}
	return out
}
