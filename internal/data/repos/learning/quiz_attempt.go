package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

// Grade is the teacher-supplied override written by UpdateGrade.
type Grade struct {
	IsCorrect bool
	Score     float64
	Feedback  string
	GradedAt  time.Time
}

type QuizAttemptRepo interface {
	// Upsert records one submission. The row is keyed by (student, item):
	// the first call inserts with attempts=1 and stamps class/topic, later
	// calls overwrite the response and grading fields and bump attempts.
	Upsert(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error)
	GetByStudentAndItem(dbc dbctx.Context, studentID, itemID uuid.UUID) (*types.QuizAttempt, error)
	GetInClass(dbc dbctx.Context, classID, attemptID uuid.UUID) (*types.QuizAttempt, error)
	ListByClassAndStudent(dbc dbctx.Context, classID, studentID uuid.UUID) ([]*types.QuizAttempt, error)
	UpdateGrade(dbc dbctx.Context, attemptID uuid.UUID, g Grade) (*types.QuizAttempt, error)
	DeleteByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error
	DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Upsert(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error) {
	row := *attempt
	row.ID = uuid.New()
	row.Attempts = 1
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	updates := clause.AssignmentColumns([]string{
		"response_text",
		"status",
		"grading_status",
		"is_correct",
		"score",
		"feedback",
		"submitted_at",
		"graded_at",
		"updated_at",
	})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "attempts"},
		Value:  gorm.Expr("quiz_attempt.attempts + 1"),
	})

	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "topic_item_id"}},
			DoUpdates: updates,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.GetByStudentAndItem(dbc, attempt.StudentID, attempt.ItemID)
}

func (r *quizAttemptRepo) GetByStudentAndItem(dbc dbctx.Context, studentID, itemID uuid.UUID) (*types.QuizAttempt, error) {
	if studentID == uuid.Nil || itemID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("student_id = ? AND topic_item_id = ?", studentID, itemID))
}

func (r *quizAttemptRepo) GetInClass(dbc dbctx.Context, classID, attemptID uuid.UUID) (*types.QuizAttempt, error) {
	if classID == uuid.Nil || attemptID == uuid.Nil {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("id = ? AND class_id = ?", attemptID, classID))
}

func (r *quizAttemptRepo) first(q *gorm.DB) (*types.QuizAttempt, error) {
	var row types.QuizAttempt
	res := q.Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// ListByClassAndStudent returns the student's attempts in the class, most
// recently touched first.
func (r *quizAttemptRepo) ListByClassAndStudent(dbc dbctx.Context, classID, studentID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if err := dbc.DB(r.db).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) UpdateGrade(dbc dbctx.Context, attemptID uuid.UUID, g Grade) (*types.QuizAttempt, error) {
	res := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]interface{}{
			"status":         types.AttemptStatusGraded,
			"grading_status": types.GradingManualGraded,
			"is_correct":     g.IsCorrect,
			"score":          g.Score,
			"feedback":       g.Feedback,
			"graded_at":      g.GradedAt,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.first(dbc.DB(r.db).Where("id = ?", attemptID))
}

func (r *quizAttemptRepo) DeleteByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("topic_item_id IN ?", itemIDs).Delete(&types.QuizAttempt{}).Error
}

func (r *quizAttemptRepo) DeleteByClassID(dbc dbctx.Context, classID uuid.UUID) error {
	return dbc.DB(r.db).Where("class_id = ?", classID).Delete(&types.QuizAttempt{}).Error
}
