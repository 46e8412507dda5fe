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

type LessonProgressRepo interface {
	// Upsert applies the non-nil fields of u to the (student, lesson) row,
	// creating it with defaults first if needed.
	Upsert(dbc dbctx.Context, studentID, lessonID uuid.UUID, u types.ProgressUpdate) (*types.LessonProgress, error)
	Get(dbc dbctx.Context, studentID, lessonID uuid.UUID) (*types.LessonProgress, error)
	ListByStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.LessonProgress, error)
	ListByStudentAndLessons(dbc dbctx.Context, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) Upsert(dbc dbctx.Context, studentID, lessonID uuid.UUID, u types.ProgressUpdate) (*types.LessonProgress, error) {
	now := time.Now().UTC()
	row := types.LessonProgress{
		ID:        uuid.New(),
		StudentID: studentID,
		LessonID:  lessonID,
		Status:    types.ProgressNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cols := make([]string, 0, 7)
	if u.Status != nil {
		row.Status = *u.Status
		cols = append(cols, "status")
	}
	if u.LastCode != nil {
		row.LastCode = *u.LastCode
		cols = append(cols, "last_code")
	}
	if u.LastAnswer != nil {
		row.LastAnswer = *u.LastAnswer
		cols = append(cols, "last_answer")
	}
	if u.Attempts != nil {
		row.Attempts = *u.Attempts
		cols = append(cols, "attempts")
	}
	if u.LastRunAt != nil {
		row.LastRunAt = u.LastRunAt
		cols = append(cols, "last_run_at")
	}
	if u.CompletedAt != nil {
		row.CompletedAt = u.CompletedAt
		cols = append(cols, "completed_at")
	}
	cols = append(cols, "updated_at")

	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, studentID, lessonID)
}

func (r *lessonProgressRepo) Get(dbc dbctx.Context, studentID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	if studentID == uuid.Nil || lessonID == uuid.Nil {
		return nil, nil
	}
	var row types.LessonProgress
	res := dbc.DB(r.db).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Limit(1).
		Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *lessonProgressRepo) ListByStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	if err := dbc.DB(r.db).
		Where("student_id = ?", studentID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) ListByStudentAndLessons(dbc dbctx.Context, studentID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	if len(lessonIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("student_id = ? AND lesson_id IN ?", studentID, lessonIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) DeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("lesson_id IN ?", lessonIDs).Delete(&types.LessonProgress{}).Error
}
