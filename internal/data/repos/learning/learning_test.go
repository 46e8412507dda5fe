package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
)

func TestQuizAttemptUpsertKeepsOneRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.New(ctx).WithTx(tx)
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	teacher := testutil.SeedAccount(t, ctx, tx, "teach", types.RoleTeacher)
	student := testutil.SeedAccount(t, ctx, tx, "stud", types.RoleStudent)
	c := testutil.SeedClass(t, ctx, tx, teacher.ID)
	topic := testutil.SeedTopic(t, ctx, tx, c.ID, teacher.ID, "Geo")
	item := testutil.SeedQuizItem(t, ctx, tx, topic, types.QuizSubtypeMCQ, []string{"Paris", "Rome"}, "Paris")

	now := time.Now().UTC()
	first, err := repo.Upsert(dbc, &types.QuizAttempt{
		StudentID:     student.ID,
		ClassID:       c.ID,
		TopicID:       topic.ID,
		ItemID:        item.ID,
		ResponseText:  "Rome",
		Status:        types.AttemptStatusGraded,
		GradingStatus: types.GradingAutoGraded,
		IsCorrect:     pointers.Bool(false),
		Score:         pointers.Float64(0),
		SubmittedAt:   &now,
		GradedAt:      &now,
	})
	if err != nil {
		t.Fatalf("Upsert(first): %v", err)
	}
	if first.Attempts != 1 || first.ResponseText != "Rome" {
		t.Fatalf("unexpected first attempt: %+v", first)
	}

	second, err := repo.Upsert(dbc, &types.QuizAttempt{
		StudentID:     student.ID,
		ClassID:       c.ID,
		TopicID:       topic.ID,
		ItemID:        item.ID,
		ResponseText:  "Paris",
		Status:        types.AttemptStatusGraded,
		GradingStatus: types.GradingAutoGraded,
		IsCorrect:     pointers.Bool(true),
		Score:         pointers.Float64(1),
		SubmittedAt:   &now,
		GradedAt:      &now,
	})
	if err != nil {
		t.Fatalf("Upsert(second): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same row, got %s and %s", first.ID, second.ID)
	}
	if second.Attempts != 2 || second.IsCorrect == nil || !*second.IsCorrect {
		t.Fatalf("unexpected second attempt: %+v", second)
	}

	var count int64
	if err := tx.Model(&types.QuizAttempt{}).Where("student_id = ? AND topic_item_id = ?", student.ID, item.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one attempt row, got %d", count)
	}

	graded, err := repo.UpdateGrade(dbc, first.ID, Grade{IsCorrect: false, Score: 0.5, Feedback: "close", GradedAt: now})
	if err != nil || graded == nil {
		t.Fatalf("UpdateGrade: a=%v err=%v", graded, err)
	}
	if graded.GradingStatus != types.GradingManualGraded || graded.Status != types.AttemptStatusGraded {
		t.Fatalf("unexpected grading state: %+v", graded)
	}
	if graded.Score == nil || *graded.Score != 0.5 || graded.Feedback != "close" || graded.Attempts != 2 {
		t.Fatalf("unexpected grade fields: %+v", graded)
	}

	if got, err := repo.GetInClass(dbc, c.ID, first.ID); err != nil || got == nil {
		t.Fatalf("GetInClass: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListByClassAndStudent(dbc, c.ID, student.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByClassAndStudent: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByItemIDs(dbc, []uuid.UUID{item.ID}); err != nil {
		t.Fatalf("DeleteByItemIDs: %v", err)
	}
	if got, _ := repo.GetInClass(dbc, c.ID, first.ID); got != nil {
		t.Fatalf("expected attempt deleted")
	}
}

func TestLessonProgressPartialUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.New(ctx).WithTx(tx)
	repo := NewLessonProgressRepo(db, testutil.Logger(t))

	teacher := testutil.SeedAccount(t, ctx, tx, "teach", types.RoleTeacher)
	student := testutil.SeedAccount(t, ctx, tx, "stud", types.RoleStudent)
	c := testutil.SeedClass(t, ctx, tx, teacher.ID)
	lesson := testutil.SeedLesson(t, ctx, tx, c.ID, teacher.ID, "Intro")

	ran := time.Now().UTC()
	p, err := repo.Upsert(dbc, student.ID, lesson.ID, types.ProgressUpdate{
		Status:    pointers.String(types.ProgressInProgress),
		LastCode:  pointers.String("print(1)"),
		LastRunAt: &ran,
	})
	if err != nil {
		t.Fatalf("Upsert(run): %v", err)
	}
	if p.Status != types.ProgressInProgress || p.LastCode != "print(1)" || p.Attempts != 0 || p.LastRunAt == nil {
		t.Fatalf("unexpected progress after run: %+v", p)
	}

	p2, err := repo.Upsert(dbc, student.ID, lesson.ID, types.ProgressUpdate{
		LastAnswer: pointers.String("42"),
		Attempts:   pointers.Int(3),
	})
	if err != nil {
		t.Fatalf("Upsert(answer): %v", err)
	}
	if p2.ID != p.ID {
		t.Fatalf("expected same row")
	}
	if p2.LastCode != "print(1)" || p2.Status != types.ProgressInProgress {
		t.Fatalf("omitted fields must be left untouched: %+v", p2)
	}
	if p2.LastAnswer != "42" || p2.Attempts != 3 {
		t.Fatalf("unexpected progress after answer: %+v", p2)
	}

	if rows, err := repo.ListByStudent(dbc, student.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByStudent: err=%v len=%d", err, len(rows))
	}
	if err := repo.DeleteByLessonIDs(dbc, []uuid.UUID{lesson.ID}); err != nil {
		t.Fatalf("DeleteByLessonIDs: %v", err)
	}
	if got, _ := repo.Get(dbc, student.ID, lesson.ID); got != nil {
		t.Fatalf("expected progress deleted")
	}
}
