package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/pkg/dbctx"
	"github.com/yungbote/classroom-backend/internal/pkg/pointers"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
)

func quizInput(subtype string, options []any, answer string) ItemInput {
	return ItemInput{
		Title: pointers.String("Capitals"),
		Type:  pointers.String(types.ItemTypeQuiz),
		Quiz: QuizFieldsInput{
			Subtype:    pointers.String(subtype),
			Question:   pointers.String(" Capital of France? "),
			Options:    options,
			OptionsSet: options != nil,
			Answer:     pointers.String(answer),
		},
	}
}

func TestTopicLifecycle(t *testing.T) {
	e := newEnv(t)
	teacher, student := e.teacher(t), e.student(t)
	class := e.classroom(t, teacher, student)

	_, err := e.catalog.CreateTopic(e.ctx, student, class.ID, TopicInput{Title: pointers.String("x")})
	requireAPIError(t, err, apierr.CodeForbidden, "Only teachers can create topics")

	_, err = e.catalog.CreateTopic(e.ctx, teacher, uuid.New(), TopicInput{Title: pointers.String("x")})
	requireAPIError(t, err, apierr.CodeNotFound, "Class not found")

	_, err = e.catalog.CreateTopic(e.ctx, teacher, class.ID, TopicInput{})
	requireAPIError(t, err, apierr.CodeValidation, "Topic title is required")

	topic, err := e.catalog.CreateTopic(e.ctx, teacher, class.ID, TopicInput{
		Title:    pointers.String("Loops"),
		Concepts: []string{"for", " ", "while"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"for", "while"}, []string(topic.Concepts))

	updated, err := e.catalog.UpdateTopic(e.ctx, teacher, class.ID, topic.ID, TopicInput{Title: pointers.String("")})
	require.NoError(t, err)
	require.Equal(t, "Loops", updated.Title)
	require.Equal(t, []string{"for", "while"}, []string(updated.Concepts))

	updated, err = e.catalog.UpdateTopic(e.ctx, teacher, class.ID, topic.ID, TopicInput{
		Title:       pointers.String("Iteration"),
		ConceptsSet: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Iteration", updated.Title)
	require.Empty(t, updated.Concepts)

	_, err = e.catalog.UpdateTopic(e.ctx, teacher, class.ID, uuid.New(), TopicInput{})
	requireAPIError(t, err, apierr.CodeNotFound, "Topic not found")
}

func TestTopicFromAnotherClassIsNotFound(t *testing.T) {
	e := newEnv(t)
	teacher := e.teacher(t)
	a := e.classroom(t, teacher)
	b := e.classroom(t, teacher)
	topic := testutil.SeedTopic(t, e.ctx, e.db, a.ID, teacher.AccountID, "A")

	_, err := e.catalog.UpdateTopic(e.ctx, teacher, b.ID, topic.ID, TopicInput{Title: pointers.String("moved")})
	requireAPIError(t, err, apierr.CodeNotFound, "Topic not found")

	_, err = e.catalog.CreateItem(e.ctx, teacher, b.ID, topic.ID, ItemInput{
		Title: pointers.String("x"),
		Type:  pointers.String(types.ItemTypeLearning),
	})
	requireAPIError(t, err, apierr.CodeNotFound, "Topic not found")
}

func TestListTopicsOrdersAndNormalizes(t *testing.T) {
	e := newEnv(t)
	teacher, student, outsider := e.teacher(t), e.student(t), e.student(t)
	class := e.classroom(t, teacher, student)

	older, err := e.catalog.CreateTopic(e.ctx, teacher, class.ID, TopicInput{Title: pointers.String("Older")})
	require.NoError(t, err)
	newer, err := e.catalog.CreateTopic(e.ctx, teacher, class.ID, TopicInput{Title: pointers.String("Newer")})
	require.NoError(t, err)
	// Distinct timestamps regardless of clock resolution.
	require.NoError(t, e.db.Model(older).Update("created_at", older.CreatedAt.Add(-time.Second)).Error)

	first, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, older.ID, ItemInput{
		Title: pointers.String("Read"),
		Type:  pointers.String(types.ItemTypeLearning),
	})
	require.NoError(t, err)
	second, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, older.ID, quizInput(types.QuizSubtypeMCQ, []any{"Paris", "Rome"}, "Paris"))
	require.NoError(t, err)
	require.NoError(t, e.db.Model(first).Update("created_at", first.CreatedAt.Add(-time.Second)).Error)

	_, err = e.catalog.ListTopics(e.ctx, outsider, class.ID)
	requireAPIError(t, err, apierr.CodeForbidden, "Forbidden")

	topics, err := e.catalog.ListTopics(e.ctx, student, class.ID)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	require.Equal(t, newer.ID, topics[0].ID)
	require.Empty(t, topics[0].Items)
	require.NotNil(t, topics[0].Items)
	require.Equal(t, older.ID, topics[1].ID)
	require.Len(t, topics[1].Items, 2)
	require.Equal(t, first.ID, topics[1].Items[0].ID)
	require.Nil(t, topics[1].Items[0].QuizSubtype)
	require.NotNil(t, topics[1].Items[0].QuizOptions)
	require.Equal(t, second.ID, topics[1].Items[1].ID)
	require.Equal(t, types.QuizSubtypeMCQ, *topics[1].Items[1].QuizSubtype)
}

func TestListTopicsHidesAnswerFromStudents(t *testing.T) {
	e := newEnv(t)
	teacher, student := e.teacher(t), e.student(t)
	class := e.classroom(t, teacher, student)
	topic := testutil.SeedTopic(t, e.ctx, e.db, class.ID, teacher.AccountID, "Geography")
	_, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput(types.QuizSubtypeMCQ, []any{"Paris", "Rome"}, "Paris"))
	require.NoError(t, err)

	topics, err := e.catalog.ListTopics(e.ctx, student, class.ID)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Len(t, topics[0].Items, 1)
	require.Empty(t, topics[0].Items[0].QuizAnswer)
	require.Equal(t, []string{"Paris", "Rome"}, []string(topics[0].Items[0].QuizOptions))
	raw, err := json.Marshal(topics)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"quizAnswer":""`)

	topics, err = e.catalog.ListTopics(e.ctx, teacher, class.ID)
	require.NoError(t, err)
	require.Equal(t, "Paris", topics[0].Items[0].QuizAnswer)

	attempt, err := e.quiz.Submit(e.ctx, student, class.ID, topics[0].Items[0].ID, "Paris")
	require.NoError(t, err)
	require.Equal(t, types.GradingAutoGraded, attempt.GradingStatus)
	require.True(t, *attempt.IsCorrect)
}

func TestCreateItemValidation(t *testing.T) {
	e := newEnv(t)
	teacher, student := e.teacher(t), e.student(t)
	class := e.classroom(t, teacher, student)
	topic := testutil.SeedTopic(t, e.ctx, e.db, class.ID, teacher.AccountID, "T")

	_, err := e.catalog.CreateItem(e.ctx, student, class.ID, topic.ID, ItemInput{})
	requireAPIError(t, err, apierr.CodeForbidden, "Only teachers can add topic items")

	_, err = e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, ItemInput{Title: pointers.String("x")})
	requireAPIError(t, err, apierr.CodeValidation, "Title and type are required")

	_, err = e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, ItemInput{
		Title: pointers.String("x"),
		Type:  pointers.String("video"),
	})
	requireAPIError(t, err, apierr.CodeValidation, "Invalid type")

	_, err = e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput("essay", nil, ""))
	requireAPIError(t, err, apierr.CodeValidation, "Invalid quiz subtype")

	_, err = e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput(types.QuizSubtypeMCQ, []any{"Paris", "  "}, ""))
	requireAPIError(t, err, apierr.CodeValidation, "Multiple choice quizzes need at least two options")

	_, err = e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput(types.QuizSubtypeMCQ, []any{"Paris", "Rome"}, "Berlin"))
	requireAPIError(t, err, apierr.CodeValidation, "Quiz answer must match one of the options")

	item, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput(types.QuizSubtypeMCQ, []any{" Paris ", 42, nil, "Paris"}, " Paris "))
	require.NoError(t, err)
	require.Equal(t, []string{"Paris", "42", "Paris"}, []string(item.QuizOptions))
	require.Equal(t, "Paris", item.QuizAnswer)
	require.Equal(t, "Capital of France?", item.QuizQuestion)

	short, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, quizInput(types.QuizSubtypeShortAnswer, []any{"ignored"}, ""))
	require.NoError(t, err)
	require.Empty(t, short.QuizOptions)
	require.Equal(t, types.QuizSubtypeShortAnswer, *short.QuizSubtype)

	practice, err := e.catalog.CreateItem(e.ctx, teacher, class.ID, topic.ID, ItemInput{
		Title: pointers.String("Practice"),
		Type:  pointers.String(types.ItemTypePractice),
		Quiz:  QuizFieldsInput{Question: pointers.String("stale"), Options: []any{"a"}, OptionsSet: true},
	})
	require.NoError(t, err)
	require.Nil(t, practice.QuizSubtype)
	require.Empty(t, practice.QuizQuestion)
	require.Empty(t, practice.QuizOptions)
}

func TestUpdateItemRetypeResetsQuizFields(t *testing.T) {
	e := newEnv(t)
	teacher := e.teacher(t)
	class := e.classroom(t, teacher)
	item := e.quizItem(t, class, teacher, types.QuizSubtypeMCQ, []string{"Paris", "Rome"}, "Paris")

	updated, err := e.catalog.UpdateItem(e.ctx, teacher, class.ID, item.TopicID, item.ID, ItemInput{
		Title: pointers.String("Renamed"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, []string{"Paris", "Rome"}, []string(updated.QuizOptions))
	require.Equal(t, "Paris", updated.QuizAnswer)

	updated, err = e.catalog.UpdateItem(e.ctx, teacher, class.ID, item.TopicID, item.ID, ItemInput{
		Type: pointers.String(types.ItemTypeLearning),
	})
	require.NoError(t, err)
	require.Equal(t, types.ItemTypeLearning, updated.Type)
	require.Nil(t, updated.QuizSubtype)
	require.Empty(t, updated.QuizOptions)
	require.Empty(t, updated.QuizAnswer)

	stored, err := e.items.GetInClass(dbctx.New(e.ctx), class.ID, item.ID)
	require.NoError(t, err)
	require.Empty(t, stored.QuizAnswer)
	require.Nil(t, stored.QuizSubtype)

	_, err = e.catalog.UpdateItem(e.ctx, teacher, class.ID, uuid.New(), item.ID, ItemInput{})
	requireAPIError(t, err, apierr.CodeNotFound, "Item not found")

	_, err = e.catalog.UpdateItem(e.ctx, teacher, class.ID, item.TopicID, item.ID, ItemInput{Type: pointers.String("video")})
	requireAPIError(t, err, apierr.CodeValidation, "Invalid type")
}

func TestDeleteTopicCascadesAttempts(t *testing.T) {
	e := newEnv(t)
	teacher, student := e.teacher(t), e.student(t)
	class := e.classroom(t, teacher, student)
	item := e.quizItem(t, class, teacher, types.QuizSubtypeShortAnswer, nil, "")
	attempt, err := e.quiz.Submit(e.ctx, student, class.ID, item.ID, "an answer")
	require.NoError(t, err)

	err = e.catalog.DeleteTopic(e.ctx, student, class.ID, item.TopicID)
	requireAPIError(t, err, apierr.CodeForbidden, "Only teachers can delete topics")

	require.NoError(t, e.catalog.DeleteTopic(e.ctx, teacher, class.ID, item.TopicID))

	dbc := dbctx.New(e.ctx)
	got, err := e.attempts.GetInClass(dbc, class.ID, attempt.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	it, err := e.items.GetInClass(dbc, class.ID, item.ID)
	require.NoError(t, err)
	require.Nil(t, it)

	_, err = e.quiz.Grade(e.ctx, teacher, class.ID, GradeInput{
		StudentID: student.AccountID,
		AttemptID: attempt.ID,
		IsCorrect: pointers.Bool(true),
	})
	requireAPIError(t, err, apierr.CodeNotFound, "Quiz attempt not found")
}

func TestDeleteItemCascadesAttempts(t *testing.T) {
	e := newEnv(t)
	teacher, student := e.teacher(t), e.student(t)
	class := e.classroom(t, teacher, student)
	item := e.quizItem(t, class, teacher, types.QuizSubtypeMCQ, []string{"A", "B"}, "")
	keep := testutil.SeedItem(t, e.ctx, e.db, &types.Topic{ID: item.TopicID, ClassID: class.ID}, types.ItemTypeLearning, "Keep")
	attempt, err := e.quiz.Submit(e.ctx, student, class.ID, item.ID, "A")
	require.NoError(t, err)

	err = e.catalog.DeleteItem(e.ctx, student, class.ID, item.TopicID, item.ID)
	requireAPIError(t, err, apierr.CodeForbidden, "Only teachers can delete items")

	require.NoError(t, e.catalog.DeleteItem(e.ctx, teacher, class.ID, item.TopicID, item.ID))

	dbc := dbctx.New(e.ctx)
	got, err := e.attempts.GetInClass(dbc, class.ID, attempt.ID)
	require.NoError(t, err)
	require.Nil(t, got)
	kept, err := e.items.GetInClass(dbc, class.ID, keep.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	err = e.catalog.DeleteItem(e.ctx, teacher, class.ID, item.TopicID, item.ID)
	requireAPIError(t, err, apierr.CodeNotFound, "Item not found")
}

func TestGetPracticeItem(t *testing.T) {
	e := newEnv(t)
	teacher, student, outsider := e.teacher(t), e.student(t), e.student(t)
	class := e.classroom(t, teacher, student)
	topic := testutil.SeedTopic(t, e.ctx, e.db, class.ID, teacher.AccountID, "Functions")
	practice := testutil.SeedItem(t, e.ctx, e.db, topic, types.ItemTypePractice, "Write a function")
	learning := testutil.SeedItem(t, e.ctx, e.db, topic, types.ItemTypeLearning, "Read")

	view, err := e.catalog.GetPracticeItem(e.ctx, student, class.ID, practice.ID)
	require.NoError(t, err)
	require.Equal(t, practice.ID, view.ID)
	require.Equal(t, types.ItemTypePractice, view.Type)
	require.Equal(t, TopicRef{ID: topic.ID, Title: "Functions"}, view.Topic)

	_, err = e.catalog.GetPracticeItem(e.ctx, student, class.ID, learning.ID)
	requireAPIError(t, err, apierr.CodeInvalidType, "Not a practice item")

	_, err = e.catalog.GetPracticeItem(e.ctx, outsider, class.ID, practice.ID)
	requireAPIError(t, err, apierr.CodeForbidden, "Forbidden")

	_, err = e.catalog.GetPracticeItem(e.ctx, student, class.ID, uuid.New())
	requireAPIError(t, err, apierr.CodeNotFound, "Item not found")
}
