package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/data/repos"
	"github.com/yungbote/classroom-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/platform/validate"
	"github.com/yungbote/classroom-backend/internal/services"
)

type apiBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type testAPI struct {
	t *testing.T
	r *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate.Init()

	db := testutil.DB(t)
	log := testutil.Logger(t)
	accounts := repos.NewAccountRepo(db, log)
	sessions := repos.NewSessionRepo(db, log)
	classes := repos.NewClassRepo(db, log)
	members := repos.NewMembershipRepo(db, log)
	topics := repos.NewTopicRepo(db, log)
	items := repos.NewTopicItemRepo(db, log)
	lessons := repos.NewLessonRepo(db, log)
	attempts := repos.NewQuizAttemptRepo(db, log)
	progress := repos.NewLessonProgressRepo(db, log)

	authSvc := services.NewAuthService(db, log, accounts, sessions, nil, nil, services.AuthConfig{JWTSecret: "router-test", BcryptCost: 4})
	classSvc := services.NewClassService(db, log, classes, members, accounts, topics, items, lessons, attempts, progress, nil)
	catalogSvc := services.NewCatalogService(db, log, classes, members, topics, items, attempts)
	quizSvc := services.NewQuizService(log, classes, members, topics, items, attempts, nil)
	lessonSvc := services.NewLessonService(db, log, classes, members, lessons, progress)
	progressSvc := services.NewProgressService(log, classes, members, lessons, progress, nil)
	reportSvc := services.NewReportService(log, classes, members, accounts, lessons, progress, attempts, items, topics)
	prober := dbpkg.NewProber(db, time.Minute, time.Second)

	r := NewRouter(RouterConfig{
		Log:             log,
		DB:              prober,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authSvc),
		AuthHandler:     httpH.NewAuthHandler(log, authSvc),
		ClassHandler:    httpH.NewClassHandler(log, classSvc, reportSvc),
		TopicHandler:    httpH.NewTopicHandler(log, catalogSvc),
		QuizHandler:     httpH.NewQuizHandler(log, quizSvc),
		LessonHandler:   httpH.NewLessonHandler(log, lessonSvc),
		ProgressHandler: httpH.NewProgressHandler(log, progressSvc),
		HealthHandler:   httpH.NewHealthHandler(prober),
	})
	return &testAPI{t: t, r: r}
}

func (a *testAPI) do(method, path, token string, body any) (int, apiBody) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.r.ServeHTTP(rec, req)
	var out apiBody
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func (a *testAPI) ok(method, path, token string, body any, wantStatus int, dst any) {
	a.t.Helper()
	status, out := a.do(method, path, token, body)
	require.Equal(a.t, wantStatus, status, "%s %s: %s", method, path, string(out.Data))
	require.True(a.t, out.Success)
	if dst != nil {
		require.NoError(a.t, json.Unmarshal(out.Data, dst))
	}
}

func (a *testAPI) fail(method, path, token string, body any, wantStatus int, wantCode string) string {
	a.t.Helper()
	status, out := a.do(method, path, token, body)
	require.Equal(a.t, wantStatus, status, "%s %s", method, path)
	require.False(a.t, out.Success)
	require.NotNil(a.t, out.Error)
	require.Equal(a.t, wantCode, out.Error.Code)
	return out.Error.Message
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
		Role string    `json:"role"`
	} `json:"user"`
}

func (a *testAPI) signup(name, role string) authData {
	a.t.Helper()
	var out authData
	a.ok(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": name, "password": "pw-" + name, "role": role}, http.StatusCreated, &out)
	require.NotEmpty(a.t, out.Token)
	return out
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	var out struct {
		Status string `json:"status"`
		DB     string `json:"db"`
	}
	api.ok(http.MethodGet, "/api/v1/health", "", nil, http.StatusOK, &out)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "connected", out.DB)
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.signup("ada", "teacher")
	assert.Equal(t, "teacher", teacher.User.Role)

	api.fail(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "ada", "password": "x", "role": "teacher"}, http.StatusConflict, "USER_EXISTS")
	api.fail(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "bob"}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "bob", "password": "x", "role": "admin"}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPost, "/api/v1/auth/login", "", gin.H{"name": "ada", "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	api.fail(http.MethodPost, "/api/v1/auth/login", "", gin.H{"name": "nobody", "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	var login authData
	api.ok(http.MethodPost, "/api/v1/auth/login", "", gin.H{"name": "ada", "password": "pw-ada"}, http.StatusOK, &login)
	assert.Equal(t, teacher.User.ID, login.User.ID)

	var me struct {
		User struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		} `json:"user"`
	}
	api.ok(http.MethodGet, "/api/v1/auth/me", login.Token, nil, http.StatusOK, &me)
	assert.Equal(t, teacher.User.ID, me.User.ID)

	assert.Equal(t, "Unauthorized", api.fail(http.MethodGet, "/api/v1/auth/me", "", nil, http.StatusUnauthorized, "UNAUTHORIZED"))
	assert.Equal(t, "Invalid token", api.fail(http.MethodGet, "/api/v1/auth/me", "garbage", nil, http.StatusUnauthorized, "INVALID_TOKEN"))

	api.ok(http.MethodPost, "/api/v1/auth/logout", login.Token, nil, http.StatusOK, nil)
	api.fail(http.MethodGet, "/api/v1/auth/me", login.Token, nil, http.StatusUnauthorized, "INVALID_TOKEN")
	// Other sessions survive.
	api.ok(http.MethodGet, "/api/v1/auth/me", teacher.Token, nil, http.StatusOK, nil)
}

func TestMalformedBodyIsValidationError(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

type classData struct {
	Classroom struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		JoinCode string    `json:"joinCode"`
	} `json:"classroom"`
}

type attemptData struct {
	Attempt struct {
		ID            uuid.UUID `json:"id"`
		GradingStatus string    `json:"gradingStatus"`
		Status        string    `json:"status"`
		IsCorrect     *bool     `json:"isCorrect"`
		Score         *float64  `json:"score"`
		Feedback      string    `json:"feedback"`
		Attempts      int       `json:"attempts"`
	} `json:"attempt"`
}

func TestClassroomQuizFlow(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.signup("tess", "teacher")
	student := api.signup("stu", "student")
	outsider := api.signup("otto", "student")

	api.fail(http.MethodPost, "/api/v1/classes", student.Token, gin.H{"name": "Nope"}, http.StatusForbidden, "FORBIDDEN")

	var class classData
	api.ok(http.MethodPost, "/api/v1/classes", teacher.Token, gin.H{"name": "Algebra"}, http.StatusCreated, &class)
	require.Len(t, class.Classroom.JoinCode, 6)
	classPath := "/api/v1/classes/" + class.Classroom.ID.String()

	var joined classData
	api.ok(http.MethodPost, "/api/v1/classes/join", student.Token, gin.H{"joinCode": " " + class.Classroom.JoinCode + " "}, http.StatusCreated, &joined)
	assert.Equal(t, class.Classroom.ID, joined.Classroom.ID)
	api.ok(http.MethodPost, "/api/v1/classes/join", student.Token, gin.H{"joinCode": class.Classroom.JoinCode}, http.StatusOK, nil)
	api.fail(http.MethodPost, "/api/v1/classes/join", student.Token, gin.H{"joinCode": "ZZZZZZ"}, http.StatusNotFound, "NOT_FOUND")

	var students struct {
		Students []struct {
			ID   uuid.UUID `json:"id"`
			Name string    `json:"name"`
		} `json:"students"`
	}
	api.ok(http.MethodGet, classPath+"/students", teacher.Token, nil, http.StatusOK, &students)
	require.Len(t, students.Students, 1)
	assert.Equal(t, student.User.ID, students.Students[0].ID)

	api.fail(http.MethodGet, classPath, outsider.Token, nil, http.StatusForbidden, "FORBIDDEN")
	api.fail(http.MethodGet, "/api/v1/classes/not-a-uuid", teacher.Token, nil, http.StatusBadRequest, "INVALID_ID")
	api.fail(http.MethodGet, "/api/v1/classes/"+uuid.NewString(), teacher.Token, nil, http.StatusNotFound, "NOT_FOUND")

	var topic struct {
		Topic struct {
			ID uuid.UUID `json:"id"`
		} `json:"topic"`
	}
	api.ok(http.MethodPost, classPath+"/topics", teacher.Token, gin.H{"title": "Geography", "concepts": []any{"capitals", 3}}, http.StatusCreated, &topic)
	topicPath := classPath + "/topics/" + topic.Topic.ID.String()

	api.fail(http.MethodPost, topicPath+"/items", teacher.Token, gin.H{
		"title": "Bad", "type": "quiz", "quizSubtype": "mcq", "quizOptions": []any{"only"},
	}, http.StatusBadRequest, "VALIDATION_ERROR")

	var item struct {
		Item struct {
			ID          uuid.UUID `json:"id"`
			QuizOptions []string  `json:"quizOptions"`
		} `json:"item"`
	}
	api.ok(http.MethodPost, topicPath+"/items", teacher.Token, gin.H{
		"title": "Capital of France", "type": "quiz", "quizSubtype": "mcq",
		"quizQuestion": "Which city?", "quizOptions": []any{"Paris", "Lyon", 42}, "quizAnswer": "Paris",
	}, http.StatusCreated, &item)
	assert.Equal(t, []string{"Paris", "Lyon", "42"}, item.Item.QuizOptions)
	quizPath := classPath + "/quiz/" + item.Item.ID.String()

	status, body := api.do(http.MethodGet, quizPath, student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body.Data), "quizAnswer")
	assert.Contains(t, string(body.Data), `"attempt":null`)

	api.fail(http.MethodPut, quizPath+"/attempt", student.Token, gin.H{"responseText": "Rome"}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPut, quizPath+"/attempt", student.Token, gin.H{}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPut, quizPath+"/attempt", teacher.Token, gin.H{"responseText": "Paris"}, http.StatusForbidden, "FORBIDDEN")

	var attempt attemptData
	api.ok(http.MethodPut, quizPath+"/attempt", student.Token, gin.H{"responseText": "Lyon"}, http.StatusOK, &attempt)
	assert.Equal(t, "auto_graded", attempt.Attempt.GradingStatus)
	require.NotNil(t, attempt.Attempt.IsCorrect)
	assert.False(t, *attempt.Attempt.IsCorrect)
	assert.Equal(t, 1, attempt.Attempt.Attempts)

	gradePath := classPath + "/students/" + student.User.ID.String() + "/quiz-attempts/" + attempt.Attempt.ID.String() + "/grade"
	api.fail(http.MethodPut, gradePath, teacher.Token, gin.H{"isCorrect": "yes"}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPut, gradePath, student.Token, gin.H{"isCorrect": true}, http.StatusForbidden, "FORBIDDEN")

	var graded attemptData
	api.ok(http.MethodPut, gradePath, teacher.Token, gin.H{"isCorrect": true, "score": "0.5", "feedback": " close enough "}, http.StatusOK, &graded)
	assert.Equal(t, "manual_graded", graded.Attempt.GradingStatus)
	require.NotNil(t, graded.Attempt.Score)
	assert.Equal(t, 1.0, *graded.Attempt.Score)
	assert.Equal(t, "close enough", graded.Attempt.Feedback)

	var report struct {
		Student struct {
			Name string `json:"name"`
		} `json:"student"`
		QuizAttempts []struct {
			ItemTitle  string `json:"itemTitle"`
			TopicTitle string `json:"topicTitle"`
		} `json:"quizAttempts"`
	}
	api.ok(http.MethodGet, classPath+"/students/"+student.User.ID.String()+"/progress", teacher.Token, nil, http.StatusOK, &report)
	assert.Equal(t, "stu", report.Student.Name)
	require.Len(t, report.QuizAttempts, 1)
	assert.Equal(t, "Capital of France", report.QuizAttempts[0].ItemTitle)
	assert.Equal(t, "Geography", report.QuizAttempts[0].TopicTitle)

	api.fail(http.MethodGet, classPath+"/practice/"+item.Item.ID.String(), student.Token, nil, http.StatusBadRequest, "INVALID_TYPE")

	api.ok(http.MethodDelete, classPath, teacher.Token, nil, http.StatusOK, nil)
	api.fail(http.MethodGet, classPath, teacher.Token, nil, http.StatusNotFound, "NOT_FOUND")
}

func TestLessonAndProgressEndpoints(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.signup("tina", "teacher")
	student := api.signup("sid", "student")

	var class classData
	api.ok(http.MethodPost, "/api/v1/classes", teacher.Token, gin.H{"name": "Go 101"}, http.StatusCreated, &class)
	api.ok(http.MethodPost, "/api/v1/classes/join", student.Token, gin.H{"joinCode": class.Classroom.JoinCode}, http.StatusCreated, nil)

	lessonBody := gin.H{
		"classId": class.Classroom.ID, "unit": "1", "heading": "Hello", "duration": "5m",
		"body": "Print hello", "instructions": "Use fmt", "question": "What prints?",
		"hints": []any{"fmt.Println", 7},
	}
	api.fail(http.MethodPost, "/api/v1/lessons", student.Token, lessonBody, http.StatusForbidden, "FORBIDDEN")
	msg := api.fail(http.MethodPost, "/api/v1/lessons", teacher.Token, gin.H{"classId": class.Classroom.ID, "unit": "1"}, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Equal(t, "heading is required", msg)

	var lesson struct {
		Lesson struct {
			ID    uuid.UUID `json:"id"`
			Hints []string  `json:"hints"`
		} `json:"lesson"`
	}
	api.ok(http.MethodPost, "/api/v1/lessons", teacher.Token, lessonBody, http.StatusCreated, &lesson)
	assert.Equal(t, []string{"fmt.Println"}, lesson.Lesson.Hints)

	assert.Equal(t, "classId is required", api.fail(http.MethodGet, "/api/v1/lessons", student.Token, nil, http.StatusBadRequest, "VALIDATION_ERROR"))
	var list struct {
		Lessons []json.RawMessage `json:"lessons"`
	}
	api.ok(http.MethodGet, "/api/v1/lessons?classId="+class.Classroom.ID.String(), student.Token, nil, http.StatusOK, &list)
	assert.Len(t, list.Lessons, 1)

	progressPath := "/api/v1/progress/" + lesson.Lesson.ID.String()
	status, body := api.do(http.MethodGet, progressPath, student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"progress":null}`, string(body.Data))

	api.fail(http.MethodPut, progressPath, student.Token, gin.H{"status": "done"}, http.StatusBadRequest, "VALIDATION_ERROR")

	var progress struct {
		Progress struct {
			Status      string     `json:"status"`
			Attempts    int        `json:"attempts"`
			LastCode    string     `json:"lastCode"`
			CompletedAt *time.Time `json:"completedAt"`
		} `json:"progress"`
	}
	api.ok(http.MethodPut, progressPath, student.Token, gin.H{"status": "in_progress", "lastCode": "x := 1", "attempts": "3"}, http.StatusOK, &progress)
	assert.Equal(t, "in_progress", progress.Progress.Status)
	assert.Equal(t, 0, progress.Progress.Attempts)

	api.fail(http.MethodPut, progressPath, student.Token, gin.H{"attempts": 1.5}, http.StatusBadRequest, "VALIDATION_ERROR")
	api.fail(http.MethodPut, progressPath, student.Token, gin.H{"attempts": -1}, http.StatusBadRequest, "VALIDATION_ERROR")

	api.ok(http.MethodPut, progressPath, student.Token, gin.H{"status": "completed", "attempts": 2}, http.StatusOK, &progress)
	assert.Equal(t, "completed", progress.Progress.Status)
	assert.Equal(t, 2, progress.Progress.Attempts)
	assert.Equal(t, "x := 1", progress.Progress.LastCode)
	assert.NotNil(t, progress.Progress.CompletedAt)

	var all struct {
		Progress []json.RawMessage `json:"progress"`
	}
	api.ok(http.MethodGet, "/api/v1/progress", student.Token, nil, http.StatusOK, &all)
	assert.Len(t, all.Progress, 1)

	api.ok(http.MethodDelete, "/api/v1/lessons/"+lesson.Lesson.ID.String(), teacher.Token, nil, http.StatusOK, nil)
	api.fail(http.MethodPut, progressPath, student.Token, gin.H{"status": "completed"}, http.StatusNotFound, "NOT_FOUND")
}
