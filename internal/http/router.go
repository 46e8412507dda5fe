package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	DB          httpMW.DBChecker

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	ClassHandler    *httpH.ClassHandler
	TopicHandler    *httpH.TopicHandler
	QuizHandler     *httpH.QuizHandler
	LessonHandler   *httpH.LessonHandler
	ProgressHandler *httpH.ProgressHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	if cfg.HealthHandler != nil {
		v1.GET("/health", cfg.HealthHandler.Health)
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}
	// The DB guard runs ahead of auth since token checks read the session table.
	ensureDB := httpMW.EnsureDB(cfg.DB)
	ids := httpMW.ValidIDs

	// Auth
	if cfg.AuthHandler != nil {
		auth := v1.Group("/auth")
		auth.POST("/signup", ensureDB, cfg.AuthHandler.Signup)
		auth.POST("/login", ensureDB, cfg.AuthHandler.Login)
		auth.GET("/me", ensureDB, requireAuth, cfg.AuthHandler.Me)
		auth.POST("/logout", ensureDB, requireAuth, cfg.AuthHandler.Logout)
	}

	// Classes
	classes := v1.Group("/classes", ensureDB, requireAuth)
	if h := cfg.ClassHandler; h != nil {
		classes.GET("", h.List)
		classes.POST("", h.Create)
		classes.POST("/join", h.Join)
		classes.GET("/:id", ids("id"), h.Get)
		classes.DELETE("/:id", ids("id"), h.Delete)
		classes.GET("/:id/students", ids("id"), h.ListStudents)
		classes.GET("/:id/students/:studentId/progress", ids("id", "studentId"), h.StudentProgress)
	}
	if h := cfg.TopicHandler; h != nil {
		classes.GET("/:id/topics", ids("id"), h.ListTopics)
		classes.POST("/:id/topics", ids("id"), h.CreateTopic)
		classes.PUT("/:id/topics/:topicId", ids("id", "topicId"), h.UpdateTopic)
		classes.DELETE("/:id/topics/:topicId", ids("id", "topicId"), h.DeleteTopic)
		classes.POST("/:id/topics/:topicId/items", ids("id", "topicId"), h.CreateItem)
		classes.PUT("/:id/topics/:topicId/items/:itemId", ids("id", "topicId", "itemId"), h.UpdateItem)
		classes.DELETE("/:id/topics/:topicId/items/:itemId", ids("id", "topicId", "itemId"), h.DeleteItem)
		classes.GET("/:id/practice/:itemId", ids("id", "itemId"), h.GetPractice)
	}
	if h := cfg.QuizHandler; h != nil {
		classes.GET("/:id/quiz/:itemId", ids("id", "itemId"), h.Get)
		classes.PUT("/:id/quiz/:itemId/attempt", ids("id", "itemId"), h.Submit)
		classes.PUT("/:id/students/:studentId/quiz-attempts/:attemptId/grade", ids("id", "studentId", "attemptId"), h.Grade)
	}

	// Lessons
	if h := cfg.LessonHandler; h != nil {
		lessons := v1.Group("/lessons", ensureDB, requireAuth)
		lessons.GET("", h.List)
		lessons.POST("", h.Create)
		lessons.GET("/:id", ids("id"), h.Get)
		lessons.PUT("/:id", ids("id"), h.Update)
		lessons.DELETE("/:id", ids("id"), h.Delete)
	}

	// Progress
	if h := cfg.ProgressHandler; h != nil {
		progress := v1.Group("/progress", ensureDB, requireAuth)
		progress.GET("", h.List)
		progress.GET("/:lessonId", ids("lessonId"), h.Get)
		progress.PUT("/:lessonId", ids("lessonId"), h.Upsert)
	}

	return r
}
