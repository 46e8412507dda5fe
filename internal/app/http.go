package app

import (
	"github.com/gin-gonic/gin"

	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/http"
	httpH "github.com/yungbote/classroom-backend/internal/http/handlers"
	httpMW "github.com/yungbote/classroom-backend/internal/http/middleware"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Class    *httpH.ClassHandler
	Topic    *httpH.TopicHandler
	Quiz     *httpH.QuizHandler
	Lesson   *httpH.LessonHandler
	Progress *httpH.ProgressHandler
}

func wireHandlers(log *logger.Logger, services Services, prober *dbpkg.Prober) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(prober),
		Auth:     httpH.NewAuthHandler(log, services.Auth),
		Class:    httpH.NewClassHandler(log, services.Class, services.Report),
		Topic:    httpH.NewTopicHandler(log, services.Catalog),
		Quiz:     httpH.NewQuizHandler(log, services.Quiz),
		Lesson:   httpH.NewLessonHandler(log, services.Lesson),
		Progress: httpH.NewProgressHandler(log, services.Progress),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, prober *dbpkg.Prober, metrics *observability.Metrics) *gin.Engine {
	routerCfg := http.RouterConfig{
		Log:             log,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		DB:              prober,
		AuthMiddleware:  middleware.Auth,
		AuthHandler:     handlers.Auth,
		ClassHandler:    handlers.Class,
		TopicHandler:    handlers.Topic,
		QuizHandler:     handlers.Quiz,
		LessonHandler:   handlers.Lesson,
		ProgressHandler: handlers.Progress,
		HealthHandler:   handlers.Health,
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(routerCfg)
}
