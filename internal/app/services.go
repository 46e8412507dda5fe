package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/data/cache"
	"github.com/yungbote/classroom-backend/internal/observability"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Class    services.ClassService
	Catalog  services.CatalogService
	Quiz     services.QuizService
	Lesson   services.LessonService
	Progress services.ProgressService
	Report   services.ReportService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, sessions cache.SessionCache, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(db, log, r.Account, r.Session, sessions, metrics, services.AuthConfig{
			JWTSecret:  cfg.JWTSecret,
			AccessTTL:  cfg.AccessTokenTTL,
			BcryptCost: cfg.BcryptCost,
		}),
		Class:    services.NewClassService(db, log, r.Class, r.Membership, r.Account, r.Topic, r.TopicItem, r.Lesson, r.Attempt, r.Progress, metrics),
		Catalog:  services.NewCatalogService(db, log, r.Class, r.Membership, r.Topic, r.TopicItem, r.Attempt),
		Quiz:     services.NewQuizService(log, r.Class, r.Membership, r.Topic, r.TopicItem, r.Attempt, metrics),
		Lesson:   services.NewLessonService(db, log, r.Class, r.Membership, r.Lesson, r.Progress),
		Progress: services.NewProgressService(log, r.Class, r.Membership, r.Lesson, r.Progress, metrics),
		Report:   services.NewReportService(log, r.Class, r.Membership, r.Account, r.Lesson, r.Progress, r.Attempt, r.TopicItem, r.Topic),
	}
}
