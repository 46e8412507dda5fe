package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/classroom-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureReportIndexes adds the descending index used by the student report
// query. Postgres only; sqlite gets the ascending composite from the model tags.
func EnsureReportIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_quiz_attempt_report
		ON quiz_attempt (class_id, student_id, updated_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_quiz_attempt_report: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_class_updated
		ON lesson (class_id, updated_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_class_updated: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if s.driver == DriverPostgres {
		if err := EnsureReportIndexes(s.db); err != nil {
			s.log.Error("Report index migration failed", "error", err)
			return err
		}
	}
	return nil
}
