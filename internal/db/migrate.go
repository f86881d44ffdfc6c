package db

import (
	"fmt"

	"github.com/ParallelMatter/Pillo-sub000/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == DriverPostgres {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Warn("failed to enable uuid-ossp", zap.Error(err))
		}
	}

	if err := db.AutoMigrate(&models.User{}, &models.Supplement{}, &models.ScheduleSlot{}, &models.IntakeLog{}); err != nil {
		log.Error("Ошибка при миграции таблиц", zap.Error(err))
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Info("Автомиграция таблиц завершена успешно")
	return nil
}
