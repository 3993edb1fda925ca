package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/employeedocs/pkg/logger"
	"gorm.io/gorm"
)

// AutoMigrate 迁移业务表与额外传入的表（如 outbox）
func AutoMigrate(ctx context.Context, db *gorm.DB, extra ...any) error {
	models := append(Models(), extra...)
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info(ctx, "Database schema migrated", "tables", len(models))
	return nil
}
