// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/rhinogeeks/coursedesk/internal/app/system/indexes"
	"go.uber.org/zap"
)

// EnsureSchema creates indexes on the primary database. Remote
// learning-platform indexes are ensured lazily on first use,
// since that cluster may be unreachable at startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	logger.Info("database indexes ensured")
	return nil
}
