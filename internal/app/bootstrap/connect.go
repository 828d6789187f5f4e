// internal/app/bootstrap/connect.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/rhinogeeks/coursedesk/internal/app/store/remoteusers"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the primary MongoDB connection and prepares the
// optional remote learning-platform connection.
//
// The primary connection is dialed and pinged here; a failure aborts
// startup. The remote connection is only constructed (URI validated, no
// dial) because the learning-platform cluster may be unreachable when
// CourseDesk starts, and registrations must keep working without it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetServerSelectionTimeout(timeouts.Short())

	dialCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	if appCfg.RemoteMongoURI != "" {
		remote, err := remoteusers.NewConn(appCfg.RemoteMongoURI, appCfg.RemoteMongoDatabase, logger)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("remote MongoDB config: %w", err)
		}
		deps.Remote = remote
		logger.Info("learner provisioning enabled",
			zap.String("remote_database", appCfg.RemoteMongoDatabase))
	} else {
		logger.Info("learner provisioning disabled (remote_mongo_uri not set)")
	}

	return deps, nil
}
