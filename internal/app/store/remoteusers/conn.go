// Package remoteusers talks to the learning-platform cluster where
// verified learners get their accounts. The connection is dialed
// lazily: the platform cluster being down must not keep this service
// from starting.
package remoteusers

import (
	"context"
	"sync"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rhinogeeks/coursedesk/internal/app/system/indexes"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Conn wraps the remote cluster client. Dialing happens on first use.
type Conn struct {
	uri      string
	database string
	log      *zap.Logger

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error
}

func NewConn(uri, database string, log *zap.Logger) (*Conn, error) {
	if err := wafflemongo.ValidateURI(uri); err != nil {
		return nil, err
	}
	return &Conn{uri: uri, database: database, log: log}, nil
}

// DB returns the remote database handle, dialing on first call. The
// dial outcome is cached: a failed dial fails all later calls too, so
// callers surface it as a provisioning error rather than retrying
// inside a request.
func (c *Conn) DB(ctx context.Context) (*mongo.Database, error) {
	c.once.Do(func() {
		dialCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()

		opts := options.Client().
			ApplyURI(c.uri).
			SetServerSelectionTimeout(timeouts.Short())
		client, err := mongo.Connect(dialCtx, opts)
		if err != nil {
			c.err = err
			return
		}
		if err := client.Ping(dialCtx, nil); err != nil {
			_ = client.Disconnect(dialCtx)
			c.err = err
			return
		}

		db := client.Database(c.database)
		if err := indexes.EnsureIndexSet(dialCtx, db.Collection("users"), indexes.RemoteUserIndexes()); err != nil {
			c.log.Warn("remote users index ensure failed", zap.Error(err))
		}

		c.client = client
		c.db = db
		c.log.Info("connected to remote learner cluster",
			zap.String("database", c.database))
	})
	return c.db, c.err
}

// Ping reports remote cluster reachability for health checks without
// forcing a dial on an unhealthy cluster to block startup paths.
func (c *Conn) Ping(ctx context.Context) error {
	if _, err := c.DB(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return c.client.Ping(ctx, nil)
}

// Close disconnects the remote client if a dial ever succeeded.
func (c *Conn) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
