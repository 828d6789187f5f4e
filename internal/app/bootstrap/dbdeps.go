// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/rhinogeeks/coursedesk/internal/app/store/remoteusers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Remote is nil when learner provisioning is not configured; handlers
// that depend on it must tolerate that.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Remote        *remoteusers.Conn
}
