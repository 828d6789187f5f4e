// internal/domain/models/remoteuser.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RemoteUser is a learner account in the secondary cluster, created at most
// once per normalized email the first time a registration for that email is
// verified. This system never updates or deletes these documents.
type RemoteUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // lowercase, trimmed; unique in that store
	PasswordHash string             `bson:"password" json:"-"`
	Roles        []string           `bson:"roles" json:"roles"` // default ["student"]
	Verified     bool               `bson:"verified" json:"verified"`
	RefreshToken *string            `bson:"refresh_token,omitempty" json:"-"`

	Metadata RemoteUserMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// RemoteUserMetadata records creation provenance for a provisioned account.
type RemoteUserMetadata struct {
	Source     string         `bson:"source,omitempty" json:"source,omitempty"` // e.g. "registration_verification"
	SourceInfo map[string]any `bson:"source_info,omitempty" json:"source_info,omitempty"`
}
