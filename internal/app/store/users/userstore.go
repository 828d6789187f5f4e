// Package userstore persists administrative accounts on the primary
// cluster. Learner accounts live in the secondary cluster; see the
// remoteusers store.
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rhinogeeks/coursedesk/internal/app/system/normalize"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when creating a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole      = errors.New(`role must be "admin"|"superadmin"`)
	errEmailNeeded  = errors.New("email is required")
	errHashRequired = errors.New("password hash is required")
)

// Create inserts a new admin user after normalizing & validating fields.
// The caller supplies a bcrypt hash, never a plaintext password.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}

	switch u.Role {
	case "admin", "superadmin":
		// ok
	default:
		return models.User{}, errBadRole
	}
	if u.Email == "" {
		return models.User{}, errEmailNeeded
	}
	if u.PasswordHash == "" {
		return models.User{}, errHashRequired
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// PromoteSuperAdmin upserts the bootstrap superadmin: an existing user
// with that email is promoted; a missing one is created with the given
// password hash.
func (s *Store) PromoteSuperAdmin(ctx context.Context, email, name, passwordHash string) error {
	email = normalize.Email(email)
	now := time.Now().UTC()

	existing, err := s.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == "superadmin" {
			return nil
		}
		_, err = s.c.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{
			"$set": bson.M{"role": "superadmin", "updated_at": now},
		})
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		_, err = s.Create(ctx, models.User{
			FullName:     name,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         "superadmin",
		})
		return err
	default:
		return err
	}
}
