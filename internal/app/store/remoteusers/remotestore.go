package remoteusers

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rhinogeeks/coursedesk/internal/app/system/normalize"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateEmail is returned when a learner account already exists
// for the given email.
var ErrDuplicateEmail = errors.New("a learner account with this email already exists")

// Store reads and writes learner accounts on the remote cluster.
type Store struct {
	conn *Conn
}

func NewStore(conn *Conn) *Store {
	return &Store{conn: conn}
}

// GetByEmail looks up a learner account by normalized email. Returns
// (nil, nil) when no account exists.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.RemoteUser, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	var u models.RemoteUser
	err = db.Collection("users").FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a learner account. The unique email index (ensured on
// first dial) backstops concurrent provisioning of the same learner.
func (s *Store) Create(ctx context.Context, u models.RemoteUser) (models.RemoteUser, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return models.RemoteUser{}, err
	}

	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.CreatedAt = time.Now().UTC()

	if _, err := db.Collection("users").InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.RemoteUser{}, ErrDuplicateEmail
		}
		return models.RemoteUser{}, err
	}
	return u, nil
}
