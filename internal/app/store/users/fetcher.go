package userstore

import (
	"context"
	"errors"

	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher adapts the user collection to auth.UserFetcher so sessions
// can be refreshed from the database on each request.
type Fetcher struct {
	c *mongo.Collection
}

func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{c: db.Collection("users")}
}

// FetchSessionUser returns the session view of a user, or (nil, nil)
// when the id is unknown or the account is disabled.
func (f *Fetcher) FetchSessionUser(ctx context.Context, id string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var doc struct {
		ID       primitive.ObjectID `bson:"_id"`
		FullName string             `bson:"full_name"`
		Email    string             `bson:"email"`
		Role     string             `bson:"role"`
		Status   string             `bson:"status"`
	}
	err = f.c.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{
			"full_name": 1, "email": 1, "role": 1, "status": 1,
		})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Status == "disabled" {
		return nil, nil
	}

	return &auth.SessionUser{
		ID:    doc.ID.Hex(),
		Name:  doc.FullName,
		Email: doc.Email,
		Role:  doc.Role,
	}, nil
}
