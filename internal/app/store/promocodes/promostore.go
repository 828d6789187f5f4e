// Package promostore persists admin-managed promo codes.
package promostore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("promo_codes")}
}

var (
	// ErrDuplicateCode is returned when creating a code that already exists.
	ErrDuplicateCode = errors.New("a promo code with this code already exists")

	errCodeRequired    = errors.New("code is required")
	errBadDiscountType = errors.New(`discount_type must be "percent"|"flat"|"fixed"`)
	errBadAmount       = errors.New("amount must be greater than zero")
	errBadPercent      = errors.New("percent discount cannot exceed 100")
)

// Create inserts a new promo code after normalizing & validating fields.
// Codes are stored uppercase; the unique index rejects duplicates.
func (s *Store) Create(ctx context.Context, pc models.PromoCode) (models.PromoCode, error) {
	pc.ID = primitive.NewObjectID()
	pc.Code = normalize.Code(pc.Code)

	if pc.Code == "" {
		return models.PromoCode{}, errCodeRequired
	}
	switch pc.DiscountType {
	case models.DiscountPercent, models.DiscountFlat, models.DiscountFixed:
		// ok
	default:
		return models.PromoCode{}, errBadDiscountType
	}
	if pc.Amount <= 0 {
		return models.PromoCode{}, errBadAmount
	}
	if pc.DiscountType == models.DiscountPercent && pc.Amount > 100 {
		return models.PromoCode{}, errBadPercent
	}

	pc.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, pc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.PromoCode{}, ErrDuplicateCode
		}
		return models.PromoCode{}, err
	}
	return pc, nil
}

// GetActiveByCode looks up an active code by its normalized form. Expiry
// is NOT checked here; the promo engine classifies expired codes
// separately so callers can distinguish "unknown" from "expired".
// Returns mongo.ErrNoDocuments when no active code matches.
func (s *Store) GetActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var pc models.PromoCode
	filter := bson.M{"code": normalize.Code(code), "active": true}
	if err := s.c.FindOne(ctx, filter).Decode(&pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

// List returns all promo codes, newest first. The collection is small
// (admin-curated) so there is no pagination here.
func (s *Store) List(ctx context.Context) ([]models.PromoCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var codes []models.PromoCode
	if err := cur.All(ctx, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Delete removes a promo code. Returns mongo.ErrNoDocuments if absent.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
