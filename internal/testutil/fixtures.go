package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAdmin inserts an active admin user whose password is the given
// plaintext, bcrypt-hashed the way the login handler expects.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return user
}

// CreateCourse inserts a published course with the given slug and price.
func (f *Fixtures) CreateCourse(ctx context.Context, title, slug string, price float64) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	course := models.Course{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Slug:      slug,
		Price:     price,
		Published: true,
		Mentor:    &models.Mentor{Name: "Test Mentor"},
		Modules: []models.CourseModule{
			{Title: "Getting Started", Topics: []string{"Intro", "Setup"}},
		},
		CreatedAt: now,
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

// CreatePromoCode inserts an active promo code. expiresAt may be nil.
func (f *Fixtures) CreatePromoCode(ctx context.Context, code, discountType string, amount float64, expiresAt *time.Time) models.PromoCode {
	f.t.Helper()

	pc := models.PromoCode{
		ID:           primitive.NewObjectID(),
		Code:         code,
		DiscountType: discountType,
		Amount:       amount,
		ExpiresAt:    expiresAt,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := f.db.Collection("promo_codes").InsertOne(ctx, pc); err != nil {
		f.t.Fatalf("failed to create test promo code: %v", err)
	}
	return pc
}

// CreateRegistration inserts a registration awaiting verification, with a
// payment proof attached.
func (f *Fixtures) CreateRegistration(ctx context.Context, email, courseSlug string, amount float64) models.Registration {
	f.t.Helper()

	now := time.Now().UTC()
	reg := models.Registration{
		ID:         primitive.NewObjectID(),
		Reference:  "REG-" + uuid.NewString()[:8],
		Name:       "Test Student",
		Email:      email,
		CourseSlug: courseSlug,
		Amount:     amount,
		Status:     models.StatusAwaitingVerification,
		PaymentProof: &models.PaymentProof{
			Method:      "gpay",
			TxnID:       "TXN" + uuid.NewString()[:8],
			Screenshot:  "https://img.example.com/proof.jpg",
			SubmittedAt: &now,
		},
		CreatedAt: now,
	}

	if _, err := f.db.Collection("registrations").InsertOne(ctx, reg); err != nil {
		f.t.Fatalf("failed to create test registration: %v", err)
	}
	return reg
}

// CreatePendingRegistration inserts a free registration with no proof.
func (f *Fixtures) CreatePendingRegistration(ctx context.Context, email, courseSlug string) models.Registration {
	f.t.Helper()

	now := time.Now().UTC()
	reg := models.Registration{
		ID:         primitive.NewObjectID(),
		Reference:  "REG-" + uuid.NewString()[:8],
		Name:       "Test Student",
		Email:      email,
		CourseSlug: courseSlug,
		Amount:     0,
		Paid:       true,
		Status:     models.StatusPending,
		CreatedAt:  now,
	}

	if _, err := f.db.Collection("registrations").InsertOne(ctx, reg); err != nil {
		f.t.Fatalf("failed to create test registration: %v", err)
	}
	return reg
}
