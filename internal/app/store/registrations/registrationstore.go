// Package registrationstore persists course registrations and the
// verification audit trail embedded on them.
//
// The verification workflow performs three independent writes here
// (outcome, email metadata, remote-account audit). They are deliberately
// not wrapped in a transaction: a crash between writes leaves the
// registration in a valid terminal status with a partial audit trail,
// which admins can see and act on.
package registrationstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
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
	return &Store{c: db.Collection("registrations")}
}

var (
	errNameRequired   = errors.New("name is required")
	errEmailRequired  = errors.New("a valid email is required")
	errCourseRequired = errors.New("course is required")
	errBadAmount      = errors.New("amount must be a non-negative number")

	// ErrDuplicateReference is returned on a receipt-reference collision,
	// which should not happen outside of tests seeding fixed references.
	ErrDuplicateReference = errors.New("a registration with this reference already exists")
)

// Create inserts a new registration after normalizing fields and deciding
// the starting status:
//   - payment proof attached (txn id + screenshot) → awaiting_verification
//   - no proof, Paid pre-set (zero-amount/free flows)  → pending, paid
//   - otherwise → pending, unpaid
func (s *Store) Create(ctx context.Context, reg models.Registration) (models.Registration, error) {
	reg.ID = primitive.NewObjectID()
	reg.Name = normalize.Name(reg.Name)
	reg.Email = normalize.Email(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.CourseSlug = strings.TrimSpace(reg.CourseSlug)
	reg.PromoCode = normalize.Code(reg.PromoCode)

	if reg.Name == "" {
		return models.Registration{}, errNameRequired
	}
	if reg.Email == "" || !strings.Contains(reg.Email, "@") {
		return models.Registration{}, errEmailRequired
	}
	if reg.CourseSlug == "" {
		return models.Registration{}, errCourseRequired
	}
	if reg.Amount < 0 {
		return models.Registration{}, errBadAmount
	}

	now := time.Now().UTC()

	switch {
	case reg.PaymentProof.HasProof():
		reg.Status = models.StatusAwaitingVerification
		reg.Paid = false
		if reg.PaymentProof.SubmittedAt == nil {
			reg.PaymentProof.SubmittedAt = &now
		}
	case reg.Amount == 0 || reg.Paid:
		reg.Status = models.StatusPending
		reg.Paid = true
	default:
		reg.Status = models.StatusPending
		reg.Paid = false
	}

	if reg.Reference == "" {
		reg.Reference = newReference()
	}
	reg.CreatedAt = now

	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Registration{}, ErrDuplicateReference
		}
		return models.Registration{}, err
	}
	return reg, nil
}

// GetByID loads a registration by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Registration, error) {
	var reg models.Registration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetByReference loads a registration by its receipt reference. This is
// the public status-poll lookup, so it never exposes ObjectIDs.
func (s *Store) GetByReference(ctx context.Context, ref string) (*models.Registration, error) {
	var reg models.Registration
	if err := s.c.FindOne(ctx, bson.M{"reference": strings.TrimSpace(ref)}).Decode(&reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Outcome is the admin decision applied to a registration in one $set.
type Outcome struct {
	Status     string // verified | rejected
	Paid       bool
	VerifiedAt time.Time
	VerifiedBy string // acting admin's email
	Notes      string // optional, already sanitized by the caller
}

// ApplyOutcome writes the terminal status and the proof verification
// stamps, returning the updated document. Calling it again on an already
// terminal registration overwrites the previous stamps (last-write-wins).
func (s *Store) ApplyOutcome(ctx context.Context, id primitive.ObjectID, out Outcome) (*models.Registration, error) {
	set := bson.M{
		"status":                    out.Status,
		"paid":                      out.Paid,
		"updated_at":                time.Now().UTC(),
		"payment_proof.verified_at": out.VerifiedAt,
		"payment_proof.verified_by": out.VerifiedBy,
	}
	if out.Notes != "" {
		set["payment_proof.verification_notes"] = out.Notes
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated models.Registration
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetEmailMeta records the outcome of the notification email send. This is
// a best-effort follow-up write; callers log but do not propagate failure.
func (s *Store) SetEmailMeta(ctx context.Context, id primitive.ObjectID, meta models.EmailMeta) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"payment_proof.email": meta},
	})
	return err
}

// SetRemoteUserAudit records the outcome of a remote-account provisioning
// attempt. Best-effort, same as SetEmailMeta.
func (s *Store) SetRemoteUserAudit(ctx context.Context, id primitive.ObjectID, audit models.RemoteUserAudit) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"payment_proof.created_remote_user": audit},
	})
	return err
}

// SetWebhookEvent stores the latest email-provider webhook event name.
func (s *Store) SetWebhookEvent(ctx context.Context, id primitive.ObjectID, event string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"payment_proof.email.last_event": event},
	})
	return err
}

// newReference builds a short, URL-safe receipt id shown to registrants.
func newReference() string {
	return "REG-" + strings.ToUpper(uuid.NewString()[:8])
}
