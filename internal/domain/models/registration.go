// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registration statuses.
//
// A registration is created in StatusPending (free course) or
// StatusAwaitingVerification (payment proof attached). Admin review moves
// it to StatusVerified or StatusRejected; both are terminal in normal flow,
// though re-review is permitted and is last-write-wins.
const (
	StatusPending              = "pending"
	StatusAwaitingVerification = "awaiting_verification"
	StatusVerified             = "verified"
	StatusRejected             = "rejected"
)

// ValidStatus reports whether s is one of the known registration statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAwaitingVerification, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Registration records one student's intent to take one course, together
// with the payment state that the admin verification workflow drives.
type Registration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference string             `bson:"reference" json:"reference"` // human-safe receipt id, shown to the registrant
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// CourseSlug is an untyped reference; the course is not required to
	// exist when a discount is computed.
	CourseSlug string  `bson:"course_slug" json:"course_slug"`
	PromoCode  string  `bson:"promo_code,omitempty" json:"promo_code,omitempty"`
	Amount     float64 `bson:"amount" json:"amount"` // final amount after any discount, >= 0
	Paid       bool    `bson:"paid" json:"paid"`
	Status     string  `bson:"status" json:"status"`
	Notes      string  `bson:"notes,omitempty" json:"notes,omitempty"`

	PaymentProof *PaymentProof `bson:"payment_proof,omitempty" json:"payment_proof,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// PaymentProof is the registrant-submitted evidence of an out-of-band
// payment plus the audit trail the verification workflow accumulates on it.
type PaymentProof struct {
	Method     string `bson:"method,omitempty" json:"method,omitempty"` // e.g. "gpay", "upi", "bank"
	TxnID      string `bson:"txn_id,omitempty" json:"txn_id,omitempty"`
	Screenshot string `bson:"screenshot,omitempty" json:"screenshot,omitempty"` // hosted image URL
	Notes      string `bson:"notes,omitempty" json:"notes,omitempty"`

	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`

	VerifiedAt        *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	VerifiedBy        string     `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerificationNotes string     `bson:"verification_notes,omitempty" json:"verification_notes,omitempty"`

	Email             *EmailMeta       `bson:"email,omitempty" json:"email,omitempty"`
	CreatedRemoteUser *RemoteUserAudit `bson:"created_remote_user,omitempty" json:"created_remote_user,omitempty"`
}

// HasProof reports whether enough evidence was submitted to start the
// review flow: a transaction id plus a screenshot reference.
func (p *PaymentProof) HasProof() bool {
	return p != nil && p.TxnID != "" && p.Screenshot != ""
}

// EmailMeta is the reduced view of one outbound email attempt persisted on
// the registration. A failed send is recorded here and never fails the
// operation that triggered it.
type EmailMeta struct {
	OK        bool       `bson:"ok" json:"ok"`
	Error     string     `bson:"error,omitempty" json:"error,omitempty"`
	SentAt    *time.Time `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	MessageID string     `bson:"message_id,omitempty" json:"message_id,omitempty"`
	LastEvent string     `bson:"last_event,omitempty" json:"last_event,omitempty"` // last provider webhook event, if any
}

// RemoteUserAudit records the outcome of one learner-account provisioning
// attempt against the secondary cluster.
type RemoteUserAudit struct {
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	Result    RemoteUserOutcome `bson:"result" json:"result"`
}

// RemoteUserOutcome is either a created/existed record or an error message.
// EmailResult carries the welcome-email attempt for created accounts, so a
// provisioned-but-unnotified learner stays visible in the audit trail.
type RemoteUserOutcome struct {
	Created     bool       `bson:"created" json:"created"`
	Existed     bool       `bson:"existed,omitempty" json:"existed,omitempty"`
	UserID      string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Email       string     `bson:"email,omitempty" json:"email,omitempty"`
	Error       string     `bson:"error,omitempty" json:"error,omitempty"`
	EmailResult *EmailMeta `bson:"email_result,omitempty" json:"email_result,omitempty"`
}
