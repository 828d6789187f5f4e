// internal/domain/models/promocode.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount types for promo codes.
//
// "flat" and "fixed" are synonyms kept for compatibility with data written
// by the legacy admin panel; both mean a flat currency amount off.
const (
	DiscountPercent = "percent"
	DiscountFlat    = "flat"
	DiscountFixed   = "fixed"
)

// PromoCode is an admin-managed discount rule. Codes are stored uppercase
// and a unique index on code enforces first-writer-wins at the data layer.
type PromoCode struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code         string             `bson:"code" json:"code"` // uppercase
	DiscountType string             `bson:"discount_type" json:"discount_type"`
	Amount       float64            `bson:"amount" json:"amount"` // percent value or flat currency amount
	ExpiresAt    *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Active       bool               `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Expired reports whether the code's expiry, if set, is in the past.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}
