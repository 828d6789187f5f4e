// Package promo computes promo-code discounts.
//
// Lookup lives in the promocodes store; this package owns input
// validation, expiry classification, and the discount arithmetic so the
// math is testable without a database.
package promo

import (
	"errors"
	"math"
	"time"

	"github.com/rhinogeeks/coursedesk/internal/domain/models"
)

// Error classes surfaced to callers. Handlers map these onto HTTP status
// classes: validation → 400, ErrInvalidCode → 404, ErrExpired → 410.
var (
	ErrEmptyCode      = errors.New("promo code is required")
	ErrNegativeAmount = errors.New("amount must be a non-negative number")
	ErrInvalidCode    = errors.New("invalid promo code")
	ErrExpired        = errors.New("promo code has expired")
)

// Result is the outcome of applying a promo code to a base amount.
type Result struct {
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// ValidateInput checks the raw request values before any lookup.
func ValidateInput(code string, baseAmount float64) error {
	if code == "" {
		return ErrEmptyCode
	}
	if baseAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Apply computes the discount for a looked-up code against a base amount.
// It returns ErrExpired when the code's expiry is in the past, regardless
// of the active flag. The final amount is clamped at zero and both figures
// are rounded to two decimals, discount first, then final.
func Apply(pc models.PromoCode, baseAmount float64, now time.Time) (Result, error) {
	if pc.Expired(now) {
		return Result{}, ErrExpired
	}

	var discount float64
	if pc.DiscountType == models.DiscountPercent {
		discount = Round2(baseAmount * pc.Amount / 100)
	} else {
		// flat / fixed: a plain currency amount, not scaled by the base
		discount = pc.Amount
	}

	final := Round2(baseAmount - discount)
	if final < 0 {
		final = 0
	}

	return Result{
		Code:           pc.Code,
		DiscountType:   pc.DiscountType,
		DiscountAmount: discount,
		FinalAmount:    final,
	}, nil
}

// Round2 rounds to two decimal places, half away from zero (half-up for
// the non-negative amounts used here).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
