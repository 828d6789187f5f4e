package promo

import (
	"errors"
	"testing"
	"time"

	"github.com/rhinogeeks/coursedesk/internal/domain/models"
)

func TestApply_Percent(t *testing.T) {
	pc := models.PromoCode{Code: "SAVE20", DiscountType: models.DiscountPercent, Amount: 20, Active: true}

	res, err := Apply(pc, 100, time.Now())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.DiscountAmount != 20.00 {
		t.Errorf("DiscountAmount: got %v, want 20", res.DiscountAmount)
	}
	if res.FinalAmount != 80.00 {
		t.Errorf("FinalAmount: got %v, want 80", res.FinalAmount)
	}
	if res.Code != "SAVE20" {
		t.Errorf("Code: got %q, want SAVE20", res.Code)
	}
}

func TestApply_PercentRounding(t *testing.T) {
	// 33% of 99.99 = 32.9967 → 33.00 after half-up rounding.
	pc := models.PromoCode{Code: "THIRD", DiscountType: models.DiscountPercent, Amount: 33, Active: true}

	res, err := Apply(pc, 99.99, time.Now())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.DiscountAmount != 33.00 {
		t.Errorf("DiscountAmount: got %v, want 33.00", res.DiscountAmount)
	}
	if res.FinalAmount != 66.99 {
		t.Errorf("FinalAmount: got %v, want 66.99", res.FinalAmount)
	}
}

func TestApply_FlatClampsAtZero(t *testing.T) {
	pc := models.PromoCode{Code: "FLAT50", DiscountType: models.DiscountFlat, Amount: 50, Active: true}

	res, err := Apply(pc, 30, time.Now())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.DiscountAmount != 50 {
		t.Errorf("DiscountAmount: got %v, want 50", res.DiscountAmount)
	}
	if res.FinalAmount != 0 {
		t.Errorf("FinalAmount: got %v, want 0 (clamped)", res.FinalAmount)
	}
}

func TestApply_FixedTreatedAsFlat(t *testing.T) {
	pc := models.PromoCode{Code: "OFF100", DiscountType: models.DiscountFixed, Amount: 100, Active: true}

	res, err := Apply(pc, 500, time.Now())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.FinalAmount != 400 {
		t.Errorf("FinalAmount: got %v, want 400", res.FinalAmount)
	}
}

func TestApply_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	pc := models.PromoCode{Code: "OLD", DiscountType: models.DiscountPercent, Amount: 10, Active: true, ExpiresAt: &past}

	_, err := Apply(pc, 100, time.Now())
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestApply_FutureExpiryAccepted(t *testing.T) {
	future := time.Now().Add(time.Hour)
	pc := models.PromoCode{Code: "SOON", DiscountType: models.DiscountPercent, Amount: 10, Active: true, ExpiresAt: &future}

	res, err := Apply(pc, 100, time.Now())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if res.FinalAmount != 90 {
		t.Errorf("FinalAmount: got %v, want 90", res.FinalAmount)
	}
}

func TestApply_NeverNegativeAndConsistent(t *testing.T) {
	// final = base - discount and final >= 0 must hold across a spread of
	// amounts and both discount kinds.
	amounts := []float64{0, 0.01, 1, 29.99, 100, 499.5, 10000}
	codes := []models.PromoCode{
		{Code: "P10", DiscountType: models.DiscountPercent, Amount: 10, Active: true},
		{Code: "P100", DiscountType: models.DiscountPercent, Amount: 100, Active: true},
		{Code: "F25", DiscountType: models.DiscountFlat, Amount: 25, Active: true},
	}

	for _, pc := range codes {
		for _, base := range amounts {
			res, err := Apply(pc, base, time.Now())
			if err != nil {
				t.Fatalf("Apply(%s, %v) failed: %v", pc.Code, base, err)
			}
			if res.FinalAmount < 0 {
				t.Errorf("Apply(%s, %v): negative final %v", pc.Code, base, res.FinalAmount)
			}
			want := Round2(base - res.DiscountAmount)
			if want < 0 {
				want = 0
			}
			if res.FinalAmount != want {
				t.Errorf("Apply(%s, %v): final %v, want %v", pc.Code, base, res.FinalAmount, want)
			}
		}
	}
}

func TestValidateInput(t *testing.T) {
	if err := ValidateInput("", 10); !errors.Is(err, ErrEmptyCode) {
		t.Errorf("empty code: got %v, want ErrEmptyCode", err)
	}
	if err := ValidateInput("SAVE20", -1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative amount: got %v, want ErrNegativeAmount", err)
	}
	if err := ValidateInput("SAVE20", 0); err != nil {
		t.Errorf("zero amount should be valid, got %v", err)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},  // 1.005 is stored just below the midpoint in binary
		{1.015, 1.01}, // likewise
		{2.675, 2.68}, // exact midpoint in binary, rounds away from zero
		{0.1 + 0.2, 0.3},
		{80, 80},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
