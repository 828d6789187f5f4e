package promocodes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	"github.com/rhinogeeks/coursedesk/internal/app/features/promocodes"
	"github.com/rhinogeeks/coursedesk/internal/app/system/indexes"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"github.com/rhinogeeks/coursedesk/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*promocodes.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := promocodes.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestServeCreate(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"code": "save20", "discount_type": "percent", "amount": 20}`
	req := httptest.NewRequest("POST", "/admin/promo-codes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var pc models.PromoCode
	if err := json.Unmarshal(rec.Body.Bytes(), &pc); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if pc.Code != "SAVE20" {
		t.Errorf("expected uppercased code, got %q", pc.Code)
	}
	if !pc.Active {
		t.Error("new codes should be active")
	}
}

func TestServeCreate_Validation(t *testing.T) {
	handler, _ := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad type", `{"code": "X", "discount_type": "half-off", "amount": 50}`},
		{"zero amount", `{"code": "X", "discount_type": "percent", "amount": 0}`},
		{"percent over 100", `{"code": "X", "discount_type": "percent", "amount": 150}`},
		{"empty code", `{"code": "", "discount_type": "percent", "amount": 10}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/admin/promo-codes", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		handler.ServeCreate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected %d, got %d", tc.name, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestServeCreate_DuplicateCode(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique index backs duplicate detection.
	if err := indexes.EnsureAll(ctx, fixtures.DB()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	fixtures.CreatePromoCode(ctx, "SAVE20", models.DiscountPercent, 20, nil)

	body := `{"code": "save20", "discount_type": "percent", "amount": 10}`
	req := httptest.NewRequest("POST", "/admin/promo-codes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeCreate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestServeListAndDelete(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created := fixtures.CreatePromoCode(ctx, "SAVE20", models.DiscountPercent, 20, nil)
	fixtures.CreatePromoCode(ctx, "FLAT50", models.DiscountFlat, 50, nil)

	req := httptest.NewRequest("GET", "/admin/promo-codes", nil)
	rec := httptest.NewRecorder()
	handler.ServeList(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		PromoCodes []models.PromoCode `json:"promo_codes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.PromoCodes) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(resp.PromoCodes))
	}

	req = httptest.NewRequest("DELETE", "/admin/promo-codes/"+created.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec = httptest.NewRecorder()
	handler.ServeDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected %d, got %d", http.StatusNoContent, rec.Code)
	}

	// Deleting again → 404.
	req = httptest.NewRequest("DELETE", "/admin/promo-codes/"+created.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec = httptest.NewRecorder()
	handler.ServeDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}
