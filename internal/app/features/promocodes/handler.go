// Package promocodes manages discount codes from the admin panel.
package promocodes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	promostore "github.com/rhinogeeks/coursedesk/internal/app/store/promocodes"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Promos *promostore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Promos: promostore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type createRequest struct {
	Code         string     `json:"code"`
	DiscountType string     `json:"discount_type"` // percent | flat | fixed
	Amount       float64    `json:"amount"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// ServeCreate handles POST /admin/promo-codes.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode promo code failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Promos.Create(ctx, models.PromoCode{
		Code:         req.Code,
		DiscountType: req.DiscountType,
		Amount:       req.Amount,
		ExpiresAt:    req.ExpiresAt,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, promostore.ErrDuplicateCode) {
			uierrors.RenderError(w, http.StatusConflict, "A promo code with this name already exists.")
			return
		}
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	h.Log.Info("promo code created",
		zap.String("code", created.Code),
		zap.String("discount_type", created.DiscountType),
		zap.Float64("amount", created.Amount))
	uierrors.JSON(w, http.StatusCreated, created)
}

// ServeList handles GET /admin/promo-codes: every code, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	codes, err := h.Promos.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list promo codes failed", err, "Unable to load promo codes.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"promo_codes": codes})
}

// ServeDelete handles DELETE /admin/promo-codes/{id}. Registrations
// that already used the code keep their discounted amount.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Invalid promo code ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Promos.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Promo code not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete promo code failed", err, "Unable to delete promo code.")
		return
	}

	h.Log.Info("promo code deleted", zap.String("id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
