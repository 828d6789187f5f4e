// Package register is the public registration intake: course signup,
// payment-proof submission, promo preview, and the status poll used by
// the thank-you page.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	coursestore "github.com/rhinogeeks/coursedesk/internal/app/store/courses"
	promostore "github.com/rhinogeeks/coursedesk/internal/app/store/promocodes"
	registrationstore "github.com/rhinogeeks/coursedesk/internal/app/store/registrations"
	"github.com/rhinogeeks/coursedesk/internal/app/system/htmlsanitize"
	"github.com/rhinogeeks/coursedesk/internal/app/system/mailer"
	"github.com/rhinogeeks/coursedesk/internal/app/system/normalize"
	"github.com/rhinogeeks/coursedesk/internal/app/system/promo"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Courses       *coursestore.Store
	Promos        *promostore.Store
	Registrations *registrationstore.Store
	Sender        mailer.Sender
	SiteName      string
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, sender mailer.Sender, siteName string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Courses:       coursestore.New(db),
		Promos:        promostore.New(db),
		Registrations: registrationstore.New(db),
		Sender:        sender,
		SiteName:      siteName,
		ErrLog:        errLog,
		Log:           logger,
	}
}

type paymentPayload struct {
	Method     string `json:"method"`
	TxnID      string `json:"txn_id"`
	Screenshot string `json:"screenshot"`
	Notes      string `json:"notes"`
}

type submitRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	CourseSlug string          `json:"course_slug"`
	PromoCode  string          `json:"promo_code"`
	Payment    *paymentPayload `json:"payment,omitempty"`
}

// ServeSubmit handles POST /register.
//
// The course price is always re-read server side; the promo discount is
// recomputed at submission time, so a stale preview can't lock in a
// price. The receipt email is best-effort and recorded on the
// registration either way.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode registration failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	course, err := h.loadPublishedCourse(ctx, w, r, req.CourseSlug)
	if course == nil || err != nil {
		return
	}

	amount := course.Price
	promoCode := normalize.Code(req.PromoCode)
	if promoCode != "" {
		result, ok := h.applyPromo(ctx, w, r, promoCode, course.Price)
		if !ok {
			return
		}
		amount = result.FinalAmount
	}

	reg := models.Registration{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CourseSlug: course.Slug,
		PromoCode:  promoCode,
		Amount:     amount,
	}
	if req.Payment != nil {
		reg.PaymentProof = &models.PaymentProof{
			Method:     req.Payment.Method,
			TxnID:      req.Payment.TxnID,
			Screenshot: req.Payment.Screenshot,
			Notes:      htmlsanitize.PlainText(req.Payment.Notes),
		}
	}

	created, err := h.Registrations.Create(ctx, reg)
	if err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	h.Log.Info("registration created",
		zap.String("reference", created.Reference),
		zap.String("course", created.CourseSlug),
		zap.String("status", created.Status),
		zap.Float64("amount", created.Amount))

	h.sendReceipt(ctx, &created, course.Title)

	uierrors.JSON(w, http.StatusCreated, created)
}

type statusResponse struct {
	Reference  string  `json:"reference"`
	Status     string  `json:"status"`
	Paid       bool    `json:"paid"`
	CourseSlug string  `json:"course_slug"`
	Amount     float64 `json:"amount"`
}

// ServeStatus handles GET /register/{reference}: the public poll with a
// deliberately narrow payload, since the reference circulates in email.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Registrations.GetByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Registration not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load registration failed", err, "Unable to load registration.")
		return
	}

	uierrors.JSON(w, http.StatusOK, statusResponse{
		Reference:  reg.Reference,
		Status:     reg.Status,
		Paid:       reg.Paid,
		CourseSlug: reg.CourseSlug,
		Amount:     reg.Amount,
	})
}

type applyPromoRequest struct {
	CourseSlug string `json:"course_slug"`
	Code       string `json:"code"`
}

// ServeApplyPromo handles POST /register/apply-promo: a preview of the
// discounted price. Nothing is persisted.
func (h *Handler) ServeApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req applyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode promo preview failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, err := h.loadPublishedCourse(ctx, w, r, req.CourseSlug)
	if course == nil || err != nil {
		return
	}

	result, ok := h.applyPromo(ctx, w, r, req.Code, course.Price)
	if !ok {
		return
	}
	uierrors.JSON(w, http.StatusOK, result)
}

// loadPublishedCourse resolves a slug and writes the error response
// itself when the course is missing or unpublished.
func (h *Handler) loadPublishedCourse(ctx context.Context, w http.ResponseWriter, r *http.Request, slug string) (*models.Course, error) {
	course, err := h.Courses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return nil, nil
		}
		h.ErrLog.LogServerError(w, r, "load course failed", err, "Unable to load course.")
		return nil, err
	}
	if !course.Published {
		uierrors.RenderNotFound(w, "Course not found.")
		return nil, nil
	}
	return course, nil
}

// applyPromo looks up and applies a code, writing the error response on
// failure. Error mapping: bad input → 400, unknown code → 404,
// expired → 410.
func (h *Handler) applyPromo(ctx context.Context, w http.ResponseWriter, r *http.Request, code string, baseAmount float64) (promo.Result, bool) {
	code = normalize.Code(code)
	if err := promo.ValidateInput(code, baseAmount); err != nil {
		uierrors.RenderBadRequest(w, err.Error())
		return promo.Result{}, false
	}

	pc, err := h.Promos.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, promo.ErrInvalidCode.Error())
			return promo.Result{}, false
		}
		h.ErrLog.LogServerError(w, r, "promo lookup failed", err, "Unable to apply promo code.")
		return promo.Result{}, false
	}

	result, err := promo.Apply(*pc, baseAmount, time.Now().UTC())
	if err != nil {
		if errors.Is(err, promo.ErrExpired) {
			uierrors.RenderError(w, http.StatusGone, promo.ErrExpired.Error())
			return promo.Result{}, false
		}
		uierrors.RenderBadRequest(w, err.Error())
		return promo.Result{}, false
	}
	return result, true
}

// sendReceipt delivers the registration receipt and records the attempt
// on the registration. Failures are logged, never surfaced.
func (h *Handler) sendReceipt(ctx context.Context, reg *models.Registration, courseTitle string) {
	msg := mailer.BuildReceiptEmail(mailer.ReceiptEmailData{
		SiteName:    h.SiteName,
		Name:        reg.Name,
		CourseTitle: courseTitle,
		Reference:   reg.Reference,
		Amount:      reg.Amount,
		AwaitingPay: reg.Status == models.StatusAwaitingVerification,
	})
	msg.To = reg.Email

	now := time.Now().UTC()
	meta := models.EmailMeta{
		OK:     true,
		SentAt: &now,
	}
	if err := h.Sender.Send(&msg); err != nil {
		meta.OK = false
		meta.Error = err.Error()
		meta.SentAt = nil
	}
	meta.MessageID = msg.MessageID

	if err := h.Registrations.SetEmailMeta(ctx, reg.ID, meta); err != nil {
		h.Log.Warn("record receipt email meta failed",
			zap.String("reference", reg.Reference), zap.Error(err))
	}
	if reg.PaymentProof == nil {
		reg.PaymentProof = &models.PaymentProof{}
	}
	reg.PaymentProof.Email = &meta
}
