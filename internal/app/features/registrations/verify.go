package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	registrationstore "github.com/rhinogeeks/coursedesk/internal/app/store/registrations"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
	"github.com/rhinogeeks/coursedesk/internal/app/system/htmlsanitize"
	"github.com/rhinogeeks/coursedesk/internal/app/system/mailer"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	actionVerify = "verify"
	actionReject = "reject"
)

type verifyRequest struct {
	Action string `json:"action"` // "verify" | "reject"
	Notes  string `json:"notes"`
	Paid   *bool  `json:"paid"` // verify only; omitted means paid
}

// defaultRejectNotes is stored when an admin rejects without a note, so
// the registrant-facing record never shows an empty reason.
const defaultRejectNotes = "Rejected by admin"

// verifyResponse carries the updated registration plus the outcome of
// each side effect, so the admin panel can surface partial failures.
type verifyResponse struct {
	Registration *models.Registration      `json:"registration"`
	Email        *models.EmailMeta         `json:"email,omitempty"`
	RemoteUser   *models.RemoteUserOutcome `json:"remote_user,omitempty"`
}

// ServeVerify handles POST /admin/registrations/{id}/verify.
//
// The decision write lands first. The result email and, on verify, the
// learner-account provisioning are follow-ups recorded on the
// registration's audit trail; their failure never rolls back the
// decision. Re-reviewing an already decided registration is allowed and
// overwrites the previous stamps.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.registrationID(w, r)
	if !ok {
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode verify request failed", err, "Invalid request body.")
		return
	}
	if req.Action != actionVerify && req.Action != actionReject {
		uierrors.RenderBadRequest(w, `Action must be "verify" or "reject".`)
		return
	}

	admin, _ := auth.CurrentUser(r)
	if admin == nil {
		uierrors.RenderError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	reg, err := h.Registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Registration not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load registration failed", err, "Unable to load registration.")
		return
	}
	// Rejecting a proof-less registration is fine (it just closes it);
	// verifying one would stamp evidence that was never submitted.
	if req.Action == actionVerify && !reg.PaymentProof.HasProof() {
		uierrors.RenderError(w, http.StatusConflict, "No payment proof submitted for this registration.")
		return
	}

	out := registrationstore.Outcome{
		Status:     models.StatusRejected,
		Paid:       false,
		VerifiedAt: time.Now().UTC(),
		VerifiedBy: admin.Email,
		Notes:      htmlsanitize.PlainText(req.Notes),
	}
	if req.Action == actionVerify {
		out.Status = models.StatusVerified
		out.Paid = req.Paid == nil || *req.Paid
	} else if out.Notes == "" {
		out.Notes = defaultRejectNotes
	}

	updated, err := h.Registrations.ApplyOutcome(ctx, id, out)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "apply verification outcome failed", err, "Unable to update registration.")
		return
	}

	h.Log.Info("registration reviewed",
		zap.String("reference", updated.Reference),
		zap.String("status", updated.Status),
		zap.String("reviewed_by", admin.Email))

	resp := verifyResponse{Registration: updated}
	resp.Email = h.sendResultEmail(ctx, updated, out.Notes)

	if updated.Status == models.StatusVerified {
		outcome := models.RemoteUserOutcome{Error: "learner provisioning is not configured"}
		if h.Provisioner != nil {
			outcome = h.Provisioner.Provision(ctx, updated.Name, updated.Email, updated.CourseSlug)
		}
		audit := models.RemoteUserAudit{
			CreatedAt: time.Now().UTC(),
			Result:    outcome,
		}
		if err := h.Registrations.SetRemoteUserAudit(ctx, id, audit); err != nil {
			h.Log.Warn("record remote-user audit failed",
				zap.String("reference", updated.Reference), zap.Error(err))
		}
		updated.PaymentProof.CreatedRemoteUser = &audit
		resp.RemoteUser = &outcome
	}

	uierrors.JSON(w, http.StatusOK, resp)
}

// sendResultEmail delivers the decision email and persists the attempt.
func (h *Handler) sendResultEmail(ctx context.Context, reg *models.Registration, notes string) *models.EmailMeta {
	courseTitle := reg.CourseSlug
	if course, err := h.Courses.GetBySlug(ctx, reg.CourseSlug); err == nil {
		courseTitle = course.Title
	}

	msg := mailer.BuildResultEmail(mailer.ResultEmailData{
		SiteName:    h.SiteName,
		Name:        reg.Name,
		CourseTitle: courseTitle,
		Verified:    reg.Status == models.StatusVerified,
		Notes:       notes,
	})
	msg.To = reg.Email

	now := time.Now().UTC()
	meta := models.EmailMeta{OK: true, SentAt: &now}
	if err := h.Sender.Send(&msg); err != nil {
		meta.OK = false
		meta.Error = err.Error()
		meta.SentAt = nil
	}
	meta.MessageID = msg.MessageID

	if err := h.Registrations.SetEmailMeta(ctx, reg.ID, meta); err != nil {
		h.Log.Warn("record result email meta failed",
			zap.String("reference", reg.Reference), zap.Error(err))
	}
	reg.PaymentProof.Email = &meta
	return &meta
}
