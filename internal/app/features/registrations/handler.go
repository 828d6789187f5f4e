// Package registrations is the admin review surface: the paged queue of
// registrations, the detail view, and the verify/reject workflow with
// its email and account-provisioning side effects.
package registrations

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	coursestore "github.com/rhinogeeks/coursedesk/internal/app/store/courses"
	registrationstore "github.com/rhinogeeks/coursedesk/internal/app/store/registrations"
	"github.com/rhinogeeks/coursedesk/internal/app/system/mailer"
	"github.com/rhinogeeks/coursedesk/internal/app/system/provision"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB            *mongo.Database
	Registrations *registrationstore.Store
	Courses       *coursestore.Store
	Sender        mailer.Sender
	Provisioner   *provision.Provisioner
	SiteName      string
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
}

// NewHandler wires the handler. provisioner may be nil when the
// learning-platform cluster is not configured; verified registrations
// then record a provisioning-unavailable outcome instead of an account.
func NewHandler(db *mongo.Database, sender mailer.Sender, provisioner *provision.Provisioner, siteName string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Registrations: registrationstore.New(db),
		Courses:       coursestore.New(db),
		Sender:        sender,
		Provisioner:   provisioner,
		SiteName:      siteName,
		ErrLog:        errLog,
		Log:           logger,
	}
}

// ServeDetail handles GET /admin/registrations/{id}: the full document,
// audit trail included.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := h.registrationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	uierrors.JSON(w, http.StatusOK, reg)
}

func (h *Handler) registrationID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Invalid registration ID.")
		return primitive.NilObjectID, false
	}
	return id, true
}
