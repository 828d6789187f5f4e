// Package login authenticates back-office staff with email and
// password and establishes the session cookie.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	userstore "github.com/rhinogeeks/coursedesk/internal/app/store/users"
	"github.com/rhinogeeks/coursedesk/internal/app/system/auth"
	"github.com/rhinogeeks/coursedesk/internal/app/system/ratelimit"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		Limiter:    ratelimit.NewLoginLimiter(),
		ErrLog:     errLog,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ServeLogin handles POST /admin/login.
//
// Bad credentials and unknown accounts get the same 401 so the
// endpoint doesn't leak which admin emails exist.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login request failed", err, "Invalid request body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		uierrors.RenderBadRequest(w, "Email and password are required.")
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", req.Email))
		uierrors.RenderError(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		h.ErrLog.LogServerError(w, r, "login user lookup failed", err, "Unable to sign in right now.")
		return
	}
	if user.Status == "disabled" {
		h.Log.Warn("login attempt for disabled account", zap.String("email", user.Email))
		uierrors.RenderError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		uierrors.RenderError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	su := auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to sign in right now.")
		return
	}

	h.Limiter.ResetEmail(user.Email)

	h.Log.Info("admin signed in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	uierrors.JSON(w, http.StatusOK, loginResponse{
		ID:    su.ID,
		Name:  su.Name,
		Email: su.Email,
		Role:  su.Role,
	})
}

// ServeMe handles GET /admin/me, returning the signed-in admin.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderError(w, http.StatusUnauthorized, "Not signed in.")
		return
	}
	uierrors.JSON(w, http.StatusOK, loginResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	})
}
