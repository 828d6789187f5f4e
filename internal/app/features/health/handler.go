package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rhinogeeks/coursedesk/internal/app/store/remoteusers"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Remote *remoteusers.Conn
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. Remote may be nil when the
// learner cluster is not configured.
func NewHandler(client *mongo.Client, remote *remoteusers.Conn, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Remote: remote,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Remote   string `json:"remote,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "remote":"connected" }
//
// The primary database gates the status; the learner cluster is
// reported but informational, since registration intake keeps working
// without it.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Remote != nil {
		resp.Remote = "connected"
		if err := h.Remote.Ping(r.Context()); err != nil {
			h.Log.Warn("health-check: remote cluster ping failed", zap.Error(err))
			resp.Remote = "disconnected"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
