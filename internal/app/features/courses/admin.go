package courses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	coursestore "github.com/rhinogeeks/coursedesk/internal/app/store/courses"
	"github.com/rhinogeeks/coursedesk/internal/app/system/htmlsanitize"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminHandler manages the catalog from the back office.
type AdminHandler struct {
	Courses *coursestore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewAdminHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		Courses: coursestore.New(db),
		ErrLog:  errLog,
		Log:     logger,
	}
}

type coursePayload struct {
	Title       string                `json:"title"`
	Slug        string                `json:"slug,omitempty"` // derived from title when empty
	Description string                `json:"description"`
	Price       float64               `json:"price"`
	Mentor      *models.Mentor        `json:"mentor,omitempty"`
	Modules     []models.CourseModule `json:"modules,omitempty"`
}

func (p *coursePayload) sanitize() {
	p.Description = htmlsanitize.Sanitize(p.Description)
	if p.Mentor != nil {
		p.Mentor.Bio = htmlsanitize.Sanitize(p.Mentor.Bio)
	}
}

// ServeList handles GET /admin/courses: the full catalog, drafts
// included.
func (h *AdminHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Courses.List(ctx, false)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list courses failed", err, "Unable to load courses.")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"courses": list})
}

// ServeCreate handles POST /admin/courses.
func (h *AdminHandler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var payload coursePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode course failed", err, "Invalid request body.")
		return
	}
	payload.sanitize()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Courses.Create(ctx, models.Course{
		Title:       payload.Title,
		Slug:        payload.Slug,
		Description: payload.Description,
		Price:       payload.Price,
		Mentor:      payload.Mentor,
		Modules:     payload.Modules,
	})
	if err != nil {
		if errors.Is(err, coursestore.ErrDuplicateSlug) {
			uierrors.RenderError(w, http.StatusConflict, "A course with this slug already exists.")
			return
		}
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	h.Log.Info("course created",
		zap.String("slug", created.Slug),
		zap.String("title", created.Title))
	uierrors.JSON(w, http.StatusCreated, created)
}

// ServeGet handles GET /admin/courses/{id}.
func (h *AdminHandler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load course failed", err, "Unable to load course.")
		return
	}
	uierrors.JSON(w, http.StatusOK, course)
}

// ServeUpdate handles PUT /admin/courses/{id}. The slug is immutable;
// a slug in the payload is ignored.
func (h *AdminHandler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courseID(w, r)
	if !ok {
		return
	}

	var payload coursePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode course failed", err, "Invalid request body.")
		return
	}
	payload.sanitize()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Courses.Update(ctx, id, coursestore.Update{
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Mentor:      payload.Mentor,
		Modules:     payload.Modules,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return
		}
		uierrors.RenderBadRequest(w, err.Error())
		return
	}

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload course failed", err, "Unable to load course.")
		return
	}
	uierrors.JSON(w, http.StatusOK, course)
}

type publishPayload struct {
	Published bool `json:"published"`
}

// ServePublish handles POST /admin/courses/{id}/publish.
func (h *AdminHandler) ServePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courseID(w, r)
	if !ok {
		return
	}

	var payload publishPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode publish payload failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Courses.SetPublished(ctx, id, payload.Published); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "set published failed", err, "Unable to update course.")
		return
	}

	h.Log.Info("course visibility changed",
		zap.String("course_id", id.Hex()),
		zap.Bool("published", payload.Published))
	uierrors.JSON(w, http.StatusOK, map[string]bool{"published": payload.Published})
}

// ServeDelete handles DELETE /admin/courses/{id}.
func (h *AdminHandler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.courseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete course failed", err, "Unable to delete course.")
		return
	}

	h.Log.Info("course deleted", zap.String("course_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) courseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, "Invalid course ID.")
		return primitive.NilObjectID, false
	}
	return id, true
}
