// Package courses serves the public catalog and the admin course
// management endpoints.
package courses

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	coursestore "github.com/rhinogeeks/coursedesk/internal/app/store/courses"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PublicHandler serves the catalog that visitors browse.
type PublicHandler struct {
	Courses *coursestore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewPublicHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		Courses: coursestore.New(db),
		ErrLog:  errLog,
		Log:     logger,
	}
}

// courseSummary is the catalog list entry. Module and mentor detail
// stays on the detail endpoint.
type courseSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	MentorName  string  `json:"mentor_name,omitempty"`
}

// ServeList handles GET /courses: published courses sorted by title.
func (h *PublicHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Courses.List(ctx, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list published courses failed", err, "Unable to load courses.")
		return
	}

	summaries := make([]courseSummary, 0, len(list))
	for _, c := range list {
		s := courseSummary{
			ID:          c.ID.Hex(),
			Title:       c.Title,
			Slug:        c.Slug,
			Description: c.Description,
			Price:       c.Price,
		}
		if c.Mentor != nil {
			s.MentorName = c.Mentor.Name
		}
		summaries = append(summaries, s)
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"courses": summaries})
}

// ServeDetail handles GET /courses/{slug}. Unpublished courses read as
// missing to the public.
func (h *PublicHandler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	course, err := h.Courses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, "Course not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load course failed", err, "Unable to load course.")
		return
	}
	if !course.Published {
		uierrors.RenderNotFound(w, "Course not found.")
		return
	}

	uierrors.JSON(w, http.StatusOK, course)
}
