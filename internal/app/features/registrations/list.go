package registrations

import (
	"context"
	"maps"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	"github.com/rhinogeeks/coursedesk/internal/app/system/paging"
	"github.com/rhinogeeks/coursedesk/internal/app/system/timeouts"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// listResponse is the paged queue payload.
type listResponse struct {
	Items []models.Registration `json:"items"`

	Shown      int    `json:"shown"`
	Total      int64  `json:"total"`
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
	RangeStart int    `json:"range_start"`
	RangeEnd   int    `json:"range_end"`
}

// ServeList handles GET /admin/registrations with optional
// ?status=, ?course=, and ?q= filters plus keyset cursors
// (?after= / ?before=). Sorted by registrant email; emails are stored
// lowercased so the sort is already case-insensitive.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	status := query.Get(r, "status")
	course := query.Get(r, "course")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	if status != "" && !models.ValidStatus(status) {
		uierrors.RenderBadRequest(w, "Unknown status filter.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Build base filter
	base := bson.M{}
	if status != "" {
		base["status"] = status
	}
	if course != "" {
		base["course_slug"] = course
	}
	var searchOr []bson.M
	if q != "" {
		fq := text.Fold(q)
		if fq != "" {
			hi := fq + "￿"
			searchOr = []bson.M{
				{"email": bson.M{"$gte": fq, "$lt": hi}},
				{"reference": bson.M{"$gte": q, "$lt": q + "￿"}},
			}
			base["$or"] = searchOr
		}
	}

	coll := h.DB.Collection("registrations")

	total, err := coll.CountDocuments(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count registrations failed", err, "Unable to load registrations.")
		return
	}

	// Clone base filter for the pagination query
	f := maps.Clone(base)
	find := options.Find()
	sortField := "email"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)

	// Apply cursor conditions (handle $or clause specially)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if q != "" && len(searchOr) > 0 {
			f["$and"] = []bson.M{{"$or": searchOr}, ks}
			delete(f, "$or")
		} else {
			maps.Copy(f, ks)
		}
	}

	cur, err := coll.Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find registrations failed", err, "Unable to load registrations.")
		return
	}
	defer cur.Close(ctx)

	var rows []models.Registration
	if err := cur.All(ctx, &rows); err != nil {
		h.ErrLog.LogServerError(w, r, "decode registrations failed", err, "Unable to load registrations.")
		return
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	page := paging.TrimPage(&rows, before, after)
	shown := len(rows)
	rng := paging.ComputeRange(start, shown)

	prevCur, nextCur := paging.BuildCursors(rows,
		func(reg models.Registration) string { return reg.Email },
		func(reg models.Registration) primitive.ObjectID { return reg.ID })

	uierrors.JSON(w, http.StatusOK, listResponse{
		Items:      rows,
		Shown:      shown,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
	})
}
