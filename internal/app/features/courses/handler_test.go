package courses_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/rhinogeeks/coursedesk/internal/app/features/errors"
	"github.com/rhinogeeks/coursedesk/internal/app/features/courses"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"github.com/rhinogeeks/coursedesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newHandlers(t *testing.T) (*courses.PublicHandler, *courses.AdminHandler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	pub := courses.NewPublicHandler(db, errLog, logger)
	adm := courses.NewAdminHandler(db, errLog, logger)
	return pub, adm, testutil.NewFixtures(t, db)
}

func TestServeList_PublishedOnly(t *testing.T) {
	pub, _, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "Go Basics", "go-basics", 100)
	draft := fixtures.CreateCourse(ctx, "Draft Course", "draft-course", 50)
	_, err := fixtures.DB().Collection("courses").UpdateOne(ctx,
		bson.M{"_id": draft.ID}, bson.M{"$set": bson.M{"published": false}})
	if err != nil {
		t.Fatalf("failed to unpublish fixture: %v", err)
	}

	req := httptest.NewRequest("GET", "/courses", nil)
	rec := httptest.NewRecorder()
	pub.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Courses []struct {
			Slug  string  `json:"slug"`
			Price float64 `json:"price"`
		} `json:"courses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Courses) != 1 {
		t.Fatalf("expected 1 published course, got %d", len(resp.Courses))
	}
	if resp.Courses[0].Slug != "go-basics" {
		t.Errorf("unexpected course: %+v", resp.Courses[0])
	}
}

func TestServeDetail(t *testing.T) {
	pub, _, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "Go Basics", "go-basics", 100)

	req := httptest.NewRequest("GET", "/courses/go-basics", nil)
	req = testutil.WithChiURLParam(req, "slug", "go-basics")
	rec := httptest.NewRecorder()
	pub.ServeDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	var course models.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &course); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if course.Title != "Go Basics" || len(course.Modules) == 0 {
		t.Errorf("expected full course payload, got %+v", course)
	}
}

func TestServeDetail_UnpublishedReadsAsMissing(t *testing.T) {
	pub, _, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	draft := fixtures.CreateCourse(ctx, "Draft", "draft", 10)
	_, err := fixtures.DB().Collection("courses").UpdateOne(ctx,
		bson.M{"_id": draft.ID}, bson.M{"$set": bson.M{"published": false}})
	if err != nil {
		t.Fatalf("failed to unpublish fixture: %v", err)
	}

	req := httptest.NewRequest("GET", "/courses/draft", nil)
	req = testutil.WithChiURLParam(req, "slug", "draft")
	rec := httptest.NewRecorder()
	pub.ServeDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAdminCreate_DerivesSlugAndSanitizes(t *testing.T) {
	_, adm, _ := newHandlers(t)

	body := `{
		"title": "Advanced Concurrency",
		"description": "<p>Deep dive</p><script>alert(1)</script>",
		"price": 150
	}`
	req := httptest.NewRequest("POST", "/admin/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	adm.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var course models.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &course); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if course.Slug != "advanced-concurrency" {
		t.Errorf("expected derived slug, got %q", course.Slug)
	}
	if strings.Contains(course.Description, "script") {
		t.Errorf("expected sanitized description, got %q", course.Description)
	}
	if course.Published {
		t.Error("new courses must start as drafts")
	}
}

func TestAdminCreate_DuplicateSlug(t *testing.T) {
	_, adm, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCourse(ctx, "Go Basics", "go-basics", 100)

	body := `{"title": "Go Basics", "slug": "go-basics", "price": 90}`
	req := httptest.NewRequest("POST", "/admin/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	adm.ServeCreate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestAdminPublishAndDelete(t *testing.T) {
	_, adm, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Toggle Me", "toggle-me", 10)

	req := httptest.NewRequest("POST", "/admin/courses/"+course.ID.Hex()+"/publish",
		strings.NewReader(`{"published": false}`))
	req = testutil.WithChiURLParam(req, "id", course.ID.Hex())
	rec := httptest.NewRecorder()
	adm.ServePublish(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: expected %d, got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest("DELETE", "/admin/courses/"+course.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", course.ID.Hex())
	rec = httptest.NewRecorder()
	adm.ServeDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest("GET", "/admin/courses/"+course.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", course.ID.Hex())
	rec = httptest.NewRecorder()
	adm.ServeGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAdminUpdate_SlugImmutable(t *testing.T) {
	_, adm, fixtures := newHandlers(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	course := fixtures.CreateCourse(ctx, "Stable Slug", "stable-slug", 10)

	body := `{"title": "Renamed Course", "slug": "new-slug", "price": 20}`
	req := httptest.NewRequest("PUT", "/admin/courses/"+course.ID.Hex(), strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", course.ID.Hex())
	rec := httptest.NewRecorder()
	adm.ServeUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var updated models.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if updated.Title != "Renamed Course" {
		t.Errorf("expected updated title, got %q", updated.Title)
	}
	if updated.Slug != "stable-slug" {
		t.Errorf("slug must not change on update, got %q", updated.Slug)
	}
}
