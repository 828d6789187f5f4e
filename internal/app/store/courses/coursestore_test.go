package coursestore_test

import (
	"errors"
	"testing"

	coursestore "github.com/rhinogeeks/coursedesk/internal/app/store/courses"
	"github.com/rhinogeeks/coursedesk/internal/app/system/indexes"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"github.com/rhinogeeks/coursedesk/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Course{
		Title: "  Go for Backend Engineers  ",
		Price: 120,
		Mentor: &models.Mentor{
			Name: "Priya Nair",
			Bio:  "Ten years of service plumbing.",
		},
		Modules: []models.CourseModule{
			{Title: "Foundations", Topics: []string{"Syntax", "Tooling"}},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Title != "Go for Backend Engineers" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.Slug != "go-for-backend-engineers" {
		t.Errorf("expected derived slug, got %q", created.Slug)
	}
	if created.Published {
		t.Error("new courses must start unpublished")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name   string
		course models.Course
	}{
		{"missing title", models.Course{Price: 10}},
		{"bad slug", models.Course{Title: "Ok", Slug: "Not A Slug!"}},
		{"negative price", models.Course{Title: "Ok", Price: -1}},
	}
	for _, tc := range cases {
		if _, err := store.Create(ctx, tc.course); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestStore_Create_DuplicateSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.Course{Title: "First", Slug: "same-slug"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Course{Title: "Second", Slug: "same-slug"})
	if !errors.Is(err, coursestore.ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestStore_UpdateKeepsSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Course{Title: "Original Title", Price: 50})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, coursestore.Update{
		Title:       "Renamed Title",
		Description: "<p>New description</p>",
		Price:       75,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Renamed Title" || got.Price != 75 {
		t.Errorf("unexpected course after update: %+v", got)
	}
	if got.Slug != created.Slug {
		t.Errorf("slug must stay %q, got %q", created.Slug, got.Slug)
	}
	if got.UpdatedAt == nil || got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	if err := store.Update(ctx, primitive.NewObjectID(), coursestore.Update{Title: "Ghost"}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for unknown id, got %v", err)
	}
}

func TestStore_SetPublishedAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Course{Title: "Alpha Course"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Course{Title: "Beta Course"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetPublished(ctx, a.ID, true); err != nil {
		t.Fatalf("SetPublished failed: %v", err)
	}

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(all))
	}

	public, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(public) != 1 || public[0].ID != a.ID {
		t.Errorf("expected only the published course, got %+v", public)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Course{Title: "Doomed"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetBySlug(ctx, created.Slug); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected course to be gone, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments on second delete, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Go for Backend Engineers", "go-for-backend-engineers"},
		{"  Intro: MongoDB & Redis!  ", "intro-mongodb-redis"},
		{"Café Culture 101", "cafe-culture-101"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := coursestore.Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
