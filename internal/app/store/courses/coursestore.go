// Package coursestore persists catalog courses.
package coursestore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rhinogeeks/coursedesk/internal/app/system/normalize"
	"github.com/rhinogeeks/coursedesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

var (
	// ErrDuplicateSlug is returned when creating a course whose slug exists.
	ErrDuplicateSlug = errors.New("a course with this slug already exists")

	errTitleRequired = errors.New("title is required")
	errBadSlug       = errors.New("slug must be lowercase letters, digits, and hyphens")
	errBadPrice      = errors.New("price must be a non-negative number")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Create inserts a new course after normalizing & validating fields.
// A missing slug is derived from the title.
func (s *Store) Create(ctx context.Context, course models.Course) (models.Course, error) {
	course.ID = primitive.NewObjectID()
	course.Title = normalize.Name(course.Title)
	course.TitleCI = text.Fold(course.Title)
	course.Slug = strings.TrimSpace(course.Slug)

	if course.Title == "" {
		return models.Course{}, errTitleRequired
	}
	if course.Slug == "" {
		course.Slug = Slugify(course.Title)
	}
	if !slugRe.MatchString(course.Slug) {
		return models.Course{}, errBadSlug
	}
	if course.Price < 0 {
		return models.Course{}, errBadPrice
	}

	course.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, course); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateSlug
		}
		return models.Course{}, err
	}
	return course, nil
}

// GetBySlug loads a course by its public slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	if err := s.c.FindOne(ctx, bson.M{"slug": strings.TrimSpace(slug)}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByID loads a course by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Update holds the fields an admin can edit on a course.
type Update struct {
	Title       string
	Description string
	Price       float64
	Mentor      *models.Mentor
	Modules     []models.CourseModule
}

// Update edits a course's content fields. The slug is immutable once
// created because registrations reference it.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	upd.Title = normalize.Name(upd.Title)
	if upd.Title == "" {
		return errTitleRequired
	}
	if upd.Price < 0 {
		return errBadPrice
	}

	set := bson.M{
		"title":       upd.Title,
		"title_ci":    text.Fold(upd.Title),
		"description": upd.Description,
		"price":       upd.Price,
		"mentor":      upd.Mentor,
		"modules":     upd.Modules,
		"updated_at":  time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPublished toggles a course's public visibility.
func (s *Store) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"published": published, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a course. Existing registrations keep their slug
// reference; the catalog simply stops resolving it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns courses sorted by title. When publishedOnly is set, only
// published courses are returned (the public catalog view).
func (s *Store) List(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []models.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Slugify derives a URL slug from a course title.
func Slugify(title string) string {
	folded := text.Fold(title)
	var b strings.Builder
	prevHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
