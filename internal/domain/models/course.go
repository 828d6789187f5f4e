// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a catalog entry. Its Price is the base amount for promo and
// payment calculations; everything else is presentation content managed
// from the admin panel.
type Course struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Slug    string             `bson:"slug" json:"slug"`

	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
	Published   bool    `bson:"published" json:"published"`

	Mentor  *Mentor        `bson:"mentor,omitempty" json:"mentor,omitempty"`
	Modules []CourseModule `bson:"modules,omitempty" json:"modules,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Mentor is the instructor blurb embedded on a course.
type Mentor struct {
	Name     string `bson:"name" json:"name"`
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
}

// CourseModule is one ordered unit of a course syllabus.
type CourseModule struct {
	Title  string   `bson:"title" json:"title"`
	Topics []string `bson:"topics,omitempty" json:"topics,omitempty"`
}
