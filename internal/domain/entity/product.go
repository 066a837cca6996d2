package entity

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

func (c Condition) Valid() bool {
	return c == ConditionNew || c == ConditionUsed
}

type Location struct {
	Area string `bson:"area" json:"area"`
	City string `bson:"city" json:"city"`
}

type Contact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// Product is a single listing. Images holds slash-normalized stored paths,
// relative to the upload prefix, in the order they were added.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Condition   Condition          `bson:"condition" json:"condition"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	Tags        []string           `bson:"tags" json:"tags"`
	Price       float64            `bson:"price" json:"price"`
	Negotiable  bool               `bson:"negotiable" json:"negotiable"`
	Location    Location           `bson:"location" json:"location"`
	Contact     Contact            `bson:"contact" json:"contact"`
	Images      []string           `bson:"images" json:"images"`
	Seller      primitive.ObjectID `bson:"seller" json:"seller"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (p *Product) Validate() error {
	switch {
	case p.Title == "":
		return errors.New("title is required")
	case p.Description == "":
		return errors.New("description is required")
	case p.Category.IsZero():
		return errors.New("category is required")
	case p.Price < 0:
		return errors.New("price cannot be negative")
	case p.Location.Area == "" || p.Location.City == "":
		return errors.New("location area and city are required")
	case p.Contact.Name == "" || p.Contact.Email == "" || p.Contact.Phone == "":
		return errors.New("contact name, email and phone are required")
	case !p.Condition.Valid():
		return errors.New("condition must be new or used")
	}
	return nil
}

// RemoveImage prunes path from Images. Reports whether it was present.
func (p *Product) RemoveImage(path string) bool {
	for i, img := range p.Images {
		if img == path {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			return true
		}
	}
	return false
}
