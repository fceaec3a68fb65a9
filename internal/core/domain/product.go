package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

const (
	MinRating = 0
	MaxRating = 5
)

// Product is a catalog entry. Price is always positive and Rating stays
// within [MinRating, MaxRating].
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	Rating      float64   `json:"rating" bson:"rating"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Rating      *float64
	Image       *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil &&
		p.Price == nil && p.Rating == nil && p.Image == nil
}

// Apply merges the patch into a copy of the product.
func (p ProductPatch) Apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Rating != nil {
		prod.Rating = *p.Rating
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	return prod
}

// ProductFilter narrows a catalog listing. Zero values disable a criterion.
type ProductFilter struct {
	Search    string
	Category  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
	Limit     int
	Offset    int
}
