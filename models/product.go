package models

import "time"

type Product struct {
	ID                   string    `json:"id" bson:"id"`
	Name                 string    `json:"name" bson:"name"`
	Description          string    `json:"description" bson:"description"`
	Category             string    `json:"category" bson:"category"`
	Price                float64   `json:"price" bson:"price"` // base currency (INR)
	ImageURL             string    `json:"image_url" bson:"image_url"`
	SubscriptionEligible bool      `json:"subscription_eligible" bson:"subscription_eligible"`
	InStock              bool      `json:"in_stock" bson:"in_stock"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateProductRequest struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	Category             string  `json:"category" binding:"required"`
	Price                float64 `json:"price" binding:"required,gt=0"`
	ImageURL             string  `json:"image_url"`
	SubscriptionEligible bool    `json:"subscription_eligible"`
	InStock              *bool   `json:"in_stock"`
}

type UpdateProductRequest struct {
	Name                 *string  `json:"name"`
	Description          *string  `json:"description"`
	Category             *string  `json:"category"`
	Price                *float64 `json:"price" binding:"omitempty,gt=0"`
	ImageURL             *string  `json:"image_url"`
	SubscriptionEligible *bool    `json:"subscription_eligible"`
	InStock              *bool    `json:"in_stock"`
}

// ProductResponse is a product with its price converted to the
// requesting region's currency.
type ProductResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	Currency             string  `json:"currency"`
	ImageURL             string  `json:"image_url"`
	SubscriptionEligible bool    `json:"subscription_eligible"`
	InStock              bool    `json:"in_stock"`
}
