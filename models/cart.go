package models

const (
	SubscriptionOneTime = "one-time"
	SubscriptionWeekly  = "weekly"
	SubscriptionMonthly = "monthly"
)

type CartItem struct {
	ProductID        string `json:"product_id" binding:"required"`
	Quantity         int    `json:"quantity" binding:"required,gt=0"`
	SubscriptionType string `json:"subscription_type"`
}

type CartRequest struct {
	Region string     `json:"region" binding:"required"`
	Items  []CartItem `json:"items" binding:"required,min=1,dive"`
}

type PricedItem struct {
	ProductID        string  `json:"product_id" bson:"product_id"`
	Name             string  `json:"name" bson:"name"`
	Quantity         int     `json:"quantity" bson:"quantity"`
	SubscriptionType string  `json:"subscription_type" bson:"subscription_type"`
	UnitPrice        float64 `json:"unit_price" bson:"unit_price"`
	TotalPrice       float64 `json:"total_price" bson:"total_price"`
}

type CartResponse struct {
	Items           []PricedItem `json:"items" bson:"items"`
	Subtotal        float64      `json:"subtotal" bson:"subtotal"`
	Tax             float64      `json:"tax" bson:"tax"`
	Total           float64      `json:"total" bson:"total"`
	Currency        string       `json:"currency" bson:"currency"`
	DeliveryMessage string       `json:"delivery_message" bson:"delivery_message"`
}
