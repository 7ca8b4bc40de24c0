package models

import "time"

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
)

type Order struct {
	ID              string          `json:"id" bson:"id"`
	UserEmail       string          `json:"user_email" bson:"user_email"`
	TransactionID   string          `json:"transaction_id" bson:"transaction_id"`
	Items           []PricedItem    `json:"items" bson:"items"`
	Subtotal        float64         `json:"subtotal" bson:"subtotal"`
	Tax             float64         `json:"tax" bson:"tax"`
	Total           float64         `json:"total" bson:"total"`
	Currency        string          `json:"currency" bson:"currency"`
	Region          string          `json:"region" bson:"region"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" bson:"delivery_address"`
	Status          OrderStatus     `json:"status" bson:"status"`
	PaymentStatus   string          `json:"payment_status" bson:"payment_status"`
	DeliveryStatus  DeliveryStatus  `json:"delivery_status" bson:"delivery_status"`
	TrackingLink    string          `json:"tracking_link,omitempty" bson:"tracking_link,omitempty"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty" bson:"delivery_date,omitempty"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" bson:"updated_at"`
}

type UpdateOrderStatusRequest struct {
	Status         string     `json:"status"`
	DeliveryStatus string     `json:"delivery_status"`
	TrackingLink   *string    `json:"tracking_link"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	Notes          *string    `json:"notes"`
}

type AdminStats struct {
	TotalUsers        int64              `json:"total_users"`
	TotalProducts     int64              `json:"total_products"`
	TotalOrders       int64              `json:"total_orders"`
	TotalTransactions int64              `json:"total_transactions"`
	OrdersByStatus    map[string]int64   `json:"orders_by_status"`
	RevenueByCurrency map[string]float64 `json:"revenue_by_currency"`
}
