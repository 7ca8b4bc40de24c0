package models

import "time"

type TransactionStatus string

const (
	TransactionInitiated TransactionStatus = "initiated"
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type DeliveryAddress struct {
	Name       string `json:"name" bson:"name"`
	Street     string `json:"street" bson:"street"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone" bson:"phone"`
}

type Transaction struct {
	ID               string            `json:"id" bson:"id"`
	Gateway          string            `json:"gateway" bson:"gateway"`
	GatewayOrderID   string            `json:"gateway_order_id,omitempty" bson:"gateway_order_id,omitempty"`
	GatewaySessionID string            `json:"gateway_session_id,omitempty" bson:"gateway_session_id,omitempty"`
	GatewayPaymentID string            `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	Amount           float64           `json:"amount" bson:"amount"`
	Currency         string            `json:"currency" bson:"currency"`
	Status           TransactionStatus `json:"status" bson:"status"`
	Region           string            `json:"region" bson:"region"`
	UserEmail        string            `json:"user_email" bson:"user_email"`
	Cart             *CartResponse     `json:"cart,omitempty" bson:"cart,omitempty"`
	DeliveryAddress  DeliveryAddress   `json:"delivery_address" bson:"delivery_address"`
	Metadata         map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
}

type CheckoutRequest struct {
	Region          string          `json:"region" binding:"required"`
	Items           []CartItem      `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	PromoCode       string          `json:"promo_code"`
}

type CheckoutResponse struct {
	TransactionID  string  `json:"transaction_id"`
	PaymentGateway string  `json:"payment_gateway"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	CheckoutURL    string  `json:"checkout_url,omitempty"`
	GatewayOrderID string  `json:"gateway_order_id,omitempty"`
	GatewayKeyID   string  `json:"gateway_key_id,omitempty"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

type PaymentStatusResponse struct {
	TransactionID string            `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	OrderID       string            `json:"order_id,omitempty"`
}
