package models

type CheckoutEvent struct {
	TransactionID string  `json:"transaction_id"`
	UserEmail     string  `json:"user_email"`
	Region        string  `json:"region"`
	Gateway       string  `json:"gateway"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	OrderID       string  `json:"order_id,omitempty"`
	EventType     string  `json:"event_type"` // checkout_initiated, checkout_failed, payment_completed, order_shipped
}
