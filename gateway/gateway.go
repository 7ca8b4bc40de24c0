// Package gateway wraps the payment providers behind two capability
// interfaces: hosted-redirect checkout (Stripe) and order-plus-client-
// confirmation (Razorpay).
package gateway

import "context"

// SessionCreated is the outcome of a hosted checkout session create.
type SessionCreated struct {
	SessionID   string
	CheckoutURL string
}

// OrderCreated is the outcome of a gateway order create. KeyID is the
// gateway's public key identifier, safe to hand to the client.
type OrderCreated struct {
	OrderID string
	KeyID   string
}

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
	PaymentStateExpired PaymentState = "expired"
)

type LineItem struct {
	Name       string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

type SessionParams struct {
	TransactionID string
	Currency      string
	Items         []LineItem
	CustomerEmail string
	Origin        string // redirect URL base, from the caller
}

type OrderParams struct {
	TransactionID string
	Amount        float64 // major currency units
	Currency      string
	Notes         map[string]interface{}
}

// HostedCheckout is the redirect-style gateway: create a session, send
// the customer to its URL, poll its payment state.
type HostedCheckout interface {
	CreateSession(ctx context.Context, p SessionParams) (*SessionCreated, error)
	SessionStatus(ctx context.Context, sessionID string) (PaymentState, error)
}

// OrderConfirm is the client-confirmation gateway: create an order, let
// the customer's client pay it, verify the signed callback.
type OrderConfirm interface {
	CreateOrder(ctx context.Context, p OrderParams) (*OrderCreated, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
