package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/ronitchordiya/Flint-and-Flour/circuitbreaker"
)

// Stripe serves hosted-redirect checkouts and signed webhook events.
type Stripe struct {
	api            *client.API
	webhookSecret  string
	circuitBreaker *circuitbreaker.CircuitBreaker
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{
		api:            api,
		webhookSecret:  webhookSecret,
		circuitBreaker: circuitbreaker.New("stripe", 5, 30*time.Second),
	}
}

func (s *Stripe) CreateSession(ctx context.Context, p SessionParams) (*SessionCreated, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.Items))
	for _, item := range p.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(p.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: lineItems,
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/checkout/success?session_id={CHECKOUT_SESSION_ID}&transaction_id=%s",
			p.Origin, p.TransactionID)),
		CancelURL: stripe.String(fmt.Sprintf(
			"%s/checkout/cancel?transaction_id=%s", p.Origin, p.TransactionID)),
		Metadata: map[string]string{"transaction_id": p.TransactionID},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx

	var sess *stripe.CheckoutSession
	err := s.circuitBreaker.Execute(ctx, func() error {
		var err error
		sess, err = s.api.CheckoutSessions.New(params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &SessionCreated{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}

func (s *Stripe) SessionStatus(ctx context.Context, sessionID string) (PaymentState, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	var sess *stripe.CheckoutSession
	err := s.circuitBreaker.Execute(ctx, func() error {
		var err error
		sess, err = s.api.CheckoutSessions.Get(sessionID, params)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("get checkout session: %w", err)
	}

	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return PaymentStatePaid, nil
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return PaymentStateExpired, nil
	default:
		return PaymentStatePending, nil
	}
}

// ParseWebhookEvent verifies the Stripe-Signature header against the
// raw payload and returns the decoded event.
func (s *Stripe) ParseWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, s.webhookSecret)
}
