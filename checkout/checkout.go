// Package checkout routes priced carts to the region's payment gateway,
// tracks the resulting transaction, and materializes orders once
// payment completes.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/cart"
	"github.com/ronitchordiya/Flint-and-Flour/gateway"
	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Transaction, error)
	GetByGatewaySessionID(ctx context.Context, sessionID string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
}

type EventPublisher interface {
	PublishCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error
}

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, recipient string, order *models.Order) error
}

type Router struct {
	catalog      *pricing.Catalog
	carts        *cart.Assembler
	transactions TransactionStore
	materializer *Materializer
	hosted       gateway.HostedCheckout
	orderConfirm gateway.OrderConfirm
	events       EventPublisher
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

// Deps carries the router's collaborators. Events and Notifier may be
// nil; both are best-effort side channels.
type Deps struct {
	Catalog      *pricing.Catalog
	Carts        *cart.Assembler
	Transactions TransactionStore
	Orders       OrderStore
	Hosted       gateway.HostedCheckout
	OrderConfirm gateway.OrderConfirm
	Events       EventPublisher
	Notifier     Notifier
	Logger       *zap.Logger
}

func NewRouter(deps Deps) *Router {
	return &Router{
		catalog:      deps.Catalog,
		carts:        deps.Carts,
		transactions: deps.Transactions,
		materializer: NewMaterializer(deps.Orders, deps.Catalog, deps.Logger),
		hosted:       deps.Hosted,
		orderConfirm: deps.OrderConfirm,
		events:       deps.Events,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

type CreateSessionInput struct {
	Region          string
	Items           []models.CartItem
	UserEmail       string
	DeliveryAddress models.DeliveryAddress
	PromoCode       string
	Origin          string
}

// CreateSession prices the cart, records an initiated transaction, and
// opens a payment session on the region's gateway. A gateway failure
// leaves the transaction in "initiated" for later reconciliation; there
// is no automatic retry.
func (r *Router) CreateSession(ctx context.Context, in CreateSessionInput) (*models.CheckoutResponse, error) {
	region, ok := r.catalog.Lookup(in.Region)
	if !ok {
		return nil, models.InvalidRequestf("Unknown region '%s'", in.Region)
	}

	pricedCart, err := r.carts.Price(ctx, in.Region, in.Items)
	if err != nil {
		return nil, err
	}

	now := r.now()
	tx := &models.Transaction{
		ID:              uuid.New().String(),
		Gateway:         region.PaymentGateway,
		Amount:          pricedCart.Total,
		Currency:        pricedCart.Currency,
		Status:          models.TransactionInitiated,
		Region:          in.Region,
		UserEmail:       in.UserEmail,
		Cart:            pricedCart,
		DeliveryAddress: in.DeliveryAddress,
		Metadata: map[string]string{
			"promo_code":       in.PromoCode,
			"delivery_message": pricedCart.DeliveryMessage,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	r.publishEvent(ctx, tx, "", "checkout_initiated")

	resp := &models.CheckoutResponse{
		TransactionID:  tx.ID,
		PaymentGateway: tx.Gateway,
		Amount:         tx.Amount,
		Currency:       tx.Currency,
	}

	switch tx.Gateway {
	case pricing.GatewayStripe:
		items := make([]gateway.LineItem, 0, len(pricedCart.Items))
		for _, item := range pricedCart.Items {
			items = append(items, gateway.LineItem{
				Name:       item.Name,
				UnitAmount: int64(math.Round(item.UnitPrice * 100)),
				Quantity:   int64(item.Quantity),
			})
		}
		created, err := r.hosted.CreateSession(ctx, gateway.SessionParams{
			TransactionID: tx.ID,
			Currency:      tx.Currency,
			Items:         items,
			CustomerEmail: in.UserEmail,
			Origin:        in.Origin,
		})
		if err != nil {
			return nil, r.failGatewayCall(ctx, tx, err)
		}
		tx.GatewaySessionID = created.SessionID
		resp.CheckoutURL = created.CheckoutURL

	case pricing.GatewayRazorpay:
		created, err := r.orderConfirm.CreateOrder(ctx, gateway.OrderParams{
			TransactionID: tx.ID,
			Amount:        tx.Amount,
			Currency:      tx.Currency,
			Notes: map[string]interface{}{
				"transaction_id": tx.ID,
				"user_email":     in.UserEmail,
			},
		})
		if err != nil {
			return nil, r.failGatewayCall(ctx, tx, err)
		}
		tx.GatewayOrderID = created.OrderID
		resp.GatewayOrderID = created.OrderID
		resp.GatewayKeyID = created.KeyID

	default:
		return nil, models.InvalidRequestf("Unsupported payment gateway '%s'", tx.Gateway)
	}

	tx.Status = models.TransactionPending
	tx.UpdatedAt = r.now()
	if err := r.transactions.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	middleware.RecordCheckoutSession(tx.Gateway, "created")
	return resp, nil
}

func (r *Router) failGatewayCall(ctx context.Context, tx *models.Transaction, err error) error {
	r.logger.Error("Payment gateway call failed",
		zap.String("transaction_id", tx.ID),
		zap.String("gateway", tx.Gateway),
		zap.Error(err))
	middleware.RecordCheckoutSession(tx.Gateway, "failed")
	r.publishEvent(ctx, tx, "", "checkout_failed")
	return fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
}

// Status reports a transaction's payment state. For hosted sessions
// still pending it polls the gateway: paid completes the transaction
// and materializes the order, expired cancels it. A failed poll falls
// back to the last persisted status rather than erroring.
func (r *Router) Status(ctx context.Context, transactionID string) (*models.PaymentStatusResponse, error) {
	tx, err := r.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	resp := &models.PaymentStatusResponse{
		TransactionID: tx.ID,
		Status:        tx.Status,
	}

	if tx.Status == models.TransactionCompleted {
		if order, err := r.materializer.orders.GetByTransactionID(ctx, tx.ID); err == nil {
			resp.OrderID = order.ID
		}
		return resp, nil
	}

	if tx.GatewaySessionID == "" || r.hosted == nil {
		return resp, nil
	}

	state, err := r.hosted.SessionStatus(ctx, tx.GatewaySessionID)
	if err != nil {
		r.logger.Warn("Gateway status query failed, returning last known status",
			zap.String("transaction_id", tx.ID),
			zap.Error(err))
		return resp, nil
	}

	switch state {
	case gateway.PaymentStatePaid:
		order, err := r.completeTransaction(ctx, tx)
		if err != nil {
			return nil, err
		}
		resp.Status = models.TransactionCompleted
		resp.OrderID = order.ID
	case gateway.PaymentStateExpired:
		tx.Status = models.TransactionCancelled
		tx.UpdatedAt = r.now()
		if err := r.transactions.Update(ctx, tx); err != nil {
			return nil, fmt.Errorf("update transaction: %w", err)
		}
		resp.Status = models.TransactionCancelled
	}
	return resp, nil
}

// VerifyPayment checks a Razorpay client confirmation. The signature
// must match before the transaction is touched.
func (r *Router) VerifyPayment(ctx context.Context, in models.VerifyPaymentRequest) (*models.Order, error) {
	tx, err := r.transactions.GetByGatewayOrderID(ctx, in.RazorpayOrderID)
	if err != nil {
		return nil, err
	}

	if !r.orderConfirm.VerifySignature(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		return nil, models.InvalidRequestf("Invalid signature")
	}

	tx.GatewayPaymentID = in.RazorpayPaymentID
	return r.completeTransaction(ctx, tx)
}

// CompleteSession is the webhook completion path. An unknown session is
// logged and swallowed so the sender is acknowledged instead of
// retrying forever.
func (r *Router) CompleteSession(ctx context.Context, sessionID string) (*models.Order, error) {
	tx, err := r.transactions.GetByGatewaySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Webhook for unknown checkout session",
				zap.String("session_id", sessionID))
			return nil, nil
		}
		return nil, err
	}
	return r.completeTransaction(ctx, tx)
}

func (r *Router) completeTransaction(ctx context.Context, tx *models.Transaction) (*models.Order, error) {
	tx.Status = models.TransactionCompleted
	tx.UpdatedAt = r.now()
	if err := r.transactions.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	order, created, err := r.materializer.Materialize(ctx, tx)
	if err != nil {
		return nil, err
	}
	if created {
		r.publishEvent(ctx, tx, order.ID, "payment_completed")
		r.sendConfirmation(ctx, order)
	}
	return order, nil
}

func (r *Router) sendConfirmation(ctx context.Context, order *models.Order) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.SendOrderConfirmation(ctx, order.UserEmail, order); err != nil {
		r.logger.Warn("Failed to send order confirmation",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (r *Router) publishEvent(ctx context.Context, tx *models.Transaction, orderID, eventType string) {
	if r.events == nil {
		return
	}
	event := models.CheckoutEvent{
		TransactionID: tx.ID,
		UserEmail:     tx.UserEmail,
		Region:        tx.Region,
		Gateway:       tx.Gateway,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		OrderID:       orderID,
		EventType:     eventType,
	}
	if err := r.events.PublishCheckoutEvent(ctx, event); err != nil {
		r.logger.Warn("Failed to publish checkout event",
			zap.String("event_type", eventType),
			zap.String("transaction_id", tx.ID),
			zap.Error(err))
	}
}
