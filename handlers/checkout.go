package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/checkout"
	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

const tracerName = "flintandflours-api"

// CheckoutService routes carts to payment gateways and settles the
// resulting transactions.
type CheckoutService interface {
	CreateSession(ctx context.Context, in checkout.CreateSessionInput) (*models.CheckoutResponse, error)
	Status(ctx context.Context, transactionID string) (*models.PaymentStatusResponse, error)
	VerifyPayment(ctx context.Context, in models.VerifyPaymentRequest) (*models.Order, error)
	CompleteSession(ctx context.Context, sessionID string) (*models.Order, error)
}

// WebhookParser validates and decodes signed Stripe webhook payloads.
type WebhookParser interface {
	ParseWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type CheckoutHandler struct {
	service  CheckoutService
	webhooks WebhookParser
	catalog  *pricing.Catalog

	// frontendBaseURL anchors gateway redirect URLs when the request
	// carries no Origin header.
	frontendBaseURL string
	logger          *zap.Logger
}

func NewCheckoutHandler(service CheckoutService, webhooks WebhookParser, catalog *pricing.Catalog, frontendBaseURL string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:         service,
		webhooks:        webhooks,
		catalog:         catalog,
		frontendBaseURL: frontendBaseURL,
		logger:          logger,
	}
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "CreateCheckoutSession")
	defer span.End()

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.catalog.Has(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	user := middleware.CurrentUser(c)

	span.SetAttributes(
		attribute.String("checkout.region", req.Region),
		attribute.Int("checkout.items", len(req.Items)),
	)

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = h.frontendBaseURL
	}

	resp, err := h.service.CreateSession(ctx, checkout.CreateSessionInput{
		Region:          req.Region,
		Items:           req.Items,
		UserEmail:       user.Email,
		DeliveryAddress: req.DeliveryAddress,
		PromoCode:       req.PromoCode,
		Origin:          origin,
	})
	if err != nil {
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrGatewayUnavailable):
			h.logger.Error("Payment gateway unavailable", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway unavailable"})
		default:
			h.logger.Error("Failed to create checkout session", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	span.SetAttributes(attribute.String("checkout.transaction_id", resp.TransactionID))

	traceID := middleware.GetTraceID(ctx)
	h.logger.Info("Checkout session created",
		zap.String("trace_id", traceID),
		zap.String("transaction_id", resp.TransactionID),
		zap.String("gateway", resp.PaymentGateway))
	c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) Status(c *gin.Context) {
	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "CheckoutStatus")
	defer span.End()

	transactionID := c.Param("transactionId")
	span.SetAttributes(attribute.String("checkout.transaction_id", transactionID))

	resp, err := h.service.Status(ctx, transactionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		h.logger.Error("Failed to get payment status", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "VerifyPayment")
	defer span.End()

	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("razorpay.order_id", req.RazorpayOrderID))

	order, err := h.service.VerifyPayment(ctx, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, models.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			traceID := middleware.GetTraceID(ctx)
			h.logger.Error("Failed to verify payment", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	traceID := middleware.GetTraceID(ctx)
	h.logger.Info("Payment verified",
		zap.String("trace_id", traceID),
		zap.String("order_id", order.ID),
		zap.String("transaction_id", order.TransactionID))
	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment verified successfully",
		"order_id":       order.ID,
		"transaction_id": order.TransactionID,
	})
}

// StripeWebhook handles signed gateway callbacks. Redeliveries are safe:
// completing an already-completed session is a no-op.
func (h *CheckoutHandler) StripeWebhook(c *gin.Context) {
	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "StripeWebhook")
	defer span.End()

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := h.webhooks.ParseWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("Rejected webhook with bad signature", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	span.SetAttributes(attribute.String("stripe.event_type", string(event.Type)))

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
			return
		}
		if _, err := h.service.CompleteSession(ctx, session.ID); err != nil {
			span.RecordError(err)
			traceID := middleware.GetTraceID(ctx)
			h.logger.Error("Failed to complete checkout session",
				zap.String("trace_id", traceID),
				zap.String("session_id", session.ID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	default:
		// Other event types are acknowledged without action
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
