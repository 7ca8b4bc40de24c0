package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/checkout"
	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
)

// OrderStore is the order persistence surface the handlers need.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// ShippingMailer sends tracking emails when an order ships.
type ShippingMailer interface {
	SendShippingUpdate(ctx context.Context, recipient string, order *models.Order) error
}

type OrderHandler struct {
	orders OrderStore
	mailer ShippingMailer
	events checkout.EventPublisher
	logger *zap.Logger
}

// NewOrderHandler wires the order endpoints. Events may be nil when event
// publishing is disabled.
func NewOrderHandler(orders OrderStore, mailer ShippingMailer, events checkout.EventPublisher, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		mailer: mailer,
		events: events,
		logger: logger,
	}
}

// ListMine returns the authenticated customer's orders, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.ListByEmail(c.Request.Context(), user.Email)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to list orders", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Get returns one order. Customers only see their own orders; an order
// belonging to someone else reads as not found.
func (h *OrderHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)

	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to get order", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if order.UserEmail != user.Email && !user.IsAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListAll returns every order for the admin dashboard.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to list orders", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateStatus lets an admin change order and delivery status. Moving the
// delivery status to shipped sends the tracking email and emits an
// order_shipped event.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "UpdateOrderStatus")
	defer span.End()

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		h.logger.Error("Failed to get order", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if req.Status != "" {
		status := models.OrderStatus(req.Status)
		if status != models.OrderStatusConfirmed && status != models.OrderStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be 'confirmed' or 'cancelled'"})
			return
		}
		order.Status = status
	}

	justShipped := false
	if req.DeliveryStatus != "" {
		delivery := models.DeliveryStatus(req.DeliveryStatus)
		if delivery != models.DeliveryProcessing && delivery != models.DeliveryShipped && delivery != models.DeliveryDelivered {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery status must be 'processing', 'shipped' or 'delivered'"})
			return
		}
		justShipped = delivery == models.DeliveryShipped && order.DeliveryStatus != models.DeliveryShipped
		order.DeliveryStatus = delivery
	}

	if req.TrackingLink != nil {
		order.TrackingLink = *req.TrackingLink
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := h.orders.Update(ctx, order); err != nil {
		span.RecordError(err)
		traceID := middleware.GetTraceID(ctx)
		h.logger.Error("Failed to update order", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if justShipped {
		if err := h.mailer.SendShippingUpdate(ctx, order.UserEmail, order); err != nil {
			// Don't fail the update, but log the error
			h.logger.Error("Failed to send shipping update", zap.Error(err))
		}
		if h.events != nil {
			event := models.CheckoutEvent{
				TransactionID: order.TransactionID,
				UserEmail:     order.UserEmail,
				Region:        order.Region,
				Amount:        order.Total,
				Currency:      order.Currency,
				OrderID:       order.ID,
				EventType:     "order_shipped",
			}
			if err := h.events.PublishCheckoutEvent(ctx, event); err != nil {
				h.logger.Error("Failed to publish order_shipped event", zap.Error(err))
			}
		}
	}

	traceID := middleware.GetTraceID(ctx)
	h.logger.Info("Order status updated",
		zap.String("trace_id", traceID),
		zap.String("order_id", order.ID),
		zap.String("status", string(order.Status)),
		zap.String("delivery_status", string(order.DeliveryStatus)))
	c.JSON(http.StatusOK, order)
}
