package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
)

// Counter reports how many documents a collection holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// OrderStatsSource aggregates order counts and revenue for the dashboard.
type OrderStatsSource interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	RevenueByCurrency(ctx context.Context) (map[string]float64, error)
}

type AdminHandler struct {
	users        Counter
	products     Counter
	transactions Counter
	orders       OrderStatsSource
	logger       *zap.Logger
}

func NewAdminHandler(users, products, transactions Counter, orders OrderStatsSource, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		users:        users,
		products:     products,
		transactions: transactions,
		orders:       orders,
		logger:       logger,
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := models.AdminStats{}
	var err error

	if stats.TotalUsers, err = h.users.Count(ctx); err != nil {
		h.fail(c, "Failed to count users", err)
		return
	}
	if stats.TotalProducts, err = h.products.Count(ctx); err != nil {
		h.fail(c, "Failed to count products", err)
		return
	}
	if stats.TotalTransactions, err = h.transactions.Count(ctx); err != nil {
		h.fail(c, "Failed to count transactions", err)
		return
	}
	if stats.TotalOrders, err = h.orders.Count(ctx); err != nil {
		h.fail(c, "Failed to count orders", err)
		return
	}
	if stats.OrdersByStatus, err = h.orders.CountByStatus(ctx); err != nil {
		h.fail(c, "Failed to aggregate order statuses", err)
		return
	}
	if stats.RevenueByCurrency, err = h.orders.RevenueByCurrency(ctx); err != nil {
		h.fail(c, "Failed to aggregate revenue", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error) {
	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Error(msg, zap.String("trace_id", traceID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
