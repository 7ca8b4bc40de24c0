package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/cart"
	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

type CartHandler struct {
	carts   *cart.Assembler
	catalog *pricing.Catalog
	logger  *zap.Logger
}

func NewCartHandler(carts *cart.Assembler, catalog *pricing.Catalog, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// Price computes the cart totals for a region without creating anything.
func (h *CartHandler) Price(c *gin.Context) {
	var req models.CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.catalog.Has(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	resp, err := h.carts.Price(c.Request.Context(), req.Region, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			traceID := middleware.GetTraceID(c.Request.Context())
			h.logger.Error("Failed to price cart", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeliveryInfo reports same-day delivery availability for a region.
func (h *CartHandler) DeliveryInfo(c *gin.Context) {
	region := c.DefaultQuery("region", DefaultRegion)
	if !h.catalog.Has(region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	c.JSON(http.StatusOK, h.catalog.GetDeliveryInfo(region))
}
