package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

// DefaultRegion is assumed when a catalog request does not name one.
const DefaultRegion = "India"

// ProductStore is the product persistence surface the handlers need.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	products ProductStore
	catalog  *pricing.Catalog
	logger   *zap.Logger
}

func NewProductHandler(products ProductStore, catalog *pricing.Catalog, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		catalog:  catalog,
		logger:   logger,
	}
}

// List returns the catalog with prices converted to the requested region's
// currency.
func (h *ProductHandler) List(c *gin.Context) {
	region := c.DefaultQuery("region", DefaultRegion)
	if !h.catalog.Has(region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	products, err := h.products.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to list products", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, h.toResponse(&products[i], region))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ProductHandler) Get(c *gin.Context) {
	region := c.DefaultQuery("region", DefaultRegion)
	if !h.catalog.Has(region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to get product", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(product, region))
}

// Create adds a product to the catalog. Prices are stored in the base
// currency (INR).
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:                   uuid.New().String(),
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		Price:                req.Price,
		ImageURL:             req.ImageURL,
		SubscriptionEligible: req.SubscriptionEligible,
		InStock:              inStock,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to create product", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("Product created", zap.String("trace_id", traceID),
		zap.String("product_id", product.ID), zap.String("name", product.Name))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to update product", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to delete product", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("Product deleted", zap.String("trace_id", traceID), zap.String("product_id", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) toResponse(p *models.Product, region string) models.ProductResponse {
	reg, _ := h.catalog.Lookup(region)
	return models.ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             p.Category,
		Price:                h.catalog.ConvertPrice(p.Price, region),
		Currency:             reg.Currency,
		ImageURL:             p.ImageURL,
		SubscriptionEligible: p.SubscriptionEligible,
		InStock:              p.InStock,
	}
}
