package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

type UserHandler struct {
	users   UserStore
	catalog *pricing.Catalog
	logger  *zap.Logger
}

func NewUserHandler(users UserStore, catalog *pricing.Catalog, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:   users,
		catalog: catalog,
		logger:  logger,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)

	if req.Region != "" {
		if !h.catalog.Has(req.Region) {
			c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
			return
		}
		if err := h.users.UpdateRegion(c.Request.Context(), user.ID, req.Region); err != nil {
			traceID := middleware.GetTraceID(c.Request.Context())
			h.logger.Error("Failed to update region", zap.String("trace_id", traceID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	// Return updated user
	updated, err := h.users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to load user", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}
