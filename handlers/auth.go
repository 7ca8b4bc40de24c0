package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

const regionErrorMessage = "Region must be 'India' or 'Canada'"

const resetTokenTTL = time.Hour

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetByActiveResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRegion(ctx context.Context, id, region string) error
}

// AccountMailer sends the account lifecycle emails.
type AccountMailer interface {
	SendVerificationEmail(ctx context.Context, recipient, token string) error
	SendPasswordResetEmail(ctx context.Context, recipient, token string) error
}

type AuthHandler struct {
	users     UserStore
	mailer    AccountMailer
	catalog   *pricing.Catalog
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuthHandler(users UserStore, mailer AccountMailer, catalog *pricing.Catalog, jwtSecret []byte, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		mailer:    mailer,
		catalog:   catalog,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate region
	if !h.catalog.Has(req.Region) {
		c.JSON(http.StatusBadRequest, gin.H{"error": regionErrorMessage})
		return
	}

	// Check if user already exists
	_, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if !errors.Is(err, models.ErrNotFound) {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to hash password", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:                     uuid.New().String(),
		Email:                  req.Email,
		PasswordHash:           string(hashedPassword),
		Region:                 req.Region,
		EmailVerificationToken: generateToken(),
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to create user", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.mailer.SendVerificationEmail(c.Request.Context(), user.Email, user.EmailVerificationToken); err != nil {
		// Don't fail the registration, but log the error
		h.logger.Error("Failed to send verification email", zap.Error(err))
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("User registered", zap.String("trace_id", traceID), zap.String("email", user.Email))
	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	tokens, err := h.issueTokens(user.ID)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to generate tokens", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("User logged in", zap.String("trace_id", traceID), zap.String("email", user.Email))
	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := middleware.VerifyToken(req.RefreshToken, h.jwtSecret, "refresh")
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, middleware.ErrInvalidTokenType) {
			msg = "Invalid token type"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	// Verify user still exists
	if _, err := h.users.GetByID(c.Request.Context(), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	tokens, err := h.issueTokens(userID)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to generate tokens", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.EmailVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByVerificationToken(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification token"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.users.MarkEmailVerified(c.Request.Context(), user.ID); err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to mark email verified", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("Email verified", zap.String("trace_id", traceID), zap.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Don't reveal whether the email exists
	genericResponse := gin.H{"message": "If the email exists, a reset link has been sent"}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusOK, genericResponse)
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resetToken := generateToken()
	expires := time.Now().UTC().Add(resetTokenTTL)

	if err := h.users.SetResetToken(c.Request.Context(), user.ID, resetToken, expires); err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to store reset token", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.mailer.SendPasswordResetEmail(c.Request.Context(), user.Email, resetToken); err != nil {
		h.logger.Error("Failed to send password reset email", zap.Error(err))
	}

	c.JSON(http.StatusOK, genericResponse)
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req models.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByActiveResetToken(c.Request.Context(), req.Token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Database error", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to hash password", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, string(hashedPassword)); err != nil {
		traceID := middleware.GetTraceID(c.Request.Context())
		h.logger.Error("Failed to update password", zap.String("trace_id", traceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	traceID := middleware.GetTraceID(c.Request.Context())
	h.logger.Info("Password reset", zap.String("trace_id", traceID), zap.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *AuthHandler) issueTokens(userID string) (models.TokenResponse, error) {
	accessToken, err := middleware.CreateAccessToken(userID, h.jwtSecret)
	if err != nil {
		return models.TokenResponse{}, err
	}
	refreshToken, err := middleware.CreateRefreshToken(userID, h.jwtSecret)
	if err != nil {
		return models.TokenResponse{}, err
	}
	return models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// generateToken returns a URL-safe random token for email verification and
// password reset links.
func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
