package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

func setupUserTest(t *testing.T) (*fakeUserStore, *gin.Engine) {
	store := newFakeUserStore()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	handler := NewUserHandler(store, pricing.DefaultCatalog(), logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authRequired := middleware.AuthRequired([]byte(testJWTSecret), store, logger)
	router.GET("/api/user/profile", authRequired, handler.GetProfile)
	router.PUT("/api/user/profile", authRequired, handler.UpdateProfile)

	return store, router
}

func bearerToken(t *testing.T, userID string) string {
	token, err := middleware.CreateAccessToken(userID, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to create access token: %v", err)
	}
	return "Bearer " + token
}

func TestUserHandler_GetProfile(t *testing.T) {
	store, router := setupUserTest(t)
	user := seedUser(t, store, "baker@example.com", "password123", "Canada")

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, resp.ID)
	}
	if resp.Region != "Canada" {
		t.Errorf("Expected region Canada, got %s", resp.Region)
	}
}

func TestUserHandler_GetProfile_Unauthenticated(t *testing.T) {
	_, router := setupUserTest(t)

	req := httptest.NewRequest("GET", "/api/user/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestUserHandler_UpdateProfile_Region(t *testing.T) {
	store, router := setupUserTest(t)
	user := seedUser(t, store, "baker@example.com", "password123", "India")

	reqBody := models.UpdateProfileRequest{Region: "Canada"}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/api/user/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Region != "Canada" {
		t.Errorf("Expected updated region Canada, got %s", resp.Region)
	}
}

func TestUserHandler_UpdateProfile_InvalidRegion(t *testing.T) {
	store, router := setupUserTest(t)
	user := seedUser(t, store, "baker@example.com", "password123", "India")

	reqBody := models.UpdateProfileRequest{Region: "France"}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/api/user/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "Region must be 'India' or 'Canada'" {
		t.Errorf("Expected region error message, got %q", resp["error"])
	}
}

func TestUserHandler_UpdateProfile_EmptyRegionKeepsCurrent(t *testing.T) {
	store, router := setupUserTest(t)
	user := seedUser(t, store, "baker@example.com", "password123", "India")

	body := []byte(`{}`)
	req := httptest.NewRequest("PUT", "/api/user/profile", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp models.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Region != "India" {
		t.Errorf("Expected region to stay India, got %s", resp.Region)
	}
}
