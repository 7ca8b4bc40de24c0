package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

// In-memory ProductStore for handler tests.
type fakeProductStore struct {
	products []*models.Product
}

func (s *fakeProductStore) Create(ctx context.Context, product *models.Product) error {
	copied := *product
	s.products = append(s.products, &copied)
	return nil
}

func (s *fakeProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeProductStore) List(ctx context.Context, category string) ([]models.Product, error) {
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeProductStore) Update(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID != id {
			continue
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.ImageURL != nil {
			p.ImageURL = *req.ImageURL
		}
		if req.SubscriptionEligible != nil {
			p.SubscriptionEligible = *req.SubscriptionEligible
		}
		if req.InStock != nil {
			p.InStock = *req.InStock
		}
		p.UpdatedAt = time.Now().UTC()
		copied := *p
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *fakeProductStore) Delete(ctx context.Context, id string) error {
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func setupProductTest(t *testing.T) (*fakeProductStore, *gin.Engine) {
	store := &fakeProductStore{}
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	handler := NewProductHandler(store, pricing.DefaultCatalog(), logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/products", handler.List)
	router.GET("/api/products/:id", handler.Get)
	router.POST("/api/admin/products", handler.Create)
	router.PUT("/api/admin/products/:id", handler.Update)
	router.DELETE("/api/admin/products/:id", handler.Delete)

	return store, router
}

func seedProduct(t *testing.T, store *fakeProductStore, id, name, category string, price float64) *models.Product {
	now := time.Now().UTC()
	product := &models.Product{
		ID:                   id,
		Name:                 name,
		Category:             category,
		Price:                price,
		SubscriptionEligible: category == "breads",
		InStock:              true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := store.Create(context.Background(), product); err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

func TestProductHandler_List_ConvertsPrices(t *testing.T) {
	store, router := setupProductTest(t)
	seedProduct(t, store, "prod-1", "Butter Croissant", "pastries", 150)

	req := httptest.NewRequest("GET", "/api/products?region=Canada", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp []models.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(resp))
	}
	if resp[0].Price != 9.0 {
		t.Errorf("Expected converted price 9.0, got %v", resp[0].Price)
	}
	if resp[0].Currency != "CAD" {
		t.Errorf("Expected currency CAD, got %s", resp[0].Currency)
	}
}

func TestProductHandler_List_DefaultsToIndia(t *testing.T) {
	store, router := setupProductTest(t)
	seedProduct(t, store, "prod-1", "Butter Croissant", "pastries", 150)

	req := httptest.NewRequest("GET", "/api/products", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp []models.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(resp))
	}
	if resp[0].Price != 150 {
		t.Errorf("Expected base price 150, got %v", resp[0].Price)
	}
	if resp[0].Currency != "INR" {
		t.Errorf("Expected currency INR, got %s", resp[0].Currency)
	}
}

func TestProductHandler_List_FiltersByCategory(t *testing.T) {
	store, router := setupProductTest(t)
	seedProduct(t, store, "prod-1", "Classic Sourdough Loaf", "breads", 350)
	seedProduct(t, store, "prod-2", "Butter Croissant", "pastries", 150)

	req := httptest.NewRequest("GET", "/api/products?category=breads", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp []models.ProductResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(resp))
	}
	if resp[0].Name != "Classic Sourdough Loaf" {
		t.Errorf("Expected the bread product, got %s", resp[0].Name)
	}
}

func TestProductHandler_List_InvalidRegion(t *testing.T) {
	_, router := setupProductTest(t)

	req := httptest.NewRequest("GET", "/api/products?region=Mexico", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	_, router := setupProductTest(t)

	req := httptest.NewRequest("GET", "/api/products/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "Product not found" {
		t.Errorf("Expected not found error, got %q", resp["error"])
	}
}

func TestProductHandler_Create(t *testing.T) {
	store, router := setupProductTest(t)

	reqBody := models.CreateProductRequest{
		Name:     "Cinnamon Roll",
		Category: "pastries",
		Price:    180,
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected a generated product ID")
	}
	if !created.InStock {
		t.Error("Expected in_stock to default to true")
	}

	if len(store.products) != 1 {
		t.Fatalf("Expected 1 stored product, got %d", len(store.products))
	}
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	store, router := setupProductTest(t)

	body := []byte(`{"category": "pastries", "price": 180}`)
	req := httptest.NewRequest("POST", "/api/admin/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if len(store.products) != 0 {
		t.Error("Expected no product to be stored")
	}
}

func TestProductHandler_Update(t *testing.T) {
	store, router := setupProductTest(t)
	seedProduct(t, store, "prod-1", "Butter Croissant", "pastries", 150)

	newPrice := 175.0
	reqBody := models.UpdateProductRequest{Price: &newPrice}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/api/admin/products/prod-1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var updated models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if updated.Price != 175 {
		t.Errorf("Expected price 175, got %v", updated.Price)
	}
	if updated.Name != "Butter Croissant" {
		t.Errorf("Expected name to be unchanged, got %s", updated.Name)
	}
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	_, router := setupProductTest(t)

	newPrice := 175.0
	reqBody := models.UpdateProductRequest{Price: &newPrice}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/api/admin/products/missing", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestProductHandler_Delete(t *testing.T) {
	store, router := setupProductTest(t)
	seedProduct(t, store, "prod-1", "Butter Croissant", "pastries", 150)

	req := httptest.NewRequest("DELETE", "/api/admin/products/prod-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["message"] != "Product deleted successfully" {
		t.Errorf("Expected delete confirmation, got %q", resp["message"])
	}
	if len(store.products) != 0 {
		t.Error("Expected product to be removed from the store")
	}
}

func TestProductHandler_Delete_NotFound(t *testing.T) {
	_, router := setupProductTest(t)

	req := httptest.NewRequest("DELETE", "/api/admin/products/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
