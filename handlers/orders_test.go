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

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
)

// In-memory OrderStore for handler tests.
type fakeOrderStore struct {
	orders []*models.Order
}

func (s *fakeOrderStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeOrderStore) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) Update(ctx context.Context, order *models.Order) error {
	for i, o := range s.orders {
		if o.ID == order.ID {
			copied := *order
			s.orders[i] = &copied
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeShippingMailer struct {
	recipients []string
}

func (m *fakeShippingMailer) SendShippingUpdate(ctx context.Context, recipient string, order *models.Order) error {
	m.recipients = append(m.recipients, recipient)
	return nil
}

type fakeEventPublisher struct {
	events []models.CheckoutEvent
}

func (p *fakeEventPublisher) PublishCheckoutEvent(ctx context.Context, event models.CheckoutEvent) error {
	p.events = append(p.events, event)
	return nil
}

type orderTestEnv struct {
	orders *fakeOrderStore
	users  *fakeUserStore
	mailer *fakeShippingMailer
	events *fakeEventPublisher
	router *gin.Engine
}

func setupOrderTest(t *testing.T) orderTestEnv {
	orders := &fakeOrderStore{}
	users := newFakeUserStore()
	mail := &fakeShippingMailer{}
	events := &fakeEventPublisher{}
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	handler := NewOrderHandler(orders, mail, events, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authRequired := middleware.AuthRequired([]byte(testJWTSecret), users, logger)
	router.GET("/api/orders", authRequired, handler.ListMine)
	router.GET("/api/orders/:id", authRequired, handler.Get)
	router.GET("/api/admin/orders", authRequired, middleware.AdminRequired(), handler.ListAll)
	router.PUT("/api/admin/orders/:id/status", authRequired, middleware.AdminRequired(), handler.UpdateStatus)

	return orderTestEnv{orders: orders, users: users, mailer: mail, events: events, router: router}
}

func seedAdmin(t *testing.T, store *fakeUserStore, email string) *models.User {
	user := seedUser(t, store, email, "password123", "India")
	store.users[user.ID].IsAdmin = true
	user.IsAdmin = true
	return user
}

func seedOrder(env orderTestEnv, id, email string) *models.Order {
	now := time.Now().UTC()
	order := &models.Order{
		ID:            id,
		UserEmail:     email,
		TransactionID: "txn-" + id,
		Items: []models.PricedItem{
			{ProductID: "prod-1", Name: "Classic Sourdough Loaf", Quantity: 1, SubscriptionType: "one-time", UnitPrice: 350, TotalPrice: 350},
		},
		Subtotal:       350,
		Tax:            63,
		Total:          413,
		Currency:       "INR",
		Region:         "India",
		Status:         models.OrderStatusConfirmed,
		PaymentStatus:  "paid",
		DeliveryStatus: models.DeliveryProcessing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	env.orders.orders = append(env.orders.orders, order)
	return order
}

func TestOrderHandler_ListMine(t *testing.T) {
	env := setupOrderTest(t)
	user := seedUser(t, env.users, "baker@example.com", "password123", "India")
	seedOrder(env, "order-1", "baker@example.com")
	seedOrder(env, "order-2", "someone@example.com")

	req := httptest.NewRequest("GET", "/api/orders", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}
	if orders[0].ID != "order-1" {
		t.Errorf("Expected order-1, got %s", orders[0].ID)
	}
}

func TestOrderHandler_Get_Owner(t *testing.T) {
	env := setupOrderTest(t)
	user := seedUser(t, env.users, "baker@example.com", "password123", "India")
	seedOrder(env, "order-1", "baker@example.com")

	req := httptest.NewRequest("GET", "/api/orders/order-1", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var order models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if order.Total != 413 {
		t.Errorf("Expected total 413, got %v", order.Total)
	}
}

func TestOrderHandler_Get_OtherUsersOrder(t *testing.T) {
	env := setupOrderTest(t)
	user := seedUser(t, env.users, "baker@example.com", "password123", "India")
	seedOrder(env, "order-1", "someone@example.com")

	req := httptest.NewRequest("GET", "/api/orders/order-1", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	// Another customer's order must read as not found, not forbidden.
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "Order not found" {
		t.Errorf("Expected order not found error, got %q", resp["error"])
	}
}

func TestOrderHandler_Get_AdminSeesAnyOrder(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	seedOrder(env, "order-1", "someone@example.com")

	req := httptest.NewRequest("GET", "/api/orders/order-1", nil)
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestOrderHandler_ListAll_RequiresAdmin(t *testing.T) {
	env := setupOrderTest(t)
	user := seedUser(t, env.users, "baker@example.com", "password123", "India")

	req := httptest.NewRequest("GET", "/api/admin/orders", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

func TestOrderHandler_ListAll(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	seedOrder(env, "order-1", "baker@example.com")
	seedOrder(env, "order-2", "someone@example.com")

	req := httptest.NewRequest("GET", "/api/admin/orders", nil)
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var orders []models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &orders); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("Expected 2 orders, got %d", len(orders))
	}
}

func TestOrderHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	seedOrder(env, "order-1", "baker@example.com")

	body := []byte(`{"status": "refunded"}`)
	req := httptest.NewRequest("PUT", "/api/admin/orders/order-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "Status must be 'confirmed' or 'cancelled'" {
		t.Errorf("Expected status validation error, got %q", resp["error"])
	}
}

func TestOrderHandler_UpdateStatus_InvalidDeliveryStatus(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	seedOrder(env, "order-1", "baker@example.com")

	body := []byte(`{"delivery_status": "lost"}`)
	req := httptest.NewRequest("PUT", "/api/admin/orders/order-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestOrderHandler_UpdateStatus_NotFound(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")

	body := []byte(`{"delivery_status": "shipped"}`)
	req := httptest.NewRequest("PUT", "/api/admin/orders/missing/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestOrderHandler_UpdateStatus_ShippedSendsEmailAndEvent(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	seedOrder(env, "order-1", "baker@example.com")

	tracking := "https://track.example.com/abc123"
	reqBody := models.UpdateOrderStatusRequest{
		DeliveryStatus: "shipped",
		TrackingLink:   &tracking,
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("PUT", "/api/admin/orders/order-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var updated models.Order
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if updated.DeliveryStatus != models.DeliveryShipped {
		t.Errorf("Expected delivery status shipped, got %s", updated.DeliveryStatus)
	}
	if updated.TrackingLink != tracking {
		t.Errorf("Expected tracking link to be set, got %s", updated.TrackingLink)
	}

	if len(env.mailer.recipients) != 1 || env.mailer.recipients[0] != "baker@example.com" {
		t.Errorf("Expected one shipping email to baker@example.com, got %v", env.mailer.recipients)
	}

	if len(env.events.events) != 1 {
		t.Fatalf("Expected 1 published event, got %d", len(env.events.events))
	}
	event := env.events.events[0]
	if event.EventType != "order_shipped" {
		t.Errorf("Expected order_shipped event, got %s", event.EventType)
	}
	if event.OrderID != "order-1" {
		t.Errorf("Expected event for order-1, got %s", event.OrderID)
	}
}

func TestOrderHandler_UpdateStatus_AlreadyShippedNoResend(t *testing.T) {
	env := setupOrderTest(t)
	admin := seedAdmin(t, env.users, "admin@example.com")
	order := seedOrder(env, "order-1", "baker@example.com")
	order.DeliveryStatus = models.DeliveryShipped

	body := []byte(`{"delivery_status": "shipped"}`)
	req := httptest.NewRequest("PUT", "/api/admin/orders/order-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if len(env.mailer.recipients) != 0 {
		t.Error("Expected no shipping email when the order was already shipped")
	}
	if len(env.events.events) != 0 {
		t.Error("Expected no event when the order was already shipped")
	}
}

func TestOrderHandler_UpdateStatus_NilEventPublisher(t *testing.T) {
	orders := &fakeOrderStore{}
	users := newFakeUserStore()
	mail := &fakeShippingMailer{}
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	handler := NewOrderHandler(orders, mail, nil, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authRequired := middleware.AuthRequired([]byte(testJWTSecret), users, logger)
	router.PUT("/api/admin/orders/:id/status", authRequired, middleware.AdminRequired(), handler.UpdateStatus)

	env := orderTestEnv{orders: orders, users: users, mailer: mail, router: router}
	admin := seedAdmin(t, users, "admin@example.com")
	seedOrder(env, "order-1", "baker@example.com")

	body := []byte(`{"delivery_status": "shipped"}`)
	req := httptest.NewRequest("PUT", "/api/admin/orders/order-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, admin.ID))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if len(mail.recipients) != 1 {
		t.Errorf("Expected the shipping email even without an event publisher, got %v", mail.recipients)
	}
}
