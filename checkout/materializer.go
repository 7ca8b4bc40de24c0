package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

// Transactions recorded before carts were snapshotted carry only the
// charged total; their subtotal is reconstructed by reversing this flat
// rate.
const legacyTaxAssumption = 0.15

// Materializer turns a completed transaction into the one persisted
// order it is allowed to have.
type Materializer struct {
	orders  OrderStore
	catalog *pricing.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

func NewMaterializer(orders OrderStore, catalog *pricing.Catalog, logger *zap.Logger) *Materializer {
	return &Materializer{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// Materialize creates the order for a completed transaction, or returns
// the existing one. The bool reports whether this call created it. The
// check-then-insert is backstopped by the unique index on the order's
// transaction id, so a concurrent completion race still yields exactly
// one order.
func (m *Materializer) Materialize(ctx context.Context, tx *models.Transaction) (*models.Order, bool, error) {
	existing, err := m.orders.GetByTransactionID(ctx, tx.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, fmt.Errorf("check existing order: %w", err)
	}

	now := m.now()
	deliveryDate := now
	if !m.catalog.GetDeliveryInfoAt(tx.Region, now).AvailableToday {
		deliveryDate = now.Add(24 * time.Hour)
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserEmail:       tx.UserEmail,
		TransactionID:   tx.ID,
		Currency:        tx.Currency,
		Region:          tx.Region,
		DeliveryAddress: tx.DeliveryAddress,
		Status:          models.OrderStatusConfirmed,
		PaymentStatus:   "paid",
		DeliveryStatus:  models.DeliveryProcessing,
		DeliveryDate:    &deliveryDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if tx.Cart != nil {
		order.Items = tx.Cart.Items
		order.Subtotal = tx.Cart.Subtotal
		order.Tax = tx.Cart.Tax
		order.Total = tx.Cart.Total
	} else {
		order.Total = tx.Amount
		order.Subtotal = pricing.RoundMoney(tx.Amount / (1 + legacyTaxAssumption))
		order.Tax = pricing.RoundMoney(tx.Amount - order.Subtotal)
	}

	if err := m.orders.Create(ctx, order); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			winner, lerr := m.orders.GetByTransactionID(ctx, tx.ID)
			if lerr != nil {
				return nil, false, fmt.Errorf("load existing order after duplicate insert: %w", lerr)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create order: %w", err)
	}

	m.logger.Info("Order materialized",
		zap.String("order_id", order.ID),
		zap.String("transaction_id", tx.ID),
		zap.String("region", tx.Region))
	middleware.RecordOrderMaterialized()
	return order, true, nil
}
