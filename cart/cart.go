// Package cart resolves requested line items against the product
// catalog and prices them for a region.
package cart

import (
	"context"
	"fmt"

	"github.com/ronitchordiya/Flint-and-Flour/models"
	"github.com/ronitchordiya/Flint-and-Flour/pricing"
)

// ProductFinder is the slice of the product store the assembler needs.
type ProductFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type Assembler struct {
	products ProductFinder
	catalog  *pricing.Catalog
}

func NewAssembler(products ProductFinder, catalog *pricing.Catalog) *Assembler {
	return &Assembler{
		products: products,
		catalog:  catalog,
	}
}

func validSubscriptionType(s string) bool {
	switch s {
	case models.SubscriptionOneTime, models.SubscriptionWeekly, models.SubscriptionMonthly:
		return true
	}
	return false
}

// Price resolves every line item, checks subscription eligibility, and
// computes the priced cart. It reads and computes only; nothing is
// persisted.
//
// Unit prices are converted and rounded per product; line totals are
// unit price times quantity with no extra rounding. Subtotal, tax, and
// total are each rounded independently on the way out.
func (a *Assembler) Price(ctx context.Context, region string, items []models.CartItem) (*models.CartResponse, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := a.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	if len(byID) != len(ids) {
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return nil, models.NotFoundf("Product %s not found", id)
			}
		}
	}

	priced := make([]models.PricedItem, 0, len(items))
	var rawSubtotal float64
	for _, item := range items {
		p := byID[item.ProductID]

		subType := item.SubscriptionType
		if subType == "" {
			subType = models.SubscriptionOneTime
		}
		if !validSubscriptionType(subType) {
			return nil, models.InvalidRequestf("Invalid subscription type '%s'", subType)
		}
		if subType != models.SubscriptionOneTime && !p.SubscriptionEligible {
			return nil, models.InvalidRequestf("Product '%s' is not available for subscription", p.Name)
		}

		unit := a.catalog.ConvertPrice(p.Price, region)
		line := unit * float64(item.Quantity)

		priced = append(priced, models.PricedItem{
			ProductID:        p.ID,
			Name:             p.Name,
			Quantity:         item.Quantity,
			SubscriptionType: subType,
			UnitPrice:        unit,
			TotalPrice:       line,
		})
		rawSubtotal += line
	}

	tax := a.catalog.CalculateTax(rawSubtotal, region)
	subtotal := pricing.RoundMoney(rawSubtotal)
	total := pricing.RoundMoney(subtotal + tax)

	currency := ""
	if r, ok := a.catalog.Lookup(region); ok {
		currency = r.Currency
	}

	return &models.CartResponse{
		Items:           priced,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           total,
		Currency:        currency,
		DeliveryMessage: a.catalog.GetDeliveryInfo(region).Message,
	}, nil
}
