package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/models"
)

// SeedProducts inserts the starter catalog when the products collection is
// empty. Prices are in the base currency (INR).
func SeedProducts(ctx context.Context, products *ProductStore, logger *zap.Logger) error {
	count, err := products.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := []models.Product{
		{
			Name:                 "Classic Sourdough Loaf",
			Description:          "Naturally leavened sourdough with a 48-hour cold ferment.",
			Category:             "breads",
			Price:                350,
			SubscriptionEligible: true,
		},
		{
			Name:                 "Multigrain Sandwich Bread",
			Description:          "Soft sandwich loaf packed with seven grains and seeds.",
			Category:             "breads",
			Price:                280,
			SubscriptionEligible: true,
		},
		{
			Name:                 "Butter Croissant",
			Description:          "Flaky laminated croissant made with cultured butter.",
			Category:             "pastries",
			Price:                150,
			SubscriptionEligible: true,
		},
		{
			Name:                 "Almond Danish",
			Description:          "Danish pastry filled with frangipane and toasted almonds.",
			Category:             "pastries",
			Price:                220,
			SubscriptionEligible: true,
		},
		{
			Name:                 "Chocolate Truffle Cake",
			Description:          "Dark chocolate layer cake with a silky ganache finish.",
			Category:             "cakes",
			Price:                950,
			SubscriptionEligible: false,
		},
		{
			Name:                 "Classic Wedding Cake",
			Description:          "Three-tier vanilla bean cake, made to order.",
			Category:             "cakes",
			Price:                4500,
			SubscriptionEligible: false,
		},
		{
			Name:                 "Oatmeal Raisin Cookies (Box of 6)",
			Description:          "Chewy oatmeal cookies with plump raisins and cinnamon.",
			Category:             "cookies",
			Price:                300,
			SubscriptionEligible: true,
		},
		{
			Name:                 "Double Chocolate Cookies (Box of 6)",
			Description:          "Fudgy cocoa cookies studded with dark chocolate chunks.",
			Category:             "cookies",
			Price:                320,
			SubscriptionEligible: true,
		},
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(catalog))
	for i := range catalog {
		catalog[i].ID = uuid.New().String()
		catalog[i].InStock = true
		catalog[i].CreatedAt = now
		catalog[i].UpdatedAt = now
		docs[i] = catalog[i]
	}

	if _, err := products.col.InsertMany(ctx, docs); err != nil {
		return err
	}

	logger.Info("Seeded product catalog", zap.Int("count", len(catalog)))
	return nil
}
