// Package pricing holds the regional catalog and the money math for
// converting base prices, computing tax, and answering delivery-cutoff
// questions per region.
package pricing

import (
	"math"

	_ "time/tzdata"
)

// Region describes one market: its currency, tax rate, IANA timezone,
// exchange rate against the base currency, and which payment gateway
// serves it.
type Region struct {
	Name           string
	Currency       string
	TaxRate        float64
	Timezone       string
	ExchangeRate   float64
	PaymentGateway string
}

const (
	GatewayStripe   = "stripe"
	GatewayRazorpay = "razorpay"
)

// Catalog is an immutable set of regions keyed by name.
type Catalog struct {
	regions map[string]Region
}

func NewCatalog(regions ...Region) *Catalog {
	m := make(map[string]Region, len(regions))
	for _, r := range regions {
		m[r.Name] = r
	}
	return &Catalog{regions: m}
}

// DefaultCatalog returns the two markets the storefront serves. Base
// prices are in INR, so India's exchange rate is 1.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Region{
			Name:           "India",
			Currency:       "INR",
			TaxRate:        0.18,
			Timezone:       "Asia/Kolkata",
			ExchangeRate:   1.0,
			PaymentGateway: GatewayRazorpay,
		},
		Region{
			Name:           "Canada",
			Currency:       "CAD",
			TaxRate:        0.13,
			Timezone:       "America/Toronto",
			ExchangeRate:   0.06,
			PaymentGateway: GatewayStripe,
		},
	)
}

func (c *Catalog) Lookup(name string) (Region, bool) {
	r, ok := c.regions[name]
	return r, ok
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.regions[name]
	return ok
}

// RoundMoney rounds half away from zero at two decimal places. All
// monetary values are rounded independently with this, never re-derived.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ConvertPrice converts a base price into the region's currency. Unknown
// regions get the base price back unchanged; callers that need a known
// region must validate first.
func (c *Catalog) ConvertPrice(basePrice float64, region string) float64 {
	r, ok := c.regions[region]
	if !ok {
		return basePrice
	}
	return RoundMoney(basePrice * r.ExchangeRate)
}

// CalculateTax computes the tax on a subtotal already expressed in the
// region's currency. Unknown regions are taxed at zero.
func (c *Catalog) CalculateTax(subtotal float64, region string) float64 {
	r, ok := c.regions[region]
	if !ok {
		return 0
	}
	return RoundMoney(subtotal * r.TaxRate)
}
