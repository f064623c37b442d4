package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is the per-unit price of one kind.
type Rate struct {
	Kind  Kind            `json:"kind"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Catalog holds the per-unit price of every kind. It is never mutated after construction.
type Catalog struct {
	prices map[Kind]decimal.Decimal
}

// DefaultPrices returns the built-in price list.
func DefaultPrices() map[Kind]decimal.Decimal {
	return map[Kind]decimal.Decimal{
		CrudeOil:   decimal.RequireFromString("1.25"),
		Solar:      decimal.RequireFromString("0.18"),
		Nuclear:    decimal.RequireFromString("0.22"),
		NaturalGas: decimal.RequireFromString("0.85"),
	}
}

// Default returns a catalog with the built-in prices.
func Default() *Catalog {
	return &Catalog{prices: DefaultPrices()}
}

// New builds a catalog. Every kind must have a positive price.
func New(prices map[Kind]decimal.Decimal) (*Catalog, error) {
	out := make(map[Kind]decimal.Decimal, len(allKinds))
	for kind, price := range prices {
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("%w: %s", ErrNonPositivePrice, kind)
		}
		out[kind] = price
	}
	for _, kind := range allKinds {
		if _, ok := out[kind]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrice, kind)
		}
	}
	return &Catalog{prices: out}, nil
}

// WithOverrides returns a new catalog with the given prices replaced.
func (c *Catalog) WithOverrides(overrides map[Kind]decimal.Decimal) (*Catalog, error) {
	merged := make(map[Kind]decimal.Decimal, len(allKinds))
	if c != nil {
		for kind, price := range c.prices {
			merged[kind] = price
		}
	}
	for kind, price := range overrides {
		merged[kind] = price
	}
	return New(merged)
}

// Price returns the per-unit price of kind.
func (c *Catalog) Price(kind Kind) (decimal.Decimal, error) {
	if c == nil {
		return decimal.Zero, ErrMissingPrice
	}
	price, ok := c.prices[kind]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return price, nil
}

// Rates lists every price in kind order.
func (c *Catalog) Rates() []Rate {
	rates := make([]Rate, 0, len(allKinds))
	for _, kind := range allKinds {
		price, err := c.Price(kind)
		if err != nil {
			continue
		}
		rates = append(rates, Rate{Kind: kind, Name: kind.String(), Price: price})
	}
	return rates
}
