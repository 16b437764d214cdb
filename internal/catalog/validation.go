package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type priceBand struct {
	min decimal.Decimal
	max decimal.Decimal
}

// ProductValidator checks generated rows against the catalog they claim to
// come from.
type ProductValidator struct {
	products map[string]map[string]priceBand // category -> product -> band
}

// NewProductValidator builds lookup maps from the catalog.
func NewProductValidator(c Catalog) *ProductValidator {
	v := &ProductValidator{products: make(map[string]map[string]priceBand, len(c.Categories))}
	for _, cat := range c.Categories {
		bands := make(map[string]priceBand, len(cat.Products))
		for _, p := range cat.Products {
			bands[p.Name] = priceBand{
				min: decimal.NewFromFloat(p.MinPrice),
				max: decimal.NewFromFloat(p.MaxPrice),
			}
		}
		v.products[cat.Name] = bands
	}
	return v
}

// ValidateProduct returns nil when the (category, product) pair exists and the
// unit price lies inside the product's [min, max] band.
func (v *ProductValidator) ValidateProduct(category, product string, unitPrice decimal.Decimal) error {
	bands, ok := v.products[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	band, ok := bands[product]
	if !ok {
		return fmt.Errorf("%w: %q in category %q", ErrUnknownProduct, product, category)
	}

	if unitPrice.LessThan(band.min) || unitPrice.GreaterThan(band.max) {
		return fmt.Errorf("%w: %s for %q, band [%s, %s]",
			ErrPriceOutOfBand, unitPrice.StringFixed(2), product, band.min.StringFixed(2), band.max.StringFixed(2))
	}

	return nil
}
