// Package generator produces synthetic sales transactions from the reference
// data in a Config, driven by one seeded random stream.
package generator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-generator/internal/catalog"
	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Generator builds one transaction per call to Next. It is not safe for
// concurrent use: every draw advances the shared stream.
type Generator struct {
	ref   catalog.Reference
	src   *Source
	dates *DateGenerator

	quantities    *catalog.WeightedTable[int]
	regions       *catalog.WeightedTable[string]
	customerTypes *catalog.WeightedTable[string]
}

// New validates cfg and prepares the sampling tables.
func New(cfg config.Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator.New: %w", err)
	}

	quantities, err := catalog.NewWeightedTable(cfg.Reference.Quantities)
	if err != nil {
		return nil, fmt.Errorf("generator.New: quantities: %w", err)
	}
	regions, err := catalog.NewWeightedTable(cfg.Reference.Regions)
	if err != nil {
		return nil, fmt.Errorf("generator.New: regions: %w", err)
	}
	customerTypes, err := catalog.NewWeightedTable(cfg.Reference.CustomerTypes)
	if err != nil {
		return nil, fmt.Errorf("generator.New: customer types: %w", err)
	}

	src := NewSource(cfg.Seed)
	return &Generator{
		ref:           cfg.Reference,
		src:           src,
		dates:         NewDateGenerator(src, cfg.StartDate, cfg.EndDate, cfg.Q4KeepProbability, cfg.MaxDateRetries),
		quantities:    quantities,
		regions:       regions,
		customerTypes: customerTypes,
	}, nil
}

// Next returns a fully populated transaction without an id.
func (g *Generator) Next() (domain.SalesTransaction, error) {
	categories := g.ref.Catalog.Categories
	category := categories[g.src.Index(len(categories))]
	product := category.Products[g.src.Index(len(category.Products))]

	unitPrice := decimal.NewFromFloat(g.src.Float64Range(product.MinPrice, product.MaxPrice)).Round(2)
	quantity := g.quantities.Pick(g.src.Float64())
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	discountPct := 0
	if g.src.Float64() < g.ref.DiscountRate {
		discountPct = g.ref.DiscountPercents[g.src.Index(len(g.ref.DiscountPercents))]
	}
	discount := total.Mul(decimal.NewFromInt(int64(discountPct))).Div(hundred).Round(2)
	final := total.Sub(discount).Round(2)

	region := g.regions.Pick(g.src.Float64())
	customerType := g.customerTypes.Pick(g.src.Float64())
	payment := g.ref.PaymentMethods[g.src.Index(len(g.ref.PaymentMethods))]

	date, err := g.dates.Next()
	if err != nil {
		return domain.SalesTransaction{}, fmt.Errorf("Generator.Next: %w", err)
	}

	return domain.SalesTransaction{
		Date:            date,
		Category:        category.Name,
		ProductName:     product.Name,
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		TotalAmount:     total,
		DiscountPercent: discountPct,
		DiscountAmount:  discount,
		FinalAmount:     final,
		Region:          region,
		CustomerType:    customerType,
		PaymentMethod:   payment,
	}, nil
}

// Batch generates n transactions and assigns ids TXN000001.. in generation
// order.
func (g *Generator) Batch(n int) ([]domain.SalesTransaction, error) {
	txs := make([]domain.SalesTransaction, 0, n)
	for i := 0; i < n; i++ {
		tx, err := g.Next()
		if err != nil {
			return nil, fmt.Errorf("Generator.Batch: transaction %d: %w", i+1, err)
		}
		tx.TransactionID = domain.FormatTransactionID(i + 1)
		txs = append(txs, tx)
	}
	return txs, nil
}
