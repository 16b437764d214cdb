// Package catalog holds the static reference data the sales generator samples
// from: the product catalog, the weighted tables for region, customer type and
// quantity, the payment methods and the discount policy.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidReference is returned when reference data fails validation.
	ErrInvalidReference = errors.New("invalid reference data")
	// ErrUnknownCategory is returned when a category is not part of the catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownProduct is returned when a product is not listed under its category.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrPriceOutOfBand is returned when a unit price falls outside the product's band.
	ErrPriceOutOfBand = errors.New("unit price outside product price band")
)

// weightTolerance is how far a weight table may drift from summing to 1.
const weightTolerance = 1e-9

var validate = validator.New()

// Product is one sellable item and the band its unit price is drawn from.
type Product struct {
	Name     string  `json:"name" validate:"required"`
	MinPrice float64 `json:"min_price" validate:"gte=0"`
	MaxPrice float64 `json:"max_price" validate:"gtefield=MinPrice"`
}

// Category groups the products sold under one category name.
type Category struct {
	Name     string    `json:"name" validate:"required"`
	Products []Product `json:"products" validate:"min=1,dive"`
}

// Catalog is the ordered list of categories. Order matters: uniform category
// and product picks index into these slices, so the order is part of what a
// seed reproduces.
type Catalog struct {
	Categories []Category `json:"categories" validate:"min=1,dive"`
}

// Weighted pairs a value with its selection probability.
type Weighted[T any] struct {
	Value  T       `json:"value"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// Reference is the complete, immutable reference data for one generation run.
type Reference struct {
	Catalog          Catalog            `json:"catalog"`
	Quantities       []Weighted[int]    `json:"quantities" validate:"min=1,dive"`
	Regions          []Weighted[string] `json:"regions" validate:"min=1,dive"`
	CustomerTypes    []Weighted[string] `json:"customer_types" validate:"min=1,dive"`
	PaymentMethods   []string           `json:"payment_methods" validate:"min=1,dive,required"`
	DiscountRate     float64            `json:"discount_rate" validate:"gte=0,lte=1"`
	DiscountPercents []int              `json:"discount_percents" validate:"min=1,dive,gte=0,lte=100"`
}

// Default returns the reference data the demo dataset is built from.
func Default() Reference {
	return Reference{
		Catalog: Catalog{Categories: []Category{
			{Name: "Electronics", Products: []Product{
				{Name: "iPhone 15", MinPrice: 999, MaxPrice: 1199},
				{Name: "MacBook Pro", MinPrice: 1999, MaxPrice: 2499},
				{Name: "AirPods Pro", MinPrice: 199, MaxPrice: 249},
				{Name: "iPad Air", MinPrice: 599, MaxPrice: 799},
				{Name: "Apple Watch", MinPrice: 399, MaxPrice: 499},
			}},
			{Name: "Clothing", Products: []Product{
				{Name: "T-Shirt", MinPrice: 25, MaxPrice: 45},
				{Name: "Jeans", MinPrice: 50, MaxPrice: 89},
				{Name: "Sneakers", MinPrice: 80, MaxPrice: 150},
				{Name: "Jacket", MinPrice: 100, MaxPrice: 200},
				{Name: "Dress", MinPrice: 60, MaxPrice: 120},
			}},
			{Name: "Home & Garden", Products: []Product{
				{Name: "Coffee Maker", MinPrice: 50, MaxPrice: 120},
				{Name: "Vacuum Cleaner", MinPrice: 150, MaxPrice: 300},
				{Name: "Air Purifier", MinPrice: 100, MaxPrice: 250},
				{Name: "Blender", MinPrice: 40, MaxPrice: 80},
				{Name: "Lamp", MinPrice: 30, MaxPrice: 70},
			}},
			{Name: "Books", Products: []Product{
				{Name: "Fiction Novel", MinPrice: 12, MaxPrice: 25},
				{Name: "Tech Book", MinPrice: 35, MaxPrice: 60},
				{Name: "Cookbook", MinPrice: 20, MaxPrice: 40},
				{Name: "Self-Help", MinPrice: 15, MaxPrice: 30},
				{Name: "Children Book", MinPrice: 10, MaxPrice: 20},
			}},
			{Name: "Sports", Products: []Product{
				{Name: "Yoga Mat", MinPrice: 25, MaxPrice: 50},
				{Name: "Dumbbell Set", MinPrice: 50, MaxPrice: 120},
				{Name: "Running Shoes", MinPrice: 80, MaxPrice: 150},
				{Name: "Bicycle", MinPrice: 300, MaxPrice: 800},
				{Name: "Tennis Racket", MinPrice: 60, MaxPrice: 150},
			}},
		}},
		Quantities: []Weighted[int]{
			{Value: 1, Weight: 0.50},
			{Value: 2, Weight: 0.25},
			{Value: 3, Weight: 0.15},
			{Value: 4, Weight: 0.07},
			{Value: 5, Weight: 0.03},
		},
		Regions: []Weighted[string]{
			{Value: "North", Weight: 0.25},
			{Value: "South", Weight: 0.30},
			{Value: "East", Weight: 0.20},
			{Value: "West", Weight: 0.25},
		},
		CustomerTypes: []Weighted[string]{
			{Value: "New", Weight: 0.3},
			{Value: "Returning", Weight: 0.5},
			{Value: "VIP", Weight: 0.2},
		},
		PaymentMethods:   []string{"Credit Card", "Debit Card", "PayPal", "Cash", "Bank Transfer"},
		DiscountRate:     0.2,
		DiscountPercents: []int{5, 10, 15, 20, 25},
	}
}

// Validate checks the reference data before any generation starts.
func (r Reference) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReference, err)
	}

	seen := make(map[string]bool, len(r.Catalog.Categories))
	for _, c := range r.Catalog.Categories {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidReference, c.Name)
		}
		seen[c.Name] = true

		for _, p := range c.Products {
			if !wholeCents(p.MinPrice) || !wholeCents(p.MaxPrice) {
				return fmt.Errorf("%w: product %q in %q: price bounds must be whole cents",
					ErrInvalidReference, p.Name, c.Name)
			}
		}
	}

	for _, q := range r.Quantities {
		if q.Value < 1 {
			return fmt.Errorf("%w: quantity %d must be positive", ErrInvalidReference, q.Value)
		}
	}

	if err := checkWeights("quantities", r.Quantities); err != nil {
		return err
	}
	if err := checkWeights("regions", r.Regions); err != nil {
		return err
	}
	if err := checkWeights("customer_types", r.CustomerTypes); err != nil {
		return err
	}
	return nil
}

func checkWeights[T any](table string, entries []Weighted[T]) error {
	var sum float64
	for _, e := range entries {
		sum += e.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: %s weights sum to %v, want 1", ErrInvalidReference, table, sum)
	}
	return nil
}

func wholeCents(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}
