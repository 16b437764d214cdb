package catalog

import (
	"fmt"
	"sort"
)

// WeightedTable draws values by looking a uniform number up in a cumulative
// distribution built from the entry weights.
type WeightedTable[T any] struct {
	values []T
	cdf    []float64
}

// NewWeightedTable builds the cumulative table. Weights are normalised by their
// total, so the last bucket always closes at exactly 1.
func NewWeightedTable[T any](entries []Weighted[T]) (*WeightedTable[T], error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("NewWeightedTable: %w: no entries", ErrInvalidReference)
	}

	var total float64
	for i, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("NewWeightedTable: %w: entry %d has negative weight", ErrInvalidReference, i)
		}
		total += e.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("NewWeightedTable: %w: weights sum to zero", ErrInvalidReference)
	}

	t := &WeightedTable[T]{
		values: make([]T, len(entries)),
		cdf:    make([]float64, len(entries)),
	}
	var running float64
	for i, e := range entries {
		running += e.Weight
		t.values[i] = e.Value
		t.cdf[i] = running / total
	}
	t.cdf[len(t.cdf)-1] = 1

	return t, nil
}

// Pick returns the value whose bucket contains u, for u in [0, 1).
func (t *WeightedTable[T]) Pick(u float64) T {
	i := sort.Search(len(t.cdf), func(i int) bool { return u < t.cdf[i] })
	if i == len(t.cdf) {
		i = len(t.cdf) - 1
	}
	return t.values[i]
}

// Len reports the number of values in the table.
func (t *WeightedTable[T]) Len() int {
	return len(t.values)
}
