package generator

import (
	"github.com/brianvoe/gofakeit/v6"
)

// Source is the single seeded random stream every draw in a run comes from.
// Uniform picks, weighted picks and price draws all consume it in a fixed
// order, so one seed reproduces one dataset.
type Source struct {
	faker *gofakeit.Faker
}

// NewSource returns a stream seeded with seed. A zero seed makes gofakeit pick
// a random one, so config rejects it.
func NewSource(seed int64) *Source {
	return &Source{faker: gofakeit.New(seed)}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.faker.Rand.Float64()
}

// IntRange returns a uniform integer in [min, max].
func (s *Source) IntRange(min, max int) int {
	return s.faker.IntRange(min, max)
}

// Index returns a uniform index into a collection of length n.
func (s *Source) Index(n int) int {
	return s.faker.IntRange(0, n-1)
}

// Float64Range returns a uniform draw in [min, max]; min when they are equal.
func (s *Source) Float64Range(min, max float64) float64 {
	return s.faker.Float64Range(min, max)
}
