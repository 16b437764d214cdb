package generator

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ErrRetriesExhausted means the seasonal loop never accepted a date. With a
// valid keep probability this only happens when the retry cap is tiny or the
// whole range sits in November/December with a keep probability near zero.
var ErrRetriesExhausted = errors.New("seasonal date sampling exhausted its retries")

// DateGenerator draws transaction dates uniformly over [start, end] and thins
// out November and December: a draw in those months is kept with probability
// keepQ4, otherwise the whole draw is repeated.
type DateGenerator struct {
	src        *Source
	start      civil.Date
	span       int // days between start and end
	keepQ4     float64
	maxRetries int
}

// NewDateGenerator expects a validated range (start <= end).
func NewDateGenerator(src *Source, start, end civil.Date, keepQ4 float64, maxRetries int) *DateGenerator {
	return &DateGenerator{
		src:        src,
		start:      start,
		span:       end.DaysSince(start),
		keepQ4:     keepQ4,
		maxRetries: maxRetries,
	}
}

// Next returns one date within the configured range.
func (g *DateGenerator) Next() (civil.Date, error) {
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		d := g.start.AddDays(g.src.IntRange(0, g.span))
		if !isHolidaySeason(d) {
			return d, nil
		}
		if g.src.Float64() < g.keepQ4 {
			return d, nil
		}
	}
	return civil.Date{}, fmt.Errorf("DateGenerator.Next: %w after %d attempts", ErrRetriesExhausted, g.maxRetries)
}

func isHolidaySeason(d civil.Date) bool {
	return d.Month == time.November || d.Month == time.December
}
