// Package pricesource provides market price quotes for catalog items
package pricesource

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

const (
	DefaultLocation  = "Kampala"
	DefaultBasePrice = 1000.0
	DefaultVariation = 0.2

	simulatedSourceName = "api"
)

// Simulated quotes the item's current price (or a base price when it has
// none) moved by a uniform random factor in [1-variation, 1+variation].
type Simulated struct {
	location  string
	basePrice float64
	variation float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulated creates a simulated source. Non-positive values fall back
// to the defaults; seed 0 seeds from the clock.
func NewSimulated(location string, basePrice, variation float64, seed int64) *Simulated {
	if location == "" {
		location = DefaultLocation
	}
	if basePrice <= 0 {
		basePrice = DefaultBasePrice
	}
	if variation <= 0 || variation >= 1 {
		variation = DefaultVariation
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulated{
		location:  location,
		basePrice: basePrice,
		variation: variation,
		rnd:       rand.New(rand.NewSource(seed)),
	}
}

var _ outbound.PriceSource = (*Simulated)(nil)

func (s *Simulated) Name() string { return simulatedSourceName }

// Fetch returns a quote for item
func (s *Simulated) Fetch(ctx context.Context, item food.Item) (food.PriceQuote, error) {
	if err := ctx.Err(); err != nil {
		return food.PriceQuote{}, err
	}

	base := s.basePrice
	if item.Price != nil && *item.Price > 0 {
		base = *item.Price
	}

	s.mu.Lock()
	factor := 1 - s.variation + s.rnd.Float64()*2*s.variation
	s.mu.Unlock()

	return food.PriceQuote{
		Price:    base * factor,
		Location: s.location,
		Source:   simulatedSourceName,
	}, nil
}
