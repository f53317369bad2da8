package pricesource

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// StateListener is told about every breaker transition
type StateListener func(name, from, to string)

// BreakerSettings configures the circuit around a price source
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit
	MaxFailures uint32
	// Timeout is how long the circuit stays open before probing again
	Timeout time.Duration
	OnChange StateListener
}

// Breaker guards a price source with a circuit breaker so a failing
// upstream is not called for every item of an update run
type Breaker struct {
	source outbound.PriceSource
	cb     *gobreaker.CircuitBreaker[food.PriceQuote]
}

// NewBreaker wraps source
func NewBreaker(source outbound.PriceSource, settings BreakerSettings, logger *zap.Logger) *Breaker {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	logger = logger.Named("price-breaker")
	name := "price-source-" + source.Name()

	cb := gobreaker.NewCircuitBreaker[food.PriceQuote](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if settings.OnChange != nil {
				settings.OnChange(name, from.String(), to.String())
			}
		},
	})

	return &Breaker{source: source, cb: cb}
}

var _ outbound.PriceSource = (*Breaker)(nil)

func (b *Breaker) Name() string { return b.source.Name() }

// Fetch calls the wrapped source unless the circuit is open, in which case
// gobreaker.ErrOpenState is returned without calling it
func (b *Breaker) Fetch(ctx context.Context, item food.Item) (food.PriceQuote, error) {
	return b.cb.Execute(func() (food.PriceQuote, error) {
		return b.source.Fetch(ctx, item)
	})
}

// State reports the breaker state as text
func (b *Breaker) State() string {
	return b.cb.State().String()
}
