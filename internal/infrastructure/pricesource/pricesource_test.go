package pricesource

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/domain/food"
	"github.com/zoenutrition/zoe/test/testutils"
)

func TestSimulated_StaysWithinVariation(t *testing.T) {
	source := NewSimulated("", 0, 0, 42)
	priced := food.Item{ID: 1, Name: "Beans", Price: food.Value(4000)}
	unpriced := food.Item{ID: 2, Name: "Nakati"}

	for i := 0; i < 200; i++ {
		quote, err := source.Fetch(context.Background(), priced)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.Price, 3200.0)
		assert.LessOrEqual(t, quote.Price, 4800.0)
		assert.Equal(t, DefaultLocation, quote.Location)
		assert.Equal(t, "api", quote.Source)

		quote, err = source.Fetch(context.Background(), unpriced)
		require.NoError(t, err)
		assert.InDelta(t, DefaultBasePrice, quote.Price, DefaultBasePrice*DefaultVariation)
	}
}

func TestSimulated_SeedIsDeterministic(t *testing.T) {
	item := food.Item{ID: 1, Name: "Beans", Price: food.Value(4000)}
	a, _ := NewSimulated("Gulu", 0, 0.1, 7).Fetch(context.Background(), item)
	b, _ := NewSimulated("Gulu", 0, 0.1, 7).Fetch(context.Background(), item)

	assert.Equal(t, a, b)
	assert.Equal(t, "Gulu", a.Location)
}

func TestSimulated_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulated("", 0, 0, 1).Fetch(ctx, food.Item{ID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	upstream := new(testutils.MockPriceSource)
	upstream.On("Fetch", mock.Anything, mock.Anything).Return(food.PriceQuote{}, errors.New("upstream down"))

	var transitions []string
	breaker := NewBreaker(upstream, BreakerSettings{
		MaxFailures: 3,
		Timeout:     time.Minute,
		OnChange: func(name, from, to string) {
			transitions = append(transitions, from+"->"+to)
		},
	}, zap.NewNop())

	item := food.Item{ID: 1, Name: "Beans"}
	for i := 0; i < 3; i++ {
		_, err := breaker.Fetch(context.Background(), item)
		require.EqualError(t, err, "upstream down")
	}

	_, err := breaker.Fetch(context.Background(), item)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, "open", breaker.State())
	assert.Equal(t, []string{"closed->open"}, transitions)
	upstream.AssertNumberOfCalls(t, "Fetch", 3)
	assert.Equal(t, "mock", breaker.Name())
}

func TestBreaker_PassesQuotesThrough(t *testing.T) {
	upstream := new(testutils.MockPriceSource)
	want := food.PriceQuote{Price: 1234.5, Location: "Mbale", Source: "mock"}
	upstream.On("Fetch", mock.Anything, mock.Anything).Return(want, nil)

	breaker := NewBreaker(upstream, BreakerSettings{}, zap.NewNop())
	got, err := breaker.Fetch(context.Background(), food.Item{ID: 3})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "closed", breaker.State())
}
