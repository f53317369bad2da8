package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

func TestBus_PublishInOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var seen []string
	bus.Subscribe("recommendation.created", func(ctx context.Context, m outbound.Message) error {
		seen = append(seen, "first:"+m.ID)
		return nil
	})
	bus.Subscribe("recommendation.created", func(ctx context.Context, m outbound.Message) error {
		seen = append(seen, "second:"+m.ID)
		return nil
	})
	bus.Subscribe("recommendation.accepted", func(ctx context.Context, m outbound.Message) error {
		seen = append(seen, "other")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "recommendation.created", outbound.Message{ID: "m1"}))
	assert.Equal(t, []string{"first:m1", "second:m1"}, seen)
}

func TestBus_PublishWithoutHandlers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	assert.NoError(t, bus.Publish(context.Background(), "nobody.listens", outbound.Message{}))
}

func TestBus_FailingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())

	delivered := 0
	bus.Subscribe("t", func(ctx context.Context, m outbound.Message) error {
		return errors.New("boom")
	})
	bus.Subscribe("t", func(ctx context.Context, m outbound.Message) error {
		delivered++
		return nil
	})

	err := bus.Publish(context.Background(), "t", outbound.Message{ID: "x"})
	assert.Error(t, err)
	assert.Equal(t, 1, delivered)
}
