// Package messaging provides the in-process message bus
package messaging

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/ports/outbound"
)

// Bus delivers messages synchronously to the handlers subscribed to a
// topic, in subscription order. A failing handler does not stop delivery
// to the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]outbound.MessageHandler
	logger   *zap.Logger
}

// NewBus creates an empty bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]outbound.MessageHandler),
		logger:   logger.Named("message-bus"),
	}
}

var _ outbound.MessageBus = (*Bus)(nil)

// Subscribe registers handler for topic
func (b *Bus) Subscribe(topic string, handler outbound.MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.logger.Debug("Registered message handler", zap.String("topic", topic))
}

// Publish hands message to every handler of topic. The returned error
// counts the handlers that failed.
func (b *Bus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	b.mu.RLock()
	handlers := append([]outbound.MessageHandler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("No handlers registered for topic", zap.String("topic", topic))
		return nil
	}

	failed := 0
	for _, handler := range handlers {
		if err := handler(ctx, message); err != nil {
			failed++
			b.logger.Error("Failed to handle message",
				zap.String("topic", topic),
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d handlers failed for %s", failed, len(handlers), topic)
	}
	return nil
}
