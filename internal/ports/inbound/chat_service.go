package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zoenutrition/zoe/internal/domain/chat"
)

// ChatService defines the conversational assistant
type ChatService interface {
	ProcessMessage(ctx context.Context, userID uuid.UUID, message string) (*ChatReplyDTO, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]ChatExchangeDTO, error)
}

// ChatReplyDTO is the assistant's answer to one message
type ChatReplyDTO struct {
	Response string        `json:"response"`
	Intent   chat.Intent   `json:"intent"`
	Entities chat.Entities `json:"entities"`
}

// ChatExchangeDTO is a stored message and reply
type ChatExchangeDTO struct {
	ID        uuid.UUID   `json:"id"`
	Message   string      `json:"message"`
	Response  string      `json:"response"`
	Intent    chat.Intent `json:"intent"`
	CreatedAt time.Time   `json:"created_at"`
}
