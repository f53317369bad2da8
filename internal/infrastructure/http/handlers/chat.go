package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
	"github.com/zoenutrition/zoe/internal/ports/inbound"
	"github.com/zoenutrition/zoe/pkg/errors"
)

const (
	defaultHistoryLimit = 10

	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4 * 1024
)

// ChatMessageRequest is the body of POST /chat/messages and each
// websocket frame sent by the client
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// chatFrame is sent back on the websocket. Exactly one of Reply and
// Error is set.
type chatFrame struct {
	Reply *inbound.ChatReplyDTO `json:"reply,omitempty"`
	Error *errors.ErrorDetails  `json:"error,omitempty"`
}

// SendChatMessage handles POST /api/v1/chat/messages
func (h *APIHandlers) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req ChatMessageRequest
	if err := render.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	reply, err := h.services.Chat.ProcessMessage(r.Context(), userID, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.metrics.ChatMessage(string(reply.Intent))
	render.JSON(w, http.StatusOK, reply)
}

// ChatHistory handles GET /api/v1/chat/history
func (h *APIHandlers) ChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	history, err := h.services.Chat.History(r.Context(), userID, queryInt(r, "limit", defaultHistoryLimit))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, history)
}

// ChatSocket handles GET /api/v1/chat/ws. Each text frame carries a
// ChatMessageRequest and is answered with one chatFrame; errors are
// reported in-band and keep the connection open.
func (h *APIHandlers) ChatSocket(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	for {
		var req ChatMessageRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Unexpected websocket close", zap.String("user_id", userID.String()), zap.Error(err))
			}
			return
		}

		frame := h.chatFrame(r, userID, req)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Debug("Websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *APIHandlers) chatFrame(r *http.Request, userID uuid.UUID, req ChatMessageRequest) chatFrame {
	if err := render.Validate(&req); err != nil {
		details := errors.ToErrorResponse(errors.Wrap(err, ""), "").Error
		return chatFrame{Error: &details}
	}

	reply, err := h.services.Chat.ProcessMessage(r.Context(), userID, req.Message)
	if err != nil {
		details := errors.ToErrorResponse(errors.Wrap(err, ""), "").Error
		return chatFrame{Error: &details}
	}

	h.metrics.ChatMessage(string(reply.Intent))
	return chatFrame{Reply: reply}
}

// pingLoop keeps the connection alive until done is closed. gorilla
// allows one concurrent writer, and WriteControl is safe alongside it.
func (h *APIHandlers) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
