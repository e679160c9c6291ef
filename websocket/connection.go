package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/thesrcielos/TicTacToeStats/internal/session"
	"github.com/thesrcielos/TicTacToeStats/websocket/message"
)

func (h *Hub) listenPlayerMessages(ctx context.Context, s *session.PlayerSession, conn *websocket.Conn) {
	defer func() {
		h.logger.Info("player disconnected", slog.String("username", s.Username))
		h.registry.Unregister(s)
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("error reading message", slog.String("username", s.Username), slog.Any("error", err))
			}
			break
		}

		var msg message.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn("error decoding message", slog.String("username", s.Username), slog.Any("error", err))
			continue
		}

		h.router.RouteMessage(ctx, s.Username, msg)
	}
}
