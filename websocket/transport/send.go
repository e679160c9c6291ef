package transport

import (
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/internal/session"
)

type OutgoingMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type Sender interface {
	SendToPlayer(username string, msg OutgoingMessage)
	BroadcastToPlayers(usernames []string, msg OutgoingMessage)
}

type SessionSender struct {
	registry *session.Registry
	logger   *slog.Logger
}

func NewSessionSender(registry *session.Registry, logger *slog.Logger) *SessionSender {
	return &SessionSender{registry: registry, logger: logger}
}

// SendToPlayer drops the message when the player is not connected.
func (s *SessionSender) SendToPlayer(username string, msg OutgoingMessage) {
	player := s.registry.Get(username)
	if player == nil {
		return
	}

	if err := player.Write(msg); err != nil {
		s.logger.Warn("error sending message",
			slog.String("username", username),
			slog.String("type", msg.Type),
			slog.Any("error", err))
	}
}

func (s *SessionSender) BroadcastToPlayers(usernames []string, msg OutgoingMessage) {
	for _, username := range usernames {
		s.SendToPlayer(username, msg)
	}
}
