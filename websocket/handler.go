package websocket

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/TicTacToeStats/internal/player"
	"github.com/thesrcielos/TicTacToeStats/internal/session"
	"github.com/thesrcielos/TicTacToeStats/websocket/actions"
	"github.com/thesrcielos/TicTacToeStats/websocket/router"
	"github.com/thesrcielos/TicTacToeStats/websocket/transport"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type Hub struct {
	service  player.PlayerService
	registry *session.Registry
	router   *router.Router
	logger   *slog.Logger
}

func NewHub(service player.PlayerService, logger *slog.Logger) *Hub {
	registry := session.NewRegistry()
	sender := transport.NewSessionSender(registry, logger)
	return &Hub{
		service:  service,
		registry: registry,
		router:   router.New(actions.New(service, sender, logger), logger),
		logger:   logger,
	}
}

// WebSocketHandler joins a player to the game channel. Joining counts as
// activity, so the player is created or touched before the upgrade.
func (h *Hub) WebSocketHandler(c echo.Context) error {
	username := c.QueryParam("username")
	if err := player.ValidateUsername(username); err != nil {
		return err
	}

	p, err := h.service.CreateOrGetPlayer(c.Request().Context(), username)
	if err != nil {
		return err
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("username", username), slog.Any("error", err))
		return nil
	}

	h.logger.Info("player connected", slog.String("username", username), slog.String("id", p.ID))
	s := h.registry.Register(username, ws)
	go h.listenPlayerMessages(context.Background(), s, ws)

	return nil
}

// Shutdown closes every connected player's socket. echo's Shutdown does not
// track hijacked connections, so they are closed here.
func (h *Hub) Shutdown() {
	usernames := h.registry.Usernames()
	for _, username := range usernames {
		if s := h.registry.Get(username); s != nil {
			_ = s.Conn.Close()
		}
	}
	h.logger.Info("closed player connections", slog.Int("count", len(usernames)), slog.Any("usernames", usernames))
}
