package router

import (
	"context"
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/websocket/actions"
	"github.com/thesrcielos/TicTacToeStats/websocket/message"
)

type HandlerFunc func(ctx context.Context, username string, msg message.Message)

type Router struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

func New(a *actions.Actions, logger *slog.Logger) *Router {
	return &Router{
		handlers: map[string]HandlerFunc{
			message.TypeGameResult:  a.HandleGameResult,
			message.TypePlayerStats: a.HandlePlayerStats,
		},
		logger: logger,
	}
}

func (r *Router) RouteMessage(ctx context.Context, username string, msg message.Message) {
	if handler, ok := r.handlers[msg.Type]; ok {
		handler(ctx, username, msg)
	} else {
		r.logger.Warn("unknown message type", slog.String("username", username), slog.String("type", msg.Type))
	}
}
