package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
	"github.com/thesrcielos/TicTacToeStats/internal/player"
)

const INVALID_REQUEST = "invalid request"

type PlayerHandler struct {
	service player.PlayerService
}

func NewPlayerHandler(service player.PlayerService) *PlayerHandler {
	return &PlayerHandler{service: service}
}

// RegisterPlayerRoutes mounts the player API. Static segments take
// precedence over :username in echo's router.
func RegisterPlayerRoutes(g *echo.Group, service player.PlayerService) {
	h := NewPlayerHandler(service)
	g.GET("", h.GetAllPlayersHandler)
	g.GET("/top/wins", h.GetTopPlayersByWinsHandler)
	g.GET("/top/winrate", h.GetTopPlayersByWinRateHandler)
	g.GET("/recent", h.GetRecentlyActivePlayersHandler)
	g.GET("/exists/:username", h.PlayerExistsHandler)
	g.GET("/:username", h.GetPlayerHandler)
	g.POST("/results", h.RecordGameResultHandler)
	g.POST("/:username", h.CreatePlayerHandler)
}

func (h *PlayerHandler) GetAllPlayersHandler(c echo.Context) error {
	players, err := h.service.GetAllPlayers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) GetPlayerHandler(c echo.Context) error {
	username := c.Param("username")
	p, err := h.service.FindByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	if p == nil {
		return apperrors.NotFound("player not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlayerHandler) GetTopPlayersByWinsHandler(c echo.Context) error {
	players, err := h.service.GetTopPlayersByWins(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) GetTopPlayersByWinRateHandler(c echo.Context) error {
	players, err := h.service.GetTopPlayersByWinRate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) GetRecentlyActivePlayersHandler(c echo.Context) error {
	players, err := h.service.GetRecentlyActivePlayers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, players)
}

// CreatePlayerHandler is strict: an existing username is a conflict, unlike
// the get-or-create used when a player joins a game.
func (h *PlayerHandler) CreatePlayerHandler(c echo.Context) error {
	p, err := h.service.CreatePlayer(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlayerHandler) PlayerExistsHandler(c echo.Context) error {
	exists, err := h.service.PlayerExists(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exists)
}

func (h *PlayerHandler) RecordGameResultHandler(c echo.Context) error {
	var r player.GameResult
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, INVALID_REQUEST)
	}
	if r.Player1 == "" || r.Player2 == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "player1 and player2 are required")
	}

	outcome, err := h.service.RecordGameResult(c.Request().Context(), r)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"outcome":  outcome,
		"recorded": outcome.Recorded(),
	})
}
