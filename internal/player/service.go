package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
	"github.com/thesrcielos/TicTacToeStats/internal/clock"
)

type GameResult struct {
	Player1 string  `json:"player1"`
	Player2 string  `json:"player2"`
	Winner  *string `json:"winner"`
}

type GameOutcome string

const (
	OutcomeTie                GameOutcome = "TIE"
	OutcomePlayer1Won         GameOutcome = "PLAYER1_WON"
	OutcomePlayer2Won         GameOutcome = "PLAYER2_WON"
	OutcomeUnknownPlayer      GameOutcome = "UNKNOWN_PLAYER"
	OutcomeUnrecognizedWinner GameOutcome = "UNRECOGNIZED_WINNER"
	OutcomeSamePlayer         GameOutcome = "SAME_PLAYER"
)

// Recorded reports whether the outcome changed any statistics.
func (o GameOutcome) Recorded() bool {
	switch o {
	case OutcomeTie, OutcomePlayer1Won, OutcomePlayer2Won:
		return true
	default:
		return false
	}
}

type PlayerService interface {
	CreateOrGetPlayer(ctx context.Context, username string) (*Player, error)
	CreatePlayer(ctx context.Context, username string) (*Player, error)
	FindByUsername(ctx context.Context, username string) (*Player, error)
	PlayerExists(ctx context.Context, username string) (bool, error)
	GetAllPlayers(ctx context.Context) ([]Player, error)
	GetTopPlayersByWins(ctx context.Context) ([]Player, error)
	GetTopPlayersByWinRate(ctx context.Context) ([]Player, error)
	GetRecentlyActivePlayers(ctx context.Context) ([]Player, error)
	RecordGameResult(ctx context.Context, result GameResult) (GameOutcome, error)
	SavePlayer(ctx context.Context, player *Player) (*Player, error)
}

type PlayerServiceImpl struct {
	repo   PlayerRepository
	locker UsernameLocker
	clock  clock.Clock
	logger *slog.Logger
}

var _ PlayerService = (*PlayerServiceImpl)(nil)

func NewPlayerService(repo PlayerRepository, locker UsernameLocker, clk clock.Clock, logger *slog.Logger) *PlayerServiceImpl {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerServiceImpl{
		repo:   repo,
		locker: locker,
		clock:  clk,
		logger: logger,
	}
}

// CreateOrGetPlayer never creates two players for one username. It touches
// the player's last activity whether it found or created it.
func (s *PlayerServiceImpl) CreateOrGetPlayer(ctx context.Context, username string) (*Player, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, username)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.touchExisting(ctx, username)
	if err != nil || existing != nil {
		return existing, err
	}

	created, err := s.repo.Save(ctx, NewPlayer(username, s.clock.Now()))
	if err == nil {
		s.logger.Info("player created", slog.String("username", username), slog.String("id", created.ID))
		return created, nil
	}
	if !errors.Is(err, apperrors.ErrIntegrityViolation) {
		return nil, err
	}

	// Another writer inserted the same username first.
	s.logger.Warn("concurrent player insert, retrying as update", slog.String("username", username))
	existing, retryErr := s.touchExisting(ctx, username)
	if retryErr != nil {
		return nil, retryErr
	}
	if existing == nil {
		return nil, err
	}
	return existing, nil
}

// CreatePlayer is the strict form of CreateOrGetPlayer: an existing
// username is a conflict, and so is losing an insert race to another writer.
func (s *PlayerServiceImpl) CreatePlayer(ctx context.Context, username string) (*Player, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, username)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("player already exists")
	}

	created, err := s.repo.Save(ctx, NewPlayer(username, s.clock.Now()))
	if err != nil {
		return nil, err
	}
	s.logger.Info("player created", slog.String("username", username), slog.String("id", created.ID))
	return created, nil
}

func (s *PlayerServiceImpl) touchExisting(ctx context.Context, username string) (*Player, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil || p == nil {
		return nil, err
	}
	p.Touch(s.clock.Now())
	return s.repo.Save(ctx, p)
}

func (s *PlayerServiceImpl) FindByUsername(ctx context.Context, username string) (*Player, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *PlayerServiceImpl) PlayerExists(ctx context.Context, username string) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *PlayerServiceImpl) GetAllPlayers(ctx context.Context) ([]Player, error) {
	return s.repo.FindAll(ctx)
}

func (s *PlayerServiceImpl) GetTopPlayersByWins(ctx context.Context) ([]Player, error) {
	return s.repo.FindTopByWins(ctx)
}

func (s *PlayerServiceImpl) GetTopPlayersByWinRate(ctx context.Context) ([]Player, error) {
	return s.repo.FindTopByWinRate(ctx)
}

func (s *PlayerServiceImpl) GetRecentlyActivePlayers(ctx context.Context) ([]Player, error) {
	return s.repo.FindRecentlyActive(ctx)
}

func (s *PlayerServiceImpl) SavePlayer(ctx context.Context, player *Player) (*Player, error) {
	return s.repo.Save(ctx, player)
}

// RecordGameResult applies one finished game to both players in a single
// transaction. Unknown players and a winner naming neither player leave all
// statistics unchanged and are reported through the outcome, not an error.
func (s *PlayerServiceImpl) RecordGameResult(ctx context.Context, result GameResult) (GameOutcome, error) {
	log := s.logger.With(
		slog.String("player1", result.Player1),
		slog.String("player2", result.Player2),
	)

	if result.Player1 == result.Player2 {
		log.Warn("game result ignored, player cannot play against themselves")
		return OutcomeSamePlayer, nil
	}

	var outcome GameOutcome
	err := s.repo.Transaction(ctx, func(repo PlayerRepository) error {
		p1, err := repo.FindByUsername(ctx, result.Player1)
		if err != nil {
			return err
		}
		p2, err := repo.FindByUsername(ctx, result.Player2)
		if err != nil {
			return err
		}
		if p1 == nil || p2 == nil {
			outcome = OutcomeUnknownPlayer
			return nil
		}

		now := s.clock.Now()
		switch {
		case result.Winner == nil:
			p1.IncrementTied(now)
			p2.IncrementTied(now)
			outcome = OutcomeTie
		case *result.Winner == result.Player1:
			p1.IncrementWon(now)
			p2.IncrementLost(now)
			outcome = OutcomePlayer1Won
		case *result.Winner == result.Player2:
			p2.IncrementWon(now)
			p1.IncrementLost(now)
			outcome = OutcomePlayer2Won
		default:
			outcome = OutcomeUnrecognizedWinner
			return nil
		}

		if _, err := repo.Save(ctx, p1); err != nil {
			return err
		}
		_, err = repo.Save(ctx, p2)
		return err
	})
	if err != nil {
		log.Error("error recording game result", slog.Any("error", err))
		return "", err
	}

	if outcome.Recorded() {
		log.Info("game result recorded", slog.String("outcome", string(outcome)))
	} else {
		attrs := []any{slog.String("outcome", string(outcome))}
		if result.Winner != nil {
			attrs = append(attrs, slog.String("winner", *result.Winner))
		}
		log.Warn("game result ignored", attrs...)
	}
	return outcome, nil
}
