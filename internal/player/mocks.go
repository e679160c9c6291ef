package player

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) FindByUsername(ctx context.Context, username string) (*Player, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}

func (m *MockPlayerRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerRepository) Save(ctx context.Context, player *Player) (*Player, error) {
	args := m.Called(ctx, player)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}

func (m *MockPlayerRepository) FindAll(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerRepository) FindTopByWins(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerRepository) FindTopByWinRate(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerRepository) FindRecentlyActive(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

// Transaction runs fn against the mock itself unless an error is stubbed.
func (m *MockPlayerRepository) Transaction(ctx context.Context, fn func(repo PlayerRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, username string) (func(), error) {
	args := m.Called(ctx, username)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.MethodCalled("Unlock", username) }, nil
}

type MockPlayerService struct {
	mock.Mock
}

func (m *MockPlayerService) CreateOrGetPlayer(ctx context.Context, username string) (*Player, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}

func (m *MockPlayerService) CreatePlayer(ctx context.Context, username string) (*Player, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}

func (m *MockPlayerService) FindByUsername(ctx context.Context, username string) (*Player, error) {
	args := m.Called(ctx, username)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}

func (m *MockPlayerService) PlayerExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlayerService) GetAllPlayers(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerService) GetTopPlayersByWins(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerService) GetTopPlayersByWinRate(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerService) GetRecentlyActivePlayers(ctx context.Context) ([]Player, error) {
	args := m.Called(ctx)
	players, _ := args.Get(0).([]Player)
	return players, args.Error(1)
}

func (m *MockPlayerService) RecordGameResult(ctx context.Context, result GameResult) (GameOutcome, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(GameOutcome), args.Error(1)
}

func (m *MockPlayerService) SavePlayer(ctx context.Context, player *Player) (*Player, error) {
	args := m.Called(ctx, player)
	p, _ := args.Get(0).(*Player)
	return p, args.Error(1)
}
