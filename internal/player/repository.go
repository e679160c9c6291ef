package player

import (
	"context"
	"errors"
	"strings"

	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
	"gorm.io/gorm"
)

type PlayerRepository interface {
	FindByUsername(ctx context.Context, username string) (*Player, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, player *Player) (*Player, error)
	FindAll(ctx context.Context) ([]Player, error)
	FindTopByWins(ctx context.Context) ([]Player, error)
	FindTopByWinRate(ctx context.Context) ([]Player, error)
	FindRecentlyActive(ctx context.Context) ([]Player, error)
	Transaction(ctx context.Context, fn func(repo PlayerRepository) error) error
}

type GormPlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	return &GormPlayerRepository{db: db}
}

var _ PlayerRepository = (*GormPlayerRepository)(nil)

// Migrate creates the players table and its unique username index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Player{})
}

func (r *GormPlayerRepository) FindByUsername(ctx context.Context, username string) (*Player, error) {
	var p Player
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("error finding player", err)
	}
	return &p, nil
}

func (r *GormPlayerRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Player{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("error checking player", err)
	}
	return count > 0, nil
}

// Save inserts players without an ID and fully updates the others.
func (r *GormPlayerRepository) Save(ctx context.Context, player *Player) (*Player, error) {
	tx := r.db.WithContext(ctx)
	var err error
	if player.ID == "" {
		err = tx.Create(player).Error
	} else {
		err = tx.Save(player).Error
	}

	if err != nil {
		if isUniqueViolation(err) {
			// Create may have assigned an ID to a row that never landed.
			player.ID = ""
			return nil, apperrors.Integrity("username already taken", err)
		}
		return nil, apperrors.Internal("error saving player", err)
	}
	return player, nil
}

func (r *GormPlayerRepository) FindAll(ctx context.Context) ([]Player, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at ASC").Order("id ASC")
	})
}

func (r *GormPlayerRepository) FindTopByWins(ctx context.Context) ([]Player, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Order("games_won DESC").Order("total_games DESC").Order("username ASC")
	})
}

// FindTopByWinRate leaves out players that never finished a game.
func (r *GormPlayerRepository) FindTopByWinRate(ctx context.Context) ([]Player, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("total_games > 0").
			Order("games_won * 1.0 / total_games DESC").
			Order("total_games DESC").
			Order("username ASC")
	})
}

func (r *GormPlayerRepository) FindRecentlyActive(ctx context.Context) ([]Player, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Order("last_active DESC").Order("username ASC")
	})
}

func (r *GormPlayerRepository) Transaction(ctx context.Context, fn func(repo PlayerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormPlayerRepository{db: tx})
	})
}

func (r *GormPlayerRepository) list(ctx context.Context, scope func(q *gorm.DB) *gorm.DB) ([]Player, error) {
	players := []Player{}
	if err := scope(r.db.WithContext(ctx).Model(&Player{})).Find(&players).Error; err != nil {
		return nil, apperrors.Internal("error listing players", err)
	}
	return players, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
