package player

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/thesrcielos/TicTacToeStats/internal/apperrors"
	"gorm.io/gorm"
)

const maxUsernameLength = 30

type Player struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	TotalGames int       `gorm:"column:total_games;not null;default:0" json:"totalGames"`
	GamesWon   int       `gorm:"column:games_won;not null;default:0" json:"gamesWon"`
	GamesLost  int       `gorm:"column:games_lost;not null;default:0" json:"gamesLost"`
	GamesTied  int       `gorm:"column:games_tied;not null;default:0" json:"gamesTied"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt"`
	LastActive time.Time `gorm:"column:last_active;index" json:"lastActive"`
}

func (Player) TableName() string {
	return "players"
}

// BeforeCreate assigns the opaque identifier on insert.
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func NewPlayer(username string, now time.Time) *Player {
	return &Player{
		Username:   username,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (p *Player) IncrementWon(now time.Time) {
	p.GamesWon++
	p.TotalGames++
	p.LastActive = now
}

func (p *Player) IncrementLost(now time.Time) {
	p.GamesLost++
	p.TotalGames++
	p.LastActive = now
}

func (p *Player) IncrementTied(now time.Time) {
	p.GamesTied++
	p.TotalGames++
	p.LastActive = now
}

func (p *Player) Touch(now time.Time) {
	p.LastActive = now
}

// WinRate is the percentage of games won, 0 when no game was played.
func (p *Player) WinRate() float64 {
	if p.TotalGames == 0 {
		return 0.0
	}
	return float64(p.GamesWon) / float64(p.TotalGames) * 100
}

func (p *Player) FormattedWinRate() string {
	return fmt.Sprintf("%.1f%%", p.WinRate())
}

func (p *Player) String() string {
	return fmt.Sprintf("Player{id=%s, username='%s', totalGames=%d, gamesWon=%d, gamesLost=%d, gamesTied=%d, winRate=%s}",
		p.ID, p.Username, p.TotalGames, p.GamesWon, p.GamesLost, p.GamesTied, p.FormattedWinRate())
}

// MarshalJSON adds the rendered win rate to the stored fields.
func (p Player) MarshalJSON() ([]byte, error) {
	type alias Player
	return json.Marshal(struct {
		alias
		WinRate string `json:"winRate"`
	}{
		alias:   alias(p),
		WinRate: p.FormattedWinRate(),
	})
}

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.Invalid("username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return apperrors.Invalid(fmt.Sprintf("username must not exceed %d characters", maxUsernameLength))
	}
	return nil
}
