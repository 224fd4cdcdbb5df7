package model

import (
	"time"

	"github.com/google/uuid"
)

// PlayerGameStats is a derived per-game roll-up, recomputed from the ledger
// and pick tables when a game finishes.
type PlayerGameStats struct {
	Id            uuid.UUID
	GameId        uuid.UUID
	PlayerId      uuid.UUID
	NetDollars    int64
	Wins          int
	Misses        int
	Amendments    int
	BiggestPotWon int64
	PicksTotal    int
	CreatedAt     time.Time
}

func (PlayerGameStats) TableName() string {
	return "player_game_stats"
}

type UserLifetimeTotals struct {
	UserId        uuid.UUID
	NetDollars    int64
	GamesPlayed   int
	Wins          int
	Misses        int
	Amendments    int
	BiggestPotWon int64
	PicksTotal    int
	UpdatedAt     time.Time
}

func (UserLifetimeTotals) TableName() string {
	return "user_lifetime_totals"
}
