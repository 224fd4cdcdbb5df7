package model

import (
	"time"

	"github.com/google/uuid"
)

// GamePlayer is a user's membership in one game. TurnOrder is assigned at
// join time and never changes afterwards.
type GamePlayer struct {
	Id         uuid.UUID
	GameId     uuid.UUID
	UserId     uuid.UUID
	TurnOrder  int
	IsAdmin    bool
	Nickname   *string
	JoinedAt   time.Time
	LastSeenAt time.Time
}

func (GamePlayer) TableName() string {
	return "game_player"
}
