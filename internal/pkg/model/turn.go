package model

import (
	"time"

	"github.com/google/uuid"
)

// Turn rows are append-only; the latest row for an inning is the
// authoritative "current player to act" pointer.
type Turn struct {
	Id              uuid.UUID
	GameId          uuid.UUID
	InningId        uuid.UUID
	CurrentPlayerId uuid.UUID
	CreatedAt       time.Time
}

func (Turn) TableName() string {
	return "turn"
}
