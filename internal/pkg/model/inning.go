package model

import (
	"time"

	"github.com/google/uuid"
)

type InningHalf string

const (
	HalfTop    InningHalf = "top"
	HalfBottom InningHalf = "bottom"
)

func (h InningHalf) IsValid() bool {
	return h == HalfTop || h == HalfBottom
}

// Inning is one half-inning of play. ClosedAt is set exactly once; a half
// with a nil ClosedAt is the game's single open half.
type Inning struct {
	Id              uuid.UUID
	GameId          uuid.UUID
	InningNumber    int
	Half            InningHalf
	Outs            int
	BetweenAbLocked bool
	StartedAt       time.Time
	ClosedAt        *time.Time
}

func (Inning) TableName() string {
	return "inning"
}

func (i Inning) IsClosed() bool {
	return i.ClosedAt != nil
}
