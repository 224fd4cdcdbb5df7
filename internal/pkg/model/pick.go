package model

import (
	"time"

	"github.com/google/uuid"
)

// ChoiceCode is a player's prediction for the outcome of an at-bat.
type ChoiceCode string

const (
	ChoiceStrikeout  ChoiceCode = "K"
	ChoiceGroundOut  ChoiceCode = "G"
	ChoiceFlyOut     ChoiceCode = "F"
	ChoiceDouble     ChoiceCode = "D"
	ChoiceTriple     ChoiceCode = "T"
	ChoiceNoDecision ChoiceCode = "N"
)

func (c ChoiceCode) IsValid() bool {
	switch c {
	case ChoiceStrikeout, ChoiceGroundOut, ChoiceFlyOut, ChoiceDouble, ChoiceTriple, ChoiceNoDecision:
		return true
	}
	return false
}

type Pick struct {
	Id         uuid.UUID
	GameId     uuid.UUID
	InningId   uuid.UUID
	PlayerId   uuid.UUID
	ChoiceCode ChoiceCode
	AmendCount int
	IsFinal    bool
	CreatedAt  time.Time
}

func (Pick) TableName() string {
	return "pick"
}
