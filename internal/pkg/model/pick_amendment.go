package model

import (
	"time"

	"github.com/google/uuid"
)

// PickAmendment is the immutable audit record of a fee-bearing pick change.
type PickAmendment struct {
	Id         uuid.UUID
	GameId     uuid.UUID
	InningId   uuid.UUID
	PickId     uuid.UUID
	PlayerId   uuid.UUID
	OldCode    ChoiceCode
	NewCode    ChoiceCode
	FeeDollars int64
	CreatedAt  time.Time
}

func (PickAmendment) TableName() string {
	return "pick_amendment"
}
