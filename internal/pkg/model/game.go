package model

import (
	"time"

	"github.com/google/uuid"
)

type Game struct {
	Id               uuid.UUID
	Title            string
	Pin              string
	CreatedBy        uuid.UUID
	AnteDollars      int64
	AdjudicationMode AdjudicationMode
	DeadlineSeconds  *int64
	MlbGameId        *string
	Status           GameStatus
	CreatedAt        time.Time
}

func (Game) TableName() string {
	return "game"
}
