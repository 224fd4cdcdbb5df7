package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventGameCreated       = "game_created"
	EventPlayerJoined      = "player_joined"
	EventGameUpdated       = "game_updated"
	EventGameStarted       = "game_started"
	EventGameFinished      = "game_finished"
	EventPickSubmitted     = "pick_submitted"
	EventPickAmended       = "pick_amended"
	EventInningLocked      = "inning_locked"
	EventInningUnlocked    = "inning_unlocked"
	EventInningAdjudicated = "inning_adjudicated"
	EventTurnAdvanced      = "turn_advanced"
)

// Event is an immutable audit fact. Payload holds a JSON document.
type Event struct {
	Id          uuid.UUID
	GameId      uuid.UUID
	ActorUserId *uuid.UUID
	Type        string
	Payload     string
	Note        *string
	CreatedAt   time.Time
}

func (Event) TableName() string {
	return "game_event"
}
