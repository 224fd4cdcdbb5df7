// Package audit records engine state transitions as immutable event rows
// and mirrors them onto Pub/Sub for external consumers (pollers, the stats
// aggregator, log sinks).
package audit

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pubsub"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const TopicGameEvents = "gamblor.game.events"

type gameEventMessage struct {
	model.Event
}

func (gameEventMessage) GetEventTopicName() string {
	return TopicGameEvents
}

// Record writes the event row inside the caller's transaction. The fact
// only exists if the surrounding mutation commits.
func Record(tx *gorm.DB, gameId uuid.UUID, actorUserId *uuid.UUID, eventType string, payload any) (*model.Event, error) {
	event := model.Event{
		Id:          uuid.New(),
		GameId:      gameId,
		ActorUserId: actorUserId,
		Type:        eventType,
		Payload:     string(utils.JsonEncode(payload)),
		CreatedAt:   time.Now().UTC(),
	}

	result := tx.Exec(`
		INSERT INTO game_event (id, game_id, actor_user_id, type, payload, created_at)
		VALUES (?, ?, ?, ?, ?::jsonb, ?)`,
		event.Id, event.GameId, event.ActorUserId, event.Type, event.Payload, event.CreatedAt)
	if result.Error != nil {
		return nil, result.Error
	}

	return &event, nil
}

// Publish mirrors a committed event onto the game events topic. Callers
// invoke this after their transaction commits, never inside it.
func Publish(events ...*model.Event) {
	for _, event := range events {
		if event == nil {
			continue
		}
		pubsub.Publish(gameEventMessage{*event})
	}
}
