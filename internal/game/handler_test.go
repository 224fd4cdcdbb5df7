package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStateETagStableForSameInputs(t *testing.T) {
	gameId := uuid.New()
	eventId := uuid.New()
	userId := uuid.New()

	first := stateETag(gameId, eventId, &userId)
	second := stateETag(gameId, eventId, &userId)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^"[0-9a-f]{16}"$`, first)
}

func TestStateETagChangesWithEvent(t *testing.T) {
	gameId := uuid.New()
	userId := uuid.New()

	before := stateETag(gameId, uuid.New(), &userId)
	after := stateETag(gameId, uuid.New(), &userId)

	assert.NotEqual(t, before, after)
}

func TestStateETagScopedPerCaller(t *testing.T) {
	gameId := uuid.New()
	eventId := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	assert.NotEqual(t, stateETag(gameId, eventId, &alice), stateETag(gameId, eventId, &bob))
	assert.NotEqual(t, stateETag(gameId, eventId, &alice), stateETag(gameId, eventId, nil))
}
