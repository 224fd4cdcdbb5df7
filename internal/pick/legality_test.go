package pick

import (
	"net/http"
	"testing"
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySubmissionFirstTimeMintsFinalPick(t *testing.T) {
	gameId, inningId, playerId := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	created, action := applySubmission(nil, gameId, inningId, playerId, model.ChoiceStrikeout, now)

	assert.Equal(t, "create", action)
	assert.NotEqual(t, uuid.Nil, created.Id)
	assert.Equal(t, gameId, created.GameId)
	assert.Equal(t, inningId, created.InningId)
	assert.Equal(t, playerId, created.PlayerId)
	assert.Equal(t, model.ChoiceStrikeout, created.ChoiceCode)
	assert.True(t, created.IsFinal)
	assert.Equal(t, 0, created.AmendCount)
}

func TestApplySubmissionResubmitSameCodeIsIdempotent(t *testing.T) {
	existing := model.Pick{
		Id:         uuid.New(),
		GameId:     uuid.New(),
		InningId:   uuid.New(),
		PlayerId:   uuid.New(),
		ChoiceCode: model.ChoiceGroundOut,
		AmendCount: 1,
		IsFinal:    true,
	}

	first, action := applySubmission(&existing, existing.GameId, existing.InningId, existing.PlayerId, model.ChoiceGroundOut, time.Now().UTC())
	require.Equal(t, "overwrite", action)

	second, action := applySubmission(&first, existing.GameId, existing.InningId, existing.PlayerId, model.ChoiceGroundOut, time.Now().UTC())
	require.Equal(t, "overwrite", action)

	// Same row, same code, amend_count untouched. Fees only ever come
	// from the amend path.
	assert.Equal(t, existing.Id, first.Id)
	assert.Equal(t, existing.Id, second.Id)
	assert.Equal(t, existing.ChoiceCode, second.ChoiceCode)
	assert.Equal(t, existing.AmendCount, first.AmendCount)
	assert.Equal(t, existing.AmendCount, second.AmendCount)
}

func TestApplySubmissionOverwriteChangesCodeInPlace(t *testing.T) {
	existing := model.Pick{
		Id:         uuid.New(),
		GameId:     uuid.New(),
		InningId:   uuid.New(),
		PlayerId:   uuid.New(),
		ChoiceCode: model.ChoiceStrikeout,
		IsFinal:    true,
	}

	updated, action := applySubmission(&existing, existing.GameId, existing.InningId, existing.PlayerId, model.ChoiceFlyOut, time.Now().UTC())

	assert.Equal(t, "overwrite", action)
	assert.Equal(t, existing.Id, updated.Id)
	assert.Equal(t, model.ChoiceFlyOut, updated.ChoiceCode)
	assert.Equal(t, 0, updated.AmendCount)
}

func TestClassifyAmendUnlockedHalfIsInvalidState(t *testing.T) {
	pick := model.Pick{ChoiceCode: model.ChoiceStrikeout}

	problem := classifyAmend(pick, model.ChoiceFlyOut, false)

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusConflict, problem.Status)
	assert.Equal(t, "error.game.invalid-state", problem.Code)
}

func TestClassifyAmendThirdRareAmendmentIsLimitExceeded(t *testing.T) {
	double := model.Pick{ChoiceCode: model.ChoiceDouble, AmendCount: 2}

	problem := classifyAmend(double, model.ChoiceStrikeout, true)

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
	assert.Equal(t, "error.game.limit-exceeded", problem.Code)

	intoDouble := model.Pick{ChoiceCode: model.ChoiceGroundOut, AmendCount: 2}
	problem = classifyAmend(intoDouble, model.ChoiceDouble, true)

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
}

func TestClassifyAmendLegalAmendmentPasses(t *testing.T) {
	pick := model.Pick{ChoiceCode: model.ChoiceStrikeout, AmendCount: 1}

	assert.Nil(t, classifyAmend(pick, model.ChoiceFlyOut, true))
}

func TestClassifyAmendSameCodeIsValidationFailure(t *testing.T) {
	pick := model.Pick{ChoiceCode: model.ChoiceStrikeout}

	problem := classifyAmend(pick, model.ChoiceStrikeout, true)

	require.NotNil(t, problem)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, "error.game.validation", problem.Code)
}
