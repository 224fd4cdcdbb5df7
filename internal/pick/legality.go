package pick

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/rules"
	"github.com/google/uuid"
)

// applySubmission resolves a submission against the player's existing pick
// for the half. Resubmitting overwrites the same row in place and never
// touches amend_count; only a first submission mints a new pick.
func applySubmission(existing *model.Pick, gameId, inningId, playerId uuid.UUID, code model.ChoiceCode, now time.Time) (model.Pick, string) {
	if existing != nil {
		updated := *existing
		updated.ChoiceCode = code
		updated.CreatedAt = now
		return updated, "overwrite"
	}

	return model.Pick{
		Id:         uuid.New(),
		GameId:     gameId,
		InningId:   inningId,
		PlayerId:   playerId,
		ChoiceCode: code,
		AmendCount: 0,
		IsFinal:    true,
		CreatedAt:  now,
	}, "create"
}

// classifyAmend maps amendment legality onto the problem surface. A nil
// return is the only path on which the service writes the amendment, the
// fee entry and the pick update.
func classifyAmend(pick model.Pick, newCode model.ChoiceCode, locked bool) *reject.Problem {
	err := rules.CheckAmend(pick, newCode, locked)
	if err == nil {
		return nil
	}

	var problem reject.Problem
	switch {
	case rules.AmendCapReached(pick, newCode):
		problem = reject.LimitExceededProblem(err.Error())
	case !locked:
		problem = reject.InvalidStateProblem(err.Error())
	default:
		problem = reject.ValidationProblem(err.Error())
	}
	return &problem
}
