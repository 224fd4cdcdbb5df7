package pick

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/ledger"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/audit"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pgtx"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pickService struct {
	db *gorm.DB
}

// submitPick inserts the player's prediction for the open half, or
// overwrites an existing one in place. Overwriting before the half locks
// is a free correction, not an amendment: no fee, no amendment record.
func (ps *pickService) submitPick(gameId, inningId uuid.UUID, callerUserId uuid.UUID, code model.ChoiceCode) (*model.Pick, *reject.ProblemWithTrace) {
	if !code.IsValid() {
		problem := reject.ValidationProblem("invalid choice code")
		return nil, &reject.ProblemWithTrace{Problem: problem, Cause: reject.Abort(problem)}
	}

	var saved *model.Pick
	var submittedEvent *model.Event

	err := pgtx.InSerializableTx(ps.db, func(tx *gorm.DB) error {
		game, player, err := loadGameAndPlayer(tx, gameId, callerUserId)
		if err != nil {
			return err
		}
		if game.Status != model.GameActive {
			return reject.Abort(reject.InvalidStateProblem("game is not active"))
		}

		inning, err := loadInning(tx, gameId, inningId)
		if err != nil {
			return err
		}
		if inning.IsClosed() {
			return reject.Abort(reject.InvalidStateProblem("inning already closed"))
		}
		if inning.BetweenAbLocked {
			return reject.Abort(reject.InvalidStateProblem("picks are locked between at-bats"))
		}

		if err := requireTurnHolder(tx, inning.Id, player.Id); err != nil {
			return err
		}

		var existing model.Pick
		f := tx.Raw(`
			SELECT * FROM pick
			 WHERE inning_id = ? AND player_id = ?
			 LIMIT 1`, inning.Id, player.Id).First(&existing)
		if f.Error != nil && f.Error != gorm.ErrRecordNotFound {
			return f.Error
		}

		var current *model.Pick
		if f.Error == nil {
			current = &existing
		}

		resolved, action := applySubmission(current, gameId, inning.Id, player.Id, code, time.Now().UTC())
		if action == "overwrite" {
			f = tx.Exec(`
				UPDATE pick SET choice_code = ?, created_at = ?
				 WHERE id = ?`, resolved.ChoiceCode, resolved.CreatedAt, resolved.Id)
		} else {
			f = tx.Table(model.Pick{}.TableName()).Create(&resolved)
		}
		if f.Error != nil {
			return f.Error
		}
		saved = &resolved

		submittedEvent, err = audit.Record(tx, gameId, &callerUserId, model.EventPickSubmitted, map[string]any{
			"pick_id":     saved.Id,
			"inning_id":   inning.Id,
			"player_id":   player.Id,
			"choice_code": code,
			"action":      action,
		})
		return err
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(submittedEvent)
	return saved, nil
}

// amendPick changes a committed pick after the half locks between at-bats.
// The change costs a flat fee and leaves an immutable amendment record.
func (ps *pickService) amendPick(gameId, pickId uuid.UUID, callerUserId uuid.UUID, newCode model.ChoiceCode) (*model.Pick, *reject.ProblemWithTrace) {
	var amended *model.Pick
	var amendedEvent *model.Event

	err := pgtx.InSerializableTx(ps.db, func(tx *gorm.DB) error {
		game, player, err := loadGameAndPlayer(tx, gameId, callerUserId)
		if err != nil {
			return err
		}
		if game.Status != model.GameActive {
			return reject.Abort(reject.InvalidStateProblem("game is not active"))
		}

		var existing model.Pick
		f := tx.Raw(`
			SELECT * FROM pick
			 WHERE id = ? AND game_id = ?
			 FOR UPDATE`, pickId, gameId).First(&existing)
		if f.Error == gorm.ErrRecordNotFound {
			return reject.Abort(reject.GameNotFoundProblem("pick not found"))
		}
		if f.Error != nil {
			return f.Error
		}
		if existing.PlayerId != player.Id {
			return reject.Abort(reject.ForbiddenProblem("pick belongs to another player"))
		}

		inning, err := loadInning(tx, gameId, existing.InningId)
		if err != nil {
			return err
		}
		if inning.IsClosed() {
			return reject.Abort(reject.InvalidStateProblem("inning already closed"))
		}

		if err := requireTurnHolder(tx, inning.Id, player.Id); err != nil {
			return err
		}

		if problem := classifyAmend(existing, newCode, inning.BetweenAbLocked); problem != nil {
			return reject.Abort(*problem)
		}

		amendment := model.PickAmendment{
			Id:         uuid.New(),
			GameId:     gameId,
			InningId:   inning.Id,
			PickId:     existing.Id,
			PlayerId:   player.Id,
			OldCode:    existing.ChoiceCode,
			NewCode:    newCode,
			FeeDollars: rules.AmendFeeDollars,
			CreatedAt:  time.Now().UTC(),
		}
		f = tx.Table(model.PickAmendment{}.TableName()).Create(&amendment)
		if f.Error != nil {
			return f.Error
		}

		note := "Pick amendment fee"
		fee := model.LedgerEntry{
			GameId:        gameId,
			InningId:      &inning.Id,
			PlayerId:      &player.Id,
			AmountDollars: -rules.AmendFeeDollars,
			Reason:        model.ReasonAmendFee,
			Note:          &note,
		}
		if err := ledger.Append(tx, &fee); err != nil {
			return err
		}

		existing.ChoiceCode = newCode
		existing.AmendCount++
		f = tx.Exec(`
			UPDATE pick SET choice_code = ?, amend_count = ?
			 WHERE id = ?`, existing.ChoiceCode, existing.AmendCount, existing.Id)
		if f.Error != nil {
			return f.Error
		}
		amended = &existing

		amendedEvent, err = audit.Record(tx, gameId, &callerUserId, model.EventPickAmended, map[string]any{
			"pick_id":     existing.Id,
			"inning_id":   inning.Id,
			"old_code":    amendment.OldCode,
			"new_code":    amendment.NewCode,
			"fee_dollars": amendment.FeeDollars,
			"amend_count": existing.AmendCount,
		})
		return err
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(amendedEvent)
	return amended, nil
}

func loadGameAndPlayer(tx *gorm.DB, gameId, userId uuid.UUID) (*model.Game, *model.GamePlayer, error) {
	var game model.Game
	f := tx.Raw("SELECT * FROM game WHERE id = ? FOR UPDATE", gameId).First(&game)
	if f.Error == gorm.ErrRecordNotFound {
		return nil, nil, reject.Abort(reject.GameNotFoundProblem("game not found"))
	}
	if f.Error != nil {
		return nil, nil, f.Error
	}

	var player model.GamePlayer
	f = tx.Raw(`
		SELECT * FROM game_player
		 WHERE game_id = ? AND user_id = ?`, gameId, userId).First(&player)
	if f.Error == gorm.ErrRecordNotFound {
		return nil, nil, reject.Abort(reject.ForbiddenProblem("caller is not a player in this game"))
	}
	if f.Error != nil {
		return nil, nil, f.Error
	}

	return &game, &player, nil
}

func loadInning(tx *gorm.DB, gameId, inningId uuid.UUID) (*model.Inning, error) {
	var inning model.Inning
	f := tx.Raw(`
		SELECT * FROM inning
		 WHERE id = ? AND game_id = ?
		 FOR UPDATE`, inningId, gameId).First(&inning)
	if f.Error == gorm.ErrRecordNotFound {
		return nil, reject.Abort(reject.GameNotFoundProblem("inning not found"))
	}
	if f.Error != nil {
		return nil, f.Error
	}
	return &inning, nil
}

// requireTurnHolder enforces the ordering protocol: only the player the
// latest turn row points at may act on the half.
func requireTurnHolder(tx *gorm.DB, inningId, playerId uuid.UUID) error {
	var turn model.Turn
	f := tx.Raw(`
		SELECT * FROM turn
		 WHERE inning_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, inningId).First(&turn)
	if f.Error == gorm.ErrRecordNotFound {
		return reject.Abort(reject.InvalidStateProblem("no turn assigned for this inning"))
	}
	if f.Error != nil {
		return f.Error
	}
	if turn.CurrentPlayerId != playerId {
		return reject.Abort(reject.ForbiddenProblem("it is not your turn"))
	}
	return nil
}
