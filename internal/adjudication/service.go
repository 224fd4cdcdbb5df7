package adjudication

import (
	"fmt"
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

type adjudicationService struct {
	db *gorm.DB
}

type AdjudicationResponse struct {
	Result            model.ChoiceCode `json:"result"`
	Winners           []uuid.UUID      `json:"winners"`
	PotAwarded        int64            `json:"potAwarded"`
	NewOuts           int              `json:"newOuts"`
	InningClosed      bool             `json:"inningClosed"`
	NextInningStarted bool             `json:"nextInningStarted"`
	NextInningId      *uuid.UUID       `json:"nextInningId,omitempty"`
}

// adjudicate settles one at-bat: it splits the pot among correct picks,
// books misses, records outs and, on the third out, closes the half and
// opens the next one. Everything commits atomically or not at all; a
// half that is already closed cannot be settled twice.
func (as *adjudicationService) adjudicate(gameId, inningId uuid.UUID, callerUserId uuid.UUID, result model.ChoiceCode) (*AdjudicationResponse, *reject.ProblemWithTrace) {
	if !result.IsValid() {
		problem := reject.ValidationProblem("invalid result code")
		return nil, &reject.ProblemWithTrace{Problem: problem, Cause: reject.Abort(problem)}
	}

	var response *AdjudicationResponse
	var events []*model.Event

	err := pgtx.InSerializableTx(as.db, func(tx *gorm.DB) error {
		events = events[:0]

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

		if err := requireAdjudicator(tx, game, player, inning); err != nil {
			return err
		}

		players := []model.GamePlayer{}
		f := tx.Table(model.GamePlayer{}.TableName()).
			Where("game_id = ?", gameId).
			Order("turn_order").
			Find(&players)
		if f.Error != nil {
			return f.Error
		}

		picks := []model.Pick{}
		f = tx.Table(model.Pick{}.TableName()).
			Where("inning_id = ? AND is_final", inning.Id).
			Find(&picks)
		if f.Error != nil {
			return f.Error
		}

		pot, err := ledger.PotDollars(tx, gameId)
		if err != nil {
			return err
		}

		settlement := computeSettlement(players, picks, result, pot)

		if err := as.writeSettlementEntries(tx, game, inning, settlement); err != nil {
			return err
		}

		newOuts, closed := rules.ApplyOuts(inning.Outs, settlement.OutDelta)
		f = tx.Exec("UPDATE inning SET outs = ? WHERE id = ?", newOuts, inning.Id)
		if f.Error != nil {
			return f.Error
		}

		response = &AdjudicationResponse{
			Result:       result,
			Winners:      settlement.WinnerIds,
			PotAwarded:   settlement.PotAwarded,
			NewOuts:      newOuts,
			InningClosed: closed,
		}

		adjudicated, err := audit.Record(tx, gameId, &callerUserId, model.EventInningAdjudicated, map[string]any{
			"inning_id":   inning.Id,
			"result":      result,
			"winners":     settlement.WinnerIds,
			"pot_awarded": settlement.PotAwarded,
			"new_outs":    newOuts,
			"closed":      closed,
		})
		if err != nil {
			return err
		}
		events = append(events, adjudicated)

		if closed {
			nextInningId, turnEvent, err := as.closeAndAdvance(tx, game, inning, players, callerUserId)
			if err != nil {
				return err
			}
			response.NextInningStarted = true
			response.NextInningId = nextInningId
			events = append(events, turnEvent)
		}

		return nil
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(events...)
	return response, nil
}

// writeSettlementEntries appends the win, miss and multi-out bookkeeping
// rows for one settled at-bat.
func (as *adjudicationService) writeSettlementEntries(tx *gorm.DB, game *model.Game, inning *model.Inning, settlement Settlement) error {
	winNote := fmt.Sprintf("Won inning %d%s pot", inning.InningNumber, string(inning.Half[0]))
	for i := range settlement.WinnerIds {
		entry := model.LedgerEntry{
			GameId:        game.Id,
			InningId:      &inning.Id,
			PlayerId:      &settlement.WinnerIds[i],
			AmountDollars: settlement.PerWinner,
			Reason:        model.ReasonWin,
			Note:          &winNote,
		}
		if err := ledger.Append(tx, &entry); err != nil {
			return err
		}
	}

	missNote := "Missed result " + string(settlement.Result)
	for i := range settlement.MissIds {
		entry := model.LedgerEntry{
			GameId:        game.Id,
			InningId:      &inning.Id,
			PlayerId:      &settlement.MissIds[i],
			AmountDollars: 0,
			Reason:        model.ReasonMiss,
			Note:          &missNote,
		}
		if err := ledger.Append(tx, &entry); err != nil {
			return err
		}
	}

	if settlement.MultiOut {
		note := fmt.Sprintf("Result %s recorded %d outs", settlement.Result, settlement.OutDelta)
		entry := model.LedgerEntry{
			GameId:        game.Id,
			InningId:      &inning.Id,
			AmountDollars: 0,
			Reason:        model.ReasonDpRule,
			Note:          &note,
		}
		if err := ledger.Append(tx, &entry); err != nil {
			return err
		}
	}

	return nil
}

// closeAndAdvance stamps the closed half exactly once and opens the next
// one: bottom of the same inning after a top, top of the next inning
// after a bottom. The fresh half starts unlocked at zero outs with the
// turn reset to the first player.
func (as *adjudicationService) closeAndAdvance(tx *gorm.DB, game *model.Game, inning *model.Inning, players []model.GamePlayer, actorUserId uuid.UUID) (*uuid.UUID, *model.Event, error) {
	now := time.Now().UTC()
	f := tx.Exec(`
		UPDATE inning SET closed_at = ?
		 WHERE id = ? AND closed_at IS NULL`, now, inning.Id)
	if f.Error != nil {
		return nil, nil, f.Error
	}
	if f.RowsAffected == 0 {
		return nil, nil, reject.Abort(reject.InvalidStateProblem("inning already closed"))
	}

	nextNumber, nextHalf := rules.NextHalf(inning.InningNumber, inning.Half)
	next := model.Inning{
		Id:           uuid.New(),
		GameId:       game.Id,
		InningNumber: nextNumber,
		Half:         nextHalf,
		Outs:         0,
		StartedAt:    now,
	}
	if f := tx.Table(model.Inning{}.TableName()).Create(&next); f.Error != nil {
		return nil, nil, f.Error
	}

	// Turn holder resets to the first player each half.
	turn := model.Turn{
		Id:              uuid.New(),
		GameId:          game.Id,
		InningId:        next.Id,
		CurrentPlayerId: players[0].Id,
		CreatedAt:       now,
	}
	if f := tx.Table(model.Turn{}.TableName()).Create(&turn); f.Error != nil {
		return nil, nil, f.Error
	}

	turnEvent, err := audit.Record(tx, game.Id, &actorUserId, model.EventTurnAdvanced, map[string]any{
		"closed_inning_id":  inning.Id,
		"next_inning_id":    next.Id,
		"inning_number":     next.InningNumber,
		"half":              next.Half,
		"current_player_id": turn.CurrentPlayerId,
	})
	if err != nil {
		return nil, nil, err
	}

	return &next.Id, turnEvent, nil
}

func (as *adjudicationService) setLock(gameId, inningId uuid.UUID, callerUserId uuid.UUID, locked bool) (*model.Inning, *reject.ProblemWithTrace) {
	var updated *model.Inning
	var lockEvent *model.Event

	err := pgtx.InSerializableTx(as.db, func(tx *gorm.DB) error {
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

		if err := requireAdjudicator(tx, game, player, inning); err != nil {
			return err
		}

		f := tx.Exec("UPDATE inning SET between_ab_locked = ? WHERE id = ?", locked, inning.Id)
		if f.Error != nil {
			return f.Error
		}
		inning.BetweenAbLocked = locked
		updated = inning

		eventType := model.EventInningLocked
		if !locked {
			eventType = model.EventInningUnlocked
		}
		lockEvent, err = audit.Record(tx, gameId, &callerUserId, eventType, map[string]any{
			"inning_id": inning.Id,
			"locked":    locked,
		})
		return err
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(lockEvent)
	return updated, nil
}

// requireAdjudicator enforces the game's authority mode: either the game
// admin or, when the game trusts its players, the current turn holder.
func requireAdjudicator(tx *gorm.DB, game *model.Game, player *model.GamePlayer, inning *model.Inning) error {
	switch game.AdjudicationMode {
	case model.AdjudicationTrustTurnHolder:
		return requireTurnHolder(tx, inning.Id, player.Id)
	default:
		if !player.IsAdmin {
			return reject.Abort(reject.ForbiddenProblem("only a game admin may adjudicate"))
		}
		return nil
	}
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
