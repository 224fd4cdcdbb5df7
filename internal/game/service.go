package game

import (
	"fmt"
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/ledger"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/audit"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pgtx"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/rules"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gamblor-app/gamblor-backend/internal/profile"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type gameService struct {
	db      *gorm.DB
	profile *profile.ProfileService
}

type actor struct {
	UserId uuid.UUID
	Email  string
	Name   string
}

func (gs *gameService) createGame(body CreateGameRequest, caller actor) (*model.Game, *reject.ProblemWithTrace) {
	ante := int64(1)
	if body.AnteDollars != nil {
		ante = *body.AnteDollars
	}
	if ante <= 0 {
		problem := reject.ValidationProblem("ante must be a positive amount")
		return nil, &reject.ProblemWithTrace{Problem: problem, Cause: fmt.Errorf("ante %d", ante)}
	}

	mode := model.AdjudicationAdminOnly
	if body.AdjudicationMode != nil {
		mode = model.AdjudicationMode(*body.AdjudicationMode)
	}
	if !mode.IsValid() {
		problem := reject.ValidationProblem("invalid adjudication mode")
		return nil, &reject.ProblemWithTrace{Problem: problem, Cause: fmt.Errorf("mode %q", mode)}
	}

	var createdGame *model.Game
	var createdEvent *model.Event

	err := pgtx.InSerializableTx(gs.db, func(tx *gorm.DB) error {
		if err := gs.profile.EnsureUser(tx, caller.UserId, caller.Email, caller.Name); err != nil {
			return err
		}

		pin, err := allocatePin(viper.GetInt("PIN_MAX_ATTEMPTS"), func(pin string) (bool, error) {
			var count int64
			res := tx.Table(model.Game{}.TableName()).Where("pin = ?", pin).Count(&count)
			return count > 0, res.Error
		})
		if err == errPinExhausted {
			return reject.Abort(reject.AllocationExhaustedProblem("could not allocate a unique game pin"))
		}
		if err != nil {
			return err
		}

		title := fmt.Sprintf("%s's Game", caller.Name)
		if body.Title != nil && *body.Title != "" {
			title = *body.Title
		}

		createdGame = &model.Game{
			Id:               uuid.New(),
			Title:            title,
			Pin:              pin,
			CreatedBy:        caller.UserId,
			AnteDollars:      ante,
			AdjudicationMode: mode,
			MlbGameId:        body.MlbGameId,
			Status:           model.GamePending,
			CreatedAt:        time.Now().UTC(),
		}
		f := tx.Table(model.Game{}.TableName()).Create(createdGame)
		if f.Error != nil {
			log.Warn().Msg("error persisting game to database")
			return f.Error
		}

		creator := &model.GamePlayer{
			Id:         uuid.New(),
			GameId:     createdGame.Id,
			UserId:     caller.UserId,
			TurnOrder:  1,
			IsAdmin:    true,
			JoinedAt:   time.Now().UTC(),
			LastSeenAt: time.Now().UTC(),
		}
		f = tx.Table(model.GamePlayer{}.TableName()).Create(creator)
		if f.Error != nil {
			return f.Error
		}

		createdEvent, err = audit.Record(tx, createdGame.Id, &caller.UserId, model.EventGameCreated, map[string]any{
			"title":             createdGame.Title,
			"pin":               createdGame.Pin,
			"ante_dollars":      createdGame.AnteDollars,
			"adjudication_mode": createdGame.AdjudicationMode,
		})
		return err
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(createdEvent)
	return createdGame, nil
}

func (gs *gameService) joinGame(pin string, caller actor) (*model.GamePlayer, *reject.ProblemWithTrace) {
	var joined *model.GamePlayer
	var joinedEvent *model.Event

	err := pgtx.InSerializableTx(gs.db, func(tx *gorm.DB) error {
		if err := gs.profile.EnsureUser(tx, caller.UserId, caller.Email, caller.Name); err != nil {
			return err
		}

		var game model.Game
		f := tx.Raw("SELECT * FROM game WHERE pin = ? FOR UPDATE", pin).First(&game)
		if f.Error == gorm.ErrRecordNotFound {
			return reject.Abort(reject.GameNotFoundProblem("no game with that pin"))
		}
		if f.Error != nil {
			return f.Error
		}

		if game.Status != model.GamePending {
			return reject.Abort(reject.InvalidStateProblem("game is not accepting new players"))
		}

		var existing int64
		f = tx.Table(model.GamePlayer{}.TableName()).
			Where("game_id = ? AND user_id = ?", game.Id, caller.UserId).
			Count(&existing)
		if f.Error != nil {
			return f.Error
		}
		if existing > 0 {
			return reject.Abort(reject.ConflictProblem("user is already in this game"))
		}

		// The game row is locked above, so two concurrent joins cannot
		// read the same max; the unique (game_id, turn_order) index is
		// the backstop.
		var nextTurnOrder int
		f = tx.Raw(`
			SELECT COALESCE(MAX(turn_order), 0) + 1
			  FROM game_player
			 WHERE game_id = ?`, game.Id).Scan(&nextTurnOrder)
		if f.Error != nil {
			return f.Error
		}

		joined = &model.GamePlayer{
			Id:         uuid.New(),
			GameId:     game.Id,
			UserId:     caller.UserId,
			TurnOrder:  nextTurnOrder,
			IsAdmin:    false,
			JoinedAt:   time.Now().UTC(),
			LastSeenAt: time.Now().UTC(),
		}
		f = tx.Table(model.GamePlayer{}.TableName()).Create(joined)
		if f.Error != nil {
			return f.Error
		}

		var err error
		joinedEvent, err = audit.Record(tx, game.Id, &caller.UserId, model.EventPlayerJoined, map[string]any{
			"user_id":    caller.UserId,
			"user_name":  caller.Name,
			"turn_order": nextTurnOrder,
		})
		return err
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(joinedEvent)
	return joined, nil
}

func (gs *gameService) updateGame(gameId uuid.UUID, body UpdateGameRequest, caller actor) (*model.Game, *reject.ProblemWithTrace) {
	var updated *model.Game
	var updatedEvent *model.Event

	err := pgtx.InSerializableTx(gs.db, func(tx *gorm.DB) error {
		var game model.Game
		f := tx.Raw("SELECT * FROM game WHERE id = ? FOR UPDATE", gameId).First(&game)
		if f.Error == gorm.ErrRecordNotFound {
			return reject.Abort(reject.GameNotFoundProblem("game not found"))
		}
		if f.Error != nil {
			return f.Error
		}

		var adminCount int64
		f = tx.Table(model.GamePlayer{}.TableName()).
			Where("game_id = ? AND user_id = ? AND is_admin", gameId, caller.UserId).
			Count(&adminCount)
		if f.Error != nil {
			return f.Error
		}
		if adminCount == 0 {
			return reject.Abort(reject.ForbiddenProblem("only game admins can update game settings"))
		}

		changes := map[string]map[string]any{}

		if body.AnteDollars != nil {
			if *body.AnteDollars <= 0 {
				return reject.Abort(reject.ValidationProblem("ante must be a positive amount"))
			}
			changes["ante_dollars"] = map[string]any{"old": game.AnteDollars, "new": *body.AnteDollars}
			game.AnteDollars = *body.AnteDollars
		}

		if body.AdjudicationMode != nil {
			mode := model.AdjudicationMode(*body.AdjudicationMode)
			if !mode.IsValid() {
				return reject.Abort(reject.ValidationProblem("invalid adjudication mode"))
			}
			changes["adjudication_mode"] = map[string]any{"old": game.AdjudicationMode, "new": mode}
			game.AdjudicationMode = mode
		}

		if body.DeadlineSeconds != nil {
			changes["deadline_seconds"] = map[string]any{"old": game.DeadlineSeconds, "new": *body.DeadlineSeconds}
			game.DeadlineSeconds = body.DeadlineSeconds
		}

		if body.MlbGameId != nil {
			changes["mlb_game_id"] = map[string]any{"old": game.MlbGameId, "new": *body.MlbGameId}
			game.MlbGameId = body.MlbGameId
		}

		eventType := model.EventGameUpdated
		if body.Status != nil {
			newStatus := model.GameStatus(*body.Status)
			if newStatus != game.Status {
				if err := rules.CheckStatusTransition(game.Status, newStatus); err != nil {
					return reject.Abort(reject.InvalidStateProblem(err.Error()))
				}
				changes["status"] = map[string]any{"old": game.Status, "new": newStatus}
				oldStatus := game.Status
				game.Status = newStatus

				switch {
				case oldStatus == model.GamePending && newStatus == model.GameActive:
					eventType = model.EventGameStarted
					if err := gs.startGame(tx, &game); err != nil {
						return err
					}
				case newStatus == model.GameFinal:
					eventType = model.EventGameFinished
					if err := gs.finalizeGame(tx, &game); err != nil {
						return err
					}
				}
			}
		}

		f = tx.Exec(`
			UPDATE game
			   SET title = ?, ante_dollars = ?, adjudication_mode = ?,
			       deadline_seconds = ?, mlb_game_id = ?, status = ?
			 WHERE id = ?`,
			game.Title, game.AnteDollars, game.AdjudicationMode,
			game.DeadlineSeconds, game.MlbGameId, game.Status, game.Id)
		if f.Error != nil {
			return f.Error
		}

		if len(changes) > 0 {
			var err error
			updatedEvent, err = audit.Record(tx, game.Id, &caller.UserId, eventType, map[string]any{
				"changes": changes,
			})
			if err != nil {
				return err
			}
		}

		updated = &game
		return nil
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	audit.Publish(updatedEvent)
	return updated, nil
}

// startGame charges every player's ante into the pot, opens the first
// half-inning and hands the first turn to turn-order one.
func (gs *gameService) startGame(tx *gorm.DB, game *model.Game) error {
	players := []model.GamePlayer{}
	f := tx.Table(model.GamePlayer{}.TableName()).
		Where("game_id = ?", game.Id).
		Order("turn_order").
		Find(&players)
	if f.Error != nil {
		return f.Error
	}
	if len(players) == 0 {
		return reject.Abort(reject.InvalidStateProblem("game has no players"))
	}

	note := "Game entry ante"
	for i := range players {
		entry := model.LedgerEntry{
			GameId:        game.Id,
			PlayerId:      &players[i].Id,
			AmountDollars: -game.AnteDollars,
			Reason:        model.ReasonAnte,
			Note:          &note,
		}
		if err := ledger.Append(tx, &entry); err != nil {
			return err
		}
	}

	inning := model.Inning{
		Id:           uuid.New(),
		GameId:       game.Id,
		InningNumber: 1,
		Half:         model.HalfTop,
		Outs:         0,
		StartedAt:    time.Now().UTC(),
	}
	if f := tx.Table(model.Inning{}.TableName()).Create(&inning); f.Error != nil {
		return f.Error
	}

	firstTurn := model.Turn{
		Id:              uuid.New(),
		GameId:          game.Id,
		InningId:        inning.Id,
		CurrentPlayerId: players[0].Id,
		CreatedAt:       time.Now().UTC(),
	}
	f = tx.Table(model.Turn{}.TableName()).Create(&firstTurn)
	return f.Error
}

// finalizeGame pays any carried-forward pot residue to the game admin as
// an admin adjustment, so a finished game's ledger nets to zero.
func (gs *gameService) finalizeGame(tx *gorm.DB, game *model.Game) error {
	pot, err := ledger.PotDollars(tx, game.Id)
	if err != nil {
		return err
	}
	if pot == 0 {
		return nil
	}

	var admin model.GamePlayer
	f := tx.Raw(`
		SELECT * FROM game_player
		 WHERE game_id = ? AND is_admin
		 ORDER BY turn_order
		 LIMIT 1`, game.Id).First(&admin)
	if f.Error != nil {
		return f.Error
	}

	note := "Residual pot on finalization"
	entry := model.LedgerEntry{
		GameId:        game.Id,
		PlayerId:      &admin.Id,
		AmountDollars: pot,
		Reason:        model.ReasonAdminAdjust,
		Note:          &note,
	}
	return ledger.Append(tx, &entry)
}

type GameSummaryResponse struct {
	Game        model.Game         `json:"game"`
	Players     []model.GamePlayer `json:"players"`
	PlayerCount int                `json:"playerCount"`
	IsJoinable  bool               `json:"isJoinable"`
}

func (gs *gameService) getGame(gameId uuid.UUID) (*GameSummaryResponse, *reject.ProblemWithTrace) {
	var game model.Game
	f := gs.db.Table(model.Game{}.TableName()).Where("id = ?", gameId).First(&game)
	if f.Error == gorm.ErrRecordNotFound {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.GameNotFoundProblem("game not found"),
			Cause:   f.Error,
		}
	}
	if f.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(f.Error),
			Cause:   f.Error,
		}
	}

	players := []model.GamePlayer{}
	f = gs.db.Table(model.GamePlayer{}.TableName()).
		Where("game_id = ?", gameId).
		Order("turn_order").
		Find(&players)
	if f.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(f.Error),
			Cause:   f.Error,
		}
	}

	return &GameSummaryResponse{
		Game:        game,
		Players:     players,
		PlayerCount: len(players),
		IsJoinable:  game.Status == model.GamePending,
	}, nil
}

func (gs *gameService) getGames(page utils.PageRequest) ([]model.Game, *int64, *reject.ProblemWithTrace) {
	games := []model.Game{}
	gamesSize := int64(0)

	res := gs.db.Table(model.Game{}.TableName()).
		Where("status IN ('pending', 'active')").
		Count(&gamesSize)
	if res.Error != nil {
		return nil, nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(res.Error),
			Cause:   res.Error,
		}
	}

	res = gs.db.Table(model.Game{}.TableName()).
		Where("status IN ('pending', 'active')").
		Order("created_at DESC").
		Limit(page.Size).
		Offset(page.Offset).
		Find(&games)
	if res.Error != nil {
		return nil, nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(res.Error),
			Cause:   res.Error,
		}
	}

	return games, &gamesSize, nil
}
