package game

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/ledger"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlayerStateInfo struct {
	Id              uuid.UUID `json:"id"`
	UserId          uuid.UUID `json:"userId"`
	UserName        string    `json:"userName"`
	TurnOrder       int       `json:"turnOrder"`
	IsAdmin         bool      `json:"isAdmin"`
	Nickname        *string   `json:"nickname,omitempty"`
	IsCurrentPlayer bool      `json:"isCurrentPlayer"`
}

type GameStateResponse struct {
	GameStatus      model.GameStatus       `json:"gameStatus"`
	InningNumber    *int                   `json:"inningNumber,omitempty"`
	Half            *model.InningHalf      `json:"half,omitempty"`
	Outs            int                    `json:"outs"`
	BetweenAbLocked bool                   `json:"betweenAbLocked"`
	PotDollars      int64                  `json:"potDollars"`
	AnteDollars     int64                  `json:"anteDollars"`
	CurrentPlayer   *PlayerStateInfo       `json:"currentPlayer,omitempty"`
	YourPick        *model.ChoiceCode      `json:"yourPick,omitempty"`
	YourNetDollars  *int64                 `json:"yourNetDollars,omitempty"`
	AmendAllowed    bool                   `json:"amendAllowed"`
	Players         []PlayerStateInfo      `json:"players"`
	Leaderboard     []ledger.LeaderboardRow `json:"leaderboard"`
	LastEventId     *uuid.UUID             `json:"lastEventId,omitempty"`
	LastEventAt     *time.Time             `json:"-"`
}

type statePlayerRow struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	UserName  string
	TurnOrder int
	IsAdmin   bool
	Nickname  *string
}

// getGameState builds the poll-friendly snapshot: current half and turn,
// pot, the caller's own pick and the leaderboard, plus the latest event
// marker the handler turns into cache validators.
func (gs *gameService) getGameState(gameId uuid.UUID, callerUserId *uuid.UUID) (*GameStateResponse, *reject.ProblemWithTrace) {
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

	state := &GameStateResponse{
		GameStatus:  game.Status,
		AnteDollars: game.AnteDollars,
		Players:     []PlayerStateInfo{},
	}

	err := gs.db.Transaction(func(tx *gorm.DB) error {
		playerRows := []statePlayerRow{}
		f := tx.Raw(`
			SELECT gp.id, gp.user_id, u.name AS user_name, gp.turn_order, gp.is_admin, gp.nickname
			  FROM game_player gp
			 INNER JOIN gamblor_user u ON u.id = gp.user_id
			 WHERE gp.game_id = ?
			 ORDER BY gp.turn_order`, gameId).Scan(&playerRows)
		if f.Error != nil {
			return f.Error
		}

		var openInning *model.Inning
		var inning model.Inning
		f = tx.Raw(`
			SELECT * FROM inning
			 WHERE game_id = ? AND closed_at IS NULL
			 LIMIT 1`, gameId).First(&inning)
		if f.Error != nil && f.Error != gorm.ErrRecordNotFound {
			return f.Error
		}
		if f.Error == nil {
			openInning = &inning
		}

		var currentPlayerId *uuid.UUID
		if openInning != nil {
			state.InningNumber = &openInning.InningNumber
			state.Half = &openInning.Half
			state.Outs = openInning.Outs
			state.BetweenAbLocked = openInning.BetweenAbLocked

			var turn model.Turn
			f = tx.Raw(`
				SELECT * FROM turn
				 WHERE inning_id = ?
				 ORDER BY created_at DESC, id DESC
				 LIMIT 1`, openInning.Id).First(&turn)
			if f.Error != nil && f.Error != gorm.ErrRecordNotFound {
				return f.Error
			}
			if f.Error == nil {
				currentPlayerId = &turn.CurrentPlayerId
			}
		}

		var callerPlayerId *uuid.UUID
		for _, row := range playerRows {
			info := PlayerStateInfo{
				Id:        row.Id,
				UserId:    row.UserId,
				UserName:  row.UserName,
				TurnOrder: row.TurnOrder,
				IsAdmin:   row.IsAdmin,
				Nickname:  row.Nickname,
			}
			if currentPlayerId != nil && row.Id == *currentPlayerId {
				info.IsCurrentPlayer = true
				state.CurrentPlayer = &info
			}
			if callerUserId != nil && row.UserId == *callerUserId {
				id := row.Id
				callerPlayerId = &id
			}
			state.Players = append(state.Players, info)
		}

		if callerPlayerId != nil {
			net, netErr := ledger.PlayerNetDollars(tx, *callerPlayerId)
			if netErr != nil {
				return netErr
			}
			state.YourNetDollars = &net
		}

		if callerPlayerId != nil && openInning != nil {
			var pick model.Pick
			f = tx.Raw(`
				SELECT * FROM pick
				 WHERE inning_id = ? AND player_id = ?
				 LIMIT 1`, openInning.Id, callerPlayerId).First(&pick)
			if f.Error != nil && f.Error != gorm.ErrRecordNotFound {
				return f.Error
			}
			if f.Error == nil {
				state.YourPick = &pick.ChoiceCode
				state.AmendAllowed = game.Status == model.GameActive &&
					openInning.BetweenAbLocked &&
					currentPlayerId != nil && *currentPlayerId == *callerPlayerId
			}
		}

		pot, potErr := ledger.PotDollars(tx, gameId)
		if potErr != nil {
			return potErr
		}
		state.PotDollars = pot

		leaderboard, lbErr := ledger.Leaderboard(tx, gameId)
		if lbErr != nil {
			return lbErr
		}
		state.Leaderboard = leaderboard

		var lastEvent model.Event
		f = tx.Raw(`
			SELECT id, created_at FROM game_event
			 WHERE game_id = ?
			 ORDER BY created_at DESC, id DESC
			 LIMIT 1`, gameId).First(&lastEvent)
		if f.Error != nil && f.Error != gorm.ErrRecordNotFound {
			return f.Error
		}
		if f.Error == nil {
			state.LastEventId = &lastEvent.Id
			state.LastEventAt = &lastEvent.CreatedAt
		}

		return nil
	})

	if err != nil {
		return nil, reject.AsProblem(err)
	}

	return state, nil
}
