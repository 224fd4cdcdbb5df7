package stats

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pgtx"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type statsService struct {
	db *gorm.DB
}

type PlayerGameStatsRow struct {
	PlayerId      uuid.UUID `json:"playerId"`
	UserId        uuid.UUID `json:"userId"`
	DisplayName   string    `json:"displayName"`
	NetDollars    int64     `json:"netDollars"`
	Wins          int       `json:"wins"`
	Misses        int       `json:"misses"`
	Amendments    int       `json:"amendments"`
	BiggestPotWon int64     `json:"biggestPotWon"`
	PicksTotal    int       `json:"picksTotal"`
}

// rollupQuery computes per-player stats straight from the ledger and pick
// tables. The materialized player_game_stats rows are a snapshot of this
// same query taken when the game finishes.
const rollupQuery = `
	SELECT gp.id AS player_id,
	       gp.user_id,
	       u.name AS display_name,
	       COALESCE((SELECT SUM(le.amount_dollars) FROM ledger_entry le WHERE le.player_id = gp.id), 0) AS net_dollars,
	       (SELECT COUNT(*) FROM ledger_entry le WHERE le.player_id = gp.id AND le.reason = 'win') AS wins,
	       (SELECT COUNT(*) FROM ledger_entry le WHERE le.player_id = gp.id AND le.reason = 'miss') AS misses,
	       (SELECT COUNT(*) FROM ledger_entry le WHERE le.player_id = gp.id AND le.reason = 'amend_fee') AS amendments,
	       COALESCE((SELECT MAX(le.amount_dollars) FROM ledger_entry le WHERE le.player_id = gp.id AND le.reason = 'win'), 0) AS biggest_pot_won,
	       (SELECT COUNT(*) FROM pick p WHERE p.player_id = gp.id) AS picks_total
	  FROM game_player gp
	  JOIN gamblor_user u ON u.id = gp.user_id
	 WHERE gp.game_id = ?
	 ORDER BY gp.turn_order`

func (ss *statsService) getGameStats(gameId uuid.UUID) ([]PlayerGameStatsRow, *reject.ProblemWithTrace) {
	var exists bool
	f := ss.db.Raw("SELECT EXISTS (SELECT 1 FROM game WHERE id = ?)", gameId).Scan(&exists)
	if f.Error != nil {
		return nil, reject.AsProblem(f.Error)
	}
	if !exists {
		problem := reject.GameNotFoundProblem("game not found")
		return nil, &reject.ProblemWithTrace{Problem: problem, Cause: reject.Abort(problem)}
	}

	rows := []PlayerGameStatsRow{}
	f = ss.db.Raw(rollupQuery, gameId).Scan(&rows)
	if f.Error != nil {
		return nil, reject.AsProblem(f.Error)
	}
	return rows, nil
}

// refreshGameStats rewrites the per-game snapshot rows. Called from the
// game-finished subscription; safe to run more than once.
func (ss *statsService) refreshGameStats(gameId uuid.UUID) error {
	return pgtx.InSerializableTx(ss.db, func(tx *gorm.DB) error {
		rows := []PlayerGameStatsRow{}
		if f := tx.Raw(rollupQuery, gameId).Scan(&rows); f.Error != nil {
			return f.Error
		}

		if f := tx.Exec("DELETE FROM player_game_stats WHERE game_id = ?", gameId); f.Error != nil {
			return f.Error
		}

		now := time.Now().UTC()
		for _, row := range rows {
			snapshot := model.PlayerGameStats{
				Id:            uuid.New(),
				GameId:        gameId,
				PlayerId:      row.PlayerId,
				NetDollars:    row.NetDollars,
				Wins:          row.Wins,
				Misses:        row.Misses,
				Amendments:    row.Amendments,
				BiggestPotWon: row.BiggestPotWon,
				PicksTotal:    row.PicksTotal,
				CreatedAt:     now,
			}
			if f := tx.Table(model.PlayerGameStats{}.TableName()).Create(&snapshot); f.Error != nil {
				return f.Error
			}
		}

		return nil
	})
}

// getLifetimeTotals aggregates the snapshots of every finished game the
// user played in.
func (ss *statsService) getLifetimeTotals(userId uuid.UUID) (*model.UserLifetimeTotals, *reject.ProblemWithTrace) {
	totals := model.UserLifetimeTotals{UserId: userId}
	f := ss.db.Raw(`
		SELECT COALESCE(SUM(s.net_dollars), 0)    AS net_dollars,
		       COUNT(DISTINCT s.game_id)          AS games_played,
		       COALESCE(SUM(s.wins), 0)           AS wins,
		       COALESCE(SUM(s.misses), 0)         AS misses,
		       COALESCE(SUM(s.amendments), 0)     AS amendments,
		       COALESCE(MAX(s.biggest_pot_won), 0) AS biggest_pot_won,
		       COALESCE(SUM(s.picks_total), 0)    AS picks_total
		  FROM player_game_stats s
		  JOIN game_player gp ON gp.id = s.player_id
		 WHERE gp.user_id = ?`, userId).Scan(&totals)
	if f.Error != nil {
		return nil, reject.AsProblem(f.Error)
	}
	totals.UpdatedAt = time.Now().UTC()
	return &totals, nil
}
