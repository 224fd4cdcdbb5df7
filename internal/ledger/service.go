package ledger

import (
	"fmt"
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ledgerService struct {
	db *gorm.DB
}

// Append writes one immutable entry inside the caller's transaction.
// Entries are never updated or deleted; every derived figure (pot, player
// net, leaderboard) is a summation query over them.
func Append(tx *gorm.DB, entry *model.LedgerEntry) error {
	if !entry.Reason.IsValid() {
		return fmt.Errorf("invalid ledger reason %q", entry.Reason)
	}
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result := tx.Table(model.LedgerEntry{}.TableName()).Create(entry)
	return result.Error
}

// PotDollars is the single pot rule for the whole engine: money staked
// into the game (antes, amendment fees) minus money already awarded.
// Both the state view and adjudication payouts use this figure, so the
// floor-division remainder of a settlement simply stays in the pot.
func PotDollars(tx *gorm.DB, gameId uuid.UUID) (int64, error) {
	var total int64
	result := tx.Raw(`
		SELECT COALESCE(SUM(amount_dollars), 0)
		  FROM ledger_entry
		 WHERE game_id = ?`, gameId).Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	pot := -total
	if pot < 0 {
		pot = 0
	}
	return pot, nil
}

func PlayerNetDollars(tx *gorm.DB, playerId uuid.UUID) (int64, error) {
	var net int64
	result := tx.Raw(`
		SELECT COALESCE(SUM(amount_dollars), 0)
		  FROM ledger_entry
		 WHERE player_id = ?`, playerId).Scan(&net)
	return net, result.Error
}

type LeaderboardRow struct {
	PlayerId   uuid.UUID `json:"playerId"`
	UserName   string    `json:"userName"`
	NetDollars int64     `json:"netDollars"`
	Wins       int       `json:"wins"`
	Misses     int       `json:"misses"`
	PicksTotal int       `json:"picksTotal"`
}

// Leaderboard aggregates ledger entries and picks per player, best net
// first.
func Leaderboard(tx *gorm.DB, gameId uuid.UUID) ([]LeaderboardRow, error) {
	rows := []LeaderboardRow{}
	result := tx.Raw(`
		SELECT gp.id AS player_id
		     , u.name AS user_name
		     , COALESCE(le.net, 0) AS net_dollars
		     , COALESCE(le.wins, 0) AS wins
		     , COALESCE(le.misses, 0) AS misses
		     , COALESCE(pk.total, 0) AS picks_total
		  FROM game_player gp
		 INNER JOIN gamblor_user u ON u.id = gp.user_id
		  LEFT JOIN (
		        SELECT player_id
		             , SUM(amount_dollars) AS net
		             , COUNT(*) FILTER (WHERE reason = 'win') AS wins
		             , COUNT(*) FILTER (WHERE reason = 'miss') AS misses
		          FROM ledger_entry
		         WHERE game_id = ?
		         GROUP BY player_id
		       ) le ON le.player_id = gp.id
		  LEFT JOIN (
		        SELECT player_id, COUNT(*) AS total
		          FROM pick
		         WHERE game_id = ?
		         GROUP BY player_id
		       ) pk ON pk.player_id = gp.id
		 WHERE gp.game_id = ?
		 ORDER BY COALESCE(le.net, 0) DESC, gp.turn_order`,
		gameId, gameId, gameId).Scan(&rows)
	return rows, result.Error
}

func (ls *ledgerService) getEntries(gameId uuid.UUID, page utils.PageRequest) ([]model.LedgerEntry, *int64, *reject.ProblemWithTrace) {
	entries := []model.LedgerEntry{}
	entriesSize := int64(0)

	res := ls.db.Table(model.LedgerEntry{}.TableName()).
		Where("game_id = ?", gameId).
		Count(&entriesSize)
	if res.Error != nil {
		return nil, nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(res.Error),
			Cause:   res.Error,
		}
	}

	res = ls.db.Table(model.LedgerEntry{}.TableName()).
		Where("game_id = ?", gameId).
		Order("created_at, id").
		Limit(page.Size).
		Offset(page.Offset).
		Find(&entries)
	if res.Error != nil {
		return nil, nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(res.Error),
			Cause:   res.Error,
		}
	}

	return entries, &entriesSize, nil
}
