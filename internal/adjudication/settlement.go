package adjudication

import (
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/rules"
	"github.com/google/uuid"
)

// Settlement is the pure outcome of adjudicating one at-bat: who wins,
// what each winner is paid, who is booked a miss, and how many outs the
// result records. Ledger writes and state transitions are applied from
// it inside the adjudication transaction.
type Settlement struct {
	Result     model.ChoiceCode
	WinnerIds  []uuid.UUID
	PerWinner  int64
	PotAwarded int64
	Remainder  int64
	MissIds    []uuid.UUID
	OutDelta   int
	MultiOut   bool
}

func computeSettlement(players []model.GamePlayer, picks []model.Pick, result model.ChoiceCode, pot int64) Settlement {
	winners := rules.Winners(picks, result)

	perWinner, remainder := rules.SplitPot(pot, len(winners))

	settlement := Settlement{
		Result:    result,
		PerWinner: perWinner,
		Remainder: remainder,
		OutDelta:  rules.OutDelta(result),
		MultiOut:  result == model.ChoiceDouble || result == model.ChoiceTriple,
	}

	winnerSet := map[uuid.UUID]bool{}
	for _, w := range winners {
		winnerSet[w.PlayerId] = true
		settlement.WinnerIds = append(settlement.WinnerIds, w.PlayerId)
	}
	settlement.PotAwarded = perWinner * int64(len(settlement.WinnerIds))

	// Everyone who did not win is booked a zero-amount miss, whether
	// they picked wrong or never picked at all.
	for _, p := range players {
		if !winnerSet[p.Id] {
			settlement.MissIds = append(settlement.MissIds, p.Id)
		}
	}

	return settlement
}
