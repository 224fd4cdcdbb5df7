// Package rules holds the pure game-progression and settlement rules.
// Nothing here touches storage; services feed it rows and apply the
// results inside their own transactions.
package rules

import (
	"fmt"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
)

const (
	// MaxOuts closes a half-inning.
	MaxOuts = 3

	// AmendFeeDollars is the flat fee charged for a post-lock amendment.
	AmendFeeDollars int64 = 2

	// RareCodeAmendCap caps amendments at two whenever the rare,
	// higher-payout codes (double and triple) are involved, whether the
	// pick already holds one or is being amended into one.
	RareCodeAmendCap = 2
)

// OutDelta maps a result code to the outs it records. Doubles burn two
// outs and triples three; everything else, including a no-decision,
// advances the at-bat by one out.
func OutDelta(code model.ChoiceCode) int {
	switch code {
	case model.ChoiceDouble:
		return 2
	case model.ChoiceTriple:
		return 3
	default:
		return 1
	}
}

// ApplyOuts clamps the new out count at MaxOuts and reports whether the
// half should close.
func ApplyOuts(outs, delta int) (newOuts int, closed bool) {
	newOuts = outs + delta
	if newOuts > MaxOuts {
		newOuts = MaxOuts
	}
	return newOuts, newOuts >= MaxOuts
}

// NextHalf returns the half that opens after the given one closes. Top
// flips to bottom of the same inning; bottom rolls over to the top of the
// next inning.
func NextHalf(number int, half model.InningHalf) (int, model.InningHalf) {
	if half == model.HalfTop {
		return number, model.HalfBottom
	}
	return number + 1, model.HalfTop
}

// SplitPot divides the pot by integer floor division. The remainder is
// not paid out; it carries forward in the pot for the next settlement.
func SplitPot(pot int64, winnerCount int) (perWinner, remainder int64) {
	if winnerCount <= 0 || pot <= 0 {
		return 0, pot
	}
	perWinner = pot / int64(winnerCount)
	return perWinner, pot - perWinner*int64(winnerCount)
}

// Winners filters the final picks that match the adjudicated result. A
// no-decision result has no winners by definition.
func Winners(picks []model.Pick, result model.ChoiceCode) []model.Pick {
	if result == model.ChoiceNoDecision {
		return nil
	}
	var winners []model.Pick
	for _, p := range picks {
		if p.IsFinal && p.ChoiceCode == result {
			winners = append(winners, p)
		}
	}
	return winners
}

// CheckAmend decides whether a pick may be amended to newCode once the
// half is lock-flagged. It returns nil when the amendment is allowed.
func CheckAmend(pick model.Pick, newCode model.ChoiceCode, locked bool) error {
	if !newCode.IsValid() {
		return fmt.Errorf("invalid choice code %q", newCode)
	}
	if !locked {
		return fmt.Errorf("amendments are only allowed between at-bats")
	}
	if newCode == pick.ChoiceCode {
		return fmt.Errorf("new code matches current pick")
	}
	if AmendCapReached(pick, newCode) {
		return fmt.Errorf("amendment cap reached for pick holding %s", pick.ChoiceCode)
	}
	return nil
}

// AmendCapReached reports whether the amendment runs into the rare-code
// cap. A pick that holds a rare code is as capped as one amending into
// it; a D pick with two amendments cannot be amended a third time even
// toward a common code.
func AmendCapReached(pick model.Pick, newCode model.ChoiceCode) bool {
	return (isRareCode(pick.ChoiceCode) || isRareCode(newCode)) &&
		pick.AmendCount >= RareCodeAmendCap
}

func isRareCode(code model.ChoiceCode) bool {
	return code == model.ChoiceDouble || code == model.ChoiceTriple
}

// CheckStatusTransition validates a game lifecycle change. Final is
// terminal and a pending game cannot jump straight to final.
func CheckStatusTransition(from, to model.GameStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("invalid status %q", to)
	}
	if from == model.GameFinal {
		return fmt.Errorf("game is already final")
	}
	if from == model.GamePending && to == model.GameFinal {
		return fmt.Errorf("game cannot be finalized before it starts")
	}
	return nil
}
