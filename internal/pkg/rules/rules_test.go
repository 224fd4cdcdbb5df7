package rules

import (
	"testing"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutDelta(t *testing.T) {
	tests := []struct {
		code  model.ChoiceCode
		delta int
	}{
		{model.ChoiceStrikeout, 1},
		{model.ChoiceGroundOut, 1},
		{model.ChoiceFlyOut, 1},
		{model.ChoiceNoDecision, 1},
		{model.ChoiceDouble, 2},
		{model.ChoiceTriple, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.delta, OutDelta(tt.code), "code %s", tt.code)
	}
}

func TestApplyOuts(t *testing.T) {
	outs, closed := ApplyOuts(0, 1)
	assert.Equal(t, 1, outs)
	assert.False(t, closed)

	outs, closed = ApplyOuts(2, 1)
	assert.Equal(t, 3, outs)
	assert.True(t, closed)

	// triple at two outs clamps at three
	outs, closed = ApplyOuts(2, 3)
	assert.Equal(t, 3, outs)
	assert.True(t, closed)
}

func TestNextHalf(t *testing.T) {
	number, half := NextHalf(1, model.HalfTop)
	assert.Equal(t, 1, number)
	assert.Equal(t, model.HalfBottom, half)

	number, half = NextHalf(4, model.HalfBottom)
	assert.Equal(t, 5, number)
	assert.Equal(t, model.HalfTop, half)
}

func TestSplitPot(t *testing.T) {
	per, rem := SplitPot(15, 1)
	assert.Equal(t, int64(15), per)
	assert.Equal(t, int64(0), rem)

	per, rem = SplitPot(17, 3)
	assert.Equal(t, int64(5), per)
	assert.Equal(t, int64(2), rem)
	assert.LessOrEqual(t, per*3, int64(17))

	per, rem = SplitPot(10, 0)
	assert.Equal(t, int64(0), per)
	assert.Equal(t, int64(10), rem)
}

func TestWinners(t *testing.T) {
	picks := []model.Pick{
		{ChoiceCode: model.ChoiceStrikeout, IsFinal: true},
		{ChoiceCode: model.ChoiceDouble, IsFinal: true},
		{ChoiceCode: model.ChoiceStrikeout, IsFinal: false},
	}

	winners := Winners(picks, model.ChoiceStrikeout)
	require.Len(t, winners, 1)
	assert.Equal(t, model.ChoiceStrikeout, winners[0].ChoiceCode)

	assert.Nil(t, Winners(picks, model.ChoiceNoDecision))
	assert.Empty(t, Winners(picks, model.ChoiceTriple))
}

func TestCheckAmend(t *testing.T) {
	pick := model.Pick{ChoiceCode: model.ChoiceStrikeout}

	assert.NoError(t, CheckAmend(pick, model.ChoiceFlyOut, true))
	assert.Error(t, CheckAmend(pick, model.ChoiceFlyOut, false), "unlocked half")
	assert.Error(t, CheckAmend(pick, model.ChoiceStrikeout, true), "same code")
	assert.Error(t, CheckAmend(pick, "X", true), "bad code")

	capped := model.Pick{ChoiceCode: model.ChoiceGroundOut, AmendCount: 2}
	assert.Error(t, CheckAmend(capped, model.ChoiceDouble, true))
	assert.True(t, AmendCapReached(capped, model.ChoiceDouble))
	assert.True(t, AmendCapReached(capped, model.ChoiceTriple))
	assert.NoError(t, CheckAmend(capped, model.ChoiceFlyOut, true), "common codes are not capped")
	assert.False(t, AmendCapReached(capped, model.ChoiceFlyOut))
}

func TestCheckAmendCapsPickHoldingRareCode(t *testing.T) {
	double := model.Pick{ChoiceCode: model.ChoiceDouble, AmendCount: 2}
	assert.Error(t, CheckAmend(double, model.ChoiceStrikeout, true), "third amendment of a D pick must fail")
	assert.True(t, AmendCapReached(double, model.ChoiceStrikeout))

	triple := model.Pick{ChoiceCode: model.ChoiceTriple, AmendCount: 2}
	assert.Error(t, CheckAmend(triple, model.ChoiceGroundOut, true), "third amendment of a T pick must fail")
	assert.True(t, AmendCapReached(triple, model.ChoiceGroundOut))

	// Below the cap the rare pick can still be amended away.
	fresh := model.Pick{ChoiceCode: model.ChoiceDouble, AmendCount: 1}
	assert.NoError(t, CheckAmend(fresh, model.ChoiceStrikeout, true))
	assert.False(t, AmendCapReached(fresh, model.ChoiceStrikeout))
}

func TestCheckStatusTransition(t *testing.T) {
	assert.NoError(t, CheckStatusTransition(model.GamePending, model.GameActive))
	assert.NoError(t, CheckStatusTransition(model.GameActive, model.GameFinal))
	assert.Error(t, CheckStatusTransition(model.GameFinal, model.GameActive), "final is terminal")
	assert.Error(t, CheckStatusTransition(model.GamePending, model.GameFinal), "must pass through active")
	assert.Error(t, CheckStatusTransition(model.GameActive, "paused"))
}
