package adjudication

import (
	"testing"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func somePlayers(n int) []model.GamePlayer {
	players := make([]model.GamePlayer, n)
	for i := range players {
		players[i] = model.GamePlayer{Id: uuid.New(), TurnOrder: i + 1}
	}
	return players
}

func finalPick(playerId uuid.UUID, code model.ChoiceCode) model.Pick {
	return model.Pick{Id: uuid.New(), PlayerId: playerId, ChoiceCode: code, IsFinal: true}
}

func TestComputeSettlementSingleWinnerTakesPot(t *testing.T) {
	// ante=5, three players: pot 15 goes whole to the lone correct pick
	players := somePlayers(3)
	picks := []model.Pick{finalPick(players[0].Id, model.ChoiceStrikeout)}

	s := computeSettlement(players, picks, model.ChoiceStrikeout, 15)

	require.Equal(t, []uuid.UUID{players[0].Id}, s.WinnerIds)
	assert.Equal(t, int64(15), s.PerWinner)
	assert.Equal(t, int64(15), s.PotAwarded)
	assert.Equal(t, int64(0), s.Remainder)
	assert.Equal(t, 1, s.OutDelta)
	assert.False(t, s.MultiOut)
	assert.ElementsMatch(t, []uuid.UUID{players[1].Id, players[2].Id}, s.MissIds)
}

func TestComputeSettlementSplitLeavesRemainderInPot(t *testing.T) {
	players := somePlayers(3)
	picks := []model.Pick{
		finalPick(players[0].Id, model.ChoiceFlyOut),
		finalPick(players[1].Id, model.ChoiceFlyOut),
		finalPick(players[2].Id, model.ChoiceGroundOut),
	}

	s := computeSettlement(players, picks, model.ChoiceFlyOut, 17)

	assert.Len(t, s.WinnerIds, 2)
	assert.Equal(t, int64(8), s.PerWinner)
	assert.Equal(t, int64(16), s.PotAwarded)
	assert.Equal(t, int64(1), s.Remainder)
	assert.LessOrEqual(t, s.PotAwarded, int64(17))
}

func TestComputeSettlementNoDecisionHasNoWinners(t *testing.T) {
	players := somePlayers(2)
	picks := []model.Pick{
		finalPick(players[0].Id, model.ChoiceNoDecision),
		finalPick(players[1].Id, model.ChoiceStrikeout),
	}

	s := computeSettlement(players, picks, model.ChoiceNoDecision, 10)

	assert.Empty(t, s.WinnerIds)
	assert.Equal(t, int64(0), s.PotAwarded)
	assert.Equal(t, int64(10), s.Remainder)
	assert.Equal(t, 1, s.OutDelta)
	assert.ElementsMatch(t, []uuid.UUID{players[0].Id, players[1].Id}, s.MissIds)
}

func TestComputeSettlementNonFinalPicksDoNotWin(t *testing.T) {
	players := somePlayers(1)
	picks := []model.Pick{{Id: uuid.New(), PlayerId: players[0].Id, ChoiceCode: model.ChoiceDouble, IsFinal: false}}

	s := computeSettlement(players, picks, model.ChoiceDouble, 5)

	assert.Empty(t, s.WinnerIds)
	assert.Equal(t, 2, s.OutDelta)
	assert.True(t, s.MultiOut)
}

func TestComputeSettlementTripleRecordsThreeOuts(t *testing.T) {
	players := somePlayers(2)
	s := computeSettlement(players, nil, model.ChoiceTriple, 0)

	assert.Equal(t, 3, s.OutDelta)
	assert.True(t, s.MultiOut)
	assert.Equal(t, int64(0), s.PotAwarded)
}
