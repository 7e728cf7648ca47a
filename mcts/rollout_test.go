package mcts

import (
	"math/rand"
	"testing"

	"github.com/damazero/engine/board"
	"github.com/stretchr/testify/assert"
)

func TestRolloutValueIsDeterministicWithSeededRNG(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(7))
	pos := board.NewStartingPosition()

	cfg1 := cfg
	cfg1.Rand = rand.New(rand.NewSource(7))
	v1 := RolloutValue(pos, board.Black, cfg1)

	cfg2 := cfg
	cfg2.Rand = rand.New(rand.NewSource(7))
	v2 := RolloutValue(pos, board.Black, cfg2)

	assert.Equal(t, v1, v2, "same seed must produce the same playout and result")
}

func TestRolloutValueTerminatesOnNoLegalMoves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(1))

	pos := board.EmptyPosition(board.Black)
	pos.Place(28, board.Black, board.Man)
	pos.Place(24, board.White, board.Man)
	pos.Place(21, board.White, board.Man)

	// Black (to move) has no legal moves here, so the rollout must end
	// immediately: this is a loss for Black and thus a win for White,
	// the player who "just moved" into this position.
	got := RolloutValue(pos, board.White, cfg)
	assert.Equal(t, WinScore, got)
}

func TestBestHeuristicMovePrefersCaptures(t *testing.T) {
	cfg := DefaultConfig()
	pos := board.EmptyPosition(board.White)
	pos.Place(9, board.White, board.Man)
	pos.Place(13, board.Black, board.Man)

	moves := pos.GenerateMoves()
	got := bestHeuristicMove(pos, moves, cfg)
	assert.Greater(t, int(got.NumCapture), 0, "a mandatory capture must be the only move generated")
}

func TestOpponentHasCaptureDetectsMandatoryJump(t *testing.T) {
	pos := board.EmptyPosition(board.Black)
	pos.Place(13, board.Black, board.Man)
	pos.Place(9, board.White, board.Man)
	assert.True(t, opponentHasCapture(pos))

	quiet := board.NewStartingPosition()
	assert.False(t, opponentHasCapture(quiet))
}

func TestRolloutValueFastModeRespectsDepthCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(3))
	cfg.UseFastRollout = true
	cfg.FastRolloutDepth = 5

	pos := board.NewStartingPosition()
	got := RolloutValue(pos, board.Black, cfg)
	assert.GreaterOrEqual(t, got, float32(0.1))
	assert.LessOrEqual(t, got, float32(0.9))
}
