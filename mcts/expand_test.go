package mcts

import (
	"testing"

	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandVanillaPopsLIFOAndAppendsChild(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	firstUntried := root.untriedMoves[len(root.untriedMoves)-1]

	child, err := expandVanilla(root, tree, cfg)
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.True(t, child.moveFromParent.Equal(firstUntried))
	assert.Equal(t, 1, root.NumChildren())
	assert.Equal(t, 6, len(root.untriedMoves))
}

func TestExpandVanillaReturnsNilWhenNoUntriedMoves(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)
	root.untriedMoves = nil

	child, err := expandVanilla(root, tree, cfg)
	require.NoError(t, err)
	assert.Nil(t, child)
}

func TestExpandVanillaWarmStartsFromTranspositionTable(t *testing.T) {
	tree := NewTree(1024, 10)
	cfg := DefaultConfig()
	cfg.UseTT = true
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	move := root.untriedMoves[len(root.untriedMoves)-1]
	childPos := root.position.ApplyMove(move)

	seed, err := tree.newNode(childPos, move, root.position.SideToMove(), nil, cfg)
	require.NoError(t, err)
	seed.visits = 42
	seed.score = 10
	tree.TT.Insert(childPos.Hash(), seed)

	child, err := expandVanilla(root, tree, cfg)
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Equal(t, uint32(42), child.Visits())
	assert.Equal(t, float32(10), child.Score())
}

func TestFilterMovePolicyNormalizesAndFallsBackToUniform(t *testing.T) {
	moves := []board.Move{
		{Path: [12]int8{0, 4}, PathLen: 2},
		{Path: [12]int8{1, 5}, PathLen: 2},
	}

	dense := make([]float32, evaluator.PolicySize)
	dense[evaluator.ActionIndex(moves[0], board.White)] = 2
	dense[evaluator.ActionIndex(moves[1], board.White)] = 2
	out := filterMovePolicy(dense, moves, board.White)
	assert.InDelta(t, 0.5, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[1], 1e-6)

	zeroDense := make([]float32, evaluator.PolicySize)
	uniform := filterMovePolicy(zeroDense, moves, board.White)
	assert.InDelta(t, 0.5, uniform[0], 1e-6)
	assert.InDelta(t, 0.5, uniform[1], 1e-6)
}

func TestExpandFullAssignsPriorsAndReturnsSharedOutput(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	ev := evaluator.NewHeuristicEvaluator()
	child, out, err := expandFull(root, tree, cfg, ev.ForwardWithHistory)
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Equal(t, 7, root.NumChildren())
	assert.NotEqual(t, evaluator.Output{}, out)

	for _, c := range root.Children() {
		assert.GreaterOrEqual(t, c.Prior(), float32(0))
	}
}

func TestExpandFullIsNoOpWhenAlreadyExpanded(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	ev := evaluator.NewHeuristicEvaluator()
	_, _, err = expandFull(root, tree, cfg, ev.ForwardWithHistory)
	require.NoError(t, err)
	before := root.NumChildren()

	child, _, err := expandFull(root, tree, cfg, ev.ForwardWithHistory)
	require.NoError(t, err)
	assert.Nil(t, child, "a node already fully expanded is left untouched")
	assert.Equal(t, before, root.NumChildren())
}

func TestExpandFullMixesDirichletNoiseOnlyAtRoot(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	cfg.UseDirichletNoise = true
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	ev := evaluator.NewHeuristicEvaluator()
	plainPriors := filterMovePolicy(nil, nil, board.White) // sanity: zero-length is a no-op
	assert.Empty(t, plainPriors)

	_, _, err = expandFull(root, tree, cfg, ev.ForwardWithHistory)
	require.NoError(t, err)

	var sum float32
	for _, c := range root.Children() {
		sum += c.Prior()
	}
	assert.InDelta(t, 1, sum, 1e-3, "noise-mixed priors still approximately sum to one")

	// a non-root node's expansion must not be perturbed by noise.
	child := root.Children()[0]
	_, childOut, err := expandFull(child, tree, cfg, ev.ForwardWithHistory)
	require.NoError(t, err)
	plain := filterMovePolicy(childOut.Policy[:], child.position.GenerateMoves(), child.position.SideToMove())
	grandchildren := child.Children()
	require.Equal(t, len(plain), len(grandchildren))
	for i, g := range grandchildren {
		assert.Equal(t, plain[i], g.Prior())
	}
}

func TestHistoryAtReturnsZeroValueBeyondRoot(t *testing.T) {
	tree := NewTree(1024, 0)
	cfg := DefaultConfig()
	root, err := tree.RootCreate(board.NewStartingPosition(), cfg)
	require.NoError(t, err)

	assert.Equal(t, board.Position{}, historyAt(root, 1))
	assert.Equal(t, board.Position{}, historyAt(root, 2))
}
