package mcts

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/damazero/engine/board"
	"github.com/damazero/engine/evaluator"
)

// forwardFunc evaluates one position (with up to two plies of
// history), either directly against the configured evaluator
// (sequential search) or by round-tripping through the inference
// batching queue (parallel search).
type forwardFunc = func(pos, hist1, hist2 board.Position) (evaluator.Output, error)

// Stats accumulates orchestrator telemetry across one search call,
// merged from every worker per spec.md §4.7 step 4.
type Stats struct {
	Iterations      uint64
	BatchCount      uint64
	BatchedRequests uint64
}

// MeanBatchSize returns the average number of requests the batcher
// serviced per forward pass, the quantity spec.md §8 scenario 6
// requires to be ≥ 2 under contention.
func (s *Stats) MeanBatchSize() float64 {
	if s.BatchCount == 0 {
		return 0
	}
	return float64(s.BatchedRequests) / float64(s.BatchCount)
}

// inferRequest is one worker's leaf evaluation request, submitted to
// the batcher over a channel — the channel-pair realization of the
// inference queue spec.md §9 calls out as an acceptable alternative to
// a mutex-protected vector plus condition variables.
type inferRequest struct {
	pos, hist1, hist2 board.Position
	resp              chan evaluator.Output
}

// requestInference sends one leaf to the batcher and blocks for its
// reply.
func requestInference(reqCh chan<- inferRequest, pos, hist1, hist2 board.Position) (evaluator.Output, error) {
	resp := make(chan evaluator.Output, 1)
	reqCh <- inferRequest{pos: pos, hist1: hist1, hist2: hist2, resp: resp}
	return <-resp, nil
}

// Search drives the four-phase loop to completion under timeLimit (0
// disables the wall-clock bound) and cfg's resource limits, and
// returns the robust child's move, fulfilling spec.md §4.7 / §6's
// search(...) contract. stats may be nil.
func Search(tree *Tree, root *Node, cfg Config, timeLimit time.Duration, stats *Stats) board.Move {
	if stats == nil {
		stats = &Stats{}
	}
	if len(root.Position().GenerateMoves()) == 0 {
		return board.Move{}
	}

	var deadline time.Time
	if timeLimit > 0 {
		deadline = time.Now().Add(timeLimit)
	}

	if cfg.NumThreads == 0 {
		runSequential(tree, root, cfg, deadline, stats)
	} else {
		runParallel(tree, root, cfg, deadline, stats)
	}
	return bestMove(root)
}

func runSequential(tree *Tree, root *Node, cfg Config, deadline time.Time, stats *Stats) {
	var forward forwardFunc
	if cfg.Evaluator != nil {
		forward = cfg.Evaluator.ForwardWithHistory
	}
	for !shouldTerminate(root, cfg, deadline) {
		if err := runIteration(tree, root, cfg, forward); err != nil {
			// arena exhausted: stop and return whatever the tree holds,
			// the acceptable alternative spec.md §7 allows in place of
			// a process-terminating fatal error.
			return
		}
		stats.Iterations++
	}
}

func runParallel(tree *Tree, root *Node, cfg Config, deadline time.Time, stats *Stats) {
	done := make(chan struct{})
	var wg sync.WaitGroup

	var reqCh chan inferRequest
	if cfg.Evaluator != nil {
		reqCh = make(chan inferRequest, batchSize*2)
	}

	for i := 0; i < cfg.NumThreads; i++ {
		wg.Add(1)
		workerCfg := cfg
		workerCfg.Rand = rand.New(rand.NewSource(cfg.Rand.Int63() + int64(i) + 1))

		var forward forwardFunc
		if reqCh != nil {
			ch := reqCh
			forward = func(pos, hist1, hist2 board.Position) (evaluator.Output, error) {
				return requestInference(ch, pos, hist1, hist2)
			}
		}

		go func(wCfg Config, fwd forwardFunc) {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if err := runIteration(tree, root, wCfg, fwd); err != nil {
					return
				}
				atomic.AddUint64(&stats.Iterations, 1)
			}
		}(workerCfg, forward)
	}

	if reqCh != nil {
		runBatcher(reqCh, cfg, root, deadline, stats)
	} else {
		for !shouldTerminate(root, cfg, deadline) {
			time.Sleep(time.Millisecond)
		}
	}
	close(done)
	if reqCh != nil {
		// requests sent after the batcher's last flush still get a reply,
		// so no worker stays blocked short of its done check.
		go func() {
			for req := range reqCh {
				out, _ := cfg.Evaluator.ForwardWithHistory(req.pos, req.hist1, req.hist2)
				req.resp <- out
			}
		}()
	}
	wg.Wait()
	if reqCh != nil {
		close(reqCh)
	}
}

// runBatcher is the master's drain loop: it wakes on a full batch or a
// 1ms timeout (spec.md §5's "cond_batch_ready or a 1ms timeout"),
// snapshotting every pending request into one ForwardBatch call.
func runBatcher(reqCh chan inferRequest, cfg Config, root *Node, deadline time.Time, stats *Stats) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	var pending []inferRequest
	flush := func() {
		if len(pending) == 0 {
			return
		}
		n := len(pending)
		positions := make([]board.Position, n)
		hist1 := make([]board.Position, n)
		hist2 := make([]board.Position, n)
		for i, r := range pending {
			positions[i], hist1[i], hist2[i] = r.pos, r.hist1, r.hist2
		}
		outputs := make([]evaluator.Output, n)
		if err := cfg.Evaluator.ForwardBatch(positions, hist1, hist2, outputs); err == nil {
			atomic.AddUint64(&stats.BatchCount, 1)
			atomic.AddUint64(&stats.BatchedRequests, uint64(n))
		}
		for i, r := range pending {
			r.resp <- outputs[i]
		}
		pending = pending[:0]
	}

	for {
		if shouldTerminate(root, cfg, deadline) {
			flush()
			return
		}
		select {
		case req := <-reqCh:
			pending = append(pending, req)
			if len(pending) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// runIteration is one Selection -> Expansion -> Evaluation ->
// Backpropagation pass from root.
func runIteration(tree *Tree, root *Node, cfg Config, forward forwardFunc) error {
	leaf := SelectLeaf(root, cfg)
	// SelectLeaf adds virtual loss to each child it descends into; the
	// root is counted here so Backpropagate's per-level decrement brings
	// every node on the path back to zero.
	root.addVirtualLoss(1)
	releasePath := func() {
		for n := leaf; n != nil; n = n.parent {
			n.addVirtualLoss(-1)
		}
	}
	if leaf.IsTerminal() {
		Backpropagate(leaf, terminalResult(leaf, cfg), cfg)
		return nil
	}

	// expansion_threshold (spec.md §6): a node is only expanded into
	// children once it has accumulated at least this many visits;
	// earlier visits evaluate the leaf position directly, the common
	// "don't expand on the first visit" progressive-widening rule.
	if cfg.ExpansionThreshold > 0 && leaf.Visits() < uint32(cfg.ExpansionThreshold) {
		if forward != nil {
			out, err := forward(leaf.position, historyAt(leaf, 1), historyAt(leaf, 2))
			if err != nil {
				return err
			}
			Backpropagate(leaf, 1-(out.Value+1)/2, cfg)
			return nil
		}
		Backpropagate(leaf, RolloutValue(leaf.position, leaf.playerWhoJustMoved, cfg), cfg)
		return nil
	}

	if forward != nil {
		child, out, err := expandFull(leaf, tree, cfg, forward)
		if err != nil {
			return err
		}
		if child == nil {
			releasePath()
			return nil
		}
		// out.Value is from leaf.Position().SideToMove()'s perspective;
		// backpropagation starts at leaf itself (the node the network
		// evaluated), so convert to leaf.playerWhoJustMoved's view.
		result := 1 - (out.Value+1)/2
		Backpropagate(leaf, result, cfg)
		return nil
	}

	child, err := expandVanilla(leaf, tree, cfg)
	if err != nil {
		return err
	}
	if child == nil {
		releasePath()
		return nil
	}
	// the new child joins the path Backpropagate starts from.
	child.addVirtualLoss(1)
	if child.IsTerminal() {
		Backpropagate(child, terminalResult(child, cfg), cfg)
		return nil
	}
	value := RolloutValue(child.position, child.playerWhoJustMoved, cfg)
	Backpropagate(child, value, cfg)
	return nil
}

// shouldTerminate implements spec.md §4.7 step 3's termination check:
// the wall-clock deadline, the node-count budget, or the early-exit
// overtake test.
func shouldTerminate(root *Node, cfg Config, deadline time.Time) bool {
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		return true
	}
	if cfg.MaxNodes > 0 && root.Visits() >= cfg.MaxNodes {
		return true
	}
	return earlyExit(root, cfg)
}

// earlyExit implements spec.md §4.7's early-exit condition: every 10
// visits past visit count 40, if the gap between the best and
// second-best root child cannot be overtaken within the remaining
// node budget, the search cannot change its answer and stops early.
func earlyExit(root *Node, cfg Config) bool {
	if cfg.MaxNodes == 0 {
		return false
	}
	v := root.Visits()
	if v <= 40 || v%10 != 0 {
		return false
	}
	children := root.Children()
	if len(children) < 2 {
		return false
	}
	var best, second uint32
	for _, c := range children {
		cv := c.Visits()
		if cv > best {
			second = best
			best = cv
		} else if cv > second {
			second = cv
		}
	}
	gap := int64(best) - int64(second)
	remaining := int64(cfg.MaxNodes) - int64(v)
	return gap > remaining
}

// bestMove selects the root child with the highest visit count (the
// "robust child" of spec.md §4.7 step 5 / GLOSSARY), tie-breaking by
// first-seen.
func bestMove(root *Node) board.Move {
	children := root.Children()
	if len(children) == 0 {
		return board.Move{}
	}
	best := children[0]
	for _, c := range children[1:] {
		if c.Visits() > best.Visits() {
			best = c
		}
	}
	return best.MoveFromParent()
}
