package mcts

// PureVanilla leaves every optional flag off: plain UCB1, no FPU, no
// progressive bias, no solver, no tree reuse, no TT, no evaluator.
func PureVanilla() Config {
	return DefaultConfig()
}

// Vanilla adds 1-ply danger lookahead to the rollout and sets
// UseTreeReuse, still on plain UCB1 with no evaluator. Search does not
// read UseTreeReuse; keeping a subtree between searches is done by the
// caller through FindChildByMove and Tree.ShiftRoot.
func Vanilla() Config {
	cfg := DefaultConfig()
	cfg.UseLookahead = true
	cfg.UseTreeReuse = true
	return cfg
}

// Grandmaster is PUCT-driven with progressive bias, the solver, a
// tighter (more exploitative) rollout epsilon, and the default
// heuristic weights feeding both progressive bias and rollout ranking.
func Grandmaster() Config {
	cfg := DefaultConfig()
	cfg.Selection = PUCT
	cfg.UseProgressiveBias = true
	cfg.BiasConstant = 0.2
	cfg.UseSolver = true
	cfg.RolloutEpsilon = 0.05
	cfg.UseLookahead = true
	cfg.UseTreeReuse = true
	cfg.UseTT = true
	return cfg
}

// AlphaZero is PUCT selection plus the solver, intended for use with
// a real policy-value evaluator configured separately (presets do not
// set Evaluator; callers attach one before calling Search).
func AlphaZero() Config {
	cfg := DefaultConfig()
	cfg.Selection = PUCT
	cfg.UseSolver = true
	cfg.UseTreeReuse = true
	cfg.UseTT = true
	return cfg
}

// ablation flips exactly one flag away from PureVanilla, for isolating
// a single feature's effect in tests and tuning runs (spec.md §6's
// "single-feature ablations for each flag").
func ablationUCB1Tuned() Config {
	cfg := DefaultConfig()
	cfg.Selection = UCB1Tuned
	return cfg
}

func ablationFPU() Config {
	cfg := DefaultConfig()
	cfg.UseFPU = true
	return cfg
}

func ablationProgressiveBias() Config {
	cfg := DefaultConfig()
	cfg.UseProgressiveBias = true
	cfg.BiasConstant = 0.2
	return cfg
}

func ablationSolver() Config {
	cfg := DefaultConfig()
	cfg.UseSolver = true
	return cfg
}

func ablationLookahead() Config {
	cfg := DefaultConfig()
	cfg.UseLookahead = true
	return cfg
}

func ablationDecayingReward() Config {
	cfg := DefaultConfig()
	cfg.UseDecayingReward = true
	return cfg
}

func ablationFastRollout() Config {
	cfg := DefaultConfig()
	cfg.UseFastRollout = true
	return cfg
}

func ablationTreeReuse() Config {
	cfg := DefaultConfig()
	cfg.UseTreeReuse = true
	return cfg
}

func ablationTT() Config {
	cfg := DefaultConfig()
	cfg.UseTT = true
	return cfg
}
