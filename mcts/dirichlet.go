package mcts

import (
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// mixDirichletNoise draws one Dirichlet(alpha, ..., alpha) sample of
// dimension len(priors) and blends it into priors in place:
// (1-epsilon)*prior + epsilon*noise, the AlphaZero root-exploration
// trick the teacher's own mcts.New wires up via a package-level
// dirichletSample computed once per tree. Here it runs once per
// search, the single time the root is fully expanded.
func mixDirichletNoise(priors []float32, cfg Config, seed uint64) {
	if len(priors) == 0 {
		return
	}
	alpha := make([]float64, len(priors))
	for i := range alpha {
		alpha[i] = cfg.DirichletAlpha
	}
	dist := distmv.NewDirichlet(alpha, distrand.NewSource(seed))
	noise := dist.Rand(nil)

	eps := cfg.DirichletEpsilon
	for i := range priors {
		priors[i] = (1-eps)*priors[i] + eps*float32(noise[i])
	}
}
