package board

import (
	"math/bits"
	"math/rand"
)

// Zobrist tables, built once at package init from a fixed seed so that
// hashes are reproducible across runs (the determinism property
// spec.md §8 scenario 5 relies on at num_threads=0). This mirrors the
// pattern used by dedicated chess engines in the retrieval pack
// (zurichess's engine/zobrist.go): rand.New(rand.NewSource(fixedSeed))
// inside an init().
var (
	zobristPiece [2][2][NumSquares]uint64 // [Color][Kind][square]
	zobristColor uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func init() {
	r := rand.New(rand.NewSource(0x446f4d496e6f))
	for c := 0; c < 2; c++ {
		for k := 0; k < 2; k++ {
			for sq := 0; sq < NumSquares; sq++ {
				zobristPiece[c][k][sq] = rand64(r)
			}
		}
	}
	zobristColor = rand64(r)
}

// computeHash recomputes the Zobrist hash from scratch; used on
// construction, by Place, and by ApplyMove after every move (there is
// no incremental update).
func (p Position) computeHash() uint64 {
	var h uint64
	for c := 0; c < 2; c++ {
		for k := 0; k < 2; k++ {
			bb := p.pieces[c][k]
			for bb != 0 {
				sq := bits.TrailingZeros64(bb)
				h ^= zobristPiece[c][k][sq]
				bb &= bb - 1
			}
		}
	}
	if p.sideToMove == Black {
		h ^= zobristColor
	}
	return h
}
