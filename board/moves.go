package board

// GenerateMoves returns the legal moves for the side to move, fulfilling
// the rules-engine collaborator contract spec.md §6 requires
// (generate_moves). Captures are mandatory: when any capture sequence
// exists, only capture sequences achieving the maximum number of
// captured pieces are legal (the "majority capture" rule, simplified
// per SPEC_FULL.md to drop the dama-priority tie-break).
func (p Position) GenerateMoves() []Move {
	color := p.sideToMove
	var captures []Move
	ownBB := p.GetPieces(color)
	for ownBB != 0 {
		sq := int8(trailingZeroBB(ownBB))
		ownBB &= ownBB - 1
		_, kind, _ := p.KindAt(int(sq))
		captures = append(captures, p.capturesFrom(sq, color, kind)...)
	}

	if len(captures) > 0 {
		best := 0
		for _, m := range captures {
			if int(m.NumCapture) > best {
				best = int(m.NumCapture)
			}
		}
		filtered := captures[:0:0]
		for _, m := range captures {
			if int(m.NumCapture) == best {
				filtered = append(filtered, m)
			}
		}
		return filtered
	}

	var simple []Move
	ownBB = p.GetPieces(color)
	for ownBB != 0 {
		sq := int8(trailingZeroBB(ownBB))
		ownBB &= ownBB - 1
		_, kind, _ := p.KindAt(int(sq))
		simple = append(simple, p.simpleMovesFrom(sq, color, kind)...)
	}
	return simple
}

func trailingZeroBB(bb uint64) int {
	n := 0
	for bb&1 == 0 {
		bb >>= 1
		n++
	}
	return n
}

// simpleMovesFrom returns the non-capturing moves available to the
// piece at sq.
func (p Position) simpleMovesFrom(sq int8, color Color, kind Kind) []Move {
	occ := p.Occupied()
	row, col := rowCol(sq)
	var moves []Move

	dirs := allDirections[:]
	if kind == Man {
		fwd := forwardDirections(color)
		dirs = fwd[:]
	}

	for _, d := range dirs {
		if kind == Man {
			r, c := row+d.dr, col+d.dc
			dst := squareAt(r, c)
			if dst < 0 || occ&(uint64(1)<<uint(dst)) != 0 {
				continue
			}
			moves = append(moves, p.buildSimpleMove(sq, dst, color, r))
		} else {
			r, c := row+d.dr, col+d.dc
			for {
				dst := squareAt(r, c)
				if dst < 0 || occ&(uint64(1)<<uint(dst)) != 0 {
					break
				}
				moves = append(moves, p.buildSimpleMove(sq, dst, color, r))
				r += d.dr
				c += d.dc
			}
		}
	}
	return moves
}

func (p Position) buildSimpleMove(from, to int8, color Color, destRow int) Move {
	var m Move
	m.Path[0] = from
	m.Path[1] = to
	m.PathLen = 2
	_, kind, _ := p.KindAt(int(from))
	m.IsLadyMove = kind == Lady
	m.Promotes = kind == Man && destRow == backRank(color)
	return m
}

// captureState threads the in-progress jump sequence through the
// recursive search: occ is the occupancy with the moving piece's
// original square cleared and every square captured so far also
// cleared (so a later jump may slide through it), and capturedBB
// tracks which squares have already been captured in this sequence so
// the same piece cannot be captured twice.
type captureState struct {
	color       Color
	kind        Kind
	path        [MaxPathLen]int8
	pathLen     int8
	captured    [MaxCaptures]int8
	numCaptured int8
	occ         uint64
	capturedBB  uint64
}

func (p Position) capturesFrom(sq int8, color Color, kind Kind) []Move {
	var out []Move
	var st captureState
	st.color = color
	st.kind = kind
	st.path[0] = sq
	st.pathLen = 1
	st.occ = p.Occupied() &^ (uint64(1) << uint(sq))
	enemyBB := p.GetPieces(color.Opponent())

	var recurse func(cur int8)
	recurse = func(cur int8) {
		extended := false
		row, col := rowCol(cur)
		for _, d := range allDirections {
			landings, capSq, ok := captureStep(kind, row, col, d, st.occ, enemyBB, st.capturedBB)
			if !ok {
				continue
			}
			for _, land := range landings {
				extended = true
				st.path[st.pathLen] = land
				st.pathLen++
				st.captured[st.numCaptured] = capSq
				st.numCaptured++
				prevOcc := st.occ
				prevCapBB := st.capturedBB
				st.occ &^= uint64(1) << uint(capSq)
				st.capturedBB |= uint64(1) << uint(capSq)

				recurse(land)

				st.occ = prevOcc
				st.capturedBB = prevCapBB
				st.numCaptured--
				st.pathLen--
			}
		}
		if !extended && st.numCaptured > 0 {
			out = append(out, st.toMove(p, color))
		}
	}
	recurse(sq)
	return out
}

// captureStep returns the possible (landing square) continuations from
// (row, col) in direction d, plus the square that would be captured,
// for either a Man (exactly one jump of length 2) or a Lady (a flying
// capture: any run of empty squares, the first enemy piece found, then
// any run of empty squares to land on).
func captureStep(kind Kind, row, col int, d direction, occ, enemyBB, capturedBB uint64) (landings []int8, capSq int8, ok bool) {
	r, c := row+d.dr, col+d.dc
	if kind == Man {
		mid := squareAt(r, c)
		if mid < 0 {
			return nil, 0, false
		}
		midMask := uint64(1) << uint(mid)
		if enemyBB&midMask == 0 || capturedBB&midMask != 0 {
			return nil, 0, false
		}
		landRow, landCol := r+d.dr, c+d.dc
		land := squareAt(landRow, landCol)
		if land < 0 || occ&(uint64(1)<<uint(land)) != 0 {
			return nil, 0, false
		}
		return []int8{land}, mid, true
	}

	// Lady: slide through empty squares looking for the first piece.
	for {
		sq := squareAt(r, c)
		if sq < 0 {
			return nil, 0, false
		}
		mask := uint64(1) << uint(sq)
		if occ&mask == 0 {
			r += d.dr
			c += d.dc
			continue
		}
		if enemyBB&mask == 0 || capturedBB&mask != 0 {
			return nil, 0, false // own piece blocks this direction (captured squares are already cleared from occ, so the slide passes through them)
		}
		capSq = sq
		break
	}
	// Collect every empty square beyond the captured piece.
	r += d.dr
	c += d.dc
	for {
		sq := squareAt(r, c)
		if sq < 0 {
			break
		}
		mask := uint64(1) << uint(sq)
		if occ&mask != 0 {
			break
		}
		landings = append(landings, sq)
		r += d.dr
		c += d.dc
	}
	return landings, capSq, len(landings) > 0
}

func (st *captureState) toMove(p Position, color Color) Move {
	var m Move
	for i := int8(0); i < st.pathLen; i++ {
		m.Path[i] = st.path[i]
	}
	m.PathLen = st.pathLen
	for i := int8(0); i < st.numCaptured; i++ {
		m.Captured[i] = st.captured[i]
	}
	m.NumCapture = st.numCaptured
	destRow, _ := rowCol(m.To())
	m.IsLadyMove = st.kind == Lady
	m.Promotes = st.kind == Man && destRow == backRank(color)
	return m
}
