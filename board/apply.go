package board

// ApplyMove returns the position reached after playing m, fulfilling
// the rules-engine collaborator contract (apply_move). It does not
// validate that m is legal; callers are expected to only apply moves
// returned by GenerateMoves (or found via FindMove).
func (p Position) ApplyMove(m Move) Position {
	next := p
	color, kind, _ := p.KindAt(int(m.From()))

	fromMask := uint64(1) << uint(m.From())
	toMask := uint64(1) << uint(m.To())
	next.pieces[color][kind] &^= fromMask

	finalKind := kind
	if m.Promotes {
		finalKind = Lady
	}
	next.pieces[color][finalKind] |= toMask

	for i := int8(0); i < m.NumCapture; i++ {
		capSq := m.Captured[i]
		capMask := uint64(1) << uint(capSq)
		oc := color.Opponent()
		next.pieces[oc][Man] &^= capMask
		next.pieces[oc][Lady] &^= capMask
	}

	if m.NumCapture > 0 {
		next.halfmoveClock = 0
	} else {
		next.halfmoveClock++
	}
	next.sideToMove = color.Opponent()
	next.hash = next.computeHash()
	return next
}

// Check reports whether m is a legal move in the current position,
// fulfilling the spec's boundary requirement that illegal moves are
// rejected rather than silently applied.
func (p Position) Check(m Move) bool {
	for _, legal := range p.GenerateMoves() {
		if legal.Equal(m) {
			return true
		}
	}
	return false
}

// FindMove returns the legal move matching the given path, if any.
func (p Position) FindMove(path []int8) (Move, bool) {
	for _, legal := range p.GenerateMoves() {
		if int(legal.PathLen) != len(path) {
			continue
		}
		match := true
		for i, sq := range path {
			if legal.Path[i] != sq {
				match = false
				break
			}
		}
		if match {
			return legal, true
		}
	}
	return Move{}, false
}

// Ended reports whether the game is over from the current position:
// the side to move has no legal moves (loses), or the no-capture draw
// threshold has been reached.
func (p Position) Ended() (ended bool, winner Color, isDraw bool) {
	if p.halfmoveClock >= NoCaptureDrawPlies {
		return true, NoColor, true
	}
	if len(p.GenerateMoves()) == 0 {
		return true, p.sideToMove.Opponent(), false
	}
	return false, NoColor, false
}

// IsSquareThreatened reports whether any opponent move would capture
// through or land on sq, fulfilling the rules-engine collaborator
// contract (is_square_threatened). This powers the move heuristic's
// threat penalty, used by the rollout's move ranking and by the
// heuristic score computed when a node is created.
func (p Position) IsSquareThreatened(sq int, by Color) bool {
	threatPos := p
	threatPos.sideToMove = by
	for _, m := range threatPos.GenerateMoves() {
		if m.NumCapture == 0 {
			continue
		}
		for i := int8(0); i < m.PathLen; i++ {
			if int(m.Path[i]) == sq {
				return true
			}
		}
		for i := int8(0); i < m.NumCapture; i++ {
			if int(m.Captured[i]) == sq {
				return true
			}
		}
	}
	return false
}
