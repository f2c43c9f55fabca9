package chess

// IsSquareAttacked reports whether any piece of color by attacks sq.
// Pawns attack diagonally forward whether or not the square is occupied.
// Other pieces use the move geometry with castling suppressed, so castling
// safety checks never recurse back into castling generation.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			pc := p.Board[r][c]
			if pc.Color != by {
				continue
			}
			if pc.Kind == Pawn {
				if r+pawnDir(by) == sq.Row && abs(c-sq.Col) == 1 {
					return true
				}
				continue
			}
			if p.canReach(Square{Row: r, Col: c}, sq, false) {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked. A side without
// a king is never in check.
func (p *Position) InCheck(c Color) bool {
	king, ok := p.Board.FindKing(c)
	if !ok {
		return false
	}
	return p.IsSquareAttacked(king, c.Opponent())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
