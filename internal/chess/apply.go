package chess

// play applies m to the position without any undo or repetition
// bookkeeping. m is assumed to come from LegalMoves.
func (p *Position) play(m Move) {
	pc := p.Board.At(m.From)

	if pc.Kind == Pawn || !p.Board.At(m.To).IsEmpty() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	// The captured pawn sits one rank behind the destination.
	if m.EnPassant {
		p.Board.clear(Square{Row: m.To.Row - pawnDir(pc.Color), Col: m.To.Col})
	}

	p.EnPassant = NoSquare
	if pc.Kind == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		p.EnPassant = m.To
	}

	if m.Castling {
		rookFrom, rookTo := 7, m.To.Col-1
		if m.To.Col < m.From.Col {
			rookFrom, rookTo = 0, m.To.Col+1
		}
		rook := p.Board[m.From.Row][rookFrom]
		rook.HasMoved = true
		p.Board[m.From.Row][rookTo] = rook
		p.Board[m.From.Row][rookFrom] = Piece{}
	}

	pc.HasMoved = true
	if m.Promotion != Empty {
		pc.Kind = m.Promotion
	}
	p.Board.clear(m.From)
	p.Board.set(m.To, pc)

	p.Turn = p.Turn.Opponent()
}
