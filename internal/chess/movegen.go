package chess

// promotionKinds is the expansion order for a pawn reaching the last rank.
var promotionKinds = [...]PieceKind{Queen, Rook, Bishop, Knight}

// LegalMoves returns every legal move for the side to move, ordered by
// row-major source square, then row-major destination square.
func (p *Position) LegalMoves() []Move {
	return p.LegalMovesFor(p.Turn)
}

// LegalMovesFor returns the legal moves of color c in the current position.
func (p *Position) LegalMovesFor(c Color) []Move {
	var moves []Move
	for fr := 0; fr < 8; fr++ {
		for fc := 0; fc < 8; fc++ {
			pc := p.Board[fr][fc]
			if pc.Color != c || pc.IsEmpty() {
				continue
			}
			from := Square{Row: fr, Col: fc}
			for tr := 0; tr < 8; tr++ {
				for tc := 0; tc < 8; tc++ {
					to := Square{Row: tr, Col: tc}
					if !p.canReach(from, to, true) {
						continue
					}
					m := p.classify(from, to)
					if !p.leavesKingSafe(m) {
						continue
					}
					if pc.Kind == Pawn && tr == promotionRow(c) {
						for _, kind := range promotionKinds {
							pm := m
							pm.Promotion = kind
							moves = append(moves, pm)
						}
						continue
					}
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	return len(p.LegalMoves()) > 0
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		next := *p
		next.play(m)
		nodes += next.Perft(depth - 1)
	}
	return nodes
}

// classify sets the castling and en-passant flags of a reachable move.
func (p *Position) classify(from, to Square) Move {
	m := Move{From: from, To: to}
	pc := p.Board.At(from)
	switch pc.Kind {
	case King:
		m.Castling = abs(to.Col-from.Col) == 2
	case Pawn:
		m.EnPassant = to.Col != from.Col && p.Board.At(to).IsEmpty() && p.isEnPassantTarget(pc.Color, to)
	}
	return m
}

// leavesKingSafe plays m on a scratch copy and reports whether the mover's
// king is unattacked afterwards.
func (p *Position) leavesKingSafe(m Move) bool {
	mover := p.Board.At(m.From).Color
	scratch := *p
	scratch.play(m)
	return !scratch.InCheck(mover)
}

// isEnPassantTarget reports whether a pawn of color c moving diagonally to
// an empty square captures the opponent pawn that just double-pushed.
func (p *Position) isEnPassantTarget(c Color, to Square) bool {
	if !p.EnPassant.Valid() || p.Board.At(p.EnPassant).Color != c.Opponent() {
		return false
	}
	return to.Col == p.EnPassant.Col && to.Row == enPassantRow(c)
}

// canReach is the pseudo-legal geometry test: it ignores whether the move
// would leave the mover's own king attacked.
func (p *Position) canReach(from, to Square, allowCastle bool) bool {
	pc := p.Board.At(from)
	target := p.Board.At(to)
	if pc.IsEmpty() || target.Color == pc.Color {
		return false
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col

	switch pc.Kind {
	case Pawn:
		return p.pawnCanReach(pc, from, to)
	case Knight:
		return (abs(dr) == 2 && abs(dc) == 1) || (abs(dr) == 1 && abs(dc) == 2)
	case King:
		if abs(dr) <= 1 && abs(dc) <= 1 {
			return true
		}
		return allowCastle && p.canCastle(pc, from, to)
	case Bishop:
		if abs(dr) != abs(dc) {
			return false
		}
	case Rook:
		if dr != 0 && dc != 0 {
			return false
		}
	case Queen:
		if abs(dr) != abs(dc) && dr != 0 && dc != 0 {
			return false
		}
	}
	return p.rayClear(from, to)
}

func (p *Position) pawnCanReach(pc Piece, from, to Square) bool {
	target := p.Board.At(to)
	dr, dc := to.Row-from.Row, to.Col-from.Col
	dir := pawnDir(pc.Color)
	switch {
	case dc == 0 && dr == dir:
		return target.IsEmpty()
	case dc == 0 && dr == 2*dir:
		return !pc.HasMoved &&
			p.Board[from.Row+dir][from.Col].IsEmpty() &&
			target.IsEmpty()
	case abs(dc) == 1 && dr == dir:
		if !target.IsEmpty() {
			return true
		}
		return p.isEnPassantTarget(pc.Color, to)
	}
	return false
}

// canCastle checks a two-column king move: king and same-side rook unmoved,
// nothing between them, and the king's start, transit and destination
// squares not attacked.
func (p *Position) canCastle(king Piece, from, to Square) bool {
	if king.HasMoved || to.Row != from.Row || abs(to.Col-from.Col) != 2 {
		return false
	}
	rookCol, step := 7, 1
	if to.Col < from.Col {
		rookCol, step = 0, -1
	}
	rook := p.Board[from.Row][rookCol]
	if rook.Kind != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	for c := from.Col + step; c != rookCol; c += step {
		if !p.Board[from.Row][c].IsEmpty() {
			return false
		}
	}
	opp := king.Color.Opponent()
	transit := Square{Row: from.Row, Col: from.Col + step}
	return !p.IsSquareAttacked(from, opp) &&
		!p.IsSquareAttacked(transit, opp) &&
		!p.IsSquareAttacked(to, opp)
}

// rayClear reports whether every square strictly between from and to is
// empty. from and to must share a row, column or diagonal.
func (p *Position) rayClear(from, to Square) bool {
	sr, sc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for r, c := from.Row+sr, from.Col+sc; r != to.Row || c != to.Col; r, c = r+sr, c+sc {
		if !p.Board[r][c].IsEmpty() {
			return false
		}
	}
	return true
}
