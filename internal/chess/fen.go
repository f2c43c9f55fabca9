package chess

import (
	"fmt"
	"strconv"
	"strings"

	notnil "github.com/notnil/chess"
)

// NewEngineFromFEN starts a game from the given position. Kings and corner
// rooks count as unmoved only when the FEN grants the matching castling
// right; pawns count as unmoved on their starting rank.
func NewEngineFromFEN(fen string) (*Engine, error) {
	fen = strings.TrimSpace(fen)
	opt, err := notnil.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	np := notnil.NewGame(opt).Position()

	pos := Position{
		Turn:      colorFromNotnil(np.Turn()),
		EnPassant: NoSquare,
	}
	for sq, pc := range np.Board().SquareMap() {
		row, col := 7-int(sq.Rank()), int(sq.File())
		pos.Board[row][col] = Piece{
			Kind:  kindFromNotnil(pc.Type()),
			Color: colorFromNotnil(pc.Color()),
		}
	}
	markMoved(&pos.Board, np.CastleRights())

	// notnil records the square the pawn passed over; the engine records
	// the pawn itself.
	if ep := np.EnPassantSquare(); ep != notnil.NoSquare {
		row, col := 7-int(ep.Rank()), int(ep.File())
		pawn := Square{Row: row + pawnDir(pos.Turn.Opponent()), Col: col}
		if pawn.Valid() && pos.Board.At(pawn).Kind == Pawn && pos.Board.At(pawn).Color == pos.Turn.Opponent() {
			pos.EnPassant = pawn
		}
	}

	fields := strings.Fields(fen)
	fullmove := 1
	if len(fields) >= 6 {
		if pos.HalfmoveClock, err = strconv.Atoi(fields[4]); err != nil {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		if fullmove, err = strconv.Atoi(fields[5]); err != nil {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
	}

	if _, ok := pos.Board.FindKing(White); !ok {
		return nil, fmt.Errorf("%w: no white king", ErrInvalidFEN)
	}
	if _, ok := pos.Board.FindKing(Black); !ok {
		return nil, fmt.Errorf("%w: no black king", ErrInvalidFEN)
	}

	return newEngine(pos, fen, fullmove), nil
}

func markMoved(b *Board, rights notnil.CastleRights) {
	type home struct {
		color Color
		row   int
		pawn  int
	}
	for _, h := range []home{{White, 7, 6}, {Black, 0, 1}} {
		nc := notnilColor(h.color)
		kingSide := rights.CanCastle(nc, notnil.KingSide)
		queenSide := rights.CanCastle(nc, notnil.QueenSide)
		for r := range b {
			for c := range b[r] {
				pc := &b[r][c]
				if pc.Color != h.color {
					continue
				}
				switch pc.Kind {
				case Pawn:
					pc.HasMoved = r != h.pawn
				case King:
					pc.HasMoved = !(r == h.row && c == 4 && (kingSide || queenSide))
				case Rook:
					pc.HasMoved = !(r == h.row && ((c == 7 && kingSide) || (c == 0 && queenSide)))
				}
			}
		}
	}
}

// FEN encodes the current position. Castling rights are derived from
// unmoved kings and corner rooks.
func (e *Engine) FEN() string {
	p := &e.pos
	var sb strings.Builder

	for r := 0; r < 8; r++ {
		empty := 0
		for c := 0; c < 8; c++ {
			pc := p.Board[r][c]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	if p.Turn == Black {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}

	rights := castlingRights(&p.Board)
	if rights == "" {
		rights = "-"
	}
	sb.WriteString(rights)

	sb.WriteByte(' ')
	if p.EnPassant.Valid() {
		mover := p.Board.At(p.EnPassant).Color
		passed := Square{Row: p.EnPassant.Row - pawnDir(mover), Col: p.EnPassant.Col}
		sb.WriteString(passed.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", p.HalfmoveClock, e.fullmove())
	return sb.String()
}

func (e *Engine) fullmove() int {
	plies := e.Ply()
	if e.startTurn == Black {
		plies++
	}
	return e.startFullmove + plies/2
}

func castlingRights(b *Board) string {
	var sb strings.Builder
	unmoved := func(row, col int, kind PieceKind, c Color) bool {
		pc := b[row][col]
		return pc.Kind == kind && pc.Color == c && !pc.HasMoved
	}
	for _, side := range []struct {
		color Color
		row   int
		king  byte
		queen byte
	}{{White, 7, 'K', 'Q'}, {Black, 0, 'k', 'q'}} {
		if !unmoved(side.row, 4, King, side.color) {
			continue
		}
		if unmoved(side.row, 7, Rook, side.color) {
			sb.WriteByte(side.king)
		}
		if unmoved(side.row, 0, Rook, side.color) {
			sb.WriteByte(side.queen)
		}
	}
	return sb.String()
}

func kindFromNotnil(pt notnil.PieceType) PieceKind {
	switch pt {
	case notnil.Pawn:
		return Pawn
	case notnil.Knight:
		return Knight
	case notnil.Bishop:
		return Bishop
	case notnil.Rook:
		return Rook
	case notnil.Queen:
		return Queen
	case notnil.King:
		return King
	}
	return Empty
}

func colorFromNotnil(c notnil.Color) Color {
	switch c {
	case notnil.White:
		return White
	case notnil.Black:
		return Black
	}
	return NoColor
}

func notnilColor(c Color) notnil.Color {
	if c == Black {
		return notnil.Black
	}
	return notnil.White
}
