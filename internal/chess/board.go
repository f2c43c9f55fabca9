package chess

import "strings"

// Board is an 8x8 grid. Row 0 is black's back rank, row 7 is white's.
// Board is a value type: assigning it copies every square.
type Board [8][8]Piece

var backRank = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	for col, kind := range backRank {
		b[0][col] = NewPiece(kind, Black)
		b[1][col] = NewPiece(Pawn, Black)
		b[6][col] = NewPiece(Pawn, White)
		b[7][col] = NewPiece(kind, White)
	}
	return b
}

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

func (b *Board) clear(sq Square) {
	b[sq.Row][sq.Col] = Piece{}
}

// FindKing returns the first king of the given color in row-major order.
func (b *Board) FindKing(c Color) (Square, bool) {
	for r := 0; r < 8; r++ {
		for col := 0; col < 8; col++ {
			if p := b[r][col]; p.Kind == King && p.Color == c {
				return Square{Row: r, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// Material sums standard piece values per side.
func (b *Board) Material() MaterialCount {
	var mc MaterialCount
	for r := range b {
		for _, p := range b[r] {
			switch p.Color {
			case White:
				mc.White += StandardPieceValues[p.Kind]
			case Black:
				mc.Black += StandardPieceValues[p.Kind]
			}
		}
	}
	return mc
}

// Rows renders each row as space-separated piece codes, rank 8 first.
func (b *Board) Rows() []string {
	rows := make([]string, 8)
	var sb strings.Builder
	for r := range b {
		sb.Reset()
		for col, p := range b[r] {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(p.Char())
		}
		rows[r] = sb.String()
	}
	return rows
}

// Position is the board together with the side to move, the en-passant
// target and the halfmove clock.
type Position struct {
	Board Board
	Turn  Color
	// EnPassant is the square of a pawn that just advanced two ranks,
	// or NoSquare.
	EnPassant     Square
	HalfmoveClock int
}

func NewPosition() Position {
	return Position{
		Board:     NewBoard(),
		Turn:      White,
		EnPassant: NoSquare,
	}
}

// pawnDir is the row delta of a forward pawn step.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// enPassantRow is the destination row of an en-passant capture by c.
func enPassantRow(c Color) int {
	if c == White {
		return 2
	}
	return 5
}

func promotionRow(c Color) int {
	if c == White {
		return 0
	}
	return 7
}
