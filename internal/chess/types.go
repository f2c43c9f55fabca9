package chess

import "fmt"

type PieceKind int

const (
	Empty PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindChars = [...]byte{'.', 'P', 'N', 'B', 'R', 'Q', 'K'}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "empty"
	}
}

type Color int

const (
	NoColor Color = iota
	White
	Black
)

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "WHITE"
	case Black:
		return "BLACK"
	default:
		return "NONE"
	}
}

// Piece occupies one square. The zero value is an empty square.
type Piece struct {
	Kind     PieceKind
	Color    Color
	HasMoved bool
}

func NewPiece(kind PieceKind, color Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == Empty
}

// Char returns the single-character code used in board snapshots.
func (p Piece) Char() byte {
	if p.Kind == Empty {
		return '.'
	}
	ch := kindChars[p.Kind]
	if p.Color == Black {
		return ch + ('a' - 'A')
	}
	return ch
}

// Square addresses the board by row and column. Row 0 is rank 8.
type Square struct {
	Row int
	Col int
}

var NoSquare = Square{Row: -1, Col: -1}

func InBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

func (s Square) Valid() bool {
	return InBounds(s.Row, s.Col)
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
	EnPassant bool
	Castling  bool
}

// String returns the move in coordinate notation, e.g. "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != Empty {
		s += string(kindChars[m.Promotion] + ('a' - 'A'))
	}
	return s
}

type GameStatus string

const (
	StatusActive                   GameStatus = "active"
	StatusCheck                    GameStatus = "check"
	StatusCheckmate                GameStatus = "checkmate"
	StatusStalemate                GameStatus = "stalemate"
	StatusDrawRepetition           GameStatus = "draw (threefold repetition)"
	StatusDrawFiftyMove            GameStatus = "draw (50-move rule)"
	StatusDrawInsufficientMaterial GameStatus = "draw (insufficient material)"
)

func (s GameStatus) IsDraw() bool {
	switch s {
	case StatusStalemate, StatusDrawRepetition, StatusDrawFiftyMove, StatusDrawInsufficientMaterial:
		return true
	}
	return false
}

func (s GameStatus) IsGameOver() bool {
	return s == StatusCheckmate || s.IsDraw()
}

// Summary is a read-only view of a game, suitable for logging and publishing.
type Summary struct {
	Board    []string      `json:"board"`
	Turn     string        `json:"turn"`
	Status   GameStatus    `json:"status"`
	FEN      string        `json:"fen"`
	Moves    []string      `json:"moves"`
	Ply      int           `json:"ply"`
	Material MaterialCount `json:"material"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Balance is white's material minus black's.
func (m MaterialCount) Balance() int {
	return m.White - m.Black
}

// StandardPieceValues maps piece kinds to their standard values
var StandardPieceValues = map[PieceKind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}
