package chess

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Engine owns one game: the current position, the repetition counts, the
// undo and redo stacks and the move history. It is not safe for concurrent
// use.
type Engine struct {
	pos         Position
	repetitions map[string]int
	undo        []frame
	redo        []frame
	history     *History

	startFEN      string
	startTurn     Color
	startFullmove int
}

func NewEngine() *Engine {
	return newEngine(NewPosition(), StartFEN, 1)
}

func newEngine(pos Position, startFEN string, fullmove int) *Engine {
	e := &Engine{
		pos:           pos,
		repetitions:   make(map[string]int),
		history:       NewHistory(),
		startFEN:      startFEN,
		startTurn:     pos.Turn,
		startFullmove: fullmove,
	}
	e.repetitions[e.pos.Key()]++
	return e
}

// MoveResult describes a move accepted by MakeMove.
type MoveResult struct {
	Move      string     `json:"move"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	SAN       string     `json:"san"`
	FEN       string     `json:"fen"`
	Check     bool       `json:"check"`
	Checkmate bool       `json:"checkmate"`
	Draw      bool       `json:"draw"`
	GameOver  bool       `json:"gameOver"`
	Status    GameStatus `json:"status"`
}

// MakeMove parses a coordinate-notation token and plays it if it matches
// a legal move of the side to move. Errors wrap ErrInvalidMove or
// ErrIllegalMove; on error the game is unchanged.
func (e *Engine) MakeMove(token string) (*MoveResult, error) {
	req, err := ParseMove(token)
	if err != nil {
		return nil, err
	}

	move, ok := e.match(req)
	if !ok {
		return nil, fmt.Errorf("%w: %s for %s", ErrIllegalMove, req, e.pos.Turn)
	}

	// SAN is relative to the position before the move.
	san := sanOrEmpty(e.FEN(), move)

	e.ApplyMove(move)

	status := e.Status()
	return &MoveResult{
		Move:      move.String(),
		From:      move.From.String(),
		To:        move.To.String(),
		SAN:       san,
		FEN:       e.FEN(),
		Check:     status == StatusCheck || status == StatusCheckmate,
		Checkmate: status == StatusCheckmate,
		Draw:      status.IsDraw(),
		GameOver:  status.IsGameOver(),
		Status:    status,
	}, nil
}

// sanOrEmpty encodes m in the position fen, or returns "" when the
// notation encoder rejects it.
func sanOrEmpty(fen string, m Move) string {
	san, err := encodeSAN(fen, m)
	if err != nil {
		log.Debug().Err(err).Str("fen", fen).Str("move", m.String()).Msg("Failed to encode SAN")
		return ""
	}
	return san
}

// match finds the legal move with the requested squares. A request without
// a promotion piece selects the first promotion variant, which is a queen.
func (e *Engine) match(req Move) (Move, bool) {
	for _, m := range e.pos.LegalMoves() {
		if m.From != req.From || m.To != req.To {
			continue
		}
		if req.Promotion == Empty || m.Promotion == req.Promotion {
			return m, true
		}
	}
	return Move{}, false
}

// Position returns a copy of the current position.
func (e *Engine) Position() Position {
	return e.pos
}

func (e *Engine) History() *History {
	return e.history
}

func (e *Engine) LegalMoves() []Move {
	return e.pos.LegalMoves()
}

func (e *Engine) Turn() Color {
	return e.pos.Turn
}

func (e *Engine) GetActiveColor() string {
	if e.pos.Turn == White {
		return "white"
	}
	return "black"
}

// Summary collects a read-only view of the game.
func (e *Engine) Summary() Summary {
	moves, err := e.SAN()
	if err != nil {
		moves = make([]string, 0, e.Ply())
		for _, m := range e.Line() {
			moves = append(moves, m.String())
		}
	}
	return Summary{
		Board:    e.pos.Board.Rows(),
		Turn:     e.pos.Turn.String(),
		Status:   e.Status(),
		FEN:      e.FEN(),
		Moves:    moves,
		Ply:      e.Ply(),
		Material: e.pos.Board.Material(),
	}
}
