package chess

import (
	"fmt"
	"strings"

	notnil "github.com/notnil/chess"
)

// ParseMove parses coordinate notation such as "e2e4" or "e7e8q". Input is
// case-insensitive. The result carries only squares and promotion; flags
// are filled in by matching against the legal move set.
func ParseMove(token string) (Move, error) {
	s := strings.ToLower(token)
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, token)
	}

	from, ok := parseSquare(s[0:2])
	if !ok {
		return Move{}, fmt.Errorf("%w: bad source square in %q", ErrInvalidMove, token)
	}
	to, ok := parseSquare(s[2:4])
	if !ok {
		return Move{}, fmt.Errorf("%w: bad destination square in %q", ErrInvalidMove, token)
	}

	m := Move{From: from, To: to}
	if len(s) == 5 {
		m.Promotion = ParsePromotion(s[4:])
		if m.Promotion == Empty {
			return Move{}, fmt.Errorf("%w: bad promotion piece in %q", ErrInvalidMove, token)
		}
	}
	return m, nil
}

func parseSquare(s string) (Square, bool) {
	col := int(s[0]) - 'a'
	row := 8 - (int(s[1]) - '0')
	if !InBounds(row, col) {
		return NoSquare, false
	}
	return Square{Row: row, Col: col}, true
}

func ParsePromotion(p string) PieceKind {
	switch p {
	case "q":
		return Queen
	case "r":
		return Rook
	case "b":
		return Bishop
	case "n":
		return Knight
	default:
		return Empty
	}
}

// SAN returns the current line in standard algebraic notation.
func (e *Engine) SAN() ([]string, error) {
	opt, err := notnil.FEN(e.startFEN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	game := notnil.NewGame(opt)

	line := e.Line()
	sans := make([]string, 0, len(line))
	for i, m := range line {
		vm := findNotnilMove(game, m)
		if vm == nil {
			return sans, fmt.Errorf("move %d (%s) rejected by notation encoder", i+1, m)
		}
		sans = append(sans, notnil.AlgebraicNotation{}.Encode(game.Position(), vm))
		if err := game.Move(vm); err != nil {
			return sans, fmt.Errorf("failed to replay move %d (%s): %w", i+1, m, err)
		}
	}
	return sans, nil
}

// encodeSAN renders m in the position described by fen.
func encodeSAN(fen string, m Move) (string, error) {
	opt, err := notnil.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	game := notnil.NewGame(opt)
	vm := findNotnilMove(game, m)
	if vm == nil {
		return "", fmt.Errorf("move %s rejected by notation encoder", m)
	}
	return notnil.AlgebraicNotation{}.Encode(game.Position(), vm), nil
}

func findNotnilMove(game *notnil.Game, m Move) *notnil.Move {
	want := m.String()
	for _, vm := range game.ValidMoves() {
		if strings.ToLower(vm.String()) == want {
			return vm
		}
	}
	return nil
}
