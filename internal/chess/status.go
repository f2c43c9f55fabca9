package chess

import "strings"

// Key encodes the kind and color of every square plus the side to move.
// Castling rights and en-passant availability are not part of the key.
func (p *Position) Key() string {
	var sb strings.Builder
	sb.Grow(8*8*2 + 1)
	for r := range p.Board {
		for _, pc := range p.Board[r] {
			sb.WriteByte('0' + byte(pc.Kind))
			sb.WriteByte('0' + byte(pc.Color))
		}
	}
	sb.WriteByte('0' + byte(p.Turn))
	return sb.String()
}

// InsufficientMaterial reports whether neither side has a pawn, rook or
// queen and no side has more than one bishop or knight.
func (p *Position) InsufficientMaterial() bool {
	var minors [3]int
	for r := range p.Board {
		for _, pc := range p.Board[r] {
			switch pc.Kind {
			case Empty, King:
			case Bishop, Knight:
				minors[pc.Color]++
				if minors[pc.Color] > 1 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// Repetitions returns how many times the current position has occurred.
func (e *Engine) Repetitions() int {
	return e.repetitions[e.pos.Key()]
}

// Status classifies the current position. Draw rules are checked before
// the legal move set is generated.
func (e *Engine) Status() GameStatus {
	if e.Repetitions() >= 3 {
		return StatusDrawRepetition
	}
	if e.pos.HalfmoveClock >= 100 {
		return StatusDrawFiftyMove
	}
	if e.pos.InsufficientMaterial() {
		return StatusDrawInsufficientMaterial
	}

	inCheck := e.pos.InCheck(e.pos.Turn)
	if !e.pos.HasLegalMoves() {
		if inCheck {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if inCheck {
		return StatusCheck
	}
	return StatusActive
}
