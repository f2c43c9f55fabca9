package chess

import "golang.org/x/exp/maps"

// GameState is a full snapshot of everything a move can change.
type GameState struct {
	Position    Position
	Repetitions map[string]int
}

// frame is one undo or redo stack entry: the state to restore and the move
// that connects it to the state it replaces.
type frame struct {
	state GameState
	move  Move
}

func (e *Engine) capture() GameState {
	return GameState{
		Position:    e.pos,
		Repetitions: maps.Clone(e.repetitions),
	}
}

// restore takes ownership of s; callers must not reuse it.
func (e *Engine) restore(s GameState) {
	e.pos = s.Position
	e.repetitions = s.Repetitions
	if e.repetitions == nil {
		e.repetitions = make(map[string]int)
	}
}

// State returns a deep copy of the current game state.
func (e *Engine) State() GameState {
	return e.capture()
}

// ApplyMove plays m, which must be a member of LegalMoves. The pre-move
// state is pushed for undo and every redoable state is discarded.
func (e *Engine) ApplyMove(m Move) {
	e.undo = append(e.undo, frame{state: e.capture(), move: m})
	e.redo = nil
	e.history.Append(m)

	e.pos.play(m)
	e.repetitions[e.pos.Key()]++
}

// Undo restores the state before the most recent move. It reports false
// when there is nothing to undo.
func (e *Engine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	top := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, frame{state: e.capture(), move: top.move})
	e.restore(top.state)
	e.history.Back()
	return true
}

// Redo reapplies the most recently undone move. It reports false when
// there is nothing to redo.
func (e *Engine) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	top := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, frame{state: e.capture(), move: top.move})
	e.restore(top.state)
	e.history.Forward()
	return true
}

func (e *Engine) CanUndo() bool {
	return len(e.undo) > 0
}

func (e *Engine) CanRedo() bool {
	return len(e.redo) > 0
}

// Line returns the moves leading from the starting position to the
// current position.
func (e *Engine) Line() []Move {
	line := make([]Move, len(e.undo))
	for i, f := range e.undo {
		line[i] = f.move
	}
	return line
}

// Ply is the number of moves on the current line.
func (e *Engine) Ply() int {
	return len(e.undo)
}
