package chess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEngine(t *testing.T, fen string) *Engine {
	t.Helper()
	engine, err := NewEngineFromFEN(fen)
	require.NoError(t, err, "fen %s", fen)
	return engine
}

func playMoves(t *testing.T, engine *Engine, moves ...string) {
	t.Helper()
	for _, m := range moves {
		_, err := engine.MakeMove(m)
		require.NoError(t, err, "move %s", m)
	}
}

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()
	if engine == nil {
		t.Fatal("Expected non-nil engine")
	}

	if engine.FEN() != StartFEN {
		t.Errorf("Expected FEN %s, got %s", StartFEN, engine.FEN())
	}

	if engine.Status() != StatusActive {
		t.Errorf("Expected status %s, got %s", StatusActive, engine.Status())
	}

	if engine.GetActiveColor() != "white" {
		t.Errorf("Expected active color white, got %s", engine.GetActiveColor())
	}

	if got := engine.Repetitions(); got != 1 {
		t.Errorf("Expected the initial position to be counted once, got %d", got)
	}
}

func TestMakeMove(t *testing.T) {
	engine := NewEngine()

	result, err := engine.MakeMove("e2e4")
	require.NoError(t, err)

	assert.Equal(t, "e2e4", result.Move)
	assert.Equal(t, "e2", result.From)
	assert.Equal(t, "e4", result.To)
	assert.Equal(t, "e4", result.SAN)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", result.FEN)
	assert.False(t, result.Check)
	assert.False(t, result.Checkmate)
	assert.False(t, result.GameOver)
	assert.Equal(t, StatusActive, result.Status)
	assert.Equal(t, Black, engine.Turn())

	// e2 is empty now
	_, err = engine.MakeMove("e2e4")
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestMakeMoveInvalidToken(t *testing.T) {
	tests := []string{"", "e2", "e2e", "z9e4", "e2z9", "e2e9", "e0e4", "e2e4e5", "e7e8x", "i2i4"}

	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			engine := NewEngine()
			before := engine.State()

			_, err := engine.MakeMove(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMove), "got %v", err)
			assert.False(t, errors.Is(err, ErrIllegalMove))

			if diff := cmp.Diff(before, engine.State()); diff != "" {
				t.Errorf("state changed after rejected move (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMakeMoveIllegal(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		token string
	}{
		{"wrong side", StartFEN, "e7e5"},
		{"blocked bishop", StartFEN, "f1c4"},
		{"empty square", StartFEN, "e4e5"},
		{"pawn triple push", StartFEN, "e2e5"},
		{"promotion letter on quiet move", StartFEN, "e2e4q"},
		{"king into check", "4k3/8/8/8/8/8/4r3/3K4 w - - 0 1", "d1e1"},
		{"pinned bishop", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2d3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := mustEngine(t, tt.fen)
			before := engine.State()

			_, err := engine.MakeMove(tt.token)
			assert.ErrorIs(t, err, ErrIllegalMove)

			if diff := cmp.Diff(before, engine.State()); diff != "" {
				t.Errorf("state changed after rejected move (-before +after):\n%s", diff)
			}
			assert.Equal(t, 0, engine.History().Len())
			assert.False(t, engine.CanUndo())
		})
	}
}

func TestMakeMoveIsCaseInsensitive(t *testing.T) {
	engine := NewEngine()
	_, err := engine.MakeMove("G1F3")
	require.NoError(t, err)
	assert.Equal(t, Knight, engine.Position().Board[5][5].Kind)
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("e2e4")
	require.NoError(t, err)
	assert.Equal(t, Square{Row: 6, Col: 4}, m.From)
	assert.Equal(t, Square{Row: 4, Col: 4}, m.To)
	assert.Equal(t, Empty, m.Promotion)

	m, err = ParseMove("A7A8N")
	require.NoError(t, err)
	assert.Equal(t, Square{Row: 1, Col: 0}, m.From)
	assert.Equal(t, Square{Row: 0, Col: 0}, m.To)
	assert.Equal(t, Knight, m.Promotion)
	assert.Equal(t, "a7a8n", m.String())
}

func TestParsePromotion(t *testing.T) {
	tests := []struct {
		input    string
		expected PieceKind
	}{
		{"q", Queen},
		{"r", Rook},
		{"b", Bishop},
		{"n", Knight},
		{"k", Empty},
		{"x", Empty},
		{"", Empty},
	}

	for _, test := range tests {
		result := ParsePromotion(test.input)
		if result != test.expected {
			t.Errorf("ParsePromotion(%s) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestSANLine(t *testing.T) {
	engine := NewEngine()
	playMoves(t, engine, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1")

	sans, err := engine.SAN()
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "Nf6", "O-O"}, sans)

	require.True(t, engine.Undo())
	sans, err = engine.SAN()
	require.NoError(t, err)
	assert.Len(t, sans, 6)
}

func TestSummary(t *testing.T) {
	engine := NewEngine()
	playMoves(t, engine, "d2d4", "d7d5")

	sum := engine.Summary()
	assert.Equal(t, "WHITE", sum.Turn)
	assert.Equal(t, StatusActive, sum.Status)
	assert.Equal(t, 2, sum.Ply)
	assert.Equal(t, []string{"d4", "d5"}, sum.Moves)
	assert.Equal(t, engine.FEN(), sum.FEN)
	require.Len(t, sum.Board, 8)
	assert.Equal(t, "r n b q k b n r", sum.Board[0])
	assert.Equal(t, ". . . p . . . .", sum.Board[3])
	assert.Equal(t, ". . . P . . . .", sum.Board[4])
	assert.Equal(t, MaterialCount{White: 39, Black: 39}, sum.Material)
}
