package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startSnapshot = `BOARD
r n b q k b n r
p p p p p p p p
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
P P P P P P P P
R N B Q K B N R
TURN WHITE
STATUS active
`

const afterE4Snapshot = `BOARD
r n b q k b n r
p p p p p p p p
. . . . . . . .
. . . . . . . .
. . . . P . . .
. . . . . . . .
P P P P . P P P
R N B Q K B N R
TURN BLACK
STATUS active
`

type recorder struct {
	summaries []chess.Summary
}

func (r *recorder) Observe(s chess.Summary) {
	r.summaries = append(r.summaries, s)
}

func run(t *testing.T, input string) (string, *Session) {
	t.Helper()
	var out bytes.Buffer
	session := NewSession(chess.NewEngine(), &out, nil)
	require.NoError(t, session.Run(strings.NewReader(input)))
	return out.String(), session
}

func TestStartupSnapshot(t *testing.T) {
	out, _ := run(t, "")
	assert.Equal(t, startSnapshot, out)
}

func TestMoveCommand(t *testing.T) {
	out, session := run(t, "MOVE e2e4\nQUIT\n")
	assert.Equal(t, startSnapshot+afterE4Snapshot, out)
	assert.Equal(t, chess.Black, session.Engine().Turn())
}

func TestMoveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", "MOVE e2\n", "ERROR InvalidMove\n"},
		{"off the board", "MOVE e2e9\n", "ERROR InvalidMove\n"},
		{"bad promotion letter", "MOVE e7e8k\n", "ERROR InvalidMove\n"},
		{"missing token", "MOVE\n", "ERROR InvalidMove\n"},
		{"illegal", "MOVE e2e5\n", "ERROR IllegalMove\n"},
		{"wrong side", "MOVE e7e5\n", "ERROR IllegalMove\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, session := run(t, tt.input)
			assert.Equal(t, startSnapshot+tt.want+startSnapshot, out)
			assert.Equal(t, 0, session.Engine().Ply())
		})
	}
}

func TestUnknownCommandStillRenders(t *testing.T) {
	out, _ := run(t, "HELLO there\nmove e2e4\n")
	assert.Equal(t, startSnapshot+startSnapshot+startSnapshot, out)
}

func TestBlankLinesAreSkipped(t *testing.T) {
	out, _ := run(t, "\n   \nMOVE e2e4\n\n")
	assert.Equal(t, startSnapshot+afterE4Snapshot, out)
}

func TestQuitStopsReading(t *testing.T) {
	out, session := run(t, "QUIT\nMOVE e2e4\n")
	assert.Equal(t, startSnapshot, out)
	assert.Equal(t, 0, session.Engine().Ply())
}

func TestUndoRedo(t *testing.T) {
	out, session := run(t, "MOVE e2e4\nUNDO\nREDO\nUNDO\nUNDO\nQUIT\n")
	want := startSnapshot + afterE4Snapshot + startSnapshot + afterE4Snapshot + startSnapshot + startSnapshot
	assert.Equal(t, want, out)
	assert.True(t, session.Engine().CanRedo())
}

func TestCheckmateStatus(t *testing.T) {
	out, _ := run(t, "MOVE f2f3\nMOVE e7e5\nMOVE g2g4\nMOVE d8h4\n")
	snapshots := strings.Split(strings.TrimSuffix(out, "\n"), "BOARD\n")
	last := snapshots[len(snapshots)-1]
	assert.Contains(t, last, "TURN WHITE\nSTATUS checkmate")
	assert.Contains(t, last, ". . . . . . P q")
}

func TestObserverSeesEverySnapshot(t *testing.T) {
	var out bytes.Buffer
	obs := &recorder{}
	session := NewSession(chess.NewEngine(), &out, obs)
	require.NoError(t, session.Run(strings.NewReader("MOVE e2e4\nMOVE e2e4\nUNDO\nQUIT\n")))

	require.Len(t, obs.summaries, 4)
	assert.Equal(t, 0, obs.summaries[0].Ply)
	assert.Equal(t, []string{"e4"}, obs.summaries[1].Moves)
	assert.Equal(t, "BLACK", obs.summaries[2].Turn)
	assert.Equal(t, 0, obs.summaries[3].Ply)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriteFailureStopsSession(t *testing.T) {
	session := NewSession(chess.NewEngine(), failingWriter{}, nil)
	err := session.Run(strings.NewReader("MOVE e2e4\n"))
	assert.Error(t, err)
}

func TestOverlongLineIsIgnored(t *testing.T) {
	input := "FOO " + strings.Repeat("x", 70000) + "\nMOVE e2e4\nQUIT\n"
	out, session := run(t, input)

	assert.Equal(t, startSnapshot+startSnapshot+afterE4Snapshot, out)
	assert.Equal(t, 1, session.Engine().Ply())
}

func TestLastLineWithoutNewline(t *testing.T) {
	out, _ := run(t, "MOVE e2e4\r\nMOVE e7e5")
	assert.Equal(t, 3, strings.Count(out, "BOARD\n"))
	assert.True(t, strings.HasSuffix(out, "TURN WHITE\nSTATUS active\n"))
}
