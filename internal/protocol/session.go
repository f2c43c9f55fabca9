// Package protocol drives an engine from a line-oriented text stream and
// renders a board snapshot after every command.
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/justinabrahms/chessrules/internal/chess"
	"github.com/rs/zerolog/log"
)

const (
	CmdMove = "MOVE"
	CmdUndo = "UNDO"
	CmdRedo = "REDO"
	CmdQuit = "QUIT"
)

// Observer is notified with a summary after every snapshot. It must not
// retain references into the engine; a Summary is a value copy.
type Observer interface {
	Observe(chess.Summary)
}

// Session owns the engine for the lifetime of one command stream.
type Session struct {
	engine   *chess.Engine
	out      *bufio.Writer
	observer Observer
}

// NewSession creates a session writing snapshots to w. observer may be nil.
func NewSession(engine *chess.Engine, w io.Writer, observer Observer) *Session {
	return &Session{
		engine:   engine,
		out:      bufio.NewWriter(w),
		observer: observer,
	}
}

func (s *Session) Engine() *chess.Engine {
	return s.engine
}

// maxLineLength bounds a single command line. Longer lines are consumed and
// ignored like any other unknown command.
const maxLineLength = 64 * 1024

// Run emits the initial snapshot, then processes commands from r until QUIT
// or end of input. Blank lines produce no output; unknown commands are
// ignored but still followed by a snapshot.
func (s *Session) Run(r io.Reader) error {
	if err := s.render(); err != nil {
		return err
	}

	in := bufio.NewReader(r)
	for {
		line, overlong, err := readLine(in)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read commands: %w", err)
		}

		if overlong {
			log.Warn().Int("limit", maxLineLength).Msg("Ignoring overlong command line")
		} else {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			quit, err := s.dispatch(fields)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		if err := s.render(); err != nil {
			return err
		}
	}
}

// dispatch runs one command and reports whether the session should end.
func (s *Session) dispatch(fields []string) (bool, error) {
	cmd := fields[0]
	log.Debug().Str("command", cmd).Strs("args", fields[1:]).Msg("Command received")

	switch cmd {
	case CmdQuit:
		return true, nil
	case CmdUndo:
		if !s.engine.Undo() {
			log.Debug().Msg("Nothing to undo")
		}
	case CmdRedo:
		if !s.engine.Redo() {
			log.Debug().Msg("Nothing to redo")
		}
	case CmdMove:
		var token string
		if len(fields) > 1 {
			token = fields[1]
		}
		if err := s.move(token); err != nil {
			return false, err
		}
	default:
		log.Debug().Str("command", cmd).Msg("Ignoring unknown command")
	}
	return false, nil
}

// readLine returns the next line without its terminator. A line longer than
// maxLineLength is read to its end and reported as overlong with no text.
// A final line without a newline is returned before io.EOF.
func readLine(r *bufio.Reader) (string, bool, error) {
	var (
		sb       strings.Builder
		overlong bool
		read     bool
	)
	for {
		chunk, err := r.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !overlong {
			if sb.Len()+len(chunk) > maxLineLength {
				overlong = true
				sb.Reset()
			} else {
				sb.Write(chunk)
			}
		}

		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && read:
			return strings.TrimRight(sb.String(), "\r\n"), overlong, nil
		case err != nil:
			return "", false, err
		}
		return strings.TrimRight(sb.String(), "\r\n"), overlong, nil
	}
}

// move returns an error only when the output stream fails. Rejected moves
// are reported on the stream.
func (s *Session) move(token string) error {
	result, err := s.engine.MakeMove(token)
	if err == nil {
		log.Info().
			Str("move", result.Move).
			Str("san", result.SAN).
			Str("status", string(result.Status)).
			Msg("Move applied")
		return nil
	}

	log.Info().Err(err).Str("token", token).Msg("Move rejected")
	_, werr := fmt.Fprintf(s.out, "ERROR %s\n", errorKind(err))
	return werr
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, chess.ErrInvalidMove):
		return "InvalidMove"
	case errors.Is(err, chess.ErrIllegalMove):
		return "IllegalMove"
	default:
		return "InvalidMove"
	}
}

func (s *Session) render() error {
	pos := s.engine.Position()
	status := s.engine.Status()

	s.out.WriteString("BOARD\n")
	for _, row := range pos.Board.Rows() {
		s.out.WriteString(row)
		s.out.WriteByte('\n')
	}
	fmt.Fprintf(s.out, "TURN %s\n", pos.Turn)
	fmt.Fprintf(s.out, "STATUS %s\n", status)
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if s.observer != nil {
		s.observer.Observe(s.engine.Summary())
	}
	return nil
}
