// Package session runs one game as an actor: a single goroutine owns the engine
// state and applies commands sent through Do, so several front ends (MCP, WebSocket)
// can share a game safely. Mutations are autosaved and broadcast to subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

// ErrClosed is returned by Do after the session stopped.
var ErrClosed = errors.New("session: closed")

// Saver persists the whole game record after every change.
type Saver interface {
	SaveGame(id string, data []byte) error
}

// ScoreRecorder is optionally implemented by a Saver to record finished games.
type ScoreRecorder interface {
	SaveScore(gameID string, score int) (int64, error)
}

// Options configure a session.
type Options struct {
	GameID string      // save key and score table ID
	Saver  Saver       // nil disables autosave
	Logger *log.Logger // nil uses the default logger
}

// Command is a request applied by the session goroutine.
type Command interface {
	command()
}

// CmdState returns the current view.
type CmdState struct{}

// CmdNewGame starts over, keeping the best score.
type CmdNewGame struct{}

// CmdPlace puts the piece in Slot at (Row, Col).
type CmdPlace struct {
	Slot int `json:"slot"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// CmdUndo reverts the last placement.
type CmdUndo struct{}

// CmdHint finds the first legal move.
type CmdHint struct{}

func (CmdState) command()   {}
func (CmdNewGame) command() {}
func (CmdPlace) command()   {}
func (CmdUndo) command()    {}
func (CmdHint) command()    {}

// Reply is the outcome of a command. View is always set.
type Reply struct {
	View   engine.View
	Result *engine.PlaceResult // CmdPlace
	Hint   *engine.Move        // CmdHint, nil when no move exists
	Undone bool                // CmdUndo
}

type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	reply Reply
	err   error
}

// Session owns one engine state. A game's score is recorded once, on the move
// that ends it; undoing and losing again does not add a second row.
type Session struct {
	state  *engine.State
	id     string
	saver  Saver
	logger *log.Logger

	recorded bool // the current game's score is in the score table

	reqs      chan request
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	subs    map[int]func(engine.View)
	nextSub int
}

// New creates a session around state. Call Run to start processing commands.
func New(state *engine.State, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		state:  state,
		id:     opts.GameID,
		saver:  opts.Saver,
		logger: logger.With("game", opts.GameID),
		reqs:   make(chan request),
		done:   make(chan struct{}),
		subs:   make(map[int]func(engine.View)),
	}
}

// ID returns the session's game ID.
func (s *Session) ID() string {
	return s.id
}

// Run processes commands until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Debug("session started")
	defer s.logger.Debug("session stopped")

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.done:
			return nil
		case req := <-s.reqs:
			reply, err := s.handle(req.cmd)
			req.reply <- response{reply: reply, err: err}
		}
	}
}

// Close stops the session. Pending and later Do calls return ErrClosed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Do sends cmd to the session and waits for the reply.
func (s *Session) Do(ctx context.Context, cmd Command) (Reply, error) {
	select {
	case <-s.done:
		return Reply{}, ErrClosed
	default:
	}

	req := request{cmd: cmd, reply: make(chan response, 1)}
	select {
	case s.reqs <- req:
	case <-s.done:
		return Reply{}, ErrClosed
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp.reply, resp.err
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

// Subscribe registers fn to receive the view after every change. fn runs on the
// session goroutine and must not call Do. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(engine.View)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// handle applies one command. It runs only on the Run goroutine.
func (s *Session) handle(cmd Command) (Reply, error) {
	switch c := cmd.(type) {
	case CmdState:
		return Reply{View: s.state.View()}, nil

	case CmdNewGame:
		s.state.NewGame()
		s.recorded = false
		s.logger.Info("new game")
		return s.changed(Reply{}), nil

	case CmdPlace:
		res, err := s.state.Place(c.Slot, c.Row, c.Col)
		if err != nil {
			return Reply{View: s.state.View()}, err
		}
		s.logger.Debug("placed", "shape", res.Shape, "row", c.Row, "col", c.Col, "gained", res.Gained)
		if res.GameOver {
			s.recordScore()
		}
		return s.changed(Reply{Result: &res}), nil

	case CmdUndo:
		if !s.state.Undo() {
			return Reply{View: s.state.View()}, nil
		}
		return s.changed(Reply{Undone: true}), nil

	case CmdHint:
		reply := Reply{View: s.state.View()}
		if mv, ok := s.state.Hint(); ok {
			reply.Hint = &mv
		}
		return reply, nil

	default:
		return Reply{View: s.state.View()}, fmt.Errorf("session: unknown command %T", cmd)
	}
}

// changed persists the state, notifies subscribers and fills in the view.
func (s *Session) changed(reply Reply) Reply {
	s.persist()
	reply.View = s.state.View()

	s.mu.Lock()
	subs := make([]func(engine.View), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(reply.View)
	}
	return reply
}

// persist writes the whole record. Failures are logged; play goes on.
func (s *Session) persist() {
	if s.saver == nil {
		return
	}
	data, err := s.state.Record().Encode()
	if err != nil {
		s.logger.Error("encode save", "err", err)
		return
	}
	if err := s.saver.SaveGame(s.id, data); err != nil {
		s.logger.Error("autosave failed", "err", err)
	}
}

func (s *Session) recordScore() {
	rec, ok := s.saver.(ScoreRecorder)
	if !ok || s.recorded || s.state.Score() <= 0 {
		return
	}
	if _, err := rec.SaveScore(s.id, s.state.Score()); err != nil {
		s.logger.Error("save score failed", "err", err)
		return
	}
	s.recorded = true
	s.logger.Info("game over", "score", s.state.Score())
}
