package session

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

type fakeStore struct {
	mu     sync.Mutex
	saves  map[string][]byte
	scores map[string][]int
	writes int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saves: make(map[string][]byte), scores: make(map[string][]int)}
}

func (f *fakeStore) SaveGame(id string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.err != nil {
		return f.err
	}
	f.saves[id] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) SaveScore(gameID string, score int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[gameID] = append(f.scores[gameID], score)
	return int64(len(f.scores[gameID])), nil
}

func (f *fakeStore) recorded(gameID string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.scores[gameID]...)
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func startSession(t *testing.T, state *engine.State, saver Saver) *Session {
	t.Helper()
	s := New(state, Options{GameID: "blast", Saver: saver, Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func newState(seed int64) *engine.State {
	return engine.New(rand.New(rand.NewSource(seed)), engine.Options{})
}

// diagonalHoles returns a game one move from its end. Holes on the diagonal
// keep every line open; filling (0,0) with the dot in slot 0 completes row 0 and
// column 0, and nothing left has room for a 3x3.
func diagonalHoles() *engine.State {
	rows := make([][]int, engine.BoardSize)
	for r := range rows {
		rows[r] = make([]int, engine.BoardSize)
		for c := range rows[r] {
			if r != c {
				rows[r][c] = 1
			}
		}
	}
	rec := engine.Record{
		Board: rows,
		Tray:  []int{int(engine.ShapeDot), int(engine.ShapeSquare3), int(engine.ShapeSquare3)},
	}
	return engine.Restore(rec, rand.New(rand.NewSource(1)), engine.Options{})
}

func TestStateCommand(t *testing.T) {
	state := newState(1)
	want := state.View()
	s := startSession(t, state, nil)

	reply, err := s.Do(context.Background(), CmdState{})
	require.NoError(t, err)
	assert.Equal(t, want, reply.View)
	assert.Equal(t, "blast", s.ID())
}

func TestPlaceSavesAndNotifies(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, newState(2), store)

	var mu sync.Mutex
	var views []engine.View
	s.Subscribe(func(v engine.View) {
		mu.Lock()
		views = append(views, v)
		mu.Unlock()
	})

	hint, err := s.Do(context.Background(), CmdHint{})
	require.NoError(t, err)
	require.NotNil(t, hint.Hint)
	assert.Equal(t, 0, store.writeCount(), "hints do not change state")

	mv := *hint.Hint
	reply, err := s.Do(context.Background(), CmdPlace{Slot: mv.Slot, Row: mv.Row, Col: mv.Col})
	require.NoError(t, err)
	require.NotNil(t, reply.Result)
	assert.Equal(t, mv.Shape, reply.Result.Shape)
	assert.Equal(t, reply.Result.Gained, reply.View.Score)
	assert.True(t, reply.View.Used[mv.Slot])

	assert.Equal(t, 1, store.writeCount())
	saved := engine.DecodeRecord(store.saves["blast"])
	assert.Equal(t, reply.View.Score, saved.Score)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, views, 1)
	assert.Equal(t, reply.View, views[0])
}

func TestInvalidPlaceLeavesStateAlone(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, newState(3), store)

	before, err := s.Do(context.Background(), CmdState{})
	require.NoError(t, err)

	reply, err := s.Do(context.Background(), CmdPlace{Slot: 7, Row: 0, Col: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInvalidPlacement))
	assert.Equal(t, before.View, reply.View)
	assert.Equal(t, 0, store.writeCount())
}

func TestUndo(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, newState(4), store)
	ctx := context.Background()

	reply, err := s.Do(ctx, CmdUndo{})
	require.NoError(t, err)
	assert.False(t, reply.Undone)
	assert.Equal(t, 0, store.writeCount())

	hint, err := s.Do(ctx, CmdHint{})
	require.NoError(t, err)
	_, err = s.Do(ctx, CmdPlace{Slot: hint.Hint.Slot, Row: hint.Hint.Row, Col: hint.Hint.Col})
	require.NoError(t, err)

	reply, err = s.Do(ctx, CmdUndo{})
	require.NoError(t, err)
	assert.True(t, reply.Undone)
	assert.Zero(t, reply.View.Score)
	assert.Equal(t, engine.Board{}, reply.View.Board)
	assert.Equal(t, 2, store.writeCount())
}

func TestNewGame(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, newState(5), store)
	ctx := context.Background()

	hint, err := s.Do(ctx, CmdHint{})
	require.NoError(t, err)
	_, err = s.Do(ctx, CmdPlace{Slot: hint.Hint.Slot, Row: hint.Hint.Row, Col: hint.Hint.Col})
	require.NoError(t, err)

	reply, err := s.Do(ctx, CmdNewGame{})
	require.NoError(t, err)
	assert.Zero(t, reply.View.Score)
	assert.Positive(t, reply.View.Best)
	assert.Zero(t, reply.View.UndoDepth)
}

func TestGameOverRecordsScore(t *testing.T) {
	state := diagonalHoles()

	store := newFakeStore()
	s := startSession(t, state, store)

	reply, err := s.Do(context.Background(), CmdPlace{Slot: 0, Row: 0, Col: 0})
	require.NoError(t, err)
	assert.True(t, reply.Result.GameOver)
	assert.True(t, reply.View.GameOver)
	assert.Equal(t, 1+25, reply.View.Score)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []int{26}, store.scores["blast"])
}

func TestGameOverRecordedOncePerGame(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, diagonalHoles(), store)
	ctx := context.Background()

	reply, err := s.Do(ctx, CmdPlace{Slot: 0, Row: 0, Col: 0})
	require.NoError(t, err)
	require.True(t, reply.View.GameOver)

	// Undo and the same losing move again.
	reply, err = s.Do(ctx, CmdUndo{})
	require.NoError(t, err)
	require.True(t, reply.Undone)
	reply, err = s.Do(ctx, CmdPlace{Slot: 0, Row: 0, Col: 0})
	require.NoError(t, err)
	require.True(t, reply.View.GameOver)

	assert.Equal(t, []int{26}, store.recorded("blast"))

	// A new game may be recorded again.
	_, err = s.Do(ctx, CmdNewGame{})
	require.NoError(t, err)
	assert.False(t, s.recorded, "a new game starts unrecorded")
}

func TestSaveErrorDoesNotFailCommand(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("disk full")
	s := startSession(t, newState(6), store)

	_, err := s.Do(context.Background(), CmdNewGame{})
	assert.NoError(t, err)
	assert.Equal(t, 1, store.writeCount())
}

func TestUnsubscribe(t *testing.T) {
	s := startSession(t, newState(7), nil)

	calls := 0
	cancel := s.Subscribe(func(engine.View) { calls++ })

	_, err := s.Do(context.Background(), CmdNewGame{})
	require.NoError(t, err)
	cancel()
	_, err = s.Do(context.Background(), CmdNewGame{})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestClosed(t *testing.T) {
	s := startSession(t, newState(8), nil)
	s.Close()

	_, err := s.Do(context.Background(), CmdState{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDoHonorsContext(t *testing.T) {
	// Not running, so the request is never picked up.
	s := New(newState(9), Options{Logger: quietLogger()})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Do(ctx, CmdState{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(newState(10), Options{Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, err := s.Do(context.Background(), CmdState{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentCommands(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, newState(11), store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				hint, err := s.Do(ctx, CmdHint{})
				if err != nil || hint.Hint == nil {
					s.Do(ctx, CmdNewGame{})
					continue
				}
				// Another goroutine may have taken the spot; errors are fine.
				s.Do(ctx, CmdPlace{Slot: hint.Hint.Slot, Row: hint.Hint.Row, Col: hint.Hint.Col})
			}
		}()
	}
	wg.Wait()

	reply, err := s.Do(ctx, CmdState{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reply.View.Best, reply.View.Score)
	assert.Positive(t, store.writeCount())
}
