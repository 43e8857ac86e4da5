package websocket

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/session"
)

func startHub(t *testing.T, seed int64) (*httptest.Server, *session.Session) {
	t.Helper()
	logger := log.New(io.Discard)
	state := engine.New(rand.New(rand.NewSource(seed)), engine.Options{})
	sess := session.New(state, session.Options{GameID: "blast", Logger: logger})
	hub := NewHub(sess, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sessDone := make(chan struct{})
	hubDone := make(chan struct{})
	go func() {
		defer close(sessDone)
		sess.Run(ctx)
	}()
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-hubDone
		<-sessDone
	})
	return srv, sess
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, req Request) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readEvent reads until a message with the given event arrives.
func readEvent(t *testing.T, conn *websocket.Conn, event string) Message {
	t.Helper()
	for range 5 {
		if msg := read(t, conn); msg.Event == event {
			return msg
		}
	}
	t.Fatalf("no %q event", event)
	return Message{}
}

func TestStateRequest(t *testing.T) {
	srv, _ := startHub(t, 1)
	conn := dial(t, srv)

	send(t, conn, Request{Op: "state"})
	msg := read(t, conn)

	assert.Equal(t, EventState, msg.Event)
	require.NotNil(t, msg.State)
	assert.Zero(t, msg.State.Score)
	assert.False(t, msg.State.GameOver)
}

func TestPlaceBroadcasts(t *testing.T) {
	srv, _ := startHub(t, 2)
	player := dial(t, srv)
	watcher := dial(t, srv)

	// A reply proves the watcher is registered before the placement.
	send(t, watcher, Request{Op: "state"})
	read(t, watcher)

	send(t, player, Request{Op: "hint"})
	hint := readEvent(t, player, EventHint)
	require.NotNil(t, hint.Hint)

	send(t, player, Request{Op: "place", Slot: hint.Hint.Slot, Row: hint.Hint.Row, Col: hint.Hint.Col})
	placed := readEvent(t, player, EventPlaced)
	require.NotNil(t, placed.Result)
	assert.Equal(t, hint.Hint.Shape, placed.Result.Shape)
	assert.Equal(t, placed.Result.Gained, placed.State.Score)

	update := readEvent(t, watcher, EventState)
	require.NotNil(t, update.State)
	assert.Equal(t, placed.State.Score, update.State.Score)
	assert.True(t, update.State.Used[hint.Hint.Slot])
}

func TestRejectedRequests(t *testing.T) {
	srv, _ := startHub(t, 3)
	conn := dial(t, srv)

	send(t, conn, Request{Op: "place", Slot: 0, Row: 10, Col: 0})
	msg := read(t, conn)
	assert.Equal(t, EventError, msg.Event)
	assert.Contains(t, msg.Error, "invalid placement")
	assert.NotNil(t, msg.State, "a rejected placement still carries the state")

	send(t, conn, Request{Op: "fly"})
	msg = read(t, conn)
	assert.Equal(t, EventError, msg.Event)
	assert.Contains(t, msg.Error, `unknown op "fly"`)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = read(t, conn)
	assert.Equal(t, EventError, msg.Event)
	assert.Contains(t, msg.Error, "malformed request")

	// The connection survives bad input.
	send(t, conn, Request{Op: "state"})
	assert.Equal(t, EventState, read(t, conn).Event)
}

func TestUndoAndNewGame(t *testing.T) {
	srv, _ := startHub(t, 4)
	conn := dial(t, srv)

	send(t, conn, Request{Op: "undo"})
	msg := readEvent(t, conn, EventUndo)
	assert.False(t, msg.Undone)

	send(t, conn, Request{Op: "place", Slot: 0, Row: 0, Col: 0})
	readEvent(t, conn, EventPlaced)

	send(t, conn, Request{Op: "undo"})
	msg = readEvent(t, conn, EventUndo)
	assert.True(t, msg.Undone)
	assert.Zero(t, msg.State.Score)

	send(t, conn, Request{Op: "new"})
	msg = readEvent(t, conn, EventState)
	assert.Zero(t, msg.State.UndoDepth)
}

func TestStateEndpoint(t *testing.T) {
	srv, _ := startHub(t, 5)

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var v engine.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.Zero(t, v.Score)

	post, err := http.Post(srv.URL+"/state", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestHubDropsClosedClient(t *testing.T) {
	logger := log.New(io.Discard)
	state := engine.New(rand.New(rand.NewSource(6)), engine.Options{})
	hub := NewHub(session.New(state, session.Options{Logger: logger}), logger)

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[c] = true

	hub.deliver(c, []byte("a"))
	assert.True(t, hub.clients[c])

	// The buffer is full; the slow client is dropped and its channel closed.
	hub.deliver(c, []byte("b"))
	assert.False(t, hub.clients[c])
	<-c.send
	_, open := <-c.send
	assert.False(t, open)
}
