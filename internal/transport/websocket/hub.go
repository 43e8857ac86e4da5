// Package websocket serves a game session to browsers. Clients send commands as
// JSON and every client receives the new state after each change.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for the session to answer a command.
	commandWait = 5 * time.Second
)

// Events sent to clients.
const (
	EventState  = "state"  // broadcast after every change, and the reply to "state"
	EventPlaced = "placed" // reply to "place"
	EventUndo   = "undo"   // reply to "undo"
	EventHint   = "hint"   // reply to "hint"
	EventError  = "error"  // reply to a rejected command
)

// Request is a command from a client. Op is one of state, place, undo, hint, new.
type Request struct {
	Op   string `json:"op"`
	Slot int    `json:"slot"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// Message is sent to clients.
type Message struct {
	Event  string              `json:"event"`
	State  *engine.View        `json:"state,omitempty"`
	Result *engine.PlaceResult `json:"result,omitempty"`
	Hint   *engine.Move        `json:"hint,omitempty"`
	Undone bool                `json:"undone,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// Client is one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type outbound struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and fans out session changes. The hub
// goroutine owns the client set and every send channel.
type Hub struct {
	sess     *session.Session
	logger   *log.Logger
	upgrader websocket.Upgrader

	clients map[*Client]bool

	// State updates for every client
	broadcast chan []byte

	// Replies for a single client
	direct chan outbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done chan struct{}
}

// NewHub creates a hub serving sess. logger may be nil.
func NewHub(sess *session.Session, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sess:   sess,
		logger: logger.With("transport", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game is a local toy; any page may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan outbound),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	unsubscribe := h.sess.Subscribe(h.publish)
	defer unsubscribe()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.unregisterClient(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("client registered", "clients", len(h.clients))

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, data)
			}

		case out := <-h.direct:
			if h.clients[out.client] {
				h.deliver(out.client, out.data)
			}
		}
	}
}

// deliver queues data for client, dropping the client if it cannot keep up.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("client too slow, dropping")
		h.unregisterClient(client)
	}
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.logger.Debug("client unregistered", "clients", len(h.clients))
}

// publish is the session subscriber. It runs on the session goroutine, so it
// never waits on anything but the hub loop.
func (h *Hub) publish(v engine.View) {
	data, err := json.Marshal(Message{Event: EventState, State: &v})
	if err != nil {
		h.logger.Error("marshal state", "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Handler returns the HTTP routes: /ws for the socket and /state for a one-shot
// JSON view.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/state", h.serveState)
	return mux
}

func (h *Hub) serveState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reply, err := h.sess.Do(r.Context(), session.CmdState{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply.View); err != nil {
		h.logger.Warn("write state", "err", err)
	}
}

// ServeWS upgrades the request and starts the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// handle runs one request against the session and builds the reply.
func (h *Hub) handle(req Request) Message {
	var cmd session.Command
	switch req.Op {
	case "state":
		cmd = session.CmdState{}
	case "place":
		cmd = session.CmdPlace{Slot: req.Slot, Row: req.Row, Col: req.Col}
	case "undo":
		cmd = session.CmdUndo{}
	case "hint":
		cmd = session.CmdHint{}
	case "new":
		cmd = session.CmdNewGame{}
	default:
		return Message{Event: EventError, Error: fmt.Sprintf("unknown op %q", req.Op)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandWait)
	defer cancel()

	reply, err := h.sess.Do(ctx, cmd)
	if err != nil {
		msg := Message{Event: EventError, Error: err.Error()}
		if errors.Is(err, engine.ErrInvalidPlacement) {
			msg.State = &reply.View
		}
		return msg
	}

	msg := Message{State: &reply.View}
	switch req.Op {
	case "place":
		msg.Event = EventPlaced
		msg.Result = reply.Result
	case "undo":
		msg.Event = EventUndo
		msg.Undone = reply.Undone
	case "hint":
		msg.Event = EventHint
		msg.Hint = reply.Hint
	default:
		msg.Event = EventState
	}
	return msg
}

// reply queues msg for c alone.
func (h *Hub) reply(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal reply", "err", err)
		return
	}
	select {
	case h.direct <- outbound{client: c, data: data}:
	case <-h.done:
	}
}

// readPump reads commands from the connection until it fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.hub.reply(c, Message{Event: EventError, Error: "malformed request: " + err.Error()})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", "err", err)
			}
			return
		}
		c.hub.reply(c, c.hub.handle(req))
	}
}

// writePump writes queued messages and pings to the connection. One JSON
// document per frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
