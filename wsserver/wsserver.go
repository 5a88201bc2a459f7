package wsserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mo-shahab/poon/client"
	"github.com/mo-shahab/poon/config"
	"github.com/mo-shahab/poon/game"
	"github.com/mo-shahab/poon/room"
	"github.com/mo-shahab/poon/wire"
	"github.com/sirupsen/logrus"
)

// connection constants
const (
	maxMessageSize = 512
)

// WebSocketHandler gives every connection its own game against the agent.
// The browser draws the frames it receives and reports pointer positions.
type WebSocketHandler struct {
	Upgrader    websocket.Upgrader
	RoomManager *room.RoomManager

	game config.Game
	log  logrus.FieldLogger
}

func NewWebSocketHandler(g config.Game, log logrus.FieldLogger) *WebSocketHandler {
	return &WebSocketHandler{
		Upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		RoomManager: room.NewRoomManager(),
		game:        g,
		log:         log,
	}
}

// NewMux serves the browser client on / and the game on /ws.
func NewMux(wsh *WebSocketHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFiles())))
	mux.Handle("/ws", wsh)
	return mux
}

func (wsh *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	world, err := game.NewWorld(wsh.game)
	if err != nil {
		wsh.log.Errorf("Refusing connection: %v", err)
		http.Error(w, "game unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := wsh.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		wsh.log.Warnf("Error %v when connecting to the socket", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := client.New(conn, uuid.New().String())
	rm := wsh.RoomManager.CreateRoom(c)
	log := wsh.log.WithField("session", rm.ID)

	loop := game.NewLoop(world, wsh.game.TickInterval(),
		func(snap game.World, ev game.Events) {
			if !c.Enqueue(wire.EncodeFrame(wire.FrameFromWorld(snap, ev))) {
				log.Tracef("Dropping frame %d, send queue full", snap.Tick)
			}
		},
		game.WithLogger(log),
		game.WithPanicHandler(func(v any) {
			report(v, rm.ID, "loop")
			conn.Close()
		}),
	)
	rm.SetLoop(loop)

	defer func() {
		wsh.RoomManager.RemoveRoom(rm.ID)
		c.Close()
		log.Infof("Session closed, %d active", wsh.RoomManager.Len())
	}()

	go func() {
		defer recoverSession(log, rm.ID, "write")
		c.WritePump(log)
	}()

	c.Enqueue(wire.EncodeHello(wire.HelloFromWorld(rm.ID, world.Snapshot())))
	loop.Start()
	log.Infof("Session started from %s, %d active", conn.RemoteAddr(), wsh.RoomManager.Len())

	wsh.readPointers(c, loop, log)
}

// readPointers feeds pointer messages into the loop until the connection
// drops. Bad messages are logged and skipped.
func (wsh *WebSocketHandler) readPointers(c *client.Client, loop *game.Loop, log logrus.FieldLogger) {
	defer recoverSession(log, c.RoomId, "read")

	for {
		mt, p, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("Error reading message from the client: %v", err)
			}
			return
		}

		if mt != websocket.BinaryMessage {
			log.Debugf("Ignoring message of type %d", mt)
			continue
		}

		ptr, err := wire.DecodePointer(p)
		if err != nil {
			log.Warnf("Ignoring pointer message: %v", err)
			continue
		}
		loop.SetPointer(ptr.Y)
	}
}

// Close stops every running session.
func (wsh *WebSocketHandler) Close() {
	wsh.RoomManager.CloseAll()
}

func recoverSession(log logrus.FieldLogger, session, where string) {
	if r := recover(); r != nil {
		log.Errorf("%s panic: %v", where, r)
		report(r, session, where)
	}
}

// report forwards a recovered panic to sentry. Without sentry.Init this is a
// no-op.
func report(v any, session, where string) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("session", session)
		scope.SetTag("goroutine", where)
	})

	hub.Recover(fmt.Errorf("%v", v))
	hub.Flush(time.Second * 5)
}
