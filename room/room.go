package room

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mo-shahab/poon/client"
	"github.com/mo-shahab/poon/game"
)

// Room is one player's session: their connection and the loop running their
// game against the agent.
type Room struct {
	ID        string
	Client    *client.Client
	CreatedAt time.Time

	loop *game.Loop
	Mu   sync.Mutex
}

// SetLoop attaches the session's game loop. The room stops it on removal.
func (r *Room) SetLoop(l *game.Loop) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.loop = l
}

func (r *Room) Loop() *game.Loop {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.loop
}

func (r *Room) stop() {
	if l := r.Loop(); l != nil {
		l.Stop()
	}
}

// RoomManager tracks every live session.
type RoomManager struct {
	Rooms map[string]*Room
	Mu    sync.Mutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		Rooms: make(map[string]*Room),
	}
}

// helpers
func generateRoomId() string {
	return uuid.New().String()[:6]
}

// CreateRoom registers a new session for c and returns it.
func (rm *RoomManager) CreateRoom(c *client.Client) *Room {
	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	roomId := generateRoomId()
	for rm.Rooms[roomId] != nil {
		roomId = generateRoomId()
	}

	room := &Room{
		ID:        roomId,
		Client:    c,
		CreatedAt: time.Now(),
	}
	rm.Rooms[roomId] = room
	c.RoomId = roomId

	return room
}

func (rm *RoomManager) GetRoom(roomId string) (*Room, bool) {
	rm.Mu.Lock()
	defer rm.Mu.Unlock()

	room, exists := rm.Rooms[roomId]
	return room, exists
}

// RemoveRoom unregisters the session and stops its loop. Unknown ids are
// ignored.
func (rm *RoomManager) RemoveRoom(roomId string) {
	rm.Mu.Lock()
	room, exists := rm.Rooms[roomId]
	delete(rm.Rooms, roomId)
	rm.Mu.Unlock()

	if exists {
		room.stop()
	}
}

func (rm *RoomManager) Len() int {
	rm.Mu.Lock()
	defer rm.Mu.Unlock()
	return len(rm.Rooms)
}

// CloseAll stops every loop and closes every connection. The connections'
// handlers then remove their rooms.
func (rm *RoomManager) CloseAll() {
	rm.Mu.Lock()
	rooms := make([]*Room, 0, len(rm.Rooms))
	for _, room := range rm.Rooms {
		rooms = append(rooms, room)
	}
	rm.Mu.Unlock()

	for _, room := range rooms {
		room.stop()
		if room.Client != nil && room.Client.Conn != nil {
			room.Client.Conn.Close()
		}
	}
}
