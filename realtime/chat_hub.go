package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed over the websocket.
const (
	EventChatMessage   = "chat_message"
	EventNotification  = "notification"
	EventListingUpdate = "listing_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	rooms  map[uint]bool // listing IDs joined
}

// ChatHub holds every connected client (broker, client, admin) keyed by
// connection, with the listing rooms each one has joined.
type ChatHub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

var hub = ChatHub{
	clients: make(map[*websocket.Conn]*client),
}

// RegisterClient adds a connection for an authenticated user.
func RegisterClient(conn *websocket.Conn, userID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = &client{userID: userID, rooms: make(map[uint]bool)}
}

// UnregisterClient drops the connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// JoinRoom subscribes a connection to a listing's chat room.
func JoinRoom(conn *websocket.Conn, listingID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if cl, ok := hub.clients[conn]; ok {
		cl.rooms[listingID] = true
	}
}

// BroadcastToRoom sends a message to every client in a listing room.
func BroadcastToRoom(listingID uint, msg Message) {
	send(msg, func(cl *client) bool { return cl.rooms[listingID] })
}

// PushToUser sends a message to every connection of one user.
func PushToUser(userID uint, msg Message) {
	send(msg, func(cl *client) bool { return cl.userID == userID })
}

func send(msg Message, match func(*client) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for conn, cl := range hub.clients {
		if !match(cl) {
			continue
		}
		// A dead connection is cleaned up by the read loop; skip it here.
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
}
