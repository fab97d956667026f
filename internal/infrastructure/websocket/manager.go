package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one authenticated websocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks connected clients and chat-room membership.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client // chatID -> userID -> client
	Register   chan *Client
	Unregister chan *Client

	onConnect    func(userID string)
	onDisconnect func(userID string)
	onJoinRoom   func(userID, chatID string)
	onLeaveRoom  func(userID, chatID string)

	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// OnConnect registers a callback fired after a client registers.
func (m *Manager) OnConnect(fn func(userID string)) {
	m.onConnect = fn
}

// OnDisconnect registers a callback fired after a client unregisters.
// Used to tear down the client's backing snapshot subscriptions.
func (m *Manager) OnDisconnect(fn func(userID string)) {
	m.onDisconnect = fn
}

// OnJoinRoom registers a callback fired after a client joins a chat room.
func (m *Manager) OnJoinRoom(fn func(userID, chatID string)) {
	m.onJoinRoom = fn
}

// OnLeaveRoom registers a callback fired after a client leaves a chat room.
func (m *Manager) OnLeaveRoom(fn func(userID, chatID string)) {
	m.onLeaveRoom = fn
}

// Start runs the registration loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				// A reconnect replaces the previous connection.
				if prev, ok := m.clients[client.UserID]; ok {
					close(prev.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client connected: %s", client.UserID)

				if m.onConnect != nil {
					m.onConnect(client.UserID)
				}

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				for chatID, members := range m.rooms {
					if members[client.UserID] == client {
						delete(members, client.UserID)
						if len(members) == 0 {
							delete(m.rooms, chatID)
						}
					}
				}
				m.mutex.Unlock()
				log.Printf("Client disconnected: %s", client.UserID)

				if m.onDisconnect != nil {
					m.onDisconnect(client.UserID)
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}

// IsConnected reports whether the user currently has a live connection.
func (m *Manager) IsConnected(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// SendToUser delivers an event to one user if connected.
func (m *Manager) SendToUser(userID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event for user %s: %v", userID, err)
		return
	}

	// The send stays under the read lock: a reconnect closes the previous
	// client's channel under the write lock, so a send can never hit a
	// just-closed channel. Sends are non-blocking, keeping the hold short.
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[userID]
	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		log.Printf("Dropping event for slow client %s", userID)
	}
}

// SendToAll delivers an event to every connected client.
func (m *Manager) SendToAll(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal broadcast event: %v", err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		select {
		case client.Send <- payload:
		default:
			log.Printf("Dropping broadcast event for slow client %s", client.UserID)
		}
	}
}

// SendToChatRoom delivers an event to everyone in the room except excludeUserID.
func (m *Manager) SendToChatRoom(chatID string, event Event, excludeUserID string) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event for chat %s: %v", chatID, err)
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for userID, client := range m.rooms[chatID] {
		if userID == excludeUserID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("Dropping chat event for slow client %s", client.UserID)
		}
	}
}

// JoinRoom adds the client to a chat room.
func (m *Manager) JoinRoom(chatID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[chatID] == nil {
		m.rooms[chatID] = make(map[string]*Client)
	}
	m.rooms[chatID][client.UserID] = client
}

// LeaveRoom removes the client from a chat room.
func (m *Manager) LeaveRoom(chatID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.rooms[chatID]; ok {
		delete(members, client.UserID)
		if len(members) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// ReadPump reads client events until the connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Websocket read error for %s: %v", c.UserID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			m.SendToUser(c.UserID, NewEvent(EventError, "invalid event format"))
			continue
		}

		switch event.Type {
		case EventPing:
			m.SendToUser(c.UserID, NewEvent(EventPong, nil))
		case EventJoinChat:
			if event.ChatID != "" {
				m.JoinRoom(event.ChatID, c)
				if m.onJoinRoom != nil {
					m.onJoinRoom(c.UserID, event.ChatID)
				}
			}
		case EventLeaveChat:
			if event.ChatID != "" {
				m.LeaveRoom(event.ChatID, c)
				if m.onLeaveRoom != nil {
					m.onLeaveRoom(c.UserID, event.ChatID)
				}
			}
		default:
			log.Printf("Ignoring unknown event type %q from %s", event.Type, c.UserID)
		}
	}
}

// WritePump writes queued events until the send channel closes.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Websocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}
