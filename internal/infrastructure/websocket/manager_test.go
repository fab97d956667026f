package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewManager()
	m.Start(ctx)
	return m
}

func register(t *testing.T, m *Manager, userID string) *Client {
	t.Helper()
	client := &Client{UserID: userID, Send: make(chan []byte, 8)}
	m.Register <- client
	require.Eventually(t, func() bool {
		return m.IsConnected(userID)
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestSendToUserDeliversEvent(t *testing.T) {
	m := startManager(t)
	client := register(t, m, "alice")

	m.SendToUser("alice", NewEvent(EventPong, nil))

	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventPong, event.Type)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSendToChatRoomExcludesSender(t *testing.T) {
	m := startManager(t)
	alice := register(t, m, "alice")
	bob := register(t, m, "bob")

	m.JoinRoom("chat-1", alice)
	m.JoinRoom("chat-1", bob)

	m.SendToChatRoom("chat-1", NewEvent(EventNewMessage, "hi"), "alice")

	select {
	case <-bob.Send:
	case <-time.After(time.Second):
		t.Fatal("room member did not receive the event")
	}

	select {
	case <-alice.Send:
		t.Fatal("sender received its own room event")
	default:
	}
}

// A reconnect closes the previous client's send channel. Sends must never
// race that close, or they panic on a closed channel.
func TestReconnectDoesNotRaceSends(t *testing.T) {
	m := startManager(t)
	register(t, m, "alice")

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				m.SendToUser("alice", NewEvent(EventPong, nil))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				m.SendToAll(NewEvent(EventBroadcast, "hello"))
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			m.Register <- &Client{UserID: "alice", Send: make(chan []byte, 1)}
		}
	}()

	// 100 reconnects land while both senders hammer the manager; any send
	// hitting a just-closed channel would panic the test.
	time.Sleep(200 * time.Millisecond)
	close(done)
	wg.Wait()

	assert.True(t, m.IsConnected("alice"))
}
