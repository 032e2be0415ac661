package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *WebSocketManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	manager := NewWebSocketManager()
	go manager.Run(ctx)
	return manager
}

func connect(manager *WebSocketManager, userID string, admin bool, buffer int) *Client {
	client := &Client{UserID: userID, IsAdmin: admin, Send: make(chan Event, buffer), Manager: manager}
	manager.Register(client)
	return client
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func assertNothing(t *testing.T, client *Client) {
	t.Helper()
	select {
	case event := <-client.Send:
		t.Fatalf("unexpected event %q", event.Event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyUser_ReachesEveryConnectionOfThatUser(t *testing.T) {
	manager := startManager(t)
	tab1 := connect(manager, "user-1", false, 4)
	tab2 := connect(manager, "user-1", false, 4)
	other := connect(manager, "user-2", false, 4)

	manager.NotifyUser("user-1", "chat.message", map[string]string{"content": "hi"})

	assert.Equal(t, "chat.message", receive(t, tab1).Event)
	assert.Equal(t, "chat.message", receive(t, tab2).Event)
	assertNothing(t, other)
	assert.Equal(t, 3, manager.GetClientCount())
}

func TestNotifyAdmins_OnlyAdmins(t *testing.T) {
	manager := startManager(t)
	admin := connect(manager, "admin-1", true, 4)
	user := connect(manager, "user-1", false, 4)

	manager.NotifyAdmins("chat.message", nil)

	assert.Equal(t, "chat.message", receive(t, admin).Event)
	assertNothing(t, user)
}

func TestSlowClientIsDropped(t *testing.T) {
	manager := startManager(t)
	slow := connect(manager, "user-1", false, 0)
	require.Equal(t, 1, manager.GetClientCount())

	manager.NotifyUser("user-1", "chat.message", nil)

	require.Eventually(t, func() bool { return manager.GetClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestUnregister(t *testing.T) {
	manager := startManager(t)
	client := connect(manager, "user-1", false, 1)

	manager.Unregister(client)
	manager.Unregister(client)

	assert.Equal(t, 0, manager.GetClientCount())
	_, ok := <-client.Send
	assert.False(t, ok)
}

func TestStoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	manager := NewWebSocketManager()
	stopped := make(chan struct{})
	go func() {
		manager.Run(ctx)
		close(stopped)
	}()

	client := connect(manager, "user-1", false, 1)
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		manager.Unregister(client)
		assert.False(t, manager.Register(&Client{UserID: "user-2", Send: make(chan Event, 1)}))
		assert.Equal(t, 0, manager.GetClientCount())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
	_, ok := <-client.Send
	assert.False(t, ok)
}
