package ws

import (
	"context"

	"outbound_backend/internal/logger"
)

// Event is the frame pushed to clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type delivery struct {
	client *Client
	userID string // empty with no client means every admin client
	event  Event
}

// WebSocketManager owns the set of connected clients. Only Run touches the
// client map; everything else talks to it through channels.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	counts     chan chan int
	done       chan struct{}
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		counts:     make(chan chan int),
		done:       make(chan struct{}),
	}
}

func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range manager.clients {
				for client := range conns {
					close(client.Send)
				}
			}
			manager.clients = make(map[string]map[*Client]struct{})
			return

		case client := <-manager.register:
			conns, ok := manager.clients[client.UserID]
			if !ok {
				conns = make(map[*Client]struct{})
				manager.clients[client.UserID] = conns
			}
			conns[client] = struct{}{}
			logger.Debug("Client registered", "user_id", client.UserID, "connections", len(conns))

		case client := <-manager.unregister:
			manager.remove(client)

		case d := <-manager.deliver:
			manager.dispatch(d)

		case reply := <-manager.counts:
			total := 0
			for _, conns := range manager.clients {
				total += len(conns)
			}
			reply <- total
		}
	}
}

// Register adds client to the hub. It reports false once the hub has stopped.
func (manager *WebSocketManager) Register(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.done:
		return false
	}
}

// Unregister removes client from the hub; it returns immediately once the hub has stopped.
func (manager *WebSocketManager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// NotifyUser queues an event for every connection of userID.
func (manager *WebSocketManager) NotifyUser(userID, event string, payload interface{}) {
	manager.enqueue(delivery{userID: userID, event: Event{Event: event, Data: payload}})
}

// NotifyAdmins queues an event for every connected platform admin.
func (manager *WebSocketManager) NotifyAdmins(event string, payload interface{}) {
	manager.enqueue(delivery{event: Event{Event: event, Data: payload}})
}

// GetClientCount returns the number of open connections.
func (manager *WebSocketManager) GetClientCount() int {
	reply := make(chan int, 1)
	select {
	case manager.counts <- reply:
		return <-reply
	case <-manager.done:
		return 0
	}
}

func (manager *WebSocketManager) enqueue(d delivery) {
	select {
	case manager.deliver <- d:
	default:
		logger.Warn("Websocket delivery queue full, dropping event", "event", d.event.Event, "user_id", d.userID)
	}
}

// enqueueTo queues an event for a single connection.
func (manager *WebSocketManager) enqueueTo(client *Client, event Event) {
	manager.enqueue(delivery{client: client, userID: client.UserID, event: event})
}

func (manager *WebSocketManager) dispatch(d delivery) {
	if d.client != nil {
		if _, ok := manager.clients[d.userID][d.client]; ok {
			manager.send(d.client, d.event)
		}
		return
	}
	if d.userID != "" {
		for client := range manager.clients[d.userID] {
			manager.send(client, d.event)
		}
		return
	}
	for _, conns := range manager.clients {
		for client := range conns {
			if client.IsAdmin {
				manager.send(client, d.event)
			}
		}
	}
}

// send never blocks the hub; a client that cannot keep up is dropped.
func (manager *WebSocketManager) send(client *Client, event Event) {
	select {
	case client.Send <- event:
	default:
		logger.Warn("Client disconnected due to full send channel", "user_id", client.UserID)
		manager.remove(client)
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	conns, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	close(client.Send)
	delete(conns, client)
	if len(conns) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.Debug("Client unregistered", "user_id", client.UserID)
}
