package realtime

import (
	"context"

	"github.com/rs/zerolog"
)

// Hub manages WebSocket clients and routes messages by projectID.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// projectID -> set of subscribed clients
	subscriptions map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscribeMsg
	broadcast  chan broadcastMsg

	// closed when Run returns
	done chan struct{}

	logger zerolog.Logger
}

type subscribeMsg struct {
	client    *Client
	projectID uint
	leave     bool
}

type broadcastMsg struct {
	projectID uint
	payload   []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[uint]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscribeMsg),
		broadcast:     make(chan broadcastMsg, 256),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// Publish queues a payload for the subscribers of a project. It is a no-op
// once the hub has stopped.
func (h *Hub) Publish(projectID uint, payload []byte) {
	deliver(h, h.broadcast, broadcastMsg{projectID: projectID, payload: payload})
}

// deliver hands v to the Run loop and reports false once the hub stopped.
func deliver[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

// Run routes hub traffic until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.subscriptions = make(map[uint]map[*Client]bool)
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Int("clients", len(h.clients)).Msg("Client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Debug().Int("clients", len(h.clients)).Msg("Client unregistered")
			}

		case msg := <-h.subscribe:
			if _, ok := h.clients[msg.client]; !ok {
				continue
			}
			if msg.leave {
				h.unsubscribe(msg.client, msg.projectID)
				continue
			}
			if _, ok := h.subscriptions[msg.projectID]; !ok {
				h.subscriptions[msg.projectID] = make(map[*Client]bool)
			}
			h.subscriptions[msg.projectID][msg.client] = true
			h.logger.Debug().
				Uint("projectId", msg.projectID).
				Int("subscribers", len(h.subscriptions[msg.projectID])).
				Msg("Client subscribed")

		case msg := <-h.broadcast:
			for client := range h.subscriptions[msg.projectID] {
				select {
				case client.send <- msg.payload:
				default:
					// Client buffer full, drop it
					h.remove(client)
				}
			}
		}
	}
}

// remove closes the client queue and forgets every subscription of it
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	for projectID := range h.subscriptions {
		h.unsubscribe(client, projectID)
	}
}

func (h *Hub) unsubscribe(client *Client, projectID uint) {
	subs, ok := h.subscriptions[projectID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, projectID)
	}
}
