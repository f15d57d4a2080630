package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/fairy-farm/internal/types"
)

// StatusSource is anything that can report the game status
type StatusSource interface {
	GetStatus() types.Status
}

// Hub keeps the connected status watchers and broadcasts to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *zap.Logger

	// last is the latest payload, sent to watchers as they join
	last []byte
}

// NewHub creates a hub. A nil logger logs nothing.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run handles joins, leaves and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Status feed shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.last != nil {
				client.send <- h.last
			}
			h.mu.Unlock()
			h.logger.Debug("Status watcher connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("Status watcher disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			h.last = message
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow watcher
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Watchers returns how many clients are connected
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastStatus sends a status to every watcher
func (h *Hub) BroadcastStatus(ctx context.Context, status types.Status) {
	payload, err := json.Marshal(status)
	if err != nil {
		h.logger.Error("Failed to encode status", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	case <-ctx.Done():
	case <-h.done:
	}
}

// StartStatusPoller polls the source every interval and broadcasts the
// status whenever it changed.
func (h *Hub) StartStatusPoller(ctx context.Context, source StatusSource, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var previous []byte
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := source.GetStatus()
				encoded, err := json.Marshal(status)
				if err != nil {
					h.logger.Error("Failed to encode status", zap.Error(err))
					continue
				}
				if bytes.Equal(encoded, previous) {
					continue
				}
				previous = encoded
				select {
				case h.broadcast <- encoded:
				case <-ctx.Done():
					return
				case <-h.done:
					return
				}
			}
		}
	}()
}
