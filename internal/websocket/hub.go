// Package websocket pushes dataset and analysis updates to connected
// dashboard clients. The hub owns the client set; clients never touch each
// other and a slow client is disconnected rather than allowed to block a
// broadcast.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Message type constants.
const (
	TypeConnection     = "connection"
	TypeDataUpdate     = "data_update"
	TypeAnalysisUpdate = "analysis_update"
	TypeError          = "error"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop. Safe to call more than once.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop terminates the hub loop.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()
	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.totalConnections++
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.sendTo(client, map[string]any{
				"type": TypeConnection,
				"data": map[string]any{
					"status":    "connected",
					"client_id": client.id,
				},
				"timestamp": time.Now().Format(time.RFC3339),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				h.logger.Info("client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	failed := 0
	for _, client := range clients {
		select {
		case client.send <- message:
			h.messagesSent++
		default:
			// Slow consumer; drop it instead of stalling everyone else.
			failed++
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Warn("client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	if failed > 0 {
		h.logger.Warn("broadcast dropped clients",
			slog.Int("delivered", len(clients)-failed),
			slog.Int("dropped", failed))
	}
}

func (h *Hub) sendTo(client *Client, message map[string]any) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case client.send <- jsonData:
	default:
	}
}

// BroadcastDataUpdate notifies clients that a new dataset was loaded.
func (h *Hub) BroadcastDataUpdate(data any) {
	h.broadcastJSON(map[string]any{
		"type":      TypeDataUpdate,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// BroadcastAnalysisUpdate notifies clients that analysis results changed.
func (h *Hub) BroadcastAnalysisUpdate(view string, data any) {
	h.broadcastJSON(map[string]any{
		"type":      TypeAnalysisUpdate,
		"view":      view,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Hub) broadcastJSON(message map[string]any) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("error marshaling message",
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- jsonData:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
