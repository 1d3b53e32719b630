// Package websocket fans admin events out to connected admin consoles.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/chengtian/temple-backend/pkg/logger"
)

// Event 관리자 화면으로 전달되는 알림
type Event struct {
	Type string      `json:"type"` // order.created, feedback.created ...
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// Client WebSocket 클라이언트
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
	}
}

// Hub WebSocket 연결 관리자
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run Hub 실행. Stop이 호출되면 모든 연결을 닫고 반환한다.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Admin feed client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"total":      total,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()
			for _, client := range slow {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"session_id": client.SessionID,
				})
				h.remove(client)
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		logger.Info("Admin feed client unregistered", map[string]interface{}{
			"session_id": client.SessionID,
			"remaining":  len(h.clients),
		})
	}
}

// Publish queues an event for every connected client. It never blocks; events
// are dropped when the hub is backed up or stopped.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Data: payload, At: time.Now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
