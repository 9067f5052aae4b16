package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/belugagoods/storefront-backend/internal/events"
	"github.com/belugagoods/storefront-backend/pkg/logger"
)

const (
	// Rate limiting: 최대 메시지 수 (1초당)
	maxMessagesPerSecond = 10

	sendBufferSize = 16
)

// Message types pushed to browser tabs.
const (
	TypeCartChanged = "cart:changed"
	TypePong        = "pong"
)

// ClientMessage 클라이언트로부터 받은 메시지
type ClientMessage struct {
	Type string `json:"type"` // ping
}

// ServerMessage is what every tab of a client receives.
type ServerMessage struct {
	Type      string `json:"type"`
	ItemCount int    `json:"item_count,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Client is one open tab. Tabs of the same browser share a ClientID.
type Client struct {
	Hub           *Hub
	Conn          *Conn
	ClientID      string
	Send          chan []byte
	messageCount  int
	lastResetTime time.Time
	rateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, clientID string) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		ClientID: clientID,
		Send:     make(chan []byte, sendBufferSize),
	}
}

// outbound goes to every tab of clientID, or only to tab when set.
type outbound struct {
	clientID string
	tab      *Client
	data     []byte
}

// Hub WebSocket 연결 관리자
type Hub struct {
	// ClientID -> 열린 탭 목록
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan outbound, 1024),
	}
}

// Run Hub 실행. ctx가 끝나면 모든 연결을 닫음
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, list := range h.clients {
				for _, client := range list {
					close(client.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = append(h.clients[client.ClientID], client)
			tabs := len(h.clients[client.ClientID])
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", map[string]interface{}{
				"client_id": client.ClientID,
				"tabs":      tabs,
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[msg.clientID] {
				if msg.tab != nil && msg.tab != client {
					continue
				}
				select {
				case client.Send <- msg.data:
				default:
					// Send 채널이 막혀있음 - 비동기로 정리
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"client_id": msg.clientID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.clients[client.ClientID]
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}

	if len(kept) == 0 {
		delete(h.clients, client.ClientID)
	} else {
		h.clients[client.ClientID] = kept
	}
	close(client.Send)
	logger.Debug("WebSocket client unregistered", map[string]interface{}{
		"client_id":      client.ClientID,
		"remaining_tabs": len(kept),
	})
}

// SendToClient queues message for every tab of clientID. Messages are
// dropped when the hub is saturated.
func (h *Hub) SendToClient(clientID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.broadcast <- outbound{clientID: clientID, data: data}:
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"client_id": clientID,
		})
	}
	return nil
}

// Subscribe forwards cart changes from bus to the affected client's tabs.
// The returned func stops forwarding.
func (h *Hub) Subscribe(bus *events.Bus) (func(), error) {
	return bus.SubscribeCartChanged(func(evt events.CartChanged) {
		_ = h.SendToClient(evt.ClientID, ServerMessage{
			Type:      TypeCartChanged,
			ItemCount: evt.ItemCount,
			Quantity:  evt.Quantity,
		})
	}, true)
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Tabs is the number of open connections for clientID.
func (h *Hub) Tabs(clientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clientID])
}

func (c *Client) allow() bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	now := time.Now()
	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}

// HandleClientMessage 클라이언트 메시지 처리
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	if !client.allow() {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"client_id": client.ClientID,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"client_id": client.ClientID,
			"error":     err.Error(),
		})
		return
	}

	if msg.Type == "ping" {
		data, _ := json.Marshal(ServerMessage{Type: TypePong})
		// 채널 close와 경합하지 않도록 Hub 고루틴을 거쳐 전송
		select {
		case h.broadcast <- outbound{clientID: client.ClientID, tab: client, data: data}:
		default:
		}
	}
}
