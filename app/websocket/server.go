package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
)

// MessageType represents the type of message on the push channel
type MessageType string

const (
	TypeNewOrder  MessageType = "new_order"
	TypeHeartbeat MessageType = "heartbeat"
)

// ClientType represents the kind of connected client
type ClientType string

const (
	ClientPOS     ClientType = "pos"
	ClientKitchen ClientType = "kitchen"
)

// Message is the envelope every push event is wrapped in
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Client represents one connected subscriber (e.g. a kitchen display)
type Client struct {
	ID          string
	Type        ClientType
	Connection  *websocket.Conn
	Send        chan []byte
	ConnectedAt time.Time

	server *Server
}

// Server is the notification channel hub: it fans every published event
// out to all currently connected clients. Delivery is best-effort; there
// is no persistence, replay or acknowledgment.
type Server struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	upgrader   websocket.Upgrader

	mu         sync.RWMutex
	done       chan struct{}
	mdnsServer *zeroconf.Server
}

// NewServer creates a new hub. Run must be started before clients connect.
func NewServer() *Server {
	return &Server{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Kitchen displays connect from the local network
				return true
			},
		},
	}
}

// Run drives the hub loop: registrations, broadcasts and heartbeats.
// Blocks until Stop is called; run it in its own goroutine.
func (s *Server) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("WebSocket client registered: %s (type: %s)", client.ID, client.Type)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.Send)
				log.Printf("WebSocket client unregistered: %s", client.ID)
			}
			s.mu.Unlock()

		case data := <-s.broadcast:
			s.mu.Lock()
			for id, client := range s.clients {
				select {
				case client.Send <- data:
				default:
					// Client can't keep up, drop it
					delete(s.clients, id)
					close(client.Send)
					log.Printf("WebSocket client %s buffer full, disconnected", id)
				}
			}
			s.mu.Unlock()

		case <-ticker.C:
			s.sendHeartbeat()

		case <-s.done:
			return
		}
	}
}

// Publish broadcasts an event to every connected client. Implements
// services.Publisher. Marshal failures are logged, never propagated:
// by the time an order is published it is already committed.
func (s *Server) Publish(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WebSocket: failed to marshal %s payload: %v", event, err)
		return
	}

	message := Message{
		Type:      MessageType(event),
		Timestamp: time.Now(),
		Data:      data,
	}

	envelope, err := json.Marshal(message)
	if err != nil {
		log.Printf("WebSocket: failed to marshal %s message: %v", event, err)
		return
	}

	select {
	case s.broadcast <- envelope:
	case <-s.done:
	}
}

// HandleWS upgrades an HTTP request to a websocket subscription
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	clientType := ClientType(r.URL.Query().Get("type"))
	if clientType == "" {
		clientType = ClientKitchen
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Type:        clientType,
		Connection:  conn,
		Send:        make(chan []byte, 256),
		ConnectedAt: time.Now(),
		server:      s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// AnnounceMDNS registers the server on the local network so kitchen
// displays can discover it without configuration.
func (s *Server) AnnounceMDNS(port int) error {
	server, err := zeroconf.Register(
		"POS Server",
		"_posserver._tcp",
		"local.",
		port,
		[]string{"version=1.0"},
		nil,
	)
	if err != nil {
		return fmt.Errorf("mDNS registration failed: %w", err)
	}
	s.mdnsServer = server
	log.Println("mDNS: POS server announced on _posserver._tcp.local")
	return nil
}

// ClientCount returns the number of currently connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Stop shuts down the hub and disconnects all clients
func (s *Server) Stop() {
	close(s.done)

	if s.mdnsServer != nil {
		s.mdnsServer.Shutdown()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		close(client.Send)
		client.Connection.Close()
		delete(s.clients, id)
	}
}

func (s *Server) sendHeartbeat() {
	message := Message{
		Type:      TypeHeartbeat,
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"ping":"pong"}`),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// readPump drains the client connection. Subscribers are not expected to
// send anything beyond pongs; any read error tears the client down.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.Connection.Close()
	}()

	c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Connection.SetPongHandler(func(string) error {
		c.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Connection.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}
	}
}

// writePump forwards queued messages to the connection and keeps it
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
