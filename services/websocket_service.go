package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WebSocketServiceInterface defines the operations provided by the WebSocket service
type WebSocketServiceInterface interface {
	Start()
	Stop()
	HandleConnection(c *gin.Context)
	SetMessageInputChannel(ch <-chan broker.Message)
	ClientCount() int
}

// Client represents a connected WebSocket client
type Client struct {
	ID     string
	UserID string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte
}

// clientReply is a message addressed to a single connection.
type clientReply struct {
	client *Client
	data   []byte
}

// ClientMessage represents a message from the client
type ClientMessage struct {
	Type string `json:"type"`
}

// WebSocketService pushes change events to the owner's open connections.
type WebSocketService struct {
	clients      map[string]*Client
	register     chan *Client
	unregister   chan *Client
	replies      chan clientReply
	clientsMutex sync.RWMutex

	upgrader   websocket.Upgrader
	subscriber broker.Subscriber

	messages     chan broker.Message
	inputChannel <-chan broker.Message

	runMutex  sync.Mutex
	isRunning bool
	stopChan  chan struct{}
}

// NewWebSocketService creates a hub fed by subscriber. A nil subscriber
// leaves the hub running without broker input.
func NewWebSocketService(subscriber broker.Subscriber, allowedOrigins []string) *WebSocketService {
	return &WebSocketService{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		replies:    make(chan clientReply, sendBufferSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		subscriber: subscriber,
		messages:   make(chan broker.Message, sendBufferSize),
		stopChan:   make(chan struct{}),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		// same-origin requests from the embedded client
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}

// SetMessageInputChannel replaces the broker subscription, useful for testing
func (ws *WebSocketService) SetMessageInputChannel(ch <-chan broker.Message) {
	ws.inputChannel = ch
}

func (ws *WebSocketService) Start() {
	ws.runMutex.Lock()
	defer ws.runMutex.Unlock()

	if ws.isRunning {
		return
	}
	ws.isRunning = true

	go ws.run()

	input := ws.inputChannel
	if input == nil && ws.subscriber != nil {
		ch, err := ws.subscriber.Subscribe(broker.AllSubjects)
		if err != nil {
			log.Printf("Failed to subscribe WebSocket service: %v", err)
			log.Println("WebSocket service will run without live events")
		} else {
			input = ch
		}
	}
	if input != nil {
		go ws.forwardMessages(input)
	}

	log.Println("WebSocket service started")
}

func (ws *WebSocketService) forwardMessages(input <-chan broker.Message) {
	for {
		select {
		case <-ws.stopChan:
			return
		case msg, ok := <-input:
			if !ok {
				log.Println("Broker channel closed, WebSocket service will no longer receive events")
				return
			}
			select {
			case ws.messages <- msg:
			default:
				log.Printf("Warning: WebSocket message channel is full, discarding message")
			}
		}
	}
}

// Stop gracefully shuts down the WebSocket service
func (ws *WebSocketService) Stop() {
	ws.runMutex.Lock()
	defer ws.runMutex.Unlock()

	if !ws.isRunning {
		return
	}
	ws.isRunning = false
	close(ws.stopChan)

	ws.clientsMutex.Lock()
	for id, client := range ws.clients {
		if client.Conn != nil {
			client.Conn.Close()
		}
		close(client.Send)
		delete(ws.clients, id)
	}
	ws.clientsMutex.Unlock()

	log.Println("WebSocket service stopped")
}

func (ws *WebSocketService) ClientCount() int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients)
}

// run handles the main client message hub
func (ws *WebSocketService) run() {
	for {
		select {
		case <-ws.stopChan:
			return

		case client := <-ws.register:
			ws.clientsMutex.Lock()
			ws.clients[client.ID] = client
			ws.clientsMutex.Unlock()
			log.Printf("Client connected: %s (user: %s)", client.ID, client.UserID)

		case client := <-ws.unregister:
			ws.removeClient(client)

		case msg := <-ws.messages:
			ws.handleBrokerMessage(msg)

		case reply := <-ws.replies:
			ws.deliver(reply)
		}
	}
}

func (ws *WebSocketService) removeClient(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	if _, ok := ws.clients[client.ID]; ok {
		delete(ws.clients, client.ID)
		close(client.Send)
		log.Printf("Client disconnected: %s", client.ID)
	}
}

// HandleConnection upgrades an authenticated request to a WebSocket.
func (ws *WebSocketService) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	conn, err := ws.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("%v: %v", ErrWebSocketConnection, err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID.String(),
		Hub:    ws,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}

	connected := models.NewStandardMessage(models.ConnectedMessage, "connected", map[string]interface{}{
		"client_id": client.ID,
		"user_id":   client.UserID,
	})
	if data, err := json.Marshal(connected); err == nil {
		client.Send <- data
	}

	select {
	case ws.register <- client:
	case <-ws.stopChan:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// deliver sends a reply if its client is still registered.
func (ws *WebSocketService) deliver(reply clientReply) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	if ws.clients[reply.client.ID] != reply.client {
		return
	}
	select {
	case reply.client.Send <- reply.data:
	default:
		log.Printf("Client %s send buffer full, dropping reply", reply.client.ID)
	}
}

// handleBrokerMessage routes an event to the connections of the user it belongs to.
func (ws *WebSocketService) handleBrokerMessage(msg broker.Message) {
	var envelope models.EventEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		log.Printf("Error parsing broker message on %s: %v", msg.Subject, err)
		return
	}
	if envelope.Payload.UserID == "" {
		log.Printf("Dropping %s event without owner", envelope.Type)
		return
	}

	resourceID := extractResourceID(envelope.Payload.Entity, envelope.Payload.Data)
	serverMsg := models.NewStandardMessage(models.EventMessage, envelope.Type, map[string]interface{}{
		"event_id": envelope.Payload.EventID,
		"entity":   envelope.Payload.Entity,
		"data":     envelope.Payload.Data,
	}).WithResource(envelope.Payload.Entity, resourceID)

	jsonData, err := json.Marshal(serverMsg)
	if err != nil {
		log.Printf("Error serializing server message: %v", err)
		return
	}

	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()

	sent := 0
	for id, client := range ws.clients {
		if client.UserID != envelope.Payload.UserID {
			continue
		}
		select {
		case client.Send <- jsonData:
			sent++
		default:
			log.Printf("Client %s send buffer full, removing client", id)
			close(client.Send)
			delete(ws.clients, id)
		}
	}
	log.Printf("Sent %s event to %d clients", envelope.Type, sent)
}

func extractResourceID(entity string, data json.RawMessage) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}
	if id, ok := fields[entity+"_id"].(string); ok {
		return id
	}
	return ""
}

// readPump handles incoming messages from the WebSocket client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.stopChan:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error reading from WebSocket: %v", err)
			}
			return
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage handles messages received from the client
func (c *Client) processMessage(msg []byte) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(msg, &clientMsg); err != nil {
		log.Printf("Error parsing client message: %v", err)
		c.sendError("invalid message format")
		return
	}

	switch clientMsg.Type {
	case "ping":
		// keepalive
	default:
		log.Printf("Unknown message type: %s", clientMsg.Type)
		c.sendError(fmt.Sprintf("unsupported message type %q", clientMsg.Type))
	}
}

// sendError queues an error message for this connection through the hub.
func (c *Client) sendError(message string) {
	data, err := json.Marshal(models.NewStandardMessage(models.ErrorMessage, "error", map[string]interface{}{
		"message": message,
	}))
	if err != nil {
		return
	}
	select {
	case c.Hub.replies <- clientReply{client: c, data: data}:
	case <-c.Hub.stopChan:
	}
}
