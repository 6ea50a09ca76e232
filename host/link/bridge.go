package link

import (
	"context"
	"crypto/subtle"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Bridge exposes a board byte stream to WebSocket clients.
//
// Everything read from the board is broadcast to every client as binary
// messages. Binary messages from any client are written to the board in
// arrival order.
type Bridge struct {
	dev io.ReadWriter

	// Basic auth credentials; an empty Password disables the check
	Username string
	Password string

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	writeMu sync.Mutex
}

// NewBridge creates a bridge in front of dev
func NewBridge(dev io.ReadWriter) *Bridge {
	return &Bridge{
		dev:     dev,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Clients returns the number of connected clients
func (b *Bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Run pumps board output to the clients until the board read fails or
// ctx is done
func (b *Bridge) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		buf := make([]byte, 512)
		for {
			n, err := b.dev.Read(buf)
			if n > 0 {
				b.broadcast(buf[:n])
			}
			if err != nil {
				errc <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		b.closeAll()
		return ctx.Err()
	case err := <-errc:
		b.closeAll()
		return err
	}
}

func (b *Bridge) broadcast(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Printf("bridge: dropping client %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(b.clients, conn)
		}
	}
}

func (b *Bridge) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}

func (b *Bridge) authorized(r *http.Request) bool {
	if b.Password == "" {
		return true
	}
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(b.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(b.Password)) == 1
	return userOK && passOK
}

// ServeHTTP upgrades the request and serves one client
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		w.Header().Set("WWW-Authenticate", `Basic realm="haptix"`)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: upgrade failed: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		conn.Close()
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		b.writeMu.Lock()
		_, err = b.dev.Write(data)
		b.writeMu.Unlock()
		if err != nil {
			log.Printf("bridge: board write failed: %v", err)
			return
		}
	}
}
