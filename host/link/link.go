// Package link opens the byte stream to a haptix board, either a local
// serial port or a WebSocket bridge in front of one.
package link

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/term"

	"haptix/host/serial"
)

// PasswordEnv names the variable GetPassword reads before prompting
const PasswordEnv = "HAPTIX_PASSWORD"

// Connection provides a common interface for reading/writing bytes from serial or WebSocket
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = errors.New("websocket connection closed")

// ErrNoEndpoint is returned by Open when neither a port nor a URL is set
var ErrNoEndpoint = errors.New("either --port or --url must be specified")

// Options selects and configures the connection
type Options struct {
	Port        string
	Baud        int
	ReadTimeout int // Milliseconds, serial only

	URL           string
	Username      string
	NoSSLVerify   bool
	PasswordInput func() (string, error) // Defaults to GetPassword
}

// WebSocketConnection wraps a WebSocket connection for byte-level reading
type WebSocketConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool // Track if connection has failed/closed
}

func (w *WebSocketConnection) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}

	// If we have buffered data, return it first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}

		// The board stream is carried in binary messages only
		if messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *WebSocketConnection) Write(p []byte) (int, error) {
	err := w.conn.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketConnection) Close() error {
	return w.conn.Close()
}

// OpenSerial opens a serial port connection
func OpenSerial(portName string, baudRate, readTimeout int) (Connection, error) {
	cfg := serial.DefaultConfig(portName)
	if baudRate != 0 {
		cfg.Baud = baudRate
	}
	if readTimeout != 0 {
		cfg.ReadTimeout = readTimeout
	}
	return serial.Open(cfg)
}

// OpenWebSocket opens a WebSocket connection with HTTP Basic auth
func OpenWebSocket(wsURL, username, password string, skipSSLVerify bool) (Connection, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return &WebSocketConnection{conn: conn}, nil
}

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; read a plain line
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// Open opens either a serial or WebSocket connection. The returned
// string describes the endpoint for display.
func Open(opts Options) (Connection, string, error) {
	if opts.URL != "" {
		password := ""
		if opts.Username != "" {
			input := opts.PasswordInput
			if input == nil {
				input = GetPassword
			}
			var err error
			password, err = input()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := OpenWebSocket(opts.URL, opts.Username, password, opts.NoSSLVerify)
		if err != nil {
			return nil, "", err
		}

		return conn, fmt.Sprintf("WebSocket: %s", opts.URL), nil
	}

	if opts.Port != "" {
		conn, err := OpenSerial(opts.Port, opts.Baud, opts.ReadTimeout)
		if err != nil {
			return nil, "", err
		}

		baud := opts.Baud
		if baud == 0 {
			baud = serial.DefaultBaud
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", opts.Port, baud), nil
	}

	return nil, "", ErrNoEndpoint
}
