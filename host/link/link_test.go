package link

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBoard serves reads from out and records writes on in
type fakeBoard struct {
	out chan []byte
	in  chan []byte
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{
		out: make(chan []byte, 8),
		in:  make(chan []byte, 8),
	}
}

func (f *fakeBoard) Read(p []byte) (int, error) {
	data, ok := <-f.out
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (f *fakeBoard) Write(p []byte) (int, error) {
	f.in <- append([]byte(nil), p...)
	return len(p), nil
}

func startBridge(t *testing.T, b *Bridge) string {
	t.Helper()

	server := httptest.NewServer(b)
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestOpenWithoutEndpoint(t *testing.T) {
	_, _, err := Open(Options{})
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestOpenWebSocketScheme(t *testing.T) {
	_, err := OpenWebSocket("http://localhost:1", "", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestGetPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "s3cret")

	pw, err := GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}

func TestBridgeRoundTrip(t *testing.T) {
	board := newFakeBoard()
	defer close(board.out)

	bridge := NewBridge(board)
	url := startBridge(t, bridge)

	conn, desc, err := Open(Options{URL: url})
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "WebSocket: "+url, desc)

	_, err = conn.Write([]byte{0x55, 0xAA, 1, 2, 3})
	require.NoError(t, err)

	select {
	case got := <-board.in:
		assert.Equal(t, []byte{0x55, 0xAA, 1, 2, 3}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("board did not receive client bytes")
	}

	require.Eventually(t, func() bool { return bridge.Clients() == 1 }, time.Second, 5*time.Millisecond)

	board.out <- []byte{0xAA, 0x55, 0x00, 0x00, 7}

	buf := make([]byte, 3)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x55, 0x00}, buf[:n])

	// Remainder of the message is buffered
	n, err = conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 7}, buf[:n])
}

func TestBridgeBasicAuth(t *testing.T) {
	board := newFakeBoard()
	defer close(board.out)

	bridge := NewBridge(board)
	bridge.Username = "bench"
	bridge.Password = "lra"
	url := startBridge(t, bridge)

	_, _, err := Open(Options{
		URL:           url,
		Username:      "bench",
		PasswordInput: func() (string, error) { return "wrong", nil },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	conn, _, err := Open(Options{
		URL:           url,
		Username:      "bench",
		PasswordInput: func() (string, error) { return "lra", nil },
	})
	require.NoError(t, err)
	conn.Close()
}
