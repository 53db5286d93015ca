package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMapsZerologEvent(t *testing.T) {
	w := &Writer{hostname: "host-1", service: "happy-street"}

	msg := w.Message([]byte(`{"level":"warn","request_id":"abc","time":"2024-01-01T00:00:00Z","message":"login failed"}`))

	assert.Equal(t, "1.1", msg["version"])
	assert.Equal(t, "host-1", msg["host"])
	assert.Equal(t, "login failed", msg["short_message"])
	assert.Equal(t, 4, msg["level"])
	assert.Equal(t, "abc", msg["_request_id"])
	assert.Equal(t, "happy-street", msg["_service"])
	assert.NotContains(t, msg, "_time")
}

func TestMessageFallsBackForPlainText(t *testing.T) {
	w := &Writer{hostname: "h", service: "s"}

	msg := w.Message([]byte("not json"))

	assert.Equal(t, "not json", msg["short_message"])
	assert.Equal(t, 6, msg["level"])
}

func TestWriteSendsDatagram(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "happy-street")
	require.NoError(t, err)
	defer w.Close()

	event := []byte(`{"level":"error","message":"boom"}`)
	n, err := w.Write(event)
	require.NoError(t, err)
	assert.Equal(t, len(event), n)

	buf := make([]byte, 4096)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	m, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:m], &got))
	assert.Equal(t, "boom", got["short_message"])
	assert.Equal(t, float64(3), got["level"])
}
