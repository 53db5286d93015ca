package gelf

import (
	"encoding/json"
	"net"
	"os"
	"time"
)

// Writer sends GELF messages over UDP. It implements io.Writer and expects
// each write to be one zerolog JSON event.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// syslog severities keyed by zerolog level name.
var severity = map[string]int{
	"trace": 7,
	"debug": 7,
	"info":  6,
	"warn":  4,
	"error": 3,
	"fatal": 2,
	"panic": 1,
}

// Write implements io.Writer. Each call sends one GELF message. Event
// fields other than level, message and time become "_"-prefixed
// additional fields.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.Message(p))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

// Message converts one zerolog JSON event into a GELF 1.1 message.
func (w *Writer) Message(event []byte) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(event, &fields); err != nil {
		fields = map[string]any{"message": string(event)}
	}

	short, _ := fields["message"].(string)
	if short == "" {
		short = "-"
	}
	levelName, _ := fields["level"].(string)
	level, ok := severity[levelName]
	if !ok {
		level = 6
	}

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level,
		"_service":      w.service,
	}
	for k, v := range fields {
		switch k {
		case "message", "level", "time", "id":
			continue
		}
		msg["_"+k] = v
	}
	return msg
}

// Close releases the UDP socket.
func (w *Writer) Close() error {
	return w.conn.Close()
}
