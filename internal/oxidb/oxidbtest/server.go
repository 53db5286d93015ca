// Package oxidbtest runs an in-process stand-in for oxidb-server that speaks
// the wire protocol and keeps collections in memory. It covers the command
// subset used by this repository.
package oxidbtest

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"testing"
)

// Server is a fake oxidb-server listening on a loopback port.
type Server struct {
	ln net.Listener

	mu      sync.Mutex
	colls   map[string][]map[string]any
	unique  map[string][]string
	indexes map[string][]string
	nextID  float64
	conns   map[net.Conn]struct{}
	failMsg string

	wg sync.WaitGroup
}

// NewServer starts a server and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("oxidbtest: listen: %v", err)
	}
	s := &Server{
		ln:      ln,
		colls:   map[string][]map[string]any{},
		unique:  map[string][]string{},
		indexes: map[string][]string{},
		conns:   map[net.Conn]struct{}{},
	}
	s.wg.Add(1)
	go s.accept()
	t.Cleanup(s.Close)
	return s
}

// Host returns the listening host.
func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// FailWith makes every following command fail with msg until cleared
// with an empty string.
func (s *Server) FailWith(msg string) {
	s.mu.Lock()
	s.failMsg = msg
	s.mu.Unlock()
}

// DropConnections closes every accepted connection, as a server restart would.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.Close()
		delete(s.conns, c)
	}
}

// Docs returns a copy of the documents stored in collection.
func (s *Server) Docs(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.colls[collection]))
	for _, d := range s.colls[collection] {
		out = append(out, clone(d))
	}
	return out
}

// Indexes returns the fields indexed on collection, unique ones included.
func (s *Server) Indexes(collection string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(append([]string{}, s.indexes[collection]...), s.unique[collection]...)
}

// Close stops the listener and all connections.
func (s *Server) Close() {
	s.ln.Close()
	s.DropConnections()
	s.wg.Wait()
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			return
		}
		payload := make([]byte, binary.LittleEndian.Uint32(lenBuf))
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		var req map[string]any
		var resp map[string]any
		if err := json.Unmarshal(payload, &req); err != nil {
			resp = map[string]any{"ok": false, "error": "bad request"}
		} else {
			data, err := s.handle(req)
			if err != nil {
				resp = map[string]any{"ok": false, "error": err.Error()}
			} else {
				resp = map[string]any{"ok": true, "data": data}
			}
		}
		out, _ := json.Marshal(resp)
		frame := make([]byte, 4+len(out))
		binary.LittleEndian.PutUint32(frame, uint32(len(out)))
		copy(frame[4:], out)
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

func (s *Server) handle(req map[string]any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failMsg != "" {
		return nil, errors.New(s.failMsg)
	}

	cmd, _ := req["cmd"].(string)
	coll, _ := req["collection"].(string)
	query, _ := req["query"].(map[string]any)

	switch cmd {
	case "ping":
		return "pong", nil
	case "create_index", "create_unique_index":
		field, _ := req["field"].(string)
		if cmd == "create_unique_index" {
			s.unique[coll] = appendOnce(s.unique[coll], field)
		} else {
			s.indexes[coll] = appendOnce(s.indexes[coll], field)
		}
		return "ok", nil
	case "insert":
		doc, _ := req["doc"].(map[string]any)
		for _, field := range s.unique[coll] {
			for _, d := range s.colls[coll] {
				if v, ok := doc[field]; ok && reflect.DeepEqual(d[field], v) {
					return nil, fmt.Errorf("unique constraint violated on %s", field)
				}
			}
		}
		s.nextID++
		doc = clone(doc)
		doc["_id"] = s.nextID
		s.colls[coll] = append(s.colls[coll], doc)
		return map[string]any{"id": s.nextID}, nil
	case "find":
		return s.find(coll, query, req), nil
	case "find_one":
		for _, d := range s.colls[coll] {
			if matches(d, query) {
				return clone(d), nil
			}
		}
		return nil, nil
	case "update_one":
		update, _ := req["update"].(map[string]any)
		set, _ := update["$set"].(map[string]any)
		for _, d := range s.colls[coll] {
			if matches(d, query) {
				for k, v := range set {
					d[k] = v
				}
				return map[string]any{"modified": 1}, nil
			}
		}
		return map[string]any{"modified": 0}, nil
	case "delete_one":
		docs := s.colls[coll]
		for i, d := range docs {
			if matches(d, query) {
				s.colls[coll] = append(docs[:i:i], docs[i+1:]...)
				return map[string]any{"deleted": 1}, nil
			}
		}
		return map[string]any{"deleted": 0}, nil
	case "count":
		n := 0
		for _, d := range s.colls[coll] {
			if matches(d, query) {
				n++
			}
		}
		return map[string]any{"count": n}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *Server) find(coll string, query, req map[string]any) []map[string]any {
	out := []map[string]any{}
	for _, d := range s.colls[coll] {
		if matches(d, query) {
			out = append(out, clone(d))
		}
	}
	if order, ok := req["sort"].(map[string]any); ok {
		for field, dir := range order {
			desc := dir == float64(-1)
			sort.SliceStable(out, func(i, j int) bool {
				if desc {
					return less(out[j][field], out[i][field])
				}
				return less(out[i][field], out[j][field])
			})
		}
	}
	if skip, ok := req["skip"].(float64); ok {
		if int(skip) >= len(out) {
			return []map[string]any{}
		}
		out = out[int(skip):]
	}
	if limit, ok := req["limit"].(float64); ok && int(limit) < len(out) {
		out = out[:int(limit)]
	}
	return out
}

func matches(doc, query map[string]any) bool {
	for k, v := range query {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	return true
}

func less(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, _ := b.(float64)
		return x < y
	case string:
		y, _ := b.(string)
		return x < y
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func clone(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func appendOnce(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// ID renders a stored numeric id the way the repositories expose it.
func ID(doc map[string]any) string {
	f, _ := doc["_id"].(float64)
	return strconv.FormatFloat(f, 'f', 0, 64)
}
