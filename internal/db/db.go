package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahil-chaple/happy-street-godhani/internal/oxidb"
)

const (
	dialTimeout       = 5 * time.Second
	keepaliveInterval = 10 * time.Second
)

// Options tunes a Pool. Zero values fall back to the defaults.
type Options struct {
	Size              int
	KeepaliveInterval time.Duration
	Logger            zerolog.Logger
}

// Pool is a round-robin connection pool for OxiDB with auto-reconnect.
type Pool struct {
	host    string
	port    int
	clients []*oxidb.Client
	mu      []sync.RWMutex
	idx     uint64
	log     zerolog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewPool dials opts.Size connections to host:port and starts the
// keepalive loop.
func NewPool(host string, port int, opts Options) (*Pool, error) {
	size := opts.Size
	if size <= 0 {
		size = 1
	}
	interval := opts.KeepaliveInterval
	if interval <= 0 {
		interval = keepaliveInterval
	}
	p := &Pool{
		host:    host,
		port:    port,
		clients: make([]*oxidb.Client, size),
		mu:      make([]sync.RWMutex, size),
		log:     opts.Logger.With().Str("component", "oxidb_pool").Logger(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		c, err := oxidb.Connect(host, port, dialTimeout)
		if err != nil {
			close(p.done)
			p.Close()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	// Pings keep idle connections from timing out server-side.
	go p.keepalive(interval)
	return p, nil
}

// Do runs fn with the next client in round-robin order. The slot is
// read-locked so a concurrent reconnect cannot swap the client mid-call.
func (p *Pool) Do(fn func(c *oxidb.Client) error) error {
	n := atomic.AddUint64(&p.idx, 1)
	i := int(n % uint64(len(p.clients)))
	p.mu[i].RLock()
	defer p.mu[i].RUnlock()
	c := p.clients[i]
	if c == nil {
		return errors.New("pool: client unavailable")
	}
	return fn(c)
}

// Ping checks one connection.
func (p *Pool) Ping(ctx context.Context) error {
	return p.Do(func(c *oxidb.Client) error {
		_, err := c.Ping(ctx)
		return err
	})
}

// reconnect replaces a broken client at index i.
func (p *Pool) reconnect(i int) {
	p.mu[i].Lock()
	defer p.mu[i].Unlock()
	if p.clients[i] != nil {
		p.clients[i].Close()
		p.clients[i] = nil
	}
	c, err := oxidb.Connect(p.host, p.port, dialTimeout)
	if err != nil {
		p.log.Warn().Err(err).Int("client", i).Msg("reconnect failed")
		return
	}
	p.clients[i] = c
}

func (p *Pool) keepalive(interval time.Duration) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			for i := range p.clients {
				if err := p.pingSlot(i, interval); err != nil {
					p.log.Warn().Err(err).Int("client", i).Msg("ping failed, reconnecting")
					p.reconnect(i)
				}
			}
		}
	}
}

func (p *Pool) pingSlot(i int, timeout time.Duration) error {
	p.mu[i].RLock()
	defer p.mu[i].RUnlock()
	if p.clients[i] == nil {
		return errors.New("no connection")
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := p.clients[i].Ping(ctx)
	return err
}

// Close stops the keepalive loop and closes all connections.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.done
		for i, c := range p.clients {
			if c != nil {
				c.Close()
				p.clients[i] = nil
			}
		}
	})
}
