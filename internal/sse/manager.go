package sse

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diwanapp/diwan-server/internal/id"
)

const (
	defaultHeartbeat = 30 * time.Second
	eventBuffer      = 256
	clientBuffer     = 64
)

// Client represents a connected SSE client.
type Client struct {
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
	ID          string
}

// Manager fans events out to connected clients. A nil *Manager accepts
// Emit calls and drops them.
type Manager struct {
	clients           map[string]*Client
	events            chan Event
	logger            *slog.Logger
	heartbeatInterval time.Duration
	mu                sync.RWMutex

	started atomic.Bool
	stopped chan struct{}

	// shutdownMu guards shutdown and the close of events.
	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates a new SSE Manager. A non-positive heartbeat uses 30s.
func NewManager(logger *slog.Logger, heartbeat time.Duration) *Manager {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &Manager{
		clients:           make(map[string]*Client),
		events:            make(chan Event, eventBuffer),
		logger:            logger,
		heartbeatInterval: heartbeat,
		stopped:           make(chan struct{}),
	}
}

// Start runs the broadcast loop until ctx is canceled or Shutdown drains the queue.
// Call it once, in its own goroutine.
func (m *Manager) Start(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	defer close(m.stopped)
	defer m.closeAllClients()

	m.logger.Info("SSE manager starting")

	heartbeat := time.NewTicker(m.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				m.logger.Info("SSE manager drained")
				return
			}
			m.broadcast(event)

		case <-heartbeat.C:
			m.broadcast(NewHeartbeatEvent())

		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			return
		}
	}
}

// Shutdown stops accepting events, lets the loop deliver what is queued and
// disconnects every client.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutdownMu.Lock()
	if m.shutdown {
		m.shutdownMu.Unlock()
		return nil
	}
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	if !m.started.CompareAndSwap(false, true) {
		select {
		case <-m.stopped:
		case <-ctx.Done():
			m.logger.Warn("SSE event drain timeout, some events may be lost")
			return ctx.Err()
		}
		return nil
	}

	// The loop never ran.
	m.closeAllClients()
	close(m.stopped)
	return nil
}

// Emit queues an event for broadcasting. Events are dropped after Shutdown
// or when the queue is full.
func (m *Manager) Emit(event Event) {
	if m == nil {
		return
	}

	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()

	if m.shutdown {
		return
	}

	select {
	case m.events <- event:
	default:
		m.logger.Error("SSE event channel full, dropping event",
			slog.String("event_type", string(event.Type)))
	}
}

// broadcast sends an event to every client without blocking on slow ones.
func (m *Manager) broadcast(event Event) {
	var delivered, dropped int

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		select {
		case client.EventChan <- event:
			delivered++
		default:
			dropped++
			m.logger.Warn("dropped event for slow client",
				slog.String("client_id", client.ID),
				slog.String("event_type", string(event.Type)))
		}
	}

	if event.Type != EventHeartbeat {
		m.logger.Debug("event broadcast",
			slog.String("event_type", string(event.Type)),
			slog.Group("stats",
				slog.Int("delivered", delivered),
				slog.Int("dropped", dropped)))
	}
}

// Connect registers a new client.
func (m *Manager) Connect() (*Client, error) {
	clientID, err := id.Generate("sse")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		EventChan:   make(chan Event, clientBuffer),
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	total := len(m.clients)
	m.mu.Unlock()

	m.logger.Info("SSE client connected",
		slog.String("client_id", clientID),
		slog.Int("total_clients", total))
	return client, nil
}

// Disconnect removes a client and closes its channels. Unknown ids are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	total := len(m.clients)
	m.mu.Unlock()

	close(client.Done)
	close(client.EventChan)

	m.logger.Info("SSE client disconnected",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(client.ConnectedAt)),
		slog.Int("total_clients", total))
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		close(client.Done)
		close(client.EventChan)
	}
	m.clients = make(map[string]*Client)
}
