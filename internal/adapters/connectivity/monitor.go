package connectivity

import (
	"sync"
	"time"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
)

const subscriberBuffer = 8

// Monitor holds the current connectivity state and broadcasts transitions.
type Monitor struct {
	mu          sync.Mutex
	connected   bool
	subscribers map[int]chan domain.ConnectivityEvent
	nextID      int
	now         func() time.Time
}

var _ portssvc.ConnectivityMonitor = (*Monitor)(nil)

// NewMonitor creates a monitor starting in the given state.
func NewMonitor(connected bool) *Monitor {
	return &Monitor{
		connected:   connected,
		subscribers: make(map[int]chan domain.ConnectivityEvent),
		now:         time.Now,
	}
}

func (m *Monitor) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Set records the current state and notifies subscribers when it changed.
// A subscriber whose buffer is full misses the event; consumers re-check IsConnected.
func (m *Monitor) Set(connected bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected == connected {
		return false
	}
	m.connected = connected
	ev := domain.ConnectivityEvent{IsConnected: connected, At: m.now()}
	for _, ch := range m.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
	return true
}

// Subscribe returns a channel of future transitions. The returned func closes it.
func (m *Monitor) Subscribe() (<-chan domain.ConnectivityEvent, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	ch := make(chan domain.ConnectivityEvent, subscriberBuffer)
	m.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subscribers, id)
			close(ch)
		})
	}
}
