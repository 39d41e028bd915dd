package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Manager keys carts by opaque session tokens so every storefront session
// gets its own cart. Carts live in memory only; an abandoned session simply
// loses its cart, matching the original browser-held state.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// Create opens a new session and returns its token.
func (m *Manager) Create() (string, *Cart) {
	token := uuid.NewString()
	c := New()

	m.mu.Lock()
	m.carts[token] = c
	m.mu.Unlock()

	return token, c
}

// Get returns the cart for a session token.
func (m *Manager) Get(token string) (*Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	return c, ok
}

// Drop discards a session's cart, used after a successful checkout.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, token)
}
