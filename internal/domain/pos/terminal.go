package pos

import "sync"

// Terminal holds the cart of one signed-in cashier.
type Terminal struct {
	mu   sync.Mutex
	cart *Cart
}

// Do runs fn with exclusive access to the cart.
func (t *Terminal) Do(fn func(c *Cart) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.cart)
}

// Snapshot returns a copy of the current cart.
func (t *Terminal) Snapshot() Cart {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cart.Clone()
}

// Registry maps cashier user IDs to their terminals.
type Registry struct {
	mu        sync.Mutex
	terminals map[uint]*Terminal
}

func NewRegistry() *Registry {
	return &Registry{terminals: make(map[uint]*Terminal)}
}

// Get returns the cashier's terminal, creating it on first use.
func (r *Registry) Get(userID uint) *Terminal {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.terminals[userID]
	if !ok {
		t = &Terminal{cart: NewCart()}
		r.terminals[userID] = t
	}
	return t
}

// Discard drops the cashier's terminal and its cart.
func (r *Registry) Discard(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.terminals, userID)
}

// Len returns the number of live terminals.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.terminals)
}
