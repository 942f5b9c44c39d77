package relay

// Registry is the authoritative connectionId -> identity mapping.
// It is mutated only by the hub goroutine; nothing else touches it.
type Registry struct {
	clients    map[string]*Client
	identities map[string]Identity
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		clients:    make(map[string]*Client),
		identities: make(map[string]Identity),
	}
}

// Register adds a connection with no identity yet.
func (r *Registry) Register(c *Client) {
	r.clients[c.ID] = c
}

// AttachIdentity binds an identity to a registered connection, replacing
// any previous one. Returns false if the connection is unknown.
func (r *Registry) AttachIdentity(connID string, ident Identity) bool {
	if _, ok := r.clients[connID]; !ok {
		return false
	}
	r.identities[connID] = ident
	return true
}

// Remove deletes a connection and its identity. Safe to call for a
// connection that was never registered.
func (r *Registry) Remove(connID string) *Client {
	c := r.clients[connID]
	delete(r.clients, connID)
	delete(r.identities, connID)
	return c
}

// IdentityOf returns the identity attached to a connection. The second
// return is false for unknown or not-yet-identified connections.
func (r *Registry) IdentityOf(connID string) (Identity, bool) {
	ident, ok := r.identities[connID]
	return ident, ok
}

// Get returns the client for a connection id.
func (r *Registry) Get(connID string) (*Client, bool) {
	c, ok := r.clients[connID]
	return c, ok
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Each calls fn for every registered client.
func (r *Registry) Each(fn func(*Client)) {
	for _, c := range r.clients {
		fn(c)
	}
}
