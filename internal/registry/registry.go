package registry

import (
	"net/netip"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Entry is one live client as seen by the server.
type Entry struct {
	Addr     netip.AddrPort
	LastSeen time.Time
}

// Registry stores live client addresses keyed by UDP source address.
type Registry struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[netip.AddrPort]time.Time
}

// New creates an empty registry using the wall clock.
func New() *Registry {
	return NewWithClock(clockwork.NewRealClock())
}

// NewWithClock creates an empty registry on an injected clock.
func NewWithClock(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:   clock,
		entries: make(map[netip.AddrPort]time.Time),
	}
}

// Register inserts or refreshes the entry for addr. The returned flag
// reports whether this was a new registration; callers use it for
// logging only.
func (r *Registry) Register(addr netip.AddrPort) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, known := r.entries[addr]
	r.entries[addr] = r.clock.Now()
	return !known
}

// Touch refreshes last-seen for addr. A heartbeat from an address the
// registry does not know re-registers it instead of erroring; the
// returned flag reports that implicit registration.
func (r *Registry) Touch(addr netip.AddrPort) bool {
	return r.Register(addr)
}

// Remove deletes the entry for addr if present.
func (r *Registry) Remove(addr netip.AddrPort) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, known := r.entries[addr]
	delete(r.entries, addr)
	return known
}

// Contains reports whether addr is currently registered.
func (r *Registry) Contains(addr netip.AddrPort) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, known := r.entries[addr]
	return known
}

// LastSeen returns the last-seen timestamp for addr.
func (r *Registry) LastSeen(addr netip.AddrPort) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, known := r.entries[addr]
	return ts, known
}

// Len returns the current membership count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot returns a point-in-time copy of all registered addresses in
// deterministic order. Broadcast sends iterate the copy so a slow send
// never holds the registry lock.
func (r *Registry) Snapshot() []netip.AddrPort {
	r.mu.Lock()
	addrs := make([]netip.AddrPort, 0, len(r.entries))
	for addr := range r.entries {
		addrs = append(addrs, addr)
	}
	r.mu.Unlock()

	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].String() < addrs[j].String()
	})
	return addrs
}

// Entries returns a point-in-time copy of full entries, sorted by
// address. Used by the admin surface.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	list := make([]Entry, 0, len(r.entries))
	for addr, ts := range r.entries {
		list = append(list, Entry{Addr: addr, LastSeen: ts})
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Addr.String() < list[j].Addr.String()
	})
	return list
}

// EvictOlderThan removes and returns every entry whose last-seen
// timestamp is older than timeout relative to the registry clock.
func (r *Registry) EvictOlderThan(timeout time.Duration) []netip.AddrPort {
	now := r.clock.Now()

	r.mu.Lock()
	var evicted []netip.AddrPort
	for addr, ts := range r.entries {
		if now.Sub(ts) > timeout {
			delete(r.entries, addr)
			evicted = append(evicted, addr)
		}
	}
	r.mu.Unlock()

	sort.Slice(evicted, func(i, j int) bool {
		return evicted[i].String() < evicted[j].String()
	})
	return evicted
}
