package registry

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
)

var ErrInvalidTimeout = errors.New("registry: invalid heartbeat timeout")

// minReapPeriod keeps a tiny timeout from turning the sweep into a busy loop.
const minReapPeriod = 100 * time.Millisecond

// Reaper periodically evicts registry entries whose heartbeat has gone
// quiet for longer than the configured timeout.
type Reaper struct {
	reg     *Registry
	clock   clockwork.Clock
	timeout time.Duration
	period  time.Duration
}

// NewReaper builds a reaper sweeping reg every period. A zero period
// defaults to timeout/3.
func NewReaper(reg *Registry, timeout, period time.Duration) (*Reaper, error) {
	return newReaper(reg, clockwork.NewRealClock(), timeout, period)
}

// NewReaperWithClock is NewReaper on an injected clock.
func NewReaperWithClock(reg *Registry, clock clockwork.Clock, timeout, period time.Duration) (*Reaper, error) {
	return newReaper(reg, clock, timeout, period)
}

func newReaper(reg *Registry, clock clockwork.Clock, timeout, period time.Duration) (*Reaper, error) {
	if timeout <= 0 {
		return nil, ErrInvalidTimeout
	}
	if period <= 0 {
		period = timeout / 3
	}
	if period < minReapPeriod {
		period = minReapPeriod
	}
	return &Reaper{reg: reg, clock: clock, timeout: timeout, period: period}, nil
}

// Period returns the effective sweep period.
func (p *Reaper) Period() time.Duration {
	return p.period
}

// Run sweeps until ctx is cancelled. A missed or delayed sweep only
// postpones cleanup; it never corrupts membership state.
func (p *Reaper) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.period)
	defer ticker.Stop()

	log.Debug().
		Dur("timeout", p.timeout).
		Dur("period", p.period).
		Msg("registry.Reaper.Run started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("registry.Reaper.Run shutdown")
			return
		case <-ticker.Chan():
			p.SweepOnce()
		}
	}
}

// SweepOnce performs a single eviction pass.
func (p *Reaper) SweepOnce() []Entry {
	evicted := p.reg.EvictOlderThan(p.timeout)
	if len(evicted) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(evicted))
	for _, addr := range evicted {
		entries = append(entries, Entry{Addr: addr})
		log.Info().
			Str("client", addr.String()).
			Dur("timeout", p.timeout).
			Msg("stale client removed")
	}
	observability.RecordEvictions(len(evicted))
	observability.SetConnectedClients(p.reg.Len())
	return entries
}
