package driven

import (
	"context"
	"net/url"
	"sync"

	"github.com/alorle/iptv-viewer/internal/circuitbreaker"
	"github.com/alorle/iptv-viewer/internal/metrics"
	"github.com/alorle/iptv-viewer/internal/port/driven"
)

// BreakerPlaylistSource guards a PlaylistSource with one circuit breaker per
// host so a failing upstream is not hammered on every load and does not
// block other hosts.
type BreakerPlaylistSource struct {
	next driven.PlaylistSource
	cfg  circuitbreaker.Config

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.Breaker
}

// NewBreakerPlaylistSource wraps next. Breakers are named cfg.Name plus the
// host, and their state changes are exported as metrics under that name.
// Without cfg.IsFailure only IsUpstreamFailure errors open a circuit.
func NewBreakerPlaylistSource(next driven.PlaylistSource, cfg circuitbreaker.Config) *BreakerPlaylistSource {
	userHook := cfg.OnStateChange
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(name, to.String())
		if to == circuitbreaker.StateOpen {
			metrics.RecordCircuitBreakerTrip(name)
		}
		if userHook != nil {
			userHook(name, from, to)
		}
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = IsUpstreamFailure
	}

	return &BreakerPlaylistSource{
		next:     next,
		cfg:      cfg,
		breakers: make(map[string]*circuitbreaker.Breaker),
	}
}

// Fetch delegates to the wrapped source unless the circuit of the location's
// host is open. Locations without a host skip the breaker; the wrapped
// source rejects them.
func (s *BreakerPlaylistSource) Fetch(ctx context.Context, location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return s.next.Fetch(ctx, location)
	}

	var text string
	err = s.breaker(u.Host).Execute(func() error {
		var err error
		text, err = s.next.Fetch(ctx, location)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// State returns the state of the breaker guarding host. Hosts never fetched
// are CLOSED.
func (s *BreakerPlaylistSource) State(host string) circuitbreaker.State {
	s.mu.Lock()
	b, ok := s.breakers[host]
	s.mu.Unlock()
	if !ok {
		return circuitbreaker.StateClosed
	}
	return b.State()
}

func (s *BreakerPlaylistSource) breaker(host string) *circuitbreaker.Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breakers[host]
	if !ok {
		cfg := s.cfg
		cfg.Name = s.cfg.Name + ":" + host
		metrics.SetCircuitBreakerState(cfg.Name, circuitbreaker.StateClosed.String())
		b = circuitbreaker.New(cfg)
		s.breakers[host] = b
	}
	return b
}

// Ensure BreakerPlaylistSource implements the driven.PlaylistSource interface
var _ driven.PlaylistSource = (*BreakerPlaylistSource)(nil)
