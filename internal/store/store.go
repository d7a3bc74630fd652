package store

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zatekoja/nursinghomefinder/internal/derive"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
)

const (
	defaultNamespace  = "nursinghome"
	subscriberBacklog = 8
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = stderrors.New("facility store is closed")

// Options configures a Store. Source is required; everything else is optional.
type Options struct {
	Source     providers.FacilitySource
	Storage    providers.StorageProvider
	Geocoder   providers.GeolocationProvider
	Reporter   providers.ErrorReporter
	Metrics    *observability.StoreMetrics
	Thresholds derive.Thresholds
	Namespace  string
	// Initial replaces rehydration from Storage when set
	Initial *State
}

// Store owns the facility result set, the active filters, the reference
// coordinates and the fetch status for one session. It is safe for
// concurrent use.
//
// Each fetch takes a sequence number; a response is applied only if its
// number is still the latest issued, so a slow earlier request can never
// overwrite a later one. Geolocation has its own sequence.
type Store struct {
	mu sync.Mutex

	state    State
	fetchSeq uint64
	locSeq   uint64
	closed   bool
	done     chan struct{}

	source   providers.FacilitySource
	geocoder providers.GeolocationProvider
	reporter providers.ErrorReporter
	metrics  *observability.StoreMetrics
	resolver *derive.Resolver
	writer   *persister

	sessionID string
	subs      map[int]chan State
	nextSub   int
}

// New creates a store, rehydrating persisted state from opts.Storage
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Source == nil {
		return nil, stderrors.New("facility source is required")
	}
	if opts.Thresholds == (derive.Thresholds{}) {
		opts.Thresholds = derive.DefaultThresholds()
	}
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}

	s := &Store{
		source:    opts.Source,
		geocoder:  opts.Geocoder,
		reporter:  opts.Reporter,
		metrics:   opts.Metrics,
		resolver:  derive.NewResolver(opts.Thresholds),
		sessionID: uuid.NewString(),
		subs:      make(map[int]chan State),
		done:      make(chan struct{}),
	}

	keys := newKeySet(opts.Namespace)
	switch {
	case opts.Initial != nil:
		s.state = opts.Initial.clone()
	case opts.Storage != nil:
		s.state = rehydrate(ctx, opts.Storage, keys, s.logger(ctx))
	}
	s.state.Phase = PhaseIdle
	s.state.Facilities = derive.Relocate(s.state.Facilities, s.state.Coordinates)

	if opts.Storage != nil {
		s.writer = newPersister(opts.Storage, keys, opts.Metrics)
	}

	s.logger(ctx).Info().
		Int("facilities", len(s.state.Facilities)).
		Bool("has_coordinates", s.state.Coordinates != nil).
		Msg("facility store ready")
	return s, nil
}

// SessionID identifies this store in logs and diagnostics
func (s *Store) SessionID() string {
	return s.sessionID
}

// State returns a snapshot of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe returns a channel receiving a snapshot after every state change.
// A slow reader only misses intermediate snapshots, never the latest one.
// The channel is closed when ctx ends or the store is closed.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, subscriberBacklog)
	if s.closed {
		close(ch)
		return ch
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}()
	return ch
}

// Close stops notifications and waits for pending writes to reach storage
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	if s.writer != nil {
		s.writer.close()
	}
	return nil
}

// commit queues the current state for persistence and notifies
// subscribers. Callers hold s.mu.
func (s *Store) commit() {
	if s.writer != nil {
		s.writer.submit(s.state.clone())
	}
	s.notify()
}

// notify publishes without persisting. Callers hold s.mu.
func (s *Store) notify() {
	snap := s.state.clone()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Store) logger(ctx context.Context) *zerolog.Logger {
	l := observability.LoggerFromContext(ctx).With().Str("session_id", s.sessionID).Logger()
	return &l
}
