package store

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

const writeTimeout = 5 * time.Second

type keySet struct {
	facilities   string
	coordinates  string
	locationName string
	filters      string
}

func newKeySet(namespace string) keySet {
	return keySet{
		facilities:   namespace + ":facilities",
		coordinates:  namespace + ":coordinates",
		locationName: namespace + ":location_name",
		filters:      namespace + ":filters",
	}
}

// Keys returns the storage keys used under namespace
func Keys(namespace string) []string {
	k := newKeySet(namespace)
	return []string{k.facilities, k.coordinates, k.locationName, k.filters}
}

// persister writes snapshots on a single goroutine. Submitting never blocks;
// snapshots queued while a write is running collapse into the latest one.
type persister struct {
	storage providers.StorageProvider
	keys    keySet
	metrics *observability.StoreMetrics

	mu     sync.Mutex
	latest *State
	wake   chan struct{}
	done   chan struct{}
}

func newPersister(storage providers.StorageProvider, keys keySet, metrics *observability.StoreMetrics) *persister {
	p := &persister{
		storage: storage,
		keys:    keys,
		metrics: metrics,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) submit(snap State) {
	p.mu.Lock()
	p.latest = &snap
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// close must not race with submit; the store guarantees this
func (p *persister) close() {
	close(p.wake)
	<-p.done
}

func (p *persister) run() {
	defer close(p.done)
	for range p.wake {
		p.mu.Lock()
		snap := p.latest
		p.latest = nil
		p.mu.Unlock()
		if snap != nil {
			p.write(*snap)
		}
	}
	p.mu.Lock()
	snap := p.latest
	p.latest = nil
	p.mu.Unlock()
	if snap != nil {
		p.write(*snap)
	}
}

func (p *persister) write(snap State) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	p.put(ctx, p.keys.facilities, snap.Facilities)
	p.put(ctx, p.keys.coordinates, snap.Coordinates)
	p.put(ctx, p.keys.locationName, snap.LocationName)
	p.put(ctx, p.keys.filters, snap.Filters)
}

func (p *persister) put(ctx context.Context, key string, value interface{}) {
	payload, err := sonic.Marshal(value)
	if err == nil {
		err = p.storage.Set(ctx, key, payload)
	}
	if err != nil {
		observability.RecordPersistError(ctx, p.metrics, key)
		observability.LoggerFromContext(ctx).Warn().
			Err(apperrors.NewStorageError("failed to persist state", err)).
			Str("key", key).
			Msg("state persistence failed")
	}
}

// rehydrate reads each key independently. A missing, unreadable or corrupt
// key falls back to its default without affecting the others.
func rehydrate(ctx context.Context, storage providers.StorageProvider, keys keySet, logger *zerolog.Logger) State {
	var st State

	var facilities []entities.Facility
	if load(ctx, storage, keys.facilities, &facilities, logger) {
		for i := range facilities {
			if c := facilities[i].Coordinates; c != nil && !c.Valid() {
				facilities[i].Coordinates = nil
			}
		}
		st.Facilities = facilities
	}

	var coords *entities.Coordinates
	if load(ctx, storage, keys.coordinates, &coords, logger) && coords != nil && coords.Valid() {
		st.Coordinates = coords
	}

	var name string
	if load(ctx, storage, keys.locationName, &name, logger) {
		st.LocationName = name
	}

	var filters entities.FilterState
	if load(ctx, storage, keys.filters, &filters, logger) {
		st.Filters = filters
	}

	return st
}

func load(ctx context.Context, storage providers.StorageProvider, key string, dst interface{}, logger *zerolog.Logger) bool {
	payload, err := storage.Get(ctx, key)
	switch {
	case stderrors.Is(err, providers.ErrKeyNotFound):
		return false
	case err != nil:
		logger.Warn().Err(err).Str("key", key).Msg("failed to read persisted state, using default")
		return false
	}
	if err := sonic.Unmarshal(payload, dst); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt persisted state")
		return false
	}
	return true
}
