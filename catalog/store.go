package catalog

import (
	"context"
	"errors"

	"github.com/habedi/showcase/db"
	"github.com/rs/zerolog/log"
)

// Source is where a catalogue document originally comes from (network or local file).
type Source interface {
	Fetch(ctx context.Context) (Catalog, error)
}

// Store isolates the selection engine from how the catalogue is retrieved and kept.
type Store interface {
	// Load never fails: on any error it logs and returns an empty catalogue.
	Load(ctx context.Context) Catalog
	// Persist writes the catalogue on a best-effort basis.
	Persist(ctx context.Context, c Catalog) error
	// Clear removes any durable copy.
	Clear(ctx context.Context) error
}

// RemoteStore fetches the catalogue from its source every time and keeps nothing locally.
type RemoteStore struct {
	Source Source
}

// NewRemoteStore creates a store with no cache layer.
func NewRemoteStore(src Source) *RemoteStore { return &RemoteStore{Source: src} }

func (s *RemoteStore) Load(ctx context.Context) Catalog {
	if s.Source == nil {
		log.Error().Msg("Catalogue source is not configured")
		return Catalog{}
	}
	c, err := s.Source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch catalogue; continuing with an empty one")
		return Catalog{}
	}
	log.Info().Int("entries", len(c)).Msg("Catalogue fetched from source")
	return c
}

func (s *RemoteStore) Persist(_ context.Context, c Catalog) error {
	log.Debug().Int("entries", len(c)).Msg("Remote-only store does not persist the catalogue")
	return nil
}

func (s *RemoteStore) Clear(context.Context) error {
	log.Debug().Msg("Remote-only store has nothing to clear")
	return nil
}

// CachedStore reads the durable cache first and falls back to the source on a miss,
// populating the cache with what it fetched.
type CachedStore struct {
	Repo   db.EntryRepository
	Source Source
}

// NewCachedStore creates the default store strategy.
func NewCachedStore(repo db.EntryRepository, src Source) *CachedStore {
	return &CachedStore{Repo: repo, Source: src}
}

func (s *CachedStore) Load(ctx context.Context) Catalog {
	if c, ok := s.cached(ctx); ok {
		log.Info().Int("entries", len(c)).Msg("Catalogue loaded from cache")
		return c
	}

	if s.Source == nil {
		log.Error().Msg("Catalogue source is not configured")
		return Catalog{}
	}
	c, err := s.Source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch catalogue; continuing with an empty one")
		return Catalog{}
	}

	if s.Repo != nil && len(c) > 0 {
		if err := s.Repo.ReplaceAll(ctx, toRecords(c)); err != nil {
			log.Warn().Err(err).Msg("Failed to populate catalogue cache")
		}
	}
	log.Info().Int("entries", len(c)).Msg("Catalogue fetched from source")
	return c
}

// cached returns the durable copy. A stored empty catalogue is a hit; only a
// cache that was never written (or was cleared) is a miss.
func (s *CachedStore) cached(ctx context.Context) (Catalog, bool) {
	if s.Repo == nil {
		return nil, false
	}
	populated, err := s.Repo.Populated(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read catalogue cache; falling back to source")
		return nil, false
	}
	if !populated {
		log.Debug().Msg("Catalogue cache is cold; fetching from source")
		return nil, false
	}
	records, err := s.Repo.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read catalogue cache; falling back to source")
		return nil, false
	}
	return fromRecords(records), true
}

// Lookup returns the entry with the given id, filling a cold cache first.
// A nil entry with a nil error means no entry has the id.
func (s *CachedStore) Lookup(ctx context.Context, id string) (*Entry, error) {
	if s.Repo == nil {
		return nil, errors.New("catalogue cache is not configured")
	}
	populated, err := s.Repo.Populated(ctx)
	if err != nil {
		return nil, err
	}
	if !populated {
		s.Load(ctx)
	}
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	return &Entry{ID: record.ID, Title: record.Title, Description: record.Description}, nil
}

// Size reports how many entries the cache holds.
func (s *CachedStore) Size(ctx context.Context) (int64, error) {
	if s.Repo == nil {
		return 0, errors.New("catalogue cache is not configured")
	}
	return s.Repo.Count(ctx)
}

func (s *CachedStore) Persist(ctx context.Context, c Catalog) error {
	if s.Repo == nil {
		return errors.New("catalogue cache is not configured")
	}
	return s.Repo.ReplaceAll(ctx, toRecords(c))
}

func (s *CachedStore) Clear(ctx context.Context) error {
	if s.Repo == nil {
		return errors.New("catalogue cache is not configured")
	}
	return s.Repo.Clear(ctx)
}

// Refresh fetches from the source unconditionally and overwrites the cache.
func (s *CachedStore) Refresh(ctx context.Context) (Catalog, error) {
	if s.Source == nil {
		return nil, errors.New("catalogue source is not configured")
	}
	c, err := s.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.Repo != nil {
		if err := s.Repo.ReplaceAll(ctx, toRecords(c)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func toRecords(c Catalog) []db.EntryRecord {
	records := make([]db.EntryRecord, len(c))
	for i, e := range c {
		records[i] = db.EntryRecord{ID: e.ID, Position: i, Title: e.Title, Description: e.Description}
	}
	return records
}

// fromRecords expects records ordered by position, as EntryRepository.List returns them.
func fromRecords(records []db.EntryRecord) Catalog {
	c := make(Catalog, len(records))
	for i, r := range records {
		c[i] = Entry{ID: r.ID, Title: r.Title, Description: r.Description}
	}
	return c
}
