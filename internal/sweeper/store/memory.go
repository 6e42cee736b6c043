package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
)

const (
	DefaultMaxSessions = 1024
	DefaultSessionTTL  = 2 * time.Hour
)

// SessionStore keeps sessions and their datasets in memory. The least
// recently used session is evicted when the store is full, and sessions
// expire once idle for ttl.
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *sessionRecord]
}

type sessionRecord struct {
	mu       sync.RWMutex
	session  entity.Session
	datasets []*entity.Dataset
	index    map[string]int
}

// NewSessionStore builds a store holding at most size sessions for ttl each.
// Non-positive values fall back to the defaults.
func NewSessionStore(size int, ttl time.Duration) *SessionStore {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	onEvict := func(id string, rec *sessionRecord) {
		slog.Info("session evicted", "session_id", id)
	}

	return &SessionStore{
		sessions: expirable.NewLRU[string, *sessionRecord](size, onEvict, ttl),
	}
}

func (s *SessionStore) CreateSession(ctx context.Context, session entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Contains(session.ID) {
		return pkgerror.NewConflict("session")
	}

	s.sessions.Add(session.ID, &sessionRecord{
		session: session,
		index:   make(map[string]int),
	})

	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (entity.Session, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return entity.Session{}, err
	}

	return rec.session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sessions.Remove(sessionID) {
		return pkgerror.ErrNotFound
	}

	return nil
}

func (s *SessionStore) AddDataset(ctx context.Context, sessionID string, ds *entity.Dataset) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if _, exists := rec.index[ds.ID]; exists {
		return pkgerror.NewConflict("dataset")
	}

	rec.index[ds.ID] = len(rec.datasets)
	rec.datasets = append(rec.datasets, ds)

	return nil
}

// ListDatasets returns the dataset summaries of a session in upload order.
func (s *SessionStore) ListDatasets(ctx context.Context, sessionID string) ([]entity.DatasetInfo, error) {
	rec, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	infos := make([]entity.DatasetInfo, 0, len(rec.datasets))
	for _, ds := range rec.datasets {
		infos = append(infos, ds.Info())
	}

	return infos, nil
}

// ReadDataset runs fn with shared access to one dataset.
func (s *SessionStore) ReadDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	ds, err := rec.dataset(datasetID)
	if err != nil {
		return err
	}

	return fn(ds)
}

// UpdateDataset runs fn with exclusive access to one dataset.
func (s *SessionStore) UpdateDataset(ctx context.Context, sessionID, datasetID string, fn func(ds *entity.Dataset) error) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	ds, err := rec.dataset(datasetID)
	if err != nil {
		return err
	}

	return fn(ds)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}

// get returns a live session and restarts its idle timer.
func (s *SessionStore) get(sessionID string) (*sessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, pkgerror.ErrNotFound
	}
	s.sessions.Add(sessionID, rec)

	return rec, nil
}

func (r *sessionRecord) dataset(datasetID string) (*entity.Dataset, error) {
	i, ok := r.index[datasetID]
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return r.datasets[i], nil
}
