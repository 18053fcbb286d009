package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/Konsultn-Engineering/sqlcmd/utils"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidSize is returned when a cache is created with a non-positive size.
var ErrInvalidSize = errors.New("statement cache size must be positive")

// Preparer is satisfied by *sql.DB and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type entry struct {
	query string
	stmt  *sql.Stmt
}

// StatementCache keeps prepared statements keyed by the fingerprint of their text.
// Evicted statements are closed.
type StatementCache struct {
	cache *lru.Cache[uint64, entry]
	mu    sync.Mutex
}

func NewStatementCache(size int) (*StatementCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	cache, err := lru.NewWithEvict(size, func(key uint64, e entry) {
		e.stmt.Close()
	})
	if err != nil {
		return nil, err
	}
	return &StatementCache{cache: cache}, nil
}

// Get returns the cached statement for query, if any.
func (s *StatementCache) Get(query string) (*sql.Stmt, bool) {
	e, ok := s.cache.Get(utils.FingerprintString(query))
	if !ok || e.query != query {
		return nil, false
	}
	return e.stmt, true
}

// Add caches stmt for query. A statement already cached under the same
// fingerprint is evicted and closed.
func (s *StatementCache) Add(query string, stmt *sql.Stmt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(utils.FingerprintString(query), entry{query: query, stmt: stmt})
}

func (s *StatementCache) GetOrPrepare(ctx context.Context, p Preparer, query string) (*sql.Stmt, error) {
	if stmt, ok := s.Get(query); ok {
		return stmt, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := utils.FingerprintString(query)
	if e, ok := s.cache.Get(key); ok && e.query == query {
		return e.stmt, nil
	}

	stmt, err := p.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, entry{query: query, stmt: stmt})
	return stmt, nil
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close purges the cache, closing every statement.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
