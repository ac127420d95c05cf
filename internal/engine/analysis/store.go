package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pkgredis "github.com/lexiscope/wordfreq/pkg/redis"
)

// Store persists memoized analyses. Implementations must treat stored
// analyses as immutable once written.
type Store interface {
	Get(ctx context.Context, word string) (*WordAnalysis, bool)
	Set(ctx context.Context, word string, analysis *WordAnalysis)
	Clear(ctx context.Context) error
}

// MemoryStore is the default in-process backend. Entries never expire.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*WordAnalysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*WordAnalysis)}
}

func (s *MemoryStore) Get(ctx context.Context, word string) (*WordAnalysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.entries[word]
	return a, ok
}

func (s *MemoryStore) Set(ctx context.Context, word string, analysis *WordAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[word] = analysis
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*WordAnalysis)
	return nil
}

// Len returns the number of memoized analyses.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

const redisKeyPrefix = "analysis:"

// RedisStore keeps analyses in Redis as JSON so multiple engine hosts can
// share one analysis cache. Failures degrade to cache misses.
type RedisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisStore(client *pkgredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "analysis-store"),
	}
}

func (s *RedisStore) key(word string) string {
	return redisKeyPrefix + word
}

func (s *RedisStore) Get(ctx context.Context, word string) (*WordAnalysis, bool) {
	data, err := s.client.Get(ctx, s.key(word))
	if err != nil {
		if !pkgredis.IsNilError(err) {
			s.logger.Error("cache get failed", "word", word, "error", err)
		}
		return nil, false
	}
	var analysis WordAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		s.logger.Error("cache unmarshal failed", "word", word, "error", err)
		return nil, false
	}
	return &analysis, true
}

func (s *RedisStore) Set(ctx context.Context, word string, analysis *WordAnalysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		s.logger.Error("cache marshal failed", "word", word, "error", err)
		return
	}
	if err := s.client.Set(ctx, s.key(word), data, s.ttl); err != nil {
		s.logger.Error("cache set failed", "word", word, "error", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context) error {
	deleted, err := s.client.FlushByPattern(ctx, redisKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("clearing analysis cache: %w", err)
	}
	s.logger.Info("analysis cache cleared", "keys_deleted", deleted)
	return nil
}
