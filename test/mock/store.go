package mock

import (
	"context"
	"sync"
	"time"

	"github.com/Aisenh037/MBC-sub002/cache"
)

type entry struct {
	value []byte
	exp   time.Time
}

// Store is an in-memory cache.Store with optional failure injection.
type Store struct {
	mu      sync.Mutex
	data    map[string]entry
	FailAll bool

	GetCalls int
	SetCalls int
	DelCalls int
}

var _ cache.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: make(map[string]entry)}
}

// failErr mimics a lost backend connection.
type failErr struct{}

func (failErr) Error() string { return "store unavailable" }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if s.FailAll {
		return nil, failErr{}
	}
	e, ok := s.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.data, key)
		return nil, cache.ErrNotFound
	}
	return e.value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	if s.FailAll {
		return failErr{}
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.data[key] = entry{value: value, exp: exp}
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DelCalls++
	if s.FailAll {
		return 0, failErr{}
	}
	var n int64
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

func (s *Store) DelPattern(ctx context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAll {
		return 0, failErr{}
	}
	var n int64
	for key := range s.data {
		if globMatch(pattern, key) {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

// globMatch mirrors the KEYS/SCAN glob dialect: * spans any run of
// characters including separators, ? matches exactly one. path.Match would
// be wrong here since its * stops at slashes, which page keys contain.
func globMatch(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[key]; ok {
		e.exp = time.Now().Add(ttl)
		s.data[key] = e
	}
	return nil
}

func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return -2, nil
	}
	if e.exp.IsZero() {
		return -1, nil
	}
	return time.Until(e.exp), nil
}

// Len reports the number of live keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Keys returns a snapshot of the stored keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
