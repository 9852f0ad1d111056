package validationport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

var (
	_ secondary.ValidationStateStore = (*Store)(nil)
	_ secondary.ValidationTokenStore = (*Store)(nil)
)

// Store is the single-process fallback used when Redis is disabled.
type Store struct {
	mu        sync.Mutex
	sequences map[string]uint64
	outcomes  map[string]domain.ValidationOutcome
	tokens    map[string]time.Time
	now       func() time.Time
}

func New() *Store {
	return &Store{
		sequences: make(map[string]uint64),
		outcomes:  make(map[string]domain.ValidationOutcome),
		tokens:    make(map[string]time.Time),
		now:       time.Now,
	}
}

func tokenKey(challengeID uint64, token string) string {
	return fmt.Sprintf("%d:%s", challengeID, strings.ToLower(strings.TrimPrefix(token, "0x")))
}

func (s *Store) NextSequence(ctx context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[key]++
	return s.sequences[key], nil
}

func (s *Store) SaveIfLatest(ctx context.Context, key string, outcome *domain.ValidationOutcome) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outcome.Sequence < s.sequences[key] {
		return false, nil
	}
	s.outcomes[key] = *outcome
	return true, nil
}

func (s *Store) Latest(ctx context.Context, key string) (*domain.ValidationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome, ok := s.outcomes[key]
	if !ok {
		return nil, nil
	}
	return &outcome, nil
}

func (s *Store) PutToken(ctx context.Context, challengeID uint64, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(challengeID, token)] = s.now().Add(ttl)
	return nil
}

func (s *Store) HasToken(ctx context.Context, challengeID uint64, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tokenKey(challengeID, token)
	expiry, ok := s.tokens[key]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.tokens, key)
		return false, nil
	}
	return true, nil
}
