package validationport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
)

const (
	sequenceKeyPrefix = "validation:seq:"
	stateKeyPrefix    = "validation:state:"
	tokenKeyPrefix    = "validation:token:"
)

var (
	_ secondary.ValidationStateStore = (*Store)(nil)
	_ secondary.ValidationTokenStore = (*Store)(nil)
)

// saveIfLatest writes the outcome only while its sequence is not older than the counter.
// KEYS: sequence key, state key. ARGV: sequence, payload, ttl seconds.
var saveIfLatest = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) < current then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'EX', ARGV[3])
return 1
`)

// Store keeps validation sequencing, outcomes and accepted tokens in Redis.
type Store struct {
	redisClient *redis.Client
	stateTTL    time.Duration
	logger      primary.Logger
}

func New(redisClient *redis.Client, stateTTL time.Duration, logger primary.Logger) *Store {
	return &Store{
		redisClient: redisClient,
		stateTTL:    stateTTL,
		logger:      logger,
	}
}

func sequenceKey(key string) string {
	return sequenceKeyPrefix + key
}

func stateKey(key string) string {
	return stateKeyPrefix + key
}

func tokenKey(challengeID uint64, token string) string {
	return fmt.Sprintf("%s%d:%s", tokenKeyPrefix, challengeID, strings.ToLower(strings.TrimPrefix(token, "0x")))
}

func (s *Store) NextSequence(ctx context.Context, key string) (uint64, error) {
	pipe := s.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, sequenceKey(key))
	pipe.Expire(ctx, sequenceKey(key), s.stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment validation sequence: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (s *Store) SaveIfLatest(ctx context.Context, key string, outcome *domain.ValidationOutcome) (bool, error) {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return false, fmt.Errorf("failed to marshal validation outcome: %w", err)
	}

	ttl := int64(s.stateTTL / time.Second)
	if ttl <= 0 {
		ttl = 1
	}

	applied, err := saveIfLatest.Run(ctx, s.redisClient,
		[]string{sequenceKey(key), stateKey(key)},
		outcome.Sequence, payload, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("failed to store validation outcome: %w", err)
	}
	if applied == 0 {
		s.logger.Debug("Dropped stale validation outcome", "key", key, "sequence", outcome.Sequence)
	}
	return applied == 1, nil
}

func (s *Store) Latest(ctx context.Context, key string) (*domain.ValidationOutcome, error) {
	data, err := s.redisClient.Get(ctx, stateKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get validation outcome: %w", err)
	}

	var outcome domain.ValidationOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal validation outcome: %w", err)
	}
	return &outcome, nil
}

func (s *Store) PutToken(ctx context.Context, challengeID uint64, token string, ttl time.Duration) error {
	if err := s.redisClient.Set(ctx, tokenKey(challengeID, token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store validation token: %w", err)
	}
	return nil
}

func (s *Store) HasToken(ctx context.Context, challengeID uint64, token string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, tokenKey(challengeID, token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check validation token: %w", err)
	}
	return n > 0, nil
}
