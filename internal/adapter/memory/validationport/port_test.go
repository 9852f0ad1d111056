package validationport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/domain"
)

func TestSequencesAreMonotonicPerKey(t *testing.T) {
	s := New()
	ctx := context.Background()

	a1, _ := s.NextSequence(ctx, "a")
	a2, _ := s.NextSequence(ctx, "a")
	b1, _ := s.NextSequence(ctx, "b")

	assert.Equal(t, uint64(1), a1)
	assert.Equal(t, uint64(2), a2)
	assert.Equal(t, uint64(1), b1)
}

func TestSaveIfLatestDropsStaleOutcome(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, _ := s.NextSequence(ctx, "k")
	second, _ := s.NextSequence(ctx, "k")

	ok, err := s.SaveIfLatest(ctx, "k", &domain.ValidationOutcome{Sequence: second, State: domain.ValidationInvalid})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SaveIfLatest(ctx, "k", &domain.ValidationOutcome{Sequence: first, State: domain.ValidationValid})
	require.NoError(t, err)
	assert.False(t, ok)

	latest, err := s.Latest(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.ValidationInvalid, latest.State)
	assert.Equal(t, second, latest.Sequence)
}

func TestLatestMissing(t *testing.T) {
	latest, err := New().Latest(context.Background(), "none")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestTokens(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.PutToken(ctx, 1, "0xABC", time.Minute))

	ok, _ := s.HasToken(ctx, 1, "abc")
	assert.True(t, ok)

	ok, _ = s.HasToken(ctx, 2, "0xabc")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = s.HasToken(ctx, 1, "0xabc")
	assert.False(t, ok)
}

func TestConcurrentSequences(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	seen := make(chan uint64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, _ := s.NextSequence(ctx, "k")
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, 50)
}
