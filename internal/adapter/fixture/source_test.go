package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/domain"
)

func TestBuiltinFixtures(t *testing.T) {
	src, err := NewSource("")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceModeFixture, src.Mode())

	list, err := src.ListChallenges(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, c := range list {
		assert.Equal(t, uint64(i+1), c.ChallengeID)
		assert.NotEmpty(t, c.ProblemStatement)
	}
}

func TestGetChallenge(t *testing.T) {
	src, err := NewSource("")
	require.NoError(t, err)

	c, err := src.GetChallenge(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "On-Chain Voting", c.Title)
	assert.Equal(t, domain.ChallengeStatusCompleted, c.ChallengeStatus)
	require.NotNil(t, c.Winner)

	missing, err := src.GetChallenge(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	body := `[{"challengeId": 10, "creator": "0x1234567890abcdef1234567890abcdef12345678", "bountyAmount": "3", "title": "X"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	src, err := NewSource(path)
	require.NoError(t, err)

	c, err := src.GetChallenge(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "0x1234...5678", c.CreatorName)
	assert.Equal(t, "3", c.BountyAmount.String())
}

func TestNewSourceRejectsBadJSON(t *testing.T) {
	_, err := NewSourceFromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestListReturnsCopy(t *testing.T) {
	src, err := NewSource("")
	require.NoError(t, err)

	list, _ := src.ListChallenges(context.Background())
	list[0] = nil

	again, _ := src.ListChallenges(context.Background())
	assert.NotNil(t, again[0])
}

func TestCallersCannotModifyFixtures(t *testing.T) {
	src, err := NewSource("")
	require.NoError(t, err)
	ctx := context.Background()

	c, _ := src.GetChallenge(ctx, 3)
	require.NotNil(t, c.Winner)
	original, winner := c.Title, *c.Winner
	c.Title = "changed"
	*c.Winner = "0x0"
	c.Tags = append(c.Tags[:0], "changed")

	list, _ := src.ListChallenges(ctx)
	list[2].ChallengeStatus = domain.ChallengeStatusCancelled

	again, _ := src.GetChallenge(ctx, 3)
	assert.Equal(t, original, again.Title)
	assert.Equal(t, winner, *again.Winner)
	assert.NotContains(t, again.Tags, "changed")
	assert.Equal(t, domain.ChallengeStatusCompleted, again.ChallengeStatus)
}

func TestNewSourceRejectsNullEntry(t *testing.T) {
	_, err := NewSourceFromJSON([]byte(`[{"challengeId": 1, "title": "X"}, null]`))
	assert.ErrorContains(t, err, "index 1 is null")
}
