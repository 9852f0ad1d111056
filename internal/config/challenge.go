package config

const (
	ChallengeSourceFixture = "fixture"
	ChallengeSourceChain   = "chain"
)

type ChallengeConfig struct {
	Source string
	// FixtureFile overrides the built-in fixture set when non-empty.
	FixtureFile string
}

func NewChallengeConfig() *ChallengeConfig {
	return &ChallengeConfig{
		Source:      getEnv("CHALLENGE_SOURCE", ChallengeSourceChain),
		FixtureFile: getEnv("CHALLENGE_FIXTURE_FILE", ""),
	}
}
