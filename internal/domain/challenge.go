package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ChallengeStatus mirrors the contract's Status enum. Transitions are driven by the contract only.
type ChallengeStatus uint8

const (
	ChallengeStatusWaiting ChallengeStatus = iota
	ChallengeStatusCompleted
	ChallengeStatusCancelled
	ChallengeStatusExpired
)

func (s ChallengeStatus) String() string {
	switch s {
	case ChallengeStatusWaiting:
		return "waiting"
	case ChallengeStatusCompleted:
		return "completed"
	case ChallengeStatusCancelled:
		return "cancelled"
	case ChallengeStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ParseChallengeStatus accepts either the enum name or its numeric value.
func ParseChallengeStatus(v string) (ChallengeStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "waiting", "0":
		return ChallengeStatusWaiting, true
	case "completed", "1":
		return ChallengeStatusCompleted, true
	case "cancelled", "2":
		return ChallengeStatusCancelled, true
	case "expired", "3":
		return ChallengeStatusExpired, true
	}
	return 0, false
}

// SourceMode tells which backend produced a Challenge.
type SourceMode string

const (
	SourceModeFixture SourceMode = "fixture"
	SourceModeChain   SourceMode = "chain"
)

// DefaultChainTags is used when the contract read does not carry tags.
var DefaultChainTags = []string{"Blockchain", "Smart Contract"}

// Challenge is the normalized view model shared by every challenge source.
type Challenge struct {
	ChallengeID      uint64          `json:"challengeId"`
	Creator          string          `json:"creator"`
	CreatorName      string          `json:"creatorName"`
	BountyAmount     decimal.Decimal `json:"bountyAmount"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ProblemStatement string          `json:"problemStatement"`
	Requirements     string          `json:"requirements"`
	Tags             []string        `json:"tags"`
	ChallengeStatus  ChallengeStatus `json:"challengeStatus"`
	SubmissionsCount uint64          `json:"submissionsCount"`
	StartTime        int64           `json:"startTime"`
	Duration         int64           `json:"duration"`
	Winner           *string         `json:"winner"`
}

// Clone returns a copy that shares no slices or pointers with c.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	out := *c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Winner != nil {
		winner := *c.Winner
		out.Winner = &winner
	}
	return &out
}

// EndTime is the epoch second at which the challenge stops accepting work.
func (c *Challenge) EndTime() int64 {
	return c.StartTime + c.Duration
}

// ChainChallenge is the raw shape returned by the contract's challenge getters.
type ChainChallenge struct {
	ChallengeID      uint64
	Creator          string
	BountyWei        string
	Title            string
	Description      string
	Requirements     string
	Tags             []string
	Status           uint8
	SubmissionsCount uint64
	StartTime        uint64
	Duration         uint64
	Winner           string
}

// ChallengeFilter narrows a challenge listing. Zero value matches everything.
type ChallengeFilter struct {
	Status *ChallengeStatus
	Query  string
}

// Matches applies the status filter and a case-insensitive search over title,
// description and creator name.
func (f ChallengeFilter) Matches(c *Challenge) bool {
	if f.Status != nil && c.ChallengeStatus != *f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(strings.ToLower(c.CreatorName), q)
}

// NewChallenge is a creation request for the contract's payable createChallenge.
type NewChallenge struct {
	Title          string
	Description    string
	Requirements   string
	Tags           []string
	BountyAmount   decimal.Decimal
	DurationInDays uint64
}

// ShortAddress renders 0x1234...abcd the way the UI labels creators.
func ShortAddress(address string) string {
	if len(address) < 42 {
		return address
	}
	return address[:6] + "..." + address[38:]
}
