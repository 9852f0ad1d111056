package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"gitlab.com/codebounty.net/internal/domain"
)

const weiExponent = 18

// challengeTuple matches the element type of getActiveChallenges. Field names
// must stay the camel-cased ABI component names for abi.ConvertType.
type challengeTuple struct {
	ChallengeId      *big.Int
	Creator          common.Address
	BountyAmount     *big.Int
	Title            string
	Description      string
	Requirements     string
	Tags             []string
	ChallengeStatus  uint8
	SubmissionsCount *big.Int
	StartTime        *big.Int
	Duration         *big.Int
	Winner           common.Address
}

func (t challengeTuple) toChain() *domain.ChainChallenge {
	return &domain.ChainChallenge{
		ChallengeID:      bigToUint64(t.ChallengeId),
		Creator:          t.Creator.Hex(),
		BountyWei:        bigToString(t.BountyAmount),
		Title:            t.Title,
		Description:      t.Description,
		Requirements:     t.Requirements,
		Tags:             t.Tags,
		Status:           t.ChallengeStatus,
		SubmissionsCount: bigToUint64(t.SubmissionsCount),
		StartTime:        bigToUint64(t.StartTime),
		Duration:         bigToUint64(t.Duration),
		Winner:           t.Winner.Hex(),
	}
}

// WeiToDecimal converts an integer wei amount into native units.
func WeiToDecimal(wei string) decimal.Decimal {
	n, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n, -weiExponent)
}

// DecimalToWei converts native units into wei, truncating anything below one wei.
func DecimalToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(weiExponent).Truncate(0).BigInt()
}

// Normalize maps a raw contract record onto the shared challenge model.
func Normalize(raw *domain.ChainChallenge) *domain.Challenge {
	tags := raw.Tags
	if len(tags) == 0 {
		tags = append([]string(nil), domain.DefaultChainTags...)
	}

	var winner *string
	if raw.Winner != "" && common.HexToAddress(raw.Winner) != (common.Address{}) {
		w := raw.Winner
		winner = &w
	}

	return &domain.Challenge{
		ChallengeID:      raw.ChallengeID,
		Creator:          raw.Creator,
		CreatorName:      domain.ShortAddress(raw.Creator),
		BountyAmount:     WeiToDecimal(raw.BountyWei),
		Title:            raw.Title,
		Description:      raw.Description,
		Requirements:     raw.Requirements,
		Tags:             tags,
		ChallengeStatus:  domain.ChallengeStatus(raw.Status),
		SubmissionsCount: raw.SubmissionsCount,
		StartTime:        int64(raw.StartTime),
		Duration:         int64(raw.Duration),
		Winner:           winner,
	}
}

func bigToUint64(n *big.Int) uint64 {
	if n == nil || !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}

func bigToString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
