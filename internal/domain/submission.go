package domain

// TxReceipt summarises a mined transaction.
type TxReceipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

type SubmissionReceipt struct {
	ChallengeID  uint64 `json:"challengeId"`
	SolutionHash string `json:"solutionHash"`
	TxReceipt
}
