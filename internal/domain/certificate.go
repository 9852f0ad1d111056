package domain

type MintRequest struct {
	OCId          string
	CourseID      string
	Address       string
	MetadataIndex uint64
}

type MintReceipt struct {
	Address     string `json:"address"`
	ExplorerUrl string `json:"explorerUrl"`
	TxReceipt
}
