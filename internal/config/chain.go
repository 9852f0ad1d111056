package config

import (
	"os"
	"time"
)

type ChainConfig struct {
	RpcUrl          string
	ContractAddress string
	// CertificateAddress is the course certificate NFT contract. Empty disables minting.
	CertificateAddress string
	ChainID            int64
	// PrivateKey signs submissions, challenge creation and mints. Empty means read-only.
	PrivateKey  string
	TxTimeout   time.Duration
	ExplorerUrl string
}

func NewChainConfig() *ChainConfig {
	return &ChainConfig{
		RpcUrl:             getEnv("CHAIN_RPC_URL", "https://rpc.open-campus-codex.gelato.digital"),
		ContractAddress:    getEnv("CHAIN_CONTRACT_ADDRESS", "0xA38232C301951902e8F807a94eEb624c443A40D3"),
		CertificateAddress: os.Getenv("CHAIN_CERTIFICATE_ADDRESS"),
		ChainID:            int64(getIntEnv("CHAIN_ID", 656476)),
		PrivateKey:         os.Getenv("CHAIN_PRIVATE_KEY"),
		TxTimeout:          getSecondsEnv("CHAIN_TX_TIMEOUT_SEC", 120),
		ExplorerUrl:        getEnv("CHAIN_EXPLORER_URL", "https://explorer.edu-block.org"),
	}
}
