package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var (
	_ secondary.ChallengeReader     = (*Contract)(nil)
	_ secondary.SolutionSubmitter   = (*Contract)(nil)
	_ secondary.ChallengeCreator    = (*Contract)(nil)
	_ secondary.ExpiryResolver      = (*Contract)(nil)
	_ secondary.CertificateContract = (*Contract)(nil)
)

// Backend is what the contract bindings need from an RPC client. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type Contract struct {
	backend     Backend
	bounty      *bind.BoundContract
	certificate *bind.BoundContract
	key         *ecdsa.PrivateKey
	chainID     *big.Int
	txTimeout   time.Duration
	logger      primary.Logger

	// txMu serializes nonce assignment and broadcast for the one signing key.
	txMu       sync.Mutex
	nextNonce  uint64
	nonceKnown bool
}

func NewContract(backend Backend, cfg *config.ChainConfig, logger primary.Logger) (*Contract, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	bountyAbi, err := abi.JSON(strings.NewReader(bountyABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	c := &Contract{
		backend:   backend,
		bounty:    bind.NewBoundContract(common.HexToAddress(cfg.ContractAddress), bountyAbi, backend, backend, backend),
		chainID:   big.NewInt(cfg.ChainID),
		txTimeout: cfg.TxTimeout,
		logger:    logger,
	}

	if cfg.CertificateAddress != "" {
		if !common.IsHexAddress(cfg.CertificateAddress) {
			return nil, fmt.Errorf("invalid certificate address %q", cfg.CertificateAddress)
		}
		certAbi, err := abi.JSON(strings.NewReader(certificateABI))
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate ABI: %w", err)
		}
		c.certificate = bind.NewBoundContract(common.HexToAddress(cfg.CertificateAddress), certAbi, backend, backend, backend)
	}

	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		c.key = key
		logger.Info("Signing wallet loaded", "address", crypto.PubkeyToAddress(key.PublicKey).Hex())
	}

	return c, nil
}

// CheckChainID fails when the RPC endpoint serves a different network than configured.
func (c *Contract) CheckChainID(ctx context.Context) error {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if id.Cmp(c.chainID) != 0 {
		return fmt.Errorf("connected to chain %s, expected %s", id, c.chainID)
	}
	return nil
}

func (c *Contract) Challenge(ctx context.Context, id uint64) (*domain.ChainChallenge, error) {
	var out []interface{}
	if err := c.bounty.Call(&bind.CallOpts{Context: ctx}, &out, "challenges", new(big.Int).SetUint64(id)); err != nil {
		return nil, fmt.Errorf("challenges(%d): %w", id, err)
	}
	if len(out) != 11 {
		return nil, fmt.Errorf("challenges(%d): unexpected output length %d", id, len(out))
	}

	t := challengeTuple{
		ChallengeId:      *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Creator:          *abi.ConvertType(out[1], new(common.Address)).(*common.Address),
		BountyAmount:     *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		Title:            *abi.ConvertType(out[3], new(string)).(*string),
		Description:      *abi.ConvertType(out[4], new(string)).(*string),
		Requirements:     *abi.ConvertType(out[5], new(string)).(*string),
		ChallengeStatus:  *abi.ConvertType(out[6], new(uint8)).(*uint8),
		SubmissionsCount: *abi.ConvertType(out[7], new(*big.Int)).(**big.Int),
		StartTime:        *abi.ConvertType(out[8], new(*big.Int)).(**big.Int),
		Duration:         *abi.ConvertType(out[9], new(*big.Int)).(**big.Int),
		Winner:           *abi.ConvertType(out[10], new(common.Address)).(*common.Address),
	}
	return t.toChain(), nil
}

func (c *Contract) ActiveChallenges(ctx context.Context) ([]*domain.ChainChallenge, error) {
	var out []interface{}
	if err := c.bounty.Call(&bind.CallOpts{Context: ctx}, &out, "getActiveChallenges"); err != nil {
		return nil, fmt.Errorf("getActiveChallenges: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getActiveChallenges: unexpected output length %d", len(out))
	}

	tuples := *abi.ConvertType(out[0], new([]challengeTuple)).(*[]challengeTuple)
	result := make([]*domain.ChainChallenge, 0, len(tuples))
	for _, t := range tuples {
		result = append(result, t.toChain())
	}
	return result, nil
}

func (c *Contract) RemainingTime(ctx context.Context, id uint64) (int64, error) {
	var out []interface{}
	if err := c.bounty.Call(&bind.CallOpts{Context: ctx}, &out, "getChallengeRemainingTime", new(big.Int).SetUint64(id)); err != nil {
		return 0, fmt.Errorf("getChallengeRemainingTime(%d): %w", id, err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("getChallengeRemainingTime(%d): unexpected output length %d", id, len(out))
	}
	remaining := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if remaining == nil || !remaining.IsInt64() {
		return 0, nil
	}
	return remaining.Int64(), nil
}

func (c *Contract) SubmitSolution(ctx context.Context, id uint64, solutionHash domain.Commitment) (*domain.TxReceipt, error) {
	return c.transact(ctx, c.bounty, nil, "submitSolution", new(big.Int).SetUint64(id), [32]byte(solutionHash))
}

func (c *Contract) CreateChallenge(ctx context.Context, req *domain.NewChallenge) (*domain.TxReceipt, error) {
	bounty := DecimalToWei(req.BountyAmount)
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return c.transact(ctx, c.bounty, bounty, "createChallenge",
		req.Title, req.Description, req.Requirements, tags, bounty, new(big.Int).SetUint64(req.DurationInDays))
}

func (c *Contract) ResolveExpiredChallenge(ctx context.Context, id uint64) (*domain.TxReceipt, error) {
	return c.transact(ctx, c.bounty, nil, "resolveExpiredChallenge", new(big.Int).SetUint64(id))
}

func (c *Contract) HasMinted(ctx context.Context, address string) (bool, error) {
	if c.certificate == nil {
		return false, errs.ChainUnavailable
	}
	var out []interface{}
	if err := c.certificate.Call(&bind.CallOpts{Context: ctx}, &out, "hasMinted", common.HexToAddress(address)); err != nil {
		return false, fmt.Errorf("hasMinted(%s): %w", address, err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("hasMinted(%s): unexpected output length %d", address, len(out))
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *Contract) MintCertificate(ctx context.Context, address string, metadataIndex uint64) (*domain.TxReceipt, error) {
	if c.certificate == nil {
		return nil, errs.ChainUnavailable
	}
	return c.transact(ctx, c.certificate, nil, "mintCertificate", common.HexToAddress(address), new(big.Int).SetUint64(metadataIndex))
}

// send assigns the nonce and broadcasts. The nonce is the node's pending count or the one after
// the last nonce sent from here, whichever is higher, so a lagging RPC cannot hand out a nonce twice.
// Mining is awaited outside the lock.
func (c *Contract) send(opts *bind.TransactOpts, contract *bind.BoundContract, method string, params ...interface{}) (*types.Transaction, error) {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	nonce, err := c.backend.PendingNonceAt(opts.Context, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending nonce: %w", err)
	}
	if c.nonceKnown && c.nextNonce > nonce {
		nonce = c.nextNonce
	}
	opts.Nonce = new(big.Int).SetUint64(nonce)

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		// Resync from the node next time; the failed send may or may not have consumed the nonce.
		c.nonceKnown = false
		return nil, err
	}
	c.nextNonce, c.nonceKnown = nonce+1, true
	return tx, nil
}

// transact signs with the configured key, sends, and blocks until the transaction is mined.
func (c *Contract) transact(ctx context.Context, contract *bind.BoundContract, value *big.Int, method string, params ...interface{}) (*domain.TxReceipt, error) {
	if c.key == nil {
		return nil, errs.WalletUnavailable
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value

	tx, err := c.send(opts, contract, method, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to send transaction: %w", method, err)
	}
	c.logger.Info("Transaction sent", "method", method, "txHash", tx.Hash().Hex(), "nonce", tx.Nonce())

	waitCtx := ctx
	if c.txTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.txTimeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(waitCtx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: transaction mining failed: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s %s: %w", method, tx.Hash().Hex(), errs.TransactionFailed)
	}

	return &domain.TxReceipt{
		TxHash:      tx.Hash().Hex(),
		BlockNumber: bigToUint64(receipt.BlockNumber),
		GasUsed:     receipt.GasUsed,
	}, nil
}
