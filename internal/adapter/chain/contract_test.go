package chain

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/codebounty.net/internal/adapter/logging"
	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/static/errs"
)

// fakeNode answers just enough RPC for BoundContract.Transact and WaitMined on a pre-London chain.
// Unlisted Backend methods panic through the nil embedded interface.
type fakeNode struct {
	Backend

	mu    sync.Mutex
	sent  []*types.Transaction
	stale bool
}

func (n *fakeNode) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (n *fakeNode) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (n *fakeNode) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (n *fakeNode) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

// PendingNonceAt counts what the node has seen; a stale node never moves past zero.
// The pause widens the window in which two unserialized senders would read the same value.
func (n *fakeNode) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	time.Sleep(5 * time.Millisecond)
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stale {
		return 0, nil
	}
	return uint64(len(n.sent)), nil
}

func (n *fakeNode) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, tx)
	return nil
}

func (n *fakeNode) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(2), GasUsed: 21000}, nil
}

func (n *fakeNode) nonces() []uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]uint64, 0, len(n.sent))
	for _, tx := range n.sent {
		out = append(out, tx.Nonce())
	}
	return out
}

func newSigningContract(t *testing.T, node *fakeNode) *Contract {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	c, err := NewContract(node, &config.ChainConfig{
		ContractAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
		ChainID:         656476,
		PrivateKey:      common.Bytes2Hex(crypto.FromECDSA(key)),
		TxTimeout:       5 * time.Second,
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestTransact_ConcurrentSendsGetDistinctNonces(t *testing.T) {
	node := &fakeNode{}
	c := newSigningContract(t, node)

	const senders = 6
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_, err := c.ResolveExpiredChallenge(context.Background(), id)
			assert.NoError(t, err)
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.ElementsMatch(t, []uint64{0, 1, 2, 3, 4, 5}, node.nonces())
}

func TestTransact_StaleNodeDoesNotRepeatNonce(t *testing.T) {
	node := &fakeNode{stale: true}
	c := newSigningContract(t, node)

	for id := uint64(1); id <= 3; id++ {
		receipt, err := c.ResolveExpiredChallenge(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), receipt.BlockNumber)
	}
	assert.Equal(t, []uint64{0, 1, 2}, node.nonces())
}

func TestTransact_WithoutKey(t *testing.T) {
	c, err := NewContract(&fakeNode{}, &config.ChainConfig{
		ContractAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
		ChainID:         656476,
	}, logging.NewNopLogger())
	require.NoError(t, err)

	_, err = c.SubmitSolution(context.Background(), 1, [32]byte{})
	assert.ErrorIs(t, err, errs.WalletUnavailable)
}
