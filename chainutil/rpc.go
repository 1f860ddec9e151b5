package chainutil

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"

	"github.com/EscanBE/valueiou/utils"
)

// Caller issues raw JSON-RPC calls. *rpc.Client implements it.
type Caller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// ForkingParams selects the remote network and block a hardhat node replays.
type ForkingParams struct {
	JSONRPCURL  string  `json:"jsonRpcUrl"`
	BlockNumber *uint64 `json:"blockNumber,omitempty"`
}

// ResetParams is the argument of hardhat_reset.
type ResetParams struct {
	Forking *ForkingParams `json:"forking,omitempty"`
}

// MineBlock mines one block.
func MineBlock(ctx context.Context, c Caller) error {
	return c.CallContext(ctx, nil, "evm_mine")
}

// MineBlocks mines blocks sequentially, one block at a time.
func MineBlocks(ctx context.Context, c Caller, blocks int) error {
	for i := 0; i < blocks; i++ {
		if err := MineBlock(ctx, c); err != nil {
			return fmt.Errorf("failed to mine block %d of %d: %w", i+1, blocks, err)
		}
	}
	return nil
}

// MineBlockTimestamp mines one block with the given timestamp.
func MineBlockTimestamp(ctx context.Context, c Caller, timestamp uint64) error {
	return c.CallContext(ctx, nil, "evm_mine", timestamp)
}

// UnlockForkAddress starts impersonating address.
func UnlockForkAddress(ctx context.Context, c Caller, address common.Address) error {
	return c.CallContext(ctx, nil, "hardhat_impersonateAccount", address)
}

// UnlockForkAddresses impersonates all addresses concurrently.
func UnlockForkAddresses(ctx context.Context, c Caller, addresses []common.Address) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, address := range addresses {
		address := address
		g.Go(func() error {
			return UnlockForkAddress(ctx, c, address)
		})
	}
	return g.Wait()
}

// LockForkAddress stops impersonating address.
func LockForkAddress(ctx context.Context, c Caller, address common.Address) error {
	return c.CallContext(ctx, nil, "hardhat_stopImpersonatingAccount", address)
}

// ForkBlockNumber resets the node to a fork of the network at jsonRPCURL, at blockNumber.
func ForkBlockNumber(ctx context.Context, c Caller, jsonRPCURL string, blockNumber uint64) error {
	return c.CallContext(ctx, nil, "hardhat_reset", ResetParams{
		Forking: &ForkingParams{
			JSONRPCURL:  jsonRPCURL,
			BlockNumber: utils.Ptr(blockNumber),
		},
	})
}

// Reset resets the node to its genesis state.
func Reset(ctx context.Context, c Caller) error {
	return c.CallContext(ctx, nil, "hardhat_reset")
}

// GetLatestBlock returns the header of the latest block.
func GetLatestBlock(ctx context.Context, c Caller) (*ethtypes.Header, error) {
	var head *ethtypes.Header
	if err := c.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, err
	}
	if head == nil {
		return nil, ethereum.NotFound
	}
	return head, nil
}

// GetLatestBlockNumber returns the number of the latest block.
func GetLatestBlockNumber(ctx context.Context, c Caller) (uint64, error) {
	head, err := GetLatestBlock(ctx, c)
	if err != nil {
		return 0, err
	}
	return head.Number.Uint64(), nil
}

// LogDeployedContract logs the address and deployment transaction of a contract.
func LogDeployedContract(logger log.Logger, name string, address common.Address, txHash common.Hash) {
	logger.Info("deployed contract", "name", name, "address", address.Hex(), "tx", txHash.Hex())
}
