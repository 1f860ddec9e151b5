package devchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/backends"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	iotypes "github.com/EscanBE/valueiou/types"
	"github.com/EscanBE/valueiou/utils"
)

const (
	// DefaultGasLimit is the block gas limit of the local chain.
	DefaultGasLimit = uint64(30_000_000)

	// blockInterval is the timestamp increment the simulated backend gives each new block.
	blockInterval = 10

	// maxFutureSeconds mirrors the consensus engine's allowance for blocks ahead of wall clock.
	maxFutureSeconds = 15
)

// Config configures a local chain.
type Config struct {
	// Accounts are funded at genesis. Defaults to the development accounts.
	Accounts []*ecdsa.PrivateKey

	// Balance is the genesis balance of every account. Defaults to DefaultBalance.
	Balance *big.Int

	// GasLimit is the block gas limit. Defaults to DefaultGasLimit.
	GasLimit uint64

	Logger log.Logger
}

// Chain is a local automining chain on top of go-ethereum's simulated backend,
// exposed through a hardhat compatible JSON-RPC surface.
type Chain struct {
	mu           sync.RWMutex
	backend      *backends.SimulatedBackend
	impersonated map[common.Address]struct{}

	accounts []Account
	balance  *big.Int
	gasLimit uint64
	server   *rpc.Server
	logger   log.Logger
}

// New starts a local chain at genesis.
func New(cfg Config) (*Chain, error) {
	keys := cfg.Accounts
	if len(keys) == 0 {
		keys = DefaultAccountKeys()
	}

	balance := utils.Coalesce(cfg.Balance, DefaultBalance)
	gasLimit := utils.FirstNonZero(cfg.GasLimit, DefaultGasLimit)

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &Chain{
		impersonated: make(map[common.Address]struct{}),
		accounts:     make([]Account, len(keys)),
		balance:      balance,
		gasLimit:     gasLimit,
		logger:       logger.With("module", "devchain"),
	}
	for i, key := range keys {
		c.accounts[i] = NewAccount(key)
	}
	c.backend = c.newBackend()

	c.server = rpc.NewServer()
	apis := map[string]interface{}{
		"eth":     &ethAPI{chain: c},
		"net":     &netAPI{chain: c},
		"web3":    &web3API{},
		"evm":     &evmAPI{chain: c},
		"hardhat": &hardhatAPI{chain: c},
	}
	for namespace, api := range apis {
		if err := c.server.RegisterName(namespace, api); err != nil {
			c.backend.Close()
			return nil, fmt.Errorf("failed to register %s namespace: %w", namespace, err)
		}
	}

	return c, nil
}

func (c *Chain) newBackend() *backends.SimulatedBackend {
	alloc := make(core.GenesisAlloc, len(c.accounts))
	for _, account := range c.accounts {
		alloc[account.Address] = core.GenesisAccount{Balance: new(big.Int).Set(c.balance)}
	}
	return backends.NewSimulatedBackend(alloc, c.gasLimit)
}

// Accounts returns the funded accounts, in genesis order.
func (c *Chain) Accounts() []Account {
	return c.accounts
}

// ChainID returns the EIP-155 chain id.
func (c *Chain) ChainID() *big.Int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return new(big.Int).Set(c.backend.Blockchain().Config().ChainID)
}

// Client returns an in-process JSON-RPC client.
func (c *Chain) Client() *rpc.Client {
	return rpc.DialInProc(c.server)
}

// Handler returns the JSON-RPC over HTTP handler.
func (c *Chain) Handler() http.Handler {
	return c.server
}

// WebsocketHandler serves the JSON-RPC API over websocket for the given origins.
func (c *Chain) WebsocketHandler(origins []string) http.Handler {
	return c.server.WebsocketHandler(origins)
}

// Close stops the RPC server and releases the backend.
func (c *Chain) Close() error {
	c.server.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend.Close()
}

// LatestHeader returns the header of the head block.
func (c *Chain) LatestHeader() *ethtypes.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend.Blockchain().CurrentHeader()
}

// Mine seals a block. A non-nil timestamp sets the block time,
// it must be after the latest block and not ahead of wall clock.
func (c *Chain) Mine(timestamp *uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timestamp != nil {
		latest := c.backend.Blockchain().CurrentHeader()
		if *timestamp <= latest.Time {
			return errorsmod.Wrapf(iotypes.ErrInvalidTimestamp, "%d is not after the latest block timestamp %d", *timestamp, latest.Time)
		}
		if limit := uint64(time.Now().Unix()) + maxFutureSeconds; *timestamp > limit {
			return errorsmod.Wrapf(iotypes.ErrInvalidTimestamp, "%d is too far in the future", *timestamp)
		}

		offset := int64(*timestamp) - int64(latest.Time+blockInterval)
		if err := c.backend.AdjustTime(time.Duration(offset) * time.Second); err != nil {
			return err
		}
	}

	c.backend.Commit()
	c.logger.Debug("mined block", "number", c.backend.Blockchain().CurrentHeader().Number)
	return nil
}

// Reset drops all state back to genesis and clears impersonation.
func (c *Chain) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.backend
	c.backend = c.newBackend()
	c.impersonated = make(map[common.Address]struct{})

	c.logger.Info("chain reset to genesis")
	return old.Close()
}

// Impersonate marks address as impersonated.
func (c *Chain) Impersonate(address common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.impersonated[address] = struct{}{}
}

// StopImpersonating clears the impersonation of address. It reports whether address was impersonated.
func (c *Chain) StopImpersonating(address common.Address) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, found := c.impersonated[address]
	delete(c.impersonated, address)
	return found
}

// IsImpersonated reports whether address is impersonated.
func (c *Chain) IsImpersonated(address common.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, found := c.impersonated[address]
	return found
}

// SendTransaction submits a signed transaction and mines it into its own block.
func (c *Chain) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	signer := ethtypes.LatestSignerForChainID(c.backend.Blockchain().Config().ChainID)
	sender, err := ethtypes.Sender(signer, tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, sender)
	if err != nil {
		return err
	}
	if tx.Nonce() != nonce {
		return fmt.Errorf("invalid nonce for %s: got %d, want %d", sender, tx.Nonce(), nonce)
	}

	if baseFee := c.backend.Blockchain().CurrentHeader().BaseFee; baseFee != nil && tx.GasFeeCap().Cmp(baseFee) < 0 {
		return fmt.Errorf("max fee per gas %s is less than the base fee %s", tx.GasFeeCap(), baseFee)
	}

	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()

	c.logger.Debug("mined transaction", "hash", tx.Hash().Hex(), "from", sender.Hex(), "number", c.backend.Blockchain().CurrentHeader().Number)
	return nil
}

// withBackend runs fn against the current backend under the read lock.
func (c *Chain) withBackend(fn func(backend *backends.SimulatedBackend) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(c.backend)
}
