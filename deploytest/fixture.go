// Package deploytest runs deploy scripts against a fresh local chain for tests.
package deploytest

import (
	"context"
	"crypto/ecdsa"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/contracts"
	"github.com/EscanBE/valueiou/deploy"
	"github.com/EscanBE/valueiou/deployments"
	"github.com/EscanBE/valueiou/devchain"
)

// Env is a deployed fixture.
type Env struct {
	*deployments.Environment

	Chain  *devchain.Chain
	Client *ethclient.Client
	Store  *deployments.MemoryStore
}

// Close stops the chain.
func (e *Env) Close() error {
	e.Client.Close()
	return e.Chain.Close()
}

// Fixture starts a fresh chain and runs the project deploy scripts matching tags.
func Fixture(ctx context.Context, tags ...string) (*Env, error) {
	return FixtureWith(ctx, deploy.NewRegistry(), tags...)
}

// FixtureWith is Fixture with a custom registry.
func FixtureWith(ctx context.Context, registry *deployments.Registry, tags ...string) (*Env, error) {
	env, err := NewEnv(log.NewNopLogger())
	if err != nil {
		return nil, err
	}
	if err := registry.Run(ctx, env.Environment, tags...); err != nil {
		_ = env.Close()
		return nil, err
	}
	return env, nil
}

// NewEnv starts a fresh chain with an empty deployments environment on it.
func NewEnv(logger log.Logger) (*Env, error) {
	chain, err := devchain.New(devchain.Config{Logger: logger})
	if err != nil {
		return nil, err
	}

	keys := make([]*ecdsa.PrivateKey, len(chain.Accounts()))
	for i, account := range chain.Accounts() {
		keys[i] = account.Key
	}
	accounts, err := deployments.NewNamedAccounts(chain.ChainID(), keys, deployments.DefaultNamedAccounts)
	if err != nil {
		_ = chain.Close()
		return nil, err
	}

	client := ethclient.NewClient(chain.Client())
	store := deployments.NewMemoryStore()

	return &Env{
		Environment: &deployments.Environment{
			Network:     constants.HardhatNetwork,
			Deployments: deployments.New(client, store, contracts.Builtin(), logger),
			Accounts:    accounts,
			Logger:      logger,
		},
		Chain:  chain,
		Client: client,
		Store:  store,
	}, nil
}
