package main

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/EscanBE/valueiou/artifacts"
	"github.com/EscanBE/valueiou/config"
	"github.com/EscanBE/valueiou/contracts"
	"github.com/EscanBE/valueiou/deployments"
	"github.com/EscanBE/valueiou/devchain"
)

// network is a connection to the selected network.
type network struct {
	name    string
	rpc     *rpc.Client
	client  *ethclient.Client
	chainID *big.Int
	keys    []*ecdsa.PrivateKey

	// chain is set when the network is a devchain started by this process.
	chain *devchain.Chain
}

func connect(ctx context.Context, cfg config.Config, logger log.Logger) (*network, error) {
	netCfg, err := cfg.NetworkConfig(cfg.Network)
	if err != nil {
		return nil, err
	}

	n := &network{name: cfg.Network}
	if netCfg.InProcess() {
		n.chain, err = devchain.New(devchain.Config{Logger: logger})
		if err != nil {
			return nil, err
		}
		n.rpc = n.chain.Client()
		for _, account := range n.chain.Accounts() {
			n.keys = append(n.keys, account.Key)
		}
	} else {
		if n.keys, err = netCfg.Keys(); err != nil {
			return nil, err
		}
		if n.rpc, err = rpc.DialContext(ctx, netCfg.URL); err != nil {
			return nil, err
		}
	}
	n.client = ethclient.NewClient(n.rpc)

	if n.chainID, err = n.client.ChainID(ctx); err != nil {
		n.Close()
		return nil, err
	}
	logger.Debug("connected", "network", n.name, "chain-id", n.chainID.String())
	return n, nil
}

func (n *network) Close() {
	n.client.Close()
	if n.chain != nil {
		_ = n.chain.Close()
	}
}

func (n *network) environment(cfg config.Config, logger log.Logger) (*deployments.Environment, deployments.Store, error) {
	var (
		store deployments.Store
		err   error
	)
	if n.chain != nil {
		store = deployments.NewMemoryStore()
	} else if store, err = deployments.OpenFileStore(cfg.DeploymentsDir, n.name, n.chainID); err != nil {
		return nil, nil, err
	}

	var source artifacts.Source = contracts.Builtin()
	if cfg.ArtifactsDir != "" {
		source = artifacts.Multi{artifacts.Dir(cfg.ArtifactsDir), source}
	}

	accounts, err := deployments.NewNamedAccounts(n.chainID, n.keys, deployments.DefaultNamedAccounts)
	if err != nil {
		return nil, nil, err
	}

	return &deployments.Environment{
		Network:     n.name,
		Deployments: deployments.New(n.client, store, source, logger),
		Accounts:    accounts,
		Logger:      logger,
	}, store, nil
}
