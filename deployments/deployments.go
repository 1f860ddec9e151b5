package deployments

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/EscanBE/valueiou/artifacts"
	"github.com/EscanBE/valueiou/chainutil"
	iotypes "github.com/EscanBE/valueiou/types"
)

// Backend is the chain connection deployments are made through. *ethclient.Client implements it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// DeployOptions configures Deploy.
type DeployOptions struct {
	// Contract is the artifact name. Defaults to the deployment name.
	Contract string

	From *bind.TransactOpts
	Args []interface{}

	// SkipIfAlreadyDeployed reuses an existing record as long as its address has code.
	SkipIfAlreadyDeployed bool

	Log bool
}

// DeployResult is the outcome of Deploy.
type DeployResult struct {
	*Deployment

	// NewlyDeployed is false when an existing deployment was reused.
	NewlyDeployed bool
}

// ExecuteOptions configures Execute.
type ExecuteOptions struct {
	From *bind.TransactOpts
	Log  bool
}

// Deployments deploys contracts from artifacts and keeps their records.
type Deployments struct {
	backend   Backend
	store     Store
	artifacts artifacts.Source
	logger    log.Logger
}

// New creates a Deployments manager.
func New(backend Backend, store Store, source artifacts.Source, logger log.Logger) *Deployments {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Deployments{
		backend:   backend,
		store:     store,
		artifacts: source,
		logger:    logger.With("module", "deployments"),
	}
}

// Backend returns the chain connection.
func (d *Deployments) Backend() Backend {
	return d.backend
}

// Deploy deploys the contract named by opts.Contract and records it as name.
func (d *Deployments) Deploy(ctx context.Context, name string, opts DeployOptions) (*DeployResult, error) {
	if opts.From == nil {
		return nil, errorsmod.Wrapf(iotypes.ErrUnknownAccount, "no sender to deploy %s", name)
	}

	contractName := opts.Contract
	if contractName == "" {
		contractName = name
	}

	if opts.SkipIfAlreadyDeployed {
		existing, err := d.store.Get(name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			code, err := d.backend.CodeAt(ctx, existing.Address, nil)
			if err != nil {
				return nil, err
			}
			if len(code) > 0 {
				if opts.Log {
					d.logger.Info("reusing deployment", "name", name, "address", existing.Address.Hex())
				}
				return &DeployResult{Deployment: existing}, nil
			}
			d.logger.Warn("recorded deployment has no code, deploying again", "name", name, "address", existing.Address.Hex())
		}
	}

	artifact, err := d.artifacts.Artifact(contractName)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(withContext(ctx, opts.From), artifact.ABI, artifact.Bytecode, d.backend, opts.Args...)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "failed to deploy %s", name)
	}
	if opts.Log {
		d.logger.Info("deploying", "name", name, "contract", contractName, "tx", tx.Hash().Hex())
	}

	receipt, err := d.waitMined(ctx, tx)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "deployment of %s", name)
	}

	deployment := &Deployment{
		Name:            name,
		Address:         address,
		ABI:             artifact.ABI,
		RawABI:          artifact.RawABI,
		TransactionHash: tx.Hash(),
		Receipt: &Receipt{
			From:            opts.From.From,
			ContractAddress: receipt.ContractAddress,
			BlockNumber:     receipt.BlockNumber.Uint64(),
			GasUsed:         receipt.GasUsed,
			Status:          receipt.Status,
		},
		Args:             opts.Args,
		Bytecode:         artifact.Bytecode,
		DeployedBytecode: artifact.DeployedBytecode,
	}
	if err := d.store.Save(deployment); err != nil {
		return nil, err
	}

	if opts.Log {
		chainutil.LogDeployedContract(d.logger, name, address, tx.Hash())
		d.logger.Info("deployment gas", "name", name, "gas", receipt.GasUsed)
	}

	return &DeployResult{Deployment: deployment, NewlyDeployed: true}, nil
}

// Get returns the record of name, ErrDeploymentNotFound when there is none.
func (d *Deployments) Get(name string) (*Deployment, error) {
	deployment, err := d.store.Get(name)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		return nil, errorsmod.Wrap(iotypes.ErrDeploymentNotFound, name)
	}
	return deployment, nil
}

// GetOrNull returns the record of name, or nil when there is none.
func (d *Deployments) GetOrNull(name string) (*Deployment, error) {
	return d.store.Get(name)
}

// IsDeployed reports whether name has a record with an address.
func (d *Deployments) IsDeployed(name string) (bool, error) {
	deployment, err := d.store.Get(name)
	if err != nil {
		return false, err
	}
	return deployment != nil && deployment.Address != (common.Address{}), nil
}

// IsNotDeployed is the negation of IsDeployed.
func (d *Deployments) IsNotDeployed(name string) (bool, error) {
	deployed, err := d.IsDeployed(name)
	return !deployed, err
}

// Read calls a view method of a deployed contract and returns its decoded outputs.
func (d *Deployments) Read(ctx context.Context, name, method string, args ...interface{}) ([]interface{}, error) {
	contract, err := d.bind(name)
	if err != nil {
		return nil, err
	}

	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, errorsmod.Wrapf(err, "failed to read %s.%s", name, method)
	}
	return out, nil
}

// Execute sends a transaction calling method of a deployed contract and waits for it to be mined.
func (d *Deployments) Execute(ctx context.Context, name string, opts ExecuteOptions, method string, args ...interface{}) (*ethtypes.Receipt, error) {
	if opts.From == nil {
		return nil, errorsmod.Wrapf(iotypes.ErrUnknownAccount, "no sender to execute %s.%s", name, method)
	}

	contract, err := d.bind(name)
	if err != nil {
		return nil, err
	}

	tx, err := contract.Transact(withContext(ctx, opts.From), method, args...)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "failed to execute %s.%s", name, method)
	}
	if opts.Log {
		d.logger.Info("executing", "name", name, "method", method, "tx", tx.Hash().Hex())
	}

	receipt, err := d.waitMined(ctx, tx)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "%s.%s", name, method)
	}
	if opts.Log {
		d.logger.Info("executed", "name", name, "method", method, "gas", receipt.GasUsed)
	}
	return receipt, nil
}

// Log writes an informational message to the deployments logger.
func (d *Deployments) Log(msg string, keyVals ...interface{}) {
	d.logger.Info(msg, keyVals...)
}

func (d *Deployments) bind(name string) (*bind.BoundContract, error) {
	deployment, err := d.Get(name)
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(deployment.Address, deployment.ABI, d.backend, d.backend, d.backend), nil
}

func (d *Deployments) waitMined(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return nil, errorsmod.Wrapf(iotypes.ErrTransactionFailed, "tx %s in block %d", tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// withContext returns a copy of opts bound to ctx.
func withContext(ctx context.Context, opts *bind.TransactOpts) *bind.TransactOpts {
	res := *opts
	res.Context = ctx
	return &res
}

func (r *DeployResult) String() string {
	return fmt.Sprintf("%s at %s (newly deployed: %t)", r.Name, r.Address.Hex(), r.NewlyDeployed)
}
