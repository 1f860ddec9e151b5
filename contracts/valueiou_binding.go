package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ValueIOU is a Go binding of a deployed ValueIOU token.
type ValueIOU struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewValueIOU binds the ValueIOU token deployed at address.
func NewValueIOU(address common.Address, backend bind.ContractBackend) *ValueIOU {
	return &ValueIOU{
		address:  address,
		contract: bind.NewBoundContract(address, ValueIOUABI, backend, backend, backend),
	}
}

// DeployValueIOU deploys a new, uninitialized ValueIOU token.
func DeployValueIOU(opts *bind.TransactOpts, backend bind.ContractBackend) (common.Address, *ethtypes.Transaction, *ValueIOU, error) {
	address, tx, contract, err := bind.DeployContract(opts, ValueIOUABI, ValueIOUArtifact.Bytecode, backend)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return address, tx, &ValueIOU{address: address, contract: contract}, nil
}

// Address returns the address the binding is attached to.
func (c *ValueIOU) Address() common.Address {
	return c.address
}

func (c *ValueIOU) Name(opts *bind.CallOpts) (string, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "name"); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *ValueIOU) Symbol(opts *bind.CallOpts) (string, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "symbol"); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (c *ValueIOU) Decimals(opts *bind.CallOpts) (uint8, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "decimals"); err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// Initialize sets name, symbol and decimals. It reverts when called twice.
func (c *ValueIOU) Initialize(opts *bind.TransactOpts, name, symbol string, decimals uint8) (*ethtypes.Transaction, error) {
	return c.contract.Transact(opts, "initialize", name, symbol, decimals)
}
