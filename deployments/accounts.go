package deployments

import (
	"crypto/ecdsa"
	"math/big"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/EscanBE/valueiou/constants"
	iotypes "github.com/EscanBE/valueiou/types"
)

// DefaultNamedAccounts maps account names to signer indexes.
var DefaultNamedAccounts = map[string]int{
	constants.DeployerAccount: 0,
}

// NamedAccounts holds the transaction signers of a network, by index and by name.
type NamedAccounts struct {
	signers []*bind.TransactOpts
	names   map[string]int
}

// NewNamedAccounts builds signers for keys. names maps account names to indexes into keys.
func NewNamedAccounts(chainID *big.Int, keys []*ecdsa.PrivateKey, names map[string]int) (*NamedAccounts, error) {
	accounts := &NamedAccounts{
		signers: make([]*bind.TransactOpts, len(keys)),
		names:   make(map[string]int, len(names)),
	}

	for i, key := range keys {
		opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, err
		}
		accounts.signers[i] = opts
	}

	for name, index := range names {
		if index < 0 || index >= len(keys) {
			return nil, errorsmod.Wrapf(iotypes.ErrUnknownAccount, "%s refers to account %d, only %d configured", name, index, len(keys))
		}
		accounts.names[name] = index
	}

	return accounts, nil
}

// Get returns the signer of a named account.
func (a *NamedAccounts) Get(name string) (*bind.TransactOpts, error) {
	index, found := a.names[name]
	if !found {
		return nil, errorsmod.Wrap(iotypes.ErrUnknownAccount, name)
	}
	return a.signers[index], nil
}

// Address returns the address of a named account.
func (a *NamedAccounts) Address(name string) (common.Address, error) {
	opts, err := a.Get(name)
	if err != nil {
		return common.Address{}, err
	}
	return opts.From, nil
}

// Signers returns all signers, in key order.
func (a *NamedAccounts) Signers() []*bind.TransactOpts {
	return a.signers
}

// Names returns the configured account names, sorted.
func (a *NamedAccounts) Names() []string {
	names := make([]string, 0, len(a.names))
	for name := range a.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
