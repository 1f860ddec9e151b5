package devchain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// defaultAccountKeys are the well known hardhat network development keys,
// derived from the "test test test ... junk" mnemonic.
//
//goland:noinspection SpellCheckingInspection
var defaultAccountKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
}

// DefaultBalance is the genesis balance of every development account, 10000 ether.
var DefaultBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// Account is a funded development account.
type Account struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewAccount builds an Account from a private key.
func NewAccount(key *ecdsa.PrivateKey) Account {
	return Account{
		Key:     key,
		Address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// DefaultAccountKeys returns fresh copies of the development private keys.
func DefaultAccountKeys() []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, len(defaultAccountKeys))
	for i, hexKey := range defaultAccountKeys {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			panic(fmt.Sprintf("invalid development key %d: %v", i, err))
		}
		keys[i] = key
	}
	return keys
}

// DefaultAccountKeyHexes returns the development private keys hex encoded, with 0x prefix.
func DefaultAccountKeyHexes() []string {
	hexes := make([]string, len(defaultAccountKeys))
	for i, hexKey := range defaultAccountKeys {
		hexes[i] = "0x" + hexKey
	}
	return hexes
}
