package deployments

import (
	"encoding/json"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	iotypes "github.com/EscanBE/valueiou/types"
)

// Receipt is the part of the deployment receipt kept in the record.
type Receipt struct {
	From            common.Address
	ContractAddress common.Address
	BlockNumber     uint64
	GasUsed         uint64
	Status          uint64
}

// Deployment is the record of a deployed contract.
type Deployment struct {
	Name             string
	Address          common.Address
	ABI              abi.ABI
	RawABI           json.RawMessage
	TransactionHash  common.Hash
	Receipt          *Receipt
	Args             []interface{}
	Bytecode         []byte
	DeployedBytecode []byte
}

// Marshal encodes the record in the hardhat-deploy deployment file layout.
func (d *Deployment) Marshal() ([]byte, error) {
	args := d.Args
	if args == nil {
		args = []interface{}{}
	}
	argsBz, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode constructor args")
	}

	rawABI := d.RawABI
	if len(rawABI) == 0 {
		rawABI = json.RawMessage("[]")
	}

	bz := []byte("{}")
	set := func(path string, value interface{}) {
		if err == nil {
			bz, err = sjson.SetBytes(bz, path, value)
		}
	}
	setRaw := func(path string, value []byte) {
		if err == nil {
			bz, err = sjson.SetRawBytes(bz, path, value)
		}
	}

	set("address", d.Address.Hex())
	setRaw("abi", rawABI)
	set("transactionHash", d.TransactionHash.Hex())
	if d.Receipt != nil {
		set("receipt.from", d.Receipt.From.Hex())
		set("receipt.contractAddress", d.Receipt.ContractAddress.Hex())
		set("receipt.blockNumber", d.Receipt.BlockNumber)
		set("receipt.gasUsed", d.Receipt.GasUsed)
		set("receipt.status", d.Receipt.Status)
	}
	setRaw("args", argsBz)
	set("bytecode", hexutil.Encode(d.Bytecode))
	set("deployedBytecode", hexutil.Encode(d.DeployedBytecode))

	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode deployment %s", d.Name)
	}
	return bz, nil
}

// Unmarshal decodes a record written by Marshal, or by hardhat-deploy.
func Unmarshal(name string, bz []byte) (*Deployment, error) {
	if !gjson.ValidBytes(bz) {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployment %s: malformed json", name)
	}
	doc := gjson.ParseBytes(bz)

	address := doc.Get("address").String()
	if !common.IsHexAddress(address) {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployment %s: bad address %q", name, address)
	}

	rawABI := doc.Get("abi")
	if !rawABI.IsArray() {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployment %s: abi must be an array", name)
	}
	parsedABI, err := abi.JSON(strings.NewReader(rawABI.Raw))
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployment %s: %v", name, err)
	}

	deployment := &Deployment{
		Name:            name,
		Address:         common.HexToAddress(address),
		ABI:             parsedABI,
		RawABI:          json.RawMessage(rawABI.Raw),
		TransactionHash: common.HexToHash(doc.Get("transactionHash").String()),
	}

	if receipt := doc.Get("receipt"); receipt.IsObject() {
		deployment.Receipt = &Receipt{
			From:            common.HexToAddress(receipt.Get("from").String()),
			ContractAddress: common.HexToAddress(receipt.Get("contractAddress").String()),
			BlockNumber:     receipt.Get("blockNumber").Uint(),
			GasUsed:         receipt.Get("gasUsed").Uint(),
			Status:          receipt.Get("status").Uint(),
		}
	}

	if args, ok := doc.Get("args").Value().([]interface{}); ok {
		deployment.Args = args
	}

	for path, dst := range map[string]*[]byte{
		"bytecode":         &deployment.Bytecode,
		"deployedBytecode": &deployment.DeployedBytecode,
	} {
		s := doc.Get(path).String()
		if s == "" || s == "0x" {
			continue
		}
		if *dst, err = hexutil.Decode(s); err != nil {
			return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployment %s: %s: %v", name, path, err)
		}
	}

	return deployment, nil
}
