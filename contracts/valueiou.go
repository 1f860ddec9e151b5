package contracts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/vm"

	"github.com/EscanBE/valueiou/artifacts"
	"github.com/EscanBE/valueiou/constants"
	"github.com/EscanBE/valueiou/contracts/evmasm"
)

// Storage layout of ValueIOU. Name and symbol hold at most 32 bytes each,
// stored as a length slot followed by a single data word.
const (
	slotInitialized = iota
	slotDecimals
	slotNameLength
	slotNameData
	slotSymbolLength
	slotSymbolData
)

// maxStringLength is the longest name or symbol initialize accepts.
const maxStringLength = 32

const (
	labelName       = "name"
	labelSymbol     = "symbol"
	labelDecimals   = "decimals"
	labelInitialize = "initialize"
	labelRevert     = "revert"
)

var (
	//go:embed ValueIOU.abi.json
	valueIOUABIJSON []byte

	// ValueIOUABI is the parsed ABI of the ValueIOU token.
	ValueIOUABI abi.ABI

	// ValueIOUArtifact is the compiled ValueIOU token.
	ValueIOUArtifact *artifacts.Artifact
)

func init() {
	var err error
	if ValueIOUABI, err = abi.JSON(bytes.NewReader(valueIOUABIJSON)); err != nil {
		panic(fmt.Sprintf("failed to parse ValueIOU ABI: %v", err))
	}

	runtimeCode, err := assembleValueIOU(ValueIOUABI)
	if err != nil {
		panic(fmt.Sprintf("failed to assemble ValueIOU: %v", err))
	}

	initCode, err := evmasm.DeployCode(runtimeCode)
	if err != nil {
		panic(fmt.Sprintf("failed to build ValueIOU init code: %v", err))
	}

	ValueIOUArtifact = &artifacts.Artifact{
		ContractName:     constants.ValueIOUContractName,
		ABI:              ValueIOUABI,
		RawABI:           json.RawMessage(valueIOUABIJSON),
		Bytecode:         initCode,
		DeployedBytecode: runtimeCode,
	}
}

// Builtin returns the artifacts compiled into this module.
func Builtin() artifacts.Source {
	return artifacts.Memory{
		constants.ValueIOUContractName: ValueIOUArtifact,
	}
}

func assembleValueIOU(contractABI abi.ABI) ([]byte, error) {
	p := evmasm.New()

	// none of the methods is payable
	p.Op(vm.CALLVALUE).JumpI(labelRevert)

	// selector = calldata[0:4]
	p.PushUint(0).Op(vm.CALLDATALOAD).PushUint(0xe0).Op(vm.SHR)
	for _, method := range []string{labelName, labelSymbol, labelDecimals, labelInitialize} {
		m, found := contractABI.Methods[method]
		if !found {
			return nil, fmt.Errorf("method %s not in ABI", method)
		}
		p.Op(vm.DUP1).Push(m.ID).Op(vm.EQ).JumpI(method)
	}
	p.Jump(labelRevert)

	p.Label(labelName)
	returnString(p, slotNameLength, slotNameData)

	p.Label(labelSymbol)
	returnString(p, slotSymbolLength, slotSymbolData)

	p.Label(labelDecimals)
	p.PushUint(slotDecimals).Op(vm.SLOAD).PushUint(0).Op(vm.MSTORE)
	p.PushUint(0x20).PushUint(0).Op(vm.RETURN)

	p.Label(labelInitialize)
	p.PushUint(slotInitialized).Op(vm.SLOAD).JumpI(labelRevert)
	p.PushUint(1).PushUint(slotInitialized).Op(vm.SSTORE)
	p.PushUint(0x44).Op(vm.CALLDATALOAD).PushUint(0xff).Op(vm.AND).PushUint(slotDecimals).Op(vm.SSTORE)
	storeString(p, 0x04, slotNameLength, slotNameData)
	storeString(p, 0x24, slotSymbolLength, slotSymbolData)
	p.Op(vm.STOP)

	p.Label(labelRevert)
	p.PushUint(0).Op(vm.DUP1, vm.REVERT)

	return p.Bytes()
}

// returnString returns the ABI encoding of a short string: offset, length, data word.
func returnString(p *evmasm.Program, lengthSlot, dataSlot uint64) {
	p.PushUint(0x20).PushUint(0x00).Op(vm.MSTORE)
	p.PushUint(lengthSlot).Op(vm.SLOAD).PushUint(0x20).Op(vm.MSTORE)
	p.PushUint(dataSlot).Op(vm.SLOAD).PushUint(0x40).Op(vm.MSTORE)
	p.PushUint(0x60).PushUint(0x00).Op(vm.RETURN)
}

// storeString copies the string argument whose head is at calldata offset argOffset.
// Strings longer than maxStringLength revert.
func storeString(p *evmasm.Program, argOffset, lengthSlot, dataSlot uint64) {
	// base = 4 + offset
	p.PushUint(argOffset).Op(vm.CALLDATALOAD).PushUint(0x04).Op(vm.ADD)
	// length = calldata[base]
	p.Op(vm.DUP1, vm.CALLDATALOAD)
	p.Op(vm.DUP1).PushUint(maxStringLength).Op(vm.LT).JumpI(labelRevert)
	p.PushUint(lengthSlot).Op(vm.SSTORE)
	// data = calldata[base+32]
	p.PushUint(0x20).Op(vm.ADD, vm.CALLDATALOAD).PushUint(dataSlot).Op(vm.SSTORE)
}
