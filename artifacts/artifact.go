package artifacts

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tidwall/gjson"

	iotypes "github.com/EscanBE/valueiou/types"
)

// Artifact is a compiled contract in the hardhat artifact layout.
type Artifact struct {
	ContractName     string
	ABI              abi.ABI
	RawABI           json.RawMessage
	Bytecode         []byte
	DeployedBytecode []byte
}

// Source provides artifacts by contract name.
type Source interface {
	Artifact(name string) (*Artifact, error)
}

// Parse decodes a hardhat artifact JSON document.
func Parse(bz []byte) (*Artifact, error) {
	if !gjson.ValidBytes(bz) {
		return nil, errorsmod.Wrap(iotypes.ErrInvalidArtifact, "malformed json")
	}

	doc := gjson.ParseBytes(bz)

	rawABI := doc.Get("abi")
	if !rawABI.IsArray() {
		return nil, errorsmod.Wrap(iotypes.ErrInvalidArtifact, "abi must be an array")
	}

	parsedABI, err := abi.JSON(strings.NewReader(rawABI.Raw))
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "failed to parse abi: %v", err)
	}

	bytecode, err := decodeHex(doc.Get("bytecode"))
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "bytecode: %v", err)
	}
	if len(bytecode) == 0 {
		return nil, errorsmod.Wrap(iotypes.ErrInvalidArtifact, "empty bytecode")
	}

	deployedBytecode, err := decodeHex(doc.Get("deployedBytecode"))
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrInvalidArtifact, "deployedBytecode: %v", err)
	}

	return &Artifact{
		ContractName:     doc.Get("contractName").String(),
		ABI:              parsedABI,
		RawABI:           json.RawMessage(rawABI.Raw),
		Bytecode:         bytecode,
		DeployedBytecode: deployedBytecode,
	}, nil
}

func decodeHex(res gjson.Result) ([]byte, error) {
	if !res.Exists() || res.String() == "" || res.String() == "0x" {
		return nil, nil
	}
	return hexutil.Decode(res.String())
}

// Dir finds artifacts by file name below a hardhat artifacts directory,
// eg. artifacts/contracts/ValueIOU.sol/ValueIOU.json.
type Dir string

var _ Source = Dir("")

func (d Dir) Artifact(name string) (*Artifact, error) {
	var found string
	err := filepath.WalkDir(string(d), func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || found != "" {
			return nil
		}
		if entry.Name() == name+".json" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, errorsmod.Wrapf(iotypes.ErrArtifactNotFound, "failed to walk %s: %v", string(d), err)
	}
	if found == "" {
		return nil, errorsmod.Wrapf(iotypes.ErrArtifactNotFound, "%s in %s", name, string(d))
	}

	bz, err := os.ReadFile(found)
	if err != nil {
		return nil, errorsmod.Wrapf(iotypes.ErrArtifactNotFound, "failed to read %s: %v", found, err)
	}

	artifact, err := Parse(bz)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "artifact %s", found)
	}
	if artifact.ContractName == "" {
		artifact.ContractName = name
	}
	return artifact, nil
}

// Multi returns the artifact of the first source that has it.
type Multi []Source

var _ Source = Multi(nil)

func (m Multi) Artifact(name string) (*Artifact, error) {
	for _, source := range m {
		artifact, err := source.Artifact(name)
		if err == nil {
			return artifact, nil
		}
		if !errors.Is(err, iotypes.ErrArtifactNotFound) {
			return nil, err
		}
	}
	return nil, errorsmod.Wrap(iotypes.ErrArtifactNotFound, name)
}

// Memory is a fixed set of artifacts keyed by contract name.
type Memory map[string]*Artifact

var _ Source = Memory(nil)

func (m Memory) Artifact(name string) (*Artifact, error) {
	artifact, found := m[name]
	if !found {
		return nil, errorsmod.Wrap(iotypes.ErrArtifactNotFound, name)
	}
	return artifact, nil
}
