package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	iotypes "github.com/EscanBE/valueiou/types"
)

const fooArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "Foo",
  "sourceName": "contracts/Foo.sol",
  "abi": [
    {"inputs":[],"name":"foo","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
  ],
  "bytecode": "0x600160005260206000f3",
  "deployedBytecode": "0x",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

func writeArtifact(t *testing.T, dir, rel, content string) {
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "pass - hardhat artifact",
			input: fooArtifact,
		},
		{
			name:    "fail - malformed json",
			input:   `{"abi": [`,
			wantErr: true,
		},
		{
			name:    "fail - abi is not an array",
			input:   `{"abi": {}, "bytecode": "0x6001"}`,
			wantErr: true,
		},
		{
			name:    "fail - missing bytecode",
			input:   `{"abi": []}`,
			wantErr: true,
		},
		{
			name:    "fail - bytecode is not hex",
			input:   `{"abi": [], "bytecode": "0xzz"}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			artifact, err := Parse([]byte(tc.input))
			if tc.wantErr {
				require.ErrorIs(t, err, iotypes.ErrInvalidArtifact)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "Foo", artifact.ContractName)
			require.Contains(t, artifact.ABI.Methods, "foo")
			require.Equal(t, []byte{0x60, 0x01, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}, artifact.Bytecode)
			require.Empty(t, artifact.DeployedBytecode)
			require.JSONEq(t, `[{"inputs":[],"name":"foo","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`, string(artifact.RawABI))
		})
	}
}

func TestDir_Artifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "contracts/Foo.sol/Foo.json", fooArtifact)
	writeArtifact(t, dir, "contracts/Foo.sol/Foo.dbg.json", `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/x.json"}`)

	t.Run("pass - finds artifact by contract name", func(t *testing.T) {
		artifact, err := Dir(dir).Artifact("Foo")
		require.NoError(t, err)
		require.Equal(t, "Foo", artifact.ContractName)
	})

	t.Run("fail - unknown contract", func(t *testing.T) {
		_, err := Dir(dir).Artifact("Bar")
		require.ErrorIs(t, err, iotypes.ErrArtifactNotFound)
	})

	t.Run("fail - missing directory", func(t *testing.T) {
		_, err := Dir(filepath.Join(dir, "missing")).Artifact("Foo")
		require.ErrorIs(t, err, iotypes.ErrArtifactNotFound)
	})
}

func TestMulti_Artifact(t *testing.T) {
	foo, err := Parse([]byte(fooArtifact))
	require.NoError(t, err)

	dir := t.TempDir()
	writeArtifact(t, dir, "Broken.json", `{"abi": 1}`)

	source := Multi{
		Memory{},
		Dir(dir),
		Memory{"Foo": foo},
	}

	got, err := source.Artifact("Foo")
	require.NoError(t, err)
	require.Same(t, foo, got)

	_, err = source.Artifact("Missing")
	require.ErrorIs(t, err, iotypes.ErrArtifactNotFound)

	_, err = source.Artifact("Broken")
	require.ErrorIs(t, err, iotypes.ErrInvalidArtifact)
}
