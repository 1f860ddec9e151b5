package evmasm

import (
	"testing"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/stretchr/testify/require"
)

func TestProgram_Push(t *testing.T) {
	testCases := []struct {
		name string
		prog *Program
		want []byte
	}{
		{
			name: "zero is pushed as PUSH1 0x00",
			prog: New().PushUint(0),
			want: []byte{byte(vm.PUSH1), 0x00},
		},
		{
			name: "one byte value",
			prog: New().PushUint(0xe0),
			want: []byte{byte(vm.PUSH1), 0xe0},
		},
		{
			name: "two bytes value",
			prog: New().PushUint(0x1234),
			want: []byte{byte(vm.PUSH2), 0x12, 0x34},
		},
		{
			name: "leading zero bytes are dropped",
			prog: New().Push([]byte{0x00, 0x00, 0x06, 0xfd, 0xde}),
			want: []byte{byte(vm.PUSH3), 0x06, 0xfd, 0xde},
		},
		{
			name: "empty value",
			prog: New().Push(nil),
			want: []byte{byte(vm.PUSH1), 0x00},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.prog.Bytes()
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestProgram_Labels(t *testing.T) {
	t.Run("pass - forward jump is resolved", func(t *testing.T) {
		got, err := New().Jump("end").Op(vm.STOP).Label("end").Bytes()
		require.NoError(t, err)
		require.Equal(t, []byte{
			byte(vm.PUSH2), 0x00, 0x05,
			byte(vm.JUMP),
			byte(vm.STOP),
			byte(vm.JUMPDEST),
		}, got)
	})

	t.Run("pass - backward conditional jump is resolved", func(t *testing.T) {
		got, err := New().Label("loop").PushUint(1).JumpI("loop").Bytes()
		require.NoError(t, err)
		require.Equal(t, []byte{
			byte(vm.JUMPDEST),
			byte(vm.PUSH1), 0x01,
			byte(vm.PUSH2), 0x00, 0x00,
			byte(vm.JUMPI),
		}, got)
	})

	t.Run("fail - undefined label", func(t *testing.T) {
		_, err := New().Jump("missing").Bytes()
		require.ErrorContains(t, err, "undefined label")
	})

	t.Run("fail - duplicate label", func(t *testing.T) {
		_, err := New().Label("a").Label("a").Bytes()
		require.ErrorContains(t, err, "duplicate label")
	})

	t.Run("fail - push opcode via Op", func(t *testing.T) {
		_, err := New().Op(vm.PUSH1).Bytes()
		require.Error(t, err)
	})

	t.Run("fail - push value too large", func(t *testing.T) {
		bz := make([]byte, 33)
		bz[0] = 1
		_, err := New().Push(bz).Bytes()
		require.Error(t, err)
	})
}

func TestDeployCode(t *testing.T) {
	runtimeCode, err := New().PushUint(0x2a).PushUint(0).Op(vm.MSTORE).PushUint(0x20).PushUint(0).Op(vm.RETURN).Bytes()
	require.NoError(t, err)

	initCode, err := DeployCode(runtimeCode)
	require.NoError(t, err)
	require.Len(t, initCode, 12+len(runtimeCode))

	code, _, _, err := runtime.Create(initCode, nil)
	require.NoError(t, err)
	require.Equal(t, runtimeCode, code)

	ret, _, err := runtime.Execute(runtimeCode, nil, nil)
	require.NoError(t, err)
	require.Len(t, ret, 32)
	require.Equal(t, byte(0x2a), ret[31])
}
