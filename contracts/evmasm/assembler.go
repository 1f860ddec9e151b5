// Package evmasm assembles EVM bytecode from opcodes with symbolic jump labels.
package evmasm

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/core/vm"
)

// labelWidth is the immediate size of every label push, so label offsets stay
// stable while the program is still growing.
const labelWidth = 2

type labelRef struct {
	pos   int
	label string
}

// Program is an append-only EVM program under construction.
// Errors are sticky and reported by Bytes.
type Program struct {
	code   []byte
	labels map[string]int
	refs   []labelRef
	err    error
}

// New creates an empty program.
func New() *Program {
	return &Program{
		labels: make(map[string]int),
	}
}

// Len returns the current program size in bytes.
func (p *Program) Len() int {
	return len(p.code)
}

// Op appends opcodes without immediates.
func (p *Program) Op(ops ...vm.OpCode) *Program {
	for _, op := range ops {
		if op >= vm.PUSH1 && op <= vm.PUSH32 {
			p.setErr(fmt.Errorf("use Push for %s", op))
			continue
		}
		p.code = append(p.code, byte(op))
	}
	return p
}

// Push appends the smallest PUSHn holding value. Leading zero bytes are dropped,
// an empty or all-zero value is pushed as PUSH1 0x00.
func (p *Program) Push(value []byte) *Program {
	for len(value) > 0 && value[0] == 0 {
		value = value[1:]
	}
	if len(value) > 32 {
		p.setErr(fmt.Errorf("push value is %d bytes, max 32", len(value)))
		return p
	}
	if len(value) == 0 {
		value = []byte{0}
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(len(value)-1))
	p.code = append(p.code, value...)
	return p
}

// PushUint appends the smallest PUSHn holding v.
func (p *Program) PushUint(v uint64) *Program {
	bz := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		bz[i] = byte(v)
		v >>= 8
	}
	return p.Push(bz)
}

// PushLabel appends a PUSH2 of the offset of label, resolved by Bytes.
func (p *Program) PushLabel(label string) *Program {
	p.code = append(p.code, byte(vm.PUSH2))
	p.refs = append(p.refs, labelRef{pos: len(p.code), label: label})
	p.code = append(p.code, make([]byte, labelWidth)...)
	return p
}

// Label marks the current offset with a JUMPDEST named label.
func (p *Program) Label(label string) *Program {
	if _, found := p.labels[label]; found {
		p.setErr(fmt.Errorf("duplicate label %q", label))
		return p
	}
	p.labels[label] = len(p.code)
	p.code = append(p.code, byte(vm.JUMPDEST))
	return p
}

// Jump appends an unconditional jump to label.
func (p *Program) Jump(label string) *Program {
	return p.PushLabel(label).Op(vm.JUMP)
}

// JumpI appends a jump to label taken when the top of the stack is non-zero.
func (p *Program) JumpI(label string) *Program {
	return p.PushLabel(label).Op(vm.JUMPI)
}

// Bytes resolves labels and returns the assembled code.
func (p *Program) Bytes() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}

	code := make([]byte, len(p.code))
	copy(code, p.code)

	for _, ref := range p.refs {
		offset, found := p.labels[ref.label]
		if !found {
			return nil, fmt.Errorf("undefined label %q", ref.label)
		}
		if offset > math.MaxUint16 {
			return nil, fmt.Errorf("label %q at offset %d does not fit %d bytes", ref.label, offset, labelWidth)
		}
		code[ref.pos] = byte(offset >> 8)
		code[ref.pos+1] = byte(offset)
	}

	return code, nil
}

func (p *Program) setErr(err error) {
	if p.err == nil {
		p.err = err
	}
}

// DeployCode wraps runtime code into init code that copies it to memory and returns it.
func DeployCode(runtime []byte) ([]byte, error) {
	if len(runtime) > math.MaxUint16 {
		return nil, fmt.Errorf("runtime code is %d bytes, max %d", len(runtime), math.MaxUint16)
	}

	size := uint16(len(runtime))
	initCode := []byte{
		byte(vm.PUSH2), byte(size >> 8), byte(size),
		byte(vm.DUP1),
		byte(vm.PUSH1), 0x00, // offset of the runtime code, set below
		byte(vm.PUSH1), 0x00,
		byte(vm.CODECOPY),
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	initCode[5] = byte(len(initCode))

	return append(initCode, runtime...), nil
}
