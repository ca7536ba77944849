// Package ast holds the module tree the parser produces and the encoder
// consumes. All symbolic names are already resolved to indices; instruction
// immediates are plain integers whose meaning depends on the opcode.
package ast

type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
	F32 ValType = 0x7D
	F64 ValType = 0x7C
)

type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Instr is a single flat instruction. Args carry resolved immediates:
// local/global/function indices, branch depths, constants, or memarg
// align/offset pairs.
type Instr struct {
	Op   string
	Args []int64
}

type Func struct {
	Name   string // $name without the sigil, or ""
	Export string // inline export name, or ""
	Type   FuncType
	Locals []ValType // declared locals, params excluded
	Body   []Instr   // without the trailing end
}

type Global struct {
	Name    string
	Type    ValType
	Mutable bool
	Init    int64 // i32.const / i64.const initializer
}

type Memory struct {
	Export string
	Min    uint32
	Max    uint32
	HasMax bool
}

type Module struct {
	Funcs    []*Func
	Globals  []*Global
	Memories []*Memory
}
