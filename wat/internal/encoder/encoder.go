// Package encoder serializes an ast.Module to the wasm binary format.
package encoder

import (
	"fmt"

	"github.com/wippyai/ffi-smoke/wat/internal/ast"
)

const (
	secType   = 1
	secFunc   = 3
	secMemory = 5
	secGlobal = 6
	secExport = 7
	secCode   = 10
)

// Opcodes with no immediates.
var op0 = map[string]byte{
	"unreachable": 0x00, "nop": 0x01, "end": 0x0B, "return": 0x0F,
	"drop": 0x1A, "select": 0x1B,
	"i32.eqz": 0x45, "i32.eq": 0x46, "i32.ne": 0x47,
	"i32.lt_s": 0x48, "i32.lt_u": 0x49, "i32.gt_s": 0x4A, "i32.gt_u": 0x4B,
	"i32.le_s": 0x4C, "i32.le_u": 0x4D, "i32.ge_s": 0x4E, "i32.ge_u": 0x4F,
	"i32.add": 0x6A, "i32.sub": 0x6B, "i32.mul": 0x6C,
	"i32.div_s": 0x6D, "i32.div_u": 0x6E, "i32.rem_s": 0x6F, "i32.rem_u": 0x70,
	"i32.and": 0x71, "i32.or": 0x72, "i32.xor": 0x73,
	"i32.shl": 0x74, "i32.shr_s": 0x75, "i32.shr_u": 0x76,
}

// Opcodes followed by a single index immediate.
var opIdx = map[string]byte{
	"br": 0x0C, "br_if": 0x0D, "call": 0x10,
	"local.get": 0x20, "local.set": 0x21, "local.tee": 0x22,
	"global.get": 0x23, "global.set": 0x24,
}

// Opcodes followed by a memarg (align exponent, offset).
var opMem = map[string]byte{
	"i32.load": 0x28, "i32.store": 0x36,
}

var opBlock = map[string]byte{
	"block": 0x02, "loop": 0x03,
}

// Encode serializes m. The parser has already resolved names and validated
// structure, so the only errors here are instructions this encoder does not
// know about.
func Encode(m *ast.Module) ([]byte, error) {
	out := &buffer{}
	out.raw(0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00) // magic + version

	types, typeOf := collectTypes(m)

	typeSec := &buffer{}
	if len(types) > 0 {
		typeSec.uleb(uint64(len(types)))
		for _, ft := range types {
			typeSec.raw(0x60)
			typeSec.uleb(uint64(len(ft.Params)))
			for _, p := range ft.Params {
				typeSec.raw(byte(p))
			}
			typeSec.uleb(uint64(len(ft.Results)))
			for _, r := range ft.Results {
				typeSec.raw(byte(r))
			}
		}
	}
	out.section(secType, typeSec)

	funcSec := &buffer{}
	if len(m.Funcs) > 0 {
		funcSec.uleb(uint64(len(m.Funcs)))
		for i := range m.Funcs {
			funcSec.uleb(uint64(typeOf[i]))
		}
	}
	out.section(secFunc, funcSec)

	memSec := &buffer{}
	if len(m.Memories) > 0 {
		memSec.uleb(uint64(len(m.Memories)))
		for _, mem := range m.Memories {
			if mem.HasMax {
				memSec.raw(0x01)
				memSec.uleb(uint64(mem.Min))
				memSec.uleb(uint64(mem.Max))
			} else {
				memSec.raw(0x00)
				memSec.uleb(uint64(mem.Min))
			}
		}
	}
	out.section(secMemory, memSec)

	globalSec := &buffer{}
	if len(m.Globals) > 0 {
		globalSec.uleb(uint64(len(m.Globals)))
		for _, g := range m.Globals {
			globalSec.raw(byte(g.Type))
			if g.Mutable {
				globalSec.raw(0x01)
			} else {
				globalSec.raw(0x00)
			}
			if g.Type == ast.I64 {
				globalSec.raw(0x42)
				globalSec.sleb(g.Init)
			} else {
				globalSec.raw(0x41)
				globalSec.sleb(int64(int32(uint64(g.Init))))
			}
			globalSec.raw(0x0B)
		}
	}
	out.section(secGlobal, globalSec)

	exportSec := &buffer{}
	nExports := 0
	for _, f := range m.Funcs {
		if f.Export != "" {
			nExports++
		}
	}
	for _, mem := range m.Memories {
		if mem.Export != "" {
			nExports++
		}
	}
	if nExports > 0 {
		exportSec.uleb(uint64(nExports))
		for i, f := range m.Funcs {
			if f.Export != "" {
				exportSec.name(f.Export)
				exportSec.raw(0x00)
				exportSec.uleb(uint64(i))
			}
		}
		for i, mem := range m.Memories {
			if mem.Export != "" {
				exportSec.name(mem.Export)
				exportSec.raw(0x02)
				exportSec.uleb(uint64(i))
			}
		}
	}
	out.section(secExport, exportSec)

	codeSec := &buffer{}
	if len(m.Funcs) > 0 {
		codeSec.uleb(uint64(len(m.Funcs)))
		for _, f := range m.Funcs {
			body := &buffer{}
			encodeLocals(body, f.Locals)
			for _, in := range f.Body {
				if err := encodeInstr(body, in); err != nil {
					return nil, err
				}
			}
			body.raw(0x0B)
			codeSec.uleb(uint64(len(body.b)))
			codeSec.append(body)
		}
	}
	out.section(secCode, codeSec)

	return out.b, nil
}

// collectTypes dedupes function signatures into the type section and maps
// each func to its type index.
func collectTypes(m *ast.Module) ([]ast.FuncType, []int) {
	var types []ast.FuncType
	seen := make(map[string]int)
	typeOf := make([]int, len(m.Funcs))

	for i, f := range m.Funcs {
		key := typeKey(f.Type)
		idx, ok := seen[key]
		if !ok {
			idx = len(types)
			types = append(types, f.Type)
			seen[key] = idx
		}
		typeOf[i] = idx
	}
	return types, typeOf
}

func typeKey(ft ast.FuncType) string {
	key := make([]byte, 0, len(ft.Params)+len(ft.Results)+1)
	for _, p := range ft.Params {
		key = append(key, byte(p))
	}
	key = append(key, 0)
	for _, r := range ft.Results {
		key = append(key, byte(r))
	}
	return string(key)
}

// encodeLocals writes the run-length-compressed local declarations.
func encodeLocals(w *buffer, locals []ast.ValType) {
	type run struct {
		vt ast.ValType
		n  uint64
	}
	var runs []run
	for _, vt := range locals {
		if len(runs) > 0 && runs[len(runs)-1].vt == vt {
			runs[len(runs)-1].n++
			continue
		}
		runs = append(runs, run{vt: vt, n: 1})
	}

	w.uleb(uint64(len(runs)))
	for _, r := range runs {
		w.uleb(r.n)
		w.raw(byte(r.vt))
	}
}

func encodeInstr(w *buffer, in ast.Instr) error {
	switch {
	case in.Op == "i32.const":
		w.raw(0x41)
		w.sleb(int64(int32(uint64(in.Args[0]))))
	case in.Op == "i64.const":
		w.raw(0x42)
		w.sleb(in.Args[0])
	case opMem[in.Op] != 0:
		w.raw(opMem[in.Op])
		w.uleb(uint64(in.Args[0])) // align exponent
		w.uleb(uint64(in.Args[1])) // offset
	case opIdx[in.Op] != 0:
		w.raw(opIdx[in.Op])
		w.uleb(uint64(in.Args[0]))
	case opBlock[in.Op] != 0:
		w.raw(opBlock[in.Op], 0x40) // void block type
	default:
		op, ok := op0[in.Op]
		if !ok {
			return fmt.Errorf("encoder: unknown instruction %q", in.Op)
		}
		w.raw(op)
	}
	return nil
}
