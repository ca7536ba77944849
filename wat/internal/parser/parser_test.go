package parser

import (
	"testing"

	"github.com/wippyai/ffi-smoke/wat/internal/ast"
	"github.com/wippyai/ffi-smoke/wat/internal/token"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := New(token.Tokenize(src)).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return mod
}

func TestParse_FuncSignature(t *testing.T) {
	mod := parse(t, `(module
		(func $inc (export "inc") (param $x i32) (result i32)
			(local $tmp i32)
			(i32.add (local.get $x) (i32.const 1))))`)

	if len(mod.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(mod.Funcs))
	}
	fn := mod.Funcs[0]
	if fn.Name != "inc" || fn.Export != "inc" {
		t.Errorf("name=%q export=%q", fn.Name, fn.Export)
	}
	if len(fn.Type.Params) != 1 || fn.Type.Params[0] != ast.I32 {
		t.Errorf("params = %v", fn.Type.Params)
	}
	if len(fn.Type.Results) != 1 || fn.Type.Results[0] != ast.I32 {
		t.Errorf("results = %v", fn.Type.Results)
	}
	if len(fn.Locals) != 1 || fn.Locals[0] != ast.I32 {
		t.Errorf("locals = %v", fn.Locals)
	}
}

func TestParse_FoldedOperandOrder(t *testing.T) {
	mod := parse(t, `(module
		(func (param $x i32) (result i32)
			(i32.add (local.get $x) (i32.const 1))))`)

	body := mod.Funcs[0].Body
	want := []ast.Instr{
		{Op: "local.get", Args: []int64{0}},
		{Op: "i32.const", Args: []int64{1}},
		{Op: "i32.add"},
	}
	assertBody(t, body, want)
}

func TestParse_LabelDepths(t *testing.T) {
	mod := parse(t, `(module
		(func (param $n i32)
			(block $done
				(loop $next
					(br_if $done (local.get $n))
					(br $next)))))`)

	body := mod.Funcs[0].Body
	want := []ast.Instr{
		{Op: "block"},
		{Op: "loop"},
		{Op: "local.get", Args: []int64{0}},
		{Op: "br_if", Args: []int64{1}}, // $done is one level out
		{Op: "br", Args: []int64{0}},    // $next is the loop itself
		{Op: "end"},
		{Op: "end"},
	}
	assertBody(t, body, want)
}

func TestParse_CallByName(t *testing.T) {
	// $callee is declared after its caller; the first pass must resolve it.
	mod := parse(t, `(module
		(func $caller (call $callee))
		(func $callee))`)

	body := mod.Funcs[0].Body
	want := []ast.Instr{{Op: "call", Args: []int64{1}}}
	assertBody(t, body, want)
}

func TestParse_MemArg(t *testing.T) {
	mod := parse(t, `(module
		(func (param $p i32)
			(i32.store offset=8 align=4 (local.get $p) (i32.const 0))))`)

	body := mod.Funcs[0].Body
	want := []ast.Instr{
		{Op: "local.get", Args: []int64{0}},
		{Op: "i32.const", Args: []int64{0}},
		{Op: "i32.store", Args: []int64{2, 8}}, // align exponent 2, offset 8
	}
	assertBody(t, body, want)
}

func TestParse_Global(t *testing.T) {
	mod := parse(t, `(module
		(global $heap (mut i32) (i32.const 16))
		(global i32 (i32.const 0))
		(func (global.set $heap (global.get $heap))))`)

	if len(mod.Globals) != 2 {
		t.Fatalf("got %d globals, want 2", len(mod.Globals))
	}
	g := mod.Globals[0]
	if g.Name != "heap" || !g.Mutable || g.Type != ast.I32 || g.Init != 16 {
		t.Errorf("global[0] = %+v", g)
	}
	if mod.Globals[1].Mutable {
		t.Error("global[1] should be immutable")
	}

	body := mod.Funcs[0].Body
	want := []ast.Instr{
		{Op: "global.get", Args: []int64{0}},
		{Op: "global.set", Args: []int64{0}},
	}
	assertBody(t, body, want)
}

func TestParse_Memory(t *testing.T) {
	mod := parse(t, `(module (memory (export "memory") 1 4))`)

	if len(mod.Memories) != 1 {
		t.Fatalf("got %d memories, want 1", len(mod.Memories))
	}
	mem := mod.Memories[0]
	if mem.Export != "memory" || mem.Min != 1 || !mem.HasMax || mem.Max != 4 {
		t.Errorf("memory = %+v", mem)
	}
}

func assertBody(t *testing.T, got, want []ast.Instr) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("body has %d instrs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Op != want[i].Op {
			t.Errorf("instr[%d].Op = %q, want %q", i, got[i].Op, want[i].Op)
			continue
		}
		if len(got[i].Args) != len(want[i].Args) {
			t.Errorf("instr[%d].Args = %v, want %v", i, got[i].Args, want[i].Args)
			continue
		}
		for j := range want[i].Args {
			if got[i].Args[j] != want[i].Args[j] {
				t.Errorf("instr[%d].Args[%d] = %d, want %d", i, j, got[i].Args[j], want[i].Args[j])
			}
		}
	}
}
