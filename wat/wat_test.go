package wat

import (
	"strings"
	"testing"
)

// Integration tests for the public Compile() API.
// Unit tests live in the internal packages.

func TestCompile(t *testing.T) {
	t.Run("empty_module", func(t *testing.T) {
		wasm, err := Compile("(module)")
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(wasm) != 8 {
			t.Errorf("expected 8 bytes, got %d", len(wasm))
		}
		if wasm[0] != 0x00 || wasm[1] != 0x61 || wasm[2] != 0x73 || wasm[3] != 0x6D {
			t.Error("invalid WASM magic")
		}
		if wasm[4] != 0x01 || wasm[5] != 0x00 || wasm[6] != 0x00 || wasm[7] != 0x00 {
			t.Error("invalid WASM version")
		}
	})

	t.Run("simple_function", func(t *testing.T) {
		wasm, err := Compile(`(module
			(func (export "add") (param i32 i32) (result i32)
				(i32.add (local.get 0) (local.get 1))))`)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(wasm) != 41 {
			t.Errorf("expected 41 bytes, got %d", len(wasm))
		}
	})

	t.Run("multi_value_result", func(t *testing.T) {
		wasm, err := Compile(`(module
			(func (export "pair") (result i32 i32)
				(i32.const 3)
				(i32.const 43)))`)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(wasm) < 20 {
			t.Errorf("output too small: %d bytes", len(wasm))
		}
	})

	t.Run("memory_global_loop", func(t *testing.T) {
		_, err := Compile(`(module
			(memory (export "memory") 1)
			(global $heap (mut i32) (i32.const 16))
			(func (export "fill") (param $n i32) (local $i i32)
				(block $done
					(loop $next
						(br_if $done (i32.ge_u (local.get $i) (local.get $n)))
						(i32.store (local.get $i) (i32.const 0))
						(local.set $i (i32.add (local.get $i) (i32.const 4)))
						(br $next)))))`)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
	})

	t.Run("comments_stripped", func(t *testing.T) {
		wasm, err := Compile(`(module ;; line comment
			(; block (; nested ;) comment ;))`)
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		if len(wasm) != 8 {
			t.Errorf("expected 8 bytes, got %d", len(wasm))
		}
	})
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name, wat, wantErr string
	}{
		{"missing_module", "(func)", "expected 'module'"},
		{"unclosed", "(module", "unexpected end"},
		{"unknown_instr", "(module (func (bogus)))", "unknown instruction"},
		{"unknown_type", "(module (func (param bogus)))", "unknown value type"},
		{"unknown_label", "(module (func (block (br $x))))", "unknown label"},
		{"unknown_local", "(module (func (local.get $x)))", "unknown local"},
		{"unknown_func", "(module (func (call $missing)))", "unknown function"},
		{"unsupported_field", "(module (table 1 funcref))", "unsupported module field"},
		{"trailing_tokens", "(module) extra", "unexpected token after module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.wat)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
		})
	}
}
