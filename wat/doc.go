// Package wat compiles a subset of the WebAssembly Text format to binary
// WASM, so guest modules can be defined as readable text in-tree instead of
// shipping opaque .wasm files.
//
// Basic usage:
//
//	wasm, err := wat.Compile(`(module
//		(func (export "inc") (param i32) (result i32)
//			(i32.add (local.get 0) (i32.const 1)))
//	)`)
//
// Supported subset (what the embedded guest needs):
//   - Functions with named or indexed params and locals, inline exports,
//     multi-value results
//   - Memory declarations with inline export
//   - Mutable and immutable i32/i64 globals with const initializers
//   - Folded instructions: i32 arithmetic/comparison, i32.load/i32.store
//     with offset=/align= attributes, local.*, global.*, call, block/loop,
//     br, br_if, return, drop, select, i32.const, i64.const
//   - Line (;;) and nested block ((; ;)) comments
//
// Not supported: imports, tables, if/else, floats beyond type names, data
// and element sections, SIMD, reference types.
package wat
