// Package guest carries the foreign half of the smoke test: a wasm module
// authored in WAT plus the contract the host links it against.
package guest

import _ "embed"

// Source is the guest's WAT text, compiled at load time.
//
//go:embed guest.wat
var Source string

// Names of the foreign functions the contract declares.
const (
	FuncEntryPoint = "entry-point"
	FuncMapList    = "map-list"
)

// Contract declares the foreign functions in WIT form. The host depends on
// these signatures and their invariants (map-list preserves length and
// order), never on how the guest computes anything.
const Contract = `
entry-point: func() -> option<option<option<s32>>>;
map-list: func(xs: list<s32>) -> list<s32>;
`
