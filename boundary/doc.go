// Package boundary hosts the foreign side of the program: a WebAssembly
// guest instantiated under wazero whose exports are the externally
// implemented functions the host declares.
//
// The caller describes the foreign functions as a WIT-style contract and
// loads the guest against it:
//
//	rt, _ := boundary.New(ctx)
//	mod, _ := rt.LoadWAT(ctx, guestSource, "entry-point: func() -> option<option<option<s32>>>;")
//	inst, err := mod.Instantiate(ctx) // link: every contract symbol must resolve
//
// Instantiate is the link step. A guest missing any declared function (or
// the memory/alloc ABI exports) fails with *errors.MissingExportsError
// before any call can be made; there is no runtime fallback.
package boundary
