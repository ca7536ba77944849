// Package smoke wires the host and the embedded guest into the smoke-test
// program: link the foreign functions, exercise them once, and print what
// came back.
package smoke

import (
	"context"
	"fmt"
	"io"

	"github.com/wippyai/ffi-smoke/boundary"
	"github.com/wippyai/ffi-smoke/guest"
	"github.com/wippyai/ffi-smoke/render"
)

// input is the sequence driven through the foreign mapping function.
var input = []int32{1, 2, 3}

const separator = ", "

// Run links the guest and writes exactly four lines to out:
//
//	1. the foreign entry point's triple-nested optional
//	2. the input sequence
//	3. the input mapped by the foreign function
//	4. the empty sequence mapped by the foreign function (an empty line)
//
// A load or link failure returns before anything is written; there is no
// partial output.
func Run(ctx context.Context, out io.Writer) error {
	rt, err := boundary.New(ctx)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWAT(ctx, guest.Source, guest.Contract)
	if err != nil {
		return err
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	nested, err := inst.TripleOptional(ctx, guest.FuncEntryPoint)
	if err != nil {
		return err
	}
	mapped, err := inst.MapInt32s(ctx, guest.FuncMapList, input)
	if err != nil {
		return err
	}
	empty, err := inst.MapInt32s(ctx, guest.FuncMapList, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, nested)
	fmt.Fprintln(out, render.List(input, separator))
	fmt.Fprintln(out, render.List(mapped, separator))
	fmt.Fprintln(out, render.List(empty, separator))
	return nil
}
