package boundary

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-smoke/errors"
	"github.com/wippyai/ffi-smoke/option"
)

// Guest ABI. Beyond the contract functions, the guest exports its linear
// memory and a bump allocator the host uses to place call arguments.
const (
	exportMemory = "memory"
	exportAlloc  = "alloc"

	// elemSize is the byte width of one s32 element in guest memory.
	elemSize = 4
)

type Instance struct {
	module *Module
	mod    api.Module
	memory api.Memory
	alloc  api.Function
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// TripleOptional invokes the nullary foreign function fn and decodes its
// (tag, payload) result into the four-variant nested optional.
func (i *Instance) TripleOptional(ctx context.Context, fn string) (option.TripleInt, error) {
	f, err := i.exported(fn)
	if err != nil {
		return option.TripleInt{}, err
	}

	res, err := f.Call(ctx)
	if err != nil {
		return option.TripleInt{}, errors.Wrap(errors.PhaseCall, errors.KindInvalidData, err, "call "+fn)
	}
	if len(res) != 2 {
		return option.TripleInt{}, errors.InvalidData(errors.PhaseDecode,
			fmt.Sprintf("%s returned %d values, want (tag, payload)", fn, len(res)))
	}

	v, err := option.Decode(uint32(res[0]), int32(uint32(res[1])))
	if err != nil {
		return option.TripleInt{}, err
	}

	Logger().Debug("foreign call", zap.String("func", fn), zap.Stringer("result", v))
	return v, nil
}

// MapInt32s passes xs through the foreign mapping function fn. The elements
// are written to guest memory, the guest returns (ptr, len) of the mapped
// sequence, and the result is read back positionally, so order is preserved
// by construction. A guest that changes the length breaks the contract and
// is reported as a call error. Empty input is a valid call and yields an
// empty slice.
func (i *Instance) MapInt32s(ctx context.Context, fn string, xs []int32) ([]int32, error) {
	f, err := i.exported(fn)
	if err != nil {
		return nil, err
	}

	var ptr uint32
	if len(xs) > 0 {
		ptr, err = i.allocBytes(ctx, uint32(len(xs)*elemSize))
		if err != nil {
			return nil, err
		}
		for k, v := range xs {
			if !i.memory.WriteUint32Le(ptr+uint32(k*elemSize), uint32(v)) {
				return nil, errors.InvalidData(errors.PhaseCall, "argument write out of bounds")
			}
		}
	}

	res, err := f.Call(ctx, uint64(ptr), uint64(len(xs)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindInvalidData, err, "call "+fn)
	}
	if len(res) != 2 {
		return nil, errors.InvalidData(errors.PhaseDecode,
			fmt.Sprintf("%s returned %d values, want (ptr, len)", fn, len(res)))
	}

	outPtr, outLen := uint32(res[0]), uint32(res[1])
	if int(outLen) != len(xs) {
		return nil, errors.LengthMismatch(errors.PhaseCall, fn, int(outLen), len(xs))
	}

	out := make([]int32, 0, outLen)
	for k := uint32(0); k < outLen; k++ {
		v, ok := i.memory.ReadUint32Le(outPtr + k*elemSize)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseDecode, "result read out of bounds")
		}
		out = append(out, int32(v))
	}

	Logger().Debug("foreign call", zap.String("func", fn), zap.Int("elements", len(out)))
	return out, nil
}

// exported resolves fn against the contract and the guest's exports. Linking
// already verified every contract symbol, so failures here mean the caller
// asked for a function outside the contract.
func (i *Instance) exported(fn string) (api.Function, error) {
	if _, ok := i.module.contract.Signature(fn); !ok {
		return nil, errors.NotFound(errors.PhaseCall, "contract function", fn)
	}
	f := i.mod.ExportedFunction(fn)
	if f == nil {
		return nil, errors.NotFound(errors.PhaseCall, "function", fn)
	}
	return f, nil
}

func (i *Instance) allocBytes(ctx context.Context, size uint32) (uint32, error) {
	res, err := i.alloc.Call(ctx, uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseCall, errors.KindInvalidData, err, "call "+exportAlloc)
	}
	if len(res) != 1 {
		return 0, errors.InvalidData(errors.PhaseCall, "alloc returned no pointer")
	}
	return uint32(res[0]), nil
}
