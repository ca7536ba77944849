package boundary

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-smoke/errors"
	"github.com/wippyai/ffi-smoke/wat"
)

type Runtime struct {
	rt wazero.Runtime
}

func New(ctx context.Context) (*Runtime, error) {
	return &Runtime{rt: wazero.NewRuntime(ctx)}, nil
}

// Close releases all runtime resources.
// All instances must be closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// LoadWAT compiles WAT source and loads it against the contract in witText.
func (r *Runtime) LoadWAT(ctx context.Context, watText, witText string) (*Module, error) {
	wasmBytes, err := wat.Compile(watText)
	if err != nil {
		return nil, errors.ParseFailed("WAT", err)
	}
	return r.LoadWASM(ctx, wasmBytes, witText)
}

// LoadWASM compiles a core wasm binary and loads it against the contract in
// witText. The module is compiled but not yet linked; Instantiate resolves
// the contract against the guest's exports.
func (r *Runtime) LoadWASM(ctx context.Context, wasmBytes []byte, witText string) (*Module, error) {
	contract, err := ParseContract(witText)
	if err != nil {
		return nil, err
	}

	compiled, err := r.rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	Logger().Debug("module loaded",
		zap.Int("wasm_bytes", len(wasmBytes)),
		zap.Strings("contract", contract.Names()))

	return &Module{
		runtime:  r,
		compiled: compiled,
		contract: contract,
	}, nil
}
