package boundary

import (
	"context"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-smoke/errors"
)

type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
	contract *Contract
}

func (m *Module) Contract() *Contract {
	return m.contract
}

// Instantiate is the link step: the guest is instantiated and every symbol
// the contract declares, plus the memory/alloc ABI exports, must resolve.
// Any unresolved symbol closes the instance and returns
// *errors.MissingExportsError; nothing can be called through a partially
// linked boundary.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	mod, err := m.runtime.rt.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	var missing []string
	for _, name := range m.contract.Names() {
		if mod.ExportedFunction(name) == nil {
			missing = append(missing, name)
		}
	}
	if mod.ExportedFunction(exportAlloc) == nil {
		missing = append(missing, exportAlloc)
	}
	memory := mod.ExportedMemory(exportMemory)
	if memory == nil {
		missing = append(missing, exportMemory)
	}
	if len(missing) > 0 {
		_ = mod.Close(ctx)
		return nil, errors.NewMissingExportsError(missing)
	}

	Logger().Debug("module linked", zap.Strings("resolved", m.contract.Names()))

	return &Instance{
		module: m,
		mod:    mod,
		memory: memory,
		alloc:  mod.ExportedFunction(exportAlloc),
	}, nil
}
