package codegen

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// Validate compiles wasmBytes against a real wasm runtime without
// instantiating or running it, the same sanity check kpumuk-thrift-weaver's
// generated code gets from its own target toolchain before being trusted:
// a hand-written binary encoder is only as good as something other than
// itself checking its output. CompileModule alone performs full
// structural and type validation; nothing here ever executes generated
// code.
func Validate(ctx context.Context, wasmBytes []byte) error {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("invalid wasm module: %w", err)
	}
	defer compiled.Close(ctx)

	return nil
}
