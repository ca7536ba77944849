package guest

import (
	"testing"

	"github.com/wippyai/ffi-smoke/wat"
)

func TestSourceCompiles(t *testing.T) {
	wasm, err := wat.Compile(Source)
	if err != nil {
		t.Fatalf("guest WAT does not compile: %v", err)
	}
	if len(wasm) < 8 {
		t.Fatalf("suspiciously small module: %d bytes", len(wasm))
	}
}
