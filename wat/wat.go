package wat

import (
	"github.com/wippyai/ffi-smoke/wat/internal/encoder"
	"github.com/wippyai/ffi-smoke/wat/internal/parser"
	"github.com/wippyai/ffi-smoke/wat/internal/token"
)

func Compile(source string) ([]byte, error) {
	tokens := token.Tokenize(source)
	mod, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}
	return encoder.Encode(mod)
}
