package boundary

import (
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/ffi-smoke/errors"
)

// Contract is the explicit interface the host depends on: the foreign
// functions by name with their WIT signatures. The host never relies on
// anything about the guest beyond this surface, and linking verifies the
// guest exports every declared function.
type Contract struct {
	funcs map[string]*Signature
	names []string // declaration order
}

// Signature holds the WIT-level parameter and result types of one foreign
// function.
type Signature struct {
	Params  []Type
	Results []Type
}

// Kind discriminates the type shapes a contract can declare.
type Kind uint8

const (
	KindPrim   Kind = iota // a primitive leaf such as s32
	KindOption             // option<T>
	KindList               // list<T>
)

// Type is a WIT type as the contract declares it: option<> and list<>
// wrappers around a primitive leaf. wit.ParseType only understands the
// primitive names, so the wrappers are peeled here and the leaf is handed
// to it.
type Type struct {
	Elem *Type    // element type for option/list
	Prim wit.Type // primitive leaf, set only when Kind is KindPrim
	Kind Kind
}

// Names returns the declared function names in declaration order.
func (c *Contract) Names() []string {
	return append([]string(nil), c.names...)
}

// Signature returns the declared signature for name.
func (c *Contract) Signature(name string) (*Signature, bool) {
	sig, ok := c.funcs[name]
	return sig, ok
}

// Pattern: name: func(params) -> result;
var funcPattern = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// ParseContract extracts function signatures from WIT-style text. An empty
// contract is rejected: a boundary with nothing declared on it is a caller
// bug, not a degenerate success.
func ParseContract(witText string) (*Contract, error) {
	c := &Contract{funcs: make(map[string]*Signature)}

	for _, match := range funcPattern.FindAllStringSubmatch(witText, -1) {
		name := match[1]
		paramsStr := strings.TrimSpace(match[2])
		resultStr := ""
		if len(match) > 3 {
			resultStr = strings.TrimSpace(match[3])
		}

		sig := &Signature{}

		if paramsStr != "" {
			for _, p := range splitParams(paramsStr) {
				typStr := p
				if idx := strings.LastIndex(p, ":"); idx != -1 {
					typStr = strings.TrimSpace(p[idx+1:])
				}
				t, err := parseType(typStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse param type "+typStr)
				}
				sig.Params = append(sig.Params, t)
			}
		}

		if resultStr != "" && resultStr != "()" {
			t, err := parseType(resultStr)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+resultStr)
			}
			sig.Results = []Type{t}
		}

		if _, dup := c.funcs[name]; !dup {
			c.names = append(c.names, name)
		}
		c.funcs[name] = sig
	}

	if len(c.funcs) == 0 {
		return nil, errors.InvalidData(errors.PhaseParse, "no functions found in WIT text")
	}

	return c, nil
}

// parseType peels option<>/list<> wrappers by recursive descent and resolves
// the primitive leaf through wit.ParseType.
func parseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "option<") && strings.HasSuffix(s, ">"):
		elem, err := parseType(s[len("option<") : len(s)-1])
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindOption, Elem: &elem}, nil
	case strings.HasPrefix(s, "list<") && strings.HasSuffix(s, ">"):
		elem, err := parseType(s[len("list<") : len(s)-1])
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindList, Elem: &elem}, nil
	}

	prim, err := wit.ParseType(s)
	if err != nil {
		return Type{}, err
	}
	return Type{Kind: KindPrim, Prim: prim}, nil
}

// splitParams splits a parameter list on top-level commas, leaving commas
// inside angle-bracketed type arguments alone.
func splitParams(s string) []string {
	var parts []string
	depth, start := 0, 0

	for i, ch := range s {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}

	return parts
}
