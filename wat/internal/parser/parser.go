// Package parser turns WAT tokens into an ast.Module with all symbolic
// names resolved to indices.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/ffi-smoke/wat/internal/ast"
	"github.com/wippyai/ffi-smoke/wat/internal/token"
)

// sexpr is an atom (tok set) or a parenthesized list.
type sexpr struct {
	tok   *token.Token
	items []*sexpr
	line  int
}

func (s *sexpr) isList() bool { return s.tok == nil }

func (s *sexpr) head() string {
	if s.isList() && len(s.items) > 0 && s.items[0].tok != nil {
		return s.items[0].tok.Value
	}
	return ""
}

func isName(s *sexpr) bool {
	return s != nil && s.tok != nil && s.tok.Type == token.Ident && strings.HasPrefix(s.tok.Value, "$")
}

type Parser struct {
	tokens []token.Token
	pos    int

	funcIdx   map[string]int
	globalIdx map[string]int
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:    tokens,
		funcIdx:   make(map[string]int),
		globalIdx: make(map[string]int),
	}
}

func (p *Parser) Parse() (*ast.Module, error) {
	root, err := p.readSexpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("line %d: unexpected token after module", p.tokens[p.pos].Line)
	}
	if root.head() != "module" {
		return nil, fmt.Errorf("line %d: expected 'module'", root.line)
	}

	fields := root.items[1:]

	// First pass: name every func and global so forward references resolve.
	nFuncs, nGlobals := 0, 0
	for _, f := range fields {
		switch f.head() {
		case "func":
			if len(f.items) > 1 && isName(f.items[1]) {
				p.funcIdx[f.items[1].tok.Value[1:]] = nFuncs
			}
			nFuncs++
		case "global":
			if len(f.items) > 1 && isName(f.items[1]) {
				p.globalIdx[f.items[1].tok.Value[1:]] = nGlobals
			}
			nGlobals++
		}
	}

	mod := &ast.Module{}
	for _, f := range fields {
		switch f.head() {
		case "func":
			fn, err := p.parseFunc(f)
			if err != nil {
				return nil, err
			}
			mod.Funcs = append(mod.Funcs, fn)
		case "memory":
			mem, err := p.parseMemory(f)
			if err != nil {
				return nil, err
			}
			mod.Memories = append(mod.Memories, mem)
		case "global":
			g, err := p.parseGlobal(f)
			if err != nil {
				return nil, err
			}
			mod.Globals = append(mod.Globals, g)
		default:
			return nil, fmt.Errorf("line %d: unsupported module field %q", f.line, f.head())
		}
	}

	return mod, nil
}

// readSexpr consumes one atom or balanced list from the token stream.
func (p *Parser) readSexpr() (*sexpr, error) {
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	tok := p.tokens[p.pos]
	p.pos++

	switch tok.Type {
	case token.LParen:
		node := &sexpr{line: tok.Line}
		for {
			if p.pos >= len(p.tokens) {
				return nil, fmt.Errorf("unexpected end of input")
			}
			if p.tokens[p.pos].Type == token.RParen {
				p.pos++
				return node, nil
			}
			child, err := p.readSexpr()
			if err != nil {
				return nil, err
			}
			node.items = append(node.items, child)
		}
	case token.RParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", tok.Line)
	default:
		t := tok
		return &sexpr{tok: &t, line: tok.Line}, nil
	}
}

func valType(s *sexpr) (ast.ValType, error) {
	name := ""
	if s.tok != nil {
		name = s.tok.Value
	}
	switch name {
	case "i32":
		return ast.I32, nil
	case "i64":
		return ast.I64, nil
	case "f32":
		return ast.F32, nil
	case "f64":
		return ast.F64, nil
	}
	return 0, fmt.Errorf("line %d: unknown value type %q", s.line, name)
}

func (p *Parser) parseFunc(s *sexpr) (*ast.Func, error) {
	fn := &ast.Func{}
	locals := make(map[string]int) // params first, then locals
	items := s.items[1:]

	if len(items) > 0 && isName(items[0]) {
		fn.Name = items[0].tok.Value[1:]
		items = items[1:]
	}

	i := 0
decls:
	for ; i < len(items); i++ {
		it := items[i]
		switch it.head() {
		case "export":
			if len(it.items) != 2 || it.items[1].tok == nil || it.items[1].tok.Type != token.String {
				return nil, fmt.Errorf("line %d: export needs a string name", it.line)
			}
			fn.Export = it.items[1].tok.Value
		case "param":
			rest := it.items[1:]
			if len(rest) > 0 && isName(rest[0]) {
				if len(rest) != 2 {
					return nil, fmt.Errorf("line %d: named param takes exactly one type", it.line)
				}
				vt, err := valType(rest[1])
				if err != nil {
					return nil, err
				}
				locals[rest[0].tok.Value[1:]] = len(fn.Type.Params)
				fn.Type.Params = append(fn.Type.Params, vt)
				continue
			}
			for _, r := range rest {
				vt, err := valType(r)
				if err != nil {
					return nil, err
				}
				fn.Type.Params = append(fn.Type.Params, vt)
			}
		case "result":
			for _, r := range it.items[1:] {
				vt, err := valType(r)
				if err != nil {
					return nil, err
				}
				fn.Type.Results = append(fn.Type.Results, vt)
			}
		case "local":
			rest := it.items[1:]
			if len(rest) > 0 && isName(rest[0]) {
				if len(rest) != 2 {
					return nil, fmt.Errorf("line %d: named local takes exactly one type", it.line)
				}
				vt, err := valType(rest[1])
				if err != nil {
					return nil, err
				}
				locals[rest[0].tok.Value[1:]] = len(fn.Type.Params) + len(fn.Locals)
				fn.Locals = append(fn.Locals, vt)
				continue
			}
			for _, r := range rest {
				vt, err := valType(r)
				if err != nil {
					return nil, err
				}
				fn.Locals = append(fn.Locals, vt)
			}
		default:
			break decls
		}
	}

	for ; i < len(items); i++ {
		if err := p.emitInstr(items[i], fn, locals, nil); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

// Instructions that carry no immediates. The compiler handles the integer
// subset guests here actually use; anything else is a parse error.
var simpleOps = map[string]bool{
	"unreachable": true, "nop": true, "return": true, "drop": true, "select": true,
	"i32.eqz": true, "i32.eq": true, "i32.ne": true,
	"i32.lt_s": true, "i32.lt_u": true, "i32.gt_s": true, "i32.gt_u": true,
	"i32.le_s": true, "i32.le_u": true, "i32.ge_s": true, "i32.ge_u": true,
	"i32.add": true, "i32.sub": true, "i32.mul": true,
	"i32.div_s": true, "i32.div_u": true, "i32.rem_s": true, "i32.rem_u": true,
	"i32.and": true, "i32.or": true, "i32.xor": true,
	"i32.shl": true, "i32.shr_s": true, "i32.shr_u": true,
}

// emitInstr appends the folded instruction s to fn.Body: immediates are
// consumed first, remaining children are operand expressions emitted before
// the opcode itself. block/loop instead wrap their children between the
// opcode and an end.
func (p *Parser) emitInstr(s *sexpr, fn *ast.Func, locals map[string]int, labels []string) error {
	if !s.isList() || len(s.items) == 0 || s.items[0].tok == nil || s.items[0].tok.Type != token.Ident {
		return fmt.Errorf("line %d: expected instruction", s.line)
	}
	op := s.items[0].tok.Value
	args := s.items[1:]

	switch op {
	case "block", "loop":
		label := ""
		if len(args) > 0 && isName(args[0]) {
			label = args[0].tok.Value[1:]
			args = args[1:]
		}
		fn.Body = append(fn.Body, ast.Instr{Op: op})
		inner := append(append([]string(nil), labels...), label)
		for _, a := range args {
			if err := p.emitInstr(a, fn, locals, inner); err != nil {
				return err
			}
		}
		fn.Body = append(fn.Body, ast.Instr{Op: "end"})
		return nil
	}

	var imm []int64
	switch op {
	case "local.get", "local.set", "local.tee":
		idx, rest, err := resolveIndex(args, locals, "local")
		if err != nil {
			return err
		}
		imm, args = []int64{int64(idx)}, rest

	case "global.get", "global.set":
		idx, rest, err := resolveIndex(args, p.globalIdx, "global")
		if err != nil {
			return err
		}
		imm, args = []int64{int64(idx)}, rest

	case "call":
		idx, rest, err := resolveIndex(args, p.funcIdx, "function")
		if err != nil {
			return err
		}
		imm, args = []int64{int64(idx)}, rest

	case "br", "br_if":
		if len(args) == 0 {
			return fmt.Errorf("line %d: %s needs a label", s.line, op)
		}
		depth, err := resolveLabel(args[0], labels)
		if err != nil {
			return err
		}
		imm, args = []int64{int64(depth)}, args[1:]

	case "i32.const", "i64.const":
		if len(args) == 0 || args[0].tok == nil || args[0].tok.Type != token.Number {
			return fmt.Errorf("line %d: %s needs a numeric immediate", s.line, op)
		}
		n, err := strconv.ParseInt(args[0].tok.Value, 0, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad number %q", args[0].line, args[0].tok.Value)
		}
		imm, args = []int64{n}, args[1:]

	case "i32.load", "i32.store":
		align, offset := int64(2), int64(0) // natural alignment for 32-bit access
		for len(args) > 0 && args[0].tok != nil && strings.ContainsRune(args[0].tok.Value, '=') {
			key, val, _ := strings.Cut(args[0].tok.Value, "=")
			n, err := strconv.ParseInt(val, 0, 64)
			if err != nil {
				return fmt.Errorf("line %d: bad %s value %q", args[0].line, key, val)
			}
			switch key {
			case "offset":
				offset = n
			case "align":
				e := int64(0)
				for m := n; m > 1; m >>= 1 {
					e++
				}
				if n <= 0 || 1<<e != n {
					return fmt.Errorf("line %d: alignment must be a power of two", args[0].line)
				}
				align = e
			default:
				return fmt.Errorf("line %d: unknown memory attribute %q", args[0].line, key)
			}
			args = args[1:]
		}
		imm = []int64{align, offset}

	default:
		if !simpleOps[op] {
			return fmt.Errorf("line %d: unknown instruction %q", s.line, op)
		}
	}

	for _, a := range args {
		if err := p.emitInstr(a, fn, locals, labels); err != nil {
			return err
		}
	}
	fn.Body = append(fn.Body, ast.Instr{Op: op, Args: imm})
	return nil
}

// resolveIndex reads a $name or bare index from the front of args.
func resolveIndex(args []*sexpr, idx map[string]int, what string) (int, []*sexpr, error) {
	if len(args) == 0 || args[0].tok == nil {
		line := 0
		if len(args) > 0 {
			line = args[0].line
		}
		return 0, nil, fmt.Errorf("line %d: expected %s index", line, what)
	}
	a := args[0]
	if isName(a) {
		name := a.tok.Value[1:]
		i, ok := idx[name]
		if !ok {
			return 0, nil, fmt.Errorf("line %d: unknown %s $%s", a.line, what, name)
		}
		return i, args[1:], nil
	}
	if a.tok.Type == token.Number {
		n, err := strconv.Atoi(a.tok.Value)
		if err != nil || n < 0 {
			return 0, nil, fmt.Errorf("line %d: bad %s index %q", a.line, what, a.tok.Value)
		}
		return n, args[1:], nil
	}
	return 0, nil, fmt.Errorf("line %d: expected %s index", a.line, what)
}

// resolveLabel turns a $label or literal depth into a relative branch depth.
func resolveLabel(a *sexpr, labels []string) (int, error) {
	if isName(a) {
		name := a.tok.Value[1:]
		for i := len(labels) - 1; i >= 0; i-- {
			if labels[i] == name {
				return len(labels) - 1 - i, nil
			}
		}
		return 0, fmt.Errorf("line %d: unknown label $%s", a.line, name)
	}
	if a.tok != nil && a.tok.Type == token.Number {
		n, err := strconv.Atoi(a.tok.Value)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("line %d: bad branch depth %q", a.line, a.tok.Value)
		}
		return n, nil
	}
	return 0, fmt.Errorf("line %d: expected label", a.line)
}

func (p *Parser) parseMemory(s *sexpr) (*ast.Memory, error) {
	mem := &ast.Memory{}
	items := s.items[1:]

	if len(items) > 0 && items[0].head() == "export" {
		exp := items[0]
		if len(exp.items) != 2 || exp.items[1].tok == nil || exp.items[1].tok.Type != token.String {
			return nil, fmt.Errorf("line %d: export needs a string name", exp.line)
		}
		mem.Export = exp.items[1].tok.Value
		items = items[1:]
	}

	if len(items) == 0 || items[0].tok == nil || items[0].tok.Type != token.Number {
		return nil, fmt.Errorf("line %d: memory needs a minimum page count", s.line)
	}
	minPages, err := strconv.ParseUint(items[0].tok.Value, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("line %d: bad page count %q", items[0].line, items[0].tok.Value)
	}
	mem.Min = uint32(minPages)

	if len(items) > 1 {
		if items[1].tok == nil || items[1].tok.Type != token.Number {
			return nil, fmt.Errorf("line %d: bad maximum page count", items[1].line)
		}
		maxPages, err := strconv.ParseUint(items[1].tok.Value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad page count %q", items[1].line, items[1].tok.Value)
		}
		mem.Max = uint32(maxPages)
		mem.HasMax = true
	}

	return mem, nil
}

func (p *Parser) parseGlobal(s *sexpr) (*ast.Global, error) {
	g := &ast.Global{}
	items := s.items[1:]

	if len(items) > 0 && isName(items[0]) {
		g.Name = items[0].tok.Value[1:]
		items = items[1:]
	}

	if len(items) != 2 {
		return nil, fmt.Errorf("line %d: global needs a type and an initializer", s.line)
	}

	typeSpec := items[0]
	if typeSpec.head() == "mut" {
		if len(typeSpec.items) != 2 {
			return nil, fmt.Errorf("line %d: mut takes exactly one type", typeSpec.line)
		}
		g.Mutable = true
		typeSpec = typeSpec.items[1]
	}
	vt, err := valType(typeSpec)
	if err != nil {
		return nil, err
	}
	g.Type = vt

	init := items[1]
	wantOp := "i32.const"
	if vt == ast.I64 {
		wantOp = "i64.const"
	}
	if init.head() != wantOp || len(init.items) != 2 || init.items[1].tok == nil || init.items[1].tok.Type != token.Number {
		return nil, fmt.Errorf("line %d: global initializer must be (%s <n>)", init.line, wantOp)
	}
	n, err := strconv.ParseInt(init.items[1].tok.Value, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("line %d: bad number %q", init.line, init.items[1].tok.Value)
	}
	g.Init = n

	return g, nil
}
