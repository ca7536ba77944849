package token

import "testing"

func TestTokenize(t *testing.T) {
	toks := Tokenize(`(module (func $f (export "run") (i32.const -5)))`)

	want := []struct {
		typ Type
		val string
	}{
		{LParen, "("}, {Ident, "module"},
		{LParen, "("}, {Ident, "func"}, {Ident, "$f"},
		{LParen, "("}, {Ident, "export"}, {String, "run"}, {RParen, ")"},
		{LParen, "("}, {Ident, "i32.const"}, {Number, "-5"}, {RParen, ")"},
		{RParen, ")"}, {RParen, ")"},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Value != w.val {
			t.Errorf("token[%d] = %v %q, want %v %q", i, toks[i].Type, toks[i].Value, w.typ, w.val)
		}
	}
}

func TestTokenize_Comments(t *testing.T) {
	toks := Tokenize("(module ;; trailing\n(; one (; two ;) ;) )")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
}

func TestTokenize_Lines(t *testing.T) {
	toks := Tokenize("(module\n\n(func))")
	// "func" sits on line 3
	for _, tok := range toks {
		if tok.Value == "func" && tok.Line != 3 {
			t.Errorf("func on line %d, want 3", tok.Line)
		}
	}
}

func TestTokenize_Numbers(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"42", Number},
		{"-42", Number},
		{"+1", Number},
		{"0x10", Number},
		{"$name", Ident},
		{"i32.add", Ident},
		{"offset=4", Ident},
		{"-", Ident},
	}
	for _, tt := range tests {
		toks := Tokenize(tt.in)
		if len(toks) != 1 {
			t.Fatalf("Tokenize(%q): got %d tokens", tt.in, len(toks))
		}
		if toks[0].Type != tt.want {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, toks[0].Type, tt.want)
		}
	}
}
