package token

type Type int

const (
	LParen Type = iota
	RParen
	Ident
	String
	Number
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits WAT source into tokens. Line comments (;;) and nested
// block comments ((; ;)) are stripped. String escapes are not interpreted;
// the subset this compiler accepts has no use for them.
func Tokenize(input string) []Token {
	var tokens []Token
	line := 1

	for i := 0; i < len(input); i++ {
		c := input[i]

		switch {
		case c == '\n':
			line++

		case c == ' ' || c == '\t' || c == '\r':

		case c == ';' && i+1 < len(input) && input[i+1] == ';':
			for i < len(input) && input[i] != '\n' {
				i++
			}
			i-- // the newline bumps line on the next pass

		case c == '(' && i+1 < len(input) && input[i+1] == ';':
			depth := 1
			i += 2
			for i < len(input) && depth > 0 {
				switch {
				case input[i] == '\n':
					line++
					i++
				case input[i] == '(' && i+1 < len(input) && input[i+1] == ';':
					depth++
					i += 2
				case input[i] == ';' && i+1 < len(input) && input[i+1] == ')':
					depth--
					i += 2
				default:
					i++
				}
			}
			i--

		case c == '(':
			tokens = append(tokens, Token{Type: LParen, Value: "(", Line: line})

		case c == ')':
			tokens = append(tokens, Token{Type: RParen, Value: ")", Line: line})

		case c == '"':
			j := i + 1
			for j < len(input) && input[j] != '"' {
				j++
			}
			tokens = append(tokens, Token{Type: String, Value: input[i+1 : j], Line: line})
			i = j

		default:
			j := i
			for j < len(input) && !isDelim(input[j]) {
				j++
			}
			val := input[i:j]
			typ := Ident
			if isNumber(val) {
				typ = Number
			}
			tokens = append(tokens, Token{Type: typ, Value: val, Line: line})
			i = j - 1
		}
	}

	return tokens
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '"', ' ', '\t', '\r', '\n', ';':
		return true
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		return len(s) > 1 && s[1] >= '0' && s[1] <= '9'
	}
	return s[0] >= '0' && s[0] <= '9'
}
