package token

import "fmt"

// Token is the primary source token of a node. The parser collaborator
// fills it; the core only reads it for diagnostics and same-file checks.
type Token struct {
	Lexeme string
	File   string // URI of the originating source file
	Line   int
	Column int
}

func (t Token) String() string {
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// IsZero reports whether the token carries no position.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0 && t.File == ""
}

// Before orders tokens by file, then line, then column.
func (t Token) Before(o Token) bool {
	if t.File != o.File {
		return t.File < o.File
	}
	if t.Line != o.Line {
		return t.Line < o.Line
	}
	return t.Column < o.Column
}
