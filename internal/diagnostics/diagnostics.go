package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// Severity orders diagnostics from blocking to purely informational.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityError
	SeverityWarning
	SeverityHint
	SeverityOptimizationNotice
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	case SeverityOptimizationNotice:
		return "optimization"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Blocking reports whether the severity fails the compilation.
func (s Severity) Blocking() bool {
	return s == SeverityCritical || s == SeverityError
}

// DiagnosticError is a user-facing problem attached to a source position.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Token    token.Token
	File     string
	Message  string
	Causes   []*DiagnosticError
}

// NewError formats the message registered for code.
func NewError(code ErrorCode, tok token.Token, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Severity: DefaultSeverity(code),
		Token:    tok,
		File:     tok.File,
		Message:  format(code, args),
	}
}

func format(code ErrorCode, args []any) string {
	info, ok := codes[code]
	if !ok {
		return fmt.Sprint(args...)
	}
	return fmt.Sprintf(info.format, args...)
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	e.write(&sb, 0)
	return sb.String()
}

func (e *DiagnosticError) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if depth == 0 {
		fmt.Fprintf(sb, "%s %s at %d:%d: ", e.Severity, e.Code, e.Token.Line, e.Token.Column)
	}
	sb.WriteString(e.Message)
	for _, c := range e.Causes {
		sb.WriteByte('\n')
		c.write(sb, depth+1)
	}
}

// WithCauses appends nested diagnostics and returns e.
func (e *DiagnosticError) WithCauses(causes ...*DiagnosticError) *DiagnosticError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// Bag collects diagnostics, keeping one per position and code.
type Bag struct {
	set map[string]*DiagnosticError
}

func NewBag() *Bag {
	return &Bag{set: make(map[string]*DiagnosticError)}
}

// Add records a diagnostic; a later one at the same position with the same
// code replaces the earlier.
func (b *Bag) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	if err.File == "" {
		err.File = err.Token.File
	}
	key := fmt.Sprintf("%s:%d:%d:%s", err.File, err.Token.Line, err.Token.Column, err.Code)
	if b.set == nil {
		b.set = make(map[string]*DiagnosticError)
	}
	b.set[key] = err
}

func (b *Bag) AddAll(errs []*DiagnosticError) {
	for _, err := range errs {
		b.Add(err)
	}
}

// Items returns every diagnostic sorted by file and position.
func (b *Bag) Items() []*DiagnosticError {
	result := make([]*DiagnosticError, 0, len(b.set))
	for _, err := range b.set {
		result = append(result, err)
	}
	sort.Slice(result, func(i, j int) bool {
		a, c := result[i], result[j]
		if a.File != c.File {
			return a.File < c.File
		}
		if a.Token.Line != c.Token.Line {
			return a.Token.Line < c.Token.Line
		}
		if a.Token.Column != c.Token.Column {
			return a.Token.Column < c.Token.Column
		}
		return a.Code < c.Code
	})
	return result
}

// Filter returns the sorted diagnostics with the given severity.
func (b *Bag) Filter(s Severity) []*DiagnosticError {
	var out []*DiagnosticError
	for _, err := range b.Items() {
		if err.Severity == s {
			out = append(out, err)
		}
	}
	return out
}

// WithCode returns the sorted diagnostics with the given code.
func (b *Bag) WithCode(code ErrorCode) []*DiagnosticError {
	var out []*DiagnosticError
	for _, err := range b.Items() {
		if err.Code == code {
			out = append(out, err)
		}
	}
	return out
}

// HasErrors reports whether any blocking diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, err := range b.set {
		if err.Severity.Blocking() {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.set) }
