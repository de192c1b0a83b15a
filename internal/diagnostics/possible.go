package diagnostics

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// Possible is a failure that has not been reported yet. Lookups return it
// so the caller can decide whether to recover, report or discard it.
type Possible struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	Causes  []*Possible
}

// Fail builds a possible diagnostic with the message registered for code.
func Fail(code ErrorCode, tok token.Token, args ...any) *Possible {
	return &Possible{Code: code, Token: tok, Message: format(code, args)}
}

func (p *Possible) Error() string { return p.Message }

// WithCauses appends nested possible diagnostics and returns p.
func (p *Possible) WithCauses(causes ...*Possible) *Possible {
	p.Causes = append(p.Causes, causes...)
	return p
}

// At returns a copy of p attached to another token when p has none.
func (p *Possible) At(tok token.Token) *Possible {
	if p == nil || !p.Token.IsZero() {
		return p
	}
	c := *p
	c.Token = tok
	return &c
}

// ToError escalates p with its blocking severity.
func (p *Possible) ToError() *DiagnosticError {
	s := DefaultSeverity(p.Code)
	if !s.Blocking() {
		s = SeverityError
	}
	return p.to(s)
}

// ToWarning escalates p as a warning.
func (p *Possible) ToWarning() *DiagnosticError {
	return p.to(SeverityWarning)
}

func (p *Possible) to(s Severity) *DiagnosticError {
	err := &DiagnosticError{
		Code:     p.Code,
		Severity: s,
		Token:    p.Token,
		File:     p.Token.File,
		Message:  p.Message,
	}
	for _, c := range p.Causes {
		err.Causes = append(err.Causes, c.to(s))
	}
	return err
}
