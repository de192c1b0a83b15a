package diagnostics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

func tok(line, col int) token.Token {
	return token.Token{File: "main.bbc", Line: line, Column: col}
}

func TestBagDeduplicatesAndSorts(t *testing.T) {
	b := NewBag()
	b.Add(NewError(ErrT003, tok(5, 1), "i32"))
	b.Add(NewError(ErrS001, tok(2, 7), "function", "f"))
	b.Add(NewError(ErrS001, tok(2, 7), "function", "g"))
	b.Add(NewError(ErrT002, tok(2, 3), "300", "u8", "i32"))

	items := b.Items()
	be.Equal(t, len(items), 3)
	be.Equal(t, items[0].Code, ErrT002)
	be.Equal(t, items[1].Code, ErrS001)
	be.Equal(t, items[1].Message, `function "g" not found`)
	be.Equal(t, items[2].Code, ErrT003)
	be.True(t, b.HasErrors())
	be.Equal(t, len(b.Filter(SeverityWarning)), 2)
}

func TestWarningsDoNotBlock(t *testing.T) {
	b := NewBag()
	b.Add(NewError(ErrL001, tok(1, 1), "p"))
	b.Add(NewError(ErrL004, tok(1, 2), "14"))
	be.True(t, !b.HasErrors())
}

func TestPossibleEscalation(t *testing.T) {
	p := Fail(ErrS003, tok(3, 4), "function", "f", "u8*").
		WithCauses(Fail(ErrT001, tok(3, 6), "u8*", "i32"))

	err := p.ToError()
	be.Equal(t, err.Severity, SeverityCritical)
	be.Equal(t, len(err.Causes), 1)
	be.Equal(t, err.Causes[0].Message, "cannot convert u8* to i32")

	warn := p.ToWarning()
	be.Equal(t, warn.Severity, SeverityWarning)

	// protection level is an error, not critical
	be.Equal(t, Fail(ErrS005, tok(1, 1), "function", "f").ToError().Severity, SeverityError)
	// informational codes escalate to error
	be.Equal(t, Fail(ErrT004, tok(1, 1), "1", "i32").ToError().Severity, SeverityError)
}

func TestPossibleAt(t *testing.T) {
	p := Fail(ErrS006, token.Token{}, "Foo")
	be.Equal(t, p.At(tok(9, 9)).Token.Line, 9)
	be.Equal(t, p.Token.Line, 0)
	q := Fail(ErrS006, tok(1, 1), "Foo")
	be.Equal(t, q.At(tok(9, 9)).Token.Line, 1)
}

func TestInternalErrorWrapsStack(t *testing.T) {
	err := Internal("bad node %d", 3)
	be.True(t, strings.Contains(err.Error(), "bad node 3"))
	var target *InternalError
	be.True(t, errors.As(error(err), &target))
	be.True(t, strings.Contains(fmt.Sprintf("%+v", err), "TestInternalErrorWrapsStack"))
}

func TestFprintWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	err := NewError(ErrS003, tok(1, 2), "function", "f", "u8").
		WithCauses(NewError(ErrT001, tok(1, 4), "u8", "i32*"))
	be.Err(t, Fprint(&buf, []*DiagnosticError{err}), nil)
	be.Equal(t, buf.String(), "main.bbc:1:2: critical S003: no function \"f\" accepts arguments (u8)\n  cannot convert u8 to i32*\n")
}
