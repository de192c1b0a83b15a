package compiler

import (
	"fmt"
	"unicode/utf8"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// RuntimeInfo supplies target sizes to CanCast. Without it only the
// structural rules apply.
type RuntimeInfo interface {
	SizeOf(t types.Type) (int, bool)
}

// SizeOf implements RuntimeInfo for the compilation target.
func (c *Compiler) SizeOf(t types.Type) (int, bool) {
	return types.SizeOf(t, c.settings.PointerSize)
}

// CanCast reports whether a value of type source may be used where
// destination is expected without an explicit cast. value is the source
// expression when known; string literals convert to character arrays of
// their length.
func CanCast(source, destination types.Type, value ast.Expression, info RuntimeInfo) *diagnostics.Possible {
	if types.Same(source, destination) || types.IsAny(destination) {
		return nil
	}
	if info == nil {
		return diagnostics.Fail(diagnostics.ErrT001, token.Token{}, source, destination)
	}

	if lit, ok := value.(*ast.StringLiteral); ok {
		if arr, ok := types.AsArray(destination); ok && isCharArray(arr) && *arr.ComputedLength == utf8.RuneCountInString(lit.Value) {
			return nil
		}
	}

	srcSize, srcKnown := info.SizeOf(source)
	dstSize, dstKnown := info.SizeOf(destination)
	if srcKnown && dstKnown && srcSize == dstSize {
		srcPtr, srcIsPtr := types.AsPointer(source)
		dstPtr, dstIsPtr := types.AsPointer(destination)
		if srcIsPtr && dstIsPtr {
			if types.IsAny(dstPtr.To) {
				return nil
			}
			if arrayErasure(srcPtr, dstPtr) {
				return nil
			}
		}
	}

	return diagnostics.Fail(diagnostics.ErrT001, token.Token{}, describe(source, srcSize, srcKnown), describe(destination, dstSize, dstKnown))
}

// arrayErasure reports whether src is a pointer to a sized array and dst a
// pointer to an unsized array of the same element type.
func arrayErasure(src, dst types.Pointer) bool {
	srcArr, ok := types.AsArray(src.To)
	if !ok || !srcArr.Sized() {
		return false
	}
	dstArr, ok := types.AsArray(dst.To)
	if !ok || dstArr.Sized() {
		return false
	}
	return types.Same(srcArr.Of, dstArr.Of)
}

func isCharArray(a types.Array) bool {
	if !a.Sized() {
		return false
	}
	k, ok := types.Numeric(a.Of)
	return ok && (k == types.U16 || k == types.U8)
}

func describe(t types.Type, size int, known bool) string {
	if !known {
		return t.String()
	}
	return fmt.Sprintf("%s (%d bytes)", t, size)
}

// canCast runs CanCast against the compilation target.
func (c *Compiler) canCast(source, destination types.Type, value ast.Expression) *diagnostics.Possible {
	return CanCast(source, destination, value, c)
}

// canConvertExplicitly reports whether `value as destination` is allowed.
func (c *Compiler) canConvertExplicitly(source, destination types.Type) bool {
	if c.canCast(source, destination, nil) == nil {
		return true
	}
	_, srcNum := types.Numeric(source)
	_, dstNum := types.Numeric(destination)
	_, srcPtr := types.AsPointer(source)
	_, dstPtr := types.AsPointer(destination)
	switch {
	case srcNum && dstNum, srcPtr && dstPtr:
		return true
	case srcPtr && dstNum, srcNum && dstPtr:
		size, _ := c.SizeOf(source)
		if srcPtr {
			size, _ = c.SizeOf(destination)
		}
		return size == c.settings.PointerSize
	}
	return false
}
