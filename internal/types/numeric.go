package types

import (
	"math"

	"modernc.org/mathutil"
)

// Class is the numeric family of a builtin kind.
type Class int

const (
	NotNumeric Class = iota
	Signed
	Unsigned
	Float
)

// ClassOf returns the numeric class of k.
func ClassOf(k Kind) Class {
	switch k {
	case I8, I16, I32, I64:
		return Signed
	case U8, U16, U32, U64:
		return Unsigned
	case F32, F64:
		return Float
	default:
		return NotNumeric
	}
}

// BitWidth returns the width of a scalar kind in bits; 0 for void and any.
func BitWidth(k Kind) int {
	switch k {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32, F32:
		return 32
	case U64, I64, F64:
		return 64
	default:
		return 0
	}
}

// Numeric returns the builtin kind behind t when it is a number.
func Numeric(t Type) (Kind, bool) {
	b, ok := Underlying(t).(Builtin)
	if !ok || ClassOf(b.Kind) == NotNumeric {
		return 0, false
	}
	return b.Kind, true
}

// KindOf builds the kind of the given class and width.
func KindOf(c Class, width int) (Kind, bool) {
	switch c {
	case Signed:
		switch width {
		case 8:
			return I8, true
		case 16:
			return I16, true
		case 32:
			return I32, true
		case 64:
			return I64, true
		}
	case Unsigned:
		switch width {
		case 8:
			return U8, true
		case 16:
			return U16, true
		case 32:
			return U32, true
		case 64:
			return U64, true
		}
	case Float:
		switch width {
		case 32:
			return F32, true
		case 64:
			return F64, true
		}
	}
	return 0, false
}

// Promote returns the result kind of a binary arithmetic operator: the wider
// width wins, float beats integer and signed beats unsigned.
func Promote(a, b Kind) Kind {
	width := max(BitWidth(a), BitWidth(b))
	ca, cb := ClassOf(a), ClassOf(b)
	switch {
	case ca == Float || cb == Float:
		if width < 32 {
			width = 32
		}
		k, _ := KindOf(Float, width)
		return k
	case ca == Signed || cb == Signed:
		k, _ := KindOf(Signed, width)
		return k
	default:
		k, _ := KindOf(Unsigned, width)
		return k
	}
}

// SizeOf returns the byte size of t for the given pointer size. It fails
// for unsized arrays, generics, any, and sizes that overflow int64.
func SizeOf(t Type, pointerSize int) (int, bool) {
	switch x := Underlying(t).(type) {
	case Builtin:
		switch x.Kind {
		case Void:
			return 0, true
		case Any:
			return 0, false
		default:
			return BitWidth(x.Kind) / 8, true
		}
	case Pointer, *Function:
		return pointerSize, true
	case Array:
		if x.ComputedLength == nil {
			return 0, false
		}
		elem, ok := SizeOf(x.Of, pointerSize)
		if !ok || *x.ComputedLength < 0 {
			return 0, false
		}
		n, ovf := mathutil.MulOverflowInt64(int64(elem), int64(*x.ComputedLength))
		if ovf || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case *Struct:
		var total int64
		bindings := x.Bindings()
		for _, f := range x.Decl.FieldList() {
			n, ok := SizeOf(Substitute(f.Type, bindings), pointerSize)
			if !ok {
				return 0, false
			}
			var ovf bool
			if total, ovf = mathutil.AddOverflowInt64(total, int64(n)); ovf {
				return 0, false
			}
		}
		if total > math.MaxInt {
			return 0, false
		}
		return int(total), true
	default:
		return 0, false
	}
}
