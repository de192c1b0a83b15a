package values

import (
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"

	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// Value is a compile-time scalar. Integers are kept normalized to the
// width of their kind, f32 values are kept rounded to single precision.
type Value struct {
	kind types.Kind
	i    int64
	u    uint64
	f    float64
}

// Int builds a signed or unsigned integer value of kind k, wrapping v.
func Int(k types.Kind, v int64) Value {
	switch types.ClassOf(k) {
	case types.Unsigned:
		return Uint(k, uint64(v))
	case types.Float:
		return Float(k, float64(v))
	}
	return Value{kind: k, i: wrapSigned(k, v)}
}

// Uint builds an integer value of kind k from an unsigned source.
func Uint(k types.Kind, v uint64) Value {
	switch types.ClassOf(k) {
	case types.Signed:
		return Value{kind: k, i: wrapSigned(k, int64(v))}
	case types.Float:
		return Float(k, float64(v))
	}
	return Value{kind: k, u: wrapUnsigned(k, v)}
}

// Float builds a floating point value of kind k.
func Float(k types.Kind, v float64) Value {
	switch types.ClassOf(k) {
	case types.Signed:
		return Int(k, int64(v))
	case types.Unsigned:
		return Uint(k, uint64(int64(v)))
	}
	if k == types.F32 {
		v = float64(float32(v))
	}
	return Value{kind: k, f: v}
}

// Bool builds 1 or 0 of kind k.
func Bool(k types.Kind, b bool) Value {
	if b {
		return Int(k, 1)
	}
	return Int(k, 0)
}

func wrapSigned(k types.Kind, v int64) int64 {
	switch types.BitWidth(k) {
	case 8:
		return int64(int8(v))
	case 16:
		return int64(int16(v))
	case 32:
		return int64(int32(v))
	default:
		return v
	}
}

func wrapUnsigned(k types.Kind, v uint64) uint64 {
	switch types.BitWidth(k) {
	case 8:
		return uint64(uint8(v))
	case 16:
		return uint64(uint16(v))
	case 32:
		return uint64(uint32(v))
	default:
		return v
	}
}

func (v Value) Kind() types.Kind { return v.kind }

// Type returns the builtin type of the value.
func (v Value) Type() types.Type { return types.Builtin{Kind: v.kind} }

func (v Value) Int64() int64 {
	switch types.ClassOf(v.kind) {
	case types.Unsigned:
		return int64(v.u)
	case types.Float:
		return int64(v.f)
	default:
		return v.i
	}
}

func (v Value) Uint64() uint64 {
	switch types.ClassOf(v.kind) {
	case types.Signed:
		return uint64(v.i)
	case types.Float:
		return uint64(int64(v.f))
	default:
		return v.u
	}
}

func (v Value) Float64() float64 {
	switch types.ClassOf(v.kind) {
	case types.Signed:
		return float64(v.i)
	case types.Unsigned:
		return float64(v.u)
	default:
		return v.f
	}
}

// IsTruthy reports whether the value is non-zero.
func (v Value) IsTruthy() bool {
	switch types.ClassOf(v.kind) {
	case types.Unsigned:
		return v.u != 0
	case types.Float:
		return v.f != 0
	default:
		return v.i != 0
	}
}

// Convert reinterprets the value as kind k the way a runtime cast would:
// integers wrap, floats truncate toward zero.
func (v Value) Convert(k types.Kind) Value {
	switch types.ClassOf(v.kind) {
	case types.Unsigned:
		return Uint(k, v.u)
	case types.Float:
		return Float(k, v.f)
	default:
		return Int(k, v.i)
	}
}

// Fits reports whether converting to k preserves the value exactly.
// Every integer fits a float kind.
func (v Value) Fits(k types.Kind) bool {
	switch types.ClassOf(k) {
	case types.NotNumeric:
		return false
	case types.Float:
		return true
	}
	switch types.ClassOf(v.kind) {
	case types.Unsigned:
		return fits(v.u, k)
	case types.Float:
		if v.f != math.Trunc(v.f) || math.IsInf(v.f, 0) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return false
		}
		return fits(int64(v.f), k)
	default:
		return fits(v.i, k)
	}
}

func fits[S int64 | uint64](v S, k types.Kind) bool {
	var err error
	switch k {
	case types.I8:
		_, err = safecast.Conv[int8](v)
	case types.I16:
		_, err = safecast.Conv[int16](v)
	case types.I32:
		_, err = safecast.Conv[int32](v)
	case types.I64:
		_, err = safecast.Conv[int64](v)
	case types.U8:
		_, err = safecast.Conv[uint8](v)
	case types.U16:
		_, err = safecast.Conv[uint16](v)
	case types.U32:
		_, err = safecast.Conv[uint32](v)
	case types.U64:
		_, err = safecast.Conv[uint64](v)
	default:
		return false
	}
	return err == nil
}

// Equal reports whether both values have the same kind and value.
func Equal(a, b Value) bool {
	return a == b
}

func (v Value) String() string {
	switch types.ClassOf(v.kind) {
	case types.Unsigned:
		return strconv.FormatUint(v.u, 10)
	case types.Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64) + "f"
	default:
		return strconv.FormatInt(v.i, 10)
	}
}

// GoString includes the kind, for diagnostics.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%s)", v.kind, v)
}
