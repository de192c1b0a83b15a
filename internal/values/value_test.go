package values

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

func TestArithmeticFolding(t *testing.T) {
	mul, err := Binary("*", Int(types.I32, 3), Int(types.I32, 4))
	be.Err(t, err, nil)
	sum, err := Binary("+", Int(types.I32, 2), mul)
	be.Err(t, err, nil)
	be.Equal(t, sum.Kind(), types.I32)
	be.Equal(t, sum.Int64(), int64(14))
}

func TestPromotion(t *testing.T) {
	v, err := Binary("+", Int(types.U8, 250), Int(types.I32, 10))
	be.Err(t, err, nil)
	be.Equal(t, v.Kind(), types.I32)
	be.Equal(t, v.Int64(), int64(260))

	v, err = Binary("/", Int(types.I32, 7), Float(types.F32, 2))
	be.Err(t, err, nil)
	be.Equal(t, v.Kind(), types.F32)
	be.Equal(t, v.Float64(), 3.5)
}

func TestWrapping(t *testing.T) {
	v, err := Binary("+", Int(types.U8, 255), Int(types.U8, 1))
	be.Err(t, err, nil)
	be.Equal(t, v.Int64(), int64(0))

	v, err = Binary("+", Int(types.I8, 127), Int(types.I8, 1))
	be.Err(t, err, nil)
	be.Equal(t, v.Int64(), int64(-128))
}

func TestComparison(t *testing.T) {
	v, err := Binary("<", Int(types.I32, -1), Int(types.I32, 3))
	be.Err(t, err, nil)
	be.True(t, v.IsTruthy())
	be.Equal(t, v.Kind(), ComparisonKind)

	v, err = Binary("==", Int(types.I32, 3), Float(types.F32, 3))
	be.Err(t, err, nil)
	be.True(t, v.IsTruthy())
}

func TestFailures(t *testing.T) {
	_, err := Binary("/", Int(types.I32, 1), Int(types.I32, 0))
	be.Err(t, err, ErrDivisionByZero)

	_, err = Binary("&", Float(types.F32, 1), Int(types.I32, 1))
	be.Err(t, err, ErrIncompatible)

	_, err = Binary("+", Int(types.Void, 1), Int(types.I32, 1))
	be.Err(t, err, ErrIncompatible)

	_, err = Unary("~", Float(types.F64, 1))
	be.Err(t, err, ErrIncompatible)
}

func TestShiftKeepsLeftKind(t *testing.T) {
	v, err := Binary("<<", Int(types.U8, 1), Int(types.I32, 7))
	be.Err(t, err, nil)
	be.Equal(t, v.Kind(), types.U8)
	be.Equal(t, v.Int64(), int64(128))
}

func TestFits(t *testing.T) {
	be.True(t, Int(types.I32, 255).Fits(types.U8))
	be.True(t, !Int(types.I32, 300).Fits(types.U8))
	be.True(t, !Int(types.I32, -1).Fits(types.U16))
	be.True(t, Int(types.I32, -128).Fits(types.I8))
	be.True(t, Int(types.I32, 300).Fits(types.F32))
	be.True(t, Float(types.F64, 2).Fits(types.I8))
	be.True(t, !Float(types.F64, 2.5).Fits(types.I8))
	be.True(t, !Int(types.I32, 1).Fits(types.Void))
}

func TestConvert(t *testing.T) {
	be.Equal(t, Int(types.I32, 300).Convert(types.U8).Int64(), int64(44))
	be.Equal(t, Float(types.F32, -2.75).Convert(types.I32).Int64(), int64(-2))
	be.Equal(t, Int(types.I32, 5).Convert(types.F64).Float64(), 5.0)
}

func TestUnary(t *testing.T) {
	v, err := Unary("-", Int(types.I32, 5))
	be.Err(t, err, nil)
	be.Equal(t, v.Int64(), int64(-5))
	v, err = Unary("!", Int(types.I32, 0))
	be.Err(t, err, nil)
	be.True(t, v.IsTruthy())
	v, err = Unary("~", Int(types.U8, 0))
	be.Err(t, err, nil)
	be.Equal(t, v.Int64(), int64(255))
}
