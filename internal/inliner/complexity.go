package inliner

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
)

// Complexity classifies what evaluating a node may do. Flags of children
// are merged into their parent.
type Complexity int

const (
	// None nodes are constants and plain reads.
	None Complexity = 0
	// Volatile nodes have observable side effects; they must run exactly once.
	Volatile Complexity = 1 << iota
	// Complex nodes compute something but have no side effects.
	Complex
	// Bruh nodes create storage whose identity matters and cannot be copied.
	Bruh
)

func (c Complexity) String() string {
	if c == None {
		return "none"
	}
	s := ""
	add := func(flag Complexity, name string) {
		if c&flag == 0 {
			return
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	add(Volatile, "volatile")
	add(Complex, "complex")
	add(Bruh, "bruh")
	return s
}

// Classify returns the merged complexity of n and its sub-nodes.
func Classify(n ir.Node) Complexity {
	var c Complexity
	ir.Inspect(n, func(node ir.Node) bool {
		c |= own(node)
		return true
	})
	return c
}

func own(n ir.Node) Complexity {
	switch v := n.(type) {
	case *ir.Evaluated, *ir.VariableGetter, *ir.ParameterGetter, *ir.GlobalGetter,
		*ir.FunctionAddress, *ir.LabelAddress, *ir.AddressOf:
		return None
	case *ir.FieldGetter, *ir.BinaryOperatorCall, *ir.UnaryOperatorCall, *ir.Cast:
		return Complex
	case *ir.Dereference:
		// a read through a pointer may observe writes made by the inlined body
		return Complex
	case *ir.IndexGetter:
		if v.Indexer != nil {
			return Volatile
		}
		return Complex
	case *ir.FunctionCall, *ir.ExternalCall, *ir.RuntimeCall:
		return Volatile
	case *ir.ConstructorCall, *ir.StackAllocation, *ir.StringInstance:
		return Volatile | Bruh
	case *ir.VariableDeclaration, *ir.VariableSetter, *ir.ParameterSetter, *ir.GlobalSetter,
		*ir.FieldSetter, *ir.IndexSetter, *ir.DereferenceSetter, *ir.Delete, *ir.Crash:
		return Volatile
	case *ir.Return, *ir.Break, *ir.Goto, *ir.LabelDeclaration:
		return Bruh
	case *ir.While, *ir.For, *ir.If, *ir.Block, *ir.Empty:
		return Complex
	default:
		panic(diagnostics.Unexpected("inliner.Classify", n))
	}
}
