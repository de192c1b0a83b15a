package ir

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
)

// Inspect traverses the tree in depth-first order. When fn returns false
// the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Block:
		return v == nil
	}
	return false
}

func argumentValues(args []*Argument) []Node {
	out := make([]Node, 0, len(args))
	for _, a := range args {
		out = append(out, a.Value)
	}
	return out
}

func nonNil(nodes ...Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if !isNil(n) {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the direct sub-nodes of n in evaluation order.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Evaluated, *VariableGetter, *ParameterGetter, *GlobalGetter,
		*StackAllocation, *FunctionAddress, *LabelAddress,
		*Break, *LabelDeclaration, *Empty:
		return nil
	case *FieldGetter:
		return []Node{v.Object}
	case *IndexGetter:
		return []Node{v.Target, v.Index}
	case *AddressOf:
		return []Node{v.Of}
	case *Dereference:
		return []Node{v.Address}
	case *BinaryOperatorCall:
		return []Node{v.Left, v.Right}
	case *UnaryOperatorCall:
		return []Node{v.Operand}
	case *FunctionCall:
		return argumentValues(v.Arguments)
	case *ConstructorCall:
		return append([]Node{v.Object}, argumentValues(v.Arguments)...)
	case *ExternalCall:
		return argumentValues(v.Arguments)
	case *RuntimeCall:
		return append([]Node{v.Callee}, argumentValues(v.Arguments)...)
	case *Cast:
		return []Node{v.Value}
	case *StringInstance:
		return []Node{v.Allocator}
	case *VariableDeclaration:
		if v.Initial == nil {
			return nil
		}
		return []Node{v.Initial}
	case *VariableSetter:
		return []Node{v.Value}
	case *ParameterSetter:
		return []Node{v.Value}
	case *GlobalSetter:
		return []Node{v.Value}
	case *FieldSetter:
		return []Node{v.Object, v.Value}
	case *IndexSetter:
		return []Node{v.Target, v.Index, v.Value}
	case *DereferenceSetter:
		return []Node{v.Address, v.Value}
	case *Return:
		if v.Value == nil {
			return nil
		}
		return []Node{v.Value}
	case *Crash:
		return []Node{v.Value}
	case *Goto:
		return []Node{v.Label}
	case *Delete:
		return []Node{v.Value}
	case *While:
		return []Node{v.Condition, v.Body}
	case *For:
		return nonNil(v.Init, v.Condition, v.Step, v.Body)
	case *If:
		return nonNil(v.Condition, v.Then, v.Else)
	case *Block:
		out := make([]Node, len(v.Statements))
		for i, s := range v.Statements {
			out[i] = s
		}
		return out
	default:
		panic(diagnostics.Unexpected("ir.Children", n))
	}
}
