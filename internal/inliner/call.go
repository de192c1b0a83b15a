package inliner

import (
	"github.com/pkg/errors"

	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// Inlined is the result of InlineCall. Exactly one of Value and Block is set:
// Value for a body that is a single return, Block for a void body.
type Inlined struct {
	Value ir.Value
	Block *ir.Block
	// Replacements maps locals of the callee to their fresh copies.
	Replacements map[*symbols.Variable]*symbols.Variable
}

type irInliner struct {
	arguments    map[*symbols.Parameter]ir.Value
	replacements map[*symbols.Variable]*symbols.Variable
}

// InlineCall substitutes the lowered arguments into a copy of the lowered
// callee body. observed is the observed flag of the call being replaced.
func InlineCall(body *ir.Block, params []*symbols.Parameter, args []*ir.Argument, observed bool) (*Inlined, error) {
	if body == nil || len(body.Statements) == 0 {
		return nil, ErrEmptyBody
	}
	if len(params) != len(args) {
		return nil, ErrArgumentCount
	}
	in := &irInliner{
		arguments:    make(map[*symbols.Parameter]ir.Value, len(params)),
		replacements: make(map[*symbols.Variable]*symbols.Variable),
	}
	for i, p := range params {
		a := args[i]
		if !a.Cleanup.IsEmpty() {
			return nil, errors.Wrapf(ErrArgumentCleanup, "parameter %q", p.Name)
		}
		if c := Classify(a.Value); c&(Volatile|Bruh) != 0 {
			return nil, errors.Wrapf(ErrVolatileArgument, "parameter %q is %s", p.Name, c)
		}
		v := a.Value
		if !types.Same(v.Type(), p.Type) {
			v = &ir.Cast{ValueBase: ir.At(v.GetToken(), p.Type, true), Value: v}
		}
		in.arguments[p] = v
	}

	stmts := body.Statements
	if ret, ok := stmts[len(stmts)-1].(*ir.Return); ok && ret.Value != nil {
		if len(stmts) != 1 {
			return nil, ErrWritesOutsideReturn
		}
		v, err := in.value(ret.Value)
		if err != nil {
			return nil, err
		}
		if !in.isArgument(v) {
			ir.SetObserved(v, observed)
		}
		return &Inlined{Value: v, Replacements: in.replacements}, nil
	}

	out := &ir.Block{StatementBase: ir.Pos(body.Token)}
	for i, s := range stmts {
		if ret, ok := s.(*ir.Return); ok {
			if i != len(stmts)-1 || ret.Value != nil {
				return nil, ErrNonTailReturn
			}
			break
		}
		c, err := in.statement(s)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, c)
	}
	return &Inlined{Block: out, Replacements: in.replacements}, nil
}

func (in *irInliner) isArgument(v ir.Value) bool {
	for _, a := range in.arguments {
		if a == v {
			return true
		}
	}
	return false
}

func (in *irInliner) variable(v *symbols.Variable) (*symbols.Variable, error) {
	if v.Global {
		return v, nil
	}
	if r, ok := in.replacements[v]; ok {
		return r, nil
	}
	return nil, errors.Wrapf(ErrUnknownVariable, "%q", v.Name)
}

func (in *irInliner) args(args []*ir.Argument) ([]*ir.Argument, error) {
	out := make([]*ir.Argument, len(args))
	for i, a := range args {
		v, err := in.value(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = &ir.Argument{Value: v, Modifier: a.Modifier, Cleanup: a.Cleanup}
	}
	return out, nil
}

func (in *irInliner) value(v ir.Value) (ir.Value, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case *ir.Evaluated:
		c := *n
		return &c, nil
	case *ir.ParameterGetter:
		a, ok := in.arguments[n.Parameter]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownVariable, "parameter %q", n.Parameter.Name)
		}
		return a, nil
	case *ir.VariableGetter:
		r, err := in.variable(n.Variable)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Variable = r
		return &c, nil
	case *ir.GlobalGetter:
		c := *n
		return &c, nil
	case *ir.FieldGetter:
		o, err := in.value(n.Object)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Object = o
		return &c, nil
	case *ir.IndexGetter:
		t, err := in.value(n.Target)
		if err != nil {
			return nil, err
		}
		i, err := in.value(n.Index)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Target, c.Index = t, i
		return &c, nil
	case *ir.AddressOf:
		if _, ok := n.Of.(*ir.ParameterGetter); ok {
			return nil, ErrAddressOfParameter
		}
		o, err := in.value(n.Of)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Of = o
		return &c, nil
	case *ir.Dereference:
		a, err := in.value(n.Address)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Address = a
		return &c, nil
	case *ir.BinaryOperatorCall:
		l, err := in.value(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := in.value(n.Right)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Left, c.Right = l, r
		return &c, nil
	case *ir.UnaryOperatorCall:
		o, err := in.value(n.Operand)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Operand = o
		return &c, nil
	case *ir.FunctionCall:
		args, err := in.args(n.Arguments)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Arguments = args
		return &c, nil
	case *ir.ConstructorCall:
		o, err := in.value(n.Object)
		if err != nil {
			return nil, err
		}
		args, err := in.args(n.Arguments)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Object, c.Arguments = o, args
		return &c, nil
	case *ir.ExternalCall:
		args, err := in.args(n.Arguments)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Arguments = args
		return &c, nil
	case *ir.RuntimeCall:
		callee, err := in.value(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := in.args(n.Arguments)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Callee, c.Arguments = callee, args
		return &c, nil
	case *ir.Cast:
		o, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Value = o
		return &c, nil
	case *ir.StackAllocation:
		c := *n
		return &c, nil
	case *ir.StringInstance:
		a, err := in.value(n.Allocator)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Allocator = a
		return &c, nil
	case *ir.FunctionAddress:
		c := *n
		return &c, nil
	case *ir.LabelAddress:
		return nil, ErrControlFlow
	default:
		panic(diagnostics.Unexpected("inliner.value", v))
	}
}

func (in *irInliner) block(b *ir.Block) (*ir.Block, error) {
	if b == nil {
		return nil, nil
	}
	out := &ir.Block{StatementBase: ir.Pos(b.Token), Statements: make([]ir.Statement, 0, len(b.Statements))}
	for _, s := range b.Statements {
		c, err := in.statement(s)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, c)
	}
	return out, nil
}

func (in *irInliner) statement(s ir.Statement) (ir.Statement, error) {
	switch n := s.(type) {
	case nil:
		return nil, nil
	case *ir.VariableDeclaration:
		init, err := in.value(n.Initial)
		if err != nil {
			return nil, err
		}
		fresh := *n.Variable
		in.replacements[n.Variable] = &fresh
		c := *n
		c.Variable, c.Initial = &fresh, init
		return &c, nil
	case *ir.VariableSetter:
		r, err := in.variable(n.Variable)
		if err != nil {
			return nil, err
		}
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Variable, c.Value = r, v
		return &c, nil
	case *ir.ParameterSetter:
		return nil, ErrAssignsParameter
	case *ir.GlobalSetter:
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Value = v
		return &c, nil
	case *ir.FieldSetter:
		o, err := in.value(n.Object)
		if err != nil {
			return nil, err
		}
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Object, c.Value = o, v
		return &c, nil
	case *ir.IndexSetter:
		t, err := in.value(n.Target)
		if err != nil {
			return nil, err
		}
		i, err := in.value(n.Index)
		if err != nil {
			return nil, err
		}
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Target, c.Index, c.Value = t, i, v
		return &c, nil
	case *ir.DereferenceSetter:
		a, err := in.value(n.Address)
		if err != nil {
			return nil, err
		}
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Address, c.Value = a, v
		return &c, nil
	case *ir.Return:
		return nil, ErrNonTailReturn
	case *ir.Crash:
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Value = v
		return &c, nil
	case *ir.Break:
		c := *n
		return &c, nil
	case *ir.Goto, *ir.LabelDeclaration:
		return nil, ErrControlFlow
	case *ir.Delete:
		v, err := in.value(n.Value)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Value = v
		return &c, nil
	case *ir.While:
		cond, err := in.value(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := in.block(n.Body)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Condition, c.Body = cond, body
		return &c, nil
	case *ir.For:
		init, err := in.statement(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := in.value(n.Condition)
		if err != nil {
			return nil, err
		}
		step, err := in.statement(n.Step)
		if err != nil {
			return nil, err
		}
		body, err := in.block(n.Body)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Init, c.Condition, c.Step, c.Body = init, cond, step, body
		return &c, nil
	case *ir.If:
		cond, err := in.value(n.Condition)
		if err != nil {
			return nil, err
		}
		then, err := in.statement(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := in.statement(n.Else)
		if err != nil {
			return nil, err
		}
		c := *n
		c.Condition, c.Then, c.Else = cond, then, els
		return &c, nil
	case *ir.Block:
		return in.block(n)
	case *ir.Empty:
		c := *n
		return &c, nil
	case ir.Value:
		return in.value(n)
	default:
		panic(diagnostics.Unexpected("inliner.statement", s))
	}
}
