// Package inliner substitutes parameters into function bodies. The AST
// pass runs before typing and serves the evaluator and loop unrolling; the
// IR pass runs after lowering and inlines user calls.
package inliner

import (
	"github.com/pkg/errors"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
)

var (
	ErrEmptyBody           = errors.New("function body is empty")
	ErrAssignsParameter    = errors.New("assigns to a substituted parameter")
	ErrAddressOfParameter  = errors.New("takes the address of a substituted parameter")
	ErrShadowsParameter    = errors.New("declares a local that shadows a substituted parameter")
	ErrArgumentCleanup     = errors.New("argument has a cleanup")
	ErrVolatileArgument    = errors.New("argument has side effects")
	ErrUnknownVariable     = errors.New("references a variable without replacement")
	ErrControlFlow         = errors.New("contains labels or gotos")
	ErrNonTailReturn       = errors.New("returns before its last statement")
	ErrArgumentCount       = errors.New("argument count does not match")
	ErrWritesOutsideReturn = errors.New("value-returning body has statements besides its return")
)

// Replacements maps parameter names to the expressions substituted for them.
type Replacements map[string]ast.Expression

type astInliner struct {
	params Replacements
}

// InlineBody substitutes params into a copy of body.
func InlineBody(body *ast.Block, params Replacements) (*ast.Block, error) {
	if body == nil || len(body.Statements) == 0 {
		return nil, ErrEmptyBody
	}
	in := astInliner{params: params}
	return in.block(body)
}

// InlineStatement substitutes params into a copy of s.
func InlineStatement(s ast.Statement, params Replacements) (ast.Statement, error) {
	in := astInliner{params: params}
	return in.statement(s)
}

// InlineExpression substitutes params into a copy of e. With no params it
// is a deep copy.
func InlineExpression(e ast.Expression, params Replacements) (ast.Expression, error) {
	in := astInliner{params: params}
	return in.expression(e)
}

func (in astInliner) substituted(e ast.Expression) bool {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return false
	}
	_, ok = in.params[id.Name]
	return ok
}

func (in astInliner) block(b *ast.Block) (*ast.Block, error) {
	if b == nil {
		return nil, nil
	}
	out := &ast.Block{Token: b.Token, Statements: make([]ast.Statement, 0, len(b.Statements))}
	for _, s := range b.Statements {
		c, err := in.statement(s)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, c)
	}
	return out, nil
}

func (in astInliner) statement(s ast.Statement) (ast.Statement, error) {
	switch n := s.(type) {
	case nil:
		return nil, nil
	case *ast.VariableDeclaration:
		if _, ok := in.params[n.Name]; ok {
			return nil, ErrShadowsParameter
		}
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.VariableDeclaration{Token: n.Token, Name: n.Name, Type: n.Type, Modifiers: n.Modifiers, Value: v}, nil
	case *ast.Assignment:
		if in.substituted(n.Target) {
			return nil, ErrAssignsParameter
		}
		target, err := in.expression(n.Target)
		if err != nil {
			return nil, err
		}
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Token: n.Token, Target: target, Value: v}, nil
	case *ast.CompoundAssignment:
		if in.substituted(n.Target) {
			return nil, ErrAssignsParameter
		}
		target, err := in.expression(n.Target)
		if err != nil {
			return nil, err
		}
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CompoundAssignment{Token: n.Token, Operator: n.Operator, Target: target, Value: v}, nil
	case *ast.Increment:
		if in.substituted(n.Target) {
			return nil, ErrAssignsParameter
		}
		target, err := in.expression(n.Target)
		if err != nil {
			return nil, err
		}
		return &ast.Increment{Token: n.Token, Target: target, Decrement: n.Decrement}, nil
	case *ast.Return:
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Token: n.Token, Value: v}, nil
	case *ast.Crash:
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Crash{Token: n.Token, Value: v}, nil
	case *ast.Break:
		return &ast.Break{Token: n.Token}, nil
	case *ast.Delete:
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Delete{Token: n.Token, Value: v}, nil
	case *ast.Goto:
		v, err := in.expression(n.Label)
		if err != nil {
			return nil, err
		}
		return &ast.Goto{Token: n.Token, Label: v}, nil
	case *ast.If:
		cond, err := in.expression(n.Condition)
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
		return &ast.If{Token: n.Token, Condition: cond, Then: then, Else: els}, nil
	case *ast.While:
		cond, err := in.expression(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := in.block(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Token: n.Token, Condition: cond, Body: body}, nil
	case *ast.For:
		init, err := in.statement(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := in.expression(n.Condition)
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
		return &ast.For{Token: n.Token, Init: init, Condition: cond, Step: step, Body: body}, nil
	case *ast.Block:
		return in.block(n)
	case *ast.InstructionLabel:
		return &ast.InstructionLabel{Token: n.Token, Name: n.Name}, nil
	case *ast.ExpressionStatement:
		e, err := in.expression(n.Expression)
		if err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Token: n.Token, Expression: e}, nil
	default:
		panic(diagnostics.Unexpected("inliner.statement", s))
	}
}

func (in astInliner) arguments(args []*ast.Argument) ([]*ast.Argument, error) {
	out := make([]*ast.Argument, len(args))
	for i, a := range args {
		v, err := in.expression(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = &ast.Argument{Token: a.Token, Modifier: a.Modifier, Value: v}
	}
	return out, nil
}

func (in astInliner) expression(e ast.Expression) (ast.Expression, error) {
	switch n := e.(type) {
	case nil:
		return nil, nil
	case *ast.IntegerLiteral:
		c := *n
		return &c, nil
	case *ast.FloatLiteral:
		c := *n
		return &c, nil
	case *ast.CharLiteral:
		c := *n
		return &c, nil
	case *ast.StringLiteral:
		c := *n
		return &c, nil
	case *ast.BoolLiteral:
		c := *n
		return &c, nil
	case *ast.Identifier:
		if r, ok := in.params[n.Name]; ok {
			// every use gets its own copy so typing can differ per site
			return InlineExpression(r, nil)
		}
		c := *n
		return &c, nil
	case *ast.BinaryOperator:
		l, err := in.expression(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := in.expression(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperator{Token: n.Token, Operator: n.Operator, Left: l, Right: r}, nil
	case *ast.UnaryOperator:
		o, err := in.expression(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOperator{Token: n.Token, Operator: n.Operator, Operand: o}, nil
	case *ast.Call:
		callee, err := in.expression(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := in.arguments(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Token: n.Token, Callee: callee, TypeArgs: n.TypeArgs, Args: args}, nil
	case *ast.Index:
		target, err := in.expression(n.Target)
		if err != nil {
			return nil, err
		}
		index, err := in.expression(n.Index)
		if err != nil {
			return nil, err
		}
		return &ast.Index{Token: n.Token, Target: target, Index: index}, nil
	case *ast.Field:
		target, err := in.expression(n.Target)
		if err != nil {
			return nil, err
		}
		return &ast.Field{Token: n.Token, Target: target, Name: n.Name}, nil
	case *ast.Cast:
		v, err := in.expression(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Cast{Token: n.Token, Value: v, To: n.To}, nil
	case *ast.New:
		return &ast.New{Token: n.Token, Type: n.Type}, nil
	case *ast.ConstructorCall:
		args, err := in.arguments(n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.ConstructorCall{Token: n.Token, Type: n.Type, Args: args}, nil
	case *ast.AddressOf:
		if in.substituted(n.Operand) {
			return nil, ErrAddressOfParameter
		}
		o, err := in.expression(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.AddressOf{Token: n.Token, Operand: o}, nil
	case *ast.Dereference:
		o, err := in.expression(n.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Dereference{Token: n.Token, Operand: o}, nil
	case *ast.SizeOf:
		return &ast.SizeOf{Token: n.Token, Type: n.Type}, nil
	default:
		panic(diagnostics.Unexpected("inliner.expression", e))
	}
}
