package evaluator

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

type control int

const (
	next control = iota
	returned
	broke
)

func (c *Context) block(b *ast.Block) (control, bool) {
	if b == nil {
		return next, true
	}
	c.pushScope()
	defer c.popScope()
	for _, s := range b.Statements {
		ctrl, ok := c.statement(s)
		if !ok {
			return next, false
		}
		if ctrl != next {
			return ctrl, true
		}
	}
	return next, true
}

func (c *Context) statement(s ast.Statement) (control, bool) {
	switch n := s.(type) {
	case nil:
		return next, true
	case *ast.VariableDeclaration:
		return next, c.declaration(n)
	case *ast.Assignment:
		id, ok := n.Target.(*ast.Identifier)
		if !ok {
			return next, false
		}
		v, ok := c.expression(n.Value)
		if !ok {
			return next, false
		}
		return next, c.assign(id.Name, v)
	case *ast.CompoundAssignment, *ast.Increment:
		return c.statement(ast.Desugar(n))
	case *ast.Return:
		f := c.current()
		slot, hasSlot := f.scopes[0][config.ReturnSlotName]
		if n.Value == nil {
			return returned, !hasSlot
		}
		if !hasSlot {
			return next, false
		}
		v, ok := c.expression(n.Value)
		if !ok {
			return next, false
		}
		f.scopes[0][config.ReturnSlotName] = v.Convert(slot.Kind())
		return returned, true
	case *ast.Break:
		return broke, true
	case *ast.If:
		cond, ok := c.expression(n.Condition)
		if !ok {
			return next, false
		}
		if cond.IsTruthy() {
			return c.nested(n.Then)
		}
		return c.nested(n.Else)
	case *ast.While:
		return c.while(n)
	case *ast.For:
		return c.forLoop(n)
	case *ast.Block:
		return c.block(n)
	case *ast.ExpressionStatement:
		return next, c.expressionStatement(n)
	case *ast.Crash, *ast.Delete, *ast.Goto, *ast.InstructionLabel:
		return next, false
	default:
		panic(diagnostics.Unexpected("evaluator.statement", s))
	}
}

// nested runs a branch in its own scope.
func (c *Context) nested(s ast.Statement) (control, bool) {
	if b, ok := s.(*ast.Block); ok {
		return c.block(b)
	}
	c.pushScope()
	defer c.popScope()
	return c.statement(s)
}

func (c *Context) declaration(n *ast.VariableDeclaration) bool {
	var kind types.Kind
	hasKind := false
	if n.Type != nil {
		k, ok := c.host.Kind(n.Type, c.callee())
		if !ok || types.ClassOf(k) == types.NotNumeric {
			return false
		}
		kind, hasKind = k, true
	}
	var v values.Value
	switch {
	case n.Value != nil:
		var ok bool
		if v, ok = c.expression(n.Value); !ok {
			return false
		}
		if !hasKind {
			kind, hasKind = naturalKind(n.Value, v)
		}
		if hasKind {
			v = v.Convert(kind)
		}
	case hasKind:
		v = values.Int(kind, 0)
	default:
		return false
	}
	return c.declare(n.Name, v)
}

func (c *Context) while(n *ast.While) (control, bool) {
	for i := 0; ; i++ {
		cond, ok := c.expression(n.Condition)
		if !ok {
			return next, false
		}
		if !cond.IsTruthy() {
			return next, true
		}
		if i >= config.WhileIterationLimit {
			return next, false
		}
		ctrl, ok := c.block(n.Body)
		if !ok {
			return next, false
		}
		switch ctrl {
		case returned:
			return returned, true
		case broke:
			return next, true
		}
	}
}

func (c *Context) forLoop(n *ast.For) (control, bool) {
	c.pushScope()
	defer c.popScope()
	if _, ok := c.statement(n.Init); !ok {
		return next, false
	}
	for i := 0; ; i++ {
		if n.Condition != nil {
			cond, ok := c.expression(n.Condition)
			if !ok {
				return next, false
			}
			if !cond.IsTruthy() {
				return next, true
			}
		}
		if i >= config.ForIterationLimit {
			return next, false
		}
		ctrl, ok := c.block(n.Body)
		if !ok {
			return next, false
		}
		switch ctrl {
		case returned:
			return returned, true
		case broke:
			return next, true
		}
		if _, ok := c.statement(n.Step); !ok {
			return next, false
		}
	}
}

// expressionStatement evaluates for effects. Calls to host primitives whose
// arguments fold are hoisted as runtime statements.
func (c *Context) expressionStatement(n *ast.ExpressionStatement) bool {
	call, ok := n.Expression.(*ast.Call)
	if !ok {
		_, ok := c.expression(n.Expression)
		return ok
	}
	args, ok := c.arguments(call)
	if !ok {
		return false
	}
	fn, ok := c.function(call, args)
	if !ok {
		return false
	}
	if !fn.External {
		_, ok := c.call(fn, args)
		return ok
	}
	hoisted := &ast.Call{Token: call.Token, Callee: call.Callee, TypeArgs: call.TypeArgs}
	for i, a := range call.Args {
		hoisted.Args = append(hoisted.Args, &ast.Argument{Token: a.Token, Modifier: a.Modifier, Value: hoistedArgument(fn, i, a.Value, args[i])})
	}
	c.runtime = append(c.runtime, &ast.ExpressionStatement{Token: n.Token, Expression: hoisted})
	return true
}

// hoistedArgument is the source of a folded argument of a hoisted call. A
// literal argument is kept as written so the checker types it against the
// parameter; any other argument becomes a literal of the parameter kind.
func hoistedArgument(fn *Function, i int, e ast.Expression, v values.Value) ast.Expression {
	if ast.IsLiteral(e) {
		return e
	}
	if i < len(fn.ParamKinds) && types.ClassOf(fn.ParamKinds[i]) != types.NotNumeric {
		v = v.Convert(fn.ParamKinds[i])
	}
	return Literal(v, e.GetToken())
}
