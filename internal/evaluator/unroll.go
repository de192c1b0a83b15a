package evaluator

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/inliner"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// Literal turns a value back into source. Kinds other than the literal
// defaults carry an explicit suffix.
func Literal(v values.Value, tok token.Token) ast.Expression {
	k := v.Kind()
	if types.ClassOf(k) == types.Float {
		lit := &ast.FloatLiteral{Token: tok, Value: v.Float64()}
		if k.String() != config.DefaultFloatType {
			lit.Suffix = k.String()
		}
		return lit
	}
	lit := &ast.IntegerLiteral{Token: tok, Value: v.Int64()}
	if k.String() != config.DefaultIntegerType {
		lit.Suffix = k.String()
	}
	return lit
}

// Unroll replicates the body of a counting for loop once per iteration,
// substituting the iterator's value. The loop qualifies when its init
// declares the iterator, its step assigns only the iterator, its body has
// no break, and condition and step fold on every iteration.
func (c *Context) Unroll(loop *ast.For) ([]*ast.Block, bool) {
	init, ok := loop.Init.(*ast.VariableDeclaration)
	if !ok || init.Value == nil || loop.Condition == nil {
		return nil, false
	}
	name := init.Name
	step, ok := ast.Desugar(loop.Step).(*ast.Assignment)
	if !ok {
		return nil, false
	}
	if target, ok := step.Target.(*ast.Identifier); !ok || target.Name != name {
		return nil, false
	}
	if hasBreak(loop.Body) {
		return nil, false
	}

	f := c.pushFrame()
	defer c.popFrame()
	if !c.declaration(init) {
		return nil, false
	}

	var out []*ast.Block
	for i := 0; ; i++ {
		cond, ok := c.expression(loop.Condition)
		if !ok {
			return nil, false
		}
		if !cond.IsTruthy() {
			return out, true
		}
		if i >= config.ForIterationLimit {
			return nil, false
		}
		current := f.scopes[0][name]
		body, err := inliner.InlineBody(loop.Body, inliner.Replacements{name: Literal(current, init.Token)})
		if err != nil {
			return nil, false
		}
		out = append(out, body)

		v, ok := c.expression(step.Value)
		if !ok {
			return nil, false
		}
		f.scopes[0][name] = v.Convert(current.Kind())
	}
}

// hasBreak reports a break that would leave the loop itself; breaks of
// nested loops are fine.
func hasBreak(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.Break:
		return true
	case *ast.Block:
		if n == nil {
			return false
		}
		for _, st := range n.Statements {
			if hasBreak(st) {
				return true
			}
		}
	case *ast.If:
		return hasBreak(n.Then) || hasBreak(n.Else)
	}
	return false
}
