package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/evaluator"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// evalHost answers the evaluator's symbol questions from the current
// compilation state. It never reports diagnostics. While the evaluator runs
// a function body, callee is that function: its names resolve against the
// globals of its declaring file, never against the caller's locals.
type evalHost struct {
	c *Compiler
}

func (h evalHost) Constant(name string, callee *evaluator.Function) (values.Value, bool) {
	c := h.c
	file := c.file
	if callee == nil {
		if _, ok := c.scopes.Variable(name); ok {
			return values.Value{}, false
		}
		if k, ok := c.scopes.Constant(name); ok {
			return k.Value, true
		}
		if _, ok := c.parameter(name); ok {
			return values.Value{}, false
		}
	} else {
		file = callee.File
	}
	if k, err := c.ResolveGlobalConstant(name, token.Token{File: file}); k != nil && !blocking(err) {
		return k.Value, true
	}
	return values.Value{}, false
}

func (h evalHost) Function(call *ast.Call, args []values.Value, callee *evaluator.Function) (*evaluator.Function, bool) {
	c := h.c
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || call.TypeArgs != nil {
		return nil, false
	}
	if callee == nil {
		if _, ok := c.scopes.Variable(id.Name); ok {
			return nil, false
		}
	}
	exprs := make([]ast.Expression, len(call.Args))
	for i, a := range call.Args {
		exprs[i] = a.Value
	}
	q := c.query(id.Name, call.Token, exprs, valueTypes(args))
	if callee != nil {
		q.File = callee.File
	}
	m, err := c.ResolveFunction(q)
	if err != nil && blocking(err) {
		return nil, false
	}
	if m.Goodness < Good {
		return nil, false
	}
	return c.evaluatorFunction(m.Decl)
}

func (h evalHost) Operator(op string, operands []values.Value, callee *evaluator.Function) (*evaluator.Function, bool) {
	c := h.c
	file := c.file
	if callee != nil {
		file = callee.File
	}
	q := c.query(op, token.Token{File: file}, nil, valueTypes(operands))
	q.File = file
	m, err := c.ResolveOperator(q)
	if (err != nil && blocking(err)) || m.Goodness < Good {
		return nil, false
	}
	return c.evaluatorFunction(m.Decl)
}

// resolve resolves t where the evaluator currently runs. Type parameters
// only exist in the frame being lowered; evaluated callees have none.
func (h evalHost) resolve(t ast.Type, callee *evaluator.Function) (types.Type, bool) {
	c := h.c
	typeParams, bindings := c.frame.typeParams, c.frame.bindings
	if callee != nil {
		saved := c.file
		c.file = callee.File
		defer func() { c.file = saved }()
		typeParams, bindings = nil, nil
	}
	rt, err := c.resolveType(t, typeParams)
	if err != nil {
		return nil, false
	}
	return types.Substitute(rt, bindings), true
}

func (h evalHost) Kind(t ast.Type, callee *evaluator.Function) (types.Kind, bool) {
	rt, ok := h.resolve(t, callee)
	if !ok {
		return 0, false
	}
	return types.Numeric(rt)
}

func (h evalHost) SizeOf(t ast.Type, callee *evaluator.Function) (values.Value, bool) {
	rt, ok := h.resolve(t, callee)
	if !ok {
		return values.Value{}, false
	}
	size, ok := h.c.SizeOf(rt)
	if !ok {
		return values.Value{}, false
	}
	return values.Int(h.c.settings.SizeofKind(), int64(size)), true
}

// LiteralKind is the kind lowering gave literal e, if it has lowered it.
func (h evalHost) LiteralKind(e ast.Expression) (types.Kind, bool) {
	t, ok := h.c.frame.types[e]
	if !ok {
		return 0, false
	}
	return types.Numeric(t)
}

func (h evalHost) BooleanKind() types.Kind { return h.c.settings.BooleanKind() }

func valueTypes(vs []values.Value) []types.Type {
	out := make([]types.Type, len(vs))
	for i, v := range vs {
		out[i] = v.Type()
	}
	return out
}

// evaluatorFunction describes decl for the evaluator. Only callables with
// numeric parameters and a numeric or void result can be evaluated; host
// primitives are described so that calls to them can be hoisted.
func (c *Compiler) evaluatorFunction(decl symbols.Callable) (*evaluator.Function, bool) {
	if fn, ok := c.evalFunctions[decl]; ok {
		return fn, fn != nil
	}
	base := decl.Base()
	if base.TypeArguments != nil {
		c.evalFunctions[decl] = nil
		return nil, false
	}
	fn := &evaluator.Function{
		Name:     base.Name,
		File:     base.File,
		Body:     base.Body(),
		External: base.IsExternal(),
	}
	for _, p := range base.Params {
		fn.Params = append(fn.Params, p.Name)
		k, ok := types.Numeric(p.Type)
		if fn.External {
			if !ok {
				k = types.Void
			}
			fn.ParamKinds = append(fn.ParamKinds, k)
			continue
		}
		if !ok || p.IsRef() {
			c.evalFunctions[decl] = nil
			return nil, false
		}
		fn.ParamKinds = append(fn.ParamKinds, k)
	}
	switch {
	case types.IsVoid(base.Return):
		fn.ReturnKind = types.Void
	default:
		k, ok := types.Numeric(base.Return)
		if !ok && !fn.External {
			c.evalFunctions[decl] = nil
			return nil, false
		}
		fn.ReturnKind = k
	}
	c.evalFunctions[decl] = fn
	return fn, true
}
