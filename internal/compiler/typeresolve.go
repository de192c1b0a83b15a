package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// resolveType turns written type syntax into a type. Names listed in
// generics become type parameters.
func (c *Compiler) resolveType(t ast.Type, generics []string) (types.Type, *diagnostics.Possible) {
	switch n := t.(type) {
	case nil:
		return types.VoidType, nil
	case *ast.TypeName:
		return c.resolveTypeName(n, generics)
	case *ast.PointerType:
		to, err := c.resolveType(n.To, generics)
		if err != nil {
			return nil, err
		}
		return types.Pointer{To: to}, nil
	case *ast.ArrayType:
		of, err := c.resolveType(n.Of, generics)
		if err != nil {
			return nil, err
		}
		arr := types.Array{Of: of, Length: n.Length}
		if n.Length != nil {
			if v, ok := c.eval.TryCompute(n.Length); ok {
				if length := int(v.Int64()); length >= 0 {
					arr.ComputedLength = &length
				}
			}
		}
		return arr, nil
	case *ast.FunctionType:
		ret, err := c.resolveType(n.Return, generics)
		if err != nil {
			return nil, err
		}
		fn := &types.Function{Return: ret}
		for _, p := range n.Params {
			pt, err := c.resolveType(p, generics)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, pt)
		}
		return fn, nil
	default:
		panic(diagnostics.Unexpected("compiler.resolveType", t))
	}
}

func (c *Compiler) resolveTypeName(n *ast.TypeName, generics []string) (types.Type, *diagnostics.Possible) {
	if len(n.TypeArgs) == 0 {
		if k, ok := types.ParseBuiltin(n.Name); ok {
			return types.Builtin{Kind: k}, nil
		}
		for _, g := range generics {
			if g == n.Name {
				return types.Generic{Name: g}, nil
			}
		}
	}

	if s, err := c.ResolveStruct(n.Name, n.Token); s != nil {
		if err != nil && blocking(err) {
			return nil, err
		}
		if err != nil {
			c.fail(err, n.Token)
		}
		if len(n.TypeArgs) != len(s.TypeParams) {
			return nil, diagnostics.Fail(diagnostics.ErrS009, n.Token, n.Name, len(s.TypeParams), len(n.TypeArgs))
		}
		st := &types.Struct{Decl: s}
		for _, a := range n.TypeArgs {
			at, err := c.resolveType(a, generics)
			if err != nil {
				return nil, err
			}
			st.TypeArguments = append(st.TypeArguments, at)
		}
		return st, nil
	}

	if a, err := c.ResolveAlias(n.Name, n.Token); a != nil {
		if err != nil && blocking(err) {
			return nil, err
		}
		if err != nil {
			c.fail(err, n.Token)
		}
		return a.Type, nil
	}

	return nil, diagnostics.Fail(diagnostics.ErrS006, n.Token, n.String())
}

// typeFromAST resolves a type inside the current frame, binding the type
// parameters of the instantiation being compiled. Failures are reported
// and yield void.
func (c *Compiler) typeFromAST(t ast.Type) types.Type {
	rt, err := c.resolveType(t, c.frame.typeParams)
	if err != nil {
		c.fail(err, t.GetToken())
		return types.VoidType
	}
	return types.Substitute(rt, c.frame.bindings)
}
