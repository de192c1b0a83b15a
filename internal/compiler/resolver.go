package compiler

import (
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// Query describes a use site to resolve.
type Query struct {
	Identifier string
	// Arguments are the argument expressions, used to let literals adopt
	// the parameter type. May be nil or shorter than ArgumentTypes.
	Arguments []ast.Expression
	// ArgumentTypes is nil when the arity is not known, as for a function
	// referenced by name.
	ArgumentTypes []types.Type
	TypeArguments []types.Type
	// ReturnType is the expected result type, nil when unconstrained.
	ReturnType types.Type
	// File is the file of the use site.
	File string
	// RequiredFile restricts candidates to one file when set.
	RequiredFile string
	Token        token.Token
}

func (q *Query) argument(i int) ast.Expression {
	if i < len(q.Arguments) {
		return q.Arguments[i]
	}
	return nil
}

func (q *Query) describeArguments() string {
	parts := make([]string, len(q.ArgumentTypes))
	for i, t := range q.ArgumentTypes {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Match is a resolved callable.
type Match[T symbols.Callable] struct {
	Decl     T
	Goodness Goodness
	// Instantiated is set when Decl was created from a template.
	Instantiated bool
}

// score computes the goodness of decl for q. The possible diagnostic
// explains why the next tier was not reached.
func (c *Compiler) score(decl symbols.Callable, q *Query) (Goodness, *diagnostics.Possible) {
	base := decl.Base()
	if base.Name != q.Identifier {
		return NoMatch, nil
	}
	if q.RequiredFile != "" && base.File != q.RequiredFile {
		return NoMatch, nil
	}
	kind := decl.Kind().String()
	if len(q.TypeArguments) > 0 {
		return IdentifierMatch, diagnostics.Fail(diagnostics.ErrS009, q.Token, q.Identifier, len(base.TypeParams), len(q.TypeArguments))
	}

	if q.ArgumentTypes != nil {
		if len(base.Params) != len(q.ArgumentTypes) {
			return IdentifierMatch, diagnostics.Fail(diagnostics.ErrS002, q.Token, kind+" \""+q.Identifier+"\"", len(base.Params), len(q.ArgumentTypes))
		}
		var causes []*diagnostics.Possible
		for i, p := range base.Params {
			if !c.convertible(q.ArgumentTypes[i], q.argument(i), p.Type) {
				causes = append(causes, c.canCast(q.ArgumentTypes[i], p.Type, q.argument(i)).At(q.Token))
			}
		}
		if len(causes) > 0 {
			return ParameterCountMatch, diagnostics.Fail(diagnostics.ErrS003, q.Token, kind, q.Identifier, q.describeArguments()).WithCauses(causes...)
		}
	}

	g := Good
	if !c.parametersMatch(base.Params, q, perfectType) {
		return g, nil
	}
	g = PerfectParameterTypes
	if q.ReturnType != nil && !types.Same(base.Return, q.ReturnType) {
		return g, nil
	}
	g = PerfectReturnType
	if !c.parametersMatch(base.Params, q, types.Identical) {
		return g, nil
	}
	g = VeryPerfectParameterTypes
	if q.ReturnType != nil && !types.Identical(base.Return, q.ReturnType) {
		return g, nil
	}
	g = VeryPerfectReturnType
	if base.File == q.File {
		g = FileMatch
	}
	return g, nil
}

// perfectType is Same with the sized to unsized array pointer erasure.
func perfectType(arg, param types.Type) bool {
	if types.Same(arg, param) {
		return true
	}
	a, ok := types.AsPointer(arg)
	if !ok {
		return false
	}
	p, ok := types.AsPointer(param)
	return ok && arrayErasure(a, p)
}

func (c *Compiler) parametersMatch(params []*symbols.Parameter, q *Query, eq func(a, b types.Type) bool) bool {
	if q.ArgumentTypes == nil {
		return true
	}
	for i, p := range params {
		if !eq(q.ArgumentTypes[i], p.Type) {
			return false
		}
	}
	return true
}

// convertible reports whether an argument may be passed for a parameter.
// Literals convert to any numeric parameter they fit.
func (c *Compiler) convertible(arg types.Type, value ast.Expression, param types.Type) bool {
	if c.canCast(arg, param, value) == nil {
		return true
	}
	if lit, ok := literalOf(value); ok {
		if k, ok := types.Numeric(param); ok && lit.fits(k) {
			return true
		}
	}
	return false
}

// resolve selects the best callable among concrete declarations, falling
// back to templates when no concrete one is good enough. Candidates are
// scanned in table order and replace the best only with a strictly higher
// goodness; two candidates both matching at file level are ambiguous, in
// which case the first is returned together with the diagnostic.
func resolve[T symbols.Callable](c *Compiler, q Query, concrete, templates []T) (Match[T], *diagnostics.Possible) {
	var best Match[T]
	var bestErr *diagnostics.Possible
	var ambiguous *diagnostics.Possible

	for _, decl := range concrete {
		g, err := c.score(decl, &q)
		if g == FileMatch && best.Goodness == FileMatch {
			ambiguous = diagnostics.Fail(diagnostics.ErrS004, q.Token, decl.Kind().String(), q.Identifier, signature(best.Decl), signature(decl))
			continue
		}
		if g > best.Goodness {
			best = Match[T]{Decl: decl, Goodness: g}
			bestErr = err
		}
	}
	if best.Goodness >= Good {
		return best, ambiguous
	}

	for _, tmpl := range templates {
		inst, err, ok := instantiate(c, tmpl, &q)
		if ok {
			return Match[T]{Decl: inst, Goodness: PerfectParameterTypes, Instantiated: true}, nil
		}
		if err != nil && best.Goodness <= IdentifierMatch {
			best.Goodness = IdentifierMatch
			bestErr = err
		}
	}

	if best.Goodness == NoMatch {
		return best, diagnostics.Fail(diagnostics.ErrS001, q.Token, "symbol", q.Identifier)
	}
	return Match[T]{}, bestErr
}

// instantiate binds the type parameters of tmpl for q and materializes the
// instantiation through the template cache.
func instantiate[T symbols.Callable](c *Compiler, tmpl T, q *Query) (T, *diagnostics.Possible, bool) {
	var zero T
	base := tmpl.Base()
	if base.Name != q.Identifier || (q.RequiredFile != "" && base.File != q.RequiredFile) {
		return zero, nil, false
	}
	if q.ArgumentTypes != nil && len(base.Params) != len(q.ArgumentTypes) {
		return zero, diagnostics.Fail(diagnostics.ErrS002, q.Token, tmpl.Kind().String()+" \""+q.Identifier+"\"", len(base.Params), len(q.ArgumentTypes)), false
	}

	bindings := make(map[string]types.Type, len(base.TypeParams))
	if len(q.TypeArguments) > 0 {
		if len(q.TypeArguments) != len(base.TypeParams) {
			return zero, diagnostics.Fail(diagnostics.ErrS009, q.Token, q.Identifier, len(base.TypeParams), len(q.TypeArguments)), false
		}
		for i, p := range base.TypeParams {
			bindings[p] = q.TypeArguments[i]
		}
	} else {
		if q.ArgumentTypes == nil {
			return zero, nil, false
		}
		for i, p := range base.Params {
			if !types.Unify(p.Type, q.ArgumentTypes[i], bindings) {
				return zero, diagnostics.Fail(diagnostics.ErrS003, q.Token, tmpl.Kind().String(), q.Identifier, q.describeArguments()), false
			}
		}
	}
	for _, p := range base.TypeParams {
		if b, ok := bindings[p]; !ok || types.ContainsGeneric(b) {
			return zero, diagnostics.Fail(diagnostics.ErrS003, q.Token, tmpl.Kind().String(), q.Identifier, q.describeArguments()), false
		}
	}

	inst, ok := c.tables.Instantiate(tmpl, bindings).(T)
	if !ok {
		return zero, nil, false
	}
	if q.ArgumentTypes != nil {
		for i, p := range inst.Base().Params {
			if !c.convertible(q.ArgumentTypes[i], q.argument(i), p.Type) {
				return zero, diagnostics.Fail(diagnostics.ErrS003, q.Token, tmpl.Kind().String(), q.Identifier, q.describeArguments()), false
			}
		}
	}
	return inst, nil, true
}

func signature(decl symbols.Callable) string {
	base := decl.Base()
	params := make([]string, len(base.Params))
	for i, p := range base.Params {
		params[i] = p.Type.String()
	}
	return base.Name + "(" + strings.Join(params, ", ") + ")"
}

// ---- callables ----

func (c *Compiler) query(name string, tok token.Token, args []ast.Expression, argTypes []types.Type) Query {
	return Query{
		Identifier:    name,
		Arguments:     args,
		ArgumentTypes: argTypes,
		File:          c.file,
		Token:         tok,
	}
}

func (c *Compiler) ResolveFunction(q Query) (Match[*symbols.Function], *diagnostics.Possible) {
	var concrete, templates []*symbols.Function
	for _, f := range c.tables.Functions {
		if f.Context == nil {
			concrete = append(concrete, f)
		}
	}
	for _, f := range c.tables.FunctionTemplates {
		if f.Context == nil {
			templates = append(templates, f)
		}
	}
	return resolve(c, q, concrete, templates)
}

// ResolveMethod resolves a function declared on s. The first argument of q
// is the receiver.
func (c *Compiler) ResolveMethod(s *symbols.Struct, q Query) (Match[*symbols.Function], *diagnostics.Possible) {
	var concrete, templates []*symbols.Function
	for _, f := range c.tables.Functions {
		if f.Context == s {
			concrete = append(concrete, f)
		}
	}
	for _, f := range c.tables.FunctionTemplates {
		if f.Context == s {
			templates = append(templates, f)
		}
	}
	return resolve(c, q, concrete, templates)
}

func (c *Compiler) ResolveOperator(q Query) (Match[*symbols.Operator], *diagnostics.Possible) {
	return resolve(c, q, c.tables.Operators, c.tables.OperatorTemplates)
}

func (c *Compiler) ResolveGeneralFunction(q Query) (Match[*symbols.GeneralFunction], *diagnostics.Possible) {
	return resolve(c, q, c.tables.GeneralFunctions, c.tables.GeneralFunctionTemplates)
}

// ResolveConstructor resolves a constructor of the struct s. The first
// argument of q is the new object.
func (c *Compiler) ResolveConstructor(s *symbols.Struct, q Query) (Match[*symbols.Constructor], *diagnostics.Possible) {
	var concrete, templates []*symbols.Constructor
	for _, k := range c.tables.Constructors {
		if k.Context == s {
			concrete = append(concrete, k)
		}
	}
	for _, k := range c.tables.ConstructorTemplates {
		if k.Context == s {
			templates = append(templates, k)
		}
	}
	q.Identifier = s.Name
	return resolve(c, q, concrete, templates)
}

// builtinFunction finds the function tagged [Builtin(tag)].
func (c *Compiler) builtinFunction(tag string) (*symbols.Function, bool) {
	for _, f := range c.tables.Functions {
		if f.Builtin == tag {
			return f, true
		}
	}
	return nil, false
}

// ---- names ----

// resolveName selects a declaration by name with the tiers identifier,
// good and file. A protection level violation is reported after selection
// and does not discard the match.
func resolveName[T symbols.Declaration](c *Compiler, items []T, name string, tok token.Token, kind string) (T, *diagnostics.Possible) {
	var best T
	bestGoodness := NoMatch
	var ambiguous *diagnostics.Possible
	for _, d := range items {
		if d.Identifier() != name {
			continue
		}
		g := Good
		if d.DeclaringFile() == c.file {
			g = FileMatch
		}
		if g == FileMatch && bestGoodness == FileMatch {
			ambiguous = diagnostics.Fail(diagnostics.ErrS004, tok, kind, name, kind+" "+name, kind+" "+name)
			continue
		}
		if g > bestGoodness {
			best, bestGoodness = d, g
		}
	}
	if bestGoodness == NoMatch {
		return best, diagnostics.Fail(diagnostics.ErrS001, tok, kind, name)
	}
	if ambiguous != nil {
		return best, ambiguous
	}
	if !best.CanUse(c.file) {
		return best, diagnostics.Fail(diagnostics.ErrS005, tok, kind, name)
	}
	return best, nil
}

func (c *Compiler) ResolveStruct(name string, tok token.Token) (*symbols.Struct, *diagnostics.Possible) {
	return resolveName(c, c.tables.Structs, name, tok, "struct")
}

func (c *Compiler) ResolveAlias(name string, tok token.Token) (*symbols.Alias, *diagnostics.Possible) {
	return resolveName(c, c.tables.Aliases, name, tok, "alias")
}

func (c *Compiler) ResolveGlobalVariable(name string, tok token.Token) (*symbols.Variable, *diagnostics.Possible) {
	return resolveName(c, c.tables.Global.Variables, name, tok, "variable")
}

func (c *Compiler) ResolveGlobalConstant(name string, tok token.Token) (*symbols.Constant, *diagnostics.Possible) {
	return resolveName(c, c.tables.Global.Constants, name, tok, "constant")
}

func (c *Compiler) ResolveGlobalLabel(name string, tok token.Token) (*symbols.Label, *diagnostics.Possible) {
	return resolveName(c, c.tables.Global.Labels, name, tok, "label")
}

// blocking reports whether p must stop the use of the resolved declaration.
// Protection level and ambiguity diagnostics still let the match through.
func blocking(p *diagnostics.Possible) bool {
	return p != nil && p.Code != diagnostics.ErrS005 && p.Code != diagnostics.ErrS004
}
