package compiler

import (
	"unicode/utf8"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/inliner"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// labelType is the type of a label used as a value.
var labelType types.Type = types.Pointer{To: types.AnyType}

// lowerExpression types and lowers e. expected is the type the context
// wants, nil when unconstrained; literals adopt it when they fit. The
// result is recorded as the type of e in the current frame.
func (c *Compiler) lowerExpression(e ast.Expression, expected types.Type) ir.Value {
	var v ir.Value
	switch n := e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.CharLiteral:
		lit, _ := literalOf(n)
		v = c.lowerLiteral(lit, expected)
	case *ast.BoolLiteral:
		v = c.boolean(n.Token, n.Value)
	case *ast.StringLiteral:
		v = c.lowerString(n, expected)
	case *ast.Identifier:
		v = c.lowerIdentifier(n, expected)
	case *ast.UnaryOperator:
		if lit, ok := literalOf(n); ok {
			v = c.lowerLiteral(lit, expected)
		} else {
			v = c.fold(e, c.lowerUnary(n, expected))
		}
	case *ast.BinaryOperator:
		v = c.fold(e, c.lowerBinary(n, expected))
	case *ast.Call:
		v = c.fold(e, c.lowerCall(n, expected))
	case *ast.Cast:
		v = c.fold(e, c.lowerCast(n))
	case *ast.SizeOf:
		v = c.lowerSizeOf(n)
	case *ast.Index:
		v = c.lowerIndex(n)
	case *ast.Field:
		v = c.lowerField(n)
	case *ast.New:
		v = c.allocate(c.typeFromAST(n.Type), n.Token)
	case *ast.ConstructorCall:
		v = c.lowerConstructorCall(n)
	case *ast.AddressOf:
		v = c.lowerAddressOf(n)
	case *ast.Dereference:
		v = c.lowerDereference(n)
	default:
		panic(diagnostics.Unexpected("compiler.lowerExpression", e))
	}
	return c.record(e, v)
}

// ---- names ----

func (c *Compiler) lowerIdentifier(n *ast.Identifier, expected types.Type) ir.Value {
	if v, ok := c.scopes.Variable(n.Name); ok {
		return &ir.VariableGetter{ValueBase: ir.At(n.Token, v.Type, true), Variable: v}
	}
	if k, ok := c.scopes.Constant(n.Name); ok {
		return constantValue(n.Token, k)
	}
	if p, ok := c.parameter(n.Name); ok {
		return &ir.ParameterGetter{ValueBase: ir.At(n.Token, p.Type, true), Parameter: p}
	}
	if v, err := c.ResolveGlobalVariable(n.Name, n.Token); v != nil {
		c.fail(err, n.Token)
		c.addReference(v, n.Token)
		if v.Type == nil {
			c.report(diagnostics.ErrT006, n.Token, "the type of \""+n.Name+"\" is not known before its declaration")
			return invalid(n.Token)
		}
		return &ir.GlobalGetter{ValueBase: ir.At(n.Token, v.Type, true), Variable: v}
	}
	if k, err := c.ResolveGlobalConstant(n.Name, n.Token); k != nil {
		c.fail(err, n.Token)
		c.addReference(k, n.Token)
		return constantValue(n.Token, k)
	}
	if l, ok := c.scopes.Label(n.Name); ok {
		return &ir.LabelAddress{ValueBase: ir.At(n.Token, labelType, true), Label: l}
	}
	if l, err := c.ResolveGlobalLabel(n.Name, n.Token); l != nil {
		c.fail(err, n.Token)
		c.addReference(l, n.Token)
		return &ir.LabelAddress{ValueBase: ir.At(n.Token, labelType, true), Label: l}
	}

	q := c.query(n.Name, n.Token, nil, nil)
	if ft, ok := types.Underlying(expected).(*types.Function); ok {
		q.ArgumentTypes = ft.Params
		q.ReturnType = ft.Return
	}
	if m, err := c.ResolveFunction(q); m.Decl != nil {
		c.fail(err, n.Token)
		c.addReference(m.Decl, n.Token)
		return &ir.FunctionAddress{ValueBase: ir.At(n.Token, m.Decl.Type(), true), Function: m.Decl}
	}

	c.report(diagnostics.ErrS001, n.Token, "symbol", n.Name)
	return invalid(n.Token)
}

func constantValue(tok token.Token, k *symbols.Constant) ir.Value {
	return &ir.Evaluated{ValueBase: ir.At(tok, k.Type, true), Value: k.Value}
}

// isValueName reports whether name refers to a value rather than to a
// function, so that calling it goes through the value.
func (c *Compiler) isValueName(name string, tok token.Token) bool {
	if _, ok := c.scopes.Variable(name); ok {
		return true
	}
	if _, ok := c.parameter(name); ok {
		return true
	}
	v, _ := c.ResolveGlobalVariable(name, tok)
	return v != nil
}

// ---- arguments ----

// argument is an operand lowered ahead of resolution. Numeric literals
// stay unlowered until the parameter they are passed to is known; typ is
// their tentative type meanwhile.
type argument struct {
	expr     ast.Expression
	token    token.Token
	modifier string
	value    ir.Value
	typ      types.Type
}

func (c *Compiler) prepareArgument(e ast.Expression, modifier string, tok token.Token, expected types.Type) *argument {
	a := &argument{expr: e, token: tok, modifier: modifier}
	if lit, ok := literalOf(e); ok {
		a.typ = types.Builtin{Kind: lit.defaultKind()}
		return a
	}
	a.value = c.lowerExpression(e, expected)
	a.typ = a.value.Type()
	return a
}

func (c *Compiler) prepareArguments(args []*ast.Argument) []*argument {
	out := make([]*argument, len(args))
	for i, a := range args {
		out[i] = c.prepareArgument(a.Value, a.Modifier, a.Token, nil)
	}
	return out
}

func argumentQuery(args []*argument) ([]ast.Expression, []types.Type) {
	exprs := make([]ast.Expression, len(args))
	ts := make([]types.Type, len(args))
	for i, a := range args {
		exprs[i], ts[i] = a.expr, a.typ
	}
	return exprs, ts
}

func (a *argument) invalid() bool {
	return a.value != nil && isInvalid(a.value)
}

func anyInvalid(args []*argument) bool {
	for _, a := range args {
		if a.invalid() {
			return true
		}
	}
	return false
}

// finishArguments lowers the deferred literals with their parameter types
// and checks every argument against its parameter.
func (c *Compiler) finishArguments(params []*symbols.Parameter, args []*argument) []*ir.Argument {
	out := make([]*ir.Argument, len(args))
	for i, a := range args {
		p := params[i]
		v := a.value
		if v == nil {
			v = c.lowerExpression(a.expr, p.Type)
		}
		arg := &ir.Argument{Value: c.assign(v, a.expr, p.Type, a.token), Modifier: a.modifier}
		c.argumentCleanup(arg, p, a.token)
		out[i] = arg
	}
	return out
}

// argumentCleanup decides who releases an argument. A temp parameter takes
// ownership of temp arguments and fresh allocations; any other parameter
// leaves a temp argument unreleased, which is reported.
func (c *Compiler) argumentCleanup(arg *ir.Argument, p *symbols.Parameter, tok token.Token) {
	if arg.Modifier == config.ModifierRef {
		if !addressable(arg.Value) && !isInvalid(arg.Value) {
			c.report(diagnostics.ErrT006, tok, "a ref argument must be a variable, a field or an element")
		}
		return
	}
	if arg.Modifier != config.ModifierTemp && !isAllocation(arg.Value) {
		return
	}
	if !p.IsTemp() {
		if arg.Modifier == config.ModifierTemp {
			c.report(diagnostics.ErrL001, tok, p.Name)
		}
		return
	}
	cleanup, err := c.cleanupFor(arg.Value.Type(), tok)
	c.fail(err, tok)
	arg.Cleanup = cleanup
}

// isAllocation reports whether v produces fresh heap memory.
func isAllocation(v ir.Value) bool {
	switch n := v.(type) {
	case *ir.ConstructorCall:
		return true
	case *ir.StringInstance:
		_, stack := n.Allocator.(*ir.StackAllocation)
		return !stack
	case *ir.Cast:
		return isAllocatorCall(n.Value)
	}
	return isAllocatorCall(v)
}

func isAllocatorCall(v ir.Value) bool {
	switch n := v.(type) {
	case *ir.FunctionCall:
		return n.Function.Base().Builtin == config.BuiltinAllocate
	case *ir.ExternalCall:
		return n.Function.Base().Builtin == config.BuiltinAllocate
	}
	return false
}

// ---- calls ----

func (c *Compiler) lowerCall(n *ast.Call, expected types.Type) ir.Value {
	var v ir.Value
	switch callee := n.Callee.(type) {
	case *ast.Identifier:
		if c.isValueName(callee.Name, callee.Token) {
			v = c.runtimeCall(n, c.lowerExpression(callee, nil))
		} else {
			v = c.lowerFunctionCall(n, callee, expected)
		}
	case *ast.Field:
		v = c.lowerMemberCall(n, callee)
	default:
		v = c.runtimeCall(n, c.lowerExpression(n.Callee, nil))
	}

	if call, ok := v.(*ir.FunctionCall); ok && !types.IsVoid(call.Type()) {
		if s, ok := c.inline(call); ok {
			return s.(ir.Value)
		}
	}
	return v
}

func (c *Compiler) typeArguments(ts []ast.Type) []types.Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]types.Type, len(ts))
	for i, t := range ts {
		out[i] = c.typeFromAST(t)
	}
	return out
}

func (c *Compiler) lowerFunctionCall(n *ast.Call, callee *ast.Identifier, expected types.Type) ir.Value {
	args := c.prepareArguments(n.Args)
	if anyInvalid(args) {
		return invalid(n.Token)
	}
	exprs, ts := argumentQuery(args)
	q := c.query(callee.Name, n.Token, exprs, ts)
	q.TypeArguments = c.typeArguments(n.TypeArgs)
	if expected != nil && !types.IsVoid(expected) {
		q.ReturnType = expected
	}
	m, err := c.ResolveFunction(q)
	if m.Decl == nil {
		c.fail(err, n.Token)
		return invalid(n.Token)
	}
	c.fail(err, n.Token)
	return c.callDecl(m.Decl, n.Token, nil, args)
}

// lowerMemberCall lowers x.m(args). Methods of the receiver's struct get
// the receiver's address as `this`; a function typed field is called
// through its value.
func (c *Compiler) lowerMemberCall(n *ast.Call, callee *ast.Field) ir.Value {
	target := c.lowerExpression(callee.Target, nil)
	if isInvalid(target) {
		return target
	}
	s, ok := receiverStruct(target.Type())
	if !ok || !c.hasMethod(s, callee.Name) {
		return c.runtimeCall(n, c.fieldOf(target, callee.Name, callee.Token))
	}

	recv, ok := c.receiver(target, callee.Token)
	if !ok {
		return invalid(n.Token)
	}
	args := c.prepareArguments(n.Args)
	if anyInvalid(args) {
		return invalid(n.Token)
	}
	exprs, ts := argumentQuery(args)
	q := c.query(callee.Name, n.Token, append([]ast.Expression{nil}, exprs...), append([]types.Type{recv.Type()}, ts...))
	q.TypeArguments = c.typeArguments(n.TypeArgs)
	m, err := c.ResolveMethod(s, q)
	if m.Decl == nil {
		c.fail(err, n.Token)
		return invalid(n.Token)
	}
	c.fail(err, n.Token)
	return c.callDecl(m.Decl, n.Token, []*ir.Argument{{Value: recv, Modifier: config.ModifierThis}}, args)
}

func receiverStruct(t types.Type) (*symbols.Struct, bool) {
	if p, ok := types.AsPointer(t); ok {
		t = p.To
	}
	st, ok := types.AsStruct(t)
	if !ok {
		return nil, false
	}
	s, ok := st.Decl.(*symbols.Struct)
	return s, ok
}

func (c *Compiler) hasMethod(s *symbols.Struct, name string) bool {
	for _, f := range c.tables.Functions {
		if f.Context == s && f.Name == name {
			return true
		}
	}
	for _, f := range c.tables.FunctionTemplates {
		if f.Context == s && f.Name == name {
			return true
		}
	}
	return false
}

// receiver turns a struct value or pointer into the `this` pointer.
func (c *Compiler) receiver(target ir.Value, tok token.Token) (ir.Value, bool) {
	if _, ok := types.AsPointer(target.Type()); ok {
		return target, true
	}
	if !addressable(target) {
		c.report(diagnostics.ErrT006, tok, "cannot take the address of a temporary "+target.Type().String())
		return nil, false
	}
	return &ir.AddressOf{ValueBase: ir.At(target.GetToken(), types.Pointer{To: target.Type()}, true), Of: target}, true
}

// callDecl builds the call of a resolved callable. leading holds the
// arguments already lowered, such as the receiver.
func (c *Compiler) callDecl(decl symbols.Callable, tok token.Token, leading []*ir.Argument, args []*argument) ir.Value {
	base := decl.Base()
	c.addReference(decl, tok)
	arguments := append(leading, c.finishArguments(base.Params[len(leading):], args)...)
	if base.IsExternal() {
		return &ir.ExternalCall{ValueBase: ir.At(tok, base.Return, true), Function: decl, Name: base.External, Arguments: arguments}
	}
	return &ir.FunctionCall{ValueBase: ir.At(tok, base.Return, true), Function: decl, Arguments: arguments}
}

func (c *Compiler) runtimeCall(n *ast.Call, fn ir.Value) ir.Value {
	if isInvalid(fn) {
		return fn
	}
	ft, ok := types.Underlying(fn.Type()).(*types.Function)
	if !ok {
		c.report(diagnostics.ErrT007, n.Token, fn.Type())
		return invalid(n.Token)
	}
	if len(n.Args) != len(ft.Params) {
		c.report(diagnostics.ErrS002, n.Token, "function value", len(ft.Params), len(n.Args))
		return invalid(n.Token)
	}
	args := make([]*ir.Argument, len(n.Args))
	for i, a := range n.Args {
		v := c.lowerExpression(a.Value, ft.Params[i])
		args[i] = &ir.Argument{Value: c.assign(v, a.Value, ft.Params[i], a.Token), Modifier: a.Modifier}
	}
	return &ir.RuntimeCall{ValueBase: ir.At(n.Token, ft.Return, true), Callee: fn, Arguments: args}
}

// inline replaces a call to an inline function with a copy of its lowered
// body. The result is a value for a single return body and a block for a
// void one.
func (c *Compiler) inline(call *ir.FunctionCall) (ir.Statement, bool) {
	base := call.Function.Base()
	if !c.settings.Optimizations.InlineCalls || !base.Inline {
		return nil, false
	}
	fn := c.lowerFunction(call.Function)
	if fn == nil {
		c.report(diagnostics.ErrL003, call.Token, base.Name, "its body is not available")
		return nil, false
	}
	res, err := inliner.InlineCall(fn.Body, base.Params, call.Arguments, call.Observed())
	if err != nil {
		c.report(diagnostics.ErrL003, call.Token, base.Name, err.Error())
		return nil, false
	}
	if res.Value == nil && !types.IsVoid(base.Return) {
		c.report(diagnostics.ErrL003, call.Token, base.Name, "its body does not produce a value")
		return nil, false
	}
	c.report(diagnostics.ErrL007, call.Token, base.Name)
	if res.Value != nil {
		return res.Value, true
	}
	return res.Block, true
}

func (c *Compiler) lowerConstructorCall(n *ast.ConstructorCall) ir.Value {
	t := c.typeFromAST(n.Type)
	s, ok := receiverStruct(t)
	if _, isPtr := types.AsPointer(t); !ok || isPtr {
		if !types.IsVoid(t) {
			c.report(diagnostics.ErrT006, n.Token, "type "+t.String()+" has no constructor")
		}
		return invalid(n.Token)
	}
	object := c.allocate(t, n.Token)
	if isInvalid(object) {
		return object
	}
	args := c.prepareArguments(n.Args)
	if anyInvalid(args) {
		return invalid(n.Token)
	}
	exprs, ts := argumentQuery(args)
	q := c.query(s.Name, n.Token, append([]ast.Expression{nil}, exprs...), append([]types.Type{object.Type()}, ts...))
	m, err := c.ResolveConstructor(s, q)
	if m.Decl == nil {
		c.fail(err, n.Token)
		return invalid(n.Token)
	}
	c.fail(err, n.Token)
	c.addReference(m.Decl, n.Token)
	return &ir.ConstructorCall{
		ValueBase:   ir.At(n.Token, m.Decl.Return, true),
		Object:      object,
		Constructor: m.Decl,
		Arguments:   c.finishArguments(m.Decl.Params[1:], args),
	}
}

// allocate calls the [Builtin("alloc")] function for a T and casts the
// result to T*.
func (c *Compiler) allocate(t types.Type, tok token.Token) ir.Value {
	if types.IsVoid(t) {
		return invalid(tok)
	}
	alloc, ok := c.builtinFunction(config.BuiltinAllocate)
	if !ok {
		c.report(diagnostics.ErrL010, tok, t)
		return invalid(tok)
	}
	size, ok := c.SizeOf(t)
	if !ok {
		c.report(diagnostics.ErrT009, tok, t)
		return invalid(tok)
	}
	c.addReference(alloc, tok)

	k := c.settings.SizeofKind()
	if len(alloc.Params) == 1 {
		if pk, ok := types.Numeric(alloc.Params[0].Type); ok {
			k = pk
		}
	}
	args := []*ir.Argument{{Value: &ir.Evaluated{ValueBase: ir.At(tok, types.Builtin{Kind: k}, true), Value: values.Int(k, int64(size))}}}
	var call ir.Value
	if alloc.IsExternal() {
		call = &ir.ExternalCall{ValueBase: ir.At(tok, alloc.Return, true), Function: alloc, Name: alloc.External, Arguments: args}
	} else {
		call = &ir.FunctionCall{ValueBase: ir.At(tok, alloc.Return, true), Function: alloc, Arguments: args}
	}
	ptr := types.Pointer{To: t}
	if types.Same(alloc.Return, ptr) {
		return call
	}
	return &ir.Cast{ValueBase: ir.At(tok, ptr, true), Value: call}
}

// ---- operators ----

// operatorCall tries the user operator overloads before a builtin operator
// is considered.
func (c *Compiler) operatorCall(op string, tok token.Token, args []*argument) (ir.Value, bool) {
	if len(c.tables.Operators) == 0 && len(c.tables.OperatorTemplates) == 0 {
		return nil, false
	}
	exprs, ts := argumentQuery(args)
	m, err := c.ResolveOperator(c.query(op, tok, exprs, ts))
	if m.Decl == nil {
		return nil, false
	}
	c.fail(err, tok)
	return c.callDecl(m.Decl, tok, nil, args), true
}

// literalType is the tentative type of a literal operand next to an
// operand of type other.
func literalType(e ast.Expression, other types.Type) types.Type {
	lit, _ := literalOf(e)
	if k, ok := types.Numeric(other); ok && lit.suffix == "" && lit.fits(k) {
		return other
	}
	return types.Builtin{Kind: lit.defaultKind()}
}

func (c *Compiler) lowerBinary(n *ast.BinaryOperator, expected types.Type) ir.Value {
	operandExpected := expected
	if values.IsComparison(n.Operator) {
		operandExpected = nil
	}
	_, leftLiteral := literalOf(n.Left)
	_, rightLiteral := literalOf(n.Right)

	var l, r *argument
	if leftLiteral && !rightLiteral {
		r = c.prepareArgument(n.Right, "", n.Token, operandExpected)
		l = c.prepareArgument(n.Left, "", n.Token, nil)
		l.typ = literalType(n.Left, r.typ)
	} else {
		l = c.prepareArgument(n.Left, "", n.Token, operandExpected)
		r = c.prepareArgument(n.Right, "", n.Token, operandExpected)
		if rightLiteral && !leftLiteral {
			r.typ = literalType(n.Right, l.typ)
		}
	}
	if l.invalid() || r.invalid() {
		return invalid(n.Token)
	}

	if v, ok := c.operatorCall(n.Operator, n.Token, []*argument{l, r}); ok {
		return v
	}

	switch {
	case l.value == nil && r.value == nil:
		l.value = c.lowerExpression(n.Left, operandExpected)
		r.value = c.lowerExpression(n.Right, l.value.Type())
	case l.value == nil:
		l.value = c.lowerExpression(n.Left, r.value.Type())
	case r.value == nil:
		r.value = c.lowerExpression(n.Right, l.value.Type())
	}

	t, err := c.binaryResult(n.Operator, l.value.Type(), r.value.Type(), n.Token)
	if err != nil {
		c.fail(err, n.Token)
		return invalid(n.Token)
	}
	return &ir.BinaryOperatorCall{ValueBase: ir.At(n.Token, t, true), Operator: n.Operator, Left: l.value, Right: r.value}
}

func (c *Compiler) lowerUnary(n *ast.UnaryOperator, expected types.Type) ir.Value {
	operandExpected := expected
	if n.Operator == "!" {
		operandExpected = nil
	}
	operand := c.prepareArgument(n.Operand, "", n.Token, operandExpected)
	if operand.invalid() {
		return invalid(n.Token)
	}
	if v, ok := c.operatorCall(n.Operator, n.Token, []*argument{operand}); ok {
		return v
	}
	if operand.value == nil {
		operand.value = c.lowerExpression(n.Operand, operandExpected)
	}
	t, err := c.unaryResult(n.Operator, operand.value.Type(), n.Token)
	if err != nil {
		c.fail(err, n.Token)
		return invalid(n.Token)
	}
	return &ir.UnaryOperatorCall{ValueBase: ir.At(n.Token, t, true), Operator: n.Operator, Operand: operand.value}
}

func (c *Compiler) lowerAddressOf(n *ast.AddressOf) ir.Value {
	v := c.lowerExpression(n.Operand, nil)
	if isInvalid(v) {
		return v
	}
	if !addressable(v) {
		c.report(diagnostics.ErrT006, n.Token, "cannot take the address of "+ast.ExpressionString(n.Operand))
		return invalid(n.Token)
	}
	return &ir.AddressOf{ValueBase: ir.At(n.Token, types.Pointer{To: v.Type()}, true), Of: v}
}

func (c *Compiler) lowerDereference(n *ast.Dereference) ir.Value {
	v := c.lowerExpression(n.Operand, nil)
	if isInvalid(v) {
		return v
	}
	p, ok := types.AsPointer(v.Type())
	if !ok {
		c.report(diagnostics.ErrT005, n.Token, "*", v.Type())
		return invalid(n.Token)
	}
	return &ir.Dereference{ValueBase: ir.At(n.Token, p.To, true), Address: v}
}

// ---- conversions ----

func (c *Compiler) lowerCast(n *ast.Cast) ir.Value {
	to := c.typeFromAST(n.To)
	v := c.lowerExpression(n.Value, to)
	if isInvalid(v) || types.IsVoid(to) {
		return v
	}
	if types.Same(v.Type(), to) {
		c.report(diagnostics.ErrT003, n.Token, to)
		return v
	}
	if !c.canConvertExplicitly(v.Type(), to) {
		c.report(diagnostics.ErrT001, n.Token, v.Type(), to)
		return invalid(n.Token)
	}
	return &ir.Cast{ValueBase: ir.At(n.Token, to, true), Value: v}
}

func (c *Compiler) lowerSizeOf(n *ast.SizeOf) ir.Value {
	t := c.typeFromAST(n.Type)
	size, ok := c.SizeOf(t)
	if !ok {
		c.report(diagnostics.ErrT009, n.Token, t)
		return invalid(n.Token)
	}
	k := c.settings.SizeofKind()
	return &ir.Evaluated{ValueBase: ir.At(n.Token, types.Builtin{Kind: k}, true), Value: values.Int(k, int64(size))}
}

// lowerString places the text of a string literal in memory. A value array
// destination gets stack memory, anything else heap memory from the
// allocator. u8 element destinations store the text as ASCII.
func (c *Compiler) lowerString(n *ast.StringLiteral, expected types.Type) ir.Value {
	target := expected
	if p, ok := types.AsPointer(expected); ok {
		target = p.To
	}
	ascii := false
	if arr, ok := types.AsArray(target); ok {
		k, ok := types.Numeric(arr.Of)
		ascii = ok && k == types.U8
	}
	elem := types.U16Type
	if ascii {
		elem = types.U8Type
		for _, r := range n.Value {
			if r > 127 {
				c.report(diagnostics.ErrT001, n.Token, "non-ASCII string", target)
				break
			}
		}
	}
	length := utf8.RuneCountInString(n.Value)
	arr := types.Array{Of: elem, ComputedLength: &length}

	if _, ok := types.AsArray(expected); ok {
		mem := &ir.StackAllocation{ValueBase: ir.At(n.Token, arr, true)}
		return &ir.StringInstance{ValueBase: ir.At(n.Token, arr, true), Text: n.Value, ASCII: ascii, Allocator: mem}
	}
	mem := c.allocate(arr, n.Token)
	if isInvalid(mem) {
		return mem
	}
	return &ir.StringInstance{ValueBase: ir.At(n.Token, mem.Type(), true), Text: n.Value, ASCII: ascii, Allocator: mem}
}

// ---- access ----

func (c *Compiler) lowerIndex(n *ast.Index) ir.Value {
	target := c.lowerExpression(n.Target, nil)
	if isInvalid(target) {
		return target
	}
	if _, ok := receiverStruct(target.Type()); ok {
		recv, ok := c.receiver(target, n.Token)
		if !ok {
			return invalid(n.Token)
		}
		index := c.prepareArgument(n.Index, "", n.Token, nil)
		if index.invalid() {
			return invalid(n.Token)
		}
		q := c.query(config.IndexerGetName, n.Token, []ast.Expression{nil, n.Index}, []types.Type{recv.Type(), index.typ})
		m, err := c.ResolveGeneralFunction(q)
		if m.Decl == nil {
			c.fail(err, n.Token)
			return invalid(n.Token)
		}
		c.fail(err, n.Token)
		c.addReference(m.Decl, n.Token)
		args := c.finishArguments(m.Decl.Params[1:], []*argument{index})
		return &ir.IndexGetter{ValueBase: ir.At(n.Token, m.Decl.Return, true), Target: recv, Index: args[0].Value, Indexer: m.Decl}
	}

	elem, ok := elementType(target.Type())
	if !ok {
		c.report(diagnostics.ErrT008, n.Token, target.Type())
		return invalid(n.Token)
	}
	index := c.lowerIndexValue(n.Index)
	if isInvalid(index) {
		return index
	}
	return &ir.IndexGetter{ValueBase: ir.At(n.Token, elem, true), Target: target, Index: index}
}

func (c *Compiler) lowerIndexValue(e ast.Expression) ir.Value {
	lengthType := types.Builtin{Kind: c.settings.ArrayLengthKind()}
	index := c.lowerExpression(e, lengthType)
	if isInvalid(index) {
		return index
	}
	if k, ok := types.Numeric(index.Type()); !ok || types.ClassOf(k) == types.Float {
		c.report(diagnostics.ErrT001, e.GetToken(), index.Type(), lengthType)
		return invalid(e.GetToken())
	}
	return index
}

// elementType is the type of t[i] for arrays, pointers to arrays and
// plain pointers.
func elementType(t types.Type) (types.Type, bool) {
	if arr, ok := types.AsArray(t); ok {
		return arr.Of, true
	}
	if p, ok := types.AsPointer(t); ok {
		if arr, ok := types.AsArray(p.To); ok {
			return arr.Of, true
		}
		if !types.IsAny(p.To) && !types.IsVoid(p.To) {
			return p.To, true
		}
	}
	return nil, false
}

func (c *Compiler) lowerField(n *ast.Field) ir.Value {
	target := c.lowerExpression(n.Target, nil)
	if isInvalid(target) {
		return target
	}
	return c.fieldOf(target, n.Name, n.Token)
}

// fieldOf reads a field of a struct or of a pointed struct. The length of
// a sized array is a constant.
func (c *Compiler) fieldOf(target ir.Value, name string, tok token.Token) ir.Value {
	t := target.Type()
	if p, ok := types.AsPointer(t); ok {
		t = p.To
	}
	if arr, ok := types.AsArray(t); ok && name == config.ArrayLengthName {
		if !arr.Sized() {
			c.report(diagnostics.ErrT009, tok, t)
			return invalid(tok)
		}
		k := c.settings.ArrayLengthKind()
		return &ir.Evaluated{ValueBase: ir.At(tok, types.Builtin{Kind: k}, true), Value: values.Int(k, int64(*arr.ComputedLength))}
	}
	st, ok := types.AsStruct(t)
	if !ok {
		c.report(diagnostics.ErrS007, tok, t, name)
		return invalid(tok)
	}
	ft, index, ok := st.Field(name)
	if !ok {
		c.report(diagnostics.ErrS007, tok, t, name)
		return invalid(tok)
	}
	return &ir.FieldGetter{ValueBase: ir.At(tok, ft, true), Object: target, Field: name, Index: index}
}
