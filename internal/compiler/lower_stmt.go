package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// lowerFunction lowers the body of decl once. It returns nil for externals,
// templates and callables whose lowering is already in progress.
func (c *Compiler) lowerFunction(decl symbols.Callable) *ir.Function {
	if fn, ok := c.lowered[decl]; ok {
		return fn
	}
	base := decl.Base()
	if c.lowering[decl] || base.IsExternal() || base.IsTemplate() || base.Body() == nil {
		return nil
	}
	c.lowering[decl] = true
	defer delete(c.lowering, decl)

	savedScopes := c.scopes.Save()
	savedFrame := c.frame
	savedFile := c.file
	c.file = base.File
	c.enterFrame(decl, base.Return)

	body := c.lowerBlock(base.Body(), false)

	c.exitFrame(savedFrame)
	c.scopes.Restore(savedScopes)
	c.file = savedFile

	fn := &ir.Function{Decl: decl, Body: body}
	c.lowered[decl] = fn
	c.module.Functions = append(c.module.Functions, fn)
	return fn
}

// lowerBlock lowers the statements of b in a new scope. Constants and
// labels of the block are known before its first statement. Temp
// variables are released when the block ends normally.
func (c *Compiler) lowerBlock(b *ast.Block, loop bool) *ir.Block {
	out := &ir.Block{StatementBase: ir.Pos(b.Token)}
	scope := c.scopes.Push(nil, c.blockLabels(b))
	scope.Loop = loop
	defer c.scopes.Pop()

	for _, st := range b.Statements {
		if vd, ok := st.(*ast.VariableDeclaration); ok && vd.Modifiers.Has(config.ModifierConst) {
			if _, dup := c.scopes.Constant(vd.Name); dup && hasConstant(scope, vd.Name) {
				c.report(diagnostics.ErrS008, vd.Token, "constant", vd.Name)
				continue
			}
			c.constant(vd, scope)
		}
	}

	for _, st := range b.Statements {
		if s := c.lowerStatement(st); s != nil {
			out.Statements = append(out.Statements, s)
		}
	}

	if terminates(out) {
		return out
	}
	for i := len(out.Statements) - 1; i >= 0; i-- {
		decl, ok := out.Statements[i].(*ir.VariableDeclaration)
		if !ok || decl.Cleanup == nil {
			continue
		}
		getter := &ir.VariableGetter{ValueBase: ir.At(decl.Token, decl.Variable.Type, true), Variable: decl.Variable}
		out.Statements = append(out.Statements, release(getter, decl.Cleanup))
	}
	return out
}

func (c *Compiler) blockLabels(b *ast.Block) []*symbols.Label {
	var labels []*symbols.Label
	for _, st := range b.Statements {
		if l, ok := st.(*ast.InstructionLabel); ok {
			labels = append(labels, &symbols.Label{Name: l.Name, File: c.file, Token: l.Token})
		}
	}
	return labels
}

// terminates reports whether control never reaches the end of b.
func terminates(b *ir.Block) bool {
	if len(b.Statements) == 0 {
		return false
	}
	switch b.Statements[len(b.Statements)-1].(type) {
	case *ir.Return, *ir.Crash, *ir.Break, *ir.Goto:
		return true
	}
	return false
}

// lowerStatement lowers one statement. It returns nil for statements that
// produce no code, such as constant declarations.
func (c *Compiler) lowerStatement(st ast.Statement) ir.Statement {
	switch n := ast.Desugar(st).(type) {
	case *ast.VariableDeclaration:
		return c.lowerDeclaration(n)
	case *ast.Assignment:
		return c.lowerAssignment(n)
	case *ast.Return:
		return c.lowerReturn(n)
	case *ast.Crash:
		return &ir.Crash{StatementBase: ir.Pos(n.Token), Value: c.lowerExpression(n.Value, nil)}
	case *ast.Break:
		if !c.scopes.InLoop() {
			c.report(diagnostics.ErrL006, n.Token)
		}
		return &ir.Break{StatementBase: ir.Pos(n.Token)}
	case *ast.Delete:
		return c.lowerDelete(n)
	case *ast.Goto:
		label := c.lowerExpression(n.Label, labelType)
		if !isInvalid(label) && !types.Same(label.Type(), labelType) {
			c.report(diagnostics.ErrT001, n.Token, label.Type(), labelType)
		}
		return &ir.Goto{StatementBase: ir.Pos(n.Token), Label: label}
	case *ast.If:
		return c.lowerIf(n)
	case *ast.While:
		return c.lowerWhile(n)
	case *ast.For:
		return c.lowerFor(n)
	case *ast.Block:
		return c.lowerBlock(n, false)
	case *ast.InstructionLabel:
		return c.lowerLabel(n)
	case *ast.ExpressionStatement:
		return c.lowerExpressionStatement(n, true)
	default:
		panic(diagnostics.Unexpected("compiler.lowerStatement", st))
	}
}

func (c *Compiler) lowerDeclaration(n *ast.VariableDeclaration) ir.Statement {
	if n.Modifiers.Has(config.ModifierConst) {
		return nil
	}
	if c.scopes.Depth() == 0 {
		return c.lowerGlobalDeclaration(n)
	}

	var t types.Type
	if n.Type != nil {
		t = c.typeFromAST(n.Type)
	}
	var initial ir.Value
	if n.Value != nil {
		initial = c.assign(c.lowerExpression(n.Value, t), n.Value, t, n.Token)
		if t == nil {
			t = initial.Type()
		}
	}
	if t == nil || types.IsVoid(t) {
		c.report(diagnostics.ErrT006, n.Token, "cannot infer the type of \""+n.Name+"\"")
		t = types.VoidType
	}

	v := &symbols.Variable{
		Name:  n.Name,
		File:  c.file,
		Token: n.Token,
		Type:  t,
		Temp:  n.Modifiers.Has(config.ModifierTemp),
	}
	if !c.scopes.AddVariable(v) {
		c.report(diagnostics.ErrS008, n.Token, "variable", n.Name)
	}
	decl := &ir.VariableDeclaration{StatementBase: ir.Pos(n.Token), Variable: v, Initial: initial}
	if v.Temp {
		cleanup, err := c.cleanupFor(t, n.Token)
		c.fail(err, n.Token)
		decl.Cleanup = cleanup
	}
	return decl
}

// lowerGlobalDeclaration initializes a global declared by collect. A `var`
// global takes the type of its initial value here.
func (c *Compiler) lowerGlobalDeclaration(n *ast.VariableDeclaration) ir.Statement {
	var v *symbols.Variable
	for _, g := range c.tables.Global.Variables {
		if g.Name == n.Name && g.Token == n.Token && g.File == c.file {
			v = g
			break
		}
	}
	if v == nil {
		return nil
	}
	if n.Value == nil {
		if v.Type == nil {
			c.report(diagnostics.ErrT006, n.Token, "cannot infer the type of \""+n.Name+"\"")
			v.Type = types.VoidType
		}
		return nil
	}
	initial := c.lowerExpression(n.Value, v.Type)
	if v.Type == nil {
		v.Type = initial.Type()
	} else {
		initial = c.assign(initial, n.Value, v.Type, n.Token)
	}
	return &ir.GlobalSetter{StatementBase: ir.Pos(n.Token), Variable: v, Value: initial}
}

func (c *Compiler) lowerAssignment(n *ast.Assignment) ir.Statement {
	pos := ir.Pos(n.Token)
	switch target := n.Target.(type) {
	case *ast.Identifier:
		if v, ok := c.scopes.Variable(target.Name); ok {
			return &ir.VariableSetter{StatementBase: pos, Variable: v, Value: c.assignedValue(n, v.Type)}
		}
		if p, ok := c.parameter(target.Name); ok {
			return &ir.ParameterSetter{StatementBase: pos, Parameter: p, Value: c.assignedValue(n, p.Type)}
		}
		if v, err := c.ResolveGlobalVariable(target.Name, target.Token); v != nil {
			c.fail(err, target.Token)
			c.addReference(v, target.Token)
			return &ir.GlobalSetter{StatementBase: pos, Variable: v, Value: c.assignedValue(n, v.Type)}
		}
	case *ast.Field:
		obj := c.lowerExpression(target.Target, nil)
		if isInvalid(obj) {
			return nil
		}
		field, ok := c.fieldOf(obj, target.Name, target.Token).(*ir.FieldGetter)
		if !ok {
			return nil
		}
		return &ir.FieldSetter{StatementBase: pos, Object: obj, Field: field.Field, Index: field.Index, Value: c.assignedValue(n, field.Type())}
	case *ast.Index:
		return c.lowerIndexAssignment(n, target)
	case *ast.Dereference:
		addr := c.lowerExpression(target.Operand, nil)
		if isInvalid(addr) {
			return nil
		}
		p, ok := types.AsPointer(addr.Type())
		if !ok {
			c.report(diagnostics.ErrT005, target.Token, "*", addr.Type())
			return nil
		}
		return &ir.DereferenceSetter{StatementBase: pos, Address: addr, Value: c.assignedValue(n, p.To)}
	}
	c.report(diagnostics.ErrT006, n.Token, "cannot assign to "+ast.ExpressionString(n.Target))
	return nil
}

func (c *Compiler) assignedValue(n *ast.Assignment, t types.Type) ir.Value {
	return c.assign(c.lowerExpression(n.Value, t), n.Value, t, n.Token)
}

func (c *Compiler) lowerIndexAssignment(n *ast.Assignment, target *ast.Index) ir.Statement {
	pos := ir.Pos(n.Token)
	arr := c.lowerExpression(target.Target, nil)
	if isInvalid(arr) {
		return nil
	}
	if _, ok := receiverStruct(arr.Type()); ok {
		recv, ok := c.receiver(arr, target.Token)
		if !ok {
			return nil
		}
		index := c.prepareArgument(target.Index, "", target.Token, nil)
		value := c.prepareArgument(n.Value, "", n.Token, nil)
		if index.invalid() || value.invalid() {
			return nil
		}
		q := c.query(config.IndexerSetName, n.Token, []ast.Expression{nil, target.Index, n.Value}, []types.Type{recv.Type(), index.typ, value.typ})
		m, err := c.ResolveGeneralFunction(q)
		if m.Decl == nil {
			c.fail(err, n.Token)
			return nil
		}
		c.fail(err, n.Token)
		c.addReference(m.Decl, n.Token)
		args := c.finishArguments(m.Decl.Params[1:], []*argument{index, value})
		return &ir.IndexSetter{StatementBase: pos, Target: recv, Index: args[0].Value, Value: args[1].Value, Indexer: m.Decl}
	}

	elem, ok := elementType(arr.Type())
	if !ok {
		c.report(diagnostics.ErrT008, target.Token, arr.Type())
		return nil
	}
	index := c.lowerIndexValue(target.Index)
	if isInvalid(index) {
		return nil
	}
	return &ir.IndexSetter{StatementBase: pos, Target: arr, Index: index, Value: c.assignedValue(n, elem)}
}

func (c *Compiler) lowerReturn(n *ast.Return) ir.Statement {
	rt := c.frame.returnType
	if c.frame.callable == nil {
		rt = c.topLevelReturn()
	}
	if n.Value == nil {
		if c.frame.callable != nil && !types.IsVoid(rt) {
			c.report(diagnostics.ErrT001, n.Token, types.VoidType, rt)
		}
		return &ir.Return{StatementBase: ir.Pos(n.Token)}
	}
	if types.IsVoid(rt) {
		c.report(diagnostics.ErrT006, n.Token, "a void function cannot return a value")
		return &ir.Return{StatementBase: ir.Pos(n.Token)}
	}
	v := c.assign(c.lowerExpression(n.Value, rt), n.Value, rt, n.Token)
	return &ir.Return{StatementBase: ir.Pos(n.Token), Value: v}
}

func (c *Compiler) lowerDelete(n *ast.Delete) ir.Statement {
	v := c.lowerExpression(n.Value, nil)
	if isInvalid(v) {
		return nil
	}
	cleanup, err := c.cleanupFor(v.Type(), n.Token)
	if err != nil {
		c.fail(err, n.Token)
		return nil
	}
	if cleanup == nil {
		c.report(diagnostics.ErrL002, n.Token, v.Type())
		return nil
	}
	return release(v, cleanup)
}

func (c *Compiler) lowerLabel(n *ast.InstructionLabel) ir.Statement {
	if l, ok := c.scopes.Label(n.Name); ok && l.Token == n.Token {
		return &ir.LabelDeclaration{StatementBase: ir.Pos(n.Token), Label: l}
	}
	for _, l := range c.tables.Global.Labels {
		if l.Name == n.Name && l.Token == n.Token && l.File == c.file {
			return &ir.LabelDeclaration{StatementBase: ir.Pos(n.Token), Label: l}
		}
	}
	panic(diagnostics.Internal("label %q was not declared", n.Name))
}

// condition lowers a branch or loop condition. A constant condition is
// returned as its truth value.
func (c *Compiler) condition(e ast.Expression) (ir.Value, *bool) {
	v := c.lowerExpression(e, c.booleanType())
	if isInvalid(v) {
		return v, nil
	}
	if _, ok := types.Numeric(v.Type()); !ok {
		c.report(diagnostics.ErrT001, e.GetToken(), v.Type(), c.booleanType())
		return v, nil
	}
	k, ok := v.(*ir.Evaluated)
	if !ok || !c.settings.Optimizations.Evaluate {
		return v, nil
	}
	truth := k.Value.IsTruthy()
	return v, &truth
}

func truthName(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (c *Compiler) lowerIf(n *ast.If) ir.Statement {
	cond, constant := c.condition(n.Condition)
	if constant != nil {
		c.report(diagnostics.ErrL008, n.Condition.GetToken(), truthName(*constant))
		branch := n.Then
		if !*constant {
			branch = n.Else
		}
		if branch == nil {
			return &ir.Empty{StatementBase: ir.Pos(n.Token)}
		}
		return c.branch(branch)
	}
	out := &ir.If{StatementBase: ir.Pos(n.Token), Condition: cond, Then: c.branch(n.Then)}
	if n.Else != nil {
		out.Else = c.branch(n.Else)
	}
	return out
}

// branch lowers an if branch in its own scope.
func (c *Compiler) branch(st ast.Statement) ir.Statement {
	if b, ok := st.(*ast.Block); ok {
		return c.lowerBlock(b, false)
	}
	return c.lowerBlock(&ast.Block{Token: st.GetToken(), Statements: []ast.Statement{st}}, false)
}

func (c *Compiler) lowerWhile(n *ast.While) ir.Statement {
	cond, constant := c.condition(n.Condition)
	if constant != nil {
		c.report(diagnostics.ErrL008, n.Condition.GetToken(), truthName(*constant))
		if !*constant {
			return &ir.Empty{StatementBase: ir.Pos(n.Token)}
		}
	}
	return &ir.While{StatementBase: ir.Pos(n.Token), Condition: cond, Body: c.lowerBlock(n.Body, true)}
}

// lowerFor unrolls counting loops when allowed and lowers the rest as
// loops. The init statement lives in a scope around the loop.
func (c *Compiler) lowerFor(n *ast.For) ir.Statement {
	if c.settings.Optimizations.UnrollLoops {
		if bodies, ok := c.eval.Unroll(n); ok {
			c.report(diagnostics.ErrL005, n.Token, len(bodies))
			out := &ir.Block{StatementBase: ir.Pos(n.Token)}
			for _, b := range bodies {
				out.Statements = append(out.Statements, c.lowerBlock(b, false))
			}
			return out
		}
	}

	c.scopes.Push(nil, nil)
	defer c.scopes.Pop()
	out := &ir.For{StatementBase: ir.Pos(n.Token)}
	if n.Init != nil {
		out.Init = c.lowerStatement(n.Init)
	}
	if n.Condition != nil {
		out.Condition, _ = c.condition(n.Condition)
	}
	if n.Step != nil {
		out.Step = c.lowerStatement(n.Step)
	}
	out.Body = c.lowerBlock(n.Body, true)
	return out
}

// lowerExpressionStatement lowers an expression evaluated for its effects.
// A call the evaluator can run is replaced by the external calls it makes.
// Void inline functions are inlined here.
func (c *Compiler) lowerExpressionStatement(n *ast.ExpressionStatement, evaluate bool) ir.Statement {
	if _, isCall := n.Expression.(*ast.Call); isCall && evaluate && c.settings.Optimizations.Evaluate {
		if hoisted, ok := c.eval.TryEvaluate(n); ok {
			out := &ir.Block{StatementBase: ir.Pos(n.Token)}
			for _, h := range hoisted {
				if es, ok := h.(*ast.ExpressionStatement); ok {
					out.Statements = append(out.Statements, c.lowerExpressionStatement(es, false))
				} else {
					out.Statements = append(out.Statements, c.lowerStatement(h))
				}
			}
			if len(out.Statements) == 1 {
				return out.Statements[0]
			}
			return out
		}
	}

	v := c.lowerExpression(n.Expression, nil)
	ir.SetObserved(v, false)
	switch call := v.(type) {
	case *ir.FunctionCall:
		if s, ok := c.inline(call); ok {
			return s
		}
		return v
	case *ir.ExternalCall, *ir.RuntimeCall, *ir.ConstructorCall:
		return v
	}
	if !isInvalid(v) {
		c.report(diagnostics.ErrL009, n.Token)
	}
	return v
}

func hasConstant(s *symbols.Scope, name string) bool {
	for _, k := range s.Constants {
		if k.Name == name {
			return true
		}
	}
	return false
}
