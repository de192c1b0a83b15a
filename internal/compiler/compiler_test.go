package compiler

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/settings"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

const mainFile = "main.bbc"

var lines int

// tk returns a fresh source position so diagnostics never collapse.
func tk() token.Token {
	lines++
	return token.Token{File: mainFile, Line: lines, Column: 1}
}

// ---- builders ----

func num(v int64) *ast.IntegerLiteral { return ast.NewInteger(tk(), v) }
func id(name string) *ast.Identifier  { return ast.NewIdentifier(tk(), name) }
func bin(op string, l, r ast.Expression) *ast.BinaryOperator {
	return ast.NewBinary(tk(), op, l, r)
}
func typ(name string) *ast.TypeName   { return &ast.TypeName{Token: tk(), Name: name} }
func ptr(to ast.Type) *ast.PointerType { return &ast.PointerType{Token: tk(), To: to} }

func param(name string, t ast.Type, mods ...string) *ast.Parameter {
	return &ast.Parameter{Token: tk(), Name: name, Type: t, Modifiers: mods}
}

func block(stmts ...ast.Statement) *ast.Block { return &ast.Block{Token: tk(), Statements: stmts} }

func function(name string, ret ast.Type, params []*ast.Parameter, body ...ast.Statement) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{Token: tk(), Kind: ast.KindFunction, Name: name, Params: params, Return: ret, Body: block(body...)}
}

func external(name string, ret ast.Type, params ...*ast.Parameter) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{
		Token:      tk(),
		Kind:       ast.KindFunction,
		Name:       name,
		Params:     params,
		Return:     ret,
		Attributes: []*ast.Attribute{{Token: tk(), Name: config.ExternalAttribute, Arguments: []string{name}}},
	}
}

func arg(e ast.Expression, modifier string) *ast.Argument {
	return &ast.Argument{Token: tk(), Modifier: modifier, Value: e}
}

func call(name string, args ...ast.Expression) *ast.Call {
	c := &ast.Call{Token: tk(), Callee: id(name)}
	for _, a := range args {
		c.Args = append(c.Args, arg(a, ""))
	}
	return c
}

func stmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Token: tk(), Expression: e}
}

func ret(e ast.Expression) *ast.Return { return &ast.Return{Token: tk(), Value: e} }

func declare(t ast.Type, name string, value ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Token: tk(), Name: name, Type: t, Value: value}
}

func program(functions ...*ast.FunctionDefinition) *ast.Program {
	return &ast.Program{File: mainFile, Functions: functions}
}

func withExternals(s *settings.Settings, names ...string) *settings.Settings {
	for _, n := range names {
		s.Externals = append(s.Externals, settings.External{Name: n})
	}
	return s
}

func withCode(diags []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// ---- resolution ----

func TestResolveOverloadByArity(t *testing.T) {
	two := function("f", nil, []*ast.Parameter{param("a", typ("i32")), param("b", typ("i32"))})
	three := function("f", nil, []*ast.Parameter{param("a", typ("i32")), param("b", typ("i32")), param("c", typ("i32"))})
	c := New(nil)
	c.collect([]*ast.Program{program(three, two)})

	q := c.query("f", tk(), []ast.Expression{num(1), num(2)}, []types.Type{types.I32Type, types.I32Type})
	m, err := c.ResolveFunction(q)
	if err != nil {
		t.Fatalf("ResolveFunction: %v", err)
	}
	if m.Decl == nil || m.Decl.Definition != two {
		t.Fatalf("resolved %v, want the two parameter overload", m.Decl)
	}
	if m.Goodness < Good {
		t.Errorf("goodness %s, want at least %s", m.Goodness, Good)
	}
}

func TestGoodnessTiers(t *testing.T) {
	c := New(nil)
	c.collect([]*ast.Program{program(function("f", nil, []*ast.Parameter{param("x", typ("u8"))}))})
	decl := c.tables.Functions[0]
	c.file = mainFile

	tests := []struct {
		name  string
		q     Query
		want Goodness
		code diagnostics.ErrorCode
	}{
		{"other name", c.query("g", tk(), nil, []types.Type{types.U8Type}), NoMatch, ""},
		{"arity", c.query("f", tk(), nil, []types.Type{types.U8Type, types.U8Type}), IdentifierMatch, diagnostics.ErrS002},
		{"not convertible", c.query("f", tk(), nil, []types.Type{types.F32Type}), ParameterCountMatch, diagnostics.ErrS003},
		{"fitting literal", c.query("f", tk(), []ast.Expression{num(5)}, []types.Type{types.I32Type}), Good, ""},
		{"same file", c.query("f", tk(), nil, []types.Type{types.U8Type}), FileMatch, ""},
	}
	last := Goodness(-1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.q
			g, err := c.score(decl, &q)
			if g != tt.want {
				t.Errorf("score = %s, want %s", g, tt.want)
			}
			if tt.code == "" && err != nil {
				t.Errorf("unexpected diagnostic %v", err)
			}
			if tt.code != "" && (err == nil || err.Code != tt.code) {
				t.Errorf("diagnostic = %v, want %s", err, tt.code)
			}
		})
		if tt.want <= last {
			t.Fatalf("tiers are not increasing at %q", tt.name)
		}
		last = tt.want
	}

	q := c.query("f", tk(), nil, []types.Type{types.U8Type})
	q.File = "other.bbc"
	if g, _ := c.score(decl, &q); g != VeryPerfectReturnType {
		t.Errorf("score from another file = %s, want %s", g, VeryPerfectReturnType)
	}
}

func TestAmbiguousOverloads(t *testing.T) {
	first := function("f", nil, []*ast.Parameter{param("x", typ("i32"))})
	second := function("f", nil, []*ast.Parameter{param("y", typ("i32"))})
	c := New(nil)
	c.collect([]*ast.Program{program(first, second)})
	c.file = mainFile

	m, err := c.ResolveFunction(c.query("f", tk(), nil, []types.Type{types.I32Type}))
	if err == nil || err.Code != diagnostics.ErrS004 {
		t.Fatalf("diagnostic = %v, want %s", err, diagnostics.ErrS004)
	}
	if m.Decl == nil || m.Decl.Definition != first {
		t.Errorf("ambiguous resolution must keep the first candidate")
	}
	if blocking(err) {
		t.Errorf("ambiguity must not block the match")
	}
}

func TestTemplateInstancesAreShared(t *testing.T) {
	identity := function("identity", typ("T"), []*ast.Parameter{param("x", typ("T"))}, ret(id("x")))
	identity.TypeParams = []string{"T"}
	c := New(nil)
	c.collect([]*ast.Program{program(identity)})

	q := c.query("identity", tk(), nil, []types.Type{types.I32Type})
	a, err := c.ResolveFunction(q)
	if err != nil || a.Decl == nil {
		t.Fatalf("ResolveFunction: %v", err)
	}
	b, _ := c.ResolveFunction(q)
	if a.Decl != b.Decl {
		t.Errorf("two resolutions produced different instances")
	}
	if !a.Instantiated || a.Goodness != PerfectParameterTypes {
		t.Errorf("match = %+v", a)
	}
	if !types.Same(a.Decl.Return, types.I32Type) {
		t.Errorf("instance returns %s, want i32", a.Decl.Return)
	}
	if got := len(c.tables.Instances); got != 1 {
		t.Errorf("%d instances, want 1", got)
	}

	_, err = c.ResolveFunction(c.query("identity", tk(), nil, []types.Type{types.I32Type, types.I32Type}))
	if err == nil || err.Code != diagnostics.ErrS002 {
		t.Errorf("arity mismatch diagnostic = %v", err)
	}
}

func TestUnknownFunction(t *testing.T) {
	c := New(nil)
	_, err := c.ResolveFunction(c.query("nope", tk(), nil, nil))
	if err == nil || err.Code != diagnostics.ErrS001 {
		t.Errorf("diagnostic = %v, want %s", err, diagnostics.ErrS001)
	}
}

// ---- types ----

func TestCanCast(t *testing.T) {
	c := New(nil)
	five := 5
	four := 4
	s := &symbols.Struct{Name: "Point", Fields: []types.Field{{Name: "x", Type: types.I32Type}}}
	all := []types.Type{
		types.I32Type,
		types.U8Type,
		types.Pointer{To: types.I32Type},
		types.Array{Of: types.U16Type, ComputedLength: &five},
		s.Type(),
	}
	for _, tt := range all {
		if err := CanCast(tt, tt, nil, c); err != nil {
			t.Errorf("CanCast(%s, %s) = %v", tt, tt, err)
		}
		if err := CanCast(tt, types.AnyType, nil, nil); err != nil {
			t.Errorf("CanCast(%s, any) = %v", tt, err)
		}
	}

	hello := &ast.StringLiteral{Token: tk(), Value: "hello"}
	if err := CanCast(types.Pointer{To: types.U16Type}, types.Array{Of: types.U16Type, ComputedLength: &five}, hello, c); err != nil {
		t.Errorf("string literal to u16[5]: %v", err)
	}
	if err := CanCast(types.Pointer{To: types.U16Type}, types.Array{Of: types.U16Type, ComputedLength: &four}, hello, c); err == nil {
		t.Errorf("string literal to u16[4] must fail")
	}
	if err := CanCast(types.Pointer{To: types.I32Type}, types.Pointer{To: types.AnyType}, nil, c); err != nil {
		t.Errorf("i32* to any*: %v", err)
	}
	sized := types.Pointer{To: types.Array{Of: types.I32Type, ComputedLength: &five}}
	unsized := types.Pointer{To: types.Array{Of: types.I32Type}}
	if err := CanCast(sized, unsized, nil, c); err != nil {
		t.Errorf("i32[5]* to i32[]*: %v", err)
	}
	if err := CanCast(unsized, sized, nil, c); err == nil {
		t.Errorf("i32[]* to i32[5]* must fail")
	}
	err := CanCast(types.I32Type, types.U8Type, nil, c)
	if err == nil || err.Code != diagnostics.ErrT001 {
		t.Fatalf("i32 to u8 = %v, want %s", err, diagnostics.ErrT001)
	}
	if !strings.Contains(err.Message, "4 bytes") {
		t.Errorf("message %q does not mention the sizes", err.Message)
	}
	if err := CanCast(types.I32Type, types.U8Type, nil, nil); err == nil {
		t.Errorf("without runtime info only identical types convert")
	}
}

func TestLiteralDefaultsWhenOutOfRange(t *testing.T) {
	c := New(nil)
	v := c.lowerExpression(num(300), types.U8Type)
	if !types.Same(v.Type(), types.I32Type) {
		t.Errorf("300 as u8 typed %s, want i32", v.Type())
	}
	if got := v.(*ir.Evaluated).Value.Int64(); got != 300 {
		t.Errorf("value %d, want 300", got)
	}
	warnings := withCode(c.Diagnostics(), diagnostics.ErrT002)
	if len(warnings) != 1 || warnings[0].Severity != diagnostics.SeverityWarning {
		t.Fatalf("diagnostics = %v, want one %s warning", c.Diagnostics(), diagnostics.ErrT002)
	}

	c = New(nil)
	v = c.lowerExpression(num(200), types.U8Type)
	if !types.Same(v.Type(), types.U8Type) || len(c.Diagnostics()) != 0 {
		t.Errorf("200 as u8 typed %s with %v", v.Type(), c.Diagnostics())
	}

	c = New(nil)
	v = c.lowerExpression(num(7), nil)
	if !types.Same(v.Type(), types.I32Type) || len(withCode(c.Diagnostics(), diagnostics.ErrT004)) != 1 {
		t.Errorf("untyped literal typed %s with %v", v.Type(), c.Diagnostics())
	}
}

func TestLiteralWidensWithoutExpectedType(t *testing.T) {
	c := New(nil)
	v := c.lowerExpression(num(5000000000), nil)
	if !types.Same(v.Type(), types.Builtin{Kind: types.I64}) {
		t.Errorf("5000000000 typed %s, want i64", v.Type())
	}
	if got := v.(*ir.Evaluated).Value.Int64(); got != 5000000000 {
		t.Errorf("value %d, want 5000000000", got)
	}
	if len(withCode(c.Diagnostics(), diagnostics.ErrT004)) != 1 {
		t.Errorf("diagnostics = %v, want one %s", c.Diagnostics(), diagnostics.ErrT004)
	}

	c = New(nil)
	v = c.lowerExpression(num(5000000000), types.U8Type)
	if !types.Same(v.Type(), types.Builtin{Kind: types.I64}) || len(withCode(c.Diagnostics(), diagnostics.ErrT002)) != 1 {
		t.Errorf("5000000000 as u8 typed %s with %v", v.Type(), c.Diagnostics())
	}

	c = New(nil)
	v = c.lowerExpression(ast.NewFloat(tk(), 1e300), nil)
	if !types.Same(v.Type(), types.Builtin{Kind: types.F64}) {
		t.Errorf("1e300 typed %s, want f64", v.Type())
	}
}

func TestUntypedConstantTakesDefaultKind(t *testing.T) {
	constant := func(name string, v ast.Expression) *ast.VariableDeclaration {
		d := declare(nil, name, v)
		d.Modifiers = ast.Modifiers{config.ModifierConst}
		return d
	}
	p := program()
	p.Statements = []ast.Statement{
		constant("SMALL", num(7)),
		constant("PRODUCT", bin("*", num(6), num(7))),
		constant("BIG", num(5000000000)),
	}
	c := New(nil)
	c.collect([]*ast.Program{p})

	want := map[string]types.Kind{"SMALL": types.I32, "PRODUCT": types.I32, "BIG": types.I64}
	if len(c.tables.Global.Constants) != len(want) {
		t.Fatalf("%d constants, want %d", len(c.tables.Global.Constants), len(want))
	}
	for _, k := range c.tables.Global.Constants {
		if !types.Same(k.Type, types.Builtin{Kind: want[k.Name]}) || k.Value.Kind() != want[k.Name] {
			t.Errorf("%s typed %s holding %#v, want %s", k.Name, k.Type, k.Value, want[k.Name])
		}
	}
}

func TestFoldArithmetic(t *testing.T) {
	c := New(nil)
	v := c.lowerExpression(bin("+", num(2), bin("*", num(3), num(4))), nil)
	k, ok := v.(*ir.Evaluated)
	if !ok {
		t.Fatalf("got %T, want a constant", v)
	}
	if k.Value.Kind() != types.I32 || k.Value.Int64() != 14 {
		t.Errorf("got %v, want i32 14", k.Value)
	}
	if len(withCode(c.Diagnostics(), diagnostics.ErrL004)) == 0 {
		t.Errorf("folding was not reported")
	}
}

func TestFoldingDisabled(t *testing.T) {
	s := settings.Default()
	s.Optimizations.Evaluate = false
	c := New(s)
	v := c.lowerExpression(bin("+", num(2), num(3)), nil)
	if _, ok := v.(*ir.BinaryOperatorCall); !ok {
		t.Errorf("got %T, want a runtime addition", v)
	}
}

// ---- compilation ----

func TestTempArgumentToPlainParameter(t *testing.T) {
	point := &ast.StructDefinition{Token: tk(), Name: "Point", Fields: []*ast.FieldDefinition{{Token: tk(), Name: "x", Type: typ("i32")}}}
	take := function("take", nil, []*ast.Parameter{param("p", typ("Point"))})
	use := &ast.Call{Token: tk(), Callee: id("take"), Args: []*ast.Argument{arg(id("pt"), config.ModifierTemp)}}
	p := &ast.Program{
		File:       mainFile,
		Structs:    []*ast.StructDefinition{point},
		Functions:  []*ast.FunctionDefinition{take},
		Statements: []ast.Statement{declare(typ("Point"), "pt", nil), stmt(use)},
	}

	res := New(nil).Compile(p)
	warnings := withCode(res.Diagnostics, diagnostics.ErrL001)
	if len(warnings) != 1 || warnings[0].Severity != diagnostics.SeverityWarning {
		t.Fatalf("diagnostics = %v, want one %s warning", res.Diagnostics, diagnostics.ErrL001)
	}
	if len(res.Module.Statements) != 1 {
		t.Fatalf("%d statements, want 1", len(res.Module.Statements))
	}
	fc, ok := res.Module.Statements[0].(*ir.FunctionCall)
	if !ok {
		t.Fatalf("got %T, want a call", res.Module.Statements[0])
	}
	if fc.Arguments[0].Cleanup != nil {
		t.Errorf("argument of a plain parameter got a cleanup")
	}
	if fc.Observed() {
		t.Errorf("call in statement position must not be observed")
	}
}

func TestTempParameterReleasesAllocation(t *testing.T) {
	point := &ast.StructDefinition{Token: tk(), Name: "Point", Fields: []*ast.FieldDefinition{{Token: tk(), Name: "x", Type: typ("i32")}}}
	alloc := external("alloc", ptr(typ("u8")), param("size", typ("i32")))
	alloc.Attributes = append(alloc.Attributes, &ast.Attribute{Token: tk(), Name: config.BuiltinAttribute, Arguments: []string{config.BuiltinAllocate}})
	free := external("free", nil, param("p", ptr(typ("u8"))))
	free.Attributes = append(free.Attributes, &ast.Attribute{Token: tk(), Name: config.BuiltinAttribute, Arguments: []string{config.BuiltinFree}})
	consume := function("consume", nil, []*ast.Parameter{param("p", ptr(typ("Point")), config.ModifierTemp)})
	use := &ast.Call{Token: tk(), Callee: id("consume"), Args: []*ast.Argument{arg(&ast.New{Token: tk(), Type: typ("Point")}, "")}}
	p := &ast.Program{
		File:       mainFile,
		Structs:    []*ast.StructDefinition{point},
		Functions:  []*ast.FunctionDefinition{alloc, free, consume},
		Statements: []ast.Statement{stmt(use)},
	}

	res := New(withExternals(settings.Default(), "alloc", "free")).Compile(p)
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	fc := res.Module.Statements[0].(*ir.FunctionCall)
	a := fc.Arguments[0]
	if a.Cleanup == nil || a.Cleanup.Deallocator == nil || a.Cleanup.Deallocator.Identifier() != "free" {
		t.Fatalf("cleanup = %+v, want the free deallocator", a.Cleanup)
	}
	if _, ok := a.Value.(*ir.Cast); !ok {
		t.Errorf("allocation lowered to %T, want a cast of the allocator call", a.Value)
	}
}

func TestUnrollThroughCompile(t *testing.T) {
	loop := &ast.For{
		Token:     tk(),
		Init:      declare(typ("i32"), "i", num(0)),
		Condition: bin("<", id("i"), num(3)),
		Step:      &ast.Increment{Token: tk(), Target: id("i")},
		Body:      block(stmt(call("use", id("i")))),
	}
	p := program(external("use", nil, param("x", typ("i32"))))
	p.Statements = []ast.Statement{loop}

	res := New(withExternals(settings.Default(), "use")).Compile(p)
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	unrolled, ok := res.Module.Statements[0].(*ir.Block)
	if !ok || len(unrolled.Statements) != 3 {
		t.Fatalf("got %s, want three copies", ir.String(res.Module.Statements[0]))
	}
	for i, s := range unrolled.Statements {
		body := s.(*ir.Block)
		ext, ok := body.Statements[0].(*ir.ExternalCall)
		if !ok {
			t.Fatalf("copy %d is %T, want an external call", i, body.Statements[0])
		}
		if got := ext.Arguments[0].Value.(*ir.Evaluated).Value.Int64(); got != int64(i) {
			t.Errorf("copy %d passes %d", i, got)
		}
	}
	if len(withCode(res.Diagnostics, diagnostics.ErrL005)) != 1 {
		t.Errorf("unrolling was not reported: %v", res.Diagnostics)
	}
}

func TestCallFoldedAndPruned(t *testing.T) {
	square := function("square", typ("i32"), []*ast.Parameter{param("x", typ("i32"))}, ret(bin("*", id("x"), id("x"))))
	p := program(square)
	p.Statements = []ast.Statement{declare(typ("i32"), "r", call("square", num(5)))}

	res := New(nil).Compile(p)
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	set, ok := res.Module.Statements[0].(*ir.GlobalSetter)
	if !ok {
		t.Fatalf("got %T, want a global initialization", res.Module.Statements[0])
	}
	k, ok := set.Value.(*ir.Evaluated)
	if !ok || k.Value.Int64() != 25 {
		t.Fatalf("square(5) lowered to %s", ir.String(set.Value))
	}
	if len(res.Module.Functions) != 0 {
		t.Errorf("square is unreachable but %d functions were kept", len(res.Module.Functions))
	}
}

func TestFoldKeepsDeclaredKind(t *testing.T) {
	p := program()
	p.Statements = []ast.Statement{declare(typ("u32"), "x", bin("/", num(4000000000), num(2)))}

	res := New(nil).Compile(p)
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	set, ok := res.Module.Statements[0].(*ir.GlobalSetter)
	if !ok {
		t.Fatalf("got %T, want a global initialization", res.Module.Statements[0])
	}
	k, ok := set.Value.(*ir.Evaluated)
	if !ok || k.Value.Kind() != types.U32 || k.Value.Int64() != 2000000000 {
		t.Errorf("4000000000 / 2 as u32 lowered to %s", ir.String(set.Value))
	}
}

func TestEvaluatedCalleeSeesItsOwnGlobals(t *testing.T) {
	global := declare(typ("i32"), "N", num(1))
	global.Modifiers = ast.Modifiers{config.ModifierConst}
	local := declare(typ("i32"), "N", num(100))
	local.Modifiers = ast.Modifiers{config.ModifierConst}
	p := program(function("g", typ("i32"), nil, ret(id("N"))))
	p.Statements = []ast.Statement{
		global,
		block(local, declare(typ("i32"), "r", call("g"))),
	}

	res := New(nil).Compile(p)
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	var decl *ir.VariableDeclaration
	for _, s := range res.Module.Statements[0].(*ir.Block).Statements {
		if d, ok := s.(*ir.VariableDeclaration); ok {
			decl = d
		}
	}
	if decl == nil {
		t.Fatalf("no declaration of r in %s", ir.String(res.Module.Statements[0]))
	}
	k, ok := decl.Initial.(*ir.Evaluated)
	if !ok || k.Value.Int64() != 1 {
		t.Errorf("r = %s, want the global N of g, 1", ir.String(decl.Initial))
	}
}

func TestHoistingMatchesRuntimeLowering(t *testing.T) {
	tests := []struct {
		name  string
		build func() *ast.Program
	}{
		{"char to u8", func() *ast.Program {
			p := program(external("putc", nil, param("c", typ("u8"))))
			p.Statements = []ast.Statement{stmt(call("putc", &ast.CharLiteral{Token: tk(), Value: 'A'}))}
			return p
		}},
		{"f64", func() *ast.Program {
			p := program(external("putc", nil, param("f", typ("f64"))))
			p.Statements = []ast.Statement{stmt(call("putc", ast.NewFloat(tk(), 0.1)))}
			return p
		}},
		{"u32", func() *ast.Program {
			p := program(external("putc", nil, param("u", typ("u32"))))
			p.Statements = []ast.Statement{stmt(call("putc", num(4000000000)))}
			return p
		}},
		{"global shadowed at the call site", func() *ast.Program {
			global := declare(nil, "N", num(1))
			global.Modifiers = ast.Modifiers{config.ModifierConst}
			local := declare(nil, "N", num(100))
			local.Modifiers = ast.Modifiers{config.ModifierConst}
			p := program(external("putc", nil, param("n", typ("i32"))))
			p.Statements = []ast.Statement{global, block(local, stmt(call("putc", id("N"))))}
			return p
		}},
	}

	render := func(r *Result) string {
		var sb strings.Builder
		for _, s := range r.Module.Statements {
			sb.WriteString(ir.String(s) + "\n")
		}
		return sb.String()
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluated := New(withExternals(settings.Default(), "putc")).Compile(tt.build())
			s := withExternals(settings.Default(), "putc")
			s.Optimizations.Evaluate = false
			lowered := New(s).Compile(tt.build())
			if evaluated.Failed() || lowered.Failed() {
				t.Fatalf("diagnostics: %v / %v", evaluated.Diagnostics, lowered.Diagnostics)
			}
			if a, b := render(evaluated), render(lowered); a != b {
				t.Errorf("evaluation changed the program:\n%s\n---\n%s", a, b)
			}
		})
	}
}

func TestInlineCall(t *testing.T) {
	twice := function("twice", typ("i32"), []*ast.Parameter{param("x", typ("i32"))}, ret(bin("+", id("x"), id("x"))))
	twice.Modifiers = ast.Modifiers{config.ModifierInline}
	run := function("run", typ("i32"), []*ast.Parameter{param("y", typ("i32"))}, ret(call("twice", id("y"))))
	run.Modifiers = ast.Modifiers{config.ModifierExport}

	s := settings.Default()
	s.Optimizations.Evaluate = false
	res := New(s).Compile(program(twice, run))
	if res.Failed() {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	if len(res.Module.Functions) != 1 || res.Module.Functions[0].Decl.Identifier() != "run" {
		t.Fatalf("kept %d functions, want only run", len(res.Module.Functions))
	}
	r := res.Module.Functions[0].Body.Statements[0].(*ir.Return)
	sum, ok := r.Value.(*ir.BinaryOperatorCall)
	if !ok {
		t.Fatalf("return value is %T, want the inlined addition", r.Value)
	}
	if _, ok := sum.Left.(*ir.ParameterGetter); !ok {
		t.Errorf("inlined operand is %T, want the caller's parameter", sum.Left)
	}
	if len(withCode(res.Diagnostics, diagnostics.ErrL007)) != 1 {
		t.Errorf("inlining was not reported: %v", res.Diagnostics)
	}
}

func TestStatementDiagnostics(t *testing.T) {
	cond := &ast.If{Token: tk(), Condition: bin("<", num(1), num(2)), Then: block(stmt(call("use", num(1)))), Else: block(stmt(call("use", num(2))))}
	p := program(external("use", nil, param("x", typ("i32"))))
	p.Statements = []ast.Statement{
		&ast.Break{Token: tk()},
		stmt(bin("+", num(1), num(2))),
		cond,
	}

	res := New(withExternals(settings.Default(), "use")).Compile(p)
	for _, code := range []diagnostics.ErrorCode{diagnostics.ErrL006, diagnostics.ErrL009, diagnostics.ErrL008} {
		if len(withCode(res.Diagnostics, code)) == 0 {
			t.Errorf("missing %s in %v", code, res.Diagnostics)
		}
	}
	taken, ok := res.Module.Statements[2].(*ir.Block)
	if !ok {
		t.Fatalf("constant if lowered to %T, want the taken branch", res.Module.Statements[2])
	}
	ext := taken.Statements[0].(*ir.ExternalCall)
	if got := ext.Arguments[0].Value.(*ir.Evaluated).Value.Int64(); got != 1 {
		t.Errorf("the else branch was taken")
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	build := func() *ast.Program {
		lines = 1000
		add := function("add", typ("i32"), []*ast.Parameter{param("a", typ("i32")), param("b", typ("i32"))}, ret(bin("+", id("a"), id("b"))))
		add.Modifiers = ast.Modifiers{config.ModifierExport}
		p := program(add, function("add", typ("f32"), []*ast.Parameter{param("a", typ("f32")), param("b", typ("f32"))}, ret(bin("+", id("a"), id("b")))))
		p.Statements = []ast.Statement{declare(nil, "x", call("add", num(1), num(300)))}
		return p
	}
	first := New(nil).Compile(build())
	second := New(nil).Compile(build())

	render := func(r *Result) string {
		var sb strings.Builder
		for _, s := range r.Module.Statements {
			sb.WriteString(ir.String(s) + "\n")
		}
		for _, f := range r.Module.Functions {
			sb.WriteString(f.Decl.Identifier() + ir.String(f.Body) + "\n")
		}
		for _, d := range r.Diagnostics {
			sb.WriteString(d.Error() + "\n")
		}
		return sb.String()
	}
	if a, b := render(first), render(second); a != b {
		t.Errorf("two compilations differ:\n%s\n---\n%s", a, b)
	}
}

func TestLoggerCarriesSessionID(t *testing.T) {
	var buf bytes.Buffer
	c := New(nil, WithLogger(log.New(&buf, "", 0)))
	c.Compile(program(function("main", nil, nil)))
	if !strings.Contains(buf.String(), c.ID().String()) {
		t.Errorf("log output %q does not carry the session id", buf.String())
	}
}
