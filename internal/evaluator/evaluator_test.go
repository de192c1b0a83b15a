package evaluator

import (
	"testing"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

var tok = token.Token{File: "main.bbc", Line: 1, Column: 1}

type fakeHost struct {
	functions map[string]*Function
	operators map[string]*Function
	constants map[string]values.Value
	// locals are only visible outside function bodies.
	locals   map[string]values.Value
	kinds    map[ast.Expression]types.Kind
	resolved int
}

func newHost() *fakeHost {
	return &fakeHost{
		functions: map[string]*Function{},
		operators: map[string]*Function{},
		constants: map[string]values.Value{},
		locals:    map[string]values.Value{},
		kinds:     map[ast.Expression]types.Kind{},
	}
}

func (h *fakeHost) Constant(name string, callee *Function) (values.Value, bool) {
	if callee == nil {
		if v, ok := h.locals[name]; ok {
			return v, true
		}
	}
	v, ok := h.constants[name]
	return v, ok
}

func (h *fakeHost) Function(call *ast.Call, args []values.Value, callee *Function) (*Function, bool) {
	h.resolved++
	id, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	fn, ok := h.functions[id.Name]
	return fn, ok
}

func (h *fakeHost) Operator(op string, operands []values.Value, callee *Function) (*Function, bool) {
	fn, ok := h.operators[op]
	return fn, ok
}

func (h *fakeHost) Kind(t ast.Type, callee *Function) (types.Kind, bool) {
	tn, ok := t.(*ast.TypeName)
	if !ok {
		return 0, false
	}
	return types.ParseBuiltin(tn.Name)
}

func (h *fakeHost) SizeOf(t ast.Type, callee *Function) (values.Value, bool) {
	k, ok := h.Kind(t, callee)
	if !ok {
		return values.Value{}, false
	}
	return values.Int(types.I32, int64(types.BitWidth(k)/8)), true
}

func (h *fakeHost) LiteralKind(e ast.Expression) (types.Kind, bool) {
	k, ok := h.kinds[e]
	return k, ok
}

func (h *fakeHost) BooleanKind() types.Kind { return types.U8 }

// ---- builders ----

func num(v int64) *ast.IntegerLiteral { return ast.NewInteger(tok, v) }
func id(name string) *ast.Identifier  { return ast.NewIdentifier(tok, name) }
func bin(op string, l, r ast.Expression) *ast.BinaryOperator {
	return ast.NewBinary(tok, op, l, r)
}
func typ(name string) *ast.TypeName { return &ast.TypeName{Token: tok, Name: name} }

func call(name string, args ...ast.Expression) *ast.Call {
	c := &ast.Call{Token: tok, Callee: id(name)}
	for _, a := range args {
		c.Args = append(c.Args, &ast.Argument{Token: tok, Value: a})
	}
	return c
}

func stmt(e ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Token: tok, Expression: e}
}

func block(stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Token: tok, Statements: stmts}
}

func declare(name, kind string, v ast.Expression) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Token: tok, Name: name, Type: typ(kind), Value: v}
}

func ret(v ast.Expression) *ast.Return { return &ast.Return{Token: tok, Value: v} }

// ---- tests ----

func TestFoldArithmetic(t *testing.T) {
	c := New(newHost())
	v, ok := c.TryCompute(bin("+", num(2), bin("*", num(3), num(4))))
	if !ok {
		t.Fatalf("TryCompute failed")
	}
	if v.Kind() != types.I64 || v.Int64() != 14 {
		t.Errorf("got %#v, want i64(14)", v)
	}
	if len(c.runtime) != 0 {
		t.Errorf("folding produced %d runtime statements", len(c.runtime))
	}
}

func TestFoldUsesCheckedLiteralKinds(t *testing.T) {
	h := newHost()
	two, three, four := num(2), num(3), num(4)
	for _, e := range []ast.Expression{two, three, four} {
		h.kinds[e] = types.I32
	}
	v, ok := New(h).TryCompute(bin("+", two, bin("*", three, four)))
	if !ok || v.Kind() != types.I32 || v.Int64() != 14 {
		t.Errorf("got %#v, %v; want i32(14)", v, ok)
	}

	big, half := num(4000000000), num(2)
	h.kinds[big], h.kinds[half] = types.U32, types.U32
	v, ok = New(h).TryCompute(bin("/", big, half))
	if !ok || v.Kind() != types.U32 || v.Int64() != 2000000000 {
		t.Errorf("4000000000 / 2 as u32 = %#v, %v", v, ok)
	}
}

func TestUntypedLiteralsStayWide(t *testing.T) {
	c := New(newHost())
	v, ok := c.TryCompute(bin("/", num(4000000000), num(2)))
	if !ok || v.Int64() != 2000000000 {
		t.Errorf("4000000000 / 2 = %#v, %v", v, ok)
	}
	v, ok = c.TryCompute(ast.NewFloat(tok, 0.1))
	if !ok || v.Kind() != types.F64 || v.Float64() != 0.1 {
		t.Errorf("0.1 = %#v, %v; want f64 without rounding", v, ok)
	}

	h := newHost()
	tenth := ast.NewFloat(tok, 0.1)
	h.kinds[tenth] = types.F32
	v, ok = New(h).TryCompute(tenth)
	if !ok || v.Kind() != types.F32 || v.Float64() != float64(float32(0.1)) {
		t.Errorf("0.1 typed f32 = %#v, %v", v, ok)
	}
}

func TestUntypedDeclarationTakesDefaultKind(t *testing.T) {
	h := newHost()
	h.functions["f"] = &Function{Name: "f", ReturnKind: types.I64, Body: block(
		&ast.VariableDeclaration{Token: tok, Name: "small", Value: num(7)},
		&ast.VariableDeclaration{Token: tok, Name: "big", Value: num(5000000000)},
		ret(bin("+", id("small"), id("big"))),
	)}
	v, ok := New(h).TryCompute(call("f"))
	if !ok || v.Int64() != 5000000007 {
		t.Errorf("f() = %#v, %v; want 5000000007", v, ok)
	}
}

func TestConstantsAndComparisons(t *testing.T) {
	h := newHost()
	h.constants["N"] = values.Int(types.I32, 10)
	c := New(h)
	v, ok := c.TryCompute(bin("<", id("N"), num(20)))
	if !ok || !v.IsTruthy() || v.Kind() != types.U8 {
		t.Errorf("N < 20 = %#v, %v", v, ok)
	}
	if _, ok := c.TryCompute(id("missing")); ok {
		t.Errorf("unknown identifier must not fold")
	}
}

func TestShortCircuit(t *testing.T) {
	h := newHost()
	c := New(h)
	v, ok := c.TryCompute(bin("&&", num(0), call("unknown")))
	if !ok || v.IsTruthy() {
		t.Fatalf("0 && unknown() = %#v, %v", v, ok)
	}
	if h.resolved != 0 {
		t.Errorf("right operand was evaluated")
	}
}

func TestEvaluateFunction(t *testing.T) {
	h := newHost()
	h.functions["square"] = &Function{
		Name: "square", Params: []string{"x"}, ParamKinds: []types.Kind{types.I32}, ReturnKind: types.I32,
		Body: block(ret(bin("*", id("x"), id("x")))),
	}
	// sum(n) { i32 s = 0; for (i32 i = 1; i <= n; i++) s += i; return s; }
	h.functions["sum"] = &Function{
		Name: "sum", Params: []string{"n"}, ParamKinds: []types.Kind{types.I32}, ReturnKind: types.I32,
		Body: block(
			declare("s", "i32", num(0)),
			&ast.For{
				Token: tok,
				Init:  declare("i", "i32", num(1)),
				Condition: bin("<=", id("i"), id("n")),
				Step:      &ast.Increment{Token: tok, Target: id("i")},
				Body:      block(&ast.CompoundAssignment{Token: tok, Operator: "+", Target: id("s"), Value: id("i")}),
			},
			ret(id("s")),
		),
	}
	c := New(h)
	if v, ok := c.TryCompute(call("square", num(5))); !ok || v.Int64() != 25 {
		t.Errorf("square(5) = %#v, %v", v, ok)
	}
	if v, ok := c.TryCompute(call("sum", num(100))); !ok || v.Int64() != 5050 {
		t.Errorf("sum(100) = %#v, %v", v, ok)
	}
}

func TestUserOperatorWinsOverArithmetic(t *testing.T) {
	h := newHost()
	h.operators["+"] = &Function{
		Name: "+", Params: []string{"a", "b"}, ReturnKind: types.I32,
		Body: block(ret(bin("*", id("a"), id("b")))),
	}
	c := New(h)
	v, ok := c.TryCompute(bin("+", num(3), num(4)))
	if !ok || v.Int64() != 12 {
		t.Errorf("3 + 4 with overloaded + = %#v, %v", v, ok)
	}
}

func TestForLoopCap(t *testing.T) {
	c := New(newHost())
	loop := &ast.For{
		Token:     tok,
		Init:      declare("i", "i32", num(0)),
		Condition: num(1),
		Step:      &ast.Increment{Token: tok, Target: id("i")},
		Body:      block(),
	}
	if _, ok := c.TryEvaluate(loop); ok {
		t.Fatalf("infinite for loop must fail")
	}

	bounded := &ast.For{
		Token:     tok,
		Init:      declare("i", "i32", num(0)),
		Condition: bin("<", id("i"), num(config.ForIterationLimit)),
		Step:      &ast.Increment{Token: tok, Target: id("i")},
		Body:      block(),
	}
	if _, ok := c.TryEvaluate(bounded); !ok {
		t.Errorf("loop of exactly %d iterations must evaluate", config.ForIterationLimit)
	}
}

func TestWhileLoopCap(t *testing.T) {
	c := New(newHost())
	loop := func(limit int64) ast.Statement {
		return block(
			declare("i", "i32", num(0)),
			&ast.While{Token: tok, Condition: bin("<", id("i"), num(limit)), Body: block(&ast.Increment{Token: tok, Target: id("i")})},
		)
	}
	if _, ok := c.TryEvaluate(loop(config.WhileIterationLimit)); !ok {
		t.Errorf("while of %d iterations must evaluate", config.WhileIterationLimit)
	}
	if _, ok := c.TryEvaluate(loop(config.WhileIterationLimit + 1)); ok {
		t.Errorf("while of %d iterations must fail", config.WhileIterationLimit+1)
	}
}

func TestRecursionIsBounded(t *testing.T) {
	h := newHost()
	h.functions["f"] = &Function{Name: "f", Params: []string{"x"}, ReturnKind: types.I32, Body: block(ret(call("f", id("x"))))}
	c := New(h)
	if _, ok := c.TryCompute(call("f", num(1))); ok {
		t.Errorf("unbounded recursion must fail")
	}
}

func TestExternalCallsAreHoisted(t *testing.T) {
	h := newHost()
	h.functions["print"] = &Function{Name: "print", Params: []string{"v"}, ParamKinds: []types.Kind{types.I32}, External: true}
	h.functions["greet"] = &Function{Name: "greet", Params: []string{"n"}, ReturnKind: types.I32,
		Body: block(stmt(call("print", bin("+", id("n"), num(1)))), ret(id("n")))}
	c := New(h)

	out, ok := c.TryEvaluate(stmt(call("print", bin("+", num(2), num(3)))))
	if !ok || len(out) != 1 {
		t.Fatalf("TryEvaluate = %v, %v", out, ok)
	}
	if got := ast.ExpressionString(out[0].(*ast.ExpressionStatement).Expression); got != "print(5)" {
		t.Errorf("hoisted = %s, want print(5)", got)
	}

	if _, ok := c.TryCompute(call("greet", num(1))); ok {
		t.Errorf("TryCompute must refuse bodies with runtime statements")
	}

	v, stmts, ok := c.TryCall(h.functions["greet"], []values.Value{values.Int(types.I32, 41)})
	if !ok || v.Int64() != 41 || len(stmts) != 1 {
		t.Fatalf("TryCall = %#v, %d statements, %v", v, len(stmts), ok)
	}
	if len(c.runtime) != 0 {
		t.Errorf("runtime statements leaked into the context")
	}
}

func TestHoistKeepsLiteralArguments(t *testing.T) {
	h := newHost()
	h.functions["putc"] = &Function{Name: "putc", Params: []string{"c"}, ParamKinds: []types.Kind{types.U8}, External: true}
	c := New(h)

	letter := &ast.CharLiteral{Token: tok, Value: 'A'}
	out, ok := c.TryEvaluate(stmt(call("putc", letter)))
	if !ok || len(out) != 1 {
		t.Fatalf("TryEvaluate = %v, %v", out, ok)
	}
	hoisted := out[0].(*ast.ExpressionStatement).Expression.(*ast.Call)
	if hoisted.Args[0].Value != letter {
		t.Errorf("hoisted argument = %s, want the literal as written", ast.ExpressionString(hoisted.Args[0].Value))
	}

	out, ok = c.TryEvaluate(stmt(call("putc", bin("+", &ast.CharLiteral{Token: tok, Value: 'A'}, num(1)))))
	if !ok || len(out) != 1 {
		t.Fatalf("TryEvaluate = %v, %v", out, ok)
	}
	if got := ast.ExpressionString(out[0].(*ast.ExpressionStatement).Expression); got != "putc(66u8)" {
		t.Errorf("hoisted = %s, want putc(66u8)", got)
	}
}

func TestCalleeDoesNotSeeCallerNames(t *testing.T) {
	h := newHost()
	h.constants["N"] = values.Int(types.I32, 1)
	h.locals["N"] = values.Int(types.I32, 100)
	h.functions["g"] = &Function{Name: "g", ReturnKind: types.I32, Body: block(ret(id("N")))}
	c := New(h)

	if v, ok := c.TryCompute(id("N")); !ok || v.Int64() != 100 {
		t.Errorf("N at the call site = %#v, %v; want 100", v, ok)
	}
	if v, ok := c.TryCompute(call("g")); !ok || v.Int64() != 1 {
		t.Errorf("g() = %#v, %v; want the global 1", v, ok)
	}
}

func TestUnroll(t *testing.T) {
	c := New(newHost())
	loop := &ast.For{
		Token:     tok,
		Init:      declare("i", "i32", num(0)),
		Condition: bin("<", id("i"), num(3)),
		Step:      &ast.Increment{Token: tok, Target: id("i")},
		Body:      block(stmt(call("use", id("i")))),
	}
	blocks, ok := c.Unroll(loop)
	if !ok {
		t.Fatalf("Unroll failed")
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	for i, b := range blocks {
		got := ast.ExpressionString(b.Statements[0].(*ast.ExpressionStatement).Expression)
		want := "use(" + string(rune('0'+i)) + ")"
		if got != want {
			t.Errorf("block %d = %s, want %s", i, got, want)
		}
	}
}

func TestUnrollKeepsIteratorKind(t *testing.T) {
	c := New(newHost())
	loop := &ast.For{
		Token:     tok,
		Init:      declare("i", "u8", num(254)),
		Condition: bin("!=", id("i"), num(0)),
		Step:      &ast.Increment{Token: tok, Target: id("i")},
		Body:      block(stmt(call("use", id("i")))),
	}
	blocks, ok := c.Unroll(loop)
	if !ok || len(blocks) != 2 {
		t.Fatalf("Unroll = %d blocks, %v; want 2 (u8 wraps to 0)", len(blocks), ok)
	}
	got := ast.ExpressionString(blocks[1].Statements[0].(*ast.ExpressionStatement).Expression)
	if got != "use(255u8)" {
		t.Errorf("second block = %s, want use(255u8)", got)
	}
}

func TestUnrollRefusals(t *testing.T) {
	c := New(newHost())
	base := func() *ast.For {
		return &ast.For{
			Token:     tok,
			Init:      declare("i", "i32", num(0)),
			Condition: bin("<", id("i"), num(3)),
			Step:      &ast.Increment{Token: tok, Target: id("i")},
			Body:      block(stmt(call("use", id("i")))),
		}
	}

	withBreak := base()
	withBreak.Body = block(&ast.If{Token: tok, Condition: id("i"), Then: &ast.Break{Token: tok}})
	otherStep := base()
	otherStep.Step = &ast.Increment{Token: tok, Target: id("j")}
	assigns := base()
	assigns.Body = block(&ast.Assignment{Token: tok, Target: id("i"), Value: num(5)})
	unknownBound := base()
	unknownBound.Condition = bin("<", id("i"), id("n"))
	noInit := base()
	noInit.Init = nil

	for name, loop := range map[string]*ast.For{
		"break":         withBreak,
		"other step":    otherStep,
		"assigns":       assigns,
		"unknown bound": unknownBound,
		"no init":       noInit,
	} {
		if _, ok := c.Unroll(loop); ok {
			t.Errorf("%s: Unroll must fail", name)
		}
	}
}

func TestLiteral(t *testing.T) {
	cases := []struct {
		v    values.Value
		want string
	}{
		{values.Int(types.I32, -3), "-3"},
		{values.Int(types.U8, 7), "7u8"},
		{values.Float(types.F32, 1.5), "1.5f"},
		{values.Float(types.F64, 2), "2f64"},
	}
	for _, c := range cases {
		if got := ast.ExpressionString(Literal(c.v, tok)); got != c.want {
			t.Errorf("Literal(%#v) = %s, want %s", c.v, got, c.want)
		}
	}
}
