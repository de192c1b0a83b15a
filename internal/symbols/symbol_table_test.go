package symbols

import (
	"testing"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

func genericIdentity() *Function {
	return &Function{FunctionBase: FunctionBase{
		Name:       "id",
		File:       "a.bbc",
		TypeParams: []string{"T"},
		Params:     []*Parameter{{Name: "v", Type: types.Generic{Name: "T"}}},
		Return:     types.Generic{Name: "T"},
	}}
}

func TestAddSeparatesTemplates(t *testing.T) {
	tables := NewTables()
	tables.Add(genericIdentity())
	tables.Add(&Function{FunctionBase: FunctionBase{Name: "f"}})
	tables.Add(&Operator{FunctionBase: FunctionBase{Name: "+"}})

	if len(tables.FunctionTemplates) != 1 || len(tables.Functions) != 1 {
		t.Fatalf("expected one template and one function, got %d and %d",
			len(tables.FunctionTemplates), len(tables.Functions))
	}
	if len(tables.Callables()) != 2 {
		t.Errorf("Callables() = %d, want 2", len(tables.Callables()))
	}
}

func TestInstantiateIsIdempotent(t *testing.T) {
	tables := NewTables()
	tmpl := genericIdentity()
	tables.Add(tmpl)

	a := tables.Instantiate(tmpl, map[string]types.Type{"T": types.I32Type})
	b := tables.Instantiate(tmpl, map[string]types.Type{"T": types.Builtin{Kind: types.I32}})
	c := tables.Instantiate(tmpl, map[string]types.Type{"T": types.U8Type})

	if a != b {
		t.Fatalf("same bindings produced different instances")
	}
	if a == c {
		t.Fatalf("different bindings produced the same instance")
	}
	if len(tables.Instances) != 2 {
		t.Errorf("Instances = %d, want 2", len(tables.Instances))
	}
	base := a.Base()
	if base.IsTemplate() {
		t.Errorf("instance still reports template")
	}
	if !types.Same(base.Return, types.I32Type) || !types.Same(base.Params[0].Type, types.I32Type) {
		t.Errorf("instance signature = %s, want i32(i32)", base.Type())
	}
	if base.Template != Callable(tmpl) {
		t.Errorf("instance does not point back to its template")
	}
	if !types.Same(tmpl.Params[0].Type, types.Generic{Name: "T"}) {
		t.Errorf("instantiation mutated the template")
	}
}

type foreignCallable struct{ FunctionBase }

func (f *foreignCallable) Base() *FunctionBase       { return &f.FunctionBase }
func (f *foreignCallable) Kind() ast.DefinitionKind { return ast.KindFunction }

func TestInstantiateUnknownCallablePanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*diagnostics.InternalError); !ok {
			t.Fatalf("recovered %#v, want an internal error", r)
		}
	}()
	tmpl := &foreignCallable{FunctionBase{Name: "f", TypeParams: []string{"T"}}}
	NewTables().Instantiate(tmpl, map[string]types.Type{"T": types.I32Type})
}

func TestVisibility(t *testing.T) {
	private := &Function{FunctionBase: FunctionBase{Name: "f", File: "a.bbc"}}
	exported := &Function{FunctionBase: FunctionBase{Name: "g", File: "a.bbc", Exported: true}}
	if !private.CanUse("a.bbc") || private.CanUse("b.bbc") {
		t.Errorf("private function visibility is wrong")
	}
	if !exported.CanUse("b.bbc") {
		t.Errorf("exported function must be usable from other files")
	}
	local := &Variable{Name: "x", File: "a.bbc"}
	if !local.CanUse("b.bbc") {
		t.Errorf("locals are never filtered by file")
	}
}

func TestReferences(t *testing.T) {
	tables := NewTables()
	f := &Function{FunctionBase: FunctionBase{Name: "f"}}
	if tables.IsReferenced(f) {
		t.Fatalf("fresh function must be unreferenced")
	}
	tables.AddReference(f, Reference{Token: token.Token{Line: 3}, File: "a.bbc"})
	tables.AddReference(f, Reference{Token: token.Token{Line: 7}, File: "a.bbc"})
	if got := len(tables.References(f)); got != 2 {
		t.Errorf("References = %d, want 2", got)
	}
}

func TestScopeStackLookup(t *testing.T) {
	var st ScopeStack
	st.Push([]*Constant{{Name: "N"}}, nil)
	outer := &Variable{Name: "x", Type: types.I32Type}
	if !st.AddVariable(outer) {
		t.Fatalf("AddVariable failed")
	}
	if st.AddVariable(&Variable{Name: "x"}) {
		t.Errorf("redeclaration in the same scope must fail")
	}

	st.Push(nil, []*Label{{Name: "loop"}}).Loop = true
	inner := &Variable{Name: "x", Type: types.U8Type}
	st.AddVariable(inner)

	if v, _ := st.Variable("x"); v != inner {
		t.Errorf("inner variable must shadow outer")
	}
	if _, ok := st.Constant("N"); !ok {
		t.Errorf("outer constant not visible")
	}
	if _, ok := st.Label("loop"); !ok {
		t.Errorf("label not visible")
	}
	if !st.InLoop() {
		t.Errorf("expected to be in a loop")
	}

	popped := st.Pop()
	if len(popped.Variables) != 1 || popped.Variables[0] != inner {
		t.Errorf("popped scope lost its variables")
	}
	if v, _ := st.Variable("x"); v != outer {
		t.Errorf("outer variable not restored after pop")
	}
	if st.InLoop() {
		t.Errorf("loop flag leaked after pop")
	}
}

func TestStructMember(t *testing.T) {
	tables := NewTables()
	s := &Struct{Name: "Point", File: "a.bbc"}
	dtor := &GeneralFunction{FunctionBase: FunctionBase{Name: "destructor", Context: s}}
	tables.Add(dtor)
	tables.Add(&GeneralFunction{FunctionBase: FunctionBase{Name: "destructor"}})
	got := tables.StructMember(s, "destructor")
	if len(got) != 1 || got[0] != Callable(dtor) {
		t.Errorf("StructMember = %v, want the Point destructor", got)
	}
	if dtor.Kind() != ast.KindGeneral {
		t.Errorf("Kind() = %v", dtor.Kind())
	}
}
