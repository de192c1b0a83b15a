package ir

import (
	"testing"

	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

func constant(v int64) *Evaluated {
	return &Evaluated{ValueBase: At(token.Token{}, types.I32Type, true), Value: values.Int(types.I32, v)}
}

func TestInspectVisitsInOrder(t *testing.T) {
	use := &symbols.Function{FunctionBase: symbols.FunctionBase{Name: "use"}}
	x := &symbols.Variable{Name: "x", Type: types.I32Type}
	block := &Block{Statements: []Statement{
		&VariableDeclaration{Variable: x, Initial: constant(1)},
		&FunctionCall{
			ValueBase: At(token.Token{}, types.VoidType, false),
			Function:  use,
			Arguments: []*Argument{{Value: &VariableGetter{ValueBase: At(token.Token{}, types.I32Type, true), Variable: x}}},
		},
		&If{Condition: constant(0), Then: &Block{}},
	}}

	var kinds []string
	Inspect(block, func(n Node) bool {
		switch n.(type) {
		case *Block:
			kinds = append(kinds, "block")
		case *VariableDeclaration:
			kinds = append(kinds, "decl")
		case *Evaluated:
			kinds = append(kinds, "const")
		case *FunctionCall:
			kinds = append(kinds, "call")
		case *VariableGetter:
			kinds = append(kinds, "get")
		case *If:
			kinds = append(kinds, "if")
		}
		return true
	})
	want := []string{"block", "decl", "const", "call", "get", "if", "const", "block"}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("visited %v, want %v", kinds, want)
		}
	}

	if got := String(block); got != "{\n  i32 x = 1;\n  use(x);\n  if (0)\n  {\n  }\n}" {
		t.Errorf("String() = %q", got)
	}
}

func TestCleanupIsEmpty(t *testing.T) {
	var c *Cleanup
	if !c.IsEmpty() {
		t.Errorf("nil cleanup must be empty")
	}
	free := &symbols.Function{FunctionBase: symbols.FunctionBase{Name: "free"}}
	if (&Cleanup{Deallocator: free}).IsEmpty() {
		t.Errorf("cleanup with a deallocator is not empty")
	}
}

func TestForChildrenSkipsMissingParts(t *testing.T) {
	loop := &For{Condition: constant(1), Body: &Block{}}
	if got := len(Children(loop)); got != 2 {
		t.Errorf("Children(for) = %d, want 2", got)
	}
}
