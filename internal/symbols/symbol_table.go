package symbols

import (
	"fmt"

	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// Tables owns every declaration of one compilation. Concrete and template
// callables are kept apart; instantiations live in their own list and are
// memoized by template identity and type arguments.
type Tables struct {
	Functions        []*Function
	Operators        []*Operator
	GeneralFunctions []*GeneralFunction
	Constructors     []*Constructor

	FunctionTemplates        []*Function
	OperatorTemplates        []*Operator
	GeneralFunctionTemplates []*GeneralFunction
	ConstructorTemplates     []*Constructor

	Structs []*Struct
	Aliases []*Alias

	// Global holds top-level variables, constants and labels of every file.
	Global *Scope

	// Instances lists template instantiations in creation order.
	Instances []Callable

	instances  map[string]Callable
	references map[Declaration][]Reference
}

// Reference is one use of a declaration.
type Reference struct {
	Token token.Token
	File  string
	// Caller is the callable whose body contains the use, nil at top level.
	Caller Callable
}

func NewTables() *Tables {
	return &Tables{
		Global:     &Scope{},
		instances:  make(map[string]Callable),
		references: make(map[Declaration][]Reference),
	}
}

// Add registers a callable in the concrete or template collection.
func (t *Tables) Add(c Callable) {
	tmpl := c.Base().IsTemplate()
	switch d := c.(type) {
	case *Function:
		if tmpl {
			t.FunctionTemplates = append(t.FunctionTemplates, d)
		} else {
			t.Functions = append(t.Functions, d)
		}
	case *Operator:
		if tmpl {
			t.OperatorTemplates = append(t.OperatorTemplates, d)
		} else {
			t.Operators = append(t.Operators, d)
		}
	case *GeneralFunction:
		if tmpl {
			t.GeneralFunctionTemplates = append(t.GeneralFunctionTemplates, d)
		} else {
			t.GeneralFunctions = append(t.GeneralFunctions, d)
		}
	case *Constructor:
		if tmpl {
			t.ConstructorTemplates = append(t.ConstructorTemplates, d)
		} else {
			t.Constructors = append(t.Constructors, d)
		}
	}
}

// Callables lists every concrete callable followed by every instantiation.
func (t *Tables) Callables() []Callable {
	var out []Callable
	for _, f := range t.Functions {
		out = append(out, f)
	}
	for _, o := range t.Operators {
		out = append(out, o)
	}
	for _, g := range t.GeneralFunctions {
		out = append(out, g)
	}
	for _, c := range t.Constructors {
		out = append(out, c)
	}
	return append(out, t.Instances...)
}

// Instantiate returns the concrete declaration of tmpl for the bindings.
// Repeated calls with equal bindings return the identical object.
func (t *Tables) Instantiate(tmpl Callable, bindings map[string]types.Type) Callable {
	base := tmpl.Base()
	args := make([]types.Type, len(base.TypeParams))
	for i, p := range base.TypeParams {
		args[i] = bindings[p]
	}
	key := fmt.Sprintf("%p|%s", tmpl, types.Key(args...))
	if c, ok := t.instances[key]; ok {
		return c
	}

	own := make(map[string]types.Type, len(base.TypeParams))
	for i, p := range base.TypeParams {
		own[p] = args[i]
	}
	inst := base.instantiate(own)
	inst.Template = tmpl

	var c Callable
	switch tmpl.(type) {
	case *Function:
		c = &Function{FunctionBase: inst}
	case *Operator:
		c = &Operator{FunctionBase: inst}
	case *GeneralFunction:
		c = &GeneralFunction{FunctionBase: inst}
	case *Constructor:
		c = &Constructor{FunctionBase: inst}
	default:
		panic(diagnostics.Unexpected("symbols.Instantiate", tmpl))
	}
	t.instances[key] = c
	t.Instances = append(t.Instances, c)
	return c
}

// AddReference records a use of decl.
func (t *Tables) AddReference(decl Declaration, ref Reference) {
	t.references[decl] = append(t.references[decl], ref)
}

// References returns the recorded uses of decl.
func (t *Tables) References(decl Declaration) []Reference {
	return t.references[decl]
}

// IsReferenced reports whether decl has at least one recorded use.
func (t *Tables) IsReferenced(decl Declaration) bool {
	return len(t.references[decl]) > 0
}

// StructMember returns the callables declared on s with the given name,
// instantiations included.
func (t *Tables) StructMember(s *Struct, name string) []Callable {
	var out []Callable
	for _, c := range t.Callables() {
		if c.Base().Context == s && c.Identifier() == name {
			out = append(out, c)
		}
	}
	return out
}
