package symbols

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// Declaration is anything the resolver can select by name.
type Declaration interface {
	Identifier() string
	DeclaringFile() string
	// CanUse reports whether code in file may refer to the declaration.
	CanUse(file string) bool
}

// Parameter is a resolved callable parameter.
type Parameter struct {
	Token     token.Token
	Name      string
	Index     int
	Type      types.Type
	Modifiers ast.Modifiers
}

func (p *Parameter) IsThis() bool { return p.Modifiers.Has(config.ModifierThis) }
func (p *Parameter) IsRef() bool  { return p.Modifiers.Has(config.ModifierRef) }
func (p *Parameter) IsTemp() bool { return p.Modifiers.Has(config.ModifierTemp) }

// FunctionBase is the shared part of every callable declaration.
type FunctionBase struct {
	Name       string
	File       string
	Token      token.Token
	Params     []*Parameter
	Return     types.Type // instance type for constructors
	TypeParams []string
	Exported   bool
	Inline     bool
	External   string // host primitive name from [External("name")]
	Builtin    string // tag from [Builtin("name")]
	Definition *ast.FunctionDefinition
	Context    *Struct // owning struct for methods

	// Set on instantiations only.
	Template      Callable
	TypeArguments map[string]types.Type
}

func (fb *FunctionBase) Identifier() string    { return fb.Name }
func (fb *FunctionBase) DeclaringFile() string { return fb.File }
func (fb *FunctionBase) CanUse(file string) bool {
	return fb.Exported || fb.File == file
}

// IsTemplate reports whether the declaration still has unbound type parameters.
func (fb *FunctionBase) IsTemplate() bool {
	return len(fb.TypeParams) > 0 && fb.TypeArguments == nil
}

// IsExternal reports whether the host implements the body.
func (fb *FunctionBase) IsExternal() bool { return fb.External != "" }

// ParameterTypes lists the parameter types in order.
func (fb *FunctionBase) ParameterTypes() []types.Type {
	out := make([]types.Type, len(fb.Params))
	for i, p := range fb.Params {
		out[i] = p.Type
	}
	return out
}

// Body returns the source body, nil for externals.
func (fb *FunctionBase) Body() *ast.Block {
	if fb.Definition == nil {
		return nil
	}
	return fb.Definition.Body
}

// Type is the function value type of the declaration.
func (fb *FunctionBase) Type() *types.Function {
	return &types.Function{Return: fb.Return, Params: fb.ParameterTypes()}
}

func (fb *FunctionBase) instantiate(bindings map[string]types.Type) FunctionBase {
	c := *fb
	c.Params = make([]*Parameter, len(fb.Params))
	for i, p := range fb.Params {
		cp := *p
		cp.Type = types.Substitute(p.Type, bindings)
		c.Params[i] = &cp
	}
	c.Return = types.Substitute(fb.Return, bindings)
	c.TypeArguments = bindings
	return c
}

// Callable is implemented by functions, operators, general functions and
// constructors.
type Callable interface {
	Declaration
	Base() *FunctionBase
	Kind() ast.DefinitionKind
}

type Function struct{ FunctionBase }

func (f *Function) Base() *FunctionBase       { return &f.FunctionBase }
func (f *Function) Kind() ast.DefinitionKind { return ast.KindFunction }

// Operator overloads a binary or unary operator; Name is the symbol.
type Operator struct{ FunctionBase }

func (o *Operator) Base() *FunctionBase       { return &o.FunctionBase }
func (o *Operator) Kind() ast.DefinitionKind { return ast.KindOperator }

// GeneralFunction is a destructor or an indexer.
type GeneralFunction struct{ FunctionBase }

func (g *GeneralFunction) Base() *FunctionBase       { return &g.FunctionBase }
func (g *GeneralFunction) Kind() ast.DefinitionKind { return ast.KindGeneral }

// Constructor builds an instance of its Return type.
type Constructor struct{ FunctionBase }

func (c *Constructor) Base() *FunctionBase       { return &c.FunctionBase }
func (c *Constructor) Kind() ast.DefinitionKind { return ast.KindConstructor }

// Struct is a struct declaration. Fields are filled in a second pass so
// structs may refer to each other.
type Struct struct {
	Name       string
	File       string
	Token      token.Token
	Exported   bool
	TypeParams []string
	Fields     []types.Field
	Definition *ast.StructDefinition
}

func (s *Struct) Identifier() string       { return s.Name }
func (s *Struct) DeclaringFile() string    { return s.File }
func (s *Struct) TypeParameters() []string { return s.TypeParams }
func (s *Struct) FieldList() []types.Field { return s.Fields }
func (s *Struct) CanUse(file string) bool  { return s.Exported || s.File == file }

// Type returns the struct applied to its own type parameters.
func (s *Struct) Type() *types.Struct {
	st := &types.Struct{Decl: s}
	for _, p := range s.TypeParams {
		st.TypeArguments = append(st.TypeArguments, types.Generic{Name: p})
	}
	return st
}

// Alias is a named type.
type Alias struct {
	Name     string
	File     string
	Token    token.Token
	Exported bool
	Type     *types.Alias
}

func (a *Alias) Identifier() string      { return a.Name }
func (a *Alias) DeclaringFile() string   { return a.File }
func (a *Alias) CanUse(file string) bool { return a.Exported || a.File == file }

// Variable is a local or global variable.
type Variable struct {
	Name     string
	File     string
	Token    token.Token
	Type     types.Type
	Global   bool
	Exported bool
	// Temp variables are released when their block ends.
	Temp bool
}

func (v *Variable) Identifier() string      { return v.Name }
func (v *Variable) DeclaringFile() string   { return v.File }
func (v *Variable) CanUse(file string) bool { return !v.Global || v.Exported || v.File == file }

// Constant is a named compile-time value.
type Constant struct {
	Name     string
	File     string
	Token    token.Token
	Type     types.Type
	Value    values.Value
	Exported bool
}

func (c *Constant) Identifier() string      { return c.Name }
func (c *Constant) DeclaringFile() string   { return c.File }
func (c *Constant) CanUse(file string) bool { return c.Exported || c.File == file }

// Label is an instruction label that goto can jump to.
type Label struct {
	Name     string
	File     string
	Token    token.Token
	Exported bool
}

func (l *Label) Identifier() string      { return l.Name }
func (l *Label) DeclaringFile() string   { return l.File }
func (l *Label) CanUse(file string) bool { return l.Exported || l.File == file }
