// Package ir is the typed tree lowering produces and code generators read.
// Nodes are immutable once built.
package ir

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

type Node interface {
	GetToken() token.Token
}

// Statement is any node that may appear in a block. Every Value is also a
// Statement; a value in statement position has Observed() == false.
type Statement interface {
	Node
	statementNode()
}

// Value produces a typed result.
type Value interface {
	Statement
	Type() types.Type
	// Observed reports whether the result is consumed.
	Observed() bool
	valueNode()
}

// ValueBase carries what every value node has in common.
type ValueBase struct {
	Token      token.Token
	ResultType types.Type
	IsObserved bool
}

// At builds a ValueBase.
func At(tok token.Token, t types.Type, observed bool) ValueBase {
	return ValueBase{Token: tok, ResultType: t, IsObserved: observed}
}

func (b *ValueBase) GetToken() token.Token { return b.Token }
func (b *ValueBase) Type() types.Type      { return b.ResultType }
func (b *ValueBase) Observed() bool        { return b.IsObserved }
func (b *ValueBase) valueNode()            {}

// Base exposes the shared fields for code that builds or copies nodes.
func (b *ValueBase) Base() *ValueBase { return b }
func (b *ValueBase) statementNode()        {}

// SetObserved changes the observed flag of a node that is still being
// built. Finished trees must not be mutated.
func SetObserved(v Value, observed bool) {
	if b, ok := v.(interface{ Base() *ValueBase }); ok {
		b.Base().IsObserved = observed
	}
}

// Cleanup records how a heap resource is released: the destructor runs
// first, then the deallocator. Either may be nil.
type Cleanup struct {
	Destructor  symbols.Callable
	Deallocator symbols.Callable
	Type        types.Type
}

// IsEmpty reports whether nothing has to run.
func (c *Cleanup) IsEmpty() bool {
	return c == nil || (c.Destructor == nil && c.Deallocator == nil)
}

// Argument is a lowered call argument with its passing convention.
type Argument struct {
	Value    Value
	Modifier string
	Cleanup  *Cleanup
}

// Function is a lowered callable body.
type Function struct {
	Decl symbols.Callable
	Body *Block
}

// Module is the result of lowering one compilation.
type Module struct {
	Functions  []*Function
	Statements []Statement
}

// Function returns the lowered body of decl.
func (m *Module) Function(decl symbols.Callable) (*Function, bool) {
	for _, f := range m.Functions {
		if f.Decl == decl {
			return f, true
		}
	}
	return nil, false
}

// ---- values ----

// Evaluated is a compile-time constant.
type Evaluated struct {
	ValueBase
	Value values.Value
}

type VariableGetter struct {
	ValueBase
	Variable *symbols.Variable
}

type ParameterGetter struct {
	ValueBase
	Parameter *symbols.Parameter
}

type GlobalGetter struct {
	ValueBase
	Variable *symbols.Variable
}

// FieldGetter reads a struct field. Object may be a struct value or a
// pointer to one.
type FieldGetter struct {
	ValueBase
	Object Value
	Field  string
	Index  int
}

// IndexGetter reads an element. Indexer is set when a user indexer_get
// general function implements it.
type IndexGetter struct {
	ValueBase
	Target  Value
	Index   Value
	Indexer symbols.Callable
}

type AddressOf struct {
	ValueBase
	Of Value
}

type Dereference struct {
	ValueBase
	Address Value
}

// BinaryOperatorCall is a builtin binary operator.
type BinaryOperatorCall struct {
	ValueBase
	Operator string
	Left     Value
	Right    Value
}

// UnaryOperatorCall is a builtin unary operator.
type UnaryOperatorCall struct {
	ValueBase
	Operator string
	Operand  Value
}

// FunctionCall calls a compiled function, operator overload or general function.
type FunctionCall struct {
	ValueBase
	Function  symbols.Callable
	Arguments []*Argument
}

// ConstructorCall runs Constructor on Object, which is the fresh allocation.
type ConstructorCall struct {
	ValueBase
	Object      Value
	Constructor symbols.Callable
	Arguments   []*Argument
}

// ExternalCall calls a host primitive.
type ExternalCall struct {
	ValueBase
	Function  symbols.Callable
	Name      string
	Arguments []*Argument
}

// RuntimeCall calls through a function value.
type RuntimeCall struct {
	ValueBase
	Callee    Value
	Arguments []*Argument
}

// Cast converts Value to the node's type.
type Cast struct {
	ValueBase
	Value Value
}

// StackAllocation reserves an uninitialized value of the node's type.
type StackAllocation struct {
	ValueBase
}

// StringInstance copies Text into the memory Allocator returned.
type StringInstance struct {
	ValueBase
	Text      string
	ASCII     bool
	Allocator Value
}

type FunctionAddress struct {
	ValueBase
	Function symbols.Callable
}

type LabelAddress struct {
	ValueBase
	Label *symbols.Label
}
