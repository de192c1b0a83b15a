package ir

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// StatementBase carries the position of a statement node.
type StatementBase struct {
	Token token.Token
}

func (s *StatementBase) GetToken() token.Token { return s.Token }
func (s *StatementBase) statementNode()        {}

// Pos builds a StatementBase.
func Pos(tok token.Token) StatementBase { return StatementBase{Token: tok} }

// VariableDeclaration introduces a local. Cleanup is set for temp
// variables, which are released when their block ends.
type VariableDeclaration struct {
	StatementBase
	Variable *symbols.Variable
	Initial  Value
	Cleanup  *Cleanup
}

type VariableSetter struct {
	StatementBase
	Variable *symbols.Variable
	Value    Value
}

type ParameterSetter struct {
	StatementBase
	Parameter *symbols.Parameter
	Value     Value
}

type GlobalSetter struct {
	StatementBase
	Variable *symbols.Variable
	Value    Value
}

type FieldSetter struct {
	StatementBase
	Object Value
	Field  string
	Index  int
	Value  Value
}

type IndexSetter struct {
	StatementBase
	Target  Value
	Index   Value
	Value   Value
	Indexer symbols.Callable
}

type DereferenceSetter struct {
	StatementBase
	Address Value
	Value   Value
}

type Return struct {
	StatementBase
	Value Value
}

type Crash struct {
	StatementBase
	Value Value
}

type Break struct {
	StatementBase
}

type Goto struct {
	StatementBase
	Label Value
}

// Delete releases Value through Cleanup.
type Delete struct {
	StatementBase
	Value   Value
	Cleanup *Cleanup
}

type While struct {
	StatementBase
	Condition Value
	Body      *Block
}

type For struct {
	StatementBase
	Init      Statement
	Condition Value
	Step      Statement
	Body      *Block
}

type If struct {
	StatementBase
	Condition Value
	Then      Statement
	Else      Statement
}

type Block struct {
	StatementBase
	Statements []Statement
}

type LabelDeclaration struct {
	StatementBase
	Label *symbols.Label
}

type Empty struct {
	StatementBase
}
