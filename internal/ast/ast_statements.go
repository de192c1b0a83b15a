package ast

import "github.com/BBpezsgo/Interpreter-sub004/internal/token"

// VariableDeclaration is `T name = value;`. Type is nil for `var name = value;`.
// A `const` modifier declares a local constant instead of a variable.
type VariableDeclaration struct {
	Token     token.Token
	Name      string
	Type      Type
	Modifiers Modifiers
	Value     Expression
}

func (vd *VariableDeclaration) statementNode() {}
func (vd *VariableDeclaration) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

// Assignment is `Target = Value;`.
type Assignment struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (a *Assignment) statementNode() {}
func (a *Assignment) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// CompoundAssignment is `Target op= Value;` where Operator is the binary operator.
type CompoundAssignment struct {
	Token    token.Token
	Operator string
	Target   Expression
	Value    Expression
}

func (ca *CompoundAssignment) statementNode() {}
func (ca *CompoundAssignment) GetToken() token.Token {
	if ca == nil {
		return token.Token{}
	}
	return ca.Token
}

// Increment is `Target++;` or `Target--;`.
type Increment struct {
	Token     token.Token
	Target    Expression
	Decrement bool
}

func (inc *Increment) statementNode() {}
func (inc *Increment) GetToken() token.Token {
	if inc == nil {
		return token.Token{}
	}
	return inc.Token
}

type Return struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (r *Return) statementNode() {}
func (r *Return) GetToken() token.Token {
	if r == nil {
		return token.Token{}
	}
	return r.Token
}

// Crash aborts the program with a message value.
type Crash struct {
	Token token.Token
	Value Expression
}

func (c *Crash) statementNode() {}
func (c *Crash) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

type Break struct {
	Token token.Token
}

func (b *Break) statementNode() {}
func (b *Break) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// Delete releases a heap value through its destructor and deallocator.
type Delete struct {
	Token token.Token
	Value Expression
}

func (d *Delete) statementNode() {}
func (d *Delete) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// Goto jumps to an instruction label value.
type Goto struct {
	Token token.Token
	Label Expression
}

func (g *Goto) statementNode() {}
func (g *Goto) GetToken() token.Token {
	if g == nil {
		return token.Token{}
	}
	return g.Token
}

// If is `if (Condition) Then else Else`; Else may be another *If.
type If struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (i *If) statementNode() {}
func (i *If) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

type While struct {
	Token     token.Token
	Condition Expression
	Body      *Block
}

func (w *While) statementNode() {}
func (w *While) GetToken() token.Token {
	if w == nil {
		return token.Token{}
	}
	return w.Token
}

// For is `for (Init; Condition; Step) Body`.
type For struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Step      Statement
	Body      *Block
}

func (f *For) statementNode() {}
func (f *For) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

type Block struct {
	Token      token.Token
	Statements []Statement
}

func (b *Block) statementNode() {}
func (b *Block) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// InstructionLabel declares a `name:` jump target.
type InstructionLabel struct {
	Token token.Token
	Name  string
}

func (il *InstructionLabel) statementNode() {}
func (il *InstructionLabel) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// ExpressionStatement evaluates an expression for its effects.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
