package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
)

// String renders n as compact pseudo source, one statement per line.
func String(n Node) string {
	var p printer
	p.node(n)
	return strings.TrimRight(p.sb.String(), "\n")
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) args(args []*Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.value(a.Value)
		if a.Modifier != "" {
			parts[i] = a.Modifier + " " + parts[i]
		}
	}
	return strings.Join(parts, ", ")
}

func (p *printer) value(v Value) string {
	switch n := v.(type) {
	case nil:
		return "<nil>"
	case *Evaluated:
		return n.Value.String()
	case *VariableGetter:
		return n.Variable.Name
	case *ParameterGetter:
		return n.Parameter.Name
	case *GlobalGetter:
		return n.Variable.Name
	case *FieldGetter:
		return p.value(n.Object) + "." + n.Field
	case *IndexGetter:
		return p.value(n.Target) + "[" + p.value(n.Index) + "]"
	case *AddressOf:
		return "&" + p.value(n.Of)
	case *Dereference:
		return "*" + p.value(n.Address)
	case *BinaryOperatorCall:
		return "(" + p.value(n.Left) + " " + n.Operator + " " + p.value(n.Right) + ")"
	case *UnaryOperatorCall:
		return n.Operator + p.value(n.Operand)
	case *FunctionCall:
		return n.Function.Identifier() + "(" + p.args(n.Arguments) + ")"
	case *ConstructorCall:
		return "new " + n.ResultType.String() + "(" + p.args(n.Arguments) + ")"
	case *ExternalCall:
		return "extern " + n.Name + "(" + p.args(n.Arguments) + ")"
	case *RuntimeCall:
		return p.value(n.Callee) + "(" + p.args(n.Arguments) + ")"
	case *Cast:
		return p.value(n.Value) + " as " + n.ResultType.String()
	case *StackAllocation:
		return "stackalloc " + n.ResultType.String()
	case *StringInstance:
		return strconv.Quote(n.Text)
	case *FunctionAddress:
		return "&" + n.Function.Identifier()
	case *LabelAddress:
		return n.Label.Name
	default:
		panic(diagnostics.Unexpected("ir.String", v))
	}
}

func (p *printer) node(n Node) {
	switch s := n.(type) {
	case nil:
	case *VariableDeclaration:
		prefix := ""
		if s.Variable.Temp {
			prefix = "temp "
		}
		if s.Initial == nil {
			p.line("%s%s %s;", prefix, s.Variable.Type, s.Variable.Name)
		} else {
			p.line("%s%s %s = %s;", prefix, s.Variable.Type, s.Variable.Name, p.value(s.Initial))
		}
	case *VariableSetter:
		p.line("%s = %s;", s.Variable.Name, p.value(s.Value))
	case *ParameterSetter:
		p.line("%s = %s;", s.Parameter.Name, p.value(s.Value))
	case *GlobalSetter:
		p.line("%s = %s;", s.Variable.Name, p.value(s.Value))
	case *FieldSetter:
		p.line("%s.%s = %s;", p.value(s.Object), s.Field, p.value(s.Value))
	case *IndexSetter:
		p.line("%s[%s] = %s;", p.value(s.Target), p.value(s.Index), p.value(s.Value))
	case *DereferenceSetter:
		p.line("*%s = %s;", p.value(s.Address), p.value(s.Value))
	case *Return:
		if s.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", p.value(s.Value))
		}
	case *Crash:
		p.line("crash %s;", p.value(s.Value))
	case *Break:
		p.line("break;")
	case *Goto:
		p.line("goto %s;", p.value(s.Label))
	case *Delete:
		p.line("delete %s;", p.value(s.Value))
	case *While:
		p.line("while (%s)", p.value(s.Condition))
		p.node(s.Body)
	case *For:
		p.line("for (%s)", p.value(s.Condition))
		p.indent++
		p.node(s.Init)
		p.node(s.Step)
		p.indent--
		p.node(s.Body)
	case *If:
		p.line("if (%s)", p.value(s.Condition))
		p.node(s.Then)
		if s.Else != nil {
			p.line("else")
			p.node(s.Else)
		}
	case *Block:
		if s == nil {
			return
		}
		p.line("{")
		p.indent++
		for _, st := range s.Statements {
			p.node(st)
		}
		p.indent--
		p.line("}")
	case *LabelDeclaration:
		p.line("%s:", s.Label.Name)
	case *Empty:
		p.line(";")
	case Value:
		p.line("%s;", p.value(s))
	default:
		panic(diagnostics.Unexpected("ir.String", n))
	}
}
