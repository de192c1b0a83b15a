package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
)

// prune drops the lowered functions nothing reachable calls. Top-level
// statements and exported functions are the roots.
func (c *Compiler) prune(m *ir.Module) *ir.Module {
	live := make(map[symbols.Callable]bool)
	var queue []symbols.Callable
	mark := func(decl symbols.Callable) {
		if decl == nil || live[decl] {
			return
		}
		live[decl] = true
		queue = append(queue, decl)
	}
	markCleanup := func(cleanup *ir.Cleanup) {
		if cleanup != nil {
			mark(cleanup.Destructor)
			mark(cleanup.Deallocator)
		}
	}
	markArguments := func(args []*ir.Argument) {
		for _, a := range args {
			markCleanup(a.Cleanup)
		}
	}
	visit := func(n ir.Node) {
		ir.Inspect(n, func(node ir.Node) bool {
			switch v := node.(type) {
			case *ir.FunctionCall:
				mark(v.Function)
				markArguments(v.Arguments)
			case *ir.ExternalCall:
				mark(v.Function)
				markArguments(v.Arguments)
			case *ir.ConstructorCall:
				mark(v.Constructor)
				markArguments(v.Arguments)
			case *ir.RuntimeCall:
				markArguments(v.Arguments)
			case *ir.IndexGetter:
				mark(v.Indexer)
			case *ir.IndexSetter:
				mark(v.Indexer)
			case *ir.FunctionAddress:
				mark(v.Function)
			case *ir.VariableDeclaration:
				markCleanup(v.Cleanup)
			case *ir.Delete:
				markCleanup(v.Cleanup)
			}
			return true
		})
	}

	for _, s := range m.Statements {
		visit(s)
	}
	for _, f := range m.Functions {
		if f.Decl.Base().Exported {
			mark(f.Decl)
		}
	}
	for len(queue) > 0 {
		decl := queue[0]
		queue = queue[1:]
		if f, ok := m.Function(decl); ok {
			visit(f.Body)
		}
	}

	out := &ir.Module{Statements: m.Statements}
	for _, f := range m.Functions {
		if live[f.Decl] {
			out.Functions = append(out.Functions, f)
		}
	}
	c.logger.Printf("[%s] pruned %d of %d functions", c.id, len(m.Functions)-len(out.Functions), len(m.Functions))
	return out
}
