package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// cleanupFor resolves how a value of type t is released. Pointers get the
// deallocator and, when the pointee has one, its destructor. Other values
// only get a destructor. A nil cleanup means nothing has to run.
func (c *Compiler) cleanupFor(t types.Type, tok token.Token) (*ir.Cleanup, *diagnostics.Possible) {
	cleanup := &ir.Cleanup{Type: t}

	receiver := t
	ptr, isPointer := types.AsPointer(t)
	if !isPointer {
		receiver = types.Pointer{To: t}
	}
	if _, ok := types.AsStruct(receiverTarget(receiver)); ok {
		q := c.query(config.DestructorName, tok, nil, []types.Type{receiver})
		if m, err := c.ResolveGeneralFunction(q); m.Goodness >= Good && !blocking(err) {
			cleanup.Destructor = m.Decl
			c.addReference(m.Decl, tok)
		}
	}

	if isPointer {
		free, ok := c.builtinFunction(config.BuiltinFree)
		if !ok {
			return cleanup, diagnostics.Fail(diagnostics.ErrL002, tok, ptr)
		}
		cleanup.Deallocator = free
		c.addReference(free, tok)
	}

	if cleanup.IsEmpty() {
		return nil, nil
	}
	return cleanup, nil
}

func receiverTarget(t types.Type) types.Type {
	p, _ := types.AsPointer(t)
	return p.To
}

// release builds the statement that frees v at the end of its lifetime.
func release(v ir.Value, cleanup *ir.Cleanup) *ir.Delete {
	return &ir.Delete{StatementBase: ir.Pos(v.GetToken()), Value: v, Cleanup: cleanup}
}
