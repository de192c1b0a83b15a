// Package evaluator folds expressions and runs side-effect free function
// bodies at compile time. Evaluation never fails loudly: every entry point
// reports success with a bool and the caller falls back to runtime code.
package evaluator

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// maxFrames bounds recursion of evaluated calls.
const maxFrames = 64

// Function is what the evaluator needs to run a callable.
type Function struct {
	Name       string
	Params     []string
	ParamKinds []types.Kind
	ReturnKind types.Kind
	Body       *ast.Block
	// File is the declaring file. Names in Body resolve from there and
	// never from the caller.
	File string
	// External functions can only be hoisted as runtime statements.
	External bool
}

// Host answers the questions that need symbol resolution. callee is the
// function whose body is being evaluated, nil for code outside any
// evaluated call; a host must not resolve callee names against the
// caller's locals.
type Host interface {
	// Constant returns a named compile-time constant.
	Constant(name string, callee *Function) (values.Value, bool)
	// Function resolves a call for the given argument values.
	Function(call *ast.Call, args []values.Value, callee *Function) (*Function, bool)
	// Operator resolves a user operator overload for the operand values.
	Operator(op string, operands []values.Value, callee *Function) (*Function, bool)
	// Kind resolves a written type to a builtin kind.
	Kind(t ast.Type, callee *Function) (types.Kind, bool)
	// SizeOf evaluates sizeof(t).
	SizeOf(t ast.Type, callee *Function) (values.Value, bool)
	// LiteralKind is the kind the checker gave a literal, if it typed it.
	LiteralKind(e ast.Expression) (types.Kind, bool)
	// BooleanKind is the kind of comparison results.
	BooleanKind() types.Kind
}

type scope map[string]values.Value

// frame is one evaluated call: a stack of block scopes. fn is nil for
// statements evaluated in place.
type frame struct {
	fn     *Function
	scopes []scope
}

// Context holds the state of one evaluation session.
type Context struct {
	host    Host
	memo    map[ast.Expression]values.Value
	frames  []*frame
	runtime []ast.Statement
}

func New(host Host) *Context {
	return &Context{
		host: host,
		memo: make(map[ast.Expression]values.Value),
	}
}

// TryCompute folds e to a single value. It fails when e would need any
// runtime statement.
func (c *Context) TryCompute(e ast.Expression) (values.Value, bool) {
	mark := len(c.runtime)
	v, ok := c.expression(e)
	if !ok || len(c.runtime) != mark {
		c.runtime = c.runtime[:mark]
		return values.Value{}, false
	}
	return v, true
}

// TryEvaluate runs s and returns the runtime statements it hoisted, in order.
func (c *Context) TryEvaluate(s ast.Statement) ([]ast.Statement, bool) {
	mark := len(c.runtime)
	c.pushFrame()
	ctrl, ok := c.statement(s)
	c.popFrame()
	if !ok || ctrl != next {
		c.runtime = c.runtime[:mark]
		return nil, false
	}
	out := append([]ast.Statement(nil), c.runtime[mark:]...)
	c.runtime = c.runtime[:mark]
	return out, true
}

// TryCall runs fn with the given arguments. The returned statements are the
// external calls the body made, which the caller must still emit.
func (c *Context) TryCall(fn *Function, args []values.Value) (values.Value, []ast.Statement, bool) {
	mark := len(c.runtime)
	v, ok := c.call(fn, args)
	if !ok {
		c.runtime = c.runtime[:mark]
		return values.Value{}, nil, false
	}
	out := append([]ast.Statement(nil), c.runtime[mark:]...)
	c.runtime = c.runtime[:mark]
	return v, out, true
}

// ---- frames ----

func (c *Context) pushFrame() *frame {
	f := &frame{scopes: []scope{{}}}
	c.frames = append(c.frames, f)
	return f
}

func (c *Context) popFrame() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Context) current() *frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// callee is the function of the innermost frame.
func (c *Context) callee() *Function {
	if f := c.current(); f != nil {
		return f.fn
	}
	return nil
}

func (c *Context) pushScope() {
	f := c.current()
	f.scopes = append(f.scopes, scope{})
}

func (c *Context) popScope() {
	f := c.current()
	f.scopes = f.scopes[:len(f.scopes)-1]
}

func (c *Context) declare(name string, v values.Value) bool {
	f := c.current()
	if f == nil {
		return false
	}
	s := f.scopes[len(f.scopes)-1]
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = v
	return true
}

// lookup only sees the innermost frame; callers cannot read callee locals
// and callees cannot read the caller's.
func (c *Context) lookup(name string) (values.Value, bool) {
	f := c.current()
	if f == nil {
		return values.Value{}, false
	}
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if v, ok := f.scopes[i][name]; ok {
			return v, true
		}
	}
	return values.Value{}, false
}

func (c *Context) assign(name string, v values.Value) bool {
	f := c.current()
	if f == nil {
		return false
	}
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if old, ok := f.scopes[i][name]; ok {
			f.scopes[i][name] = v.Convert(old.Kind())
			return true
		}
	}
	return false
}

// call binds arguments into a fresh frame and reads the return slot.
func (c *Context) call(fn *Function, args []values.Value) (values.Value, bool) {
	if fn == nil || fn.External || fn.Body == nil || len(fn.Params) != len(args) {
		return values.Value{}, false
	}
	if len(c.frames) >= maxFrames {
		return values.Value{}, false
	}
	f := c.pushFrame()
	f.fn = fn
	defer c.popFrame()
	for i, name := range fn.Params {
		v := args[i]
		if i < len(fn.ParamKinds) {
			v = v.Convert(fn.ParamKinds[i])
		}
		f.scopes[0][name] = v
	}
	if fn.ReturnKind != types.Void {
		f.scopes[0][config.ReturnSlotName] = values.Int(fn.ReturnKind, 0)
	}
	ctrl, ok := c.block(fn.Body)
	if !ok || ctrl == broke {
		return values.Value{}, false
	}
	if fn.ReturnKind == types.Void {
		return values.Value{}, true
	}
	return f.scopes[0][config.ReturnSlotName], true
}
