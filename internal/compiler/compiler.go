// Package compiler resolves, types and lowers parsed programs into the
// typed IR. One Compiler owns every table of a compilation; nothing is
// shared between instances.
package compiler

import (
	"io"
	"log"

	"github.com/google/uuid"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/evaluator"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/pipeline"
	"github.com/BBpezsgo/Interpreter-sub004/internal/settings"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// Compiler is one compilation session.
type Compiler struct {
	id       uuid.UUID
	settings *settings.Settings
	logger   *log.Logger

	tables *symbols.Tables
	scopes symbols.ScopeStack
	bag    *diagnostics.Bag
	module *ir.Module

	programs []*ast.Program
	// file is the source file of the code being compiled.
	file  string
	frame *frame
	eval  *evaluator.Context

	lowered  map[symbols.Callable]*ir.Function
	lowering map[symbols.Callable]bool
	// evalFunctions caches the evaluator view of callables.
	evalFunctions map[symbols.Callable]*evaluator.Function
}

// frame is the typing context of one function body (or of the top level).
// Template instantiations get their own frame, so one AST node may have a
// different type in each.
type frame struct {
	callable   symbols.Callable
	params     []*symbols.Parameter
	typeParams []string
	bindings   map[string]types.Type
	returnType types.Type
	types      map[ast.Expression]types.Type
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger progress messages go to. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a compilation session. A nil settings uses settings.Default.
func New(s *settings.Settings, opts ...Option) *Compiler {
	if s == nil {
		s = settings.Default()
	}
	c := &Compiler{
		id:            uuid.New(),
		settings:      s,
		logger:        log.New(io.Discard, "", 0),
		tables:        symbols.NewTables(),
		bag:           diagnostics.NewBag(),
		module:        &ir.Module{},
		lowered:       make(map[symbols.Callable]*ir.Function),
		lowering:      make(map[symbols.Callable]bool),
		evalFunctions: make(map[symbols.Callable]*evaluator.Function),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.enterFrame(nil, nil)
	return c
}

// ID identifies the session in log output.
func (c *Compiler) ID() uuid.UUID { return c.id }

func (c *Compiler) Tables() *symbols.Tables { return c.tables }

func (c *Compiler) Settings() *settings.Settings { return c.settings }

// Diagnostics returns everything reported so far, sorted by position.
func (c *Compiler) Diagnostics() []*diagnostics.DiagnosticError { return c.bag.Items() }

// Result is the outcome of a compilation.
type Result struct {
	Module      *ir.Module
	Tables      *symbols.Tables
	Diagnostics []*diagnostics.DiagnosticError
}

// Failed reports whether a blocking diagnostic was produced.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity.Blocking() {
			return true
		}
	}
	return false
}

// Stages returns the processors of a compilation in order.
func (c *Compiler) Stages() []pipeline.Processor {
	return []pipeline.Processor{
		&CollectProcessor{c: c},
		&LowerProcessor{c: c},
		&PruneProcessor{c: c},
	}
}

// Compile runs every stage over the programs. Semantic errors never abort
// the compilation; they are collected in the result.
func (c *Compiler) Compile(programs ...*ast.Program) *Result {
	ctx := pipeline.NewContext(programs...)
	ctx.Diagnostics = c.bag
	ctx = pipeline.New(c.Stages()...).Run(ctx)
	return &Result{
		Module:      ctx.Module,
		Tables:      ctx.Tables,
		Diagnostics: ctx.Diagnostics.Items(),
	}
}

// ---- diagnostics ----

func (c *Compiler) report(code diagnostics.ErrorCode, tok token.Token, args ...any) {
	err := diagnostics.NewError(code, tok, args...)
	if err.File == "" {
		err.File = c.file
	}
	c.bag.Add(err)
}

// fail escalates a possible diagnostic with its own severity.
func (c *Compiler) fail(p *diagnostics.Possible, tok token.Token) {
	if p == nil {
		return
	}
	err := p.At(tok).ToError()
	if err.File == "" {
		err.File = c.file
	}
	c.bag.Add(err)
}

// ---- frames ----

func (c *Compiler) enterFrame(callable symbols.Callable, returnType types.Type) *frame {
	f := &frame{
		callable:   callable,
		returnType: returnType,
		types:      make(map[ast.Expression]types.Type),
	}
	if callable != nil {
		base := callable.Base()
		f.params = base.Params
		f.typeParams = base.TypeParams
		f.bindings = base.TypeArguments
	}
	c.frame = f
	c.eval = evaluator.New(evalHost{c: c})
	return f
}

func (c *Compiler) exitFrame(saved *frame) {
	c.frame = saved
	c.eval = evaluator.New(evalHost{c: c})
}

// topLevelReturn is the type a return outside of any function yields.
func (c *Compiler) topLevelReturn() types.Type {
	return types.Builtin{Kind: c.settings.ExitCodeKind()}
}

func (c *Compiler) booleanType() types.Type {
	return types.Builtin{Kind: c.settings.BooleanKind()}
}

// invalid is the placeholder value of an expression that could not be
// typed. Its type is void so that later checks do not cascade.
func invalid(tok token.Token) ir.Value {
	return &ir.Evaluated{ValueBase: ir.At(tok, types.VoidType, true), Value: values.Value{}}
}

func isInvalid(v ir.Value) bool {
	e, ok := v.(*ir.Evaluated)
	return ok && types.IsVoid(e.Type())
}

func (c *Compiler) addReference(decl symbols.Declaration, tok token.Token) {
	c.tables.AddReference(decl, symbols.Reference{Token: tok, File: c.file, Caller: c.frame.callable})
}
