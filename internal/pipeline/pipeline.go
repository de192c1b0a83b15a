package pipeline

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
)

// PipelineContext carries the state passed between stages.
type PipelineContext struct {
	Programs    []*ast.Program
	Tables      *symbols.Tables
	Module      *ir.Module
	Diagnostics *diagnostics.Bag
}

// NewContext creates the initial context for the programs.
func NewContext(programs ...*ast.Program) *PipelineContext {
	return &PipelineContext{
		Programs:    programs,
		Diagnostics: diagnostics.NewBag(),
	}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs the compilation stages in order over one context.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run passes ctx through every stage. A stage that reports diagnostics does
// not stop the next one: lowering still runs after declaration errors so a
// single compilation reports both.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
