package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/pipeline"
)

// CollectProcessor declares every struct, alias, callable and global of
// the programs.
type CollectProcessor struct {
	c *Compiler
}

func (p *CollectProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Diagnostics != nil {
		p.c.bag = ctx.Diagnostics
	} else {
		ctx.Diagnostics = p.c.bag
	}
	p.c.collect(ctx.Programs)
	ctx.Tables = p.c.tables
	return ctx
}

// LowerProcessor lowers the top-level statements, then every callable
// that is exported or referenced, until no new callable gets referenced.
type LowerProcessor struct {
	c *Compiler
}

func (p *LowerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	c := p.c
	for _, prog := range ctx.Programs {
		c.file = prog.File
		for _, st := range prog.Statements {
			if s := c.lowerStatement(st); s != nil {
				c.module.Statements = append(c.module.Statements, s)
			}
		}
	}
	c.file = ""

	for {
		progress := false
		for _, decl := range c.tables.Callables() {
			if _, done := c.lowered[decl]; done {
				continue
			}
			base := decl.Base()
			if base.IsExternal() || base.Body() == nil {
				continue
			}
			if !base.Exported && !c.tables.IsReferenced(decl) {
				continue
			}
			if c.lowerFunction(decl) != nil {
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	c.logger.Printf("[%s] lowered %d statements and %d functions", c.id, len(c.module.Statements), len(c.module.Functions))
	ctx.Module = c.module
	return ctx
}

// PruneProcessor removes the functions that are not reachable.
type PruneProcessor struct {
	c *Compiler
}

func (p *PruneProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	ctx.Module = p.c.prune(ctx.Module)
	p.c.module = ctx.Module
	return ctx
}
