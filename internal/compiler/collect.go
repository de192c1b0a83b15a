package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// collect creates every declaration of the programs. Struct and alias
// names are declared before anything is typed so that declarations may
// refer to each other regardless of order.
func (c *Compiler) collect(programs []*ast.Program) {
	c.programs = append(c.programs, programs...)

	for _, p := range programs {
		c.file = p.File
		for _, def := range p.Structs {
			c.declareStruct(def)
		}
		for _, def := range p.Aliases {
			c.declareAlias(def)
		}
	}

	for _, a := range c.tables.Aliases {
		c.file = a.File
		def := c.aliasDefinition(a)
		target, err := c.resolveType(def.Type, nil)
		if err != nil {
			c.fail(err, def.Type.GetToken())
			target = types.VoidType
		}
		a.Type.Target = target
	}
	for _, s := range c.tables.Structs {
		c.file = s.File
		for _, f := range s.Definition.Fields {
			ft, err := c.resolveType(f.Type, s.TypeParams)
			if err != nil {
				c.fail(err, f.Type.GetToken())
				ft = types.VoidType
			}
			s.Fields = append(s.Fields, types.Field{Name: f.Name, Type: ft})
		}
	}

	for _, p := range programs {
		c.file = p.File
		for _, def := range p.Functions {
			c.declareCallable(def, nil)
		}
		for _, sd := range p.Structs {
			s, ok := c.structOf(sd)
			if !ok {
				continue
			}
			for _, def := range sd.Methods {
				c.declareCallable(def, s)
			}
		}
	}

	for _, p := range programs {
		c.file = p.File
		for _, st := range p.Statements {
			c.declareGlobal(st)
		}
	}
	c.file = ""

	c.logger.Printf("[%s] collected %d functions, %d operators, %d constructors, %d structs",
		c.id, len(c.tables.Functions)+len(c.tables.FunctionTemplates),
		len(c.tables.Operators)+len(c.tables.OperatorTemplates),
		len(c.tables.Constructors)+len(c.tables.ConstructorTemplates),
		len(c.tables.Structs))
}

func (c *Compiler) declareStruct(def *ast.StructDefinition) {
	for _, s := range c.tables.Structs {
		if s.Name == def.Name && s.File == c.file {
			c.report(diagnostics.ErrS008, def.Token, "struct", def.Name)
			return
		}
	}
	c.tables.Structs = append(c.tables.Structs, &symbols.Struct{
		Name:       def.Name,
		File:       c.file,
		Token:      def.Token,
		Exported:   def.Modifiers.Has(config.ModifierExport),
		TypeParams: def.TypeParams,
		Definition: def,
	})
}

func (c *Compiler) declareAlias(def *ast.AliasDefinition) {
	for _, a := range c.tables.Aliases {
		if a.Name == def.Name && a.File == c.file {
			c.report(diagnostics.ErrS008, def.Token, "alias", def.Name)
			return
		}
	}
	c.tables.Aliases = append(c.tables.Aliases, &symbols.Alias{
		Name:     def.Name,
		File:     c.file,
		Token:    def.Token,
		Exported: def.Modifiers.Has(config.ModifierExport),
		Type:     &types.Alias{Name: def.Name},
	})
}

func (c *Compiler) aliasDefinition(a *symbols.Alias) *ast.AliasDefinition {
	for _, p := range c.programs {
		if p.File != a.File {
			continue
		}
		for _, def := range p.Aliases {
			if def.Name == a.Name && def.Token == a.Token {
				return def
			}
		}
	}
	panic(diagnostics.Internal("alias %q has no definition", a.Name))
}

func (c *Compiler) structOf(def *ast.StructDefinition) (*symbols.Struct, bool) {
	for _, s := range c.tables.Structs {
		if s.Definition == def {
			return s, true
		}
	}
	return nil, false
}

// declareCallable creates the declaration of a function, operator, general
// function or constructor. Members of a struct other than operators get an
// implicit `this` pointer as their first parameter and inherit the type
// parameters of the struct.
func (c *Compiler) declareCallable(def *ast.FunctionDefinition, owner *symbols.Struct) {
	if def.Kind == ast.KindConstructor && owner == nil {
		if owner = c.constructorOwner(def); owner == nil {
			return
		}
	}
	base := symbols.FunctionBase{
		Name:       def.Name,
		File:       c.file,
		Token:      def.Token,
		Exported:   def.Modifiers.Has(config.ModifierExport),
		Inline:     def.Modifiers.Has(config.ModifierInline),
		Definition: def,
		Context:    owner,
	}
	if owner != nil {
		base.TypeParams = append(base.TypeParams, owner.TypeParams...)
		base.Exported = base.Exported || owner.Exported
	}
	base.TypeParams = append(base.TypeParams, def.TypeParams...)
	if def.Kind == ast.KindConstructor {
		base.Name = owner.Name
	}

	if owner != nil && def.Kind != ast.KindOperator && !hasThis(def) {
		base.Params = append(base.Params, &symbols.Parameter{
			Token:     def.Token,
			Name:      config.ThisName,
			Type:      types.Pointer{To: owner.Type()},
			Modifiers: ast.Modifiers{config.ModifierThis},
		})
	}
	for _, p := range def.Params {
		pt, err := c.resolveType(p.Type, base.TypeParams)
		if err != nil {
			c.fail(err, p.Token)
			pt = types.VoidType
		}
		base.Params = append(base.Params, &symbols.Parameter{
			Token:     p.Token,
			Name:      p.Name,
			Type:      pt,
			Modifiers: p.Modifiers,
		})
	}
	for i, p := range base.Params {
		p.Index = i
	}

	if def.Kind == ast.KindConstructor {
		base.Return = types.Pointer{To: owner.Type()}
	} else {
		rt, err := c.resolveType(def.Return, base.TypeParams)
		if err != nil {
			c.fail(err, def.Return.GetToken())
			rt = types.VoidType
		}
		base.Return = rt
	}

	if a, ok := def.Attribute(config.ExternalAttribute); ok {
		base.External = def.Name
		if len(a.Arguments) > 0 {
			base.External = a.Arguments[0]
		}
		if _, ok := c.settings.External(base.External); !ok {
			c.report(diagnostics.ErrL011, a.Token, base.External)
		}
	}
	if a, ok := def.Attribute(config.BuiltinAttribute); ok && len(a.Arguments) > 0 {
		base.Builtin = a.Arguments[0]
	}
	if def.Body == nil && base.External == "" {
		c.report(diagnostics.ErrL011, def.Token, def.Name)
	}

	var decl symbols.Callable
	switch def.Kind {
	case ast.KindFunction:
		decl = &symbols.Function{FunctionBase: base}
	case ast.KindOperator:
		decl = &symbols.Operator{FunctionBase: base}
	case ast.KindGeneral:
		decl = &symbols.GeneralFunction{FunctionBase: base}
	case ast.KindConstructor:
		decl = &symbols.Constructor{FunctionBase: base}
	default:
		panic(diagnostics.Unexpected("compiler.declareCallable", def.Kind))
	}
	c.tables.Add(decl)
}

func hasThis(def *ast.FunctionDefinition) bool {
	return len(def.Params) > 0 && def.Params[0].Modifiers.Has(config.ModifierThis)
}

// constructorOwner finds the struct a top-level constructor builds.
func (c *Compiler) constructorOwner(def *ast.FunctionDefinition) *symbols.Struct {
	name, ok := def.Return.(*ast.TypeName)
	if !ok {
		c.report(diagnostics.ErrS006, def.Token, def.Name)
		return nil
	}
	s, err := c.ResolveStruct(name.Name, name.Token)
	if s == nil {
		c.fail(err, name.Token)
		return nil
	}
	return s
}

// declareGlobal records top-level constants, variables and labels. The
// type of a `var` global is inferred when its declaration is lowered.
func (c *Compiler) declareGlobal(st ast.Statement) {
	switch n := st.(type) {
	case *ast.VariableDeclaration:
		if n.Modifiers.Has(config.ModifierConst) {
			if k, ok := c.constant(n, nil); ok {
				c.addGlobalConstant(n, k)
			}
			return
		}
		for _, v := range c.tables.Global.Variables {
			if v.Name == n.Name && v.File == c.file {
				c.report(diagnostics.ErrS008, n.Token, "variable", n.Name)
				return
			}
		}
		v := &symbols.Variable{
			Name:     n.Name,
			File:     c.file,
			Token:    n.Token,
			Global:   true,
			Exported: n.Modifiers.Has(config.ModifierExport),
			Temp:     n.Modifiers.Has(config.ModifierTemp),
		}
		if n.Type != nil {
			v.Type = c.typeFromAST(n.Type)
		}
		c.tables.Global.Variables = append(c.tables.Global.Variables, v)
	case *ast.InstructionLabel:
		for _, l := range c.tables.Global.Labels {
			if l.Name == n.Name && l.File == c.file {
				c.report(diagnostics.ErrS008, n.Token, "label", n.Name)
				return
			}
		}
		c.tables.Global.Labels = append(c.tables.Global.Labels, &symbols.Label{
			Name:     n.Name,
			File:     c.file,
			Token:    n.Token,
			Exported: true,
		})
	}
}

func (c *Compiler) addGlobalConstant(n *ast.VariableDeclaration, k *symbols.Constant) {
	for _, g := range c.tables.Global.Constants {
		if g.Name == n.Name && g.File == c.file {
			c.report(diagnostics.ErrS008, n.Token, "constant", n.Name)
			return
		}
	}
	k.Exported = n.Modifiers.Has(config.ModifierExport)
	c.tables.Global.Constants = append(c.tables.Global.Constants, k)
}

// constant folds a const declaration. scope receives the constant as soon
// as it is known, so later constants of the same block can use it.
func (c *Compiler) constant(n *ast.VariableDeclaration, scope *symbols.Scope) (*symbols.Constant, bool) {
	v, ok := c.eval.TryCompute(n.Value)
	if !ok {
		c.report(diagnostics.ErrT010, n.Token, "constant \""+n.Name+"\"")
		return nil, false
	}
	if n.Type == nil {
		if k, ok := untypedKind(n.Value, v); ok {
			v = v.Convert(k)
		}
	}
	t := v.Type()
	if n.Type != nil {
		t = c.typeFromAST(n.Type)
		k, ok := types.Numeric(t)
		if !ok {
			c.report(diagnostics.ErrT001, n.Token, v.Type(), t)
			return nil, false
		}
		if v.Fits(k) {
			v = v.Convert(k)
		} else {
			c.report(diagnostics.ErrT002, n.Token, v, k, v.Kind())
			t = v.Type()
		}
	}
	k := &symbols.Constant{Name: n.Name, File: c.file, Token: n.Token, Type: t, Value: v}
	if scope != nil {
		scope.Constants = append(scope.Constants, k)
	}
	return k, true
}
