package types

import (
	"fmt"
	"strings"
)

// ContainsGeneric reports whether t mentions any unbound type parameter.
func ContainsGeneric(t Type) bool {
	switch x := t.(type) {
	case Generic:
		return true
	case Pointer:
		return ContainsGeneric(x.To)
	case Array:
		return ContainsGeneric(x.Of)
	case *Struct:
		for _, a := range x.TypeArguments {
			if ContainsGeneric(a) {
				return true
			}
		}
	case *Function:
		if ContainsGeneric(x.Return) {
			return true
		}
		for _, p := range x.Params {
			if ContainsGeneric(p) {
				return true
			}
		}
	case *Alias:
		return ContainsGeneric(x.Target)
	}
	return false
}

// Substitute replaces bound type parameters in t. Unbound ones stay generic.
func Substitute(t Type, bindings map[string]Type) Type {
	if len(bindings) == 0 || t == nil {
		return t
	}
	switch x := t.(type) {
	case Generic:
		if r, ok := bindings[x.Name]; ok {
			return r
		}
		return x
	case Pointer:
		return Pointer{To: Substitute(x.To, bindings)}
	case Array:
		return Array{Of: Substitute(x.Of, bindings), Length: x.Length, ComputedLength: x.ComputedLength}
	case *Struct:
		if len(x.TypeArguments) == 0 {
			return x
		}
		args := make([]Type, len(x.TypeArguments))
		for i, a := range x.TypeArguments {
			args[i] = Substitute(a, bindings)
		}
		return &Struct{Decl: x.Decl, TypeArguments: args}
	case *Function:
		params := make([]Type, len(x.Params))
		for i, p := range x.Params {
			params[i] = Substitute(p, bindings)
		}
		return &Function{Return: Substitute(x.Return, bindings), Params: params}
	case *Alias:
		if !ContainsGeneric(x.Target) {
			return x
		}
		return &Alias{Name: x.Name, Target: Substitute(x.Target, bindings)}
	default:
		return t
	}
}

// Unify matches pattern against actual, binding type parameters of pattern.
// An already bound parameter must match its binding.
func Unify(pattern, actual Type, bindings map[string]Type) bool {
	if g, ok := pattern.(Generic); ok {
		if bound, ok := bindings[g.Name]; ok {
			return Same(bound, actual)
		}
		bindings[g.Name] = actual
		return true
	}
	pattern, actual = Underlying(pattern), Underlying(actual)
	switch p := pattern.(type) {
	case Pointer:
		a, ok := actual.(Pointer)
		return ok && Unify(p.To, a.To, bindings)
	case Array:
		a, ok := actual.(Array)
		if !ok || !Unify(p.Of, a.Of, bindings) {
			return false
		}
		return p.ComputedLength == nil || sameLength(p.ComputedLength, a.ComputedLength)
	case *Struct:
		a, ok := actual.(*Struct)
		if !ok || a.Decl != p.Decl || len(a.TypeArguments) != len(p.TypeArguments) {
			return false
		}
		for i := range p.TypeArguments {
			if !Unify(p.TypeArguments[i], a.TypeArguments[i], bindings) {
				return false
			}
		}
		return true
	case *Function:
		a, ok := actual.(*Function)
		if !ok || len(a.Params) != len(p.Params) || !Unify(p.Return, a.Return, bindings) {
			return false
		}
		for i := range p.Params {
			if !Unify(p.Params[i], a.Params[i], bindings) {
				return false
			}
		}
		return true
	default:
		return Same(pattern, actual)
	}
}

// Key renders a canonical structural key for a type tuple. Struct
// declarations are keyed by identity so equally named structs from
// different files never collide.
func Key(ts ...Type) string {
	var sb strings.Builder
	for i, t := range ts {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeKey(&sb, t)
	}
	return sb.String()
}

func writeKey(sb *strings.Builder, t Type) {
	switch x := Underlying(t).(type) {
	case nil:
		sb.WriteString("nil")
	case Builtin:
		sb.WriteString(x.Kind.String())
	case Pointer:
		writeKey(sb, x.To)
		sb.WriteByte('*')
	case Array:
		writeKey(sb, x.Of)
		if x.ComputedLength != nil {
			fmt.Fprintf(sb, "[%d]", *x.ComputedLength)
		} else {
			sb.WriteString("[]")
		}
	case *Struct:
		fmt.Fprintf(sb, "%s@%p<", x.Decl.Identifier(), x.Decl)
		sb.WriteString(Key(x.TypeArguments...))
		sb.WriteByte('>')
	case Generic:
		sb.WriteString("$" + x.Name)
	case *Function:
		writeKey(sb, x.Return)
		sb.WriteByte('(')
		sb.WriteString(Key(x.Params...))
		sb.WriteByte(')')
	}
}
