package types

// Underlying strips any number of aliases.
func Underlying(t Type) Type {
	for {
		a, ok := t.(*Alias)
		if !ok {
			return t
		}
		t = a.Target
	}
}

// Same reports structural equality. Aliases are transparent, arrays compare
// their element type and computed length, structs compare declaration
// identity and type arguments.
func Same(a, b Type) bool {
	a, b = Underlying(a), Underlying(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Builtin:
		y, ok := b.(Builtin)
		return ok && x.Kind == y.Kind
	case Pointer:
		y, ok := b.(Pointer)
		return ok && Same(x.To, y.To)
	case Array:
		y, ok := b.(Array)
		return ok && Same(x.Of, y.Of) && sameLength(x.ComputedLength, y.ComputedLength)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Decl == y.Decl && sameAll(x.TypeArguments, y.TypeArguments, Same)
	case Generic:
		y, ok := b.(Generic)
		return ok && x.Name == y.Name
	case *Function:
		y, ok := b.(*Function)
		return ok && Same(x.Return, y.Return) && sameAll(x.Params, y.Params, Same)
	default:
		return false
	}
}

// Identical is Same with alias names required to match at every level.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	aa, aAlias := a.(*Alias)
	ba, bAlias := b.(*Alias)
	if aAlias || bAlias {
		return aAlias && bAlias && aa.Name == ba.Name && Identical(aa.Target, ba.Target)
	}
	switch x := a.(type) {
	case Pointer:
		y, ok := b.(Pointer)
		return ok && Identical(x.To, y.To)
	case Array:
		y, ok := b.(Array)
		return ok && Identical(x.Of, y.Of) && sameLength(x.ComputedLength, y.ComputedLength)
	case *Struct:
		y, ok := b.(*Struct)
		return ok && x.Decl == y.Decl && sameAll(x.TypeArguments, y.TypeArguments, Identical)
	case *Function:
		y, ok := b.(*Function)
		return ok && Identical(x.Return, y.Return) && sameAll(x.Params, y.Params, Identical)
	default:
		return Same(a, b)
	}
}

func sameLength(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameAll(a, b []Type, eq func(Type, Type) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsVoid reports whether t is the void builtin.
func IsVoid(t Type) bool {
	b, ok := Underlying(t).(Builtin)
	return ok && b.Kind == Void
}

// IsAny reports whether t is the universal any builtin.
func IsAny(t Type) bool {
	b, ok := Underlying(t).(Builtin)
	return ok && b.Kind == Any
}

// AsPointer returns the pointer type behind t, if any.
func AsPointer(t Type) (Pointer, bool) {
	p, ok := Underlying(t).(Pointer)
	return p, ok
}

// AsStruct returns the struct type behind t, if any.
func AsStruct(t Type) (*Struct, bool) {
	s, ok := Underlying(t).(*Struct)
	return s, ok
}

// AsArray returns the array type behind t, if any.
func AsArray(t Type) (Array, bool) {
	a, ok := Underlying(t).(Array)
	return a, ok
}
