package symbols

// Scope holds the locals of one block. Constants and labels are known on
// entry; variables are appended as their declarations are lowered.
type Scope struct {
	Variables []*Variable
	Constants []*Constant
	Labels    []*Label
	// Loop marks the body scope of a while or for loop.
	Loop bool
}

func (s *Scope) variable(name string) (*Variable, bool) {
	// later declarations shadow earlier ones
	for i := len(s.Variables) - 1; i >= 0; i-- {
		if s.Variables[i].Name == name {
			return s.Variables[i], true
		}
	}
	return nil, false
}

func (s *Scope) constant(name string) (*Constant, bool) {
	for _, c := range s.Constants {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *Scope) label(name string) (*Label, bool) {
	for _, l := range s.Labels {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// ScopeStack is the lexical block nesting of the function being lowered.
type ScopeStack struct {
	scopes []*Scope
}

// Push enters a block.
func (st *ScopeStack) Push(constants []*Constant, labels []*Label) *Scope {
	s := &Scope{Constants: constants, Labels: labels}
	st.scopes = append(st.scopes, s)
	return s
}

// Pop leaves the innermost block and returns it.
func (st *ScopeStack) Pop() *Scope {
	if len(st.scopes) == 0 {
		return nil
	}
	s := st.scopes[len(st.scopes)-1]
	st.scopes = st.scopes[:len(st.scopes)-1]
	return s
}

func (st *ScopeStack) Depth() int { return len(st.scopes) }

// Current returns the innermost scope, nil when empty.
func (st *ScopeStack) Current() *Scope {
	if len(st.scopes) == 0 {
		return nil
	}
	return st.scopes[len(st.scopes)-1]
}

// AddVariable declares v in the innermost scope. It fails when the scope
// already declares the name.
func (st *ScopeStack) AddVariable(v *Variable) bool {
	s := st.Current()
	if s == nil {
		return false
	}
	if _, ok := s.variable(v.Name); ok {
		return false
	}
	s.Variables = append(s.Variables, v)
	return true
}

// Variable looks a local variable up from the innermost scope outwards.
func (st *ScopeStack) Variable(name string) (*Variable, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if v, ok := st.scopes[i].variable(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (st *ScopeStack) Constant(name string) (*Constant, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if c, ok := st.scopes[i].constant(name); ok {
			return c, true
		}
	}
	return nil, false
}

func (st *ScopeStack) Label(name string) (*Label, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if l, ok := st.scopes[i].label(name); ok {
			return l, true
		}
	}
	return nil, false
}

// InLoop reports whether any enclosing scope is a loop body.
func (st *ScopeStack) InLoop() bool {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if st.scopes[i].Loop {
			return true
		}
	}
	return false
}

// Save detaches the current stack so a nested function can be lowered
// with an empty one. Restore puts it back.
func (st *ScopeStack) Save() []*Scope {
	saved := st.scopes
	st.scopes = nil
	return saved
}

func (st *ScopeStack) Restore(saved []*Scope) {
	st.scopes = saved
}
