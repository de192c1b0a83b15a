package compiler

// Goodness ranks how well a declaration matches a query. Tiers are
// reached in order; a candidate that fails a tier keeps the previous one.
type Goodness int

const (
	NoMatch Goodness = iota
	// IdentifierMatch: the name matches.
	IdentifierMatch
	// ParameterCountMatch: the arity matches.
	ParameterCountMatch
	// ParameterTypesMatch: every argument converts to its parameter.
	ParameterTypesMatch
	// Good is the least a result may be returned at.
	Good
	// PerfectParameterTypes: argument types equal the parameter types,
	// allowing a sized array pointer for an unsized one.
	PerfectParameterTypes
	PerfectReturnType
	// VeryPerfectParameterTypes: argument types are identical, alias names included.
	VeryPerfectParameterTypes
	VeryPerfectReturnType
	// FileMatch: a very perfect match declared in the file of the use.
	FileMatch
)

var goodnessNames = [...]string{
	NoMatch:                   "none",
	IdentifierMatch:           "identifier",
	ParameterCountMatch:       "parameter count",
	ParameterTypesMatch:       "parameter types",
	Good:                      "good",
	PerfectParameterTypes:     "perfect parameter types",
	PerfectReturnType:         "perfect return type",
	VeryPerfectParameterTypes: "very perfect parameter types",
	VeryPerfectReturnType:     "very perfect return type",
	FileMatch:                 "file",
}

func (g Goodness) String() string {
	if g < 0 || int(g) >= len(goodnessNames) {
		return "invalid"
	}
	return goodnessNames[g]
}
