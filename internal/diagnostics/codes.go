package diagnostics

// ErrorCode identifies a class of diagnostic. Prefixes: S for symbol
// resolution, T for typing, L for lowering and optimization.
type ErrorCode string

const (
	ErrS001 ErrorCode = "S001" // symbol not found
	ErrS002 ErrorCode = "S002" // wrong number of arguments
	ErrS003 ErrorCode = "S003" // argument type mismatch
	ErrS004 ErrorCode = "S004" // ambiguous match
	ErrS005 ErrorCode = "S005" // protection level
	ErrS006 ErrorCode = "S006" // type not found
	ErrS007 ErrorCode = "S007" // field not found
	ErrS008 ErrorCode = "S008" // duplicate declaration
	ErrS009 ErrorCode = "S009" // wrong number of type arguments

	ErrT001 ErrorCode = "T001" // cannot convert
	ErrT002 ErrorCode = "T002" // literal defaulted
	ErrT003 ErrorCode = "T003" // redundant cast
	ErrT004 ErrorCode = "T004" // literal typed without expected type
	ErrT005 ErrorCode = "T005" // operator not applicable
	ErrT006 ErrorCode = "T006" // not addressable / not assignable
	ErrT007 ErrorCode = "T007" // value is not callable
	ErrT008 ErrorCode = "T008" // not indexable
	ErrT009 ErrorCode = "T009" // size unknown
	ErrT010 ErrorCode = "T010" // constant value required

	ErrL001 ErrorCode = "L001" // temp argument to non-temp parameter
	ErrL002 ErrorCode = "L002" // no deallocator
	ErrL003 ErrorCode = "L003" // call not inlined
	ErrL004 ErrorCode = "L004" // evaluated at compile time
	ErrL005 ErrorCode = "L005" // loop unrolled
	ErrL006 ErrorCode = "L006" // break outside of loop
	ErrL007 ErrorCode = "L007" // call inlined
	ErrL008 ErrorCode = "L008" // condition is constant
	ErrL009 ErrorCode = "L009" // unused value
	ErrL010 ErrorCode = "L010" // no allocator
	ErrL011 ErrorCode = "L011" // external function not provided
)

type codeInfo struct {
	severity Severity
	format   string
}

var codes = map[ErrorCode]codeInfo{
	ErrS001: {SeverityCritical, "%s \"%s\" not found"},
	ErrS002: {SeverityCritical, "wrong number of arguments passed to %s: expected %d, got %d"},
	ErrS003: {SeverityCritical, "no %s \"%s\" accepts arguments (%s)"},
	ErrS004: {SeverityCritical, "ambiguous %s \"%s\": %s and %s both match"},
	ErrS005: {SeverityError, "%s \"%s\" cannot be used due to its protection level"},
	ErrS006: {SeverityCritical, "type \"%s\" not found"},
	ErrS007: {SeverityCritical, "type \"%s\" has no field \"%s\""},
	ErrS008: {SeverityCritical, "%s \"%s\" is already declared"},
	ErrS009: {SeverityCritical, "wrong number of type arguments for \"%s\": expected %d, got %d"},

	ErrT001: {SeverityCritical, "cannot convert %s to %s"},
	ErrT002: {SeverityWarning, "literal %s does not fit %s, defaulted to %s"},
	ErrT003: {SeverityWarning, "redundant cast to %s"},
	ErrT004: {SeverityHint, "literal %s typed as %s"},
	ErrT005: {SeverityCritical, "operator %s cannot be applied to %s"},
	ErrT006: {SeverityCritical, "%s"},
	ErrT007: {SeverityCritical, "value of type %s is not callable"},
	ErrT008: {SeverityCritical, "type %s cannot be indexed"},
	ErrT009: {SeverityCritical, "size of %s is not known at compile time"},
	ErrT010: {SeverityCritical, "%s must be a constant value"},

	ErrL001: {SeverityWarning, "argument passed as temp but parameter \"%s\" is not temp; it will not be released"},
	ErrL002: {SeverityError, "no deallocator found for %s"},
	ErrL003: {SeverityWarning, "call to \"%s\" could not be inlined: %s"},
	ErrL004: {SeverityOptimizationNotice, "evaluated to %s"},
	ErrL005: {SeverityOptimizationNotice, "loop unrolled into %d iterations"},
	ErrL006: {SeverityCritical, "break outside of a loop"},
	ErrL007: {SeverityOptimizationNotice, "call to \"%s\" inlined"},
	ErrL008: {SeverityOptimizationNotice, "condition is always %s"},
	ErrL009: {SeverityHint, "value is not used"},
	ErrL010: {SeverityCritical, "no allocator found for %s"},
	ErrL011: {SeverityError, "external function \"%s\" is not provided by the host"},
}

// DefaultSeverity returns the severity a code is reported with.
func DefaultSeverity(code ErrorCode) Severity {
	if info, ok := codes[code]; ok {
		return info.severity
	}
	return SeverityCritical
}
