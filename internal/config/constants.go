package config

const SourceFileExt = ".bbc"

// SettingsFileName is the name of the project settings file searched for
// from the working directory upwards.
const SettingsFileName = "bbc.yaml"

// IsTestMode indicates if the program is running in test mode.
// Diagnostics printing disables color in this mode.
var IsTestMode = false

// Compile-time evaluation limits
const (
	WhileIterationLimit = 64
	ForIterationLimit   = 5048
)

// ReturnSlotName is the synthetic variable a function frame returns through.
const ReturnSlotName = "@return"

// General function names
const (
	DestructorName = "destructor"
	IndexerGetName = "indexer_get"
	IndexerSetName = "indexer_set"
)

// Attribute names and builtin tags
const (
	ExternalAttribute = "External"
	BuiltinAttribute  = "Builtin"
	BuiltinAllocate   = "alloc"
	BuiltinFree       = "free"
)

// Modifiers
const (
	ModifierTemp   = "temp"
	ModifierRef    = "ref"
	ModifierThis   = "this"
	ModifierConst  = "const"
	ModifierExport = "export"
	ModifierInline = "inline"
)

// Reserved identifiers
const (
	ThisName        = "this"
	ArrayLengthName = "Length"
)

// Default fallback types for literals typed without a usable expected type
const (
	DefaultIntegerType = "i32"
	DefaultFloatType   = "f32"
	DefaultCharType    = "u16"
)
