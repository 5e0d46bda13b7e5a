package lsp

// Semantic token type indices.
// Must match the order of TokenTypes, which the server advertises as its legend.
const (
	TokenTypeKeyword   uint32 = 0 // hard keywords, soft keywords in statement position
	TokenTypeVariable  uint32 = 1 // any other name
	TokenTypeString    uint32 = 2
	TokenTypeNumber    uint32 = 3
	TokenTypeOperator  uint32 = 4 // arithmetic, comparison, augmented assignment
	TokenTypeFunction  uint32 = 5 // def names and calls of plain names
	TokenTypeClass     uint32 = 6 // class names and references to classes in the document
	TokenTypeParameter uint32 = 7 // names in a parameter list
)

// TokenTypes is the semantic token legend.
var TokenTypes = []string{
	"keyword",
	"variable",
	"string",
	"number",
	"operator",
	"function",
	"class",
	"parameter",
}

// Symbol kinds, numbered as the editor protocol numbers them.
const (
	SymbolKindClass    = 5
	SymbolKindMethod   = 6
	SymbolKindField    = 8
	SymbolKindFunction = 12
	SymbolKindVariable = 13
)

// DiagnosticSource tags every published diagnostic.
const DiagnosticSource = "sith"

// Default limits for a session.
const (
	DefaultMaxDocuments = 100
	defaultWorkspace    = "default"
)
