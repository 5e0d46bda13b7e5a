package token

// Kind is the closed set of token kinds produced by the lexer.
type Kind int

const (
	Invalid Kind = iota
	Eof
	NewLine
	Indent
	Dedent

	// Literals
	Identifier
	String
	Number

	keywordStart
	// Keywords
	False
	None
	True
	And
	As
	Assert
	Async
	Await
	Break
	Class
	Continue
	Def
	Del
	Elif
	Else
	Except
	Finally
	For
	From
	Global
	If
	Import
	In
	Is
	Lambda
	Nonlocal
	Not
	Or
	Pass
	Raise
	Return
	Try
	While
	With
	Yield
	keywordEnd

	softKeywordStart
	// Soft keywords, identifiers outside their grammatical position
	Match
	Case
	Underscore
	softKeywordEnd

	operatorStart
	// Operators
	Plus
	Minus
	Asterisk
	Exponent
	Slash
	FloorDivision
	Modulo
	At
	LeftShift
	RightShift
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	Walrus
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	Equals
	NotEquals

	augAssignStart
	PlusEqual
	MinusEqual
	AsteriskEqual
	SlashEqual
	FloorDivisionEqual
	ModuloEqual
	AtEqual
	BitwiseAndEqual
	BitwiseOrEqual
	BitwiseXorEqual
	LeftShiftEqual
	RightShiftEqual
	ExponentEqual
	augAssignEnd
	operatorEnd

	// Delimiters
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Comma
	Colon
	SemiColon
	Dot
	Ellipsis
	Assign
	RightArrow
)

var kindNames = map[Kind]string{
	Invalid:    "Invalid",
	Eof:        "Eof",
	NewLine:    "NewLine",
	Indent:     "Indent",
	Dedent:     "Dedent",
	Identifier: "Identifier",
	String:     "String",
	Number:     "Number",

	False:    "False",
	None:     "None",
	True:     "True",
	And:      "and",
	As:       "as",
	Assert:   "assert",
	Async:    "async",
	Await:    "await",
	Break:    "break",
	Class:    "class",
	Continue: "continue",
	Def:      "def",
	Del:      "del",
	Elif:     "elif",
	Else:     "else",
	Except:   "except",
	Finally:  "finally",
	For:      "for",
	From:     "from",
	Global:   "global",
	If:       "if",
	Import:   "import",
	In:       "in",
	Is:       "is",
	Lambda:   "lambda",
	Nonlocal: "nonlocal",
	Not:      "not",
	Or:       "or",
	Pass:     "pass",
	Raise:    "raise",
	Return:   "return",
	Try:      "try",
	While:    "while",
	With:     "with",
	Yield:    "yield",

	Match:      "match",
	Case:       "case",
	Underscore: "_",

	Plus:               "+",
	Minus:              "-",
	Asterisk:           "*",
	Exponent:           "**",
	Slash:              "/",
	FloorDivision:      "//",
	Modulo:             "%",
	At:                 "@",
	LeftShift:          "<<",
	RightShift:         ">>",
	BitwiseAnd:         "&",
	BitwiseOr:          "|",
	BitwiseXor:         "^",
	BitwiseNot:         "~",
	Walrus:             ":=",
	LessThan:           "<",
	GreaterThan:        ">",
	LessThanOrEqual:    "<=",
	GreaterThanOrEqual: ">=",
	Equals:             "==",
	NotEquals:          "!=",
	PlusEqual:          "+=",
	MinusEqual:         "-=",
	AsteriskEqual:      "*=",
	SlashEqual:         "/=",
	FloorDivisionEqual: "//=",
	ModuloEqual:        "%=",
	AtEqual:            "@=",
	BitwiseAndEqual:    "&=",
	BitwiseOrEqual:     "|=",
	BitwiseXorEqual:    "^=",
	LeftShiftEqual:     "<<=",
	RightShiftEqual:    ">>=",
	ExponentEqual:      "**=",

	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Colon:        ":",
	SemiColon:    ";",
	Dot:          ".",
	Ellipsis:     "...",
	Assign:       "=",
	RightArrow:   "->",
}

// String returns the source spelling for fixed tokens and a name for the rest.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a hard keyword (including True, False and None).
func (k Kind) IsKeyword() bool {
	return k > keywordStart && k < keywordEnd
}

// IsSoftKeyword reports whether k is one of match, case or _.
func (k Kind) IsSoftKeyword() bool {
	return k > softKeywordStart && k < softKeywordEnd
}

// IsOperator reports whether k is an operator, augmented assignments included.
func (k Kind) IsOperator() bool {
	return k > operatorStart && k < operatorEnd
}

// IsAugAssign reports whether k is one of the op= tokens.
func (k Kind) IsAugAssign() bool {
	return k > augAssignStart && k < augAssignEnd
}

// IsName reports whether a token of kind k can be used as a plain name.
func (k Kind) IsName() bool {
	return k == Identifier || k.IsSoftKeyword()
}

// IsStructural reports whether k only encodes layout.
func (k Kind) IsStructural() bool {
	switch k {
	case NewLine, Indent, Dedent, Eof:
		return true
	}
	return false
}

var keywords = map[string]Kind{
	"False":    False,
	"None":     None,
	"True":     True,
	"and":      And,
	"as":       As,
	"assert":   Assert,
	"async":    Async,
	"await":    Await,
	"break":    Break,
	"class":    Class,
	"continue": Continue,
	"def":      Def,
	"del":      Del,
	"elif":     Elif,
	"else":     Else,
	"except":   Except,
	"finally":  Finally,
	"for":      For,
	"from":     From,
	"global":   Global,
	"if":       If,
	"import":   Import,
	"in":       In,
	"is":       Is,
	"lambda":   Lambda,
	"nonlocal": Nonlocal,
	"not":      Not,
	"or":       Or,
	"pass":     Pass,
	"raise":    Raise,
	"return":   Return,
	"try":      Try,
	"while":    While,
	"with":     With,
	"yield":    Yield,
}

var softKeywords = map[string]Kind{
	"match": Match,
	"case":  Case,
	"_":     Underscore,
}

// LookupIdent resolves an identifier lexeme to a keyword, soft keyword or Identifier.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	if kind, ok := softKeywords[ident]; ok {
		return kind
	}
	return Identifier
}

// NumberKind tags a number token with its literal shape.
type NumberKind int

const (
	NumberNone NumberKind = iota
	NumberDecimal
	NumberBinary
	NumberHex
	NumberOctal
	NumberFloat
	NumberImaginary
	NumberInvalid
)

var numberKindNames = [...]string{
	NumberNone:      "",
	NumberDecimal:   "decimal",
	NumberBinary:    "binary",
	NumberHex:       "hex",
	NumberOctal:     "octal",
	NumberFloat:     "float",
	NumberImaginary: "imaginary",
	NumberInvalid:   "invalid",
}

func (n NumberKind) String() string {
	if int(n) < len(numberKindNames) {
		return numberKindNames[n]
	}
	return "invalid"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (n NumberKind) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}
