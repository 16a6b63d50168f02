package token

import "log"

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Identifier
	ID

	// Literals
	INT_LITERAL
	FLOAT_LITERAL
	PIXELS_LITERAL
	STRING_LITERAL
	TRUE_BOOL_LITERAL
	FALSE_BOOL_LITERAL

	// Keywords
	USING

	// Built-in kind names. They double as constructor heads:
	// "margins" in a field type position and "margins(...)" in a
	// value position arrive as the same token.
	INT_TYPE     // int
	BOOL_TYPE    // bool
	PIXELS_TYPE  // pixels
	DOUBLE_TYPE  // double
	COLOR_TYPE   // color
	ICON_TYPE    // icon
	MARGINS_TYPE // margins
	SIZE_TYPE    // size
	POINT_TYPE   // point
	ALIGN_TYPE   // align
	FONT_TYPE    // font

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// ,
	COMMA

	// ;
	SEMICOLON

	// :
	COLON
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"using": USING,

	"true":  TRUE_BOOL_LITERAL,
	"false": FALSE_BOOL_LITERAL,

	"int":     INT_TYPE,
	"bool":    BOOL_TYPE,
	"pixels":  PIXELS_TYPE,
	"double":  DOUBLE_TYPE,
	"color":   COLOR_TYPE,
	"icon":    ICON_TYPE,
	"margins": MARGINS_TYPE,
	"size":    SIZE_TYPE,
	"point":   POINT_TYPE,
	"align":   ALIGN_TYPE,
	"font":    FONT_TYPE,
}

var BUILTIN_TYPES map[Kind]bool = map[Kind]bool{
	INT_TYPE:     true,
	BOOL_TYPE:    true,
	PIXELS_TYPE:  true,
	DOUBLE_TYPE:  true,
	COLOR_TYPE:   true,
	ICON_TYPE:    true,
	MARGINS_TYPE: true,
	SIZE_TYPE:    true,
	POINT_TYPE:   true,
	ALIGN_TYPE:   true,
	FONT_TYPE:    true,
}

// Constructor heads take parenthesized argument lists; icon takes a
// brace block and is handled separately by the parser.
var CONSTRUCTOR_HEADS map[Kind]bool = map[Kind]bool{
	MARGINS_TYPE: true,
	SIZE_TYPE:    true,
	POINT_TYPE:   true,
	ALIGN_TYPE:   true,
	FONT_TYPE:    true,
}

var LITERAL_KIND map[Kind]bool = map[Kind]bool{
	INT_LITERAL:        true,
	FLOAT_LITERAL:      true,
	PIXELS_LITERAL:     true,
	STRING_LITERAL:     true,
	TRUE_BOOL_LITERAL:  true,
	FALSE_BOOL_LITERAL: true,
}

func (kind Kind) IsBuiltinType() bool {
	_, ok := BUILTIN_TYPES[kind]
	return ok
}

func (kind Kind) IsConstructorHead() bool {
	_, ok := CONSTRUCTOR_HEADS[kind]
	return ok
}

func (kind Kind) IsLiteral() bool {
	_, ok := LITERAL_KIND[kind]
	return ok
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case INT_LITERAL:
		return "integer literal"
	case FLOAT_LITERAL:
		return "float literal"
	case PIXELS_LITERAL:
		return "pixels literal"
	case STRING_LITERAL:
		return "string literal"
	case TRUE_BOOL_LITERAL:
		return "true"
	case FALSE_BOOL_LITERAL:
		return "false"
	case USING:
		return "using"
	case INT_TYPE:
		return "int"
	case BOOL_TYPE:
		return "bool"
	case PIXELS_TYPE:
		return "pixels"
	case DOUBLE_TYPE:
		return "double"
	case COLOR_TYPE:
		return "color"
	case ICON_TYPE:
		return "icon"
	case MARGINS_TYPE:
		return "margins"
	case SIZE_TYPE:
		return "size"
	case POINT_TYPE:
		return "point"
	case ALIGN_TYPE:
		return "align"
	case FONT_TYPE:
		return "font"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	default:
		log.Fatalf("String() method not defined for the following token kind '%d'", kind)
	}
	return ""
}
