package registry

import (
	"log"

	"github.com/cardaba/tdesktop/internal/lexer/token"
)

// BuiltinKind enumerates the value kinds the language knows how to
// construct. They are pre-registered and not shadowable.
type BuiltinKind int

const (
	KIND_INT BuiltinKind = iota
	KIND_BOOL
	KIND_PIXELS
	KIND_DOUBLE
	KIND_COLOR
	KIND_ICON
	KIND_MARGINS
	KIND_SIZE
	KIND_POINT
	KIND_ALIGN
	KIND_FONT
)

var BUILTIN_FROM_TOKEN map[token.Kind]BuiltinKind = map[token.Kind]BuiltinKind{
	token.INT_TYPE:     KIND_INT,
	token.BOOL_TYPE:    KIND_BOOL,
	token.PIXELS_TYPE:  KIND_PIXELS,
	token.DOUBLE_TYPE:  KIND_DOUBLE,
	token.COLOR_TYPE:   KIND_COLOR,
	token.ICON_TYPE:    KIND_ICON,
	token.MARGINS_TYPE: KIND_MARGINS,
	token.SIZE_TYPE:    KIND_SIZE,
	token.POINT_TYPE:   KIND_POINT,
	token.ALIGN_TYPE:   KIND_ALIGN,
	token.FONT_TYPE:    KIND_FONT,
}

var BUILTIN_BY_NAME map[string]BuiltinKind = map[string]BuiltinKind{
	"int":     KIND_INT,
	"bool":    KIND_BOOL,
	"pixels":  KIND_PIXELS,
	"double":  KIND_DOUBLE,
	"color":   KIND_COLOR,
	"icon":    KIND_ICON,
	"margins": KIND_MARGINS,
	"size":    KIND_SIZE,
	"point":   KIND_POINT,
	"align":   KIND_ALIGN,
	"font":    KIND_FONT,
}

func BuiltinFromToken(kind token.Kind) (BuiltinKind, bool) {
	builtin, ok := BUILTIN_FROM_TOKEN[kind]
	return builtin, ok
}

func BuiltinByName(name string) (BuiltinKind, bool) {
	builtin, ok := BUILTIN_BY_NAME[name]
	return builtin, ok
}

func (kind BuiltinKind) String() string {
	switch kind {
	case KIND_INT:
		return "int"
	case KIND_BOOL:
		return "bool"
	case KIND_PIXELS:
		return "pixels"
	case KIND_DOUBLE:
		return "double"
	case KIND_COLOR:
		return "color"
	case KIND_ICON:
		return "icon"
	case KIND_MARGINS:
		return "margins"
	case KIND_SIZE:
		return "size"
	case KIND_POINT:
		return "point"
	case KIND_ALIGN:
		return "align"
	case KIND_FONT:
		return "font"
	default:
		log.Fatalf("String() method not defined for the following builtin kind '%d'", kind)
	}
	return ""
}
