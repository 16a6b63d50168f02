package ast

import (
	"github.com/cardaba/tdesktop/internal/lexer/token"
)

type StyleTypeKind int

const (
	STYLE_TYPE_BUILTIN StyleTypeKind = iota
	STYLE_TYPE_NAMED
)

// StyleType is the syntactic type annotation of a structure field,
// either a builtin kind keyword (pixels, color, icon, ...) or the
// name of a declared structure type.
type StyleType struct {
	Kind    StyleTypeKind
	Builtin token.Kind   // valid when Kind is STYLE_TYPE_BUILTIN
	Name    *token.Token // valid when Kind is STYLE_TYPE_NAMED
}

func NewBuiltinType(kind token.Kind) *StyleType {
	return &StyleType{Kind: STYLE_TYPE_BUILTIN, Builtin: kind}
}

func NewNamedType(name *token.Token) *StyleType {
	return &StyleType{Kind: STYLE_TYPE_NAMED, Name: name}
}

func (ty *StyleType) IsBuiltin() bool {
	return ty.Kind == STYLE_TYPE_BUILTIN
}

func (ty *StyleType) Equals(other *StyleType) bool {
	if ty.Kind != other.Kind {
		return false
	}
	switch ty.Kind {
	case STYLE_TYPE_BUILTIN:
		return ty.Builtin == other.Builtin
	case STYLE_TYPE_NAMED:
		return ty.Name.Name() == other.Name.Name()
	}
	return false
}

func (ty *StyleType) String() string {
	if ty.IsBuiltin() {
		return ty.Builtin.String()
	}
	return ty.Name.Name()
}
