package ast

import (
	"fmt"

	"github.com/cardaba/tdesktop/internal/lexer/token"
)

type LiteralExpr struct {
	Kind  token.Kind // INT_LITERAL, FLOAT_LITERAL, PIXELS_LITERAL, STRING_LITERAL or a bool literal
	Value []byte
	Pos   token.Pos
}

func (literal *LiteralExpr) String() string {
	return fmt.Sprintf("%v %s", literal.Kind, literal.Value)
}

type IdExpr struct {
	Name *token.Token
}

func (idExpr IdExpr) String() string {
	// Make it simpler to get lexeme
	return idExpr.Name.Name()
}

// ConstructorExpr is a builtin constructor call such as
// margins(8, 4, 8, 4) or font(13, semibold). Head is the builtin
// kind keyword the call begins with.
type ConstructorExpr struct {
	Head token.Kind
	Pos  token.Pos
	Args []*Node
}

func (ctor *ConstructorExpr) String() string {
	return fmt.Sprintf("%v(%v)", ctor.Head, ctor.Args)
}

// IconExpr is an icon literal with one or more layers, each a
// {"path", color} pair painted bottom to top.
type IconExpr struct {
	Pos    token.Pos
	Layers []*IconLayer
}

func (icon *IconExpr) String() string {
	return fmt.Sprintf("ICON: %v", icon.Layers)
}

type IconLayer struct {
	Path  *token.Token // STRING_LITERAL, quotes stripped in Lexeme
	Color *Node
}

func (layer *IconLayer) String() string {
	return fmt.Sprintf("{%q, %v}", layer.Path.Name(), layer.Color)
}
