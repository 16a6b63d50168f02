// Package ast defines the abstract syntax tree (AST) for the style
// definition language.
package ast

import (
	"fmt"

	"github.com/cardaba/tdesktop/internal/lexer/token"
)

type NodeKind int

const (
	DECL_START NodeKind = iota // declaration node start delimiter

	KIND_USING_DECL
	KIND_TYPE_DECL
	KIND_VALUE_DECL

	DECL_END // declaration node end delimiter

	EXPR_START // expression node start delimiter

	KIND_LITERAL_EXPR
	KIND_ID_EXPR
	KIND_CONSTRUCTOR_EXPR
	KIND_ICON_EXPR

	EXPR_END // expression node end delimiter
)

type Node struct {
	Kind NodeKind
	Node any
}

func (n *Node) IsDecl() bool {
	return n.Kind > DECL_START && n.Kind < DECL_END
}

func (n *Node) IsExpr() bool {
	return n.Kind > EXPR_START && n.Kind < EXPR_END
}

func (n *Node) IsId() bool {
	return n.Kind == KIND_ID_EXPR
}

func (n *Node) IsLiteral() bool {
	return n.Kind == KIND_LITERAL_EXPR
}

// Pos locates the node's first token for diagnostics.
func (n *Node) Pos() token.Pos {
	switch n.Kind {
	case KIND_USING_DECL:
		return n.Node.(*UsingDecl).Path.Pos
	case KIND_TYPE_DECL:
		return n.Node.(*TypeDecl).Name.Pos
	case KIND_VALUE_DECL:
		return n.Node.(*ValueDecl).Name.Pos
	case KIND_LITERAL_EXPR:
		return n.Node.(*LiteralExpr).Pos
	case KIND_ID_EXPR:
		return n.Node.(*IdExpr).Name.Pos
	case KIND_CONSTRUCTOR_EXPR:
		return n.Node.(*ConstructorExpr).Pos
	case KIND_ICON_EXPR:
		return n.Node.(*IconExpr).Pos
	}
	return token.Pos{}
}

func (n *Node) String() string {
	switch n.Kind {
	case KIND_USING_DECL:
		return "KIND_USING_DECL"
	case KIND_TYPE_DECL:
		return "KIND_TYPE_DECL"
	case KIND_VALUE_DECL:
		return "KIND_VALUE_DECL"
	case KIND_LITERAL_EXPR:
		return "KIND_LITERAL_EXPR"
	case KIND_ID_EXPR:
		return "KIND_ID_EXPR"
	case KIND_CONSTRUCTOR_EXPR:
		return "KIND_CONSTRUCTOR_EXPR"
	case KIND_ICON_EXPR:
		return "KIND_ICON_EXPR"
	default:
		return fmt.Sprintf("Unknown Node Kind: %v", n.Kind)
	}
}
