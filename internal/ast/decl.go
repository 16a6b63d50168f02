package ast

import (
	"fmt"

	"github.com/cardaba/tdesktop/internal/lexer/token"
)

// UsingDecl imports another style module by its quoted path, e.g.
// using "colors.style";
type UsingDecl struct {
	Path *token.Token // STRING_LITERAL, quotes stripped in Lexeme
}

func (using UsingDecl) String() string {
	return fmt.Sprintf("USING: %s", using.Path.Name())
}

// TypeDecl declares a structure type. Type names begin with an
// uppercase letter.
type TypeDecl struct {
	Name   *token.Token
	Fields []*FieldDecl
}

func (typeDecl TypeDecl) String() string {
	return fmt.Sprintf("TYPE: %s | Fields: %v", typeDecl.Name.Name(), typeDecl.Fields)
}

type FieldDecl struct {
	Name *token.Token
	Type *StyleType
}

func (field FieldDecl) String() string {
	return fmt.Sprintf("%s: %v", field.Name.Name(), field.Type)
}

// ValueDecl declares a style value. Value names begin with a
// lowercase letter. The four source forms are:
//
//	name: 200;                    simple, Value is set
//	name: Toast { ... };          typed, Type and Fields are set
//	name: Toast(base) { ... };    derived, Base is set as well
//	name { ... };                 anonymous, only Fields is set
type ValueDecl struct {
	Name   *token.Token
	Type   *token.Token // nil for simple and anonymous forms
	Base   *token.Token // nil unless derived
	Fields []*FieldAssign
	Value  *Node // nil unless simple
}

func (value ValueDecl) IsSimple() bool {
	return value.Value != nil
}

func (value ValueDecl) IsDerived() bool {
	return value.Base != nil
}

func (value ValueDecl) IsAnonymous() bool {
	return value.Type == nil && value.Value == nil
}

func (value ValueDecl) String() string {
	switch {
	case value.IsSimple():
		return fmt.Sprintf("VALUE: %s = %v", value.Name.Name(), value.Value)
	case value.IsDerived():
		return fmt.Sprintf(
			"VALUE: %s: %s(%s) | Fields: %v",
			value.Name.Name(),
			value.Type.Name(),
			value.Base.Name(),
			value.Fields,
		)
	case value.IsAnonymous():
		return fmt.Sprintf("VALUE: %s | Fields: %v", value.Name.Name(), value.Fields)
	default:
		return fmt.Sprintf("VALUE: %s: %s | Fields: %v", value.Name.Name(), value.Type.Name(), value.Fields)
	}
}

type FieldAssign struct {
	Name  *token.Token
	Value *Node
}

func (assign FieldAssign) String() string {
	return fmt.Sprintf("%s: %v", assign.Name.Name(), assign.Value)
}
