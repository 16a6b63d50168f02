package registry

import (
	"fmt"

	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/lexer/token"
)

// StructField is one declared field of a user structure. Either
// Builtin holds the field's kind, or TypeName names another
// structure for nested groups.
type StructField struct {
	Name     string
	Builtin  BuiltinKind
	TypeName string
}

func NewFieldFromAst(decl *ast.FieldDecl) *StructField {
	if decl.Type.IsBuiltin() {
		builtin := BUILTIN_FROM_TOKEN[decl.Type.Builtin]
		return &StructField{Name: decl.Name.Name(), Builtin: builtin}
	}
	return &StructField{Name: decl.Name.Name(), TypeName: decl.Type.Name.Name()}
}

func (field *StructField) IsStruct() bool {
	return field.TypeName != ""
}

func (field *StructField) String() string {
	if field.IsStruct() {
		return fmt.Sprintf("%s: %s", field.Name, field.TypeName)
	}
	return fmt.Sprintf("%s: %s", field.Name, field.Builtin)
}

// StructType is a user-declared structure shape. Field order is the
// declaration order and drives generated output.
type StructType struct {
	Name   string
	Fields []*StructField
	Pos    token.Pos
	Module *ast.SourceModule

	index map[string]int
}

func NewStructType(decl *ast.TypeDecl, module *ast.SourceModule) *StructType {
	st := &StructType{
		Name:   decl.Name.Name(),
		Pos:    decl.Name.Pos,
		Module: module,
		index:  make(map[string]int),
	}
	for _, field := range decl.Fields {
		st.index[field.Name.Name()] = len(st.Fields)
		st.Fields = append(st.Fields, NewFieldFromAst(field))
	}
	return st
}

func (st *StructType) Field(name string) *StructField {
	i, ok := st.index[name]
	if !ok {
		return nil
	}
	return st.Fields[i]
}

func (st *StructType) String() string {
	return fmt.Sprintf("TYPE: %s | Fields: %v", st.Name, st.Fields)
}
