// Package registry is the single flattened declaration namespace of
// a compilation: builtin kinds, user structure shapes and declared
// value names, with the memoization state resolution fills in.
package registry

import (
	"errors"

	"github.com/cardaba/tdesktop/internal/ast"
)

var (
	ERR_NAME_ALREADY_DEFINED = errors.New("name already defined")
	ERR_NAME_NOT_FOUND       = errors.New("name not found")
	ERR_RESERVED_NAME        = errors.New("name is reserved")
)

type Registry struct {
	types  map[string]*StructType
	values map[string]*ValueEntry

	typeOrder  []*StructType
	valueOrder []*ValueEntry
}

func New() *Registry {
	return &Registry{
		types:  make(map[string]*StructType),
		values: make(map[string]*ValueEntry),
	}
}

func (r *Registry) RegisterType(decl *ast.TypeDecl, module *ast.SourceModule) error {
	name := decl.Name.Name()
	if _, ok := BUILTIN_BY_NAME[name]; ok {
		return ERR_RESERVED_NAME
	}
	if _, ok := r.types[name]; ok {
		return ERR_NAME_ALREADY_DEFINED
	}
	if _, ok := r.values[name]; ok {
		return ERR_NAME_ALREADY_DEFINED
	}

	st := NewStructType(decl, module)
	r.types[name] = st
	r.typeOrder = append(r.typeOrder, st)
	return nil
}

func (r *Registry) RegisterValue(decl *ast.ValueDecl, module *ast.SourceModule) error {
	name := decl.Name.Name()
	if _, ok := BUILTIN_BY_NAME[name]; ok {
		return ERR_RESERVED_NAME
	}
	if _, ok := r.values[name]; ok {
		return ERR_NAME_ALREADY_DEFINED
	}
	if _, ok := r.types[name]; ok {
		return ERR_NAME_ALREADY_DEFINED
	}

	entry := &ValueEntry{
		Name:   name,
		Decl:   decl,
		Module: module,
		State:  STATE_UNRESOLVED,
	}
	r.values[name] = entry
	r.valueOrder = append(r.valueOrder, entry)
	return nil
}

func (r *Registry) LookupType(name string) (*StructType, error) {
	st, ok := r.types[name]
	if !ok {
		return nil, ERR_NAME_NOT_FOUND
	}
	return st, nil
}

func (r *Registry) LookupValue(name string) (*ValueEntry, error) {
	entry, ok := r.values[name]
	if !ok {
		return nil, ERR_NAME_NOT_FOUND
	}
	return entry, nil
}

// Types returns user structures in registration order.
func (r *Registry) Types() []*StructType {
	return r.typeOrder
}

// Values returns declared values in registration order.
func (r *Registry) Values() []*ValueEntry {
	return r.valueOrder
}
