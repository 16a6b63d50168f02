// Package resolver turns declared values into concrete field
// tables. Resolution is lazy and memoized: a value is computed at
// most once, on first request, pulling in its base and every
// referenced value on demand regardless of textual order.
package resolver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/palette"
	"github.com/cardaba/tdesktop/internal/registry"
)

type Resolver struct {
	reg       *registry.Registry
	colors    palette.Source
	icons     *assets.Resolver
	collector *diagnostics.Collector

	// Resolving one value may recursively resolve others, so the
	// whole engine runs under one lock. Concurrent requesters for
	// an in-progress name wait here instead of duplicating work.
	mu    sync.Mutex
	stack []string
}

func New(
	reg *registry.Registry,
	colors palette.Source,
	icons *assets.Resolver,
	collector *diagnostics.Collector,
) *Resolver {
	return &Resolver{
		reg:       reg,
		colors:    colors,
		icons:     icons,
		collector: collector,
	}
}

// Resolve returns the fully resolved value registered under name.
func (r *Resolver) Resolve(name string) (*registry.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.reg.LookupValue(name)
	if err != nil {
		undefinedName := diagnostics.Diag{
			Kind:    diagnostics.UNDEFINED_NAME_ERROR,
			Message: fmt.Sprintf("name '%s' is not defined", name),
		}
		return nil, r.reportAndSave(undefinedName, nil)
	}
	return r.resolveEntry(entry)
}

// ResolveAll resolves every registered value in registration order,
// stopping at the first error.
func (r *Resolver) ResolveAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.reg.Values() {
		if _, err := r.resolveEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveEntry(entry *registry.ValueEntry) (*registry.Value, error) {
	switch entry.State {
	case registry.STATE_RESOLVED:
		return entry.Result, nil
	case registry.STATE_IN_PROGRESS:
		cyclicReference := diagnostics.Diag{
			Kind:    diagnostics.CYCLIC_REFERENCE_ERROR,
			Pos:     entry.Decl.Name.Pos,
			Message: fmt.Sprintf("cyclic reference: %s", r.cycleChain(entry.Name)),
		}
		return nil, r.reportAndSave(cyclicReference, entry.Module)
	}

	entry.State = registry.STATE_IN_PROGRESS
	r.stack = append(r.stack, entry.Name)

	result, err := r.resolveDecl(entry)

	r.stack = r.stack[:len(r.stack)-1]
	if err != nil {
		entry.State = registry.STATE_UNRESOLVED
		return nil, err
	}

	entry.State = registry.STATE_RESOLVED
	entry.Result = result
	return result, nil
}

func (r *Resolver) resolveDecl(entry *registry.ValueEntry) (*registry.Value, error) {
	decl := entry.Decl
	if decl.IsSimple() {
		return r.evalExpr(decl.Value, nil, entry.Module)
	}

	var structType *registry.StructType
	if decl.Type != nil {
		st, err := r.reg.LookupType(decl.Type.Name())
		if err != nil {
			undefinedType := diagnostics.Diag{
				Kind:    diagnostics.UNDEFINED_NAME_ERROR,
				Pos:     decl.Type.Pos,
				Message: fmt.Sprintf("type '%s' is not defined", decl.Type.Name()),
			}
			return nil, r.reportAndSave(undefinedType, entry.Module)
		}
		structType = st
	}

	result := &registry.Value{IsStruct: true}
	if decl.IsDerived() {
		base, err := r.resolveBase(decl, entry.Module)
		if err != nil {
			return nil, err
		}
		// Copy semantics: overriding a field here must never
		// reach back into the base's table.
		result = base.Clone()
	}
	result.Type = structType

	for _, assign := range decl.Fields {
		var expected *registry.StructField
		if structType != nil {
			expected = structType.Field(assign.Name.Name())
		}

		value, err := r.evalExpr(assign.Value, expected, entry.Module)
		if err != nil {
			return nil, err
		}
		if err := r.checkAssign(assign, expected, value, entry.Module); err != nil {
			return nil, err
		}
		result.SetField(assign.Name.Name(), value)
	}

	// Fields declared by the structure type must have a value from
	// the base or from a local assignment by now, and an inherited
	// value must still fit the field's declared kind.
	if structType != nil {
		for _, field := range structType.Fields {
			value := result.Field(field.Name)
			if value == nil {
				missingField := diagnostics.Diag{
					Kind: diagnostics.MISSING_FIELD_ERROR,
					Pos:  decl.Name.Pos,
					Message: fmt.Sprintf(
						"field '%s' of type '%s' was never assigned in '%s'",
						field.Name,
						structType.Name,
						entry.Name,
					),
				}
				return nil, r.reportAndSave(missingField, entry.Module)
			}
			if fieldAccepts(field, value) {
				continue
			}
			pos := decl.Name.Pos
			if decl.IsDerived() {
				pos = decl.Base.Pos
			}
			badInherit := diagnostics.Diag{
				Kind: diagnostics.TYPE_MISMATCH_ERROR,
				Pos:  pos,
				Message: fmt.Sprintf(
					"field '%s' of type '%s' expects %s, got %s",
					field.Name,
					structType.Name,
					fieldTypeName(field),
					describeValue(value),
				),
			}
			return nil, r.reportAndSave(badInherit, entry.Module)
		}
	}
	return result, nil
}

func (r *Resolver) resolveBase(decl *ast.ValueDecl, module *ast.SourceModule) (*registry.Value, error) {
	baseEntry, err := r.reg.LookupValue(decl.Base.Name())
	if err != nil {
		undefinedBase := diagnostics.Diag{
			Kind:    diagnostics.UNDEFINED_NAME_ERROR,
			Pos:     decl.Base.Pos,
			Message: fmt.Sprintf("base value '%s' is not defined", decl.Base.Name()),
		}
		return nil, r.reportAndSave(undefinedBase, module)
	}

	base, err := r.resolveEntry(baseEntry)
	if err != nil {
		return nil, err
	}
	if !base.IsStruct {
		notAStruct := diagnostics.Diag{
			Kind:    diagnostics.TYPE_MISMATCH_ERROR,
			Pos:     decl.Base.Pos,
			Message: fmt.Sprintf("base value '%s' is not a structured value", decl.Base.Name()),
		}
		return nil, r.reportAndSave(notAStruct, module)
	}
	return base, nil
}

func (r *Resolver) checkAssign(
	assign *ast.FieldAssign,
	expected *registry.StructField,
	got *registry.Value,
	module *ast.SourceModule,
) error {
	// Fields absent from the declared type widen the value's
	// shape; they take the kind of their expression.
	if expected == nil {
		return nil
	}
	if fieldAccepts(expected, got) {
		return nil
	}
	return r.mismatch(assign, fieldTypeName(expected), got, module)
}

func fieldAccepts(expected *registry.StructField, got *registry.Value) bool {
	if expected.IsStruct() {
		return got.IsStruct && got.Type != nil && got.Type.Name == expected.TypeName
	}
	return !got.IsStruct && got.Kind == expected.Builtin
}

func fieldTypeName(expected *registry.StructField) string {
	if expected.IsStruct() {
		return expected.TypeName
	}
	return expected.Builtin.String()
}

func (r *Resolver) mismatch(
	assign *ast.FieldAssign,
	expected string,
	got *registry.Value,
	module *ast.SourceModule,
) error {
	typeMismatch := diagnostics.Diag{
		Kind: diagnostics.TYPE_MISMATCH_ERROR,
		Pos:  assign.Name.Pos,
		Message: fmt.Sprintf(
			"field '%s' expects %s, got %s",
			assign.Name.Name(),
			expected,
			describeValue(got),
		),
	}
	return r.reportAndSave(typeMismatch, module)
}

func describeValue(value *registry.Value) string {
	if value.IsStruct {
		if value.Type != nil {
			return value.Type.Name
		}
		return "an anonymous structure"
	}
	return value.Kind.String()
}

func (r *Resolver) cycleChain(name string) string {
	start := 0
	for i, pending := range r.stack {
		if pending == name {
			start = i
			break
		}
	}
	chain := append([]string{}, r.stack[start:]...)
	chain = append(chain, name)
	return strings.Join(chain, " -> ")
}

func (r *Resolver) reportAndSave(diag diagnostics.Diag, module *ast.SourceModule) error {
	if diag.Snippet == "" && module != nil && module.Src != nil {
		diag.Snippet = diagnostics.Snippet(module.Src, diag.Pos.Line, diag.Pos.Column)
	}
	r.collector.ReportAndSave(diag)
	return diagnostics.COMPILER_ERROR_FOUND
}
