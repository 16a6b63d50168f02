package registry

import (
	"testing"

	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/lexer/token"
	"github.com/cardaba/tdesktop/internal/parser"
)

func typeDeclFrom(t *testing.T, src string) *ast.TypeDecl {
	t.Helper()
	node, err := parser.ParseDeclFrom(src, "test.style")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return node.Node.(*ast.TypeDecl)
}

func valueDeclFrom(t *testing.T, src string) *ast.ValueDecl {
	t.Helper()
	node, err := parser.ParseDeclFrom(src, "test.style")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return node.Node.(*ast.ValueDecl)
}

func TestRegisterAndLookupType(t *testing.T) {
	r := New()

	decl := typeDeclFrom(t, "Toast { padding: margins; duration: int; ripple: Ripple; }")
	if err := r.RegisterType(decl, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := r.LookupType("Toast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(st.Fields))
	}
	if st.Fields[0].Name != "padding" || st.Fields[0].Builtin != KIND_MARGINS {
		t.Errorf("expected padding: margins, got %v", st.Fields[0])
	}

	duration := st.Field("duration")
	if duration == nil || duration.Builtin != KIND_INT {
		t.Errorf("expected duration: int, got %v", duration)
	}

	ripple := st.Field("ripple")
	if ripple == nil || !ripple.IsStruct() || ripple.TypeName != "Ripple" {
		t.Errorf("expected ripple: Ripple, got %v", ripple)
	}

	if st.Field("missing") != nil {
		t.Error("expected missing field lookup to return nil")
	}

	if _, err := r.LookupType("Missing"); err != ERR_NAME_NOT_FOUND {
		t.Errorf("expected ERR_NAME_NOT_FOUND, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	r := New()

	if err := r.RegisterType(typeDeclFrom(t, "Toast { duration: int; }"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.RegisterType(typeDeclFrom(t, "Toast { skip: pixels; }"), nil)
	if err != ERR_NAME_ALREADY_DEFINED {
		t.Errorf("expected ERR_NAME_ALREADY_DEFINED, got %v", err)
	}

	if err := r.RegisterValue(valueDeclFrom(t, "toastDuration: 1200;"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = r.RegisterValue(valueDeclFrom(t, "toastDuration: 900;"), nil)
	if err != ERR_NAME_ALREADY_DEFINED {
		t.Errorf("expected ERR_NAME_ALREADY_DEFINED, got %v", err)
	}
}

func TestReservedNames(t *testing.T) {
	r := New()

	// Builtin kind names are keywords, so a parsed declaration can
	// never carry one; guard the registry against hand-built decls
	// all the same.
	name := token.New([]byte("color"), token.ID, token.NewPosition("test.style", 1, 1))
	decl := &ast.TypeDecl{Name: name}

	if err := r.RegisterType(decl, nil); err != ERR_RESERVED_NAME {
		t.Errorf("expected ERR_RESERVED_NAME, got %v", err)
	}

	valueDecl := &ast.ValueDecl{Name: name}
	if err := r.RegisterValue(valueDecl, nil); err != ERR_RESERVED_NAME {
		t.Errorf("expected ERR_RESERVED_NAME, got %v", err)
	}
}

func TestRegistrationOrder(t *testing.T) {
	r := New()

	if err := r.RegisterValue(valueDeclFrom(t, "b: 2;"), nil); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterValue(valueDeclFrom(t, "a: 1;"), nil); err != nil {
		t.Fatal(err)
	}

	values := r.Values()
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if values[0].Name != "b" || values[1].Name != "a" {
		t.Errorf("expected registration order [b a], got [%s %s]", values[0].Name, values[1].Name)
	}
	if values[0].State != STATE_UNRESOLVED {
		t.Errorf("expected fresh entries to be unresolved, got %v", values[0].State)
	}
}

func TestValueCloneIsIndependent(t *testing.T) {
	base := &Value{IsStruct: true}
	base.SetField("height", &Value{Kind: KIND_PIXELS, Int: 30})
	base.SetField("opaque", &Value{Kind: KIND_BOOL, Bool: true})

	derived := base.Clone()
	derived.SetField("height", &Value{Kind: KIND_PIXELS, Int: 40})
	derived.SetField("skip", &Value{Kind: KIND_INT, Int: 5})

	if got := base.Field("height").Int; got != 30 {
		t.Errorf("expected base height to stay 30, got %d", got)
	}
	if base.Field("skip") != nil {
		t.Error("expected base to not gain fields from the clone")
	}
	if got := derived.Field("height").Int; got != 40 {
		t.Errorf("expected derived height 40, got %d", got)
	}
	if len(base.Fields) != 2 || len(derived.Fields) != 3 {
		t.Errorf("expected field counts 2 and 3, got %d and %d", len(base.Fields), len(derived.Fields))
	}
}

func TestSetFieldKeepsOrder(t *testing.T) {
	v := &Value{IsStruct: true}
	v.SetField("first", &Value{Kind: KIND_INT, Int: 1})
	v.SetField("second", &Value{Kind: KIND_INT, Int: 2})
	// Override must not move the field.
	v.SetField("first", &Value{Kind: KIND_INT, Int: 10})

	if v.Fields[0].Name != "first" || v.Fields[1].Name != "second" {
		t.Errorf("expected order [first second], got [%s %s]", v.Fields[0].Name, v.Fields[1].Name)
	}
	if v.Fields[0].Value.Int != 10 {
		t.Errorf("expected overridden value 10, got %d", v.Fields[0].Value.Int)
	}
}
