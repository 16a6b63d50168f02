package resolver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/palette"
	"github.com/cardaba/tdesktop/internal/parser"
	"github.com/cardaba/tdesktop/internal/registry"
)

func buildRegistry(t *testing.T, src string) *registry.Registry {
	t.Helper()

	module, err := parser.ParseModuleFrom(src, "test.style")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	reg := registry.New()
	for _, node := range module.Body {
		switch node.Kind {
		case ast.KIND_TYPE_DECL:
			err = reg.RegisterType(node.Node.(*ast.TypeDecl), module)
		case ast.KIND_VALUE_DECL:
			err = reg.RegisterValue(node.Node.(*ast.ValueDecl), module)
		}
		if err != nil {
			t.Fatalf("unexpected registration error: %v", err)
		}
	}
	return reg
}

func newTestResolver(t *testing.T, src string, colors palette.Map, iconRoot string) (*Resolver, *diagnostics.Collector) {
	t.Helper()

	if iconRoot == "" {
		iconRoot = t.TempDir()
	}
	collector := diagnostics.NewWithOutput(io.Discard)
	r := New(buildRegistry(t, src), colors, assets.NewResolver(iconRoot), collector)
	return r, collector
}

func writeAsset(t *testing.T, root, name string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("asset"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveSimpleValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *registry.Value
	}{
		{"toastDuration", "toastDuration: 1200;", &registry.Value{Kind: registry.KIND_INT, Int: 1200}},
		{"scrollShift", "scrollShift: -4;", &registry.Value{Kind: registry.KIND_INT, Int: -4}},
		{"lineHeight", "lineHeight: 30px;", &registry.Value{Kind: registry.KIND_PIXELS, Int: 30}},
		{"fadeOpacity", "fadeOpacity: 0.68;", &registry.Value{Kind: registry.KIND_DOUBLE, Double: 0.68}},
		{"adaptive", "adaptive: false;", &registry.Value{Kind: registry.KIND_BOOL, Bool: false}},
		{
			"rowPadding",
			"rowPadding: margins(10, 8, 10, 8);",
			&registry.Value{
				Kind:    registry.KIND_MARGINS,
				Margins: registry.Margins{Left: 10, Top: 8, Right: 10, Bottom: 8},
			},
		},
		{
			"minSize",
			"minSize: size(24, 48);",
			&registry.Value{Kind: registry.KIND_SIZE, Size: registry.Size{Width: 24, Height: 48}},
		},
		{
			"badgeShift",
			"badgeShift: point(-2, 0);",
			&registry.Value{Kind: registry.KIND_POINT, Point: registry.Point{X: -2, Y: 0}},
		},
		{
			"labelAlign",
			"labelAlign: align(topleft);",
			&registry.Value{Kind: registry.KIND_ALIGN, Align: registry.ALIGN_TOP_LEFT},
		},
		{
			"semiboldFont",
			"semiboldFont: font(13px, semibold);",
			&registry.Value{
				Kind: registry.KIND_FONT,
				Font: registry.Font{SizePx: 13, Flags: registry.FONT_SEMIBOLD},
			},
		},
		{
			"titleFont",
			"titleFont: font(14, bold, italic);",
			&registry.Value{
				Kind: registry.KIND_FONT,
				Font: registry.Font{SizePx: 14, Flags: registry.FONT_BOLD | registry.FONT_ITALIC},
			},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestResolve(%s)", test.name), func(t *testing.T) {
			r, _ := newTestResolver(t, test.src, nil, "")

			got, err := r.Resolve(test.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestResolveTypedValue(t *testing.T) {
	src := `
Toast {
	duration: int;
	padding: margins;
	opaque: bool;
}

defaultToast: Toast {
	duration: 1200;
	padding: margins(10, 8, 10, 8);
	opaque: true;
}
`
	r, _ := newTestResolver(t, src, nil, "")

	got, err := r.Resolve("defaultToast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsStruct || got.Type == nil || got.Type.Name != "Toast" {
		t.Fatalf("expected a Toast value, got %v", got)
	}
	if len(got.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(got.Fields))
	}

	// Fields keep assignment order.
	order := []string{"duration", "padding", "opaque"}
	for i, name := range order {
		if got.Fields[i].Name != name {
			t.Errorf("expected field %d to be %s, got %s", i, name, got.Fields[i].Name)
		}
	}

	if duration := got.Field("duration"); duration.Int != 1200 {
		t.Errorf("expected duration 1200, got %d", duration.Int)
	}
	wantPadding := registry.Margins{Left: 10, Top: 8, Right: 10, Bottom: 8}
	if padding := got.Field("padding"); padding.Margins != wantPadding {
		t.Errorf("expected padding %v, got %v", wantPadding, padding.Margins)
	}
	if opaque := got.Field("opaque"); !opaque.Bool {
		t.Error("expected opaque to resolve to true")
	}
}

func TestInheritanceOverride(t *testing.T) {
	src := `
Btn { height: pixels; }

a: Btn { height: 30px; }
b: Btn(a) { }
c: Btn(a) { height: 40px; }
`
	r, _ := newTestResolver(t, src, nil, "")
	if err := r.ResolveAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := r.Resolve("a")
	b, _ := r.Resolve("b")
	c, _ := r.Resolve("c")

	if got := a.Field("height").Int; got != 30 {
		t.Errorf("expected a.height 30, got %d", got)
	}
	if got := b.Field("height").Int; got != 30 {
		t.Errorf("expected b.height inherited as 30, got %d", got)
	}
	if got := c.Field("height").Int; got != 40 {
		t.Errorf("expected c.height overridden to 40, got %d", got)
	}
	// Overriding in c must never write through to the base.
	if got := a.Field("height").Int; got != 30 {
		t.Errorf("expected a.height to stay 30 after resolving c, got %d", got)
	}
}

func TestWidenedShapes(t *testing.T) {
	src := `
Toast { duration: int; }

toast: Toast {
	duration: 1200;
	skip: 4px;
}

tallToast: Toast(toast) {
	height: 96px;
}
`
	r, _ := newTestResolver(t, src, nil, "")
	if err := r.ResolveAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toast, _ := r.Resolve("toast")
	if skip := toast.Field("skip"); skip == nil || skip.Kind != registry.KIND_PIXELS || skip.Int != 4 {
		t.Fatalf("expected widened field skip: 4px, got %v", skip)
	}

	// Widened fields survive further inheritance.
	tall, _ := r.Resolve("tallToast")
	wantOrder := []string{"duration", "skip", "height"}
	if len(tall.Fields) != len(wantOrder) {
		t.Fatalf("expected %d fields, got %d", len(wantOrder), len(tall.Fields))
	}
	for i, name := range wantOrder {
		if tall.Fields[i].Name != name {
			t.Errorf("expected field %d to be %s, got %s", i, name, tall.Fields[i].Name)
		}
	}
	if skip := tall.Field("skip"); skip.Int != 4 {
		t.Errorf("expected inherited skip 4, got %d", skip.Int)
	}
}

func TestAnonymousValue(t *testing.T) {
	src := `
dialogRow {
	height: 52px;
	paintRipple: true;
}
`
	r, _ := newTestResolver(t, src, nil, "")

	got, err := r.Resolve("dialogRow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsStruct || got.Type != nil {
		t.Fatalf("expected an anonymous structure, got %v", got)
	}
	if len(got.Fields) != 2 || got.Fields[0].Name != "height" || got.Fields[1].Name != "paintRipple" {
		t.Fatalf("expected fields [height paintRipple], got %v", got.Fields)
	}
	if height := got.Field("height"); height.Kind != registry.KIND_PIXELS || height.Int != 52 {
		t.Errorf("expected height 52px, got %v", height)
	}
}

func TestReferencesResolveOutOfOrder(t *testing.T) {
	src := `
defaultLineHeight: 30px;
labelLineHeight: defaultLineHeight;

first: second;
second: 10;
`
	r, _ := newTestResolver(t, src, nil, "")
	if err := r.ResolveAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, _ := r.Resolve("labelLineHeight")
	if label.Kind != registry.KIND_PIXELS || label.Int != 30 {
		t.Errorf("expected labelLineHeight 30px, got %v", label)
	}

	// first references a value declared after it.
	first, _ := r.Resolve("first")
	if first.Kind != registry.KIND_INT || first.Int != 10 {
		t.Errorf("expected first to resolve through second to 10, got %v", first)
	}
}

func TestColorReferences(t *testing.T) {
	colors := palette.Map{
		"windowBg": palette.MustParse("windowBg", "#17212b"),
	}
	src := `
Panel { bg: color; }

panel: Panel { bg: windowBg; }
`
	r, _ := newTestResolver(t, src, colors, "")

	got, err := r.Resolve("panel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bg := got.Field("bg")
	if bg.Kind != registry.KIND_COLOR {
		t.Fatalf("expected a color field, got %v", bg)
	}
	if hex := bg.Color.Hex(); hex != "#17212b" {
		t.Errorf("expected #17212b, got %s", hex)
	}
}

func TestResolveIcon(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "icons/bg.svg")
	writeAsset(t, root, "icons/fg.png")
	writeAsset(t, root, "icons/fg@2x.png")

	colors := palette.Map{
		"iconBg": palette.MustParse("iconBg", "#40a7e3"),
		"iconFg": palette.MustParse("iconFg", "#ffffff"),
	}
	src := `
layeredIcon: icon {
	{"icons/bg", iconBg},
	{"icons/fg", iconFg}
};
`
	r, _ := newTestResolver(t, src, colors, root)

	got, err := r.Resolve("layeredIcon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != registry.KIND_ICON || len(got.Icon.Layers) != 2 {
		t.Fatalf("expected a two layer icon, got %v", got)
	}

	// Layers keep source order, painted bottom to top.
	bg, fg := got.Icon.Layers[0], got.Icon.Layers[1]
	if bg.Asset.Stem != "icons/bg" || !bg.Asset.IsVector() {
		t.Errorf("expected vector bottom layer icons/bg, got %v", bg.Asset)
	}
	if bg.Color.Name != "iconBg" {
		t.Errorf("expected bottom layer color iconBg, got %s", bg.Color.Name)
	}
	if fg.Asset.Stem != "icons/fg" || len(fg.Asset.Files) != 2 {
		t.Errorf("expected raster top layer with 2 density variants, got %v", fg.Asset)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		input   string
		kind    diagnostics.Kind
		message string
	}{
		{
			input:   "Btn { height: pixels; } a: Btn { height: true; }",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "field 'height' expects pixels, got bool",
		},
		{
			input:   "Btn { height: pixels; } a: Btn { }",
			kind:    diagnostics.MISSING_FIELD_ERROR,
			message: "field 'height' of type 'Btn' was never assigned in 'a'",
		},
		{
			input: "a: missing;",
			kind:  diagnostics.UNDEFINED_NAME_ERROR,
		},
		{
			input:   "Panel { bg: color; } p: Panel { bg: missing; }",
			kind:    diagnostics.UNDEFINED_COLOR_ERROR,
			message: "color 'missing' is not defined",
		},
		{
			input:   "a: b; b: a;",
			kind:    diagnostics.CYCLIC_REFERENCE_ERROR,
			message: "a -> b -> a",
		},
		{
			input: "Btn { h: pixels; } a: Btn(b) { h: 1px; } b: Btn(a) { h: 2px; }",
			kind:  diagnostics.CYCLIC_REFERENCE_ERROR,
		},
		{
			input:   "a: align(middle);",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "unknown alignment 'middle'",
		},
		{
			input:   "a: margins(1, 2);",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "margins expects 4 arguments, got 2",
		},
		{
			input:   "a: font(13px, shiny);",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "unknown font flag 'shiny'",
		},
		{
			input:   "a: Missing { };",
			kind:    diagnostics.UNDEFINED_NAME_ERROR,
			message: "type 'Missing' is not defined",
		},
		{
			input:   "Btn { h: pixels; } scalar: 4; a: Btn(scalar) { h: 1px; }",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "base value 'scalar' is not a structured value",
		},
		{
			// An inherited field must still fit the declared type.
			input:   "Btn { h: pixels; } g { h: true; } bad: Btn(g) { }",
			kind:    diagnostics.TYPE_MISMATCH_ERROR,
			message: "field 'h' of type 'Btn' expects pixels, got bool",
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestResolveError(%q)", test.input), func(t *testing.T) {
			r, collector := newTestResolver(t, test.input, nil, "")

			err := r.ResolveAll()
			if err != diagnostics.COMPILER_ERROR_FOUND {
				t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
			}
			if !collector.HasErrors() {
				t.Fatal("expected collector to have diagnostics")
			}

			diag := collector.Diags[0]
			if diag.Kind != test.kind {
				t.Errorf("expected %v, got %v", test.kind, diag.Kind)
			}
			if test.message != "" && !strings.Contains(diag.Message, test.message) {
				t.Errorf("expected message to contain %q, got %q", test.message, diag.Message)
			}
		})
	}
}

func TestIconErrors(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "icons/bg.svg")

	colors := palette.Map{
		"iconBg": palette.MustParse("iconBg", "#40a7e3"),
	}

	tests := []struct {
		input string
		kind  diagnostics.Kind
	}{
		{
			input: `ic: icon {"icons/missing", iconBg};`,
			kind:  diagnostics.ASSET_NOT_FOUND_ERROR,
		},
		{
			// Flips only apply to raster assets.
			input: `ic: icon {"icons/bg_flip_horizontal", iconBg};`,
			kind:  diagnostics.MODIFIER_INCOMPATIBLE_ERROR,
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestIconError(%q)", test.input), func(t *testing.T) {
			r, collector := newTestResolver(t, test.input, colors, root)

			err := r.ResolveAll()
			if err != diagnostics.COMPILER_ERROR_FOUND {
				t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
			}
			if collector.Diags[0].Kind != test.kind {
				t.Errorf("expected %v, got %v", test.kind, collector.Diags[0].Kind)
			}
		})
	}
}
