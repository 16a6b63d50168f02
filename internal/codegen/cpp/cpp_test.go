package cpp

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/palette"
	"github.com/cardaba/tdesktop/internal/parser"
	"github.com/cardaba/tdesktop/internal/registry"
	"github.com/cardaba/tdesktop/internal/resolver"
)

func buildResolved(t *testing.T, src string, colors palette.Map, iconRoot string) *registry.Registry {
	t.Helper()

	module, err := parser.ParseModuleFrom(src, "test")
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

	if iconRoot == "" {
		iconRoot = t.TempDir()
	}
	collector := diagnostics.NewWithOutput(io.Discard)
	r := resolver.New(reg, colors, assets.NewResolver(iconRoot), collector)
	if err := r.ResolveAll(); err != nil {
		t.Fatalf("unexpected resolution error: %v", err)
	}
	return reg
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading %s: %v", path, err)
	}
	return string(content)
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

func TestGenerateModule(t *testing.T) {
	src := `
Toast {
	duration: int;
	padding: margins;
}

defaultToast: Toast {
	duration: 1200;
	padding: margins(10, 8, 10, 8);
}

toastFadeOut: 0.68;
`
	reg := buildResolved(t, src, nil, "")
	outDir := t.TempDir()

	written, err := New(reg, outDir).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 written files, got %d", len(written))
	}

	wantHeader := `// Generated by stylec, do not edit.
#pragma once

#include "style_core.h"

namespace st {

struct Toast {
	int duration;
	style::margins padding;
};

extern const Toast defaultToast;
extern const double toastFadeOut;

} // namespace st
`
	if got := readFile(t, filepath.Join(outDir, "style_test.h")); got != wantHeader {
		t.Errorf("header mismatch:\nexpected:\n%s\ngot:\n%s", wantHeader, got)
	}

	wantUnit := `// Generated by stylec, do not edit.
#include "style_test.h"

namespace st {

const Toast defaultToast = Toast{
	1200,
	style::margins(10, 8, 10, 8),
};

const double toastFadeOut = 0.68;

} // namespace st
`
	if got := readFile(t, filepath.Join(outDir, "style_test.cpp")); got != wantUnit {
		t.Errorf("unit mismatch:\nexpected:\n%s\ngot:\n%s", wantUnit, got)
	}
}

func TestGenerateSynthesizedShapes(t *testing.T) {
	src := `
Btn { height: pixels; }

plainBtn: Btn { height: 30px; }
badgeBtn: Btn(plainBtn) { badge: point(-2, 0); }

dialogRow {
	rowHeight: 52px;
	paintRipple: true;
}
`
	reg := buildResolved(t, src, nil, "")
	outDir := t.TempDir()

	if _, err := New(reg, outDir).Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := readFile(t, filepath.Join(outDir, "style_test.h"))

	// Values matching their declared type reuse the nominal struct.
	if !strings.Contains(header, "extern const Btn plainBtn;") {
		t.Errorf("expected plainBtn to stay a Btn, got:\n%s", header)
	}

	// Widened and anonymous values get one-off shapes.
	wantBadge := "struct Style_badgeBtn {\n\tint height;\n\tstyle::point badge;\n};"
	if !strings.Contains(header, wantBadge) {
		t.Errorf("expected widened shape declaration, got:\n%s", header)
	}
	wantRow := "struct Style_dialogRow {\n\tint rowHeight;\n\tbool paintRipple;\n};"
	if !strings.Contains(header, wantRow) {
		t.Errorf("expected anonymous shape declaration, got:\n%s", header)
	}
	if !strings.Contains(header, "extern const Style_badgeBtn badgeBtn;") {
		t.Errorf("expected badgeBtn extern declaration, got:\n%s", header)
	}

	unit := readFile(t, filepath.Join(outDir, "style_test.cpp"))
	wantInit := "const Style_badgeBtn badgeBtn = Style_badgeBtn{\n\t30,\n\tstyle::point(-2, 0),\n};"
	if !strings.Contains(unit, wantInit) {
		t.Errorf("expected widened initializer, got:\n%s", unit)
	}
}

func TestGenerateNestedTypes(t *testing.T) {
	src := `
Wrap {
	inner: Inner;
	pad: margins;
}
Inner { w: int; }

innerDefault: Inner { w: 5; }
wrapDefault: Wrap {
	inner: innerDefault;
	pad: margins(1, 2, 3, 4);
}
`
	reg := buildResolved(t, src, nil, "")
	outDir := t.TempDir()

	if _, err := New(reg, outDir).Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := readFile(t, filepath.Join(outDir, "style_test.h"))

	// A struct must be declared after the structs its fields embed.
	innerAt := strings.Index(header, "struct Inner {")
	wrapAt := strings.Index(header, "struct Wrap {")
	if innerAt == -1 || wrapAt == -1 || innerAt > wrapAt {
		t.Errorf("expected Inner declared before Wrap, got:\n%s", header)
	}

	unit := readFile(t, filepath.Join(outDir, "style_test.cpp"))
	if !strings.Contains(unit, "\tInner{5},\n") {
		t.Errorf("expected nested initializer Inner{5}, got:\n%s", unit)
	}
}

func TestGenerateIconsAndFonts(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "icons/send.svg")
	writeAsset(t, root, "icons/badge.png")
	writeAsset(t, root, "icons/badge@2x.png")

	colors := palette.Map{
		"sendBg":  palette.MustParse("sendBg", "#40a7e3"),
		"badgeBg": palette.MustParse("badgeBg", "#ffffff7f"),
	}
	src := `
sendIcon: icon {"icons/send-24x24", sendBg};
badgeIcon: icon {"icons/badge_flip_horizontal", badgeBg};
titleFont: font(14, bold);
labelAlign: align(center);
`
	reg := buildResolved(t, src, colors, root)
	outDir := t.TempDir()

	if _, err := New(reg, outDir).Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unit := readFile(t, filepath.Join(outDir, "style_test.cpp"))

	wantSend := `const style::icon sendIcon = style::icon({style::icon_layer("icons/send.svg", style::color(0x40, 0xa7, 0xe3, 0xff), style::forced_size(24, 24))});`
	if !strings.Contains(unit, wantSend) {
		t.Errorf("expected forced size vector layer, got:\n%s", unit)
	}

	wantBadge := `const style::icon badgeIcon = style::icon({style::icon_layer("icons/badge.png", style::color(0xff, 0xff, 0xff, 0x7f), style::flip_horizontal)});`
	if !strings.Contains(unit, wantBadge) {
		t.Errorf("expected flipped raster layer, got:\n%s", unit)
	}

	if !strings.Contains(unit, "const style::font titleFont = style::font(14, style::font_bold);") {
		t.Errorf("expected font initializer, got:\n%s", unit)
	}
	if !strings.Contains(unit, "const style::align labelAlign = style::al_center;") {
		t.Errorf("expected align initializer, got:\n%s", unit)
	}
}

func TestGenerateImports(t *testing.T) {
	src := `
using "palette/colors.style";

rowHeight: 52px;
`
	reg := buildResolved(t, src, nil, "")
	outDir := t.TempDir()

	if _, err := New(reg, outDir).Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := readFile(t, filepath.Join(outDir, "style_test.h"))
	if !strings.Contains(header, "#include \"style_colors.h\"") {
		t.Errorf("expected generated include for the imported module, got:\n%s", header)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := `
Btn { height: pixels; }
plainBtn: Btn { height: 30px; }
ripple: 0.5;
`
	reg := buildResolved(t, src, nil, "")
	outDir := t.TempDir()

	gen := New(reg, outDir)
	if _, err := gen.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := map[string][]byte{}
	for _, name := range []string{"style_test.h", "style_test.cpp"} {
		first[name] = []byte(readFile(t, filepath.Join(outDir, name)))
	}

	if _, err := gen.Generate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, want := range first {
		got := []byte(readFile(t, filepath.Join(outDir, name)))
		if !bytes.Equal(want, got) {
			t.Errorf("expected byte identical rerun for %s", name)
		}
	}
}
