package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cardaba/tdesktop/internal/diagnostics"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDiamondImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "common.style", "baseHeight: 24px;\n")
	writeModule(t, dir, "a.style", "using \"common.style\";\n\naPad: margins(1, 1, 1, 1);\n")
	writeModule(t, dir, "b.style", "using \"common.style\";\n\nbCount: 2;\n")
	root := writeModule(t, dir, "root.style", "using \"a.style\";\nusing \"b.style\";\n\nrootFlag: true;\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	unit, err := New(collector).Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// common is reached twice but parsed once.
	if len(unit.Modules) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(unit.Modules))
	}

	wantOrder := []string{"common", "a", "b", "root"}
	for i, name := range wantOrder {
		if unit.Modules[i].Loc.Name != name {
			t.Errorf("expected module %d to be %s, got %s", i, name, unit.Modules[i].Loc.Name)
		}
	}
	if unit.Root.Loc.Name != "root" {
		t.Errorf("expected root module, got %s", unit.Root.Loc.Name)
	}

	for _, name := range []string{"baseHeight", "aPad", "bCount", "rootFlag"} {
		if _, err := unit.Registry.LookupValue(name); err != nil {
			t.Errorf("expected %s to be registered, got %v", name, err)
		}
	}
}

func TestLoadCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.style", "using \"b.style\";\n\nx: 1;\n")
	writeModule(t, dir, "b.style", "using \"a.style\";\n\ny: 2;\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	_, err := New(collector).Load(a)
	if err != diagnostics.COMPILER_ERROR_FOUND {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}

	diag := collector.Diags[0]
	if diag.Kind != diagnostics.CYCLIC_IMPORT_ERROR {
		t.Errorf("expected CYCLIC_IMPORT_ERROR, got %v", diag.Kind)
	}
	if want := "a.style -> b.style -> a.style"; !strings.Contains(diag.Message, want) {
		t.Errorf("expected message to contain %q, got %q", want, diag.Message)
	}
}

func TestLoadSelfImport(t *testing.T) {
	dir := t.TempDir()
	a := writeModule(t, dir, "a.style", "using \"a.style\";\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	_, err := New(collector).Load(a)
	if err != diagnostics.COMPILER_ERROR_FOUND {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	if want := "a.style -> a.style"; !strings.Contains(collector.Diags[0].Message, want) {
		t.Errorf("expected message to contain %q, got %q", want, collector.Diags[0].Message)
	}
}

func TestLoadDuplicateAcrossModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "one.style", "rowHeight: 10;\n")
	writeModule(t, dir, "two.style", "rowHeight: 20;\n")
	root := writeModule(t, dir, "root.style", "using \"one.style\";\nusing \"two.style\";\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	_, err := New(collector).Load(root)
	if err != diagnostics.COMPILER_ERROR_FOUND {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}

	diag := collector.Diags[0]
	if diag.Kind != diagnostics.DUPLICATE_DECLARATION_ERROR {
		t.Errorf("expected DUPLICATE_DECLARATION_ERROR, got %v", diag.Kind)
	}
	if !strings.Contains(diag.Message, "rowHeight") || !strings.Contains(diag.Message, "one.style") {
		t.Errorf("expected message naming both origins, got %q", diag.Message)
	}
}

func TestLoadSearchDirs(t *testing.T) {
	libDir := t.TempDir()
	writeModule(t, libDir, "shared.style", "sharedPad: 4px;\n")

	rootDir := t.TempDir()
	root := writeModule(t, rootDir, "root.style", "using \"shared.style\";\n\nownPad: 8px;\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	unit, err := New(collector, libDir).Load(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := unit.Registry.LookupValue("sharedPad"); err != nil {
		t.Errorf("expected sharedPad from the search dir, got %v", err)
	}
}

func TestLoadMissingImport(t *testing.T) {
	dir := t.TempDir()
	root := writeModule(t, dir, "root.style", "using \"nope.style\";\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	_, err := New(collector).Load(root)
	if err == nil || !strings.Contains(err.Error(), "cannot find module") {
		t.Fatalf("expected a missing module error, got %v", err)
	}
}

func TestLoadParseErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	root := writeModule(t, dir, "root.style", "rowHeight: ;\n")

	collector := diagnostics.NewWithOutput(io.Discard)
	_, err := New(collector).Load(root)
	if err != diagnostics.COMPILER_ERROR_FOUND {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	if collector.Diags[0].Kind != diagnostics.PARSE_ERROR {
		t.Errorf("expected PARSE_ERROR, got %v", collector.Diags[0].Kind)
	}
}
