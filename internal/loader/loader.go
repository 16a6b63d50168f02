// Package loader walks the using closure of a root style file. It
// parses every reachable module, independent files in parallel,
// dedups diamond imports by canonical path, rejects import cycles
// and flattens all declarations into one registry namespace.
package loader

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/lexer"
	"github.com/cardaba/tdesktop/internal/lexer/token"
	"github.com/cardaba/tdesktop/internal/parser"
	"github.com/cardaba/tdesktop/internal/registry"
)

// Unit is a loaded compilation unit: every module reachable from
// the root in dependency order, imports before importers, plus the
// flattened declaration namespace they share.
type Unit struct {
	Root     *ast.SourceModule
	Modules  []*ast.SourceModule
	Registry *registry.Registry
}

type Loader struct {
	collector  *diagnostics.Collector
	searchDirs []string

	modules map[string]*ast.SourceModule // keyed by canonical path
	edges   map[string][]*importEdge
}

type importEdge struct {
	to   string       // canonical path of the imported module
	tok  *token.Token // the quoted path in the importing file
	from *ast.SourceModule
}

func New(collector *diagnostics.Collector, searchDirs ...string) *Loader {
	return &Loader{
		collector:  collector,
		searchDirs: searchDirs,
		modules:    make(map[string]*ast.SourceModule),
		edges:      make(map[string][]*importEdge),
	}
}

func (l *Loader) Load(rootPath string) (*Unit, error) {
	rootLoc, err := ast.LocFromPath(rootPath)
	if err != nil {
		return nil, err
	}

	if err := l.parseClosure(rootLoc); err != nil {
		return nil, err
	}

	ordered, err := l.sortModules(rootLoc.Path)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	for _, module := range ordered {
		if err := l.register(reg, module); err != nil {
			return nil, err
		}
	}

	return &Unit{Root: l.modules[rootLoc.Path], Modules: ordered, Registry: reg}, nil
}

// parseClosure parses the import graph in waves: every module of a
// wave is independent of the others, so a wave parses in parallel.
// Bookkeeping between waves stays single threaded.
func (l *Loader) parseClosure(root *ast.Loc) error {
	wave := []*ast.Loc{root}

	for len(wave) > 0 {
		parsed := make([]*ast.SourceModule, len(wave))

		var group errgroup.Group
		for i, loc := range wave {
			group.Go(func() error {
				module, err := l.parseModule(loc)
				if err != nil {
					return err
				}
				parsed[i] = module
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		var next []*ast.Loc
		queued := make(map[string]bool)
		for _, module := range parsed {
			l.modules[module.Loc.Path] = module

			for _, using := range module.Imports {
				loc, err := l.findModule(module, using)
				if err != nil {
					return err
				}
				l.edges[module.Loc.Path] = append(l.edges[module.Loc.Path], &importEdge{
					to:   loc.Path,
					tok:  using.Path,
					from: module,
				})

				if _, ok := l.modules[loc.Path]; ok {
					continue
				}
				if queued[loc.Path] {
					continue
				}
				queued[loc.Path] = true
				next = append(next, loc)
			}
		}
		wave = next
	}
	return nil
}

func (l *Loader) parseModule(loc *ast.Loc) (*ast.SourceModule, error) {
	lex, err := lexer.NewFromFilePath(loc, l.collector)
	if err != nil {
		return nil, fmt.Errorf("cannot read module %s: %w", loc.Path, err)
	}
	p := parser.New(l.collector)
	return p.ParseModule(lex)
}

// findModule resolves a using path against the importing module's
// directory first, then the -I search directories.
func (l *Loader) findModule(from *ast.SourceModule, using *ast.UsingDecl) (*ast.Loc, error) {
	raw := using.Path.Name()

	var candidates []string
	if filepath.IsAbs(raw) {
		candidates = append(candidates, raw)
	} else {
		candidates = append(candidates, filepath.Join(from.Loc.Dir, raw))
		for _, dir := range l.searchDirs {
			candidates = append(candidates, filepath.Join(dir, raw))
		}
	}

	for _, candidate := range candidates {
		loc, err := ast.LocFromPath(candidate)
		if err == nil {
			return loc, nil
		}
	}
	return nil, fmt.Errorf("cannot find module %q imported from %s", raw, filepath.Base(from.Loc.Path))
}

// sortModules produces the dependency order and rejects cycles.
func (l *Loader) sortModules(rootPath string) ([]*ast.SourceModule, error) {
	type visitState int
	const (
		NOT_VISITED visitState = iota
		VISITING
		VISITED
	)

	states := make(map[string]visitState)
	var ordered []*ast.SourceModule
	var stack []string

	var visit func(path string) error
	visit = func(path string) error {
		states[path] = VISITING
		stack = append(stack, path)

		for _, edge := range l.edges[path] {
			switch states[edge.to] {
			case VISITED:
				continue
			case VISITING:
				cyclicImport := diagnostics.Diag{
					Kind:    diagnostics.CYCLIC_IMPORT_ERROR,
					Pos:     edge.tok.Pos,
					Message: fmt.Sprintf("cyclic import: %s", importChain(stack, edge.to)),
					Snippet: diagnostics.Snippet(edge.from.Src, edge.tok.Pos.Line, edge.tok.Pos.Column),
				}
				l.collector.ReportAndSave(cyclicImport)
				return diagnostics.COMPILER_ERROR_FOUND
			}
			if err := visit(edge.to); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		states[path] = VISITED
		ordered = append(ordered, l.modules[path])
		return nil
	}

	if err := visit(rootPath); err != nil {
		return nil, err
	}
	return ordered, nil
}

func importChain(stack []string, to string) string {
	start := 0
	for i, path := range stack {
		if path == to {
			start = i
			break
		}
	}

	var names []string
	for _, path := range stack[start:] {
		names = append(names, filepath.Base(path))
	}
	names = append(names, filepath.Base(to))
	return strings.Join(names, " -> ")
}

func (l *Loader) register(reg *registry.Registry, module *ast.SourceModule) error {
	for _, node := range module.Body {
		switch node.Kind {
		case ast.KIND_TYPE_DECL:
			decl := node.Node.(*ast.TypeDecl)
			if err := reg.RegisterType(decl, module); err != nil {
				return l.registrationError(reg, err, decl.Name, module)
			}
		case ast.KIND_VALUE_DECL:
			decl := node.Node.(*ast.ValueDecl)
			if err := reg.RegisterValue(decl, module); err != nil {
				return l.registrationError(reg, err, decl.Name, module)
			}
		default:
			log.Fatalf("unimplemented declaration kind on loader: %v", node.Kind)
		}
	}
	return nil
}

func (l *Loader) registrationError(
	reg *registry.Registry,
	err error,
	name *token.Token,
	module *ast.SourceModule,
) error {
	switch err {
	case registry.ERR_RESERVED_NAME:
		reservedName := diagnostics.Diag{
			Kind:    diagnostics.RESERVED_NAME_ERROR,
			Pos:     name.Pos,
			Message: fmt.Sprintf("'%s' is a builtin type name and cannot be redeclared", name.Name()),
			Snippet: diagnostics.Snippet(module.Src, name.Pos.Line, name.Pos.Column),
		}
		l.collector.ReportAndSave(reservedName)
		return diagnostics.COMPILER_ERROR_FOUND
	case registry.ERR_NAME_ALREADY_DEFINED:
		duplicate := diagnostics.Diag{
			Kind: diagnostics.DUPLICATE_DECLARATION_ERROR,
			Pos:  name.Pos,
			Message: fmt.Sprintf(
				"name '%s' declared twice, first declared in %s",
				name.Name(),
				l.firstOrigin(reg, name.Name()),
			),
			Snippet: diagnostics.Snippet(module.Src, name.Pos.Line, name.Pos.Column),
		}
		l.collector.ReportAndSave(duplicate)
		return diagnostics.COMPILER_ERROR_FOUND
	default:
		return err
	}
}

func (l *Loader) firstOrigin(reg *registry.Registry, name string) string {
	if st, err := reg.LookupType(name); err == nil && st.Module != nil {
		return filepath.Base(st.Module.Loc.Path)
	}
	if entry, err := reg.LookupValue(name); err == nil && entry.Module != nil {
		return filepath.Base(entry.Module.Loc.Path)
	}
	return "this compilation unit"
}
