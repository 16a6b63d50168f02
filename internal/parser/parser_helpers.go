package parser

import (
	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/lexer"
)

const defaultFilename = "test.style"

func FakeLoc(filename string) *ast.Loc {
	if filename == "" {
		filename = defaultFilename
	}
	return &ast.Loc{Name: filename}
}

// Useful for testing
func ParseModuleFrom(src, filename string) (*ast.SourceModule, error) {
	collector := diagnostics.New()

	loc := FakeLoc(filename)
	lex := lexer.New(loc, []byte(src), collector)
	p := NewWithLex(lex, collector)

	return p.ParseModule(lex)
}

func ParseDeclFrom(src, filename string) (*ast.Node, error) {
	collector := diagnostics.New()

	loc := FakeLoc(filename)
	lex := lexer.New(loc, []byte(src), collector)
	p := NewWithLex(lex, collector)

	node, _, err := p.next()
	return node, err
}

func ParseExprFrom(expr, filename string) (*ast.Node, error) {
	collector := diagnostics.New()

	loc := FakeLoc(filename)
	lex := lexer.New(loc, []byte(expr), collector)
	p := NewWithLex(lex, collector)

	exprAst, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return exprAst, nil
}
