package parser

import (
	"fmt"
	"unicode"

	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/lexer"
	"github.com/cardaba/tdesktop/internal/lexer/token"
)

type Parser struct {
	lex       *lexer.Lexer
	collector *diagnostics.Collector
}

func New(collector *diagnostics.Collector) *Parser {
	parser := new(Parser)
	parser.lex = nil
	parser.collector = collector
	return parser
}

// Useful for testing
func NewWithLex(lex *lexer.Lexer, collector *diagnostics.Collector) *Parser {
	return &Parser{lex: lex, collector: collector}
}

// ParseModule consumes the lexer's whole token stream and produces
// the module's declaration list. Using declarations must come before
// any type or value declaration.
func (p *Parser) ParseModule(lex *lexer.Lexer) (*ast.SourceModule, error) {
	module := &ast.SourceModule{
		Loc: lex.Loc,
		Src: lex.Src(),
	}

	p.lex = lex

	err := p.parseModuleDecls(module)
	if err != nil {
		return nil, err
	}

	return module, nil
}

func (p *Parser) parseModuleDecls(module *ast.SourceModule) error {
	declFound := false

	for {
		node, eof, err := p.next()
		if err != nil {
			return err
		}
		if eof {
			break
		}
		if node == nil {
			continue
		}

		if node.Kind == ast.KIND_USING_DECL {
			if declFound {
				pos := node.Pos()
				importAfterDecl := diagnostics.Diag{
					Kind:    diagnostics.PARSE_ERROR,
					Pos:     pos,
					Message: "using declarations must come before any type or value declaration",
					Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
				}
				p.collector.ReportAndSave(importAfterDecl)
				return diagnostics.COMPILER_ERROR_FOUND
			}
			module.Imports = append(module.Imports, node.Node.(*ast.UsingDecl))
			continue
		}

		declFound = true
		module.Body = append(module.Body, node)
	}

	return nil
}

func (p *Parser) next() (*ast.Node, bool, error) {
	eof := false

	tok := p.lex.Peek()
	if tok.Kind == token.EOF {
		eof = true
		return nil, eof, nil
	}

	switch tok.Kind {
	case token.SEMICOLON:
		// Stray terminator, harmless.
		p.lex.Skip()
		return nil, eof, nil
	case token.USING:
		using, err := p.parseUsing()
		return using, eof, err
	case token.ID:
		if isTypeName(tok) {
			typeDecl, err := p.parseTypeDecl()
			return typeDecl, eof, err
		}
		valueDecl, err := p.parseValueDecl()
		return valueDecl, eof, err
	default:
		pos := tok.Pos
		if tok.Kind.IsBuiltinType() {
			reservedName := diagnostics.Diag{
				Kind:    diagnostics.RESERVED_NAME_ERROR,
				Pos:     pos,
				Message: fmt.Sprintf("'%s' is a builtin type name and cannot be redeclared", tok.Kind),
				Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
			}
			p.collector.ReportAndSave(reservedName)
			return nil, eof, diagnostics.COMPILER_ERROR_FOUND
		}
		unexpectedToken := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected a declaration, not %s", tok.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(unexpectedToken)
		return nil, eof, diagnostics.COMPILER_ERROR_FOUND
	}
}

// Type names begin with an uppercase letter, value names do not.
func isTypeName(tok *token.Token) bool {
	if len(tok.Lexeme) == 0 {
		return false
	}
	return unicode.IsUpper(rune(tok.Lexeme[0]))
}

func (p *Parser) parseUsing() (*ast.Node, error) {
	using, ok := p.expect(token.USING)
	if !ok {
		return nil, fmt.Errorf("expected 'using' keyword, not %s", using.Kind)
	}

	path, ok := p.expect(token.STRING_LITERAL)
	if !ok {
		pos := path.Pos
		expectedPath := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected a quoted module path, not %s", path.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedPath)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	semi, ok := p.expect(token.SEMICOLON)
	if !ok {
		pos := semi.Pos
		expectedSemicolon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ';' after using declaration, not %s", semi.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedSemicolon)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	node := new(ast.Node)
	node.Kind = ast.KIND_USING_DECL
	node.Node = &ast.UsingDecl{Path: path}
	return node, nil
}

func (p *Parser) parseTypeDecl() (*ast.Node, error) {
	name, ok := p.expect(token.ID)
	if !ok {
		return nil, fmt.Errorf("expected type name, not %s", name.Kind)
	}

	openCurly, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		pos := openCurly.Pos
		expectedOpenCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '{' after type name '%s', not %s", name.Name(), openCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedOpenCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var fields []*ast.FieldDecl
	seen := make(map[string]bool)
	for {
		if p.lex.NextIs(token.CLOSE_CURLY) {
			break
		}
		field, err := p.parseFieldDecl()
		if err != nil {
			return nil, err
		}
		if seen[field.Name.Name()] {
			pos := field.Name.Pos
			duplicateField := diagnostics.Diag{
				Kind:    diagnostics.PARSE_ERROR,
				Pos:     pos,
				Message: fmt.Sprintf("field '%s' declared twice in type '%s'", field.Name.Name(), name.Name()),
				Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
			}
			p.collector.ReportAndSave(duplicateField)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		seen[field.Name.Name()] = true
		fields = append(fields, field)
	}

	_, ok = p.expect(token.CLOSE_CURLY)
	if !ok {
		return nil, fmt.Errorf("expected '}' closing type '%s'", name.Name())
	}
	if p.lex.NextIs(token.SEMICOLON) {
		p.lex.Skip()
	}

	node := new(ast.Node)
	node.Kind = ast.KIND_TYPE_DECL
	node.Node = &ast.TypeDecl{Name: name, Fields: fields}
	return node, nil
}

func (p *Parser) parseFieldDecl() (*ast.FieldDecl, error) {
	name, ok := p.expectFieldName()
	if !ok {
		pos := name.Pos
		expectedName := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected field name, not %s", name.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedName)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	colon, ok := p.expect(token.COLON)
	if !ok {
		pos := colon.Pos
		expectedColon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ':' after field name '%s', not %s", name.Name(), colon.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedColon)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	fieldType, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}

	semi, ok := p.expect(token.SEMICOLON)
	if !ok {
		pos := semi.Pos
		expectedSemicolon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ';' after field '%s', not %s", name.Name(), semi.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedSemicolon)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	return &ast.FieldDecl{Name: name, Type: fieldType}, nil
}

func (p *Parser) parseFieldType() (*ast.StyleType, error) {
	tok := p.lex.Peek()

	if tok.Kind.IsBuiltinType() {
		p.lex.Skip()
		return ast.NewBuiltinType(tok.Kind), nil
	}
	if tok.Kind == token.ID && isTypeName(tok) {
		p.lex.Skip()
		return ast.NewNamedType(tok), nil
	}

	pos := tok.Pos
	expectedType := diagnostics.Diag{
		Kind:    diagnostics.PARSE_ERROR,
		Pos:     pos,
		Message: fmt.Sprintf("expected a field type, not %s", tok.Kind),
		Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
	}
	p.collector.ReportAndSave(expectedType)
	return nil, diagnostics.COMPILER_ERROR_FOUND
}

func (p *Parser) parseValueDecl() (*ast.Node, error) {
	name, ok := p.expect(token.ID)
	if !ok {
		return nil, fmt.Errorf("expected value name, not %s", name.Kind)
	}

	value := new(ast.ValueDecl)
	value.Name = name

	tok := p.lex.Peek()
	switch tok.Kind {
	case token.COLON:
		p.lex.Skip()
		err := p.parseValueBody(value)
		if err != nil {
			return nil, err
		}
	case token.OPEN_CURLY:
		fields, err := p.parseValueBlock(name)
		if err != nil {
			return nil, err
		}
		value.Fields = fields
	default:
		pos := tok.Pos
		unexpectedToken := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ':' or '{' after value name '%s', not %s", name.Name(), tok.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(unexpectedToken)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	node := new(ast.Node)
	node.Kind = ast.KIND_VALUE_DECL
	node.Node = value
	return node, nil
}

func (p *Parser) parseValueBody(value *ast.ValueDecl) error {
	tok := p.lex.Peek()

	if tok.Kind == token.ID && isTypeName(tok) {
		p.lex.Skip()
		value.Type = tok

		if p.lex.NextIs(token.OPEN_PAREN) {
			p.lex.Skip()

			base, ok := p.expect(token.ID)
			if !ok {
				pos := base.Pos
				expectedBase := diagnostics.Diag{
					Kind:    diagnostics.PARSE_ERROR,
					Pos:     pos,
					Message: fmt.Sprintf("expected a base value name, not %s", base.Kind),
					Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
				}
				p.collector.ReportAndSave(expectedBase)
				return diagnostics.COMPILER_ERROR_FOUND
			}
			value.Base = base

			closeParen, ok := p.expect(token.CLOSE_PAREN)
			if !ok {
				pos := closeParen.Pos
				expectedCloseParen := diagnostics.Diag{
					Kind:    diagnostics.PARSE_ERROR,
					Pos:     pos,
					Message: fmt.Sprintf("expected ')' after base value '%s', not %s", base.Name(), closeParen.Kind),
					Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
				}
				p.collector.ReportAndSave(expectedCloseParen)
				return diagnostics.COMPILER_ERROR_FOUND
			}
		}

		fields, err := p.parseValueBlock(value.Name)
		if err != nil {
			return err
		}
		value.Fields = fields
		return nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return err
	}
	value.Value = expr

	semi, ok := p.expect(token.SEMICOLON)
	if !ok {
		pos := semi.Pos
		expectedSemicolon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ';' after value '%s', not %s", value.Name.Name(), semi.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedSemicolon)
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

// parseValueBlock parses '{' fieldAssign* '}' with an optional
// trailing ';'.
func (p *Parser) parseValueBlock(valueName *token.Token) ([]*ast.FieldAssign, error) {
	openCurly, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		pos := openCurly.Pos
		expectedOpenCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '{' in declaration of '%s', not %s", valueName.Name(), openCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedOpenCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var fields []*ast.FieldAssign
	seen := make(map[string]bool)
	for {
		if p.lex.NextIs(token.CLOSE_CURLY) {
			break
		}
		assign, err := p.parseFieldAssign()
		if err != nil {
			return nil, err
		}
		if seen[assign.Name.Name()] {
			pos := assign.Name.Pos
			duplicateAssign := diagnostics.Diag{
				Kind:    diagnostics.PARSE_ERROR,
				Pos:     pos,
				Message: fmt.Sprintf("field '%s' assigned twice in '%s'", assign.Name.Name(), valueName.Name()),
				Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
			}
			p.collector.ReportAndSave(duplicateAssign)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		seen[assign.Name.Name()] = true
		fields = append(fields, assign)
	}

	_, ok = p.expect(token.CLOSE_CURLY)
	if !ok {
		return nil, fmt.Errorf("expected '}' closing '%s'", valueName.Name())
	}
	if p.lex.NextIs(token.SEMICOLON) {
		p.lex.Skip()
	}

	return fields, nil
}

func (p *Parser) parseFieldAssign() (*ast.FieldAssign, error) {
	name, ok := p.expectFieldName()
	if !ok {
		pos := name.Pos
		expectedName := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected field name, not %s", name.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedName)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	colon, ok := p.expect(token.COLON)
	if !ok {
		pos := colon.Pos
		expectedColon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ':' after field name '%s', not %s", name.Name(), colon.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedColon)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	semi, ok := p.expect(token.SEMICOLON)
	if !ok {
		pos := semi.Pos
		expectedSemicolon := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ';' after field '%s', not %s", name.Name(), semi.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedSemicolon)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	return &ast.FieldAssign{Name: name, Value: expr}, nil
}

func (p *Parser) parseExpr() (*ast.Node, error) {
	tok := p.lex.Peek()

	switch {
	case tok.Kind.IsLiteral():
		p.lex.Skip()
		literal := &ast.LiteralExpr{Kind: tok.Kind, Value: tok.Lexeme, Pos: tok.Pos}
		return &ast.Node{Kind: ast.KIND_LITERAL_EXPR, Node: literal}, nil
	case tok.Kind == token.ID:
		p.lex.Skip()
		return &ast.Node{Kind: ast.KIND_ID_EXPR, Node: &ast.IdExpr{Name: tok}}, nil
	case tok.Kind == token.ICON_TYPE:
		return p.parseIconExpr()
	case tok.Kind.IsConstructorHead():
		return p.parseConstructorExpr()
	default:
		pos := tok.Pos
		expectedExpr := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected a value expression, not %s", tok.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedExpr)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
}

func (p *Parser) parseConstructorExpr() (*ast.Node, error) {
	head := p.lex.Peek()
	p.lex.Skip()

	openParen, ok := p.expect(token.OPEN_PAREN)
	if !ok {
		pos := openParen.Pos
		expectedOpenParen := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '(' after '%s', not %s", head.Kind, openParen.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedOpenParen)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var args []*ast.Node
	for {
		if p.lex.NextIs(token.CLOSE_PAREN) {
			break
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.lex.NextIs(token.COMMA) {
			p.lex.Skip()
			continue
		}
		break
	}

	closeParen, ok := p.expect(token.CLOSE_PAREN)
	if !ok {
		pos := closeParen.Pos
		expectedCloseParen := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ')' closing '%s(...)', not %s", head.Kind, closeParen.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedCloseParen)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	ctor := &ast.ConstructorExpr{Head: head.Kind, Pos: head.Pos, Args: args}
	return &ast.Node{Kind: ast.KIND_CONSTRUCTOR_EXPR, Node: ctor}, nil
}

// parseIconExpr parses both layered and single-layer icon literals:
//
//	icon {{ "bg", c1 }, { "fg", c2 }};
//	icon { "dialogs/dialogs_menu", menuIconFg };
func (p *Parser) parseIconExpr() (*ast.Node, error) {
	iconTok, ok := p.expect(token.ICON_TYPE)
	if !ok {
		return nil, fmt.Errorf("expected 'icon' keyword, not %s", iconTok.Kind)
	}

	openCurly, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		pos := openCurly.Pos
		expectedOpenCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '{' after 'icon', not %s", openCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedOpenCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	var layers []*ast.IconLayer
	if p.lex.NextIs(token.OPEN_CURLY) {
		for {
			layer, err := p.parseIconLayer()
			if err != nil {
				return nil, err
			}
			layers = append(layers, layer)
			if p.lex.NextIs(token.COMMA) {
				p.lex.Skip()
				continue
			}
			break
		}
	} else {
		layer, err := p.parseIconLayerBody()
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	closeCurly, ok := p.expect(token.CLOSE_CURLY)
	if !ok {
		pos := closeCurly.Pos
		expectedCloseCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '}' closing icon literal, not %s", closeCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedCloseCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	icon := &ast.IconExpr{Pos: iconTok.Pos, Layers: layers}
	return &ast.Node{Kind: ast.KIND_ICON_EXPR, Node: icon}, nil
}

func (p *Parser) parseIconLayer() (*ast.IconLayer, error) {
	openCurly, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		pos := openCurly.Pos
		expectedOpenCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '{' to begin an icon layer, not %s", openCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedOpenCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	layer, err := p.parseIconLayerBody()
	if err != nil {
		return nil, err
	}

	closeCurly, ok := p.expect(token.CLOSE_CURLY)
	if !ok {
		pos := closeCurly.Pos
		expectedCloseCurly := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected '}' closing icon layer, not %s", closeCurly.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedCloseCurly)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	return layer, nil
}

func (p *Parser) parseIconLayerBody() (*ast.IconLayer, error) {
	path, ok := p.expect(token.STRING_LITERAL)
	if !ok {
		pos := path.Pos
		expectedPath := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected an icon path string, not %s", path.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedPath)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	comma, ok := p.expect(token.COMMA)
	if !ok {
		pos := comma.Pos
		expectedComma := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     pos,
			Message: fmt.Sprintf("expected ',' and a color after icon path %q, not %s", path.Name(), comma.Kind),
			Snippet: diagnostics.Snippet(p.lex.Src(), pos.Line, pos.Column),
		}
		p.collector.ReportAndSave(expectedComma)
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}

	color, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.IconLayer{Path: path, Color: color}, nil
}

// expectFieldName accepts a plain identifier or a builtin kind name.
// Fields named after builtin kinds are common, e.g. "font: font;".
func (p *Parser) expectFieldName() (*token.Token, bool) {
	tok := p.lex.Peek()
	if tok.Kind != token.ID && !tok.Kind.IsBuiltinType() {
		return tok, false
	}
	p.lex.Skip()
	return tok, true
}

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.lex.Peek()
	if tok.Kind != expectedKind {
		return tok, false
	}
	p.lex.Skip()
	return tok, true
}
