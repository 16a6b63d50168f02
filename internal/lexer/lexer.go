package lexer

import (
	"fmt"
	"os"
	"unicode"

	"github.com/cardaba/tdesktop/internal/ast"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/lexer/token"
)

const eof = '\000'

type Lexer struct {
	Loc       *ast.Loc
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos
}

func New(loc *ast.Loc, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	filename := loc.Path
	if filename == "" {
		filename = loc.Name
	}

	lexer.Loc = loc
	lexer.Collector = collector
	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

func NewFromFilePath(loc *ast.Loc, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, err
	}
	l := New(loc, src, collector)
	return l, nil
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Src() []byte { return lex.src }

func (lex *Lexer) Peek() *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset

	token := lex.Next()

	lex.pos.SetPosition(prevPos)
	lex.offset = prevOffset
	return token
}

func (lex *Lexer) Peek1() *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset

	var token *token.Token

	_ = lex.Next()
	token = lex.Next()

	lex.pos.SetPosition(prevPos)
	lex.offset = prevOffset

	return token
}

func (lex *Lexer) Skip() {
	lex.Next()
}

func (lex *Lexer) NextIs(expectedKind token.Kind) bool {
	token := lex.Peek()
	return token.Kind == expectedKind
}

func (lex *Lexer) Next() *token.Token {
	lex.skipWhitespaceAndComments()
	character := lex.peekChar()

	tok := &token.Token{}
	tok.Kind = token.INVALID

	if character == eof {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok
	}

	token := lex.getToken(tok, character)
	return token
}

// Useful for testing
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	for {
		tok := lex.Next()
		if tok.Kind == token.INVALID {
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, nil
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) *token.Token {
	switch ch {
	case '(':
		lex.consumeTokenNoLex(tok, token.OPEN_PAREN)
		lex.nextChar()
	case ')':
		lex.consumeTokenNoLex(tok, token.CLOSE_PAREN)
		lex.nextChar()
	case '{':
		lex.consumeTokenNoLex(tok, token.OPEN_CURLY)
		lex.nextChar()
	case '}':
		lex.consumeTokenNoLex(tok, token.CLOSE_CURLY)
		lex.nextChar()
	case ',':
		lex.consumeTokenNoLex(tok, token.COMMA)
		lex.nextChar()
	case ';':
		lex.consumeTokenNoLex(tok, token.SEMICOLON)
		lex.nextChar()
	case ':':
		lex.consumeTokenNoLex(tok, token.COLON)
		lex.nextChar()
	case '"':
		lex.getStringLit(tok)
	case '-':
		next := lex.peekNextChar()
		if next >= '0' && next <= '9' {
			lex.getNumberLit(tok)
			return tok
		}
		lex.reportInvalidCharacter(ch)
		lex.nextChar()
	default:
		if unicode.IsLetter(rune(ch)) || ch == '_' {
			lex.getIdOrKeyword(tok)
		} else if ch >= '0' && ch <= '9' {
			lex.getNumberLit(tok)
		} else {
			lex.reportInvalidCharacter(ch)
			lex.nextChar()
		}
	}
	return tok
}

func (lex *Lexer) getStringLit(tok *token.Token) *token.Token {
	tok.Pos = lex.pos
	lex.nextChar() // "

	var str []byte
	for {
		ch := lex.peekChar()
		if ch == eof || ch == '"' || ch == '\n' {
			break
		}

		if ch == '\\' {
			lex.nextChar()
			escapeSym := lex.peekChar()

			var escape byte

			switch escapeSym {
			case 'n':
				escape = '\n'
			case 't':
				escape = '\t'
			case '\\':
				escape = '\\'
			case '"':
				escape = '"'
			default:
				invalidEscape := diagnostics.Diag{
					Kind:    diagnostics.PARSE_ERROR,
					Pos:     lex.pos,
					Message: fmt.Sprintf("invalid escape sequence '\\%c'", escapeSym),
					Snippet: diagnostics.Snippet(lex.src, lex.pos.Line, lex.pos.Column),
				}
				lex.Collector.ReportAndSave(invalidEscape)
				return tok
			}
			str = append(str, escape)
		} else {
			str = append(str, ch)
		}

		lex.nextChar()
	}

	ch := lex.peekChar()
	if ch != '"' {
		unterminatedStringLiteral := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     tok.Pos,
			Message: "unterminated string literal",
			Snippet: diagnostics.Snippet(lex.src, tok.Pos.Line, tok.Pos.Column),
		}
		lex.Collector.ReportAndSave(unterminatedStringLiteral)
		return tok
	}
	lex.nextChar()

	tok.Kind = token.STRING_LITERAL
	tok.Lexeme = str
	return tok
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	start := lex.offset

	if lex.peekChar() == '-' {
		lex.nextChar()
	}

	var dotFound, dotRepeated bool
	numberType := token.INT_LITERAL

	lex.readWhile(
		func(chr byte) bool {
			if chr == '.' {
				if dotFound {
					dotRepeated = true
					return false
				}
				numberType = token.FLOAT_LITERAL
				dotFound = true
				return true
			}
			return chr >= '0' && chr <= '9'
		},
	)

	if dotRepeated {
		tok.Kind = token.INVALID
		invalidFloat := diagnostics.Diag{
			Kind:    diagnostics.PARSE_ERROR,
			Pos:     tok.Pos,
			Message: "invalid number literal",
			Snippet: diagnostics.Snippet(lex.src, tok.Pos.Line, tok.Pos.Column),
		}
		lex.Collector.ReportAndSave(invalidFloat)
		return
	}

	if lex.peekChar() == 'p' && lex.peekNextChar() == 'x' {
		lex.nextChar() // p
		lex.nextChar() // x
		if dotFound {
			tok.Kind = token.INVALID
			fractionalPixels := diagnostics.Diag{
				Kind:    diagnostics.PARSE_ERROR,
				Pos:     tok.Pos,
				Message: "pixel values must be whole numbers",
				Snippet: diagnostics.Snippet(lex.src, tok.Pos.Line, tok.Pos.Column),
			}
			lex.Collector.ReportAndSave(fractionalPixels)
			return
		}
		numberType = token.PIXELS_LITERAL
	}

	tok.Kind = numberType
	tok.Lexeme = lex.src[start:lex.offset]
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return unicode.IsNumber(rune(chr)) || unicode.IsLetter(rune(chr)) || chr == '_' },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier
	keyword, ok := token.KEYWORDS[string(identifier)]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) reportInvalidCharacter(ch byte) {
	tokenPosition := lex.pos
	invalidCharacter := diagnostics.Diag{
		Kind:    diagnostics.PARSE_ERROR,
		Pos:     tokenPosition,
		Message: fmt.Sprintf("invalid character '%c'", ch),
		Snippet: diagnostics.Snippet(lex.src, tokenPosition.Line, tokenPosition.Column),
	}
	lex.Collector.ReportAndSave(invalidCharacter)
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespaceAndComments() {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		})
		if lex.peekChar() == '/' && lex.peekNextChar() == '/' {
			lex.readWhile(func(ch byte) bool { return ch != '\n' })
			continue
		}
		break
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for {
		character := lex.peekChar()
		if character == eof {
			break
		}

		if isValid(character) {
			lex.nextChar()
		} else {
			break
		}
	}

	end = lex.offset

	return lex.src[start:end]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	return character
}

func (lex *Lexer) peekNextChar() byte {
	if lex.offset+1 >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+1]
}
