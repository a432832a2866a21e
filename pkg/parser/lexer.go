package parser

import (
	"strings"

	"github.com/relaystack/pgparse/pkg/session"
	"github.com/relaystack/pgparse/pkg/token"
)

// Lexer tokenizes SQL input.
//
// The lexer consults the session settings captured at construction:
// the server encoding decides how many bytes the next character spans
// (so multibyte characters are never split mid-sequence), and
// standard_conforming_strings decides whether backslashes inside
// ordinary string literals start escape sequences.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	settings session.Settings
}

// NewLexer creates a Lexer for the given input under the given session
// settings.
func NewLexer(input string, settings session.Settings) *Lexer {
	l := &Lexer{
		input:    input,
		line:     1,
		col:      0,
		settings: settings,
	}
	l.readChar()
	return l
}

// readChar advances to the next byte.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// readFullChar advances past the whole character starting at the current
// byte, using the session encoding to find its width. Trailing bytes of a
// multibyte character are never examined as token characters.
func (l *Lexer) readFullChar() {
	width := l.settings.Encoding.ByteLen(l.ch)
	for i := 0; i < width && l.ch != 0; i++ {
		l.readChar()
	}
}

// peekChar returns the next byte without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token, or a scanning error for malformed
// input (unterminated string literal, unterminated block comment).
func (l *Lexer) NextToken() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok, nil
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.DPIPE, Literal: "||", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = token.Token{Type: token.TYPECAST, Literal: "::", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '.':
		tok = l.newToken(token.DOT, ".")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '$':
		return l.readParam(pos)
	case '\'':
		lit, err := l.readString(l.escapesInQuotes())
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}, nil
	case '"':
		lit, err := l.readQuotedIdentifier()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}, nil
	default:
		switch {
		case l.ch == 'E' || l.ch == 'e':
			// E'...' escape string: escapes are processed regardless of
			// standard_conforming_strings
			if l.peekChar() == '\'' {
				l.readChar() // skip E
				lit, err := l.readString(true)
				if err != nil {
					return token.Token{}, err
				}
				return token.Token{Type: token.STRING, Literal: lit, Pos: pos}, nil
			}
			fallthrough
		case isIdentStart(l.ch):
			lit := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(strings.ToLower(lit)),
				Literal: lit,
				Pos:     pos,
			}, nil
		case isDigit(l.ch):
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}, nil
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok, nil
}

// escapesInQuotes reports whether backslash escapes are processed inside
// an ordinary '...' literal. With standard_conforming_strings on a
// backslash is just a backslash.
func (l *Lexer) escapesInQuotes() bool {
	return !l.settings.StandardConformingStrings
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespaceAndComments skips whitespace, line comments, and block
// comments. Block comments nest, Postgres style.
func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			if err := l.skipBlockComment(); err != nil {
				return err
			}
			continue
		}

		break
	}
	return nil
}

// skipBlockComment consumes a possibly nested /* ... */ comment.
func (l *Lexer) skipBlockComment() error {
	startPos := l.currentPos()

	l.readChar() // skip '/'
	l.readChar() // skip '*'

	depth := 1
	for depth > 0 {
		switch {
		case l.ch == 0:
			return &LexError{Pos: startPos, Message: ErrUnterminatedComment}
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.readChar()
			l.readChar()
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.readChar()
			l.readChar()
		default:
			l.readFullChar()
		}
	}
	return nil
}

// readParam reads a $n positional parameter.
func (l *Lexer) readParam(pos token.Position) (token.Token, error) {
	start := l.pos
	l.readChar() // skip '$'

	if !isDigit(l.ch) {
		return token.Token{Type: token.ILLEGAL, Literal: "$", Pos: pos}, nil
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	return token.Token{Type: token.PARAM, Literal: l.input[start:l.pos], Pos: pos}, nil
}

// readString reads a single-quoted string literal. Doubled single quotes
// are always an escape for a literal quote. Backslash escapes are only
// processed when escapes is true.
func (l *Lexer) readString(escapes bool) (string, error) {
	startPos := l.currentPos()
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		switch {
		case l.ch == 0:
			return "", &LexError{Pos: startPos, Message: ErrUnterminatedString}
		case l.ch == '\'':
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), nil
		case escapes && l.ch == '\\':
			l.readChar() // skip backslash
			if l.ch == 0 {
				return "", &LexError{Pos: startPos, Message: ErrUnterminatedString}
			}
			result.WriteByte(unescape(l.ch))
			l.readChar()
		default:
			l.writeFullChar(&result)
		}
	}
}

// writeFullChar copies the whole character at the current position into
// the builder, so a trailing byte of a multibyte character is never
// mistaken for a quote or backslash.
func (l *Lexer) writeFullChar(result *strings.Builder) {
	width := l.settings.Encoding.ByteLen(l.ch)
	for i := 0; i < width && l.ch != 0; i++ {
		result.WriteByte(l.ch)
		l.readChar()
	}
}

// unescape maps a backslash escape to its byte. Unknown escapes yield the
// character itself, matching the backend scanner.
func unescape(ch byte) byte {
	switch ch {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return ch
	}
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() (string, error) {
	startPos := l.currentPos()
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		switch {
		case l.ch == 0:
			return "", &LexError{Pos: startPos, Message: ErrUnterminatedQuoted}
		case l.ch == '"':
			if l.peekChar() == '"' {
				result.WriteByte('"')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), nil
		default:
			l.writeFullChar(&result)
		}
	}
}

// readIdentifier reads an unquoted identifier. High-bit bytes are
// identifier characters and are advanced whole-character under the
// session encoding.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		if l.ch >= 0x80 {
			l.readFullChar()
		} else {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) {
			l.readChar() // skip 'e'
			for isDigit(l.ch) {
				l.readChar()
			}
		} else if (l.peekChar() == '+' || l.peekChar() == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1]) {
			l.readChar() // skip 'e'
			l.readChar() // skip sign
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start:l.pos]
}

// isIdentStart returns true if ch can begin an identifier. Bytes outside
// the ASCII range are identifier characters regardless of encoding.
func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch >= 0x80
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
