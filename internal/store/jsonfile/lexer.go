package jsonfile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokColon
	tokComma
	tokString
	tokLiteral // bare word such as a number, true or null
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokString:
		return "string"
	case tokLiteral:
		return "literal"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string // unescaped value for strings, raw text for literals
	line int
}

func (t token) describe() string {
	switch t.kind {
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokLiteral:
		return fmt.Sprintf("literal %q", t.text)
	default:
		return t.kind.String()
	}
}

// lexer splits task file text into tokens. It only understands the subset of
// JSON the task file uses: punctuation, strings and bare literals.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	// A UTF-8 byte order mark is tolerated at the start of the file.
	src = strings.TrimPrefix(src, "\ufeff")
	return &lexer{src: src, line: 1}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: l.line}, nil
	}

	line := l.line
	c := l.src[l.pos]

	switch c {
	case '[':
		l.pos++
		return token{kind: tokLBracket, line: line}, nil
	case ']':
		l.pos++
		return token{kind: tokRBracket, line: line}, nil
	case '{':
		l.pos++
		return token{kind: tokLBrace, line: line}, nil
	case '}':
		l.pos++
		return token{kind: tokRBrace, line: line}, nil
	case ':':
		l.pos++
		return token{kind: tokColon, line: line}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, line: line}, nil
	case '"':
		s, err := l.readString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: s, line: line}, nil
	}

	if isLiteralByte(c) {
		start := l.pos
		for l.pos < len(l.src) && isLiteralByte(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokLiteral, text: l.src[start:l.pos], line: line}, nil
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return token{}, l.errorf(line, "unexpected character %q", r)
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\n':
			l.line++
			l.pos++
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

// readString consumes a quoted string starting at the opening quote and
// returns its unescaped contents.
func (l *lexer) readString() (string, error) {
	line := l.line
	l.pos++ // opening quote

	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", l.errorf(line, "unterminated string")
		}

		c := l.src[l.pos]
		switch {
		case c == '"':
			l.pos++
			return b.String(), nil
		case c == '\n':
			return "", l.errorf(line, "unterminated string")
		case c == '\\':
			if err := l.readEscape(&b); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", l.errorf(line, "control character %q in string", rune(c))
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

func (l *lexer) readEscape(b *strings.Builder) error {
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return l.errorf(l.line, "unterminated escape sequence")
	}

	c := l.src[l.pos]
	l.pos++

	switch c {
	case '"', '\\', '/':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := l.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(l.src[l.pos:], `\u`) {
			save := l.pos
			l.pos += 2
			r2, err := l.readHex4()
			if err == nil {
				if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
					b.WriteRune(combined)
					return nil
				}
			}
			l.pos = save
		}
		b.WriteRune(r)
	default:
		return l.errorf(l.line, "invalid escape sequence \\%c", c)
	}

	return nil
}

func (l *lexer) readHex4() (rune, error) {
	if l.pos+4 > len(l.src) {
		return 0, l.errorf(l.line, "short unicode escape")
	}
	v, err := strconv.ParseUint(l.src[l.pos:l.pos+4], 16, 32)
	if err != nil {
		return 0, l.errorf(l.line, "invalid unicode escape %q", l.src[l.pos:l.pos+4])
	}
	l.pos += 4
	return rune(v), nil
}

func (l *lexer) errorf(line int, format string, args ...any) error {
	return &DecodeError{Line: line, Kind: ErrSyntax, Msg: fmt.Sprintf(format, args...)}
}

func isLiteralByte(c byte) bool {
	return c == '-' || c == '+' || c == '.' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
