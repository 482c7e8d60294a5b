package sparql

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokBlank
	tokVar
	tokLangTag
	tokInteger
	tokDecimal
	tokDouble
	tokString
	tokKeyword
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIRI:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokBlank:
		return "blank node"
	case tokVar:
		return "variable"
	case tokLangTag:
		return "language tag"
	case tokInteger, tokDecimal, tokDouble:
		return "number"
	case tokString:
		return "string"
	case tokKeyword:
		return "keyword"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	// text is the canonical spelling: keywords upper-cased, everything else verbatim.
	text string
	line int
	col  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// keywords lists every reserved word of the query and update grammars,
// built-in function names included. Matching is case-insensitive except for 'a'.
var keywords = map[string]bool{}

func init() {
	for _, k := range strings.Fields(`
		BASE PREFIX SELECT CONSTRUCT DESCRIBE ASK DISTINCT REDUCED AS FROM NAMED WHERE
		GROUP BY HAVING ORDER ASC DESC LIMIT OFFSET VALUES UNDEF OPTIONAL GRAPH SERVICE
		SILENT BIND MINUS UNION FILTER NOT IN EXISTS
		LOAD INTO CLEAR DROP CREATE ADD MOVE COPY TO INSERT DELETE DATA WITH USING DEFAULT ALL
		TRUE FALSE SEPARATOR
		COUNT SUM MIN MAX AVG SAMPLE GROUP_CONCAT
		STR LANG LANGMATCHES DATATYPE BOUND IRI URI BNODE RAND ABS CEIL FLOOR ROUND
		CONCAT STRLEN UCASE LCASE ENCODE_FOR_URI CONTAINS STRSTARTS STRENDS STRBEFORE
		STRAFTER YEAR MONTH DAY HOURS MINUTES SECONDS TIMEZONE TZ NOW UUID STRUUID
		MD5 SHA1 SHA256 SHA384 SHA512 COALESCE IF STRLANG STRDT SAMETERM ISIRI ISURI
		ISBLANK ISLITERAL ISNUMERIC REGEX SUBSTR REPLACE`) {
		keywords[k] = true
	}
}

// SyntaxError is a positioned parse failure.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// tokenize splits src into tokens, dropping whitespace and comments.
// The final token is always tokEOF.
func tokenize(src string) ([]token, error) {
	lx := &lexer{src: []rune(src), line: 1, col: 1}
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) peek(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) advance(n int) {
	for i := 0; i < n && lx.pos < len(lx.src); i++ {
		if lx.src[lx.pos] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.pos++
	}
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: lx.line, Col: lx.col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		switch {
		case r == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance(1)
			}
		case unicode.IsSpace(r):
			lx.advance(1)
		default:
			return
		}
	}
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	line, col, start := lx.line, lx.col, lx.pos
	emit := func(kind tokenKind, n int) token {
		lx.advance(n)
		return token{kind: kind, text: string(lx.src[start:lx.pos]), line: line, col: col}
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	r := lx.src[lx.pos]
	switch {
	case r == '<':
		if n := lx.scanIRI(); n > 0 {
			return emit(tokIRI, n), nil
		}
		if lx.peek(1) == '=' {
			return emit(tokPunct, 2), nil
		}
		return emit(tokPunct, 1), nil
	case r == '?' || r == '$':
		n := lx.scanName(1, isVarChar)
		if n == 1 {
			if r == '$' {
				return token{}, lx.errorf("expected variable name after '$'")
			}
			return emit(tokPunct, 1), nil
		}
		return emit(tokVar, n), nil
	case r == '_' && lx.peek(1) == ':':
		n := lx.scanName(2, isNameChar)
		n = lx.trimDots(n, 2)
		if n == 2 {
			return token{}, lx.errorf("expected blank node label after '_:'")
		}
		return emit(tokBlank, n), nil
	case r == '@':
		n := lx.scanLangTag()
		if n == 1 {
			return token{}, lx.errorf("expected language tag after '@'")
		}
		return emit(tokLangTag, n), nil
	case r == '"' || r == '\'':
		n, err := lx.scanString()
		if err != nil {
			return token{}, err
		}
		return emit(tokString, n), nil
	case isDigit(r) || (r == '.' && isDigit(lx.peek(1))):
		kind, n := lx.scanNumber()
		return emit(kind, n), nil
	case r == ':' || isNameStart(r):
		return lx.scanWord(line, col, start)
	}

	two := string(r) + string(lx.peek(1))
	switch two {
	case "^^", "!=", ">=", "&&", "||":
		return emit(tokPunct, 2), nil
	}
	if strings.ContainsRune("{}()[],;.*/|^?+-!=>", r) {
		return emit(tokPunct, 1), nil
	}
	return token{}, lx.errorf("unexpected character %q", r)
}

// scanIRI returns the length of an IRIREF at the cursor, or 0 if none.
func (lx *lexer) scanIRI() int {
	for i := 1; lx.pos+i < len(lx.src); i++ {
		c := lx.src[lx.pos+i]
		switch {
		case c == '>':
			return i + 1
		case c <= ' ' || strings.ContainsRune("<\"{}|^`\\", c):
			return 0
		}
	}
	return 0
}

func (lx *lexer) scanName(from int, ok func(rune) bool) int {
	n := from
	for lx.pos+n < len(lx.src) && ok(lx.src[lx.pos+n]) {
		n++
	}
	return n
}

// trimDots drops trailing '.' characters, which never end a name.
func (lx *lexer) trimDots(n, min int) int {
	for n > min && lx.src[lx.pos+n-1] == '.' {
		n--
	}
	return n
}

func (lx *lexer) scanLangTag() int {
	n := 1
	for isLetter(lx.peek(n)) {
		n++
	}
	if n == 1 {
		return 1
	}
	for lx.peek(n) == '-' && isAlnum(lx.peek(n+1)) {
		n++
		for isAlnum(lx.peek(n)) {
			n++
		}
	}
	return n
}

func (lx *lexer) scanString() (int, error) {
	q := lx.src[lx.pos]
	long := lx.peek(1) == q && lx.peek(2) == q
	n := 1
	if long {
		n = 3
	}
	for {
		c := lx.peek(n)
		switch {
		case lx.pos+n >= len(lx.src):
			return 0, lx.errorf("unterminated string literal")
		case c == '\\':
			if !strings.ContainsRune("tbnrf\"'\\", lx.peek(n+1)) {
				return 0, lx.errorf("invalid escape sequence in string literal")
			}
			n += 2
		case long && c == q && lx.peek(n+1) == q && lx.peek(n+2) == q:
			// A long string may end with up to two extra quote characters.
			n += 3
			for i := 0; i < 2 && lx.peek(n) == q; i++ {
				n++
			}
			return n, nil
		case !long && c == q:
			return n + 1, nil
		case !long && (c == '\n' || c == '\r'):
			return 0, lx.errorf("line break in string literal")
		default:
			n++
		}
	}
}

func (lx *lexer) scanNumber() (tokenKind, int) {
	kind := tokInteger
	n := 0
	for isDigit(lx.peek(n)) {
		n++
	}
	if lx.peek(n) == '.' && isDigit(lx.peek(n+1)) {
		kind = tokDecimal
		n++
		for isDigit(lx.peek(n)) {
			n++
		}
	}
	if e := lx.peek(n); e == 'e' || e == 'E' {
		m := n + 1
		if s := lx.peek(m); s == '+' || s == '-' {
			m++
		}
		if isDigit(lx.peek(m)) {
			for isDigit(lx.peek(m)) {
				m++
			}
			return tokDouble, m
		}
	}
	return kind, n
}

// scanWord reads a prefixed name or a keyword.
func (lx *lexer) scanWord(line, col, start int) (token, error) {
	n := 0
	if lx.peek(0) != ':' {
		n = lx.scanName(0, isNameChar)
		n = lx.trimDots(n, 0)
	}
	if lx.peek(n) == ':' {
		n++
		if c := lx.peek(n); isLocalStart(c) || (c == '%' || c == '\\') {
			m, err := lx.scanLocal(n)
			if err != nil {
				return token{}, err
			}
			n = m
		}
		lx.advance(n)
		return token{kind: tokPName, text: string(lx.src[start:lx.pos]), line: line, col: col}, nil
	}

	word := string(lx.src[start : start+n])
	if word == "a" {
		lx.advance(n)
		return token{kind: tokKeyword, text: "a", line: line, col: col}, nil
	}
	upper := strings.ToUpper(word)
	if !keywords[upper] {
		return token{}, lx.errorf("unknown keyword %q", word)
	}
	lx.advance(n)
	if upper == "TRUE" || upper == "FALSE" {
		upper = strings.ToLower(upper)
	}
	return token{kind: tokKeyword, text: upper, line: line, col: col}, nil
}

func (lx *lexer) scanLocal(from int) (int, error) {
	n := from
	for {
		c := lx.peek(n)
		switch {
		case c == '%':
			if !isHex(lx.peek(n+1)) || !isHex(lx.peek(n+2)) {
				lx.advance(n)
				return 0, lx.errorf("invalid percent escape in prefixed name")
			}
			n += 3
		case c == '\\':
			if !strings.ContainsRune("_~.-!$&'()*+,;=/?#@%", lx.peek(n+1)) {
				lx.advance(n)
				return 0, lx.errorf("invalid escape in prefixed name")
			}
			n += 2
		case isNameChar(c) || c == ':':
			n++
		default:
			return lx.trimDots(n, from), nil
		}
	}
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isHex(r rune) bool    { return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isAlnum(r rune) bool  { return isLetter(r) || isDigit(r) }

func isNameStart(r rune) bool {
	return isLetter(r) || (r > 0x7f && unicode.IsLetter(r))
}

func isLocalStart(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '_' || r == ':'
}

func isNameChar(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '_' || r == '-' || r == '.' || r == 0xB7 ||
		(r > 0x7f && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))
}

func isVarChar(r rune) bool {
	return isNameStart(r) || isDigit(r) || r == '_' || r == 0xB7 ||
		(r > 0x7f && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)))
}
