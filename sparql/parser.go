package sparql

import (
	"fmt"
	"strings"
)

// parser is a recursive-descent parser over the SPARQL 1.1 query and update
// grammars. It validates and prints in one pass: every consumed token goes to
// out unless it is dropped by canonicalization.
type parser struct {
	toks     []token
	pos      int
	out      printer
	prefixes map[string]bool

	// inline counts open [ ] and ( ) term lists, which never break lines.
	inline int
	// noVars and noBlanks restrict terms inside DATA and DELETE blocks.
	noVars   bool
	noBlanks bool
}

// run tokenizes src and applies rule, turning a bailout into an error.
func run(src string, rule func(*parser)) (out string, err error) {
	toks, err := tokenize(src)
	if err != nil {
		return "", err
	}
	p := &parser{toks: toks, prefixes: map[string]bool{}}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			err = se
		}
	}()
	rule(p)
	return strings.TrimRight(p.out.String(), "\n"), nil
}

func (p *parser) peek() token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

// is reports whether the current token is the keyword or punctuation text.
func (p *parser) is(text string) bool {
	return isText(p.peek(), text)
}

func isText(t token, text string) bool {
	return (t.kind == tokKeyword || t.kind == tokPunct) && t.text == text
}

func (p *parser) isKind(k tokenKind) bool {
	return p.peek().kind == k
}

// take consumes the current token and prints it.
func (p *parser) take() token {
	t := p.peek()
	p.pos++
	p.out.word(t.text)
	return t
}

// takeAttached consumes the current token and prints it without a separator.
func (p *parser) takeAttached() token {
	p.out.stick()
	return p.take()
}

// skip consumes the current token without printing it.
func (p *parser) skip() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.fail("expected %q", text)
	}
	return p.take()
}

func (p *parser) expectAttached(text string) token {
	if !p.is(text) {
		p.fail("expected %q", text)
	}
	return p.takeAttached()
}

// openParen prints '(' and glues the next token to it.
func (p *parser) openParen(attached bool) {
	if attached {
		p.expectAttached("(")
	} else {
		p.expect("(")
	}
	p.out.stick()
}

func (p *parser) closeParen() {
	p.expectAttached(")")
}

// fail aborts the parse with a message about the current token.
func (p *parser) fail(format string, args ...any) {
	p.failAt(p.peek(), fmt.Sprintf(format, args...)+", found "+p.peek().describe())
}

func (p *parser) failAt(t token, msg string) {
	panic(&SyntaxError{Line: t.line, Col: t.col, Msg: msg})
}

func (p *parser) expectEOF() {
	if !p.isKind(tokEOF) {
		p.fail("expected end of input")
	}
}

func (p *parser) prologue() {
	for {
		switch {
		case p.is("BASE"):
			p.out.newline()
			p.take()
			p.iriRef()
			p.out.newline()
		case p.is("PREFIX"):
			p.out.newline()
			p.take()
			t := p.peek()
			if t.kind != tokPName || strings.Index(t.text, ":") != len(t.text)-1 {
				p.fail("expected prefix name ending in ':'")
			}
			p.take()
			p.prefixes[strings.TrimSuffix(t.text, ":")] = true
			p.iriRef()
			p.out.newline()
		default:
			return
		}
	}
}

func (p *parser) iriRef() {
	if !p.isKind(tokIRI) {
		p.fail("expected IRI")
	}
	p.take()
}

func (p *parser) isIRI() bool {
	return p.isKind(tokIRI) || p.isKind(tokPName)
}

// iri accepts an IRI reference or a prefixed name with a declared prefix.
func (p *parser) iri() {
	t := p.peek()
	switch t.kind {
	case tokIRI:
	case tokPName:
		prefix := t.text[:strings.Index(t.text, ":")]
		if !p.prefixes[prefix] {
			p.failAt(t, fmt.Sprintf("undefined prefix %q", prefix+":"))
		}
	default:
		p.fail("expected IRI or prefixed name")
	}
	p.take()
}

func (p *parser) variable() {
	if !p.isKind(tokVar) {
		p.fail("expected variable")
	}
	if p.noVars {
		p.failAt(p.peek(), "variables are not allowed in DATA blocks")
	}
	p.take()
}

func (p *parser) varOrIri() {
	if p.isKind(tokVar) {
		p.variable()
		return
	}
	p.iri()
}

// block parses '{' body '}' with the body indented on its own lines.
func (p *parser) block(body func()) {
	p.expect("{")
	if p.is("}") {
		p.take()
		return
	}
	p.out.indent()
	p.out.newline()
	body()
	p.out.dedent()
	p.out.newline()
	p.expect("}")
}

// queryUnit parses a complete query.
func (p *parser) queryUnit() {
	p.prologue()
	switch {
	case p.is("SELECT"):
		p.selectClause()
		p.datasetClauses()
		p.whereClause()
		p.solutionModifier()
	case p.is("CONSTRUCT"):
		p.constructQuery()
	case p.is("DESCRIBE"):
		p.describeQuery()
	case p.is("ASK"):
		p.out.newline()
		p.take()
		p.datasetClauses()
		p.whereClause()
		p.solutionModifier()
	default:
		p.fail("expected SELECT, CONSTRUCT, DESCRIBE or ASK")
	}
	p.valuesClause()
	p.expectEOF()
}

func (p *parser) selectClause() {
	p.out.newline()
	p.expect("SELECT")
	if p.is("DISTINCT") || p.is("REDUCED") {
		p.take()
	}
	if p.is("*") {
		p.take()
		return
	}
	for n := 0; ; n++ {
		switch {
		case p.isKind(tokVar):
			p.variable()
		case p.is("("):
			p.openParen(false)
			p.expression()
			p.expect("AS")
			p.variable()
			p.closeParen()
		default:
			if n == 0 {
				p.fail("expected projection variable or '*'")
			}
			return
		}
	}
}

func (p *parser) subSelect() {
	p.selectClause()
	p.whereClause()
	p.solutionModifier()
	p.valuesClause()
}

func (p *parser) constructQuery() {
	p.out.newline()
	p.take()
	if p.is("{") {
		p.block(p.triplesTemplate)
		p.datasetClauses()
		p.whereClause()
	} else {
		p.datasetClauses()
		p.out.newline()
		p.expect("WHERE")
		p.block(p.triplesTemplate)
	}
	p.solutionModifier()
}

func (p *parser) describeQuery() {
	p.out.newline()
	p.take()
	if p.is("*") {
		p.take()
	} else {
		if !p.isKind(tokVar) && !p.isIRI() {
			p.fail("expected variable, IRI or '*'")
		}
		for p.isKind(tokVar) || p.isIRI() {
			p.varOrIri()
		}
	}
	p.datasetClauses()
	if p.is("WHERE") || p.is("{") {
		p.whereClause()
	}
	p.solutionModifier()
}

func (p *parser) datasetClauses() {
	for p.is("FROM") {
		p.out.newline()
		p.take()
		if p.is("NAMED") {
			p.take()
		}
		p.iri()
	}
}

// whereClause always prints WHERE, which the grammar makes optional.
func (p *parser) whereClause() {
	p.out.newline()
	if p.is("WHERE") {
		p.take()
	} else {
		if !p.is("{") {
			p.fail("expected WHERE or '{'")
		}
		p.out.word("WHERE")
	}
	p.groupGraphPattern()
}

func (p *parser) solutionModifier() {
	if p.is("GROUP") {
		p.out.newline()
		p.take()
		p.expect("BY")
		if !p.startsGroupCondition() {
			p.fail("expected group condition")
		}
		for p.startsGroupCondition() {
			p.groupCondition()
		}
	}
	if p.is("HAVING") {
		p.out.newline()
		p.take()
		if !p.startsConstraint() {
			p.fail("expected HAVING condition")
		}
		for p.startsConstraint() {
			p.constraint()
		}
	}
	if p.is("ORDER") {
		p.out.newline()
		p.take()
		p.expect("BY")
		if !p.startsOrderCondition() {
			p.fail("expected order condition")
		}
		for p.startsOrderCondition() {
			p.orderCondition()
		}
	}
	switch {
	case p.is("LIMIT"):
		p.limitOrOffset()
		if p.is("OFFSET") {
			p.limitOrOffset()
		}
	case p.is("OFFSET"):
		p.limitOrOffset()
		if p.is("LIMIT") {
			p.limitOrOffset()
		}
	}
}

func (p *parser) limitOrOffset() {
	p.out.newline()
	p.take()
	if !p.isKind(tokInteger) {
		p.fail("expected integer")
	}
	p.take()
}

func (p *parser) startsGroupCondition() bool {
	return p.isKind(tokVar) || p.isIRI() || p.is("(") || p.startsBuiltIn()
}

func (p *parser) groupCondition() {
	switch {
	case p.isKind(tokVar):
		p.variable()
	case p.is("("):
		p.openParen(false)
		p.expression()
		if p.is("AS") {
			p.take()
			p.variable()
		}
		p.closeParen()
	default:
		p.constraint()
	}
}

func (p *parser) startsOrderCondition() bool {
	return p.is("ASC") || p.is("DESC") || p.isKind(tokVar) || p.startsConstraint()
}

func (p *parser) orderCondition() {
	switch {
	case p.is("ASC") || p.is("DESC"):
		p.take()
		p.out.stick()
		p.bracketted()
	case p.isKind(tokVar):
		p.variable()
	default:
		p.constraint()
	}
}

func (p *parser) valuesClause() {
	if !p.is("VALUES") {
		return
	}
	p.out.newline()
	p.take()
	p.dataBlock()
}

func (p *parser) dataBlock() {
	if p.isKind(tokVar) {
		p.variable()
		p.expect("{")
		for !p.is("}") {
			p.dataBlockValue()
		}
		p.take()
		return
	}
	if !p.is("(") {
		p.fail("expected variable or '(' after VALUES")
	}
	p.openParen(false)
	vars := 0
	for p.isKind(tokVar) {
		p.variable()
		vars++
	}
	p.closeParen()
	p.expect("{")
	for p.is("(") {
		open := p.peek()
		p.openParen(false)
		values := 0
		for !p.is(")") {
			p.dataBlockValue()
			values++
		}
		p.closeParen()
		if values != vars {
			p.failAt(open, fmt.Sprintf("expected %d values in VALUES row, got %d", vars, values))
		}
	}
	p.expect("}")
}

func (p *parser) dataBlockValue() {
	switch {
	case p.is("UNDEF"):
		p.take()
	case p.isIRI():
		p.iri()
	case p.isKind(tokString):
		p.rdfLiteral()
	case p.startsNumeric():
		p.numericLiteral()
	case p.is("true") || p.is("false"):
		p.take()
	default:
		p.fail("expected VALUES data value")
	}
}

// updateUnit parses a sequence of update operations separated by ';'.
func (p *parser) updateUnit() {
	p.prologue()
	for !p.isKind(tokEOF) {
		p.update1()
		if !p.is(";") {
			break
		}
		p.skip()
		p.out.word(";")
		p.out.newline()
		p.prologue()
	}
	p.expectEOF()
}

func (p *parser) silent() {
	if p.is("SILENT") {
		p.take()
	}
}

func (p *parser) update1() {
	p.out.newline()
	switch {
	case p.is("LOAD"):
		p.take()
		p.silent()
		p.iri()
		if p.is("INTO") {
			p.take()
			p.graphRef()
		}
	case p.is("CLEAR") || p.is("DROP"):
		p.take()
		p.silent()
		switch {
		case p.is("DEFAULT") || p.is("NAMED") || p.is("ALL"):
			p.take()
		default:
			p.graphRef()
		}
	case p.is("CREATE"):
		p.take()
		p.silent()
		p.graphRef()
	case p.is("ADD") || p.is("MOVE") || p.is("COPY"):
		p.take()
		p.silent()
		p.graphOrDefault()
		p.expect("TO")
		p.graphOrDefault()
	case p.is("INSERT") && isText(p.peekAt(1), "DATA"):
		p.take()
		p.take()
		p.restricted(true, false, p.quadBlock)
	case p.is("DELETE") && isText(p.peekAt(1), "DATA"):
		p.take()
		p.take()
		p.restricted(true, true, p.quadBlock)
	case p.is("DELETE") && isText(p.peekAt(1), "WHERE"):
		p.take()
		p.take()
		p.restricted(false, true, p.quadBlock)
	case p.is("WITH") || p.is("DELETE") || p.is("INSERT"):
		p.modify()
	default:
		p.fail("expected update operation")
	}
}

// restricted runs rule with variables and/or blank nodes forbidden.
func (p *parser) restricted(noVars, noBlanks bool, rule func()) {
	prevVars, prevBlanks := p.noVars, p.noBlanks
	p.noVars, p.noBlanks = noVars, noBlanks
	rule()
	p.noVars, p.noBlanks = prevVars, prevBlanks
}

func (p *parser) modify() {
	if p.is("WITH") {
		p.take()
		p.iri()
		p.out.newline()
	}
	switch {
	case p.is("DELETE"):
		p.take()
		p.restricted(false, true, p.quadBlock)
		if p.is("INSERT") {
			p.out.newline()
			p.take()
			p.quadBlock()
		}
	case p.is("INSERT"):
		p.take()
		p.quadBlock()
	default:
		p.fail("expected DELETE or INSERT")
	}
	for p.is("USING") {
		p.out.newline()
		p.take()
		if p.is("NAMED") {
			p.take()
		}
		p.iri()
	}
	p.out.newline()
	p.expect("WHERE")
	p.groupGraphPattern()
}

func (p *parser) graphRef() {
	p.expect("GRAPH")
	p.iri()
}

func (p *parser) graphOrDefault() {
	if p.is("DEFAULT") {
		p.take()
		return
	}
	if p.is("GRAPH") {
		p.take()
	}
	p.iri()
}

func (p *parser) quadBlock() {
	p.block(p.quads)
}

func (p *parser) quads() {
	p.triplesTemplate()
	for p.is("GRAPH") {
		p.take()
		if p.isKind(tokVar) {
			p.variable()
		} else {
			p.iri()
		}
		p.block(p.triplesTemplate)
		p.out.newline()
		if p.is(".") {
			p.skip()
		}
		p.triplesTemplate()
	}
}
