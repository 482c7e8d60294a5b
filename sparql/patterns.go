package sparql

func (p *parser) groupGraphPattern() {
	p.block(func() {
		if p.is("SELECT") {
			p.subSelect()
			return
		}
		p.groupGraphPatternSub()
	})
}

func (p *parser) groupGraphPatternSub() {
	p.triplesBlock(true)
	for p.startsPatternNotTriples() {
		p.graphPatternNotTriples()
		p.out.newline()
		if p.is(".") {
			p.skip()
		}
		p.triplesBlock(true)
	}
}

func (p *parser) triplesTemplate() {
	p.triplesBlock(false)
}

// triplesBlock parses '.'-separated triples. Each statement is printed with a
// closing " ." on its own line, whether or not the source had one.
func (p *parser) triplesBlock(paths bool) {
	for p.startsTriple() {
		p.triplesSameSubject(paths)
		dot := p.is(".")
		if dot {
			p.skip()
		}
		p.out.word(".")
		p.out.newline()
		if !dot {
			return
		}
	}
}

func (p *parser) startsPatternNotTriples() bool {
	for _, k := range []string{"{", "OPTIONAL", "MINUS", "GRAPH", "SERVICE", "FILTER", "BIND", "VALUES"} {
		if p.is(k) {
			return true
		}
	}
	return false
}

func (p *parser) graphPatternNotTriples() {
	switch {
	case p.is("{"):
		p.groupGraphPattern()
		for p.is("UNION") {
			p.take()
			p.groupGraphPattern()
		}
	case p.is("OPTIONAL") || p.is("MINUS"):
		p.take()
		p.groupGraphPattern()
	case p.is("GRAPH"):
		p.take()
		p.varOrIri()
		p.groupGraphPattern()
	case p.is("SERVICE"):
		p.take()
		p.silent()
		p.varOrIri()
		p.groupGraphPattern()
	case p.is("FILTER"):
		p.take()
		p.constraint()
	case p.is("BIND"):
		p.take()
		p.openParen(true)
		p.expression()
		p.expect("AS")
		p.variable()
		p.closeParen()
	case p.is("VALUES"):
		p.take()
		p.dataBlock()
	}
}

func (p *parser) startsTriple() bool {
	switch p.peek().kind {
	case tokVar, tokIRI, tokPName, tokString, tokBlank, tokInteger, tokDecimal, tokDouble:
		return true
	}
	return p.is("(") || p.is("[") || p.is("true") || p.is("false") || p.startsNumeric()
}

func (p *parser) triplesSameSubject(paths bool) {
	if p.startsTriplesNode() {
		p.triplesNode(paths)
		if p.startsVerb(paths) {
			p.propertyListNotEmpty(paths)
		}
		return
	}
	p.varOrTerm()
	p.propertyListNotEmpty(paths)
}

// startsTriplesNode reports a collection or a blank node property list,
// as opposed to the NIL and ANON terms.
func (p *parser) startsTriplesNode() bool {
	next := p.peekAt(1)
	return (p.is("(") && !isText(next, ")")) || (p.is("[") && !isText(next, "]"))
}

func (p *parser) triplesNode(paths bool) {
	p.inline++
	defer func() { p.inline-- }()
	// collections are built from blank nodes too
	if p.noBlanks {
		p.failAt(p.peek(), "blank nodes are not allowed here")
	}
	if p.is("(") {
		p.take()
		if p.is(")") {
			p.fail("expected collection member")
		}
		for !p.is(")") {
			p.graphNode(paths)
		}
		p.take()
		return
	}
	p.expect("[")
	p.propertyListNotEmpty(paths)
	p.expect("]")
}

func (p *parser) graphNode(paths bool) {
	if p.startsTriplesNode() {
		p.triplesNode(paths)
		return
	}
	p.varOrTerm()
}

func (p *parser) startsVerb(paths bool) bool {
	if p.isKind(tokVar) || p.isIRI() || p.is("a") {
		return true
	}
	return paths && (p.is("^") || p.is("!") || p.is("("))
}

// propertyListNotEmpty parses predicate-object lists. Outside [ ] each
// continuation after ';' starts an indented line.
func (p *parser) propertyListNotEmpty(paths bool) {
	if !p.startsVerb(paths) {
		p.fail("expected predicate")
	}
	p.verb(paths)
	p.objectList(paths)
	indented := false
	for p.is(";") {
		for p.is(";") {
			p.skip()
		}
		if !p.startsVerb(paths) {
			break
		}
		p.out.word(";")
		if p.inline == 0 {
			if !indented {
				p.out.indent()
				indented = true
			}
			p.out.newline()
		}
		p.verb(paths)
		p.objectList(paths)
	}
	if indented {
		p.out.dedent()
	}
}

func (p *parser) verb(paths bool) {
	switch {
	case p.isKind(tokVar):
		p.variable()
	case paths:
		p.path()
	case p.is("a"):
		p.take()
	default:
		p.iri()
	}
}

func (p *parser) objectList(paths bool) {
	p.graphNode(paths)
	for p.is(",") {
		p.takeAttached()
		p.graphNode(paths)
	}
}

func (p *parser) path() {
	p.pathSequence()
	for p.is("|") {
		p.take()
		p.pathSequence()
	}
}

func (p *parser) pathSequence() {
	p.pathEltOrInverse()
	for p.is("/") {
		p.take()
		p.pathEltOrInverse()
	}
}

func (p *parser) pathEltOrInverse() {
	if p.is("^") {
		p.take()
		p.out.stick()
	}
	p.pathPrimary()
	if p.is("?") || p.is("*") || p.is("+") {
		p.takeAttached()
	}
}

func (p *parser) pathPrimary() {
	switch {
	case p.is("a"):
		p.take()
	case p.is("!"):
		p.take()
		p.out.stick()
		if p.is("(") {
			p.openParen(false)
			if !p.is(")") {
				p.pathOneInPropertySet()
				for p.is("|") {
					p.take()
					p.pathOneInPropertySet()
				}
			}
			p.closeParen()
			return
		}
		p.pathOneInPropertySet()
	case p.is("("):
		p.openParen(false)
		p.path()
		p.closeParen()
	default:
		p.iri()
	}
}

func (p *parser) pathOneInPropertySet() {
	if p.is("^") {
		p.take()
		p.out.stick()
	}
	if p.is("a") {
		p.take()
		return
	}
	p.iri()
}

func (p *parser) varOrTerm() {
	if p.isKind(tokVar) {
		p.variable()
		return
	}
	p.graphTerm()
}

func (p *parser) graphTerm() {
	switch {
	case p.isIRI():
		p.iri()
	case p.isKind(tokString):
		p.rdfLiteral()
	case p.startsNumeric():
		p.numericLiteral()
	case p.is("true") || p.is("false"):
		p.take()
	case p.isKind(tokBlank):
		if p.noBlanks {
			p.failAt(p.peek(), "blank nodes are not allowed here")
		}
		p.take()
	case p.is("[") && isText(p.peekAt(1), "]"):
		if p.noBlanks {
			p.failAt(p.peek(), "blank nodes are not allowed here")
		}
		p.take()
		p.take()
	case p.is("(") && isText(p.peekAt(1), ")"):
		p.take()
		p.takeAttached()
	default:
		p.fail("expected RDF term")
	}
}

func (p *parser) rdfLiteral() {
	if !p.isKind(tokString) {
		p.fail("expected string")
	}
	p.take()
	switch {
	case p.isKind(tokLangTag):
		p.takeAttached()
	case p.is("^^"):
		p.takeAttached()
		p.out.stick()
		p.iri()
	}
}

func isNumber(t token) bool {
	return t.kind == tokInteger || t.kind == tokDecimal || t.kind == tokDouble
}

// startsNumeric also accepts a sign directly followed by a number.
func (p *parser) startsNumeric() bool {
	if isNumber(p.peek()) {
		return true
	}
	return (p.is("+") || p.is("-")) && isNumber(p.peekAt(1))
}

func (p *parser) numericLiteral() {
	if p.is("+") || p.is("-") {
		p.take()
		p.out.stick()
	}
	if !isNumber(p.peek()) {
		p.fail("expected number")
	}
	p.take()
}
