package sparql

import "fmt"

// arity bounds for built-in calls taking a plain argument list; -1 means unbounded.
var builtins = map[string][2]int{
	"STR": {1, 1}, "LANG": {1, 1}, "LANGMATCHES": {2, 2}, "DATATYPE": {1, 1},
	"IRI": {1, 1}, "URI": {1, 1}, "BNODE": {0, 1}, "RAND": {0, 0},
	"ABS": {1, 1}, "CEIL": {1, 1}, "FLOOR": {1, 1}, "ROUND": {1, 1},
	"CONCAT": {0, -1}, "STRLEN": {1, 1}, "UCASE": {1, 1}, "LCASE": {1, 1},
	"ENCODE_FOR_URI": {1, 1}, "CONTAINS": {2, 2}, "STRSTARTS": {2, 2},
	"STRENDS": {2, 2}, "STRBEFORE": {2, 2}, "STRAFTER": {2, 2},
	"YEAR": {1, 1}, "MONTH": {1, 1}, "DAY": {1, 1}, "HOURS": {1, 1},
	"MINUTES": {1, 1}, "SECONDS": {1, 1}, "TIMEZONE": {1, 1}, "TZ": {1, 1},
	"NOW": {0, 0}, "UUID": {0, 0}, "STRUUID": {0, 0},
	"MD5": {1, 1}, "SHA1": {1, 1}, "SHA256": {1, 1}, "SHA384": {1, 1}, "SHA512": {1, 1},
	"COALESCE": {0, -1}, "IF": {3, 3}, "STRLANG": {2, 2}, "STRDT": {2, 2},
	"SAMETERM": {2, 2}, "ISIRI": {1, 1}, "ISURI": {1, 1}, "ISBLANK": {1, 1},
	"ISLITERAL": {1, 1}, "ISNUMERIC": {1, 1},
	"REGEX": {2, 3}, "SUBSTR": {2, 3}, "REPLACE": {3, 4},
}

var aggregates = map[string]bool{
	"COUNT": true, "SUM": true, "MIN": true, "MAX": true, "AVG": true,
	"SAMPLE": true, "GROUP_CONCAT": true,
}

func (p *parser) startsBuiltIn() bool {
	t := p.peek()
	if t.kind != tokKeyword {
		return false
	}
	if _, ok := builtins[t.text]; ok {
		return true
	}
	return aggregates[t.text] || t.text == "BOUND" || t.text == "EXISTS" ||
		(t.text == "NOT" && isText(p.peekAt(1), "EXISTS"))
}

func (p *parser) startsConstraint() bool {
	return p.is("(") || p.startsBuiltIn() || p.isIRI()
}

// constraint is a bracketted expression, a built-in call or a function call.
func (p *parser) constraint() {
	switch {
	case p.is("("):
		p.bracketted()
	case p.startsBuiltIn():
		p.builtInCall()
	case p.isIRI():
		p.iri()
		if !p.is("(") {
			p.fail("expected argument list")
		}
		p.argList()
	default:
		p.fail("expected constraint")
	}
}

func (p *parser) bracketted() {
	p.openParen(false)
	p.expression()
	p.closeParen()
}

func (p *parser) expression() {
	p.andExpression()
	for p.is("||") {
		p.take()
		p.andExpression()
	}
}

func (p *parser) andExpression() {
	p.relationalExpression()
	for p.is("&&") {
		p.take()
		p.relationalExpression()
	}
}

func (p *parser) relationalExpression() {
	p.additiveExpression()
	for _, op := range []string{"=", "!=", "<", ">", "<=", ">="} {
		if p.is(op) {
			p.take()
			p.additiveExpression()
			return
		}
	}
	switch {
	case p.is("IN"):
		p.take()
		p.expressionList()
	case p.is("NOT") && isText(p.peekAt(1), "IN"):
		p.take()
		p.take()
		p.expressionList()
	}
}

func (p *parser) additiveExpression() {
	p.multiplicativeExpression()
	for p.is("+") || p.is("-") {
		p.take()
		p.multiplicativeExpression()
	}
}

func (p *parser) multiplicativeExpression() {
	p.unaryExpression()
	for p.is("*") || p.is("/") {
		p.take()
		p.unaryExpression()
	}
}

func (p *parser) unaryExpression() {
	if p.is("!") || p.is("+") || p.is("-") {
		p.take()
		p.out.stick()
	}
	p.primaryExpression()
}

func (p *parser) primaryExpression() {
	switch {
	case p.is("("):
		p.bracketted()
	case p.startsBuiltIn():
		p.builtInCall()
	case p.isIRI():
		p.iri()
		if p.is("(") {
			p.argList()
		}
	case p.isKind(tokString):
		p.rdfLiteral()
	case isNumber(p.peek()):
		p.take()
	case p.is("true") || p.is("false"):
		p.take()
	case p.isKind(tokVar):
		p.variable()
	default:
		p.fail("expected expression")
	}
}

// argList parses a function argument list glued to the function name.
func (p *parser) argList() {
	p.openParen(true)
	if p.is(")") {
		p.closeParen()
		return
	}
	if p.is("DISTINCT") {
		p.take()
	}
	p.expression()
	for p.is(",") {
		p.takeAttached()
		p.expression()
	}
	p.closeParen()
}

func (p *parser) expressionList() {
	p.openParen(false)
	if !p.is(")") {
		p.expression()
		for p.is(",") {
			p.takeAttached()
			p.expression()
		}
	}
	p.closeParen()
}

func (p *parser) builtInCall() {
	name := p.peek()
	switch {
	case aggregates[name.text]:
		p.aggregate()
	case name.text == "BOUND":
		p.take()
		p.openParen(true)
		p.variable()
		p.closeParen()
	case name.text == "EXISTS":
		p.take()
		p.groupGraphPattern()
	case name.text == "NOT":
		p.take()
		p.expect("EXISTS")
		p.groupGraphPattern()
	default:
		p.call(name)
	}
}

func (p *parser) call(name token) {
	bounds := builtins[name.text]
	p.take()
	p.openParen(true)
	n := 0
	if !p.is(")") {
		p.expression()
		n++
		for p.is(",") {
			p.takeAttached()
			p.expression()
			n++
		}
	}
	p.closeParen()
	if n < bounds[0] || (bounds[1] >= 0 && n > bounds[1]) {
		p.failAt(name, fmt.Sprintf("%s expects %s, got %d", name.text, arityText(bounds), n))
	}
}

func arityText(b [2]int) string {
	switch {
	case b[1] < 0:
		return fmt.Sprintf("at least %d arguments", b[0])
	case b[0] == b[1] && b[0] == 1:
		return "1 argument"
	case b[0] == b[1]:
		return fmt.Sprintf("%d arguments", b[0])
	default:
		return fmt.Sprintf("%d to %d arguments", b[0], b[1])
	}
}

func (p *parser) aggregate() {
	name := p.take()
	p.openParen(true)
	if p.is("DISTINCT") {
		p.take()
	}
	if name.text == "COUNT" && p.is("*") {
		p.take()
	} else {
		p.expression()
	}
	if name.text == "GROUP_CONCAT" && p.is(";") {
		p.takeAttached()
		p.expect("SEPARATOR")
		p.expect("=")
		if !p.isKind(tokString) {
			p.fail("expected separator string")
		}
		p.take()
	}
	p.closeParen()
}
