package results

import (
	"fmt"

	"github.com/knakk/rdf"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Term converts the binding to an RDF term.
func (b Binding) Term() (rdf.Term, error) {
	switch b.Kind {
	case KindURI:
		return rdf.NewIRI(b.Value)
	case KindBlank:
		return rdf.NewBlank(b.Value)
	case KindLiteral:
		if b.Language != "" {
			return rdf.NewLangLiteral(b.Value, b.Language)
		}
		dt := b.Datatype
		if dt == "" {
			dt = xsdString
		}
		iri, err := rdf.NewIRI(dt)
		if err != nil {
			return nil, fmt.Errorf("datatype: %w", err)
		}
		return rdf.NewTypedLiteral(b.Value, iri), nil
	default:
		return nil, fmt.Errorf("unknown term type %q", b.Kind)
	}
}

// NTriples renders the binding in N-Triples syntax, or returns the raw value
// if it is not a valid RDF term.
func (b Binding) NTriples() string {
	t, err := b.Term()
	if err != nil {
		return b.Value
	}
	return t.Serialize(rdf.NTriples)
}
