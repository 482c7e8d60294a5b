// Package results holds the SPARQL JSON results model and the table layout
// derived from it.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MediaType is the SPARQL 1.1 JSON results format.
const MediaType = "application/sparql-results+json"

// Term kinds as they appear in the "type" member of a binding.
const (
	KindURI     = "uri"
	KindLiteral = "literal"
	KindBlank   = "bnode"
)

// Binding is the value of one variable in one row
type Binding struct {
	Kind     string
	Value    string
	Datatype string
	Language string
}

// Row maps variable names to bindings. Unbound variables are absent.
type Row map[string]Binding

// QueryResult is a decoded SPARQL results document.
type QueryResult struct {
	Variables []string
	Links     []string
	Distinct  bool
	Rows      []Row
}

// wire shapes; pointers tell a missing member from an empty one
type document struct {
	Head *struct {
		Link []string  `json:"link"`
		Vars *[]string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Distinct bool                   `json:"distinct"`
		Bindings *[]map[string]wireTerm `json:"bindings"`
	} `json:"results"`
}

type wireTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype"`
	Lang     string `json:"xml:lang"`
}

// Decode parses a SPARQL JSON results body. Members outside the schema are
// ignored; a missing head.vars or results.bindings is an error.
func Decode(body []byte) (*QueryResult, error) {
	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if doc.Head == nil || doc.Head.Vars == nil {
		return nil, errors.New("decode results: missing head.vars")
	}
	if doc.Results == nil || doc.Results.Bindings == nil {
		return nil, errors.New("decode results: missing results.bindings")
	}

	res := &QueryResult{
		Variables: *doc.Head.Vars,
		Links:     doc.Head.Link,
		Distinct:  doc.Results.Distinct,
		Rows:      make([]Row, 0, len(*doc.Results.Bindings)),
	}
	for i, raw := range *doc.Results.Bindings {
		row := make(Row, len(raw))
		for name, t := range raw {
			kind := t.Type
			// Virtuoso still emits the pre-recommendation spelling
			if kind == "typed-literal" {
				kind = KindLiteral
			}
			switch kind {
			case KindURI, KindLiteral, KindBlank:
			default:
				return nil, fmt.Errorf("decode results: row %d: variable %q: unknown term type %q", i, name, t.Type)
			}
			row[name] = Binding{Kind: kind, Value: t.Value, Datatype: t.Datatype, Language: t.Lang}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Len returns the number of rows; a nil result has none.
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}
