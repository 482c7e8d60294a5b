package sparql

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase select",
			in:   "select * where { ?s ?p ?o } limit 1",
			want: "SELECT *\nWHERE {\n  ?s ?p ?o .\n}\nLIMIT 1",
		},
		{
			name: "implicit where",
			in:   "SELECT ?s { ?s a <http://ex/C> }",
			want: "SELECT ?s\nWHERE {\n  ?s a <http://ex/C> .\n}",
		},
		{
			name: "prefix and predicate list",
			in:   "PREFIX ex: <http://ex/> SELECT ?s WHERE { ?s ex:p 1 ; ex:q \"x\"@en , \"y\" . }",
			want: "PREFIX ex: <http://ex/>\nSELECT ?s\nWHERE {\n  ?s ex:p 1 ;\n    ex:q \"x\"@en, \"y\" .\n}",
		},
		{
			name: "comments dropped",
			in:   "# list things\nASK { ?s ?p ?o } # trailing",
			want: "ASK\nWHERE {\n  ?s ?p ?o .\n}",
		},
		{
			name: "filter and function call",
			in:   "SELECT ?s WHERE { ?s ?p ?o FILTER regex(str(?o), \"a\", \"i\") }",
			want: "SELECT ?s\nWHERE {\n  ?s ?p ?o .\n  FILTER REGEX(STR(?o), \"a\", \"i\")\n}",
		},
		{
			name: "bracketted filter",
			in:   "SELECT ?s WHERE { ?s ?p ?o . FILTER(?o > -1 && !BOUND(?s)) }",
			want: "SELECT ?s\nWHERE {\n  ?s ?p ?o .\n  FILTER (?o > -1 && !BOUND(?s))\n}",
		},
		{
			name: "aggregate projection",
			in:   "SELECT (COUNT(*) AS ?n) WHERE { ?s ?p ?o } GROUP BY ?s ORDER BY DESC(?n)",
			want: "SELECT (COUNT(*) AS ?n)\nWHERE {\n  ?s ?p ?o .\n}\nGROUP BY ?s\nORDER BY DESC(?n)",
		},
		{
			name: "optional block",
			in:   "SELECT * WHERE { ?s ?p ?o OPTIONAL { ?o ?q ?r } }",
			want: "SELECT *\nWHERE {\n  ?s ?p ?o .\n  OPTIONAL {\n    ?o ?q ?r .\n  }\n}",
		},
		{
			name: "empty group",
			in:   "ask{}",
			want: "ASK\nWHERE { }",
		},
		{
			name: "insert data",
			in:   "prefix ex: <http://ex/> insert data { ex:a ex:b 1 }",
			want: "PREFIX ex: <http://ex/>\nINSERT DATA {\n  ex:a ex:b 1 .\n}",
		},
		{
			name: "update sequence",
			in:   "CLEAR ALL; DELETE WHERE { ?s ?p ?o }",
			want: "CLEAR ALL ;\nDELETE WHERE {\n  ?s ?p ?o .\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.in)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

var validTexts = []string{
	"select * where { ?s ?p ?o } limit 1",
	"SELECT DISTINCT ?s ?o WHERE { ?s <http://ex/p> ?o } ORDER BY ?o OFFSET 10 LIMIT 5",
	"PREFIX ex: <http://ex/> SELECT ?s WHERE { ?s ex:p/ex:q* ?o ; ^ex:r ?x . ?x !(ex:a|^ex:b) ?y }",
	"PREFIX ex: <http://ex/> SELECT ?s WHERE { [ ex:p 1 ; ex:q 2 ] ex:r ( 1 2 ?z ) . }",
	"BASE <http://ex/> PREFIX : <http://ex/> CONSTRUCT { ?s :p ?o } WHERE { ?s :q ?o }",
	"CONSTRUCT WHERE { ?s ?p ?o }",
	"DESCRIBE <http://ex/a> ?x",
	"DESCRIBE * WHERE { ?x ?p ?o }",
	"ASK FROM <http://ex/g> FROM NAMED <http://ex/h> { GRAPH ?g { ?s ?p ?o } }",
	"SELECT * WHERE { { ?s ?p ?o } UNION { ?o ?p ?s } MINUS { ?s a ?c } }",
	"SELECT * WHERE { SERVICE SILENT <http://ex/sparql> { ?s ?p ?o } }",
	"SELECT ?x WHERE { BIND(CONCAT(\"a\", \"b\") AS ?x) }",
	"SELECT ?s WHERE { ?s ?p ?o FILTER NOT EXISTS { ?s a ?t } }",
	"SELECT ?s WHERE { ?s ?p ?o FILTER (?o NOT IN (1, 2, 3)) }",
	"SELECT ?s WHERE { ?s ?p ?o } VALUES (?s ?o) { (<http://ex/a> 1) (UNDEF \"x\") }",
	"SELECT ?s WHERE { VALUES ?s { <http://ex/a> <http://ex/b> } }",
	"SELECT (GROUP_CONCAT(DISTINCT ?o; SEPARATOR=\", \") AS ?all) WHERE { ?s ?p ?o } GROUP BY ?s HAVING (COUNT(?o) > 1)",
	"SELECT ?s WHERE { { SELECT ?s WHERE { ?s ?p ?o } LIMIT 3 } }",
	"SELECT ?s WHERE { ?s ?p \"1\"^^<http://www.w3.org/2001/XMLSchema#int> , 2.5, 1e3, true }",
	"SELECT ?s WHERE { ?s ?p \"\"\"multi\nline\"\"\" }",
	"PREFIX ex: <http://ex/> INSERT DATA { ex:a ex:b \"c\" . GRAPH ex:g { ex:a ex:b 2 } }",
	"PREFIX ex: <http://ex/> DELETE DATA { ex:a ex:b \"c\" }",
	"DELETE WHERE { ?s ?p ?o }",
	"WITH <http://ex/g> DELETE { ?s ?p ?o } INSERT { ?s ?p 1 } WHERE { ?s ?p ?o }",
	"INSERT { ?s a _:b } USING <http://ex/g> WHERE { ?s ?p ?o }",
	"LOAD SILENT <http://ex/data.ttl> INTO GRAPH <http://ex/g>",
	"CREATE GRAPH <http://ex/g>; DROP SILENT DEFAULT; COPY DEFAULT TO GRAPH <http://ex/h>",
}

func TestFormatIdempotent(t *testing.T) {
	for _, in := range validTexts {
		once, err := Format(in)
		if err != nil {
			t.Errorf("Format(%q) error = %v", in, err)
			continue
		}
		twice, err := Format(once)
		if err != nil {
			t.Errorf("Format of canonical form failed: %v\n%s", err, once)
			continue
		}
		if once != twice {
			t.Errorf("not idempotent:\n%s\n---\n%s", once, twice)
		}
		if strings.HasSuffix(once, "\n") {
			t.Errorf("canonical form ends with a newline: %q", once)
		}
	}
}

func TestFormatRejectsBothGrammars(t *testing.T) {
	inputs := []string{
		"not a query",
		"SELECT * WHERE { ?s ?p ?o",
		"SELECT ?s WHERE { ?s ex:p ?o }",
		"INSERT DATA { ?s <http://ex/p> 1 }",
		"DELETE DATA { _:b <http://ex/p> 1 }",
		"DELETE DATA { ( 1 2 ) <a:b> <a:c> }",
		"DELETE DATA { <a:a> <a:b> ( 1 2 ) }",
		"SELECT ?x WHERE { VALUES (?a ?b) { (1) } }",
		"SELECT ?x WHERE { FILTER(STRLEN(?x, ?y)) }",
		"\"unterminated",
	}
	for _, in := range inputs {
		_, err := Format(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Format(%q) error = %v, want *ValidationError", in, err)
			continue
		}
		if verr.Query == "" || verr.Update == "" {
			t.Errorf("Format(%q) messages = %q, %q; want both set", in, verr.Query, verr.Update)
		}
	}
}

func TestFormatErrorPositions(t *testing.T) {
	_, err := Format("SELECT * WHERE { ?s ex:p ?o }")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Format() error = %v, want *ValidationError", err)
	}
	want := `line 1, column 21: undefined prefix "ex:"`
	if verr.Query != want {
		t.Errorf("query message = %q, want %q", verr.Query, want)
	}
	if !strings.HasPrefix(verr.Update, "line 1, column 1: expected update operation") {
		t.Errorf("update message = %q", verr.Update)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"ASK { }", Query},
		{"CLEAR DEFAULT", Update},
		{"PREFIX ex: <http://ex/> INSERT DATA { ex:a ex:b ex:c }", Update},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
