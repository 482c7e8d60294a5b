// Package sparql validates SPARQL 1.1 queries and updates and prints them in
// a canonical layout.
package sparql

import "fmt"

// Kind tells which grammar accepted a text.
type Kind int

const (
	Query Kind = iota
	Update
)

func (k Kind) String() string {
	if k == Update {
		return "update"
	}
	return "query"
}

// ValidationError reports a text rejected by both grammars. Both messages are
// always set.
type ValidationError struct {
	Query  string
	Update string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("not a valid query (%s) nor update (%s)", e.Query, e.Update)
}

// Format parses text as a query, then as an update, and returns the canonical
// form of the first grammar that accepts it.
func Format(text string) (string, error) {
	out, _, err := format(text)
	return out, err
}

// Parse reports which grammar accepts text without keeping the printed form.
func Parse(text string) (Kind, error) {
	_, kind, err := format(text)
	return kind, err
}

func format(text string) (string, Kind, error) {
	out, qerr := run(text, (*parser).queryUnit)
	if qerr == nil {
		return out, Query, nil
	}
	out, uerr := run(text, (*parser).updateUnit)
	if uerr == nil {
		return out, Update, nil
	}
	return "", Query, &ValidationError{Query: qerr.Error(), Update: uerr.Error()}
}
