// Package graph provides the read-only triple lookups the offering parser is
// written against, plus an immutable in-memory implementation.
package graph

// TermKind identifies the kind of an RDF term.
type TermKind uint8

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

// Term is an RDF node. It is a comparable value so it can key lookups.
type Term struct {
	Kind     TermKind
	Value    string // IRI, blank node id or literal lexical form
	Datatype string
	Lang     string
}

// IRI builds an IRI term.
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Blank builds a blank node term.
func Blank(id string) Term {
	return Term{Kind: KindBlank, Value: id}
}

// Literal builds a plain literal term.
func Literal(lexical string) Term {
	return Term{Kind: KindLiteral, Value: lexical}
}

func (t Term) IsIRI() bool     { return t.Kind == KindIRI }
func (t Term) IsBlank() bool   { return t.Kind == KindBlank }
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool {
	return t == Term{}
}

func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	default:
		if t.Lang != "" {
			return `"` + t.Value + `"@` + t.Lang
		}
		if t.Datatype != "" {
			return `"` + t.Value + `"^^<` + t.Datatype + ">"
		}
		return `"` + t.Value + `"`
	}
}

// Graph is the read-only capability the offering parser depends on.
// Results are returned in document order.
type Graph interface {
	// Subjects returns the subjects having the given predicate and object.
	Subjects(predicate, object Term) []Term
	// Objects returns the objects of the given subject and predicate.
	Objects(subject, predicate Term) []Term
	// Predicates returns the distinct predicates used by subject.
	Predicates(subject Term) []Term
	// Literal returns the string value of a term: the lexical form of a
	// literal, the IRI of a named node, and "" for a blank node.
	Literal(term Term) string
}

// Triple is a single statement held by a Store.
type Triple struct {
	S, P, O Term
}
