package graph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/geoknoesis/rdf-go/rdf"
	"github.com/rs/zerolog"
)

// ErrUnsupportedContentType is returned by Load for content types outside
// the supported set.
var ErrUnsupportedContentType = errors.New("unsupported RDF content type")

// ErrTooManyTriples is returned by Load when a document exceeds the triple cap.
var ErrTooManyTriples = errors.New("too many triples")

// DefaultMaxTriples bounds the size of a single offering document.
const DefaultMaxTriples int64 = 100000

var contentTypes = map[string]rdf.Format{
	"text/turtle":           rdf.FormatTurtle,
	"application/x-turtle":  rdf.FormatTurtle,
	"turtle":                rdf.FormatTurtle,
	"ttl":                   rdf.FormatTurtle,
	"text/n3":               rdf.FormatTurtle,
	"text/rdf+n3":           rdf.FormatTurtle,
	"n3":                    rdf.FormatTurtle,
	"application/rdf+xml":   rdf.FormatRDFXML,
	"rdf/xml":               rdf.FormatRDFXML,
	"xml":                   rdf.FormatRDFXML,
	"application/n-triples": rdf.FormatNTriples,
	"nt":                    rdf.FormatNTriples,
	"application/ld+json":   rdf.FormatJSONLD,
	"json-ld":               rdf.FormatJSONLD,
}

// FormatFor maps a MIME type or short format name to an rdf-go format.
// Parameters such as "; charset=utf-8" are ignored.
func FormatFor(contentType string) (rdf.Format, bool) {
	ct := contentType
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	f, ok := contentTypes[strings.ToLower(strings.TrimSpace(ct))]
	return f, ok
}

// SupportedContentTypes lists the accepted content types.
func SupportedContentTypes() []string {
	out := make([]string, 0, len(contentTypes))
	for ct := range contentTypes {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}

type loadOptions struct {
	maxTriples int64
}

// Option configures Load.
type Option func(*loadOptions)

// WithMaxTriples overrides DefaultMaxTriples.
func WithMaxTriples(n int64) Option {
	return func(o *loadOptions) {
		o.maxTriples = n
	}
}

// Load decodes data and indexes it into an immutable Store.
func Load(ctx context.Context, data []byte, contentType string, opts ...Option) (*Store, error) {
	format, ok := FormatFor(contentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}

	options := loadOptions{maxTriples: DefaultMaxTriples}
	for _, opt := range opts {
		opt(&options)
	}

	var triples []Triple
	handler := func(stmt rdf.Statement) error {
		if int64(len(triples)) >= options.maxTriples {
			return fmt.Errorf("%w: limit is %d", ErrTooManyTriples, options.maxTriples)
		}
		s, err := fromRDF(stmt.S)
		if err != nil {
			return err
		}
		o, err := fromRDF(stmt.O)
		if err != nil {
			return err
		}
		triples = append(triples, Triple{S: s, P: IRI(stmt.P.Value), O: o})
		return nil
	}

	err := rdf.Parse(ctx, bytes.NewReader(data), format, handler,
		rdf.OptSafeLimits(),
		rdf.OptMaxTriples(options.maxTriples),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}

	store := NewStore(triples)
	zerolog.Ctx(ctx).Debug().
		Str("format", string(format)).
		Int("triples", store.Len()).
		Msg("RDF document indexed")
	return store, nil
}

func fromRDF(t rdf.Term) (Term, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return IRI(v.Value), nil
	case rdf.BlankNode:
		return Blank(v.ID), nil
	case rdf.Literal:
		return Term{Kind: KindLiteral, Value: v.Lexical, Datatype: v.Datatype.Value, Lang: v.Lang}, nil
	case nil:
		return Term{}, errors.New("statement with missing term")
	default:
		return Term{}, fmt.Errorf("unsupported RDF term %s", t.String())
	}
}
