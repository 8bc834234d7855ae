package graph

// Store is an immutable, insertion-ordered triple index. It is safe for
// concurrent readers once built.
type Store struct {
	triples []Triple
	spo     map[Term]map[Term][]Term
	pos     map[Term]map[Term][]Term
	preds   map[Term][]Term
}

// NewStore indexes triples. Duplicate statements are stored once.
func NewStore(triples []Triple) *Store {
	s := &Store{
		triples: make([]Triple, 0, len(triples)),
		spo:     make(map[Term]map[Term][]Term),
		pos:     make(map[Term]map[Term][]Term),
		preds:   make(map[Term][]Term),
	}
	seen := make(map[Triple]struct{}, len(triples))
	for _, t := range triples {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		s.triples = append(s.triples, t)

		byPred, ok := s.spo[t.S]
		if !ok {
			byPred = make(map[Term][]Term)
			s.spo[t.S] = byPred
		}
		if _, known := byPred[t.P]; !known {
			s.preds[t.S] = append(s.preds[t.S], t.P)
		}
		byPred[t.P] = append(byPred[t.P], t.O)

		byObj, ok := s.pos[t.P]
		if !ok {
			byObj = make(map[Term][]Term)
			s.pos[t.P] = byObj
		}
		byObj[t.O] = append(byObj[t.O], t.S)
	}
	return s
}

// Len returns the number of distinct triples.
func (s *Store) Len() int {
	return len(s.triples)
}

// Triples returns a copy of the indexed statements in insertion order.
func (s *Store) Triples() []Triple {
	out := make([]Triple, len(s.triples))
	copy(out, s.triples)
	return out
}

func (s *Store) Subjects(predicate, object Term) []Term {
	return clone(s.pos[predicate][object])
}

func (s *Store) Objects(subject, predicate Term) []Term {
	return clone(s.spo[subject][predicate])
}

func (s *Store) Predicates(subject Term) []Term {
	return clone(s.preds[subject])
}

func (s *Store) Literal(term Term) string {
	if term.Kind == KindBlank {
		return ""
	}
	return term.Value
}

// callers must not be able to mutate the index through returned slices
func clone(in []Term) []Term {
	if len(in) == 0 {
		return nil
	}
	out := make([]Term, len(in))
	copy(out, in)
	return out
}
