package object

import "slices"

// Linearize computes the C3 linearization (method resolution order) of c
// from its current parent list.
//
// The result starts with c, lists every parent before its own ancestors,
// keeps the declared parent order, and never lists a class before one of
// its subclasses. When the parent orderings contradict each other no
// consistent order exists and an AMBIGUOUS_HIERARCHY error is returned;
// the algorithm never falls back to an arbitrary tie-break.
func Linearize(c *Class) ([]*Class, error) {
	return linearize(c, c.Parents(), (*Class).MRO)
}

// linearize merges the parents' linearizations with the parent list.
// mroOf supplies each parent's linearization so that a registry can
// evaluate a tentative hierarchy before committing it.
func linearize(c *Class, parents []*Class, mroOf func(*Class) []*Class) ([]*Class, error) {
	if dup := firstDuplicate(parents); dup != nil {
		return nil, &HierarchyError{
			Code:    ErrCodeDuplicateBase,
			Class:   c.Name(),
			Message: "duplicate base class",
			Details: []string{dup.Name()},
		}
	}

	seqs := make([][]*Class, 0, len(parents)+1)
	for _, p := range parents {
		seqs = append(seqs, slices.Clone(mroOf(p)))
	}
	seqs = append(seqs, slices.Clone(parents))

	out := []*Class{c}
	for {
		seqs = dropEmpty(seqs)
		if len(seqs) == 0 {
			return out, nil
		}

		head := selectHead(seqs)
		if head == nil {
			return nil, &HierarchyError{
				Code:    ErrCodeAmbiguousHierarchy,
				Class:   c.Name(),
				Message: "cannot create a consistent method resolution order",
				Details: headNames(seqs),
			}
		}

		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

// selectHead returns the head of the first sequence that does not appear
// in the tail of any sequence, or nil if every head is blocked.
func selectHead(seqs [][]*Class) *Class {
	for _, s := range seqs {
		candidate := s[0]
		if !inAnyTail(candidate, seqs) {
			return candidate
		}
	}
	return nil
}

func inAnyTail(c *Class, seqs [][]*Class) bool {
	for _, s := range seqs {
		if slices.Contains(s[1:], c) {
			return true
		}
	}
	return false
}

func dropEmpty(seqs [][]*Class) [][]*Class {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func firstDuplicate(classes []*Class) *Class {
	seen := make(map[*Class]bool, len(classes))
	for _, c := range classes {
		if seen[c] {
			return c
		}
		seen[c] = true
	}
	return nil
}

// headNames lists the distinct blocked heads, in sequence order.
func headNames(seqs [][]*Class) []string {
	var names []string
	for _, s := range seqs {
		name := s[0].Name()
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Names returns the class names of a linearization, in order.
func Names(classes []*Class) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name()
	}
	return names
}
