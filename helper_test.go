package ruletree_test

import (
	"testing"

	ruletree "github.com/DanielDubi/RuleTree"
)

// -------------------------------------------------- TEST REQUESTS

// order is the request type used throughout the tests. Rules inspect it
// and sometimes mark it, so it is passed by pointer.
type order struct {
	Symbol  string
	Qty     int
	Urgent  bool
	flagged bool
}

// -------------------------------------------------- MOCK RULES

// qtyUnder admits orders below the limit.
func qtyUnder(limit int) ruletree.Rule[*order] {
	return ruletree.RuleFunc[*order](func(o *order) bool {
		return o.Qty < limit
	})
}

// deny rejects every request.
func deny() ruletree.Rule[*order] {
	return ruletree.RuleFunc[*order](func(o *order) bool {
		return false
	})
}

// flagAndDeny marks the order and then rejects it, so a later rule can
// observe that this node was drawn first.
func flagAndDeny() ruletree.Rule[*order] {
	return ruletree.RuleFunc[*order](func(o *order) bool {
		o.flagged = true
		return false
	})
}

// requireFlag admits only orders some earlier rule marked.
func requireFlag() ruletree.Rule[*order] {
	return ruletree.RuleFunc[*order](func(o *order) bool {
		return o.flagged
	})
}

// -------------------------------------------------- FIXED DRAWS

// script is a Rand that replays a fixed sequence of draws, cycling when
// it runs out. It makes slot-level selection behavior deterministic.
type script struct {
	seq []int
	i   int
}

func (s *script) Intn(n int) int {
	v := s.seq[s.i%len(s.seq)] % n
	s.i++
	return v
}

// -------------------------------------------------- TREE BUILDERS

// twoLeafTree builds the smallest interesting tree, split down the middle:
//
//	root
//	├── 50% a → "A"
//	└── 50% b → "B"
func twoLeafTree(t *testing.T) (*ruletree.Tree[*order, string], ruletree.NodeID, ruletree.NodeID, ruletree.NodeID) {
	t.Helper()
	tr := ruletree.New[*order, string]()
	root := tr.Branch("root")
	a := tr.Leaf("a", "A")
	b := tr.Leaf("b", "B")
	mustChild(t, tr, root, a)
	mustChild(t, tr, root, b)
	mustAllocate(t, tr, root, 50, a)
	mustAllocate(t, tr, root, 50, b)
	return tr, root, a, b
}

// routerTree builds the two-level venue router used by the selection,
// dump and trace tests:
//
//	router
//	├── 60% lit
//	│   ├── 50% nyse   → "NYSE"
//	│   └── 50% nasdaq → "NASDAQ"
//	└── 40% dark
//	    └── 100% sigma → "SIGMA"
func routerTree(t *testing.T) (*ruletree.Tree[*order, string], ruletree.NodeID) {
	t.Helper()
	tr := ruletree.New[*order, string]()
	router := tr.Branch("router")
	lit := tr.Branch("lit")
	dark := tr.Branch("dark")
	nyse := tr.Leaf("nyse", "NYSE")
	nasdaq := tr.Leaf("nasdaq", "NASDAQ")
	sigma := tr.Leaf("sigma", "SIGMA")

	mustChild(t, tr, router, lit)
	mustChild(t, tr, router, dark)
	mustChild(t, tr, lit, nyse)
	mustChild(t, tr, lit, nasdaq)
	mustChild(t, tr, dark, sigma)

	mustAllocate(t, tr, router, 60, lit)
	mustAllocate(t, tr, router, 40, dark)
	mustAllocate(t, tr, lit, 50, nyse)
	mustAllocate(t, tr, lit, 50, nasdaq)
	mustAllocate(t, tr, dark, 100, sigma)
	return tr, router
}

func mustChild(t *testing.T, tr *ruletree.Tree[*order, string], parent, child ruletree.NodeID) {
	t.Helper()
	if err := tr.AddChild(parent, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mustAllocate(t *testing.T, tr *ruletree.Tree[*order, string], branch ruletree.NodeID, pct int, child ruletree.NodeID) {
	t.Helper()
	if err := tr.Allocate(branch, pct, child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
