package ruletree_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	ruletree "github.com/DanielDubi/RuleTree"
)

func TestAddChild(t *testing.T) {
	is := is.New(t)

	tr := ruletree.New[*order, string]()
	root := tr.Branch("root")
	mid := tr.Branch("mid")
	leaf := tr.Leaf("leaf", "L")

	is.NoErr(tr.AddChild(root, mid))
	is.NoErr(tr.AddChild(mid, leaf))

	is.Equal(ruletree.None, tr.Parent(root))
	is.Equal(root, tr.Parent(mid))
	is.Equal(mid, tr.Parent(leaf))

	// Leaves take no children.
	err := tr.AddChild(leaf, tr.Leaf("x", "X"))
	is.True(errors.Is(err, ruletree.ErrNotBranch))

	// A node attaches to one parent, once.
	is.True(tr.AddChild(root, leaf) != nil)

	// Attaching an ancestor would close a loop.
	is.True(tr.AddChild(mid, root) != nil)
	is.True(tr.AddChild(root, root) != nil)
}

func TestFindNode(t *testing.T) {
	is := is.New(t)

	tr := ruletree.New[*order, string]()
	root := tr.Branch("shared")
	left := tr.Branch("left")
	right := tr.Branch("right")
	lTarget := tr.Leaf("target", "L")
	rTarget := tr.Leaf("target", "R")
	rShared := tr.Leaf("shared", "S")

	mustChild(t, tr, root, left)
	mustChild(t, tr, root, right)
	mustChild(t, tr, left, lTarget)
	mustChild(t, tr, right, rTarget)
	mustChild(t, tr, right, rShared)

	// The start node itself wins over descendants with the same name.
	id, ok := tr.FindNode(root, "shared")
	is.True(ok)
	is.Equal(root, id)

	// Subtrees are searched in attachment order, depth first.
	id, ok = tr.FindNode(root, "target")
	is.True(ok)
	is.Equal(lTarget, id)

	// The search is scoped to the subtree it starts from.
	id, ok = tr.FindNode(right, "target")
	is.True(ok)
	is.Equal(rTarget, id)
	id, ok = tr.FindNode(right, "shared")
	is.True(ok)
	is.Equal(rShared, id)

	_, ok = tr.FindNode(root, "missing")
	is.True(!ok)
}

func TestAccessors(t *testing.T) {
	is := is.New(t)

	tr, router := routerTree(t)

	is.Equal(6, tr.Len())
	is.Equal("router", tr.Name(router))
	is.True(!tr.IsLeaf(router))

	kids := tr.Children(router)
	is.Equal(2, len(kids))
	is.Equal("lit", tr.Name(kids[0]))
	is.Equal("dark", tr.Name(kids[1]))

	nyse, ok := tr.FindNode(router, "nyse")
	is.True(ok)
	is.True(tr.IsLeaf(nyse))
	is.Equal(0, len(tr.Children(nyse)))

	v, ok := tr.Value(nyse)
	is.True(ok)
	is.Equal("NYSE", v)

	// Branches carry no value.
	_, ok = tr.Value(router)
	is.True(!ok)
}

func TestChildrenIsACopy(t *testing.T) {
	is := is.New(t)

	tr, router := routerTree(t)
	kids := tr.Children(router)
	kids[0] = ruletree.None

	// Mutating the returned slice must not reach into the tree.
	is.Equal("lit", tr.Name(tr.Children(router)[0]))
}

func TestWalk(t *testing.T) {
	is := is.New(t)

	tr, router := routerTree(t)

	var names []string
	err := tr.Walk(router, func(id ruletree.NodeID) error {
		names = append(names, tr.Name(id))
		return nil
	})
	is.NoErr(err)
	is.Equal([]string{"router", "lit", "nyse", "nasdaq", "dark", "sigma"}, names)

	// Walk stops at the first error.
	boom := errors.New("boom")
	count := 0
	err = tr.Walk(router, func(ruletree.NodeID) error {
		count++
		if count == 2 {
			return boom
		}
		return nil
	})
	is.True(errors.Is(err, boom))
	is.Equal(2, count)
}

func TestRuleOrder(t *testing.T) {
	is := is.New(t)

	tr := ruletree.New[*order, string]()
	leaf := tr.Leaf("leaf", "L")

	var ran []string
	tr.AddRule(leaf, ruletree.RuleFunc[*order](func(*order) bool {
		ran = append(ran, "first")
		return false
	}))
	tr.AddRule(leaf, ruletree.RuleFunc[*order](func(*order) bool {
		ran = append(ran, "second")
		return true
	}))

	_, ok, err := tr.Select(leaf, &order{})
	is.NoErr(err)
	is.True(!ok)

	// The first rejection short-circuits the rest of the chain.
	is.Equal([]string{"first"}, ran)
}
