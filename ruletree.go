package ruletree

import (
	"errors"
	"fmt"
	"math/rand"
)

// NodeID identifies a node within the tree that created it. IDs are dense
// indices into the tree's arena: stable for the life of the tree and cheap
// to copy, compare and store. An ID is only meaningful to its own tree.
type NodeID int32

// None is the NodeID of no node. Parent returns it for unattached nodes
// and FindNode returns it when nothing matches.
const None NodeID = -1

var (
	// ErrBadAllocation indicates a percentage allocation that does not
	// work out: allocating past 100%, spreading over zero children, or
	// drawing from a branch whose table is not fully allocated.
	ErrBadAllocation = errors.New("bad percent allocation")

	// ErrUnknownNode indicates a node that is not a child of the branch
	// it was used with.
	ErrUnknownNode = errors.New("node not in branch")

	// ErrNotBranch indicates a branch operation applied to a leaf.
	ErrNotBranch = errors.New("not a branch")
)

type kind uint8

const (
	kindBranch kind = iota
	kindLeaf
)

// node is a single arena entry. The kind tag selects which fields are
// meaningful: value for leaves; children, slots, tally and allocated for
// branches. Rules and the parent back-reference apply to both kinds.
type node[R, T any] struct {
	kind   kind
	name   string
	parent NodeID
	rules  []Rule[R]

	children  []NodeID
	slots     [slotCount]NodeID
	tally     map[NodeID]int
	allocated int

	value T
}

// A Tree is an arena of rule-gated nodes. R is the request type rules
// examine; T is the result type held by leaves. The tree may hold several
// disconnected subtrees; Select starts from whichever node it is given.
//
// The zero Tree is not usable; create trees with New.
type Tree[R, T any] struct {
	nodes []node[R, T]
	rand  Rand
}

type treeOptions struct {
	rand Rand
}

// Option configures a Tree at creation time.
type Option func(o *treeOptions)

func applyOptions(o *treeOptions, opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithRand sets the random source Select draws slots from when no per-call
// source is given. The source must be safe for concurrent use if the tree
// is selected from concurrently.
// Default: math/rand's shared, locked source.
func WithRand(r Rand) Option {
	return func(o *treeOptions) {
		o.rand = r
	}
}

// WithSeed is WithRand with a source seeded from seed. The seeded source
// is not safe for concurrent use; it is meant for tests and
// single-threaded simulations.
func WithSeed(seed int64) Option {
	return func(o *treeOptions) {
		o.rand = rand.New(rand.NewSource(seed))
	}
}

// New creates an empty tree.
func New[R, T any](opts ...Option) *Tree[R, T] {
	o := treeOptions{rand: defaultRand{}}
	applyOptions(&o, opts...)
	return &Tree[R, T]{rand: o.rand}
}

func (t *Tree[R, T]) node(id NodeID) *node[R, T] {
	return &t.nodes[id]
}

// Branch creates an unattached branch node and returns its ID. Attach it
// under another branch with AddChild; a node left unattached acts as a
// root.
func (t *Tree[R, T]) Branch(name string) NodeID {
	n := node[R, T]{
		kind:   kindBranch,
		name:   name,
		parent: None,
		tally:  make(map[NodeID]int),
	}
	for i := range n.slots {
		n.slots[i] = None
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Leaf creates an unattached leaf node holding value and returns its ID.
func (t *Tree[R, T]) Leaf(name string, value T) NodeID {
	t.nodes = append(t.nodes, node[R, T]{
		kind:   kindLeaf,
		name:   name,
		parent: None,
		value:  value,
	})
	return NodeID(len(t.nodes) - 1)
}

// AddChild appends child to parent's children and sets the child's parent
// back-reference. Children keep attachment order: the order decides how
// Spread packs the allocation table and how FindNode breaks name ties.
//
// The child must not already be attached, and a node cannot be attached
// under its own subtree; the arena must stay a forest.
func (t *Tree[R, T]) AddChild(parent, child NodeID) error {
	p := t.node(parent)
	if p.kind != kindBranch {
		return fmt.Errorf("%w: %s", ErrNotBranch, p.name)
	}
	c := t.node(child)
	if c.parent != None {
		return fmt.Errorf("node %q already has parent %q", c.name, t.node(c.parent).name)
	}
	for a := parent; a != None; a = t.node(a).parent {
		if a == child {
			return fmt.Errorf("adding %q under %q would create a cycle", c.name, p.name)
		}
	}
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// AddRule attaches r to the node. Either kind takes rules; they run in
// attachment order when Select visits the node.
func (t *Tree[R, T]) AddRule(id NodeID, r Rule[R]) {
	n := t.node(id)
	n.rules = append(n.rules, r)
}

// Name returns the node's name. Names need not be unique.
func (t *Tree[R, T]) Name(id NodeID) string {
	return t.node(id).name
}

// Parent returns the node's parent, or None for an unattached node.
func (t *Tree[R, T]) Parent(id NodeID) NodeID {
	return t.node(id).parent
}

// IsLeaf reports whether the node is a leaf.
func (t *Tree[R, T]) IsLeaf(id NodeID) bool {
	return t.node(id).kind == kindLeaf
}

// Children returns a copy of the node's children in attachment order.
// Leaves have none.
func (t *Tree[R, T]) Children(id NodeID) []NodeID {
	n := t.node(id)
	if len(n.children) == 0 {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Value returns the value held by a leaf. For a branch it returns the
// zero value and false.
func (t *Tree[R, T]) Value(id NodeID) (T, bool) {
	n := t.node(id)
	if n.kind != kindLeaf {
		var zero T
		return zero, false
	}
	return n.value, true
}

// Len returns the number of nodes in the tree.
func (t *Tree[R, T]) Len() int {
	return len(t.nodes)
}

// FindNode searches the subtree rooted at from for a node with the name,
// depth first: a node is checked before its children, and children are
// searched in attachment order. When several nodes share the name, the
// first in that order wins.
func (t *Tree[R, T]) FindNode(from NodeID, name string) (NodeID, bool) {
	n := t.node(from)
	if n.name == name {
		return from, true
	}
	for _, c := range n.children {
		if id, ok := t.FindNode(c, name); ok {
			return id, true
		}
	}
	return None, false
}

// Walk applies fn to every node in the subtree rooted at from, each node
// before its children, children in attachment order. The walk stops at the
// first error, which is returned.
func (t *Tree[R, T]) Walk(from NodeID, fn func(id NodeID) error) error {
	if err := fn(from); err != nil {
		return err
	}
	for _, c := range t.node(from).children {
		if err := t.Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}
