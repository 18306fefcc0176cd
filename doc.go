// Package ruletree provides a weighted, rule-gated decision tree for
// making probabilistic routing decisions.
//
// A tree is made of branches and leaves. A leaf holds a value of type T,
// the result of a selection. A branch holds children and a percentage
// allocation table that splits the traffic across them: a branch that
// allocates 60% to child A and 40% to child B will, over many selections,
// return results from A's subtree about 60% of the time.
//
// Every node, branch or leaf, can carry rules: predicates over a request
// value of type R. A node whose rules reject the request is skipped for
// that selection. Rules may record information on the request (when R is a
// pointer or map type), and those changes persist for the remainder of the
// selection, including retries.
//
// # Usage
//
// Basic usage:
//
//  1. Create a tree with New, choosing the request and result types.
//  2. Create nodes with Branch and Leaf.
//  3. Connect them with AddChild and attach predicates with AddRule.
//  4. Distribute traffic with Allocate, Spread or SpreadUnallocated.
//  5. Call Select with a request to draw a result.
//
// Example:
//
//	t := ruletree.New[*Order, string]()
//	root := t.Branch("router")
//	nyse := t.Leaf("nyse", "NYSE")
//	dark := t.Leaf("dark", "DARK")
//
//	t.AddChild(root, nyse)
//	t.AddChild(root, dark)
//	t.AddRule(dark, ruletree.RuleFunc[*Order](func(o *Order) bool {
//		return o.Qty >= 1000
//	}))
//
//	t.Allocate(root, 80, nyse)
//	t.Allocate(root, 20, dark)
//
//	venue, ok, err := t.Select(root, &Order{Qty: 50})
//
// # Nodes and Identity
//
// Nodes live in an arena owned by the tree and are addressed by NodeID
// handles. IDs are stable for the life of the tree and are only meaningful
// to the tree that issued them; passing an ID from a different tree, or a
// value that never came from Branch or Leaf, is a programmer error and
// panics like an out-of-range slice index. None (-1) is the absent node.
//
// # Construction and Query Phases
//
// A tree has two phases. During construction a single goroutine creates
// nodes, wires them and sets allocations. Once built, any number of
// goroutines may call Select, FindNode, DumpTree and the accessors
// concurrently: selection only reads the tree. Mutating the tree (AddChild,
// Allocate, ResetAllocations, ...) while selections are in flight is not
// synchronized and must be arranged by the caller.
//
// The tree never calls rules concurrently for a single selection, but
// concurrent selections will run rules concurrently; rules that share state
// across requests must protect it themselves.
//
// # Randomness
//
// Selection draws slots from a Rand source. The default source is safe for
// concurrent use. Deterministic runs inject a seeded source, either for the
// whole tree (WithRand, WithSeed) or for a single call (SelectRand). A
// *math/rand.Rand satisfies Rand but is not safe for concurrent Select
// calls; give each goroutine its own.
//
// # Errors
//
// Misconfiguration surfaces as errors wrapping ErrBadAllocation,
// ErrUnknownNode or ErrNotBranch; test with errors.Is. A selection that
// finds no result because rules rejected every path is not an error: Select
// returns found == false and a nil error.
package ruletree
