package ruletree

// A Rule gates a node. During selection a node is eligible only if every
// one of its rules accepts the request; rules are checked in attachment
// order and the first rejection short-circuits the rest. A node with no
// rules accepts every request.
//
// Check may mutate the request (R is typically a pointer or map type).
// Mutations are kept: later rules, and later draws of the same selection,
// see them. Check must not fail; a rule that cannot decide should reject.
type Rule[R any] interface {
	Check(req R) bool
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc[R any] func(req R) bool

// Check calls f.
func (f RuleFunc[R]) Check(req R) bool {
	return f(req)
}

// pass reports whether every rule on n accepts req.
func pass[R, T any](n *node[R, T], req R) bool {
	for _, r := range n.rules {
		if !r.Check(req) {
			return false
		}
	}
	return true
}
