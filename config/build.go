package config

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	ruletree "github.com/DanielDubi/RuleTree"
)

// A RuleCompiler turns the rule expressions found in definitions into
// rules. *cel.Compiler[R] implements it.
type RuleCompiler[R any] interface {
	Rule(expr string) (ruletree.Rule[R], error)
}

// A Builder adds defined nodes to trees. R and T must match the target
// tree's request and result types.
type Builder[R, T any] struct {
	rules RuleCompiler[R]
}

// NewBuilder creates a Builder that compiles rule expressions with rc.
// A nil rc is fine for definitions that carry no rules.
func NewBuilder[R, T any](rc RuleCompiler[R]) *Builder[R, T] {
	return &Builder[R, T]{rules: rc}
}

// Build adds the defined nodes to t and returns the root's ID. Children
// are attached in listed order, explicit percents are allocated in that
// same order once all of a branch's children are attached, and after the
// whole subtree is wired, branches whose children claimed nothing are
// split evenly with SpreadUnallocated.
//
// On error the tree may hold partially wired nodes; discard it.
func (b *Builder[R, T]) Build(t *ruletree.Tree[R, T], def *Definition) (ruletree.NodeID, error) {
	root, err := b.build(t, &def.Root)
	if err != nil {
		return ruletree.None, err
	}
	if !t.IsLeaf(root) {
		if err := t.SpreadUnallocated(root); err != nil {
			return ruletree.None, err
		}
	}
	return root, nil
}

func (b *Builder[R, T]) build(t *ruletree.Tree[R, T], d *NodeDef) (ruletree.NodeID, error) {
	if d.Name == "" {
		return ruletree.None, fmt.Errorf("node with no name (kind %q)", d.Kind)
	}

	var id ruletree.NodeID
	switch d.Kind {
	case KindBranch:
		id = t.Branch(d.Name)
		ids := make([]ruletree.NodeID, len(d.Children))
		for i := range d.Children {
			c, err := b.build(t, &d.Children[i])
			if err != nil {
				return ruletree.None, err
			}
			if err := t.AddChild(id, c); err != nil {
				return ruletree.None, fmt.Errorf("attaching %q to %q: %w", d.Children[i].Name, d.Name, err)
			}
			ids[i] = c
		}
		for i := range d.Children {
			p := d.Children[i].Percent
			if p == nil {
				continue
			}
			if err := t.Allocate(id, *p, ids[i]); err != nil {
				return ruletree.None, fmt.Errorf("allocating %d%% of %q to %q: %w", *p, d.Name, d.Children[i].Name, err)
			}
		}
	case KindLeaf:
		if len(d.Children) > 0 {
			return ruletree.None, fmt.Errorf("leaf %q has children", d.Name)
		}
		var v T
		if d.Value != nil {
			if err := mapstructure.Decode(d.Value, &v); err != nil {
				return ruletree.None, fmt.Errorf("decoding value of leaf %q: %w", d.Name, err)
			}
		}
		id = t.Leaf(d.Name, v)
	default:
		return ruletree.None, fmt.Errorf("node %q: unknown kind %q", d.Name, d.Kind)
	}

	for _, expr := range d.Rules {
		if b.rules == nil {
			return ruletree.None, fmt.Errorf("node %q has rules but the builder has no rule compiler", d.Name)
		}
		r, err := b.rules.Rule(expr)
		if err != nil {
			return ruletree.None, fmt.Errorf("node %q: %w", d.Name, err)
		}
		t.AddRule(id, r)
	}
	return id, nil
}

// Validate checks that the subtree rooted at root is ready for selection:
// every branch has children and a fully allocated table, and no two
// nodes share a name. Allocation findings wrap ruletree.ErrBadAllocation;
// all findings are joined into the returned error.
func Validate[R, T any](t *ruletree.Tree[R, T], root ruletree.NodeID) error {
	var errs []error
	seen := map[string]bool{}
	walkErr := t.Walk(root, func(id ruletree.NodeID) error {
		name := t.Name(id)
		if seen[name] {
			errs = append(errs, fmt.Errorf("name %q used more than once", name))
		}
		seen[name] = true
		if t.IsLeaf(id) {
			return nil
		}
		if len(t.Children(id)) == 0 {
			errs = append(errs, fmt.Errorf("%w: branch %q has no children", ruletree.ErrBadAllocation, name))
			return nil
		}
		if a := t.Allocated(id); a != 100 {
			errs = append(errs, fmt.Errorf("%w: branch %q has %d%% allocated", ruletree.ErrBadAllocation, name, a))
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	return errors.Join(errs...)
}
