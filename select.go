package ruletree

import (
	"fmt"
	"math/rand"
)

// MaxTries bounds the number of slot draws a single branch makes during
// one Select before it gives up and declines.
const MaxTries = 100000

// Rand is the source of slot draws. Intn must return a uniform value in
// [0, n). *math/rand.Rand satisfies Rand.
type Rand interface {
	Intn(n int) int
}

// defaultRand draws from math/rand's shared, locked source.
type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.Intn(n) }

type selectOptions struct {
	rand  Rand
	trace *Trace
}

// SelectOption configures a single Select call.
type SelectOption func(o *selectOptions)

func applySelectOptions(o *selectOptions, opts ...SelectOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// SelectRand draws this selection's slots from r instead of the tree's
// source.
func SelectRand(r Rand) SelectOption {
	return func(o *selectOptions) {
		o.rand = r
	}
}

// SelectTrace records every draw and gate decision of this selection into
// tr. The trace is reset first, not appended to.
func SelectTrace(tr *Trace) SelectOption {
	return func(o *selectOptions) {
		o.trace = tr
	}
}

// Select walks the tree from id, drawing children according to the
// branches' allocation tables, and returns the value of the leaf the
// request lands on.
//
// At every node the rules run first; a rejection makes the node decline
// without looking deeper. A leaf whose rules accept returns its value. A
// branch whose rules accept draws a slot in [0, 100), descends into the
// child allocated to that slot, and on a decline draws again, up to
// MaxTries times before declining itself. Slots are drawn with
// replacement, so a declined child can be drawn again.
//
// Select returns found == false with a nil error when no leaf accepted
// the request; that is a normal outcome, not an error. It returns an
// error wrapping ErrBadAllocation when a draw reaches a branch whose
// table is not fully allocated. Errors are configuration problems and are
// never retried.
func (t *Tree[R, T]) Select(id NodeID, req R, opts ...SelectOption) (T, bool, error) {
	o := selectOptions{rand: t.rand}
	applySelectOptions(&o, opts...)
	if o.trace != nil {
		o.trace.reset(t.node(id).name)
	}
	v, ok, err := t.sel(id, req, &o, 0)
	if o.trace != nil {
		o.trace.Found = ok
		if ok {
			o.trace.Result = fmt.Sprint(v)
		}
	}
	return v, ok, err
}

func (t *Tree[R, T]) sel(id NodeID, req R, o *selectOptions, depth int) (T, bool, error) {
	var zero T
	n := t.node(id)
	if !pass(n, req) {
		o.trace.gate(depth, n.name)
		return zero, false, nil
	}
	if n.kind == kindLeaf {
		o.trace.leaf(depth, n.name)
		return n.value, true, nil
	}
	for try := 0; try < MaxTries; try++ {
		if n.allocated != slotCount {
			return zero, false, fmt.Errorf("%w: %s has %d%% allocated", ErrBadAllocation, n.name, n.allocated)
		}
		slot := o.rand.Intn(slotCount)
		child := n.slots[slot]
		o.trace.draw(depth, n.name, slot, t.node(child).name)
		v, ok, err := t.sel(child, req, o, depth+1)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
	}
	o.trace.exhaust(depth, n.name)
	return zero, false, nil
}
