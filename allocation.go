package ruletree

import "fmt"

// slotCount is the size of every branch's allocation table. Allocations
// are whole percentage points; a branch can be drawn from once all 100
// points are assigned.
const slotCount = 100

// Allocate assigns percentage points of branch's traffic to child,
// claiming the next free run of slots in the allocation table. It may be
// called more than once for the same child; the shares add up.
//
// Allocate returns an error wrapping ErrBadAllocation if percentage is
// negative or would push the branch past 100%, and ErrUnknownNode if
// child is not one of branch's children. A zero percentage is legal; it
// claims no slots but still requires membership.
func (t *Tree[R, T]) Allocate(branch NodeID, percentage int, child NodeID) error {
	b := t.node(branch)
	if b.kind != kindBranch {
		return fmt.Errorf("%w: %s", ErrNotBranch, b.name)
	}
	if percentage < 0 || b.allocated+percentage > slotCount {
		return fmt.Errorf("%w: %d%% + %d%% on %s", ErrBadAllocation, b.allocated, percentage, b.name)
	}
	if !t.isChild(b, child) {
		return fmt.Errorf("%w: %s not under %s", ErrUnknownNode, t.node(child).name, b.name)
	}
	for i := b.allocated; i < b.allocated+percentage; i++ {
		b.slots[i] = child
	}
	b.tally[child] += percentage
	b.allocated += percentage
	return nil
}

func (t *Tree[R, T]) isChild(b *node[R, T], id NodeID) bool {
	for _, c := range b.children {
		if c == id {
			return true
		}
	}
	return false
}

// Spread divides the branch's traffic evenly across all of its children:
// each child gets floor(100/n) points, and the first 100 mod n children
// in attachment order get one point more. On a fresh or reset branch the
// table always lands exactly on 100%.
//
// Spreading a branch with no children returns an error wrapping
// ErrBadAllocation. Spreading a branch that already has allocations
// overflows the table and fails the same way, leaving the allocations it
// made before overflowing in place.
func (t *Tree[R, T]) Spread(branch NodeID) error {
	b := t.node(branch)
	if b.kind != kindBranch {
		return fmt.Errorf("%w: %s", ErrNotBranch, b.name)
	}
	n := len(b.children)
	if n == 0 {
		return fmt.Errorf("%w: %s has no children to spread over", ErrBadAllocation, b.name)
	}
	base := slotCount / n
	extra := slotCount - base*n
	for i, c := range b.children {
		pct := base
		if i < extra {
			pct++
		}
		if err := t.Allocate(branch, pct, c); err != nil {
			return err
		}
	}
	return nil
}

// SpreadUnallocated walks the subtree rooted at branch and applies Spread
// to every branch whose table is still empty, leaving branches with any
// allocation at all untouched. The walk always descends into child
// branches, whether or not the branch itself was spread.
//
// Calling it on the root after wiring a tree fills in an even split
// everywhere no explicit split was given. A branch left partially
// allocated is not completed; it surfaces later as ErrBadAllocation when
// Select draws from it.
func (t *Tree[R, T]) SpreadUnallocated(branch NodeID) error {
	b := t.node(branch)
	if b.kind != kindBranch {
		return fmt.Errorf("%w: %s", ErrNotBranch, b.name)
	}
	if b.allocated == 0 {
		if err := t.Spread(branch); err != nil {
			return err
		}
	}
	for _, c := range b.children {
		if t.node(c).kind != kindBranch {
			continue
		}
		if err := t.SpreadUnallocated(c); err != nil {
			return err
		}
	}
	return nil
}

// ResetAllocations clears the allocation table, the per-child tally and
// the allocated total of branch and, recursively, of every branch below
// it. Shares must be handed out again before the next Select; drawing
// from a reset branch is ErrBadAllocation.
func (t *Tree[R, T]) ResetAllocations(branch NodeID) error {
	b := t.node(branch)
	if b.kind != kindBranch {
		return fmt.Errorf("%w: %s", ErrNotBranch, b.name)
	}
	b.allocated = 0
	for i := range b.slots {
		b.slots[i] = None
	}
	for _, c := range b.children {
		b.tally[c] = 0
		if t.node(c).kind == kindBranch {
			if err := t.ResetAllocations(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Allocated returns how many percentage points of the branch's table are
// assigned. A branch ready for selection reports 100. Leaves report 0.
func (t *Tree[R, T]) Allocated(id NodeID) int {
	return t.node(id).allocated
}

// Tally returns the percentage points branch allocates to child. A child
// never allocated to, or reset since, reports 0.
func (t *Tree[R, T]) Tally(branch, child NodeID) int {
	return t.node(branch).tally[child]
}
