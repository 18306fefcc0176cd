// selectbench_test.go
package ruletree_test

import (
	"fmt"
	"math/rand"
	"testing"

	ruletree "github.com/DanielDubi/RuleTree"
)

// benchTree builds a two-level tree: 10 branches of 10 leaves each,
// spread evenly.
func benchTree(b *testing.B) (*ruletree.Tree[*order, string], ruletree.NodeID) {
	b.Helper()
	tr := ruletree.New[*order, string]()
	root := tr.Branch("root")
	for i := 0; i < 10; i++ {
		br := tr.Branch(fmt.Sprintf("b%d", i))
		if err := tr.AddChild(root, br); err != nil {
			b.Fatal(err)
		}
		for j := 0; j < 10; j++ {
			leaf := tr.Leaf(fmt.Sprintf("l%d_%d", i, j), "V")
			if err := tr.AddChild(br, leaf); err != nil {
				b.Fatal(err)
			}
		}
	}
	if err := tr.SpreadUnallocated(root); err != nil {
		b.Fatal(err)
	}
	return tr, root
}

func BenchmarkSelect_TwoLevels(b *testing.B) {
	tr, root := benchTree(b)
	rng := rand.New(rand.NewSource(1))
	o := &order{}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok, err := tr.Select(root, o, ruletree.SelectRand(rng)); err != nil || !ok {
			b.Fatalf("ok=%v err=%v", ok, err)
		}
	}
}

func BenchmarkSelect_Gated(b *testing.B) {
	tr := ruletree.New[*order, string]()
	root := tr.Branch("root")
	blocked := tr.Leaf("blocked", "X")
	open := tr.Leaf("open", "V")
	tr.AddChild(root, blocked)
	tr.AddChild(root, open)
	tr.Allocate(root, 50, blocked)
	tr.Allocate(root, 50, open)
	tr.AddRule(blocked, deny())

	rng := rand.New(rand.NewSource(1))
	o := &order{}

	b.ResetTimer()
	b.ReportAllocs()

	// Half the draws bounce off the gate and redraw.
	for i := 0; i < b.N; i++ {
		if _, ok, err := tr.Select(root, o, ruletree.SelectRand(rng)); err != nil || !ok {
			b.Fatalf("ok=%v err=%v", ok, err)
		}
	}
}

func BenchmarkSelect_Traced(b *testing.B) {
	tr, root := benchTree(b)
	rng := rand.New(rand.NewSource(1))
	o := &order{}

	b.ResetTimer()
	b.ReportAllocs()

	var trace ruletree.Trace
	for i := 0; i < b.N; i++ {
		if _, ok, err := tr.Select(root, o, ruletree.SelectRand(rng), ruletree.SelectTrace(&trace)); err != nil || !ok {
			b.Fatalf("ok=%v err=%v", ok, err)
		}
	}
}

func BenchmarkFindNode(b *testing.B) {
	tr, root := benchTree(b)

	b.ResetTimer()

	// Worst case: the last leaf in walk order.
	for i := 0; i < b.N; i++ {
		if _, ok := tr.FindNode(root, "l9_9"); !ok {
			b.Fatal("leaf not found")
		}
	}
}
