package ruletree

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DumpTree writes a plain rendering of the subtree rooted at id to w.
// Each node appears on its own line indented one tab per level, and every
// child line carries the percentage its parent allocates to it, written
// at the parent's depth:
//
//	router
//	60 : 	equities
//		50 : 		nyse
//		50 : 		nasdaq
//	40 : 	dark
//
// A child the parent never allocated to shows 0.
func (t *Tree[R, T]) DumpTree(w io.Writer, id NodeID) error {
	return t.dump(w, id, 0)
}

func (t *Tree[R, T]) dump(w io.Writer, id NodeID, depth int) error {
	n := t.node(id)
	indent := strings.Repeat("\t", depth)
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, n.name); err != nil {
		return err
	}
	for _, c := range n.children {
		if _, err := fmt.Fprintf(w, "%s%d : ", indent, n.tally[c]); err != nil {
			return err
		}
		if err := t.dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String returns a table of every node in the tree in creation order,
// with its kind, parent, allocated share, rule count and value.
func (t *Tree[R, T]) String() string {
	tw := table.NewWriter()
	tw.SetTitle("RULE TREE")
	tw.AppendHeader(table.Row{"Node", "Kind", "Parent", "Share", "Rules", "Value"})

	for i := range t.nodes {
		id := NodeID(i)
		n := &t.nodes[i]

		k := "branch"
		value := ""
		if n.kind == kindLeaf {
			k = "leaf"
			value = fmt.Sprintf("%v", n.value)
		}

		parent := ""
		share := ""
		if n.parent != None {
			p := t.node(n.parent)
			parent = p.name
			share = fmt.Sprintf("%d%%", p.tally[id])
		}

		tw.AppendRow(table.Row{n.name, k, parent, share, len(n.rules), value})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, WidthMax: 40},
	})

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

// Outline returns a tree drawing of the subtree rooted at id showing
// names and allocated shares, children in attachment order. Recursion is
// limited to a maximum depth of 20 levels.
//
// Example output:
//
//	router
//	├── 60% equities
//	│   ├── 50% nyse
//	│   └── 50% nasdaq
//	└── 40% dark
func (t *Tree[R, T]) Outline(id NodeID) string {
	var sb strings.Builder
	sb.WriteString(t.node(id).name)
	sb.WriteString("\n")
	t.outline(&sb, id, "", 0)
	return sb.String()
}

func (t *Tree[R, T]) outline(sb *strings.Builder, id NodeID, prefix string, depth int) {
	if depth >= 20 {
		return
	}
	n := t.node(id)
	for i, c := range n.children {
		isLast := i == len(n.children)-1
		var connector, childPrefix string
		if isLast {
			connector = "└── "
			childPrefix = "    "
		} else {
			connector = "├── "
			childPrefix = "│   "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		fmt.Fprintf(sb, "%d%% %s", n.tally[c], t.node(c).name)
		sb.WriteString("\n")
		t.outline(sb, c, prefix+childPrefix, depth+1)
	}
}
