package ruletree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
)

// EventKind classifies one step of a traced selection.
type EventKind int

const (
	// EventGate marks a node whose rules rejected the request.
	EventGate EventKind = iota

	// EventDraw marks a branch drawing a slot and descending into the
	// child allocated to it.
	EventDraw

	// EventLeaf marks a leaf returning its value.
	EventLeaf

	// EventExhaust marks a branch that used its whole draw budget
	// without finding a result.
	EventExhaust
)

func (k EventKind) String() string {
	switch k {
	case EventGate:
		return "gated"
	case EventDraw:
		return "draw"
	case EventLeaf:
		return "selected"
	case EventExhaust:
		return "exhausted"
	default:
		return "unknown"
	}
}

// A TraceEvent is one step of a traced selection.
type TraceEvent struct {
	Depth int
	Node  string
	Kind  EventKind

	// Slot is the drawn slot for EventDraw, -1 otherwise.
	Slot int

	// Child is the name of the drawn child for EventDraw.
	Child string
}

// A Trace records what one Select call did: every draw, every rule gate
// that rejected, and the outcome. Pass it to Select with SelectTrace.
//
// Pathological selections can draw many thousands of times, so the event
// list is capped at 10,000 entries; past the cap further events are
// dropped and Truncated is set, while Draws keeps counting.
type Trace struct {
	Root      string
	Events    []TraceEvent
	Draws     int
	Result    string
	Found     bool
	Truncated bool
}

const traceEventCap = 10000

func (tr *Trace) reset(root string) {
	*tr = Trace{Root: root}
}

func (tr *Trace) add(ev TraceEvent) {
	if len(tr.Events) >= traceEventCap {
		tr.Truncated = true
		return
	}
	tr.Events = append(tr.Events, ev)
}

func (tr *Trace) gate(depth int, node string) {
	if tr == nil {
		return
	}
	tr.add(TraceEvent{Depth: depth, Node: node, Kind: EventGate, Slot: -1})
}

func (tr *Trace) draw(depth int, node string, slot int, child string) {
	if tr == nil {
		return
	}
	tr.Draws++
	tr.add(TraceEvent{Depth: depth, Node: node, Kind: EventDraw, Slot: slot, Child: child})
}

func (tr *Trace) leaf(depth int, node string) {
	if tr == nil {
		return
	}
	tr.add(TraceEvent{Depth: depth, Node: node, Kind: EventLeaf, Slot: -1})
}

func (tr *Trace) exhaust(depth int, node string) {
	if tr == nil {
		return
	}
	tr.add(TraceEvent{Depth: depth, Node: node, Kind: EventExhaust, Slot: -1})
}

// String renders the trace as a boxed report with a step-by-step event
// table.
func (tr *Trace) String() string {
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	s := strings.Builder{}
	s.WriteString("Selection:\n")
	s.WriteString("----------\n")
	s.WriteString(fmt.Sprintf("root: %s\n", tr.Root))
	s.WriteString(fmt.Sprintf("draws: %d\n", tr.Draws))
	if tr.Found {
		s.WriteString(fmt.Sprintf("result: %s\n", tr.Result))
	} else {
		s.WriteString("result: none\n")
	}
	s.WriteString("\n")
	s.WriteString("Events:\n")
	s.WriteString("-------\n")
	s.WriteString(tr.eventTable().String())
	if tr.Truncated {
		s.WriteString("\n\n(event list truncated)")
	}
	return Box.String("RULETREE SELECTION TRACE", s.String())
}

func (tr *Trace) eventTable() *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Node"},
			{Align: simpletable.AlignCenter, Text: "Event"},
			{Align: simpletable.AlignCenter, Text: "Slot"},
			{Align: simpletable.AlignCenter, Text: "Child"},
		},
	}

	for _, ev := range tr.Events {
		slot := ""
		if ev.Kind == EventDraw {
			slot = strconv.Itoa(ev.Slot)
		}
		r := []*simpletable.Cell{
			{Text: strings.Repeat("  ", ev.Depth) + ev.Node},
			{Text: ev.Kind.String()},
			{Align: simpletable.AlignRight, Text: slot},
			{Text: ev.Child},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleUnicode)

	return table
}
