package tree

import (
	"github.com/alexanderramin/okrview/internal/domain"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "idle"
}

// State is everything one tree view owns. It only changes through Reduce.
type State struct {
	CycleID     int64
	ObjectiveID int64
	Status      Status
	// Seq is the sequence number of the latest FetchStart. Responses tagged
	// with any other number are stale.
	Seq       uint64
	Graph     *Graph
	Expanded  ExpansionSet
	Direction domain.Direction
	Notice    string
	// Revision increases whenever the rendered subgraph or the direction
	// changes; the view schedules a viewport fit when it moves.
	Revision uint64
}

func NewState(dir domain.Direction) State {
	if dir == "" {
		dir = domain.DirectionLR
	}
	return State{
		Graph:     EmptyGraph(),
		Expanded:  NewExpansionSet(),
		Direction: dir,
	}
}

// NextSeq is the sequence number to use for the next FetchStart.
func (s State) NextSeq() uint64 { return s.Seq + 1 }

// Visible derives the rendered subgraph.
func (s State) Visible() Subgraph {
	return Visible(s.Graph, s.Expanded)
}

// Layout derives positions for the rendered subgraph in the state's direction.
func (s State) Layout(opts LayoutOptions) Positioned {
	opts.Direction = s.Direction
	return Layout(s.Graph, s.Visible(), opts)
}

type Action interface{ isAction() }

type FetchStart struct {
	Seq         uint64
	CycleID     int64
	ObjectiveID int64
}

type FetchSuccess struct {
	Seq  uint64
	Root *domain.TreeNode
}

// FetchFailure reports a failed fetch. Message, when set, is shown instead
// of Err's text.
type FetchFailure struct {
	Seq     uint64
	Err     error
	Message string
}

type ToggleExpand struct{ ID string }

type SetDirection struct{ Direction domain.Direction }

type ToggleDirection struct{}

type ExpandAllNodes struct{}

type CollapseAllNodes struct{}

type DismissNotice struct{}

func (FetchStart) isAction()       {}
func (FetchSuccess) isAction()     {}
func (FetchFailure) isAction()     {}
func (ToggleExpand) isAction()     {}
func (SetDirection) isAction()     {}
func (ToggleDirection) isAction()  {}
func (ExpandAllNodes) isAction()   {}
func (CollapseAllNodes) isAction() {}
func (DismissNotice) isAction()    {}

// Reduce applies a to s and returns the next state.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchStart:
		s.Seq = a.Seq
		s.CycleID = a.CycleID
		s.ObjectiveID = a.ObjectiveID
		s.Status = StatusLoading
		s.Notice = ""

	case FetchSuccess:
		if a.Seq != s.Seq {
			return s
		}
		g, err := FromTree(a.Root)
		if err != nil {
			return failed(s, err.Error())
		}
		s.Graph = g
		s.Expanded = SeedExpansion(g)
		s.Status = StatusReady
		s.Revision++

	case FetchFailure:
		if a.Seq != s.Seq {
			return s
		}
		msg := a.Message
		if msg == "" && a.Err != nil {
			msg = a.Err.Error()
		}
		return failed(s, msg)

	case ToggleExpand:
		return withExpansion(s, s.Expanded.Toggle(a.ID))

	case ExpandAllNodes:
		return withExpansion(s, ExpandAll(s.Graph))

	case CollapseAllNodes:
		return withExpansion(s, CollapseAll(s.Graph))

	case SetDirection:
		if a.Direction != "" && a.Direction != s.Direction {
			s.Direction = a.Direction
			s.Revision++
		}

	case ToggleDirection:
		s.Direction = s.Direction.Toggle()
		s.Revision++

	case DismissNotice:
		s.Notice = ""
	}
	return s
}

func failed(s State, msg string) State {
	if msg == "" {
		msg = "Unable to load OKR tree"
	}
	s.Graph = EmptyGraph()
	s.Expanded = NewExpansionSet()
	s.Status = StatusFailed
	s.Notice = msg
	s.Revision++
	return s
}

func withExpansion(s State, next ExpansionSet) State {
	before := s.Visible()
	s.Expanded = next
	if !before.Same(s.Visible()) {
		s.Revision++
	}
	return s
}
