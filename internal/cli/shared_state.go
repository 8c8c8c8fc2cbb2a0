package cli

import "github.com/alexanderramin/okrview/internal/domain"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Selection made in the list views.
	Cycle     *domain.Cycle
	Objective *domain.CompanyObjective

	// Terminal dimensions
	Width  int
	Height int

	// seq numbers fetches and fits for every tree view, so a message issued
	// by a closed view never matches the view on top.
	seq uint64
}

func (s *SharedState) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// ContentHeight returns the rows left for view content after the header
// (title and separator) and the status bar (separator and hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

// SetCycle selects a cycle and clears the objective chosen under the
// previous one.
func (s *SharedState) SetCycle(c domain.Cycle) {
	s.Cycle = &c
	s.Objective = nil
}

func (s *SharedState) SetObjective(o domain.CompanyObjective) {
	s.Objective = &o
}
