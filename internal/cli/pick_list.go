package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
)

// pickList is a cursor over labels with an optional fuzzy filter opened
// with "/".
type pickList struct {
	labels    []string
	cursor    int
	filtering bool
	filter    string
	matches   fuzzy.Matches
}

func (l *pickList) setLabels(labels []string) {
	l.labels = labels
	l.refilter()
}

// rows returns label indices in display order.
func (l *pickList) rows() []int {
	if l.filter == "" {
		idx := make([]int, len(l.labels))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, len(l.matches))
	for i, m := range l.matches {
		idx[i] = m.Index
	}
	return idx
}

// selected returns the label index under the cursor.
func (l *pickList) selected() (int, bool) {
	rows := l.rows()
	if l.cursor < 0 || l.cursor >= len(rows) {
		return 0, false
	}
	return rows[l.cursor], true
}

func (l *pickList) refilter() {
	l.matches = nil
	if l.filter != "" {
		l.matches = fuzzy.Find(l.filter, l.labels)
	}
	if n := len(l.rows()); l.cursor >= n {
		l.cursor = max(0, n-1)
	}
}

// update applies a key and reports whether it chose the current row.
func (l *pickList) update(msg tea.KeyMsg) (chosen bool) {
	if l.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			l.filtering = false
			l.filter = ""
			l.cursor = 0
			l.refilter()
		case tea.KeyEnter:
			l.filtering = false
			_, ok := l.selected()
			return ok
		case tea.KeyBackspace:
			if r := []rune(l.filter); len(r) > 0 {
				l.filter = string(r[:len(r)-1])
				l.cursor = 0
				l.refilter()
			}
		case tea.KeyUp:
			l.move(-1)
		case tea.KeyDown:
			l.move(1)
		case tea.KeyRunes, tea.KeySpace:
			l.filter += string(msg.Runes)
			l.cursor = 0
			l.refilter()
		}
		return false
	}

	switch msg.String() {
	case "up", "k":
		l.move(-1)
	case "down", "j":
		l.move(1)
	case "home", "g":
		l.cursor = 0
	case "end", "G":
		l.cursor = max(0, len(l.rows())-1)
	case "enter":
		_, ok := l.selected()
		return ok
	case "/":
		l.filtering = true
	}
	return false
}

func (l *pickList) move(delta int) {
	n := len(l.rows())
	if n == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), n-1)
}

// highlighted renders label i with fuzzy-matched runes emphasised.
func (l *pickList) highlighted(i int) string {
	label := l.labels[i]
	if l.filter == "" {
		return label
	}
	var hit map[int]bool
	for _, m := range l.matches {
		if m.Index == i {
			hit = make(map[int]bool, len(m.MatchedIndexes))
			for _, b := range m.MatchedIndexes {
				hit[b] = true
			}
			break
		}
	}
	var b strings.Builder
	for pos, r := range label {
		if hit[pos] {
			b.WriteString(formatter.StyleYellowBold.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// window returns the first row to draw so the cursor stays within height.
func (l *pickList) window(height int) int {
	if height <= 0 || l.cursor < height {
		return 0
	}
	return l.cursor - height + 1
}

// renderPrompt shows the filter input while it is open or applied.
func (l *pickList) renderPrompt() string {
	switch {
	case l.filtering:
		return "  " + formatter.StyleYellow.Render("/") + " " + l.filter + "█\n\n"
	case l.filter != "":
		return "  " + formatter.Dim("filter: "+l.filter+"  (/ to edit)") + "\n\n"
	}
	return ""
}
