// Package teatest drives a bubbletea model synchronously in tests.
//
// Update is called directly and returned Cmds are drained on the calling
// goroutine. Cmds that do not answer within the drain timeout (ticks,
// watcher waits, cursor blinks) are parked; Settle waits for them and feeds
// their messages back through the model.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one Send may produce.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates instant Cmds (service calls against fakes,
// message factories) from timer-driven ones.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.QuitMsg is seen.
	Quitting bool

	cmdTimeout time.Duration
	pending    []chan tea.Msg
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.cmdTimeout = timeout }
}

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init Cmd and drains everything it produces.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// ── keys ─────────────────────────────────────────────────────────────────────

func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEnter})
}

func (d *Driver) PressSpace() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (d *Driver) PressEsc() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyEsc})
}

func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlC})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) PressBackspace() {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyBackspace})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Pending is the number of parked Cmds.
func (d *Driver) Pending() int { return len(d.pending) }

// Settle waits up to timeout for parked Cmds and feeds every message that
// arrives through the model, draining what those messages produce. Cmds
// still blocked at the deadline stay parked.
func (d *Driver) Settle(timeout time.Duration) {
	d.T.Helper()
	deadline := time.Now().Add(timeout)
	for len(d.pending) > 0 && !d.Quitting {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		ch := d.pending[0]
		d.pending = d.pending[1:]
		select {
		case msg := <-ch:
			d.deliver(msg, 0)
		case <-time.After(remaining):
			d.pending = append([]chan tea.Msg{ch}, d.pending...)
			return
		}
	}
}

// DropPending forgets every parked Cmd.
func (d *Driver) DropPending() { d.pending = nil }

// ── draining ─────────────────────────────────────────────────────────────────

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		d.deliver(msg, depth)
	case <-time.After(d.cmdTimeout):
		d.pending = append(d.pending, ch)
	}
}

func (d *Driver) deliver(msg tea.Msg, depth int) {
	d.T.Helper()
	if msg == nil || isCursorBlink(msg) {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}
	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// which chain into timer Cmds forever.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}

// Contains reports whether the rendered view contains every part.
func (d *Driver) Contains(parts ...string) bool {
	v := d.View()
	for _, p := range parts {
		if !strings.Contains(v, p) {
			return false
		}
	}
	return true
}
