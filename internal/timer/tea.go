package timer

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FiredMsg is emitted by the commands Tea hands out. Route it back to
// Tea.Fire from the program's Update.
type FiredMsg struct {
	ID uint64
}

// Tea schedules timers as bubbletea tick commands. Callbacks run inside
// Update when the matching FiredMsg arrives, so they share the program's
// single event timeline.
type Tea struct {
	nextID  uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
	now     func() time.Time
}

type teaTimer struct {
	s  *Tea
	id uint64
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}

// NewTea creates a bubbletea-backed scheduler.
func NewTea() *Tea {
	return &Tea{
		pending: make(map[uint64]func()),
		now:     time.Now,
	}
}

// Now returns wall-clock time.
func (s *Tea) Now() time.Time {
	return s.now()
}

// AfterFunc registers fn and queues a tick command for it. The command is
// handed to bubbletea by the next Flush.
func (s *Tea) AfterFunc(d time.Duration, fn func()) Handle {
	if fn == nil {
		return noop{}
	}
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return FiredMsg{ID: id}
	}))
	return teaTimer{s: s, id: id}
}

// Fire runs the callback for msg if it has not been stopped. Stale fires
// (stopped or already fired) are ignored.
func (s *Tea) Fire(msg FiredMsg) {
	fn, ok := s.pending[msg.ID]
	if !ok {
		return
	}
	delete(s.pending, msg.ID)
	fn()
}

// Flush returns the tick commands queued since the last call.
func (s *Tea) Flush() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of live timers.
func (s *Tea) Pending() int {
	return len(s.pending)
}
