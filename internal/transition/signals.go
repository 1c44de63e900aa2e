package transition

// Signals is an Animator the rendering layer drives by hand: it declares
// which edges animate and calls Finish when an animation completes.
type Signals struct {
	declared map[Edge]bool
	waiters  map[Edge][]*waiter
}

type waiter struct {
	fn   func()
	done bool
}

// NewSignals creates an animator with no declared animations.
func NewSignals() *Signals {
	return &Signals{
		declared: make(map[Edge]bool),
		waiters:  make(map[Edge][]*waiter),
	}
}

// Declare marks whether edge has an animation. Takes effect for transitions
// that start afterwards.
func (s *Signals) Declare(edge Edge, animated bool) {
	s.declared[edge] = animated
}

// Declares implements Animator.
func (s *Signals) Declares(edge Edge) bool {
	return s.declared[edge]
}

// OnFinished implements Animator.
func (s *Signals) OnFinished(edge Edge, fn func()) func() {
	w := &waiter{fn: fn}
	s.waiters[edge] = append(s.waiters[edge], w)
	return func() {
		w.done = true
		s.remove(edge, w)
	}
}

// Finish fires and clears every callback waiting on edge.
func (s *Signals) Finish(edge Edge) {
	ws := s.waiters[edge]
	s.waiters[edge] = nil
	for _, w := range ws {
		if w.done {
			continue
		}
		w.done = true
		w.fn()
	}
}

// Waiting returns how many callbacks are registered for edge.
func (s *Signals) Waiting(edge Edge) int {
	return len(s.waiters[edge])
}

func (s *Signals) remove(edge Edge, w *waiter) {
	ws := s.waiters[edge]
	for i, existing := range ws {
		if existing == w {
			s.waiters[edge] = append(ws[:i], ws[i+1:]...)
			return
		}
	}
}
