package generator

// Session tracks the ideas accepted during one run. It exists only to bias
// the model away from repeating itself; growth is unbounded but run lengths
// are small and fixed. Single-goroutine access, no locking.
type Session struct {
	ideas []string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Add appends an accepted idea.
func (s *Session) Add(idea string) {
	s.ideas = append(s.ideas, idea)
}

// Ideas returns the accepted ideas in acceptance order. The returned slice is
// a copy; callers cannot mutate session state through it.
func (s *Session) Ideas() []string {
	out := make([]string, len(s.ideas))
	copy(out, s.ideas)
	return out
}

// Len returns the number of accepted ideas.
func (s *Session) Len() int {
	return len(s.ideas)
}
