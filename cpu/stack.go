package cpu

const (
	STACK_LIMIT = 16 // Default maximum call depth.
)

// Stack holds the return addresses of the active subroutine calls.
type Stack struct {
	Limit int // Maximum depth; 0 is unbounded.
	Data  []uint16
}

// Call records a return address, or fails with ErrStackFull at the limit.
func (s *Stack) Call(ret uint16) (err error) {
	if s.Limit > 0 && len(s.Data) >= s.Limit {
		err = ErrStackFull
		return
	}

	s.Data = append(s.Data, ret)
	return
}

// Return removes and returns the innermost return address, or fails with
// ErrStackEmpty.
func (s *Stack) Return() (ret uint16, err error) {
	ret, ok := s.Top()
	if !ok {
		err = ErrStackEmpty
		return
	}

	s.Data = s.Data[:len(s.Data)-1]
	return
}

// Top returns the innermost return address without removing it.
func (s *Stack) Top() (ret uint16, ok bool) {
	depth := len(s.Data)
	if depth == 0 {
		return
	}

	ret, ok = s.Data[depth-1], true
	return
}

// Depth is the number of active calls.
func (s *Stack) Depth() int {
	return len(s.Data)
}

// Reset discards every return address.
func (s *Stack) Reset() {
	s.Data = s.Data[:0]
}
