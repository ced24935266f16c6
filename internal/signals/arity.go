package signals

// Signal0 is the base for signals without arguments.
type Signal0 struct {
	listeners[func() error]
}

// Dispatch calls every handler in registration order.
func (s *Signal0) Dispatch() error {
	return s.each(func(fn func() error) error {
		return fn()
	})
}

// Signal1 is the base for signals with one argument.
type Signal1[A any] struct {
	listeners[func(A) error]
}

// Dispatch calls every handler in registration order with a.
func (s *Signal1[A]) Dispatch(a A) error {
	return s.each(func(fn func(A) error) error {
		return fn(a)
	})
}

// Signal2 is the base for signals with two arguments.
type Signal2[A, B any] struct {
	listeners[func(A, B) error]
}

// Dispatch calls every handler in registration order.
func (s *Signal2[A, B]) Dispatch(a A, b B) error {
	return s.each(func(fn func(A, B) error) error {
		return fn(a, b)
	})
}

// Signal3 is the base for signals with three arguments.
type Signal3[A, B, C any] struct {
	listeners[func(A, B, C) error]
}

// Dispatch calls every handler in registration order.
func (s *Signal3[A, B, C]) Dispatch(a A, b B, c C) error {
	return s.each(func(fn func(A, B, C) error) error {
		return fn(a, b, c)
	})
}

// Signal4 is the base for signals with four arguments.
type Signal4[A, B, C, D any] struct {
	listeners[func(A, B, C, D) error]
}

// Dispatch calls every handler in registration order.
func (s *Signal4[A, B, C, D]) Dispatch(a A, b B, c C, d D) error {
	return s.each(func(fn func(A, B, C, D) error) error {
		return fn(a, b, c, d)
	})
}

// Signal5 is the base for signals with five arguments.
type Signal5[A, B, C, D, E any] struct {
	listeners[func(A, B, C, D, E) error]
}

// Dispatch calls every handler in registration order.
func (s *Signal5[A, B, C, D, E]) Dispatch(a A, b B, c C, d D, e E) error {
	return s.each(func(fn func(A, B, C, D, E) error) error {
		return fn(a, b, c, d, e)
	})
}
