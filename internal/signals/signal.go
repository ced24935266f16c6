package signals

import (
	"reflect"
	"sync"

	"github.com/charmbracelet/log"
)

// Signal is implemented by every dispatcher. Only types embedding one of the
// SignalN bases satisfy it.
type Signal interface {
	// Hash returns the dispatcher's stable identifier.
	Hash() string

	// Len returns the number of registered handlers.
	Len() int

	base() *signalBase
}

// Handler is a registered callback. Its pointer is its identity: keep the
// value returned by NewHandler and pass the same pointer to RemoveListener.
type Handler[F any] struct {
	fn F
}

// NewHandler wraps fn so it can be added to and later removed from a signal.
func NewHandler[F any](fn F) *Handler[F] {
	return &Handler[F]{fn: fn}
}

// valid reports whether the handler has something to call.
func (h *Handler[F]) valid() bool {
	if h == nil {
		return false
	}
	v := reflect.ValueOf(h.fn)
	return v.IsValid() && v.Kind() == reflect.Func && !v.IsNil()
}

// signalBase carries the per-dispatcher identity and settings.
type signalBase struct {
	kind reflect.Type

	hashOnce sync.Once
	hash     string

	configured bool
	validate   bool
	logger     *log.Logger
}

func (s *signalBase) base() *signalBase {
	return s
}

// attach is called by the owning box before the dispatcher is published.
// hash is the identifier the box assigned, unique within that box.
func (s *signalBase) attach(kind reflect.Type, hash string, validate bool, logger *log.Logger) {
	s.kind = kind
	s.hash = hash
	s.configured = true
	s.validate = validate
	s.logger = logger
}

func (s *signalBase) validating() bool {
	if s.configured {
		return s.validate
	}
	return validateByDefault
}

func (s *signalBase) log() *log.Logger {
	if s.logger != nil {
		return s.logger
	}
	return log.Default()
}

// typeName returns the package-qualified name for t.
func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// listeners is the handler list shared by all arities. F is the handler
// function type. The slice is copy-on-write so Dispatch can iterate a
// snapshot while handlers are added or removed.
type listeners[F any] struct {
	signalBase

	mu       sync.Mutex
	handlers []*Handler[F]
}

// AddListener appends h. A handler added twice is called twice.
func (l *listeners[F]) AddListener(h *Handler[F]) error {
	if l.validating() && !h.valid() {
		l.log().Warn("rejected unregisterable handler", "signal", l.Hash())
		return ErrUnregisterableHandler
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]*Handler[F], len(l.handlers), len(l.handlers)+1)
	copy(next, l.handlers)
	l.handlers = append(next, h)
	return nil
}

// RemoveListener removes the first occurrence of h. Removing a handler that
// is not registered does nothing.
func (l *listeners[F]) RemoveListener(h *Handler[F]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, existing := range l.handlers {
		if existing != h {
			continue
		}
		next := make([]*Handler[F], 0, len(l.handlers)-1)
		next = append(next, l.handlers[:i]...)
		next = append(next, l.handlers[i+1:]...)
		l.handlers = next
		return
	}
}

// Hash returns the identifier of the signal kind, computed on first use.
// A dispatcher used without a box is identified by its handler signature.
func (l *listeners[F]) Hash() string {
	l.hashOnce.Do(func() {
		if l.hash != "" {
			return
		}
		t := l.kind
		if t == nil {
			t = reflect.TypeFor[F]()
		}
		l.hash = typeName(t)
	})
	return l.hash
}

// Len returns the number of registered handlers.
func (l *listeners[F]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

func (l *listeners[F]) snapshot() []*Handler[F] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handlers
}

// each calls invoke for every handler in registration order and stops at the
// first error.
func (l *listeners[F]) each(invoke func(F) error) error {
	for i, h := range l.snapshot() {
		if err := invoke(h.fn); err != nil {
			return &HandlerError{Signal: l.Hash(), Index: i, Err: err}
		}
	}
	return nil
}
