package signals

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Box maps signal kinds to their dispatchers. It is safe for concurrent use.
// The zero value is an empty box with the default logger and validation;
// NewBox is needed only to pass options.
type Box struct {
	mu      sync.RWMutex
	signals map[reflect.Type]Signal

	logger   *log.Logger
	validate bool
}

// Option configures a Box.
type Option func(*Box)

// WithLogger sets the logger used for registration warnings.
func WithLogger(l *log.Logger) Option {
	return func(b *Box) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithValidation enables or disables handler validation for dispatchers
// created by the box.
func WithValidation(enabled bool) Option {
	return func(b *Box) {
		b.validate = enabled
	}
}

// NewBox creates an empty box.
func NewBox(opts ...Option) *Box {
	b := &Box{
		signals:  make(map[reflect.Type]Signal),
		logger:   log.Default().WithPrefix("signals"),
		validate: validateByDefault,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var (
	defaultBox  *Box
	defaultOnce sync.Once
)

// Default returns the process-wide box, creating it on first use.
func Default() *Box {
	defaultOnce.Do(func() {
		defaultBox = NewBox()
	})
	return defaultBox
}

// Kind is satisfied by pointers to signal kinds, i.e. structs embedding one
// of the SignalN bases.
type Kind[S any] interface {
	*S
	Signal
}

// Get returns the dispatcher for kind S, creating it on first use.
func Get[S any, P Kind[S]](b *Box) P {
	t := reflect.TypeFor[S]()

	b.mu.RLock()
	sig, ok := b.signals[t]
	b.mu.RUnlock()
	if ok {
		return sig.(P)
	}

	p, _ := bind[S, P](b, t)
	return p
}

// Bind registers a dispatcher for kind S ahead of first use. If S is already
// bound, the existing dispatcher is returned together with
// ErrDuplicateRegistration and a warning is logged.
func Bind[S any, P Kind[S]](b *Box) (P, error) {
	t := reflect.TypeFor[S]()
	p, existed := bind[S, P](b, t)
	if existed {
		b.logger.Warn("signal already registered", "type", t.String())
		return p, ErrDuplicateRegistration
	}
	return p, nil
}

// bind stores a new dispatcher for t unless one exists. The check is repeated
// under the write lock so concurrent callers all see the first instance.
func bind[S any, P Kind[S]](b *Box, t reflect.Type) (P, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.signals == nil {
		b.signals = make(map[reflect.Type]Signal)
		if b.logger == nil {
			b.logger = log.Default().WithPrefix("signals")
			b.validate = validateByDefault
		}
	}
	if sig, ok := b.signals[t]; ok {
		return sig.(P), true
	}

	p := P(new(S))
	p.base().attach(t, b.uniqueHash(typeName(t)), b.validate, b.logger)
	b.signals[t] = p
	return p, false
}

// uniqueHash returns name, or name with a "#N" suffix when another kind in
// the box already uses it. Types declared inside functions share their
// package path and name. Callers hold the write lock.
func (b *Box) uniqueHash(name string) string {
	taken := make(map[string]bool, len(b.signals))
	for _, sig := range b.signals {
		taken[sig.Hash()] = true
	}
	hash := name
	for n := 2; taken[hash]; n++ {
		hash = fmt.Sprintf("%s#%d", name, n)
	}
	if hash != name {
		b.logger.Warn("signal name already taken", "name", name, "hash", hash)
	}
	return hash
}

// Lookup finds a dispatcher by hash. The scan is linear in the number of
// bound kinds.
func (b *Box) Lookup(hash string) (Signal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sig := range b.signals {
		if sig.Hash() == hash {
			return sig, true
		}
	}
	return nil, false
}

// Hashes returns the identifiers of all bound signals, sorted.
func (b *Box) Hashes() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	hashes := make([]string, 0, len(b.signals))
	for _, sig := range b.signals {
		hashes = append(hashes, sig.Hash())
	}
	sort.Strings(hashes)
	return hashes
}

// Len returns the number of bound signal kinds.
func (b *Box) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.signals)
}

// AddListenerByHash adds h to the signal identified by hash. Nothing happens
// if no signal has that hash or its handlers have a different signature.
func AddListenerByHash[F any](b *Box, hash string, h *Handler[F]) error {
	sig, ok := b.Lookup(hash)
	if !ok {
		return nil
	}
	target, ok := sig.(interface{ AddListener(*Handler[F]) error })
	if !ok {
		return nil
	}
	return target.AddListener(h)
}

// RemoveListenerByHash removes h from the signal identified by hash. Unknown
// hashes are ignored.
func RemoveListenerByHash[F any](b *Box, hash string, h *Handler[F]) {
	sig, ok := b.Lookup(hash)
	if !ok {
		return
	}
	if target, ok := sig.(interface{ RemoveListener(*Handler[F]) }); ok {
		target.RemoveListener(h)
	}
}

// Global returns the dispatcher for kind S from the default box.
func Global[S any, P Kind[S]]() P {
	return Get[S, P](Default())
}

// AddGlobalListenerByHash is AddListenerByHash on the default box.
func AddGlobalListenerByHash[F any](hash string, h *Handler[F]) error {
	return AddListenerByHash(Default(), hash, h)
}

// RemoveGlobalListenerByHash is RemoveListenerByHash on the default box.
func RemoveGlobalListenerByHash[F any](hash string, h *Handler[F]) {
	RemoveListenerByHash(Default(), hash, h)
}
