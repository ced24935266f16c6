package signals

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkgPath = "github.com/vovakirdan/tui-platformer/internal/signals"

type ScoreChanged struct{ Signal1[int] }

type K struct{ Signal0 }

type other struct{ Signal0 }

type pair struct{ Signal2[string, int] }

type triple struct{ Signal3[int, int, int] }

type quad struct{ Signal4[int, int, int, int] }

type quint struct{ Signal5[int, string, bool, float64, rune] }

func recorder(calls *[]string, name string) *Handler[func(int) error] {
	return NewHandler(func(v int) error {
		*calls = append(*calls, name)
		return nil
	})
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	b := NewBox()

	first := Get[ScoreChanged](b)
	second := Get[ScoreChanged](b)

	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, 1, b.Len())
}

func TestGet_LocalBoxesAreIndependent(t *testing.T) {
	a := NewBox()
	b := NewBox()

	assert.NotSame(t, Get[ScoreChanged](a), Get[ScoreChanged](b))
}

func TestBind_Duplicate(t *testing.T) {
	var buf bytes.Buffer
	b := NewBox(WithLogger(log.New(&buf)))

	bound, err := Bind[K](b)
	require.NoError(t, err)

	again, err := Bind[K](b)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Same(t, bound, again)
	assert.Same(t, bound, Get[K](b))
	assert.Contains(t, buf.String(), "already registered")
}

func TestBind_AfterGetKeepsHandlers(t *testing.T) {
	b := NewBox(WithLogger(log.New(&bytes.Buffer{})))
	var calls []string
	require.NoError(t, Get[ScoreChanged](b).AddListener(recorder(&calls, "h")))

	sig, err := Bind[ScoreChanged](b)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, 1, sig.Len())
}

func TestHash(t *testing.T) {
	b := NewBox()

	k := Get[K](b)
	assert.Equal(t, pkgPath+".K", k.Hash())
	assert.Equal(t, k.Hash(), k.Hash())
	assert.Equal(t, pkgPath+".ScoreChanged", Get[ScoreChanged](b).Hash())
	assert.NotEqual(t, k.Hash(), Get[other](b).Hash())
}

func TestHash_UniqueWithinBox(t *testing.T) {
	b := NewBox()
	Get[K](b)
	Get[other](b)
	Get[ScoreChanged](b)
	Get[pair](b)

	hashes := b.Hashes()
	seen := make(map[string]bool)
	for _, h := range hashes {
		assert.False(t, seen[h], "duplicate hash %s", h)
		seen[h] = true
	}
	assert.Len(t, hashes, 4)
	assert.IsIncreasing(t, hashes)
}

func bindLocalA(b *Box) Signal {
	type Local struct{ Signal1[int] }
	return Get[Local](b)
}

func bindLocalB(b *Box) Signal {
	type Local struct{ Signal1[int] }
	return Get[Local](b)
}

func TestHash_UniqueForSameNamedLocalKinds(t *testing.T) {
	b := NewBox(WithLogger(log.New(&bytes.Buffer{})))
	first := bindLocalA(b)
	second := bindLocalB(b)

	require.Equal(t, 2, b.Len())
	assert.NotSame(t, first, second)
	assert.Equal(t, pkgPath+".Local", first.Hash())
	assert.Equal(t, pkgPath+".Local#2", second.Hash())
	assert.Same(t, second, bindLocalB(b), "hash must not change on later lookups")

	found, ok := b.Lookup(second.Hash())
	require.True(t, ok)
	assert.Same(t, second, found)

	var got []int
	h := NewHandler(func(v int) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, AddListenerByHash(b, second.Hash(), h))
	assert.Equal(t, 0, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestZeroBox(t *testing.T) {
	var b Box
	assert.Equal(t, 0, b.Len())
	_, ok := b.Lookup(pkgPath + ".ScoreChanged")
	assert.False(t, ok)

	sig := Get[ScoreChanged](&b)
	require.NotNil(t, sig)
	assert.Same(t, sig, Get[ScoreChanged](&b))
	assert.Equal(t, pkgPath+".ScoreChanged", sig.Hash())

	_, err := Bind[ScoreChanged](&b)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, validateByDefault, errors.Is(sig.AddListener(nil), ErrUnregisterableHandler))
}

func TestHash_WithoutBox(t *testing.T) {
	var s Signal1[int]
	assert.Equal(t, "func(int) error", s.Hash())
}

func TestDispatch_RegistrationOrder(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	var calls []string

	for _, name := range []string{"h1", "h2", "h3"} {
		require.NoError(t, sig.AddListener(recorder(&calls, name)))
	}
	require.NoError(t, sig.Dispatch(1))

	assert.Equal(t, []string{"h1", "h2", "h3"}, calls)
}

func TestRemoveListener_Absent(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	var calls []string
	require.NoError(t, sig.AddListener(recorder(&calls, "h1")))

	sig.RemoveListener(recorder(&calls, "never-added"))
	sig.RemoveListener(nil)
	require.NoError(t, sig.Dispatch(1))

	assert.Equal(t, []string{"h1"}, calls)
	assert.Equal(t, 1, sig.Len())
}

func TestAddListener_Twice(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	var got []int
	h := NewHandler(func(v int) error {
		got = append(got, v)
		return nil
	})

	require.NoError(t, sig.AddListener(h))
	require.NoError(t, sig.AddListener(h))
	require.NoError(t, sig.Dispatch(5))
	assert.Equal(t, []int{5, 5}, got)

	// One removal drops one registration.
	sig.RemoveListener(h)
	require.NoError(t, sig.Dispatch(6))
	assert.Equal(t, []int{5, 5, 6}, got)
}

func TestDispatch_NoHandlers(t *testing.T) {
	b := NewBox()
	assert.NoError(t, Get[ScoreChanged](b).Dispatch(1))
	assert.NoError(t, Get[K](b).Dispatch())
}

func TestScoreChanged_EndToEnd(t *testing.T) {
	b := NewBox()
	var recorded []int
	appendScore := NewHandler(func(score int) error {
		recorded = append(recorded, score)
		return nil
	})

	require.NoError(t, Get[ScoreChanged](b).AddListener(appendScore))
	require.NoError(t, Get[ScoreChanged](b).Dispatch(42))
	assert.Equal(t, []int{42}, recorded)

	Get[ScoreChanged](b).RemoveListener(appendScore)
	require.NoError(t, Get[ScoreChanged](b).Dispatch(7))
	assert.Equal(t, []int{42}, recorded)
}

func TestListenerByHash(t *testing.T) {
	b := NewBox()
	_, err := Bind[K](b)
	require.NoError(t, err)

	called := 0
	h := NewHandler(func() error {
		called++
		return nil
	})
	require.NoError(t, AddListenerByHash(b, pkgPath+".K", h))

	require.NoError(t, Get[K](b).Dispatch())
	assert.Equal(t, 1, called)

	RemoveListenerByHash(b, pkgPath+".K", h)
	require.NoError(t, Get[K](b).Dispatch())
	assert.Equal(t, 1, called)
}

func TestListenerByHash_Unknown(t *testing.T) {
	b := NewBox()
	h2 := NewHandler(func() error { return nil })

	assert.NotPanics(t, func() {
		assert.NoError(t, AddListenerByHash(b, "unknown", h2))
		RemoveListenerByHash(b, "unknown", h2)
	})
	assert.Equal(t, 0, b.Len())
}

func TestListenerByHash_SignatureMismatch(t *testing.T) {
	b := NewBox()
	sig := Get[ScoreChanged](b)

	h := NewHandler(func() error { return nil })
	require.NoError(t, AddListenerByHash(b, sig.Hash(), h))
	assert.Equal(t, 0, sig.Len())
}

func TestListenerByHash_Typed(t *testing.T) {
	b := NewBox()
	sig := Get[ScoreChanged](b)

	var got []int
	h := NewHandler(func(v int) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, AddListenerByHash(b, sig.Hash(), h))
	require.NoError(t, sig.Dispatch(3))
	assert.Equal(t, []int{3}, got)
}

func TestLookup(t *testing.T) {
	b := NewBox()
	k := Get[K](b)

	found, ok := b.Lookup(k.Hash())
	require.True(t, ok)
	assert.Same(t, k, found)

	_, ok = b.Lookup("missing")
	assert.False(t, ok)
}

func TestDispatch_HandlerErrorStops(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	boom := errors.New("boom")
	secondCalled := false

	require.NoError(t, sig.AddListener(NewHandler(func(int) error { return boom })))
	require.NoError(t, sig.AddListener(NewHandler(func(int) error {
		secondCalled = true
		return nil
	})))

	err := sig.Dispatch(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, 0, herr.Index)
	assert.Equal(t, sig.Hash(), herr.Signal)
	assert.False(t, secondCalled)
}

func TestDispatch_PanicPropagates(t *testing.T) {
	sig := Get[K](NewBox())
	secondCalled := false

	require.NoError(t, sig.AddListener(NewHandler(func() error { panic("handler exploded") })))
	require.NoError(t, sig.AddListener(NewHandler(func() error {
		secondCalled = true
		return nil
	})))

	assert.PanicsWithValue(t, "handler exploded", func() { _ = sig.Dispatch() })
	assert.False(t, secondCalled)
}

func TestAddListener_Unregisterable(t *testing.T) {
	var buf bytes.Buffer
	b := NewBox(WithValidation(true), WithLogger(log.New(&buf)))
	sig := Get[ScoreChanged](b)

	assert.ErrorIs(t, sig.AddListener(nil), ErrUnregisterableHandler)
	assert.ErrorIs(t, sig.AddListener(NewHandler[func(int) error](nil)), ErrUnregisterableHandler)
	assert.Equal(t, 0, sig.Len())
	assert.Contains(t, buf.String(), "unregisterable")
}

func TestAddListener_ValidationDisabled(t *testing.T) {
	b := NewBox(WithValidation(false))
	sig := Get[ScoreChanged](b)

	assert.NoError(t, sig.AddListener(NewHandler[func(int) error](nil)))
	assert.Equal(t, 1, sig.Len())
}

func TestAllArities(t *testing.T) {
	b := NewBox()
	var seen []any

	require.NoError(t, Get[pair](b).AddListener(NewHandler(func(s string, n int) error {
		seen = append(seen, s, n)
		return nil
	})))
	require.NoError(t, Get[triple](b).AddListener(NewHandler(func(x, y, z int) error {
		seen = append(seen, x+y+z)
		return nil
	})))
	require.NoError(t, Get[quad](b).AddListener(NewHandler(func(w, x, y, z int) error {
		seen = append(seen, w*x*y*z)
		return nil
	})))
	require.NoError(t, Get[quint](b).AddListener(NewHandler(func(a int, s string, ok bool, f float64, r rune) error {
		seen = append(seen, a, s, ok, f, r)
		return nil
	})))

	require.NoError(t, Get[pair](b).Dispatch("x", 1))
	require.NoError(t, Get[triple](b).Dispatch(1, 2, 3))
	require.NoError(t, Get[quad](b).Dispatch(1, 2, 3, 4))
	require.NoError(t, Get[quint](b).Dispatch(9, "s", true, 0.5, 'r'))

	assert.Equal(t, []any{"x", 1, 6, 24, 9, "s", true, 0.5, 'r'}, seen)
}

func TestGet_ConcurrentFirstUse(t *testing.T) {
	b := NewBox()
	const workers = 64

	results := make([]*ScoreChanged, workers)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := range workers {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			results[i] = Get[ScoreChanged](b)
		}()
	}
	start.Done()
	done.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, b.Len())
}

func TestDispatch_MutationDuringDispatch(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	var calls []string

	late := recorder(&calls, "late")
	var self *Handler[func(int) error]
	self = NewHandler(func(int) error {
		calls = append(calls, "self")
		sig.RemoveListener(self)
		return sig.AddListener(late)
	})
	require.NoError(t, sig.AddListener(self))
	require.NoError(t, sig.AddListener(recorder(&calls, "tail")))

	require.NoError(t, sig.Dispatch(1))
	assert.Equal(t, []string{"self", "tail"}, calls)

	calls = nil
	require.NoError(t, sig.Dispatch(2))
	assert.Equal(t, []string{"tail", "late"}, calls)
}

func TestDispatch_ConcurrentAddRemove(t *testing.T) {
	sig := Get[ScoreChanged](NewBox())
	var mu sync.Mutex
	total := 0
	count := NewHandler(func(v int) error {
		mu.Lock()
		total += v
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				h := NewHandler(func(int) error { return nil })
				_ = sig.AddListener(h)
				sig.RemoveListener(h)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_ = sig.Dispatch(0)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, sig.AddListener(count))
	require.NoError(t, sig.Dispatch(3))
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, sig.Len())
}

type globalOnly struct{ Signal1[string] }

func TestDefaultBox(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Same(t, Global[globalOnly](), Get[globalOnly](Default()))

	var got []string
	h := NewHandler(func(s string) error {
		got = append(got, s)
		return nil
	})
	hash := Global[globalOnly]().Hash()
	require.NoError(t, AddGlobalListenerByHash(hash, h))
	require.NoError(t, Global[globalOnly]().Dispatch("hi"))
	RemoveGlobalListenerByHash(hash, h)
	require.NoError(t, Global[globalOnly]().Dispatch("bye"))

	assert.Equal(t, []string{"hi"}, got)
}
