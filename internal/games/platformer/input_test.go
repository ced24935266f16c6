package platformer

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

var errBoom = errors.New("boom")

func TestInputListenerEdges(t *testing.T) {
	box := testBox()
	l := NewInputListener(box, 3)

	var space []InputAction
	var left []bool
	signals.Get[InputSpace](box).AddListener(signals.NewHandler(func(a InputAction) error {
		space = append(space, a)
		return nil
	}))
	signals.Get[InputA](box).AddListener(signals.NewHandler(func(held bool) error {
		left = append(left, held)
		return nil
	}))

	// One event, then nothing: held for the grace period, then released
	frames := []core.InputFrame{frame(core.ActionJump, core.ActionLeft)}
	for i := 0; i < 5; i++ {
		frames = append(frames, core.NewInputFrame())
	}
	for _, f := range frames {
		if err := l.Poll(f); err != nil {
			t.Fatal(err)
		}
	}

	if len(space) != 2 || space[0] != SpaceDown || space[1] != SpaceUp {
		t.Errorf("InputSpace dispatches = %v, expected [SpaceDown SpaceUp]", space)
	}
	expected := []bool{true, true, true, false}
	if len(left) != len(expected) {
		t.Fatalf("InputA dispatches = %v, expected %v", left, expected)
	}
	for i := range expected {
		if left[i] != expected[i] {
			t.Errorf("InputA dispatch %d = %v, expected %v", i, left[i], expected[i])
		}
	}
}

func TestInputListenerRepeatsKeepHeld(t *testing.T) {
	box := testBox()
	l := NewInputListener(box, 3)

	downs := 0
	signals.Get[InputSpace](box).AddListener(signals.NewHandler(func(a InputAction) error {
		if a == SpaceDown {
			downs++
		}
		return nil
	}))

	// Key repeats arriving within the grace period are one press
	for i := 0; i < 12; i++ {
		in := core.NewInputFrame()
		if i%2 == 0 {
			in.Set(core.ActionJump)
		}
		if err := l.Poll(in); err != nil {
			t.Fatal(err)
		}
	}
	if downs != 1 {
		t.Errorf("SpaceDown dispatched %d times, expected 1", downs)
	}
	if !l.Held(core.ActionJump) {
		t.Error("jump should still be held")
	}

	l.Release()
	if l.Held(core.ActionJump) {
		t.Error("Release should clear held state")
	}
}

func TestInputListenerPulses(t *testing.T) {
	box := testBox()
	l := NewInputListener(box, 10)

	counts := map[string]int{}
	count := func(name string) *signals.Handler[func(bool) error] {
		return signals.NewHandler(func(pressed bool) error {
			if pressed {
				counts[name]++
			}
			return nil
		})
	}
	signals.Get[InputEsc](box).AddListener(count("esc"))
	signals.Get[InputLClick](box).AddListener(count("lclick"))
	signals.Get[InputRClick](box).AddListener(count("rclick"))

	l.Poll(frame(core.ActionPause, core.ActionPrimary, core.ActionSecondary))
	l.Poll(core.NewInputFrame())
	l.Poll(frame(core.ActionPause))

	if counts["esc"] != 2 || counts["lclick"] != 1 || counts["rclick"] != 1 {
		t.Errorf("press counts = %v", counts)
	}
}

func TestInputListenerJoinsHandlerErrors(t *testing.T) {
	box := testBox()
	l := NewInputListener(box, 1)

	signals.Get[InputEsc](box).AddListener(signals.NewHandler(func(bool) error {
		return errBoom
	}))

	err := l.Poll(frame(core.ActionPause))
	var herr *signals.HandlerError
	if !errors.As(err, &herr) || !errors.Is(err, errBoom) {
		t.Errorf("Poll() error = %v, expected wrapped handler error", err)
	}
}
