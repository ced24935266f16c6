package platformer

import (
	"errors"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// InputListener turns per-tick input frames into input signals.
//
// Terminals send key repeats but no key releases, so a movement action counts
// as held for holdTicks ticks after it was last seen. Other actions are held
// for the tick they arrive in only.
type InputListener struct {
	box       *signals.Box
	holdTicks int

	hold map[core.Action]int
	prev map[core.Action]bool
}

// heldActions get the hold grace period, pulseActions are one-shot.
var heldActions = []core.Action{
	core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionJump,
}

var pulseActions = []core.Action{
	core.ActionPause, core.ActionPrimary, core.ActionSecondary,
}

// NewInputListener creates a listener dispatching on box.
func NewInputListener(box *signals.Box, holdTicks int) *InputListener {
	return &InputListener{
		box:       box,
		holdTicks: max(1, holdTicks),
		hold:      make(map[core.Action]int),
		prev:      make(map[core.Action]bool),
	}
}

// Poll updates held state from the frame and dispatches the resulting
// signals. Errors from all handlers are joined.
func (l *InputListener) Poll(in core.InputFrame) error {
	held := make(map[core.Action]bool, len(heldActions)+len(pulseActions))
	for _, a := range heldActions {
		held[a] = l.track(in, a, l.holdTicks)
	}
	for _, a := range pulseActions {
		held[a] = l.track(in, a, 1)
	}

	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	// WASD report true every held tick and false once on release
	add(l.level(signals.Get[InputW](l.box), held, core.ActionUp))
	add(l.level(signals.Get[InputS](l.box), held, core.ActionDown))
	add(l.level(signals.Get[InputA](l.box), held, core.ActionLeft))
	add(l.level(signals.Get[InputD](l.box), held, core.ActionRight))

	switch {
	case l.pressed(held, core.ActionJump):
		add(signals.Get[InputSpace](l.box).Dispatch(SpaceDown))
	case l.released(held, core.ActionJump):
		add(signals.Get[InputSpace](l.box).Dispatch(SpaceUp))
	}

	if l.pressed(held, core.ActionPause) {
		add(signals.Get[InputEsc](l.box).Dispatch(true))
	}
	if l.pressed(held, core.ActionPrimary) {
		add(signals.Get[InputLClick](l.box).Dispatch(true))
	}
	if l.pressed(held, core.ActionSecondary) {
		add(signals.Get[InputRClick](l.box).Dispatch(true))
	}

	l.prev = held
	return errors.Join(errs...)
}

// Release clears all held state, e.g. after a restart.
func (l *InputListener) Release() {
	clear(l.hold)
	clear(l.prev)
}

// Held reports whether a is currently considered held.
func (l *InputListener) Held(a core.Action) bool {
	return l.prev[a]
}

func (l *InputListener) track(in core.InputFrame, a core.Action, ticks int) bool {
	if in.Has(a) {
		l.hold[a] = ticks
	}
	if l.hold[a] <= 0 {
		return false
	}
	l.hold[a]--
	return true
}

// boolSignal is satisfied by every input kind carrying a bool.
type boolSignal interface {
	Dispatch(bool) error
}

func (l *InputListener) level(sig boolSignal, held map[core.Action]bool, a core.Action) error {
	switch {
	case held[a]:
		return sig.Dispatch(true)
	case l.prev[a]:
		return sig.Dispatch(false)
	}
	return nil
}

func (l *InputListener) pressed(held map[core.Action]bool, a core.Action) bool {
	return held[a] && !l.prev[a]
}

func (l *InputListener) released(held map[core.Action]bool, a core.Action) bool {
	return !held[a] && l.prev[a]
}
