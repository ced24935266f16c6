package core

// Action is a platform-level input intent, decoupled from physical keys.
type Action uint16

const (
	ActionNone  Action = 0
	ActionUp    Action = 1 << iota // W, Up
	ActionDown                     // S, Down
	ActionLeft                     // A, Left
	ActionRight                    // D, Right
	ActionJump                     // Space
	ActionPause                    // Esc, P
	ActionPrimary                  // Left mouse button, X
	ActionSecondary                // Right mouse button, E
	ActionRestart                  // R
	ActionQuit                     // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionJump:      "Jump",
	ActionPause:     "Pause",
	ActionPrimary:   "Primary",
	ActionSecondary: "Secondary",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame is the set of actions seen during one simulation tick.
type InputFrame struct {
	actions Action
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks a as seen this tick.
func (f *InputFrame) Set(a Action) {
	f.actions |= a
}

// Has reports whether a was seen this tick.
func (f InputFrame) Has(a Action) bool {
	return a != ActionNone && f.actions&a == a
}

// Empty reports whether no action was seen.
func (f InputFrame) Empty() bool {
	return f.actions == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.actions = 0
}
