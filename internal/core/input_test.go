package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionJump)
	f.Set(ActionLeft)

	if !f.Has(ActionJump) || !f.Has(ActionLeft) {
		t.Error("frame should have Jump and Left")
	}
	if f.Has(ActionRight) {
		t.Error("frame should not have Right")
	}
	if f.Has(ActionNone) {
		t.Error("Has(ActionNone) should be false")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}
}

func TestActionString(t *testing.T) {
	if ActionSecondary.String() != "Secondary" {
		t.Errorf("String() = %q", ActionSecondary.String())
	}
	if Action(1<<15).String() != "Unknown" {
		t.Error("unknown action should stringify as Unknown")
	}
}
