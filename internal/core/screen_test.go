package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(8, 3)

	if s.Width() != 8 || s.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, expected 8x3", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("new screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(4, 4)

	s.SetColored(1, 2, 'Z', ColorRed)
	cell := s.GetCell(1, 2)
	if cell.Rune != 'Z' || cell.Color != ColorRed {
		t.Errorf("GetCell(1, 2) = %+v", cell)
	}

	// Out of bounds writes are ignored, reads are blank
	s.Set(-1, 0, 'X')
	s.Set(4, 0, 'X')
	s.Set(0, 9, 'X')
	if s.Get(-1, 0) != ' ' || s.Get(10, 10) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)
	s.DrawText(7, 0, "HP♥9", ColorBrightRed)

	if s.Row(0) != "       HP♥" {
		t.Errorf("Row(0) = %q", s.Row(0))
	}
	if s.GetCell(9, 0).Color != ColorBrightRed {
		t.Error("DrawText should apply colour")
	}

	s.DrawTextCentered(1, "ab", ColorDefault)
	if s.Get(4, 1) != 'a' || s.Get(5, 1) != 'b' {
		t.Errorf("DrawTextCentered row = %q", s.Row(1))
	}
}

func TestScreenDrawBoxAndRect(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawRect(NewRect(0, 0, 6, 4), '.', ColorGray)
	s.DrawBox(NewRect(0, 0, 6, 4), ColorWhite)

	expected := "┌────┐\n│....│\n│....│\n└────┘"
	if s.String() != expected {
		t.Errorf("String() =\n%s\nexpected\n%s", s.String(), expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(0, 0, 'X')
	s.Resize(6, 2)

	if s.Width() != 6 || s.Height() != 2 {
		t.Errorf("after Resize dimensions = %dx%d", s.Width(), s.Height())
	}
	if s.Get(0, 0) != ' ' {
		t.Error("Resize should clear the buffer")
	}
	if !strings.HasPrefix(s.Row(-1), "      ") {
		t.Errorf("out of range Row = %q", s.Row(-1))
	}
}
