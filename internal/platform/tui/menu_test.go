package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/registry"
)

const menuStubID = "tui-stub"

func init() {
	registry.Register(registry.GameInfo{ID: menuStubID, Title: "Stub Scene", Order: 99}, func(env registry.Env) registry.Game {
		g := newStubGame(menuStubID)
		if env.Box != nil {
			g.box = env.Box
		}
		return g
	})
}

func stubIndex(t *testing.T, items []MenuItem) int {
	t.Helper()
	for i, item := range items {
		if item.SceneID == menuStubID {
			return i
		}
	}
	t.Fatal("stub scene not listed")
	return -1
}

func TestMenuListsScenesWithHighScores(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveScore(menuStubID, "ana", 31); err != nil {
		t.Fatalf("SaveScore() error = %v", err)
	}

	m := NewMenuModel(store, testConfig())
	i := stubIndex(t, m.items)
	if m.items[i].HighScore != 31 {
		t.Errorf("HighScore = %d, want 31", m.items[i].HighScore)
	}
	if !strings.Contains(m.View(), "Stub Scene") {
		t.Error("View() should list the scene title")
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	i := stubIndex(t, m.items)

	var model tea.Model = m
	for range i {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(MenuModel)

	if m.Selected() == nil || m.Selected().SceneID != menuStubID {
		t.Fatalf("Selected() = %+v, want %s", m.Selected(), menuStubID)
	}
	if cmd == nil {
		t.Error("select should end the menu program")
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel(nil, testConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	for range len(m.items) + 3 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.items)-1)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, testConfig())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}

	next, _ = m.Update(runeKey("q"))
	if !next.(MenuModel).IsQuitting() {
		t.Error("q should quit")
	}
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	s := NewSessionModel(store, testConfig(), "cat", WithSessionLogger(quietLogger()))
	if s.SessionID().String() == "" {
		t.Fatal("session should have an id")
	}

	i := stubIndex(t, s.menu.items)
	var model tea.Model = s
	for range i {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = model.(SessionModel)

	if s.gameModel == nil {
		t.Fatal("selecting a scene should start a game")
	}
	g, ok := s.gameModel.game.(*stubGame)
	if !ok {
		t.Fatalf("game is %T", s.gameModel.game)
	}

	g.finish = 12
	model, _ = model.Update(TickMsg{})
	model, _ = model.Update(runeKey("b"))
	s = model.(SessionModel)

	if s.gameModel != nil {
		t.Error("b after game over should return to the menu")
	}
	scores, err := store.TopScores(menuStubID, 1)
	if err != nil {
		t.Fatalf("TopScores() error = %v", err)
	}
	if len(scores) != 1 || scores[0].Player != "cat" {
		t.Errorf("scores = %+v, want one entry for cat", scores)
	}
}

func TestSessionScoreboard(t *testing.T) {
	s := NewSessionModel(nil, testConfig(), "cat", WithSessionLogger(quietLogger()))

	model, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = model.(SessionModel)
	if s.scoreboard == nil {
		t.Fatal("tab should show the scoreboard")
	}
	if !strings.Contains(s.View(), "HIGH SCORES") {
		t.Error("scoreboard view should have a title")
	}

	model, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = model.(SessionModel)
	if s.scoreboard != nil {
		t.Error("esc should return to the menu")
	}
}
