package registry

import (
	"testing"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

type stubGame struct {
	id    string
	env   Env
	state core.GameState
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub" }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{State: g.state} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return g.state }

func TestRegisterAndCreate(t *testing.T) {
	Register(GameInfo{ID: "zz-stub", Title: "Stub"}, func(env Env) Game {
		return &stubGame{id: "zz-stub", env: env}
	})

	if !Exists("zz-stub") {
		t.Fatal("registered game should exist")
	}

	g, err := Create("zz-stub", Env{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "zz-stub" {
		t.Errorf("ID() = %q", g.ID())
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz-stub" {
			found = info.Title == "Stub"
		}
	}
	if !found {
		t.Error("List() should contain the stub with its title")
	}

	if _, err := Create("missing", Env{}); err == nil {
		t.Error("Create() of unknown game should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(GameInfo{ID: "zz-dup"}, func(Env) Game { return &stubGame{} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(GameInfo{ID: "zz-dup"}, func(Env) Game { return &stubGame{} })
}

func TestListOrder(t *testing.T) {
	Register(GameInfo{ID: "zz-order-b", Order: -2}, func(Env) Game { return &stubGame{} })
	Register(GameInfo{ID: "zz-order-a", Order: -2}, func(Env) Game { return &stubGame{} })
	Register(GameInfo{ID: "zz-order-c", Order: -3}, func(Env) Game { return &stubGame{} })

	list := List()
	if len(list) < 3 {
		t.Fatalf("List() returned %d games", len(list))
	}
	want := []string{"zz-order-c", "zz-order-a", "zz-order-b"}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("List()[%d] = %q, want %q", i, list[i].ID, id)
		}
	}
}
