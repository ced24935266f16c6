package platformer

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// flatScene is a closed room with the player standing at x=5.
const flatScene = `
name: flat
width: 40
height: 10
spawn: {x: 5, y: 7}
platforms:
  - {x: 0, y: 9, w: 40}
`

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testBox() *signals.Box {
	return signals.NewBox(signals.WithLogger(quietLogger()))
}

func testCatalog(t *testing.T, scenes ...string) *Catalog {
	t.Helper()
	fsys := fstest.MapFS{}
	for i, s := range scenes {
		fsys["scenes/"+string(rune('a'+i))+".yaml"] = &fstest.MapFile{Data: []byte(s)}
	}
	c, err := LoadCatalog(fsys, "scenes")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	return c
}

// newTestGame builds a game for a single scene and resets it.
func newTestGame(t *testing.T, scene string, mutate func(*config.PlatformerConfig)) *Game {
	t.Helper()
	cfg := config.DefaultPlatformerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	c := testCatalog(t, scene)
	g := New(
		WithBox(testBox()),
		WithConfig(cfg),
		WithLogger(quietLogger()),
		WithScenes(c),
		WithScene(c.Scenes()[0].Name),
	)
	g.Reset(testRuntime)
	t.Cleanup(g.Close)
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestGameDeterminism(t *testing.T) {
	// Same seed and inputs must produce identical runs
	inputs := make([]core.InputFrame, 400)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		if i%40 < 20 {
			inputs[i].Set(core.ActionRight)
		}
		if i%50 == 0 {
			inputs[i].Set(core.ActionJump)
		}
	}

	run := func() (core.GameState, core.Vec2, []core.Vec2) {
		g := New(WithBox(testBox()), WithLogger(quietLogger()), WithScene("graveyard"))
		g.Reset(testRuntime)
		defer g.Close()

		var state core.GameState
		for _, in := range inputs {
			state = g.Step(in).State
			if state.GameOver {
				break
			}
		}
		var zombies []core.Vec2
		for _, z := range g.Zombies() {
			zombies = append(zombies, z.Pos())
		}
		return state, g.Player().BodyPos(), zombies
	}

	s1, p1, z1 := run()
	s2, p2, z2 := run()

	if s1 != s2 {
		t.Errorf("Determinism failed: states differ. Run1=%+v, Run2=%+v", s1, s2)
	}
	if p1 != p2 {
		t.Errorf("Determinism failed: player positions differ. Run1=%v, Run2=%v", p1, p2)
	}
	for i := range z1 {
		if z1[i] != z2[i] {
			t.Errorf("Determinism failed: zombie %d differs. Run1=%v, Run2=%v", i, z1[i], z2[i])
		}
	}
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t, flatScene, nil)

	for i := 0; i < 30; i++ {
		g.Step(frame(core.ActionRight))
	}
	if g.State().Score == 0 {
		t.Fatal("score should increase while surviving")
	}

	g.Reset(testRuntime)

	if g.State().Score != 0 {
		t.Errorf("Score after reset = %d, expected 0", g.State().Score)
	}
	if g.Player().BodyPos() != (core.Vec2{X: 5, Y: 7}) {
		t.Errorf("player not back at spawn: %v", g.Player().BodyPos())
	}

	// Components from the previous run must not stay subscribed
	box := g.Box()
	if n := signals.Get[InputSpace](box).Len(); n != 1 {
		t.Errorf("InputSpace handlers after reset = %d, expected 1", n)
	}
	if n := signals.Get[PlayerDied](box).Len(); n != 1 {
		t.Errorf("PlayerDied handlers after reset = %d, expected 1", n)
	}
}

func TestJumpAndLand(t *testing.T) {
	g := newTestGame(t, flatScene, nil)

	g.Step(core.NewInputFrame())
	if !g.Player().Grounded() {
		t.Fatal("player should stand on the floor")
	}

	g.Step(frame(core.ActionJump))
	if g.Player().BodyPos().Y >= 7 {
		t.Fatalf("player should rise after jumping, y = %f", g.Player().BodyPos().Y)
	}

	landed := false
	for i := 0; i < 120; i++ {
		g.Step(core.NewInputFrame())
		if g.Player().Grounded() {
			landed = true
			break
		}
	}
	if !landed {
		t.Error("player should land again")
	}
	if g.Player().BodyPos().Y != 7 {
		t.Errorf("landed at y = %f, expected 7", g.Player().BodyPos().Y)
	}
}

func TestVariableJumpHeight(t *testing.T) {
	peak := func(holdJump bool) float64 {
		g := newTestGame(t, flatScene, func(cfg *config.PlatformerConfig) {
			cfg.Input.HoldTicks = 1
		})
		g.Step(core.NewInputFrame())

		top := g.Player().BodyPos().Y
		for i := 0; i < 60; i++ {
			in := core.NewInputFrame()
			if i == 0 || holdJump {
				in.Set(core.ActionJump)
			}
			g.Step(in)
			top = min(top, g.Player().BodyPos().Y)
		}
		return top
	}

	full := peak(true)
	short := peak(false)
	if short <= full {
		t.Errorf("early release should jump lower: short peak %f, full peak %f", short, full)
	}
}

func TestPlayerCannotJumpInAir(t *testing.T) {
	g := newTestGame(t, flatScene, func(cfg *config.PlatformerConfig) {
		cfg.Input.HoldTicks = 1
	})
	g.Step(core.NewInputFrame())
	g.Step(frame(core.ActionJump))
	g.Step(core.NewInputFrame())

	vel := g.Player().body.vel.Y
	g.Step(frame(core.ActionJump))
	if g.Player().body.vel.Y < vel {
		t.Error("a second jump in mid-air should be ignored")
	}
}

func TestSwitchFormMovesBodyToSpirit(t *testing.T) {
	g := newTestGame(t, flatScene, func(cfg *config.PlatformerConfig) {
		cfg.Input.HoldTicks = 1
	})
	box := g.Box()

	var switches [][2]PlayerState
	signals.Get[FormSwitched](box).AddListener(signals.NewHandler(func(from, to PlayerState) error {
		switches = append(switches, [2]PlayerState{from, to})
		return nil
	}))

	g.Step(frame(core.ActionSecondary))
	if g.Player().State != Spirit {
		t.Fatalf("State = %v, expected Spirit", g.Player().State)
	}

	start := g.Player().BodyPos()
	for i := 0; i < 10; i++ {
		g.Step(frame(core.ActionRight, core.ActionUp))
	}
	if g.Player().BodyPos().X != start.X {
		t.Error("abandoned body should not move horizontally")
	}
	spirit := g.Player().SpiritPos()
	if spirit.X <= start.X || spirit.Y >= start.Y {
		t.Errorf("spirit should fly up and right, got %v from %v", spirit, start)
	}
	if g.Player().CurrentMana >= g.Player().MaxMana {
		t.Error("spirit form should drain mana")
	}

	g.Step(frame(core.ActionSecondary))
	if g.Player().State != Body {
		t.Fatalf("State = %v, expected Body", g.Player().State)
	}
	if g.Player().BodyPos().X != spirit.X {
		t.Errorf("body should move to the spirit, got %v", g.Player().BodyPos())
	}

	expected := [][2]PlayerState{{Body, Spirit}, {Spirit, Body}}
	if len(switches) != len(expected) {
		t.Fatalf("FormSwitched dispatches = %v", switches)
	}
	for i := range expected {
		if switches[i] != expected[i] {
			t.Errorf("switch %d = %v, expected %v", i, switches[i], expected[i])
		}
	}
}

func TestEmptyManaForcesBody(t *testing.T) {
	g := newTestGame(t, flatScene, func(cfg *config.PlatformerConfig) {
		cfg.Player.SpiritDrain = 50
	})

	g.Step(frame(core.ActionSecondary))
	g.Step(core.NewInputFrame())
	if g.Player().State != Body {
		t.Errorf("State = %v, expected Body once mana runs out", g.Player().State)
	}

	p := g.Player()
	p.CurrentMana = 0
	if err := p.SwitchForm(); err != nil {
		t.Fatal(err)
	}
	if p.State != Body {
		t.Error("leaving the body without mana should do nothing")
	}
}

func TestDeadCannotSwitch(t *testing.T) {
	box := testBox()
	p := NewPlayer(box, config.DefaultPlatformerConfig().Player, core.Vec2{})
	if err := p.Die(); err != nil {
		t.Fatal(err)
	}
	if err := p.SwitchForm(); err != nil {
		t.Fatal(err)
	}
	if p.State != Dead {
		t.Errorf("State = %v, expected Dead", p.State)
	}
}

// contactScene places a zombie right next to the player.
const contactScene = `
name: contact
width: 40
height: 10
spawn: {x: 5, y: 7}
platforms:
  - {x: 0, y: 9, w: 40}
zombies:
  - {x: 6, y: 7}
`

func TestZombieKillsPlayer(t *testing.T) {
	g := newTestGame(t, contactScene, func(cfg *config.PlatformerConfig) {
		cfg.Player.MaxHealth = 1
	})

	var hits [][3]int
	signals.Get[PlayerHit](g.Box()).AddListener(signals.NewHandler(func(dmg, cur, maxHP int) error {
		hits = append(hits, [3]int{dmg, cur, maxHP})
		return nil
	}))
	var overScene string
	overScore := -1
	signals.Get[GameOver](g.Box()).AddListener(signals.NewHandler(func(scene string, score int) error {
		overScene, overScore = scene, score
		return nil
	}))

	g.Step(core.NewInputFrame())

	if len(hits) != 1 || hits[0] != [3]int{1, 0, 1} {
		t.Errorf("PlayerHit dispatches = %v", hits)
	}
	if !g.State().GameOver {
		t.Fatal("game should be over")
	}
	if g.Player().State != Dead {
		t.Errorf("State = %v, expected Dead", g.Player().State)
	}
	if overScene != "contact" || overScore != 0 {
		t.Errorf("GameOver(%q, %d), expected (contact, 0)", overScene, overScore)
	}

	// Finished games ignore further input
	before := g.Player().BodyPos()
	g.Step(frame(core.ActionRight))
	if g.Player().BodyPos() != before {
		t.Error("player should not move after game over")
	}
}

func TestHitCooldown(t *testing.T) {
	g := newTestGame(t, contactScene, nil)

	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	maxHP := g.Player().MaxHealth
	if got := g.Player().CurrentHealth; got != maxHP-1 {
		t.Errorf("CurrentHealth = %d, expected %d after one hit", got, maxHP-1)
	}
	if !g.Player().Invulnerable() {
		t.Error("player should be invulnerable right after a hit")
	}
}

func TestSpiritBanishesZombie(t *testing.T) {
	g := newTestGame(t, contactScene, nil)

	var banished []int
	signals.Get[ZombieBanished](g.Box()).AddListener(signals.NewHandler(func(id int) error {
		banished = append(banished, id)
		return nil
	}))

	g.Step(frame(core.ActionSecondary))

	if len(banished) != 1 || banished[0] != 0 {
		t.Fatalf("ZombieBanished dispatches = %v", banished)
	}
	if g.Zombies()[0].Active() {
		t.Error("banished zombie should be out of play")
	}
	if g.State().Score != g.cfg.Zombie.BanishScore {
		t.Errorf("Score = %d, expected %d", g.State().Score, g.cfg.Zombie.BanishScore)
	}
	if g.Player().CurrentHealth != g.Player().MaxHealth {
		t.Error("banishing should not hurt the body")
	}
}

// chaseScene puts a zombie a few cells from the spawn.
const chaseScene = `
name: chase
width: 40
height: 10
spawn: {x: 5, y: 7}
platforms:
  - {x: 0, y: 9, w: 40}
zombies:
  - {x: 12, y: 7}
`

func TestAbandonedBodyTakesDamage(t *testing.T) {
	g := newTestGame(t, chaseScene, nil)

	g.Step(frame(core.ActionSecondary))
	if g.Player().State != Spirit {
		t.Fatalf("State = %v, expected Spirit", g.Player().State)
	}

	// Float the spirit away and let the zombie reach the body
	for i := 0; i < 160 && g.Player().CurrentHealth == g.Player().MaxHealth; i++ {
		g.Step(frame(core.ActionUp))
	}

	if g.Player().CurrentHealth >= g.Player().MaxHealth {
		t.Fatal("zombie should hurt the abandoned body")
	}
	if g.Player().State != Spirit {
		t.Errorf("State = %v, expected Spirit", g.Player().State)
	}
	if !g.Zombies()[0].Active() {
		t.Error("zombie touching only the body should stay in play")
	}
}

func TestPauseToggle(t *testing.T) {
	g := newTestGame(t, flatScene, nil)

	var paused []bool
	signals.Get[Paused](g.Box()).AddListener(signals.NewHandler(func(p bool) error {
		paused = append(paused, p)
		return nil
	}))

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	for i := 0; i < 20; i++ {
		g.Step(frame(core.ActionRight))
	}
	if g.manager.Ticks() != 0 {
		t.Errorf("Ticks = %d while paused, expected 0", g.manager.Ticks())
	}

	g.Step(frame(core.ActionPrimary))
	if g.State().Paused {
		t.Error("left click should resume")
	}

	g.Step(frame(core.ActionPause))
	g.Step(core.NewInputFrame())
	g.Step(frame(core.ActionPause))

	expected := []bool{true, false, true, false}
	if len(paused) != len(expected) {
		t.Fatalf("Paused dispatches = %v, expected %v", paused, expected)
	}
	for i := range expected {
		if paused[i] != expected[i] {
			t.Errorf("Paused dispatch %d = %v, expected %v", i, paused[i], expected[i])
		}
	}
}

func TestFallingIntoPitEndsGame(t *testing.T) {
	pit := `
name: pit
width: 40
height: 10
spawn: {x: 5, y: 2}
platforms:
  - {x: 20, y: 9, w: 20}
`
	g := newTestGame(t, pit, nil)

	for i := 0; i < 60 && !g.State().GameOver; i++ {
		g.Step(core.NewInputFrame())
	}
	if !g.State().GameOver {
		t.Error("falling out of the world should end the game")
	}
}

func TestScoreChangedSignal(t *testing.T) {
	g := newTestGame(t, flatScene, nil)

	var last int
	calls := 0
	signals.Get[ScoreChanged](g.Box()).AddListener(signals.NewHandler(func(score int) error {
		last = score
		calls++
		return nil
	}))

	ticks := g.cfg.Scoring.TicksPerPoint * 5
	for i := 0; i < ticks; i++ {
		g.Step(core.NewInputFrame())
	}
	if calls != 5 || last != 5 {
		t.Errorf("ScoreChanged calls = %d, last = %d, expected 5 and 5", calls, last)
	}
	if g.State().Score != 5 {
		t.Errorf("Score = %d, expected 5", g.State().Score)
	}
}

func TestRenderShowsWorld(t *testing.T) {
	g := newTestGame(t, contactScene, nil)
	screen := core.NewScreen(60, 14)
	g.Render(screen)

	out := screen.String()
	for _, r := range []rune{PlayerHead, PlayerTorso, ZombieHead, PlatformChar} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("rendered screen is missing %q", r)
		}
	}
	if !strings.Contains(screen.Row(0), "contact") {
		t.Errorf("status line = %q, expected scene name", screen.Row(0))
	}
}

func TestCameraAxis(t *testing.T) {
	tests := []struct {
		name     string
		focus    float64
		view     int
		world    int
		alignEnd bool
		expected float64
	}{
		{"follows focus", 50, 20, 100, false, 40},
		{"clamped at start", 2, 20, 100, false, 0},
		{"clamped at end", 99, 20, 100, false, 80},
		{"small world centered", 5, 30, 10, false, -10},
		{"small world bottom aligned", 5, 30, 10, true, -20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cameraAxis(tc.focus, tc.view, tc.world, tc.alignEnd); got != tc.expected {
				t.Errorf("cameraAxis() = %f, expected %f", got, tc.expected)
			}
		})
	}
}
