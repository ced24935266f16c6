// Package platformer implements a side-scrolling survival platformer.
// The player can leave their body as a spirit to banish zombies, but the
// abandoned body is still chased. Components talk to each other only
// through signals on the game's box.
package platformer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// Visual characters for rendering
const (
	PlatformChar = '▀'
	PlayerHead   = '@'
	PlayerTorso  = '█'
	SpiritHead   = '*'
	SpiritTorso  = '░'
	ZombieHead   = 'Z'
	ZombieTorso  = '▓'
)

const noSceneMessage = "No scene loaded"

// world is the static part of a loaded scene plus physics settings.
type world struct {
	width, height int
	gravity       float64
	maxFall       float64
	platforms     []Platform
}

// Game implements registry.Game for one scene.
type Game struct {
	box     *signals.Box
	cfg     config.PlatformerConfig
	logger  *log.Logger
	scenes  SceneLoader
	sceneID string

	runtime    core.RuntimeConfig
	rng        *rand.Rand
	difficulty *config.DifficultyManager

	scene   *Scene
	world   world
	input   *InputListener
	player  *Player
	zombies []*Zombie
	manager *Manager
	hud     *hud
}

// Option configures a Game.
type Option func(*Game)

// WithBox sets the signal box the game's components communicate through.
func WithBox(b *signals.Box) Option {
	return func(g *Game) { g.box = b }
}

// WithConfig replaces the default configuration.
func WithConfig(cfg config.PlatformerConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithLogger sets the logger for dispatch failures.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithScenes sets where scenes are loaded from.
func WithScenes(l SceneLoader) Option {
	return func(g *Game) { g.scenes = l }
}

// WithScene selects the scene to play.
func WithScene(name string) Option {
	return func(g *Game) { g.sceneID = name }
}

// New creates a game. Without WithBox it gets a private box.
func New(opts ...Option) *Game {
	g := &Game{
		cfg:     config.DefaultPlatformerConfig(),
		sceneID: "graveyard",
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.Default().WithPrefix("platformer")
	}
	if g.box == nil {
		g.box = signals.NewBox(
			signals.WithValidation(g.cfg.Signals.Validate),
			signals.WithLogger(g.logger),
		)
	}
	if g.scenes == nil {
		g.scenes = builtinScenes()
	}
	if err := BindSignals(g.box); err != nil {
		g.logger.Error("cannot bind signals", "err", err)
	}
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	return g
}

// ID returns the scene name, which is also the score key.
func (g *Game) ID() string {
	return g.sceneID
}

// Title returns the scene title.
func (g *Game) Title() string {
	if s, err := g.scenes.Scene(g.sceneID); err == nil {
		return s.Title
	}
	return g.sceneID
}

// Box returns the signal box the game dispatches on.
func (g *Game) Box() *signals.Box {
	return g.box
}

// GameOverSignal returns the hash of the GameOver signal.
func (g *Game) GameOverSignal() string {
	return GameOverHash(g.box)
}

// Reset tears down the current components and reloads the scene.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.teardown()

	intent := SceneIntent{SceneName: g.sceneID, Loader: g.scenes, Target: g, Box: g.box}
	if err := intent.Do(); err != nil {
		g.logger.Error("cannot load scene", "scene", g.sceneID, "err", err)
	}
}

// Resize keeps the simulation running when the terminal changes size.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
}

// LoadScene builds fresh components for s and subscribes them.
func (g *Game) LoadScene(s *Scene) {
	g.teardown()

	g.scene = s
	g.world = world{
		width:     s.Width,
		height:    s.Height,
		gravity:   g.cfg.Physics.Gravity,
		maxFall:   g.cfg.Physics.MaxFallSpeed,
		platforms: s.Platforms,
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.runtime.Seed))
	}

	spawn := core.Vec2{X: float64(s.Spawn.X), Y: float64(s.Spawn.Y)}
	g.input = NewInputListener(g.box, g.cfg.Input.HoldTicks)
	g.player = NewPlayer(g.box, g.cfg.Player, spawn)
	g.manager = NewManager(g.box, g.cfg, s.Name)
	g.hud = newHUD(g.box, g.cfg.Player.MaxHealth)

	g.zombies = make([]*Zombie, 0, len(s.Zombies))
	for i, z := range s.Zombies {
		pos := core.Vec2{X: float64(z.X), Y: float64(z.Y)}
		g.zombies = append(g.zombies, NewZombie(i, g.box, g.cfg.Zombie, pos, g.rng))
	}

	if err := errors.Join(g.player.Activate(), g.manager.Activate(), g.hud.activate()); err != nil {
		g.logger.Error("cannot subscribe components", "scene", s.Name, "err", err)
	}
}

// teardown unsubscribes the current components so a reload starts clean.
func (g *Game) teardown() {
	if g.player != nil {
		g.player.Deactivate()
	}
	if g.manager != nil {
		g.manager.Deactivate()
	}
	if g.hud != nil {
		g.hud.deactivate()
	}
	g.scene = nil
	g.player, g.manager, g.hud, g.input = nil, nil, nil, nil
	g.zombies = nil
}

// Close unsubscribes everything the game registered.
func (g *Game) Close() {
	g.teardown()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.scene == nil || g.manager.GameOver() {
		return core.StepResult{State: g.State()}
	}

	g.report(g.input.Poll(in))
	if g.manager.Paused() {
		return core.StepResult{State: g.State()}
	}

	g.hud.tick()
	g.report(g.manager.Tick())
	g.report(g.player.Update(&g.world))

	var target *core.Vec2
	if g.player.State != Dead {
		pos := g.player.BodyPos()
		target = &pos
	}
	maxVel := g.difficulty.Speed(g.cfg.Zombie.MaxVelocity, g.manager.Score(), g.manager.Ticks())
	for _, z := range g.zombies {
		g.report(z.Update(&g.world, target, maxVel))
	}

	g.report(g.resolveContacts())
	return core.StepResult{State: g.State()}
}

// resolveContacts banishes zombies touched by the spirit and hurts the body.
func (g *Game) resolveContacts() error {
	var errs []error
	for _, z := range g.zombies {
		if !z.Active() || g.player.State == Dead {
			continue
		}
		zr := z.rect()
		if g.player.State == Spirit && zr.Intersects(g.player.spiritRect()) {
			z.Banish(g.cfg.Zombie.RespawnTicks)
			errs = append(errs, signals.Get[ZombieBanished](g.box).Dispatch(z.ID))
			continue
		}
		if zr.Intersects(g.player.bodyRect()) {
			errs = append(errs, g.player.Hit(g.cfg.Zombie.Damage))
		}
	}
	return errors.Join(errs...)
}

// report logs errors returned by signal handlers. The game keeps running.
func (g *Game) report(err error) {
	if err == nil {
		return
	}
	var herr *signals.HandlerError
	if errors.As(err, &herr) {
		g.logger.Warn("handler failed", "signal", herr.Signal, "index", herr.Index, "err", herr.Err)
		return
	}
	g.logger.Warn("step failed", "err", err)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.manager == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.manager.Score(),
		GameOver: g.manager.GameOver(),
		Paused:   g.manager.Paused(),
	}
}

// Player returns the current player, nil before a scene is loaded.
func (g *Game) Player() *Player {
	return g.player
}

// Zombies returns the zombies of the current scene.
func (g *Game) Zombies() []*Zombie {
	return g.zombies
}

// Render draws the visible part of the world below the status line.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.scene == nil {
		dst.DrawTextCentered(dst.Height()/2, noSceneMessage, core.ColorBrightRed)
		return
	}

	viewW, viewH := dst.Width(), dst.Height()-1
	focus := g.player.Focus()
	cam := core.Vec2{
		X: cameraAxis(focus.X, viewW, g.world.width, false),
		Y: cameraAxis(focus.Y, viewH, g.world.height, true),
	}
	toScreen := func(p core.Vec2) (int, int) {
		return int(math.Floor(p.X - cam.X)), int(math.Floor(p.Y-cam.Y)) + 1
	}

	for _, p := range g.world.platforms {
		x, y := toScreen(core.Vec2{X: float64(p.X), Y: float64(p.Y)})
		if y >= 1 {
			dst.DrawHLine(x, y, p.W, PlatformChar, core.ColorGray)
		}
	}

	for _, z := range g.zombies {
		if z.Active() {
			drawFigure(dst, toScreen, z.Pos(), ZombieHead, ZombieTorso, core.ColorBrightGreen)
		}
	}

	bodyColor := core.ColorWhite
	switch {
	case g.player.State == Dead:
		bodyColor = core.ColorRed
	case g.player.State == Spirit:
		bodyColor = core.ColorGray
	case g.player.Invulnerable() && g.manager.Ticks()%6 < 3:
		bodyColor = core.ColorYellow
	}
	drawFigure(dst, toScreen, g.player.BodyPos(), PlayerHead, PlayerTorso, bodyColor)
	if g.player.State == Spirit {
		drawFigure(dst, toScreen, g.player.SpiritPos(), SpiritHead, SpiritTorso, core.ColorBrightCyan)
	}

	g.hud.render(dst, g.player.CurrentMana, g.player.MaxMana, cam)
}

func drawFigure(dst *core.Screen, toScreen func(core.Vec2) (int, int), pos core.Vec2, head, torso rune, c core.Color) {
	x, y := toScreen(pos)
	if y >= 1 {
		dst.SetColored(x, y, head, c)
	}
	if y+1 >= 1 {
		dst.SetColored(x, y+1, torso, c)
	}
}

// cameraAxis returns the world coordinate at the view's first cell. Worlds
// smaller than the view are centered, or bottom-aligned when alignEnd is set.
func cameraAxis(focus float64, view, world int, alignEnd bool) float64 {
	if world <= view {
		if alignEnd {
			return float64(world - view)
		}
		return math.Floor(float64(world-view) / 2)
	}
	c := math.Floor(focus - float64(view)/2)
	return core.ClampF(c, 0, float64(world-view))
}

// builtinScenes is the shared catalog of embedded scenes.
var builtinScenes = sync.OnceValue(func() *Catalog {
	c, err := BuiltinCatalog()
	if err != nil {
		panic(fmt.Sprintf("platformer: embedded scenes: %v", err))
	}
	return c
})

func init() {
	for _, s := range builtinScenes().Scenes() {
		name := s.Name
		registry.Register(registry.GameInfo{ID: name, Title: s.Title, Order: s.Order}, func(env registry.Env) registry.Game {
			opts := []Option{WithScene(name), WithBox(env.Box), WithLogger(env.Logger)}
			if env.Config != nil {
				opts = append(opts, WithConfig(*env.Config))
			}
			return New(opts...)
		})
	}
}
