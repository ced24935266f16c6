package platformer

import (
	"errors"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// PlayerState is the player's current form.
type PlayerState int

const (
	Body PlayerState = iota
	Spirit
	Dead
)

// String returns the form name.
func (s PlayerState) String() string {
	switch s {
	case Body:
		return "Body"
	case Spirit:
		return "Spirit"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// Player is controlled through input signals. While in spirit form the body
// stays behind and the spirit flies freely; returning moves the body to the
// spirit.
type Player struct {
	cfg config.PlayerConfig
	box *signals.Box

	State         PlayerState
	MaxHealth     int
	CurrentHealth int
	MaxMana       float64
	CurrentMana   float64

	body   body
	spirit core.Vec2

	left, right, up, down bool
	jumping               bool
	hitCooldown           int

	handlers playerHandlers
	active   bool
}

type playerHandlers struct {
	w, s, a, d *signals.Handler[func(bool) error]
	rclick     *signals.Handler[func(bool) error]
	space      *signals.Handler[func(InputAction) error]
}

// NewPlayer creates a player at spawn. It does not listen until Activate.
func NewPlayer(box *signals.Box, cfg config.PlayerConfig, spawn core.Vec2) *Player {
	p := &Player{
		cfg:           cfg,
		box:           box,
		MaxHealth:     cfg.MaxHealth,
		CurrentHealth: cfg.MaxHealth,
		MaxMana:       cfg.MaxMana,
		CurrentMana:   cfg.MaxMana,
	}
	p.body.pos = spawn
	p.spirit = spawn

	p.handlers = playerHandlers{
		w:      signals.NewHandler(func(held bool) error { p.up = held; return nil }),
		s:      signals.NewHandler(func(held bool) error { p.down = held; return nil }),
		a:      signals.NewHandler(func(held bool) error { p.left = held; return nil }),
		d:      signals.NewHandler(func(held bool) error { p.right = held; return nil }),
		rclick: signals.NewHandler(p.onSwitch),
		space:  signals.NewHandler(p.onSpace),
	}
	return p
}

// Activate subscribes the player to input. Calling it twice does nothing.
func (p *Player) Activate() error {
	if p.active {
		return nil
	}
	err := errors.Join(
		signals.Get[InputW](p.box).AddListener(p.handlers.w),
		signals.Get[InputS](p.box).AddListener(p.handlers.s),
		signals.Get[InputA](p.box).AddListener(p.handlers.a),
		signals.Get[InputD](p.box).AddListener(p.handlers.d),
		signals.Get[InputRClick](p.box).AddListener(p.handlers.rclick),
		signals.Get[InputSpace](p.box).AddListener(p.handlers.space),
	)
	if err != nil {
		p.Deactivate()
		return err
	}
	p.active = true
	return nil
}

// Deactivate removes the player's input handlers.
func (p *Player) Deactivate() {
	signals.Get[InputW](p.box).RemoveListener(p.handlers.w)
	signals.Get[InputS](p.box).RemoveListener(p.handlers.s)
	signals.Get[InputA](p.box).RemoveListener(p.handlers.a)
	signals.Get[InputD](p.box).RemoveListener(p.handlers.d)
	signals.Get[InputRClick](p.box).RemoveListener(p.handlers.rclick)
	signals.Get[InputSpace](p.box).RemoveListener(p.handlers.space)
	p.left, p.right, p.up, p.down = false, false, false, false
	p.active = false
}

func (p *Player) onSpace(act InputAction) error {
	switch act {
	case SpaceDown:
		p.Jump()
	case SpaceUp:
		// Releasing early shortens the jump
		if p.jumping && p.body.vel.Y < 0 {
			p.body.vel.Y *= p.cfg.JumpCut
		}
		p.jumping = false
	}
	return nil
}

func (p *Player) onSwitch(pressed bool) error {
	if !pressed {
		return nil
	}
	return p.SwitchForm()
}

// Jump launches the body when it stands on a platform in body form.
func (p *Player) Jump() {
	if p.State != Body || !p.body.grounded {
		return
	}
	p.body.vel.Y = p.cfg.JumpImpulse
	p.body.grounded = false
	p.jumping = true
}

// SwitchForm toggles between body and spirit. Leaving the body needs mana.
func (p *Player) SwitchForm() error {
	from := p.State
	switch p.State {
	case Body:
		if p.CurrentMana <= 0 {
			return nil
		}
		p.State = Spirit
		p.spirit = p.body.pos
	case Spirit:
		p.State = Body
		p.body.pos = p.spirit
		p.body.vel = core.Vec2{}
		p.jumping = false
	case Dead:
		return nil
	}
	return signals.Get[FormSwitched](p.box).Dispatch(from, p.State)
}

// Update advances the player by one tick.
func (p *Player) Update(w *world) error {
	if p.State == Dead {
		return nil
	}
	if p.hitCooldown > 0 {
		p.hitCooldown--
	}

	switch p.State {
	case Body:
		p.body.vel.X = axis(p.left, p.right) * p.cfg.MoveSpeed
		p.CurrentMana = min(p.MaxMana, p.CurrentMana+p.cfg.ManaRegen)
	case Spirit:
		// The abandoned body only falls
		p.body.vel.X = 0
		move := core.Vec2{X: axis(p.left, p.right), Y: axis(p.up, p.down)}
		p.spirit = p.spirit.Add(move.Normalized().Scale(p.cfg.SpiritSpeed))
		p.spirit.X = core.ClampF(p.spirit.X, 0, float64(w.width-bodyW))
		p.spirit.Y = core.ClampF(p.spirit.Y, 0, float64(w.height-bodyH))

		p.CurrentMana -= p.cfg.SpiritDrain
		if p.CurrentMana <= 0 {
			p.CurrentMana = 0
			if err := p.SwitchForm(); err != nil {
				return err
			}
		}
	}

	p.body.fall(w.gravity, w.maxFall)
	p.body.integrate(w.platforms, w.width)

	if p.body.pos.Y >= float64(w.height) {
		return p.Die()
	}
	return nil
}

// Hit applies damage unless the player was hit recently.
func (p *Player) Hit(damage int) error {
	if p.State == Dead || p.hitCooldown > 0 || damage <= 0 {
		return nil
	}
	p.hitCooldown = p.cfg.HitCooldown
	p.CurrentHealth = max(0, p.CurrentHealth-damage)

	if err := signals.Get[PlayerHit](p.box).Dispatch(damage, p.CurrentHealth, p.MaxHealth); err != nil {
		return err
	}
	if p.CurrentHealth == 0 {
		return p.Die()
	}
	return nil
}

// Die kills the player and announces it once.
func (p *Player) Die() error {
	if p.State == Dead {
		return nil
	}
	from := p.State
	p.State = Dead
	p.CurrentHealth = 0
	if err := signals.Get[FormSwitched](p.box).Dispatch(from, Dead); err != nil {
		return err
	}
	return signals.Get[PlayerDied](p.box).Dispatch()
}

// BodyPos returns the body's position.
func (p *Player) BodyPos() core.Vec2 {
	return p.body.pos
}

// SpiritPos returns the spirit's position. Only meaningful in spirit form.
func (p *Player) SpiritPos() core.Vec2 {
	return p.spirit
}

// Focus returns the position the camera should follow.
func (p *Player) Focus() core.Vec2 {
	if p.State == Spirit {
		return p.spirit
	}
	return p.body.pos
}

// Grounded reports whether the body stands on a platform.
func (p *Player) Grounded() bool {
	return p.body.grounded
}

// Invulnerable reports whether a recent hit still protects the player.
func (p *Player) Invulnerable() bool {
	return p.hitCooldown > 0
}

func (p *Player) bodyRect() core.Rect {
	return p.body.rect()
}

func (p *Player) spiritRect() core.Rect {
	return core.RectAt(p.spirit, bodyW, bodyH)
}

// axis maps a pair of held directions to -1, 0 or 1.
func axis(neg, pos bool) float64 {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	default:
		return 0
	}
}
