package platformer

import (
	"math/rand"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// Zombie walks toward the player's body. Without a player it wanders around
// its spawn point.
type Zombie struct {
	ID int

	cfg    config.ZombieConfig
	box    *signals.Box
	rng    *rand.Rand
	spawn  core.Vec2
	body   body
	target core.Vec2

	// Banished zombies are out of play until respawn reaches zero
	banished bool
	respawn  int
}

// NewZombie creates a zombie standing at spawn.
func NewZombie(id int, box *signals.Box, cfg config.ZombieConfig, spawn core.Vec2, rng *rand.Rand) *Zombie {
	z := &Zombie{
		ID:    id,
		cfg:   cfg,
		box:   box,
		rng:   rng,
		spawn: spawn,
	}
	z.body.pos = spawn
	z.target = spawn
	return z
}

// Update runs one tick of chase behaviour. player is nil when there is
// nobody to chase. maxVel is the current speed limit.
func (z *Zombie) Update(w *world, player *core.Vec2, maxVel float64) error {
	if z.banished {
		z.respawn--
		if z.respawn > 0 {
			return nil
		}
		z.reset()
	}

	z.SetTarget(player)
	z.Move(w.gravity)
	z.ClampVelocity(maxVel)
	z.body.integrate(w.platforms, w.width)

	// Fell out of the world
	if z.body.pos.Y >= float64(w.height) {
		z.reset()
	}

	v := z.body.vel
	return signals.Get[ZombieMoved](z.box).Dispatch(z.ID, z.body.pos.X, z.body.pos.Y, v.X, v.Y)
}

// SetTarget aims at the player, or picks a new wander point once the
// current one is reached.
func (z *Zombie) SetTarget(player *core.Vec2) {
	if player != nil {
		z.target = *player
		return
	}
	z.target.Y = z.body.pos.Y
	if core.Distance(z.target, z.body.pos) <= z.cfg.ArriveRadius {
		offset := (z.rng.Float64()*2 - 1) * z.cfg.WanderRange
		z.target = core.Vec2{X: z.spawn.X + offset, Y: z.body.pos.Y}
	}
}

// Move pushes the zombie horizontally toward its target and applies gravity.
func (z *Zombie) Move(gravity float64) {
	dir := z.target.Sub(z.body.pos).Normalized()
	dir.Y = 0
	z.body.vel = z.body.vel.Add(dir.Scale(z.cfg.Thrust))
	z.body.vel.Y += gravity
}

// ClampVelocity limits both axes to ±maxVel.
func (z *Zombie) ClampVelocity(maxVel float64) {
	z.body.vel.X = core.ClampF(z.body.vel.X, -maxVel, maxVel)
	z.body.vel.Y = core.ClampF(z.body.vel.Y, -maxVel, maxVel)
}

// Banish takes the zombie out of play for ticks ticks.
func (z *Zombie) Banish(ticks int) {
	z.banished = true
	z.respawn = max(1, ticks)
}

// Active reports whether the zombie is in play.
func (z *Zombie) Active() bool {
	return !z.banished
}

// Pos returns the zombie's position.
func (z *Zombie) Pos() core.Vec2 {
	return z.body.pos
}

// Target returns the point the zombie is heading for.
func (z *Zombie) Target() core.Vec2 {
	return z.target
}

func (z *Zombie) rect() core.Rect {
	return z.body.rect()
}

func (z *Zombie) reset() {
	z.banished = false
	z.respawn = 0
	z.body = body{pos: z.spawn}
	z.target = z.spawn
}
