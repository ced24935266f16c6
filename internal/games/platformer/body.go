package platformer

import (
	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Entity size in cells. Position is the top-left cell.
const (
	bodyW = 1
	bodyH = 2
)

// body is a point mass that lands on platforms from above.
type body struct {
	pos      core.Vec2
	vel      core.Vec2
	grounded bool
}

func (b *body) rect() core.Rect {
	return core.RectAt(b.pos, bodyW, bodyH)
}

func (b *body) feet() float64 {
	return b.pos.Y + bodyH
}

// integrate advances the body by its velocity and resolves landings.
// Platforms are one-way: rising bodies pass through them.
func (b *body) integrate(platforms []Platform, worldW int) {
	prevFeet := b.feet()
	b.pos = b.pos.Add(b.vel)
	b.pos.X = core.ClampF(b.pos.X, 0, float64(worldW-bodyW))
	b.grounded = false

	if b.vel.Y < 0 {
		return
	}
	for _, p := range platforms {
		top := float64(p.Y)
		if prevFeet > top || b.feet() < top {
			continue
		}
		if b.pos.X+bodyW <= float64(p.X) || b.pos.X >= float64(p.X+p.W) {
			continue
		}
		b.pos.Y = top - bodyH
		b.vel.Y = 0
		b.grounded = true
		return
	}
}

// fall applies gravity up to the terminal speed.
func (b *body) fall(gravity, maxFall float64) {
	b.vel.Y += gravity
	if b.vel.Y > maxFall {
		b.vel.Y = maxFall
	}
}
