package platformer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

const hitFlashTicks = 20

// hud keeps what the status line shows. Everything except mana arrives
// through signals.
type hud struct {
	box *signals.Box

	title     string
	score     int
	health    int
	maxHealth int
	form      PlayerState
	paused    bool
	over      bool
	hitFlash  int
	zombies   map[int]core.Vec2

	onScore  *signals.Handler[func(int) error]
	onHit    *signals.Handler[func(int, int, int) error]
	onForm   *signals.Handler[func(PlayerState, PlayerState) error]
	onPause  *signals.Handler[func(bool) error]
	onScene  *signals.Handler[func(string, int, int, int) error]
	onZombie *signals.Handler[func(int, float64, float64, float64, float64) error]
	onBanish *signals.Handler[func(int) error]
	onOver   *signals.Handler[func(string, int) error]
}

func newHUD(box *signals.Box, maxHealth int) *hud {
	h := &hud{
		box:       box,
		health:    maxHealth,
		maxHealth: maxHealth,
		zombies:   make(map[int]core.Vec2),
	}

	h.onScore = signals.NewHandler(func(score int) error { h.score = score; return nil })
	h.onHit = signals.NewHandler(func(_, current, maxHP int) error {
		h.health, h.maxHealth = current, maxHP
		h.hitFlash = hitFlashTicks
		return nil
	})
	h.onForm = signals.NewHandler(func(_, to PlayerState) error { h.form = to; return nil })
	h.onPause = signals.NewHandler(func(paused bool) error { h.paused = paused; return nil })
	h.onScene = signals.NewHandler(func(name string, _, _, _ int) error {
		h.title = name
		clear(h.zombies)
		return nil
	})
	h.onZombie = signals.NewHandler(func(id int, x, y, _, _ float64) error {
		h.zombies[id] = core.Vec2{X: x, Y: y}
		return nil
	})
	h.onBanish = signals.NewHandler(func(id int) error {
		delete(h.zombies, id)
		return nil
	})
	h.onOver = signals.NewHandler(func(_ string, score int) error {
		h.over = true
		h.score = score
		return nil
	})
	return h
}

func (h *hud) activate() error {
	return errors.Join(
		signals.Get[ScoreChanged](h.box).AddListener(h.onScore),
		signals.Get[PlayerHit](h.box).AddListener(h.onHit),
		signals.Get[FormSwitched](h.box).AddListener(h.onForm),
		signals.Get[Paused](h.box).AddListener(h.onPause),
		signals.Get[SceneLoaded](h.box).AddListener(h.onScene),
		signals.Get[ZombieMoved](h.box).AddListener(h.onZombie),
		signals.Get[ZombieBanished](h.box).AddListener(h.onBanish),
		signals.Get[GameOver](h.box).AddListener(h.onOver),
	)
}

func (h *hud) deactivate() {
	signals.Get[ScoreChanged](h.box).RemoveListener(h.onScore)
	signals.Get[PlayerHit](h.box).RemoveListener(h.onHit)
	signals.Get[FormSwitched](h.box).RemoveListener(h.onForm)
	signals.Get[Paused](h.box).RemoveListener(h.onPause)
	signals.Get[SceneLoaded](h.box).RemoveListener(h.onScene)
	signals.Get[ZombieMoved](h.box).RemoveListener(h.onZombie)
	signals.Get[ZombieBanished](h.box).RemoveListener(h.onBanish)
	signals.Get[GameOver](h.box).RemoveListener(h.onOver)
}

// tick ages timed effects.
func (h *hud) tick() {
	if h.hitFlash > 0 {
		h.hitFlash--
	}
}

// render draws the status line and overlays. cam is the world position of
// the top-left world cell on screen row 1.
func (h *hud) render(dst *core.Screen, mana, maxMana float64, cam core.Vec2) {
	hpColor := core.ColorBrightRed
	if h.hitFlash > 0 && h.hitFlash%4 < 2 {
		hpColor = core.ColorWhite
	}

	x := 1
	x = drawPart(dst, x, h.title, core.ColorBrightCyan)
	x = drawPart(dst, x, fmt.Sprintf("Score %d", h.score), core.ColorYellow)
	x = drawPart(dst, x, "HP "+meter(h.health, h.maxHealth, '♥', '♡'), hpColor)
	manaCells := 5
	filled := 0
	if maxMana > 0 {
		filled = int(mana / maxMana * float64(manaCells))
		if mana > 0 && filled == 0 {
			filled = 1
		}
	}
	x = drawPart(dst, x, "Mana "+meter(filled, manaCells, '▮', '▯'), core.ColorBlue)
	formColor := core.ColorGreen
	if h.form == Spirit {
		formColor = core.ColorCyan
	}
	drawPart(dst, x, strings.ToUpper(h.form.String()), formColor)

	h.renderIndicators(dst, cam)

	switch {
	case h.over:
		drawMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", h.score), core.ColorBrightRed)
	case h.paused:
		drawMessage(dst, "PAUSED", "Esc to resume, click to continue", core.ColorYellow)
	}
}

// renderIndicators marks zombies outside the view on the screen edges.
func (h *hud) renderIndicators(dst *core.Screen, cam core.Vec2) {
	viewW := float64(dst.Width())
	row := dst.Height() - 1
	for _, pos := range h.zombies {
		switch {
		case pos.X < cam.X:
			dst.SetColored(0, row, '◀', core.ColorRed)
		case pos.X >= cam.X+viewW:
			dst.SetColored(dst.Width()-1, row, '▶', core.ColorRed)
		}
	}
}

func drawPart(dst *core.Screen, x int, text string, c core.Color) int {
	dst.DrawText(x, 0, text, c)
	return x + len([]rune(text)) + 2
}

func drawMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	y := dst.Height() / 2
	width := max(len([]rune(title)), len([]rune(subtitle))) + 4
	box := core.NewRect((dst.Width()-width)/2, y-2, width, 5)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	dst.DrawTextCentered(y-1, title, c)
	dst.DrawTextCentered(y+1, subtitle, core.ColorWhite)
}

// meter renders n of total as filled and empty runes.
func meter(n, total int, full, empty rune) string {
	n = max(0, min(n, total))
	return strings.Repeat(string(full), n) + strings.Repeat(string(empty), total-n)
}
