package platformer

import (
	"errors"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// Manager owns pause, score and game-over state.
type Manager struct {
	box     *signals.Box
	scoring config.ScoringConfig
	banish  int

	scene    string
	score    int
	ticks    int
	paused   bool
	gameOver bool

	onEsc    *signals.Handler[func(bool) error]
	onClick  *signals.Handler[func(bool) error]
	onDied   *signals.Handler[func() error]
	onBanish *signals.Handler[func(int) error]
	active   bool
}

// NewManager creates a manager for scene.
func NewManager(box *signals.Box, cfg config.PlatformerConfig, scene string) *Manager {
	m := &Manager{
		box:     box,
		scoring: cfg.Scoring,
		banish:  cfg.Zombie.BanishScore,
		scene:   scene,
	}
	if m.scoring.TicksPerPoint <= 0 {
		m.scoring.TicksPerPoint = 1
	}

	m.onEsc = signals.NewHandler(func(pressed bool) error {
		if !pressed {
			return nil
		}
		return m.SetPaused(!m.paused)
	})
	m.onClick = signals.NewHandler(func(pressed bool) error {
		if pressed && m.paused {
			return m.SetPaused(false)
		}
		return nil
	})
	m.onDied = signals.NewHandler(m.endGame)
	m.onBanish = signals.NewHandler(func(int) error {
		return m.AddScore(m.banish)
	})
	return m
}

// Activate subscribes the manager.
func (m *Manager) Activate() error {
	if m.active {
		return nil
	}
	err := errors.Join(
		signals.Get[InputEsc](m.box).AddListener(m.onEsc),
		signals.Get[InputLClick](m.box).AddListener(m.onClick),
		signals.Get[PlayerDied](m.box).AddListener(m.onDied),
		signals.Get[ZombieBanished](m.box).AddListener(m.onBanish),
	)
	if err != nil {
		m.Deactivate()
		return err
	}
	m.active = true
	return nil
}

// Deactivate removes the manager's handlers.
func (m *Manager) Deactivate() {
	signals.Get[InputEsc](m.box).RemoveListener(m.onEsc)
	signals.Get[InputLClick](m.box).RemoveListener(m.onClick)
	signals.Get[PlayerDied](m.box).RemoveListener(m.onDied)
	signals.Get[ZombieBanished](m.box).RemoveListener(m.onBanish)
	m.active = false
}

// SetPaused changes the pause state and announces changes.
func (m *Manager) SetPaused(paused bool) error {
	if m.gameOver || m.paused == paused {
		return nil
	}
	m.paused = paused
	return signals.Get[Paused](m.box).Dispatch(paused)
}

// Tick counts one simulated tick toward the survival score.
func (m *Manager) Tick() error {
	if m.gameOver || m.paused {
		return nil
	}
	m.ticks++
	if m.ticks%m.scoring.TicksPerPoint == 0 {
		return m.AddScore(1)
	}
	return nil
}

// AddScore adds points and announces the new score.
func (m *Manager) AddScore(points int) error {
	if m.gameOver || points <= 0 {
		return nil
	}
	m.score += points
	return signals.Get[ScoreChanged](m.box).Dispatch(m.score)
}

func (m *Manager) endGame() error {
	if m.gameOver {
		return nil
	}
	m.gameOver = true
	m.paused = false
	return signals.Get[GameOver](m.box).Dispatch(m.scene, m.score)
}

// Score returns the current score.
func (m *Manager) Score() int { return m.score }

// Ticks returns the number of unpaused ticks.
func (m *Manager) Ticks() int { return m.ticks }

// Paused reports whether the game is paused.
func (m *Manager) Paused() bool { return m.paused }

// GameOver reports whether the player died.
func (m *Manager) GameOver() bool { return m.gameOver }
