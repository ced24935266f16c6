package platformer

import (
	"errors"

	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// InputAction is the payload of InputSpace.
type InputAction int

const (
	SpaceDown InputAction = iota
	SpaceUp
)

// String returns the action name.
func (a InputAction) String() string {
	if a == SpaceUp {
		return "SpaceUp"
	}
	return "SpaceDown"
}

// Input signals, dispatched by InputListener.
type (
	InputW      struct{ signals.Signal1[bool] }
	InputS      struct{ signals.Signal1[bool] }
	InputA      struct{ signals.Signal1[bool] }
	InputD      struct{ signals.Signal1[bool] }
	InputEsc    struct{ signals.Signal1[bool] }
	InputLClick struct{ signals.Signal1[bool] }
	InputRClick struct{ signals.Signal1[bool] }
	InputSpace  struct{ signals.Signal1[InputAction] }
)

// Gameplay signals.
type (
	// ScoreChanged carries the new score.
	ScoreChanged struct{ signals.Signal1[int] }

	// FormSwitched carries the previous and the new form.
	FormSwitched struct {
		signals.Signal2[PlayerState, PlayerState]
	}

	// PlayerHit carries damage taken, remaining health and max health.
	PlayerHit struct{ signals.Signal3[int, int, int] }

	PlayerDied struct{ signals.Signal0 }

	// GameOver carries the scene name and the final score.
	GameOver struct{ signals.Signal2[string, int] }

	// ZombieMoved carries id, position and velocity.
	ZombieMoved struct {
		signals.Signal5[int, float64, float64, float64, float64]
	}

	// ZombieBanished carries the id of a zombie touched by the spirit.
	ZombieBanished struct{ signals.Signal1[int] }

	Paused struct{ signals.Signal1[bool] }

	// SceneLoaded carries name, width, height and zombie count.
	SceneLoaded struct{ signals.Signal4[string, int, int, int] }
)

// BindSignals registers every signal kind of the game on b so they can be
// found by hash before anything subscribes. Kinds already bound are kept.
func BindSignals(b *signals.Box) error {
	binds := []func(*signals.Box) error{
		bindKind[InputW], bindKind[InputS], bindKind[InputA], bindKind[InputD],
		bindKind[InputEsc], bindKind[InputLClick], bindKind[InputRClick], bindKind[InputSpace],
		bindKind[ScoreChanged], bindKind[FormSwitched], bindKind[PlayerHit], bindKind[PlayerDied],
		bindKind[GameOver], bindKind[ZombieMoved], bindKind[ZombieBanished], bindKind[Paused],
		bindKind[SceneLoaded],
	}

	var errs []error
	for _, bind := range binds {
		if err := bind(b); err != nil && !errors.Is(err, signals.ErrDuplicateRegistration) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func bindKind[S any, P signals.Kind[S]](b *signals.Box) error {
	_, err := signals.Bind[S, P](b)
	return err
}

// GameOverHash returns the identifier of the GameOver signal.
func GameOverHash(b *signals.Box) string {
	return signals.Get[GameOver](b).Hash()
}
