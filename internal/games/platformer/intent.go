package platformer

import (
	"fmt"

	"github.com/vovakirdan/tui-platformer/internal/signals"
)

// Intent is a deferred game command.
type Intent interface {
	Do() error
}

// SceneTarget receives loaded scenes.
type SceneTarget interface {
	LoadScene(s *Scene)
}

// SceneIntent loads a scene by name into a target and announces it with
// SceneLoaded.
type SceneIntent struct {
	SceneName string
	Loader    SceneLoader
	Target    SceneTarget
	Box       *signals.Box
}

// Do performs the load.
func (i SceneIntent) Do() error {
	if i.Loader == nil || i.Target == nil {
		return fmt.Errorf("platformer: scene intent %q has no loader or target", i.SceneName)
	}
	s, err := i.Loader.Scene(i.SceneName)
	if err != nil {
		return err
	}
	i.Target.LoadScene(s)

	if i.Box == nil {
		return nil
	}
	return signals.Get[SceneLoaded](i.Box).Dispatch(s.Name, s.Width, s.Height, len(s.Zombies))
}
