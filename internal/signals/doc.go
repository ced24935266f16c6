// Package signals is a small typed publish/subscribe bus.
//
// A signal kind is declared by embedding one of the SignalN bases in a named
// struct. The base fixes the argument list handlers receive:
//
//	type ScoreChanged struct{ signals.Signal1[int] }
//
// Dispatchers are obtained from a Box, which keeps exactly one instance per
// kind. A process-wide box is available through Default and Global; games and
// tests usually own a local box instead.
//
//	onScore := signals.NewHandler(func(score int) error {
//	    hud.SetScore(score)
//	    return nil
//	})
//	signals.Get[ScoreChanged](box).AddListener(onScore)
//	signals.Get[ScoreChanged](box).Dispatch(42)
//	signals.Get[ScoreChanged](box).RemoveListener(onScore)
//
// Handlers are registered as *Handler values so they can always be removed
// again: the pointer is the handler's identity. The box never owns the
// function's receiver, so owners must remove their handlers before they go
// away.
//
// Dispatch is synchronous and runs handlers in registration order. The first
// handler that returns an error stops the dispatch; the error is returned to
// the caller wrapped in a *HandlerError. Panics are not recovered.
//
// Every dispatcher also has a stable string identifier (Hash) derived from
// its kind's package path and type name. Callers that only know that string
// can still subscribe with AddListenerByHash.
package signals
