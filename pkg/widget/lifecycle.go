package widget

import "sync/atomic"

// Phase tracks root initialization. The only allowed transitions move
// forward: Uninitialized -> Resolving -> Ready. Ready is terminal; changing
// options or themes after the fact does not re-trigger resolution.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseResolving
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseResolving:
		return "resolving"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

type lifecycle struct {
	phase atomic.Int32
}

func (l *lifecycle) Phase() Phase {
	return Phase(l.phase.Load())
}

// advance moves from exactly `from` to `to`, reporting whether the caller won
// the transition. Losing means another caller already moved past `from`.
func (l *lifecycle) advance(from, to Phase) bool {
	return l.phase.CompareAndSwap(int32(from), int32(to))
}
