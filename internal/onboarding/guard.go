package onboarding

import (
	"go.uber.org/zap"

	"fitmate/internal/session"
)

// GuardState is where a screen entry stands: every entry starts at
// Entering and resolves to Allowed or Redirecting before any protected
// content is shown.
type GuardState int

const (
	GuardEntering GuardState = iota
	GuardAllowed
	GuardRedirecting
)

// Decision is the guard's verdict for one screen entry. When State is
// GuardRedirecting, Redirect names the screen to navigate to instead.
type Decision struct {
	State    GuardState
	Required Step
	Redirect Step
}

// Allowed reports whether the screen may render.
func (d Decision) Allowed() bool {
	return d.State == GuardAllowed
}

// Guard gates protected screens on the current onboarding state.
type Guard struct {
	sessions *session.Manager
	log      *zap.Logger
}

// NewGuard creates a guard over the given session manager.
func NewGuard(sessions *session.Manager, log *zap.Logger) *Guard {
	return &Guard{sessions: sessions, log: log}
}

// Enter evaluates a screen entry. The required step is recomputed on
// every call, including back-navigation, because completeness flags can
// change mid-session.
func (g *Guard) Enter(screen Step) Decision {
	d := Decision{State: GuardEntering}

	d.Required = RequiredStep(g.sessions.CurrentIdentity())
	if d.Required == screen {
		d.State = GuardAllowed
		return d
	}

	d.State = GuardRedirecting
	d.Redirect = d.Required
	g.log.Debug("screen entry redirected",
		zap.Stringer("screen", screen),
		zap.Stringer("required", d.Required))
	return d
}
