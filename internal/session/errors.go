package session

import "fmt"

// AuthError reports rejected credentials or a missing session. The user
// can recover by signing in again.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// RegistrationError reports a rejected account creation, such as a
// duplicate email. Recoverable.
type RegistrationError struct {
	Reason string
}

func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Reason
}

// DependencyError reports an attempt to mark a setup step complete out
// of order, or without its record in the store. The navigation guard is
// supposed to make this unreachable, so when it surfaces it is an
// internal invariant breach: logged, never shown to the user.
type DependencyError struct {
	Kind    EntityKind
	Missing string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot complete %s step: missing %s", e.Kind, e.Missing)
}
