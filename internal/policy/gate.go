package policy

import "github.com/pontodeaula/pontoaula/internal/users"

// Checker answers per-item permission questions for one bound user.
// Call sites may invoke it unconditionally: it is never nil.
type Checker func(action Action, subject Subject, instance Resource) bool

// CheckerFor binds the engine to user. A nil user yields an
// always-false checker so an unauthenticated or mid-initialization
// caller never treats "unknown" as "allowed".
func (e *Engine) CheckerFor(user *users.User) Checker {
	if user == nil {
		return func(Action, Subject, Resource) bool { return false }
	}
	return func(action Action, subject Subject, instance Resource) bool {
		return e.CanPerform(user, action, subject, instance)
	}
}
