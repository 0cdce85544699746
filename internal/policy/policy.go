// Package policy implements the client-side permission model: a static
// grant table per role plus dynamic ownership rules evaluated against a
// concrete subject instance.
//
// This is a UX convenience layer. The backend enforces permissions
// server-side and remains the actual security boundary.
package policy

import "github.com/pontodeaula/pontoaula/internal/users"

// Action is an operation a role may perform on a subject.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage on SubjectAll short-circuits every other rule.
	ActionManage Action = "manage"
)

// Subject is a kind of resource permissions attach to.
type Subject string

const (
	SubjectPost Subject = "Post"
	SubjectUser Subject = "User"
	// SubjectAll is the wildcard subject used with ActionManage.
	SubjectAll Subject = "all"
)

// Resource is the subject instance handed to dynamic rules. A missing
// or empty owner reference must never match.
type Resource interface {
	OwnerID() string
}

// Predicate is a dynamic rule evaluated when no static grant matches.
type Predicate func(user *users.User, subject Resource) bool

// Policy holds the rules for one role. Static grants are checked before
// dynamic rules.
type Policy struct {
	Static  map[Subject][]Action
	Dynamic map[Subject]map[Action]Predicate
}

// Engine evaluates permissions. It is a pure function of its inputs and
// never errors: every failure mode resolves to false.
type Engine struct {
	policies map[users.Role]Policy
}

// NewEngine returns an engine loaded with the baseline role grants.
func NewEngine() *Engine {
	return &Engine{policies: defaultPolicies()}
}

// NewEngineWith returns an engine with a custom policy table.
func NewEngineWith(policies map[users.Role]Policy) *Engine {
	return &Engine{policies: policies}
}

// CanPerform reports whether user may perform action on the given
// subject type, consulting the instance for dynamic rules. Checks
// short-circuit in order: no user, no policy, manage-all wildcard,
// static grant, dynamic rule, deny.
func (e *Engine) CanPerform(user *users.User, action Action, subject Subject, instance Resource) bool {
	if user == nil {
		return false
	}
	pol, ok := e.policies[user.Role]
	if !ok {
		return false
	}
	if containsAction(pol.Static[SubjectAll], ActionManage) {
		return true
	}
	if containsAction(pol.Static[subject], action) {
		return true
	}
	if rules, ok := pol.Dynamic[subject]; ok {
		if predicate, ok := rules[action]; ok && predicate != nil {
			return predicate(user, instance)
		}
	}
	return false
}

// IsOwner is the canonical dynamic rule: the subject belongs to the
// user. Fails closed when the owner reference is absent.
func IsOwner(user *users.User, subject Resource) bool {
	if user == nil || subject == nil {
		return false
	}
	owner := subject.OwnerID()
	if owner == "" {
		return false
	}
	return user.ID == owner
}

func containsAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

// defaultPolicies is the baseline grant table: ADMIN manages everything,
// SECRETARY and TEACHER author posts and touch only their own, STUDENT
// reads.
func defaultPolicies() map[users.Role]Policy {
	return map[users.Role]Policy{
		users.RoleAdmin: {
			Static: map[Subject][]Action{
				SubjectAll: {ActionManage},
			},
			Dynamic: map[Subject]map[Action]Predicate{
				SubjectPost: {
					ActionUpdate: IsOwner,
				},
			},
		},
		users.RoleSecretary: {
			Static: map[Subject][]Action{
				SubjectPost: {ActionCreate, ActionRead},
			},
			Dynamic: map[Subject]map[Action]Predicate{
				SubjectPost: {
					ActionUpdate: IsOwner,
					ActionDelete: IsOwner,
				},
			},
		},
		users.RoleTeacher: {
			Static: map[Subject][]Action{
				SubjectPost: {ActionCreate, ActionRead},
			},
			Dynamic: map[Subject]map[Action]Predicate{
				SubjectPost: {
					ActionUpdate: IsOwner,
					ActionDelete: IsOwner,
				},
			},
		},
		users.RoleStudent: {
			Static: map[Subject][]Action{
				SubjectPost: {ActionRead},
			},
		},
	}
}
