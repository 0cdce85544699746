package session

import "github.com/pontodeaula/pontoaula/internal/localstate"

// TokenSource adapts the local state file to the gateway's read-only
// token interface.
type TokenSource struct {
	state *localstate.Store
}

// TokenSourceFrom returns a token source reading the shared token key.
func TokenSourceFrom(state *localstate.Store) *TokenSource {
	return &TokenSource{state: state}
}

// Token returns the persisted bearer token, or "".
func (t *TokenSource) Token() string {
	return t.state.Get(localstate.TokenKey)
}

// LogoutSignal decouples the gateway from the session store: the
// gateway is constructed with Emit as its auth-rejected callback and
// the store binds itself afterwards, breaking the construction cycle
// without an ambient event bus.
type LogoutSignal struct {
	consumer func()
}

// Bind registers the single consumer, replacing any previous one.
func (s *LogoutSignal) Bind(consumer func()) {
	s.consumer = consumer
}

// Emit notifies the bound consumer, if any.
func (s *LogoutSignal) Emit() {
	if s.consumer != nil {
		s.consumer()
	}
}
