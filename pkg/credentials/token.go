package credentials

import (
	"context"
	"fmt"
)

// TokenProvider is an asynchronous source of bearer tokens. Implementations
// may ignore scopes and audiences when the backing credential is not
// scoped, but must be safe for concurrent use.
type TokenProvider interface {
	Token(ctx context.Context, scopes, audiences []string) (string, error)
}

// Static serves a stored API key as a bearer token. Scopes and audiences
// are ignored: API keys are not scoped.
type Static struct {
	manager  *Manager
	provider string
}

// NewStatic creates a Static token provider serving the key stored for
// the named provider.
func NewStatic(manager *Manager, provider string) *Static {
	return &Static{manager: manager, provider: provider}
}

// Token returns the stored API key, or an error when none is stored.
func (s *Static) Token(_ context.Context, _, _ []string) (string, error) {
	key, err := s.manager.GetKey(s.provider)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("no API key stored for provider %q", s.provider)
	}
	return key, nil
}
