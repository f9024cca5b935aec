package vaultauth

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/vault/api"
)

// CompositeAuthMethod returns an AuthMethod that will try each of the given
// methods in order, until one succeeds. The method that succeeded is
// remembered and used for all later logins.
//
// The returned AuthMethod is safe for concurrent use, so a single instance can
// be shared by all clients.
func CompositeAuthMethod(methods ...api.AuthMethod) api.AuthMethod {
	return &compositeAuthMethod{methods: methods}
}

type compositeAuthMethod struct {
	chosen  api.AuthMethod
	methods []api.AuthMethod
	mu      sync.Mutex
}

func (m *compositeAuthMethod) Login(ctx context.Context, client *api.Client) (secret *api.Secret, err error) {
	m.mu.Lock()
	chosen := m.chosen
	m.mu.Unlock()

	if chosen != nil {
		return chosen.Login(ctx, client)
	}

	for _, auth := range m.methods {
		if auth == nil {
			continue
		}

		secret, err = auth.Login(ctx, client)
		if err == nil {
			m.mu.Lock()
			m.chosen = auth
			m.mu.Unlock()

			return secret, nil
		}
	}

	if err == nil {
		err = fmt.Errorf("no auth methods configured")
	}

	return nil, fmt.Errorf("unable to authenticate with vault by any configured method. Last error was: %w", err)
}
