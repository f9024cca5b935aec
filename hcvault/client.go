package hcvault

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hashicorp/vault/api"
)

// kvStore is a KV v2 client for one Vault server. The token acquired on first
// use is kept for the life of the store.
type kvStore struct {
	client *api.Client
	auth   api.AuthMethod

	// loginErr is the remembered result of a failed login
	loginErr error

	mount    string
	field    string
	mu       sync.Mutex
	loggedIn bool
}

var _ vaultbind.Store[string] = (*kvStore)(nil)

func (s *kvStore) login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loggedIn {
		return nil
	}

	if s.loginErr != nil {
		return s.loginErr
	}

	secret, err := s.auth.Login(ctx, s.client)
	if err != nil {
		// a cancelled login can be attempted again
		if ctx.Err() != nil || isCancellation(err) {
			return err
		}

		s.loginErr = &vaultbind.AuthError{Err: err}

		return s.loginErr
	}

	if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
		s.loginErr = &vaultbind.AuthError{Err: errors.New("vault login returned no client token")}

		return s.loginErr
	}

	s.client.SetToken(secret.Auth.ClientToken)
	s.loggedIn = true

	return nil
}

// dataPath returns the KV v2 data path for id. Ids that would resolve outside
// the mount are rejected.
func (s *kvStore) dataPath(id string) (string, error) {
	if strings.HasPrefix(id, "/") {
		return "", invalidID()
	}

	for _, seg := range strings.Split(id, "/") {
		if seg == "." || seg == ".." {
			return "", invalidID()
		}
	}

	return path.Join(s.mount, "data", id), nil
}

func invalidID() error {
	return &vaultbind.ValidationError{Field: "itemID", Err: vaultbind.ErrInvalidItemID}
}

func (s *kvStore) Get(ctx context.Context, id string) (string, error) {
	p, err := s.dataPath(id)
	if err != nil {
		return "", err
	}

	if err := s.login(ctx); err != nil {
		return "", err
	}

	secret, err := s.client.Logical().ReadWithContext(ctx, p)
	if err != nil {
		return "", convertVaultError(err)
	}

	// Vault responds to a missing (or deleted) secret with an empty 404
	if secret == nil || secret.Data == nil {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteNotFound, fmt.Errorf("no secret at %q", p))
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteNotFound, fmt.Errorf("secret at %q has been deleted", p))
	}

	v, ok := data[s.field]
	if !ok {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteNotFound,
			fmt.Errorf("secret at %q has no field %q", p, s.field))
	}

	value, ok := v.(string)
	if !ok {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteOther,
			fmt.Errorf("field %q of secret at %q is a %T, not a string", s.field, p, v))
	}

	return value, nil
}

func (s *kvStore) Set(ctx context.Context, id, value string) error {
	p, err := s.dataPath(id)
	if err != nil {
		return err
	}

	if err := s.login(ctx); err != nil {
		return err
	}

	body := map[string]any{
		"data": map[string]any{s.field: value},
	}

	_, err = s.client.Logical().WriteWithContext(ctx, p, body)
	if err != nil {
		return convertVaultError(err)
	}

	return nil
}
