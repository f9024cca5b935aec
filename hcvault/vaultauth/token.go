package vaultauth

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hairyhenderson/go-vaultbind/internal/env"
	"github.com/hashicorp/vault/api"
)

// NewTokenAuth authenticates with the given token, or if none is provided,
// attempts to read from the $VAULT_TOKEN environment variable (or the file
// named by $VAULT_TOKEN_FILE), or the $HOME/.vault-token file.
//
// The token is not managed, and is never revoked.
//
// See also https://www.vaultproject.io/docs/auth/token
func NewTokenAuth(token string) api.AuthMethod {
	return &tokenAuthMethod{token: token, fsys: os.DirFS("/")}
}

type tokenAuthMethod struct {
	fsys  fs.FS
	token string
}

func (m *tokenAuthMethod) Login(_ context.Context, _ *api.Client) (*api.Secret, error) {
	if m.token != "" {
		return tokenSecret(m.token), nil
	}

	if token := env.GetenvFS(m.fsys, "VAULT_TOKEN"); token != "" {
		return tokenSecret(token), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	p := path.Join(homeDir, ".vault-token")
	p = strings.TrimPrefix(p, "/")

	b, err := fs.ReadFile(m.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("readFile %q: %w", p, err)
	}

	return tokenSecret(strings.TrimSpace(string(b))), nil
}

func tokenSecret(token string) *api.Secret {
	return &api.Secret{Auth: &api.SecretAuth{ClientToken: token}}
}
