package azkv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hairyhenderson/go-vaultbind/internal/env"
)

// Scope is the OAuth2 scope requested for Key Vault access tokens
const Scope = "https://vault.azure.net/.default"

// CredentialKind selects the azidentity credential type to build.
type CredentialKind string

const (
	// CredentialDefault uses the DefaultAzureCredential chain
	CredentialDefault CredentialKind = "default"
	// CredentialCLI uses the logged-in Azure CLI account
	CredentialCLI CredentialKind = "cli"
	// CredentialManagedIdentity uses the host's managed identity
	CredentialManagedIdentity CredentialKind = "managedidentity"
	// CredentialEnvironment uses a service principal configured with
	// AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET (or a
	// certificate)
	CredentialEnvironment CredentialKind = "environment"
	// CredentialWorkloadIdentity uses Kubernetes workload identity federation
	CredentialWorkloadIdentity CredentialKind = "workloadidentity"
)

// ParseCredentialKind parses a credential kind, case-insensitively. An empty
// string is the default kind.
func ParseCredentialKind(s string) (CredentialKind, error) {
	kind := CredentialKind(strings.ToLower(strings.TrimSpace(s)))

	switch kind {
	case "":
		return CredentialDefault, nil
	case CredentialDefault, CredentialCLI, CredentialManagedIdentity,
		CredentialEnvironment, CredentialWorkloadIdentity:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown azure credential kind %q", s)
	}
}

// Credential builds an azcore.TokenCredential at most once, on first use, and
// shares it with every client. The result of the first build (credential or
// error) is kept for the life of the Credential.
type Credential struct {
	build func() (azcore.TokenCredential, error)
}

// NewCredential returns a Credential of the given kind.
func NewCredential(kind CredentialKind) *Credential {
	return newCredential(func() (azcore.TokenCredential, error) {
		return newTokenCredential(kind)
	})
}

// EnvCredential returns a Credential whose kind is read from
// $AZURE_CREDENTIAL_KIND when it is first built.
func EnvCredential() *Credential {
	return newCredential(func() (azcore.TokenCredential, error) {
		kind, err := ParseCredentialKind(env.GetenvFS(os.DirFS("/"), "AZURE_CREDENTIAL_KIND"))
		if err != nil {
			return nil, err
		}

		return newTokenCredential(kind)
	})
}

// StaticCredential returns a Credential wrapping an already-built credential.
func StaticCredential(cred azcore.TokenCredential) *Credential {
	return newCredential(func() (azcore.TokenCredential, error) {
		return cred, nil
	})
}

func newCredential(build func() (azcore.TokenCredential, error)) *Credential {
	return &Credential{
		build: sync.OnceValues(func() (azcore.TokenCredential, error) {
			cred, err := build()
			if err != nil {
				return nil, &vaultbind.AuthError{Err: err}
			}

			return &authCredential{cred: cred}, nil
		}),
	}
}

// TokenCredential returns the shared credential, building it if necessary.
// Build failures are returned as *vaultbind.AuthError.
func (c *Credential) TokenCredential() (azcore.TokenCredential, error) {
	return c.build()
}

// Acquire requests a Key Vault access token. This is not needed to use a
// vault, but is useful for checking that the credential works.
func (c *Credential) Acquire(ctx context.Context) (azcore.AccessToken, error) {
	cred, err := c.TokenCredential()
	if err != nil {
		return azcore.AccessToken{}, err
	}

	return cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{Scope}})
}

func newTokenCredential(kind CredentialKind) (azcore.TokenCredential, error) {
	switch kind {
	case CredentialDefault, "":
		return azidentity.NewDefaultAzureCredential(nil)
	case CredentialCLI:
		return azidentity.NewAzureCLICredential(nil)
	case CredentialManagedIdentity:
		return azidentity.NewManagedIdentityCredential(nil)
	case CredentialEnvironment:
		return azidentity.NewEnvironmentCredential(nil)
	case CredentialWorkloadIdentity:
		return azidentity.NewWorkloadIdentityCredential(nil)
	default:
		return nil, fmt.Errorf("unknown azure credential kind %q", kind)
	}
}

// authCredential reports token acquisition failures as *vaultbind.AuthError
type authCredential struct {
	cred azcore.TokenCredential
}

func (c *authCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tok, err := c.cred.GetToken(ctx, opts)
	if err != nil {
		var aerr *vaultbind.AuthError
		if isCancellation(err) || errors.As(err, &aerr) {
			return tok, err
		}

		return tok, &vaultbind.AuthError{Err: err}
	}

	return tok, nil
}
