package azkv

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

// DefaultVaultDomain is the domain of Key Vault endpoints in the Azure public
// cloud
const DefaultVaultDomain = "vault.azure.net"

// defaultCredential is shared by all factories not given a credential
//
//nolint:gochecknoglobals
var defaultCredential = sync.OnceValue(EnvCredential)

type config struct {
	cred       *Credential
	httpClient *http.Client
	domain     string

	newSecretsClient func(vaultURL string, cred azcore.TokenCredential,
		options *azsecrets.ClientOptions) (SecretsClient, error)
	newKeysClient func(vaultURL string, cred azcore.TokenCredential,
		options *azkeys.ClientOptions) (KeysClient, error)
}

func newConfig(opts []Option) *config {
	c := &config{
		domain: DefaultVaultDomain,
		newSecretsClient: func(vaultURL string, cred azcore.TokenCredential,
			options *azsecrets.ClientOptions,
		) (SecretsClient, error) {
			return azsecrets.NewClient(vaultURL, cred, options)
		},
		newKeysClient: func(vaultURL string, cred azcore.TokenCredential,
			options *azkeys.ClientOptions,
		) (KeysClient, error) {
			return azkeys.NewClient(vaultURL, cred, options)
		},
	}

	for _, opt := range opts {
		opt.apply(c)
	}

	if c.cred == nil {
		c.cred = defaultCredential()
	}

	return c
}

func (c *config) clientOptions() azcore.ClientOptions {
	opts := azcore.ClientOptions{
		// failures are surfaced to the caller, never retried
		Retry: policy.RetryOptions{MaxRetries: -1},
	}

	if c.httpClient != nil {
		opts.Transport = c.httpClient
	}

	return opts
}

// Secrets returns a client factory for Key Vault secrets.
//
// The factory may be configured with:
//
//	WithCredential		// set the shared credential
//	WithCredentialKind	// build the shared credential of the given kind
//	WithVaultDomain		// set the domain of vault endpoints
//	WithHTTPClient		// set the HTTP client
func Secrets(opts ...Option) vaultbind.ClientFactory[string] {
	c := newConfig(opts)

	return func(resourceName string) (vaultbind.Store[string], error) {
		cred, err := c.cred.TokenCredential()
		if err != nil {
			return nil, err
		}

		client, err := c.newSecretsClient(vaultbind.VaultURL(resourceName, c.domain), cred,
			&azsecrets.ClientOptions{ClientOptions: c.clientOptions()})
		if err != nil {
			return nil, fmt.Errorf("key vault client creation failed: %w", err)
		}

		return &secretStore{client: client}, nil
	}
}

// Keys returns a client factory for Key Vault keys. It accepts the same
// options as [Secrets].
func Keys(opts ...Option) vaultbind.ClientFactory[*azkeys.JSONWebKey] {
	c := newConfig(opts)

	return func(resourceName string) (vaultbind.Store[*azkeys.JSONWebKey], error) {
		cred, err := c.cred.TokenCredential()
		if err != nil {
			return nil, err
		}

		client, err := c.newKeysClient(vaultbind.VaultURL(resourceName, c.domain), cred,
			&azkeys.ClientOptions{ClientOptions: c.clientOptions()})
		if err != nil {
			return nil, fmt.Errorf("key vault client creation failed: %w", err)
		}

		return &keyStore{client: client}, nil
	}
}

// SecretsProvider returns a secrets provider for registering with a
// [vaultbind.ProviderMux], known as "azure" or "azurekeyvault".
func SecretsProvider(opts ...Option) vaultbind.Provider[string] {
	return vaultbind.ProviderFunc(Secrets(opts...), "azure", "azurekeyvault")
}

// KeysProvider returns a keys provider for registering with a
// [vaultbind.ProviderMux], known as "azure" or "azurekeyvault".
func KeysProvider(opts ...Option) vaultbind.Provider[*azkeys.JSONWebKey] {
	return vaultbind.ProviderFunc(Keys(opts...), "azure", "azurekeyvault")
}
