package hcvault

import (
	"fmt"
	"net/http"
	"sync"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hairyhenderson/go-vaultbind/hcvault/vaultauth"
	"github.com/hashicorp/vault/api"
)

const (
	// DefaultMount is the default KV v2 mount path
	DefaultMount = "secret"
	// DefaultField is the default name of the field holding a secret's value
	DefaultField = "value"
)

type factory struct {
	auth       func() api.AuthMethod
	address    func(resourceName string) string
	httpClient *http.Client
	headers    http.Header
	mount      string
	field      string
}

// Secrets returns a client factory for secrets held in the Vault servers of the
// given domain.
//
// The factory may be configured with:
//
//	WithMount		// set the KV v2 mount path
//	WithField		// set the name of the value field
//	WithAuthMethod		// set the Vault auth method
//	WithHTTPClient		// set the HTTP client
//	WithHeader		// set custom HTTP headers
//	WithAddressFunc		// override the server address
func Secrets(domain string, opts ...Option) vaultbind.ClientFactory[string] {
	f := &factory{
		auth:  sync.OnceValue(vaultauth.EnvAuthMethod),
		mount: DefaultMount,
		field: DefaultField,
		address: func(resourceName string) string {
			return vaultbind.VaultURL(resourceName, domain)
		},
	}

	for _, opt := range opts {
		opt.apply(f)
	}

	return f.newStore
}

// Provider returns a provider for registering with a [vaultbind.ProviderMux],
// known as "hashicorp" or "vault".
func Provider(domain string, opts ...Option) vaultbind.Provider[string] {
	return vaultbind.ProviderFunc(Secrets(domain, opts...), "hashicorp", "vault")
}

func (f *factory) newStore(resourceName string) (vaultbind.Store[string], error) {
	config, err := f.vaultConfig(resourceName)
	if err != nil {
		return nil, fmt.Errorf("vault configuration error: %w", err)
	}

	c, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("vault client creation failed: %w", err)
	}

	for k, vs := range f.headers {
		for _, v := range vs {
			c.AddHeader(k, v)
		}
	}

	return &kvStore{
		client: c,
		auth:   f.auth(),
		mount:  f.mount,
		field:  f.field,
	}, nil
}

func (f *factory) vaultConfig(resourceName string) (*api.Config, error) {
	config := api.DefaultConfig()
	if config.Error != nil {
		return nil, config.Error
	}

	config.Address = f.address(resourceName)

	// failures are surfaced to the caller, never retried
	config.MaxRetries = 0

	if f.httpClient != nil {
		config.HttpClient = f.httpClient
	}

	return config, nil
}
