package hcvault

import (
	"net/http"
	"strings"

	"github.com/hashicorp/vault/api"
)

// Option is a functional option for configuring the client factory
type Option interface {
	apply(*factory)
}

type optionFunc func(*factory)

func (fn optionFunc) apply(f *factory) {
	fn(f)
}

// WithMount sets the mount path of the KV version 2 secret engine. The default
// is "secret".
func WithMount(mount string) Option {
	return optionFunc(func(f *factory) {
		f.mount = strings.Trim(mount, "/")
	})
}

// WithField sets the name of the field holding each secret's value. The default
// is "value".
func WithField(field string) Option {
	return optionFunc(func(f *factory) {
		f.field = field
	})
}

// WithAuthMethod sets the auth method shared by every client. By default,
// [vaultauth.EnvAuthMethod] is used.
func WithAuthMethod(auth api.AuthMethod) Option {
	return optionFunc(func(f *factory) {
		f.auth = func() api.AuthMethod { return auth }
	})
}

// WithHTTPClient sets the HTTP client used by every client.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(f *factory) {
		f.httpClient = client
	})
}

// WithHeader adds custom HTTP headers to every request.
func WithHeader(headers http.Header) Option {
	return optionFunc(func(f *factory) {
		if f.headers == nil {
			f.headers = http.Header{}
		}

		for k, vs := range headers {
			for _, v := range vs {
				f.headers.Add(k, v)
			}
		}
	})
}

// WithAddressFunc overrides the address of the Vault server for each resource
// name, which is otherwise https://{name}.{domain}. This is mostly useful for
// development servers listening on plain HTTP.
func WithAddressFunc(address func(resourceName string) string) Option {
	return optionFunc(func(f *factory) {
		f.address = address
	})
}
