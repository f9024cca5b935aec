package azkv

import (
	"net/http"
	"strings"
)

// Option is a functional option for configuring the client factories
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (fn optionFunc) apply(c *config) {
	fn(c)
}

// WithCredential sets the credential shared by every client. Pass the same
// Credential to [Secrets] and [Keys] to share it between them.
func WithCredential(cred *Credential) Option {
	return optionFunc(func(c *config) {
		c.cred = cred
	})
}

// WithCredentialKind builds a new shared credential of the given kind, instead
// of reading the kind from the environment.
func WithCredentialKind(kind CredentialKind) Option {
	return optionFunc(func(c *config) {
		c.cred = NewCredential(kind)
	})
}

// WithVaultDomain sets the domain of vault endpoints. The default is
// "vault.azure.net".
func WithVaultDomain(domain string) Option {
	return optionFunc(func(c *config) {
		if domain = strings.Trim(domain, "."); domain != "" {
			c.domain = domain
		}
	})
}

// WithHTTPClient sets the HTTP client used to send requests.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(c *config) {
		c.httpClient = client
	})
}
