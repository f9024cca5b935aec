package azkv

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

type fakeSecretsClient struct {
	secrets map[string]string
	err     error
	mu      sync.Mutex
}

var _ SecretsClient = (*fakeSecretsClient)(nil)

func (c *fakeSecretsClient) GetSecret(_ context.Context, name string, _ string,
	_ *azsecrets.GetSecretOptions,
) (azsecrets.GetSecretResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return azsecrets.GetSecretResponse{}, c.err
	}

	v, ok := c.secrets[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, &azcore.ResponseError{
			StatusCode: http.StatusNotFound,
			ErrorCode:  "SecretNotFound",
		}
	}

	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &v}}, nil
}

func (c *fakeSecretsClient) SetSecret(_ context.Context, name string, params azsecrets.SetSecretParameters,
	_ *azsecrets.SetSecretOptions,
) (azsecrets.SetSecretResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return azsecrets.SetSecretResponse{}, c.err
	}

	if c.secrets == nil {
		c.secrets = map[string]string{}
	}

	c.secrets[name] = *params.Value

	return azsecrets.SetSecretResponse{Secret: azsecrets.Secret{Value: params.Value}}, nil
}

type fakeKeysClient struct {
	keys map[string]*azkeys.JSONWebKey
}

var _ KeysClient = (*fakeKeysClient)(nil)

func (c *fakeKeysClient) GetKey(_ context.Context, name string, _ string,
	_ *azkeys.GetKeyOptions,
) (azkeys.GetKeyResponse, error) {
	k, ok := c.keys[name]
	if !ok {
		return azkeys.GetKeyResponse{}, &azcore.ResponseError{
			StatusCode: http.StatusNotFound,
			ErrorCode:  "KeyNotFound",
		}
	}

	return azkeys.GetKeyResponse{KeyBundle: azkeys.KeyBundle{Key: k}}, nil
}

type fakeCredential struct {
	err    error
	scopes []string
}

func (c *fakeCredential) GetToken(_ context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	c.scopes = opts.Scopes

	if c.err != nil {
		return azcore.AccessToken{}, c.err
	}

	return azcore.AccessToken{Token: "fake-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// withSecretsClient makes the factory hand out client, recording each
// requested vault URL
func withSecretsClient(client SecretsClient, urls *[]string) Option {
	return optionFunc(func(c *config) {
		c.newSecretsClient = func(vaultURL string, _ azcore.TokenCredential,
			_ *azsecrets.ClientOptions,
		) (SecretsClient, error) {
			if urls != nil {
				*urls = append(*urls, vaultURL)
			}

			return client, nil
		}
	})
}

func withKeysClient(client KeysClient) Option {
	return optionFunc(func(c *config) {
		c.newKeysClient = func(_ string, _ azcore.TokenCredential,
			_ *azkeys.ClientOptions,
		) (KeysClient, error) {
			return client, nil
		}
	})
}
