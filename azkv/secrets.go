package azkv

import (
	"context"
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

type secretStore struct {
	client SecretsClient
}

var _ vaultbind.Store[string] = (*secretStore)(nil)

// Get returns the latest version of the secret
func (s *secretStore) Get(ctx context.Context, id string) (string, error) {
	resp, err := s.client.GetSecret(ctx, id, "", nil)
	if err != nil {
		return "", convertAzureError(err)
	}

	if resp.Value == nil {
		return "", vaultbind.NewRemoteError(vaultbind.RemoteOther, errors.New("secret has no value"))
	}

	return *resp.Value, nil
}

// Set creates a new version of the secret
func (s *secretStore) Set(ctx context.Context, id, value string) error {
	_, err := s.client.SetSecret(ctx, id, azsecrets.SetSecretParameters{Value: to.Ptr(value)}, nil)

	return convertAzureError(err)
}
