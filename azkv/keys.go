package azkv

import (
	"context"
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

type keyStore struct {
	client KeysClient
}

var _ vaultbind.Store[*azkeys.JSONWebKey] = (*keyStore)(nil)

// Get returns the public key material of the latest version of the key
func (s *keyStore) Get(ctx context.Context, id string) (*azkeys.JSONWebKey, error) {
	resp, err := s.client.GetKey(ctx, id, "", nil)
	if err != nil {
		return nil, convertAzureError(err)
	}

	if resp.Key == nil {
		return nil, vaultbind.NewRemoteError(vaultbind.RemoteOther, errors.New("key bundle has no key"))
	}

	return resp.Key, nil
}

// Set always fails, keys are read-only
func (s *keyStore) Set(_ context.Context, _ string, _ *azkeys.JSONWebKey) error {
	return vaultbind.ErrReadOnly
}
