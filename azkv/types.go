package azkv

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// SecretsClient is the subset of [azsecrets.Client] used by this package
type SecretsClient interface {
	GetSecret(ctx context.Context, name string, version string,
		options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
	SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters,
		options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error)
}

// KeysClient is the subset of [azkeys.Client] used by this package
type KeysClient interface {
	GetKey(ctx context.Context, name string, version string,
		options *azkeys.GetKeyOptions) (azkeys.GetKeyResponse, error)
}

var (
	_ SecretsClient = (*azsecrets.Client)(nil)
	_ KeysClient    = (*azkeys.Client)(nil)
)
