// Package azkv reads and writes secrets, and reads keys, held in Azure Key
// Vault.
//
// Vault resource names map to endpoints of the form https://{name}.{domain},
// where the domain defaults to "vault.azure.net". Sovereign clouds can be
// reached by setting a different domain with [WithVaultDomain] (e.g.
// "vault.azure.cn").
//
// Secrets are returned verbatim as strings. Keys are returned as
// [azkeys.JSONWebKey] values holding the public key material, and are
// read-only.
//
// # Credentials
//
// All clients share one [Credential], built on first use. By default its kind
// is read from the AZURE_CREDENTIAL_KIND environment variable (or the file
// named by AZURE_CREDENTIAL_KIND_FILE), falling back to the
// [azidentity.DefaultAzureCredential] chain. If the credential can't be built,
// the failure is remembered and every later client construction fails with
// the same *[vaultbind.AuthError].
package azkv
