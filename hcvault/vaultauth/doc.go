// Package vaultauth provides the Vault auth methods used by
// [github.com/hairyhenderson/go-vaultbind/hcvault] to acquire a token. They
// can also be used directly with a [*github.com/hashicorp/vault/api.Client].
//
// See also these auth methods provided with the Vault API:
//   - [github.com/hashicorp/vault/api/auth/approle]
//   - [github.com/hashicorp/vault/api/auth/userpass]
package vaultauth
