// Package hcvault reads and writes secrets held in HashiCorp Vault's KV
// version 2 secret engine.
//
// Each vault resource name maps to its own Vault server, addressed as
// https://{name}.{domain}. Secrets are stored at {mount}/data/{itemID}, with
// the value held in a single field (default "value"):
//
//	$ vault kv put -mount=secret my-secret value=hello
//
// # Authentication
//
// All clients share one [api.AuthMethod], which defaults to
// [vaultauth.EnvAuthMethod] and is built on first use. Each client logs in on
// its first request. A failed login is remembered, and every later request on
// that client fails with the same *[vaultbind.AuthError].
//
// Tokens are never renewed or revoked.
package hcvault
