//go:build !windows

package integration

import (
	"testing"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hairyhenderson/go-vaultbind/hcvault"
	"github.com/hairyhenderson/go-vaultbind/hcvault/vaultauth"
	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/icmd"
)

const vaultRootToken = "00000000-1111-2222-3333-444455556666"

func startVault(t *testing.T) string {
	t.Helper()

	requireBinary(t, "vault")

	vaultAddr := freeport(t)
	vault := icmd.Command("vault", "server",
		"-dev",
		"-dev-root-token-id="+vaultRootToken,
		"-log-level=err",
		"-dev-listen-address="+vaultAddr,
	)
	result := icmd.StartCmd(vault)

	t.Logf("Fired up Vault: %v", vault)

	t.Cleanup(func() {
		_ = result.Cmd.Process.Kill()
		_ = result.Cmd.Wait()
	})

	err := waitForURL(t.Context(), t, "http://"+vaultAddr+"/v1/sys/health")
	require.NoError(t, err)

	return vaultAddr
}

func adminClient(t *testing.T, addr string) *api.Client {
	t.Helper()

	client, err := api.NewClient(&api.Config{Address: "http://" + addr})
	require.NoError(t, err)

	client.SetToken(vaultRootToken)

	return client
}

func tokenCreate(t *testing.T, client *api.Client, policy string) string {
	t.Helper()

	token, err := client.Auth().Token().Create(&api.TokenCreateRequest{
		Policies: []string{policy},
		TTL:      "1m",
	})
	require.NoError(t, err)

	return token.Auth.ClientToken
}

func TestHCVault(t *testing.T) {
	addr := startVault(t)
	client := adminClient(t, addr)

	err := client.Sys().PutPolicy("readpol", `path "secret/data/*" {
  capabilities = ["read"]
}`)
	require.NoError(t, err)

	// every resource name resolves to the same dev server
	address := hcvault.WithAddressFunc(func(string) string { return "http://" + addr })

	ctx := t.Context()

	admin := vaultbind.NewAccessor(vaultbind.KindSecret, vaultbind.NewClientCache(
		hcvault.Secrets("vault.test", address, hcvault.WithAuthMethod(vaultauth.NewTokenAuth(vaultRootToken))),
	))

	require.NoError(t, admin.SetItem(ctx, "mykv", "MySecretId", "hello"))

	v, err := admin.GetItem(ctx, "mykv", "MySecretId")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = admin.GetItem(ctx, "mykv", "missing")
	require.ErrorIs(t, err, vaultbind.ErrNotFound)

	reader := vaultbind.NewAccessor(vaultbind.KindSecret, vaultbind.NewClientCache(
		hcvault.Secrets("vault.test", address,
			hcvault.WithAuthMethod(vaultauth.NewTokenAuth(tokenCreate(t, client, "readpol")))),
	))

	v, err = reader.GetItem(ctx, "mykv", "MySecretId")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	err = reader.SetItem(ctx, "mykv", "MySecretId", "world")
	require.ErrorIs(t, err, vaultbind.ErrPermissionDenied)
}

func TestHCVault_AppRole(t *testing.T) {
	addr := startVault(t)
	client := adminClient(t, addr)

	err := client.Sys().EnableAuthWithOptions("approle", &api.EnableAuthOptions{Type: "approle"})
	require.NoError(t, err)

	err = client.Sys().PutPolicy("rwpol", `path "secret/data/*" {
  capabilities = ["create", "update", "read"]
}`)
	require.NoError(t, err)

	_, err = client.Logical().Write("auth/approle/role/kvtest", map[string]any{
		"token_policies": "rwpol",
	})
	require.NoError(t, err)

	rid, err := client.Logical().Read("auth/approle/role/kvtest/role-id")
	require.NoError(t, err)

	sid, err := client.Logical().Write("auth/approle/role/kvtest/secret-id", nil)
	require.NoError(t, err)

	t.Setenv("VAULT_ROLE_ID", rid.Data["role_id"].(string))
	t.Setenv("VAULT_SECRET_ID", sid.Data["secret_id"].(string))
	t.Setenv("VAULT_TOKEN", "")

	a := vaultbind.NewAccessor(vaultbind.KindSecret, vaultbind.NewClientCache(
		hcvault.Secrets("vault.test",
			hcvault.WithAddressFunc(func(string) string { return "http://" + addr }),
			hcvault.WithAuthMethod(vaultauth.EnvAuthMethod()),
		),
	))

	ctx := t.Context()

	require.NoError(t, a.SetItem(ctx, "mykv", "MySecretId", "world"))

	v, err := a.GetItem(ctx, "mykv", "MySecretId")
	require.NoError(t, err)
	assert.Equal(t, "world", v)
}
