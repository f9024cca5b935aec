package hcvault

import (
	"context"
	"errors"
	"net/http"
	"testing"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hairyhenderson/go-vaultbind/hcvault/vaultauth"
	"github.com/hairyhenderson/go-vaultbind/internal/tests/fakevault"
	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(resourceName string) string {
	return "http://" + resourceName + ".vault.test"
}

func setupStore(t *testing.T, opts ...Option) (*fakevault.KV, vaultbind.ClientFactory[string]) {
	t.Helper()

	kv, hc := fakevault.Server(t)

	opts = append([]Option{
		WithHTTPClient(hc),
		WithAddressFunc(testAddress),
		WithAuthMethod(vaultauth.NewTokenAuth("s.token")),
	}, opts...)

	return kv, Secrets("vault.test", opts...)
}

func TestSecrets_Get(t *testing.T) {
	kv, factory := setupStore(t)
	kv.Put("myvault", "secret1", "value", "hello")

	s, err := factory("myvault")
	require.NoError(t, err)

	v, err := s.Get(t.Context(), "secret1")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	// each resource name is its own vault
	other, err := factory("othervault")
	require.NoError(t, err)

	_, err = other.Get(t.Context(), "secret1")
	require.ErrorIs(t, err, vaultbind.ErrNotFound)
}

func TestSecrets_RoundTrip(t *testing.T) {
	kv, factory := setupStore(t, WithMount("/secret/"), WithField("password"))

	s, err := factory("myvault")
	require.NoError(t, err)

	ctx := t.Context()

	require.NoError(t, s.Set(ctx, "app/db", "x"))
	assert.Equal(t, map[string]any{"password": "x"}, kv.Data("myvault", "app/db"))

	v, err := s.Get(ctx, "app/db")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestSecrets_NotFound(t *testing.T) {
	kv, factory := setupStore(t)
	kv.Put("myvault", "other-field", "notvalue", "hello")

	s, err := factory("myvault")
	require.NoError(t, err)

	_, err = s.Get(t.Context(), "missing")

	var rerr *vaultbind.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, vaultbind.RemoteNotFound, rerr.Kind)

	_, err = s.Get(t.Context(), "other-field")
	require.ErrorIs(t, err, vaultbind.ErrNotFound)
	assert.ErrorContains(t, err, `no field "value"`)
}

func TestSecrets_LoginOnce(t *testing.T) {
	kv, hc := fakevault.Server(t)
	kv.Put("myvault", "secret1", "value", "hello")

	auth, err := approle.NewAppRoleAuth("role", &approle.SecretID{FromString: "secret"})
	require.NoError(t, err)

	factory := Secrets("vault.test", WithHTTPClient(hc), WithAddressFunc(testAddress), WithAuthMethod(auth))

	s, err := factory("myvault")
	require.NoError(t, err)

	for range 3 {
		v, err := s.Get(t.Context(), "secret1")
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	}

	assert.EqualValues(t, 1, kv.Logins.Load())
	assert.EqualValues(t, 3, kv.Requests.Load())
}

type failingAuth struct {
	calls int
}

func (a *failingAuth) Login(_ context.Context, _ *api.Client) (*api.Secret, error) {
	a.calls++

	return nil, errors.New("bad credentials")
}

func TestSecrets_LoginFailureRemembered(t *testing.T) {
	kv, hc := fakevault.Server(t)

	auth := &failingAuth{}
	factory := Secrets("vault.test", WithHTTPClient(hc), WithAddressFunc(testAddress), WithAuthMethod(auth))

	s, err := factory("myvault")
	require.NoError(t, err)

	_, err = s.Get(t.Context(), "secret1")
	require.ErrorIs(t, err, vaultbind.ErrAuth)

	err = s.Set(t.Context(), "secret1", "x")
	require.ErrorIs(t, err, vaultbind.ErrAuth)

	assert.Equal(t, 1, auth.calls)
	assert.Zero(t, kv.Requests.Load())
}

func TestSecrets_EmptyToken(t *testing.T) {
	_, factory := setupStore(t, WithAuthMethod(vaultauth.CompositeAuthMethod(
		&fixedAuth{secret: &api.Secret{}},
	)))

	s, err := factory("myvault")
	require.NoError(t, err)

	_, err = s.Get(t.Context(), "secret1")
	require.ErrorIs(t, err, vaultbind.ErrAuth)
	assert.ErrorContains(t, err, "no client token")
}

type fixedAuth struct {
	secret *api.Secret
}

func (a *fixedAuth) Login(_ context.Context, _ *api.Client) (*api.Secret, error) {
	return a.secret, nil
}

func TestSecrets_Header(t *testing.T) {
	var got http.Header

	hc := fakevault.ProxyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()

		w.WriteHeader(http.StatusNotFound)
	}))

	factory := Secrets("vault.test",
		WithHTTPClient(hc),
		WithAddressFunc(testAddress),
		WithAuthMethod(vaultauth.NewTokenAuth("s.token")),
		WithHeader(http.Header{"X-Custom": []string{"foo"}}),
	)

	s, err := factory("myvault")
	require.NoError(t, err)

	_, err = s.Get(t.Context(), "secret1")
	require.ErrorIs(t, err, vaultbind.ErrNotFound)

	assert.Equal(t, "foo", got.Get("X-Custom"))
	assert.Equal(t, "s.token", got.Get("X-Vault-Token"))
}

func TestSecrets_IDOutsideMount(t *testing.T) {
	var paths []string

	hc := fakevault.ProxyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)

		w.WriteHeader(http.StatusNotFound)
	}))

	factory := Secrets("vault.test",
		WithHTTPClient(hc),
		WithAddressFunc(testAddress),
		WithAuthMethod(vaultauth.NewTokenAuth("s.token")),
	)

	s, err := factory("myvault")
	require.NoError(t, err)

	ctx := t.Context()

	testdata := []struct {
		name string
		id   string
	}{
		{"parent", "../../sys/policy/evil"},
		{"nested parent", "app/../../auth/token/lookup-self"},
		{"trailing parent", "app/.."},
		{"current dir", "./secret1"},
		{"absolute", "/sys/policy/evil"},
	}

	for _, d := range testdata {
		t.Run(d.name, func(t *testing.T) {
			_, err := s.Get(ctx, d.id)

			var verr *vaultbind.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, vaultbind.ErrInvalidItemID)

			err = s.Set(ctx, d.id, "x")
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, vaultbind.ErrInvalidItemID)
		})
	}

	assert.Empty(t, paths)

	// dots inside a segment are fine
	_, err = s.Get(ctx, "app/..db/secret.v1")
	require.ErrorIs(t, err, vaultbind.ErrNotFound)
	assert.Equal(t, []string{"GET /v1/secret/data/app/..db/secret.v1"}, paths)

	// the accessor passes the validation error through untouched
	a := vaultbind.NewAccessor(vaultbind.KindSecret, vaultbind.NewClientCache(factory))
	err = a.SetItem(ctx, "myvault", "../../sys/policy/evil", "x")
	assert.ErrorIs(t, err, vaultbind.ErrInvalidItemID)
	assert.Len(t, paths, 1)
}

func TestSecrets_ThroughAccessor(t *testing.T) {
	kv, factory := setupStore(t)
	kv.Put("mykv", "mysecretid", "value", "hello")

	a := vaultbind.NewAccessor(vaultbind.KindSecret, vaultbind.NewClientCache(factory))
	ctx := t.Context()

	v, err := a.GetItem(ctx, "mykv", "mysecretid")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	require.NoError(t, a.SetItem(ctx, "mykv", "mysecretid", "world"))

	v, err = a.GetItem(ctx, "mykv", "mysecretid")
	require.NoError(t, err)
	assert.Equal(t, "world", v)

	_, err = a.GetItem(ctx, "mykv", "nope")
	assert.ErrorContains(t, err, "get mykv/nope: not found")
}

func TestProvider(t *testing.T) {
	mux := vaultbind.NewMux[string]()
	mux.Add(Provider("vault.test"))

	assert.Equal(t, []string{"hashicorp", "vault"}, mux.Names())
}
