package hcvault

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertVaultError(t *testing.T) {
	assert.NoError(t, convertVaultError(nil))

	err := convertVaultError(fmt.Errorf("wrapped: %w", context.Canceled))
	require.ErrorIs(t, err, context.Canceled)

	var rerr *vaultbind.RemoteError
	assert.False(t, errors.As(err, &rerr))

	testdata := []struct {
		err      error
		name     string
		expected vaultbind.RemoteKind
	}{
		{&api.ResponseError{StatusCode: http.StatusNotFound}, "404", vaultbind.RemoteNotFound},
		{&api.ResponseError{StatusCode: http.StatusForbidden}, "403", vaultbind.RemotePermissionDenied},
		{&api.ResponseError{StatusCode: http.StatusUnauthorized}, "401", vaultbind.RemotePermissionDenied},
		{&api.ResponseError{StatusCode: http.StatusTooManyRequests}, "429", vaultbind.RemoteUnavailable},
		{&api.ResponseError{StatusCode: http.StatusBadGateway}, "502", vaultbind.RemoteUnavailable},
		{&api.ResponseError{StatusCode: http.StatusBadRequest}, "400", vaultbind.RemoteOther},
		{&net.OpError{Op: "dial", Err: errors.New("connection refused")}, "net", vaultbind.RemoteUnavailable},
		{errors.New("boom"), "other", vaultbind.RemoteOther},
	}

	for _, d := range testdata {
		t.Run(d.name, func(t *testing.T) {
			var rerr *vaultbind.RemoteError
			require.ErrorAs(t, convertVaultError(d.err), &rerr)
			assert.Equal(t, d.expected, rerr.Kind)
		})
	}

	err = convertVaultError(&api.ResponseError{
		HTTPMethod: http.MethodGet,
		URL:        "https://myvault.example.com/v1/secret/data/foo",
		StatusCode: http.StatusForbidden,
		Errors:     []string{"permission denied"},
	})
	assert.EqualError(t, err, "permission denied: GET https://myvault.example.com/v1/secret/data/foo"+
		" - 403, details: permission denied")
}
