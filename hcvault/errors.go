package hcvault

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
	"github.com/hashicorp/vault/api"
)

// convertVaultError converts from a vault API error to a *vaultbind.RemoteError,
// preventing Vault API types from leaking. Context errors are returned as-is.
func convertVaultError(err error) error {
	if err == nil || isCancellation(err) {
		return err
	}

	rerr := &api.ResponseError{}
	if errors.As(err, &rerr) {
		errDetails := strings.Join(rerr.Errors, ", ")
		if errDetails != "" {
			errDetails = ", details: " + errDetails
		}

		return vaultbind.NewRemoteError(statusKind(rerr.StatusCode),
			fmt.Errorf("%s %s - %d%s",
				rerr.HTTPMethod,
				rerr.URL,
				rerr.StatusCode,
				errDetails,
			))
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return vaultbind.NewRemoteError(vaultbind.RemoteUnavailable, err)
	}

	return vaultbind.NewRemoteError(vaultbind.RemoteOther, err)
}

func statusKind(code int) vaultbind.RemoteKind {
	switch {
	case code == http.StatusNotFound:
		return vaultbind.RemoteNotFound
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return vaultbind.RemotePermissionDenied
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return vaultbind.RemoteUnavailable
	default:
		return vaultbind.RemoteOther
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
