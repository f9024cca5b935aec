package azkv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

// convertAzureError converts from an Azure SDK error to the appropriate
// vaultbind error, preventing SDK types from leaking. Context errors are
// returned as-is.
func convertAzureError(err error) error {
	if err == nil || isCancellation(err) {
		return err
	}

	var aerr *vaultbind.AuthError
	if errors.As(err, &aerr) {
		return aerr
	}

	var authFailed *azidentity.AuthenticationFailedError
	if errors.As(err, &authFailed) {
		return &vaultbind.AuthError{Err: err}
	}

	var rerr *azcore.ResponseError
	if errors.As(err, &rerr) {
		return vaultbind.NewRemoteError(statusKind(rerr.StatusCode), responseErr(rerr))
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return vaultbind.NewRemoteError(vaultbind.RemoteUnavailable, err)
	}

	return vaultbind.NewRemoteError(vaultbind.RemoteOther, err)
}

func responseErr(rerr *azcore.ResponseError) error {
	code := rerr.ErrorCode
	if code == "" {
		code = http.StatusText(rerr.StatusCode)
	}

	if rerr.RawResponse != nil && rerr.RawResponse.Request != nil {
		req := rerr.RawResponse.Request

		return fmt.Errorf("%s %s - %d %s", req.Method, req.URL.Redacted(), rerr.StatusCode, code)
	}

	return fmt.Errorf("%d %s", rerr.StatusCode, code)
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
