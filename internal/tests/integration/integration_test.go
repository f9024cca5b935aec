// Package integration holds tests which run against real services. Tests are
// skipped when the service's binary isn't installed.
package integration

import (
	"context"
	"net"
	"net/http"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// freeport - find a free TCP port for immediate use. No guarantees!
func freeport(t *testing.T) string {
	t.Helper()

	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)

	defer l.Close()

	return l.Addr().String()
}

// requireBinary skips the test when the named binary isn't on the PATH
func requireBinary(t *testing.T, name string) {
	t.Helper()

	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed: %v", name, err)
	}
}

// waitForURL - waits up to 20s for a given URL to respond with a 200
func waitForURL(ctx context.Context, t *testing.T, url string) error {
	t.Helper()

	client := http.DefaultClient

	var lastErr error

	for retries := 100; retries > 0; retries-- {
		time.Sleep(200 * time.Millisecond)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err

			continue
		}

		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			return nil
		}
	}

	return lastErr
}
