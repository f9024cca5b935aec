// Package fakevault is an in-memory stand-in for the Vault HTTP API, serving
// the KV version 2 secret engine (mounted at "secret") and the AppRole and
// userpass login endpoints. Each request's host selects the vault instance, so
// one server can stand in for many vault resources.
package fakevault

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	// LoginToken is the client token handed out by the login endpoints
	LoginToken = "fakevault-login-token"

	dataPrefix = "/v1/secret/data/"
)

// KV holds the secrets of every fake vault instance, keyed by instance name
// (the first label of the request host), then by secret path.
type KV struct {
	secrets  map[string]map[string]map[string]any
	versions map[string]int
	mu       sync.Mutex

	// Requests counts every request to the KV engine
	Requests atomic.Int64
	// Logins counts successful logins
	Logins atomic.Int64
}

// Put seeds a secret with a single field
func (kv *KV) Put(instance, path, field, value string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.secrets[instance] == nil {
		kv.secrets[instance] = map[string]map[string]any{}
	}

	kv.secrets[instance][path] = map[string]any{field: value}
}

// Data returns a copy of the data stored at path, or nil
func (kv *KV) Data(instance, path string) map[string]any {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	d, ok := kv.secrets[instance][path]
	if !ok {
		return nil
	}

	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}

	return out
}

func instanceName(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	name, _, _ := strings.Cut(host, ".")

	return name
}

func writeErrors(w http.ResponseWriter, status int, msgs ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if len(msgs) == 0 {
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"errors": msgs})
}

func (kv *KV) loginHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	defer r.Body.Close()

	if len(body) == 0 {
		writeErrors(w, http.StatusBadRequest, "missing credentials")

		return
	}

	kv.Logins.Add(1)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"auth": map[string]any{"client_token": LoginToken},
	})
}

//nolint:gocyclo
func (kv *KV) dataHandler(w http.ResponseWriter, r *http.Request) {
	kv.Requests.Add(1)

	if r.Header.Get("X-Vault-Token") == "" {
		writeErrors(w, http.StatusForbidden, "permission denied")

		return
	}

	instance := instanceName(r)
	p := strings.TrimPrefix(r.URL.Path, dataPrefix)

	kv.mu.Lock()
	defer kv.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		data, ok := kv.secrets[instance][p]
		if !ok {
			// like Vault, a missing secret is a 404 with no body
			writeErrors(w, http.StatusNotFound)

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": kv.metadata(instance, p),
			},
		})
	case http.MethodPut, http.MethodPost:
		body := struct {
			Data map[string]any `json:"data"`
		}{}

		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil || body.Data == nil {
			writeErrors(w, http.StatusBadRequest, "no data provided")

			return
		}

		defer r.Body.Close()

		if kv.secrets[instance] == nil {
			kv.secrets[instance] = map[string]map[string]any{}
		}

		kv.secrets[instance][p] = body.Data
		kv.versions[instance+"/"+p]++

		_ = json.NewEncoder(w).Encode(map[string]any{"data": kv.metadata(instance, p)})
	default:
		writeErrors(w, http.StatusMethodNotAllowed, "unsupported operation")
	}
}

func (kv *KV) metadata(instance, p string) map[string]any {
	return map[string]any{
		"created_time":  time.Now().UTC().Format(time.RFC3339Nano),
		"deletion_time": "",
		"destroyed":     false,
		"version":       kv.versions[instance+"/"+p],
	}
}

func newKV() (*KV, http.Handler) {
	kv := &KV{
		secrets:  map[string]map[string]map[string]any{},
		versions: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/approle/login", kv.loginHandler)
	mux.HandleFunc("/v1/auth/userpass/login/", kv.loginHandler)
	mux.HandleFunc(dataPrefix, kv.dataHandler)

	return kv, mux
}

// Server starts a fake Vault server, and returns the KV engine backing it along
// with an *http.Client which routes all requests (for any host) to it. Use
// plain "http://" addresses with the client.
func Server(t *testing.T) (*KV, *http.Client) {
	t.Helper()

	kv, handler := newKV()

	return kv, ProxyClient(t, handler)
}

// Listen starts a fake Vault server reachable with any HTTP client, and returns
// the KV engine backing it along with its address. The address uses the host
// "localhost", so secrets must be seeded for the instance "localhost".
func Listen(t *testing.T) (*KV, string) {
	t.Helper()

	kv, handler := newKV()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return kv, strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)
}

// ProxyClient starts a server for handler and returns an *http.Client that
// sends every request to it, regardless of the requested host.
func ProxyClient(t *testing.T, handler http.Handler) *http.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr := &http.Transport{
		Proxy: func(_ *http.Request) (*url.URL, error) {
			return url.Parse(srv.URL)
		},
	}

	return &http.Client{Transport: tr}
}
