// Package env contains functions that retrieve settings from the environment
package env

import (
	"io/fs"
	"os"
	"strings"
)

// GetenvFS retrieves the value of the environment variable named by the key.
// If the variable is unset, but the same variable ending in `_FILE` is set, the
// referenced file (resolved from the given filesystem) will be read into the
// value. Otherwise the provided default (or an empty string) is returned.
func GetenvFS(fsys fs.FS, key string, def ...string) string {
	val, _ := LookupFS(fsys, key)
	if val == "" && len(def) > 0 {
		return def[0]
	}

	return val
}

// LookupFS is like GetenvFS, but reports whether a non-empty value was found,
// either directly or through a `_FILE` reference.
func LookupFS(fsys fs.FS, key string) (string, bool) {
	val := os.Getenv(key)
	if val != "" {
		return val, true
	}

	p := os.Getenv(key + "_FILE")
	if p == "" {
		return "", false
	}

	p = strings.TrimPrefix(p, "/")

	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return "", false
	}

	val = strings.TrimSpace(string(b))

	return val, val != ""
}
