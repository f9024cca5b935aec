package binding

import (
	"io/fs"
	"os"

	"github.com/hairyhenderson/go-vaultbind/internal/env"
)

// Settings resolves application setting names to values.
type Settings interface {
	// Lookup returns the value of the named setting, and whether it is set
	Lookup(name string) (string, bool)
}

// SettingsFunc adapts a function to Settings
type SettingsFunc func(name string) (string, bool)

func (f SettingsFunc) Lookup(name string) (string, bool) {
	return f(name)
}

// MapSettings are fixed settings
type MapSettings map[string]string

func (m MapSettings) Lookup(name string) (string, bool) {
	v, ok := m[name]

	return v, ok
}

// EnvSettings resolves settings from environment variables. A variable may
// instead be given as a file, by setting the same name with a "_FILE" suffix.
func EnvSettings() Settings {
	return envSettings{fsys: os.DirFS("/")}
}

type envSettings struct {
	fsys fs.FS
}

func (s envSettings) Lookup(name string) (string, bool) {
	return env.LookupFS(s.fsys, name)
}
