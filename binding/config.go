package binding

import (
	"fmt"
	"strings"

	vaultbind "github.com/hairyhenderson/go-vaultbind"
)

// DefaultResourceNameSetting is the setting holding the vault resource name,
// when a Config doesn't name one.
const DefaultResourceNameSetting = "VaultResourceName"

// Config declares a binding. It is comparable, and is used as the key for
// memoised validation.
type Config struct {
	// ResourceNameSetting names the setting holding the vault resource name.
	// Defaults to DefaultResourceNameSetting.
	ResourceNameSetting string

	// ItemIDSetting names the setting holding the item id. Required.
	ItemIDSetting string

	Operation vaultbind.Operation
}

func (c Config) withDefaults() Config {
	if c.ResourceNameSetting == "" {
		c.ResourceNameSetting = DefaultResourceNameSetting
	}

	return c
}

// Reference is a binding's resolved target.
type Reference struct {
	ResourceName string
	ItemID       string
}

func (r Reference) String() string {
	return r.ResourceName + "/" + r.ItemID
}

// Extension names one of the bindings, as registered with a host.
type Extension string

const (
	// SecretExtension is the binding for secrets, which supports input and
	// output.
	SecretExtension Extension = "VaultSecret"
	// KeyExtension is the binding for keys, which supports input only.
	KeyExtension Extension = "VaultKey"
)

// Extensions returns every binding extension.
func Extensions() []Extension {
	return []Extension{SecretExtension, KeyExtension}
}

// ParseExtension looks up an extension by name, case-insensitively.
func ParseExtension(name string) (Extension, error) {
	for _, e := range Extensions() {
		if strings.EqualFold(name, string(e)) {
			return e, nil
		}
	}

	return "", fmt.Errorf("unknown binding extension %q", name)
}

// Kind returns the kind of item the extension binds to.
func (e Extension) Kind() vaultbind.ItemKind {
	if e == KeyExtension {
		return vaultbind.KindKey
	}

	return vaultbind.KindSecret
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
