package vaultauth

import (
	"io/fs"
	"os"

	"github.com/hairyhenderson/go-vaultbind/internal/env"
	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/hashicorp/vault/api/auth/userpass"
)

// EnvAuthMethod configures the auth method based on environment variables. It
// will attempt to authenticate with the following methods, in order of
// precedence:
//
// # approle
//
// The [github.com/hashicorp/vault/api/auth/approle.NewAppRoleAuth] is called,
// using the roleID from $VAULT_ROLE_ID and the secretID from $VAULT_SECRET_ID.
// The default mount path can be overridden with $VAULT_AUTH_APPROLE_MOUNT.
//
// # userpass
//
// The [github.com/hashicorp/vault/api/auth/userpass.NewUserpassAuth] is called,
// using the username from $VAULT_AUTH_USERNAME and the password from
// $VAULT_AUTH_PASSWORD. The default mount path can be overridden with
// $VAULT_AUTH_USERPASS_MOUNT.
//
// # token
//
// The [NewTokenAuth] is called, using the token from $VAULT_TOKEN, or the
// token contained in $HOME/.vault-token.
//
// Every variable may instead be given as a file, by setting the same name with
// a "_FILE" suffix.
func EnvAuthMethod() api.AuthMethod {
	fsys := os.DirFS("/")

	return CompositeAuthMethod(
		envAppRoleAdapter(fsys),
		envUserPassAdapter(fsys),
		NewTokenAuth(""),
	)
}

// envAppRoleAdapter builds an AppRoleAuth from environment variables, for use
// only with [EnvAuthMethod]
func envAppRoleAdapter(fsys fs.FS) api.AuthMethod {
	roleID := env.GetenvFS(fsys, "VAULT_ROLE_ID")
	if roleID == "" {
		return nil
	}

	secretID := &approle.SecretID{FromString: env.GetenvFS(fsys, "VAULT_SECRET_ID")}

	var opts []approle.LoginOption

	if mountPath := env.GetenvFS(fsys, "VAULT_AUTH_APPROLE_MOUNT"); mountPath != "" {
		opts = []approle.LoginOption{approle.WithMountPath(mountPath)}
	}

	a, err := approle.NewAppRoleAuth(roleID, secretID, opts...)
	if err != nil {
		return nil
	}

	return a
}

// envUserPassAdapter builds a UserPassAuth from environment variables, for use
// only with [EnvAuthMethod]
func envUserPassAdapter(fsys fs.FS) api.AuthMethod {
	username := env.GetenvFS(fsys, "VAULT_AUTH_USERNAME")
	if username == "" {
		return nil
	}

	password := &userpass.Password{FromString: env.GetenvFS(fsys, "VAULT_AUTH_PASSWORD")}

	var opts []userpass.LoginOption

	if mountPath := env.GetenvFS(fsys, "VAULT_AUTH_USERPASS_MOUNT"); mountPath != "" {
		opts = []userpass.LoginOption{userpass.WithMountPath(mountPath)}
	}

	a, err := userpass.NewUserpassAuth(username, password, opts...)
	if err != nil {
		return nil
	}

	return a
}
