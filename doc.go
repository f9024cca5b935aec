// Package vaultbind contains the shared core of the vault bindings: a keyed
// client cache with lazy, validated, at-most-once-per-key client construction,
// and a uniform get/set accessor for items stored in a remote key vault.
//
// Back-ends live in sub-packages ([github.com/hairyhenderson/go-vaultbind/azkv],
// [github.com/hairyhenderson/go-vaultbind/hcvault],
// [github.com/hairyhenderson/go-vaultbind/memkv]), and are plugged in as a
// [ClientFactory]. The declarative binding layer is in
// [github.com/hairyhenderson/go-vaultbind/binding].
//
// # Lifetime
//
// A [ClientCache] holds one client per resource name for as long as the cache
// itself lives, which in practice is the lifetime of the process. Entries are
// never evicted or replaced, so a rotated credential is only picked up by a
// new cache (i.e. a restart).
//
// # Ordering
//
// Concurrent writes to the same item are not serialized. Whichever write the
// vault service applies last wins.
package vaultbind
