// Package binding adapts vault accessors to declarative bindings, as used by
// a function host.
//
// A binding is declared with a [Config] naming the application settings that
// hold the vault resource name and the item id. A [Binder] validates each
// distinct Config once, then reads items for input bindings and buffers
// writes for output bindings:
//
//	cache := vaultbind.NewClientCache(azkv.Secrets())
//	b := binding.NewBinder(vaultbind.NewAccessor(vaultbind.KindSecret, cache),
//		binding.EnvSettings())
//
//	value, err := b.Input(ctx, binding.Config{ItemIDSetting: "DBPasswordSecret"})
//
// Item values are never logged.
package binding
