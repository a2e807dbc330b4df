// Package internal implements the loader behind the polyglot package.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/polyglot" instead, which re-exports the public API.
//
// A Loader wires three parts together:
//
//   - langpref.Store owns the active language and its persistence
//   - fallback.Resolver performs the single hop to the fallback language
//   - nscache.Cache memoizes resolved bundles per (language, namespace)
//
// Language changes evict the previous language from the cache and preload
// the configured namespaces of the new one in the background.
package internal
