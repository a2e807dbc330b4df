// Package source retrieves translation bundles for a single (language,
// namespace) pair. It has no knowledge of fallback languages or caching.
//
// Every implementation of [Fetcher] reports exactly one of two failures:
//
//   - [ErrNotFound]: no resource exists for the exact pair
//   - [ErrTransport]: the retrieval mechanism itself failed
//
// Both are wrapped in an [*Error] that records the pair, so callers can use
// errors.Is against the sentinels and errors.As to inspect the details.
//
// # Locating resources
//
// File, HTTP and S3 sources never build resource paths on their own. They ask
// an injected [Locator] where the pair lives. [Manifest] is an explicit lookup
// table; [Layout] implements the conventional {lang}/{namespace}{ext} layout
// for well-formed identifiers only; [ScanFS] builds a Manifest from a
// directory tree.
//
//	//go:embed locales
//	var locales embed.FS
//
//	sub, _ := fs.Sub(locales, "locales")
//	manifest, err := source.ScanFS(sub)
//	fetcher := source.NewFS(sub, manifest.Locate)
//
// # Implementations
//
//   - [Map]: static in-memory documents
//   - [FS]: any fs.FS (embed.FS, os.DirFS, fstest.MapFS)
//   - [HTTP]: remote bundles over HTTP
//   - [S3]: S3-compatible object storage
//   - [Func]: adapter for a plain function
//
// # Decorators
//
// [Instrument] records Prometheus metrics per fetch outcome. [Retry] retries
// transport failures against the same language; it is not applied by default.
package source
