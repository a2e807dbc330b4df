// Package kv provides small string key-value stores used to persist user
// preferences such as the chosen language.
//
// Three implementations share the [Store] interface:
//
//   - [Memory]: process-local map, the default when nothing is persisted
//   - [File]: a JSON document on disk, written atomically
//   - [Redis]: go-redis v9 client with an optional key prefix
//
// Get reports a missing key with [ErrNotFound]:
//
//	v, err := store.Get(ctx, "lang")
//	if errors.Is(err, kv.ErrNotFound) {
//	    // no stored preference
//	}
//
// [Dial] opens a Redis client with connection retries, and [Healthcheck]
// returns a probe suitable for readiness endpoints.
package kv
