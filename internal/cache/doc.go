// Package cache provides the tagged cache port used by the permission resolvers.
//
// A Backend stores opaque values under string keys and attaches every entry to a
// set of tags. Invalidating a tag drops every entry that was stored with it.
// Two backends are available:
//   - Memory keeps entries in an expirable LRU inside the process
//   - Redis keeps entries in Redis and one set per tag listing its keys
//
// Cache wraps a Backend and adds compute-on-miss through Remember. Concurrent misses
// on the same key within one process are collapsed into a single computation.
// A failing backend is never fatal: errors are logged and the value is computed
// from the store of record.
//
// Example usage:
//
//	c := cache.New(cache.NewMemory(1024, time.Hour))
//
//	grants, err := cache.Remember(ctx, c, "role-ROLE_EDITOR", []string{"rolePermissionsCache"},
//	    func(ctx context.Context) (map[string][]string, error) {
//	        return loadGrants(ctx, "ROLE_EDITOR")
//	    },
//	)
//
//	// later, after a grant mutation
//	_ = c.InvalidateTags(ctx, "rolePermissionsCache")
package cache
