// Package cache provides a file-based cache for LLM summary responses.
//
// Keys combine the provider, model, neighborhood, and a hash of the
// (already redacted) prompt, so a rerun over an unchanged thread costs no
// provider calls. Each entry is a small JSON file named after the SHA-256 of
// its key, holding the raw response, its creation time, and the TTL in
// seconds. Expired entries are skipped on read and removed by Prune.
//
// The default directory is $XDG_CACHE_HOME/hoodscan (or the OS-appropriate
// equivalent).
package cache
