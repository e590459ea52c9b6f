// Package registry owns client liveness state for the feed server.
//
// Ownership boundary:
// - the authoritative address -> last-seen mapping
// - membership mutation (register/touch/remove/evict)
// - the background reaper that sweeps stale entries
//
// All mutation is serialized behind the registry's own lock; callers
// never observe a partially applied membership change. Broadcast code
// works from Snapshot copies so network sends happen lock-free.
package registry
