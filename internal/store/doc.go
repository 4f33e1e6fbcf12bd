// Package store provides SQLite-backed storage for solver runs.
//
// Each run records the constraint set (canonical JSON and its content hash),
// the outcome and the engine version that produced it. Runs are append-only.
//
// The constraint hash doubles as a cache key: LookupCached returns a
// previous outcome for an identical constraint set when it was produced by
// a compatible engine version.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - user_version: Incremental migrations
package store
