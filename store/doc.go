// Package store holds a versioned, partially updatable state snapshot
// and notifies only the subscribers whose observed slice changed.
//
// The container replaces the "rebuild everything on notify" model with
// explicit, property-scoped subscription: a subscriber names the
// properties it renders from, and a published batch reaches it only when
// one of those properties is in the batch. Updates applied within one
// scheduler tick coalesce into a single version, last value wins per
// property, which keeps a chunked loader's burst of progress updates
// from triggering a render per chunk.
//
// Published versions are strictly increasing and a subscriber never
// observes a property value older than the latest update that included
// it. Snapshots are immutable once published; readers can hold one
// across frames without copying.
package store
