// Package rescache caches asynchronously loaded auxiliary resources,
// such as thumbnails or computed metadata, under a byte budget.
//
// # Contract
//
// Request never blocks: it answers with what the cache knows right now
// (pending, ready, failed) and starts a load only when the key is absent
// or a previous failure has cooled down. At most one load is ever in
// flight per key; concurrent requesters share it and all observe the
// same settled resource.
//
// # Eviction
//
// Settled entries are charged their approximate byte size against the
// budget. When the budget is exceeded, entries are removed least
// recently accessed first, ties broken largest first. Pending entries
// are never evicted, and a replaced or invalidated slot ignores the late
// completion of its old load, so a slot is only ever swapped atomically.
//
// # Failure policy
//
// A failed load is itself cached, with a cooldown that stops the cache
// from hammering a consistently failing loader. Failures stay local to
// their key: the rest of the window renders normally around them.
//
// The cache is owned by whichever view scope created it and is passed to
// collaborators explicitly. One cache can feed several lists without any
// global registry.
package rescache
