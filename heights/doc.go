// Package heights tracks known and estimated row heights for items in an
// ordered collection.
//
// Lists with variable-height rows cannot know an item's real height until
// it has been rendered once. The model answers every lookup with a usable
// value: the measured height when one exists, a configured default
// otherwise. Measurements arrive from the render path via Record, which
// also tells the caller whether the change moved the surrounding content
// enough to need scroll compensation.
//
// Memory is bounded by a retention cap: entries far outside the region the
// user is scrolling through are evicted least-recently-touched first and
// simply re-estimated if the user returns to them.
package heights
