// Package window computes which slice of an ordered collection a list
// must materialize for a given scroll position.
//
// The calculator pairs a key sequence with the heights model and keeps a
// Fenwick tree of cumulative extents. Height corrections apply as point
// deltas, and finding the first and last visible indices is a prefix
// search, so the cost of a window computation scales with the window and
// the log of the collection, never with the collection itself. That is
// what lets a browser scroll a directory of tens of thousands of entries
// without re-walking them every frame.
package window
