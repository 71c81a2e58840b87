// Package chunk processes, filters, and sorts large collections in
// bounded slices of work, yielding control between slices.
//
// A render loop cannot afford to sort fifty thousand directory entries
// in one frame. Tasks built here expose a Step method that does at most
// one chunk of synchronous work; the caller's scheduler, a Bubble Tea
// command loop, a ticker, or a plain goroutine, decides when the next
// step runs. Progress callbacks fire after every chunk, and cancellation
// is checked at every step boundary, so an abandoned task stops quickly
// and never leaves a half-written result: callers observe either the
// untouched input or a fully consistent output.
package chunk
