// Package app assembles the engine packages and the terminal UI into a
// runnable program.
package app
