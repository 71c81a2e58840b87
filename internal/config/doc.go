// Package config loads slat's engine tuning from a TOML file.
//
// A missing file yields the built-in defaults; a present file overrides
// only the keys it sets. Values the engine cannot run with, like a zero
// cache budget or a chunk size below one, fail loading outright rather
// than surfacing later as broken rendering.
package config
