// Package fsdata is the data-source side of the browser: directory
// listings with stable keys, mounted drive discovery, and the preview
// loader fed to the resource cache.
//
// The engine itself never touches the filesystem; it sees only keys,
// heights, and loader callbacks. Everything filesystem-shaped lives
// here, behind the boundary the engine packages define.
package fsdata
