// Package ui implements the terminal file browser built on Bubble Tea.
//
// The browser renders only the rows inside the window computed from the
// current scroll offset, records measured row heights in the height
// model, loads previews through the resource cache, and receives
// collection updates through the versioned state container.
package ui
