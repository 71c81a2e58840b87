package ui

import tea "github.com/charmbracelet/bubbletea"

// PostMsg carries a deferred function into the Bubble Tea loop. The
// state container's scheduler uses it to run coalesced flushes on the
// next tick, and the resource cache uses it to repaint settled previews.
type PostMsg struct {
	Fn func()
}

// listLoadedMsg reports a finished directory scan.
type listLoadedMsg struct {
	dir string
	err error
}

// sortStepMsg reports one completed chunk of an in-flight sort.
type sortStepMsg struct {
	done bool
	err  error
}

// previewSettledMsg reports that a preview load finished for a key.
type previewSettledMsg struct {
	key string
}

// PreviewSettled builds the message the resource cache's notify hook
// sends when a load settles, so the row can be re-measured.
func PreviewSettled(key string) tea.Msg {
	return previewSettledMsg{key: key}
}
