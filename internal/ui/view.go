package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/slatview/slat/rescache"

	"github.com/slatview/slat/internal/fsdata"
)

const (
	sizeColWidth = 10
	timeColWidth = 12
)

// View implements tea.Model. Only rows inside the computed window are
// rendered; everything above and below the viewport costs nothing.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	vp := m.listHeight()
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	var lines []string
	switch {
	case m.showHelp:
		lines = m.renderHelp(vp)
	case m.showDrives:
		lines = m.renderDrives(vp)
	default:
		lines = m.renderList(vp)
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}

	if m.filtering {
		b.WriteString(m.styles.Accent.Render("/ "))
		b.WriteString(m.filterInput.View())
		b.WriteByte('\n')
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// listHeight is the number of terminal rows available to the list.
func (m *Model) listHeight() int {
	h := m.height - 2 // header and footer
	if m.filtering {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) renderHeader() string {
	dir := m.dir
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(dir, home) {
		dir = "~" + strings.TrimPrefix(dir, home)
	}

	order := "↑"
	if m.prefs.SortDesc {
		order = "↓"
	}
	parts := []string{
		m.styles.Header.Render(" slat"),
		m.styles.Row.Render(truncateName(dir, m.width/2)),
		m.styles.Muted.Render(fmt.Sprintf("sort:%s%s", m.prefs.SortBy, order)),
	}
	if m.filterQuery != "" {
		parts = append(parts, m.styles.Accent.Render("filter:"+m.filterQuery))
	}
	if m.scanning || m.sortTask != nil {
		parts = append(parts, m.spin.View())
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderFooter() string {
	if m.lastErr != nil {
		return m.styles.Danger.Render(" " + truncateName(m.lastErr.Error(), m.width-1))
	}

	left := m.status
	if m.sortTask != nil && m.progress.Total > 0 {
		left = fmt.Sprintf("sorting %d%%", 100*m.progress.Done/m.progress.Total)
	}
	hint := "? help  q quit"

	gap := m.width - len(left) - len(hint) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.Footer.Render(" " + left + spaces(gap) + hint)
}

// renderList materializes the visible window into exactly vp lines.
func (m *Model) renderList(vp int) []string {
	if len(m.entries) == 0 {
		lines := make([]string, vp)
		msg := "empty directory"
		if m.filterQuery != "" {
			msg = "no matches for " + m.filterQuery
		}
		lines[0] = m.styles.Muted.Render("  " + msg)
		return lines
	}

	w := m.calc.Compute(m.scroll, vp, m.cfg.Overscan)
	if w.Empty() {
		return make([]string, vp)
	}

	now := time.Now()
	var lines []string
	for i := w.First; i <= w.Last; i++ {
		lines = append(lines, m.renderRow(i, now)...)
	}

	// Drop the lines of overscan rows and the clipped part of the first
	// visible row, then cut to the viewport.
	skip := m.scroll - m.calc.OffsetOf(w.First)
	skip = clamp(skip, 0, len(lines))
	lines = lines[skip:]
	if len(lines) > vp {
		lines = lines[:vp]
	}
	for len(lines) < vp {
		lines = append(lines, "")
	}
	return lines
}

// renderRow emits exactly the number of lines the height model records
// for this row; the window math depends on that agreement.
func (m *Model) renderRow(i int, now time.Time) []string {
	e := m.entries[i]
	selected := i == m.cursor

	nameWidth := m.width - sizeColWidth - timeColWidth - 4
	if nameWidth < 4 {
		nameWidth = 4
	}

	name := e.Name
	size := "-"
	if e.IsDir {
		name += "/"
	} else {
		size = formatBytes(e.Size)
	}

	row := fmt.Sprintf(" %s %s %s",
		padRight(name, nameWidth),
		padLeft(size, sizeColWidth),
		padLeft(humanizeModTime(e.ModTime, now), timeColWidth),
	)

	style := m.styles.Row
	if e.IsDir {
		style = m.styles.RowDir
	}
	if selected {
		style = m.styles.Selected
	}
	lines := []string{style.Render(padRight(row, m.width))}

	if !m.expanded[e.Key] {
		return lines
	}
	return append(lines, m.renderPreview(e.Key)...)
}

func (m *Model) renderPreview(key string) []string {
	v, status, err := m.cache.Get(key)
	switch status {
	case rescache.StatusPending:
		return []string{m.styles.Faint.Render("   ⋯ loading preview")}
	case rescache.StatusReady:
		p, ok := v.(fsdata.Preview)
		if !ok {
			return []string{m.styles.Faint.Render("   preview unavailable")}
		}
		lines := make([]string, 0, 1+len(p.Lines))
		label := fmt.Sprintf("   %s  %s", p.ContentType, formatBytes(p.FileSize))
		if p.Truncated {
			label += "  (truncated)"
		}
		lines = append(lines, m.styles.Muted.Render(truncateName(label, m.width)))
		for _, l := range p.Lines {
			lines = append(lines, m.styles.Preview.Render(truncateName("   │ "+l, m.width)))
		}
		return lines
	default:
		msg := "   preview unavailable"
		if err != nil {
			msg = truncateName("   preview failed: "+err.Error(), m.width)
		}
		return []string{m.styles.Warning.Render(msg)}
	}
}

func (m *Model) renderDrives(vp int) []string {
	lines := make([]string, 0, vp)
	lines = append(lines, m.styles.HelpTitle.Render("  Drives"))
	for i, d := range m.drives {
		row := fmt.Sprintf("  %s  %s  %s",
			padRight(d.MountPoint, m.width/2),
			padRight(d.Device, m.width/4),
			d.FSType,
		)
		if i == m.driveCursor {
			lines = append(lines, m.styles.Selected.Render(padRight(row, m.width)))
		} else {
			lines = append(lines, m.styles.Row.Render(row))
		}
		if len(lines) >= vp {
			break
		}
	}
	for len(lines) < vp {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) renderHelp(vp int) []string {
	k := m.keys
	bindings := []key.Binding{
		k.Up, k.Down, k.Top, k.Bottom,
		k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown,
		k.Open, k.Parent, k.Preview, k.ToggleHidden,
		k.CycleSort, k.ReverseSort, k.Refresh, k.Filter,
		k.Drives, k.CycleTheme, k.Help, k.Quit,
	}

	lines := make([]string, 0, vp)
	lines = append(lines, m.styles.HelpTitle.Render("  Keys"))
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %s %s",
			m.styles.HelpKey.Render(padRight(h.Key, 10)),
			m.styles.Row.Render(h.Desc),
		))
		if len(lines) >= vp {
			break
		}
	}
	for len(lines) < vp {
		lines = append(lines, "")
	}
	return lines
}

func padLeft(s string, width int) string {
	s = truncateName(s, width)
	return spaces(width-len(s)) + s
}
