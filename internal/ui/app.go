package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/slatview/slat/chunk"
	"github.com/slatview/slat/heights"
	"github.com/slatview/slat/internal/config"
	"github.com/slatview/slat/internal/fsdata"
	"github.com/slatview/slat/internal/prefs"
	"github.com/slatview/slat/rescache"
	"github.com/slatview/slat/store"
	"github.com/slatview/slat/window"
)

// Store property names shared between producers and the UI subscriber.
const (
	propEntries  = "entries"
	propProgress = "progress"
	propStatus   = "status"
)

// progressPair is the payload published under propProgress.
type progressPair struct {
	Done, Total int
}

// Options configures the UI.
type Options struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	StartDir  string

	Heights *heights.Model
	Cache   *rescache.Cache
	Store   *store.Store
	Logger  zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	log       zerolog.Logger

	keys   keyMap
	theme  Theme
	styles Styles

	width  int
	height int
	ready  bool

	// Collection state
	dir     string
	all     []fsdata.Entry // unfiltered, sorted
	entries []fsdata.Entry // displayed (filter applied)
	indexOf map[string]int

	// Engine
	hm    *heights.Model
	calc  *window.Calculator
	cache *rescache.Cache
	st    *store.Store

	// Viewport state
	scroll   int
	cursor   int
	expanded map[string]bool

	// Sorting
	sortTask   *chunk.SortTask[fsdata.Entry]
	sortCtx    context.Context
	sortCancel context.CancelFunc
	progress   progressPair

	// Filter
	filterInput textinput.Model
	filtering   bool
	filterQuery string

	// Drive list overlay
	showDrives  bool
	drives      []fsdata.Drive
	driveCursor int

	showHelp bool
	scanning bool
	status   string
	lastErr  error

	spin spinner.Model
}

// New creates the browser model and wires it to the engine instances the
// app owns.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "filter by name"
	input.CharLimit = 128

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	theme := getTheme(opts.Prefs.Theme)
	m := &Model{
		cfg:       opts.Config,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		log:       opts.Logger,
		keys:      defaultKeyMap(),
		theme:     theme,
		styles:    theme.Styles(),
		dir:       opts.StartDir,
		indexOf:   map[string]int{},
		hm:        opts.Heights,
		calc:      window.New(opts.Heights),
		cache:     opts.Cache,
		st:        opts.Store,
		expanded:  map[string]bool{},

		filterInput: input,
		spin:        spin,
	}

	// The subscriber runs during Flush, which the scheduler delivers on
	// the Bubble Tea goroutine, so it may mutate the model directly.
	m.st.Subscribe([]string{propEntries}, func(snap store.Snapshot, _ []string) {
		if v, ok := snap.Get(propEntries); ok {
			m.setCollection(v.([]fsdata.Entry))
		}
	})
	m.st.Subscribe([]string{propProgress}, func(snap store.Snapshot, _ []string) {
		if v, ok := snap.Get(propProgress); ok {
			m.progress = v.(progressPair)
		}
	})
	m.st.Subscribe([]string{propStatus}, func(snap store.Snapshot, _ []string) {
		if v, ok := snap.Get(propStatus); ok {
			m.status = v.(string)
		}
	})

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadDirCmd(m.dir), m.spin.Tick)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampViewport()
		return m, nil

	case PostMsg:
		msg.Fn()
		m.clampViewport()
		return m, nil

	case listLoadedMsg:
		m.scanning = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.log.Error().Str("dir", msg.dir).Err(msg.err).Msg("directory scan failed")
			return m, nil
		}
		m.lastErr = nil
		m.dir = msg.dir
		m.scroll = 0
		m.cursor = 0
		return m, nil

	case sortStepMsg:
		return m, m.continueSort(msg)

	case previewSettledMsg:
		m.onPreviewSettled(msg.key)
		return m, nil

	case spinner.TickMsg:
		if !m.scanning && m.sortTask == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.showDrives:
			m.showDrives = false
		case m.filterQuery != "":
			m.filterQuery = ""
			m.applyFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = nextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.prefs.Theme = m.theme.Name
		return m, nil
	}

	if m.showDrives {
		return m.handleDrivesKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.scroll = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = clamp(len(m.entries)-1, 0, len(m.entries))
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.PageUp):
		m.movePage(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.movePage(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveHalfPage(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveHalfPage(1)

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()
	case key.Matches(msg, m.keys.Parent):
		return m, m.openDir(filepath.Dir(m.dir))
	case key.Matches(msg, m.keys.Preview):
		m.togglePreview()
	case key.Matches(msg, m.keys.ToggleHidden):
		m.prefs.ShowHidden = !m.prefs.ShowHidden
		return m, m.openDir(m.dir)
	case key.Matches(msg, m.keys.CycleSort):
		m.prefs.SortBy = nextSortField(m.prefs.SortBy)
		return m, m.startSort()
	case key.Matches(msg, m.keys.ReverseSort):
		m.prefs.SortDesc = !m.prefs.SortDesc
		return m, m.startSort()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.openDir(m.dir)
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filterInput.SetValue(m.filterQuery)
		m.filterInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Drives):
		m.showDrives = true
		m.drives = fsdata.Drives()
		m.driveCursor = 0
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.filtering = false
		m.filterInput.Blur()
		m.filterQuery = m.filterInput.Value()
		m.applyFilter()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) handleDrivesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.driveCursor = clamp(m.driveCursor-1, 0, len(m.drives)-1)
	case key.Matches(msg, m.keys.Down):
		m.driveCursor = clamp(m.driveCursor+1, 0, len(m.drives)-1)
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Open):
		if m.driveCursor >= 0 && m.driveCursor < len(m.drives) {
			m.showDrives = false
			return m, m.openDir(m.drives[m.driveCursor].MountPoint)
		}
	case key.Matches(msg, m.keys.Drives):
		m.showDrives = false
	}
	return m, nil
}

// setCollection installs a freshly loaded or sorted collection and
// rebinds the window calculator to its keys.
func (m *Model) setCollection(entries []fsdata.Entry) {
	m.all = entries
	m.applyFilter()
}

func (m *Model) applyFilter() {
	if m.filterQuery == "" {
		m.entries = m.all
	} else {
		query := m.filterQuery
		task, out, err := chunk.Filter(m.all, func(e fsdata.Entry) bool {
			return containsFold(e.Name, query)
		}, chunk.Options{ChunkSize: m.cfg.ChunkSize})
		if err != nil {
			m.lastErr = err
			return
		}
		// Filtering stays chunked for consistency with sorts, but a
		// rebind needs the result now, so drain without yielding.
		if err := task.Run(context.Background(), nil); err != nil {
			m.lastErr = err
			return
		}
		m.entries = *out
	}
	m.rebind()
}

func (m *Model) rebind() {
	m.calc.Bind(fsdata.Keys(m.entries))
	m.indexOf = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.indexOf[e.Key] = i
	}
	for i, e := range m.entries {
		if m.expanded[e.Key] {
			m.calc.Record(i, m.rowHeight(e.Key))
		}
	}
	m.clampViewport()
}

func (m *Model) clampViewport() {
	if len(m.entries) == 0 {
		m.cursor = 0
		m.scroll = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(m.entries)-1)
	m.scroll = m.calc.ClampScroll(m.scroll, m.listHeight())
}

// openSelected opens a directory or toggles a file preview.
func (m *Model) openSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	e := m.entries[m.cursor]
	if e.IsDir {
		return m.openDir(e.Key)
	}
	m.togglePreview()
	return nil
}

func (m *Model) openDir(dir string) tea.Cmd {
	m.cancelSort()
	m.scanning = true
	m.filterQuery = ""
	m.expanded = map[string]bool{}
	return tea.Batch(m.loadDirCmd(dir), m.spin.Tick)
}

// loadDirCmd scans a directory off the render loop. The result lands in
// the state container; the returned message only reports completion.
func (m *Model) loadDirCmd(dir string) tea.Cmd {
	st := m.st
	showHidden := m.prefs.ShowHidden
	less := fsdata.Less(m.prefs.SortBy, m.prefs.SortDesc)
	chunkSize := m.cfg.ChunkSize

	return func() tea.Msg {
		entries, err := fsdata.List(context.Background(), dir, showHidden)
		if err != nil {
			return listLoadedMsg{dir: dir, err: err}
		}
		task, err := chunk.Sort(entries, less, chunk.Options{ChunkSize: chunkSize})
		if err != nil {
			return listLoadedMsg{dir: dir, err: err}
		}
		if err := task.Run(context.Background(), nil); err != nil {
			return listLoadedMsg{dir: dir, err: err}
		}
		sorted, _ := task.Result()

		st.Update(map[string]any{
			propEntries: sorted,
			propStatus:  fmt.Sprintf("%d items", len(sorted)),
		})
		return listLoadedMsg{dir: dir}
	}
}

// startSort re-sorts the current collection cooperatively: one chunk per
// command cycle, with progress published through the state container.
func (m *Model) startSort() tea.Cmd {
	m.cancelSort()
	if len(m.all) == 0 {
		return nil
	}

	st := m.st
	task, err := chunk.Sort(m.all, fsdata.Less(m.prefs.SortBy, m.prefs.SortDesc), chunk.Options{
		ChunkSize: m.cfg.ChunkSize,
		OnProgress: func(done, total int) {
			st.Update(map[string]any{propProgress: progressPair{Done: done, Total: total}})
		},
	})
	if err != nil {
		m.lastErr = err
		return nil
	}

	m.sortTask = task
	m.sortCtx, m.sortCancel = context.WithCancel(context.Background())
	return tea.Batch(m.stepSortCmd(), m.spin.Tick)
}

func (m *Model) stepSortCmd() tea.Cmd {
	task, ctx := m.sortTask, m.sortCtx
	return func() tea.Msg {
		done, err := task.Step(ctx)
		return sortStepMsg{done: done, err: err}
	}
}

func (m *Model) continueSort(msg sortStepMsg) tea.Cmd {
	if m.sortTask == nil {
		return nil
	}
	if msg.err != nil {
		// Cancelled between chunks; the collection is untouched.
		m.sortTask = nil
		return nil
	}
	if !msg.done {
		return m.stepSortCmd()
	}

	sorted, ok := m.sortTask.Result()
	m.sortTask = nil
	m.sortCancel = nil
	if ok {
		m.st.Update(map[string]any{
			propEntries: sorted,
			propStatus:  fmt.Sprintf("sorted by %s", m.prefs.SortBy),
		})
	}
	return nil
}

func (m *Model) cancelSort() {
	if m.sortCancel != nil {
		m.sortCancel()
		m.sortCancel = nil
	}
	m.sortTask = nil
}

// togglePreview expands or collapses the preview block under the
// selected file and records the resulting row height.
func (m *Model) togglePreview() {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return
	}
	e := m.entries[m.cursor]
	if e.IsDir {
		return
	}

	if m.expanded[e.Key] {
		delete(m.expanded, e.Key)
	} else {
		m.expanded[e.Key] = true
		m.cache.Request(e.Key, fsdata.PreviewLoader(e.Key))
	}
	m.calc.Record(m.cursor, m.rowHeight(e.Key))
	m.ensureCursorVisible()
}

// onPreviewSettled folds a finished preview load back into the height
// model and compensates the scroll position when the growth happened
// above the viewport.
func (m *Model) onPreviewSettled(key string) {
	i, ok := m.indexOf[key]
	if !ok || !m.expanded[key] {
		return
	}
	delta, compensate := m.calc.Record(i, m.rowHeight(key))
	if compensate && m.calc.OffsetOf(i) < m.scroll {
		m.scroll = m.calc.ClampScroll(m.scroll+delta, m.listHeight())
	}
}

// rowHeight computes the display height for a row from cache state; the
// renderer must emit exactly this many lines.
func (m *Model) rowHeight(key string) int {
	if !m.expanded[key] {
		return 1
	}
	v, status, _ := m.cache.Get(key)
	if status != rescache.StatusReady {
		return 2 // row + placeholder line
	}
	p, ok := v.(fsdata.Preview)
	if !ok {
		return 2
	}
	return 2 + len(p.Lines) // row + content type + head lines
}

func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.entries)-1)
	m.ensureCursorVisible()
}

func (m *Model) movePage(dir int) {
	vp := m.listHeight()
	target := m.calc.OffsetOf(m.cursor) + dir*vp
	w := m.calc.Compute(clamp(target, 0, m.calc.TotalExtent()), 1, 0)
	if !w.Empty() {
		m.cursor = w.First
	}
	m.ensureCursorVisible()
}

func (m *Model) moveHalfPage(dir int) {
	vp := m.listHeight() / 2
	if vp < 1 {
		vp = 1
	}
	target := m.calc.OffsetOf(m.cursor) + dir*vp
	w := m.calc.Compute(clamp(target, 0, m.calc.TotalExtent()), 1, 0)
	if !w.Empty() {
		m.cursor = w.First
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	if len(m.entries) == 0 {
		return
	}
	vp := m.listHeight()
	top := m.calc.OffsetOf(m.cursor)
	bottom := top + m.hm.Height(m.entries[m.cursor].Key)

	if top < m.scroll {
		m.scroll = top
	} else if bottom > m.scroll+vp {
		m.scroll = bottom - vp
	}
	m.scroll = m.calc.ClampScroll(m.scroll, vp)
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Msg("failed to save preferences")
	}
}

func nextSortField(field string) string {
	switch field {
	case "name":
		return "size"
	case "size":
		return "modified"
	default:
		return "name"
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
