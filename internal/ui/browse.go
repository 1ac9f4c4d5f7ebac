package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/xmldoc/internal/extractor"
	"github.com/gubarz/xmldoc/internal/render"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Entry Item
// ============================================================================

// entryItem wraps an extracted entry with its rendered text
type entryItem struct {
	entry    *extractor.Entry
	rendered string
	search   string // lowercased method name and body
}

func newEntryItem(e *extractor.Entry, rendered string) entryItem {
	return entryItem{
		entry:    e,
		rendered: rendered,
		search:   strings.ToLower(e.Method + "\n" + rendered),
	}
}

// matchesQuery checks if the item contains every search word
func (item *entryItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(item.search, word) {
			return false
		}
	}
	return true
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// ============================================================================
// Browse Model
// ============================================================================

// browseModel is the Bubble Tea model listing documented methods
type browseModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	items    []entryItem
	filtered []entryItem
	cursor   int
	offset   int // viewport scroll offset
	selected *entryItem

	styles *render.StyleManager
}

func newBrowseModel(items []entryItem, styles *render.StyleManager) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter methods..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return browseModel{
		items:     items,
		filtered:  items,
		textInput: ti,
		styles:    styles,
	}
}

// Init implements tea.Model
func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filter()
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input
func (m *browseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "enter":
		if m.cursor < len(m.filtered) {
			item := m.filtered[m.cursor]
			m.selected = &item
			return tea.Quit
		}
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
		m.adjustOffset()
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
		m.adjustOffset()
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *browseModel) adjustOffset() {
	viewHeight := max(m.listHeight(), 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.filtered)-viewHeight))
}

// listHeight is the number of list rows left after preview and input
func (m browseModel) listHeight() int {
	return max(max(m.height, 24)/2-3, 3)
}

// filter narrows the list to items matching every word of the query
func (m *browseModel) filter() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.items
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]entryItem, 0, len(m.items))
		for i := range m.items {
			if m.items[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.items[i])
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// View implements tea.Model
func (m browseModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)
	listHeight := m.listHeight()
	previewHeight := max(height-listHeight-3, 3)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(m.renderPreview(previewHeight))
	b.WriteString(m.renderList(listHeight))
	b.WriteString(m.renderInput(width))
	return b.String()
}

// renderPreview shows the rendered entry under the cursor, padded to height
func (m browseModel) renderPreview(height int) string {
	var lines []string
	if m.cursor < len(m.filtered) {
		lines = strings.Split(strings.TrimRight(m.filtered[m.cursor].rendered, "\n"), "\n")
	}
	if len(lines) > height {
		lines = append(lines[:height-1], m.styles.Dim.Render("…"))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderList renders the scrollable list of methods
func (m browseModel) renderList(height int) string {
	b := getBuilder()
	defer putBuilder(b)

	start := clamp(m.offset, 0, max(0, len(m.filtered)-1))
	end := min(start+height, len(m.filtered))
	rows := 0
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor))
		b.WriteString("\n")
		rows++
	}
	b.WriteString(strings.Repeat("\n", height-rows))
	return b.String()
}

func (m browseModel) renderListItem(item entryItem, selected bool) string {
	label := fmt.Sprintf("%s  %s", item.entry.Method, m.styles.Dim.Render(fmt.Sprintf("line %d", item.entry.Line)))
	if !item.entry.OK() {
		label += " " + m.styles.Error.Render("(malformed)")
	}
	if selected {
		return m.styles.Cursor.Render("▶ ") + m.styles.Selected.Render(label)
	}
	return "  " + label
}

// renderInput renders the input section at the bottom
func (m browseModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(m.styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.items))))
	b.WriteString(" • ")
	b.WriteString(m.styles.Dim.Render("Enter print"))
	b.WriteString(" • ")
	b.WriteString(m.styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	if fileInfo, _ := os.Stdout.Stat(); (fileInfo.Mode() & os.ModeCharDevice) == 0 {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Run lets the user pick one documented method and writes the selected
// entry with w.
func Run(report *extractor.Report, w *render.Writer) error {
	if len(report.Entries) == 0 {
		return fmt.Errorf("no documented methods in %s", report.Path)
	}

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()

	styles := render.DefaultStyles(lipgloss.NewRenderer(ttyOut))
	styles.LoadFromConfig()

	items := make([]entryItem, 0, len(report.Entries))
	for _, e := range report.Entries {
		preview, err := render.NewWriter(io.Discard, w.Options()).WithStyles(styles).RenderEntry(e)
		if err != nil {
			return err
		}
		items = append(items, newEntryItem(e, preview))
	}

	p := tea.NewProgram(newBrowseModel(items, styles), tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result := finalModel.(browseModel)
	if result.selected == nil {
		return nil
	}
	return w.WriteEntry(result.selected.entry)
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
