package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pingcap/errors"

	"github.com/gubarz/sloclass/internal/source"
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
// Line Item
// ============================================================================

// lineItem wraps a logical line with display metadata
type lineItem struct {
	line  source.LogicalLine
	span  string
	lower string
}

// newLineItem creates a lineItem from a logical line
func newLineItem(ll source.LogicalLine) lineItem {
	return lineItem{
		line:  ll,
		span:  fmt.Sprintf("[%d,%d)", ll.Start, ll.End),
		lower: strings.ToLower(ll.Text),
	}
}

// matchesQuery checks if the cleaned text contains all search words
func (item *lineItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(item.lower, word) {
			return false
		}
	}
	return true
}

// ============================================================================
// Category Filter
// ============================================================================

type categoryFilter int

const (
	showAll categoryFilter = iota
	showCode
	showDirectives
)

func (f categoryFilter) String() string {
	switch f {
	case showCode:
		return "code"
	case showDirectives:
		return "directives"
	default:
		return "all"
	}
}

func (f categoryFilter) next() categoryFilter {
	return (f + 1) % 3
}

func (f categoryFilter) accepts(c source.Category) bool {
	switch f {
	case showCode:
		return c == source.Code
	case showDirectives:
		return c == source.Directive
	default:
		return true
	}
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
// Main Model
// ============================================================================

// mainModel is the Bubble Tea model for browsing the logical lines of a file
type mainModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	path     string
	physical []string
	sloc     int

	lines    []lineItem
	filtered []lineItem
	cursor   int
	offset   int // viewport scroll offset
	category categoryFilter
}

// newMainModel creates a new mainModel for the lines of path
func newMainModel(path string, lines []source.LogicalLine, physical []string) mainModel {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	items := make([]lineItem, len(lines))
	sloc := 0
	for i, ll := range lines {
		items[i] = newLineItem(ll)
		sloc += ll.SLOC
	}

	return mainModel{
		textInput: ti,
		path:      path,
		physical:  physical,
		sloc:      sloc,
		lines:     items,
		filtered:  items,
	}
}

// Init implements tea.Model
func (m mainModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	case filterMsg:
		m.filterLines()
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

// handleKey processes navigation keys. Everything else goes to the input.
func (m *mainModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit, true
	case "tab":
		m.category = m.category.next()
		m.filterLines()
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
	default:
		return nil, false
	}
	return nil, true
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *mainModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *mainModel) adjustOffset() {
	viewHeight := maxInt(m.height-previewHeight-4, 3) // approximate list height
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	maxOffset := max(0, len(m.filtered)-viewHeight)
	m.offset = clamp(m.offset, 0, maxOffset)
}

// filterLines applies the category filter and the search query
func (m *mainModel) filterLines() {
	query := strings.TrimSpace(m.textInput.Value())
	words := strings.Fields(strings.ToLower(query))

	if len(words) == 0 && m.category == showAll {
		m.filtered = m.lines
	} else {
		m.filtered = make([]lineItem, 0, len(m.lines))
		for i := range m.lines {
			if m.category.accepts(m.lines[i].line.Category) && m.lines[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.lines[i])
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// ============================================================================
// Rendering
// ============================================================================

const previewHeight = 8

// View implements tea.Model
func (m mainModel) View() string {
	if m.quitting {
		return ""
	}

	width := maxInt(m.width, 80)
	height := maxInt(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview) - 1

	inputLines := 3 // divider + info + input
	listHeight := maxInt(height-previewLines-inputLines, 3)
	list := m.renderList(listHeight, width)
	listLines := strings.Count(list, "\n")

	padding := maxInt(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderPreview shows the raw physical lines of the selected logical line
func (m mainModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0

	b.WriteString(styles.PreviewPath.Render(m.path))
	b.WriteString("\n")
	lines++

	if m.cursor < len(m.filtered) {
		ll := m.filtered[m.cursor].line
		counted := make(map[int]bool, len(ll.Lines))
		for _, n := range ll.Lines {
			counted[n] = true
		}
		numWidth := len(fmt.Sprint(len(m.physical)))
		for n := ll.Start; n < ll.End && lines < previewHeight; n++ {
			text := ""
			if n-1 < len(m.physical) {
				text = m.physical[n-1]
			}
			text = truncateString(strings.ReplaceAll(text, "\t", "    "), width-numWidth-3)
			num := fmt.Sprintf("%*d", numWidth, n)
			mark := " "
			if counted[n] {
				mark = "•"
			}
			b.WriteString(styles.Dim.Render(num))
			b.WriteString(styles.Cursor.Render(mark))
			b.WriteString(" ")
			b.WriteString(styles.PreviewText.Render(text))
			b.WriteString("\n")
			lines++
		}
	}

	// Pad to fixed height
	for lines < previewHeight {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the scrollable list of logical lines
func (m *mainModel) renderList(maxHeight, width int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)
	spanWidth := len(fmt.Sprintf("[%d,%d)", len(m.physical), len(m.physical)+1))

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor, spanWidth, width))
		b.WriteString("\n")
	}

	return b.String()
}

// renderListItem renders a single list item
func (m mainModel) renderListItem(item lineItem, selected bool, spanWidth, width int) string {
	span, count, text := styles.Dim, styles.Dim, styles.Code
	if item.line.Category == source.Directive {
		text = styles.Directive
	}
	if selected {
		span = styles.WithSelection(span)
		count = styles.WithSelection(count)
		text = styles.WithSelection(text)
	}

	spanPadded := fmt.Sprintf("%-*s", spanWidth, item.span)
	countPadded := fmt.Sprintf("%3d ", item.line.SLOC)
	textWidth := width - spanWidth - len(countPadded) - 4
	line := span.Render(spanPadded) + " " + count.Render(countPadded) +
		text.Render(truncateString(item.line.Text, textWidth))
	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// renderInput renders the input section at the bottom
func (m mainModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d lines", len(m.filtered), len(m.lines))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("%d sloc / %d physical", m.sloc, len(m.physical))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("TAB " + m.category.String()))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// If stdout is not a terminal (piped or captured by $()), use /dev/tty
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

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Browse launches the interactive browser over the logical lines of path.
// physical holds the raw lines of the file for the preview.
func Browse(path string, lines []source.LogicalLine, physical []string) error {
	if len(lines) == 0 {
		return errors.Errorf("no source lines found in %s", path)
	}

	m := newMainModel(path, lines, physical)

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, err := p.Run()
	return errors.Trace(err)
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

// maxInt returns the larger of a and b
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen runes with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
