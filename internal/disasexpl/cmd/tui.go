package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"disasexpl/internal/analysis"
	"disasexpl/internal/asm"
	"disasexpl/internal/disasexpl/styles"
	"disasexpl/internal/document"
	"disasexpl/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewLabels
	viewDetails
)

type labelItem struct {
	label      analysis.Label
	filterTerm string
}

func (i labelItem) Title() string       { return i.label.DisplayName() }
func (i labelItem) Description() string { return "" }
func (i labelItem) FilterValue() string { return i.filterTerm }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(labelItem)
	if !ok {
		return
	}

	indicator := " "
	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if index == m.Index() {
		indicator = ">"
		lineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	}
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(styles.Label))
	if i.label.Local {
		nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	}

	fmt.Fprintf(w, " %s  %s  %s  %s",
		indicator,
		lineStyle.Render(fmt.Sprintf("%5d", i.label.Line)),
		nameStyle.Render(i.label.DisplayName()),
		styles.LineNumber.Render(fmt.Sprintf("(%d refs)", i.label.Refs)))
}

type model struct {
	viewport    viewport.Model
	labelsList  list.Model
	detailsView viewport.Model
	spinner     spinner.Model
	mode        viewMode

	path     string
	settings *settings
	cache    *document.Cache
	doc      *document.Document
	labels   []analysis.Label
	loading  bool
	// cursor is the 0-based listing line whose source line is highlighted,
	// or -1.
	cursor int

	width  int
	height int
}

type documentLoadedMsg struct {
	doc *document.Document
}

func loadDocumentCmd(c *document.Cache, path string, s *settings) tea.Cmd {
	return func() tea.Msg {
		return documentLoadedMsg{doc: c.Load(path, s.filter)}
	}
}

func newModel(path string, s *settings) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	labelsList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	labelsList.SetShowStatusBar(false)
	labelsList.SetFilteringEnabled(true)
	labelsList.Title = "Labels"
	labelsList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	labelsList.SetShowHelp(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	dvp := viewport.New()
	dvp.SetWidth(80)
	dvp.SetHeight(24)

	m := model{
		viewport:    vp,
		labelsList:  labelsList,
		detailsView: dvp,
		spinner:     sp,
		mode:        viewListing,
		path:        path,
		settings:    s,
		cache:       document.NewCache(s.parser, 8),
		loading:     true,
		cursor:      -1,
		width:       80,
		height:      24,
	}
	m.updateContent()
	return m
}

func runTUI(ctx context.Context, path string, s *settings) error {
	program := tea.NewProgram(
		newModel(path, s),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		slog.Error("TUI run error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadDocumentCmd(m.cache, m.path, m.settings),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case documentLoadedMsg:
		m.loading = false
		m.setDocument(msg.doc)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.labelsList.SetWidth(msg.Width)
			m.labelsList.SetHeight(msg.Height - 2)
			m.detailsView.SetWidth(msg.Width)
			m.detailsView.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		if m.mode == viewLabels && m.labelsList.FilterState() == list.Filtering {
			if s := msg.String(); s == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.mode = viewListing
			return m, nil
		case "l":
			if len(m.labels) > 0 {
				m.mode = viewLabels
			}
			return m, nil
		case "i":
			m.mode = viewDetails
			return m, nil
		case "r":
			m.cache.Purge()
			m.loading = true
			m.updateContent()
			return m, tea.Batch(loadDocumentCmd(m.cache, m.path, m.settings), m.spinner.Tick)
		case "n", "p":
			if m.mode == viewListing {
				m.moveCursor(msg.String() == "n")
				return m, nil
			}
		case "enter":
			if m.mode == viewLabels {
				if item, ok := m.labelsList.SelectedItem().(labelItem); ok {
					m.jumpTo(item.label.Line - 1)
				}
				return m, nil
			}
		case "tab":
			m.mode = m.nextMode(1)
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewLabels:
		m.labelsList, cmd = m.labelsList.Update(msg)
	case viewDetails:
		m.detailsView, cmd = m.detailsView.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// nextMode cycles through the views, skipping the labels view when the
// listing has none.
func (m model) nextMode(step int) viewMode {
	mode := m.mode
	for {
		mode = viewMode((int(mode) + step + 3) % 3)
		if mode != viewLabels || len(m.labels) > 0 {
			return mode
		}
	}
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewLabels:
		content = m.labelsList.View()
	case viewDetails:
		content = m.detailsView.View()
	default:
		content = m.viewport.View()
	}
	return content + "\n" + styles.MenuBar.Width(m.width).Render(m.menu())
}

func (m model) menu() string {
	tab := func(key, name string, mode viewMode) string {
		style := styles.InactiveTab
		if m.mode == mode {
			style = styles.ActiveTab
		}
		return style.Render(key + ": " + name)
	}
	parts := []string{tab("A", "listing", viewListing)}
	if len(m.labels) > 0 {
		parts = append(parts, tab("L", "labels", viewLabels))
	}
	parts = append(parts, tab("I", "info", viewDetails))
	switch m.mode {
	case viewLabels:
		parts = append(parts, "Enter: jump")
	case viewListing:
		parts = append(parts, "N/P: source line")
	}
	parts = append(parts, "R: reload", "Tab: cycle", "Q: quit")
	return strings.Join(parts, " • ")
}

func (m *model) setDocument(doc *document.Document) {
	m.doc = doc
	m.labels = analysis.Labels(doc.Result)
	if doc.Err != nil {
		slog.Warn("Failed to load listing", "path", doc.Path, "error", doc.Err)
	}

	items := make([]list.Item, 0, len(m.labels))
	for _, l := range m.labels {
		items = append(items, labelItem{
			label:      l,
			filterTerm: l.Name + " " + l.Demangled,
		})
	}
	m.labelsList.SetItems(items)
	m.labelsList.Title = fmt.Sprintf("Labels (%d total)", len(m.labels))
	m.cursor = -1
	m.updateContent()
}

// jumpTo scrolls the listing to the 0-based line and highlights every line
// generated from the same source line.
func (m *model) jumpTo(line int) {
	m.mode = viewListing
	m.cursor = line
	m.updateListing()
	m.viewport.SetYOffset(max(line-2, 0))
}

// moveCursor steps to the next or previous line that has a source position.
func (m *model) moveCursor(forward bool) {
	if m.doc == nil {
		return
	}
	n := len(m.doc.Lines())
	step := 1
	if !forward {
		step = -1
	}
	for i := m.cursor + step; i >= 0 && i < n; i += step {
		if _, ok := m.doc.SourceLine(i); ok {
			m.jumpTo(i)
			return
		}
	}
}

func (m *model) updateContent() {
	m.updateListing()
	m.updateDetails()
}

func (m *model) updateListing() {
	if m.doc == nil {
		m.viewport.SetContent(fmt.Sprintf("\n  %s Loading %s...", m.spinner.View(), m.path))
		return
	}

	highlight := map[int]bool{}
	if src, ok := m.doc.SourceLine(m.cursor); ok {
		for _, i := range m.doc.AsmLines(src) {
			highlight[i] = true
		}
	}

	lines := m.doc.Lines()
	width := len(fmt.Sprint(len(lines)))
	var sb strings.Builder
	for i, l := range lines {
		num := styles.LineNumber.Render(fmt.Sprintf("%*d ", width, i+1))
		text := colorize.ColorizeLine(l)
		if highlight[i] {
			text = styles.Highlight.Render(colorize.StripANSI(text))
		}
		sb.WriteString(num)
		sb.WriteString(text)
		if l.Source != nil {
			ref := fmt.Sprintf("  ; %s:%d", sourceName(l.Source.File), l.Source.Line)
			sb.WriteString(styles.SourceRef.Render(ref))
		}
		sb.WriteByte('\n')
	}
	m.viewport.SetContent(strings.TrimSuffix(sb.String(), "\n"))
}

func sourceName(file string) string {
	if file == "" {
		return "line"
	}
	return filepath.Base(file)
}

func (m *model) updateDetails() {
	width := m.width
	if width == 0 {
		width = 80
	}
	m.detailsView.SetContent(strings.TrimSuffix(
		styles.RenderMarkdown(detailsMarkdown(m.path, m.doc, m.labels, m.settings), width-2), "\n"))
}

// detailsMarkdown summarizes a listing for the info view.
func detailsMarkdown(path string, doc *document.Document, labels []analysis.Label, s *settings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", filepath.Base(path))
	fmt.Fprintf(&sb, "`%s`\n\n", path)
	if doc == nil {
		sb.WriteString("Loading...\n")
		return sb.String()
	}
	if doc.Err != nil {
		fmt.Fprintf(&sb, "**Error:** %s\n", doc.Err)
		return sb.String()
	}

	files := map[string]int{}
	withSource := 0
	for _, l := range doc.Lines() {
		if l.Source != nil {
			withSource++
			files[l.Source.File]++
		}
	}
	local := 0
	for _, l := range labels {
		if l.Local {
			local++
		}
	}

	sb.WriteString("## Listing\n\n")
	fmt.Fprintf(&sb, "- Lines: %d\n", len(doc.Lines()))
	fmt.Fprintf(&sb, "- Lines with a source position: %d\n", withSource)
	fmt.Fprintf(&sb, "- Labels: %d (%d local)\n", len(labels), local)
	fmt.Fprintf(&sb, "- Source lines mapped: %d\n\n", len(doc.SourceMap()))

	if len(doc.Kinds) > 0 {
		sb.WriteString("## Input\n\n")
		for k := asm.KindBlank; k <= asm.KindOther; k++ {
			if n := doc.Kinds[k]; n > 0 {
				fmt.Fprintf(&sb, "- %s: %d\n", k, n)
			}
		}
		sb.WriteString("\n")
	}

	if len(files) > 0 {
		names := make([]string, 0, len(files))
		for f := range files {
			names = append(names, f)
		}
		sort.Strings(names)
		sb.WriteString("## Sources\n\n")
		for _, f := range names {
			name := f
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&sb, "- `%s`: %d lines\n", name, files[f])
		}
		sb.WriteString("\n")
	}

	if s != nil {
		f := s.filter
		sb.WriteString("## Filter\n\n")
		fmt.Fprintf(&sb, "- Binary: %t\n", f.Binary)
		fmt.Fprintf(&sb, "- Trim: %t (indent %s)\n", f.Trim, f.Indent)
		fmt.Fprintf(&sb, "- Strip comments: %t\n", f.StripCommentOnly)
		fmt.Fprintf(&sb, "- Strip directives: %t\n", f.StripDirectives)
		fmt.Fprintf(&sb, "- Strip dead labels: %t\n", f.StripDeadLabels)
	}
	return sb.String()
}
