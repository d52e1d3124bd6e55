package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cj3636/gitscope/internal/config"
	"github.com/cj3636/gitscope/internal/diffview"
	"github.com/cj3636/gitscope/internal/gitparse"
)

// Styles holds all the lipgloss styles
type Styles struct {
	added      lipgloss.Style
	addedEmph  lipgloss.Style
	removed    lipgloss.Style
	remEmph    lipgloss.Style
	unchanged  lipgloss.Style
	conflicted lipgloss.Style
	untracked  lipgloss.Style
	staged     lipgloss.Style
	selected   lipgloss.Style
	lineNumber lipgloss.Style
	border     lipgloss.Style
	title      lipgloss.Style
	help       lipgloss.Style
	statusBar  lipgloss.Style
	errLine    lipgloss.Style
	modal      lipgloss.Style
}

// createStyles initializes all lipgloss styles based on theme
func createStyles(theme config.Theme) *Styles {
	return &Styles{
		added: lipgloss.NewStyle().
			Foreground(theme.AddedFg).
			Background(theme.AddedBg),
		addedEmph: lipgloss.NewStyle().
			Foreground(theme.AddedFg).
			Background(theme.AddedBg).
			Bold(true).
			Underline(true),
		removed: lipgloss.NewStyle().
			Foreground(theme.RemovedFg).
			Background(theme.RemovedBg),
		remEmph: lipgloss.NewStyle().
			Foreground(theme.RemovedFg).
			Background(theme.RemovedBg).
			Bold(true).
			Underline(true),
		unchanged: lipgloss.NewStyle().
			Foreground(theme.UnchangedFg),
		conflicted: lipgloss.NewStyle().
			Foreground(theme.ConflictFg).
			Bold(true),
		untracked: lipgloss.NewStyle().
			Foreground(theme.UntrackedFg),
		staged: lipgloss.NewStyle().
			Foreground(theme.StagedFg),
		selected: lipgloss.NewStyle().
			Background(theme.SelectionBg).
			Bold(true),
		lineNumber: lipgloss.NewStyle().
			Foreground(theme.LineNumberFg).
			Width(6).
			Align(lipgloss.Right),
		border: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.BorderFg),
		title: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Bold(true).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(theme.HelpFg).
			Italic(true),
		statusBar: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Padding(0, 1),
		errLine: lipgloss.NewStyle().
			Foreground(theme.ErrorFg).
			Bold(true),
		modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderFg).
			Padding(1, 2),
	}
}

// View renders the UI
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())

	switch m.pane {
	case paneList:
		sections = append(sections, m.renderFileList())
	case paneDiff:
		sections = append(sections, m.renderDiffPane())
	case paneConflict:
		sections = append(sections, m.renderConflictPane())
	case paneBranches:
		sections = append(sections, m.renderBranchPicker())
	case paneStash:
		sections = append(sections, m.renderStashList())
	case paneHistory:
		sections = append(sections, m.renderHistory())
	case paneCommit:
		sections = append(sections, m.renderCommitDiff())
	}

	if m.showHelp {
		sections = append(sections, m.renderHelpPanel())
	}
	if m.errText != "" {
		sections = append(sections, m.styles.errLine.Render("! "+truncate(m.errText, maxInt(20, m.width-2))))
	}
	sections = append(sections, m.renderStatusBar())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.commitOpen {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderCommitModal())
	}

	return content
}

// renderTitle renders the title bar
func (m Model) renderTitle() string {
	snap := m.state.Snapshot()

	title := fmt.Sprintf("gitscope: %s", snap.Branch)
	if snap.Ahead > 0 || snap.Behind > 0 {
		title += fmt.Sprintf(" [ahead %d, behind %d]", snap.Ahead, snap.Behind)
	}
	if snap.MergeInProgress {
		title += "  MERGING"
	}
	if snap.RebaseInProgress {
		title += "  REBASING"
	}
	if m.busyOp != "" {
		title += fmt.Sprintf("  (%s..., esc to cancel)", m.busyOp)
	}
	return m.styles.title.Render(title)
}

func (m Model) renderFileList() string {
	entries := m.visibleEntries()
	if len(entries) == 0 {
		return m.styles.unchanged.Render(fmt.Sprintf("No %s changes.", sectionNames[m.section]))
	}

	start := minInt(m.viewport.offset, maxInt(0, len(entries)-1))
	if m.cursor < start {
		start = m.cursor
	}
	if m.cursor >= start+m.viewport.height {
		start = m.cursor - m.viewport.height + 1
	}
	end := minInt(start+m.viewport.height, len(entries))

	var lines []string
	lines = append(lines, m.renderSectionTabs())

	for i := start; i < end; i++ {
		e := entries[i]
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}

		label := fmt.Sprintf("%s%c%c %s", marker, statusByte(e.X), statusByte(e.Y), e.Path)
		if e.OrigPath != "" {
			label = fmt.Sprintf("%s%c%c %s <- %s", marker, statusByte(e.X), statusByte(e.Y), e.Path, e.OrigPath)
		}
		if e.PreviewUnavailable {
			label += "  (preview unavailable)"
		}

		style := m.entryStyle(e)
		if i == m.cursor {
			style = m.styles.selected
		}
		lines = append(lines, style.Render(truncate(label, maxInt(20, m.width-2))))
	}

	return strings.Join(lines, "\n")
}

func statusByte(b byte) byte {
	if b == 0 {
		return ' '
	}
	return b
}

func (m Model) entryStyle(e gitparse.FileEntry) lipgloss.Style {
	switch {
	case e.IsConflict():
		return m.styles.conflicted
	case e.Code == gitparse.Untracked:
		return m.styles.untracked
	case e.Staged && !e.Unstaged:
		return m.styles.staged
	default:
		return m.styles.unchanged
	}
}

func (m Model) renderSectionTabs() string {
	var tabs []string
	for s := sectionAll; s <= sectionUntracked; s++ {
		label := sectionNames[s]
		if s == m.section {
			tabs = append(tabs, m.styles.title.Render(label))
		} else {
			tabs = append(tabs, m.styles.help.Render(" "+label+" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, tabs...)
}

func (m Model) renderDiffPane() string {
	diff := m.state.ActiveDiff()
	if diff == nil {
		return m.styles.unchanged.Render("No preview available for this entry.")
	}
	if diff.Binary {
		return m.styles.unchanged.Render("Binary file; no text preview.")
	}

	if m.unified {
		return m.renderUnified(diff)
	}
	return m.renderSideBySide(m.state.ActiveRows())
}

// renderUnified renders the diff in unified mode (traditional view)
func (m Model) renderUnified(diff *gitparse.FileDiff) string {
	var all []string
	for _, h := range diff.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		all = append(all, m.styles.help.Render(header))
		for _, line := range h.Lines {
			if line.Kind == gitparse.LineMeta {
				continue
			}
			all = append(all, m.renderUnifiedLine(line))
		}
	}

	start := minInt(m.viewport.offset, maxInt(0, len(all)-1))
	end := minInt(start+m.viewport.height, len(all))
	if start >= end {
		return m.styles.unchanged.Render("No differences found.")
	}
	return strings.Join(all[start:end], "\n")
}

func (m Model) renderUnifiedLine(line gitparse.Line) string {
	var parts []string

	if m.config.ShowLineNo {
		parts = append(parts, m.styles.lineNumber.Render(formatLineNo(line.OldNo)))
		parts = append(parts, m.styles.lineNumber.Render(formatLineNo(line.NewNo)))
		parts = append(parts, " ")
	}

	var symbol string
	var style lipgloss.Style
	switch line.Kind {
	case gitparse.LineAdded:
		symbol = "+"
		style = m.styles.added
	case gitparse.LineRemoved:
		symbol = "-"
		style = m.styles.removed
	default:
		symbol = " "
		style = m.styles.unchanged
	}

	parts = append(parts, style.Render(symbol+" "+expandTabs(line.Content, m.config.TabSize)))
	return strings.Join(parts, "")
}

// renderSideBySide renders paired rows in two columns
func (m Model) renderSideBySide(rows []diffview.Row) string {
	if len(rows) == 0 {
		return m.styles.unchanged.Render("No differences found.")
	}

	columnWidth := maxInt(20, (m.width-4)/2)

	start := minInt(m.viewport.offset, maxInt(0, len(rows)-1))
	end := minInt(start+m.viewport.height, len(rows))

	var lines []string
	for i := start; i < end; i++ {
		left, right := m.renderRow(rows[i], columnWidth)
		lines = append(lines, left+" │ "+right)
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one side-by-side row. Change rows get intra-line
// emphasis on the spans that actually differ.
func (m Model) renderRow(row diffview.Row, columnWidth int) (string, string) {
	contentWidth := columnWidth
	if m.config.ShowLineNo {
		contentWidth = maxInt(10, columnWidth-8)
	}

	var oldSpans, newSpans []diffview.Span
	if row.Kind == diffview.RowChange {
		oldSpans, newSpans = diffview.HighlightSpans(row.Left.Text, row.Right.Text)
	}

	left := m.renderCell(row.Left, m.styles.removed, m.styles.remEmph, oldSpans, contentWidth)
	right := m.renderCell(row.Right, m.styles.added, m.styles.addedEmph, newSpans, contentWidth)
	return left, right
}

func (m Model) renderCell(cell *diffview.Cell, changed, emph lipgloss.Style, spans []diffview.Span, contentWidth int) string {
	var b strings.Builder

	if m.config.ShowLineNo {
		no := "     "
		if cell != nil && cell.LineNo > 0 {
			no = fmt.Sprintf("%5d", cell.LineNo)
		}
		b.WriteString(m.styles.lineNumber.Render(no))
		b.WriteString(" ")
	}

	if cell == nil {
		b.WriteString(strings.Repeat(" ", contentWidth))
		return b.String()
	}

	style := m.styles.unchanged
	symbol := "  "
	switch cell.Kind {
	case diffview.CellAdded:
		style = changed
		symbol = "+ "
	case diffview.CellRemoved:
		style = changed
		symbol = "- "
	}

	text := expandTabs(cell.Text, m.config.TabSize)
	avail := contentWidth - len(symbol)
	if len(text) > avail {
		text = truncate(text, maxInt(1, avail))
		spans = nil // offsets no longer line up
	}

	if len(spans) > 0 {
		b.WriteString(style.Render(symbol))
		b.WriteString(renderSpans(text, spans, style, emph))
		if pad := avail - len(text); pad > 0 {
			b.WriteString(style.Render(strings.Repeat(" ", pad)))
		}
	} else {
		b.WriteString(style.Render(fmt.Sprintf("%-*s", contentWidth, symbol+text)))
	}
	return b.String()
}

// renderSpans styles the given byte ranges with emph and the rest with
// base, preserving order.
func renderSpans(text string, spans []diffview.Span, base, emph lipgloss.Style) string {
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		if s.Start > len(text) {
			break
		}
		end := minInt(s.End, len(text))
		if s.Start > pos {
			b.WriteString(base.Render(text[pos:s.Start]))
		}
		b.WriteString(emph.Render(text[s.Start:end]))
		pos = end
	}
	if pos < len(text) {
		b.WriteString(base.Render(text[pos:]))
	}
	return b.String()
}

func (m Model) renderConflictPane() string {
	file, parseErr := m.state.Conflict()
	if parseErr != nil {
		return m.styles.errLine.Render("Cannot open resolution view: "+parseErr.Error()) + "\n" +
			m.styles.help.Render("Fix the markers by hand, then refresh.")
	}
	if file == nil {
		return m.styles.unchanged.Render("No conflict loaded.")
	}

	sections := file.Sections()
	resolved := len(sections) - unresolvedCount(file)

	var lines []string
	lines = append(lines, m.styles.conflicted.Render(
		fmt.Sprintf("%s: %d/%d sections resolved", file.Path, resolved, len(sections))))

	columnWidth := maxInt(20, (m.width-4)/2)
	for i, s := range sections {
		marker := "  "
		if i == m.conflictCursor {
			marker = "> "
		}
		head := fmt.Sprintf("%ssection %d [%s]", marker, i+1, s.Resolution())
		if s.OursLabel != "" || s.TheirsLabel != "" {
			head += fmt.Sprintf("  %s vs %s", s.OursLabel, s.TheirsLabel)
		}
		style := m.styles.help
		if i == m.conflictCursor {
			style = m.styles.selected
		}
		lines = append(lines, style.Render(head))

		for _, row := range diffview.CompareLines(s.Ours, s.Theirs) {
			left, right := m.renderRow(row, columnWidth)
			lines = append(lines, left+" │ "+right)
		}
	}

	lines = append(lines, m.styles.help.Render("o ours • t theirs • b both • e edit • R reset • n/N move • enter apply+stage"))

	start := minInt(m.viewport.offset, maxInt(0, len(lines)-1))
	end := minInt(start+m.viewport.height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderBranchPicker() string {
	if len(m.branches) == 0 {
		return m.styles.unchanged.Render("No branches found.")
	}

	var lines []string
	lines = append(lines, m.styles.title.Render("Branches (enter to checkout, esc to close)"))
	for i, b := range m.branches {
		marker := "  "
		if i == m.branchCursor {
			marker = "> "
		}
		label := marker + b.Name
		if b.Current {
			label += " *"
		}

		style := m.styles.unchanged
		if b.Remote {
			style = m.styles.help
		}
		if i == m.branchCursor {
			style = m.styles.selected
		}
		lines = append(lines, style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStashList() string {
	if len(m.stashes) == 0 {
		return m.styles.unchanged.Render("No stashes.")
	}

	var lines []string
	lines = append(lines, m.styles.title.Render("Stashes (enter pop, s apply, x drop, esc close)"))
	for i, st := range m.stashes {
		marker := "  "
		if i == m.stashCursor {
			marker = "> "
		}
		style := m.styles.unchanged
		if i == m.stashCursor {
			style = m.styles.selected
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s  %s", marker, st.Ref, truncate(st.Subject, 60))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory() string {
	if len(m.commits) == 0 {
		return m.styles.unchanged.Render("No commits.")
	}

	start := minInt(m.viewport.offset, maxInt(0, len(m.commits)-1))
	end := minInt(start+m.viewport.height, len(m.commits))

	var lines []string
	for i, c := range m.commits[start:end] {
		marker := "  "
		if start+i == m.commitCursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s %s %s %s",
			marker,
			m.styles.staged.Render(c.ShortHash),
			m.styles.help.Render(c.Date),
			truncate(c.Subject, 60),
			m.styles.conflicted.Render(c.Refs))
		if start+i == m.commitCursor {
			line = m.styles.selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderCommitDiff shows the patch one commit introduced, unified across
// all of its files.
func (m Model) renderCommitDiff() string {
	if len(m.commitFiles) == 0 {
		return m.styles.unchanged.Render("Empty commit.")
	}

	var all []string
	all = append(all, m.styles.staged.Render("commit "+m.commitHash))
	for _, f := range m.commitFiles {
		heading := f.Path
		if f.OldPath != "" && f.OldPath != f.Path {
			heading = f.OldPath + " -> " + f.Path
		}
		if f.Binary {
			heading += " (binary)"
		}
		all = append(all, m.styles.title.Render(" "+heading+" "))
		for _, h := range f.Hunks {
			header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
			all = append(all, m.styles.help.Render(header))
			for _, line := range h.Lines {
				if line.Kind == gitparse.LineMeta {
					continue
				}
				all = append(all, m.renderUnifiedLine(line))
			}
		}
	}

	start := minInt(m.viewport.offset, maxInt(0, len(all)-1))
	end := minInt(start+m.viewport.height, len(all))
	return strings.Join(all[start:end], "\n")
}

func (m Model) renderCommitModal() string {
	header := m.styles.title.Render("Commit (enter to commit, esc to cancel)")
	return m.styles.modal.Width(maxInt(40, m.width-4)).Render(header + "\n\n" + m.commitInput.View())
}

// renderHelpPanel renders the help panel below the main view
func (m Model) renderHelpPanel() string {
	helpText := []string{
		"",
		"Keyboard Shortcuts:",
		"  j/k       Move             │  s         Stage            │  c    Commit",
		"  enter     Open diff        │  u         Unstage          │  C    Commit (AI draft)",
		"  tab       Next section     │  x         Discard          │  P    Push",
		"  r         Refresh          │  S         Stage all        │  p    Pull (rebase)",
		"  B         Branches         │  z         Stashes          │  f    Fetch",
		"  H         History          │  v         Unified view     │  q    Quit",
		"  In conflicts: o ours, t theirs, b both, e edit, R reset, enter apply+stage",
		"",
	}

	helpStyle := m.styles.help.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.config.Theme.BorderFg).
		Padding(0, 1).
		Width(maxInt(40, m.width-2))

	return helpStyle.Render(strings.Join(helpText, "\n"))
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	snap := m.state.Snapshot()

	staged, working, untracked, conflicts := 0, 0, 0, 0
	for _, e := range snap.Entries {
		switch {
		case e.IsConflict():
			conflicts++
		case e.Code == gitparse.Untracked:
			untracked++
		case e.Staged:
			staged++
		default:
			working++
		}
	}

	viewMode := "side-by-side"
	if m.unified {
		viewMode = "unified"
	}

	status := fmt.Sprintf(
		"%d staged | %d working | %d untracked | %d conflicts | View: %s | ?:help q:quit",
		staged, working, untracked, conflicts, viewMode,
	)
	return m.styles.statusBar.Width(maxInt(20, m.width)).Render(status)
}

func formatLineNo(no int) string {
	if no <= 0 {
		return "     "
	}
	return fmt.Sprintf("%5d", no)
}

func expandTabs(s string, tabSize int) string {
	if tabSize <= 0 {
		tabSize = 4
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabSize))
}
