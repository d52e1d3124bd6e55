package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cj3636/gitscope/internal/assist"
	"github.com/cj3636/gitscope/internal/config"
	"github.com/cj3636/gitscope/internal/conflict"
	"github.com/cj3636/gitscope/internal/gitparse"
	"github.com/cj3636/gitscope/internal/worktree"
)

// pane identifies which view owns the keyboard.
type pane int

const (
	paneList pane = iota
	paneDiff
	paneConflict
	paneBranches
	paneStash
	paneHistory
	paneCommit
)

// section filters the file list.
type section int

const (
	sectionAll section = iota
	sectionConflicts
	sectionStaged
	sectionWorking
	sectionUntracked
)

var sectionNames = map[section]string{
	sectionAll:       "all",
	sectionConflicts: "conflicts",
	sectionStaged:    "staged",
	sectionWorking:   "working",
	sectionUntracked: "untracked",
}

const historyLimit = 100

// Model represents the application state
type Model struct {
	state     *worktree.State
	generator assist.Generator // nil when no API key is configured
	watcher   *worktree.Watcher
	config    *config.Config
	styles    *Styles

	pane     pane
	section  section
	cursor   int
	viewport Viewport
	width    int
	height   int
	showHelp bool
	unified  bool

	commitOpen  bool
	commitInput textinput.Model

	branches     []worktree.Branch
	branchCursor int
	stashes      []worktree.StashEntry
	stashCursor  int
	commits      []worktree.Commit
	commitCursor int
	commitHash   string
	commitFiles  []gitparse.FileDiff

	conflictCursor int

	busyOp   string
	cancelOp context.CancelFunc

	errText string
	errSeq  int
}

// Viewport controls the visible portion of the active pane
type Viewport struct {
	offset int // Current scroll position
	height int // Available height for content
}

// NewModel creates a new TUI model
func NewModel(state *worktree.State, generator assist.Generator, watcher *worktree.Watcher, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Commit message"
	input.CharLimit = 0
	input.Width = 60

	return Model{
		state:       state,
		generator:   generator,
		watcher:     watcher,
		config:      cfg,
		styles:      createStyles(cfg.Theme),
		viewport:    Viewport{offset: 0, height: 20},
		unified:     cfg.DiffMode == config.Unified,
		commitInput: input,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{refreshCmd(m.state)}
	if m.watcher != nil {
		cmds = append(cmds, watchCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.commitOpen {
			return m.handleCommitKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()

	case refreshDoneMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.clampCursor()

	case opDoneMsg:
		if m.busyOp == msg.op {
			m.busyOp = ""
			m.cancelOp = nil
		}
		if msg.err != nil {
			return m.reportErr(fmt.Errorf("%s: %w", msg.op, msg.err))
		}
		m.clampCursor()

	case assistDoneMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.commitOpen = true
		m.commitInput.SetValue(msg.message)
		m.commitInput.Focus()

	case sectionEditedMsg:
		return m.applySectionEdit(msg)

	case watchEventMsg:
		cmds := []tea.Cmd{refreshCmd(m.state)}
		if m.watcher != nil {
			cmds = append(cmds, watchCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case branchesMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.branches = msg.branches
		m.branchCursor = 0
		m.pane = paneBranches

	case stashesMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.stashes = msg.stashes
		m.stashCursor = 0
		m.pane = paneStash

	case historyMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.commits = msg.commits
		m.commitCursor = 0
		m.viewport.offset = 0
		m.pane = paneHistory

	case commitDiffMsg:
		if msg.err != nil {
			return m.reportErr(msg.err)
		}
		m.commitHash = msg.hash
		m.commitFiles = msg.files
		m.viewport.offset = 0
		m.pane = paneCommit

	case clearErrMsg:
		if msg.seq == m.errSeq {
			m.errText = ""
		}
	}

	return m, nil
}

// keyIs matches a key press against the configured bindings for action.
func (m Model) keyIs(msg tea.KeyMsg, action string) bool {
	pressed := msg.String()
	for _, k := range m.config.Keybindings[action] {
		if k == pressed {
			return true
		}
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keyIs(msg, "quit"):
		if m.cancelOp != nil {
			m.cancelOp()
		}
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case m.keyIs(msg, "toggle_help"):
		m.showHelp = !m.showHelp
		m.updateViewportHeight()
		return m, nil

	case m.keyIs(msg, "back"):
		if m.busyOp != "" && m.cancelOp != nil {
			// Abort the stalled network operation; state is untouched.
			m.cancelOp()
			return m, nil
		}
		if m.pane == paneCommit {
			m.pane = paneHistory
			m.viewport.offset = 0
			return m, nil
		}
		if m.pane != paneList {
			m.pane = paneList
			m.state.CloseView()
			m.viewport.offset = 0
		}
		return m, nil

	case m.keyIs(msg, "refresh"):
		return m, refreshCmd(m.state)
	}

	switch m.pane {
	case paneList:
		return m.handleListKey(msg)
	case paneDiff:
		return m.handleDiffKey(msg)
	case paneConflict:
		return m.handleConflictKey(msg)
	case paneBranches:
		return m.handleBranchesKey(msg)
	case paneStash:
		return m.handleStashKey(msg)
	case paneHistory:
		return m.handleHistoryKey(msg)
	case paneCommit:
		return m.handleCommitDiffKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.visibleEntries()

	switch {
	case m.keyIs(msg, "scroll_down"):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case m.keyIs(msg, "scroll_up"):
		if m.cursor > 0 {
			m.cursor--
		}
	case m.keyIs(msg, "go_top"):
		m.cursor = 0
	case m.keyIs(msg, "go_bottom"):
		m.cursor = maxInt(0, len(entries)-1)

	case m.keyIs(msg, "next_section"):
		m.section = (m.section + 1) % 5
		m.cursor = 0
	case m.keyIs(msg, "prev_section"):
		m.section = (m.section + 4) % 5
		m.cursor = 0

	case m.keyIs(msg, "open"):
		entry := m.selectedEntry()
		if entry == nil {
			return m, nil
		}
		m.selectInState(entry.Path)
		m.viewport.offset = 0
		if entry.IsConflict() {
			m.pane = paneConflict
			m.conflictCursor = 0
			return m, func() tea.Msg {
				return refreshDoneMsg{err: m.state.OpenConflict(context.Background())}
			}
		}
		m.pane = paneDiff
		return m, func() tea.Msg {
			return refreshDoneMsg{err: m.state.OpenDiff(context.Background())}
		}

	case m.keyIs(msg, "stage"):
		entry := m.selectedEntry()
		if entry == nil {
			return m, nil
		}
		path := entry.Path
		return m, opCmd(context.Background(), "stage", func(ctx context.Context) error {
			return m.state.Stage(ctx, path)
		})

	case m.keyIs(msg, "stage_all"):
		return m, opCmd(context.Background(), "stage all", m.state.StageAll)

	case m.keyIs(msg, "unstage"):
		entry := m.selectedEntry()
		if entry == nil {
			return m, nil
		}
		path := entry.Path
		return m, opCmd(context.Background(), "unstage", func(ctx context.Context) error {
			return m.state.Unstage(ctx, path)
		})

	case m.keyIs(msg, "discard"):
		entry := m.selectedEntry()
		if entry == nil {
			return m, nil
		}
		path, untracked := entry.Path, entry.Code == gitparse.Untracked
		return m, opCmd(context.Background(), "discard", func(ctx context.Context) error {
			return m.state.Discard(ctx, path, untracked)
		})

	case m.keyIs(msg, "commit"):
		m.commitOpen = true
		m.commitInput.SetValue("")
		m.commitInput.Focus()
		return m, textinput.Blink

	case m.keyIs(msg, "commit_ai"):
		if m.generator == nil {
			return m.reportErr(fmt.Errorf("commit assist: OPENROUTER_API_KEY is not set"))
		}
		return m, func() tea.Msg {
			ctx := context.Background()
			diff, err := m.state.StagedDiff(ctx)
			if err != nil {
				return assistDoneMsg{err: err}
			}
			message, err := m.generator.CommitMessage(ctx, diff)
			return assistDoneMsg{message: message, err: err}
		}

	case m.keyIs(msg, "push"):
		return m.startNetworkOp("push", m.state.Push)
	case m.keyIs(msg, "pull"):
		return m.startNetworkOp("pull", m.state.PullRebase)
	case m.keyIs(msg, "fetch"):
		return m.startNetworkOp("fetch", m.state.Fetch)

	case m.keyIs(msg, "branches"):
		return m, branchesCmd(m.state)
	case m.keyIs(msg, "stash"):
		return m, stashesCmd(m.state)
	case m.keyIs(msg, "history"):
		return m, historyCmd(m.state, historyLimit)

	case m.keyIs(msg, "stash_push"):
		return m, opCmd(context.Background(), "stash", func(ctx context.Context) error {
			return m.state.StashPush(ctx, "")
		})

	case m.keyIs(msg, "merge_continue"):
		snap := m.state.Snapshot()
		if snap.RebaseInProgress {
			return m, opCmd(context.Background(), "rebase continue", m.state.RebaseContinue)
		}
		if snap.MergeInProgress {
			return m, opCmd(context.Background(), "merge continue", m.state.MergeContinue)
		}
	case m.keyIs(msg, "merge_abort"):
		snap := m.state.Snapshot()
		if snap.RebaseInProgress {
			return m, opCmd(context.Background(), "rebase abort", m.state.RebaseAbort)
		}
		if snap.MergeInProgress {
			return m, opCmd(context.Background(), "merge abort", m.state.MergeAbort)
		}
	}

	return m, nil
}

// handleMouse scrolls whichever pane is active on wheel events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonWheelUp && msg.Button != tea.MouseButtonWheelDown {
		return m, nil
	}
	down := msg.Button == tea.MouseButtonWheelDown

	switch m.pane {
	case paneList:
		if down {
			m.cursor = minInt(m.cursor+1, maxInt(0, len(m.visibleEntries())-1))
		} else {
			m.cursor = maxInt(0, m.cursor-1)
		}
	case paneDiff:
		if down {
			m.scrollDown(len(m.state.ActiveRows()))
		} else {
			m.scrollUp()
		}
	case paneHistory:
		if down {
			m.commitCursor = minInt(m.commitCursor+1, maxInt(0, len(m.commits)-1))
		} else {
			m.commitCursor = maxInt(0, m.commitCursor-1)
		}
	case paneCommit:
		if down {
			m.scrollDown(commitDiffLineCount(m.commitFiles))
		} else {
			m.scrollUp()
		}
	default:
		if down {
			m.scrollDown(1 << 30)
		} else {
			m.scrollUp()
		}
	}
	return m, nil
}

// startNetworkOp launches an operation that may stall on the network.
// Only one runs at a time; esc cancels it.
func (m Model) startNetworkOp(name string, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	if m.busyOp != "" {
		return m.reportErr(fmt.Errorf("%s already running", m.busyOp))
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.busyOp = name
	m.cancelOp = cancel
	return m, opCmd(ctx, name, fn)
}

func (m Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.state.ActiveRows()

	switch {
	case m.keyIs(msg, "scroll_down"):
		m.scrollDown(len(rows))
	case m.keyIs(msg, "scroll_up"):
		m.scrollUp()
	case m.keyIs(msg, "page_down"):
		m.scrollPageDown(len(rows))
	case m.keyIs(msg, "page_up"):
		m.scrollPageUp()
	case m.keyIs(msg, "go_top"):
		m.viewport.offset = 0
	case m.keyIs(msg, "go_bottom"):
		m.viewport.offset = maxInt(0, len(rows)-m.viewport.height)
	case m.keyIs(msg, "toggle_unified"):
		m.unified = !m.unified
	case m.keyIs(msg, "toggle_line_num"):
		m.config.ShowLineNo = !m.config.ShowLineNo
	case m.keyIs(msg, "stage"):
		if _, entry := m.state.Selected(); entry != nil {
			path := entry.Path
			return m, opCmd(context.Background(), "stage", func(ctx context.Context) error {
				return m.state.Stage(ctx, path)
			})
		}
	}
	return m, nil
}

func (m Model) handleConflictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	file, parseErr := m.state.Conflict()
	if parseErr != nil || file == nil {
		if m.keyIs(msg, "back") {
			m.pane = paneList
		}
		return m, nil
	}
	sections := file.Sections()

	resolve := func(r conflict.Resolution) {
		if m.conflictCursor < len(sections) {
			sections[m.conflictCursor].Resolve(r)
		}
	}

	switch {
	case m.keyIs(msg, "next_conflict"):
		if m.conflictCursor < len(sections)-1 {
			m.conflictCursor++
		}
	case m.keyIs(msg, "prev_conflict"):
		if m.conflictCursor > 0 {
			m.conflictCursor--
		}
	case m.keyIs(msg, "accept_ours"):
		resolve(conflict.AcceptedOurs)
	case m.keyIs(msg, "accept_theirs"):
		resolve(conflict.AcceptedTheirs)
	case m.keyIs(msg, "accept_both"):
		resolve(conflict.AcceptedBoth)
	case m.keyIs(msg, "reset_section"):
		if m.conflictCursor < len(sections) {
			sections[m.conflictCursor].Reset()
		}
	case m.keyIs(msg, "edit_section"):
		if m.conflictCursor < len(sections) {
			return m.editSection(sections[m.conflictCursor], m.conflictCursor)
		}
	case m.keyIs(msg, "scroll_down"):
		m.scrollDown(1 << 30)
	case m.keyIs(msg, "scroll_up"):
		m.scrollUp()

	case m.keyIs(msg, "open"):
		if !file.Resolved() {
			return m.reportErr(fmt.Errorf("%d section(s) still unresolved", unresolvedCount(file)))
		}
		path := file.Path
		m.pane = paneList
		return m, opCmd(context.Background(), "resolve", func(ctx context.Context) error {
			if err := file.Apply(); err != nil {
				return err
			}
			rel := relToRepo(m.state.Dir(), path)
			return m.state.StageResolved(ctx, rel)
		})
	}
	return m, nil
}

// editSection suspends the TUI into $EDITOR on a scratch copy of the
// section's content, then pins the result as its custom resolution.
func (m Model) editSection(s *conflict.Section, idx int) (tea.Model, tea.Cmd) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	seed := s.Content()
	if seed == nil {
		// Unresolved sections start from both sides so nothing is lost.
		seed = append(append([]string(nil), s.Ours...), s.Theirs...)
	}
	tmp, err := os.CreateTemp("", "gitscope-section-*.txt")
	if err != nil {
		return m.reportErr(err)
	}
	text := strings.Join(seed, "\n")
	if text != "" {
		text += "\n"
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return m.reportErr(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return m.reportErr(err)
	}

	cmd := exec.Command(editor, tmp.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sectionEditedMsg{idx: idx, path: tmp.Name(), err: err}
	})
}

// applySectionEdit reads the scratch file back into the section.
func (m Model) applySectionEdit(msg sectionEditedMsg) (tea.Model, tea.Cmd) {
	data, readErr := os.ReadFile(msg.path)
	os.Remove(msg.path)
	if msg.err != nil {
		return m.reportErr(fmt.Errorf("editor: %w", msg.err))
	}
	if readErr != nil {
		return m.reportErr(readErr)
	}

	file, parseErr := m.state.Conflict()
	if parseErr != nil || file == nil {
		return m, nil
	}
	sections := file.Sections()
	if msg.idx < len(sections) {
		sections[msg.idx].SetEdited(splitEditedLines(data))
	}
	return m, nil
}

func splitEditedLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func (m Model) handleBranchesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keyIs(msg, "scroll_down"):
		if m.branchCursor < len(m.branches)-1 {
			m.branchCursor++
		}
	case m.keyIs(msg, "scroll_up"):
		if m.branchCursor > 0 {
			m.branchCursor--
		}
	case m.keyIs(msg, "open"):
		if m.branchCursor >= len(m.branches) {
			return m, nil
		}
		b := m.branches[m.branchCursor]
		m.pane = paneList
		if b.Remote {
			return m, opCmd(context.Background(), "checkout", func(ctx context.Context) error {
				return m.state.CheckoutRemote(ctx, b.Name)
			})
		}
		return m, opCmd(context.Background(), "checkout", func(ctx context.Context) error {
			return m.state.Checkout(ctx, b.Name)
		})
	}
	return m, nil
}

func (m Model) handleStashKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keyIs(msg, "scroll_down"):
		if m.stashCursor < len(m.stashes)-1 {
			m.stashCursor++
		}
	case m.keyIs(msg, "scroll_up"):
		if m.stashCursor > 0 {
			m.stashCursor--
		}
	case m.keyIs(msg, "open"):
		if m.stashCursor >= len(m.stashes) {
			return m, nil
		}
		ref := m.stashes[m.stashCursor].Ref
		m.pane = paneList
		return m, opCmd(context.Background(), "stash pop", func(ctx context.Context) error {
			return m.state.StashPop(ctx, ref)
		})
	case m.keyIs(msg, "stage"):
		if m.stashCursor >= len(m.stashes) {
			return m, nil
		}
		ref := m.stashes[m.stashCursor].Ref
		return m, opCmd(context.Background(), "stash apply", func(ctx context.Context) error {
			return m.state.StashApply(ctx, ref)
		})
	case m.keyIs(msg, "discard"):
		if m.stashCursor >= len(m.stashes) {
			return m, nil
		}
		ref := m.stashes[m.stashCursor].Ref
		return m, tea.Batch(
			opCmd(context.Background(), "stash drop", func(ctx context.Context) error {
				return m.state.StashDrop(ctx, ref)
			}),
			stashesCmd(m.state),
		)
	}
	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.keyIs(msg, "scroll_down"):
		if m.commitCursor < len(m.commits)-1 {
			m.commitCursor++
		}
	case m.keyIs(msg, "scroll_up"):
		if m.commitCursor > 0 {
			m.commitCursor--
		}
	case m.keyIs(msg, "go_top"):
		m.commitCursor = 0
	case m.keyIs(msg, "go_bottom"):
		m.commitCursor = maxInt(0, len(m.commits)-1)
	case m.keyIs(msg, "open"):
		if m.commitCursor < len(m.commits) {
			return m, commitDiffCmd(m.state, m.commits[m.commitCursor].Hash)
		}
	}
	// Keep the cursor visible.
	if m.commitCursor < m.viewport.offset {
		m.viewport.offset = m.commitCursor
	}
	if m.commitCursor >= m.viewport.offset+m.viewport.height {
		m.viewport.offset = m.commitCursor - m.viewport.height + 1
	}
	return m, nil
}

func (m Model) handleCommitDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := commitDiffLineCount(m.commitFiles)
	switch {
	case m.keyIs(msg, "scroll_down"):
		m.scrollDown(total)
	case m.keyIs(msg, "scroll_up"):
		m.scrollUp()
	case m.keyIs(msg, "page_down"):
		m.scrollPageDown(total)
	case m.keyIs(msg, "page_up"):
		m.scrollPageUp()
	case m.keyIs(msg, "go_top"):
		m.viewport.offset = 0
	case m.keyIs(msg, "go_bottom"):
		m.viewport.offset = maxInt(0, total-m.viewport.height)
	case m.keyIs(msg, "toggle_line_num"):
		m.config.ShowLineNo = !m.config.ShowLineNo
	}
	return m, nil
}

// commitDiffLineCount mirrors the detail view's rendered length for
// scroll bounds.
func commitDiffLineCount(files []gitparse.FileDiff) int {
	if len(files) == 0 {
		return 0
	}
	n := 1 // hash line
	for _, f := range files {
		n++ // file heading
		for _, h := range f.Hunks {
			n++ // hunk header
			for _, line := range h.Lines {
				if line.Kind != gitparse.LineMeta {
					n++
				}
			}
		}
	}
	return n
}

func (m Model) handleCommitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commitOpen = false
		m.commitInput.Blur()
		return m, nil
	case "enter":
		message := m.commitInput.Value()
		m.commitOpen = false
		m.commitInput.Blur()
		return m, opCmd(context.Background(), "commit", func(ctx context.Context) error {
			return m.state.Commit(ctx, message)
		})
	}

	var cmd tea.Cmd
	m.commitInput, cmd = m.commitInput.Update(msg)
	return m, cmd
}

// visibleEntries applies the section filter to the snapshot.
func (m Model) visibleEntries() []gitparse.FileEntry {
	entries := m.state.Snapshot().Entries
	if m.section == sectionAll {
		return entries
	}

	var out []gitparse.FileEntry
	for _, e := range entries {
		switch m.section {
		case sectionConflicts:
			if e.IsConflict() {
				out = append(out, e)
			}
		case sectionStaged:
			if e.Staged && !e.IsConflict() {
				out = append(out, e)
			}
		case sectionWorking:
			if e.Unstaged && !e.IsConflict() && e.Code != gitparse.Untracked {
				out = append(out, e)
			}
		case sectionUntracked:
			if e.Code == gitparse.Untracked {
				out = append(out, e)
			}
		}
	}
	return out
}

func (m Model) selectedEntry() *gitparse.FileEntry {
	entries := m.visibleEntries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return nil
	}
	e := entries[m.cursor]
	return &e
}

// selectInState maps the filtered cursor back to the snapshot index.
func (m *Model) selectInState(path string) {
	for i, e := range m.state.Snapshot().Entries {
		if e.Path == path {
			m.state.Select(i)
			return
		}
	}
}

func (m *Model) clampCursor() {
	if n := len(m.visibleEntries()); m.cursor >= n {
		m.cursor = maxInt(0, n-1)
	}
}

func (m Model) reportErr(err error) (tea.Model, tea.Cmd) {
	m.errText = err.Error()
	m.errSeq++
	return m, clearErrCmd(m.errSeq)
}

func unresolvedCount(f *conflict.File) int {
	n := 0
	for _, s := range f.Sections() {
		if s.Resolution() == conflict.Unresolved {
			n++
		}
	}
	return n
}

// Scroll functions
func (m *Model) scrollDown(total int) {
	maxOffset := maxInt(0, total-m.viewport.height)
	if m.viewport.offset < maxOffset {
		m.viewport.offset++
	}
}

func (m *Model) scrollUp() {
	if m.viewport.offset > 0 {
		m.viewport.offset--
	}
}

func (m *Model) scrollPageDown(total int) {
	halfPage := maxInt(1, m.viewport.height/2)
	m.viewport.offset = minInt(m.viewport.offset+halfPage, maxInt(0, total-m.viewport.height))
}

func (m *Model) scrollPageUp() {
	halfPage := maxInt(1, m.viewport.height/2)
	m.viewport.offset = maxInt(0, m.viewport.offset-halfPage)
}

// updateViewportHeight recalculates the content area from screen size and
// open panels
func (m *Model) updateViewportHeight() {
	baseHeight := m.height - 3 // title, status bar, error line
	if m.showHelp {
		baseHeight -= helpPanelHeight
	}
	if baseHeight < 5 {
		baseHeight = 5
	}
	m.viewport.height = baseHeight
}

const helpPanelHeight = 12

// Utility functions
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// relToRepo converts an absolute path back to the repo-relative form git
// subcommands expect.
func relToRepo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
