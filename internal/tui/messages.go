package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cj3636/gitscope/internal/gitparse"
	"github.com/cj3636/gitscope/internal/worktree"
)

// refreshDoneMsg reports a completed snapshot rebuild.
type refreshDoneMsg struct {
	err error
}

// opDoneMsg reports a completed mutating operation.
type opDoneMsg struct {
	op  string
	err error
}

// assistDoneMsg carries a generated commit message.
type assistDoneMsg struct {
	message string
	err     error
}

// watchEventMsg signals a repository metadata change.
type watchEventMsg struct{}

// sectionEditedMsg returns control after an external editor run on a
// conflict section's scratch file.
type sectionEditedMsg struct {
	idx  int
	path string
	err  error
}

type branchesMsg struct {
	branches []worktree.Branch
	err      error
}

type stashesMsg struct {
	stashes []worktree.StashEntry
	err     error
}

type historyMsg struct {
	commits []worktree.Commit
	err     error
}

// commitDiffMsg carries one commit's parsed patch for the detail view.
type commitDiffMsg struct {
	hash  string
	files []gitparse.FileDiff
	err   error
}

// clearErrMsg expires the transient error line.
type clearErrMsg struct {
	seq int
}

func refreshCmd(state *worktree.State) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: state.Refresh(context.Background())}
	}
}

// opCmd runs a mutation off the event loop and reports its outcome. The
// snapshot swap already happened inside fn by the time the message lands.
func opCmd(ctx context.Context, op string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func branchesCmd(state *worktree.State) tea.Cmd {
	return func() tea.Msg {
		branches, err := state.Branches(context.Background())
		return branchesMsg{branches: branches, err: err}
	}
}

func stashesCmd(state *worktree.State) tea.Cmd {
	return func() tea.Msg {
		stashes, err := state.StashList(context.Background())
		return stashesMsg{stashes: stashes, err: err}
	}
}

func historyCmd(state *worktree.State, max int) tea.Cmd {
	return func() tea.Msg {
		commits, err := state.History(context.Background(), max)
		return historyMsg{commits: commits, err: err}
	}
}

func commitDiffCmd(state *worktree.State, hash string) tea.Cmd {
	return func() tea.Msg {
		files, err := state.CommitDiff(context.Background(), hash)
		return commitDiffMsg{hash: hash, files: files, err: err}
	}
}

// watchCmd blocks on the next watcher signal. Update re-issues it after
// each delivery so there is always one listener.
func watchCmd(w *worktree.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

func clearErrCmd(seq int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearErrMsg{seq: seq}
	})
}
