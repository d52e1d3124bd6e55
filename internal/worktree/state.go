// Package worktree maintains an in-memory snapshot of a repository's
// working tree and the mutating operations that change it. Every mutation
// goes through git; the snapshot is always a full rebuild, never patched.
package worktree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cj3636/gitscope/internal/conflict"
	"github.com/cj3636/gitscope/internal/diffview"
	"github.com/cj3636/gitscope/internal/gitexec"
	"github.com/cj3636/gitscope/internal/gitparse"
)

// Snapshot is one consistent view of the working tree. Value semantics:
// readers receive a copy and never observe a partial rebuild.
type Snapshot struct {
	Branch           string
	Ahead, Behind    int
	Entries          []gitparse.FileEntry
	MergeInProgress  bool
	RebaseInProgress bool
}

// ViewKind selects which derived view the refresh keeps current.
type ViewKind int

const (
	ViewNone ViewKind = iota
	ViewDiff
	ViewConflict
)

// State owns the snapshot and the derived diff/conflict view for the
// selected entry. All access is mutex-guarded; mutation happens only
// through Refresh and the operation methods.
type State struct {
	runner gitexec.Runner
	dir    string

	mu             sync.Mutex
	snap           Snapshot
	selected       int
	view           ViewKind
	activeDiff     *gitparse.FileDiff
	activeRows     []diffview.Row
	activeConflict *conflict.File
	conflictErr    error

	refreshMu sync.Mutex
	inFlight  bool
	pending   bool
}

// New creates a State rooted at the repository containing dir.
func New(ctx context.Context, runner gitexec.Runner, dir string) (*State, error) {
	root, err := gitexec.RepoRoot(ctx, runner, dir)
	if err != nil {
		return nil, err
	}
	return &State{runner: runner, dir: root}, nil
}

// Dir returns the repository root the state operates on.
func (s *State) Dir() string { return s.dir }

// Snapshot returns a copy of the current snapshot.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	snap.Entries = append([]gitparse.FileEntry(nil), s.snap.Entries...)
	return snap
}

// Selected returns the selected index and the entry at it, if any.
func (s *State) Selected() (int, *gitparse.FileEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.snap.Entries) {
		return s.selected, nil
	}
	e := s.snap.Entries[s.selected]
	return s.selected, &e
}

// Select moves the selection. Out-of-range indices clamp.
func (s *State) Select(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.snap.Entries); n == 0 {
		s.selected = 0
	} else if i < 0 {
		s.selected = 0
	} else if i >= n {
		s.selected = n - 1
	} else {
		s.selected = i
	}
}

// ActiveRows returns the side-by-side rows of the open diff view.
func (s *State) ActiveRows() []diffview.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRows
}

// ActiveDiff returns the parsed diff behind the open diff view.
func (s *State) ActiveDiff() *gitparse.FileDiff {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDiff
}

// Conflict returns the parsed conflict file for the open resolution view,
// or the parse error that blocks it.
func (s *State) Conflict() (*conflict.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeConflict, s.conflictErr
}

// OpenDiff switches the derived view to the selected entry's diff and
// refreshes so the view is populated.
func (s *State) OpenDiff(ctx context.Context) error {
	s.mu.Lock()
	s.view = ViewDiff
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// OpenConflict switches to the conflict view for the selected entry.
func (s *State) OpenConflict(ctx context.Context) error {
	s.mu.Lock()
	s.view = ViewConflict
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// CloseView drops the derived view.
func (s *State) CloseView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewNone
	s.activeDiff = nil
	s.activeRows = nil
	s.activeConflict = nil
	s.conflictErr = nil
}

// Refresh rebuilds the snapshot. Concurrent calls are serialized: a call
// arriving while a rebuild is in flight marks a single pending rebuild,
// so any burst of requests collapses into exactly one trailing refresh.
func (s *State) Refresh(ctx context.Context) error {
	if !s.beginRefresh() {
		return nil
	}
	var err error
	for {
		err = s.refreshOnce(ctx)
		if !s.endRefresh() {
			return err
		}
	}
}

func (s *State) beginRefresh() bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if s.inFlight {
		s.pending = true
		return false
	}
	s.inFlight = true
	return true
}

// endRefresh reports whether a pending request arrived during the rebuild.
func (s *State) endRefresh() bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if s.pending {
		s.pending = false
		return true
	}
	s.inFlight = false
	return false
}

func (s *State) refreshOnce(ctx context.Context) error {
	res, err := s.runner.Run(ctx, s.dir, "", "status", "--porcelain=v1", "-z", "-b")
	if err != nil {
		return err
	}
	status, err := gitparse.ParseStatus(res.Stdout)
	if err != nil {
		return err
	}
	sortEntries(status.Entries)

	snap := Snapshot{
		Branch:           status.Branch,
		Ahead:            status.Ahead,
		Behind:           status.Behind,
		Entries:          status.Entries,
		MergeInProgress:  s.mergeInProgress(ctx),
		RebaseInProgress: s.rebaseInProgress(ctx),
	}

	s.mu.Lock()
	view := s.view
	selected := s.selected
	s.mu.Unlock()

	if selected >= len(snap.Entries) {
		selected = len(snap.Entries) - 1
	}
	if selected < 0 {
		selected = 0
	}

	var (
		diff    *gitparse.FileDiff
		rows    []diffview.Row
		conf    *conflict.File
		confErr error
	)
	if selected < len(snap.Entries) {
		entry := &snap.Entries[selected]
		switch view {
		case ViewDiff:
			var derr error
			diff, derr = s.entryDiff(ctx, entry)
			if derr != nil {
				// The list still renders; only this preview is lost.
				entry.PreviewUnavailable = true
				diff = nil
			} else if diff != nil {
				rows = diffview.BuildRows(diff)
			}
		case ViewConflict:
			conf, confErr = conflict.ParseFile(filepath.Join(s.dir, entry.Path))
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.selected = selected
	s.activeDiff = diff
	s.activeRows = rows
	s.activeConflict = conf
	s.conflictErr = confErr
	s.mu.Unlock()

	return nil
}

// entryDiff fetches and parses the diff for one entry. Staged-only
// entries diff against the index, untracked files against /dev/null.
func (s *State) entryDiff(ctx context.Context, e *gitparse.FileEntry) (*gitparse.FileDiff, error) {
	var args []string
	switch {
	case e.Code == gitparse.Untracked:
		args = []string{"diff", "--no-color", "--no-ext-diff", "--no-index", "--", "/dev/null", e.Path}
	case e.Staged && !e.Unstaged:
		args = []string{"diff", "--no-color", "--no-ext-diff", "--cached", "--", e.Path}
	default:
		args = []string{"diff", "--no-color", "--no-ext-diff", "--", e.Path}
	}

	res, err := s.runner.Run(ctx, s.dir, "", args...)
	if err != nil {
		// diff --no-index reports differences through exit code 1.
		var inv *gitexec.InvocationError
		if !errors.As(err, &inv) || inv.Kind != gitexec.KindExitError || inv.ExitCode != 1 {
			return nil, err
		}
	}
	return gitparse.ParseFileDiff(res.Stdout)
}

func (s *State) mergeInProgress(ctx context.Context) bool {
	_, err := s.runner.Run(ctx, s.dir, "", "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

func (s *State) rebaseInProgress(ctx context.Context) bool {
	for _, name := range []string{"rebase-merge", "rebase-apply"} {
		res, err := s.runner.Run(ctx, s.dir, "", "rev-parse", "--git-path", name)
		if err != nil {
			continue
		}
		path := strings.TrimSpace(string(res.Stdout))
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// sortEntries orders conflicts first, then staged, working-tree changes
// and untracked files, alphabetical within each group.
func sortEntries(entries []gitparse.FileEntry) {
	group := func(e gitparse.FileEntry) int {
		switch {
		case e.IsConflict():
			return 0
		case e.Staged:
			return 1
		case e.Code != gitparse.Untracked:
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		gi, gj := group(entries[i]), group(entries[j])
		if gi != gj {
			return gi < gj
		}
		return entries[i].Path < entries[j].Path
	})
}
