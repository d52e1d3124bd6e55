package worktree

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cj3636/gitscope/internal/gitexec"
	"github.com/cj3636/gitscope/internal/gitparse"
)

// fakeRunner routes invocations to a handler and records every call.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	handler func(args []string) (gitexec.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ string, args ...string) (gitexec.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	return f.handler(args)
}

func (f *fakeRunner) countCalls(subcommand string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) > 0 && c[0] == subcommand {
			n++
		}
	}
	return n
}

func exitErr(args []string, code int, stderr string) error {
	return &gitexec.InvocationError{
		Args:     args,
		ExitCode: code,
		Stderr:   stderr,
		Kind:     gitexec.KindExitError,
	}
}

// quietHandler answers the detection checks a refresh always makes:
// no merge in progress, no rebase directories.
func quietHandler(args []string, statusOut string) (gitexec.Result, bool) {
	if args[0] != "rev-parse" {
		if args[0] == "status" {
			return gitexec.Result{Stdout: []byte(statusOut)}, true
		}
		return gitexec.Result{}, false
	}
	if args[len(args)-1] == "MERGE_HEAD" {
		return gitexec.Result{}, false
	}
	return gitexec.Result{Stdout: []byte("no-such-dir\n")}, true
}

func newTestState(handler func(args []string) (gitexec.Result, error)) (*State, *fakeRunner) {
	f := &fakeRunner{handler: handler}
	s := &State{runner: f, dir: "/repo"}
	return s, f
}

func TestRefreshBuildsSortedSnapshot(t *testing.T) {
	status := strings.Join([]string{
		"## main...origin/main [ahead 1]",
		"?? zz.txt",
		" M edited.go",
		"UU conflicted.go",
		"A  staged.go",
	}, "\x00") + "\x00"

	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		if res, ok := quietHandler(args, status); ok {
			return res, nil
		}
		if args[0] == "rev-parse" {
			return gitexec.Result{}, exitErr(args, 1, "")
		}
		return gitexec.Result{}, nil
	})

	require.NoError(t, s.Refresh(context.Background()))

	snap := s.Snapshot()
	require.Equal(t, "main", snap.Branch)
	require.Equal(t, 1, snap.Ahead)
	require.False(t, snap.MergeInProgress)
	require.False(t, snap.RebaseInProgress)

	var paths []string
	for _, e := range snap.Entries {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"conflicted.go", "staged.go", "edited.go", "zz.txt"}, paths)
}

func TestRefreshDetectsMergeInProgress(t *testing.T) {
	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		if args[0] == "status" {
			return gitexec.Result{Stdout: []byte("UU f.go\x00")}, nil
		}
		if args[0] == "rev-parse" && args[len(args)-1] == "MERGE_HEAD" {
			return gitexec.Result{Stdout: []byte("abc123\n")}, nil
		}
		return gitexec.Result{Stdout: []byte("no-such-dir\n")}, nil
	})

	require.NoError(t, s.Refresh(context.Background()))
	require.True(t, s.Snapshot().MergeInProgress)
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	good := "## main\x00M  ok.go\x00"
	fail := false
	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		if args[0] == "status" {
			if fail {
				return gitexec.Result{}, exitErr(args, 128, "fatal: not a git repository")
			}
			return gitexec.Result{Stdout: []byte(good)}, nil
		}
		if res, ok := quietHandler(args, ""); ok {
			return res, nil
		}
		return gitexec.Result{}, exitErr(args, 1, "")
	})

	require.NoError(t, s.Refresh(context.Background()))
	require.Equal(t, "main", s.Snapshot().Branch)

	fail = true
	require.Error(t, s.Refresh(context.Background()))
	require.Equal(t, "main", s.Snapshot().Branch)
	require.Len(t, s.Snapshot().Entries, 1)
}

func TestRefreshCoalescesConcurrentRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	s, f := newTestState(nil)
	f.handler = func(args []string) (gitexec.Result, error) {
		if args[0] == "status" {
			once.Do(func() {
				close(started)
				<-release
			})
			return gitexec.Result{Stdout: []byte("## main\x00")}, nil
		}
		return gitexec.Result{}, exitErr(args, 1, "")
	}

	done := make(chan error)
	go func() { done <- s.Refresh(context.Background()) }()

	<-started
	// Burst of requests while the first rebuild is blocked.
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Refresh(context.Background()))
	}
	close(release)
	require.NoError(t, <-done)

	// One blocked rebuild plus exactly one trailing rebuild.
	require.Equal(t, 2, f.countCalls("status"))
}

func TestRefreshSequentialCallsEachRun(t *testing.T) {
	s, f := newTestState(func(args []string) (gitexec.Result, error) {
		if args[0] == "status" {
			return gitexec.Result{Stdout: []byte("## main\x00")}, nil
		}
		return gitexec.Result{}, exitErr(args, 1, "")
	})

	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.Refresh(context.Background()))
	require.Equal(t, 2, f.countCalls("status"))
}

func TestOpenDiffMarksPreviewUnavailableOnBadOutput(t *testing.T) {
	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		switch args[0] {
		case "status":
			return gitexec.Result{Stdout: []byte("## main\x00 M broken.go\x00")}, nil
		case "diff":
			return gitexec.Result{Stdout: []byte("garbage that is not a diff\n")}, nil
		default:
			return gitexec.Result{}, exitErr(args, 1, "")
		}
	})

	require.NoError(t, s.OpenDiff(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Entries, 1)
	require.True(t, snap.Entries[0].PreviewUnavailable)
	require.Nil(t, s.ActiveDiff())
	require.Empty(t, s.ActiveRows())
}

func TestOpenDiffBuildsRows(t *testing.T) {
	diffOut := "diff --git a/f.go b/f.go\n--- a/f.go\n+++ b/f.go\n@@ -1 +1 @@\n-old\n+new\n"
	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		switch args[0] {
		case "status":
			return gitexec.Result{Stdout: []byte("## main\x00 M f.go\x00")}, nil
		case "diff":
			return gitexec.Result{Stdout: []byte(diffOut)}, nil
		default:
			return gitexec.Result{}, exitErr(args, 1, "")
		}
	})

	require.NoError(t, s.OpenDiff(context.Background()))
	require.NotNil(t, s.ActiveDiff())
	require.Len(t, s.ActiveRows(), 1)
	require.Equal(t, "old", s.ActiveRows()[0].Left.Text)
	require.Equal(t, "new", s.ActiveRows()[0].Right.Text)
}

func TestSelectClamps(t *testing.T) {
	s, _ := newTestState(func(args []string) (gitexec.Result, error) {
		if args[0] == "status" {
			return gitexec.Result{Stdout: []byte("## main\x00 M a.go\x00 M b.go\x00")}, nil
		}
		return gitexec.Result{}, exitErr(args, 1, "")
	})
	require.NoError(t, s.Refresh(context.Background()))

	s.Select(99)
	idx, e := s.Selected()
	require.Equal(t, 1, idx)
	require.NotNil(t, e)

	s.Select(-3)
	idx, _ = s.Selected()
	require.Equal(t, 0, idx)
}

func TestSortEntriesGroups(t *testing.T) {
	entries := []gitparse.FileEntry{
		{Path: "b-untracked", Code: gitparse.Untracked, Unstaged: true},
		{Path: "a-working", Code: gitparse.Modified, Unstaged: true},
		{Path: "c-staged", Code: gitparse.Added, Staged: true},
		{Path: "d-conflict", Code: gitparse.Conflicted},
	}
	sortEntries(entries)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	require.Equal(t, []string{"d-conflict", "c-staged", "a-working", "b-untracked"}, paths)
}

func TestWatcherCloseEndsEvents(t *testing.T) {
	w, err := Watch(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		require.False(t, ok, "events channel should close after Close")
	case <-time.After(time.Second):
		t.Fatal("events channel left open after Close")
	}
}

func TestWatcherSignalBuffering(t *testing.T) {
	w := &Watcher{events: make(chan struct{}, 1)}

	// Simulate the loop's non-blocking send under a burst.
	for i := 0; i < 3; i++ {
		select {
		case w.events <- struct{}{}:
		default:
		}
	}

	select {
	case <-w.Events():
	case <-time.After(time.Second):
		t.Fatal("expected one pending signal")
	}
	select {
	case <-w.Events():
		t.Fatal("burst should collapse into a single signal")
	default:
	}
}
