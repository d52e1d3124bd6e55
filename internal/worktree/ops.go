package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cj3636/gitscope/internal/gitexec"
)

// mutate invokes git and refreshes on success. On failure the prior
// snapshot stays in place and the invocation error propagates.
func (s *State) mutate(ctx context.Context, args ...string) error {
	if _, err := s.runner.Run(ctx, s.dir, "", args...); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Stage adds the path's changes to the index.
func (s *State) Stage(ctx context.Context, path string) error {
	return s.mutate(ctx, "add", "--", path)
}

// StageAll stages every change, including untracked files.
func (s *State) StageAll(ctx context.Context) error {
	return s.mutate(ctx, "add", "-A")
}

// Unstage removes the path's changes from the index.
func (s *State) Unstage(ctx context.Context, path string) error {
	return s.mutate(ctx, "restore", "--staged", "--", path)
}

// Discard throws away the path's working-tree changes. Untracked files
// are deleted since restore has nothing to restore them to.
func (s *State) Discard(ctx context.Context, path string, untracked bool) error {
	if untracked {
		return s.mutate(ctx, "clean", "-f", "--", path)
	}
	return s.mutate(ctx, "restore", "--", path)
}

// DiscardAll resets every tracked change, staged and unstaged.
func (s *State) DiscardAll(ctx context.Context) error {
	return s.mutate(ctx, "restore", "--staged", "--worktree", "--", ".")
}

// Commit records the staged changes. The message travels through a temp
// file so multi-line text never meets shell quoting.
func (s *State) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return &ValidationError{Op: "commit", Reason: "empty commit message"}
	}
	staged, err := s.hasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		return &ValidationError{Op: "commit", Reason: "nothing staged to commit"}
	}

	tmp, err := os.CreateTemp("", "commit-msg-*")
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(message); err != nil {
		tmp.Close()
		return fmt.Errorf("commit: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return s.mutate(ctx, "commit", "-F", tmp.Name())
}

// hasStagedChanges checks the index against HEAD. diff --cached --quiet
// exits 1 when staged changes exist.
func (s *State) hasStagedChanges(ctx context.Context) (bool, error) {
	_, err := s.runner.Run(ctx, s.dir, "", "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var inv *gitexec.InvocationError
	if errors.As(err, &inv) && inv.Kind == gitexec.KindExitError && inv.ExitCode == 1 {
		return true, nil
	}
	return false, err
}

// Checkout switches to a local branch.
func (s *State) Checkout(ctx context.Context, branch string) error {
	return s.mutate(ctx, "checkout", branch)
}

// CheckoutRemote creates a local tracking branch for a remote ref such as
// origin/feature and switches to it.
func (s *State) CheckoutRemote(ctx context.Context, remoteRef string) error {
	local := remoteRef
	if idx := strings.Index(remoteRef, "/"); idx >= 0 {
		local = remoteRef[idx+1:]
	}
	return s.mutate(ctx, "checkout", "--track", "-b", local, remoteRef)
}

// StageResolved stages a conflict path after its markers were resolved,
// moving it out of the unmerged set.
func (s *State) StageResolved(ctx context.Context, path string) error {
	return s.mutate(ctx, "add", "--", path)
}

// MergeContinue concludes an in-progress merge.
func (s *State) MergeContinue(ctx context.Context) error {
	return s.mutate(ctx, "merge", "--continue")
}

// MergeAbort abandons an in-progress merge.
func (s *State) MergeAbort(ctx context.Context) error {
	return s.mutate(ctx, "merge", "--abort")
}

// RebaseContinue resumes an in-progress rebase.
func (s *State) RebaseContinue(ctx context.Context) error {
	return s.mutate(ctx, "rebase", "--continue")
}

// RebaseAbort abandons an in-progress rebase.
func (s *State) RebaseAbort(ctx context.Context) error {
	return s.mutate(ctx, "rebase", "--abort")
}

// RebaseSkip drops the current patch and resumes the rebase.
func (s *State) RebaseSkip(ctx context.Context) error {
	return s.mutate(ctx, "rebase", "--skip")
}

// StashEntry is one line of `git stash list`.
type StashEntry struct {
	Ref     string // stash@{0}
	Subject string
}

// StashList returns the current stashes, newest first.
func (s *State) StashList(ctx context.Context) ([]StashEntry, error) {
	res, err := s.runner.Run(ctx, s.dir, "", "stash", "list", "--format=%gd\t%gs")
	if err != nil {
		return nil, err
	}

	var entries []StashEntry
	for _, line := range strings.Split(strings.TrimSpace(string(res.Stdout)), "\n") {
		if line == "" {
			continue
		}
		ref, subject, _ := strings.Cut(line, "\t")
		entries = append(entries, StashEntry{Ref: ref, Subject: subject})
	}
	return entries, nil
}

// StashPush stashes the current changes.
func (s *State) StashPush(ctx context.Context, message string) error {
	args := []string{"stash", "push"}
	if strings.TrimSpace(message) != "" {
		args = append(args, "-m", message)
	}
	return s.mutate(ctx, args...)
}

// StashApply applies a stash without dropping it.
func (s *State) StashApply(ctx context.Context, ref string) error {
	return s.mutate(ctx, "stash", "apply", ref)
}

// StashPop applies and drops a stash.
func (s *State) StashPop(ctx context.Context, ref string) error {
	return s.mutate(ctx, "stash", "pop", ref)
}

// StashDrop deletes a stash.
func (s *State) StashDrop(ctx context.Context, ref string) error {
	return s.mutate(ctx, "stash", "drop", ref)
}

// Fetch updates remote refs, pruning deleted ones. Network operation;
// callers run it off the event loop and may cancel it via ctx.
func (s *State) Fetch(ctx context.Context) error {
	return s.mutate(ctx, "fetch", "--prune")
}

// PullRebase fetches and rebases the current branch onto its upstream.
func (s *State) PullRebase(ctx context.Context) error {
	return s.mutate(ctx, "pull", "--rebase")
}

// Push publishes the current branch.
func (s *State) Push(ctx context.Context) error {
	return s.mutate(ctx, "push")
}
