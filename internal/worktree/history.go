package worktree

import (
	"context"
	"fmt"
	"strings"

	"github.com/cj3636/gitscope/internal/gitparse"
)

// Commit is one history entry.
type Commit struct {
	Hash      string
	ShortHash string
	Date      string
	Author    string
	Subject   string
	Refs      string // decoration, e.g. (HEAD -> main, origin/main)
}

// History returns up to max commits reachable from HEAD, newest first.
func (s *State) History(ctx context.Context, max int) ([]Commit, error) {
	args := []string{
		"log",
		fmt.Sprintf("--max-count=%d", max),
		"--date=short",
		"--pretty=format:%H\t%h\t%ad\t%an\t%s\t%d",
	}
	res, err := s.runner.Run(ctx, s.dir, "", args...)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 6)
		if len(parts) < 5 {
			continue
		}
		c := Commit{
			Hash:      parts[0],
			ShortHash: parts[1],
			Date:      parts[2],
			Author:    parts[3],
			Subject:   parts[4],
		}
		if len(parts) == 6 {
			c.Refs = strings.TrimSpace(parts[5])
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// Branch is one local or remote branch.
type Branch struct {
	Name    string
	Remote  bool
	Current bool
}

// Branches lists local then remote branches, most recently committed
// first within each group. Symbolic refs like origin/HEAD are skipped.
func (s *State) Branches(ctx context.Context) ([]Branch, error) {
	res, err := s.runner.Run(ctx, s.dir, "",
		"for-each-ref", "--sort=-committerdate",
		"--format=%(refname)\t%(HEAD)",
		"refs/heads", "refs/remotes")
	if err != nil {
		return nil, err
	}

	var locals, remotes []Branch
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ref, head, _ := strings.Cut(line, "\t")
		current := strings.TrimSpace(head) == "*"
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			locals = append(locals, Branch{
				Name:    strings.TrimPrefix(ref, "refs/heads/"),
				Current: current,
			})
		case strings.HasPrefix(ref, "refs/remotes/"):
			name := strings.TrimPrefix(ref, "refs/remotes/")
			// origin/HEAD is a symbolic pointer, not a branch.
			if strings.HasSuffix(name, "/HEAD") {
				continue
			}
			remotes = append(remotes, Branch{Name: name, Remote: true})
		}
	}
	return append(locals, remotes...), nil
}

// StagedDiff returns the full staged diff text, the input for commit
// message generation.
func (s *State) StagedDiff(ctx context.Context) (string, error) {
	res, err := s.runner.Run(ctx, s.dir, "", "diff", "--cached", "--no-color", "--no-ext-diff")
	if err != nil {
		return "", err
	}
	return string(res.Stdout), nil
}

// CommitDiff returns the parsed patch a single commit introduced.
func (s *State) CommitDiff(ctx context.Context, hash string) ([]gitparse.FileDiff, error) {
	res, err := s.runner.Run(ctx, s.dir, "", "show", "--no-color", "--no-ext-diff", "--format=", hash)
	if err != nil {
		return nil, err
	}
	return gitparse.ParseDiff(res.Stdout)
}
