// Package gitexec runs git commands with a deterministic, non-interactive
// environment and captures their output. All repository access in gitscope
// funnels through here; nothing else spawns processes.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Result carries the captured streams and exit code of one invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes git with the given arguments inside dir. Implementations
// must never block on interactive input; a suppressed prompt surfaces as an
// *InvocationError with KindAuthRequired.
type Runner interface {
	Run(ctx context.Context, dir string, stdin string, args ...string) (Result, error)
}

// nonInteractiveEnv disables every prompt and pager git knows about.
var nonInteractiveEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GCM_INTERACTIVE=never",
	"GIT_PAGER=cat",
	"PAGER=cat",
	"GIT_EDITOR=:",
	"EDITOR=:",
	"GIT_SEQUENCE_EDITOR=:",
	"GIT_MERGE_AUTOEDIT=no",
}

// GitRunner is the default Runner backed by the installed git binary.
type GitRunner struct {
	// GitPath overrides the binary name, mainly for tests.
	GitPath string
}

// New returns a Runner that shells out to "git".
func New() *GitRunner {
	return &GitRunner{GitPath: "git"}
}

func (r *GitRunner) Run(ctx context.Context, dir string, stdin string, args ...string) (Result, error) {
	bin := r.GitPath
	if bin == "" {
		bin = "git"
	}

	full := args
	if dir != "" {
		full = append([]string{"-C", dir}, args...)
	}

	cmd := exec.CommandContext(ctx, bin, full...)
	cmd.Env = buildEnv(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	runErr := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if runErr == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, &InvocationError{
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Kind:     KindCanceled,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &InvocationError{
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
			Kind:     classifyExit(stderr.String()),
		}
	}

	return res, &InvocationError{
		Args:     args,
		ExitCode: -1,
		Stderr:   runErr.Error(),
		Kind:     KindStartFailed,
	}
}

// buildEnv appends the non-interactive overrides to base. Later entries win
// in exec's environment handling, so the overrides always take effect.
func buildEnv(base []string) []string {
	env := make([]string, 0, len(base)+len(nonInteractiveEnv))
	env = append(env, base...)
	env = append(env, nonInteractiveEnv...)
	return env
}

// RepoRoot resolves the repository top level for path.
func RepoRoot(ctx context.Context, r Runner, path string) (string, error) {
	res, err := r.Run(ctx, path, "", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}
