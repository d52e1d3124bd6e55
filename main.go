package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/cj3636/gitscope/internal/assist"
	"github.com/cj3636/gitscope/internal/config"
	"github.com/cj3636/gitscope/internal/export"
	"github.com/cj3636/gitscope/internal/gitexec"
	"github.com/cj3636/gitscope/internal/gitparse"
	"github.com/cj3636/gitscope/internal/tui"
	"github.com/cj3636/gitscope/internal/worktree"
)

var (
	showVersion  bool
	noLineNumber bool
	tabSize      int
	themeName    string
	highContrast bool
	noWatch      bool
	exportFormat string
	exportFile   string
	exportCopy   bool
	help         bool
)

func init() {
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVarP(&noLineNumber, "no-line-numbers", "n", false, "Hide line numbers")
	flag.IntVarP(&tabSize, "tab-size", "t", 4, "Set tab size")
	flag.StringVar(&themeName, "theme", "default", "Color theme: default, solarized, dracula")
	flag.BoolVar(&highContrast, "high-contrast", false, "Brighten the theme for low-color terminals")
	flag.BoolVar(&noWatch, "no-watch", false, "Disable automatic refresh on repository changes")
	flag.StringVar(&exportFormat, "export-format", "", "Export the staged diff as html, markdown, or ansi without launching the TUI")
	flag.StringVar(&exportFile, "export-file", "", "Write exported diff to the provided file path")
	flag.BoolVar(&exportCopy, "export-copy", false, "Copy the exported diff to your clipboard")
	flag.BoolVarP(&help, "help", "h", false, "Show help information")
	flag.Usage = usage
}

func usage() {
	fmt.Println("gitscope - A terminal git client built with Charm libraries")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  gitscope [options] [repository path]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  gitscope                                  # Open the repository at the current directory")
	fmt.Println("  gitscope ~/src/project                    # Open another repository")
	fmt.Println("  gitscope --theme dracula --high-contrast  # Pick a theme")
	fmt.Println("  gitscope --export-format html --export-file staged.html # Export staged diff without TUI")
	fmt.Println("")
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  j/↓ k/↑  Move")
	fmt.Println("  enter    Open diff / resolve conflict")
	fmt.Println("  tab      Cycle sections (all/conflicts/staged/working/untracked)")
	fmt.Println("  s / u    Stage / unstage the selected file")
	fmt.Println("  x        Discard the selected file's changes")
	fmt.Println("  c / C    Commit / commit with an AI-drafted message")
	fmt.Println("  P / p / f  Push / pull --rebase / fetch --prune")
	fmt.Println("  B / z / H  Branches / stashes / history")
	fmt.Println("  v        Toggle unified and side-by-side diff view")
	fmt.Println("  r        Refresh")
	fmt.Println("  ?        Toggle help panel")
	fmt.Println("  q        Quit")
	fmt.Println("")
	fmt.Println("Set OPENROUTER_API_KEY to enable AI commit messages (OPENROUTER_MODEL to pick one).")
}

func parseExportFormat(raw string) (export.Format, error) {
	switch strings.ToLower(raw) {
	case "", string(export.FormatMarkdown), "md":
		return export.FormatMarkdown, nil
	case string(export.FormatHTML), "htm":
		return export.FormatHTML, nil
	case string(export.FormatANSI), "text":
		return export.FormatANSI, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", raw)
	}
}

// exportStagedDiff renders the staged diff and writes it where requested.
func exportStagedDiff(ctx context.Context, state *worktree.State, cfg *config.Config) error {
	format, err := parseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	raw, err := state.StagedDiff(ctx)
	if err != nil {
		return err
	}
	files, err := gitparse.ParseDiff([]byte(raw))
	if err != nil {
		return err
	}

	rendered, err := export.Render(files, format, export.Options{
		Title:           "Staged changes: " + filepath.Base(state.Dir()),
		ShowLineNumbers: cfg.ShowLineNo,
	})
	if err != nil {
		return err
	}

	if exportFile != "" {
		if err := os.WriteFile(exportFile, []byte(rendered), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Diff saved to %s\n", exportFile)
	}
	if exportCopy {
		if err := export.CopyToClipboard(rendered, os.Stdout); err != nil {
			return err
		}
		fmt.Println("Diff copied to clipboard.")
	}
	if exportFile == "" && !exportCopy {
		fmt.Println(rendered)
	}
	return nil
}

func main() {
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Println("gitscope version 0.1.0")
		fmt.Println("A terminal git client built with Charm libraries")
		os.Exit(0)
	}

	repoPath := "."
	if args := flag.Args(); len(args) > 0 {
		repoPath = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.ThemePreset = config.ThemePreset(themeName)
	cfg.HighContrast = highContrast
	cfg.Theme = config.ThemeForPreset(cfg.ThemePreset, highContrast)
	cfg.ShowLineNo = !noLineNumber
	cfg.TabSize = tabSize

	ctx := context.Background()
	runner := gitexec.New()

	state, err := worktree.New(ctx, runner, repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: not a git repository: %v\n", err)
		os.Exit(1)
	}

	if exportFormat != "" || exportFile != "" || exportCopy {
		if err := exportStagedDiff(ctx, state, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting diff: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var generator assist.Generator
	if assistCfg, err := assist.ConfigFromEnv(); err == nil {
		generator = assist.NewOpenRouter(assistCfg)
	}

	var watcher *worktree.Watcher
	if !noWatch {
		// Best effort; manual refresh still works without it.
		watcher, _ = worktree.Watch(filepath.Join(state.Dir(), ".git"))
	}

	model := tui.NewModel(state, generator, watcher, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
