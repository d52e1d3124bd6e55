package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/cj3636/gitscope/internal/gitparse"
)

// Format represents the desired export format.
type Format string

const (
	// FormatHTML emits an HTML document for the diff.
	FormatHTML Format = "html"
	// FormatMarkdown emits a Markdown diff code block.
	FormatMarkdown Format = "markdown"
	// FormatANSI emits an ANSI-colored string.
	FormatANSI Format = "ansi"
)

// Options control how a diff is exported.
type Options struct {
	// Title will be shown in HTML/Markdown outputs when provided.
	Title string
	// ShowLineNumbers determines whether line numbers are included.
	ShowLineNumbers bool
}

// Render returns the file diffs in the requested format.
func Render(files []gitparse.FileDiff, format Format, opts Options) (string, error) {
	if len(files) == 0 {
		return "", errors.New("nothing to export")
	}

	switch strings.ToLower(string(format)) {
	case string(FormatHTML):
		return renderHTML(files, opts), nil
	case string(FormatMarkdown), "md":
		return renderMarkdown(files, opts), nil
	case string(FormatANSI), "text":
		return renderANSI(files, opts), nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func renderHTML(files []gitparse.FileDiff, opts Options) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	b.WriteString("<style>body{background:#0f111a;color:#e5e7eb;font-family:Menlo,Consolas,monospace;}" +
		"pre{white-space:pre-wrap;word-wrap:break-word;}" +
		".added{background:#12281a;color:#8dd39e;}" +
		".removed{background:#2b1313;color:#f19999;}" +
		".unchanged{color:#cbd5e1;}" +
		".hunk{color:#7aa2f7;}" +
		".lineno{color:#9ca3af;margin-right:12px;}" +
		"h1{font-size:18px;margin-bottom:12px;}" +
		"h2{font-size:15px;margin:16px 0 4px;}" +
		"</style></head><body>")

	if opts.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(opts.Title))
	}

	for _, f := range files {
		fmt.Fprintf(&b, "<h2>%s</h2>\n<pre>", html.EscapeString(fileHeading(&f)))
		if f.Binary {
			b.WriteString("<div class=\"unchanged\">(binary file)</div>\n")
		}
		for _, h := range f.Hunks {
			fmt.Fprintf(&b, "<div class=\"hunk\">%s</div>\n", html.EscapeString(hunkHeading(&h)))
			for _, line := range h.Lines {
				if line.Kind == gitparse.LineMeta {
					continue
				}
				class, symbol := classifyLine(line.Kind)
				prefix := symbol
				if opts.ShowLineNumbers {
					prefix = fmt.Sprintf("%s %s %s", renderLineNoHTML(line.OldNo), renderLineNoHTML(line.NewNo), symbol)
				}
				fmt.Fprintf(&b, "<div class=\"%s\">%s%s</div>\n", class, prefix, html.EscapeString(line.Content))
			}
		}
		b.WriteString("</pre>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func renderLineNoHTML(no int) string {
	if no <= 0 {
		return "<span class=\"lineno\">&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;</span>"
	}
	return fmt.Sprintf("<span class=\"lineno\">%5d</span>", no)
}

func renderMarkdown(files []gitparse.FileDiff, opts Options) string {
	var b strings.Builder

	if opts.Title != "" {
		b.WriteString("# ")
		b.WriteString(opts.Title)
		b.WriteString("\n\n")
	}

	for _, f := range files {
		fmt.Fprintf(&b, "## %s\n\n", fileHeading(&f))
		if f.Binary {
			b.WriteString("(binary file)\n\n")
			continue
		}
		b.WriteString("```diff\n")
		for _, h := range f.Hunks {
			b.WriteString(hunkHeading(&h))
			b.WriteByte('\n')
			for _, line := range h.Lines {
				if line.Kind == gitparse.LineMeta {
					continue
				}
				symbol := lineSymbol(line.Kind)
				if opts.ShowLineNumbers {
					fmt.Fprintf(&b, "%s %5s %5s %s\n", symbol, renderLineNo(line.OldNo), renderLineNo(line.NewNo), line.Content)
				} else {
					fmt.Fprintf(&b, "%s%s\n", symbol, line.Content)
				}
			}
		}
		b.WriteString("```\n\n")
	}
	return b.String()
}

func renderANSI(files []gitparse.FileDiff, opts Options) string {
	const reset = "[0m"
	var b strings.Builder

	if opts.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", opts.Title)
	}

	for _, f := range files {
		fmt.Fprintf(&b, "[1m%s%s\n", fileHeading(&f), reset)
		if f.Binary {
			b.WriteString("(binary file)\n")
			continue
		}
		for _, h := range f.Hunks {
			fmt.Fprintf(&b, "[36m%s%s\n", hunkHeading(&h), reset)
			for _, line := range h.Lines {
				if line.Kind == gitparse.LineMeta {
					continue
				}
				symbol := lineSymbol(line.Kind)
				color := ansiColor(line.Kind)
				if opts.ShowLineNumbers {
					prefix := fmt.Sprintf("%s %s %s", renderLineNoColored(line.OldNo), renderLineNoColored(line.NewNo), color+symbol+reset)
					fmt.Fprintf(&b, "%s %s%s%s\n", prefix, color, line.Content, reset)
				} else {
					fmt.Fprintf(&b, "%s%s%s%s\n", color, symbol, line.Content, reset)
				}
			}
		}
	}
	return b.String()
}

func fileHeading(f *gitparse.FileDiff) string {
	switch {
	case f.Status == gitparse.Renamed && f.OldPath != "":
		return fmt.Sprintf("%s -> %s", f.OldPath, f.Path)
	case f.Status == gitparse.Added:
		return f.Path + " (new)"
	case f.Status == gitparse.Deleted:
		return f.Path + " (deleted)"
	default:
		return f.Path
	}
}

func hunkHeading(h *gitparse.Hunk) string {
	heading := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
	if h.Header != "" {
		heading += " " + h.Header
	}
	return heading
}

func classifyLine(k gitparse.LineKind) (class, symbol string) {
	switch k {
	case gitparse.LineAdded:
		return "added", "+"
	case gitparse.LineRemoved:
		return "removed", "-"
	default:
		return "unchanged", " "
	}
}

func lineSymbol(k gitparse.LineKind) string {
	switch k {
	case gitparse.LineAdded:
		return "+"
	case gitparse.LineRemoved:
		return "-"
	default:
		return " "
	}
}

func renderLineNo(no int) string {
	if no <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", no)
}

func renderLineNoColored(no int) string {
	if no <= 0 {
		return "     "
	}
	return fmt.Sprintf("[90m%5d[0m", no)
}

func ansiColor(k gitparse.LineKind) string {
	switch k {
	case gitparse.LineAdded:
		return "[32m"
	case gitparse.LineRemoved:
		return "[31m"
	default:
		return "[37m"
	}
}
