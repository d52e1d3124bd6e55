package gitparse

import (
	"regexp"
	"strconv"
	"strings"
)

// LineKind classifies one line within a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
	LineMeta
)

// Line is a single diff line. OldNo/NewNo are zero when not applicable.
type Line struct {
	Kind    LineKind
	Content string
	OldNo   int
	NewNo   int
}

// Hunk is a contiguous block of diff lines with its header ranges.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Header             string // trailing section heading from the @@ line
	Lines              []Line
}

// FileDiff is the parsed diff of one file.
type FileDiff struct {
	Path    string
	OldPath string
	Status  Code
	Binary  bool
	Hunks   []Hunk
}

// HasChanges reports whether any hunk carries an added or removed line.
func (d *FileDiff) HasChanges() bool {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			if l.Kind == LineAdded || l.Kind == LineRemoved {
				return true
			}
		}
	}
	return false
}

// Stats counts added and removed lines across all hunks.
func (d *FileDiff) Stats() (added, removed int) {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// extended header lines that carry no hunk content
var diffMetaPrefixes = []string{
	"index ",
	"old mode ",
	"new mode ",
	"similarity index ",
	"dissimilarity index ",
	"copy from ",
	"copy to ",
}

// ParseDiff parses unified diff text, possibly covering several files.
// An empty input yields an empty slice (pure addition/deletion of nothing
// to show). Output that fits no known production is a *ParseError.
func ParseDiff(raw []byte) ([]FileDiff, error) {
	text := strings.TrimRight(string(raw), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var files []FileDiff
	var cur *FileDiff
	var hunk *Hunk
	oldNo, newNo := 0, 0
	oldLeft, newLeft := 0, 0

	flushHunk := func() {
		if cur != nil && hunk != nil {
			cur.Hunks = append(cur.Hunks, *hunk)
		}
		hunk = nil
	}
	flushFile := func() {
		flushHunk()
		if cur != nil {
			files = append(files, *cur)
		}
		cur = nil
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, "\r")

		if strings.HasPrefix(line, "diff --git ") {
			flushFile()
			cur = &FileDiff{Status: Modified}
			continue
		}
		if cur == nil {
			return nil, diffErr(line, "content before \"diff --git\" header")
		}

		// In-hunk content takes priority while lines remain expected.
		if hunk != nil && (oldLeft > 0 || newLeft > 0) {
			if line == "" {
				// Some git versions emit bare empty context lines.
				hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, OldNo: oldNo, NewNo: newNo})
				oldNo++
				newNo++
				oldLeft--
				newLeft--
				continue
			}
			switch line[0] {
			case ' ':
				hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: line[1:], OldNo: oldNo, NewNo: newNo})
				oldNo++
				newNo++
				oldLeft--
				newLeft--
			case '+':
				hunk.Lines = append(hunk.Lines, Line{Kind: LineAdded, Content: line[1:], NewNo: newNo})
				newNo++
				newLeft--
			case '-':
				hunk.Lines = append(hunk.Lines, Line{Kind: LineRemoved, Content: line[1:], OldNo: oldNo})
				oldNo++
				oldLeft--
			case '\\':
				hunk.Lines = append(hunk.Lines, Line{Kind: LineMeta, Content: line})
			default:
				return nil, diffErr(line, "unexpected line inside hunk")
			}
			continue
		}

		if strings.HasPrefix(line, "\\ No newline") {
			if hunk != nil {
				hunk.Lines = append(hunk.Lines, Line{Kind: LineMeta, Content: line})
			}
			continue
		}

		if strings.HasPrefix(line, "@@") {
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return nil, diffErr(line, "malformed hunk header")
			}
			flushHunk()
			h := Hunk{
				OldStart: atoiDefault(m[1], 0),
				OldLines: atoiDefault(m[2], 1),
				NewStart: atoiDefault(m[3], 0),
				NewLines: atoiDefault(m[4], 1),
				Header:   strings.TrimSpace(m[5]),
			}
			hunk = &h
			oldNo, newNo = h.OldStart, h.NewStart
			oldLeft, newLeft = h.OldLines, h.NewLines
			continue
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			token := strings.TrimPrefix(line, "--- ")
			if token == "/dev/null" {
				cur.Status = Added
			} else {
				cur.OldPath = stripPathPrefix(token)
				if cur.Path == "" {
					cur.Path = cur.OldPath
				}
			}
		case strings.HasPrefix(line, "+++ "):
			token := strings.TrimPrefix(line, "+++ ")
			if token == "/dev/null" {
				cur.Status = Deleted
			} else {
				cur.Path = stripPathPrefix(token)
			}
		case strings.HasPrefix(line, "new file mode "):
			cur.Status = Added
		case strings.HasPrefix(line, "deleted file mode "):
			cur.Status = Deleted
		case strings.HasPrefix(line, "rename from "):
			cur.OldPath = strings.TrimPrefix(line, "rename from ")
			cur.Status = Renamed
		case strings.HasPrefix(line, "rename to "):
			cur.Path = strings.TrimPrefix(line, "rename to ")
			cur.Status = Renamed
		case strings.HasPrefix(line, "Binary files ") || line == "GIT binary patch":
			flushHunk()
			cur.Binary = true
		case hasAnyPrefix(line, diffMetaPrefixes):
			// extended header, nothing to record
		default:
			return nil, diffErr(line, "unrecognized diff line")
		}
	}

	flushFile()

	for i := range files {
		if err := checkHunkOrder(&files[i]); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// ParseFileDiff parses diff output expected to cover at most one file.
func ParseFileDiff(raw []byte) (*FileDiff, error) {
	files, err := ParseDiff(raw)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return &files[0], nil
}

// checkHunkOrder enforces monotonically non-decreasing hunk line numbers.
func checkHunkOrder(d *FileDiff) error {
	prevOld, prevNew := 0, 0
	for _, h := range d.Hunks {
		if h.OldStart < prevOld || h.NewStart < prevNew {
			return diffErr(d.Path, "hunk line numbers decrease")
		}
		prevOld = h.OldStart + h.OldLines
		prevNew = h.NewStart + h.NewLines
	}
	return nil
}

func stripPathPrefix(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 2 && (strings.HasPrefix(token, "a/") || strings.HasPrefix(token, "b/")) {
		return token[2:]
	}
	return token
}

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
