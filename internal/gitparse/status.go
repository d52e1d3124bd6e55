// Package gitparse converts git's machine-readable status and unified-diff
// output into typed entries, hunks and lines.
package gitparse

import (
	"bytes"
	"strconv"
	"strings"
)

// Code is the reconciled change classification of one working-tree entry.
type Code int

const (
	Untracked Code = iota
	Modified
	Added
	Deleted
	Renamed
	Conflicted
)

func (c Code) String() string {
	switch c {
	case Untracked:
		return "untracked"
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case Conflicted:
		return "conflicted"
	default:
		return "unknown"
	}
}

// FileEntry is one path in a status snapshot. Staged and unstaged changes
// to the same path are reconciled onto a single entry.
type FileEntry struct {
	Path     string
	OrigPath string // set for renames/copies
	Code     Code
	X, Y     byte // raw porcelain columns
	Staged   bool
	Unstaged bool

	// PreviewUnavailable is set by the state aggregate when this entry's
	// diff could not be parsed; the entry still renders in the list.
	PreviewUnavailable bool
}

// IsConflict reports whether the entry is in an unmerged state.
func (e FileEntry) IsConflict() bool { return e.Code == Conflicted }

// Status is the parsed result of `git status --porcelain=v1 -z -b`.
type Status struct {
	Branch  string
	Ahead   int
	Behind  int
	Entries []FileEntry
}

// conflictXY is the set of porcelain XY pairs that mean "unmerged".
var conflictXY = map[string]struct{}{
	"UU": {}, "AA": {}, "DD": {}, "AU": {}, "UA": {}, "DU": {}, "UD": {},
}

// ParseStatus parses porcelain v1 output. Both the NUL-separated (-z) and
// the newline form are accepted; -z is what the state aggregate requests.
func ParseStatus(raw []byte) (Status, error) {
	if bytes.IndexByte(raw, 0) >= 0 {
		return parseStatusRecords(splitRecords(raw, 0), true)
	}
	return parseStatusRecords(splitRecords(raw, '\n'), false)
}

func splitRecords(raw []byte, sep byte) []string {
	parts := strings.Split(string(raw), string([]byte{sep}))
	records := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(p, "\r")
		if p != "" {
			records = append(records, p)
		}
	}
	return records
}

func parseStatusRecords(records []string, zeroSep bool) (Status, error) {
	var st Status

	for i := 0; i < len(records); i++ {
		rec := records[i]

		if strings.HasPrefix(rec, "## ") {
			branch, ahead, behind := parseBranchHeader(rec)
			st.Branch = branch
			st.Ahead = ahead
			st.Behind = behind
			continue
		}

		if len(rec) < 4 || rec[2] != ' ' {
			return Status{}, statusErr(rec, "record too short for XY + path")
		}

		x, y := rec[0], rec[1]
		path := rec[3:]
		orig := ""

		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			if zeroSep {
				// In -z form the original path follows as its own record.
				if i+1 >= len(records) {
					return Status{}, statusErr(rec, "rename record missing original path")
				}
				orig = records[i+1]
				i++
			} else {
				// Text form uses "orig -> new" on one line.
				idx := strings.Index(path, " -> ")
				if idx < 0 {
					return Status{}, statusErr(rec, "rename record missing \" -> \" separator")
				}
				orig = path[:idx]
				path = path[idx+4:]
			}
		}

		entry := FileEntry{
			Path:     path,
			OrigPath: orig,
			X:        x,
			Y:        y,
			Code:     classifyXY(x, y),
			Staged:   x != ' ' && x != '?',
			Unstaged: y != ' ' && y != '?',
		}
		if entry.Code == Untracked {
			entry.Staged = false
			entry.Unstaged = true
		}
		st.Entries = append(st.Entries, entry)
	}

	if err := checkUniquePaths(st.Entries); err != nil {
		return Status{}, err
	}
	return st, nil
}

func classifyXY(x, y byte) Code {
	xy := string([]byte{x, y})
	if xy == "??" {
		return Untracked
	}
	if _, ok := conflictXY[xy]; ok {
		return Conflicted
	}

	primary := x
	if primary == ' ' {
		primary = y
	}
	switch primary {
	case 'A':
		return Added
	case 'D':
		return Deleted
	case 'R', 'C':
		return Renamed
	default:
		return Modified
	}
}

// checkUniquePaths enforces the snapshot invariant that porcelain emits one
// record per path. A duplicate means the output was misread.
func checkUniquePaths(entries []FileEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Path]; dup {
			return statusErr(e.Path, "duplicate path in status output")
		}
		seen[e.Path] = struct{}{}
	}
	return nil
}

// parseBranchHeader handles `## branch...upstream [ahead N, behind M]`.
func parseBranchHeader(line string) (string, int, int) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "## "))
	if rest == "" {
		return "", 0, 0
	}

	head := rest
	meta := ""
	if idx := strings.LastIndex(rest, "["); idx >= 0 {
		head = strings.TrimSpace(rest[:idx])
		meta = strings.TrimSuffix(strings.TrimSpace(rest[idx+1:]), "]")
	}

	branch := head
	if idx := strings.Index(head, "..."); idx >= 0 {
		branch = strings.TrimSpace(head[:idx])
	}

	ahead, behind := 0, 0
	for _, item := range strings.Split(meta, ",") {
		token := strings.TrimSpace(item)
		if v, ok := strings.CutPrefix(token, "ahead "); ok {
			ahead, _ = strconv.Atoi(strings.TrimSpace(v))
		}
		if v, ok := strings.CutPrefix(token, "behind "); ok {
			behind, _ = strconv.Atoi(strings.TrimSpace(v))
		}
	}

	return branch, ahead, behind
}
