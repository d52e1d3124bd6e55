// Package conflict parses merge-conflict markers into resolvable sections
// and regenerates the resolved file content.
package conflict

import (
	"fmt"
	"strings"
)

const (
	markerOurs   = "<<<<<<<"
	markerBase   = "|||||||"
	markerMid    = "======="
	markerTheirs = ">>>>>>>"
)

// Resolution is the per-section state machine. CustomEdited is terminal.
type Resolution int

const (
	Unresolved Resolution = iota
	AcceptedOurs
	AcceptedTheirs
	AcceptedBoth
	CustomEdited
)

func (r Resolution) String() string {
	switch r {
	case Unresolved:
		return "unresolved"
	case AcceptedOurs:
		return "ours"
	case AcceptedTheirs:
		return "theirs"
	case AcceptedBoth:
		return "both"
	case CustomEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// ParseError reports malformed or unbalanced conflict markers.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("conflict markers in %s: line %d: %s", e.Path, e.Line, e.Reason)
}

// Section is one conflicted region. Ours/Base/Theirs hold the region's
// lines without markers; Base is present only for diff3-style conflicts.
type Section struct {
	Ours   []string
	Base   []string
	Theirs []string

	OursLabel   string
	TheirsLabel string

	resolution Resolution
	edited     []string
}

// Resolution returns the section's current state.
func (s *Section) Resolution() Resolution { return s.resolution }

// Resolve moves the section to one of the accepted states. Once a section
// has been custom-edited its content is authoritative and accept actions
// no longer apply.
func (s *Section) Resolve(r Resolution) {
	if s.resolution == CustomEdited || r == Unresolved || r == CustomEdited {
		return
	}
	s.resolution = r
}

// SetEdited replaces the section's content with caller-supplied lines and
// pins the section in the edited state.
func (s *Section) SetEdited(lines []string) {
	s.edited = append([]string(nil), lines...)
	s.resolution = CustomEdited
}

// Reset returns an accepted section to unresolved. Edited sections stay
// edited.
func (s *Section) Reset() {
	if s.resolution == CustomEdited {
		return
	}
	s.resolution = Unresolved
}

// Content returns the lines the section currently resolves to, nil while
// the section is unresolved.
func (s *Section) Content() []string { return s.content() }

// content is the lines the section contributes once resolved.
func (s *Section) content() []string {
	switch s.resolution {
	case AcceptedOurs:
		return s.Ours
	case AcceptedTheirs:
		return s.Theirs
	case AcceptedBoth:
		out := make([]string, 0, len(s.Ours)+len(s.Theirs))
		out = append(out, s.Ours...)
		out = append(out, s.Theirs...)
		return out
	case CustomEdited:
		return s.edited
	default:
		return nil
	}
}

// node is one document-order element: passthrough lines or a section.
type node struct {
	lines   []string
	section *Section
}

// File is a conflict-marked file split into passthrough blocks and
// sections, preserving document order.
type File struct {
	Path string

	nodes           []node
	sections        []*Section
	trailingNewline bool
	crlf            bool
}

// Sections returns the conflicted regions in document order.
func (f *File) Sections() []*Section { return f.sections }

// Resolved reports whether every section has left the unresolved state.
func (f *File) Resolved() bool {
	for _, s := range f.sections {
		if s.resolution == Unresolved {
			return false
		}
	}
	return true
}

// Parse splits conflict-marked content into passthrough blocks and
// sections. Unbalanced or out-of-place markers fail the whole parse; no
// partial result is returned.
func Parse(path string, data []byte) (*File, error) {
	text := string(data)
	// CRLF files are normalized for marker matching and restored on
	// regenerate.
	crlf := strings.Contains(text, "\r\n")
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	trailingNewline := strings.HasSuffix(text, "\n")
	if trailingNewline {
		text = strings.TrimSuffix(text, "\n")
	}

	f := &File{Path: path, trailingNewline: trailingNewline, crlf: crlf}

	var passthrough []string
	flushPassthrough := func() {
		if len(passthrough) > 0 {
			f.nodes = append(f.nodes, node{lines: passthrough})
			passthrough = nil
		}
	}

	var cur *Section
	var curStart int
	// side tracks where lines land inside the open section.
	appendLine := func(s *Section, side int, line string) {
		switch side {
		case 0:
			s.Ours = append(s.Ours, line)
		case 1:
			s.Base = append(s.Base, line)
		case 2:
			s.Theirs = append(s.Theirs, line)
		}
	}
	side := 0
	sawMid := false

	lines := strings.Split(text, "\n")
	if text == "" {
		lines = nil
	}

	for i, line := range lines {
		lineNo := i + 1
		switch {
		case strings.HasPrefix(line, markerOurs):
			if cur != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "nested start marker"}
			}
			flushPassthrough()
			cur = &Section{OursLabel: markerLabel(line, markerOurs)}
			curStart = lineNo
			side = 0
			sawMid = false
		case strings.HasPrefix(line, markerBase):
			if cur == nil {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "base divider outside a conflict"}
			}
			if side != 0 {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "duplicate base divider"}
			}
			side = 1
		case line == markerMid || strings.HasPrefix(line, markerMid+" "):
			if cur == nil {
				// Lone separator rows occur in ordinary text.
				passthrough = append(passthrough, line)
				continue
			}
			if sawMid {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "duplicate midpoint divider"}
			}
			sawMid = true
			side = 2
		case strings.HasPrefix(line, markerTheirs):
			if cur == nil {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "end marker without start marker"}
			}
			if !sawMid {
				return nil, &ParseError{Path: path, Line: lineNo, Reason: "end marker before midpoint divider"}
			}
			cur.TheirsLabel = markerLabel(line, markerTheirs)
			f.nodes = append(f.nodes, node{section: cur})
			f.sections = append(f.sections, cur)
			cur = nil
		default:
			if cur != nil {
				appendLine(cur, side, line)
			} else {
				passthrough = append(passthrough, line)
			}
		}
	}

	if cur != nil {
		return nil, &ParseError{Path: path, Line: curStart, Reason: "unterminated conflict section"}
	}
	flushPassthrough()

	return f, nil
}

func markerLabel(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}

// Regenerate concatenates passthrough blocks and resolved section content
// in document order. It fails while any section remains unresolved.
func (f *File) Regenerate() ([]byte, error) {
	if !f.Resolved() {
		return nil, fmt.Errorf("regenerate %s: unresolved sections remain", f.Path)
	}

	var out []string
	for _, n := range f.nodes {
		if n.section != nil {
			out = append(out, n.section.content()...)
		} else {
			out = append(out, n.lines...)
		}
	}

	text := strings.Join(out, "\n")
	if f.trailingNewline && text != "" {
		text += "\n"
	}
	if f.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return []byte(text), nil
}
