package diffview

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Span is a half-open byte range [Start, End) within one side's text.
type Span struct {
	Start, End int
}

// HighlightSpans computes the byte ranges that differ between the old and
// new text of a change row. The first slice covers old, the second new.
// Identical inputs yield no spans.
func HighlightSpans(old, new string) (oldSpans, newSpans []Span) {
	if old == new {
		return nil, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	oldPos, newPos := 0, 0
	for _, d := range diffs {
		n := len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			oldSpans = appendSpan(oldSpans, oldPos, oldPos+n)
			oldPos += n
		case diffmatchpatch.DiffInsert:
			newSpans = appendSpan(newSpans, newPos, newPos+n)
			newPos += n
		}
	}
	return oldSpans, newSpans
}

// appendSpan merges ranges that touch so the view styles each run once.
func appendSpan(spans []Span, start, end int) []Span {
	if n := len(spans); n > 0 && spans[n-1].End == start {
		spans[n-1].End = end
		return spans
	}
	return append(spans, Span{Start: start, End: end})
}
