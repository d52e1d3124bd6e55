package diffview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareLinesEqualSlices(t *testing.T) {
	rows := CompareLines([]string{"a", "b"}, []string{"a", "b"})
	require.Len(t, rows, 2)
	for i, r := range rows {
		require.Equal(t, RowContext, r.Kind)
		require.Equal(t, i+1, r.Left.LineNo)
		require.Equal(t, i+1, r.Right.LineNo)
	}
}

func TestCompareLinesReplacement(t *testing.T) {
	rows := CompareLines(
		[]string{"keep", "old line", "tail"},
		[]string{"keep", "new line", "tail"},
	)
	require.Len(t, rows, 3)
	require.Equal(t, RowContext, rows[0].Kind)
	require.Equal(t, RowChange, rows[1].Kind)
	require.Equal(t, "old line", rows[1].Left.Text)
	require.Equal(t, "new line", rows[1].Right.Text)
	require.Equal(t, RowContext, rows[2].Kind)
}

func TestCompareLinesInsertionAndDeletion(t *testing.T) {
	rows := CompareLines([]string{"a"}, []string{"a", "b"})
	require.Len(t, rows, 2)
	require.Equal(t, RowInsertOnly, rows[1].Kind)
	require.Nil(t, rows[1].Left)

	rows = CompareLines([]string{"a", "b"}, []string{"a"})
	require.Len(t, rows, 2)
	require.Equal(t, RowDeleteOnly, rows[1].Kind)
	require.Nil(t, rows[1].Right)
}

func TestCompareLinesEmptySides(t *testing.T) {
	require.Empty(t, CompareLines(nil, nil))

	rows := CompareLines(nil, []string{"x"})
	require.Len(t, rows, 1)
	require.Equal(t, RowInsertOnly, rows[0].Kind)
}

func TestPositionalRowsFallback(t *testing.T) {
	rows := positionalRows([]string{"same", "left"}, []string{"same", "right", "extra"})
	require.Len(t, rows, 3)
	require.Equal(t, RowContext, rows[0].Kind)
	require.Equal(t, RowChange, rows[1].Kind)
	require.Equal(t, RowInsertOnly, rows[2].Kind)
}

func TestHighlightSpans(t *testing.T) {
	oldSpans, newSpans := HighlightSpans("the quick fox", "the slow fox")
	require.NotEmpty(t, oldSpans)
	require.NotEmpty(t, newSpans)
	for _, s := range oldSpans {
		require.Less(t, s.Start, s.End)
		require.LessOrEqual(t, s.End, len("the quick fox"))
	}
	for _, s := range newSpans {
		require.Less(t, s.Start, s.End)
		require.LessOrEqual(t, s.End, len("the slow fox"))
	}
}

func TestHighlightSpansIdenticalText(t *testing.T) {
	oldSpans, newSpans := HighlightSpans("same", "same")
	require.Nil(t, oldSpans)
	require.Nil(t, newSpans)
}

func TestHighlightSpansFullRewrite(t *testing.T) {
	oldSpans, _ := HighlightSpans("abc", "xyz")
	require.Equal(t, []Span{{Start: 0, End: 3}}, oldSpans)
}
