// Package diffview arranges parsed diff content into side-by-side rows
// for rendering. Builders are pure; truncation and styling belong to the
// view layer.
package diffview

import "github.com/cj3636/gitscope/internal/gitparse"

// CellKind classifies the content of one side of a row.
type CellKind int

const (
	CellContext CellKind = iota
	CellRemoved
	CellAdded
)

// RowKind classifies a whole row.
type RowKind int

const (
	RowContext RowKind = iota
	RowChange
	RowDeleteOnly
	RowInsertOnly
)

// Cell is one side of a side-by-side row.
type Cell struct {
	LineNo int
	Text   string
	Kind   CellKind
}

// Row pairs an old-side and a new-side cell. At least one side is set.
type Row struct {
	Left  *Cell
	Right *Cell
	Kind  RowKind
}

// BuildRows flattens every hunk of a file diff into side-by-side rows.
func BuildRows(d *gitparse.FileDiff) []Row {
	var rows []Row
	for i := range d.Hunks {
		rows = append(rows, BuildHunkRows(&d.Hunks[i])...)
	}
	return rows
}

// BuildHunkRows arranges one hunk into rows. Context lines occupy both
// sides. A run of removals followed by a run of additions pairs up
// index-wise; whichever run is longer spills into one-sided rows. Meta
// lines are rendering noise and are skipped.
func BuildHunkRows(h *gitparse.Hunk) []Row {
	var rows []Row
	var dels, adds []gitparse.Line

	flush := func() {
		n := len(dels)
		if len(adds) > n {
			n = len(adds)
		}
		for i := 0; i < n; i++ {
			var row Row
			if i < len(dels) {
				row.Left = &Cell{LineNo: dels[i].OldNo, Text: dels[i].Content, Kind: CellRemoved}
			}
			if i < len(adds) {
				row.Right = &Cell{LineNo: adds[i].NewNo, Text: adds[i].Content, Kind: CellAdded}
			}
			switch {
			case row.Left != nil && row.Right != nil:
				row.Kind = RowChange
			case row.Left != nil:
				row.Kind = RowDeleteOnly
			default:
				row.Kind = RowInsertOnly
			}
			rows = append(rows, row)
		}
		dels = dels[:0]
		adds = adds[:0]
	}

	for _, l := range h.Lines {
		switch l.Kind {
		case gitparse.LineRemoved:
			dels = append(dels, l)
		case gitparse.LineAdded:
			adds = append(adds, l)
		case gitparse.LineContext:
			flush()
			rows = append(rows, Row{
				Left:  &Cell{LineNo: l.OldNo, Text: l.Content, Kind: CellContext},
				Right: &Cell{LineNo: l.NewNo, Text: l.Content, Kind: CellContext},
				Kind:  RowContext,
			})
		case gitparse.LineMeta:
			// not content
		}
	}
	flush()

	return rows
}
