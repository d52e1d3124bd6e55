package diffview

import (
	"github.com/pmezard/go-difflib/difflib"
)

// CompareLines diffs two arbitrary line slices into side-by-side rows.
// The conflict view uses it to align the ours and theirs sides of a
// section. Falls back to a positional diff when the matcher fails.
func CompareLines(a, b []string) []Row {
	opcodes, ok := safeOpCodes(a, b)
	if !ok {
		return positionalRows(a, b)
	}

	var rows []Row
	leftNo, rightNo := 1, 1

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for i := op.I1; i < op.I2; i++ {
				rows = append(rows, Row{
					Left:  &Cell{LineNo: leftNo, Text: a[i], Kind: CellContext},
					Right: &Cell{LineNo: rightNo, Text: a[i], Kind: CellContext},
					Kind:  RowContext,
				})
				leftNo++
				rightNo++
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				rows = append(rows, Row{
					Left: &Cell{LineNo: leftNo, Text: a[i], Kind: CellRemoved},
					Kind: RowDeleteOnly,
				})
				leftNo++
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				rows = append(rows, Row{
					Right: &Cell{LineNo: rightNo, Text: b[j], Kind: CellAdded},
					Kind:  RowInsertOnly,
				})
				rightNo++
			}
		case 'r':
			n := op.I2 - op.I1
			if m := op.J2 - op.J1; m > n {
				n = m
			}
			for k := 0; k < n; k++ {
				var row Row
				if i := op.I1 + k; i < op.I2 {
					row.Left = &Cell{LineNo: leftNo, Text: a[i], Kind: CellRemoved}
					leftNo++
				}
				if j := op.J1 + k; j < op.J2 {
					row.Right = &Cell{LineNo: rightNo, Text: b[j], Kind: CellAdded}
					rightNo++
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
		}
	}

	return rows
}

// safeOpCodes shields callers from matcher panics on pathological input.
func safeOpCodes(a, b []string) (opcodes []difflib.OpCode, ok bool) {
	defer func() {
		if recover() != nil {
			opcodes = nil
			ok = false
		}
	}()

	matcher := difflib.NewMatcher(a, b)
	return matcher.GetOpCodes(), true
}

// positionalRows pairs the slices index by index with no alignment.
func positionalRows(a, b []string) []Row {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}

	var rows []Row
	for i := 0; i < n; i++ {
		hasA := i < len(a)
		hasB := i < len(b)

		switch {
		case hasA && hasB && a[i] == b[i]:
			rows = append(rows, Row{
				Left:  &Cell{LineNo: i + 1, Text: a[i], Kind: CellContext},
				Right: &Cell{LineNo: i + 1, Text: a[i], Kind: CellContext},
				Kind:  RowContext,
			})
		case hasA && hasB:
			rows = append(rows, Row{
				Left:  &Cell{LineNo: i + 1, Text: a[i], Kind: CellRemoved},
				Right: &Cell{LineNo: i + 1, Text: b[i], Kind: CellAdded},
				Kind:  RowChange,
			})
		case hasA:
			rows = append(rows, Row{
				Left: &Cell{LineNo: i + 1, Text: a[i], Kind: CellRemoved},
				Kind: RowDeleteOnly,
			})
		default:
			rows = append(rows, Row{
				Right: &Cell{LineNo: i + 1, Text: b[i], Kind: CellAdded},
				Kind:  RowInsertOnly,
			})
		}
	}

	return rows
}
