package conflict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const markedFile = `line before
<<<<<<< HEAD
ours one
ours two
=======
theirs one
>>>>>>> feature
line after
`

func TestParseSplitsSectionsAndPassthrough(t *testing.T) {
	f, err := Parse("a.txt", []byte(markedFile))
	require.NoError(t, err)

	require.Len(t, f.Sections(), 1)
	s := f.Sections()[0]
	require.Equal(t, []string{"ours one", "ours two"}, s.Ours)
	require.Equal(t, []string{"theirs one"}, s.Theirs)
	require.Empty(t, s.Base)
	require.Equal(t, "HEAD", s.OursLabel)
	require.Equal(t, "feature", s.TheirsLabel)
	require.Equal(t, Unresolved, s.Resolution())
	require.False(t, f.Resolved())
}

func TestParseDiff3Base(t *testing.T) {
	raw := `<<<<<<< HEAD
ours
||||||| merged common ancestors
base
=======
theirs
>>>>>>> branch
`
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)
	s := f.Sections()[0]
	require.Equal(t, []string{"ours"}, s.Ours)
	require.Equal(t, []string{"base"}, s.Base)
	require.Equal(t, []string{"theirs"}, s.Theirs)
}

func TestParseHandlesCRLF(t *testing.T) {
	raw := "before\r\n<<<<<<< HEAD\r\nours\r\n=======\r\ntheirs\r\n>>>>>>> branch\r\nafter\r\n"
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)

	require.Len(t, f.Sections(), 1)
	s := f.Sections()[0]
	require.Equal(t, []string{"ours"}, s.Ours)
	require.Equal(t, []string{"theirs"}, s.Theirs)
	require.Equal(t, "HEAD", s.OursLabel)
	require.Equal(t, "branch", s.TheirsLabel)

	s.Resolve(AcceptedTheirs)
	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "before\r\ntheirs\r\nafter\r\n", string(out))
}

func TestAcceptedOursRoundTrip(t *testing.T) {
	f, err := Parse("a.txt", []byte(markedFile))
	require.NoError(t, err)

	f.Sections()[0].Resolve(AcceptedOurs)
	require.True(t, f.Resolved())

	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "line before\nours one\nours two\nline after\n", string(out))
}

func TestAcceptedTheirsRoundTrip(t *testing.T) {
	f, err := Parse("a.txt", []byte(markedFile))
	require.NoError(t, err)

	f.Sections()[0].Resolve(AcceptedTheirs)
	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "line before\ntheirs one\nline after\n", string(out))
}

func TestAcceptedBothOrdering(t *testing.T) {
	raw := "<<<<<<< HEAD\nfoo\n=======\nbar\n>>>>>>> other\n"
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)

	f.Sections()[0].Resolve(AcceptedBoth)
	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "foo\nbar\n", string(out))
}

func TestCustomEditedIsTerminal(t *testing.T) {
	f, err := Parse("a.txt", []byte(markedFile))
	require.NoError(t, err)

	s := f.Sections()[0]
	s.SetEdited([]string{"merged by hand"})
	require.Equal(t, CustomEdited, s.Resolution())

	s.Resolve(AcceptedOurs)
	require.Equal(t, CustomEdited, s.Resolution())
	s.Reset()
	require.Equal(t, CustomEdited, s.Resolution())

	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "line before\nmerged by hand\nline after\n", string(out))
}

func TestResetReturnsToUnresolved(t *testing.T) {
	f, err := Parse("a.txt", []byte(markedFile))
	require.NoError(t, err)

	s := f.Sections()[0]
	s.Resolve(AcceptedOurs)
	s.Reset()
	require.Equal(t, Unresolved, s.Resolution())
	require.False(t, f.Resolved())
}

func TestRegenerateRequiresFullResolution(t *testing.T) {
	raw := "<<<<<<< a\n1\n=======\n2\n>>>>>>> b\nmid\n<<<<<<< a\n3\n=======\n4\n>>>>>>> b\n"
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)
	require.Len(t, f.Sections(), 2)

	f.Sections()[0].Resolve(AcceptedOurs)
	_, err = f.Regenerate()
	require.Error(t, err)

	f.Sections()[1].Resolve(AcceptedTheirs)
	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "1\nmid\n4\n", string(out))
}

func TestParseRejectsUnbalancedMarkers(t *testing.T) {
	cases := map[string]string{
		"unterminated":        "<<<<<<< HEAD\nours\n=======\ntheirs\n",
		"end without start":   "plain\n>>>>>>> other\n",
		"end before midpoint": "<<<<<<< HEAD\nours\n>>>>>>> other\n",
		"nested start":        "<<<<<<< HEAD\n<<<<<<< again\n=======\nx\n>>>>>>> o\n",
		"stray base divider":  "plain\n||||||| base\n",
	}
	for name, raw := range cases {
		_, err := Parse("a.txt", []byte(raw))
		require.Error(t, err, name)
		require.IsType(t, &ParseError{}, err, name)
	}
}

func TestParseKeepsLoneSeparatorRow(t *testing.T) {
	raw := "above\n=======\nbelow\n"
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)
	require.Empty(t, f.Sections())

	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, raw, string(out))
}

func TestParsePreservesMissingTrailingNewline(t *testing.T) {
	raw := "<<<<<<< a\nfoo\n=======\nbar\n>>>>>>> b"
	f, err := Parse("a.txt", []byte(raw))
	require.NoError(t, err)

	f.Sections()[0].Resolve(AcceptedOurs)
	out, err := f.Regenerate()
	require.NoError(t, err)
	require.Equal(t, "foo", string(out))
}

func TestApplyWritesResolvedBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conflicted.txt")
	require.NoError(t, os.WriteFile(path, []byte(markedFile), 0o644))

	f, err := ParseFile(path)
	require.NoError(t, err)

	// Unresolved sections must leave the file untouched.
	require.Error(t, f.Apply())
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, markedFile, string(onDisk))

	f.Sections()[0].Resolve(AcceptedTheirs)
	require.NoError(t, f.Apply())

	onDisk, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "line before\ntheirs one\nline after\n", string(onDisk))
}
