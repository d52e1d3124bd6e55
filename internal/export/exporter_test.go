package export

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cj3636/gitscope/internal/gitparse"
)

func sampleFiles() []gitparse.FileDiff {
	return []gitparse.FileDiff{{
		Path:   "pkg/thing.go",
		Status: gitparse.Modified,
		Hunks: []gitparse.Hunk{{
			OldStart: 3, OldLines: 2, NewStart: 3, NewLines: 2,
			Header: "func Do()",
			Lines: []gitparse.Line{
				{Kind: gitparse.LineContext, Content: "unchanged", OldNo: 3, NewNo: 3},
				{Kind: gitparse.LineRemoved, Content: "old := 1", OldNo: 4},
				{Kind: gitparse.LineAdded, Content: "new := 2", NewNo: 4},
			},
		}},
	}}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(sampleFiles(), FormatMarkdown, Options{Title: "Staged changes"})
	require.NoError(t, err)
	require.Contains(t, out, "# Staged changes")
	require.Contains(t, out, "## pkg/thing.go")
	require.Contains(t, out, "@@ -3,2 +3,2 @@ func Do()")
	require.Contains(t, out, "-old := 1")
	require.Contains(t, out, "+new := 2")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	files := sampleFiles()
	files[0].Hunks[0].Lines[2].Content = `x := "<script>"`

	out, err := Render(files, FormatHTML, Options{ShowLineNumbers: true})
	require.NoError(t, err)
	require.Contains(t, out, "&lt;script&gt;")
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "class=\"added\"")
}

func TestRenderANSIUsesColors(t *testing.T) {
	out, err := Render(sampleFiles(), FormatANSI, Options{})
	require.NoError(t, err)
	require.Contains(t, out, "[32m+new := 2[0m")
	require.Contains(t, out, "[31m-old := 1[0m")
}

func TestRenderBinaryFile(t *testing.T) {
	files := []gitparse.FileDiff{{Path: "img.png", Binary: true}}
	out, err := Render(files, FormatMarkdown, Options{})
	require.NoError(t, err)
	require.Contains(t, out, "(binary file)")
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := Render(nil, FormatMarkdown, Options{})
	require.Error(t, err)

	_, err = Render(sampleFiles(), Format("pdf"), Options{})
	require.Error(t, err)
}

func TestCopyToClipboardEmitsOSC52(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CopyToClipboard("diff text", &buf))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "]52;c;"))
	encoded := strings.TrimSuffix(strings.TrimPrefix(out, "]52;c;"), "")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Equal(t, "diff text", string(decoded))
}
