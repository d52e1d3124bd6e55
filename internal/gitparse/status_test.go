package gitparse

import (
	"strings"
	"testing"
)

func TestParseStatusTextForm(t *testing.T) {
	st, err := ParseStatus([]byte("M  src/a.rs\n?? b.txt\n"))
	if err != nil {
		t.Fatalf("ParseStatus returned error: %v", err)
	}
	if len(st.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(st.Entries))
	}

	a := st.Entries[0]
	if a.Path != "src/a.rs" || a.Code != Modified || !a.Staged || a.Unstaged {
		t.Fatalf("unexpected first entry: %+v", a)
	}

	b := st.Entries[1]
	if b.Path != "b.txt" || b.Code != Untracked || b.Staged {
		t.Fatalf("unexpected second entry: %+v", b)
	}
}

func TestParseStatusZForm(t *testing.T) {
	raw := strings.Join([]string{
		"## main...origin/main [ahead 2, behind 1]",
		"R  new/name.go",
		"old/name.go",
		"UU merge.go",
		" M worktree.go",
		"?? junk.tmp",
	}, "\x00") + "\x00"

	st, err := ParseStatus([]byte(raw))
	if err != nil {
		t.Fatalf("ParseStatus returned error: %v", err)
	}

	if st.Branch != "main" || st.Ahead != 2 || st.Behind != 1 {
		t.Fatalf("unexpected branch header: %q ahead=%d behind=%d", st.Branch, st.Ahead, st.Behind)
	}
	if len(st.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(st.Entries))
	}

	ren := st.Entries[0]
	if ren.Code != Renamed || ren.Path != "new/name.go" || ren.OrigPath != "old/name.go" {
		t.Fatalf("rename pair not preserved: %+v", ren)
	}
	if !ren.Staged || ren.Unstaged {
		t.Fatalf("rename should be staged only: %+v", ren)
	}

	if st.Entries[1].Code != Conflicted {
		t.Fatalf("UU should classify as conflicted: %+v", st.Entries[1])
	}
	if st.Entries[2].Staged || !st.Entries[2].Unstaged {
		t.Fatalf("\" M\" should be unstaged only: %+v", st.Entries[2])
	}
	if st.Entries[3].Code != Untracked {
		t.Fatalf("?? should classify as untracked: %+v", st.Entries[3])
	}
}

func TestParseStatusConflictCodes(t *testing.T) {
	for _, xy := range []string{"UU", "AA", "DD", "AU", "UA", "DU", "UD"} {
		st, err := ParseStatus([]byte(xy + " f.txt\n"))
		if err != nil {
			t.Fatalf("%s: %v", xy, err)
		}
		if st.Entries[0].Code != Conflicted {
			t.Fatalf("%s should be conflicted, got %v", xy, st.Entries[0].Code)
		}
	}
}

func TestParseStatusRejectsMalformedRecord(t *testing.T) {
	if _, err := ParseStatus([]byte("M\x00")); err == nil {
		t.Fatal("expected error for truncated record")
	}
	if _, err := ParseStatus([]byte("R  only-new-path\x00")); err == nil {
		t.Fatal("expected error for rename without original path")
	}
}

func TestParseStatusRejectsDuplicatePaths(t *testing.T) {
	_, err := ParseStatus([]byte("M  same.txt\x00M  same.txt\x00"))
	if err == nil {
		t.Fatal("expected error for duplicate path")
	}
}

func TestParseBranchHeaderVariants(t *testing.T) {
	tests := []struct {
		line   string
		branch string
		ahead  int
		behind int
	}{
		{"## main", "main", 0, 0},
		{"## feature/x...origin/feature/x", "feature/x", 0, 0},
		{"## main...origin/main [ahead 3]", "main", 3, 0},
		{"## main...origin/main [behind 7]", "main", 0, 7},
		{"## HEAD (no branch)", "HEAD (no branch)", 0, 0},
	}
	for _, tt := range tests {
		branch, ahead, behind := parseBranchHeader(tt.line)
		if branch != tt.branch || ahead != tt.ahead || behind != tt.behind {
			t.Fatalf("%q: got (%q,%d,%d)", tt.line, branch, ahead, behind)
		}
	}
}
