package gitlab

import (
	"testing"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

func TestCountDiffLines(t *testing.T) {
	diff := `--- a/main.go
+++ b/main.go
@@ -1,4 +1,5 @@
 package main
-func main() {}
+func main() {
+	println("hi")
+}
`
	additions, deletions := countDiffLines(diff)
	if additions != 3 {
		t.Errorf("countDiffLines() additions => %d, want 3", additions)
	}
	if deletions != 1 {
		t.Errorf("countDiffLines() deletions => %d, want 1", deletions)
	}
}

func TestConvertDiffStatus(t *testing.T) {
	for _, tc := range []struct {
		name     string
		diff     *gitlab.Diff
		status   string
		filename string
	}{
		{"added", &gitlab.Diff{NewPath: "a.go", NewFile: true}, "added", "a.go"},
		{"removed", &gitlab.Diff{OldPath: "b.go", NewPath: "b.go", DeletedFile: true}, "removed", "b.go"},
		{"renamed", &gitlab.Diff{OldPath: "c.go", NewPath: "d.go", RenamedFile: true}, "renamed", "d.go"},
		{"modified", &gitlab.Diff{OldPath: "e.go", NewPath: "e.go"}, "modified", "e.go"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := convertDiff(tc.diff)
			if f.Status != tc.status {
				t.Errorf("convertDiff() status => %q, want %q", f.Status, tc.status)
			}
			if f.Filename != tc.filename {
				t.Errorf("convertDiff() filename => %q, want %q", f.Filename, tc.filename)
			}
		})
	}
}

func TestConvertCommitMissingDates(t *testing.T) {
	if _, err := convertCommit(&gitlab.Commit{ID: "c1"}, nil); err == nil {
		t.Error("convertCommit() => nil, want malformed payload error")
	}
}
