package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var ctx = context.Background()

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
}

// createEmptyRepo initializes a repository on branch main with no commits.
func createEmptyRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := t.TempDir()
	gitCmd(t, dir, "init")
	gitCmd(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test User")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	gitCmd(t, dir, "add", name)
	gitCmd(t, dir, "commit", "-m", message)
}

// createTestRepo creates a repository with one commit.
func createTestRepo(t *testing.T) string {
	t.Helper()
	dir := createEmptyRepo(t)
	commitFile(t, dir, "test.txt", "test content", "Initial commit")
	return dir
}

func TestSnapshot_NotARepo(t *testing.T) {
	requireGit(t)

	if snap := NewCollector(5).Snapshot(ctx, t.TempDir()); snap != nil {
		t.Errorf("Snapshot() = %+v, want nil outside a repository", snap)
	}
}

func TestSnapshot_MissingDirectory(t *testing.T) {
	if snap := NewCollector(5).Snapshot(ctx, "/nonexistent/path"); snap != nil {
		t.Errorf("Snapshot() = %+v, want nil for missing directory", snap)
	}
}

func TestSnapshot_CleanRepo(t *testing.T) {
	dir := createTestRepo(t)

	snap := NewCollector(5).Snapshot(ctx, dir)
	if snap == nil {
		t.Fatal("Snapshot() = nil, want snapshot")
	}
	if snap.Branch != "main" {
		t.Errorf("Branch = %q, want main", snap.Branch)
	}
	if len(snap.ModifiedFiles) != 0 || len(snap.StagedFiles) != 0 {
		t.Errorf("clean repo should have no changes: %+v", snap)
	}
	if len(snap.RecentCommits) != 1 || !strings.HasSuffix(snap.RecentCommits[0], "Initial commit") {
		t.Errorf("RecentCommits = %v, want one Initial commit line", snap.RecentCommits)
	}
	if snap.StatusSummary != "" {
		t.Errorf("StatusSummary = %q, want empty", snap.StatusSummary)
	}
}

func TestSnapshot_ModifiedAndStaged(t *testing.T) {
	dir := createTestRepo(t)

	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	gitCmd(t, dir, "add", "new.txt")

	snap := NewCollector(5).Snapshot(ctx, dir)
	if snap == nil {
		t.Fatal("Snapshot() = nil")
	}
	if !reflect.DeepEqual(snap.ModifiedFiles, []string{"test.txt"}) {
		t.Errorf("ModifiedFiles = %v, want [test.txt]", snap.ModifiedFiles)
	}
	if !reflect.DeepEqual(snap.StagedFiles, []string{"new.txt"}) {
		t.Errorf("StagedFiles = %v, want [new.txt]", snap.StagedFiles)
	}
	if !strings.Contains(snap.StatusSummary, "new.txt") || !strings.Contains(snap.StatusSummary, "test.txt") {
		t.Errorf("StatusSummary = %q, want both files", snap.StatusSummary)
	}
}

func TestSnapshot_CommitLimitNewestFirst(t *testing.T) {
	dir := createTestRepo(t)
	for i := 1; i <= 6; i++ {
		commitFile(t, dir, "f.txt", fmt.Sprint(i), fmt.Sprintf("change %d", i))
	}

	snap := NewCollector(5).Snapshot(ctx, dir)
	if snap == nil {
		t.Fatal("Snapshot() = nil")
	}
	if len(snap.RecentCommits) != 5 {
		t.Fatalf("len(RecentCommits) = %d, want 5", len(snap.RecentCommits))
	}
	if !strings.HasSuffix(snap.RecentCommits[0], "change 6") {
		t.Errorf("RecentCommits[0] = %q, want newest commit first", snap.RecentCommits[0])
	}
	if !strings.HasSuffix(snap.RecentCommits[4], "change 2") {
		t.Errorf("RecentCommits[4] = %q, want change 2", snap.RecentCommits[4])
	}
}

func TestSnapshot_RepoWithoutCommits(t *testing.T) {
	dir := createEmptyRepo(t)

	snap := NewCollector(5).Snapshot(ctx, dir)
	if snap == nil {
		t.Fatal("Snapshot() = nil, want snapshot for empty repository")
	}
	if snap.Branch != "main" {
		t.Errorf("Branch = %q, want main", snap.Branch)
	}
	if len(snap.RecentCommits) != 0 {
		t.Errorf("RecentCommits = %v, want none", snap.RecentCommits)
	}
}

func TestIsRepo(t *testing.T) {
	dir := createTestRepo(t)
	c := NewCollector(0)

	if !c.IsRepo(ctx, dir) {
		t.Error("IsRepo should be true for a repository")
	}
	if !c.IsRepo(ctx, filepath.Join(dir)) {
		t.Error("IsRepo should be true for the repository root")
	}
	if c.IsRepo(ctx, t.TempDir()) {
		t.Error("IsRepo should be false for a plain directory")
	}
}

func TestNewCollector_DefaultCount(t *testing.T) {
	if c := NewCollector(0); c.commitCount != DefaultCommitCount {
		t.Errorf("commitCount = %d, want %d", c.commitCount, DefaultCommitCount)
	}
	if c := NewCollector(3); c.commitCount != 3 {
		t.Errorf("commitCount = %d, want 3", c.commitCount)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "\n\n", []string{}},
		{"trailing newline", "a.go\nb.go\n", []string{"a.go", "b.go"}},
		{"blank lines filtered", "a.go\n\nb.go", []string{"a.go", "b.go"}},
		{"crlf", "a.go\r\nb.go\r\n", []string{"a.go", "b.go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
