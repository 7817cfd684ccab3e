package session

import (
	"fmt"
	"strings"
	"testing"

	"github.com/daveygoode/atlas/internal/git"
	"github.com/daveygoode/atlas/internal/worklog"
)

func sampleRecord() *Record {
	memory := strings.Repeat("memory line\n", 3) + "last"
	return &Record{
		SessionID:        "20240316_143022",
		Timestamp:        "2024-03-16T14:30:22.000000+00:00",
		Identity:         "ATLAS - Adaptive Technical Learning and Architecture System",
		Context:          "Implemented auth",
		NextTask:         "Add tests",
		WorkingDirectory: "/work/app",
		ShortMemory:      &memory,
		MCPAvailable:     DefaultMCPStatus,
		SessionMetadata: &Metadata{
			Bucket: worklog.Bucket{Year: "2024", Month: "03-mar", Day: "16"},
			User:   "dev",
		},
	}
}

func files(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d.go", prefix, i)
	}
	return out
}

func TestRenderFull_SectionOrder(t *testing.T) {
	rec := sampleRecord()
	rec.GitInfo = &git.Snapshot{Branch: "main", ModifiedFiles: []string{"a.go"}}
	rec.ExtendedContext = Extended{}.Set("technical_decisions", List("Use JWT"))

	out := RenderFull(rec, nil)

	order := []string{
		"ATLAS SESSION RESUME",
		"Session:   20240316_143022",
		"Directory: /work/app",
		"PREVIOUS CONTEXT",
		"NEXT TASK",
		"GIT STATUS",
		"EXTENDED CONTEXT",
		"SHORT TERM MEMORY",
		"WORKING LOG REFERENCE",
		"DOCUMENTATION ACCESS",
		"PROFESSIONAL MODE: Active",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("output missing %q", s)
		}
		if idx < last {
			t.Errorf("%q appears out of order", s)
		}
		last = idx
	}
	if !strings.Contains(out, "See: WORKING_LOG/2024/03-mar/16.md") {
		t.Error("missing working log pointer")
	}
}

func TestRenderFull_NoGit(t *testing.T) {
	rec := sampleRecord()
	rec.GitInfo = nil

	out := RenderFull(rec, PlainTheme{})
	if strings.Contains(out, "GIT STATUS") || strings.Contains(out, "Branch:") {
		t.Error("git section rendered without git info")
	}
}

func TestRenderFull_MinimalRecord(t *testing.T) {
	out := RenderFull(&Record{SessionID: "x", Context: "c", NextTask: "n"}, nil)
	for _, absent := range []string{"SHORT TERM MEMORY", "WORKING LOG REFERENCE", "EXTENDED CONTEXT", "DOCUMENTATION ACCESS"} {
		if strings.Contains(out, absent) {
			t.Errorf("minimal record rendered %q", absent)
		}
	}
}

func TestRenderFull_GitCaps(t *testing.T) {
	rec := sampleRecord()
	rec.GitInfo = &git.Snapshot{
		Branch:        "main",
		ModifiedFiles: files("mod", 13),
		StagedFiles:   files("staged", 7),
		RecentCommits: []string{"c1", "c2", "c3", "c4", "c5"},
	}

	out := RenderFull(rec, nil)
	if !strings.Contains(out, "  - mod9.go") || strings.Contains(out, "mod10.go") {
		t.Error("modified files not capped at 10")
	}
	if !strings.Contains(out, "... and 3 more") {
		t.Error("missing modified overflow suffix")
	}
	if !strings.Contains(out, "  - staged4.go") || strings.Contains(out, "staged5.go") {
		t.Error("staged files not capped at 5")
	}
	if !strings.Contains(out, "... and 2 more") {
		t.Error("missing staged overflow suffix")
	}
	if !strings.Contains(out, "  c3") || strings.Contains(out, "  c4") {
		t.Error("commits not capped at 3")
	}
}

func TestRenderFull_ExtendedContext(t *testing.T) {
	rec := sampleRecord()
	rec.ExtendedContext = Extended{}.
		Set("technical_decisions", List("Use JWT", "Postgres")).
		Set("important_notes", Text("rotate keys"))

	out := RenderFull(rec, nil)
	for _, want := range []string{
		"Technical Decisions:\n  - Use JWT\n  - Postgres",
		"Important Notes:\n  rotate keys",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderFull_ShortMemoryTruncation(t *testing.T) {
	rec := sampleRecord()
	long := strings.Repeat("line\n", 14) + "end"
	rec.ShortMemory = &long

	out := RenderFull(rec, nil)
	if !strings.Contains(out, "see SHORT_IMPORTANT_MEMORY.md for full content") {
		t.Error("missing full-document pointer")
	}
	shown := 0
	for _, line := range strings.Split(out, "\n") {
		if line == "line" || line == "end" {
			shown++
		}
	}
	if shown != 10 {
		t.Errorf("memory excerpt shows %d lines, want 10", shown)
	}

	short := "one\ntwo"
	rec.ShortMemory = &short
	if strings.Contains(RenderFull(rec, nil), "for full content") {
		t.Error("pointer shown for a short document")
	}
}

func TestRenderFull_DocumentationAccess(t *testing.T) {
	rec := sampleRecord()
	rec.MCPAvailable = false
	if !strings.Contains(RenderFull(rec, nil), "Context7 MCP: Not configured") {
		t.Error("false availability should render as not configured")
	}
	rec.MCPAvailable = true
	if !strings.Contains(RenderFull(rec, nil), "Context7 MCP: Available") {
		t.Error("true availability should render as available")
	}
}

type bracketTheme struct{}

func (bracketTheme) Banner(s string) string  { return "[" + s + "]" }
func (bracketTheme) Heading(s string) string { return "<" + s + ">" }
func (bracketTheme) Muted(s string) string   { return s }

func TestRenderFull_Theme(t *testing.T) {
	out := RenderFull(sampleRecord(), bracketTheme{})
	if !strings.Contains(out, "<PREVIOUS CONTEXT>") {
		t.Error("heading style not applied")
	}
	if !strings.HasPrefix(out, "[====") {
		t.Error("banner style not applied")
	}
}

func TestRenderDigest(t *testing.T) {
	rec := sampleRecord()
	rec.Context = "Implemented\nauth"
	rec.GitInfo = &git.Snapshot{ModifiedFiles: files("f", 7)}
	rec.ExtendedContext = Extended{}.
		Set("decisions", List("a", "b")).
		Set("note", Text("x"))

	got := RenderDigest(rec)
	want := "ATLAS SESSION RESUME | Session ID: 20240316_143022 | Previous Context: Implemented auth | " +
		"Next Task: Add tests | Modified Files: f0.go, f1.go, f2.go, f3.go, f4.go | decisions: a, b | note: x"
	if got != want {
		t.Errorf("RenderDigest() =\n%q\nwant\n%q", got, want)
	}
	if strings.Contains(got, "\n") {
		t.Error("digest spans multiple lines")
	}
}

func TestRenderDigest_NoGit(t *testing.T) {
	rec := sampleRecord()
	got := RenderDigest(rec)
	if strings.Contains(got, "Modified Files") {
		t.Errorf("digest without git mentions files: %q", got)
	}
}

func TestTitleKey(t *testing.T) {
	tests := map[string]string{
		"technical_decisions": "Technical Decisions",
		"important_notes":     "Important Notes",
		"api":                 "Api",
	}
	for in, want := range tests {
		if got := TitleKey(in); got != want {
			t.Errorf("TitleKey(%q) = %q, want %q", in, got, want)
		}
	}
}
