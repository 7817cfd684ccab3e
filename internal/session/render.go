package session

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	bannerWidth  = 80
	sectionWidth = 40

	maxModifiedShown = 10
	maxStagedShown   = 5
	maxCommitsShown  = 3
	maxMemoryLines   = 10
	maxDigestFiles   = 5
)

// Theme styles the pieces of the full report.
type Theme interface {
	Banner(s string) string
	Heading(s string) string
	Muted(s string) string
}

// PlainTheme leaves text unstyled.
type PlainTheme struct{}

func (PlainTheme) Banner(s string) string  { return s }
func (PlainTheme) Heading(s string) string { return s }
func (PlainTheme) Muted(s string) string   { return s }

var titleCaser = cases.Title(language.Und)

// TitleKey turns "technical_decisions" into "Technical Decisions".
func TitleKey(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// RenderFull builds the multi-section resume report. Sections whose data
// is absent are left out.
func RenderFull(rec *Record, theme Theme) string {
	if theme == nil {
		theme = PlainTheme{}
	}

	var out []string
	add := func(lines ...string) { out = append(out, lines...) }
	rule := strings.Repeat("=", bannerWidth)
	section := func(title string) {
		add(theme.Heading(title), theme.Muted(strings.Repeat("-", sectionWidth)))
	}

	add(theme.Banner(rule),
		theme.Banner("ATLAS SESSION RESUME - Professional Mode Active"),
		theme.Banner(identityLine(rec)),
		theme.Banner(rule),
		"")

	add("Session:   "+rec.SessionID,
		"Saved:     "+savedAt(rec),
		"Directory: "+rec.WorkingDirectory,
		"")

	section("PREVIOUS CONTEXT")
	add(rec.Context, "")

	section("NEXT TASK")
	add(rec.NextTask, "")

	if g := rec.GitInfo; g != nil {
		section("GIT STATUS")
		add("Branch: " + g.Branch)
		if len(g.ModifiedFiles) > 0 {
			add("", "Modified Files:")
			add(cappedList(g.ModifiedFiles, maxModifiedShown, theme)...)
		}
		if len(g.StagedFiles) > 0 {
			add("", "Staged Files:")
			add(cappedList(g.StagedFiles, maxStagedShown, theme)...)
		}
		if len(g.RecentCommits) > 0 {
			add("", "Recent Commits:")
			for i, c := range g.RecentCommits {
				if i == maxCommitsShown {
					break
				}
				add("  " + c)
			}
		}
		add("")
	}

	if len(rec.ExtendedContext) > 0 {
		section("EXTENDED CONTEXT")
		for _, e := range rec.ExtendedContext {
			add(TitleKey(e.Key) + ":")
			if e.Value.IsList {
				for _, item := range e.Value.List {
					add("  - " + item)
				}
			} else {
				add("  " + e.Value.Text)
			}
		}
		add("")
	}

	if rec.ShortMemory != nil && *rec.ShortMemory != "" {
		section("SHORT TERM MEMORY (excerpt)")
		lines := strings.Split(*rec.ShortMemory, "\n")
		if len(lines) > maxMemoryLines {
			add(lines[:maxMemoryLines]...)
			add(theme.Muted("... (see SHORT_IMPORTANT_MEMORY.md for full content)"))
		} else {
			add(lines...)
		}
		add("")
	}

	if p := WorkLogRef(rec); p != "" {
		section("WORKING LOG REFERENCE")
		add("See: "+p, "")
	}

	if rec.MCPAvailable != nil {
		section("DOCUMENTATION ACCESS")
		if truthy(rec.MCPAvailable) {
			add("Context7 MCP: Available",
				theme.Muted("   Use mcp__context7__search for up-to-date documentation"))
		} else {
			add("Context7 MCP: Not configured",
				theme.Muted("   Fallback: Use WebSearch for documentation verification"))
		}
		add("")
	}

	add(theme.Banner(rule),
		theme.Banner("PROFESSIONAL MODE: Active"),
		"Remember: Context switch complete. Personal concerns set aside.",
		"Focus: Engineering excellence through accumulated wisdom.",
		theme.Banner(rule))

	return strings.Join(out, "\n")
}

// RenderDigest builds the single-line form meant for pasting into another
// tool.
func RenderDigest(rec *Record) string {
	parts := []string{
		"ATLAS SESSION RESUME",
		"Session ID: " + rec.SessionID,
		"Previous Context: " + rec.Context,
		"Next Task: " + rec.NextTask,
	}

	if rec.GitInfo != nil && len(rec.GitInfo.ModifiedFiles) > 0 {
		files := rec.GitInfo.ModifiedFiles
		if len(files) > maxDigestFiles {
			files = files[:maxDigestFiles]
		}
		parts = append(parts, "Modified Files: "+strings.Join(files, ", "))
	}

	for _, e := range rec.ExtendedContext {
		parts = append(parts, e.Key+": "+e.Value.String())
	}

	for i, p := range parts {
		parts[i] = oneLine(p)
	}
	return strings.Join(parts, " | ")
}

// WorkLogRef is the working-log path for rec relative to the atlas root.
func WorkLogRef(rec *Record) string {
	m := rec.SessionMetadata
	if m == nil || m.Year == "" || m.Month == "" || m.Day == "" {
		return ""
	}
	return "WORKING_LOG/" + m.RelPath()
}

func identityLine(rec *Record) string {
	if rec.Identity != "" {
		return rec.Identity
	}
	return "Adaptive Technical Learning and Architecture System"
}

func savedAt(rec *Record) string {
	if t, ok := rec.Time(); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return rec.Timestamp
}

func cappedList(items []string, limit int, theme Theme) []string {
	lines := make([]string, 0, limit+1)
	for i, item := range items {
		if i == limit {
			lines = append(lines, theme.Muted(fmt.Sprintf("  ... and %d more", len(items)-limit)))
			break
		}
		lines = append(lines, "  - "+item)
	}
	return lines
}

// truthy treats false, "", 0 and "false" as unavailable.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != "" && !strings.EqualFold(x, "false")
	case float64:
		return x != 0
	default:
		return v != nil
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
