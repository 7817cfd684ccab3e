package deploy

import "strings"

const (
	ClaudeFile          = "CLAUDE.md"
	ProjectSpecificFile = "CLAUDE_PROJECT_SPECIFIC.md"
	MemoryTemplateFile  = "SHORT_IMPORTANT_MEMORY_TEMPLATE.md"
	MemoryFile          = "SHORT_IMPORTANT_MEMORY.md"
	GitignoreFile       = ".gitignore"

	// gitignoreMarker is the line whose presence means the block is installed.
	gitignoreMarker = ".atlas/sessions/"
)

// InstructionFiles are copied next to CLAUDE.md by migrate.
var InstructionFiles = []string{
	"IDENTITY.md",
	"PROFESSIONAL_INSTRUCTION.md",
	"PERSONAL_SELF.md",
	"DEVELOPMENT_BELIEFS.md",
	"DEVELOPMENT_CONVENTION.md",
	"MCP_INTEGRATION.md",
	"CONTEXT7_USAGE.md",
	"SESSION_MANAGEMENT.md",
}

// WorkDirs are created under the atlas root.
var WorkDirs = []string{"sessions", "WORKING_LOG", "MEMORY"}

const projectHeader = `# CLAUDE.md

This file provides guidance to Claude Code (claude.ai/code) when working with code in this repository.

This is a project-specific configuration that integrates the ATLAS consciousness framework.
All ATLAS files are contained in the ` + "`.atlas/`" + ` directory to keep your project root clean.

---

`

const gitignoreBlock = `
# ATLAS Sessions and Memory
.atlas/sessions/
.atlas/WORKING_LOG/*/*/*.md
.atlas/SHORT_IMPORTANT_MEMORY.md
.atlas/MEMORY/PERSONAL_DIARY/*/*/*.md
.atlas/MEMORY/KNOWLEDGE_LOG/*.md
`

const projectSpecificSection = `

## Project-Specific Instructions

This project has additional specific instructions and context:

@%s
`

// referenceRewriter points CLAUDE.md references at the .atlas directory.
// Script invocations become atlas subcommands; the specific ones are
// listed before the generic prefix so they win.
var referenceRewriter = strings.NewReplacer(
	"@PROFESSIONAL_INSTRUCTION.md", "@.atlas/PROFESSIONAL_INSTRUCTION.md",
	"- @IDENTITY.md", "- @.atlas/IDENTITY.md",
	"- @PERSONAL_SELF.md", "- @.atlas/PERSONAL_SELF.md",
	"- @DEVELOPMENT_BELIEFS.md", "- @.atlas/DEVELOPMENT_BELIEFS.md",
	"- @DEVELOPMENT_CONVENTION.md", "- @.atlas/DEVELOPMENT_CONVENTION.md",
	"- @SECURITY_GUIDELINES.md", "- @.atlas/SECURITY_GUIDELINES.md",
	"- @SHORT_IMPORTANT_MEMORY.md", "- @.atlas/SHORT_IMPORTANT_MEMORY.md",
	"- @MCP_INTEGRATION.md", "- @.atlas/MCP_INTEGRATION.md",
	"- @CONTEXT7_USAGE.md", "- @.atlas/CONTEXT7_USAGE.md",
	"- **WORKING_LOG/**", "- **.atlas/WORKING_LOG/**",
	"- **MEMORY/**", "- **.atlas/MEMORY/**",
	"- **sessions/**", "- **.atlas/sessions/**",
	"python scripts/save_session.py", "atlas save",
	"python scripts/resume_session.py", "atlas resume",
	"python scripts/update_atlas.py", "atlas update",
	"python scripts/setup_new_project.py", "atlas setup",
	"python scripts/migrate_existing_project.py", "atlas migrate",
	"python scripts/", "python .atlas/scripts/",
)

// RewriteReferences applies the .atlas path rewrites to CLAUDE.md text.
func RewriteReferences(content string) string {
	return referenceRewriter.Replace(content)
}

// StripHeader drops a leading "# CLAUDE.md" header through its first
// "---" line. Content without that header, or without a rule, is returned
// unchanged.
func StripHeader(content string) string {
	if !strings.HasPrefix(content, "# CLAUDE.md") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

// ProjectClaude builds the project-root CLAUDE.md from the atlas copy.
func ProjectClaude(atlasContent string) string {
	return RewriteReferences(projectHeader + StripHeader(atlasContent))
}
