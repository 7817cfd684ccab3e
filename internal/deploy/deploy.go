// Package deploy installs atlas into a project: the project CLAUDE.md, the
// working directories, the short-memory document and the .gitignore block.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daveygoode/atlas/internal/changelog"
	"github.com/daveygoode/atlas/internal/config"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/fsutil"
	"github.com/daveygoode/atlas/internal/git"
	"github.com/daveygoode/atlas/internal/logger"
)

// BackupLayout names timestamped backups.
const BackupLayout = "20060102_150405"

// changelogDepth is how many atlas commits update reports.
const changelogDepth = 10

// releaseDepth is how many CHANGELOG.md entries update reports.
const releaseDepth = 3

// Report lists what a deploy operation did, one line per step.
type Report struct {
	Steps     []string
	BackupDir string
	Changelog []string
	Releases  []changelog.Entry
}

func (r *Report) add(format string, args ...any) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}

// Deployer installs atlas from paths.Root into a project directory.
type Deployer struct {
	paths      config.Paths
	projectDir string
	now        func() time.Time
	git        *git.Collector
	log        *slog.Logger
}

// New returns a Deployer for projectDir. An empty projectDir means the
// parent of the atlas root.
func New(paths config.Paths, projectDir string) *Deployer {
	if projectDir == "" {
		projectDir = paths.ProjectRoot
	}
	return &Deployer{
		paths:      paths,
		projectDir: projectDir,
		now:        time.Now,
		git:        git.NewCollector(changelogDepth),
		log:        logger.ComponentLogger("deploy"),
	}
}

// check refuses to run from inside the atlas directory or without one.
func (d *Deployer) check() error {
	project, err := filepath.Abs(d.projectDir)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(d.paths.Root)
	if err != nil {
		return err
	}
	if project == root {
		return atlaserrors.RootInsideAtlas(root)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return atlaserrors.AtlasDirMissing(root)
	}
	return nil
}

func (d *Deployer) atlasFile(name string) string {
	return filepath.Join(d.paths.Root, name)
}

func (d *Deployer) projectFile(name string) string {
	return filepath.Join(d.projectDir, name)
}

// Setup installs atlas into a fresh project.
func (d *Deployer) Setup() (*Report, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	report := &Report{}

	src := d.atlasFile(ClaudeFile)
	if data, err := os.ReadFile(src); err == nil {
		if err := fsutil.WriteFileAtomic(d.projectFile(ClaudeFile), []byte(ProjectClaude(string(data))), 0644); err != nil {
			return nil, err
		}
		report.add("Created %s in project root", ClaudeFile)
	} else if !os.IsNotExist(err) {
		return nil, err
	} else {
		d.log.Warn("no CLAUDE.md in atlas root", "path", src)
	}

	if err := d.createWorkDirs(report); err != nil {
		return nil, err
	}

	template := d.atlasFile(MemoryTemplateFile)
	if fsutil.Exists(template) {
		if err := fsutil.CopyFile(template, d.paths.ShortMemoryPath()); err != nil {
			return nil, err
		}
		report.add("Created %s/%s", config.DirName, MemoryFile)
	}

	if err := d.patchGitignore(report); err != nil {
		return nil, err
	}

	d.log.Info("setup complete", "project", d.projectDir, "steps", len(report.Steps))
	return report, nil
}

// Migrate converts a project with its own CLAUDE.md. The existing file is
// backed up and kept as CLAUDE_PROJECT_SPECIFIC.md, referenced from the new one.
func (d *Deployer) Migrate() (*Report, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	report := &Report{}

	src := d.atlasFile(ClaudeFile)
	atlasClaude, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil, atlaserrors.TemplateMissing(src)
	}
	if err != nil {
		return nil, err
	}

	existing := d.projectFile(ClaudeFile)
	if fsutil.Exists(existing) {
		backup := "CLAUDE_backup_" + d.now().Format(BackupLayout) + ".md"
		if err := fsutil.CopyFile(existing, d.projectFile(backup)); err != nil {
			return nil, err
		}
		report.add("Backed up existing %s to %s", ClaudeFile, backup)

		if err := os.Rename(existing, d.projectFile(ProjectSpecificFile)); err != nil {
			return nil, err
		}
		report.add("Moved existing %s to %s", ClaudeFile, ProjectSpecificFile)
	}

	content := ProjectClaude(string(atlasClaude))
	if fsutil.Exists(d.projectFile(ProjectSpecificFile)) {
		content = withProjectReference(content, ProjectSpecificFile)
	}
	if err := fsutil.WriteFileAtomic(existing, []byte(content), 0644); err != nil {
		return nil, err
	}
	report.add("Created new %s with project reference", ClaudeFile)

	for _, name := range InstructionFiles {
		from, to := d.atlasFile(name), d.projectFile(name)
		if !fsutil.Exists(from) || fsutil.Exists(to) {
			continue
		}
		if err := fsutil.CopyFile(from, to); err != nil {
			return nil, err
		}
		report.add("Added %s", name)
	}

	if err := d.createWorkDirs(report); err != nil {
		return nil, err
	}

	template := d.atlasFile(MemoryTemplateFile)
	if !fsutil.Exists(d.paths.ShortMemoryPath()) && fsutil.Exists(template) {
		if err := fsutil.CopyFile(template, d.paths.ShortMemoryPath()); err != nil {
			return nil, err
		}
		report.add("Created %s/%s", config.DirName, MemoryFile)
	}

	d.log.Info("migration complete", "project", d.projectDir, "steps", len(report.Steps))
	return report, nil
}

// Dirty reports uncommitted changes in the atlas directory, when it is a
// git checkout.
func (d *Deployer) Dirty(ctx context.Context) bool {
	snap := d.git.Snapshot(ctx, d.paths.Root)
	return snap != nil && snap.StatusSummary != ""
}

// Update backs up local customizations and regenerates the project
// CLAUDE.md from the atlas copy.
func (d *Deployer) Update(ctx context.Context) (*Report, error) {
	root := d.paths.Root
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, atlaserrors.AtlasDirMissing(root)
	}
	report := &Report{}

	report.BackupDir = filepath.Join(d.paths.BackupsDir(), d.now().Format(BackupLayout))
	if err := os.MkdirAll(report.BackupDir, 0755); err != nil {
		return nil, err
	}

	for _, name := range []string{MemoryFile, ProjectSpecificFile} {
		src := d.atlasFile(name)
		if !fsutil.Exists(src) {
			continue
		}
		if err := fsutil.CopyFile(src, filepath.Join(report.BackupDir, name)); err != nil {
			return nil, err
		}
		report.add("Backed up %s", name)
	}

	sessions := d.paths.SessionsDir()
	if entries, err := os.ReadDir(sessions); err == nil && len(entries) > 0 {
		if err := fsutil.CopyDir(sessions, filepath.Join(report.BackupDir, "sessions")); err != nil {
			return nil, err
		}
		report.add("Backed up session data")
	}

	src := d.atlasFile(ClaudeFile)
	atlasClaude, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return nil, atlaserrors.TemplateMissing(src)
	}
	if err != nil {
		return nil, err
	}

	projectClaude := d.projectFile(ClaudeFile)
	if fsutil.Exists(projectClaude) {
		if err := fsutil.CopyFile(projectClaude, filepath.Join(report.BackupDir, ClaudeFile)); err != nil {
			return nil, err
		}
		report.add("Backed up existing %s", ClaudeFile)
	}

	content := RewriteReferences(string(atlasClaude))
	if fsutil.Exists(d.atlasFile(ProjectSpecificFile)) {
		content = withProjectReference(content, config.DirName+"/"+ProjectSpecificFile)
	}
	if err := fsutil.WriteFileAtomic(projectClaude, []byte(content), 0644); err != nil {
		return nil, err
	}
	report.add("Updated project %s", ClaudeFile)

	if snap := d.git.Snapshot(ctx, root); snap != nil {
		report.Changelog = snap.RecentCommits
	}
	if entries, err := changelog.Read(d.atlasFile(changelog.FileName)); err != nil {
		d.log.Warn("could not read changelog", "error", err)
	} else {
		report.Releases = changelog.Newest(entries, releaseDepth)
	}

	d.log.Info("update complete", "backup", report.BackupDir, "steps", len(report.Steps))
	return report, nil
}

func (d *Deployer) createWorkDirs(report *Report) error {
	for _, dir := range WorkDirs {
		if err := os.MkdirAll(filepath.Join(d.paths.Root, dir), 0755); err != nil {
			return err
		}
		report.add("Created %s/%s/", config.DirName, dir)
	}
	return nil
}

// patchGitignore appends the atlas block unless it is already present.
func (d *Deployer) patchGitignore(report *Report) error {
	path := d.projectFile(GitignoreFile)
	existing, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := os.WriteFile(path, []byte(gitignoreBlock), 0644); err != nil {
			return err
		}
		report.add("Created %s", GitignoreFile)
		return nil
	case err != nil:
		return err
	case strings.Contains(string(existing), gitignoreMarker):
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(gitignoreBlock); err != nil {
		return err
	}
	report.add("Updated %s", GitignoreFile)
	return nil
}

// withProjectReference appends the project-specific section once.
func withProjectReference(content, ref string) string {
	if strings.Contains(content, "@"+ref) {
		return content
	}
	return content + fmt.Sprintf(projectSpecificSection, ref)
}
