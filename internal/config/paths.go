package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the directory holding atlas state inside a project.
const DirName = ".atlas"

// RootEnv overrides root discovery when set.
const RootEnv = "ATLAS_ROOT"

// Paths locates every file atlas reads or writes. It is built once at
// startup from an explicit root and handed to each component.
type Paths struct {
	Root        string // the .atlas directory
	ProjectRoot string // the project containing Root
}

// NewPaths returns Paths rooted at root. ProjectRoot is root's parent.
func NewPaths(root string) Paths {
	root = filepath.Clean(root)
	return Paths{Root: root, ProjectRoot: filepath.Dir(root)}
}

// ResolvePaths picks the atlas root: an explicit flag value first, then
// $ATLAS_ROOT, then the nearest .atlas component of cwd, then cwd/.atlas.
func ResolvePaths(flagRoot, cwd string) (Paths, error) {
	root := flagRoot
	if root == "" {
		root = os.Getenv(RootEnv)
	}
	if root == "" {
		root = atlasAncestor(cwd)
	}
	if root == "" {
		root = filepath.Join(cwd, DirName)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Paths{}, err
	}
	return NewPaths(abs), nil
}

// atlasAncestor returns the path up to and including the last .atlas
// element of dir, or "" when dir is not inside one.
func atlasAncestor(dir string) string {
	parts := strings.Split(filepath.Clean(dir), string(filepath.Separator))
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == DirName {
			return strings.Join(parts[:i+1], string(filepath.Separator))
		}
	}
	return ""
}

// SessionsDir holds Session_<id>.json records and LATEST.json.
func (p Paths) SessionsDir() string {
	return filepath.Join(p.Root, "sessions")
}

// WorkingLogDir holds the <year>/<month>/<day>.md working log tree.
func (p Paths) WorkingLogDir() string {
	return filepath.Join(p.Root, "WORKING_LOG")
}

// MemoryDir holds long-form memory documents.
func (p Paths) MemoryDir() string {
	return filepath.Join(p.Root, "MEMORY")
}

// ShortMemoryPath is the short-memory document.
func (p Paths) ShortMemoryPath() string {
	return filepath.Join(p.Root, "SHORT_IMPORTANT_MEMORY.md")
}

// LogsDir holds the diagnostic log.
func (p Paths) LogsDir() string {
	return filepath.Join(p.Root, "logs")
}

// ConfigPath is the optional config.yaml.
func (p Paths) ConfigPath() string {
	return filepath.Join(p.Root, "config.yaml")
}

// BackupsDir holds timestamped backups made by update.
func (p Paths) BackupsDir() string {
	return filepath.Join(p.Root, "backups")
}

// Rel returns path relative to the atlas root, or path unchanged when
// it lies outside.
func (p Paths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
