// Package git probes a working directory for version-control state.
// Every probe is best effort: a directory that is not a repository, or a
// machine without git, yields a nil Snapshot rather than an error.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/logger"
)

// DefaultCommitCount is how many commit summaries a Snapshot keeps.
const DefaultCommitCount = 5

// Snapshot is the git state of a working directory at save time.
type Snapshot struct {
	Branch        string   `json:"branch"`
	ModifiedFiles []string `json:"modified_files"`
	StagedFiles   []string `json:"staged_files"`
	RecentCommits []string `json:"recent_commits"`
	StatusSummary string   `json:"status_summary"`
}

// Collector runs the git CLI against a directory.
type Collector struct {
	commitCount int
}

// NewCollector returns a Collector keeping commitCount recent commits.
// Non-positive values fall back to DefaultCommitCount.
func NewCollector(commitCount int) *Collector {
	if commitCount <= 0 {
		commitCount = DefaultCommitCount
	}
	return &Collector{commitCount: commitCount}
}

// Snapshot returns dir's git state, or nil when dir is not inside a
// repository or git is unavailable.
func (c *Collector) Snapshot(ctx context.Context, dir string) *Snapshot {
	snap, err := c.collect(ctx, dir)
	if err != nil {
		logger.Debug("Git: no snapshot for %s: %v", dir, err)
		return nil
	}
	return snap
}

// IsRepo reports whether dir is inside a git working tree.
func (c *Collector) IsRepo(ctx context.Context, dir string) bool {
	_, err := run(ctx, dir, "rev-parse", "--git-dir")
	return err == nil
}

func (c *Collector) collect(ctx context.Context, dir string) (*Snapshot, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}
	if !c.IsRepo(ctx, dir) {
		return nil, atlaserrors.GitNotRepo(dir)
	}

	branch, err := c.branch(ctx, dir)
	if err != nil {
		return nil, err
	}

	modified, err := run(ctx, dir, "diff", "--name-only")
	if err != nil {
		return nil, err
	}
	staged, err := run(ctx, dir, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	status, err := run(ctx, dir, "status", "--short")
	if err != nil {
		return nil, err
	}

	commits := []string{}
	if hasCommits(ctx, dir) {
		out, err := run(ctx, dir, "log", "--oneline", "-"+strconv.Itoa(c.commitCount))
		if err != nil {
			return nil, err
		}
		commits = splitLines(out)
	}

	return &Snapshot{
		Branch:        branch,
		ModifiedFiles: splitLines(modified),
		StagedFiles:   splitLines(staged),
		RecentCommits: commits,
		StatusSummary: strings.TrimRight(status, "\r\n"),
	}, nil
}

// branch falls back to symbolic-ref for repositories without commits,
// where rev-parse --abbrev-ref HEAD fails.
func (c *Collector) branch(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		return strings.TrimSpace(out), nil
	}
	out, err = run(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func hasCommits(ctx context.Context, dir string) bool {
	_, err := run(ctx, dir, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(output), nil
}

// splitLines splits command output into non-empty lines.
func splitLines(out string) []string {
	lines := []string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
