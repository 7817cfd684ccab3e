// Package changelog reads the release notes kept in the atlas checkout's
// CHANGELOG.md so update can show what changed.
package changelog

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

// FileName is the release notes file at the atlas root.
const FileName = "CHANGELOG.md"

// Entry represents a single version's changelog entry
type Entry struct {
	Version string
	Date    string
	Changes []string
}

// versionRegex matches headers like "## v1.4.0 (2025-08-02)" or "## 1.4.0".
var versionRegex = regexp.MustCompile(`^##\s+v?(\d+\.\d+\.\d+)(?:\s+\(([^)]+)\))?`)

// Read parses the file at path. A missing file yields no entries.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse extracts entries in file order. Bullets before the first version
// header are ignored.
func Parse(content string) []Entry {
	var entries []Entry
	var current *Entry

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if matches := versionRegex.FindStringSubmatch(line); matches != nil {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &Entry{Version: matches[1], Date: matches[2]}
			continue
		}

		if current == nil {
			continue
		}
		for _, bullet := range []string{"- ", "* "} {
			if strings.HasPrefix(line, bullet) {
				current.Changes = append(current.Changes, strings.TrimPrefix(line, bullet))
				break
			}
		}
	}

	if current != nil {
		entries = append(entries, *current)
	}
	return entries
}

// Newest returns at most n entries ordered by version, highest first.
func Newest(entries []Entry, n int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && CompareVersions(sorted[j].Version, sorted[j-1].Version) > 0; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CompareVersions compares two semantic versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func CompareVersions(a, b string) int {
	aParts := parseVersion(a)
	bParts := parseVersion(b)

	for i := 0; i < 3; i++ {
		if aParts[i] < bParts[i] {
			return -1
		}
		if aParts[i] > bParts[i] {
			return 1
		}
	}
	return 0
}

// parseVersion extracts [major, minor, patch] from a version string
func parseVersion(v string) [3]int {
	v = strings.TrimPrefix(v, "v")

	parts := strings.Split(v, ".")
	var result [3]int
	for i := 0; i < 3 && i < len(parts); i++ {
		result[i], _ = strconv.Atoi(parts[i])
	}
	return result
}
