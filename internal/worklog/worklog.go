// Package worklog writes the date-bucketed working log: one append-only
// markdown file per day under <root>/WORKING_LOG/<year>/<MM-mon>/<DD>.md.
package worklog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daveygoode/atlas/internal/logger"
)

// Bucket identifies one working-log file.
type Bucket struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// BucketFor returns the bucket a save at t belongs to.
func BucketFor(t time.Time) Bucket {
	return Bucket{
		Year:  t.Format("2006"),
		Month: strings.ToLower(t.Format("01-Jan")),
		Day:   t.Format("02"),
	}
}

// RelPath is the bucket's file path relative to the working-log directory,
// always slash-separated.
func (b Bucket) RelPath() string {
	return b.Year + "/" + b.Month + "/" + b.Day + ".md"
}

// monthName turns "03-mar" into "Mar".
func (b Bucket) monthName() string {
	_, name, ok := strings.Cut(b.Month, "-")
	if !ok || name == "" {
		return b.Month
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Entry is one save event.
type Entry struct {
	Time       time.Time
	SessionID  string
	Context    string
	NextTask   string
	WorkingDir string
	User       string
}

// Log is the working-log tree rooted at dir.
type Log struct {
	dir string
}

// New returns the Log rooted at dir.
func New(dir string) *Log {
	return &Log{dir: dir}
}

// Path returns the file for bucket b.
func (l *Log) Path(b Bucket) string {
	return filepath.Join(l.dir, b.Year, b.Month, b.Day+".md")
}

// Append adds e to the file for b. A new file starts with the day header;
// an existing one only ever grows.
func (l *Log) Append(b Bucket, e Entry) (string, error) {
	path := l.Path(b)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create working log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	created := err == nil
	if os.IsExist(err) {
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	}
	if err != nil {
		return "", fmt.Errorf("failed to open working log: %w", err)
	}
	defer f.Close()

	var text string
	if created {
		text = Header(b) + FormatEntry(e)
	} else {
		text = "\n" + FormatEntry(e)
	}
	if _, err := f.WriteString(text); err != nil {
		return "", fmt.Errorf("failed to write working log: %w", err)
	}

	logger.WithSession(e.SessionID).Debug("appended working log entry", "path", path, "created", created)
	return path, nil
}

// Header is written once, when a day's file is created.
func Header(b Bucket) string {
	return fmt.Sprintf(`# Working Log - %s %s %s

> Atlas Engineering Session Log
> Professional Mode: Active

---
`, b.Day, b.monthName(), b.Year)
}

// FormatEntry renders the per-session section.
func FormatEntry(e Entry) string {
	ts := e.Time.Format("2006-01-02 15:04:05")

	var sb strings.Builder
	sb.WriteString("\n## Session: " + ts + "\n\n")
	sb.WriteString("### Context\n" + e.Context + "\n\n")
	sb.WriteString("### Next Task\n" + e.NextTask + "\n\n")
	sb.WriteString("### Session Details\n")
	if e.SessionID != "" {
		sb.WriteString("- Session ID: " + e.SessionID + "\n")
	}
	sb.WriteString("- Saved at: " + ts + "\n")
	sb.WriteString("- Working Directory: " + e.WorkingDir + "\n")
	if e.User != "" {
		sb.WriteString("- User: " + e.User + "\n")
	}
	sb.WriteString("\n---\n")
	return sb.String()
}
