// Package memory manages the short-memory document: a hand-curated
// markdown file whose "Critical Notes" section atlas may append to.
package memory

import (
	"os"
	"strings"
	"time"

	"github.com/daveygoode/atlas/internal/fsutil"
	"github.com/daveygoode/atlas/internal/logger"
)

// CriticalNotesHeading marks the section notes are appended to.
const CriticalNotesHeading = "## Critical Notes"

// Document is the short-memory file at a fixed path.
type Document struct {
	path string
}

// New returns the Document stored at path.
func New(path string) *Document {
	return &Document{path: path}
}

// Path returns the document location.
func (d *Document) Path() string {
	return d.path
}

// Read returns the full document text. A missing document is reported
// with ok == false and no error.
func (d *Document) Read() (content string, ok bool, err error) {
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// AppendCriticalNote adds "- <date>: <note>" as the last line of the
// Critical Notes section. It reports false without touching the file when
// the document or the section heading is missing.
func (d *Document) AppendCriticalNote(date time.Time, note string) (bool, error) {
	content, ok, err := d.Read()
	if err != nil || !ok {
		return false, err
	}

	updated, ok := insertNote(content, FormatNote(date, note))
	if !ok {
		logger.Debug("Memory: no %q section in %s, note skipped", CriticalNotesHeading, d.path)
		return false, nil
	}

	if err := fsutil.WriteFileAtomic(d.path, []byte(updated), 0644); err != nil {
		return false, err
	}
	logger.Info("Memory: appended critical note to %s", d.path)
	return true, nil
}

// FormatNote renders a single-line bullet for note.
func FormatNote(date time.Time, note string) string {
	note = strings.Join(strings.Fields(note), " ")
	return "- " + date.Format("2006-01-02") + ": " + note
}

// insertNote places line after the last non-blank line of the Critical
// Notes section, which ends at the next top- or second-level heading.
func insertNote(content, line string) (string, bool) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), CriticalNotesHeading) {
			start = i
			break
		}
	}
	if start < 0 {
		return content, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "# ") || strings.HasPrefix(lines[i], "## ") {
			end = i
			break
		}
	}

	at := end
	for at-1 > start && strings.TrimSpace(lines[at-1]) == "" {
		at--
	}

	// Match the section's line ending so CRLF documents stay CRLF.
	eol := "\n"
	if strings.HasSuffix(lines[start], "\r") {
		line += "\r"
		eol = "\r\n"
		if !strings.HasSuffix(lines[at-1], "\r") {
			lines[at-1] += "\r"
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, line)
	out = append(out, lines[at:]...)

	result := strings.Join(out, "\n")
	if !strings.HasSuffix(result, "\n") {
		result = strings.TrimSuffix(result, "\r") + eol
	}
	return result, true
}
