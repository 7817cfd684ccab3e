package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daveygoode/atlas/internal/git"
	"github.com/daveygoode/atlas/internal/worklog"
)

const (
	// IDLayout is the time layout a session id is derived from.
	IDLayout = "20060102_150405"

	// TimestampLayout is how Record.Timestamp is written.
	TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

	// FilePrefix starts every id-keyed record file name.
	FilePrefix = "Session_"

	// LatestFile is the alias that mirrors the newest record.
	LatestFile = "LATEST.json"

	// DefaultMCPStatus is recorded when nothing probed documentation access.
	DefaultMCPStatus = "Check during runtime"
)

// timestampLayouts are accepted when reading records back, newest first.
// The naive layouts cover records written without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Metadata fixes the working-log bucket and the saving user.
type Metadata struct {
	worklog.Bucket
	User string `json:"user"`
}

// Record is one saved session. Once written it is never modified.
type Record struct {
	SessionID        string        `json:"session_id"`
	Timestamp        string        `json:"timestamp"`
	Identity         string        `json:"atlas_identity"`
	Context          string        `json:"context"`
	NextTask         string        `json:"next_task"`
	ExtendedContext  Extended      `json:"extended_context"`
	WorkingDirectory string        `json:"working_directory"`
	GitInfo          *git.Snapshot `json:"git_info"`
	ShortMemory      *string       `json:"short_memory"`
	ProfessionalMode bool          `json:"professional_mode"`
	MCPAvailable     any           `json:"mcp_available,omitempty"`
	SessionMetadata  *Metadata     `json:"session_metadata,omitempty"`
}

// NewID derives a session id from t.
func NewID(t time.Time) string {
	return t.Format(IDLayout)
}

// FileName is the id-keyed file name for id.
func FileName(id string) string {
	return FilePrefix + id + ".json"
}

// ParseTimestamp reads a record timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Time returns the parsed timestamp, falling back to the session id.
func (r *Record) Time() (time.Time, bool) {
	if t, err := ParseTimestamp(r.Timestamp); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(IDLayout, r.SessionID, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Encode serializes the record the way it is stored on disk.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a stored record.
func Decode(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
