package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rivo/uniseg"

	"github.com/daveygoode/atlas/internal/config"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/logger"
)

// PreviewLength is how many characters of context a listing shows.
const PreviewLength = 50

// Summary is one row of a session listing.
type Summary struct {
	ID        string
	Timestamp string
	Time      time.Time
	Preview   string
	Path      string
}

// Resumer reads session records back.
type Resumer struct {
	paths config.Paths
}

// NewResumer returns a Resumer rooted at paths.
func NewResumer(paths config.Paths) *Resumer {
	return &Resumer{paths: paths}
}

// summaryProbe decodes only what a listing needs. Pointers tell a missing
// key apart from an empty one.
type summaryProbe struct {
	SessionID *string `json:"session_id"`
	Timestamp *string `json:"timestamp"`
	Context   *string `json:"context"`
}

// List returns every readable id-keyed record, newest first. Files that do
// not decode or lack the listed fields are skipped.
func (r *Resumer) List() ([]Summary, error) {
	log := logger.ComponentLogger("resume")

	matches, err := filepath.Glob(filepath.Join(r.paths.SessionsDir(), FilePrefix+"*.json"))
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Debug("skipping unreadable record", "path", path, "error", err)
			continue
		}
		var probe summaryProbe
		if err := json.Unmarshal(data, &probe); err != nil {
			log.Debug("skipping corrupt record", "path", path, "error", err)
			continue
		}
		if probe.SessionID == nil || probe.Timestamp == nil || probe.Context == nil {
			log.Debug("skipping incomplete record", "path", path)
			continue
		}

		s := Summary{
			ID:        *probe.SessionID,
			Timestamp: *probe.Timestamp,
			Preview:   Preview(*probe.Context),
			Path:      path,
		}
		rec := Record{SessionID: s.ID, Timestamp: s.Timestamp}
		s.Time, _ = rec.Time()
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.After(b.Time)
		}
		return a.ID > b.ID
	})
	return summaries, nil
}

// Load returns the record for id, or the latest record when id is empty.
// A missing file yields (nil, nil).
func (r *Resumer) Load(id string) (*Record, error) {
	path, ok := r.resolve(id)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, atlaserrors.RecordReadFailed(path, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, atlaserrors.RecordCorrupt(path, err)
	}
	logger.WithSession(rec.SessionID).Debug("loaded session record", "path", path)
	return rec, nil
}

// LoadRaw returns the stored bytes for id, or for the latest record.
func (r *Resumer) LoadRaw(id string) ([]byte, error) {
	path, ok := r.resolve(id)
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, atlaserrors.RecordReadFailed(path, err)
	}
	return data, nil
}

// resolve maps id to an existing file. The id may carry the Session_
// prefix and the .json suffix.
func (r *Resumer) resolve(id string) (string, bool) {
	dir := r.paths.SessionsDir()
	if id == "" {
		path := filepath.Join(dir, LatestFile)
		return path, isFile(path)
	}

	id = strings.TrimSuffix(id, ".json")
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", false
	}

	for _, name := range []string{FileName(id), id + ".json"} {
		path := filepath.Join(dir, name)
		if isFile(path) {
			return path, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Preview truncates context to PreviewLength characters, adding "..." when
// anything was cut. Characters are grapheme clusters, so combined emoji and
// accents are never split.
func Preview(context string) string {
	if uniseg.GraphemeClusterCount(context) <= PreviewLength {
		return context
	}

	var sb strings.Builder
	g := uniseg.NewGraphemes(context)
	for n := 0; n < PreviewLength && g.Next(); n++ {
		sb.WriteString(g.Str())
	}
	return sb.String() + "..."
}
