package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daveygoode/atlas/internal/config"
	atlaserrors "github.com/daveygoode/atlas/internal/errors"
	"github.com/daveygoode/atlas/internal/fsutil"
	"github.com/daveygoode/atlas/internal/git"
	"github.com/daveygoode/atlas/internal/logger"
	"github.com/daveygoode/atlas/internal/memory"
	"github.com/daveygoode/atlas/internal/worklog"
)

// GitCollector produces the git snapshot for a working directory, or nil.
type GitCollector interface {
	Snapshot(ctx context.Context, dir string) *git.Snapshot
}

// Options configures a Store. Zero values fall back to the live clock, the
// process user and working directory, and a git collector with default depth.
type Options struct {
	Now        func() time.Time
	User       string
	Identity   string
	WorkingDir string
	Git        GitCollector
}

// Store writes session records under an atlas root.
type Store struct {
	paths  config.Paths
	opts   Options
	log    *worklog.Log
	memory *memory.Document
}

// SaveResult describes what a save wrote.
type SaveResult struct {
	Record       *Record
	RecordPath   string
	WorkLogPath  string
	NoteAppended bool
}

// NewStore returns a Store rooted at paths.
func NewStore(paths config.Paths, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.User == "" {
		opts.User = config.DefaultConfig().ResolveUser()
	}
	if opts.Identity == "" {
		opts.Identity = config.DefaultIdentity
	}
	if opts.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkingDir = wd
		}
	}
	if opts.Git == nil {
		opts.Git = git.NewCollector(git.DefaultCommitCount)
	}
	return &Store{
		paths:  paths,
		opts:   opts,
		log:    worklog.New(paths.WorkingLogDir()),
		memory: memory.New(paths.ShortMemoryPath()),
	}
}

// Save records a new session and makes it the latest.
func (s *Store) Save(ctx context.Context, contextText, nextTask string, ext Extended) (*SaveResult, error) {
	now := s.opts.Now()
	id := NewID(now)
	bucket := worklog.BucketFor(now)
	log := logger.WithSession(id)

	shortMemory, ok, err := s.memory.Read()
	if err != nil {
		log.Warn("failed to read short memory", "path", s.memory.Path(), "error", err)
	}
	var memorySnapshot *string
	if ok {
		memorySnapshot = &shortMemory
	}

	rec := &Record{
		SessionID:        id,
		Timestamp:        now.Format(TimestampLayout),
		Identity:         s.opts.Identity,
		Context:          contextText,
		NextTask:         nextTask,
		ExtendedContext:  ext,
		WorkingDirectory: s.opts.WorkingDir,
		GitInfo:          s.opts.Git.Snapshot(ctx, s.opts.WorkingDir),
		ShortMemory:      memorySnapshot,
		ProfessionalMode: true,
		MCPAvailable:     DefaultMCPStatus,
		SessionMetadata:  &Metadata{Bucket: bucket, User: s.opts.User},
	}

	recordPath, err := s.write(rec)
	if err != nil {
		return nil, err
	}

	logPath, err := s.log.Append(bucket, worklog.Entry{
		Time:       now,
		SessionID:  id,
		Context:    contextText,
		NextTask:   nextTask,
		WorkingDir: s.opts.WorkingDir,
		User:       s.opts.User,
	})
	if err != nil {
		return nil, atlaserrors.RecordWriteFailed(s.log.Path(bucket), err)
	}

	result := &SaveResult{Record: rec, RecordPath: recordPath, WorkLogPath: logPath}
	if note, ok := ext.Get(ImportantNotesKey); ok {
		result.NoteAppended, err = s.Annotate(now, NoteText(note))
		if err != nil {
			return nil, err
		}
	}

	log.Info("session saved", "path", recordPath, "git", rec.GitInfo != nil)
	return result, nil
}

// write stores rec under its id and then under the latest alias, both from
// the same bytes.
func (s *Store) write(rec *Record) (string, error) {
	data, err := rec.Encode()
	if err != nil {
		return "", atlaserrors.RecordWriteFailed(rec.SessionID, err)
	}

	dir := s.paths.SessionsDir()
	recordPath := filepath.Join(dir, FileName(rec.SessionID))
	if fsutil.Exists(recordPath) {
		logger.WithSession(rec.SessionID).Warn("session id collision, overwriting", "path", recordPath)
	}
	if err := fsutil.WriteFileAtomic(recordPath, data, 0644); err != nil {
		return "", atlaserrors.RecordWriteFailed(recordPath, err)
	}

	latestPath := filepath.Join(dir, LatestFile)
	if err := fsutil.WriteFileAtomic(latestPath, data, 0644); err != nil {
		return "", atlaserrors.RecordWriteFailed(latestPath, err)
	}
	return recordPath, nil
}

// Annotate appends note to the Critical Notes section of the short-memory
// document. It reports false when the document or section is missing.
func (s *Store) Annotate(date time.Time, note string) (bool, error) {
	if strings.TrimSpace(note) == "" {
		return false, nil
	}
	ok, err := s.memory.AppendCriticalNote(date, note)
	if err != nil {
		return false, atlaserrors.RecordWriteFailed(s.memory.Path(), err)
	}
	return ok, nil
}

// NoteText flattens an important_notes value to a single line.
func NoteText(v Value) string {
	text := v.Text
	if v.IsList {
		text = strings.Join(v.List, "; ")
	}
	return strings.Join(strings.Fields(text), " ")
}
