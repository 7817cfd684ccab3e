// Package errors provides structured error types for atlas.
// Each error records the operation that failed and a Kind used by the CLI
// to decide whether a condition is reported to the user or aborts the run.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindPermission
	KindIO
	KindConfig
	KindGit
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindGit:
		return "git error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for atlas.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Session errors
func SessionNotFound(id string) error {
	return E(Op("session.Load"), KindNotFound, fmt.Sprintf("session '%s' not found", id))
}

func NoSessions() error {
	return E(Op("session.Load"), KindNotFound, "no sessions found")
}

func ExtendedContextInvalid(err error) error {
	return E(Op("session.ParseExtended"), KindInvalid, "invalid JSON in extended context", err)
}

func RecordWriteFailed(path string, err error) error {
	return E(Op("session.Write"), KindIO, fmt.Sprintf("failed to write %s", path), err)
}

func RecordReadFailed(path string, err error) error {
	return E(Op("session.Read"), KindIO, fmt.Sprintf("failed to read %s", path), err)
}

// RecordCorrupt reports a record file that exists but does not decode.
func RecordCorrupt(path string, err error) error {
	return E(Op("session.Read"), KindInvalid, fmt.Sprintf("corrupt session record %s", path), err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Git errors
func GitNotRepo(path string) error {
	return E(Op("git.Snapshot"), KindGit, fmt.Sprintf("%s is not a git repository", path))
}

// Deploy errors
func RootInsideAtlas(path string) error {
	return E(Op("deploy.Check"), KindInvalid, fmt.Sprintf("cannot run from within the atlas directory %s", path))
}

func AtlasDirMissing(path string) error {
	return E(Op("deploy.Check"), KindNotFound, fmt.Sprintf("atlas directory %s not found", path))
}

func TemplateMissing(name string) error {
	return E(Op("deploy.Template"), KindNotFound, fmt.Sprintf("template %s not found", name))
}
