// Package session persists and reloads atlas session records.
//
// # Overview
//
// A session record is an immutable JSON snapshot taken when the user saves:
// free-text context and next task, optional extended context, the git state
// of the working directory and a copy of the short-memory document.
//
// # Layout
//
// Records live under <atlas root>/sessions:
//
//	sessions/Session_<YYYYMMDD_HHMMSS>.json   one per save, never rewritten
//	sessions/LATEST.json                      byte-identical copy of the newest save
//
// Both files are written from the same encoded bytes with write-then-rename,
// so a reader never sees a half-written record or a LATEST that disagrees
// with its id-keyed file.
//
// # Save
//
// Store.Save collects inputs, writes both record files, appends an entry to
// the working log bucket named in session_metadata and, when the extended
// context carries important_notes, calls Store.Annotate.
//
// # Resume
//
// Resumer.List scans the id-keyed files newest first, skipping anything that
// does not decode. Resumer.Load resolves an id (with or without the Session_
// prefix) or the latest alias. RenderFull and RenderDigest turn a record into
// the human report and the single-line digest.
package session
