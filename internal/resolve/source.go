// Package resolve reconciles the library's watched items against the
// share and deletes what is safe to delete.
package resolve

import "context"

// MediaKind selects which parts of the video library a source reads.
type MediaKind string

const (
	TV     MediaKind = "tv"
	Movies MediaKind = "movies"
	All    MediaKind = "all"
)

// WatchedItem is one fully played library entry.
type WatchedItem struct {
	Show  string // series title; for movies, the movie title
	Title string // episode or display title
	Path  string // file path exactly as the library records it
}

// Source yields every watched item of the requested kind.
type Source interface {
	Watched(ctx context.Context, kind MediaKind) ([]WatchedItem, error)
}

// SourceError means the library itself could not be read. Nothing can
// proceed without it, so a run stops here.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return "reading " + e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error { return e.Err }
