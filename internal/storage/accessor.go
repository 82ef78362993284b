// Package storage reaches the media share either natively over SMB or
// through a local mount of the same share.
package storage

// FileInfo describes a single path on the share.
type FileInfo struct {
	Exists bool
	IsDir  bool
	Size   int64
}

// Accessor performs file operations against the share. Paths are the
// smb:// URLs exactly as the media library records them.
type Accessor interface {
	// List returns the names of the entries in a directory.
	List(path string) ([]string, error)
	// Stat reports whether the path exists and what it is. A missing
	// path is not an error; it comes back with Exists false.
	Stat(path string) (FileInfo, error)
	// Delete removes a single file.
	Delete(path string) error
	Close() error
}

// OpError records a failed operation against one path.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }
