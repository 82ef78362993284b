package storage

import (
	"os"

	"github.com/JustinTDCT/KodiSweep/internal/config"
)

// Local reaches the share through a local mount point, translating every
// library path through a PathMapping first.
type Local struct {
	mapping PathMapping
}

// NewLocal builds a mount-backed accessor. Both prefixes are required.
func NewLocal(remotePrefix, localPrefix string) (*Local, error) {
	if remotePrefix == "" {
		return nil, &config.Error{Field: "storage.mount.remote_prefix", Reason: "required"}
	}
	if localPrefix == "" {
		return nil, &config.Error{Field: "storage.mount.local_prefix", Reason: "required"}
	}
	return &Local{mapping: PathMapping{RemotePrefix: remotePrefix, LocalPrefix: localPrefix}}, nil
}

func (l *Local) List(path string) ([]string, error) {
	local, err := l.mapping.Translate(path)
	if err != nil {
		return nil, &OpError{Op: "list", Path: path, Err: err}
	}
	entries, err := os.ReadDir(local)
	if err != nil {
		return nil, &OpError{Op: "list", Path: path, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (l *Local) Stat(path string) (FileInfo, error) {
	local, err := l.mapping.Translate(path)
	if err != nil {
		return FileInfo{}, &OpError{Op: "stat", Path: path, Err: err}
	}
	info, err := os.Stat(local)
	if os.IsNotExist(err) {
		return FileInfo{}, nil
	}
	if err != nil {
		return FileInfo{}, &OpError{Op: "stat", Path: path, Err: err}
	}
	return FileInfo{Exists: true, IsDir: info.IsDir(), Size: info.Size()}, nil
}

func (l *Local) Delete(path string) error {
	local, err := l.mapping.Translate(path)
	if err != nil {
		return &OpError{Op: "delete", Path: path, Err: err}
	}
	if err := os.Remove(local); err != nil {
		return &OpError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

// Close is a no-op; the mount belongs to the operating system.
func (l *Local) Close() error { return nil }
