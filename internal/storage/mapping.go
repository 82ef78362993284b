package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathMapping rewrites library paths onto a local mount of the same share,
// e.g. smb://server/share/Show/ep1.mkv onto /mnt/media/Show/ep1.mkv.
type PathMapping struct {
	RemotePrefix string
	LocalPrefix  string
}

// Translate maps one library path to its location under the mount.
// Paths outside the remote prefix cannot be mapped.
func (m PathMapping) Translate(path string) (string, error) {
	if !strings.HasPrefix(path, m.RemotePrefix) {
		return "", fmt.Errorf("path %q is outside mapping prefix %q", path, m.RemotePrefix)
	}
	rel := strings.TrimPrefix(path, m.RemotePrefix)
	return filepath.Join(m.LocalPrefix, filepath.FromSlash(rel)), nil
}
