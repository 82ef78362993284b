// Package cleanup classifies media directories by whether any video
// files are left inside them.
package cleanup

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions are the file types that count as video.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mpg":  true,
	".mpeg": true,
	".mov":  true,
	".flv":  true,
	".wmv":  true,
	".iso":  true,
}

var errFoundVideo = errors.New("video found")

// Classification splits the scanned roots by video-file presence.
type Classification struct {
	WithVideo    []string
	WithoutVideo []string
}

// Scan classifies every root, preserving the argument order within each
// list. A root that cannot be read at all fails the scan.
func Scan(roots []string) (Classification, error) {
	var c Classification
	for _, root := range roots {
		hasVideo, err := HasVideoFile(root)
		if err != nil {
			return Classification{}, err
		}
		if hasVideo {
			c.WithVideo = append(c.WithVideo, root)
		} else {
			c.WithoutVideo = append(c.WithoutVideo, root)
		}
	}
	return c, nil
}

// HasVideoFile walks root and reports whether any video file lives under
// it, stopping at the first hit. Unreadable subdirectories are logged
// and skipped.
func HasVideoFile(root string) (bool, error) {
	if _, err := os.Stat(root); err != nil {
		return false, err
	}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Printf("[cleanup] skipping %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if VideoExtensions[strings.ToLower(filepath.Ext(path))] {
			return errFoundVideo
		}
		return nil
	})
	if errors.Is(err, errFoundVideo) {
		return true, nil
	}
	return false, err
}
