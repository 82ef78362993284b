package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	m := PathMapping{RemotePrefix: "smb://server/share/", LocalPrefix: "/mnt/media"}

	got, err := m.Translate("smb://server/share/Show/ep1.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/media/Show/ep1.mkv", got)
}

func TestTranslateWithoutTrailingSlash(t *testing.T) {
	m := PathMapping{RemotePrefix: "smb://server/share", LocalPrefix: "/mnt/media"}

	got, err := m.Translate("smb://server/share/Show/ep1.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/media/Show/ep1.mkv", got)
}

func TestTranslateOutsidePrefix(t *testing.T) {
	m := PathMapping{RemotePrefix: "smb://server/share/", LocalPrefix: "/mnt/media"}

	_, err := m.Translate("smb://other/share/Show/ep1.mkv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside mapping prefix")
}

func TestTranslateSpacesSurvive(t *testing.T) {
	m := PathMapping{RemotePrefix: "smb://nas/tv/", LocalPrefix: "/mnt/tv"}

	got, err := m.Translate("smb://nas/tv/Breaking Bad/Season 1/ep1.mkv")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/tv/Breaking Bad/Season 1/ep1.mkv", got)
}
