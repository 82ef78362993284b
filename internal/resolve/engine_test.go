package resolve

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/JustinTDCT/KodiSweep/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	items []WatchedItem
	err   error
}

func (f *fakeSource) Watched(ctx context.Context, kind MediaKind) ([]WatchedItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeAccessor struct {
	files     map[string]int64
	dirs      map[string]bool
	statErr   map[string]error
	deleteErr map[string]error

	deleted   []string
	statCalls int
}

func newFakeAccessor() *fakeAccessor {
	return &fakeAccessor{
		files:     make(map[string]int64),
		dirs:      make(map[string]bool),
		statErr:   make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeAccessor) List(path string) ([]string, error) { return nil, nil }

func (f *fakeAccessor) Stat(path string) (storage.FileInfo, error) {
	f.statCalls++
	if err := f.statErr[path]; err != nil {
		return storage.FileInfo{}, err
	}
	if f.dirs[path] {
		return storage.FileInfo{Exists: true, IsDir: true}, nil
	}
	size, ok := f.files[path]
	if !ok {
		return storage.FileInfo{}, nil
	}
	return storage.FileInfo{Exists: true, Size: size}, nil
}

func (f *fakeAccessor) Delete(path string) error {
	if err := f.deleteErr[path]; err != nil {
		return err
	}
	if _, ok := f.files[path]; !ok {
		return &storage.OpError{Op: "delete", Path: path, Err: os.ErrNotExist}
	}
	delete(f.files, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeAccessor) Close() error { return nil }

func item(show, path string) WatchedItem {
	return WatchedItem{Show: show, Title: show, Path: path}
}

func TestRunDeletesWatched(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/Archer/s01e01.mkv"] = 700
	acc.files["smb://nas/tv/Archer/s01e02.mkv"] = 300

	source := &fakeSource{items: []WatchedItem{
		item("Archer", "smb://nas/tv/Archer/s01e01.mkv"),
		item("Archer", "smb://nas/tv/Archer/s01e02.mkv"),
	}}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, int64(1000), report.BytesFreed)
	assert.Len(t, acc.deleted, 2)
	assert.Empty(t, acc.files)
}

func TestRunProtectsKeepList(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/Breaking Bad/s01e01.mkv"] = 700
	acc.files["smb://nas/tv/Archer/s01e01.mkv"] = 300

	source := &fakeSource{items: []WatchedItem{
		item("breaking_bad", "smb://nas/tv/Breaking Bad/s01e01.mkv"),
		item("Archer", "smb://nas/tv/Archer/s01e01.mkv"),
	}}
	keep := NewKeepList([]string{"Breaking Bad"})

	report, err := NewEngine(source, acc, keep, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedKeepList)
	assert.Equal(t, 1, report.Deleted)
	assert.Contains(t, acc.files, "smb://nas/tv/Breaking Bad/s01e01.mkv")

	// Protected items never reach the share.
	assert.Equal(t, 1, acc.statCalls)
}

func TestRunSecondPassIdempotent(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/Archer/s01e01.mkv"] = 700

	source := &fakeSource{items: []WatchedItem{
		item("Archer", "smb://nas/tv/Archer/s01e01.mkv"),
	}}

	ctx := context.Background()
	first, err := NewEngine(source, acc, nil, false).Run(ctx, TV)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Deleted)

	second, err := NewEngine(source, acc, nil, false).Run(ctx, TV)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Deleted)
	assert.Equal(t, 1, second.SkippedNotFound)
	assert.Equal(t, 0, second.Failed)
}

func TestRunReportID(t *testing.T) {
	acc := newFakeAccessor()
	source := &fakeSource{}

	first, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	// Every run gets its own identifier.
	second, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunPartialFailure(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/A/1.mkv"] = 100
	acc.files["smb://nas/tv/B/1.mkv"] = 100
	acc.files["smb://nas/tv/C/1.mkv"] = 100
	acc.deleteErr["smb://nas/tv/B/1.mkv"] = &storage.OpError{
		Op: "delete", Path: "smb://nas/tv/B/1.mkv", Err: os.ErrPermission,
	}

	source := &fakeSource{items: []WatchedItem{
		item("A", "smb://nas/tv/A/1.mkv"),
		item("B", "smb://nas/tv/B/1.mkv"),
		item("C", "smb://nas/tv/C/1.mkv"),
	}}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Deleted)
	assert.Equal(t, 1, report.Failed)

	// The failure lands on the right item and carries its reason.
	assert.Equal(t, Failed, report.Results[1].Outcome)
	assert.Contains(t, report.Results[1].Reason, "permission")
}

func TestRunStatFailureContinues(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/B/1.mkv"] = 100
	acc.statErr["smb://nas/tv/A/1.mkv"] = errors.New("share unreachable")

	source := &fakeSource{items: []WatchedItem{
		item("A", "smb://nas/tv/A/1.mkv"),
		item("B", "smb://nas/tv/B/1.mkv"),
	}}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Deleted)
}

func TestRunZeroItems(t *testing.T) {
	acc := newFakeAccessor()
	source := &fakeSource{}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, acc.statCalls)
}

func TestRunDryRun(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/Archer/s01e01.mkv"] = 700

	source := &fakeSource{items: []WatchedItem{
		item("Archer", "smb://nas/tv/Archer/s01e01.mkv"),
	}}

	report, err := NewEngine(source, acc, nil, true).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, int64(700), report.BytesFreed)

	// Nothing actually touched.
	assert.Empty(t, acc.deleted)
	assert.Contains(t, acc.files, "smb://nas/tv/Archer/s01e01.mkv")
}

func TestRunRefusesDirectories(t *testing.T) {
	acc := newFakeAccessor()
	acc.dirs["smb://nas/tv/Archer"] = true

	source := &fakeSource{items: []WatchedItem{
		item("Archer", "smb://nas/tv/Archer"),
	}}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "is a directory", report.Results[0].Reason)
	assert.Empty(t, acc.deleted)
}

func TestRunSourceError(t *testing.T) {
	acc := newFakeAccessor()
	source := &fakeSource{err: &SourceError{Source: "json-rpc", Err: errors.New("connection refused")}}

	report, err := NewEngine(source, acc, nil, false).Run(context.Background(), TV)
	require.Error(t, err)
	assert.Nil(t, report)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, 0, acc.statCalls)
}

func TestRunCanceledContext(t *testing.T) {
	acc := newFakeAccessor()
	acc.files["smb://nas/tv/A/1.mkv"] = 100

	source := &fakeSource{items: []WatchedItem{item("A", "smb://nas/tv/A/1.mkv")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewEngine(source, acc, nil, false).Run(ctx, TV)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, report)
	assert.Empty(t, acc.deleted)
}
