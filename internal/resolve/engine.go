package resolve

import (
	"context"
	"log"

	"github.com/JustinTDCT/KodiSweep/internal/storage"
)

// Engine walks the watched items from a source and deletes their files
// from the share, honoring the keep list.
type Engine struct {
	source  Source
	storage storage.Accessor
	keep    *KeepList
	dryRun  bool
}

// NewEngine wires a source to an accessor. With dryRun set nothing is
// deleted; the report shows what a real run would have done.
func NewEngine(source Source, accessor storage.Accessor, keep *KeepList, dryRun bool) *Engine {
	return &Engine{source: source, storage: accessor, keep: keep, dryRun: dryRun}
}

// Run resolves every watched item of the given kind. A failure on a
// single item never stops the rest; only failing to read the library at
// all is fatal.
func (e *Engine) Run(ctx context.Context, kind MediaKind) (*Report, error) {
	items, err := e.source.Watched(ctx, kind)
	if err != nil {
		return nil, err
	}

	report := newReport(e.dryRun)
	log.Printf("[resolve] run %s: %d watched items", report.ID, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.add(e.resolve(item))
	}
	return report, nil
}

// resolve decides the fate of one item. Keep-list protection is checked
// before the share is touched, so protected shows cost no I/O.
func (e *Engine) resolve(item WatchedItem) Result {
	if e.keep.IsProtected(item.Show) {
		return Result{Item: item, Outcome: SkippedKeepList}
	}

	info, err := e.storage.Stat(item.Path)
	if err != nil {
		return Result{Item: item, Outcome: Failed, Reason: err.Error()}
	}
	if !info.Exists {
		return Result{Item: item, Outcome: SkippedNotFound}
	}
	if info.IsDir {
		return Result{Item: item, Outcome: Failed, Reason: "is a directory"}
	}

	if e.dryRun {
		return Result{Item: item, Outcome: Deleted, Size: info.Size}
	}
	if err := e.storage.Delete(item.Path); err != nil {
		return Result{Item: item, Outcome: Failed, Reason: err.Error()}
	}
	return Result{Item: item, Outcome: Deleted, Size: info.Size}
}
