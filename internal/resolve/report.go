package resolve

import "github.com/google/uuid"

// Outcome classifies what happened to one watched item.
type Outcome string

const (
	Deleted         Outcome = "deleted"
	SkippedKeepList Outcome = "skipped-keep-list"
	SkippedNotFound Outcome = "skipped-not-found"
	Failed          Outcome = "failed"
)

// Result is the fate of a single watched item.
type Result struct {
	Item    WatchedItem
	Outcome Outcome
	Size    int64  // bytes the file occupied, when it was found
	Reason  string // failure detail, set only for Failed
}

// Report collects the outcome of one run over every watched item.
type Report struct {
	ID      uuid.UUID
	DryRun  bool
	Results []Result

	Deleted         int
	SkippedKeepList int
	SkippedNotFound int
	Failed          int
	BytesFreed      int64
}

func newReport(dryRun bool) *Report {
	return &Report{ID: uuid.New(), DryRun: dryRun}
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case Deleted:
		r.Deleted++
		r.BytesFreed += res.Size
	case SkippedKeepList:
		r.SkippedKeepList++
	case SkippedNotFound:
		r.SkippedNotFound++
	case Failed:
		r.Failed++
	}
}
