// Package monitor sequences one pipeline run:
// fetch → extract → detect → notify → persist.
package monitor

import (
	"context"
	"fmt"
	"time"

	"traineewatch/internal/detect"
	"traineewatch/internal/extract"
	"traineewatch/internal/history"
	"traineewatch/internal/logging"
	"traineewatch/internal/notify"
)

// State of a run. Transitions are forward-only; there are no retries
// within a run.
type State int

const (
	StateFetching State = iota
	StateExtracting
	StateDetecting
	StateNotifying
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateExtracting:
		return "extracting"
	case StateDetecting:
		return "detecting"
	case StateNotifying:
		return "notifying"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher is the page-retrieval collaborator.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Result summarizes a finished run.
type Result struct {
	State State
	Batch int // records extracted from the page
	Novel int // records not present in history
}

type Runner struct {
	source   extract.Source
	fetcher  Fetcher
	store    history.Store
	notifier notify.Notifier
	meta     notify.Meta
	log      *logging.Logger
	now      func() time.Time
}

func New(source extract.Source, fetcher Fetcher, store history.Store, notifier notify.Notifier, label string, log *logging.Logger) *Runner {
	return &Runner{
		source:   source,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		meta:     notify.Meta{SiteLabel: label, ListURL: source.ListURL()},
		log:      log.With("site", source.Name()),
		now:      time.Now,
	}
}

// Run executes one pipeline pass. On a Failed state the history store is
// left exactly as found. A notification failure does not block persistence
// but is returned as the run error so the process exits non-zero.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	res := Result{State: StateFetching}
	r.log.Info("run started", "url", r.source.ListURL())

	html, err := r.fetcher.Get(ctx, r.source.ListURL())
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("fetch listings page: %w", err)
	}

	res.State = StateExtracting
	batch, err := r.source.Extract(html)
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("extract listings: %w", err)
	}
	if len(batch) == 0 {
		res.State = StateFailed
		return res, fmt.Errorf("extract listings: %w (containers matched but no records parsed)", extract.ErrStructureChanged)
	}
	res.Batch = len(batch)

	res.State = StateDetecting
	prior, err := r.store.Load()
	if err != nil {
		res.State = StateFailed
		return res, fmt.Errorf("load history: %w", err)
	}
	novel := detect.Novel(batch, detect.KnownIDs(prior))
	res.Novel = len(novel)
	r.log.Info("novelty detected", "batch", res.Batch, "known", len(prior), "novel", res.Novel)

	res.State = StateNotifying
	meta := r.meta
	meta.Timestamp = r.now()
	notifyErr := r.notifier.Notify(novel, meta)
	if notifyErr != nil {
		r.log.Error("notification failed, persisting anyway", "error", notifyErr, "novel", res.Novel)
	}

	res.State = StatePersisting
	if err := r.store.Append(novel); err != nil {
		// Records were already announced at this point; the next run will
		// re-detect and re-announce them.
		res.State = StateFailed
		return res, fmt.Errorf("persist %d novel listings: %w", res.Novel, err)
	}

	res.State = StateDone
	r.log.Info("run finished", "batch", res.Batch, "novel", res.Novel)

	if notifyErr != nil {
		return res, fmt.Errorf("run persisted %d listings but their alert was not delivered: %w", res.Novel, notifyErr)
	}
	return res, nil
}
