package importer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aktagon/pocket2omnivore/internal/omnivore"
)

// DefaultURLTimeout bounds a liveness probe when none is configured
const DefaultURLTimeout = 10 * time.Second

// Saver saves one article to Omnivore
type Saver interface {
	SaveURL(ctx context.Context, input omnivore.SaveURLInput) (*omnivore.SaveResult, error)
}

// Options controls a run
type Options struct {
	// UnreadUntagged imports archived bookmarks without tags as unread
	UnreadUntagged bool
	// Delay is slept between rows to pace calls to the API
	Delay time.Duration
	// URLTimeout bounds each liveness probe
	URLTimeout time.Duration
	// StartRow is the 1-based row to resume from; earlier rows are ignored
	StartRow int
}

// ProgressFunc is called before each row with the 1-based row number
type ProgressFunc func(current, total int, title string)

// Option configures a Runner
type Option func(*Runner)

// WithProber replaces the HTTP liveness probe
func WithProber(p Prober) Option {
	return func(r *Runner) {
		r.prober = p
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithOutcome registers a callback receiving every row outcome
func WithOutcome(fn func(RowOutcome)) Option {
	return func(r *Runner) {
		r.outcome = fn
	}
}

// WithLogger sets the logger for per-row debug output
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner imports rows one at a time and stops at the first fatal error
type Runner struct {
	saver    Saver
	prober   Prober
	opts     Options
	progress ProgressFunc
	outcome  func(RowOutcome)
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner saving through saver
func NewRunner(saver Saver, opts Options, options ...Option) *Runner {
	if opts.URLTimeout <= 0 {
		opts.URLTimeout = DefaultURLTimeout
	}

	r := &Runner{
		saver:    saver,
		prober:   NewLivenessProbe(nil, ""),
		opts:     opts,
		progress: func(int, int, string) {},
		outcome:  func(RowOutcome) {},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:    Wait,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run processes rows in order. On a validation or save failure it returns
// the statistics gathered so far together with a *RowError.
func (r *Runner) Run(ctx context.Context, rows []RawRecord) (RunStatistics, error) {
	var stats RunStatistics

	total := len(rows)
	first := 0
	if r.opts.StartRow > 1 {
		first = min(r.opts.StartRow-1, total)
	}

	r.logger.Info("starting import", "rows", total, "start_row", first+1,
		"unread_untagged", r.opts.UnreadUntagged, "delay", r.opts.Delay)

	for i := first; i < total; i++ {
		row := i + 1
		raw := rows[i]

		if err := ctx.Err(); err != nil {
			return stats, newRowError(row, raw, stats, err)
		}

		r.progress(row, total, field(raw, ColumnTitle))

		outcome, err := r.processRow(ctx, row, raw)
		if err != nil {
			r.logger.Debug("row failed", "row", row, "error", err)
			return stats, newRowError(row, raw, stats, err)
		}

		stats.record(outcome)
		r.outcome(outcome)

		if i < total-1 && r.opts.Delay > 0 {
			if err := r.sleep(ctx, r.opts.Delay); err != nil {
				return stats, newRowError(row+1, rows[i+1], stats, err)
			}
		}
	}

	r.logger.Info("import finished",
		"total", stats.Total,
		"successful", stats.Successful,
		"skipped", stats.Skipped,
	)

	return stats, nil
}

// processRow runs the pipeline for one row. Dead URLs yield Skipped;
// any returned error is fatal for the run.
func (r *Runner) processRow(ctx context.Context, row int, raw RawRecord) (RowOutcome, error) {
	rec, err := Validate(row, raw)
	if err != nil {
		return nil, err
	}

	live := r.prober.Probe(ctx, rec.URL, r.opts.URLTimeout)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !live.IsAlive {
		r.logger.Debug("skipping dead URL", "row", row, "url", rec.URL, "reason", live.Reason)
		return Skipped{
			Title:  rec.Title,
			URL:    rec.URL,
			Reason: "Dead URL: " + live.Reason,
		}, nil
	}

	labels := MapTags(rec.Tags)
	hasTags := len(labels) > 0
	archive := ShouldArchive(rec.Status, hasTags, r.opts.UnreadUntagged)

	input := BuildRequest(rec, labels, archive)
	result, err := r.saver.SaveURL(ctx, input)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("saved article", "row", row, "url", rec.URL, "id", result.ID, "state", result.State)

	return Success{
		ID:                  result.ID,
		Title:               rec.Title,
		URL:                 rec.URL,
		HasLabels:           hasTags,
		IsArchived:          archive,
		WasArchivedInPocket: rec.Archived(),
	}, nil
}

func newRowError(row int, raw RawRecord, stats RunStatistics, err error) *RowError {
	return &RowError{
		Row:    row,
		Title:  field(raw, ColumnTitle),
		URL:    field(raw, ColumnURL),
		Tags:   field(raw, ColumnTags),
		Status: field(raw, ColumnStatus),
		Stats:  stats,
		Err:    err,
	}
}

// Wait blocks for d or until ctx is done, whichever comes first
func Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
