package etl

import (
	"time"

	"github.com/villagecare/cms-sync/pkg/logger"
)

// Outcome classifies what happened to a single record. Dropped means the
// record was intentionally skipped for data-quality reasons; Failed means
// the store rejected it and an operator should look.
type Outcome int

const (
	OutcomeInserted Outcome = iota
	OutcomeUpdated
	OutcomeDropped
	OutcomeFailed
)

// RecordError captures one failed persist with enough context to replay it.
type RecordError struct {
	At      time.Time
	Key     string
	Message string
	Payload map[string]interface{}
}

// Result is the uniform per-run summary every connector returns. It is
// always well formed, even when the run aborted before processing anything.
type Result struct {
	Dataset    string
	StartedAt  time.Time
	FinishedAt time.Time

	Fetched  int // records returned by the source, pre-filter
	InScope  int // records surviving the county allow-list
	Inserted int
	Updated  int
	Dropped  int
	Failed   int

	DropReasons map[string]int
	Errors      []RecordError

	// Critical is set when the run aborted before or during fetch; per-record
	// failures never populate it.
	Critical string
}

func newResult(dataset string) *Result {
	return &Result{
		Dataset:     dataset,
		StartedAt:   time.Now(),
		DropReasons: map[string]int{},
	}
}

func (r *Result) stamp() {
	r.FinishedAt = time.Now()
}

func (r *Result) drop(reason string) {
	r.Dropped++
	r.DropReasons[reason]++
}

func (r *Result) fail(key, msg string, payload map[string]interface{}) {
	r.Failed++
	r.Errors = append(r.Errors, RecordError{
		At:      time.Now(),
		Key:     key,
		Message: msg,
		Payload: payload,
	})
}

// Duration reports run wall time.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

const maxLoggedErrors = 10

// LogSummary writes the operator-facing run report: counts, drop reasons,
// and up to the first ten errors with a "+N more" truncation.
func (r *Result) LogSummary() {
	if r.Critical != "" {
		logger.Errorw("sync aborted",
			"dataset", r.Dataset,
			"error", r.Critical,
			"duration", r.Duration().String(),
		)
		return
	}

	logger.Infow("sync finished",
		"dataset", r.Dataset,
		"fetched", r.Fetched,
		"in_scope", r.InScope,
		"inserted", r.Inserted,
		"updated", r.Updated,
		"dropped", r.Dropped,
		"failed", r.Failed,
		"duration", r.Duration().String(),
	)

	for reason, n := range r.DropReasons {
		logger.Infow("dropped records", "dataset", r.Dataset, "reason", reason, "count", n)
	}

	for i, recErr := range r.Errors {
		if i == maxLoggedErrors {
			logger.Errorf("%s: +%d more errors", r.Dataset, len(r.Errors)-maxLoggedErrors)
			break
		}
		logger.Errorw("record failed", "dataset", r.Dataset, "key", recErr.Key, "error", recErr.Message)
	}
}
