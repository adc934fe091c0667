// Package etl implements the generic sync connector. One parameterized
// pipeline serves every CMS dataset; the per-dataset pieces are a Dataset
// descriptor (endpoint, county field, transform) and a Sink.
package etl

import (
	"context"
	"fmt"

	"github.com/villagecare/cms-sync/internal/config"
	"github.com/villagecare/cms-sync/pkg/logger"
	"github.com/villagecare/cms-sync/pkg/utils"
)

const (
	// PageSize is the fetch window against the CMS datastore API.
	PageSize = 1000
	// pageStopThreshold ends pagination once a page comes back nearly
	// empty. The API sometimes returns slightly short pages mid-stream, so
	// a strict len < PageSize check would truncate the run.
	pageStopThreshold = PageSize / 10
	// maxOffset caps pagination against a misbehaving source.
	maxOffset = 500000
	// upsertBatchSize bounds sequential load on the destination store.
	upsertBatchSize = 50
)

// Source fetches one page of raw records from an external dataset.
type Source interface {
	FetchPage(ctx context.Context, limit, offset int) ([]map[string]interface{}, error)
}

// Sink persists one transformed record, reporting whether it was inserted
// or updated. Implementations must be idempotent on the natural key.
type Sink interface {
	Upsert(ctx context.Context, record interface{}) (Outcome, error)
}

// Drop marks a record as intentionally skipped during transform.
type Drop struct {
	Reason string
}

// Transform converts a raw API row into a destination record. A nil record
// with a non-nil Drop is a silent skip; it must never be reported as an
// error.
type Transform func(row map[string]interface{}) (interface{}, *Drop)

// Aggregate optionally folds the full transformed set into derived records
// before upsert (staffing rollups). It returns the records to persist and
// the number of entities dropped by its data-quality gate.
type Aggregate func(records []interface{}) ([]interface{}, int)

// Dataset describes one external CMS dataset.
type Dataset struct {
	Name        string
	DatasetID   string
	CountyField []string
	Transform   Transform
	Aggregate   Aggregate
}

// Connector synchronizes one Dataset into the destination store.
type Connector struct {
	Dataset Dataset
	Source  Source
	Sink    Sink
	Scope   *config.Scope
	DryRun  bool
}

// pendingRecord keeps a transformed record paired with its source row so a
// failed upsert can report the offending payload. Aggregated records have no
// single source row.
type pendingRecord struct {
	rec interface{}
	row map[string]interface{}
}

// Run executes one sync: paginate, filter to scope, transform, aggregate,
// upsert in chunks. It always returns a well-formed Result; the error is
// non-nil only for critical failures that aborted the run.
func (c *Connector) Run(ctx context.Context) (*Result, error) {
	res := newResult(c.Dataset.Name)
	defer res.stamp()

	logger.Infow("sync starting", "dataset", c.Dataset.Name, "dry_run", c.DryRun)

	rows, err := c.fetchAll(ctx, res)
	if err != nil {
		res.Critical = err.Error()
		return res, fmt.Errorf("%s: %w", c.Dataset.Name, err)
	}

	var pending []pendingRecord
	for _, row := range rows {
		rec, drop := c.Dataset.Transform(row)
		if drop != nil {
			res.drop(drop.Reason)
			continue
		}
		pending = append(pending, pendingRecord{rec: rec, row: row})
	}

	if c.Dataset.Aggregate != nil {
		records := make([]interface{}, len(pending))
		for i, p := range pending {
			records[i] = p.rec
		}
		records, gated := c.Dataset.Aggregate(records)
		for i := 0; i < gated; i++ {
			res.drop("insufficient history")
		}
		pending = make([]pendingRecord, len(records))
		for i, rec := range records {
			pending[i] = pendingRecord{rec: rec}
		}
	}

	if c.DryRun {
		logger.Infow("dry run, skipping upserts", "dataset", c.Dataset.Name, "records", len(pending))
		return res, nil
	}

	for _, batch := range utils.Chunk(pending, upsertBatchSize) {
		for _, p := range batch {
			outcome, err := c.Sink.Upsert(ctx, p.rec)
			if err != nil {
				res.fail(recordKey(p.rec), err.Error(), p.row)
				continue
			}
			switch outcome {
			case OutcomeInserted:
				res.Inserted++
			case OutcomeUpdated:
				res.Updated++
			}
		}
	}

	return res, nil
}

// DrainSource pages through src until a nearly-empty page or the offset
// safety cap, invoking fn for every raw row. Any fetch failure aborts the
// drain: retries have already been spent inside the source.
func DrainSource(ctx context.Context, src Source, fn func(row map[string]interface{})) error {
	for offset := 0; ; offset += PageSize {
		if offset >= maxOffset {
			logger.Warnf("pagination hit safety cap at offset %d, stopping", offset)
			return nil
		}

		page, err := src.FetchPage(ctx, PageSize, offset)
		if err != nil {
			return fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}

		for _, row := range page {
			fn(row)
		}

		if len(page) < pageStopThreshold {
			return nil
		}
	}
}

// fetchAll drains the source, keeping only in-scope rows.
func (c *Connector) fetchAll(ctx context.Context, res *Result) ([]map[string]interface{}, error) {
	var kept []map[string]interface{}
	err := DrainSource(ctx, c.Source, func(row map[string]interface{}) {
		res.Fetched++
		if c.inScope(row) {
			kept = append(kept, row)
		}
	})
	if err != nil {
		return nil, err
	}
	res.InScope = len(kept)
	return kept, nil
}

func (c *Connector) inScope(row map[string]interface{}) bool {
	if len(c.Dataset.CountyField) == 0 {
		return true
	}
	for _, field := range c.Dataset.CountyField {
		if county := utils.ToString(row[field]); county != "" {
			return c.Scope.InScope(county)
		}
	}
	return false
}

func recordKey(rec interface{}) string {
	if k, ok := rec.(interface{ NaturalKey() string }); ok {
		return k.NaturalKey()
	}
	return fmt.Sprintf("%T", rec)
}
