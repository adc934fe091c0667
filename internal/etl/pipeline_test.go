package etl

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagecare/cms-sync/internal/config"
	"github.com/villagecare/cms-sync/pkg/models"
)

type fakeSource struct {
	pages [][]map[string]interface{}
	err   error
}

func (f *fakeSource) FetchPage(ctx context.Context, limit, offset int) ([]map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := offset / limit
	if idx >= len(f.pages) {
		return nil, nil
	}
	return f.pages[idx], nil
}

type fakeSink struct {
	seen     map[string]bool
	failKeys map[string]bool
	upserts  int
}

func newFakeSink() *fakeSink {
	return &fakeSink{seen: map[string]bool{}, failKeys: map[string]bool{}}
}

func (f *fakeSink) Upsert(ctx context.Context, rec interface{}) (Outcome, error) {
	f.upserts++
	c := rec.(*models.Community)
	key := *c.CCN
	if f.failKeys[key] {
		return OutcomeFailed, errors.New("store rejected record")
	}
	if f.seen[key] {
		return OutcomeUpdated, nil
	}
	f.seen[key] = true
	return OutcomeInserted, nil
}

func providerRow(ccn, name, county string) map[string]interface{} {
	return map[string]interface{}{
		"federal_provider_number": ccn,
		"provider_name":           name,
		"county_parish":           county,
	}
}

func newTestConnector(src Source, sink Sink) *Connector {
	return &Connector{
		Dataset: Providers(),
		Source:  src,
		Sink:    sink,
		Scope:   config.DefaultScope(),
	}
}

func TestConnectorRunAndIdempotency(t *testing.T) {
	src := &fakeSource{pages: [][]map[string]interface{}{{
		providerRow("365001", "willow creek care center", "Cuyahoga"),
		providerRow("365002", "maple grove manor", "Lake"),
		providerRow("395001", "out of scope home", "Allegheny"),
	}}}
	sink := newFakeSink()
	conn := newTestConnector(src, sink)

	res, err := conn.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Fetched)
	assert.Equal(t, 2, res.InScope)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Errors)

	// Second run against the unchanged source: everything updates in place.
	res2, err := conn.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Inserted)
	assert.Equal(t, res.Inserted, res2.Updated)
}

func TestConnectorSilentSkipIsNotAnError(t *testing.T) {
	src := &fakeSource{pages: [][]map[string]interface{}{{
		providerRow("", "nameless key", "Cuyahoga"),
		providerRow("365003", "", "Cuyahoga"),
		providerRow("365004", "good record", "Cuyahoga"),
	}}}
	sink := newFakeSink()
	conn := newTestConnector(src, sink)

	res, err := conn.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 1, res.Inserted)
	assert.Empty(t, res.Errors, "dropped records never surface as errors")
	assert.Equal(t, 1, res.DropReasons["missing ccn"])
	assert.Equal(t, 1, res.DropReasons["missing name"])
}

func TestConnectorPerRecordFailureDoesNotAbort(t *testing.T) {
	src := &fakeSource{pages: [][]map[string]interface{}{{
		providerRow("365005", "first home", "Cuyahoga"),
		providerRow("365006", "broken home", "Cuyahoga"),
		providerRow("365007", "third home", "Cuyahoga"),
	}}}
	sink := newFakeSink()
	sink.failKeys["365006"] = true
	conn := newTestConnector(src, sink)

	res, err := conn.Run(context.Background())
	require.NoError(t, err, "per-record failures are not critical")

	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "365006", res.Errors[0].Key)
	assert.False(t, res.Errors[0].At.IsZero())

	// The offending source row travels with the error for replay.
	require.NotNil(t, res.Errors[0].Payload)
	assert.Equal(t, "365006", res.Errors[0].Payload["federal_provider_number"])
	assert.Equal(t, "broken home", res.Errors[0].Payload["provider_name"])
}

func TestConnectorCriticalFetchFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	sink := newFakeSink()
	conn := newTestConnector(src, sink)

	res, err := conn.Run(context.Background())
	require.Error(t, err)

	assert.NotEmpty(t, res.Critical)
	assert.Equal(t, 0, res.Fetched)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 0, sink.upserts)
}

func TestConnectorContinuesPastPartialPage(t *testing.T) {
	// 900 of 1000 is short but well above the stop threshold; only a nearly
	// empty page ends pagination.
	first := make([]map[string]interface{}, 0, 900)
	for i := 0; i < 900; i++ {
		first = append(first, providerRow(fmt.Sprintf("36%04d", i), fmt.Sprintf("home %d", i), "Cuyahoga"))
	}
	src := &fakeSource{pages: [][]map[string]interface{}{
		first,
		{providerRow("365999", "tail home", "Cuyahoga")},
	}}
	sink := newFakeSink()
	conn := newTestConnector(src, sink)

	res, err := conn.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 901, res.Fetched)
	assert.Equal(t, 901, res.Inserted)
}

// fullSource returns a full page for every offset, forever.
type fullSource struct {
	calls int
}

func (f *fullSource) FetchPage(ctx context.Context, limit, offset int) ([]map[string]interface{}, error) {
	f.calls++
	return make([]map[string]interface{}, limit), nil
}

func TestDrainSourceStopsAtSafetyCap(t *testing.T) {
	src := &fullSource{}
	rows := 0
	err := DrainSource(context.Background(), src, func(row map[string]interface{}) { rows++ })
	require.NoError(t, err)

	assert.Equal(t, maxOffset/PageSize, src.calls)
	assert.Equal(t, maxOffset, rows)
}

func TestConnectorDryRunSkipsWrites(t *testing.T) {
	src := &fakeSource{pages: [][]map[string]interface{}{{
		providerRow("365008", "dry run home", "Cuyahoga"),
	}}}
	sink := newFakeSink()
	conn := newTestConnector(src, sink)
	conn.DryRun = true

	res, err := conn.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.InScope)
	assert.Equal(t, 0, sink.upserts)
	assert.Equal(t, 0, res.Inserted)
}
