package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagecare/cms-sync/internal/config"
)

type fakeProviderSource struct {
	rows []map[string]interface{}
}

func (f *fakeProviderSource) FetchPage(ctx context.Context, limit, offset int) ([]map[string]interface{}, error) {
	if offset > 0 {
		return nil, nil
	}
	return f.rows, nil
}

func TestFetchProviderCandidates(t *testing.T) {
	src := &fakeProviderSource{rows: []map[string]interface{}{
		{
			"federal_provider_number": "365001",
			"provider_name":           "willow creek care center",
			"provider_address":        "100 EUCLID AVENUE",
			"city_town":               "CLEVELAND",
			"county_parish":           "Cuyahoga",
		},
		{
			"federal_provider_number": "395001",
			"provider_name":           "out of scope home",
			"county_parish":           "Allegheny",
		},
		{
			// No name: dropped by the provider transform, not a candidate.
			"federal_provider_number": "365002",
			"county_parish":           "Cuyahoga",
		},
	}}

	candidates, err := fetchProviderCandidates(context.Background(), src, config.DefaultScope())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "365001", candidates[0].CCN)
	assert.Equal(t, "Willow Creek Care Center", candidates[0].Name)
	assert.Equal(t, "100 Euclid Avenue", candidates[0].Address)
	assert.Equal(t, "Cleveland", candidates[0].City)
}
