package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/villagecare/cms-sync/internal/config"
	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/internal/match"
	"github.com/villagecare/cms-sync/internal/store"
	"github.com/villagecare/cms-sync/pkg/database"
	"github.com/villagecare/cms-sync/pkg/logger"
	"github.com/villagecare/cms-sync/pkg/models"
)

type MatchOptions struct {
	ScopeFile string
	Threshold float64
}

func NewMatchCmd() *cobra.Command {
	opts := &MatchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Propose CCN links for communities without one (CSV to stdout)",
		Long: `match compares communities that have no CCN against the in-scope CMS
provider list and prints ranked suggestions as CSV for manual review.
Nothing is written to the store.`,
		RunE: func(c *cobra.Command, args []string) error {
			return runMatch(c.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ScopeFile, "scope", "s", "", "Path to a scope JSON file (defaults to the built-in region)")
	cmd.Flags().Float64VarP(&opts.Threshold, "threshold", "t", 0, "Minimum combined score to surface (default 0.6)")

	return cmd
}

func runMatch(ctx context.Context, opts *MatchOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	scope, err := config.LoadScope(opts.ScopeFile)
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	communities, err := store.NewCommunityStore(db).ListUnlinked(ctx)
	if err != nil {
		return fmt.Errorf("loading unlinked communities: %w", err)
	}
	if len(communities) == 0 {
		logger.Infof("no unlinked communities, nothing to match")
		return nil
	}

	source := etl.NewCMSSource(cfg.APIBaseURL, etl.DatasetProviders, scope)
	candidates, err := fetchProviderCandidates(ctx, source, scope)
	if err != nil {
		return err
	}
	logger.Infof("matching %d communities against %d in-scope providers", len(communities), len(candidates))

	matcher := match.NewMatcher()
	if opts.Threshold > 0 {
		matcher.Threshold = opts.Threshold
	}

	suggestions := matcher.Suggest(communities, candidates)
	return match.WriteCSV(os.Stdout, suggestions)
}

// fetchProviderCandidates drains the provider dataset through the shared
// pagination loop and reuses the provider transform so candidate names and
// addresses are normalized the same way synced rows are.
func fetchProviderCandidates(ctx context.Context, source etl.Source, scope *config.Scope) ([]match.Candidate, error) {
	dataset := etl.Providers()

	var candidates []match.Candidate
	err := etl.DrainSource(ctx, source, func(row map[string]interface{}) {
		if !scope.InScope(etl.ProviderCounty(row)) {
			return
		}
		rec, drop := dataset.Transform(row)
		if drop != nil {
			return
		}
		c := rec.(*models.Community)
		candidates = append(candidates, match.Candidate{
			CCN:     *c.CCN,
			Name:    c.Name,
			Address: c.Address,
			City:    c.City,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("fetching providers: %w", err)
	}
	return candidates, nil
}
