package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/villagecare/cms-sync/internal/config"
	"github.com/villagecare/cms-sync/internal/etl"
	"github.com/villagecare/cms-sync/internal/store"
	"github.com/villagecare/cms-sync/pkg/database"
)

func runSync(ctx context.Context, opts *SyncOptions, datasets ...string) error {
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
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrating destination schema: %w", err)
	}

	var firstErr error
	for _, name := range datasets {
		connector, err := buildConnector(name, cfg, scope, db, opts.DryRun)
		if err != nil {
			return err
		}

		res, runErr := connector.Run(ctx)
		res.LogSummary()
		if runErr != nil && firstErr == nil {
			firstErr = runErr
		}
	}
	return firstErr
}

func buildConnector(name string, cfg *config.Config, scope *config.Scope, db *gorm.DB, dryRun bool) (*etl.Connector, error) {
	var (
		dataset etl.Dataset
		sink    etl.Sink
	)

	switch name {
	case "providers":
		dataset = etl.Providers()
		sink = store.NewCommunityStore(db)
	case "ownership":
		dataset = etl.Ownership()
		sink = store.NewOwnershipStore(db)
	case "deficiencies":
		dataset = etl.Deficiencies()
		sink = store.NewDeficiencyStore(db)
	case "staffing":
		dataset = etl.Staffing()
		sink = store.NewStaffingStore(db)
	case "quality":
		dataset = etl.Quality()
		sink = store.NewQualityStore(db)
	case "inspections":
		dataset = etl.Inspections()
		sink = store.NewInspectionStore(db)
	default:
		return nil, fmt.Errorf("unknown dataset '%s'", name)
	}

	return &etl.Connector{
		Dataset: dataset,
		Source:  etl.NewCMSSource(cfg.APIBaseURL, dataset.DatasetID, scope),
		Sink:    sink,
		Scope:   scope,
		DryRun:  dryRun,
	}, nil
}
