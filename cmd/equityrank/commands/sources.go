package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/equityrank/internal/s0_data"
	"github.com/wonny/equityrank/internal/s0_data/collector"
	"github.com/wonny/equityrank/pkg/database"
	"github.com/wonny/equityrank/pkg/httputil"
)

// sourceFlags selects where company metrics come from
type sourceFlags struct {
	inputs  []string
	fromDB  bool
	workers int
}

// connectDB opens the metrics database
func (rt *runtime) connectDB(ctx context.Context) (*database.DB, error) {
	db, err := database.New(ctx, rt.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	rt.log.Debug("Connected to database")
	return db, nil
}

// collect loads companies from every selected source.
// The returned DB is non-nil when --db was set; the caller closes it.
func (rt *runtime) collect(ctx context.Context, flags sourceFlags, sector string) (*collector.Result, *database.DB, error) {
	var sources []collector.Source
	var client *httputil.Client
	for _, input := range flags.inputs {
		if collector.IsURL(input) {
			if client == nil {
				client = httputil.New(rt.log)
			}
			sources = append(sources, collector.URLSource{Client: client, URL: input})
			continue
		}
		sources = append(sources, collector.FileSource{Path: input})
	}

	var db *database.DB
	if flags.fromDB {
		var err error
		db, err = rt.connectDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, collector.RepositorySource{
			Repo:   s0_data.NewRepository(db.Pool),
			Sector: sector,
		})
	}

	if len(sources) == 0 {
		return nil, nil, errors.New("no input: pass --input <file> or --db")
	}

	result, err := collector.NewCollector(rt.log).Collect(ctx, sources, collector.Config{Workers: flags.workers})
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}
	return result, db, nil
}
