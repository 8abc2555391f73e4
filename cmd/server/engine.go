package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"awardmatch/internal/analyzer"
	"awardmatch/internal/catalog"
	"awardmatch/internal/config"
	"awardmatch/internal/content"
	"awardmatch/internal/db"
	"awardmatch/internal/readiness"
	"awardmatch/internal/store"
)

// engine bundles the components every command works with.
type engine struct {
	Catalog    *catalog.Catalog
	Store      store.Store
	Content    content.Source
	Analyzer   *analyzer.Analyzer
	Aggregator *readiness.Aggregator

	closeFn func()
}

// Close releases the database pool, if any.
func (e *engine) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// initEngine loads the catalog, opens the configured store and installs a
// row for every catalog criterion.
func initEngine(ctx context.Context, c *config.Config, log *zap.Logger) (*engine, error) {
	cat, err := catalog.Load(c.CatalogFile)
	if err != nil {
		return nil, err
	}
	log.Info("catalog loaded",
		zap.Int("awards", len(cat.Awards())),
		zap.Int("criteria", cat.Size()),
	)

	e := &engine{Catalog: cat}

	if c.UsesMemoryStore() {
		mem := content.NewMemory()
		if c.SeedDevContent {
			mem.Add(content.DevItems()...)
		}
		e.Store = store.NewMemory()
		e.Content = mem
		log.Info("using in-memory store")
	} else {
		database, err := db.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "connect to database")
		}
		e.closeFn = database.Close

		if err := database.RunMigrations(c.DatabaseURL); err != nil {
			e.Close()
			return nil, eris.Wrap(err, "run migrations")
		}
		log.Info("migrations completed successfully")

		if c.SeedDevContent {
			if err := database.SeedDevContent(ctx, content.DevItems()); err != nil {
				e.Close()
				return nil, err
			}
			log.Info("development content seeded")
		}

		e.Store = database.WithLogger(log)
		e.Content = database.Content()
	}

	if err := e.Store.EnsureCriteria(ctx, cat.CriterionKeys()); err != nil {
		e.Close()
		return nil, eris.Wrap(err, "install catalog criteria")
	}

	e.Analyzer = analyzer.New(cat, e.Store, analyzer.Options{
		Threshold:   c.MatchThreshold,
		Concurrency: c.AnalyzeConcurrency,
		Logger:      log,
	})
	e.Aggregator = readiness.NewAggregator(cat, e.Store)
	return e, nil
}
