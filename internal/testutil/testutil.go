// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"awardmatch/internal/catalog"
	"awardmatch/internal/config"
	"awardmatch/internal/content"
	"awardmatch/internal/db"
	"awardmatch/internal/models"
	"awardmatch/internal/store"
)

// Fixed is the clock used by stores built here.
var Fixed = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// TestDB connects to TEST_DATABASE_URL, runs migrations and returns a
// cleanup function. The test is skipped when the variable is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database)
	cleanup := func() {
		cleanupTestData(ctx, database)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, database *db.DB) {
	database.Pool.Exec(ctx, "DELETE FROM criterion_status")
	database.Pool.Exec(ctx, "DELETE FROM documents")
	database.Pool.Exec(ctx, "DELETE FROM events")
}

// Catalog returns the built-in catalog.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("")
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return c
}

// SmallCatalog returns a two-award catalog with short keyword sets that
// are easy to hit from test content.
func SmallCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(&config.CatalogConfig{Awards: []config.AwardConfig{
		{
			Key:  "leadership",
			Name: "International Leadership Award",
			Criteria: []config.CriterionConfig{
				{Text: "Lead with Purpose", Keywords: []string{"global", "leadership", "partnership"}},
				{Text: "Champion Bold Innovation", Keywords: []string{"innovation", "pilot"}},
			},
		},
		{
			Key:  "citizenship",
			Name: "Global Citizenship Award",
			Criteria: []config.CriterionConfig{
				{Text: "Ignite Intercultural Understanding", Keywords: []string{"intercultural", "festival"}},
				{Text: "Empower Changemakers", Keywords: []string{"youth", "volunteer"}},
				{Text: "Cultivate Active Engagement", Keywords: []string{"community", "outreach"}},
			},
		},
	}})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// MemoryStore returns an in-memory store holding a row for every criterion
// of c, on the Fixed clock.
func MemoryStore(t *testing.T, c *catalog.Catalog) *store.Memory {
	t.Helper()
	m := store.NewMemory().WithClock(func() time.Time { return Fixed })
	if err := m.EnsureCriteria(context.Background(), c.CriterionKeys()); err != nil {
		t.Fatalf("failed to install criteria: %v", err)
	}
	return m
}

// Content returns an in-memory content source with the given items.
func Content(items ...models.ContentItem) *content.Memory {
	return content.NewMemory(items...)
}
