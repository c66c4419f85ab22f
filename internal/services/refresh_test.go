package services

import (
	"context"
	"errors"
	"testing"

	"github.com/huskygraph/huskygraph-backend/internal/types"
)

type fakeScraper struct {
	name    string
	records []*types.CandidateRecord
	err     error
}

func (f *fakeScraper) Source() string { return f.name }

func (f *fakeScraper) FetchRecent(ctx context.Context) ([]*types.CandidateRecord, error) {
	return f.records, f.err
}

func TestRefreshAllIngestsEverySource(t *testing.T) {
	env := newTestEnv(t)
	scrapers := []SourceScraper{
		&fakeScraper{name: "siteA", records: []*types.CandidateRecord{
			{UUID: "a-1", RegisteredName: "Nanuk"},
			{UUID: "a-2", RegisteredName: "Balto"},
		}},
		&fakeScraper{name: "siteB", records: []*types.CandidateRecord{
			{UUID: "b-1", RegisteredName: "Aurora"},
		}},
	}
	svc := NewRefreshService(scrapers, env.ingest, nil, newTestLogger(t))

	stats, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if stats.Sources != 2 || stats.Processed != 3 || stats.Failed != 0 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.BySource["siteA"] != 2 || stats.BySource["siteB"] != 1 {
		t.Fatalf("per-source counts: %v", stats.BySource)
	}

	var count int64
	env.db.Model(&types.Dog{}).Count(&count)
	if count != 3 {
		t.Fatalf("dog rows: want=3 got=%d", count)
	}
}

func TestRefreshAllIsolatesSourceFailures(t *testing.T) {
	env := newTestEnv(t)
	scrapers := []SourceScraper{
		&fakeScraper{name: "down", err: errors.New("connection refused")},
		&fakeScraper{name: "up", records: []*types.CandidateRecord{
			{UUID: "u-1", RegisteredName: "Nanuk"},
		}},
	}
	svc := NewRefreshService(scrapers, env.ingest, nil, newTestLogger(t))

	stats, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if stats.Processed != 1 || stats.Failed != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestRefreshAllWithoutScrapers(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRefreshService(nil, env.ingest, nil, newTestLogger(t))

	stats, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if stats.Sources != 0 || stats.Processed != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}
