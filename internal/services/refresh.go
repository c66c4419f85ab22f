package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// SourceScraper fetches recently changed records from one registry site.
type SourceScraper interface {
	Source() string
	FetchRecent(ctx context.Context) ([]*types.CandidateRecord, error)
}

type RefreshStats struct {
	Sources   int            `json:"sources"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	BySource  map[string]int `json:"by_source"`
}

// RefreshService re-ingests recent records from every configured source.
type RefreshService struct {
	scrapers []SourceScraper
	ingest   *IngestService
	cache    Cache
	log      *logger.Logger
}

func NewRefreshService(scrapers []SourceScraper, ingest *IngestService, cache Cache, baseLog *logger.Logger) *RefreshService {
	return &RefreshService{
		scrapers: scrapers,
		ingest:   ingest,
		cache:    cache,
		log:      baseLog.With("service", "refresh"),
	}
}

// RefreshAll fans out one worker per source. Fetching runs concurrently;
// ingestion is serialized so record matching sees every previously ingested
// row.
func (s *RefreshService) RefreshAll(ctx context.Context) (*RefreshStats, error) {
	stats := &RefreshStats{Sources: len(s.scrapers), BySource: make(map[string]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, scraper := range s.scrapers {
		g.Go(func() error {
			candidates, err := scraper.FetchRecent(gctx)
			if err != nil {
				s.log.Error("source fetch failed", "source", scraper.Source(), "error", err)
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for _, candidate := range candidates {
				if _, err := s.ingest.ProcessCandidate(gctx, candidate, scraper.Source()); err != nil {
					s.log.Error("candidate ingest failed",
						"source", scraper.Source(),
						"name", candidate.RegisteredName,
						"error", err)
					stats.Failed++
					continue
				}
				stats.Processed++
				stats.BySource[scraper.Source()]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.ClearPattern(ctx, "dogs:*"); err != nil {
			s.log.Warn("cache invalidation failed", "error", err)
		}
	}
	s.log.Info("refresh complete", "processed", stats.Processed, "failed", stats.Failed)
	return stats, nil
}
