package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/huskygraph/huskygraph-backend/internal/app"
	"github.com/huskygraph/huskygraph-backend/internal/logger"
	"github.com/huskygraph/huskygraph-backend/internal/types"
)

// HTTPScraper pulls recently changed records from one registry's listing
// endpoint. Registries are third-party sites, so requests carry a rotating
// user agent and are retried with a polite delay.
type HTTPScraper struct {
	cfg        app.SourceConfig
	userAgents []string
	client     *http.Client
	log        *logger.Logger
}

func NewHTTPScraper(cfg app.SourceConfig, userAgents []string, baseLog *logger.Logger) *HTTPScraper {
	return &HTTPScraper{
		cfg:        cfg,
		userAgents: userAgents,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        baseLog.With("scraper", cfg.Name),
	}
}

func (s *HTTPScraper) Source() string { return s.cfg.Name }

func (s *HTTPScraper) FetchRecent(ctx context.Context) ([]*types.CandidateRecord, error) {
	listURL, err := url.JoinPath(s.cfg.BaseURL, s.cfg.ListPath)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.cfg.Name, err)
	}
	listURL += "?page_size=" + strconv.Itoa(s.cfg.PageSize)

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := s.wait(ctx); err != nil {
				return nil, err
			}
		}
		records, err := s.fetch(ctx, listURL)
		if err == nil {
			return records, nil
		}
		lastErr = err
		s.log.Warn("fetch attempt failed", "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("source %s: %w", s.cfg.Name, lastErr)
}

func (s *HTTPScraper) fetch(ctx context.Context, listURL string) ([]*types.CandidateRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	if ua := s.userAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var records []*types.CandidateRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return records, nil
}

func (s *HTTPScraper) userAgent() string {
	if len(s.userAgents) == 0 {
		return ""
	}
	return s.userAgents[rand.Intn(len(s.userAgents))]
}

// wait sleeps the configured politeness delay, honoring cancellation.
func (s *HTTPScraper) wait(ctx context.Context) error {
	minSecs := s.cfg.DelayMinSecs
	maxSecs := s.cfg.DelayMaxSecs
	if maxSecs < minSecs {
		maxSecs = minSecs
	}
	delay := time.Duration(minSecs) * time.Second
	if spread := maxSecs - minSecs; spread > 0 {
		delay += time.Duration(rand.Intn(spread+1)) * time.Second
	}
	if delay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
