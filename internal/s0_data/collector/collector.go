package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data"
	"github.com/wonny/equityrank/pkg/httputil"
	"github.com/wonny/equityrank/pkg/logger"
)

// ReasonDuplicate marks a ticker already supplied by an earlier source
const ReasonDuplicate = "duplicate ticker"

// Source supplies company metrics
type Source interface {
	Name() string
	Load(ctx context.Context) ([]contracts.MetricSet, []s0_data.Issue, error)
}

// FileSource loads a JSON metrics file
type FileSource struct {
	Path string
}

// Name returns the file path
func (s FileSource) Name() string { return "file:" + s.Path }

// Load reads and parses the file
func (s FileSource) Load(ctx context.Context) ([]contracts.MetricSet, []s0_data.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s0_data.LoadMetricSetsFile(s.Path)
}

// URLSource fetches a JSON metrics document over HTTP
type URLSource struct {
	Client *httputil.Client
	URL    string
}

// Name returns the URL
func (s URLSource) Name() string { return s.URL }

// Load downloads and parses the document
func (s URLSource) Load(ctx context.Context) ([]contracts.MetricSet, []s0_data.Issue, error) {
	resp, err := s.Client.Get(ctx, s.URL)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return s0_data.LoadMetricSets(resp.Body)
}

// IsURL reports whether input names an http(s) document rather than a file
func IsURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// RepositorySource reads one sector (or all) from a MetricsRepository
type RepositorySource struct {
	Repo   contracts.MetricsRepository
	Sector string
}

// Name returns the source label
func (s RepositorySource) Name() string {
	if s.Sector == "" {
		return "db:all"
	}
	return "db:" + s.Sector
}

// Load queries the repository
func (s RepositorySource) Load(ctx context.Context) ([]contracts.MetricSet, []s0_data.Issue, error) {
	sets, err := s.Repo.ListMetricSets(ctx, s.Sector)
	return sets, nil, err
}

// Collector orchestrates loading from several sources into one peer universe
// ⭐ SSOT: 지표 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	logger *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// NewCollector creates a new Collector instance
func NewCollector(log *logger.Logger) *Collector {
	return &Collector{
		logger: log.WithField("module", "collector"),
	}
}

// SourceResult represents the result of one source
type SourceResult struct {
	Source string
	Count  int
	Issues int
	Error  error
}

// Result is the merged universe plus everything found along the way
type Result struct {
	Companies []contracts.MetricSet
	Issues    []s0_data.Issue
	Sources   []SourceResult
}

// Collect loads every source concurrently and merges them in source order.
// The first source to supply a ticker wins; later copies are reported as issues.
// Failed sources are skipped; Collect fails only when every source failed.
func (c *Collector) Collect(ctx context.Context, sources []Source, cfg Config) (*Result, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources")
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"sources": len(sources),
		"workers": workers,
	}).Info("Starting metrics collection")

	// 1. Load (worker pool)
	type loaded struct {
		sets   []contracts.MetricSet
		issues []s0_data.Issue
		err    error
	}
	results := make([]loaded, len(sources))

	var wg sync.WaitGroup
	idxCh := make(chan int, len(sources))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxCh {
				sets, issues, err := sources[idx].Load(ctx)
				results[idx] = loaded{sets: sets, issues: issues, err: err}
			}
		}()
	}
	for i := range sources {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	// 2. Merge (source order, first wins)
	out := &Result{
		Companies: make([]contracts.MetricSet, 0),
		Sources:   make([]SourceResult, 0, len(sources)),
	}
	seen := make(map[string]string)
	failed := 0
	var errs []error

	for i, res := range results {
		name := sources[i].Name()
		sr := SourceResult{Source: name, Issues: len(res.issues), Error: res.err}

		if res.err != nil {
			failed++
			errs = append(errs, fmt.Errorf("%s: %w", name, res.err))
			c.logger.WithError(res.err).WithField("source", name).Warn("Source failed")
			out.Sources = append(out.Sources, sr)
			continue
		}

		out.Issues = append(out.Issues, res.issues...)
		for _, s := range res.sets {
			key := strings.ToUpper(s.Ticker)
			if key != "" {
				if first, dup := seen[key]; dup {
					out.Issues = append(out.Issues, s0_data.Issue{
						Ticker: s.Ticker,
						Field:  "ticker",
						Raw:    name,
						Reason: fmt.Sprintf("%s (kept %s)", ReasonDuplicate, first),
					})
					continue
				}
				seen[key] = name
			}
			out.Companies = append(out.Companies, s)
			sr.Count++
		}
		out.Sources = append(out.Sources, sr)
	}

	if failed == len(sources) {
		return nil, fmt.Errorf("all sources failed: %w", errors.Join(errs...))
	}

	c.logger.WithFields(map[string]interface{}{
		"companies": len(out.Companies),
		"issues":    len(out.Issues),
		"failed":    failed,
	}).Info("Metrics collection completed")

	return out, nil
}
